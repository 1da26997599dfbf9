package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Signup(ctx context.Context) error
	Verify(ctx context.Context) error
	Login(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Logout(ctx context.Context) error

	Dashboard(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	New(ctx context.Context, args []string) error
	Write(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Retitle(ctx context.Context, args []string) error
	Favorite(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Tag(ctx context.Context, args []string) error
	Move(ctx context.Context, args []string) error
	Folder(ctx context.Context, args []string) error
	Share(ctx context.Context, args []string) error
	Attach(ctx context.Context, args []string) error
	Media(ctx context.Context, args []string) error
	Autosave(ctx context.Context, args []string) error
}

const (
	helpGuest = "Available commands: signup, verify, login, reset, exit"
	helpUser  = "Available commands: home, (l)ist, search, show, new, write, edit, title, fav, delete, " +
		"tag, tags, move, folder, share, attach, media, autosave, logout, exit"
)

// runREPL reads commands from in until EOF, "exit" or "quit". Command
// handlers prompt through the same reader, so no input is lost between
// them.
//
// Arguments are split on whitespace; single or double quotes keep spaces
// inside one argument. Commands that need a session are refused while
// logged out. Handler errors are reported by the handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("journal %s> ", statusFn()))
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts, err := splitArgs(strings.TrimRight(line, "\r\n"))
		if err != nil {
			printlnFn("Error:", err)
			continue
		}
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "signup":
			_ = a.Signup(ctx)
			continue
		case "verify":
			_ = a.Verify(ctx)
			continue
		case "login":
			_ = a.Login(ctx)
			continue
		case "reset":
			_ = a.ResetPassword(ctx)
			continue
		}

		handler, ok := userCommand(a, cmd)
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if !a.isLoggedIn() {
			printlnFn("Please log in first.")
			continue
		}
		if err := handler(ctx, args); errors.Is(err, errUsage) {
			printlnFn("Usage:", usage[cmd])
		}
	}
}

var usage = map[string]string{
	"list":     "list [date YYYY-MM-DD | range FROM TO | tag NAME... | folder ID]",
	"l":        "list [date YYYY-MM-DD | range FROM TO | tag NAME... | folder ID]",
	"search":   "search TEXT",
	"show":     "show ID | show uuid UUID",
	"write":    "write ID",
	"edit":     "edit ID",
	"title":    "title ID NEW-TITLE",
	"fav":      "fav ID [on|off]",
	"delete":   "delete ID",
	"tag":      "tag add ID NAME... | tag rm ID NAME",
	"move":     "move ID FOLDER-ID|none",
	"folder":   "folder list | folder new NAME | folder rename ID NAME | folder delete ID",
	"share":    "share ID [--anyone] [EMAIL...] | share show SHARE-ID | share add|rm SHARE-ID EMAIL",
	"attach":   "attach ID PATH",
	"media":    "media ID",
	"autosave": "autosave [on|off]",
}

func userCommand(a execIface, cmd string) (func(context.Context, []string) error, bool) {
	switch cmd {
	case "home":
		return func(ctx context.Context, _ []string) error { return a.Dashboard(ctx) }, true
	case "l", "list":
		return a.List, true
	case "tags":
		return func(ctx context.Context, _ []string) error { return a.Tag(ctx, []string{"list"}) }, true
	case "search":
		return a.Search, true
	case "show":
		return a.Show, true
	case "new":
		return a.New, true
	case "write":
		return a.Write, true
	case "edit":
		return a.Edit, true
	case "title":
		return a.Retitle, true
	case "fav":
		return a.Favorite, true
	case "delete":
		return a.Delete, true
	case "tag":
		return a.Tag, true
	case "move":
		return a.Move, true
	case "folder":
		return a.Folder, true
	case "share":
		return a.Share, true
	case "attach":
		return a.Attach, true
	case "media":
		return a.Media, true
	case "autosave":
		return a.Autosave, true
	case "logout":
		return func(ctx context.Context, _ []string) error { return a.Logout(ctx) }, true
	}
	return nil, false
}

// splitArgs splits a command line into words. Quotes group words and are
// removed; a backslash escapes the next rune.
func splitArgs(line string) ([]string, error) {
	var (
		out     []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped, inWord = true, true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote, inWord = r, true
		case unicode.IsSpace(r):
			if inWord {
				out = append(out, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inWord {
		out = append(out, cur.String())
	}
	return out, nil
}
