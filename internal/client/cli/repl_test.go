package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
	err   error
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) call(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) Signup(context.Context) error        { return f.call("signup", nil) }
func (f *fakeExec) Verify(context.Context) error        { return f.call("verify", nil) }
func (f *fakeExec) ResetPassword(context.Context) error { return f.call("reset", nil) }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.call("login", nil)
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.call("logout", nil)
}
func (f *fakeExec) Dashboard(context.Context) error { return f.call("home", nil) }
func (f *fakeExec) List(_ context.Context, a []string) error {
	return f.call("list", a)
}
func (f *fakeExec) Search(_ context.Context, a []string) error   { return f.call("search", a) }
func (f *fakeExec) Show(_ context.Context, a []string) error     { return f.call("show", a) }
func (f *fakeExec) New(_ context.Context, a []string) error      { return f.call("new", a) }
func (f *fakeExec) Write(_ context.Context, a []string) error    { return f.call("write", a) }
func (f *fakeExec) Edit(_ context.Context, a []string) error     { return f.call("edit", a) }
func (f *fakeExec) Retitle(_ context.Context, a []string) error  { return f.call("title", a) }
func (f *fakeExec) Favorite(_ context.Context, a []string) error { return f.call("fav", a) }
func (f *fakeExec) Delete(_ context.Context, a []string) error   { return f.call("delete", a) }
func (f *fakeExec) Tag(_ context.Context, a []string) error      { return f.call("tag", a) }
func (f *fakeExec) Move(_ context.Context, a []string) error     { return f.call("move", a) }
func (f *fakeExec) Folder(_ context.Context, a []string) error   { return f.call("folder", a) }
func (f *fakeExec) Share(_ context.Context, a []string) error    { return f.call("share", a) }
func (f *fakeExec) Attach(_ context.Context, a []string) error   { return f.call("attach", a) }
func (f *fakeExec) Media(_ context.Context, a []string) error    { return f.call("media", a) }
func (f *fakeExec) Autosave(_ context.Context, a []string) error { return f.call("autosave", a) }

// capturePrintln collects REPL output for the duration of the test.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = strings.TrimSpace(strings.TrimSuffix(toString(v), "\n"))
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case error:
		return s.Error()
	default:
		return ""
	}
}

func runLines(t *testing.T, exec *fakeExec, lines ...string) []string {
	t.Helper()
	out := capturePrintln(t)
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, in)
	return *out
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	exec := &fakeExec{}
	runLines(t, exec,
		"help",
		"login",
		"help",
		"new",
		"list",
		"show 123",
		"foobar",
		"logout",
		"exit",
	)

	require.Equal(t, []string{"login", "new", "list", "show", "logout"}, exec.calls)
	require.Equal(t, []string{"123"}, exec.args[3])
}

func TestRunREPL_RequiresLogin(t *testing.T) {
	exec := &fakeExec{}
	out := runLines(t, exec, "list", "write 5", "quit")

	require.Empty(t, exec.calls)
	require.Contains(t, out, "Please log in first.")
}

func TestRunREPL_QuotedArguments(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	runLines(t, exec, `tag add 7 "a b/c" '100%'`, `tags`, "exit")

	require.Equal(t, []string{"tag", "tag"}, exec.calls)
	require.Equal(t, []string{"add", "7", "a b/c", "100%"}, exec.args[0])
	require.Equal(t, []string{"list"}, exec.args[1])
}

func TestRunREPL_UsageOnBadArguments(t *testing.T) {
	exec := &fakeExec{loggedIn: true, err: errUsage}
	out := runLines(t, exec, "move 1", "quit")

	require.Contains(t, out, "Usage: "+usage["move"])
}

func TestRunREPL_UnterminatedQuote(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	out := runLines(t, exec, `search "open`, "quit")

	require.Empty(t, exec.calls)
	require.Contains(t, out, "Error: unterminated \" quote")
}

func TestRunREPL_StopsAtEOF(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	runLines(t, exec, "home")

	require.Equal(t, []string{"home"}, exec.calls)
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "   ", nil},
		{"plain", "list tag work", []string{"list", "tag", "work"}},
		{"double quotes", `folder new "Trips 2026"`, []string{"folder", "new", "Trips 2026"}},
		{"single quotes keep double", `title 3 'say "hi"'`, []string{"title", "3", `say "hi"`}},
		{"escaped space", `tag add 1 a\ b`, []string{"tag", "add", "1", "a b"}},
		{"empty quoted arg", `title 1 ""`, []string{"title", "1", ""}},
		{"adjacent quoted parts", `x"y z"w`, []string{"xy zw"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := splitArgs(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSplitArgs_Errors(t *testing.T) {
	_, err := splitArgs(`a 'b`)
	require.Error(t, err)

	_, err = splitArgs(`a b\`)
	require.Error(t, err)
}
