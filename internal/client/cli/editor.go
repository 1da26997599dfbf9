package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/client/autosave"
	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
)

// autosavePrefs is the persisted autosave switch.
type autosavePrefs interface {
	AutosaveEnabled(ctx context.Context) bool
	Set(ctx context.Context, enabled bool) error
}

const writeHelp = `Type lines to append to the entry. Commands:
  :w              save now
  :q              save and leave
  :q!             leave without saving
  :d              drop the last line
  :show           print the draft
  :autosave on|off
`

// newMachine builds an autosave machine for id with the stored preference
// and reports background save outcomes to out.
func (a *App) newMachine(ctx context.Context, id ids.ID, content string, out io.Writer) (*autosave.Machine, error) {
	m := autosave.New(a.entryService,
		autosave.WithDebounce(a.config.AutosaveDebounce),
		autosave.WithEnabled(a.prefs.AutosaveEnabled(ctx)),
		autosave.WithLogger(a.log),
		autosave.WithContext(ctx),
	)
	m.OnChange(saveReporter(out))
	if err := m.Load(id, content); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

// saveReporter prints a short note whenever a save finishes.
func saveReporter(out io.Writer) func(autosave.Event) {
	var prev autosave.State
	return func(ev autosave.Event) {
		switch {
		case ev.State == autosave.Error:
			fmt.Fprintf(out, "[save failed: %s]\n", describe(ev.Err))
		case prev == autosave.Saving && ev.State == autosave.Idle:
			fmt.Fprintln(out, "[saved]")
		}
		prev = ev.State
	}
}

// Write opens a line editor on an entry. Typed lines are appended to the
// draft, which is saved in the background when autosave is on.
func (a *App) Write(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}
	e, err := a.entryService.Get(ctx, id)
	if err != nil {
		return a.fail(ctx, "load entry", err)
	}

	m, err := a.newMachine(ctx, id, e.Content, a.out)
	if err != nil {
		return a.fail(ctx, "open editor", err)
	}
	defer m.Close()

	s := &editSession{machine: m, prefs: a.prefs, out: a.out}
	a.printf("%s", writeHelp)
	if e.Content != "" {
		a.printf("%s\n", e.Content)
	}

	for {
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				return s.saveAndLeave(ctx)
			}
			return err
		}
		done, err := s.handle(ctx, strings.TrimRight(line, "\r\n"))
		if err != nil {
			a.log.Warn(ctx, "editor command failed", "entry_id", id, "error", err)
		}
		if done {
			return nil
		}
	}
}

type editSession struct {
	machine *autosave.Machine
	prefs   autosavePrefs
	out     io.Writer
}

// handle applies one input line and reports whether the session ended.
func (s *editSession) handle(ctx context.Context, line string) (bool, error) {
	cmd := strings.TrimSpace(line)
	switch cmd {
	case ":w":
		if err := s.machine.SaveAndExit(ctx, nil); err != nil {
			fmt.Fprintf(s.out, "Save failed: %s\n", describe(err))
			return false, err
		}
		return false, nil

	case ":q":
		return s.saveAndLeave(ctx) == nil, nil

	case ":q!":
		if s.machine.State() != autosave.Idle {
			fmt.Fprintln(s.out, "Unsaved changes discarded.")
		}
		return true, nil

	case ":d":
		draft := s.machine.Draft()
		if i := strings.LastIndexByte(draft, '\n'); i >= 0 {
			draft = draft[:i]
		} else {
			draft = ""
		}
		return false, s.machine.Edit(draft)

	case ":show":
		fmt.Fprintln(s.out, s.machine.Draft())
		return false, nil

	case ":autosave on", ":autosave off":
		on := cmd == ":autosave on"
		if err := s.prefs.Set(ctx, on); err != nil {
			fmt.Fprintf(s.out, "Could not store preference: %s\n", describe(err))
		}
		s.machine.SetEnabled(on)
		fmt.Fprintf(s.out, "Autosave %s.\n", onOff(on))
		return false, nil
	}

	draft := s.machine.Draft()
	if draft != "" {
		draft += "\n"
	}
	return false, s.machine.Edit(draft + line)
}

// saveAndLeave saves the draft; on failure the session stays open so no
// text is lost.
func (s *editSession) saveAndLeave(ctx context.Context) error {
	err := s.machine.SaveAndExit(ctx, func() { fmt.Fprintln(s.out, "Saved.") })
	if err != nil {
		fmt.Fprintf(s.out, "Save failed, draft kept: %s\n", describe(err))
	}
	return err
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// Autosave shows or sets the stored autosave preference.
func (a *App) Autosave(ctx context.Context, args []string) error {
	switch {
	case len(args) == 0:
		a.printf("Autosave is %s.\n", onOff(a.prefs.AutosaveEnabled(ctx)))
		return nil
	case len(args) == 1 && (args[0] == "on" || args[0] == "off"):
		on := args[0] == "on"
		if err := a.prefs.Set(ctx, on); err != nil {
			return a.fail(ctx, "store autosave preference", err)
		}
		a.printf("Autosave %s.\n", onOff(on))
		return nil
	}
	return errUsage
}
