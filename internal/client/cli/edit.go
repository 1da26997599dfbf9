package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/client/autosave"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// runEditor is a test seam for launching the external editor.
var runEditor = func(ctx context.Context, command []string, path string) error {
	cmd := exec.CommandContext(ctx, command[0], append(command[1:], path)...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	return cmd.Run()
}

// Edit opens an entry in an external editor. The file is watched while the
// editor runs and every write feeds the autosave draft; the final text is
// saved when the editor exits.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := argID(args, 0)
	if err != nil {
		return err
	}
	e, err := a.entryService.Get(ctx, id)
	if err != nil {
		return a.fail(ctx, "load entry", err)
	}

	f, err := os.CreateTemp("", "journal-"+id.String()+"-*.md")
	if err != nil {
		return a.fail(ctx, "create draft file", err)
	}
	path := f.Name()
	_, err = f.WriteString(e.Content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return a.fail(ctx, "write draft file", err)
	}

	m, err := a.newMachine(ctx, id, e.Content, a.out)
	if err != nil {
		return a.fail(ctx, "open editor", err)
	}
	defer m.Close()

	stop, err := watchDraft(path, m, a.log)
	if err != nil {
		a.log.Warn(ctx, "draft watch unavailable", "path", path, "error", err)
	} else {
		defer stop()
	}

	if command := a.editorCommand(); len(command) > 0 {
		if err := runEditor(ctx, command, path); err != nil {
			a.printf("Editor exited with an error: %s\n", err)
		}
	} else {
		a.printf("No editor configured. Edit %s and press Enter when done.\n", path)
		if _, err := a.reader.ReadString('\n'); err != nil {
			a.log.Debug(ctx, "wait for enter", "error", err)
		}
	}

	if err := syncDraft(path, m); err != nil {
		return a.fail(ctx, "read draft file", err)
	}
	if err := m.SaveAndExit(ctx, func() { a.printf("Saved.\n") }); err != nil {
		a.printf("Your text is kept in %s\n", path)
		return a.fail(ctx, "save entry", err)
	}
	_ = os.Remove(path)
	return nil
}

func (a *App) editorCommand() []string {
	cmd := a.config.EditorCommand
	if cmd == "" {
		cmd = os.Getenv("EDITOR")
	}
	return strings.Fields(cmd)
}

// syncDraft copies the file content into the machine.
func syncDraft(path string, m *autosave.Machine) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	err = m.Edit(string(b))
	if errors.Is(err, autosave.ErrClosed) {
		return nil
	}
	return err
}

// watchDraft feeds every change of path into m until stop is called.
// The directory is watched because many editors replace the file on save.
func watchDraft(path string, m *autosave.Machine, log logging.Logger) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if err := syncDraft(path, m); err != nil && !errors.Is(err, os.ErrNotExist) {
					log.Warn(context.Background(), "read draft", "path", path, "error", err)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn(context.Background(), "draft watcher", "error", err)
			}
		}
	}()

	return func() {
		_ = w.Close()
		<-done
	}, nil
}
