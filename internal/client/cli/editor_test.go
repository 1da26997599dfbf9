package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/client/ids"
	"github.com/dmitrijs2005/gophjournal/internal/client/models"
	"github.com/stretchr/testify/require"
)

func appWithEntry(input string, content string) (*App, *fakeEntries, *fakePrefs) {
	a, _ := newTestApp(input)
	entries := newFakeEntries(models.Entry{ID: ids.ID(7), Title: "Day", Content: content})
	a.entryService = entries
	return a, entries, a.prefs.(*fakePrefs)
}

func TestWrite_AppendsLinesAndSavesOnQuit(t *testing.T) {
	a, entries, _ := appWithEntry("first\nsecond\n:d\nthird\n:q\n", "")
	out := a.out.(interface{ String() string })

	require.NoError(t, a.Write(context.Background(), []string{"7"}))
	require.Equal(t, []string{"first\nthird"}, entries.Saved())
	require.Contains(t, out.String(), "Saved.")
}

func TestWrite_KeepsExistingContent(t *testing.T) {
	a, entries, _ := appWithEntry("more\n:q\n", "already here")

	require.NoError(t, a.Write(context.Background(), []string{"7"}))
	require.Equal(t, []string{"already here\nmore"}, entries.Saved())
}

func TestWrite_QuitWithoutSaving(t *testing.T) {
	a, entries, _ := appWithEntry("draft\n:q!\n", "")
	out := a.out.(interface{ String() string })

	require.NoError(t, a.Write(context.Background(), []string{"7"}))
	require.Empty(t, entries.Saved())
	require.Contains(t, out.String(), "Unsaved changes discarded.")
}

func TestWrite_SaveNowKeepsSessionOpen(t *testing.T) {
	a, entries, _ := appWithEntry("one\n:w\ntwo\n:q\n", "")

	require.NoError(t, a.Write(context.Background(), []string{"7"}))
	require.Equal(t, []string{"one", "one\ntwo"}, entries.Saved())
}

func TestWrite_EOFSaves(t *testing.T) {
	a, entries, _ := appWithEntry("last words", "")

	require.NoError(t, a.Write(context.Background(), []string{"7"}))
	require.Equal(t, []string{"last words"}, entries.Saved())
}

func TestWrite_FailedSaveKeepsDraft(t *testing.T) {
	a, entries, _ := appWithEntry("text\n:q\n", "")
	entries.saveErr = errors.New("boom")
	out := a.out.(interface{ String() string })

	err := a.Write(context.Background(), []string{"7"})
	require.Error(t, err)
	require.Empty(t, entries.Saved())
	require.Contains(t, out.String(), "Save failed, draft kept")
}

func TestWrite_AutosaveToggleIsStored(t *testing.T) {
	a, _, prefs := appWithEntry(":autosave on\n:autosave off\n:q!\n", "")

	require.NoError(t, a.Write(context.Background(), []string{"7"}))
	require.Equal(t, []bool{true, false}, prefs.set)
}

func TestWrite_UnknownEntry(t *testing.T) {
	a, _, _ := appWithEntry(":q\n", "")

	require.Error(t, a.Write(context.Background(), []string{"8"}))
	require.ErrorIs(t, a.Write(context.Background(), nil), errUsage)
}

func TestWrite_BackgroundAutosave(t *testing.T) {
	a, entries, prefs := appWithEntry("", "")
	prefs.on = true
	a.config.AutosaveDebounce = 20 * time.Millisecond

	pr, pw := io.Pipe()
	a.reader = bufio.NewReader(pr)

	done := make(chan error, 1)
	go func() { done <- a.Write(context.Background(), []string{"7"}) }()

	_, err := pw.Write([]byte("typed while idle\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return len(entries.Saved()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, err = pw.Write([]byte(":q!\n"))
	require.NoError(t, err)
	require.NoError(t, <-done)
	require.NoError(t, pw.Close())

	require.Equal(t, []string{"typed while idle"}, entries.Saved())
}

func TestEdit_ExternalEditorResultIsSaved(t *testing.T) {
	a, entries, _ := appWithEntry("", "before")
	a.config.EditorCommand = "fake-editor --wait"

	var seen []string
	orig := runEditor
	runEditor = func(_ context.Context, command []string, path string) error {
		seen = command
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if string(b) != "before" {
			return errors.New("draft file does not hold the entry")
		}
		return os.WriteFile(path, []byte("after the editor"), 0o600)
	}
	t.Cleanup(func() { runEditor = orig })

	require.NoError(t, a.Edit(context.Background(), []string{"7"}))
	require.Equal(t, []string{"fake-editor", "--wait"}, seen)

	saved := entries.Saved()
	require.NotEmpty(t, saved)
	require.Equal(t, "after the editor", saved[len(saved)-1])
}

func TestEdit_NoEditorWaitsForEnter(t *testing.T) {
	t.Setenv("EDITOR", "")
	a, entries, _ := appWithEntry("\n", "unchanged")

	require.NoError(t, a.Edit(context.Background(), []string{"7"}))
	require.Equal(t, []string{"unchanged"}, entries.Saved())
}
