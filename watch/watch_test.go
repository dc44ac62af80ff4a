package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string) (chan struct{}, chan error, context.CancelFunc) {
	t.Helper()
	changed := make(chan struct{}, 8)
	w := New(path, func() { changed <- struct{}{} })
	w.pollInterval = 50 * time.Millisecond
	w.settleInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- w.Run(ctx) }()
	return changed, runErr, cancel
}

func waitChange(t *testing.T, changed chan struct{}) {
	t.Helper()
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestAppendTriggersChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.adi")
	require.NoError(t, os.WriteFile(path, []byte("<EOH>\n"), 0o644))

	changed, runErr, cancel := startWatcher(t, path)
	defer cancel()

	time.Sleep(100 * time.Millisecond) // let the watch install
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("<CALL:5>K5QRP <EOR>\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	waitChange(t, changed)

	cancel()
	select {
	case err := <-runErr:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestReplaceTriggersChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.adi")
	require.NoError(t, os.WriteFile(path, []byte("<EOH>\n"), 0o644))

	changed, _, cancel := startWatcher(t, path)
	defer cancel()
	time.Sleep(100 * time.Millisecond)

	// the save dance many loggers do: write a temp file, rename over
	tmp := filepath.Join(dir, "log.adi.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("<EOH>\n<CALL:5>K5QRP <EOR>\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	waitChange(t, changed)
}

func TestUnrelatedFileIgnoredByEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log.adi")
	require.NoError(t, os.WriteFile(path, []byte("<EOH>\n"), 0o644))

	changed, _, cancel := startWatcher(t, path)
	defer cancel()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	select {
	case <-changed:
		t.Fatal("notification for an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}
