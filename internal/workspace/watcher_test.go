package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/querypad/querypad/internal/notify"
	"github.com/querypad/querypad/internal/testutil"
)

func TestWatchFile_BroadcastsOnChange(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "connections.json")

	notifier := notify.New()
	ch := notifier.Subscribe()
	defer notifier.Unsubscribe(ch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, notifier, testutil.NewTestLogger(t))
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`{"connections":[]}`), 0o600))

	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a broadcast after the file changed")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatchFile_IgnoresOtherFiles(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "connections.json")

	notifier := notify.New()
	ch := notifier.Subscribe()
	defer notifier.Unsubscribe(ch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = watchFile(ctx, path, notifier, nil)
	}()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(tmp, "unrelated.txt"), []byte("x"), 0o600))

	select {
	case <-ch:
		t.Fatal("unrelated file should not trigger a broadcast")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatchConnections_StopsOnCancel(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	_, err := EnsureDir()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- WatchConnections(ctx, notify.New(), testutil.NewTestLogger(t))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
