package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, opts Options) (*Watcher, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	w, err := New(logger, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	return w, t.TempDir()
}

func start(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Start(ctx) //nolint:errcheck // Test goroutine
}

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case event := <-w.Events():
		return event
	case err := <-w.Errors():
		t.Fatalf("unexpected error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}
	return Event{}
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "added", EventAdded.String())
	assert.Equal(t, "modified", EventModified.String())
	assert.Equal(t, "removed", EventRemoved.String())
	assert.Equal(t, "unknown", EventType(42).String())
}

func TestWatcher_WatchRejectsFiles(t *testing.T) {
	w, dir := newTestWatcher(t, Options{})
	file := filepath.Join(dir, "top_scores.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))

	assert.Error(t, w.Watch(file))
	assert.Error(t, w.Watch(filepath.Join(dir, "missing")))
}

func TestWatcher_FileCreation(t *testing.T) {
	w, dir := newTestWatcher(t, Options{SettleDelay: 30 * time.Millisecond})
	require.NoError(t, w.Watch(dir))
	start(t, w)

	file := filepath.Join(dir, "top_games.json")
	require.NoError(t, os.WriteFile(file, []byte(`[{"gameId": 1}]`), 0o644))

	event := waitEvent(t, w)
	assert.Equal(t, EventAdded, event.Type)
	assert.Equal(t, file, event.Path)
	assert.Equal(t, int64(15), event.Size)
}

func TestWatcher_ModifyKnownFile(t *testing.T) {
	w, dir := newTestWatcher(t, Options{SettleDelay: 30 * time.Millisecond})
	file := filepath.Join(dir, "wallets.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"count": 1}`), 0o644))

	require.NoError(t, w.Watch(dir))
	start(t, w)

	// Several quick writes settle into one event.
	for i := range 3 {
		require.NoError(t, os.WriteFile(file, fmt.Appendf(nil, `{"count": %d}`, i+2), 0o644))
	}

	event := waitEvent(t, w)
	assert.Equal(t, EventModified, event.Type)
	assert.Equal(t, file, event.Path)

	select {
	case extra := <-w.Events():
		t.Fatalf("expected a single settled event, got extra %+v", extra)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_FileDeletion(t *testing.T) {
	w, dir := newTestWatcher(t, Options{})
	file := filepath.Join(dir, "top_scores.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))

	require.NoError(t, w.Watch(dir))
	start(t, w)

	require.NoError(t, os.Remove(file))

	event := waitEvent(t, w)
	assert.Equal(t, EventRemoved, event.Type)
	assert.Equal(t, file, event.Path)
}

func TestWatcher_FiltersByExtensionAndHidden(t *testing.T) {
	w, dir := newTestWatcher(t, Options{
		Extensions:  []string{".json"},
		SettleDelay: 30 * time.Millisecond,
	})
	require.NoError(t, w.Watch(dir))
	start(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	wanted := filepath.Join(dir, "activity-2025-02.json")
	require.NoError(t, os.WriteFile(wanted, []byte("{}"), 0o644))

	event := waitEvent(t, w)
	assert.Equal(t, wanted, event.Path)

	select {
	case extra := <-w.Events():
		t.Fatalf("unexpected event for filtered file: %+v", extra)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, _ := newTestWatcher(t, Options{})
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
