package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NothingToWatch(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to watch")
}

func TestWatcher_Relevant(t *testing.T) {
	root := t.TempDir()
	cfg := filepath.Join(root, "hostsgen.yml")
	mods := filepath.Join(root, "mods")
	require.NoError(t, os.WriteFile(cfg, []byte("name: demo\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(mods, "base"), 0755))

	w, err := New(cfg, mods)
	require.NoError(t, err)
	defer w.watcher.Close()
	w.Ignore(filepath.Join(mods, "out.hosts"))

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"config write", fsnotify.Event{Name: cfg, Op: fsnotify.Write}, true},
		{"output in root ignored", fsnotify.Event{Name: filepath.Join(root, "hosts"), Op: fsnotify.Write}, false},
		{"module file", fsnotify.Event{Name: filepath.Join(mods, "web.hosts"), Op: fsnotify.Create}, true},
		{"module dir file", fsnotify.Event{Name: filepath.Join(mods, "base", "hosts"), Op: fsnotify.Write}, true},
		{"chmod only", fsnotify.Event{Name: cfg, Op: fsnotify.Chmod}, false},
		{"ignored output", fsnotify.Event{Name: filepath.Join(mods, "out.hosts"), Op: fsnotify.Write}, false},
		{"temp file", fsnotify.Event{Name: filepath.Join(mods, ".out.hosts.123.tmp"), Op: fsnotify.Create}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.event))
		})
	}

	assert.Len(t, w.Paths(), 3)
}

func TestWatcher_ProjectRootLayout(t *testing.T) {
	root := t.TempDir()
	cfg := filepath.Join(root, "hostsgen.yml")
	state := filepath.Join(root, ".hostsgen")
	backups := filepath.Join(root, "backups")
	require.NoError(t, os.WriteFile(cfg, []byte("name: demo\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(state, "backups"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))
	require.NoError(t, os.MkdirAll(backups, 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "base"), 0755))

	w, err := New(cfg, root)
	require.NoError(t, err)
	defer w.watcher.Close()
	w.Ignore(filepath.Join(root, "hosts"), backups, filepath.Join(state, "journal.log"))

	assert.ElementsMatch(t, []string{root, backups, filepath.Join(root, "base")}, w.Paths())

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"journal append", fsnotify.Event{Name: filepath.Join(state, "journal.log"), Op: fsnotify.Write}, false},
		{"state dir created", fsnotify.Event{Name: state, Op: fsnotify.Create}, false},
		{"backup written", fsnotify.Event{Name: filepath.Join(backups, "hosts.20240501-120000.000.bak"), Op: fsnotify.Create}, false},
		{"output written", fsnotify.Event{Name: filepath.Join(root, "hosts"), Op: fsnotify.Write}, false},
		{"module file", fsnotify.Event{Name: filepath.Join(root, "web.hosts"), Op: fsnotify.Write}, true},
		{"module dir file", fsnotify.Event{Name: filepath.Join(root, "base", "hosts"), Op: fsnotify.Write}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.event))
		})
	}
}

func TestWatcher_RunIgnoresOwnWrites(t *testing.T) {
	root := t.TempDir()
	state := filepath.Join(root, ".hostsgen")
	require.NoError(t, os.MkdirAll(state, 0755))

	w, err := New(root)
	require.NoError(t, err)
	w.Debounce = 20 * time.Millisecond
	w.Ignore(filepath.Join(root, "hosts"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { changes <- struct{}{} })
	}()

	require.NoError(t, os.WriteFile(filepath.Join(state, "journal.log"), []byte("{}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "hosts"), []byte("127.0.0.1 web.local\n"), 0644))

	select {
	case <-changes:
		t.Fatal("own writes reported as a change")
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_Run(t *testing.T) {
	root := t.TempDir()
	mods := filepath.Join(root, "mods")
	require.NoError(t, os.MkdirAll(mods, 0755))

	w, err := New(mods)
	require.NoError(t, err)
	w.Debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() { changes <- struct{}{} })
	}()

	require.NoError(t, os.WriteFile(filepath.Join(mods, "web.hosts"), []byte("127.0.0.1 web.local\n"), 0644))

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
