package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcher_ReportsYAMLChanges(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "locales")
	w, err := NewWatcher(dir, nil)
	require.NoError(t, err)
	defer w.Stop()

	require.NoError(t, w.Start(context.Background()))
	require.DirExists(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	path := filepath.Join(dir, "de.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode:\n  normal: Normal\n"), 0644))

	select {
	case got := <-w.Changes():
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Start(ctx), "second start is a no-op")

	cancel()
	w.Stop()
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w, err := NewWatcher(t.TempDir(), nil)
	require.NoError(t, err)
	w.Stop()
}
