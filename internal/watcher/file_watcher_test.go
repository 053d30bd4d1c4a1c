package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileWatcher:
// - NewFileWatcher creates watcher for files whose directory exists
// - NewFileWatcher returns error when a file's directory does not exist
// - Writing a watched file fires callback after debounce
// - Rapid writes are coalesced into a single callback
// - Creating a watched file (atomic replace) fires callback
// - Changes to unwatched files in the same directory are ignored
// - Context cancellation stops watcher
// - Concurrent Stop() calls are safe

const testDebounce = 100 * time.Millisecond

// callbackRecorder collects callback batches.
type callbackRecorder struct {
	mu      sync.Mutex
	batches [][]string
}

func (r *callbackRecorder) callback(files []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, files)
}

func (r *callbackRecorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.batches...)
}

// Test: NewFileWatcher creates watcher for a file that does not exist yet
func TestNewFileWatcher_Success(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	watcher, err := NewFileWatcher([]string{filepath.Join(tempDir, "compile_commands.json")}, testDebounce, nil)
	require.NoError(t, err)
	require.NotNil(t, watcher)

	require.NoError(t, watcher.Stop())
}

// Test: NewFileWatcher returns error with invalid directory
func TestNewFileWatcher_InvalidDirectory(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nonexistent", "compile_commands.json")

	watcher, err := NewFileWatcher([]string{missing}, testDebounce, nil)
	assert.Error(t, err)
	assert.Nil(t, watcher)
}

// Test: Writing a watched file fires callback with its path
func TestFileWatcher_WriteFiresCallback(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	db := filepath.Join(tempDir, "compile_commands.json")
	require.NoError(t, os.WriteFile(db, []byte("[]"), 0644))

	watcher, err := NewFileWatcher([]string{db}, testDebounce, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	rec := &callbackRecorder{}
	require.NoError(t, watcher.Start(context.Background(), rec.callback))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(db, []byte(`[{"directory":"/","file":"a.c","command":"gcc -DA"}]`), 0644))

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, []string{db}, rec.snapshot()[0])
}

// Test: Rapid writes coalesce into one callback
func TestFileWatcher_Debounces(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	db := filepath.Join(tempDir, "compile_commands.json")
	cfg := filepath.Join(tempDir, ".ccconv.yml")

	watcher, err := NewFileWatcher([]string{db, cfg}, testDebounce, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	rec := &callbackRecorder{}
	require.NoError(t, watcher.Start(context.Background(), rec.callback))
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(db, []byte("[]"), 0644))
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, os.WriteFile(cfg, []byte("enabled: [ale]\n"), 0644))

	require.Eventually(t, func() bool { return len(rec.snapshot()) >= 1 }, 2*time.Second, 20*time.Millisecond)
	time.Sleep(3 * testDebounce)

	batches := rec.snapshot()
	require.Len(t, batches, 1)
	assert.ElementsMatch(t, []string{db, cfg}, batches[0])
}

// Test: Atomic replace (write temp + rename over target) is noticed
func TestFileWatcher_AtomicReplace(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	db := filepath.Join(tempDir, "compile_commands.json")

	watcher, err := NewFileWatcher([]string{db}, testDebounce, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	rec := &callbackRecorder{}
	require.NoError(t, watcher.Start(context.Background(), rec.callback))
	time.Sleep(50 * time.Millisecond)

	tmp := filepath.Join(tempDir, "compile_commands.json.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("[]"), 0644))
	require.NoError(t, os.Rename(tmp, db))

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, []string{db}, rec.snapshot()[0])
}

// Test: Unwatched files in the watched directory are ignored
func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	watcher, err := NewFileWatcher([]string{filepath.Join(tempDir, "compile_commands.json")}, testDebounce, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	rec := &callbackRecorder{}
	require.NoError(t, watcher.Start(context.Background(), rec.callback))
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "cdt.xml"), []byte("<x/>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".lvimrc"), []byte(`" x`), 0644))

	time.Sleep(4 * testDebounce)
	assert.Empty(t, rec.snapshot())
}

// Test: Context cancellation stops the watch loop
func TestFileWatcher_ContextCancellation(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	db := filepath.Join(tempDir, "compile_commands.json")

	watcher, err := NewFileWatcher([]string{db}, testDebounce, nil)
	require.NoError(t, err)

	rec := &callbackRecorder{}
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, watcher.Start(ctx, rec.callback))
	time.Sleep(50 * time.Millisecond)

	cancel()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(db, []byte("[]"), 0644))
	time.Sleep(4 * testDebounce)

	assert.Empty(t, rec.snapshot())
	require.NoError(t, watcher.Stop())
}

// Test: Concurrent Stop() calls are safe
func TestFileWatcher_ConcurrentStop(t *testing.T) {
	t.Parallel()

	watcher, err := NewFileWatcher([]string{filepath.Join(t.TempDir(), "db.json")}, testDebounce, nil)
	require.NoError(t, err)
	require.NoError(t, watcher.Start(context.Background(), func([]string) {}))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = watcher.Stop()
		}()
	}
	wg.Wait()
}
