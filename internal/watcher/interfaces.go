package watcher

import "context"

// FileWatcher monitors a fixed set of files for changes with debouncing.
type FileWatcher interface {
	// Start begins watching, calling callback with the debounced set of changed files.
	// Callbacks run one at a time on the watcher goroutine.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the file watcher and cleans up resources.
	Stop() error
}
