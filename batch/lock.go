package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockName = ".reel.lock"

var ErrLibraryBusy = errors.New("library is being written by another process")

// Lock takes the exclusive write lock of the library rooted at root.
// The returned function releases it.
func Lock(root string) (func() error, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	lock := flock.New(filepath.Join(root, lockName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock library: %w", err)
	}
	if !locked {
		return nil, ErrLibraryBusy
	}
	return lock.Unlock, nil
}
