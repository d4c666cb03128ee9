package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	verrors "github.com/Humphrey-He/vanya/pkg/errors"
)

var slotNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// FileStorage keeps one file per slot inside a directory.
// Writes go to a temporary file that is renamed over the slot file, so a
// crash never leaves a half-written snapshot behind.
//
// FileStorage 在目录中为每个槽保存一个文件。
// 写入先写临时文件再重命名覆盖槽文件，因此崩溃不会留下写了一半的快照。
type FileStorage struct {
	dir    string
	mu     sync.RWMutex
	closed bool
}

// NewFileStorage creates the directory if needed and returns a FileStorage rooted at it.
//
// NewFileStorage 在需要时创建目录，并返回以其为根的FileStorage。
func NewFileStorage(dir string) (*FileStorage, error) {
	if dir == "" {
		return nil, fmt.Errorf("file storage requires a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (f *FileStorage) path(name string) (string, error) {
	if name == "" {
		return "", verrors.ErrSlotNameEmpty
	}
	if !slotNamePattern.MatchString(name) {
		return "", fmt.Errorf("invalid slot name %q", name)
	}
	return filepath.Join(f.dir, name+".snapshot"), nil
}

// Get reads the slot file.
func (f *FileStorage) Get(ctx context.Context, name string) ([]byte, bool, error) {
	p, err := f.path(name)
	if err != nil {
		return nil, false, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return nil, false, verrors.NewSlotError(name, verrors.ErrClosed)
	}

	blob, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read slot %s: %w", name, err)
	}
	return blob, true, nil
}

// Set atomically replaces the slot file.
func (f *FileStorage) Set(ctx context.Context, name string, blob []byte) error {
	p, err := f.path(name)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return verrors.NewSlotError(name, verrors.ErrClosed)
	}

	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for slot %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write slot %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("failed to replace slot %s: %w", name, err)
	}
	return nil
}

// Delete removes the slot file.
func (f *FileStorage) Delete(ctx context.Context, name string) (bool, error) {
	p, err := f.path(name)
	if err != nil {
		return false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false, verrors.NewSlotError(name, verrors.ErrClosed)
	}

	err = os.Remove(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete slot %s: %w", name, err)
	}
	return true, nil
}

// Close marks the storage closed. Files are left on disk.
func (f *FileStorage) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}
