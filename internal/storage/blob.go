package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Blob.Read when no document has been written yet
var ErrNotFound = errors.New("document not found")

// Blob is a single named document in a backing store
type Blob interface {
	// Read returns the stored bytes, or an error matching ErrNotFound
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored bytes wholesale
	Write(ctx context.Context, data []byte) error
}

// Preparer is implemented by blobs that need setup, such as creating a directory
type Preparer interface {
	Prepare() error
}

// FileBlob stores a document in a single file
type FileBlob struct {
	path string
}

// NewFileBlob creates a blob backed by path
func NewFileBlob(path string) *FileBlob {
	return &FileBlob{path: path}
}

// Path returns the file path
func (b *FileBlob) Path() string {
	return b.path
}

// Prepare ensures the parent directory exists
func (b *FileBlob) Prepare() error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// Read returns the file contents
func (b *FileBlob) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, b.path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", b.path, err)
	}
	return data, nil
}

// Write overwrites the file with data in a single write
func (b *FileBlob) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(b.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", b.path, err)
	}
	return nil
}
