package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	// ErrOutOfRange is returned when a read does not fit the stored blob.
	ErrOutOfRange = errors.New("asset read out of range")
	// ErrNotInstalled is returned when the persistent store holds no atlas.
	ErrNotInstalled = errors.New("asset atlas not installed")
)

// Store is read-only, addressable asset memory.
type Store interface {
	Load(ctx context.Context, offset, length int) ([]byte, error)
}

// MemStore serves assets from a byte slice.
type MemStore struct {
	data []byte
}

// NewMemStore wraps data.
func NewMemStore(data []byte) *MemStore {
	return &MemStore{data: data}
}

func (m *MemStore) Load(ctx context.Context, offset, length int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkRange(offset, length, len(m.data)); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.data[offset:offset+length])
	return out, nil
}

// Size returns the size of the blob.
func (m *MemStore) Size() int { return len(m.data) }

// FileStore reads assets from a file written by WriteAtlas.
type FileStore struct {
	mu   sync.Mutex
	f    *os.File
	size int64
}

// OpenFile opens an atlas file.
func OpenFile(path string) (*FileStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open asset file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat asset file: %w", err)
	}
	return &FileStore{f: f, size: info.Size()}, nil
}

func (s *FileStore) Load(ctx context.Context, offset, length int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkRange(offset, length, int(s.size)); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.f.ReadAt(out, int64(offset)); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read asset file: %w", err)
	}
	return out, nil
}

// Close releases the file.
func (s *FileStore) Close() error {
	return s.f.Close()
}

func checkRange(offset, length, size int) error {
	if offset < 0 || length < 0 || offset+length > size {
		return fmt.Errorf("%w: offset %d length %d size %d", ErrOutOfRange, offset, length, size)
	}
	return nil
}
