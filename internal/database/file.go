package database

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"
)

// FileStore keeps each document as <dir>/<name>.json.
type FileStore struct {
	dir   string
	locks map[Document]*sync.Mutex

	// digests of the last bytes this store wrote, to tell own writes from external ones
	mu      sync.Mutex
	written map[Document][sha256.Size]byte
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	locks := make(map[Document]*sync.Mutex, len(Documents))
	for _, d := range Documents {
		locks[d] = &sync.Mutex{}
	}
	return &FileStore{dir: dir, locks: locks, written: make(map[Document][sha256.Size]byte)}, nil
}

// Path returns the file backing doc.
func (s *FileStore) Path(doc Document) string {
	return filepath.Join(s.dir, string(doc)+".json")
}

func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) lock(doc Document) (*sync.Mutex, error) {
	mu, ok := s.locks[doc]
	if !ok {
		return nil, fmt.Errorf("unknown document %q", doc)
	}
	return mu, nil
}

func (s *FileStore) Load(ctx context.Context, doc Document) ([]byte, error) {
	mu, err := s.lock(doc)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	defer mu.Unlock()
	return s.read(ctx, doc)
}

func (s *FileStore) Save(ctx context.Context, doc Document, data []byte) error {
	mu, err := s.lock(doc)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	return s.write(ctx, doc, data)
}

func (s *FileStore) Update(ctx context.Context, doc Document, fn UpdateFunc) error {
	mu, err := s.lock(doc)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()

	current, err := s.read(ctx, doc)
	if err != nil && !errors.Is(err, ErrNotExist) {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	return s.write(ctx, doc, next)
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) read(ctx context.Context, doc Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(doc))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", doc, err)
	}
	return data, nil
}

// write replaces the file atomically: temp file, fsync, rename.
func (s *FileStore) write(ctx context.Context, doc Document, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := renameio.WriteFile(s.Path(doc), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", doc, err)
	}
	s.mu.Lock()
	s.written[doc] = sha256.Sum256(data)
	s.mu.Unlock()
	return nil
}

// changedExternally reports whether the file on disk differs from what this
// store last wrote.
func (s *FileStore) changedExternally(doc Document) bool {
	data, err := os.ReadFile(s.Path(doc))
	if err != nil {
		return errors.Is(err, fs.ErrNotExist)
	}
	s.mu.Lock()
	last, ok := s.written[doc]
	s.mu.Unlock()
	return !ok || last != sha256.Sum256(data)
}
