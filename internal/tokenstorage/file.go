package tokenstorage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/florianilch/hootsweet/tokensource"
)

// FileStore keeps the token as JSON in a file readable only by the owner.
type FileStore struct {
	path string
}

// Compile-time check that FileStore implements Store
var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Read implements Store.
func (s *FileStore) Read(ctx context.Context) (tokensource.Token, error) {
	if err := ctx.Err(); err != nil {
		return tokensource.Token{}, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return tokensource.Token{}, ErrNotFound
	}
	if err != nil {
		return tokensource.Token{}, fmt.Errorf("reading token file: %w", err)
	}

	tok, err := decode(data)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return tokensource.Token{}, fmt.Errorf("token file %s: %w", s.path, err)
	}
	return tok, err
}

// Write implements Store. The file is replaced atomically.
func (s *FileStore) Write(ctx context.Context, tok tokensource.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(tok)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("creating temporary token file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("setting token file permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing token file: %w", err)
	}

	return nil
}

// Clear implements Store.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}
