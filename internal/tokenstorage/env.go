package tokenstorage

import (
	"context"
	"fmt"
	"os"

	"github.com/florianilch/hootsweet/tokensource"
)

// EnvStore reads the token as JSON from an environment variable. It is
// read-only: refreshed tokens live for the lifetime of the process only.
type EnvStore struct {
	name   string
	lookup func(string) (string, bool)
}

// Compile-time check that EnvStore implements Store
var _ Store = (*EnvStore)(nil)

// NewEnvStore creates an EnvStore reading the variable name. lookup defaults
// to os.LookupEnv.
func NewEnvStore(name string, lookup func(string) (string, bool)) *EnvStore {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &EnvStore{name: name, lookup: lookup}
}

// Read implements Store.
func (s *EnvStore) Read(ctx context.Context) (tokensource.Token, error) {
	if err := ctx.Err(); err != nil {
		return tokensource.Token{}, err
	}

	value, ok := s.lookup(s.name)
	if !ok || value == "" {
		return tokensource.Token{}, ErrNotFound
	}

	tok, err := decode([]byte(value))
	if err != nil {
		return tokensource.Token{}, fmt.Errorf("environment variable %s: %w", s.name, err)
	}
	return tok, nil
}

// Write implements Store. Refreshed tokens cannot be written back to the
// environment, so Write succeeds without persisting.
func (s *EnvStore) Write(ctx context.Context, tok tokensource.Token) error {
	return ctx.Err()
}

// Clear implements Store.
func (s *EnvStore) Clear(ctx context.Context) error {
	return ErrReadOnly
}
