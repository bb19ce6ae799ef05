package tokenstorage

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/florianilch/hootsweet/tokensource"
)

// KeyringStore keeps the token in the operating system keyring.
type KeyringStore struct {
	service string
	user    string
}

// Compile-time check that KeyringStore implements Store
var _ Store = (*KeyringStore)(nil)

// NewKeyringStore creates a KeyringStore for the given keyring service and user.
func NewKeyringStore(service, user string) *KeyringStore {
	return &KeyringStore{service: service, user: user}
}

// Read implements Store.
func (s *KeyringStore) Read(ctx context.Context) (tokensource.Token, error) {
	if err := ctx.Err(); err != nil {
		return tokensource.Token{}, err
	}

	secret, err := keyring.Get(s.service, s.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return tokensource.Token{}, ErrNotFound
	}
	if err != nil {
		return tokensource.Token{}, fmt.Errorf("reading keyring: %w", err)
	}

	tok, err := decode([]byte(secret))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return tokensource.Token{}, fmt.Errorf("keyring entry %s/%s: %w", s.service, s.user, err)
	}
	return tok, err
}

// Write implements Store.
func (s *KeyringStore) Write(ctx context.Context, tok tokensource.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(tok)
	if err != nil {
		return err
	}
	if err := keyring.Set(s.service, s.user, string(data)); err != nil {
		return fmt.Errorf("writing keyring: %w", err)
	}
	return nil
}

// Clear implements Store.
func (s *KeyringStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := keyring.Delete(s.service, s.user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("clearing keyring: %w", err)
	}
	return nil
}
