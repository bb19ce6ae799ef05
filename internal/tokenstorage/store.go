// Package tokenstorage persists Hootsuite tokens between process runs.
//
// Stores are the host side of the client's refresh callback: Write is passed
// as hootsweet.Config.OnRefresh so every refreshed token is saved.
package tokenstorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/florianilch/hootsweet/tokensource"
)

var (
	// ErrNotFound is returned by Read when no token has been stored.
	ErrNotFound = errors.New("no stored token")
	// ErrReadOnly is returned by Write and Clear on stores that cannot be modified.
	ErrReadOnly = errors.New("token storage is read-only")
)

// Store reads and writes the persisted token.
type Store interface {
	Read(ctx context.Context) (tokensource.Token, error)
	Write(ctx context.Context, tok tokensource.Token) error
	Clear(ctx context.Context) error
}

func encode(tok tokensource.Token) ([]byte, error) {
	data, err := json.Marshal(tok)
	if err != nil {
		return nil, fmt.Errorf("encoding token: %w", err)
	}
	return data, nil
}

func decode(data []byte) (tokensource.Token, error) {
	var tok tokensource.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return tokensource.Token{}, err
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return tokensource.Token{}, ErrNotFound
	}
	return tok, nil
}
