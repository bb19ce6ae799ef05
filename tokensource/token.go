package tokensource

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"golang.org/x/oauth2"
)

// Token is the OAuth2 token payload issued by Hootsuite.
//
// ExpiresAt is derived from ExpiresIn at the moment the token is issued. Tokens
// are replaced wholesale on refresh, never merged.
type Token struct {
	AccessToken  string
	TokenType    string
	ExpiresIn    int64
	ExpiresAt    time.Time
	RefreshToken string
	Scope        string
}

// tokenJSON is the persisted shape. expires_at is unix seconds, which keeps
// tokens written by other Hootsuite clients (float seconds) readable.
type tokenJSON struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type,omitempty"`
	ExpiresIn    int64    `json:"expires_in,omitempty"`
	ExpiresAt    *float64 `json:"expires_at,omitempty"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	Scope        string   `json:"scope,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (t Token) MarshalJSON() ([]byte, error) {
	out := tokenJSON{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		ExpiresIn:    t.ExpiresIn,
		RefreshToken: t.RefreshToken,
		Scope:        t.Scope,
	}
	if !t.ExpiresAt.IsZero() {
		at := float64(t.ExpiresAt.Unix())
		out.ExpiresAt = &at
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. A payload with expires_in but no
// expires_at gets ExpiresAt derived from the current time.
func (t *Token) UnmarshalJSON(data []byte) error {
	var in tokenJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decoding token: %w", err)
	}

	*t = Token{
		AccessToken:  in.AccessToken,
		TokenType:    in.TokenType,
		ExpiresIn:    in.ExpiresIn,
		RefreshToken: in.RefreshToken,
		Scope:        in.Scope,
	}
	if in.ExpiresAt != nil {
		sec, frac := math.Modf(*in.ExpiresAt)
		t.ExpiresAt = time.Unix(int64(sec), int64(frac*float64(time.Second)))
	}
	t.deriveExpiry(time.Now())

	return nil
}

// CanRefresh reports whether the token carries a refresh token.
func (t Token) CanRefresh() bool {
	return t.RefreshToken != ""
}

// deriveExpiry fills ExpiresAt from ExpiresIn when only the relative lifetime is known.
func (t *Token) deriveExpiry(issued time.Time) {
	if t.ExpiresAt.IsZero() && t.ExpiresIn > 0 {
		t.ExpiresAt = issued.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
}

// fromOAuth2 converts a token returned by the x/oauth2 exchange into a Token.
func fromOAuth2(tok *oauth2.Token, issued time.Time) Token {
	out := Token{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		ExpiresIn:    tok.ExpiresIn,
		RefreshToken: tok.RefreshToken,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		out.Scope = scope
	}
	// x/oauth2 computes Expiry from the wall clock; expires_in is relative to
	// issued, which follows the injected clock.
	out.deriveExpiry(issued)
	if out.ExpiresAt.IsZero() {
		out.ExpiresAt = tok.Expiry
	}

	return out
}

// oauth2Token converts the token back for use with x/oauth2 token sources.
func (t Token) oauth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.ExpiresAt,
		ExpiresIn:    t.ExpiresIn,
	}
}
