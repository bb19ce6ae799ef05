package tokensource

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	refresher := NewRefresher(testCreds, NewStore(nil), nil, WithClock(fixedClock(now)))

	tests := []struct {
		name      string
		expiresAt time.Time
		skew      time.Duration
		want      bool
	}{
		{"long past", now.Add(-time.Hour), 0, true},
		{"exactly now", now, 0, true},
		{"inside skew", now.Add(10 * time.Second), 30 * time.Second, true},
		{"at skew boundary", now.Add(30 * time.Second), 30 * time.Second, true},
		{"just past skew", now.Add(31 * time.Second), 30 * time.Second, false},
		{"far future", now.Add(time.Hour), DefaultExpirySkew, false},
		{"unknown expiry", time.Time{}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := refresher.IsExpired(Token{AccessToken: "A", ExpiresAt: tt.expiresAt}, tt.skew)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRefresh(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	ts := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ := r.BasicAuth()
		if user != "client_id" || pass != "client_secret" {
			t.Errorf("Unexpected client authentication: %q %q", user, pass)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("Failed to parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "refresh_token" {
			t.Errorf("Unexpected grant_type: %s", got)
		}
		if got := r.PostForm.Get("refresh_token"); got != "R1" {
			t.Errorf("Unexpected refresh_token: %s", got)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  "A2",
			"token_type":    "bearer",
			"expires_in":    3600,
			"refresh_token": "R2",
			"scope":         "offline",
		})
	})

	store := NewStore(&Token{AccessToken: "A1", RefreshToken: "R1", ExpiresAt: now.Add(-time.Minute)})

	var received []Token
	refresher := NewRefresher(testCreds, store, func(ctx context.Context, tok Token) error {
		received = append(received, tok)
		return nil
	}, ts.options(fixedClock(now))...)

	tok, err := refresher.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "A2", tok.AccessToken)
	assert.Equal(t, "R2", tok.RefreshToken)
	assert.Equal(t, int32(1), ts.calls.Load())

	require.Len(t, received, 1)
	assert.Equal(t, tok, received[0])

	stored, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "A2", stored.AccessToken)
	assert.Equal(t, "R2", stored.RefreshToken)
	assert.False(t, refresher.IsExpired(stored, DefaultExpirySkew))
	assert.Equal(t, now.Add(time.Hour), stored.ExpiresAt)
}

func TestRefreshInvalidGrantKeepsPreviousToken(t *testing.T) {
	ts := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_grant"})
	})

	previous := Token{AccessToken: "A1", RefreshToken: "R1", ExpiresAt: time.Now().Add(-time.Minute)}
	store := NewStore(&previous)

	called := false
	refresher := NewRefresher(testCreds, store, func(ctx context.Context, tok Token) error {
		called = true
		return nil
	}, ts.options(time.Now)...)

	_, err := refresher.Refresh(context.Background())

	var refreshErr *TokenRefreshError
	require.True(t, errors.As(err, &refreshErr))
	assert.Equal(t, http.StatusBadRequest, refreshErr.StatusCode)
	assert.Equal(t, "invalid_grant", refreshErr.ErrorCode)
	assert.JSONEq(t, `{"error":"invalid_grant"}`, string(refreshErr.Body))
	assert.False(t, called)

	stored, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, previous, stored)
}

func TestRefreshWithoutRefreshToken(t *testing.T) {
	store := NewStore(&Token{AccessToken: "A1"})
	refresher := NewRefresher(testCreds, store, nil)

	_, err := refresher.Refresh(context.Background())

	var refreshErr *TokenRefreshError
	require.True(t, errors.As(err, &refreshErr))
	assert.ErrorIs(t, err, ErrNoRefreshToken)
}

func TestRefreshWithoutToken(t *testing.T) {
	refresher := NewRefresher(testCreds, NewStore(nil), nil)

	_, err := refresher.Refresh(context.Background())

	assert.ErrorIs(t, err, ErrNoToken)
}

func TestRefreshCallbackErrorPropagates(t *testing.T) {
	ts := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  "A2",
			"expires_in":    3600,
			"refresh_token": "R2",
		})
	})

	errPersist := errors.New("disk full")
	store := NewStore(&Token{AccessToken: "A1", RefreshToken: "R1"})
	refresher := NewRefresher(testCreds, store, func(ctx context.Context, tok Token) error {
		return errPersist
	}, ts.options(time.Now)...)

	_, err := refresher.Refresh(context.Background())

	require.ErrorIs(t, err, errPersist)
	var refreshErr *TokenRefreshError
	assert.False(t, errors.As(err, &refreshErr))

	stored, _ := store.Token()
	assert.Equal(t, "A2", stored.AccessToken)
}
