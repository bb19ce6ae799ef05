package tokenstorage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/florianilch/hootsweet/tokensource"
)

func testToken() tokensource.Token {
	return tokensource.Token{
		AccessToken:  "A1",
		TokenType:    "bearer",
		ExpiresIn:    3600,
		ExpiresAt:    time.Unix(1700000000, 0),
		RefreshToken: "R1",
		Scope:        "offline",
	}
}

func assertRoundTrip(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Read(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Write(ctx, testToken()))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A1", got.AccessToken)
	assert.Equal(t, "R1", got.RefreshToken)
	assert.Equal(t, "offline", got.Scope)
	assert.True(t, got.ExpiresAt.Equal(time.Unix(1700000000, 0)))

	next := testToken()
	next.AccessToken = "A2"
	next.RefreshToken = "R2"
	require.NoError(t, store.Write(ctx, next))

	got, err = store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A2", got.AccessToken)
	assert.Equal(t, "R2", got.RefreshToken)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Read(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	// Clearing twice is fine
	require.NoError(t, store.Clear(ctx))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	store := NewFileStore(path)

	assertRoundTrip(t, store)

	require.NoError(t, store.Write(context.Background(), testToken()))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Read(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	assertRoundTrip(t, NewKeyringStore("hootsweet-test", "default"))
}

func TestEnvStore(t *testing.T) {
	env := map[string]string{
		"HOOTSWEET_TOKEN": `{"access_token":"A1","refresh_token":"R1","expires_at":1700000000}`,
	}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
	ctx := context.Background()

	store := NewEnvStore("HOOTSWEET_TOKEN", lookup)
	tok, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A1", tok.AccessToken)
	assert.Equal(t, int64(1700000000), tok.ExpiresAt.Unix())

	require.NoError(t, store.Write(ctx, testToken()))
	assert.ErrorIs(t, store.Clear(ctx), ErrReadOnly)

	_, err = NewEnvStore("MISSING", lookup).Read(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}
