package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is a simple in-memory TokenStore for exercising FallbackStore,
// with optional injected errors to simulate a store that is unavailable.
type fakeStore struct {
	tokens    map[string]string
	setErr    error
	getErr    error
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{tokens: make(map[string]string)}
}

func (f *fakeStore) SetToken(_ context.Context, registry, token string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.tokens[registry] = token
	return nil
}

func (f *fakeStore) GetToken(_ context.Context, registry string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	token, ok := f.tokens[registry]
	if !ok {
		return "", ErrNotFound
	}
	return token, nil
}

func (f *fakeStore) DeleteToken(_ context.Context, registry string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.tokens, registry)
	return nil
}

func TestFallbackStore_GetToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("primary has token", func(t *testing.T) {
		t.Parallel()
		primary := newFakeStore()
		primary.tokens["registry.example.com"] = "primary-token"
		secondary := newFakeStore()

		store := NewFallbackStore(primary, secondary)
		token, err := store.GetToken(ctx, "registry.example.com")
		require.NoError(t, err)
		assert.Equal(t, "primary-token", token)
	})

	t.Run("primary not found is returned as-is, not a fallback trigger", func(t *testing.T) {
		t.Parallel()
		primary := newFakeStore()
		secondary := newFakeStore()
		secondary.tokens["registry.example.com"] = "secondary-token"

		store := NewFallbackStore(primary, secondary)
		_, err := store.GetToken(ctx, "registry.example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("primary errors, falls back to secondary", func(t *testing.T) {
		t.Parallel()
		primary := newFakeStore()
		primary.getErr = errors.New("keychain daemon unreachable")
		secondary := newFakeStore()
		secondary.tokens["registry.example.com"] = "secondary-token"

		store := NewFallbackStore(primary, secondary)
		token, err := store.GetToken(ctx, "registry.example.com")
		require.NoError(t, err)
		assert.Equal(t, "secondary-token", token)
	})
}

func TestFallbackStore_SetToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("primary succeeds, secondary untouched", func(t *testing.T) {
		t.Parallel()
		primary := newFakeStore()
		secondary := newFakeStore()

		store := NewFallbackStore(primary, secondary)
		require.NoError(t, store.SetToken(ctx, "registry.example.com", "tok"))
		assert.Equal(t, "tok", primary.tokens["registry.example.com"])
		assert.Empty(t, secondary.tokens)
	})

	t.Run("primary fails, writes to secondary", func(t *testing.T) {
		t.Parallel()
		primary := newFakeStore()
		primary.setErr = errors.New("keychain daemon unreachable")
		secondary := newFakeStore()

		store := NewFallbackStore(primary, secondary)
		require.NoError(t, store.SetToken(ctx, "registry.example.com", "tok"))
		assert.Equal(t, "tok", secondary.tokens["registry.example.com"])
	})
}

func TestFallbackStore_DeleteToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	primary := newFakeStore()
	primary.tokens["registry.example.com"] = "primary-token"
	secondary := newFakeStore()
	secondary.tokens["registry.example.com"] = "secondary-token"

	store := NewFallbackStore(primary, secondary)
	require.NoError(t, store.DeleteToken(ctx, "registry.example.com"))

	assert.NotContains(t, primary.tokens, "registry.example.com")
	assert.NotContains(t, secondary.tokens, "registry.example.com")
}
