package credstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreRoundTrip(t *testing.T) {
	store := NewMemStore()

	require.NoError(t, store.SetTokens("access-1", "refresh-1"))

	access, refresh, err := store.Tokens()
	require.NoError(t, err)
	assert.Equal(t, "access-1", access)
	assert.Equal(t, "refresh-1", refresh)
}

func TestMemStoreEmptyReturnsNotFound(t *testing.T) {
	store := NewMemStore()

	_, _, err := store.Tokens()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStoreRejectsHalfPair(t *testing.T) {
	store := NewMemStore()

	assert.Error(t, store.SetTokens("access-only", ""))
	assert.Error(t, store.SetTokens("", "refresh-only"))

	_, _, err := store.Tokens()
	assert.ErrorIs(t, err, ErrNotFound, "failed write must not leave a partial pair")
}

func TestMemStoreClear(t *testing.T) {
	store := NewMemStore()
	require.NoError(t, store.SetTokens("a", "r"))

	require.NoError(t, store.Clear())

	_, _, err := store.Tokens()
	assert.ErrorIs(t, err, ErrNotFound)

	// Clearing an already-empty store is fine.
	assert.NoError(t, store.Clear())
}

func TestMemStoreOverwrite(t *testing.T) {
	store := NewMemStore()
	require.NoError(t, store.SetTokens("a1", "r1"))
	require.NoError(t, store.SetTokens("a2", "r2"))

	access, refresh, err := store.Tokens()
	require.NoError(t, err)
	assert.Equal(t, "a2", access)
	assert.Equal(t, "r2", refresh)
}
