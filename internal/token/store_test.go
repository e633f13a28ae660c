package token

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "data", "tokens.json"), zap.NewNop())
}

func TestStore_SaveLoad(t *testing.T) {
	store := newTestStore(t)

	tokens := []Token{
		{Mint: "mintA", Balance: 10, Decimals: 6, Price: 1, ValueUSD: 10, Symbol: "USDC", Name: "USD Coin"},
		{Mint: "mintB", Balance: 0.5, Decimals: 9, Symbol: "SOL"},
	}
	require.NoError(t, store.Save(tokens))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, tokens, loaded)
}

func TestStore_LoadMissingFile(t *testing.T) {
	loaded, err := newTestStore(t).Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_SaveReplacesWholeList(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save([]Token{{Mint: "old"}, {Mint: "older"}}))
	require.NoError(t, store.Save([]Token{{Mint: "new"}}))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "new", loaded[0].Mint)
}

func TestStore_Update(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save([]Token{
		{Mint: "mintA", Balance: 10},
		{Mint: "mintB", Balance: 5},
	}))

	require.NoError(t, store.Update("mintB", func(tok *Token) {
		tok.Balance = 0
	}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 10.0, loaded[0].Balance)
	assert.Equal(t, 0.0, loaded[1].Balance)
}

func TestStore_UpdateUnknownMint(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save([]Token{{Mint: "mintA"}}))

	err := store.Update("missing", func(*Token) {})
	assert.Error(t, err)
}
