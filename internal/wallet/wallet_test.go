package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallet(t *testing.T) {
	key := solana.NewWallet().PrivateKey

	w, err := NewWallet(key.String())
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), w.PublicKey)
	assert.Equal(t, w.PublicKey.String(), w.String())
}

func TestNewWallet_InvalidKey(t *testing.T) {
	_, err := NewWallet("not-a-key")
	assert.Error(t, err)
}

func TestLoadWallets(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	path := filepath.Join(t.TempDir(), "wallets.yaml")
	content := "wallets:\n  - name: main\n    private_key: " + key.String() + "\n  - name: broken\n    private_key: garbage\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	wallets, err := LoadWallets(path)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.Equal(t, key.PublicKey(), wallets["main"].PublicKey)
}

func TestLoadWallets_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wallets: []\n"), 0o600))

	_, err := LoadWallets(path)
	assert.Error(t, err)
}

func TestSession_Lifecycle(t *testing.T) {
	session := NewSession()
	assert.False(t, session.Connected())

	_, ok := session.PublicKey()
	assert.False(t, ok)
	assert.Nil(t, session.Signer())

	key := solana.NewWallet().PrivateKey
	w, err := NewWallet(key.String())
	require.NoError(t, err)

	session.Connect(w)
	assert.True(t, session.Connected())

	pub, ok := session.PublicKey()
	assert.True(t, ok)
	assert.Equal(t, w.PublicKey, pub)
	assert.NotNil(t, session.Signer())

	session.Disconnect()
	assert.False(t, session.Connected())
	assert.Nil(t, session.Signer())
}
