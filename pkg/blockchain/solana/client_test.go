package solana

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenAccount(t *testing.T) {
	raw := []byte(`{
		"parsed": {
			"info": {
				"mint": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
				"tokenAmount": {
					"uiAmount": 12.5,
					"uiAmountString": "12.5",
					"decimals": 6,
					"amount": "12500000"
				}
			},
			"type": "account"
		},
		"program": "spl-token"
	}`)

	acc, err := parseTokenAccount("9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", raw)
	require.NoError(t, err)
	assert.Equal(t, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", acc.Mint)
	assert.Equal(t, 12.5, acc.Balance)
	assert.Equal(t, uint8(6), acc.Decimals)
	assert.Equal(t, "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", acc.Address)
}

func TestParseTokenAccount_FallsBackToUIAmount(t *testing.T) {
	raw := []byte(`{"parsed":{"info":{"mint":"So11111111111111111111111111111111111111112","tokenAmount":{"uiAmount":0.25,"decimals":9}}}}`)

	acc, err := parseTokenAccount("addr", raw)
	require.NoError(t, err)
	assert.Equal(t, 0.25, acc.Balance)
	assert.Equal(t, uint8(9), acc.Decimals)
}

func TestParseTokenAccount_Malformed(t *testing.T) {
	cases := map[string][]byte{
		"nil data":     nil,
		"invalid json": []byte(`{"parsed":`),
		"missing mint": []byte(`{"parsed":{"info":{"tokenAmount":{"uiAmountString":"1","decimals":6}}}}`),
		"bad amount":   []byte(`{"parsed":{"info":{"mint":"m","tokenAmount":{"uiAmountString":"abc","decimals":6}}}}`),
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseTokenAccount("addr", raw)
			assert.Error(t, err)
		})
	}
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(nil, nil)
	assert.EqualError(t, err, "empty RPC list")
}

func TestRPCPool_RoundRobin(t *testing.T) {
	pool := NewRPCPool([]string{"http://localhost:8899", "http://localhost:8900"})
	require.Equal(t, 2, pool.Size())

	first := pool.GetClient()
	second := pool.GetClient()
	third := pool.GetClient()

	assert.NotSame(t, first, second)
	assert.Same(t, first, third)
}
