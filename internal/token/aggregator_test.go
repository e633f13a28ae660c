package token

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dust-sweeper/internal/metadata"
	"github.com/rovshanmuradov/dust-sweeper/internal/pricing"
	solanaclient "github.com/rovshanmuradov/dust-sweeper/pkg/blockchain/solana"
)

type fakeChain struct {
	accounts []solanaclient.TokenAccount
	err      error
}

func (f *fakeChain) GetTokenAccounts(context.Context, string) ([]solanaclient.TokenAccount, error) {
	return f.accounts, f.err
}

type fakePrices struct {
	prices map[string]pricing.PriceInfo
	err    error
	calls  int
}

func (f *fakePrices) GetPrices(context.Context, []string) (map[string]pricing.PriceInfo, error) {
	f.calls++
	return f.prices, f.err
}

type fakeRegistry struct {
	entries map[string]metadata.Pair
	calls   int
}

func (f *fakeRegistry) FetchAll(context.Context) map[string]metadata.Pair {
	f.calls++
	if f.entries == nil {
		return map[string]metadata.Pair{}
	}
	return f.entries
}

type fakeAccounts struct {
	data map[string][]byte
}

func (f *fakeAccounts) GetAccountData(_ context.Context, account solana.PublicKey) ([]byte, error) {
	if f.data == nil {
		return nil, nil
	}
	return f.data[account.String()], nil
}

const (
	mintA = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	mintB = "So11111111111111111111111111111111111111112"
	owner = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"
)

func newTestAggregator(chain *fakeChain, prices *fakePrices, registry *fakeRegistry) *Aggregator {
	return NewAggregator(chain, prices, registry, &fakeAccounts{}, zap.NewNop())
}

func TestFetchEnrichedTokens(t *testing.T) {
	chain := &fakeChain{accounts: []solanaclient.TokenAccount{
		{Mint: mintA, Balance: 10, Decimals: 6, Address: "accA"},
		{Mint: mintB, Balance: 0.5, Decimals: 9, Address: "accB"},
	}}
	prices := &fakePrices{prices: map[string]pricing.PriceInfo{
		mintA: {Price: 1.0, MintSymbol: "USDC"},
	}}
	registry := &fakeRegistry{entries: map[string]metadata.Pair{
		mintB: {Name: "Wrapped SOL", Symbol: "SOL"},
	}}

	tokens, err := newTestAggregator(chain, prices, registry).FetchEnrichedTokens(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, tokens, 2)

	// порядок результата совпадает с порядком входа
	assert.Equal(t, mintA, tokens[0].Mint)
	assert.Equal(t, mintB, tokens[1].Mint)

	// символ прайс-фида используется как есть
	assert.Equal(t, "USDC", tokens[0].Symbol)
	assert.Equal(t, 10.0, tokens[0].ValueUSD)

	// непокрытый фидом минт разрешается через реестр; без цены value = 0
	assert.Equal(t, "SOL", tokens[1].Symbol)
	assert.Equal(t, "Wrapped SOL", tokens[1].Name)
	assert.Equal(t, 0.0, tokens[1].ValueUSD)

	// один общий запрос реестра на проход
	assert.Equal(t, 1, registry.calls)
}

func TestFetchEnrichedTokens_EmptyWallet(t *testing.T) {
	prices := &fakePrices{}
	registry := &fakeRegistry{}

	tokens, err := newTestAggregator(&fakeChain{}, prices, registry).FetchEnrichedTokens(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, tokens)

	// прайс-сервис и реестр не вызываются вовсе
	assert.Equal(t, 0, prices.calls)
	assert.Equal(t, 0, registry.calls)
}

func TestFetchEnrichedTokens_RegistrySkippedWhenFeedCovers(t *testing.T) {
	chain := &fakeChain{accounts: []solanaclient.TokenAccount{
		{Mint: mintA, Balance: 1, Decimals: 6},
	}}
	prices := &fakePrices{prices: map[string]pricing.PriceInfo{
		mintA: {Price: 2.0, MintSymbol: "USDC"},
	}}
	registry := &fakeRegistry{}

	_, err := newTestAggregator(chain, prices, registry).FetchEnrichedTokens(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 0, registry.calls)
}

func TestFetchEnrichedTokens_ChainFailureAborts(t *testing.T) {
	chain := &fakeChain{err: &solanaclient.ChainQueryError{Op: "getTokenAccounts", Err: errors.New("rpc down")}}

	_, err := newTestAggregator(chain, &fakePrices{}, &fakeRegistry{}).FetchEnrichedTokens(context.Background(), owner)
	var cqe *solanaclient.ChainQueryError
	require.ErrorAs(t, err, &cqe)
}

func TestFetchEnrichedTokens_PriceFailureAborts(t *testing.T) {
	chain := &fakeChain{accounts: []solanaclient.TokenAccount{{Mint: mintA, Balance: 1, Decimals: 6}}}
	prices := &fakePrices{err: &pricing.PriceQueryError{Err: errors.New("503")}}

	_, err := newTestAggregator(chain, prices, &fakeRegistry{}).FetchEnrichedTokens(context.Background(), owner)
	var pqe *pricing.PriceQueryError
	require.ErrorAs(t, err, &pqe)
}

func TestFetchEnrichedTokens_MetadataDegrades(t *testing.T) {
	// ни фид, ни реестр, ни сеть не знают токен — символом становится
	// сокращённый mint, батч не падает
	chain := &fakeChain{accounts: []solanaclient.TokenAccount{
		{Mint: mintA, Balance: 3, Decimals: 6},
	}}
	prices := &fakePrices{prices: map[string]pricing.PriceInfo{}}

	tokens, err := newTestAggregator(chain, prices, &fakeRegistry{}).FetchEnrichedTokens(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, metadata.ShortenMint(mintA, 4, 4), tokens[0].Symbol)
	assert.Equal(t, tokens[0].Symbol, tokens[0].Name)
}

func TestFetchEnrichedTokens_Idempotent(t *testing.T) {
	chain := &fakeChain{accounts: []solanaclient.TokenAccount{
		{Mint: mintA, Balance: 10, Decimals: 6, Address: "accA"},
		{Mint: mintB, Balance: 0.5, Decimals: 9, Address: "accB"},
	}}
	prices := &fakePrices{prices: map[string]pricing.PriceInfo{
		mintA: {Price: 1.0, MintSymbol: "USDC"},
	}}

	agg := newTestAggregator(chain, prices, &fakeRegistry{})

	first, err := agg.FetchEnrichedTokens(context.Background(), owner)
	require.NoError(t, err)
	second, err := agg.FetchEnrichedTokens(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
