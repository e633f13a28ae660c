// =============================
// File: internal/token/aggregator.go
// =============================
package token

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/dust-sweeper/internal/metadata"
	"github.com/rovshanmuradov/dust-sweeper/internal/pricing"
	solanaclient "github.com/rovshanmuradov/dust-sweeper/pkg/blockchain/solana"
)

// ChainReader — часть chain-клиента, нужная агрегатору.
type ChainReader interface {
	GetTokenAccounts(ctx context.Context, owner string) ([]solanaclient.TokenAccount, error)
}

// PriceSource — батч-источник цен.
type PriceSource interface {
	GetPrices(ctx context.Context, mints []string) (map[string]pricing.PriceInfo, error)
}

// RegistryFetcher — один общий запрос реестра токенов на проход агрегации.
type RegistryFetcher interface {
	FetchAll(ctx context.Context) map[string]metadata.Pair
}

// Aggregator собирает токен-аккаунты, цены и метаданные в единый список
// обогащённых токенов.
type Aggregator struct {
	chain    ChainReader
	prices   PriceSource
	registry RegistryFetcher
	accounts metadata.AccountReader
	logger   *zap.Logger
}

func NewAggregator(
	chain ChainReader,
	prices PriceSource,
	registry RegistryFetcher,
	accounts metadata.AccountReader,
	logger *zap.Logger,
) *Aggregator {
	return &Aggregator{
		chain:    chain,
		prices:   prices,
		registry: registry,
		accounts: accounts,
		logger:   logger.Named("aggregator"),
	}
}

// FetchEnrichedTokens возвращает все токены кошелька с ценой и метаданными,
// в порядке выдачи chain-клиента. Фатальны только отказ чтения аккаунтов и
// отказ прайс-сервиса; обогащение метаданными деградирует per-token.
func (a *Aggregator) FetchEnrichedTokens(ctx context.Context, owner string) ([]Token, error) {
	accounts, err := a.chain.GetTokenAccounts(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch token accounts: %w", err)
	}

	// Пустой кошелёк: прайс-сервис не дергаем вовсе.
	if len(accounts) == 0 {
		return []Token{}, nil
	}

	mints := make([]string, len(accounts))
	for i, acc := range accounts {
		mints[i] = acc.Mint
	}

	priceMap, err := a.prices.GetPrices(ctx, mints)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}

	hints := make(map[string]string, len(priceMap))
	needRegistry := false
	for _, mint := range mints {
		info, ok := priceMap[mint]
		if ok && info.MintSymbol != "" {
			hints[mint] = info.MintSymbol
		} else {
			needRegistry = true
		}
	}

	// Реестр загружается максимум один раз за проход и только если
	// прайс-фид не покрыл все минты символами.
	registryCache := map[string]metadata.Pair{}
	if needRegistry {
		registryCache = a.registry.FetchAll(ctx)
	}

	chain := metadata.NewChain(a.logger,
		metadata.HintLookup(hints),
		metadata.CacheLookup(registryCache),
		metadata.OnChainLookup(a.accounts, a.logger),
	)

	// Per-token обогащение независимо и выполняется конкурентно; позиция
	// результата фиксирована индексом входа.
	tokens := make([]Token, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	for i, acc := range accounts {
		g.Go(func() error {
			pair := chain.Resolve(gctx, acc.Mint)
			price := priceMap[acc.Mint].Price

			tokens[i] = Token{
				Mint:     acc.Mint,
				Balance:  acc.Balance,
				Decimals: acc.Decimals,
				Price:    price,
				ValueUSD: acc.Balance * price,
				Symbol:   pair.Symbol,
				Name:     pair.Name,
				LogoURI:  pair.Logo,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logger.Info("tokens aggregated",
		zap.String("owner", owner),
		zap.Int("count", len(tokens)),
		zap.Float64("total_value_usd", TotalValue(tokens)))

	return tokens, nil
}
