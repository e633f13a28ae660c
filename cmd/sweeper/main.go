// ====================================
// File: cmd/sweeper/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/dust-sweeper/internal/config"
	"github.com/rovshanmuradov/dust-sweeper/internal/jupiter"
	"github.com/rovshanmuradov/dust-sweeper/internal/logger"
	"github.com/rovshanmuradov/dust-sweeper/internal/metadata"
	"github.com/rovshanmuradov/dust-sweeper/internal/pricing"
	"github.com/rovshanmuradov/dust-sweeper/internal/sweep"
	"github.com/rovshanmuradov/dust-sweeper/internal/token"
	"github.com/rovshanmuradov/dust-sweeper/internal/wallet"
	solanaclient "github.com/rovshanmuradov/dust-sweeper/pkg/blockchain/solana"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	walletName := flag.String("wallet", "", "wallet name from the wallets file")
	mintsFlag := flag.String("mints", "", "comma-separated mints to convert (default: everything below the dust threshold)")
	dryRun := flag.Bool("dry-run", false, "list tokens without converting")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		LogFile:     "sweeper.log",
		MaxSize:     100,
		MaxAge:      7,
		MaxBackups:  3,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log, *walletName, *mintsFlag, *dryRun); err != nil {
		log.LogError("sweeper failed", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger, walletName, mintsFlag string, dryRun bool) error {
	ctx := context.Background()

	w, err := pickWallet(cfg, walletName)
	if err != nil {
		return err
	}

	// Сессия кошелька живёт от connect до disconnect
	session := wallet.NewSession()
	session.Connect(w)
	defer session.Disconnect()

	log.Info("wallet connected", zap.String("pubkey", w.String()))

	chain, err := solanaclient.NewClient(cfg.RPCList, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to create solana client: %w", err)
	}

	prices := pricing.NewClient(cfg.PriceAPIURL, log.Logger)
	registry := metadata.NewRegistryClient(cfg.TokenRegistryURL, log.Logger)
	aggregator := token.NewAggregator(chain, prices, registry, chain, log.Logger)
	store := token.NewStore(cfg.TokenCacheFile, log.Logger)

	// Регидратация прошлой сессии — только для мгновенного отображения,
	// актуальный список всегда перечитывается с сети.
	if cached, err := store.Load(); err == nil && len(cached) > 0 {
		log.Info("rehydrated cached token list", zap.Int("count", len(cached)))
	}

	pubkey, _ := session.PublicKey()
	tokens, err := aggregator.FetchEnrichedTokens(ctx, pubkey.String())
	if err != nil {
		return err
	}

	if err := store.Save(tokens); err != nil {
		log.Warn("failed to persist token list", zap.Error(err))
	}

	if len(tokens) == 0 {
		fmt.Println("no token balances found")
		return nil
	}

	fmt.Println(renderTokenTable(tokens, cfg.DustThresholdUSD))

	dust := selectDust(tokens, cfg.DustThresholdUSD, mintsFlag)
	if len(dust) == 0 {
		fmt.Println("nothing to convert")
		return nil
	}
	if dryRun {
		fmt.Printf("dry run: would convert %d token(s)\n", len(dust))
		return nil
	}

	quoter := jupiter.NewClient(cfg.QuoteAPIURL, cfg.SwapAPIURL, cfg.SlippageBps, log.Logger)
	delayer := sweep.FixedDelayer{Interval: time.Duration(cfg.ConversionDelayMs) * time.Millisecond}
	orchestrator := sweep.NewOrchestrator(quoter, chain, session, delayer, log.Logger)
	orchestrator.OnProgress(func(index, total int, tok token.Token, state sweep.State) {
		fmt.Printf("[%d/%d] %s: %s\n", index+1, total, tok.Symbol, state)
	})

	results := orchestrator.ConvertBatch(ctx, dust)
	fmt.Println(renderResults(results))

	// best-effort контрольная проверка подтверждений
	for _, r := range results {
		if r.Success && !chain.GetConfirmationStatus(ctx, r.Signature) {
			log.Warn("transaction not yet confirmed", zap.String("signature", r.Signature))
		}
	}

	return nil
}

func pickWallet(cfg *config.Config, override string) (*wallet.Wallet, error) {
	wallets, err := wallet.LoadWallets(cfg.WalletsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallets: %w", err)
	}

	name := cfg.WalletName
	if override != "" {
		name = override
	}
	if name == "" && len(wallets) == 1 {
		for _, w := range wallets {
			return w, nil
		}
	}

	w, ok := wallets[name]
	if !ok {
		return nil, fmt.Errorf("wallet %q not found in %s", name, cfg.WalletsFile)
	}
	return w, nil
}

// selectDust отбирает токены на конвертацию: либо явный список минтов, либо
// всё, что ниже порога по стоимости.
func selectDust(tokens []token.Token, thresholdUSD float64, mintsFlag string) []token.Token {
	if mintsFlag != "" {
		wanted := map[string]bool{}
		for _, mint := range strings.Split(mintsFlag, ",") {
			if mint = strings.TrimSpace(mint); mint != "" {
				wanted[mint] = true
			}
		}
		var selected []token.Token
		for _, tok := range tokens {
			if wanted[tok.Mint] {
				selected = append(selected, tok)
			}
		}
		return selected
	}

	var selected []token.Token
	for _, tok := range tokens {
		if tok.ValueUSD < thresholdUSD {
			selected = append(selected, tok)
		}
	}
	return selected
}
