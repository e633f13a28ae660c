// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/spf13/viper"

	solanaclient "github.com/rovshanmuradov/dust-sweeper/pkg/blockchain/solana"
)

type Config struct {
	RPCList           []string `mapstructure:"rpc_list"`
	PriceAPIURL       string   `mapstructure:"price_api_url"`
	QuoteAPIURL       string   `mapstructure:"quote_api_url"`
	SwapAPIURL        string   `mapstructure:"swap_api_url"`
	TokenRegistryURL  string   `mapstructure:"token_registry_url"`
	SlippageBps       int      `mapstructure:"slippage_bps"`
	DustThresholdUSD  float64  `mapstructure:"dust_threshold_usd"`
	ConversionDelayMs int      `mapstructure:"conversion_delay_ms"`
	WalletsFile       string   `mapstructure:"wallets_file"`
	WalletName        string   `mapstructure:"wallet_name"`
	TokenCacheFile    string   `mapstructure:"token_cache_file"`
	DebugLogging      bool     `mapstructure:"debug_logging"`
}

const (
	DefaultPriceAPIURL      = "https://lite-api.jup.ag/price/v3"
	DefaultQuoteAPIURL      = "https://lite-api.jup.ag/swap/v1/quote"
	DefaultSwapAPIURL       = "https://lite-api.jup.ag/swap/v1/swap"
	DefaultTokenRegistryURL = "https://raw.githubusercontent.com/solana-labs/token-list/main/src/tokens/solana.tokenlist.json"

	DefaultSlippageBps       = 50
	DefaultDustThresholdUSD  = 5.0
	DefaultConversionDelayMs = 500
	DefaultWalletsFile       = "configs/wallets.yaml"
	DefaultTokenCacheFile    = "data/tokens.json"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"rpc_list":            []string{solanaclient.DefaultRPCEndpoint},
		"price_api_url":       DefaultPriceAPIURL,
		"quote_api_url":       DefaultQuoteAPIURL,
		"swap_api_url":        DefaultSwapAPIURL,
		"token_registry_url":  DefaultTokenRegistryURL,
		"slippage_bps":        DefaultSlippageBps,
		"dust_threshold_usd":  DefaultDustThresholdUSD,
		"conversion_delay_ms": DefaultConversionDelayMs,
		"wallets_file":        DefaultWalletsFile,
		"token_cache_file":    DefaultTokenCacheFile,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURLWithCache(rpcURL, "http"); err != nil {
			return errors.New("invalid RPC URL protocol")
		}
	}
	for _, apiURL := range []string{cfg.PriceAPIURL, cfg.QuoteAPIURL, cfg.SwapAPIURL, cfg.TokenRegistryURL} {
		if err := validateURLWithCache(apiURL, "http"); err != nil {
			return errors.New("invalid API URL: " + apiURL)
		}
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.SlippageBps <= 0 || cfg.SlippageBps > 10000 {
		return errors.New("invalid slippage_bps")
	}
	if cfg.DustThresholdUSD < 0 {
		return errors.New("invalid dust_threshold_usd")
	}
	if cfg.ConversionDelayMs < 0 {
		return errors.New("invalid conversion_delay_ms")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("SOLANA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// SOLANA_RPC_URL переопределяет список RPC из файла
	envRPCList := v.GetString("RPC_URL")
	if envRPCList != "" {
		rpcs := strings.Split(envRPCList, ",")
		var cleanRPCs []string
		for _, rpc := range rpcs {
			clean := strings.TrimSpace(rpc)
			if clean != "" {
				cleanRPCs = append(cleanRPCs, clean)
			}
		}
		if len(cleanRPCs) > 0 {
			cfg.RPCList = cleanRPCs
		}
	}

	if envWallet := v.GetString("WALLET_NAME"); envWallet != "" {
		cfg.WalletName = envWallet
	}
	return nil
}
