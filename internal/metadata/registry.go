// =============================
// File: internal/metadata/registry.go
// =============================
package metadata

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// registryTimeout — бюджет на загрузку списка токенов сообщества.
const registryTimeout = 5 * time.Second

type registryToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	LogoURI string `json:"logoURI"`
}

type registryResponse struct {
	Tokens []registryToken `json:"tokens"`
}

// RegistryClient загружает community token list. Клиент строго best-effort:
// таймаут, транспортная ошибка или не-2xx ответ дают пустой результат,
// никогда — ошибку наружу.
type RegistryClient struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewRegistryClient(url string, logger *zap.Logger) *RegistryClient {
	return &RegistryClient{
		url: url,
		httpClient: &http.Client{
			Timeout: registryTimeout,
		},
		logger: logger.Named("token-registry"),
	}
}

// FetchAll выполняет один общий запрос реестра и возвращает lookup по mint.
// Вызывается один раз на проход агрегации; результат кешируется вызывающим.
func (c *RegistryClient) FetchAll(ctx context.Context) map[string]Pair {
	entries := map[string]Pair{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		c.logger.Debug("failed to create registry request", zap.Error(err))
		return entries
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Недоступность реестра и отсутствие токена в нём сейчас
		// неразличимы для вызывающего; лог оставляет шов для будущего
		// разделения.
		c.logger.Debug("token registry unavailable", zap.Error(err))
		return entries
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("token registry returned non-OK status",
			zap.Int("status", resp.StatusCode))
		return entries
	}

	var parsed registryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.logger.Debug("failed to decode token registry", zap.Error(err))
		return entries
	}

	for _, token := range parsed.Tokens {
		if token.Address == "" {
			continue
		}
		entries[token.Address] = Pair{Name: token.Name, Symbol: token.Symbol, Logo: token.LogoURI}
	}

	c.logger.Debug("token registry fetched", zap.Int("entries", len(entries)))
	return entries
}
