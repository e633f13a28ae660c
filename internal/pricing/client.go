// =============================
// File: internal/pricing/client.go
// =============================
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// PriceInfo — цена и канонический символ токена из прайс-фида.
type PriceInfo struct {
	Price      float64 `json:"price"`
	MintSymbol string  `json:"mintSymbol"`
}

// PriceQueryError — отказ прайс-сервиса целиком (транспорт или не-2xx).
// Отсутствие цены для отдельного минта ошибкой не является.
type PriceQueryError struct {
	Err error
}

func (e *PriceQueryError) Error() string {
	return fmt.Sprintf("price query failed: %v", e.Err)
}

func (e *PriceQueryError) Unwrap() error {
	return e.Err
}

type priceResponse struct {
	Data map[string]PriceInfo `json:"data"`
}

// Client — клиент прайс-сервиса Jupiter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.Named("pricing"),
	}
}

// GetPrices запрашивает цены всех минтов одним батч-запросом.
// Минт без записи в ответе означает "цена неизвестна".
func (c *Client) GetPrices(ctx context.Context, mints []string) (map[string]PriceInfo, error) {
	if len(mints) == 0 {
		return map[string]PriceInfo{}, nil
	}

	reqURL := c.baseURL + "?ids=" + url.QueryEscape(strings.Join(mints, ","))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &PriceQueryError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("price request failed", zap.Error(err))
		return nil, &PriceQueryError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("price service returned non-OK status",
			zap.Int("status", resp.StatusCode))
		return nil, &PriceQueryError{Err: fmt.Errorf("price service returned status %d", resp.StatusCode)}
	}

	var parsed priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &PriceQueryError{Err: fmt.Errorf("failed to decode price response: %w", err)}
	}

	if parsed.Data == nil {
		parsed.Data = map[string]PriceInfo{}
	}

	c.logger.Debug("prices fetched",
		zap.Int("requested", len(mints)),
		zap.Int("priced", len(parsed.Data)))

	return parsed.Data, nil
}
