// =============================
// File: internal/jupiter/client.go
// =============================
package jupiter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// DefaultSlippageBps — 0.5%, подставляется при нулевом значении.
const DefaultSlippageBps = 50

// Client — клиент quote/swap API агрегатора Jupiter.
type Client struct {
	quoteURL    string
	swapURL     string
	slippageBps int
	httpClient  *http.Client
	logger      *zap.Logger
}

func NewClient(quoteURL, swapURL string, slippageBps int, logger *zap.Logger) *Client {
	if slippageBps <= 0 {
		slippageBps = DefaultSlippageBps
	}
	return &Client{
		quoteURL:    quoteURL,
		swapURL:     swapURL,
		slippageBps: slippageBps,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger.Named("jupiter"),
	}
}

// GetQuote запрашивает котировку обмена exact-in суммы amount (в минимальных
// единицах входного токена). Пустой outputMint означает SOL.
func (c *Client) GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64) (*Quote, error) {
	if outputMint == "" {
		outputMint = SOLMint
	}

	params := url.Values{}
	params.Set("inputMint", inputMint)
	params.Set("outputMint", outputMint)
	params.Set("amount", strconv.FormatUint(amount, 10))
	params.Set("slippageBps", strconv.Itoa(c.slippageBps))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.quoteURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &QuoteServiceError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("quote request failed", zap.String("input_mint", inputMint), zap.Error(err))
		return nil, &QuoteServiceError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &QuoteServiceError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("quote service returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.String("input_mint", inputMint))
		return nil, &QuoteServiceError{StatusCode: resp.StatusCode, Err: errors.New(string(body))}
	}

	var envelope quoteEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &QuoteServiceError{Err: fmt.Errorf("failed to decode quote: %w", err)}
	}

	// Отсутствие routePlan в ответе означает, что маршрута нет.
	if envelope.RoutePlan == nil {
		return nil, &NoRouteError{InputMint: inputMint, OutputMint: outputMint}
	}

	quote := &Quote{
		InputMint:      envelope.InputMint,
		OutputMint:     envelope.OutputMint,
		InAmount:       envelope.InAmount,
		OutAmount:      envelope.OutAmount,
		PriceImpactPct: envelope.PriceImpactPct,
		ContextSlot:    envelope.ContextSlot,
		RouteLegs:      len(envelope.RoutePlan),
		Raw:            body,
	}

	c.logger.Debug("quote received",
		zap.String("input_mint", inputMint),
		zap.String("out_amount", quote.OutAmount),
		zap.String("price_impact_pct", quote.PriceImpactPct),
		zap.Int("route_legs", quote.RouteLegs),
		zap.Uint64("context_slot", quote.ContextSlot))

	return quote, nil
}

// BuildSwapTransaction запрашивает у сервиса сборки неподписанную транзакцию
// по котировке. Котировка передаётся дословно, как была получена.
func (c *Client) BuildSwapTransaction(ctx context.Context, userPublicKey string, quote *Quote) (*SwapResponse, error) {
	payload, err := json.Marshal(swapRequest{
		UserPublicKey: userPublicKey,
		QuoteResponse: quote.Raw,
	})
	if err != nil {
		return nil, &BuildServiceError{Err: fmt.Errorf("failed to marshal swap request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.swapURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &BuildServiceError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("swap build request failed", zap.Error(err))
		return nil, &BuildServiceError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &BuildServiceError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("swap build service returned non-OK status",
			zap.Int("status", resp.StatusCode))
		return nil, &BuildServiceError{StatusCode: resp.StatusCode, Err: errors.New(string(body))}
	}

	var swapResp SwapResponse
	if err := json.Unmarshal(body, &swapResp); err != nil {
		return nil, &BuildServiceError{Err: fmt.Errorf("failed to decode swap response: %w", err)}
	}

	if swapResp.SwapTransaction == "" {
		return nil, &BuildServiceError{Err: errors.New("swap transaction missing from response")}
	}

	c.logger.Debug("swap transaction built",
		zap.Uint64("last_valid_block_height", swapResp.LastValidBlockHeight))

	return &swapResp, nil
}
