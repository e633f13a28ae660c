// =============================
// File: internal/jupiter/types.go
// =============================
package jupiter

import "encoding/json"

// SOLMint — mint нативного wrapped SOL, дефолтный выходной актив свапа.
const SOLMint = "So11111111111111111111111111111111111111112"

// Quote — выданный агрегатором план конвертации. Валиден только для точной
// тройки (InputMint, OutputMint, InAmount), для которой был выдан; повторная
// попытка требует свежей котировки. Raw — дословное тело ответа, оно
// передаётся обратно в swap-build без изменений: поля котировки никогда не
// мутируются и не пересобираются на нашей стороне.
type Quote struct {
	InputMint      string
	OutputMint     string
	InAmount       string
	OutAmount      string
	PriceImpactPct string
	ContextSlot    uint64
	RouteLegs      int
	Raw            json.RawMessage
}

// quoteEnvelope — декодируемая часть ответа котировки; остальное остаётся
// в Raw.
type quoteEnvelope struct {
	InputMint      string            `json:"inputMint"`
	OutputMint     string            `json:"outputMint"`
	InAmount       string            `json:"inAmount"`
	OutAmount      string            `json:"outAmount"`
	PriceImpactPct string            `json:"priceImpactPct"`
	ContextSlot    uint64            `json:"contextSlot"`
	RoutePlan      []json.RawMessage `json:"routePlan"`
}

// SwapResponse — ответ swap-build сервиса: сериализованная неподписанная
// транзакция в base64 и высота блока, до которой она валидна.
type SwapResponse struct {
	SwapTransaction           string `json:"swapTransaction"`
	LastValidBlockHeight      uint64 `json:"lastValidBlockHeight"`
	PrioritizationFeeLamports uint64 `json:"prioritizationFeeLamports,omitempty"`
}

type swapRequest struct {
	UserPublicKey string          `json:"userPublicKey"`
	QuoteResponse json.RawMessage `json:"quoteResponse"`
}
