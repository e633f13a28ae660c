// =============================
// File: internal/token/types.go
// =============================
package token

import (
	"fmt"
	"math"
)

// Token — обогащённый токен кошелька, готовый к отображению и конвертации.
// Пересобирается целиком на каждом проходе агрегации.
type Token struct {
	Mint     string  `json:"mint"`
	Balance  float64 `json:"balance"`
	Decimals uint8   `json:"decimals"`
	Price    float64 `json:"price,omitempty"`
	ValueUSD float64 `json:"value_usd,omitempty"`
	Symbol   string  `json:"symbol,omitempty"`
	Name     string  `json:"name,omitempty"`
	LogoURI  string  `json:"logo_uri,omitempty"`
}

// RawAmount переводит баланс в минимальные неделимые единицы:
// floor(balance * 10^decimals). Всегда усечение, никогда округление —
// заявить больше, чем есть на счету, нельзя.
func RawAmount(balance float64, decimals uint8) uint64 {
	return uint64(math.Trunc(balance * math.Pow10(int(decimals))))
}

// TotalValue суммирует долларовую стоимость токенов.
func TotalValue(tokens []Token) float64 {
	total := 0.0
	for _, t := range tokens {
		total += t.ValueUSD
	}
	return total
}

// FormatAmount форматирует количество токенов для отображения.
func FormatAmount(amount float64) string {
	if amount == 0 {
		return "0"
	}
	if amount < 0.0001 {
		return "<0.0001"
	}
	return fmt.Sprintf("%.4f", amount)
}

// FormatUSD форматирует долларовую стоимость для отображения.
func FormatUSD(value float64) string {
	if value == 0 {
		return "$0.00"
	}
	if value < 0.01 {
		return "<$0.01"
	}
	return fmt.Sprintf("$%.2f", value)
}
