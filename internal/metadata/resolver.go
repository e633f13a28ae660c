// =============================
// File: internal/metadata/resolver.go
// =============================
package metadata

import (
	"context"

	"go.uber.org/zap"
)

// Pair — best-effort результат разрешения метаданных токена. Пустое поле
// означает "не найдено".
type Pair struct {
	Name   string
	Symbol string
	Logo   string
}

func (p Pair) Empty() bool {
	return p.Name == "" && p.Symbol == ""
}

// LookupFunc — один источник метаданных. Никогда не возвращает ошибку:
// любой сбой источника выражается пустым результатом.
type LookupFunc func(ctx context.Context, mint string) Pair

// Chain перебирает источники в строгом порядке; для каждого поля побеждает
// первый непустой результат. Ошибки не пересекают границу цепочки.
type Chain struct {
	lookups []LookupFunc
	logger  *zap.Logger
}

func NewChain(logger *zap.Logger, lookups ...LookupFunc) *Chain {
	return &Chain{
		lookups: lookups,
		logger:  logger.Named("metadata"),
	}
}

// Resolve возвращает имя и символ токена. Если после всех источников символ
// не найден, используется сокращённый mint; имя при отсутствии равно символу.
func (c *Chain) Resolve(ctx context.Context, mint string) Pair {
	var result Pair
	for _, lookup := range c.lookups {
		candidate := lookup(ctx, mint)
		if result.Symbol == "" {
			result.Symbol = candidate.Symbol
		}
		if result.Name == "" {
			result.Name = candidate.Name
		}
		if result.Logo == "" {
			result.Logo = candidate.Logo
		}
		if result.Symbol != "" && result.Name != "" {
			break
		}
	}

	if result.Symbol == "" {
		result.Symbol = ShortenMint(mint, 4, 4)
		c.logger.Debug("metadata unresolved, falling back to shortened mint",
			zap.String("mint", mint))
	}
	if result.Name == "" {
		result.Name = result.Symbol
	}

	return result
}

// ShortenMint сокращает mint для отображения: первые startChars и последние
// endChars символов через многоточие.
func ShortenMint(mint string, startChars, endChars int) string {
	if len(mint) <= startChars+endChars {
		return mint
	}
	return mint[:startChars] + "..." + mint[len(mint)-endChars:]
}

// HintLookup — первый ярус: символ, пришедший вместе с ценой из прайс-фида.
// Оригинальный фид использует его и как имя.
func HintLookup(hints map[string]string) LookupFunc {
	return func(_ context.Context, mint string) Pair {
		symbol := hints[mint]
		return Pair{Name: symbol, Symbol: symbol}
	}
}

// CacheLookup — второй ярус: локальный кеш, заполненный одним общим запросом
// к реестру токенов.
func CacheLookup(cache map[string]Pair) LookupFunc {
	return func(_ context.Context, mint string) Pair {
		return cache[mint]
	}
}
