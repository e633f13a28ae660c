package metadata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestShortenMint(t *testing.T) {
	assert.Equal(t, "ABCD...7890", ShortenMint("ABCDEFGHIJKL1234567890", 4, 4))
	// короткий mint возвращается как есть
	assert.Equal(t, "ABCDEF", ShortenMint("ABCDEF", 4, 4))
}

func TestChain_HintWinsOverLaterTiers(t *testing.T) {
	// символ из прайс-фида используется как есть, даже если реестр знает другой
	chain := NewChain(zap.NewNop(),
		HintLookup(map[string]string{"mintA": "FEED"}),
		CacheLookup(map[string]Pair{"mintA": {Name: "Registry Token", Symbol: "REG"}}),
	)

	pair := chain.Resolve(context.Background(), "mintA")
	assert.Equal(t, "FEED", pair.Symbol)
	assert.Equal(t, "FEED", pair.Name)
}

func TestChain_PerFieldFallback(t *testing.T) {
	// символ берётся из первого яруса, имя — из второго
	chain := NewChain(zap.NewNop(),
		func(context.Context, string) Pair { return Pair{Symbol: "SYM"} },
		func(context.Context, string) Pair { return Pair{Name: "Full Name", Symbol: "OTHER"} },
	)

	pair := chain.Resolve(context.Background(), "mintA")
	assert.Equal(t, "SYM", pair.Symbol)
	assert.Equal(t, "Full Name", pair.Name)
}

func TestChain_ShortMintFallback(t *testing.T) {
	chain := NewChain(zap.NewNop(),
		func(context.Context, string) Pair { return Pair{} },
	)

	pair := chain.Resolve(context.Background(), "ABCDEFGHIJKL1234567890")
	assert.Equal(t, "ABCD...7890", pair.Symbol)
	assert.Equal(t, "ABCD...7890", pair.Name)
}

func TestChain_NameDefaultsToSymbol(t *testing.T) {
	chain := NewChain(zap.NewNop(),
		func(context.Context, string) Pair { return Pair{Symbol: "DUST"} },
	)

	pair := chain.Resolve(context.Background(), "mintA")
	assert.Equal(t, "DUST", pair.Symbol)
	assert.Equal(t, "DUST", pair.Name)
}
