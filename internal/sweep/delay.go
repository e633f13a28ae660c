// =============================
// File: internal/sweep/delay.go
// =============================
package sweep

import (
	"context"
	"time"
)

// Delayer — пауза между конвертациями внутри батча. Это намеренный троттлинг
// для снижения нагрузки на агрегатор и RPC, а не retry-backoff.
type Delayer interface {
	Delay(ctx context.Context)
}

// FixedDelayer выдерживает фиксированный интервал.
type FixedDelayer struct {
	Interval time.Duration
}

func (d FixedDelayer) Delay(ctx context.Context) {
	timer := time.NewTimer(d.Interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// NopDelayer — нулевая задержка для тестов.
type NopDelayer struct{}

func (NopDelayer) Delay(context.Context) {}
