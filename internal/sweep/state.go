// =============================
// File: internal/sweep/state.go
// =============================
package sweep

// State — фаза конвертации одного токена.
type State int

const (
	StateIdle State = iota
	StateQuoting
	StateBuilding
	StateSigning
	StateSubmitting
	StateConfirmed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateQuoting:
		return "quoting"
	case StateBuilding:
		return "building"
	case StateSigning:
		return "signing"
	case StateSubmitting:
		return "submitting"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ConversionResult — итог попытки конвертации одного токена. На каждый
// поданный токен приходится ровно один результат; батч никогда не
// откатывается при частичных отказах.
type ConversionResult struct {
	Success   bool
	Mint      string
	Signature string
	Error     string
}
