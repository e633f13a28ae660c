// =============================
// File: internal/jupiter/errors.go
// =============================
package jupiter

import "fmt"

// NoRouteError — агрегатор не нашёл ни одного маршрута обмена.
type NoRouteError struct {
	InputMint  string
	OutputMint string
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("no viable route found from %s to %s", e.InputMint, e.OutputMint)
}

// QuoteServiceError — транспортный или сервисный отказ при запросе котировки.
type QuoteServiceError struct {
	StatusCode int
	Err        error
}

func (e *QuoteServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("quote service returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("quote service request failed: %v", e.Err)
}

func (e *QuoteServiceError) Unwrap() error {
	return e.Err
}

// BuildServiceError — сервис сборки отклонил котировку (например, протухший
// context slot) или не вернул поле с транзакцией.
type BuildServiceError struct {
	StatusCode int
	Err        error
}

func (e *BuildServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("swap build service returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("swap build request failed: %v", e.Err)
}

func (e *BuildServiceError) Unwrap() error {
	return e.Err
}
