// =============================
// File: internal/sweep/errors.go
// =============================
package sweep

import (
	"errors"
	"fmt"
)

// ErrWalletDisconnected — precondition failure: конвертация запрошена без
// подключённого кошелька. Возвращается до каких-либо сетевых вызовов.
var ErrWalletDisconnected = errors.New("wallet not connected")

// SigningError — пользователь отклонил подпись либо payload транзакции не
// десериализовался.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing failed: %v", e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}
