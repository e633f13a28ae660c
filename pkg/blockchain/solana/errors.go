// pkg/blockchain/solana/errors.go
package solana

import "fmt"

// ChainQueryError — ошибка чтения состояния сети (RPC недоступен или данные
// аккаунта не распарсились). Не ретраится внутри клиента.
type ChainQueryError struct {
	Op  string
	Err error
}

func (e *ChainQueryError) Error() string {
	return fmt.Sprintf("chain query %s failed: %v", e.Op, e.Err)
}

func (e *ChainQueryError) Unwrap() error {
	return e.Err
}

// SubmissionError — ошибка отправки транзакции: preflight-симуляция или нода
// отклонили транзакцию, либо не дождались уровня processed.
type SubmissionError struct {
	Stage string // "send" или "confirm"
	Err   error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("transaction submission failed at %s: %v", e.Stage, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
