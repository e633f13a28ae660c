// ==================================
// File: internal/wallet/session.go
// ==================================
package wallet

import (
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Signer — способность подписать транзакцию. Реализуется Wallet, в тестах
// подменяется заглушкой.
type Signer interface {
	SignTransaction(tx *solana.Transaction) error
}

// Session — явное состояние подключения кошелька: приобретается на connect,
// очищается на disconnect. Отключённая сессия — precondition failure для
// всех операций, требующих подписи.
type Session struct {
	mu     sync.RWMutex
	wallet *Wallet
}

func NewSession() *Session {
	return &Session{}
}

// Connect привязывает кошелёк к сессии.
func (s *Session) Connect(w *Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallet = w
}

// Disconnect очищает сессию.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallet = nil
}

// Connected сообщает, привязан ли кошелёк.
func (s *Session) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wallet != nil
}

// PublicKey возвращает публичный ключ сессии; ok == false, если кошелёк
// отключён.
func (s *Session) PublicKey() (solana.PublicKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.wallet == nil {
		return solana.PublicKey{}, false
	}
	return s.wallet.PublicKey, true
}

// Signer возвращает подписывающую способность сессии; nil, если кошелёк
// отключён.
func (s *Session) Signer() Signer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.wallet == nil {
		return nil
	}
	return s.wallet
}
