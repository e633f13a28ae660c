// =============================
// File: internal/token/store.go
// =============================
package token

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Store — локальное durable-хранилище обогащённого списка токенов.
// Список — единственное состояние, переживающее сессию; Save всегда
// заменяет его целиком.
type Store struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger.Named("token-store"),
	}
}

// Save полностью заменяет сохранённый список.
func (s *Store) Save(tokens []Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(tokens)
}

func (s *Store) writeLocked(tokens []Token) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}

	s.logger.Debug("token list persisted", zap.Int("count", len(tokens)))
	return nil
}

// Load восстанавливает список из файла. Отсутствие файла — пустой список.
func (s *Store) Load() ([]Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}

	var tokens []Token
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token cache: %w", err)
	}
	return tokens, nil
}

// Update — единственная точечная операция: правит один токен по mint,
// не трогая остальной список.
func (s *Store) Update(mint string, apply func(*Token)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read token cache: %w", err)
	}

	var tokens []Token
	if err := json.Unmarshal(data, &tokens); err != nil {
		return fmt.Errorf("failed to unmarshal token cache: %w", err)
	}

	found := false
	for i := range tokens {
		if tokens[i].Mint == mint {
			apply(&tokens[i])
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("token %s not found in cache", mint)
	}

	return s.writeLocked(tokens)
}
