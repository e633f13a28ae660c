// =============================
// File: internal/sweep/orchestrator.go
// =============================
package sweep

import (
	"context"
	"encoding/base64"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/dust-sweeper/internal/jupiter"
	"github.com/rovshanmuradov/dust-sweeper/internal/token"
	"github.com/rovshanmuradov/dust-sweeper/internal/wallet"
)

// Quoter — котировка и сборка транзакции у свап-агрегатора.
type Quoter interface {
	GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64) (*jupiter.Quote, error)
	BuildSwapTransaction(ctx context.Context, userPublicKey string, quote *jupiter.Quote) (*jupiter.SwapResponse, error)
}

// Submitter — отправка подписанной транзакции с ожиданием processed.
type Submitter interface {
	SubmitSigned(ctx context.Context, tx *solana.Transaction) (string, error)
}

// WalletSession — подключённый кошелёк: публичный ключ и подпись.
type WalletSession interface {
	PublicKey() (solana.PublicKey, bool)
	Signer() wallet.Signer
}

// ProgressFunc вызывается на каждом переходе состояния токена.
type ProgressFunc func(index, total int, tok token.Token, state State)

// Orchestrator ведёт конвертацию батча токенов в SOL: строго последовательно,
// по одному токену за раз. Конкурентные свапы одного кошелька создают гонки
// по nonce/slot и агрессивный rate limiting у агрегатора.
type Orchestrator struct {
	quoter     Quoter
	chain      Submitter
	session    WalletSession
	delayer    Delayer
	logger     *zap.Logger
	onProgress ProgressFunc
}

func NewOrchestrator(quoter Quoter, chain Submitter, session WalletSession, delayer Delayer, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		quoter:  quoter,
		chain:   chain,
		session: session,
		delayer: delayer,
		logger:  logger.Named("sweep"),
	}
}

// OnProgress регистрирует наблюдателя переходов состояний.
func (o *Orchestrator) OnProgress(fn ProgressFunc) {
	o.onProgress = fn
}

// ConvertOne конвертирует один токен. Отключённый кошелёк — фатальная
// ошибка вызова, а не Failed-результат.
func (o *Orchestrator) ConvertOne(ctx context.Context, tok token.Token) (ConversionResult, error) {
	pubkey, ok := o.session.PublicKey()
	signer := o.session.Signer()
	if !ok || signer == nil {
		return ConversionResult{}, ErrWalletDisconnected
	}
	return o.convertOne(ctx, pubkey, signer, tok, 0, 1), nil
}

func (o *Orchestrator) convertOne(ctx context.Context, pubkey solana.PublicKey, signer wallet.Signer, tok token.Token, index, total int) ConversionResult {
	log := o.logger.With(
		zap.String("mint", tok.Mint),
		zap.String("symbol", tok.Symbol))

	advance := func(state State) {
		if o.onProgress != nil {
			o.onProgress(index, total, tok, state)
		}
	}

	fail := func(state State, err error) ConversionResult {
		advance(StateFailed)
		log.Warn("token conversion failed",
			zap.String("stage", state.String()),
			zap.Error(err))
		return ConversionResult{Success: false, Mint: tok.Mint, Error: err.Error()}
	}

	amount := token.RawAmount(tok.Balance, tok.Decimals)

	advance(StateQuoting)
	quote, err := o.quoter.GetQuote(ctx, tok.Mint, jupiter.SOLMint, amount)
	if err != nil {
		return fail(StateQuoting, err)
	}

	advance(StateBuilding)
	swapResp, err := o.quoter.BuildSwapTransaction(ctx, pubkey.String(), quote)
	if err != nil {
		return fail(StateBuilding, err)
	}

	advance(StateSigning)
	tx, err := deserializeTransaction(swapResp.SwapTransaction)
	if err != nil {
		return fail(StateSigning, &SigningError{Err: err})
	}
	if err := signer.SignTransaction(tx); err != nil {
		return fail(StateSigning, &SigningError{Err: err})
	}

	advance(StateSubmitting)
	sig, err := o.chain.SubmitSigned(ctx, tx)
	if err != nil {
		return fail(StateSubmitting, err)
	}

	advance(StateConfirmed)
	log.Info("token converted",
		zap.Uint64("raw_amount", amount),
		zap.String("signature", sig))

	return ConversionResult{Success: true, Mint: tok.Mint, Signature: sig}
}

// ConvertBatch конвертирует токены по одному, в порядке входа, с паузой
// между попытками. Возвращает ровно по одному результату на токен; отказ
// одного токена не прерывает очередь.
func (o *Orchestrator) ConvertBatch(ctx context.Context, tokens []token.Token) []ConversionResult {
	pubkey, ok := o.session.PublicKey()
	signer := o.session.Signer()
	if !ok || signer == nil {
		o.logger.Warn("conversion requested without a connected wallet")
		return []ConversionResult{}
	}
	if len(tokens) == 0 {
		return []ConversionResult{}
	}

	o.logger.Info("starting conversion batch",
		zap.String("wallet", pubkey.String()),
		zap.Int("tokens", len(tokens)))

	results := make([]ConversionResult, 0, len(tokens))
	for i, tok := range tokens {
		results = append(results, o.convertOne(ctx, pubkey, signer, tok, i, len(tokens)))

		if i < len(tokens)-1 {
			o.delayer.Delay(ctx)
		}
	}

	successCount := 0
	for _, r := range results {
		if r.Success {
			successCount++
		}
	}
	o.logger.Info("conversion batch finished",
		zap.Int("succeeded", successCount),
		zap.Int("total", len(tokens)))

	return results
}

// deserializeTransaction восстанавливает versioned-транзакцию из base64
// payload сервиса сборки.
func deserializeTransaction(payload string) (*solana.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode transaction payload: %w", err)
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize transaction: %w", err)
	}
	return tx, nil
}
