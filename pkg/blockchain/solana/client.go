// pkg/blockchain/solana/client.go
package solana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// DefaultRPCEndpoint используется, когда в конфигурации не задан ни один RPC.
const DefaultRPCEndpoint = "https://api.mainnet-beta.solana.com"

const (
	confirmPollInterval = 500 * time.Millisecond
	confirmMaxElapsed   = 30 * time.Second
)

// TokenAccount — сырой токен-аккаунт кошелька: mint, баланс в человеческих
// единицах, decimals и адрес самого аккаунта.
type TokenAccount struct {
	Mint     string
	Balance  float64
	Decimals uint8
	Address  string
}

type Client struct {
	rpcPool *RPCPool
	logger  *zap.Logger
}

// NewClient создает новый экземпляр клиента Solana
func NewClient(rpcList []string, logger *zap.Logger) (*Client, error) {
	if len(rpcList) == 0 {
		return nil, errors.New("empty RPC list")
	}

	for _, rpcURL := range rpcList {
		if _, err := url.Parse(rpcURL); err != nil {
			return nil, errors.New("invalid RPC URL: " + rpcURL)
		}
	}

	return &Client{
		rpcPool: NewRPCPool(rpcList),
		logger:  logger.Named("solana-client"),
	}, nil
}

// GetTokenAccounts возвращает все SPL токен-аккаунты кошелька с ненулевым
// балансом, в порядке выдачи RPC. Нулевые балансы отфильтровываются.
func (c *Client) GetTokenAccounts(ctx context.Context, owner string) ([]TokenAccount, error) {
	ownerPk, err := solana.PublicKeyFromBase58(owner)
	if err != nil {
		return nil, &ChainQueryError{Op: "getTokenAccounts", Err: fmt.Errorf("invalid owner pubkey %q: %w", owner, err)}
	}

	tokenProgramID := solana.TokenProgramID
	resp, err := c.rpcPool.GetClient().GetTokenAccountsByOwner(
		ctx,
		ownerPk,
		&rpc.GetTokenAccountsConfig{ProgramId: &tokenProgramID},
		&rpc.GetTokenAccountsOpts{Encoding: solana.EncodingJSONParsed},
	)
	if err != nil {
		c.logger.Error("failed to get token accounts by owner", zap.String("owner", owner), zap.Error(err))
		return nil, &ChainQueryError{Op: "getTokenAccounts", Err: err}
	}

	accounts := make([]TokenAccount, 0, len(resp.Value))
	for _, raw := range resp.Value {
		acc, err := parseTokenAccount(raw.Pubkey.String(), raw.Account.Data.GetRawJSON())
		if err != nil {
			return nil, &ChainQueryError{Op: "getTokenAccounts", Err: err}
		}
		if acc.Balance > 0 {
			accounts = append(accounts, acc)
		}
	}

	c.logger.Debug("token accounts fetched",
		zap.String("owner", owner),
		zap.Int("total", len(resp.Value)),
		zap.Int("non_zero", len(accounts)))

	return accounts, nil
}

// parsedTokenAccountData — jsonParsed-представление SPL токен-аккаунта.
type parsedTokenAccountData struct {
	Parsed struct {
		Info struct {
			Mint        string `json:"mint"`
			TokenAmount struct {
				UIAmount       *float64 `json:"uiAmount"`
				UIAmountString string   `json:"uiAmountString"`
				Decimals       uint8    `json:"decimals"`
			} `json:"tokenAmount"`
		} `json:"info"`
	} `json:"parsed"`
}

func parseTokenAccount(address string, rawJSON []byte) (TokenAccount, error) {
	if rawJSON == nil {
		return TokenAccount{}, fmt.Errorf("account %s: no jsonParsed data", address)
	}

	var data parsedTokenAccountData
	if err := json.Unmarshal(rawJSON, &data); err != nil {
		return TokenAccount{}, fmt.Errorf("account %s: malformed account data: %w", address, err)
	}

	info := data.Parsed.Info
	if info.Mint == "" {
		return TokenAccount{}, fmt.Errorf("account %s: missing mint in account data", address)
	}

	balance := 0.0
	if info.TokenAmount.UIAmountString != "" {
		parsed, err := strconv.ParseFloat(info.TokenAmount.UIAmountString, 64)
		if err != nil {
			return TokenAccount{}, fmt.Errorf("account %s: malformed uiAmountString %q: %w",
				address, info.TokenAmount.UIAmountString, err)
		}
		balance = parsed
	} else if info.TokenAmount.UIAmount != nil {
		balance = *info.TokenAmount.UIAmount
	}

	return TokenAccount{
		Mint:     info.Mint,
		Balance:  balance,
		Decimals: info.TokenAmount.Decimals,
		Address:  address,
	}, nil
}

// SubmitSigned отправляет подписанную транзакцию в сеть (preflight-симуляция
// не пропускается) и дожидается уровня processed перед возвратом.
func (c *Client) SubmitSigned(ctx context.Context, tx *solana.Transaction) (string, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", &SubmissionError{Stage: "send", Err: fmt.Errorf("failed to serialize transaction: %w", err)}
	}

	sig, err := c.rpcPool.GetClient().SendRawTransactionWithOpts(ctx, raw, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentProcessed,
	})
	if err != nil {
		c.logger.Error("failed to send raw transaction", zap.Error(err))
		return "", &SubmissionError{Stage: "send", Err: err}
	}

	if err := c.waitForProcessed(ctx, sig); err != nil {
		return sig.String(), &SubmissionError{Stage: "confirm", Err: err}
	}

	c.logger.Info("transaction submitted",
		zap.String("signature", sig.String()))

	return sig.String(), nil
}

// waitForProcessed опрашивает статус подписи, пока транзакция не достигнет
// хотя бы уровня processed.
func (c *Client) waitForProcessed(ctx context.Context, sig solana.Signature) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = confirmPollInterval

	op := func() (struct{}, error) {
		statuses, err := c.rpcPool.GetClient().GetSignatureStatuses(ctx, false, sig)
		if err != nil {
			c.logger.Warn("error getting signature statuses", zap.Error(err))
			return struct{}{}, err
		}
		if statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
			return struct{}{}, errors.New("transaction not yet processed")
		}

		status := statuses.Value[0]
		if status.Err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("transaction failed on chain: %v", status.Err))
		}
		switch status.ConfirmationStatus {
		case rpc.ConfirmationStatusProcessed, rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
			return struct{}{}, nil
		default:
			return struct{}{}, errors.New("transaction not yet processed")
		}
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(bo),
		backoff.WithMaxElapsedTime(confirmMaxElapsed),
	)
	return err
}

// GetConfirmationStatus — best-effort проверка: подтверждена ли транзакция
// без ошибки. Никогда не возвращает ошибку, при любом сбое — false.
func (c *Client) GetConfirmationStatus(ctx context.Context, signature string) bool {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return false
	}

	statuses, err := c.rpcPool.GetClient().GetSignatureStatuses(ctx, true, sig)
	if err != nil || statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
		return false
	}

	return statuses.Value[0].Err == nil
}

// GetSOLBalance возвращает баланс кошелька в SOL.
func (c *Client) GetSOLBalance(ctx context.Context, owner string) (float64, error) {
	ownerPk, err := solana.PublicKeyFromBase58(owner)
	if err != nil {
		return 0, &ChainQueryError{Op: "getBalance", Err: fmt.Errorf("invalid owner pubkey %q: %w", owner, err)}
	}

	result, err := c.rpcPool.GetClient().GetBalance(ctx, ownerPk, rpc.CommitmentConfirmed)
	if err != nil {
		c.logger.Error("failed to get SOL balance", zap.Error(err))
		return 0, &ChainQueryError{Op: "getBalance", Err: err}
	}

	return float64(result.Value) / 1e9, nil
}

// GetAccountData читает бинарные данные аккаунта. Отсутствующий аккаунт
// возвращается как (nil, nil) — для цепочки метаданных это не ошибка.
func (c *Client) GetAccountData(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	info, err := c.rpcPool.GetClient().GetAccountInfo(ctx, account)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, nil
		}
		return nil, &ChainQueryError{Op: "getAccountInfo", Err: err}
	}
	if info == nil || info.Value == nil {
		return nil, nil
	}
	return info.Value.Data.GetBinary(), nil
}
