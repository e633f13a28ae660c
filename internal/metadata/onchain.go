// =============================
// File: internal/metadata/onchain.go
// =============================
package metadata

import (
	"context"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// MetaplexTokenMetadataProgramID — программа Token Metadata, владеющая
// metadata-аккаунтами минтов.
const MetaplexTokenMetadataProgramID = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"

// maxFieldLen отсекает мусорные длины при разборе сырого аккаунта.
const maxFieldLen = 1024

var metaplexProgramID = solana.MustPublicKeyFromBase58(MetaplexTokenMetadataProgramID)

// AccountReader — доступ к сырым данным аккаунта; отсутствующий аккаунт
// возвращается как (nil, nil).
type AccountReader interface {
	GetAccountData(ctx context.Context, account solana.PublicKey) ([]byte, error)
}

// DeriveMetadataAddress детерминированно выводит адрес metadata-аккаунта
// для минта.
func DeriveMetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress(
		[][]byte{
			[]byte("metadata"),
			metaplexProgramID.Bytes(),
			mint.Bytes(),
		},
		metaplexProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to find metadata PDA: %w", err)
	}
	return pda, nil
}

// OnChainLookup — третий ярус: чтение metadata-аккаунта минта из сети.
// Любой сбой (невалидный mint, недоступный RPC, отсутствующий аккаунт,
// битый layout) деградирует до пустого результата.
func OnChainLookup(reader AccountReader, logger *zap.Logger) LookupFunc {
	log := logger.Named("onchain-metadata")

	return func(ctx context.Context, mint string) Pair {
		mintPk, err := solana.PublicKeyFromBase58(mint)
		if err != nil {
			log.Debug("invalid mint for on-chain lookup", zap.String("mint", mint), zap.Error(err))
			return Pair{}
		}

		pda, err := DeriveMetadataAddress(mintPk)
		if err != nil {
			log.Debug("metadata PDA derivation failed", zap.String("mint", mint), zap.Error(err))
			return Pair{}
		}

		data, err := reader.GetAccountData(ctx, pda)
		if err != nil || data == nil {
			log.Debug("metadata account unavailable",
				zap.String("mint", mint),
				zap.Error(err))
			return Pair{}
		}

		pair, err := parseMetadataAccount(data)
		if err != nil {
			log.Debug("malformed metadata account",
				zap.String("mint", mint),
				zap.Error(err))
			return Pair{}
		}
		return pair
	}
}

// parseMetadataAccount разбирает фиксированный layout metadata-аккаунта:
// 1 байт key, 32 байта update authority, 32 байта mint, затем имя и символ
// как длина-префиксованные строки (u32 LE + UTF-8, NUL-padded).
func parseMetadataAccount(data []byte) (Pair, error) {
	dec := bin.NewBinDecoder(data)

	// key + update_authority + mint
	if _, err := dec.ReadNBytes(1 + 32 + 32); err != nil {
		return Pair{}, fmt.Errorf("metadata header too short: %w", err)
	}

	name, err := readLenPrefixedString(dec)
	if err != nil {
		return Pair{}, fmt.Errorf("failed to read name: %w", err)
	}

	symbol, err := readLenPrefixedString(dec)
	if err != nil {
		return Pair{}, fmt.Errorf("failed to read symbol: %w", err)
	}

	return Pair{Name: name, Symbol: symbol}, nil
}

func readLenPrefixedString(dec *bin.Decoder) (string, error) {
	length, err := dec.ReadUint32(bin.LE)
	if err != nil {
		return "", err
	}
	if length > maxFieldLen {
		return "", fmt.Errorf("implausible field length %d", length)
	}

	raw, err := dec.ReadNBytes(int(length))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(strings.TrimRight(string(raw), "\x00")), nil
}
