// Package usecase implements business logic orchestration for cryptographic operations.
//
// # Master key storage
//
// The master key lives in the key store under the "master_key" entry as a JSON
// string. Without a KMS keeper the string is the standard base64 encoding of the
// 32 key bytes. With a keeper it is the base64 encoding of the key wrapped by the
// KMS, so the key store alone never reveals the key.
//
// # Usage Example
//
//	cell := cryptoDomain.NewKeyCell()
//	masterKeyUseCase := usecase.NewMasterKeyUseCase(keyStore, cell, cryptoService.NewRandomSource(), nil, logger)
//	if err := masterKeyUseCase.Initialize(ctx); err != nil {
//	    return err
//	}
package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	cryptoDomain "github.com/allisson/queryowl/internal/crypto/domain"
	cryptoService "github.com/allisson/queryowl/internal/crypto/service"
	"github.com/allisson/queryowl/internal/kvstore"
)

// masterKeyUseCase implements MasterKeyUseCase on top of a kvstore.Store.
//
// Initialize runs under a mutex so two concurrent callers cannot both find the
// store empty and persist different keys.
type masterKeyUseCase struct {
	store  kvstore.Store
	cell   *cryptoDomain.KeyCell
	random cryptoService.RandomSource
	keeper cryptoDomain.KMSKeeper
	logger *slog.Logger

	mu sync.Mutex
}

// NewMasterKeyUseCase creates a master key use case. keeper may be nil, in which
// case the key is stored as plain base64.
func NewMasterKeyUseCase(
	store kvstore.Store,
	cell *cryptoDomain.KeyCell,
	random cryptoService.RandomSource,
	keeper cryptoDomain.KMSKeeper,
	logger *slog.Logger,
) MasterKeyUseCase {
	return &masterKeyUseCase{
		store:  store,
		cell:   cell,
		random: random,
		keeper: keeper,
		logger: logger,
	}
}

// Initialize loads or creates the master key and publishes it.
func (m *masterKeyUseCase) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cell.IsSet() {
		return cryptoDomain.ErrMasterKeyAlreadySet
	}

	raw, ok, err := m.store.Get(ctx, cryptoDomain.MasterKeyEntry)
	if err != nil {
		return fmt.Errorf("%w: %v", cryptoDomain.ErrKeyStore, err)
	}

	if ok {
		mk, err := m.load(ctx, raw)
		if err != nil {
			return err
		}
		if err := m.cell.Set(mk); err != nil {
			return err
		}
		m.logger.Info("master key loaded", slog.Bool("kms_wrapped", m.keeper != nil))
		return nil
	}

	mk, encoded, err := m.generate(ctx)
	if err != nil {
		return err
	}

	if err := kvstore.SetJSON(ctx, m.store, cryptoDomain.MasterKeyEntry, encoded); err != nil {
		return fmt.Errorf("%w: %v", cryptoDomain.ErrKeyStore, err)
	}
	if err := m.store.Flush(ctx); err != nil {
		return fmt.Errorf("%w: %v", cryptoDomain.ErrKeyStore, err)
	}

	if err := m.cell.Set(mk); err != nil {
		return err
	}
	m.logger.Info("master key generated", slog.Bool("kms_wrapped", m.keeper != nil))
	return nil
}

// CurrentKey returns the published master key.
func (m *masterKeyUseCase) CurrentKey() (*cryptoDomain.MasterKey, error) {
	return m.cell.Get()
}

// Generate returns a fresh key encoded for storage.
func (m *masterKeyUseCase) Generate(ctx context.Context) (string, error) {
	_, encoded, err := m.generate(ctx)
	return encoded, err
}

// load decodes the stored entry, unwrapping it with the KMS keeper when one is set.
func (m *masterKeyUseCase) load(ctx context.Context, raw json.RawMessage) (*cryptoDomain.MasterKey, error) {
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, fmt.Errorf("%w: stored value is not a string", cryptoDomain.ErrKeyDecode)
	}

	if m.keeper == nil {
		return cryptoDomain.DecodeMasterKey(encoded)
	}

	wrapped, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyDecode, err)
	}

	keyBytes, err := m.keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to unwrap with KMS: %v", cryptoDomain.ErrKeyDecode, err)
	}
	defer cryptoDomain.Zero(keyBytes)

	mk, err := cryptoDomain.NewMasterKey(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptoDomain.ErrKeyDecode, err)
	}
	return mk, nil
}

// generate draws a new key and returns it with its storage encoding.
func (m *masterKeyUseCase) generate(ctx context.Context) (*cryptoDomain.MasterKey, string, error) {
	keyBytes, err := cryptoService.ReadRandom(m.random, cryptoDomain.KeySize)
	if err != nil {
		return nil, "", err
	}
	defer cryptoDomain.Zero(keyBytes)

	mk, err := cryptoDomain.NewMasterKey(keyBytes)
	if err != nil {
		return nil, "", err
	}

	if m.keeper == nil {
		return mk, mk.Encode(), nil
	}

	wrapped, err := m.keeper.Encrypt(ctx, keyBytes)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to wrap with KMS: %v", cryptoDomain.ErrKeyStore, err)
	}
	return mk, base64.StdEncoding.EncodeToString(wrapped), nil
}
