package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/queryowl/internal/crypto/domain"
	cryptoService "github.com/allisson/queryowl/internal/crypto/service"
	cryptoUseCase "github.com/allisson/queryowl/internal/crypto/usecase"
)

// ensureInitialized publishes the master key, loading or creating it in the
// key store. A key already published by this process is accepted.
func ensureInitialized(ctx context.Context, masterKeyUseCase cryptoUseCase.MasterKeyUseCase) error {
	err := masterKeyUseCase.Initialize(ctx)
	if err == nil || errors.Is(err, cryptoDomain.ErrMasterKeyAlreadySet) {
		return nil
	}
	return fmt.Errorf("failed to initialize encryption: %w", err)
}

// RunInitKey loads the master key from the key store, generating and storing
// one on first use. It does not touch stored credentials.
func RunInitKey(
	ctx context.Context,
	masterKeyUseCase cryptoUseCase.MasterKeyUseCase,
	logger *slog.Logger,
	writer io.Writer,
) error {
	if err := ensureInitialized(ctx, masterKeyUseCase); err != nil {
		return err
	}

	logger.Info("master key ready")
	_, _ = fmt.Fprintln(writer, "Master key initialized")
	return nil
}

// RunEncrypt prints the encoded envelope for value.
func RunEncrypt(
	ctx context.Context,
	masterKeyUseCase cryptoUseCase.MasterKeyUseCase,
	cipher cryptoService.Cipher,
	writer io.Writer,
	value string,
) error {
	if err := ensureInitialized(ctx, masterKeyUseCase); err != nil {
		return err
	}

	envelope, err := cipher.Encrypt(value)
	if err != nil {
		return fmt.Errorf("failed to encrypt value: %w", err)
	}

	_, _ = fmt.Fprintln(writer, envelope)
	return nil
}

// RunDecrypt prints the plaintext for an envelope. Values that are not
// envelopes are printed unchanged.
func RunDecrypt(
	ctx context.Context,
	masterKeyUseCase cryptoUseCase.MasterKeyUseCase,
	cipher cryptoService.Cipher,
	writer io.Writer,
	value string,
) error {
	if err := ensureInitialized(ctx, masterKeyUseCase); err != nil {
		return err
	}

	plaintext, err := cipher.Decrypt(value)
	if err != nil {
		return fmt.Errorf("failed to decrypt value: %w", err)
	}

	_, _ = fmt.Fprintln(writer, plaintext)
	return nil
}

// RunClassify reports whether value has the shape of an encoded envelope.
// No key is needed.
func RunClassify(writer io.Writer, value, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	encrypted := cryptoService.LooksEncrypted(value)
	if format == "json" {
		return writeJSON(writer, map[string]bool{"encrypted": encrypted})
	}

	if encrypted {
		_, _ = fmt.Fprintln(writer, "encrypted")
	} else {
		_, _ = fmt.Fprintln(writer, "plaintext")
	}
	return nil
}
