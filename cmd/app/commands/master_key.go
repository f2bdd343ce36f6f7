package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	cryptoUseCase "github.com/allisson/queryowl/internal/crypto/usecase"
)

// RunCreateMasterKey prints a fresh master key encoded the way the key store
// keeps it, without persisting or publishing it. When KMS_KEY_URI is set the key
// is wrapped by the KMS keeper before encoding.
//
// The printed value can pre-seed the "master_key" field of the key store so
// that several instances share one key.
func RunCreateMasterKey(
	ctx context.Context,
	masterKeyUseCase cryptoUseCase.MasterKeyUseCase,
	logger *slog.Logger,
	writer io.Writer,
	kmsWrapped bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	encoded, err := masterKeyUseCase.Generate(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}

	logger.Info("master key generated", slog.Bool("kms_wrapped", kmsWrapped))

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"master_key":  encoded,
			"kms_wrapped": kmsWrapped,
		})
	}

	if kmsWrapped {
		_, _ = fmt.Fprintln(writer, "# Master key wrapped by KMS_KEY_URI")
	} else {
		_, _ = fmt.Fprintln(writer, "# Plain base64 master key")
	}
	_, _ = fmt.Fprintln(writer, "# Store it as the \"master_key\" field of the key store")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "MASTER_KEY=\"%s\"\n", encoded)
	return nil
}
