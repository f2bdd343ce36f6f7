package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/queryowl/internal/crypto/domain"
	serviceMocks "github.com/allisson/queryowl/internal/crypto/service/mocks"
	cryptoMocks "github.com/allisson/queryowl/internal/crypto/usecase/mocks"
)

// envelopeShaped is 32 zero bytes in standard base64.
const envelopeShaped = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="

func TestEnsureInitialized(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		initErr error
		wantErr bool
	}{
		{name: "initialized", initErr: nil},
		{name: "already set", initErr: cryptoDomain.ErrMasterKeyAlreadySet},
		{name: "key store failure", initErr: cryptoDomain.ErrKeyStore, wantErr: true},
		{name: "decode failure", initErr: cryptoDomain.ErrKeyDecode, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUseCase := &cryptoMocks.MockMasterKeyUseCase{}
			mockUseCase.On("Initialize", ctx).Return(tt.initErr)

			err := ensureInitialized(ctx, mockUseCase)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.initErr)
				assert.Contains(t, err.Error(), "failed to initialize encryption")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRunInitKey(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("success", func(t *testing.T) {
		mockUseCase := &cryptoMocks.MockMasterKeyUseCase{}
		mockUseCase.On("Initialize", ctx).Return(nil)

		var out bytes.Buffer
		require.NoError(t, RunInitKey(ctx, mockUseCase, logger, &out))
		assert.Contains(t, out.String(), "Master key initialized")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("store-error", func(t *testing.T) {
		mockUseCase := &cryptoMocks.MockMasterKeyUseCase{}
		mockUseCase.On("Initialize", ctx).Return(cryptoDomain.ErrKeyStore)

		var out bytes.Buffer
		err := RunInitKey(ctx, mockUseCase, logger, &out)
		require.ErrorIs(t, err, cryptoDomain.ErrKeyStore)
		assert.Empty(t, out.String())
	})
}

func TestRunEncrypt(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockUseCase := &cryptoMocks.MockMasterKeyUseCase{}
		mockCipher := &serviceMocks.MockCipher{}
		mockUseCase.On("Initialize", ctx).Return(nil)
		mockCipher.On("Encrypt", "hunter2").Return(envelopeShaped, nil)

		var out bytes.Buffer
		require.NoError(t, RunEncrypt(ctx, mockUseCase, mockCipher, &out, "hunter2"))
		assert.Equal(t, envelopeShaped+"\n", out.String())
		mockUseCase.AssertExpectations(t)
		mockCipher.AssertExpectations(t)
	})

	t.Run("initialize-error", func(t *testing.T) {
		mockUseCase := &cryptoMocks.MockMasterKeyUseCase{}
		mockCipher := &serviceMocks.MockCipher{}
		mockUseCase.On("Initialize", ctx).Return(cryptoDomain.ErrKeyDecode)

		var out bytes.Buffer
		err := RunEncrypt(ctx, mockUseCase, mockCipher, &out, "hunter2")
		require.ErrorIs(t, err, cryptoDomain.ErrKeyDecode)
		mockCipher.AssertNotCalled(t, "Encrypt", "hunter2")
	})

	t.Run("encrypt-error", func(t *testing.T) {
		mockUseCase := &cryptoMocks.MockMasterKeyUseCase{}
		mockCipher := &serviceMocks.MockCipher{}
		mockUseCase.On("Initialize", ctx).Return(nil)
		mockCipher.On("Encrypt", "hunter2").Return("", cryptoDomain.ErrRandomSource)

		var out bytes.Buffer
		err := RunEncrypt(ctx, mockUseCase, mockCipher, &out, "hunter2")
		require.ErrorIs(t, err, cryptoDomain.ErrRandomSource)
		assert.Empty(t, out.String())
	})
}

func TestRunDecrypt(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockUseCase := &cryptoMocks.MockMasterKeyUseCase{}
		mockCipher := &serviceMocks.MockCipher{}
		mockUseCase.On("Initialize", ctx).Return(nil)
		mockCipher.On("Decrypt", envelopeShaped).Return("hunter2", nil)

		var out bytes.Buffer
		require.NoError(t, RunDecrypt(ctx, mockUseCase, mockCipher, &out, envelopeShaped))
		assert.Equal(t, "hunter2\n", out.String())
	})

	t.Run("authentication-failure", func(t *testing.T) {
		mockUseCase := &cryptoMocks.MockMasterKeyUseCase{}
		mockCipher := &serviceMocks.MockCipher{}
		mockUseCase.On("Initialize", ctx).Return(nil)
		mockCipher.On("Decrypt", envelopeShaped).Return("", cryptoDomain.ErrDecryptionFailed)

		var out bytes.Buffer
		err := RunDecrypt(ctx, mockUseCase, mockCipher, &out, envelopeShaped)
		require.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.Contains(t, err.Error(), "failed to decrypt value")
	})

	t.Run("initialize-error", func(t *testing.T) {
		mockUseCase := &cryptoMocks.MockMasterKeyUseCase{}
		mockUseCase.On("Initialize", ctx).Return(errors.New("disk full"))

		var out bytes.Buffer
		err := RunDecrypt(ctx, mockUseCase, &serviceMocks.MockCipher{}, &out, envelopeShaped)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestRunClassify(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		format string
		want   string
	}{
		{name: "envelope text", value: envelopeShaped, format: "text", want: "encrypted\n"},
		{name: "plaintext text", value: "hunter2", format: "text", want: "plaintext\n"},
		{name: "empty text", value: "", format: "text", want: "plaintext\n"},
		{name: "envelope json", value: envelopeShaped, format: "json", want: "{\n  \"encrypted\": true\n}\n"},
		{name: "plaintext json", value: "hunter2", format: "json", want: "{\n  \"encrypted\": false\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, RunClassify(&out, tt.value, tt.format))
			assert.Equal(t, tt.want, out.String())
		})
	}

	t.Run("invalid-format", func(t *testing.T) {
		var out bytes.Buffer
		err := RunClassify(&out, "hunter2", "xml")
		require.Error(t, err)
		assert.Empty(t, out.String())
	})
}
