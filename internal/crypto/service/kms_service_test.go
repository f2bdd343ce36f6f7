package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/queryowl/internal/errors"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		require.NotNil(t, keeper)
		assert.NoError(t, keeper.Close())
	})

	t.Run("Error_BadLocalKey", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "base64key://not-base64!")
		assert.Error(t, err)
		assert.Nil(t, keeper)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})
}

func TestValidateKeyURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		wantErr bool
	}{
		{name: "local key", uri: "base64key://c2VjcmV0"},
		{name: "gcp", uri: "gcpkms://projects/p/locations/global/keyRings/r/cryptoKeys/k"},
		{name: "aws", uri: "awskms:///alias/queryowl"},
		{name: "azure", uri: "azurekeyvault://vault.vault.azure.net/keys/queryowl"},
		{name: "vault", uri: "hashivault://queryowl"},
		{name: "empty", uri: "", wantErr: true},
		{name: "unknown scheme", uri: "invalid://uri", wantErr: true},
		{name: "no scheme", uri: "queryowl", wantErr: true},
		{name: "malformed", uri: "://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateKeyURI(tt.uri)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestKMSService_WrapsMasterKey(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	keeper, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, keeper.Close())
	}()

	masterKey := newTestKey(t)

	wrapped, err := keeper.Encrypt(ctx, masterKey)
	require.NoError(t, err)
	assert.NotEqual(t, masterKey, wrapped)

	unwrapped, err := keeper.Decrypt(ctx, wrapped)
	require.NoError(t, err)
	assert.Equal(t, masterKey, unwrapped)

	t.Run("other keeper cannot unwrap", func(t *testing.T) {
		other, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, other.Close())
		}()

		out, err := other.Decrypt(ctx, wrapped)
		assert.Error(t, err)
		assert.Nil(t, out)
	})

	t.Run("garbage ciphertext", func(t *testing.T) {
		out, err := keeper.Decrypt(ctx, []byte("not a valid ciphertext"))
		assert.Error(t, err)
		assert.Nil(t, out)
	})
}
