package service

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"gocloud.dev/secrets"
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"

	cryptoDomain "github.com/allisson/queryowl/internal/crypto/domain"
	apperrors "github.com/allisson/queryowl/internal/errors"
)

// KMSSchemes lists the key URI schemes a master key can be wrapped with.
// base64key is a local key meant for development and tests.
var KMSSchemes = []string{"gcpkms", "awskms", "azurekeyvault", "hashivault", "base64key"}

// KMSService opens keepers used to wrap the stored master key.
type KMSService interface {
	// OpenKeeper opens a keeper for keyURI. The URI scheme must be one of
	// KMSSchemes; an unknown scheme wraps ErrInvalidInput.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService creates a KMSService backed by gocloud.dev/secrets.
func NewKMSService() KMSService {
	return &kmsService{}
}

func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	if err := validateKeyURI(keyURI); err != nil {
		return nil, err
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

func validateKeyURI(keyURI string) error {
	u, err := url.Parse(keyURI)
	if err != nil {
		return fmt.Errorf("%w: malformed KMS key URI: %v", apperrors.ErrInvalidInput, err)
	}
	if !slices.Contains(KMSSchemes, u.Scheme) {
		return fmt.Errorf("%w: unsupported KMS key URI scheme %q", apperrors.ErrInvalidInput, u.Scheme)
	}
	return nil
}
