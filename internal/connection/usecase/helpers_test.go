package usecase

import (
	"context"
	"crypto/rand"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/queryowl/internal/connection/repository"
	cryptoDomain "github.com/allisson/queryowl/internal/crypto/domain"
	cryptoService "github.com/allisson/queryowl/internal/crypto/service"
	"github.com/allisson/queryowl/internal/kvstore"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// countingStore counts flushes of the wrapped store.
type countingStore struct {
	kvstore.Store
	flushes int
}

func (s *countingStore) Flush(ctx context.Context) error {
	s.flushes++
	return s.Store.Flush(ctx)
}

type fixture struct {
	path   string
	store  *countingStore
	repo   *repository.ConnectionRepository
	cipher *cryptoService.CipherService
}

func newFixture(t *testing.T, contents string) *fixture {
	t.Helper()

	path := filepath.Join(t.TempDir(), "connections.json")
	if contents != "" {
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	}
	fileStore, err := kvstore.OpenFileStore(path)
	require.NoError(t, err)
	store := &countingStore{Store: fileStore}

	key := make([]byte, cryptoDomain.KeySize)
	_, err = rand.Read(key)
	require.NoError(t, err)
	mk, err := cryptoDomain.NewMasterKey(key)
	require.NoError(t, err)
	cell := cryptoDomain.NewKeyCell()
	require.NoError(t, cell.Set(mk))

	return &fixture{
		path:  path,
		store: store,
		repo:  repository.NewConnectionRepository(store),
		cipher: cryptoService.NewCipherService(
			cell,
			cryptoService.NewAEADManager(cryptoService.NewRandomSource()),
			cryptoDomain.AESGCM,
			testLogger(),
		),
	}
}

func (f *fixture) readFile(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.path)
	require.NoError(t, err)
	return string(data)
}
