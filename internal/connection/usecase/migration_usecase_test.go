package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	connectionDomain "github.com/allisson/queryowl/internal/connection/domain"
	"github.com/allisson/queryowl/internal/connection/repository"
	usecaseMocks "github.com/allisson/queryowl/internal/connection/usecase/mocks"
	cryptoDomain "github.com/allisson/queryowl/internal/crypto/domain"
	cryptoService "github.com/allisson/queryowl/internal/crypto/service"
	serviceMocks "github.com/allisson/queryowl/internal/crypto/service/mocks"
	"github.com/allisson/queryowl/internal/kvstore"
)

func loadRecords(t *testing.T, f *fixture) []connectionDomain.Record {
	t.Helper()
	records, err := f.repo.Load(context.Background())
	require.NoError(t, err)
	return records
}

func TestMigrationUseCase_Migrate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "")

	envelope, err := f.cipher.Encrypt("already-protected")
	require.NoError(t, err)

	var seed []connectionDomain.Record
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id":"1","name":"plain","password":"hunter2"},
		{"id":"2","name":"sealed","password":"`+envelope+`"},
		{"id":"3","name":"no password"},
		{"id":"4","name":"empty","password":""},
		{"id":"5","name":"numeric","password":1234}
	]`), &seed))
	require.NoError(t, f.repo.Save(ctx, seed))
	f.store.flushes = 0

	uc := NewMigrationUseCase(f.repo, f.cipher, testLogger())
	result, err := uc.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, &connectionDomain.MigrationResult{Total: 5, Migrated: 1, Failed: 0}, result)
	assert.Equal(t, 1, f.store.flushes)

	records := loadRecords(t, f)
	require.Len(t, records, 5)

	migrated, ok := records[0].Password()
	require.True(t, ok)
	assert.True(t, cryptoService.LooksEncrypted(migrated))
	plaintext, err := f.cipher.Decrypt(migrated)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", plaintext)

	untouched, _ := records[1].Password()
	assert.Equal(t, envelope, untouched)
	_, found := records[2].Field(connectionDomain.PasswordField)
	assert.False(t, found)
	empty, _ := records[3].Field(connectionDomain.PasswordField)
	assert.Equal(t, `""`, string(empty))
	numeric, _ := records[4].Field(connectionDomain.PasswordField)
	assert.Equal(t, `1234`, string(numeric))

	t.Run("second run writes nothing", func(t *testing.T) {
		before := f.readFile(t)

		result, err := uc.Migrate(ctx)
		require.NoError(t, err)
		assert.Equal(t, &connectionDomain.MigrationResult{Total: 5, Migrated: 0, Failed: 0}, result)
		assert.Equal(t, 1, f.store.flushes)
		assert.Equal(t, before, f.readFile(t))
	})
}

func TestMigrationUseCase_Migrate_PartialFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, `{"connections":[
		{"id":"a","password":"pw-a"},
		{"id":"b","password":"pw-b"},
		{"id":"c","password":"pw-c"}
	]}`)

	cipher := &serviceMocks.MockCipher{}
	cipher.On("Encrypt", "pw-a").Return("sealed-a", nil).Once()
	cipher.On("Encrypt", "pw-b").Return("", errors.New("cipher failure")).Once()
	cipher.On("Encrypt", "pw-c").Return("sealed-c", nil).Once()

	uc := NewMigrationUseCase(f.repo, cipher, testLogger())
	result, err := uc.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, &connectionDomain.MigrationResult{Total: 3, Migrated: 2, Failed: 1}, result)
	assert.Equal(t, 1, f.store.flushes)

	records := loadRecords(t, f)
	passwords := make([]string, 0, len(records))
	for _, r := range records {
		p, _ := r.Password()
		passwords = append(passwords, p)
	}
	assert.Equal(t, []string{"sealed-a", "pw-b", "sealed-c"}, passwords)
	cipher.AssertExpectations(t)
}

func TestMigrationUseCase_Migrate_NonObjectElements(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, `{"connections":[{"id":"a","password":"pw"},null,"legacy",42]}`)

	uc := NewMigrationUseCase(f.repo, f.cipher, testLogger())
	result, err := uc.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, &connectionDomain.MigrationResult{Total: 4, Migrated: 1, Failed: 0}, result)
	assert.Equal(t, 1, f.store.flushes)

	var stored struct {
		Connections []json.RawMessage `json:"connections"`
	}
	require.NoError(t, json.Unmarshal([]byte(f.readFile(t)), &stored))
	require.Len(t, stored.Connections, 4)
	assert.Equal(t, "null", string(stored.Connections[1]))
	assert.Equal(t, `"legacy"`, string(stored.Connections[2]))
	assert.Equal(t, "42", string(stored.Connections[3]))

	records := loadRecords(t, f)
	sealed, ok := records[0].Password()
	require.True(t, ok)
	plaintext, err := f.cipher.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "pw", plaintext)
}

func TestMigrationUseCase_Migrate_RetryAfterFailedPersist(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "")

	root := t.TempDir()
	dir := filepath.Join(root, "data")
	path := filepath.Join(dir, "connections.json")
	require.NoError(t, os.Mkdir(dir, 0o700))
	require.NoError(t, os.WriteFile(path, []byte(`{"connections":[{"id":"a","password":"hunter2"}]}`), 0o600))

	store, err := kvstore.OpenFileStore(path)
	require.NoError(t, err)
	uc := NewMigrationUseCase(repository.NewConnectionRepository(store), f.cipher, testLogger())

	// Replace the data directory with a regular file so the first Flush fails.
	moved := filepath.Join(root, "moved")
	require.NoError(t, os.Rename(dir, moved))
	require.NoError(t, os.WriteFile(dir, nil, 0o600))

	_, err = uc.Migrate(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist connections")

	require.NoError(t, os.Remove(dir))
	require.NoError(t, os.Rename(moved, dir))

	result, err := uc.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, &connectionDomain.MigrationResult{Total: 1, Migrated: 1, Failed: 0}, result)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hunter2")
}

func TestMigrationUseCase_Migrate_NothingToDo(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{name: "no store file", contents: ""},
		{name: "no connections key", contents: `{"other":true}`},
		{name: "empty collection", contents: `{"connections":[]}`},
		{name: "unparsable collection", contents: `{"connections":"oops"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.contents)

			result, err := NewMigrationUseCase(f.repo, f.cipher, testLogger()).Migrate(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 0, result.Migrated)
			assert.Equal(t, 0, result.Failed)
			assert.Equal(t, 0, f.store.flushes)
		})
	}
}

func TestMigrationUseCase_Migrate_NotInitialized(t *testing.T) {
	f := newFixture(t, `{"connections":[{"id":"a","password":"pw-a"}]}`)
	cipher := cryptoService.NewCipherService(
		cryptoDomain.NewKeyCell(),
		cryptoService.NewAEADManager(cryptoService.NewRandomSource()),
		cryptoDomain.AESGCM,
		testLogger(),
	)

	result, err := NewMigrationUseCase(f.repo, cipher, testLogger()).Migrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &connectionDomain.MigrationResult{Total: 1, Migrated: 0, Failed: 1}, result)
	assert.Equal(t, 0, f.store.flushes)
}

func TestMigrationUseCase_Migrate_LongBase64Plaintext(t *testing.T) {
	// A plaintext password that happens to be long standard base64 is
	// indistinguishable from an envelope and is left as it is.
	const password = "dGhpcyBpcyBhIHZlcnkgbG9uZyBiYXNlNjQgcGFzc3dvcmQ="
	f := newFixture(t, `{"connections":[{"id":"a","password":"`+password+`"}]}`)

	result, err := NewMigrationUseCase(f.repo, f.cipher, testLogger()).Migrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Migrated)

	_, err = f.cipher.Decrypt(password)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}

func TestMigrationUseCase_Migrate_RepositoryErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("load failure", func(t *testing.T) {
		repo := &usecaseMocks.MockConnectionRepository{}
		repo.On("WithLock", ctx).Once()
		repo.On("Load", ctx).Return(nil, errors.New("store offline")).Once()

		result, err := NewMigrationUseCase(repo, &serviceMocks.MockCipher{}, testLogger()).Migrate(ctx)
		assert.Error(t, err)
		assert.Nil(t, result)
		repo.AssertExpectations(t)
	})

	t.Run("save failure", func(t *testing.T) {
		records := []connectionDomain.Record{
			connectionDomain.NewRecord(map[string]json.RawMessage{"password": json.RawMessage(`"pw"`)}),
		}
		repo := &usecaseMocks.MockConnectionRepository{}
		repo.On("WithLock", ctx).Once()
		repo.On("Load", ctx).Return(records, nil).Once()
		repo.On("Save", ctx, mock.Anything).Return(errors.New("disk full")).Once()

		cipher := &serviceMocks.MockCipher{}
		cipher.On("Encrypt", "pw").Return("sealed", nil).Once()

		result, err := NewMigrationUseCase(repo, cipher, testLogger()).Migrate(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		assert.Nil(t, result)
		repo.AssertExpectations(t)
		cipher.AssertExpectations(t)
	})
}
