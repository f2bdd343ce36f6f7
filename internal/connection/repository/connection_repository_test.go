package repository

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
	"github.com/allisson/queryowl/internal/kvstore"
	kvstoreMocks "github.com/allisson/queryowl/internal/kvstore/mocks"
)

func newFileRepository(t *testing.T, contents string) (*ConnectionRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "connections.json")
	if contents != "" {
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	}
	store, err := kvstore.OpenFileStore(path)
	require.NoError(t, err)
	return NewConnectionRepository(store), path
}

func TestConnectionRepository_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("missing collection is empty", func(t *testing.T) {
		repo, _ := newFileRepository(t, "")
		records, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("array of objects", func(t *testing.T) {
		repo, _ := newFileRepository(t, `{"connections":[{"id":"a","password":"x"},{"id":"b"}]}`)
		records, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)

		password, ok := records[0].Password()
		assert.True(t, ok)
		assert.Equal(t, "x", password)
	})

	t.Run("non-object elements load as opaque records", func(t *testing.T) {
		repo, path := newFileRepository(t, `{"connections":[{"id":"a","password":"x"},null,"b",7]}`)
		records, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Len(t, records, 4)

		assert.True(t, records[0].IsObject())
		for _, r := range records[1:] {
			assert.False(t, r.IsObject())
			_, ok := r.Password()
			assert.False(t, ok)
		}

		records[0].SetPassword("sealed")
		records[1].SetPassword("ignored")
		require.NoError(t, repo.Save(ctx, records))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `{"connections":[{"id":"a","password":"sealed"},null,"b",7]}`, string(data))
	})

	corrupt := []struct {
		name     string
		contents string
	}{
		{name: "not an array", contents: `{"connections":{"id":"a"}}`},
		{name: "string", contents: `{"connections":"oops"}`},
	}
	for _, tt := range corrupt {
		t.Run(tt.name, func(t *testing.T) {
			repo, _ := newFileRepository(t, tt.contents)
			_, err := repo.Load(ctx)
			assert.ErrorIs(t, err, connectionDomain.ErrCorruptCollection)
		})
	}

	t.Run("store failure", func(t *testing.T) {
		store := &kvstoreMocks.MockStore{}
		store.On("Get", ctx, CollectionKey).Return(nil, false, errors.New("io error")).Once()

		_, err := NewConnectionRepository(store).Load(ctx)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, connectionDomain.ErrCorruptCollection)
		store.AssertExpectations(t)
	})
}

func TestConnectionRepository_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip keeps unknown fields", func(t *testing.T) {
		repo, path := newFileRepository(t, `{"connections":[{"id":"a","password":"x","tags":["prod"]}],"other":1}`)
		records, err := repo.Load(ctx)
		require.NoError(t, err)

		records[0].SetPassword("sealed")
		require.NoError(t, repo.Save(ctx, records))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `{"connections":[{"id":"a","password":"sealed","tags":["prod"]}],"other":1}`, string(data))
	})

	t.Run("nil saves an empty array", func(t *testing.T) {
		repo, path := newFileRepository(t, "")
		require.NoError(t, repo.Save(ctx, nil))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, `{"connections":[]}`, string(data))
	})

	t.Run("flush failure", func(t *testing.T) {
		store := &kvstoreMocks.MockStore{}
		store.On("Set", ctx, CollectionKey, mock.AnythingOfType("json.RawMessage")).Return(nil).Once()
		store.On("Flush", ctx).Return(errors.New("disk full")).Once()

		err := NewConnectionRepository(store).Save(ctx, []connectionDomain.Record{
			connectionDomain.NewRecord(map[string]json.RawMessage{"id": json.RawMessage(`"a"`)}),
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
		store.AssertExpectations(t)
	})
}

func TestConnectionRepository_WithLock(t *testing.T) {
	repo, _ := newFileRepository(t, "")
	called := false
	err := repo.WithLock(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
