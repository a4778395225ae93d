package fs

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/deploytx/internal/domain"
	"github.com/trebuchet-org/deploytx/internal/domain/models"
)

func newTestStore() *TransactionStore {
	return NewTransactionStore(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestTransactionStore_PersistRoundTrip(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "deploytxobj.json")

	tx := &models.UnsignedTransaction{
		To:    "",
		Value: "",
		Data:  "0x6080604052" + "0000000000000000000000000000000000000000000000000000000000000040",
	}
	require.NoError(t, store.Persist(ctx, tx, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(raw, &obj))
	want := map[string]any{"to": "", "value": "", "data": tx.Data}
	if diff := deep.Equal(want, obj); diff != nil {
		t.Errorf("persisted object differs: %v", diff)
	}

	loaded, err := store.Load(ctx, path)
	require.NoError(t, err)
	if diff := deep.Equal(tx, loaded); diff != nil {
		t.Errorf("loaded transaction differs: %v", diff)
	}

	assert.Equal(t, byte('\n'), raw[len(raw)-1])
}

func TestTransactionStore_PersistOverwrites(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "deploytxobj.json")

	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer than the new file"), 0644))
	require.NoError(t, store.Persist(ctx, &models.UnsignedTransaction{Data: "0x00"}, path))

	loaded, err := store.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "0x00", loaded.Data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not be left behind")
}

func TestTransactionStore_PersistCreatesDirectories(t *testing.T) {
	store := newTestStore()
	path := filepath.Join(t.TempDir(), "txs", "mainnet", "token.json")

	require.NoError(t, store.Persist(context.Background(), &models.UnsignedTransaction{Data: "0x00"}, path))
	assert.FileExists(t, path)
}

func TestTransactionStore_Errors(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("parent is a file", func(t *testing.T) {
		blocker := filepath.Join(dir, "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

		err := store.Persist(ctx, &models.UnsignedTransaction{}, filepath.Join(blocker, "deploytxobj.json"))
		var ioErr *domain.IOError
		require.ErrorAs(t, err, &ioErr)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		path := filepath.Join(dir, "cancelled.json")

		err := store.Persist(cctx, &models.UnsignedTransaction{}, path)
		var ioErr *domain.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.NoFileExists(t, path)
	})

	t.Run("load missing file", func(t *testing.T) {
		_, err := store.Load(ctx, filepath.Join(dir, "missing.json"))
		var ioErr *domain.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "read", ioErr.Op)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("load rejects extra fields", func(t *testing.T) {
		path := filepath.Join(dir, "extra.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"to":"","value":"","data":"0x","gas":"1"}`), 0644))

		_, err := store.Load(ctx, path)
		var ioErr *domain.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "parse", ioErr.Op)
	})
}
