package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/deploytx/internal/domain"
	"github.com/trebuchet-org/deploytx/internal/domain/models"
	"github.com/trebuchet-org/deploytx/internal/usecase"
)

// TransactionStore reads and writes unsigned transaction files
type TransactionStore struct {
	log *slog.Logger
}

// NewTransactionStore creates a new TransactionStore
func NewTransactionStore(log *slog.Logger) *TransactionStore {
	return &TransactionStore{log: log.With("component", "tx-store")}
}

// Persist writes tx as indented JSON to path, replacing any existing file.
// The content goes to a temp file in the same directory first so readers never see a partial write.
func (s *TransactionStore) Persist(ctx context.Context, tx *models.UnsignedTransaction, path string) error {
	if err := ctx.Err(); err != nil {
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}

	data, err := json.MarshalIndent(tx, "", "  ")
	if err != nil {
		return &domain.IOError{Op: "encode", Path: path, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &domain.IOError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}

	s.log.Debug("persisted transaction", "path", path, "bytes", len(data))
	return nil
}

// Load reads a transaction file. Only the to, value and data fields are accepted.
func (s *TransactionStore) Load(ctx context.Context, path string) (*models.UnsignedTransaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.IOError{Op: "read", Path: path, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var tx models.UnsignedTransaction
	if err := dec.Decode(&tx); err != nil {
		return nil, &domain.IOError{Op: "parse", Path: path, Err: fmt.Errorf("not a transaction file: %w", err)}
	}

	return &tx, nil
}

// Ensure the adapter implements the interface
var _ usecase.TransactionStore = (*TransactionStore)(nil)
