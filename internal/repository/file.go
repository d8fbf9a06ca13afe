package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/atinyakov/GophSignup/internal/models"
)

// FileRecordRepository stores the record as a JSON document on local disk.
// The document maps the storage key to the record, so a file only ever
// holds one entry.
type FileRecordRepository struct {
	mu   sync.Mutex
	path string
	key  string
}

// NewFileRecordRepository returns a repository backed by path.
func NewFileRecordRepository(path, key string) *FileRecordRepository {
	return &FileRecordRepository{path: path, key: key}
}

// Save replaces the file contents with record under the repository key.
// The write goes through a temporary file and a rename.
func (r *FileRecordRepository) Save(_ context.Context, record models.FormRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(map[string]models.FormRecord{r.key: record})
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace record: %w", err)
	}
	return nil
}

// Load reads the record stored under the repository key. A missing file or
// key yields nil without error.
func (r *FileRecordRepository) Load(_ context.Context) (*models.FormRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read record: %w", err)
	}

	var doc map[string]models.FormRecord
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	record, ok := doc[r.key]
	if !ok {
		return nil, nil
	}
	return &record, nil
}
