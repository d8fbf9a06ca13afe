package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atinyakov/GophSignup/internal/models"
)

// PostgresRecordRepository stores the record as a JSON document in the
// records table, one row per key.
type PostgresRecordRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
	// Key is the primary key of the single row this repository owns.
	Key string
}

// NewPostgresRecordRepository creates a repository for key on db.
// db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresRecordRepository(db *sql.DB, key string) *PostgresRecordRepository {
	return &PostgresRecordRepository{DB: db, Key: key}
}

// Save upserts the record row, replacing any previous data.
func (r *PostgresRecordRepository) Save(ctx context.Context, record models.FormRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO records (key, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, r.Key, string(data))
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

// Load fetches the record row. It returns nil without error when the row
// does not exist.
func (r *PostgresRecordRepository) Load(ctx context.Context) (*models.FormRecord, error) {
	var data []byte
	err := r.DB.QueryRowContext(ctx, `SELECT data FROM records WHERE key = $1`, r.Key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load record: %w", err)
	}

	var record models.FormRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &record, nil
}
