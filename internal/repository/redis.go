package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/atinyakov/GophSignup/internal/models"
)

// RedisRecordRepository stores the record as a JSON string under one key.
type RedisRecordRepository struct {
	client redis.UniversalClient
	key    string
}

// NewRedisRecordRepository creates a repository for key on client.
func NewRedisRecordRepository(client redis.UniversalClient, key string) *RedisRecordRepository {
	return &RedisRecordRepository{client: client, key: key}
}

// Save overwrites the key without expiry.
func (r *RedisRecordRepository) Save(ctx context.Context, record models.FormRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

// Load reads the key. It returns nil without error when the key is absent.
func (r *RedisRecordRepository) Load(ctx context.Context) (*models.FormRecord, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
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
