package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/atinyakov/GophSignup/internal/models"
)

func TestRedisRecordRepository_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	repo := NewRedisRecordRepository(client, "userData")
	ctx := context.Background()

	err := repo.Save(ctx, models.FormRecord{Email: "a@b.com"})
	assert.ErrorContains(t, err, "save record")

	_, err = repo.Load(ctx)
	assert.ErrorContains(t, err, "load record")
}
