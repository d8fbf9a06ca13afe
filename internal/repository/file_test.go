package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/GophSignup/internal/models"
)

func TestFileRecordRepository_LoadMissing(t *testing.T) {
	repo := NewFileRecordRepository(filepath.Join(t.TempDir(), "storage.json"), "userData")

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileRecordRepository_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	repo := NewFileRecordRepository(path, "userData")
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, models.FormRecord{Email: "first@b.com", Password: "abc123"}))
	require.NoError(t, repo.Save(ctx, models.FormRecord{Email: "second@b.com", Password: "xyz789", RememberMe: true}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "second@b.com", got.Email)
	assert.True(t, got.RememberMe)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc, 1)
	assert.Contains(t, doc, "userData")

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileRecordRepository_OtherKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, NewFileRecordRepository(path, "other").Save(context.Background(), models.FormRecord{Email: "a@b.com"}))

	got, err := NewFileRecordRepository(path, "userData").Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileRecordRepository_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	_, err := NewFileRecordRepository(path, "userData").Load(context.Background())
	assert.Error(t, err)
}

func TestMemoryRecordRepository(t *testing.T) {
	repo := NewMemoryRecordRepository()
	ctx := context.Background()

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Save(ctx, models.FormRecord{Email: "a@b.com"}))
	require.NoError(t, repo.Save(ctx, models.FormRecord{Email: "b@c.com"}))

	got, err = repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "b@c.com", got.Email)

	// callers cannot mutate the stored copy
	got.Email = "mutated@x.com"
	again, _ := repo.Load(ctx)
	assert.Equal(t, "b@c.com", again.Email)
}
