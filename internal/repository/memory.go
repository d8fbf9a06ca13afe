// Package repository provides single-slot storage backends for the last
// accepted FormRecord.
package repository

import (
	"context"
	"sync"

	"github.com/atinyakov/GophSignup/internal/models"
)

// MemoryRecordRepository keeps the record in process memory.
type MemoryRecordRepository struct {
	mu     sync.Mutex
	record *models.FormRecord
}

// NewMemoryRecordRepository returns an empty in-memory repository.
func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{}
}

// Save overwrites the stored record.
func (r *MemoryRecordRepository) Save(_ context.Context, record models.FormRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record = &record
	return nil
}

// Load returns a copy of the stored record, or nil when nothing was saved.
func (r *MemoryRecordRepository) Load(_ context.Context) (*models.FormRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.record == nil {
		return nil, nil
	}
	out := *r.record
	return &out, nil
}
