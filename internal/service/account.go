// Package service provides the account submission gateway, delegating
// persistence to a RecordRepository.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/GophSignup/internal/models"
)

// DefaultSubmitDelay is the simulated latency of an account creation call.
const DefaultSubmitDelay = time.Second

// ErrNoRecord is returned by LastRecord when nothing has been stored yet.
var ErrNoRecord = errors.New("no record stored")

// RecordRepository defines the single-slot persistence used by the gateway.
type RecordRepository interface {
	// Save overwrites the stored record.
	Save(ctx context.Context, record models.FormRecord) error
	// Load returns the stored record, or nil if there is none.
	Load(ctx context.Context) (*models.FormRecord, error)
}

// AccountService simulates the account creation backend and keeps the last
// accepted record.
type AccountService struct {
	// repo holds the last accepted record.
	repo RecordRepository
	// delay is how long CreateAccount takes to resolve.
	delay time.Duration
	log   *zap.Logger
}

// NewAccountService constructs an AccountService. A negative delay is
// treated as zero.
func NewAccountService(repo RecordRepository, delay time.Duration, log *zap.Logger) *AccountService {
	if delay < 0 {
		delay = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountService{repo: repo, delay: delay, log: log}
}

// CreateAccount resolves after the configured delay. No network call is
// made and the call never fails unless ctx is cancelled first.
func (s *AccountService) CreateAccount(ctx context.Context, record models.FormRecord) error {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	s.log.Info("account created", zap.String("email", record.Email))
	return nil
}

// Persist overwrites the stored record. Storage failures are logged and
// otherwise ignored.
func (s *AccountService) Persist(ctx context.Context, record models.FormRecord) {
	if err := s.repo.Save(ctx, record); err != nil {
		s.log.Warn("failed to persist record", zap.String("email", record.Email), zap.Error(err))
	}
}

// LastRecord returns the most recently persisted record.
func (s *AccountService) LastRecord(ctx context.Context) (*models.FormRecord, error) {
	record, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNoRecord
	}
	return record, nil
}
