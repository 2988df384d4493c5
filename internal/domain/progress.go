package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProgressLog is a body-measurement entry.
type ProgressLog struct {
	ID      string
	UserID  string
	Weight  float64
	BodyFat *float64
	Date    time.Time
}

// ProgressRepository captures persistence operations for body logs.
type ProgressRepository interface {
	Create(ctx context.Context, log ProgressLog) error
	// List returns the user's entries newest first, capped at limit.
	List(ctx context.Context, userID string, limit int) ([]ProgressLog, error)
}

// ProgressService records body measurements over time.
type ProgressService struct {
	repo ProgressRepository
	now  func() time.Time
}

// NewProgressService constructs a ProgressService.
func NewProgressService(repo ProgressRepository) *ProgressService {
	return &ProgressService{repo: repo, now: time.Now}
}

// Log records one measurement.
func (s *ProgressService) Log(ctx context.Context, userID string, weight float64, bodyFat *float64) (*ProgressLog, error) {
	entry := ProgressLog{
		ID:      uuid.NewString(),
		UserID:  userID,
		Weight:  weight,
		BodyFat: bodyFat,
		Date:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// History returns recent measurements, newest first.
func (s *ProgressService) History(ctx context.Context, userID string, limit int) ([]ProgressLog, error) {
	if limit <= 0 {
		limit = 30
	}
	return s.repo.List(ctx, userID, limit)
}
