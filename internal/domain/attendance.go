package domain

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyCheckedIn indicates the user still has an open session.
	ErrAlreadyCheckedIn = errors.New("an open attendance session already exists")
	// ErrNoOpenSession is returned when check-out finds nothing to close.
	ErrNoOpenSession = errors.New("no open attendance session")
)

// Attendance pairs one gym visit. CheckOut and DurationMinutes stay nil
// while the session is open and are written exactly once, at close.
type Attendance struct {
	ID              string
	UserID          string
	CheckIn         time.Time
	CheckOut        *time.Time
	DurationMinutes *int
	CreatedAt       time.Time
}

// Open reports whether the session has not been closed yet.
func (a Attendance) Open() bool { return a.CheckOut == nil }

// SessionDuration converts an open/close pair into whole minutes,
// rounded to the nearest minute.
func SessionDuration(checkIn, checkOut time.Time) int {
	return int(math.Round(checkOut.Sub(checkIn).Minutes()))
}

// AttendanceRepository captures persistence operations for sessions.
type AttendanceRepository interface {
	// Create inserts an open session. Implementations must enforce the
	// one-open-session-per-user invariant and return ErrAlreadyCheckedIn
	// when a concurrent or prior open session exists.
	Create(ctx context.Context, a Attendance) error
	// CloseLatest closes the most recent open session (by check-in time)
	// for the user, writing checkOut and the supplied duration in one
	// update. Returns ErrNoOpenSession when the user has none.
	CloseLatest(ctx context.Context, userID string, checkOut time.Time, duration func(checkIn time.Time) int) (*Attendance, error)
	// ListBetween returns sessions whose check-in falls in [from, to),
	// newest first.
	ListBetween(ctx context.Context, userID string, from, to time.Time) ([]Attendance, error)
	// List returns sessions filtered by optional check-in bounds
	// (inclusive), newest first, capped at limit.
	List(ctx context.Context, userID string, from, to *time.Time, limit int) ([]Attendance, error)
}

// DayStatus summarises a user's attendance for the current day.
type DayStatus struct {
	CheckedIn   bool
	OpenSession *Attendance
	Records     []Attendance
}

// AttendanceService pairs check-in/check-out events per user.
type AttendanceService struct {
	repo AttendanceRepository
	now  func() time.Time
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo AttendanceRepository) *AttendanceService {
	return &AttendanceService{repo: repo, now: time.Now}
}

// CheckIn opens a new session, failing if one is already open.
func (s *AttendanceService) CheckIn(ctx context.Context, userID string) (*Attendance, error) {
	now := s.now().UTC()
	session := Attendance{
		ID:        uuid.NewString(),
		UserID:    userID,
		CheckIn:   now,
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CheckOut closes the latest open session and computes its duration.
func (s *AttendanceService) CheckOut(ctx context.Context, userID string) (*Attendance, error) {
	now := s.now().UTC()
	return s.repo.CloseLatest(ctx, userID, now, func(checkIn time.Time) int {
		return SessionDuration(checkIn, now)
	})
}

// TodayStatus returns the current local calendar day's sessions plus the
// open one, if any.
func (s *AttendanceService) TodayStatus(ctx context.Context, userID string) (*DayStatus, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	records, err := s.repo.ListBetween(ctx, userID, midnight, midnight.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	status := &DayStatus{Records: records}
	for i := range records {
		if records[i].Open() {
			status.CheckedIn = true
			status.OpenSession = &records[i]
			break
		}
	}
	return status, nil
}

// History returns past sessions filtered by optional check-in bounds.
func (s *AttendanceService) History(ctx context.Context, userID string, from, to *time.Time, limit int) ([]Attendance, error) {
	if limit <= 0 {
		limit = 30
	}
	return s.repo.List(ctx, userID, from, to, limit)
}
