package domain

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSessionDurationRoundsToNearestMinute(t *testing.T) {
	checkIn := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		checkOut time.Time
		want     int
	}{
		{name: "ninety minutes", checkOut: checkIn.Add(90 * time.Minute), want: 90},
		{name: "rounds down", checkOut: checkIn.Add(45*time.Minute + 20*time.Second), want: 45},
		{name: "rounds up", checkOut: checkIn.Add(45*time.Minute + 40*time.Second), want: 46},
		{name: "instant checkout", checkOut: checkIn, want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SessionDuration(checkIn, tc.checkOut); got != tc.want {
				t.Fatalf("expected %d got %d", tc.want, got)
			}
		})
	}
}

type fakeAttendanceRepo struct {
	created   []Attendance
	createErr error
	closed    *Attendance
	closeErr  error
	records   []Attendance
}

func (f *fakeAttendanceRepo) Create(_ context.Context, a Attendance) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, a)
	return nil
}

func (f *fakeAttendanceRepo) CloseLatest(_ context.Context, _ string, checkOut time.Time, duration func(time.Time) int) (*Attendance, error) {
	if f.closeErr != nil {
		return nil, f.closeErr
	}
	closed := *f.closed
	minutes := duration(closed.CheckIn)
	closed.CheckOut = &checkOut
	closed.DurationMinutes = &minutes
	return &closed, nil
}

func (f *fakeAttendanceRepo) ListBetween(_ context.Context, _ string, _, _ time.Time) ([]Attendance, error) {
	return f.records, nil
}

func (f *fakeAttendanceRepo) List(_ context.Context, _ string, _, _ *time.Time, _ int) ([]Attendance, error) {
	return f.records, nil
}

func TestCheckInOpensSession(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	service := NewAttendanceService(repo)
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	session, err := service.CheckIn(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !session.Open() {
		t.Fatal("expected an open session")
	}
	if !session.CheckIn.Equal(now) {
		t.Fatalf("expected check-in %v got %v", now, session.CheckIn)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 created session got %d", len(repo.created))
	}
}

func TestCheckInConflictPropagates(t *testing.T) {
	repo := &fakeAttendanceRepo{createErr: ErrAlreadyCheckedIn}
	service := NewAttendanceService(repo)

	_, err := service.CheckIn(context.Background(), "user-1")
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("expected ErrAlreadyCheckedIn got %v", err)
	}
}

func TestCheckOutComputesDuration(t *testing.T) {
	checkIn := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	repo := &fakeAttendanceRepo{closed: &Attendance{ID: "att-1", UserID: "user-1", CheckIn: checkIn}}
	service := NewAttendanceService(repo)
	service.now = func() time.Time { return checkIn.Add(90 * time.Minute) }

	session, err := service.CheckOut(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.DurationMinutes == nil || *session.DurationMinutes != 90 {
		t.Fatalf("expected duration 90 got %v", session.DurationMinutes)
	}
	if session.Open() {
		t.Fatal("expected a closed session")
	}
}

func TestCheckOutWithoutOpenSession(t *testing.T) {
	repo := &fakeAttendanceRepo{closeErr: ErrNoOpenSession}
	service := NewAttendanceService(repo)

	_, err := service.CheckOut(context.Background(), "user-1")
	if !errors.Is(err, ErrNoOpenSession) {
		t.Fatalf("expected ErrNoOpenSession got %v", err)
	}
}

func TestTodayStatusFindsOpenSession(t *testing.T) {
	now := time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC)
	closedOut := now.Add(-3 * time.Hour)
	minutes := 60
	repo := &fakeAttendanceRepo{records: []Attendance{
		{ID: "att-2", CheckIn: now.Add(-time.Hour)},
		{ID: "att-1", CheckIn: now.Add(-4 * time.Hour), CheckOut: &closedOut, DurationMinutes: &minutes},
	}}
	service := NewAttendanceService(repo)
	service.now = func() time.Time { return now }

	status, err := service.TodayStatus(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.CheckedIn {
		t.Fatal("expected checked-in status")
	}
	if status.OpenSession == nil || status.OpenSession.ID != "att-2" {
		t.Fatalf("unexpected open session %+v", status.OpenSession)
	}
	if len(status.Records) != 2 {
		t.Fatalf("expected 2 records got %d", len(status.Records))
	}
}
