package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hukshh/fitchekk/internal/domain"
	"github.com/hukshh/fitchekk/internal/events"
)

// AttendanceRepository provides Postgres-backed persistence for sessions.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

const attendanceColumns = `attendance_id, user_id, check_in, check_out, duration_minutes, created_at`

func scanAttendance(row pgx.Row) (*domain.Attendance, error) {
	var a domain.Attendance
	err := row.Scan(&a.ID, &a.UserID, &a.CheckIn, &a.CheckOut, &a.DurationMinutes, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an open session. The partial unique index on open rows
// rejects a second open session, winning any check-in race.
func (r *AttendanceRepository) Create(ctx context.Context, a domain.Attendance) error {
	const stmt = `INSERT INTO attendance (attendance_id, user_id, check_in, check_out, duration_minutes, created_at)
        VALUES ($1,$2,$3,NULL,NULL,$4)`

	_, err := r.pool.Exec(ctx, stmt, a.ID, a.UserID, a.CheckIn, a.CreatedAt)
	if isUniqueViolation(err, "attendance_one_open_per_user") {
		return domain.ErrAlreadyCheckedIn
	}
	return err
}

// CloseLatest closes the most recent open session for the user, writing the
// check-out time, the computed duration and an outbox event in one
// transaction.
func (r *AttendanceRepository) CloseLatest(ctx context.Context, userID string, checkOut time.Time, duration func(checkIn time.Time) int) (*domain.Attendance, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const selectOpen = `SELECT ` + attendanceColumns + ` FROM attendance
        WHERE user_id=$1 AND check_out IS NULL
        ORDER BY check_in DESC
        LIMIT 1
        FOR UPDATE`

	session, err := scanAttendance(tx.QueryRow(ctx, selectOpen, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoOpenSession
		}
		return nil, err
	}

	minutes := duration(session.CheckIn)

	const update = `UPDATE attendance SET check_out=$2, duration_minutes=$3 WHERE attendance_id=$1`
	if _, err := tx.Exec(ctx, update, session.ID, checkOut, minutes); err != nil {
		return nil, err
	}

	if err := insertEvent(ctx, tx, "attendance", session.ID, "attendance.closed", session.UserID, events.AttendanceClosed{
		AttendanceID:    session.ID,
		UserID:          session.UserID,
		CheckIn:         session.CheckIn,
		CheckOut:        checkOut,
		DurationMinutes: minutes,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	session.CheckOut = &checkOut
	session.DurationMinutes = &minutes
	return session, nil
}

// ListBetween returns sessions whose check-in falls in [from, to), newest
// first.
func (r *AttendanceRepository) ListBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Attendance, error) {
	const query = `SELECT ` + attendanceColumns + ` FROM attendance
        WHERE user_id=$1 AND check_in >= $2 AND check_in < $3
        ORDER BY check_in DESC`

	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttendance(rows)
}

// List returns sessions filtered by optional inclusive check-in bounds,
// newest first, capped at limit.
func (r *AttendanceRepository) List(ctx context.Context, userID string, from, to *time.Time, limit int) ([]domain.Attendance, error) {
	const query = `SELECT ` + attendanceColumns + ` FROM attendance
        WHERE user_id=$1
          AND ($2::timestamptz IS NULL OR check_in >= $2)
          AND ($3::timestamptz IS NULL OR check_in <= $3)
        ORDER BY check_in DESC
        LIMIT $4`

	rows, err := r.pool.Query(ctx, query, userID, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAttendance(rows)
}

func collectAttendance(rows pgx.Rows) ([]domain.Attendance, error) {
	records := make([]domain.Attendance, 0)
	for rows.Next() {
		record, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}
