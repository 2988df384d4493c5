package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hukshh/fitchekk/internal/domain"
)

// ProgressRepository provides Postgres-backed persistence for body logs.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository constructs a ProgressRepository.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// Create inserts one measurement entry.
func (r *ProgressRepository) Create(ctx context.Context, log domain.ProgressLog) error {
	const stmt = `INSERT INTO progress_logs (log_id, user_id, weight, body_fat, logged_at)
        VALUES ($1,$2,$3,$4,$5)`

	_, err := r.pool.Exec(ctx, stmt, log.ID, log.UserID, log.Weight, log.BodyFat, log.Date)
	return err
}

// List returns the user's entries newest first, capped at limit.
func (r *ProgressRepository) List(ctx context.Context, userID string, limit int) ([]domain.ProgressLog, error) {
	const query = `SELECT log_id, user_id, weight, body_fat, logged_at FROM progress_logs
        WHERE user_id=$1
        ORDER BY logged_at DESC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.ProgressLog, 0, limit)
	for rows.Next() {
		var log domain.ProgressLog
		if err := rows.Scan(&log.ID, &log.UserID, &log.Weight, &log.BodyFat, &log.Date); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
