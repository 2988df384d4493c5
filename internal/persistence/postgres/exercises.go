package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hukshh/fitchekk/internal/domain"
)

// ExerciseRepository provides Postgres-backed persistence for exercises.
type ExerciseRepository struct {
	pool *pgxpool.Pool
}

// NewExerciseRepository constructs an ExerciseRepository.
func NewExerciseRepository(pool *pgxpool.Pool) *ExerciseRepository {
	return &ExerciseRepository{pool: pool}
}

// Create inserts a user-owned exercise, mapping the per-owner name
// constraint to the domain duplicate error.
func (r *ExerciseRepository) Create(ctx context.Context, e domain.Exercise) error {
	const stmt = `INSERT INTO exercises (exercise_id, user_id, name, muscle_group) VALUES ($1,$2,$3,$4)`

	_, err := r.pool.Exec(ctx, stmt, e.ID, e.UserID, e.Name, e.MuscleGroup)
	if isUniqueViolation(err, "exercises_owner_name_key") {
		return domain.ErrDuplicateExercise
	}
	return err
}

// GetVisible returns the exercise only when it is global or owned by the
// user; nil otherwise.
func (r *ExerciseRepository) GetVisible(ctx context.Context, exerciseID, userID string) (*domain.Exercise, error) {
	const query = `SELECT exercise_id, user_id, name, muscle_group FROM exercises
        WHERE exercise_id=$1 AND (user_id IS NULL OR user_id=$2)`

	var e domain.Exercise
	err := r.pool.QueryRow(ctx, query, exerciseID, userID).Scan(&e.ID, &e.UserID, &e.Name, &e.MuscleGroup)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// ListVisible returns global plus user-owned exercises, name ascending,
// optionally filtered with a case-insensitive substring match.
func (r *ExerciseRepository) ListVisible(ctx context.Context, userID, query string) ([]domain.Exercise, error) {
	const stmt = `SELECT exercise_id, user_id, name, muscle_group FROM exercises
        WHERE (user_id IS NULL OR user_id=$1)
          AND ($2 = '' OR name ILIKE '%' || $2 || '%')
        ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, stmt, userID, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]domain.Exercise, 0)
	for rows.Next() {
		var e domain.Exercise
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.MuscleGroup); err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}
