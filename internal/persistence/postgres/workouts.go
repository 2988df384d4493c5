package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hukshh/fitchekk/internal/domain"
	"github.com/hukshh/fitchekk/internal/events"
	"github.com/hukshh/fitchekk/internal/observability"
)

// WorkoutRepository provides Postgres-backed persistence for workouts.
type WorkoutRepository struct {
	pool *pgxpool.Pool
}

// NewWorkoutRepository constructs a WorkoutRepository.
func NewWorkoutRepository(pool *pgxpool.Pool) *WorkoutRepository {
	return &WorkoutRepository{pool: pool}
}

// Create persists the workout, applies the gamification transition to the
// owner's progress row and records the outbox event inside a single
// transaction. The owner row is locked so concurrent workout logging
// serializes the XP/streak update.
func (r *WorkoutRepository) Create(ctx context.Context, w domain.Workout, apply func(domain.Progress) (domain.Progress, domain.Award)) (domain.Award, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.Award{}, err
	}
	defer tx.Rollback(ctx)

	const insertWorkout = `INSERT INTO workouts (workout_id, user_id, title, workout_date, created_at)
        VALUES ($1,$2,$3,$4,$5)`
	if _, err := tx.Exec(ctx, insertWorkout, w.ID, w.UserID, w.Title, w.Date, w.CreatedAt); err != nil {
		return domain.Award{}, err
	}

	const selectProgress = `SELECT xp, streak, last_workout FROM users WHERE user_id=$1 FOR UPDATE`
	var progress domain.Progress
	if err := tx.QueryRow(ctx, selectProgress, w.UserID).Scan(&progress.XP, &progress.Streak, &progress.LastWorkout); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Award{}, domain.ErrUserNotFound
		}
		return domain.Award{}, err
	}

	next, award := apply(progress)

	const updateProgress = `UPDATE users SET xp=$2, streak=$3, last_workout=$4, updated_at=$5 WHERE user_id=$1`
	if _, err := tx.Exec(ctx, updateProgress, w.UserID, next.XP, next.Streak, next.LastWorkout, time.Now().UTC()); err != nil {
		return domain.Award{}, err
	}

	if err := insertEvent(ctx, tx, "workout", w.ID, "workout.logged", w.UserID, events.WorkoutLogged{
		WorkoutID: w.ID,
		UserID:    w.UserID,
		Title:     w.Title,
		Date:      w.Date,
		XPEarned:  award.XPEarned,
		NewStreak: award.NewStreak,
	}); err != nil {
		return domain.Award{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Award{}, err
	}
	observability.RecordWorkoutPersisted(w.CreatedAt)
	return award, nil
}

// List returns a page of the user's workouts, newest first, with sets.
func (r *WorkoutRepository) List(ctx context.Context, userID string, offset, limit int) ([]domain.Workout, int, error) {
	const query = `SELECT workout_id, user_id, title, workout_date, created_at
        FROM workouts WHERE user_id=$1
        ORDER BY workout_date DESC
        OFFSET $2 LIMIT $3`

	rows, err := r.pool.Query(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	workouts := make([]domain.Workout, 0, limit)
	ids := make([]string, 0, limit)
	for rows.Next() {
		var w domain.Workout
		if err := rows.Scan(&w.ID, &w.UserID, &w.Title, &w.Date, &w.CreatedAt); err != nil {
			return nil, 0, err
		}
		w.Sets = []domain.WorkoutSet{}
		workouts = append(workouts, w)
		ids = append(ids, w.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM workouts WHERE user_id=$1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	if len(ids) == 0 {
		return workouts, total, nil
	}

	sets, err := r.setsForWorkouts(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range workouts {
		if s, ok := sets[workouts[i].ID]; ok {
			workouts[i].Sets = s
		}
	}
	return workouts, total, nil
}

// Get retrieves one workout owned by the user, with ordered sets; nil when
// missing or owned by someone else.
func (r *WorkoutRepository) Get(ctx context.Context, userID, workoutID string) (*domain.Workout, error) {
	const query = `SELECT workout_id, user_id, title, workout_date, created_at
        FROM workouts WHERE workout_id=$1 AND user_id=$2`

	var w domain.Workout
	err := r.pool.QueryRow(ctx, query, workoutID, userID).Scan(&w.ID, &w.UserID, &w.Title, &w.Date, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	sets, err := r.setsForWorkouts(ctx, []string{w.ID})
	if err != nil {
		return nil, err
	}
	w.Sets = sets[w.ID]
	if w.Sets == nil {
		w.Sets = []domain.WorkoutSet{}
	}
	return &w, nil
}

// AddSet inserts a set and returns it with the exercise attached. Ownership
// and visibility checks happen in the domain service beforehand.
func (r *WorkoutRepository) AddSet(ctx context.Context, set domain.WorkoutSet) (*domain.WorkoutSet, error) {
	const stmt = `INSERT INTO workout_sets (set_id, workout_id, exercise_id, reps, weight, rpe, set_order)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	if _, err := r.pool.Exec(ctx, stmt, set.ID, set.WorkoutID, set.ExerciseID, set.Reps, set.Weight, set.RPE, set.Order); err != nil {
		return nil, err
	}

	const query = `SELECT exercise_id, user_id, name, muscle_group FROM exercises WHERE exercise_id=$1`
	var e domain.Exercise
	if err := r.pool.QueryRow(ctx, query, set.ExerciseID).Scan(&e.ID, &e.UserID, &e.Name, &e.MuscleGroup); err != nil {
		return nil, err
	}
	set.Exercise = &e
	return &set, nil
}

func (r *WorkoutRepository) setsForWorkouts(ctx context.Context, workoutIDs []string) (map[string][]domain.WorkoutSet, error) {
	const query = `SELECT s.set_id, s.workout_id, s.exercise_id, s.reps, s.weight, s.rpe, s.set_order,
            e.exercise_id, e.user_id, e.name, e.muscle_group
        FROM workout_sets s
        JOIN exercises e ON e.exercise_id = s.exercise_id
        WHERE s.workout_id = ANY($1)
        ORDER BY s.set_order ASC`

	rows, err := r.pool.Query(ctx, query, workoutIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sets := make(map[string][]domain.WorkoutSet)
	for rows.Next() {
		var s domain.WorkoutSet
		var e domain.Exercise
		if err := rows.Scan(&s.ID, &s.WorkoutID, &s.ExerciseID, &s.Reps, &s.Weight, &s.RPE, &s.Order,
			&e.ID, &e.UserID, &e.Name, &e.MuscleGroup); err != nil {
			return nil, err
		}
		s.Exercise = &e
		sets[s.WorkoutID] = append(sets[s.WorkoutID], s)
	}
	return sets, rows.Err()
}
