package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hukshh/fitchekk/internal/domain"
)

// UserRepository provides Postgres-backed persistence for accounts.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `user_id, user_name, user_email, password_hash, xp, streak, last_workout, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.XP, &u.Streak, &u.LastWorkout, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new account row.
func (r *UserRepository) Create(ctx context.Context, u domain.User) error {
	const stmt = `INSERT INTO users (user_id, user_name, user_email, password_hash, xp, streak, last_workout, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err := r.pool.Exec(ctx, stmt, u.ID, u.Name, u.Email, u.PasswordHash, u.XP, u.Streak, u.LastWorkout, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err, "users_user_email_key") {
		return domain.ErrEmailTaken
	}
	return err
}

// Get retrieves an account by ID.
func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE user_id=$1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// FindByEmailOrName resolves a login identifier against email or username.
func (r *UserRepository) FindByEmailOrName(ctx context.Context, identifier string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users
        WHERE user_email=$1 OR user_name=$1
        ORDER BY (user_email=$1) DESC
        LIMIT 1`
	return scanUser(r.pool.QueryRow(ctx, query, identifier))
}

// EmailInUse reports whether another account already owns the email.
func (r *UserRepository) EmailInUse(ctx context.Context, email, excludeUserID string) (bool, error) {
	const query = `SELECT EXISTS (
        SELECT 1 FROM users WHERE user_email=$1 AND ($2 = '' OR user_id <> $2::uuid)
    )`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email, excludeUserID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateProfile patches name and/or email, bumping updated_at.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, name, email *string) (*domain.User, error) {
	const stmt = `UPDATE users
        SET user_name = COALESCE($2, user_name),
            user_email = COALESCE($3, user_email),
            updated_at = $4
        WHERE user_id = $1
        RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, stmt, id, name, email, time.Now().UTC()))
	if isUniqueViolation(err, "users_user_email_key") {
		return nil, domain.ErrEmailTaken
	}
	return user, err
}

// Counts tallies the user's workouts, attendance records and orders.
func (r *UserRepository) Counts(ctx context.Context, id string) (domain.ProfileCounts, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM workouts WHERE user_id=$1),
        (SELECT COUNT(*) FROM attendance WHERE user_id=$1),
        (SELECT COUNT(*) FROM orders WHERE user_id=$1)`

	var counts domain.ProfileCounts
	err := r.pool.QueryRow(ctx, query, id).Scan(&counts.Workouts, &counts.Attendances, &counts.Orders)
	return counts, err
}
