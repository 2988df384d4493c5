//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/hukshh/fitchekk/internal/domain"
)

func startPostgres(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("fitchekk"),
		postgrescontainer.WithUsername("fitchekk"),
		postgrescontainer.WithPassword("fitchekk"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })
	return pool
}

func createUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool) domain.User {
	t.Helper()

	user := domain.User{
		ID:        uuid.NewString(),
		Name:      "tester-" + uuid.NewString()[:8],
		Email:     uuid.NewString() + "@example.com",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	user.PasswordHash = "x"
	require.NoError(t, NewUserRepository(pool).Create(ctx, user))
	return user
}

func TestAttendanceSingleOpenSession(t *testing.T) {
	ctx := context.Background()
	pool := startPostgres(t, ctx)
	user := createUser(t, ctx, pool)
	repo := NewAttendanceRepository(pool)

	checkIn := time.Now().UTC().Add(-time.Hour)
	err := repo.Create(ctx, domain.Attendance{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CheckIn:   checkIn,
		CreatedAt: checkIn,
	})
	require.NoError(t, err)

	// A second open session must lose on the partial unique index.
	err = repo.Create(ctx, domain.Attendance{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CheckIn:   time.Now().UTC(),
		CreatedAt: time.Now().UTC(),
	})
	require.ErrorIs(t, err, domain.ErrAlreadyCheckedIn)

	checkOut := checkIn.Add(90 * time.Minute)
	closed, err := repo.CloseLatest(ctx, user.ID, checkOut, func(in time.Time) int {
		return domain.SessionDuration(in, checkOut)
	})
	require.NoError(t, err)
	require.NotNil(t, closed.DurationMinutes)
	require.Equal(t, 90, *closed.DurationMinutes)

	// Nothing left to close.
	_, err = repo.CloseLatest(ctx, user.ID, time.Now().UTC(), func(time.Time) int { return 0 })
	require.ErrorIs(t, err, domain.ErrNoOpenSession)

	// And a fresh check-in is allowed again.
	err = repo.Create(ctx, domain.Attendance{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CheckIn:   time.Now().UTC(),
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestWorkoutCreateAppliesProgress(t *testing.T) {
	ctx := context.Background()
	pool := startPostgres(t, ctx)
	user := createUser(t, ctx, pool)
	repo := NewWorkoutRepository(pool)

	now := time.Now().UTC()
	award, err := repo.Create(ctx, domain.Workout{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Title:     "Leg Day",
		Date:      now,
		CreatedAt: now,
	}, func(p domain.Progress) (domain.Progress, domain.Award) {
		return domain.NextProgress(p, now)
	})
	require.NoError(t, err)
	require.Equal(t, domain.WorkoutXP, award.XPEarned)
	require.Equal(t, 1, award.NewStreak)

	var xp, streak int
	require.NoError(t, pool.QueryRow(ctx, `SELECT xp, streak FROM users WHERE user_id = $1`, user.ID).Scan(&xp, &streak))
	require.Equal(t, domain.WorkoutXP, xp)
	require.Equal(t, 1, streak)

	var events int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE event_type = 'workout.logged'`).Scan(&events))
	require.Equal(t, 1, events)
}

func TestPlaceFromCartIsAtomic(t *testing.T) {
	ctx := context.Background()
	pool := startPostgres(t, ctx)
	user := createUser(t, ctx, pool)

	catalog := NewCatalogRepository(pool)
	cat := domain.Category{ID: uuid.NewString(), Name: "Supplements"}
	require.NoError(t, catalog.CreateCategory(ctx, cat))

	shake, err := catalog.CreateProduct(ctx, domain.Product{
		ID:         uuid.NewString(),
		CategoryID: cat.ID,
		Name:       "Protein Shake",
		Price:      5.00,
		Stock:      10,
		CreatedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)

	cart := NewCartRepository(pool)
	_, err = cart.Upsert(ctx, domain.CartItem{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ProductID: shake.ID,
		Quantity:  2,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	orders := NewOrderRepository(pool)
	now := time.Now().UTC()
	order, err := orders.PlaceFromCart(ctx, user.ID, func(items []domain.CartItem) (domain.Order, error) {
		return domain.BuildOrder(user.ID, "1 Gym Street", items, now)
	})
	require.NoError(t, err)
	require.Equal(t, 10.00, order.TotalAmount)
	require.Equal(t, domain.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 1)
	require.Equal(t, 5.00, order.Items[0].Price)

	remaining, err := cart.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, remaining)

	// A second checkout sees the empty cart and leaves no order behind.
	_, err = orders.PlaceFromCart(ctx, user.ID, func(items []domain.CartItem) (domain.Order, error) {
		return domain.BuildOrder(user.ID, "1 Gym Street", items, now)
	})
	require.ErrorIs(t, err, domain.ErrCartEmpty)

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, user.ID).Scan(&count))
	require.Equal(t, 1, count)

	var events int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM outbox WHERE event_type = 'order.placed'`).Scan(&events))
	require.Equal(t, 1, events)

	updated, err := orders.UpdateStatus(ctx, user.ID, order.ID, domain.OrderStatusShipped)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusShipped, updated.Status)

	// Other users cannot see or mutate the order.
	other := createUser(t, ctx, pool)
	missing, err := orders.Get(ctx, other.ID, order.ID)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	files := []string{
		"../../../db/postgres/migrations/0001_init.up.sql",
	}

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	for _, rel := range files {
		path := resolvePath(t, rel)
		contents, readErr := os.ReadFile(path)
		require.NoError(t, readErr)

		_, execErr := pool.Exec(ctx, string(contents))
		require.NoError(t, execErr)
	}
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
