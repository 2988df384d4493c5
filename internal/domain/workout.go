package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrWorkoutNotFound covers missing workouts and workouts owned by
	// another user; callers must not learn which.
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrExerciseNotFound covers missing exercises and exercises that are
	// neither global nor owned by the caller.
	ErrExerciseNotFound = errors.New("exercise not found")
	// ErrDuplicateExercise indicates the user already owns an exercise
	// with the same name.
	ErrDuplicateExercise = errors.New("exercise with this name already exists")
)

// Exercise is either global (UserID nil) or owned by exactly one user with
// a per-owner unique name.
type Exercise struct {
	ID          string
	UserID      *string
	Name        string
	MuscleGroup string
}

// Visible reports whether the exercise may be referenced by the user:
// global exercises are visible to everyone, owned ones only to their owner.
func (e Exercise) Visible(userID string) bool {
	return e.UserID == nil || *e.UserID == userID
}

// Workout is a titled training session owning an ordered set collection.
type Workout struct {
	ID        string
	UserID    string
	Title     string
	Date      time.Time
	Sets      []WorkoutSet
	CreatedAt time.Time
}

// WorkoutSet is one exercise performance inside a workout.
type WorkoutSet struct {
	ID         string
	WorkoutID  string
	ExerciseID string
	Reps       int
	Weight     *float64
	RPE        *int
	Order      int
	Exercise   *Exercise
}

// WorkoutRepository captures persistence operations for workouts. Create
// must persist the workout and apply the gamification transition to the
// owner's progress inside one transaction.
type WorkoutRepository interface {
	Create(ctx context.Context, w Workout, apply func(Progress) (Progress, Award)) (Award, error)
	List(ctx context.Context, userID string, offset, limit int) ([]Workout, int, error)
	Get(ctx context.Context, userID, workoutID string) (*Workout, error)
	AddSet(ctx context.Context, set WorkoutSet) (*WorkoutSet, error)
}

// ExerciseRepository captures persistence operations for exercises.
type ExerciseRepository interface {
	// Create returns ErrDuplicateExercise when the owner already has an
	// exercise with the same name.
	Create(ctx context.Context, e Exercise) error
	// GetVisible returns nil when the exercise does not exist or is not
	// visible to the user.
	GetVisible(ctx context.Context, exerciseID, userID string) (*Exercise, error)
	// ListVisible returns the global plus user-owned exercises, name
	// ascending, optionally filtered by a case-insensitive name match.
	ListVisible(ctx context.Context, userID, query string) ([]Exercise, error)
}

// WorkoutPage bundles a workout listing with its pagination totals.
type WorkoutPage struct {
	Workouts []Workout
	Page     int
	Limit    int
	Total    int
}

// WorkoutService orchestrates workout logging and XP accrual.
type WorkoutService struct {
	repo      WorkoutRepository
	exercises ExerciseRepository
	now       func() time.Time
}

// NewWorkoutService constructs a WorkoutService.
func NewWorkoutService(repo WorkoutRepository, exercises ExerciseRepository) *WorkoutService {
	return &WorkoutService{repo: repo, exercises: exercises, now: time.Now}
}

// Create logs a workout and awards XP/streak in the same transaction.
func (s *WorkoutService) Create(ctx context.Context, userID, title string, date *time.Time) (*Workout, Award, error) {
	now := s.now().UTC()
	if title == "" {
		title = fmt.Sprintf("Workout %s", now.Format("1/2/2006"))
	}
	workoutDate := now
	if date != nil {
		workoutDate = date.UTC()
	}

	workout := Workout{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Date:      workoutDate,
		CreatedAt: now,
	}

	award, err := s.repo.Create(ctx, workout, func(p Progress) (Progress, Award) {
		return NextProgress(p, now)
	})
	if err != nil {
		return nil, Award{}, err
	}
	return &workout, award, nil
}

// List returns the user's workouts newest first with sets attached.
func (s *WorkoutService) List(ctx context.Context, userID string, page, limit int) (*WorkoutPage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	workouts, total, err := s.repo.List(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &WorkoutPage{Workouts: workouts, Page: page, Limit: limit, Total: total}, nil
}

// Get fetches one workout owned by the user.
func (s *WorkoutService) Get(ctx context.Context, userID, workoutID string) (*Workout, error) {
	workout, err := s.repo.Get(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if workout == nil {
		return nil, ErrWorkoutNotFound
	}
	return workout, nil
}

// AddSet appends a set after re-validating workout ownership and exercise
// visibility; upstream request validation is not trusted for either.
func (s *WorkoutService) AddSet(ctx context.Context, userID, workoutID, exerciseID string, reps int, weight *float64, rpe *int, order int) (*WorkoutSet, error) {
	workout, err := s.repo.Get(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if workout == nil {
		return nil, ErrWorkoutNotFound
	}

	exercise, err := s.exercises.GetVisible(ctx, exerciseID, userID)
	if err != nil {
		return nil, err
	}
	if exercise == nil {
		return nil, ErrExerciseNotFound
	}

	set := WorkoutSet{
		ID:         uuid.NewString(),
		WorkoutID:  workoutID,
		ExerciseID: exerciseID,
		Reps:       reps,
		Weight:     weight,
		RPE:        rpe,
		Order:      order,
	}
	return s.repo.AddSet(ctx, set)
}

// ExerciseService maintains the global-plus-owned exercise catalog.
type ExerciseService struct {
	repo ExerciseRepository
}

// NewExerciseService constructs an ExerciseService.
func NewExerciseService(repo ExerciseRepository) *ExerciseService {
	return &ExerciseService{repo: repo}
}

// Create adds a user-owned exercise.
func (s *ExerciseService) Create(ctx context.Context, userID, name, muscleGroup string) (*Exercise, error) {
	exercise := Exercise{
		ID:          uuid.NewString(),
		UserID:      &userID,
		Name:        name,
		MuscleGroup: muscleGroup,
	}
	if err := s.repo.Create(ctx, exercise); err != nil {
		return nil, err
	}
	return &exercise, nil
}

// List returns exercises visible to the user, optionally filtered by name.
func (s *ExerciseService) List(ctx context.Context, userID, query string) ([]Exercise, error) {
	return s.repo.ListVisible(ctx, userID, query)
}
