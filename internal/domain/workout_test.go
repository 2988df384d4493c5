package domain

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExerciseVisible(t *testing.T) {
	owner := "user-1"
	global := Exercise{ID: "ex-1"}
	owned := Exercise{ID: "ex-2", UserID: &owner}

	if !global.Visible("anyone") {
		t.Fatal("expected global exercise to be visible")
	}
	if !owned.Visible("user-1") {
		t.Fatal("expected owner to see their exercise")
	}
	if owned.Visible("user-2") {
		t.Fatal("expected other users not to see an owned exercise")
	}
}

type fakeWorkoutRepo struct {
	progress Progress
	created  []Workout
	workout  *Workout
	sets     []WorkoutSet
}

func (f *fakeWorkoutRepo) Create(_ context.Context, w Workout, apply func(Progress) (Progress, Award)) (Award, error) {
	f.created = append(f.created, w)
	next, award := apply(f.progress)
	f.progress = next
	return award, nil
}

func (f *fakeWorkoutRepo) List(_ context.Context, _ string, _, _ int) ([]Workout, int, error) {
	return f.created, len(f.created), nil
}

func (f *fakeWorkoutRepo) Get(_ context.Context, _, _ string) (*Workout, error) {
	return f.workout, nil
}

func (f *fakeWorkoutRepo) AddSet(_ context.Context, set WorkoutSet) (*WorkoutSet, error) {
	f.sets = append(f.sets, set)
	return &set, nil
}

type fakeExerciseRepo struct {
	visible *Exercise
	listErr error
}

func (f *fakeExerciseRepo) Create(_ context.Context, _ Exercise) error { return nil }

func (f *fakeExerciseRepo) GetVisible(_ context.Context, _, _ string) (*Exercise, error) {
	return f.visible, nil
}

func (f *fakeExerciseRepo) ListVisible(_ context.Context, _, _ string) ([]Exercise, error) {
	return nil, f.listErr
}

func TestCreateWorkoutDefaultTitle(t *testing.T) {
	repo := &fakeWorkoutRepo{}
	service := NewWorkoutService(repo, &fakeExerciseRepo{})
	service.now = func() time.Time {
		return time.Date(2025, time.March, 5, 18, 30, 0, 0, time.UTC)
	}

	workout, award, err := service.Create(context.Background(), "user-1", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if workout.Title != "Workout 3/5/2025" {
		t.Fatalf("unexpected default title %q", workout.Title)
	}
	if award.XPEarned != WorkoutXP {
		t.Fatalf("expected xp %d got %d", WorkoutXP, award.XPEarned)
	}
	if award.NewStreak != 1 {
		t.Fatalf("expected streak 1 got %d", award.NewStreak)
	}
}

func TestCreateWorkoutAppliesGamification(t *testing.T) {
	last := time.Date(2025, time.March, 4, 18, 0, 0, 0, time.UTC)
	repo := &fakeWorkoutRepo{progress: Progress{XP: 50, Streak: 3, LastWorkout: &last}}
	service := NewWorkoutService(repo, &fakeExerciseRepo{})
	service.now = func() time.Time { return last.Add(25 * time.Hour) }

	_, award, err := service.Create(context.Background(), "user-1", "Leg Day", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if award.NewStreak != 4 {
		t.Fatalf("expected streak 4 got %d", award.NewStreak)
	}
	if repo.progress.XP != 60 {
		t.Fatalf("expected xp 60 got %d", repo.progress.XP)
	}
}

func TestAddSetRejectsInvisibleExercise(t *testing.T) {
	repo := &fakeWorkoutRepo{workout: &Workout{ID: "w-1", UserID: "user-1"}}
	service := NewWorkoutService(repo, &fakeExerciseRepo{visible: nil})

	_, err := service.AddSet(context.Background(), "user-1", "w-1", "ex-1", 8, nil, nil, 1)
	if !errors.Is(err, ErrExerciseNotFound) {
		t.Fatalf("expected ErrExerciseNotFound got %v", err)
	}
}

func TestAddSetRejectsForeignWorkout(t *testing.T) {
	repo := &fakeWorkoutRepo{workout: nil}
	service := NewWorkoutService(repo, &fakeExerciseRepo{visible: &Exercise{ID: "ex-1"}})

	_, err := service.AddSet(context.Background(), "user-2", "w-1", "ex-1", 8, nil, nil, 1)
	if !errors.Is(err, ErrWorkoutNotFound) {
		t.Fatalf("expected ErrWorkoutNotFound got %v", err)
	}
}
