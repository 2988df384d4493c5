package domain

import (
	"testing"
	"time"
)

func TestNextProgressFirstWorkout(t *testing.T) {
	now := time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)

	next, award := NextProgress(Progress{}, now)

	if next.XP != WorkoutXP {
		t.Fatalf("expected xp %d got %d", WorkoutXP, next.XP)
	}
	if next.Streak != 1 {
		t.Fatalf("expected streak 1 got %d", next.Streak)
	}
	if next.LastWorkout == nil || !next.LastWorkout.Equal(now) {
		t.Fatalf("expected last workout %v got %v", now, next.LastWorkout)
	}
	if award.XPEarned != WorkoutXP || award.NewStreak != 1 {
		t.Fatalf("unexpected award %+v", award)
	}
}

func TestNextProgressStreakTransitions(t *testing.T) {
	base := time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		elapsed    time.Duration
		prevStreak int
		want       int
	}{
		{name: "same bucket keeps streak", elapsed: 23 * time.Hour, prevStreak: 4, want: 4},
		{name: "same bucket across midnight", elapsed: 6 * time.Hour, prevStreak: 2, want: 2},
		{name: "next bucket extends streak", elapsed: 25 * time.Hour, prevStreak: 4, want: 5},
		{name: "exactly 24h extends streak", elapsed: 24 * time.Hour, prevStreak: 1, want: 2},
		{name: "gap resets streak", elapsed: 49 * time.Hour, prevStreak: 9, want: 1},
		{name: "exactly 48h resets streak", elapsed: 48 * time.Hour, prevStreak: 3, want: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			last := base
			now := base.Add(tc.elapsed)
			next, award := NextProgress(Progress{XP: 100, Streak: tc.prevStreak, LastWorkout: &last}, now)

			if next.Streak != tc.want {
				t.Fatalf("expected streak %d got %d", tc.want, next.Streak)
			}
			if award.NewStreak != tc.want {
				t.Fatalf("expected award streak %d got %d", tc.want, award.NewStreak)
			}
			if next.XP != 110 {
				t.Fatalf("expected xp 110 got %d", next.XP)
			}
		})
	}
}

func TestNextProgressAlwaysAwardsXP(t *testing.T) {
	base := time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC)
	last := base

	// Two workouts in the same bucket both earn XP even though the streak
	// stays put.
	next, award := NextProgress(Progress{XP: 10, Streak: 1, LastWorkout: &last}, base.Add(time.Hour))
	if next.XP != 20 {
		t.Fatalf("expected xp 20 got %d", next.XP)
	}
	if award.XPEarned != WorkoutXP {
		t.Fatalf("expected xp earned %d got %d", WorkoutXP, award.XPEarned)
	}
}
