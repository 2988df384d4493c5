package domain

import (
	"math"
	"time"
)

// WorkoutXP is the fixed experience award granted per logged workout.
const WorkoutXP = 10

// Progress is the gamification slice of a user row.
type Progress struct {
	XP          int
	Streak      int
	LastWorkout *time.Time
}

// Award reports the outcome of a gamification update for display.
type Award struct {
	XPEarned  int
	NewStreak int
}

// NextProgress computes the gamification transition for one logged workout.
// Day distance is measured in elapsed 24-hour buckets from the previous
// workout, not calendar midnights: two workouts 23h apart count as the same
// day even across midnight. Callers apply the result inside the same
// transaction that persists the workout.
func NextProgress(p Progress, now time.Time) (Progress, Award) {
	streak := 1
	if p.LastWorkout != nil {
		switch diffDays := int(math.Floor(now.Sub(*p.LastWorkout).Hours() / 24)); {
		case diffDays == 0:
			streak = p.Streak
		case diffDays == 1:
			streak = p.Streak + 1
		default:
			streak = 1
		}
	}

	next := Progress{
		XP:          p.XP + WorkoutXP,
		Streak:      streak,
		LastWorkout: &now,
	}
	return next, Award{XPEarned: WorkoutXP, NewStreak: streak}
}
