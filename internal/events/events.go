// Package events defines the payloads written to the transactional outbox.
package events

import "time"

// WorkoutLogged is emitted when a workout is persisted and XP awarded.
type WorkoutLogged struct {
	WorkoutID string    `json:"workout_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	XPEarned  int       `json:"xp_earned"`
	NewStreak int       `json:"new_streak"`
}

// OrderPlaced is emitted when a cart is converted into an order.
type OrderPlaced struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	TotalAmount float64   `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	PlacedAt    time.Time `json:"placed_at"`
}

// AttendanceClosed is emitted when a gym session is checked out.
type AttendanceClosed struct {
	AttendanceID    string    `json:"attendance_id"`
	UserID          string    `json:"user_id"`
	CheckIn         time.Time `json:"check_in"`
	CheckOut        time.Time `json:"check_out"`
	DurationMinutes int       `json:"duration_minutes"`
}
