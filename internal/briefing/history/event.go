package history

import "time"

// Event is one served briefing card.
type Event struct {
	ID        int       `json:"id"`
	UserID    string    `json:"userId"`
	Kind      string    `json:"kind"`
	WeekID    string    `json:"weekId,omitempty"`
	WorkoutID string    `json:"workoutId,omitempty"`
	Warning   bool      `json:"warning"`
	CreatedAt time.Time `json:"createdAt"`
}
