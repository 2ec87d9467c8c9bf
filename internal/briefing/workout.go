package briefing

import (
	"strings"
	"time"
)

// WorkoutRecord is a read-only snapshot of a completed workout.
// Summary is produced by an earlier summarization step; without it the workout
// cannot be used as an insight source. CompletedAt is zero when no usable date was sent.
type WorkoutRecord struct {
	WorkoutID   string    `json:"workoutId" yaml:"workoutId"`
	CompletedAt time.Time `json:"completedAt" yaml:"completedAt"`
	Summary     string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	WorkoutName string    `json:"workoutName,omitempty" yaml:"workoutName,omitempty"`
}

func (w *WorkoutRecord) HasSummary() bool {
	return w != nil && strings.TrimSpace(w.Summary) != ""
}
