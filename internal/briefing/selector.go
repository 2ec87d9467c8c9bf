package briefing

import (
	"math"
	"time"
)

// Freshness thresholds, in whole days since the report reference date.
// Product tuned, keep them as they are.
const (
	WeeklyOnlyMaxAgeDays = 3
	CombinedMaxAgeDays   = 5
)

type Kind string

const (
	KindWeekly   Kind = "weekly"
	KindCombined Kind = "combined"
	KindWorkout  Kind = "workout"
	KindNone     Kind = "none"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindWeekly, KindCombined, KindWorkout, KindNone:
		return true
	default:
		return false
	}
}

// Selection is the chosen insight source. Only the fields its Kind names are set:
//   - weekly:   Report
//   - combined: Report and Workout
//   - workout:  Workout
//   - none:     nothing, render no briefing
type Selection struct {
	Kind    Kind           `json:"kind" yaml:"kind"`
	Report  *WeeklyReport  `json:"report,omitempty" yaml:"report,omitempty"`
	Workout *WorkoutRecord `json:"workout,omitempty" yaml:"workout,omitempty"`
}

func weekly(r *WeeklyReport) Selection {
	return Selection{Kind: KindWeekly, Report: r}
}

func combined(r *WeeklyReport, w *WorkoutRecord) Selection {
	return Selection{Kind: KindCombined, Report: r, Workout: w}
}

func workoutOnly(w *WorkoutRecord) Selection {
	return Selection{Kind: KindWorkout, Workout: w}
}

func none() Selection {
	return Selection{Kind: KindNone}
}

// HasInsights reports whether the report carries a non-empty top priority insight.
// Reports without one count as if no analytics exist.
func HasInsights(r *WeeklyReport) bool {
	return r.TopPriority() != ""
}

// AgeDays returns floor((now - reference date) / 24h).
// known is false when the report has no usable reference date, which callers
// treat as infinitely old. Negative ages (reference date in the future) are fresh.
func AgeDays(r *WeeklyReport, now time.Time) (days int, known bool) {
	ref, ok := r.ReferenceDate()
	if !ok {
		return 0, false
	}
	return int(math.Floor(now.Sub(ref).Hours() / 24)), true
}

// IsWarning reports whether the report signals a warning state: a deload
// suggestion or any red flags. It does not depend on the selection outcome.
func IsWarning(r *WeeklyReport) bool {
	if r == nil {
		return false
	}
	return r.SuggestedAction() == SuggestedActionDeload || r.RedFlags() != ""
}

// SelectInsightSource picks which insight the briefing card shows.
// Both lists are expected most recent first, only their first elements are used.
// It is total: any combination of missing fields maps to a Selection.
func SelectInsightSource(recentReports []WeeklyReport, recentWorkouts []WorkoutRecord, now time.Time) Selection {
	latestReport := LatestReport(recentReports)
	latestWorkout := LatestWorkout(recentWorkouts)

	if latestReport != nil && HasInsights(latestReport) {
		if age, known := AgeDays(latestReport, now); known {
			switch {
			case age <= WeeklyOnlyMaxAgeDays:
				return weekly(latestReport)
			case age <= CombinedMaxAgeDays && latestWorkout.HasSummary():
				return combined(latestReport, latestWorkout)
			case age <= CombinedMaxAgeDays:
				return weekly(latestReport)
			}
		}
	}

	if latestWorkout.HasSummary() {
		return workoutOnly(latestWorkout)
	}

	return none()
}

func LatestReport(reports []WeeklyReport) *WeeklyReport {
	if len(reports) == 0 {
		return nil
	}
	return &reports[0]
}

func LatestWorkout(workouts []WorkoutRecord) *WorkoutRecord {
	if len(workouts) == 0 {
		return nil
	}
	return &workouts[0]
}
