package briefing

import "time"

// Card is what the dashboard briefing card renders: the selected insight source
// plus the independent warning flag. Warning may be set even for KindNone.
type Card struct {
	Selection   `yaml:",inline"`
	Warning     bool      `json:"warning" yaml:"warning"`
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt"`
}

func Compose(recentReports []WeeklyReport, recentWorkouts []WorkoutRecord, now time.Time) Card {
	return Card{
		Selection:   SelectInsightSource(recentReports, recentWorkouts, now),
		Warning:     IsWarning(LatestReport(recentReports)),
		GeneratedAt: now,
	}
}

// Render reports whether anything besides the warning banner should be shown.
func (c Card) Render() bool {
	return c.Kind != KindNone && c.Kind != ""
}
