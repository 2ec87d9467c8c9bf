package briefing

import (
	"strings"
	"time"

	"github.com/2beens/traininggrounds/pkg"
)

// WeeklyReport is a read-only snapshot of a backend generated analytics report
// for one ISO week (WeekID format "YYYY-Www").
// WeekStart and WeekEnd are kept as received; see ReferenceDate.
type WeeklyReport struct {
	WeekID        string          `json:"weekId" yaml:"weekId"`
	WeekStart     string          `json:"weekStart,omitempty" yaml:"weekStart,omitempty"`
	WeekEnd       string          `json:"weekEnd,omitempty" yaml:"weekEnd,omitempty"`
	AnalyticsData *AnalyticsData  `json:"analyticsData,omitempty" yaml:"analyticsData,omitempty"`
	Metadata      *ReportMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type AnalyticsData struct {
	StructuredAnalytics *StructuredAnalytics `json:"structuredAnalytics,omitempty" yaml:"structuredAnalytics,omitempty"`
}

type StructuredAnalytics struct {
	ActionableInsights *ActionableInsights `json:"actionableInsights,omitempty" yaml:"actionableInsights,omitempty"`
	FatigueManagement  *FatigueManagement  `json:"fatigueManagement,omitempty" yaml:"fatigueManagement,omitempty"`
}

type ActionableInsights struct {
	TopPriority string   `json:"topPriority,omitempty" yaml:"topPriority,omitempty"`
	QuickWins   []string `json:"quickWins,omitempty" yaml:"quickWins,omitempty"`
	RedFlags    string   `json:"redFlags,omitempty" yaml:"redFlags,omitempty"`
}

type FatigueManagement struct {
	SuggestedAction string `json:"suggestedAction,omitempty" yaml:"suggestedAction,omitempty"`
}

type ReportMetadata struct {
	WorkoutCount *int `json:"workoutCount,omitempty" yaml:"workoutCount,omitempty"`
}

const SuggestedActionDeload = "deload"

func (r *WeeklyReport) structured() *StructuredAnalytics {
	if r == nil || r.AnalyticsData == nil {
		return nil
	}
	return r.AnalyticsData.StructuredAnalytics
}

func (r *WeeklyReport) insights() *ActionableInsights {
	sa := r.structured()
	if sa == nil {
		return nil
	}
	return sa.ActionableInsights
}

// TopPriority returns the headline insight, or "" when any part of the chain is missing.
func (r *WeeklyReport) TopPriority() string {
	if ai := r.insights(); ai != nil {
		return strings.TrimSpace(ai.TopPriority)
	}
	return ""
}

func (r *WeeklyReport) QuickWins() []string {
	if ai := r.insights(); ai != nil {
		return ai.QuickWins
	}
	return nil
}

func (r *WeeklyReport) RedFlags() string {
	if ai := r.insights(); ai != nil {
		return strings.TrimSpace(ai.RedFlags)
	}
	return ""
}

func (r *WeeklyReport) SuggestedAction() string {
	sa := r.structured()
	if sa == nil || sa.FatigueManagement == nil {
		return ""
	}
	return strings.TrimSpace(sa.FatigueManagement.SuggestedAction)
}

// WorkoutCount is informational only, it plays no part in the selection.
func (r *WeeklyReport) WorkoutCount() (int, bool) {
	if r == nil || r.Metadata == nil || r.Metadata.WorkoutCount == nil {
		return 0, false
	}
	return *r.Metadata.WorkoutCount, true
}

// ReferenceDate is WeekEnd when it parses, otherwise WeekStart.
// A report with neither usable date has no reference date.
func (r *WeeklyReport) ReferenceDate() (time.Time, bool) {
	if r == nil {
		return time.Time{}, false
	}
	if d, ok := pkg.ParseDate(r.WeekEnd); ok {
		return d, true
	}
	return pkg.ParseDate(r.WeekStart)
}
