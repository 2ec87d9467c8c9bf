package briefing_test

import (
	"testing"
	"time"

	"github.com/2beens/traininggrounds/internal/briefing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)

func reportWithInsights(weekEnd, topPriority string) briefing.WeeklyReport {
	return briefing.WeeklyReport{
		WeekID:  "2024-W01",
		WeekEnd: weekEnd,
		AnalyticsData: &briefing.AnalyticsData{
			StructuredAnalytics: &briefing.StructuredAnalytics{
				ActionableInsights: &briefing.ActionableInsights{
					TopPriority: topPriority,
					QuickWins:   []string{"Sleep 8h", "Add a warm-up set"},
				},
			},
		},
	}
}

// reportAged returns a report whose week ended ageDays before testNow
func reportAged(ageDays int) briefing.WeeklyReport {
	return reportWithInsights(testNow.AddDate(0, 0, -ageDays).Format("2006-01-02"), "Increase squat volume")
}

func workout(summary string) briefing.WorkoutRecord {
	return briefing.WorkoutRecord{
		WorkoutID:   "w-1",
		CompletedAt: testNow.Add(-20 * time.Hour),
		Summary:     summary,
		WorkoutName: "Leg day",
	}
}

func TestSelectInsightSource_NoReportNoWorkout(t *testing.T) {
	sel := briefing.SelectInsightSource(nil, nil, testNow)
	assert.Equal(t, briefing.Selection{Kind: briefing.KindNone}, sel)

	sel = briefing.SelectInsightSource([]briefing.WeeklyReport{}, []briefing.WorkoutRecord{}, testNow)
	assert.Equal(t, briefing.KindNone, sel.Kind)
	assert.Nil(t, sel.Report)
	assert.Nil(t, sel.Workout)
}

func TestSelectInsightSource_NoReport_WorkoutWithSummary(t *testing.T) {
	workouts := []briefing.WorkoutRecord{workout("Ran 5k")}
	sel := briefing.SelectInsightSource(nil, workouts, testNow)
	require.Equal(t, briefing.KindWorkout, sel.Kind)
	assert.Nil(t, sel.Report)
	require.NotNil(t, sel.Workout)
	assert.Equal(t, workouts[0], *sel.Workout)
}

func TestSelectInsightSource_NoReport_WorkoutWithoutSummary(t *testing.T) {
	for _, summary := range []string{"", "   \n\t"} {
		sel := briefing.SelectInsightSource(nil, []briefing.WorkoutRecord{workout(summary)}, testNow)
		assert.Equal(t, briefing.KindNone, sel.Kind, "summary %q", summary)
	}
}

func TestSelectInsightSource_FreshnessWindows(t *testing.T) {
	testCases := []struct {
		name         string
		ageDays      int
		workouts     []briefing.WorkoutRecord
		expectedKind briefing.Kind
	}{
		{name: "age 0, no workout", ageDays: 0, workouts: nil, expectedKind: briefing.KindWeekly},
		{name: "age 0, workout with summary", ageDays: 0, workouts: []briefing.WorkoutRecord{workout("Ran 5k")}, expectedKind: briefing.KindWeekly},
		{name: "age 0, workout without summary", ageDays: 0, workouts: []briefing.WorkoutRecord{workout("")}, expectedKind: briefing.KindWeekly},
		{name: "age 3 inclusive", ageDays: 3, workouts: []briefing.WorkoutRecord{workout("Ran 5k")}, expectedKind: briefing.KindWeekly},
		{name: "age 4 with summary", ageDays: 4, workouts: []briefing.WorkoutRecord{workout("Ran 5k")}, expectedKind: briefing.KindCombined},
		{name: "age 5 inclusive with summary", ageDays: 5, workouts: []briefing.WorkoutRecord{workout("Ran 5k")}, expectedKind: briefing.KindCombined},
		{name: "age 4 no workout", ageDays: 4, workouts: nil, expectedKind: briefing.KindWeekly},
		{name: "age 4 workout lacks summary", ageDays: 4, workouts: []briefing.WorkoutRecord{workout("")}, expectedKind: briefing.KindWeekly},
		{name: "age 5 workout lacks summary", ageDays: 5, workouts: []briefing.WorkoutRecord{workout("")}, expectedKind: briefing.KindWeekly},
		{name: "age 6 with summary", ageDays: 6, workouts: []briefing.WorkoutRecord{workout("Ran 5k")}, expectedKind: briefing.KindWorkout},
		{name: "age 6 no workout", ageDays: 6, workouts: nil, expectedKind: briefing.KindNone},
		{name: "age 6 workout lacks summary", ageDays: 6, workouts: []briefing.WorkoutRecord{workout("")}, expectedKind: briefing.KindNone},
		{name: "age 30 with summary", ageDays: 30, workouts: []briefing.WorkoutRecord{workout("Ran 5k")}, expectedKind: briefing.KindWorkout},
		{name: "future report is fresh", ageDays: -2, workouts: []briefing.WorkoutRecord{workout("Ran 5k")}, expectedKind: briefing.KindWeekly},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reports := []briefing.WeeklyReport{reportAged(tc.ageDays)}
			sel := briefing.SelectInsightSource(reports, tc.workouts, testNow)
			require.Equal(t, tc.expectedKind, sel.Kind)

			switch tc.expectedKind {
			case briefing.KindWeekly:
				require.NotNil(t, sel.Report)
				assert.Equal(t, reports[0], *sel.Report)
				assert.Nil(t, sel.Workout)
			case briefing.KindCombined:
				require.NotNil(t, sel.Report)
				require.NotNil(t, sel.Workout)
				assert.Equal(t, reports[0], *sel.Report)
				assert.Equal(t, tc.workouts[0], *sel.Workout)
			case briefing.KindWorkout:
				assert.Nil(t, sel.Report)
				require.NotNil(t, sel.Workout)
				assert.Equal(t, tc.workouts[0], *sel.Workout)
			case briefing.KindNone:
				assert.Nil(t, sel.Report)
				assert.Nil(t, sel.Workout)
			}
		})
	}
}

func TestSelectInsightSource_ReportWithoutTopPriority(t *testing.T) {
	noInsights := []briefing.WeeklyReport{
		{WeekID: "2024-W01", WeekEnd: "2024-01-08"},
		{WeekID: "2024-W01", WeekEnd: "2024-01-08", AnalyticsData: &briefing.AnalyticsData{}},
		{WeekID: "2024-W01", WeekEnd: "2024-01-08", AnalyticsData: &briefing.AnalyticsData{
			StructuredAnalytics: &briefing.StructuredAnalytics{},
		}},
		reportWithInsights("2024-01-08", ""),
		reportWithInsights("2024-01-08", "   "),
	}

	for i, report := range noInsights {
		// same as no report: falls back to the workout
		sel := briefing.SelectInsightSource([]briefing.WeeklyReport{report}, []briefing.WorkoutRecord{workout("Ran 5k")}, testNow)
		assert.Equal(t, briefing.KindWorkout, sel.Kind, "report %d", i)

		sel = briefing.SelectInsightSource([]briefing.WeeklyReport{report}, nil, testNow)
		assert.Equal(t, briefing.KindNone, sel.Kind, "report %d", i)
	}
}

func TestSelectInsightSource_OnlyFirstElementsConsulted(t *testing.T) {
	reports := []briefing.WeeklyReport{
		reportAged(10),
		reportAged(0),
	}
	workouts := []briefing.WorkoutRecord{
		workout(""),
		workout("Ran 5k"),
	}
	sel := briefing.SelectInsightSource(reports, workouts, testNow)
	assert.Equal(t, briefing.KindNone, sel.Kind)
}

func TestSelectInsightSource_MissingOrBrokenDates(t *testing.T) {
	testCases := []struct {
		name      string
		weekStart string
		weekEnd   string
		expected  briefing.Kind
	}{
		{name: "no dates", expected: briefing.KindWorkout},
		{name: "unparseable week end, no start", weekEnd: "last sunday", expected: briefing.KindWorkout},
		{name: "both unparseable", weekStart: "??", weekEnd: "2024-02-31", expected: briefing.KindWorkout},
		{name: "week start fallback fresh", weekStart: "2024-01-08", expected: briefing.KindWeekly},
		{name: "week start fallback when end broken", weekStart: "2024-01-05", weekEnd: "nope", expected: briefing.KindCombined},
		{name: "week end preferred over start", weekStart: "2023-12-01", weekEnd: "2024-01-07", expected: briefing.KindWeekly},
		{name: "rfc3339 week end", weekEnd: "2024-01-06T23:59:59Z", expected: briefing.KindWeekly},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			report := reportWithInsights(tc.weekEnd, "Increase squat volume")
			report.WeekStart = tc.weekStart
			sel := briefing.SelectInsightSource(
				[]briefing.WeeklyReport{report},
				[]briefing.WorkoutRecord{workout("Ran 5k")},
				testNow,
			)
			assert.Equal(t, tc.expected, sel.Kind)
		})
	}
}

func TestSelectInsightSource_Idempotent(t *testing.T) {
	reports := []briefing.WeeklyReport{reportAged(4)}
	workouts := []briefing.WorkoutRecord{workout("Ran 5k")}

	first := briefing.SelectInsightSource(reports, workouts, testNow)
	second := briefing.SelectInsightSource(reports, workouts, testNow)
	assert.Equal(t, first, second)
	assert.Equal(t, briefing.KindCombined, first.Kind)

	// inputs untouched
	assert.Equal(t, "Ran 5k", workouts[0].Summary)
	assert.Equal(t, "Increase squat volume", reports[0].TopPriority())
}

func TestSelectInsightSource_ConcreteScenarios(t *testing.T) {
	// week ended 2024-01-07, now 2024-01-09 -> age 2
	report := reportWithInsights("2024-01-07", "Increase squat volume")
	sel := briefing.SelectInsightSource([]briefing.WeeklyReport{report}, nil, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, briefing.KindWeekly, sel.Kind)

	// week ended 2024-01-03, now 2024-01-08 -> age 5, paired with the workout
	report = reportWithInsights("2024-01-03", "Increase squat volume")
	sel = briefing.SelectInsightSource(
		[]briefing.WeeklyReport{report},
		[]briefing.WorkoutRecord{{WorkoutID: "w-9", Summary: "Ran 5k"}},
		time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
	)
	require.Equal(t, briefing.KindCombined, sel.Kind)
	assert.Equal(t, "Ran 5k", sel.Workout.Summary)
	assert.Equal(t, "Increase squat volume", sel.Report.TopPriority())
}

func TestSelectInsightSource_NeverPanics(t *testing.T) {
	weird := []briefing.WeeklyReport{
		{},
		{AnalyticsData: &briefing.AnalyticsData{StructuredAnalytics: &briefing.StructuredAnalytics{
			FatigueManagement: &briefing.FatigueManagement{},
		}}},
		{Metadata: &briefing.ReportMetadata{}},
	}
	workouts := [][]briefing.WorkoutRecord{nil, {{}}, {workout("x")}}

	for _, r := range weird {
		for _, w := range workouts {
			assert.NotPanics(t, func() {
				briefing.SelectInsightSource([]briefing.WeeklyReport{r}, w, testNow)
				briefing.IsWarning(&r)
			})
		}
	}
	assert.NotPanics(t, func() {
		briefing.SelectInsightSource(nil, nil, time.Time{})
	})
}

func TestAgeDays(t *testing.T) {
	r := reportWithInsights("2024-01-07", "x")

	days, known := briefing.AgeDays(&r, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC))
	assert.True(t, known)
	assert.Equal(t, 2, days)

	// partial days are floored
	days, known = briefing.AgeDays(&r, time.Date(2024, 1, 9, 23, 59, 0, 0, time.UTC))
	assert.True(t, known)
	assert.Equal(t, 2, days)

	// half a day in the future floors to -1
	days, known = briefing.AgeDays(&r, time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC))
	assert.True(t, known)
	assert.Equal(t, -1, days)

	_, known = briefing.AgeDays(&briefing.WeeklyReport{}, testNow)
	assert.False(t, known)

	_, known = briefing.AgeDays(nil, testNow)
	assert.False(t, known)
}

func TestIsWarning(t *testing.T) {
	deload := reportAged(20)
	deload.AnalyticsData.StructuredAnalytics.FatigueManagement = &briefing.FatigueManagement{
		SuggestedAction: "deload",
	}
	assert.True(t, briefing.IsWarning(&deload))

	redFlags := reportAged(1)
	redFlags.AnalyticsData.StructuredAnalytics.ActionableInsights.RedFlags = "Knee pain reported twice"
	assert.True(t, briefing.IsWarning(&redFlags))

	maintain := reportAged(1)
	maintain.AnalyticsData.StructuredAnalytics.FatigueManagement = &briefing.FatigueManagement{
		SuggestedAction: "maintain",
	}
	assert.False(t, briefing.IsWarning(&maintain))

	// no insights at all, but deload still warns
	noInsights := briefing.WeeklyReport{AnalyticsData: &briefing.AnalyticsData{
		StructuredAnalytics: &briefing.StructuredAnalytics{
			FatigueManagement: &briefing.FatigueManagement{SuggestedAction: "deload"},
		},
	}}
	assert.True(t, briefing.IsWarning(&noInsights))

	assert.False(t, briefing.IsWarning(nil))
	assert.False(t, briefing.IsWarning(&briefing.WeeklyReport{}))
}

func TestIsWarning_IndependentOfSelection(t *testing.T) {
	// stale deload report, no workout: selection is none, warning stays on
	report := reportAged(12)
	report.AnalyticsData.StructuredAnalytics.FatigueManagement = &briefing.FatigueManagement{
		SuggestedAction: "deload",
	}
	reports := []briefing.WeeklyReport{report}

	card := briefing.Compose(reports, nil, testNow)
	assert.Equal(t, briefing.KindNone, card.Kind)
	assert.True(t, card.Warning)
	assert.False(t, card.Render())

	card = briefing.Compose(reports, []briefing.WorkoutRecord{workout("Ran 5k")}, testNow)
	assert.Equal(t, briefing.KindWorkout, card.Kind)
	assert.True(t, card.Warning)
	assert.True(t, card.Render())
	assert.Equal(t, testNow, card.GeneratedAt)
}

func TestKind(t *testing.T) {
	for _, k := range []briefing.Kind{briefing.KindWeekly, briefing.KindCombined, briefing.KindWorkout, briefing.KindNone} {
		assert.True(t, k.IsValid())
		assert.Equal(t, string(k), k.String())
	}
	assert.False(t, briefing.Kind("both").IsValid())
}

func TestWeeklyReport_Accessors(t *testing.T) {
	count := 4
	r := reportAged(1)
	r.Metadata = &briefing.ReportMetadata{WorkoutCount: &count}

	assert.Equal(t, []string{"Sleep 8h", "Add a warm-up set"}, r.QuickWins())
	got, ok := r.WorkoutCount()
	assert.True(t, ok)
	assert.Equal(t, 4, got)

	var nilReport *briefing.WeeklyReport
	assert.Empty(t, nilReport.TopPriority())
	assert.Nil(t, nilReport.QuickWins())
	assert.Empty(t, nilReport.RedFlags())
	assert.Empty(t, nilReport.SuggestedAction())
	_, ok = nilReport.WorkoutCount()
	assert.False(t, ok)
	_, ok = nilReport.ReferenceDate()
	assert.False(t, ok)
}
