package integration_test

import (
	"fmt"
	"net/http"

	"github.com/2beens/traininggrounds/internal/briefing"
	"github.com/2beens/traininggrounds/internal/briefing/history"
	"github.com/2beens/traininggrounds/internal/upgradeprompt"

	"github.com/brianvoe/gofakeit/v6"
)

func (s *IntegrationTestSuite) TestBriefing_RecordsHistory() {
	userID, report, workout := s.coachBackend.newUser(4, true)

	var card briefing.Card
	s.Require().Equal(http.StatusOK, s.getJSON("/briefing/"+userID, &card))
	s.Equal(briefing.KindCombined, card.Kind)
	s.True(card.Warning)
	s.Require().NotNil(card.Report)
	s.Require().NotNil(card.Workout)
	s.Equal(report.WeekID, card.Report.WeekID)
	s.Equal(workout.WorkoutID, card.Workout.WorkoutID)

	var count int
	s.Require().NoError(s.DB.QueryRow(
		`SELECT count(*) FROM briefing_event WHERE user_id = $1 AND kind = 'combined' AND warning`,
		userID,
	).Scan(&count))
	s.Equal(1, count)

	var listResp history.ListResponse
	s.Require().Equal(http.StatusOK, s.getJSON(
		fmt.Sprintf("/briefing/history/%s/page/0/size/10?kind=combined", userID), &listResp,
	))
	s.Require().Len(listResp.Events, 1)
	s.Equal(report.WeekID, listResp.Events[0].WeekID)
	s.Equal(workout.WorkoutID, listResp.Events[0].WorkoutID)

	s.Require().Equal(http.StatusOK, s.getJSON(
		fmt.Sprintf("/briefing/history/%s/page/0/size/10?kind=weekly", userID), &listResp,
	))
	s.Empty(listResp.Events)
}

func (s *IntegrationTestSuite) TestBriefing_FreshAndStale() {
	freshUser, _, _ := s.coachBackend.newUser(1, false)
	var card briefing.Card
	s.Require().Equal(http.StatusOK, s.getJSON("/briefing/"+freshUser, &card))
	s.Equal(briefing.KindWeekly, card.Kind)
	s.Nil(card.Workout)
	s.False(card.Warning)

	staleUser, _, workout := s.coachBackend.newUser(12, false)
	s.Require().Equal(http.StatusOK, s.getJSON("/briefing/"+staleUser, &card))
	s.Equal(briefing.KindWorkout, card.Kind)
	s.Nil(card.Report)
	s.Require().NotNil(card.Workout)
	s.Equal(workout.WorkoutID, card.Workout.WorkoutID)

	// unknown to the backend: empty lists
	s.Require().Equal(http.StatusOK, s.getJSON("/briefing/"+gofakeit.UUID(), &card))
	s.Equal(briefing.KindNone, card.Kind)
}

func (s *IntegrationTestSuite) TestBriefing_RateLimited() {
	userID, _, _ := s.coachBackend.newUser(2, false)

	limited := 0
	for i := 0; i < 25; i++ {
		if s.getJSON("/briefing/"+userID, nil) == http.StatusTooManyRequests {
			limited++
		}
	}
	// burst of 20 per minute
	s.InDelta(5, limited, 1)

	// other users have their own budget
	other, _, _ := s.coachBackend.newUser(2, false)
	s.Equal(http.StatusOK, s.getJSON("/briefing/"+other, nil))
}

func (s *IntegrationTestSuite) TestUpgradePrompt_RedisStore() {
	userID := gofakeit.UUID()

	var decision upgradeprompt.Decision
	s.Require().Equal(http.StatusOK, s.getJSON("/upgrade-prompt/"+userID, &decision))
	s.True(decision.Show)

	s.Require().Equal(http.StatusOK, s.post("/upgrade-prompt/"+userID+"/shown"))
	s.Require().Equal(http.StatusOK, s.getJSON("/upgrade-prompt/"+userID, &decision))
	s.False(decision.Show)
	s.Equal(upgradeprompt.ReasonRecentlyShown, decision.Reason)

	s.Require().Equal(http.StatusOK, s.post("/upgrade-prompt/"+userID+"/dismissed"))
	s.Require().Equal(http.StatusOK, s.getJSON("/upgrade-prompt/"+userID, &decision))
	s.Equal(upgradeprompt.ReasonDismissed, decision.Reason)
	s.Require().NotNil(decision.NextEligibleAt)
}
