package briefing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/traininggrounds/internal/briefing/history"
	"github.com/2beens/traininggrounds/internal/telemetry/metrics"
	"github.com/2beens/traininggrounds/internal/telemetry/tracing"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=briefing_test

type reportsSource interface {
	RecentWeeklyReports(ctx context.Context, userID string, limit int) ([]WeeklyReport, error)
}

type workoutsSource interface {
	RecentWorkouts(ctx context.Context, userID string, limit int) ([]WorkoutRecord, error)
}

type historyRecorder interface {
	Add(ctx context.Context, event history.Event) (*history.Event, error)
}

// The selector only looks at the latest report and workout.
const (
	RecentReportsLimit  = 1
	RecentWorkoutsLimit = 1
)

var ErrEmptyUserID = errors.New("user id empty")

type ServiceParams struct {
	Reports        reportsSource
	Workouts       workoutsSource
	History        historyRecorder // optional
	Clock          clockwork.Clock
	MetricsManager *metrics.Manager
}

type Service struct {
	reports        reportsSource
	workouts       workoutsSource
	history        historyRecorder
	clock          clockwork.Clock
	metricsManager *metrics.Manager
}

func NewService(params ServiceParams) *Service {
	clock := params.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		reports:        params.Reports,
		workouts:       params.Workouts,
		history:        params.History,
		clock:          clock,
		metricsManager: params.MetricsManager,
	}
}

func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// Briefing fetches the latest report and workout of the user and composes the card.
// Fetch errors are returned as is; the card is never composed from partial data.
func (s *Service) Briefing(ctx context.Context, userID string) (_ *Card, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.briefing")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	span.SetAttributes(attribute.String("user_id", userID))

	var (
		reports  []WeeklyReport
		workouts []WorkoutRecord
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reports, err = s.reports.RecentWeeklyReports(gCtx, userID, RecentReportsLimit)
		if err != nil {
			return fmt.Errorf("fetch weekly reports: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		workouts, err = s.workouts.RecentWorkouts(gCtx, userID, RecentWorkoutsLimit)
		if err != nil {
			return fmt.Errorf("fetch workouts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if s.metricsManager != nil {
			s.metricsManager.CounterBriefingFetchErrors.Inc()
		}
		return nil, err
	}

	card := Compose(reports, workouts, s.clock.Now())
	span.SetAttributes(
		attribute.String("kind", card.Kind.String()),
		attribute.Bool("warning", card.Warning),
	)

	s.record(ctx, userID, card)
	if s.metricsManager != nil {
		s.metricsManager.CounterBriefings.WithLabelValues(card.Kind.String()).Inc()
		if card.Warning {
			s.metricsManager.CounterBriefingWarnings.Inc()
		}
	}

	return &card, nil
}

func (s *Service) record(ctx context.Context, userID string, card Card) {
	if s.history == nil {
		return
	}

	event := history.Event{
		UserID:    userID,
		Kind:      card.Kind.String(),
		Warning:   card.Warning,
		CreatedAt: card.GeneratedAt,
	}
	if card.Report != nil {
		event.WeekID = card.Report.WeekID
	}
	if card.Workout != nil {
		event.WorkoutID = card.Workout.WorkoutID
	}

	if _, err := s.history.Add(ctx, event); err != nil {
		log.Errorf("record briefing event for [%s]: %s", userID, err)
	}
}
