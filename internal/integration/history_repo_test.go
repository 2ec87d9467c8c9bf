package integration_test

import (
	"context"
	"time"

	"github.com/2beens/traininggrounds/internal/briefing/history"
	"github.com/2beens/traininggrounds/internal/db"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jonboulle/clockwork"
)

func (s *IntegrationTestSuite) newRepo() *history.Repo {
	ctx := context.Background()
	pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: "localhost",
		DBPort: s.pgPort,
		DBName: dbName,
	})
	s.Require().NoError(err)
	s.T().Cleanup(pool.Close)

	repo := history.NewRepo(pool)
	s.Require().NoError(repo.EnsureSchema(ctx))
	return repo
}

func (s *IntegrationTestSuite) TestHistoryRepo_AddGetList() {
	ctx := context.Background()
	repo := s.newRepo()
	userID := gofakeit.UUID()
	base := time.Now().UTC().Truncate(time.Microsecond)

	kinds := []string{"weekly", "combined", "workout", "none", "weekly"}
	var added []*history.Event
	for i, kind := range kinds {
		event, err := repo.Add(ctx, history.Event{
			UserID:    userID,
			Kind:      kind,
			WeekID:    "2024-W0" + gofakeit.Numerify("#"),
			Warning:   i%2 == 0,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		s.Require().NoError(err)
		s.Positive(event.ID)
		added = append(added, event)
	}

	got, err := repo.Get(ctx, added[1].ID)
	s.Require().NoError(err)
	s.Equal(added[1].Kind, got.Kind)
	s.Equal(added[1].WeekID, got.WeekID)
	s.True(added[1].CreatedAt.Equal(got.CreatedAt))

	_, err = repo.Get(ctx, -1)
	s.ErrorIs(err, history.ErrEventNotFound)

	events, err := repo.List(ctx, history.ListParams{UserID: userID, Page: 0, Size: 3})
	s.Require().NoError(err)
	s.Require().Len(events, 3)
	// newest first
	s.Equal(added[4].ID, events[0].ID)
	s.Equal(added[3].ID, events[1].ID)
	s.Equal(added[2].ID, events[2].ID)

	events, err = repo.List(ctx, history.ListParams{UserID: userID, Page: 1, Size: 3})
	s.Require().NoError(err)
	s.Len(events, 2)

	weekly := "weekly"
	events, err = repo.List(ctx, history.ListParams{UserID: userID, Kind: &weekly, Page: 0, Size: 10})
	s.Require().NoError(err)
	s.Len(events, 2)

	from := base.Add(90 * time.Second)
	to := base.Add(3 * time.Minute)
	events, err = repo.List(ctx, history.ListParams{UserID: userID, From: &from, To: &to, Page: 0, Size: 10})
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(added[3].ID, events[0].ID)
	s.Equal(added[2].ID, events[1].ID)
}

func (s *IntegrationTestSuite) TestHistoryRepo_Retention() {
	ctx := context.Background()
	repo := s.newRepo()
	userID := gofakeit.UUID()
	now := time.Now().UTC()

	for _, age := range []int{1, 10, 40, 100} {
		_, err := repo.Add(ctx, history.Event{
			UserID:    userID,
			Kind:      "none",
			CreatedAt: now.AddDate(0, 0, -age),
		})
		s.Require().NoError(err)
	}

	retention := history.NewRetention(repo, 30, time.Hour, clockwork.NewFakeClockAt(now), nil)
	deleted, err := retention.Cleanup(ctx)
	s.Require().NoError(err)
	s.GreaterOrEqual(deleted, int64(2))

	events, err := repo.List(ctx, history.ListParams{UserID: userID, Page: 0, Size: 10})
	s.Require().NoError(err)
	s.Len(events, 2)
}
