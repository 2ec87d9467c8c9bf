package history

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/traininggrounds/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

//go:embed schema.sql
var Schema string

var ErrEventNotFound = errors.New("briefing event not found")

type ListParams struct {
	UserID string
	Kind   *string
	From   *time.Time
	To     *time.Time
	Page   int
	Size   int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) EnsureSchema(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.briefing.history.schema")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create briefing_event schema: %w", err)
	}
	return nil
}

func (r *Repo) Add(ctx context.Context, event Event) (_ *Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.briefing.history.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("kind", event.Kind))

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO briefing_event (user_id, kind, week_id, workout_id, warning, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id;`,
		event.UserID, event.Kind, event.WeekID, event.WorkoutID, event.Warning, event.CreatedAt,
	).Scan(&event.ID)
	if err != nil {
		return nil, fmt.Errorf("insert briefing event: %w", err)
	}

	span.SetAttributes(attribute.Int("event.id", event.ID))
	return &event, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.briefing.history.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	event := &Event{}
	err = r.db.QueryRow(
		ctx,
		`SELECT id, user_id, kind, week_id, workout_id, warning, created_at
			FROM briefing_event
			WHERE id = $1`,
		id,
	).Scan(&event.ID, &event.UserID, &event.Kind, &event.WeekID, &event.WorkoutID, &event.Warning, &event.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// List returns the user's events, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Event, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.briefing.history.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", params.UserID))
	if params.Kind != nil {
		span.SetAttributes(attribute.String("kind", *params.Kind))
	}
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, kind, week_id, workout_id, warning, created_at
		FROM briefing_event
		WHERE user_id = $1
		  AND ($2::text IS NULL OR kind = $2)
		  AND ($3::timestamptz IS NULL OR created_at >= $3)
		  AND ($4::timestamptz IS NULL OR created_at <= $4)
		ORDER BY created_at DESC, id DESC
		LIMIT $5 OFFSET $6;
	`,
		params.UserID,
		params.Kind,
		params.From, params.To,
		params.Size, params.Size*params.Page,
	)
	if err != nil {
		return nil, fmt.Errorf("query briefing events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0, params.Size)
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.WeekID, &e.WorkoutID, &e.Warning, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *Repo) DeleteOlderThan(ctx context.Context, before time.Time) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.briefing.history.cleanup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("before", before.String()))

	tag, err := r.db.Exec(ctx, `DELETE FROM briefing_event WHERE created_at < $1`, before)
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int64("deleted", tag.RowsAffected()))
	return tag.RowsAffected(), nil
}
