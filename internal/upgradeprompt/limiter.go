package upgradeprompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Product tuned windows.
const (
	DismissCooldown = 7 * 24 * time.Hour
	ShowCooldown    = 24 * time.Hour
)

var ErrEmptyUserID = errors.New("user id empty")

// Store is a plain key value store holding prompt timestamps.
// found is false when the key does not exist or has expired.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

type Reason string

const (
	ReasonEligible      Reason = "eligible"
	ReasonDismissed     Reason = "dismissed"
	ReasonRecentlyShown Reason = "recently_shown"
)

type Decision struct {
	Show   bool   `json:"show"`
	Reason Reason `json:"reason"`
	// NextEligibleAt is set only when Show is false.
	NextEligibleAt *time.Time `json:"nextEligibleAt,omitempty"`
}

func DismissedKey(userID string) string {
	return fmt.Sprintf("upgrade-prompt::%s::dismissed-at", userID)
}

func ShownKey(userID string) string {
	return fmt.Sprintf("upgrade-prompt::%s::shown-at", userID)
}

// ShouldShow decides whether the upgrade prompt may be shown at now.
// A dismissal suppresses it for DismissCooldown, a previous show for ShowCooldown.
// Missing or unparseable stored values count as never happened.
func ShouldShow(ctx context.Context, store Store, userID string, now time.Time) (Decision, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Decision{}, ErrEmptyUserID
	}

	dismissedAt, ok, err := readTimestamp(ctx, store, DismissedKey(userID))
	if err != nil {
		return Decision{}, fmt.Errorf("read dismissed at: %w", err)
	}
	if ok && now.Sub(dismissedAt) < DismissCooldown {
		next := dismissedAt.Add(DismissCooldown)
		return Decision{Reason: ReasonDismissed, NextEligibleAt: &next}, nil
	}

	shownAt, ok, err := readTimestamp(ctx, store, ShownKey(userID))
	if err != nil {
		return Decision{}, fmt.Errorf("read shown at: %w", err)
	}
	if ok && now.Sub(shownAt) < ShowCooldown {
		next := shownAt.Add(ShowCooldown)
		return Decision{Reason: ReasonRecentlyShown, NextEligibleAt: &next}, nil
	}

	return Decision{Show: true, Reason: ReasonEligible}, nil
}

func MarkShown(ctx context.Context, store Store, userID string, now time.Time) error {
	return writeTimestamp(ctx, store, userID, ShownKey, now)
}

func MarkDismissed(ctx context.Context, store Store, userID string, now time.Time) error {
	return writeTimestamp(ctx, store, userID, DismissedKey, now)
}

func writeTimestamp(ctx context.Context, store Store, userID string, keyFn func(string) string, now time.Time) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrEmptyUserID
	}
	if err := store.Set(ctx, keyFn(userID), strconv.FormatInt(now.UnixMilli(), 10)); err != nil {
		return fmt.Errorf("store %s: %w", keyFn(userID), err)
	}
	return nil
}

func readTimestamp(ctx context.Context, store Store, key string) (time.Time, bool, error) {
	value, found, err := store.Get(ctx, key)
	if err != nil {
		return time.Time{}, false, err
	}
	if !found {
		return time.Time{}, false, nil
	}
	millis, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || millis <= 0 {
		return time.Time{}, false, nil
	}
	return time.UnixMilli(millis), true, nil
}
