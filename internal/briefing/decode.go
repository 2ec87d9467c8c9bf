package briefing

import (
	"encoding/json"
	"time"

	"github.com/2beens/traininggrounds/pkg"

	log "github.com/sirupsen/logrus"
)

// LenientList decodes a JSON array element by element. An element that fails to decode
// becomes the zero record in its place, so one corrupt record does not fail the whole list
// and the order of the others is kept.
type LenientList[T any] []T

func (l *LenientList[T]) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*l = nil
		return nil
	}

	list := make([]T, 0, len(raw))
	for i, elem := range raw {
		var item T
		if err := json.Unmarshal(elem, &item); err != nil {
			log.Warnf("malformed record at index %d treated as empty: %s", i, err)
			var empty T
			item = empty
		}
		list = append(list, item)
	}
	*l = list
	return nil
}

// jsonString returns the value when raw holds a JSON string, "" for anything else.
func jsonString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func (r *WeeklyReport) UnmarshalJSON(data []byte) error {
	type plain WeeklyReport
	var aux struct {
		plain
		WeekStart json.RawMessage `json:"weekStart"`
		WeekEnd   json.RawMessage `json:"weekEnd"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = WeeklyReport(aux.plain)
	r.WeekStart = jsonString(aux.WeekStart)
	r.WeekEnd = jsonString(aux.WeekEnd)
	return nil
}

// UnmarshalJSON leaves CompletedAt zero when it is missing or not a usable date.
func (w *WorkoutRecord) UnmarshalJSON(data []byte) error {
	type plain WorkoutRecord
	var aux struct {
		plain
		CompletedAt json.RawMessage `json:"completedAt"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*w = WorkoutRecord(aux.plain)
	w.CompletedAt = time.Time{}
	if completedAt, ok := pkg.ParseDate(jsonString(aux.CompletedAt)); ok {
		w.CompletedAt = completedAt
	}
	return nil
}
