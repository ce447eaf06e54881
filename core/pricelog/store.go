package pricelog

import (
	"context"
	"sort"
	"time"

	"github.com/kilianp07/fuelprice/core/model"
)

// LogRecord captures one price decision.
type LogRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	// Date is the day the decision applies to.
	Date           time.Time             `json:"date"`
	Source         string                `json:"source,omitempty"`
	Context        model.DayContext      `json:"context"`
	Outcome        string                `json:"outcome"`
	Action         string                `json:"action"`
	AppliedPrice   float64               `json:"applied_price"`
	Recommendation *model.Recommendation `json:"recommendation,omitempty"`
	Error          string                `json:"error,omitempty"`
}

// LogQuery defines filters for retrieving records. Start and End bound the
// decision date inclusively. Limit > 0 keeps the most recent records.
type LogQuery struct {
	Start   time.Time
	End     time.Time
	Outcome string
	Limit   int
}

// LogStore persists LogRecords and supports querying. Query returns records
// ordered by decision date, then by timestamp.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

func (q LogQuery) matches(r LogRecord) bool {
	if !q.Start.IsZero() && r.Date.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Date.After(q.End) {
		return false
	}
	if q.Outcome != "" && r.Outcome != q.Outcome {
		return false
	}
	return true
}

// finish sorts records and applies the limit.
func (q LogQuery) finish(recs []LogRecord) []LogRecord {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].Date.Equal(recs[j].Date) {
			return recs[i].Date.Before(recs[j].Date)
		}
		return recs[i].Timestamp.Before(recs[j].Timestamp)
	})
	if q.Limit > 0 && len(recs) > q.Limit {
		recs = recs[len(recs)-q.Limit:]
	}
	return recs
}

// LatestApplied returns the most recent record dated strictly before day
// that carries an applied price. The boolean is false when none exists.
func LatestApplied(ctx context.Context, s LogStore, day time.Time) (LogRecord, bool, error) {
	recs, err := s.Query(ctx, LogQuery{End: day.Add(-time.Nanosecond)})
	if err != nil {
		return LogRecord{}, false, err
	}
	for i := len(recs) - 1; i >= 0; i-- {
		if recs[i].AppliedPrice > 0 {
			return recs[i], true, nil
		}
	}
	return LogRecord{}, false, nil
}
