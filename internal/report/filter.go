package report

import (
	"strings"
	"time"
)

// Filter scopes report queries to a date range and optionally one event.
// All fields are optional; a zero Filter matches every transaction.
type Filter struct {
	Start   *time.Time
	End     *time.Time
	EventID string
}

// endOfDay widens an end date to be inclusive through 23:59:59 of that
// calendar day: one day forward, one second back. A transaction at
// 23:59:58 on the end date is in, one at 00:00:01 the next day is out.
func endOfDay(end time.Time) time.Time {
	day := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	return day.AddDate(0, 0, 1).Add(-time.Second)
}

// whereClause builds the WHERE fragment incrementally from the present
// filter components. prefix qualifies the transactions table in joined
// queries ("t." or ""). Returns an empty clause when nothing is set.
// extra conditions (e.g. event_id IS NULL) are appended verbatim.
func (f Filter) whereClause(prefix string, extra ...string) (string, []any) {
	var conds []string
	var params []any

	if f.Start != nil {
		conds = append(conds, prefix+"timestamp >= ?")
		params = append(params, f.Start.UTC().Format(time.RFC3339))
	}
	if f.End != nil {
		conds = append(conds, prefix+"timestamp <= ?")
		params = append(params, endOfDay(f.End.UTC()).Format(time.RFC3339))
	}
	if f.EventID != "" {
		conds = append(conds, prefix+"event_id = ?")
		params = append(params, f.EventID)
	}
	conds = append(conds, extra...)

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), params
}
