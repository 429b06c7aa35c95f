package report

import (
	"context"
	"database/sql"

	"github.com/pourhouse/pourhouse/internal/store"
)

// DetailRow is one per-day-per-user line of a detailed breakdown.
type DetailRow struct {
	Day      string  `json:"day"` // YYYY-MM-DD
	Username string  `json:"username"`
	Sales    int     `json:"sales"`
	Cups     int     `json:"cups"`
	Liters   float64 `json:"liters"`
}

// Detail is a detailed breakdown with its client-side summed totals.
type Detail struct {
	EventID     string      `json:"eventId,omitempty"`
	Rows        []DetailRow `json:"rows"`
	TotalSales  int         `json:"totalSales"`
	TotalCups   int         `json:"totalCups"`
	TotalLiters float64     `json:"totalLiters"`
}

// EventBreakdown returns per-day-per-user rows for one event within the
// filter's date range. Engine not ready yields an empty Detail.
func (b *Builder) EventBreakdown(ctx context.Context, eventID string, f Filter) (Detail, error) {
	f.EventID = eventID
	return b.detail(ctx, f, nil)
}

// NoEventBreakdown returns per-day-per-user rows for transactions carrying
// no event at all. No single query returns its totals, so they are summed
// from the rows.
func (b *Builder) NoEventBreakdown(ctx context.Context, f Filter) (Detail, error) {
	f.EventID = ""
	return b.detail(ctx, f, []string{"event_id IS NULL"})
}

func (b *Builder) detail(ctx context.Context, f Filter, extra []string) (Detail, error) {
	where, params := f.whereClause("", extra...)
	query := `SELECT date(timestamp), COALESCE(username, ''),
		COUNT(*), COALESCE(SUM(quantity), 0), COALESCE(SUM(total_volume), 0)
		FROM transactions` + where +
		" GROUP BY date(timestamp), username ORDER BY date(timestamp) ASC, username ASC"

	d := Detail{EventID: f.EventID}
	err := b.engine.Select(ctx, query, params, func(rows *sql.Rows) error {
		var row DetailRow
		var volumeML float64
		if err := rows.Scan(&row.Day, &row.Username, &row.Sales, &row.Cups, &volumeML); err != nil {
			return err
		}
		row.Liters = volumeML / 1000.0
		d.Rows = append(d.Rows, row)
		d.TotalSales += row.Sales
		d.TotalCups += row.Cups
		d.TotalLiters += row.Liters
		return nil
	})
	if store.IsNotReady(err) {
		return Detail{EventID: f.EventID}, nil
	}
	if err != nil {
		return Detail{}, wrapQuery("detail", err)
	}
	return d, nil
}
