// Package report computes multi-dimensional sales aggregates on demand.
//
// Every aggregate is a pure function of the transactions×catalog join, a
// date range and an optional event scope. The same predicate feeds all
// queries of one report, so grouped totals always reconcile with the
// summary. Volume is stored in milliliters and reported in liters.
package report

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/pourhouse/pourhouse/internal/store"
)

// Summary holds the report's headline totals.
type Summary struct {
	TotalSales        int     `json:"totalSales"`
	TotalVolumeLiters float64 `json:"totalVolumeLiters"`
}

// SizeGroup is one container-size bucket.
type SizeGroup struct {
	SizeMilliliters int `json:"size"`
	Count           int `json:"count"`
}

// ProductGroup is one catalog item's aggregate, joined to its metadata.
type ProductGroup struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Color        string  `json:"color"`
	Description  string  `json:"description"`
	TotalLiters  float64 `json:"totalLiters"`
	TotalCups    int     `json:"totalCups"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// Report is the full aggregate for one filter. Derived, never persisted.
type Report struct {
	Summary         Summary        `json:"summary"`
	ByContainerSize []SizeGroup    `json:"byContainerSize"`
	ByCatalogItem   []ProductGroup `json:"byCatalogItem"`
}

// Pricer supplies the price of one cup of a given container size.
// Price-per-unit logic belongs to the pricing collaborator; the builder
// only multiplies.
type Pricer interface {
	PriceFor(sizeML int) float64
}

// Builder issues read-only aggregate queries against the store engine.
type Builder struct {
	engine *store.Engine
	pricer Pricer
}

// NewBuilder creates a report builder. pricer may be nil, in which case
// all revenue fields stay zero.
func NewBuilder(engine *store.Engine, pricer Pricer) *Builder {
	return &Builder{engine: engine, pricer: pricer}
}

// FullReport computes the summary, by-size and by-product aggregates for
// the filter. When the engine is not ready it returns the zero-valued
// Report so callers can render an empty state.
func (b *Builder) FullReport(ctx context.Context, f Filter) (Report, error) {
	var r Report

	summary, err := b.summary(ctx, f)
	if store.IsNotReady(err) {
		return Report{}, nil
	}
	if err != nil {
		return Report{}, err
	}
	r.Summary = summary

	if r.ByContainerSize, err = b.byContainerSize(ctx, f); err != nil {
		return Report{}, err
	}
	if r.ByCatalogItem, err = b.byCatalogItem(ctx, f); err != nil {
		return Report{}, err
	}
	return r, nil
}

// TotalRevenue prices the by-size counts for the same predicate. Not part
// of the base report; revenue is the pricing collaborator's concern.
func (b *Builder) TotalRevenue(ctx context.Context, f Filter) (float64, error) {
	if b.pricer == nil {
		return 0, nil
	}
	groups, err := b.byContainerSize(ctx, f)
	if store.IsNotReady(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var total float64
	for _, g := range groups {
		total += float64(g.Count) * b.pricer.PriceFor(g.SizeMilliliters)
	}
	return total, nil
}

func (b *Builder) summary(ctx context.Context, f Filter) (Summary, error) {
	where, params := f.whereClause("")
	query := "SELECT COUNT(*), COALESCE(SUM(total_volume), 0) FROM transactions" + where

	var s Summary
	var volumeML float64
	err := b.engine.Select(ctx, query, params, func(rows *sql.Rows) error {
		return rows.Scan(&s.TotalSales, &volumeML)
	})
	if err != nil {
		return Summary{}, wrapQuery("summary", err)
	}
	s.TotalVolumeLiters = volumeML / 1000.0
	return s, nil
}

func (b *Builder) byContainerSize(ctx context.Context, f Filter) ([]SizeGroup, error) {
	where, params := f.whereClause("")
	query := "SELECT container_size, COUNT(*) FROM transactions" + where +
		" GROUP BY container_size ORDER BY container_size ASC"

	var groups []SizeGroup
	err := b.engine.Select(ctx, query, params, func(rows *sql.Rows) error {
		var g SizeGroup
		if err := rows.Scan(&g.SizeMilliliters, &g.Count); err != nil {
			return err
		}
		groups = append(groups, g)
		return nil
	})
	if err != nil {
		return nil, wrapQuery("by-size", err)
	}
	return groups, nil
}

// byCatalogItem groups by item and container size in SQL, then folds the
// size dimension client-side. The extra dimension exists only so each
// product's revenue can be priced per size without a second query; the
// resulting product rows keep the grouped-by-item semantics.
func (b *Builder) byCatalogItem(ctx context.Context, f Filter) ([]ProductGroup, error) {
	where, params := f.whereClause("t.")
	query := `SELECT c.id, c.name, c.color, c.description, t.container_size,
		COALESCE(SUM(t.total_volume), 0), COALESCE(SUM(t.quantity), 0)
		FROM transactions t JOIN catalog_items c ON c.id = t.catalog_item_id` +
		where +
		" GROUP BY c.id, c.name, c.color, c.description, t.container_size ORDER BY c.id ASC"

	byID := make(map[string]*ProductGroup)
	var order []string
	err := b.engine.Select(ctx, query, params, func(rows *sql.Rows) error {
		var id, name, color, description string
		var sizeML, cups int
		var volumeML float64
		if err := rows.Scan(&id, &name, &color, &description, &sizeML, &volumeML, &cups); err != nil {
			return err
		}
		g, ok := byID[id]
		if !ok {
			g = &ProductGroup{ID: id, Name: name, Color: color, Description: description}
			byID[id] = g
			order = append(order, id)
		}
		g.TotalLiters += volumeML / 1000.0
		g.TotalCups += cups
		if b.pricer != nil {
			g.TotalRevenue += float64(cups) * b.pricer.PriceFor(sizeML)
		}
		return nil
	})
	if err != nil {
		return nil, wrapQuery("by-product", err)
	}

	groups := make([]ProductGroup, 0, len(order))
	for _, id := range order {
		groups = append(groups, *byID[id])
	}
	// Heaviest sellers first; id breaks ties so identical reports render
	// byte-identically.
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].TotalLiters != groups[j].TotalLiters {
			return groups[i].TotalLiters > groups[j].TotalLiters
		}
		return groups[i].ID < groups[j].ID
	})
	return groups, nil
}

func wrapQuery(name string, err error) error {
	if store.IsNotReady(err) {
		return err
	}
	return fmt.Errorf("report %s: %w", name, err)
}
