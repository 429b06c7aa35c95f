package report

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pourhouse/pourhouse/internal/blobstore"
	"github.com/pourhouse/pourhouse/internal/pricing"
	"github.com/pourhouse/pourhouse/internal/store"
)

var testPrices = map[int]float64{200: 3.0, 300: 4.0, 400: 5.0}

func openSeededEngine(t *testing.T) *store.Engine {
	t.Helper()
	e := store.New(blobstore.NewMemory(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, e.Open(context.Background()))
	t.Cleanup(func() { e.Close() })
	return e
}

func sellAt(t *testing.T, e *store.Engine, item string, size, qty int, ts time.Time, event, user string) {
	t.Helper()
	_, err := e.RecordSale(context.Background(), store.Sale{
		CatalogItemID: item,
		ContainerSize: size,
		Quantity:      qty,
		Timestamp:     ts,
		EventID:       event,
		Username:      user,
	})
	require.NoError(t, err)
}

func day(d int, hour, min, sec int) time.Time {
	return time.Date(2025, 12, d, hour, min, sec, 0, time.UTC)
}

func seedSales(t *testing.T, e *store.Engine) {
	t.Helper()
	sellAt(t, e, "classic", 200, 2, day(5, 16, 30, 0), "market", "nora")
	sellAt(t, e, "classic", 300, 1, day(5, 17, 0, 0), "market", "nora")
	sellAt(t, e, "white", 200, 3, day(6, 12, 0, 0), "market", "jan")
	sellAt(t, e, "berry", 400, 1, day(6, 18, 45, 0), "", "jan")
	sellAt(t, e, "cocoa", 300, 2, day(7, 11, 15, 0), "", "nora")
}

func TestFullReport_AggregateConsistency(t *testing.T) {
	e := openSeededEngine(t)
	seedSales(t, e)
	b := NewBuilder(e, pricing.NewPriceList(testPrices))

	r, err := b.FullReport(context.Background(), Filter{})
	require.NoError(t, err)

	assert.Equal(t, 5, r.Summary.TotalSales)

	sizeTotal := 0
	for _, g := range r.ByContainerSize {
		sizeTotal += g.Count
	}
	assert.Equal(t, r.Summary.TotalSales, sizeTotal,
		"size group counts must sum to total sales")

	var productLiters float64
	for _, g := range r.ByCatalogItem {
		productLiters += g.TotalLiters
	}
	assert.InDelta(t, r.Summary.TotalVolumeLiters, productLiters, 1e-9,
		"product liters must sum to total volume")

	// 2×200 + 1×300 + 3×200 + 1×400 + 2×300 = 2300 ml
	assert.InDelta(t, 2.3, r.Summary.TotalVolumeLiters, 1e-9)
}

func TestFullReport_SizeGroupsAscending(t *testing.T) {
	e := openSeededEngine(t)
	seedSales(t, e)
	b := NewBuilder(e, nil)

	r, err := b.FullReport(context.Background(), Filter{})
	require.NoError(t, err)
	require.NotEmpty(t, r.ByContainerSize)
	for i := 1; i < len(r.ByContainerSize); i++ {
		assert.Less(t, r.ByContainerSize[i-1].SizeMilliliters, r.ByContainerSize[i].SizeMilliliters)
	}
}

func TestFullReport_ProductsOrderedByLitersDescending(t *testing.T) {
	e := openSeededEngine(t)
	seedSales(t, e)
	b := NewBuilder(e, nil)

	r, err := b.FullReport(context.Background(), Filter{})
	require.NoError(t, err)
	require.NotEmpty(t, r.ByCatalogItem)
	for i := 1; i < len(r.ByCatalogItem); i++ {
		assert.GreaterOrEqual(t,
			r.ByCatalogItem[i-1].TotalLiters, r.ByCatalogItem[i].TotalLiters)
	}
	// classic: 2×200 + 1×300 = 0.7 L leads
	assert.Equal(t, "classic", r.ByCatalogItem[0].ID)
}

func TestFullReport_InclusiveEndOfDay(t *testing.T) {
	e := openSeededEngine(t)
	sellAt(t, e, "classic", 200, 1, day(6, 23, 59, 58), "", "nora")
	sellAt(t, e, "classic", 200, 1, day(7, 0, 0, 1), "", "nora")
	b := NewBuilder(e, nil)

	end := day(6, 9, 30, 0) // arbitrary time of day; the whole day counts
	r, err := b.FullReport(context.Background(), Filter{End: &end})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Summary.TotalSales,
		"23:59:58 on the end date is in, 00:00:01 next day is out")
}

func TestFullReport_StartBound(t *testing.T) {
	e := openSeededEngine(t)
	seedSales(t, e)
	b := NewBuilder(e, nil)

	start := day(6, 0, 0, 0)
	r, err := b.FullReport(context.Background(), Filter{Start: &start})
	require.NoError(t, err)
	assert.Equal(t, 3, r.Summary.TotalSales)
}

func TestFullReport_EventScope(t *testing.T) {
	e := openSeededEngine(t)
	seedSales(t, e)
	b := NewBuilder(e, nil)

	r, err := b.FullReport(context.Background(), Filter{EventID: "market"})
	require.NoError(t, err)
	assert.Equal(t, 3, r.Summary.TotalSales)
}

func TestFullReport_NotReadyYieldsZeroReport(t *testing.T) {
	e := store.New(blobstore.NewMemory(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	b := NewBuilder(e, nil)

	r, err := b.FullReport(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, Report{}, r)
}

func TestFullReport_IdempotentRequery(t *testing.T) {
	e := openSeededEngine(t)
	seedSales(t, e)
	b := NewBuilder(e, pricing.NewPriceList(testPrices))

	f := Filter{EventID: "market"}
	first, err := b.FullReport(context.Background(), f)
	require.NoError(t, err)
	second, err := b.FullReport(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTotalRevenue_PricesBySize(t *testing.T) {
	e := openSeededEngine(t)
	seedSales(t, e)
	b := NewBuilder(e, pricing.NewPriceList(testPrices))

	total, err := b.TotalRevenue(context.Background(), Filter{})
	require.NoError(t, err)
	// counts by size: 200→2, 300→2, 400→1
	assert.InDelta(t, 2*3.0+2*4.0+1*5.0, total, 1e-9)
}

func TestProductRevenue_PricedPerSize(t *testing.T) {
	e := openSeededEngine(t)
	seedSales(t, e)
	b := NewBuilder(e, pricing.NewPriceList(testPrices))

	r, err := b.FullReport(context.Background(), Filter{})
	require.NoError(t, err)

	var classic *ProductGroup
	for i := range r.ByCatalogItem {
		if r.ByCatalogItem[i].ID == "classic" {
			classic = &r.ByCatalogItem[i]
		}
	}
	require.NotNil(t, classic)
	// 2 cups of 200 ml + 1 cup of 300 ml
	assert.InDelta(t, 2*3.0+1*4.0, classic.TotalRevenue, 1e-9)
	assert.Equal(t, 3, classic.TotalCups)
}

func TestEventBreakdown_PerDayPerUser(t *testing.T) {
	e := openSeededEngine(t)
	seedSales(t, e)
	b := NewBuilder(e, nil)

	d, err := b.EventBreakdown(context.Background(), "market", Filter{})
	require.NoError(t, err)
	require.Len(t, d.Rows, 2) // (dec 5, nora), (dec 6, jan)
	assert.Equal(t, "2025-12-05", d.Rows[0].Day)
	assert.Equal(t, "nora", d.Rows[0].Username)
	assert.Equal(t, 3, d.Rows[0].Cups)
	assert.Equal(t, "2025-12-06", d.Rows[1].Day)
	assert.Equal(t, "jan", d.Rows[1].Username)

	assert.Equal(t, 3, d.TotalSales)
	assert.InDelta(t, 1.3, d.TotalLiters, 1e-9)
}

func TestNoEventBreakdown_ExcludesEventSales(t *testing.T) {
	e := openSeededEngine(t)
	seedSales(t, e)
	b := NewBuilder(e, nil)

	d, err := b.NoEventBreakdown(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, d.Rows, 2) // (dec 6, jan), (dec 7, nora)
	assert.Equal(t, 2, d.TotalSales)
	assert.Equal(t, 3, d.TotalCups)
	assert.InDelta(t, 1.0, d.TotalLiters, 1e-9)
}

func TestEndOfDay_Widening(t *testing.T) {
	end := endOfDay(time.Date(2025, 12, 6, 9, 30, 15, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 12, 6, 23, 59, 59, 0, time.UTC), end)
}
