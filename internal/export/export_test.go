package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/pourhouse/pourhouse/internal/report"
)

var generatedAt = time.Date(2025, 12, 7, 18, 30, 0, 0, time.UTC)

func populatedReport() report.Report {
	return report.Report{
		Summary: report.Summary{TotalSales: 5, TotalVolumeLiters: 2.3},
		ByContainerSize: []report.SizeGroup{
			{SizeMilliliters: 200, Count: 2},
			{SizeMilliliters: 300, Count: 2},
			{SizeMilliliters: 400, Count: 1},
		},
		ByCatalogItem: []report.ProductGroup{
			{ID: "classic", Name: "Classic", TotalLiters: 0.7, TotalCups: 3, TotalRevenue: 10},
			{ID: "white", Name: "White", TotalLiters: 0.6, TotalCups: 3, TotalRevenue: 9},
		},
	}
}

func populatedBreakdowns() Breakdowns {
	return Breakdowns{
		Event: &report.Detail{
			EventID: "market",
			Rows: []report.DetailRow{
				{Day: "2025-12-05", Username: "nora", Sales: 2, Cups: 3, Liters: 0.7},
				{Day: "2025-12-06", Username: "jan", Sales: 1, Cups: 3, Liters: 0.6},
			},
			TotalSales:  3,
			TotalCups:   6,
			TotalLiters: 1.3,
		},
		NoEvent: report.Detail{
			Rows: []report.DetailRow{
				{Day: "2025-12-07", Username: "nora", Sales: 2, Cups: 3, Liters: 1.0},
			},
			TotalSales:  2,
			TotalCups:   3,
			TotalLiters: 1.0,
		},
	}
}

func TestGenerate_EmptyReportKeepsAllSections(t *testing.T) {
	f := New(language.English)
	doc := f.Generate(report.Report{}, 0, Breakdowns{}, report.Filter{}, generatedAt)

	g := goldie.New(t)
	g.Assert(t, "empty_report", doc)
}

func TestGenerate_PopulatedGermanLocale(t *testing.T) {
	f := New(language.German)
	start := time.Date(2025, 12, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 7, 0, 0, 0, 0, time.UTC)
	filter := report.Filter{Start: &start, End: &end, EventID: "market"}

	doc := f.Generate(populatedReport(), 19, populatedBreakdowns(), filter, generatedAt)

	g := goldie.New(t)
	g.Assert(t, "german_report", doc)
}

func TestGenerate_StartsWithByteOrderMark(t *testing.T) {
	f := New(language.English)
	doc := f.Generate(report.Report{}, 0, Breakdowns{}, report.Filter{}, generatedAt)
	assert.True(t, bytes.HasPrefix(doc, []byte("\uFEFF")))
}

func TestGenerate_SectionHeadersAlwaysPresent(t *testing.T) {
	f := New(language.English)
	doc := string(f.Generate(report.Report{}, 0, Breakdowns{}, report.Filter{}, generatedAt))

	for _, header := range []string{
		"Pourhouse sales report",
		"Summary",
		"By product",
		"By container size",
		"Event breakdown",
		"Sales without event",
		"Period",
		"End of report",
	} {
		assert.Contains(t, doc, header)
	}
	// Empty sections announce themselves instead of disappearing.
	assert.Equal(t, 3, strings.Count(doc, "no data"))
}

func TestGenerate_GermanDecimalSeparator(t *testing.T) {
	f := New(language.German)
	r := report.Report{Summary: report.Summary{TotalSales: 1, TotalVolumeLiters: 0.4}}
	doc := string(f.Generate(r, 3.5, Breakdowns{}, report.Filter{}, generatedAt))

	assert.Contains(t, doc, "Total volume (L);0,40")
	assert.Contains(t, doc, "Total revenue;3,50")
}

func TestGenerate_EventPlaceholderWithoutFilter(t *testing.T) {
	f := New(language.English)
	doc := string(f.Generate(populatedReport(), 19, Breakdowns{}, report.Filter{}, generatedAt))
	assert.Contains(t, doc, "no event filter active")
}
