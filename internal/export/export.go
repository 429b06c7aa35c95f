// Package export renders a report into a delimited text document for
// spreadsheet import and email delivery.
//
// The document layout is a contract: section order and headers are fixed,
// and a section with no data prints an explicit placeholder line instead
// of disappearing, so consumers can rely on a stable structure. Fields are
// separated by semicolons because numeric fields carry locale-specific
// decimal separators; the whole document is prefixed with a UTF-8 byte
// order mark so importers detect the encoding.
package export

import (
	"bytes"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/pourhouse/pourhouse/internal/report"
)

const (
	sep        = ";"
	bom        = "\uFEFF"
	dateLayout = "02.01.2006"
	timeLayout = "02.01.2006 15:04"
	noData     = "no data"
)

// Breakdowns carries the detailed sections accompanying a report.
// Event is nil when no event filter is active.
type Breakdowns struct {
	Event   *report.Detail
	NoEvent report.Detail
}

// Formatter renders export documents for one locale.
type Formatter struct {
	printer *message.Printer
}

// New creates a formatter rendering numbers for the given locale.
func New(tag language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Generate renders the full document. now stamps the header; pass the
// current time in production, a fixed instant in tests.
func (f *Formatter) Generate(r report.Report, totalRevenue float64, bd Breakdowns, filter report.Filter, now time.Time) []byte {
	var buf bytes.Buffer
	buf.WriteString(bom)

	f.writeHeader(&buf, now)
	f.writeSummary(&buf, r.Summary, totalRevenue)
	f.writeByProduct(&buf, r.ByCatalogItem)
	f.writeBySize(&buf, r.ByContainerSize)
	f.writeEventDetail(&buf, bd.Event)
	f.writeNoEventDetail(&buf, bd.NoEvent)
	f.writePeriod(&buf, filter)

	buf.WriteString("End of report\n")
	return buf.Bytes()
}

func (f *Formatter) line(buf *bytes.Buffer, fields ...string) {
	for i, field := range fields {
		if i > 0 {
			buf.WriteString(sep)
		}
		buf.WriteString(field)
	}
	buf.WriteString("\n")
}

func (f *Formatter) num(v float64) string {
	return f.printer.Sprintf("%.2f", v)
}

func (f *Formatter) count(n int) string {
	return f.printer.Sprintf("%d", n)
}

func (f *Formatter) writeHeader(buf *bytes.Buffer, now time.Time) {
	f.line(buf, "Pourhouse sales report", "Generated", now.Format(timeLayout))
	f.line(buf)
}

func (f *Formatter) writeSummary(buf *bytes.Buffer, s report.Summary, totalRevenue float64) {
	f.line(buf, "Summary")
	f.line(buf, "Total sales", f.count(s.TotalSales))
	f.line(buf, "Total volume (L)", f.num(s.TotalVolumeLiters))
	f.line(buf, "Total revenue", f.num(totalRevenue))
	f.line(buf)
}

func (f *Formatter) writeByProduct(buf *bytes.Buffer, groups []report.ProductGroup) {
	f.line(buf, "By product")
	f.line(buf, "Product", "Cups", "Liters", "Revenue")
	if len(groups) == 0 {
		f.line(buf, noData)
	}
	for _, g := range groups {
		f.line(buf, g.Name, f.count(g.TotalCups), f.num(g.TotalLiters), f.num(g.TotalRevenue))
	}
	f.line(buf)
}

func (f *Formatter) writeBySize(buf *bytes.Buffer, groups []report.SizeGroup) {
	f.line(buf, "By container size")
	f.line(buf, "Size (ml)", "Count")
	if len(groups) == 0 {
		f.line(buf, noData)
	}
	for _, g := range groups {
		f.line(buf, f.count(g.SizeMilliliters), f.count(g.Count))
	}
	f.line(buf)
}

func (f *Formatter) writeEventDetail(buf *bytes.Buffer, d *report.Detail) {
	f.line(buf, "Event breakdown")
	if d == nil {
		f.line(buf, "no event filter active")
		f.line(buf)
		return
	}
	f.line(buf, "Event", d.EventID)
	f.writeDetailRows(buf, *d)
	f.line(buf)
}

func (f *Formatter) writeNoEventDetail(buf *bytes.Buffer, d report.Detail) {
	f.line(buf, "Sales without event")
	f.writeDetailRows(buf, d)
	f.line(buf)
}

func (f *Formatter) writeDetailRows(buf *bytes.Buffer, d report.Detail) {
	f.line(buf, "Date", "User", "Sales", "Cups", "Liters")
	if len(d.Rows) == 0 {
		f.line(buf, noData)
		return
	}
	for _, row := range d.Rows {
		f.line(buf, row.Day, row.Username, f.count(row.Sales), f.count(row.Cups), f.num(row.Liters))
	}
	f.line(buf, "Total", "", f.count(d.TotalSales), f.count(d.TotalCups), f.num(d.TotalLiters))
}

func (f *Formatter) writePeriod(buf *bytes.Buffer, filter report.Filter) {
	f.line(buf, "Period")
	from := "-"
	if filter.Start != nil {
		from = filter.Start.Format(dateLayout)
	}
	to := "-"
	if filter.End != nil {
		to = filter.End.Format(dateLayout)
	}
	f.line(buf, "From", from)
	f.line(buf, "To", to)
	event := "-"
	if filter.EventID != "" {
		event = filter.EventID
	}
	f.line(buf, "Event filter", event)
	f.line(buf)
}
