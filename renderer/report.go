package renderer

import (
	"github.com/etnz/tradingbook"
)

// Report is the view of a portfolio rendered by RenderReport.
type Report struct {
	Rows          []ReportRow // one per ticker with open lots
	Closed        []ClosedRow // tickers without open lot but with realized P/L
	TotalRisk     string
	TotalRealized string
}

// ReportRow summarizes the open position on a ticker.
type ReportRow struct {
	Ticker   string
	Lots     int
	Shares   string
	AvgIn    string
	AvgStop  string
	Risk     string
	Realized string
}

// ClosedRow is a ticker that is fully closed.
type ClosedRow struct {
	Ticker   string
	Realized string
}

// NewReport builds the report view of p.
func NewReport(p *tradingbook.Portfolio, f Formatter) *Report {
	r := &Report{
		TotalRisk:     f.Money(p.TotalRisk()),
		TotalRealized: f.Signed(p.TotalRealized()),
	}
	for _, ticker := range p.Tickers() {
		s := p.Summary(ticker)
		if s.Lots == 0 {
			if !s.Realized.IsZero() {
				r.Closed = append(r.Closed, ClosedRow{Ticker: ticker, Realized: f.Signed(s.Realized)})
			}
			continue
		}
		r.Rows = append(r.Rows, ReportRow{
			Ticker:   ticker,
			Lots:     s.Lots,
			Shares:   Qty(s.Shares),
			AvgIn:    f.Money(s.AvgIn),
			AvgStop:  f.Money(s.AvgStop),
			Risk:     f.Money(s.Risk),
			Realized: f.Signed(s.Realized),
		})
	}
	return r
}

// RenderReport renders the report as markdown.
func RenderReport(r *Report) (string, error) {
	partials := map[string]string{
		"report_positions": "report_positions.md",
		"report_closed":    "report_closed.md",
	}
	return renderTemplate("report", "report.md", partials, r)
}

// ReportMarkdown replays p into the markdown report.
func ReportMarkdown(p *tradingbook.Portfolio, f Formatter) (string, error) {
	return RenderReport(NewReport(p, f))
}
