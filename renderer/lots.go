package renderer

import (
	"slices"
	"strconv"

	"github.com/etnz/tradingbook"
)

// LotsView lists open lots grouped by ticker.
type LotsView struct {
	Tickers []TickerLots
}

// TickerLots holds the open lots of a ticker.
type TickerLots struct {
	Ticker string
	Lots   []LotRow
	Risk   string
}

// LotRow is one open lot.
type LotRow struct {
	ID    string
	Qty   string
	Price string
	Stop  string
	Risk  string
}

// NewLotsView builds the view of the open lots of p, restricted to tickers
// when any is given.
func NewLotsView(p *tradingbook.Portfolio, f Formatter, tickers ...string) *LotsView {
	v := new(LotsView)
	for _, ticker := range p.OpenTickers() {
		if len(tickers) > 0 && !slices.Contains(tickers, ticker) {
			continue
		}
		t := TickerLots{Ticker: ticker, Risk: f.Money(p.Summary(ticker).Risk)}
		for _, lot := range p.Lots(ticker) {
			t.Lots = append(t.Lots, LotRow{
				ID:    strconv.FormatUint(lot.ID, 10),
				Qty:   Qty(lot.Qty),
				Price: f.Money(lot.Price),
				Stop:  f.Money(lot.Stop),
				Risk:  f.Money(lot.Risk()),
			})
		}
		v.Tickers = append(v.Tickers, t)
	}
	return v
}

// RenderLots renders the lots view as markdown.
func RenderLots(v *LotsView) (string, error) {
	return renderTemplate("lots", "lots.md", nil, v)
}
