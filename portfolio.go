package tradingbook

import (
	"cmp"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Portfolio is the state rebuilt by Replay: the open lots and the realized
// profit and loss of every ticker seen in the ledger.
type Portfolio struct {
	positions map[string]map[uint64]Lot // ticker -> lot id -> lot, only qty > 0
	realized  map[string]decimal.Decimal
	ignored   []uint64 // events referencing a lot that is not open
	clamped   []uint64 // reductions selling more than the lot held
}

func newPortfolio() *Portfolio {
	return &Portfolio{
		positions: make(map[string]map[uint64]Lot),
		realized:  make(map[string]decimal.Decimal),
	}
}

// Lot returns the open lot with this id for ticker.
func (p *Portfolio) Lot(ticker string, id uint64) (Lot, bool) {
	lot, ok := p.positions[ticker][id]
	return lot, ok
}

// FindLot returns the open lot with this id whatever its ticker.
func (p *Portfolio) FindLot(id uint64) (Lot, bool) {
	for _, lots := range p.positions {
		if lot, ok := lots[id]; ok {
			return lot, true
		}
	}
	return Lot{}, false
}

// Lots returns the open lots of ticker sorted by id.
func (p *Portfolio) Lots(ticker string) []Lot {
	lots := slices.Collect(maps.Values(p.positions[ticker]))
	slices.SortFunc(lots, func(a, b Lot) int { return cmp.Compare(a.ID, b.ID) })
	return lots
}

// AllLots returns every open lot sorted by ticker then id.
func (p *Portfolio) AllLots() []Lot {
	var lots []Lot
	for _, ticker := range p.Tickers() {
		lots = append(lots, p.Lots(ticker)...)
	}
	return lots
}

// Tickers returns every ticker seen in the ledger, sorted.
func (p *Portfolio) Tickers() []string {
	return slices.Sorted(maps.Keys(p.realized))
}

// OpenTickers returns the tickers with at least one open lot, sorted.
func (p *Portfolio) OpenTickers() []string {
	var tickers []string
	for _, ticker := range p.Tickers() {
		if len(p.positions[ticker]) > 0 {
			tickers = append(tickers, ticker)
		}
	}
	return tickers
}

// Realized returns the profit and loss booked on ticker.
func (p *Portfolio) Realized(ticker string) decimal.Decimal {
	return p.realized[ticker]
}

// Positions returns a copy of the open lots indexed by ticker and lot id.
// Tickers are present even when all their lots are closed.
func (p *Portfolio) Positions() map[string]map[uint64]Lot {
	positions := make(map[string]map[uint64]Lot, len(p.positions))
	for ticker, lots := range p.positions {
		positions[ticker] = maps.Clone(lots)
	}
	return positions
}

// RealizedAll returns a copy of the realized profit and loss by ticker.
func (p *Portfolio) RealizedAll() map[string]decimal.Decimal {
	return maps.Clone(p.realized)
}

// Ignored returns the ids of the events that referenced a lot that was not
// open when they were replayed.
func (p *Portfolio) Ignored() []uint64 { return slices.Clone(p.ignored) }

// Clamped returns the ids of the reductions that sold more than the lot held.
func (p *Portfolio) Clamped() []uint64 { return slices.Clone(p.clamped) }

// Summary aggregates the open lots of a ticker.
type Summary struct {
	Ticker   string
	Lots     int
	Shares   decimal.Decimal
	AvgIn    decimal.Decimal // quantity weighted entry price
	AvgStop  decimal.Decimal // quantity weighted stop
	Risk     decimal.Decimal
	Realized decimal.Decimal
}

// Summary returns the aggregate position on ticker.
func (p *Portfolio) Summary(ticker string) Summary {
	s := Summary{Ticker: ticker, Realized: p.realized[ticker]}
	var cost, stops decimal.Decimal
	for _, lot := range p.positions[ticker] {
		s.Lots++
		s.Shares = s.Shares.Add(lot.Qty)
		cost = cost.Add(lot.Qty.Mul(lot.Price))
		stops = stops.Add(lot.Qty.Mul(lot.Stop))
		s.Risk = s.Risk.Add(lot.Risk())
	}
	if !s.Shares.IsZero() {
		s.AvgIn = cost.Div(s.Shares)
		s.AvgStop = stops.Div(s.Shares)
	}
	return s
}

// TotalRisk sums the risk of every open lot.
func (p *Portfolio) TotalRisk() decimal.Decimal {
	var total decimal.Decimal
	for _, lots := range p.positions {
		for _, lot := range lots {
			total = total.Add(lot.Risk())
		}
	}
	return total
}

// TotalRealized sums the realized profit and loss of every ticker.
func (p *Portfolio) TotalRealized() decimal.Decimal {
	var total decimal.Decimal
	for _, v := range p.realized {
		total = total.Add(v)
	}
	return total
}

// Equal reports whether both portfolios hold the same lots and realized values.
func (p *Portfolio) Equal(o *Portfolio) bool {
	if len(p.positions) != len(o.positions) || len(p.realized) != len(o.realized) {
		return false
	}
	for ticker, lots := range p.positions {
		other, ok := o.positions[ticker]
		if !ok || !maps.EqualFunc(lots, other, Lot.Equal) {
			return false
		}
	}
	return maps.EqualFunc(p.realized, o.realized, decimal.Decimal.Equal)
}

// MarshalJSON implements the json.Marshaler interface for Portfolio.
func (p *Portfolio) MarshalJSON() ([]byte, error) {
	positions := make(map[string][]Lot)
	for _, ticker := range p.OpenTickers() {
		positions[ticker] = p.Lots(ticker)
	}
	var w jsonObjectWriter
	w.Append("positions", positions)
	w.Append("realized", p.realized)
	w.Append("totalRisk", p.TotalRisk())
	w.Append("totalRealized", p.TotalRealized())
	return w.MarshalJSON()
}
