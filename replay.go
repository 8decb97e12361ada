package tradingbook

import (
	"github.com/shopspring/decimal"
)

// Replay rebuilds the portfolio by applying every event in order.
//
// It is deterministic and has no side effect: replaying the same events always
// gives an equal Portfolio. Events are expected in ascending ID order, which is
// the order stores return them.
//
// A reduction whose note has no id=<lot> reference aborts the replay with a
// *MalformedReferenceError. A reduction or a stop move on a lot that is not
// open is ignored and recorded in Portfolio.Ignored.
func Replay(events []Event) (*Portfolio, error) {
	p := newPortfolio()
	for _, e := range events {
		if err := p.apply(e); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ReplayUntil replays only the events with an ID lower or equal to id.
func ReplayUntil(events []Event, id uint64) (*Portfolio, error) {
	p := newPortfolio()
	for _, e := range events {
		if e.ID > id {
			break
		}
		if err := p.apply(e); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ReplayEach replays events and calls fn after each one with the portfolio
// as it stands. fn must not retain p.
func ReplayEach(events []Event, fn func(e Event, p *Portfolio)) error {
	p := newPortfolio()
	for _, e := range events {
		if err := p.apply(e); err != nil {
			return err
		}
		fn(e, p)
	}
	return nil
}

// apply processes a single event.
func (p *Portfolio) apply(e Event) error {
	lots, ok := p.positions[e.Ticker]
	if !ok {
		lots = make(map[uint64]Lot)
		p.positions[e.Ticker] = lots
	}
	if _, ok := p.realized[e.Ticker]; !ok {
		p.realized[e.Ticker] = decimal.Zero
	}

	switch e.Kind() {
	case Open:
		lots[e.ID] = Lot{ID: e.ID, Ticker: e.Ticker, Qty: e.Qty, Price: e.Price, Stop: e.Stop}

	case Reduce:
		if !e.Ref.Valid {
			return &MalformedReferenceError{EventID: e.ID, Note: e.Note}
		}
		lot, ok := refLot(lots, e.Ref)
		if !ok {
			p.ignored = append(p.ignored, e.ID)
			return nil
		}
		sold := decimal.Min(e.Qty.Neg(), lot.Qty)
		if sold.LessThan(e.Qty.Neg()) {
			p.clamped = append(p.clamped, e.ID)
		}
		p.realized[e.Ticker] = p.realized[e.Ticker].Add(sold.Mul(e.Price.Sub(lot.Price)))
		lot.Qty = lot.Qty.Sub(sold)
		if lot.Qty.IsZero() {
			delete(lots, lot.ID)
		} else {
			lots[lot.ID] = lot
		}

	case Adjust:
		// Unlike reductions, a stop move without reference is not an error.
		if !e.Ref.Valid {
			p.ignored = append(p.ignored, e.ID)
			return nil
		}
		lot, ok := refLot(lots, e.Ref)
		if !ok {
			p.ignored = append(p.ignored, e.ID)
			return nil
		}
		lot.Stop = e.Stop
		lots[lot.ID] = lot
	}
	return nil
}

// refLot returns the open lot referenced by r. A non positive id matches no lot.
func refLot(lots map[uint64]Lot, r Ref) (Lot, bool) {
	id, ok := r.LotID()
	if !ok {
		return Lot{}, false
	}
	lot, ok := lots[id]
	return lot, ok
}
