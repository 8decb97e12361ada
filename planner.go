package tradingbook

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/etnz/tradingbook/date"
	"github.com/shopspring/decimal"
)

// Store is an ordered, append-only collection of events.
type Store interface {
	// LoadAll returns every event in ascending ID order.
	LoadAll() ([]Event, error)
	// Append assigns the next ID to e, persists it and returns the stored event.
	Append(e Event) (Event, error)
}

// OpenRequest asks to buy a new lot.
type OpenRequest struct {
	Date   date.Date // zero means today
	Ticker string
	Qty    decimal.Decimal
	Price  decimal.Decimal
	Stop   decimal.Decimal
	Note   string
}

// TrimRequest asks to sell part of an open lot.
type TrimRequest struct {
	Date   date.Date
	Ticker string
	LotID  uint64
	Qty    decimal.Decimal
	Price  decimal.Decimal
	Note   string
}

// CloseRequest asks to sell all the remaining shares of an open lot.
type CloseRequest struct {
	Date   date.Date
	Ticker string
	LotID  uint64
	Price  decimal.Decimal
	Note   string
}

// StopRequest asks to move the stop of an open lot.
type StopRequest struct {
	Date   date.Date
	Ticker string
	LotID  uint64
	Stop   decimal.Decimal
	Note   string
}

// NormalizeTicker returns the canonical form of a ticker.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

func day(d date.Date) date.Date {
	if d.IsZero() {
		return date.Today()
	}
	return d
}

// openLot returns the open lot or a *LotError wrapping ErrNotFound.
// A closed lot is not in the portfolio anymore, so it is reported the same way.
func openLot(p *Portfolio, ticker string, id uint64) (Lot, error) {
	lot, ok := p.Lot(ticker, id)
	if !ok {
		return Lot{}, &LotError{Ticker: ticker, LotID: id, Err: ErrNotFound}
	}
	return lot, nil
}

// PlanOpen returns the event opening a new lot.
func PlanOpen(r OpenRequest) (Event, error) {
	ticker := NormalizeTicker(r.Ticker)
	if ticker == "" {
		return Event{}, fmt.Errorf("%w: ticker is missing", ErrValidation)
	}
	if !r.Qty.IsPositive() {
		return Event{}, fmt.Errorf("%w: quantity must be positive, got %s", ErrValidation, r.Qty)
	}
	if r.Price.IsNegative() {
		return Event{}, fmt.Errorf("%w: price must not be negative, got %s", ErrValidation, r.Price)
	}
	return NewOpen(day(r.Date), ticker, r.Qty, r.Price, r.Stop, strings.TrimSpace(r.Note)), nil
}

// PlanTrim returns the reduction selling r.Qty shares of an open lot.
func PlanTrim(p *Portfolio, r TrimRequest) (Event, error) {
	return planReduction(p, "trim", r)
}

// PlanClose returns the reduction selling all the remaining shares of an open lot.
func PlanClose(p *Portfolio, r CloseRequest) (Event, error) {
	ticker := NormalizeTicker(r.Ticker)
	lot, err := openLot(p, ticker, r.LotID)
	if err != nil {
		return Event{}, err
	}
	return planReduction(p, "close", TrimRequest{
		Date:   r.Date,
		Ticker: ticker,
		LotID:  r.LotID,
		Qty:    lot.Qty,
		Price:  r.Price,
		Note:   r.Note,
	})
}

func planReduction(p *Portfolio, verb string, r TrimRequest) (Event, error) {
	ticker := NormalizeTicker(r.Ticker)
	lot, err := openLot(p, ticker, r.LotID)
	if err != nil {
		return Event{}, err
	}
	if !r.Qty.IsPositive() {
		return Event{}, &LotError{Ticker: ticker, LotID: lot.ID,
			Err: fmt.Errorf("%w: quantity to sell must be positive, got %s", ErrValidation, r.Qty)}
	}
	if r.Qty.GreaterThan(lot.Qty) {
		return Event{}, &LotError{Ticker: ticker, LotID: lot.ID,
			Err: fmt.Errorf("%w: cannot sell %s, lot holds %s", ErrInsufficientQuantity, r.Qty, lot.Qty)}
	}
	return NewReduce(day(r.Date), ticker, r.Qty, r.Price, RefNote(verb, lot.ID, r.Note)), nil
}

// PlanStopMove returns the event moving the stop of an open lot.
func PlanStopMove(p *Portfolio, r StopRequest) (Event, error) {
	ticker := NormalizeTicker(r.Ticker)
	lot, err := openLot(p, ticker, r.LotID)
	if err != nil {
		return Event{}, err
	}
	return NewStopMove(day(r.Date), ticker, r.Stop, RefNote("stop", lot.ID, r.Note)), nil
}

// Planner validates user intents against the current state of a store and
// appends the resulting events.
type Planner struct {
	store Store
}

// NewPlanner returns a Planner working on store.
func NewPlanner(store Store) *Planner {
	return &Planner{store: store}
}

// State loads and replays the whole ledger.
func (p *Planner) State() (*Portfolio, error) {
	events, err := p.store.LoadAll()
	if err != nil {
		return nil, storeErr("load", err)
	}
	return Replay(events)
}

// Open appends a new lot.
func (p *Planner) Open(r OpenRequest) (Event, error) {
	e, err := PlanOpen(r)
	if err != nil {
		return Event{}, err
	}
	return p.appendOne(e)
}

// Trim sells part of an open lot.
func (p *Planner) Trim(r TrimRequest) (Event, error) {
	state, err := p.State()
	if err != nil {
		return Event{}, err
	}
	e, err := PlanTrim(state, r)
	if err != nil {
		return Event{}, err
	}
	return p.appendOne(e)
}

// Close sells all the remaining shares of an open lot.
func (p *Planner) Close(r CloseRequest) (Event, error) {
	state, err := p.State()
	if err != nil {
		return Event{}, err
	}
	e, err := PlanClose(state, r)
	if err != nil {
		return Event{}, err
	}
	return p.appendOne(e)
}

// MoveStop moves the stop of an open lot.
func (p *Planner) MoveStop(r StopRequest) (Event, error) {
	state, err := p.State()
	if err != nil {
		return Event{}, err
	}
	e, err := PlanStopMove(state, r)
	if err != nil {
		return Event{}, err
	}
	return p.appendOne(e)
}

// Split divides an open lot into several lots with their own stop.
//
// Events are appended one by one. If the store fails in the middle, the
// events already appended are returned along with the error.
func (p *Planner) Split(r SplitRequest) ([]Event, error) {
	state, err := p.State()
	if err != nil {
		return nil, err
	}
	events, err := PlanSplit(state, r)
	if err != nil {
		return nil, err
	}
	return p.append(events...)
}

func (p *Planner) appendOne(e Event) (Event, error) {
	stored, err := p.append(e)
	if err != nil {
		return Event{}, err
	}
	return stored[0], nil
}

func (p *Planner) append(events ...Event) ([]Event, error) {
	stored := make([]Event, 0, len(events))
	for i, e := range events {
		s, err := p.store.Append(e)
		if err != nil {
			if len(events) > 1 {
				return stored, fmt.Errorf("appended %d of %d events: %w", i, len(events), storeErr("append", err))
			}
			return stored, storeErr("append", err)
		}
		log.Printf("append %v", s)
		stored = append(stored, s)
	}
	return stored, nil
}

// storeErr makes sure err matches ErrStore.
func storeErr(op string, err error) error {
	if errors.Is(err, ErrStore) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}
