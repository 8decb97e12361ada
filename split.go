package tradingbook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/tradingbook/date"
	"github.com/shopspring/decimal"
)

// SplitPart is one of the lots a split produces.
type SplitPart struct {
	Qty  decimal.Decimal
	Stop decimal.Decimal
}

func (s SplitPart) String() string { return s.Qty.String() + ":" + s.Stop.String() }

// SplitRequest asks to divide an open lot into parts with their own stop.
type SplitRequest struct {
	Date   date.Date
	Ticker string
	LotID  uint64
	Parts  []SplitPart
	Note   string
}

// ParseSplitParts parses parts written as <qty>:<stop>, for instance
// "30:190 40:185". Parts are separated by spaces or commas and can be spread
// over several arguments.
func ParseSplitParts(args ...string) ([]SplitPart, error) {
	var parts []SplitPart
	var errs error
	for _, arg := range args {
		tokens := strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
		for _, token := range tokens {
			part, err := parseSplitPart(token)
			if err != nil {
				errs = errors.Join(errs, err)
				continue
			}
			parts = append(parts, part)
		}
	}
	if errs != nil {
		return nil, errs
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no parts given", ErrBadSplitPart)
	}
	return parts, nil
}

func parseSplitPart(token string) (SplitPart, error) {
	qty, stop, ok := strings.Cut(token, ":")
	if !ok {
		return SplitPart{}, fmt.Errorf("%w %q, want <qty>:<stop>", ErrBadSplitPart, token)
	}
	q, err := decimal.NewFromString(qty)
	if err != nil {
		return SplitPart{}, fmt.Errorf("%w %q: invalid quantity %q", ErrBadSplitPart, token, qty)
	}
	s, err := decimal.NewFromString(stop)
	if err != nil {
		return SplitPart{}, fmt.Errorf("%w %q: invalid stop %q", ErrBadSplitPart, token, stop)
	}
	return SplitPart{Qty: q, Stop: s}, nil
}

// PlanSplit returns the events splitting an open lot into r.Parts.
//
// All checks happen before any event is produced: the lot must be open, there
// must be at least two parts, each with a positive quantity, their total must
// be exactly the lot quantity and their stops must all differ.
//
// A split is expressed with the usual primitives so that replay needs no
// special case. For n parts it returns n+1 events sharing the same date:
//   - a reduction of the lot down to the first part quantity, at the entry price
//     so that no profit or loss is booked,
//   - a stop move of the lot to the first part stop,
//   - one opening event per remaining part, at the entry price of the lot.
func PlanSplit(p *Portfolio, r SplitRequest) ([]Event, error) {
	ticker := NormalizeTicker(r.Ticker)
	lot, err := openLot(p, ticker, r.LotID)
	if err != nil {
		return nil, err
	}
	if err := validateSplit(lot, r.Parts); err != nil {
		return nil, &LotError{Ticker: ticker, LotID: lot.ID, Err: err}
	}

	n := len(r.Parts)
	on := day(r.Date)
	note := func(i int) string {
		return RefNote("split from", lot.ID, fmt.Sprintf("part %d/%d %s", i, n, r.Note))
	}
	first := r.Parts[0]

	events := make([]Event, 0, n+1)
	events = append(events,
		NewReduce(on, ticker, lot.Qty.Sub(first.Qty), lot.Price, note(1)),
		NewStopMove(on, ticker, first.Stop, note(1)),
	)
	for i, part := range r.Parts[1:] {
		events = append(events, NewOpen(on, ticker, part.Qty, lot.Price, part.Stop, note(i+2)))
	}
	return events, nil
}

func validateSplit(lot Lot, parts []SplitPart) error {
	if len(parts) < 2 {
		return fmt.Errorf("%w: a split needs at least 2 parts, got %d", ErrValidation, len(parts))
	}
	var total decimal.Decimal
	for _, part := range parts {
		if !part.Qty.IsPositive() {
			return fmt.Errorf("%w %q: quantity must be positive", ErrBadSplitPart, part)
		}
		total = total.Add(part.Qty)
	}
	if !total.Equal(lot.Qty) {
		return fmt.Errorf("%w: parts total %s, lot holds %s", ErrSplitMismatch, total, lot.Qty)
	}
	for i := range parts {
		for j := i + 1; j < len(parts); j++ {
			if parts[i].Stop.Equal(parts[j].Stop) {
				return fmt.Errorf("%w: %s is used by parts %d and %d", ErrDuplicateStop, parts[i].Stop, i+1, j+1)
			}
		}
	}
	return nil
}
