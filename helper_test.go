package tradingbook

import (
	"errors"

	"github.com/etnz/tradingbook/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// D is a helper for test to create decimals from const.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// on is a helper for test to create dates from const.
func on(s string) date.Date { return date.MustParse(s) }

// decimalEqual lets cmp compare decimals by value.
var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

// memStore is a minimal in-memory Store for tests.
type memStore struct {
	events []Event
	// appends left before Append fails, negative for never.
	failIn int
}

func newMemStore(events ...Event) *memStore {
	s := &memStore{failIn: -1}
	for _, e := range events {
		s.Append(e)
	}
	return s
}

func (s *memStore) LoadAll() ([]Event, error) {
	return append([]Event(nil), s.events...), nil
}

func (s *memStore) Append(e Event) (Event, error) {
	if s.failIn == 0 {
		return Event{}, errors.New("disk full")
	}
	if s.failIn > 0 {
		s.failIn--
	}
	e = e.WithID(NextID(s.events))
	s.events = append(s.events, e)
	return e, nil
}

// ev is a helper for test to create a stored event.
func ev(id uint64, day, ticker, qty, price, stop, note string) Event {
	return NewEvent(on(day), ticker, D(qty), D(price), D(stop), note).WithID(id)
}
