package tradingbook

import (
	"github.com/shopspring/decimal"
)

// Lot is an independently tracked quantity of a ticker, bought at one entry
// price and protected by one stop. Its ID is the ID of the event that opened it.
type Lot struct {
	ID     uint64
	Ticker string
	Qty    decimal.Decimal // remaining quantity
	Price  decimal.Decimal // entry price
	Stop   decimal.Decimal
}

// Risk returns the capital lost if the stop is hit: (price - stop) * qty.
// It is negative once the stop has been moved above the entry price.
func (l Lot) Risk() decimal.Decimal {
	return l.Price.Sub(l.Stop).Mul(l.Qty)
}

// Equal reports whether both lots hold the same values.
func (l Lot) Equal(o Lot) bool {
	return l.ID == o.ID && l.Ticker == o.Ticker &&
		l.Qty.Equal(o.Qty) && l.Price.Equal(o.Price) && l.Stop.Equal(o.Stop)
}

// MarshalJSON implements the json.Marshaler interface for Lot.
func (l Lot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", l.ID)
	w.Append("ticker", l.Ticker)
	w.Append("qty", l.Qty)
	w.Append("price", l.Price)
	w.Append("stop", l.Stop)
	w.Append("risk", l.Risk())
	return w.MarshalJSON()
}
