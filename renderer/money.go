package renderer

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Formatter formats amounts in a currency.
//
// The zero value formats plain numbers with two decimals.
type Formatter struct {
	Currency string // ISO 4217 code, like "USD"
}

// currency returns the go-money currency or nil if the code is unknown.
func (f Formatter) currency() *money.Currency {
	if f.Currency == "" {
		return nil
	}
	return money.GetCurrency(strings.ToUpper(f.Currency))
}

// Money formats an amount rounded to the currency's fraction digits.
func (f Formatter) Money(d decimal.Decimal) string {
	cur := f.currency()
	if cur == nil {
		if f.Currency != "" {
			return d.StringFixed(2) + " " + f.Currency
		}
		return d.StringFixed(2)
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// Signed formats an amount with an explicit sign. Zero is "-".
func (f Formatter) Signed(d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	if d.IsPositive() {
		return "+" + f.Money(d)
	}
	return f.Money(d)
}

// Qty formats a share quantity with all its digits.
func Qty(d decimal.Decimal) string { return d.String() }
