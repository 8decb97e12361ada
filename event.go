package tradingbook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/tradingbook/date"
	"github.com/shopspring/decimal"
)

// Kind classifies an event by the sign of its quantity.
type Kind int

const (
	// Adjust events (qty == 0) move the stop of a referenced lot.
	Adjust Kind = iota
	// Open events (qty > 0) open a new lot.
	Open
	// Reduce events (qty < 0) sell part of a referenced lot.
	Reduce
)

func (k Kind) String() string {
	switch k {
	case Open:
		return "open"
	case Reduce:
		return "reduce"
	case Adjust:
		return "adjust"
	default:
		return "unknown"
	}
}

// Ref is the lot reference carried by an event note as an id=<lot> token.
//
// ID is signed: "id=-1" is a well formed reference, to a lot that cannot exist.
type Ref struct {
	ID    int64
	Valid bool
}

// ParseRef extracts the lot reference from a note. The note is a sequence of
// space separated tokens and the reference is the first token id=<integer>,
// the integer having an optional sign. Tokens with a non integer value are
// skipped.
func ParseRef(note string) Ref {
	for _, token := range strings.Fields(note) {
		value, ok := strings.CutPrefix(token, "id=")
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		return Ref{ID: id, Valid: true}
	}
	return Ref{}
}

// LotID returns the id of the referenced lot. It is false when r is not
// valid or when its id cannot be a lot id.
func (r Ref) LotID() (uint64, bool) {
	if !r.Valid || r.ID <= 0 {
		return 0, false
	}
	return uint64(r.ID), true
}

// RefNote builds a note referencing a lot, like "trim id=3 take profit".
func RefNote(verb string, lotID uint64, extra string) string {
	note := fmt.Sprintf("%s id=%d", verb, lotID)
	if extra = strings.TrimSpace(extra); extra != "" {
		note += " " + extra
	}
	return note
}

// Event is an immutable record of the ledger.
//
// The sign of Qty decides what the event does, see Kind. Reduce and Adjust
// events target the lot referenced in their note, decoded once in Ref.
type Event struct {
	ID      uint64    // assigned by the store, strictly increasing from 1
	Date    date.Date // zero when the ledger text is not a date
	RawDate string    // ledger text of the date, when it is not Date in canonical form
	Ticker  string
	Qty     decimal.Decimal
	Price   decimal.Decimal
	Stop    decimal.Decimal
	Note    string
	Ref     Ref
}

// NewEvent creates an event with no ID, the store assigns it on append.
func NewEvent(day date.Date, ticker string, qty, price, stop decimal.Decimal, note string) Event {
	return Event{
		Date:   day,
		Ticker: ticker,
		Qty:    qty,
		Price:  price,
		Stop:   stop,
		Note:   note,
		Ref:    ParseRef(note),
	}
}

// NewOpen creates an event opening a lot of qty shares.
func NewOpen(day date.Date, ticker string, qty, price, stop decimal.Decimal, note string) Event {
	return NewEvent(day, ticker, qty, price, stop, note)
}

// NewReduce creates an event selling qty shares at price. The note must
// reference the lot, see RefNote.
func NewReduce(day date.Date, ticker string, qty, price decimal.Decimal, note string) Event {
	return NewEvent(day, ticker, qty.Neg(), price, decimal.Zero, note)
}

// NewStopMove creates an event moving a stop. The note must reference the lot,
// see RefNote.
func NewStopMove(day date.Date, ticker string, stop decimal.Decimal, note string) Event {
	return NewEvent(day, ticker, decimal.Zero, decimal.Zero, stop, note)
}

// WithID returns a copy of the event with its store ID set.
func (e Event) WithID(id uint64) Event {
	e.ID = id
	return e
}

// DateText returns the date as written in the ledger.
func (e Event) DateText() string {
	switch {
	case e.RawDate != "":
		return e.RawDate
	case e.Date.IsZero():
		return ""
	}
	return e.Date.String()
}

// Kind returns the kind of the event.
func (e Event) Kind() Kind {
	switch e.Qty.Sign() {
	case 1:
		return Open
	case -1:
		return Reduce
	default:
		return Adjust
	}
}

// Equal reports whether two events hold the same values.
func (e Event) Equal(o Event) bool {
	return e.ID == o.ID && e.Date == o.Date && e.RawDate == o.RawDate && e.Ticker == o.Ticker &&
		e.Qty.Equal(o.Qty) && e.Price.Equal(o.Price) && e.Stop.Equal(o.Stop) &&
		e.Note == o.Note && e.Ref == o.Ref
}

// String returns a one line description of the event.
func (e Event) String() string {
	switch e.Kind() {
	case Open:
		return fmt.Sprintf("#%d %s buy %s %s @ %s stop %s", e.ID, e.DateText(), e.Qty, e.Ticker, e.Price, e.Stop)
	case Reduce:
		return fmt.Sprintf("#%d %s sell %s %s @ %s from lot %s", e.ID, e.DateText(), e.Qty.Neg(), e.Ticker, e.Price, e.refString())
	default:
		return fmt.Sprintf("#%d %s stop %s lot %s to %s", e.ID, e.DateText(), e.Ticker, e.refString(), e.Stop)
	}
}

func (e Event) refString() string {
	if !e.Ref.Valid {
		return "?"
	}
	return strconv.FormatInt(e.Ref.ID, 10)
}

// MarshalJSON implements the json.Marshaler interface for Event.
func (e Event) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", e.ID)
	w.Append("date", e.DateText())
	w.Append("ticker", e.Ticker)
	w.Append("kind", e.Kind().String())
	w.Append("qty", e.Qty)
	w.Append("price", e.Price)
	w.Append("stop", e.Stop)
	w.Optional("note", e.Note)
	if e.Ref.Valid {
		w.Append("lot", e.Ref.ID)
	}
	return w.MarshalJSON()
}
