package tradingbook

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/etnz/tradingbook/date"
	"github.com/shopspring/decimal"
)

// Header is the first row of a CSV ledger.
var Header = []string{"id", "date", "ticker", "qty", "price", "stop", "note"}

// DecodeEvent decodes an event from a ledger record in Header order.
// The note column is optional.
func DecodeEvent(record []string) (Event, error) {
	if len(record) < 6 {
		return Event{}, fmt.Errorf("want at least 6 fields, got %d", len(record))
	}
	id, err := strconv.ParseUint(record[0], 10, 64)
	if err != nil || id == 0 {
		return Event{}, fmt.Errorf("invalid id %q", record[0])
	}
	on, raw := DecodeDate(record[1])
	var values [3]decimal.Decimal
	for i, name := range Header[3:6] {
		v, err := decimal.NewFromString(record[3+i])
		if err != nil {
			return Event{}, fmt.Errorf("event %d: invalid %s %q: %w", id, name, record[3+i], err)
		}
		values[i] = v
	}
	var note string
	if len(record) > 6 {
		note = record[6]
	}
	e := NewEvent(on, record[2], values[0], values[1], values[2], note).WithID(id)
	e.RawDate = raw
	return e, nil
}

// DecodeDate decodes the date column of a ledger row. The column is free text:
// on is zero when text is not a date, and raw holds text whenever it is not
// the canonical form of on so that it can be written back unchanged.
func DecodeDate(text string) (on date.Date, raw string) {
	d, err := date.Parse(text)
	if err != nil {
		return date.Date{}, text
	}
	if d.String() != text {
		return d, text
	}
	return d, ""
}

// EncodeEvent returns the ledger record of an event in Header order.
func EncodeEvent(e Event) []string {
	return []string{
		strconv.FormatUint(e.ID, 10),
		e.DateText(),
		e.Ticker,
		e.Qty.String(),
		e.Price.String(),
		e.Stop.String(),
		e.Note,
	}
}

// DecodeLedger decodes a CSV ledger. An empty input is an empty ledger.
// Rows must be in strictly ascending id order.
func DecodeLedger(r io.Reader) ([]Event, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // the note column may be missing

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read ledger header: %w", err)
	}
	if len(header) < 6 || len(header) > len(Header) || !slices.Equal(header, Header[:len(header)]) {
		return nil, fmt.Errorf("unexpected ledger header %q, want %q", header, Header)
	}

	var events []Event
	var last uint64
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read ledger: %w", err)
		}
		line, _ := reader.FieldPos(0)
		e, err := DecodeEvent(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if e.ID <= last {
			return nil, fmt.Errorf("line %d: event id %d is not after %d", line, e.ID, last)
		}
		last = e.ID
		events = append(events, e)
	}
	return events, nil
}

// NewWriter returns a csv.Writer producing the ledger dialect: comma separated,
// minimal quoting, CRLF line endings.
func NewWriter(w io.Writer) *csv.Writer {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true
	return writer
}

// EncodeLedger writes the header and every event as CSV.
func EncodeLedger(w io.Writer, events []Event) error {
	writer := NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, e := range events {
		if err := writer.Write(EncodeEvent(e)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// NextID returns the id the next appended event gets.
func NextID(events []Event) uint64 {
	var last uint64
	for _, e := range events {
		last = max(last, e.ID)
	}
	return last + 1
}
