package tradingbook

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
)

// Export is the JSON view of a ledger: its events and the portfolio they
// replay to.
type Export struct {
	Events    []Event
	Portfolio *Portfolio
}

// NewExport replays events and bundles them with the result.
func NewExport(events []Event) (Export, error) {
	p, err := Replay(events)
	if err != nil {
		return Export{}, err
	}
	return Export{Events: events, Portfolio: p}, nil
}

// MarshalJSON implements the json.Marshaler interface for Export.
func (x Export) MarshalJSON() ([]byte, error) {
	events := x.Events
	if events == nil {
		events = []Event{}
	}
	var w jsonObjectWriter
	w.Append("events", events)
	if x.Portfolio != nil {
		raw, err := x.Portfolio.MarshalJSON()
		if err != nil {
			return nil, err
		}
		w.Embed(raw)
	}
	return w.MarshalJSON()
}

// Select evaluates a JSONPath expression like "$.positions.TSLA[0].qty"
// against the JSON document of x. Numbers are returned as json.Number.
func (x Export) Select(path string) (any, error) {
	raw, err := json.Marshal(x)
	if err != nil {
		return nil, err
	}
	// numbers stay json.Number so that decimals keep every digit.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}
	return v, nil
}
