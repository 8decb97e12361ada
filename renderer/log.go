package renderer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/tradingbook"
	"github.com/etnz/tradingbook/date"
)

// LogOptions selects the events LogMarkdown shows.
type LogOptions struct {
	Range date.Range // events outside are replayed but not shown
	Tail  int        // when positive, only the last Tail shown events are kept
}

// LogMarkdown replays events and renders each one with the position of its
// ticker right after it.
func LogMarkdown(events []tradingbook.Event, f Formatter, opts LogOptions) (string, error) {
	r := &logRenderer{Builder: &strings.Builder{}, f: f}
	r.Printf("# Ledger Log\n\n")
	if opts.Range != (date.Range{}) {
		r.Printf("Events %s.\n\n", opts.Range)
	}

	var shown []uint64
	for _, e := range events {
		if inRange(opts.Range, e) {
			shown = append(shown, e.ID)
		}
	}
	if opts.Tail > 0 && opts.Tail < len(shown) {
		shown = shown[len(shown)-opts.Tail:]
	}
	if len(shown) == 0 {
		r.Printf("No event to show.\n")
		// still replay so that a corrupted ledger is reported.
		if _, err := tradingbook.Replay(events); err != nil {
			return "", err
		}
		return r.String(), nil
	}

	r.Printf("| # | Date | Ticker | Event | Note | Shares | Risk | Realized P/L |\n")
	r.Printf("|---:|:---|:---|:---|:---|---:|---:|---:|\n")
	err := tradingbook.ReplayEach(events, func(e tradingbook.Event, p *tradingbook.Portfolio) {
		if slices.Contains(shown, e.ID) {
			r.renderEvent(e, p)
		}
	})
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// logRenderer formats the log into a markdown string.
type logRenderer struct {
	*strings.Builder
	f Formatter
}

// Printf formats according to a format specifier and writes to the renderer's buffer.
func (r *logRenderer) Printf(format string, args ...any) {
	fmt.Fprintf(r, format, args...)
}

func (r *logRenderer) renderEvent(e tradingbook.Event, p *tradingbook.Portfolio) {
	s := p.Summary(e.Ticker)
	r.Printf("| %d | %s | %s | %s | %s | %s | %s | %s |\n",
		e.ID, cell(e.DateText()), e.Ticker, r.describe(e, p), cell(e.Note),
		Qty(s.Shares), r.f.Money(s.Risk), r.f.Signed(s.Realized))
}

// describe returns a short human description of e.
func (r *logRenderer) describe(e tradingbook.Event, p *tradingbook.Portfolio) string {
	var desc string
	switch e.Kind() {
	case tradingbook.Open:
		desc = fmt.Sprintf("buy %s @ %s stop %s", Qty(e.Qty), r.f.Money(e.Price), r.f.Money(e.Stop))
	case tradingbook.Reduce:
		desc = fmt.Sprintf("sell %s @ %s from lot %d", Qty(e.Qty.Neg()), r.f.Money(e.Price), e.Ref.ID)
	default:
		if !e.Ref.Valid {
			return "stop move without lot (ignored)"
		}
		desc = fmt.Sprintf("stop lot %d to %s", e.Ref.ID, r.f.Money(e.Stop))
	}
	if slices.Contains(p.Ignored(), e.ID) {
		desc += " (ignored)"
	} else if slices.Contains(p.Clamped(), e.ID) {
		desc += " (clamped)"
	}
	return desc
}

// inRange reports whether e is shown for r. An event whose date text is not a
// date is only shown when r is open on both sides.
func inRange(r date.Range, e tradingbook.Event) bool {
	if r == (date.Range{}) {
		return true
	}
	return !e.Date.IsZero() && r.Contains(e.Date)
}
