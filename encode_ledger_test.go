package tradingbook

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeLedger(t *testing.T) {
	ledger := "id,date,ticker,qty,price,stop,note\r\n" +
		"1,2024-01-01,TSLA,100,200,180,\r\n" +
		"2,2024-1-2,TSLA,-30,220.50,0,\"trim id=1, into strength\"\r\n" +
		"3,2024-01-03,TSLA,0,0,190,stop id=1\n" // mixed line endings are accepted

	got, err := DecodeLedger(strings.NewReader(ledger))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	want := []Event{
		ev(1, "2024-01-01", "TSLA", "100", "200", "180", ""),
		ev(2, "2024-01-02", "TSLA", "-30", "220.5", "0", "trim id=1, into strength"),
		ev(3, "2024-01-03", "TSLA", "0", "0", "190", "stop id=1"),
	}
	want[1].RawDate = "2024-1-2"
	if diff := cmp.Diff(want, got, cmp.Comparer(Event.Equal)); diff != "" {
		t.Errorf("DecodeLedger() mismatch (-want +got):\n%s", diff)
	}
	if got[1].Ref != (Ref{ID: 1, Valid: true}) {
		t.Errorf("reference was not decoded, got %+v", got[1].Ref)
	}
}

func TestDecodeLedger_Empty(t *testing.T) {
	for _, in := range []string{"", "id,date,ticker,qty,price,stop,note\n"} {
		got, err := DecodeLedger(strings.NewReader(in))
		if err != nil {
			t.Errorf("DecodeLedger(%q) error = %v", in, err)
		}
		if len(got) != 0 {
			t.Errorf("DecodeLedger(%q) = %v, want no event", in, got)
		}
	}
}

func TestDecodeLedger_MissingNoteColumn(t *testing.T) {
	got, err := DecodeLedger(strings.NewReader("id,date,ticker,qty,price,stop\n1,2024-01-01,TSLA,1,2,3\n"))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	if len(got) != 1 || got[0].Note != "" {
		t.Errorf("DecodeLedger() = %v", got)
	}
}

func TestDecodeLedger_Errors(t *testing.T) {
	const header = "id,date,ticker,qty,price,stop,note\n"
	testCases := []struct {
		name    string
		ledger  string
		wantErr string
	}{
		{"bad header", "a,b,c,d,e,f,g\n", "unexpected ledger header"},
		{"header too long", header[:len(header)-1] + ",extra\n", "unexpected ledger header"},
		{"bad id", header + "x,2024-01-01,TSLA,1,2,3,\n", `invalid id "x"`},
		{"zero id", header + "0,2024-01-01,TSLA,1,2,3,\n", `invalid id "0"`},
		{"bad qty", header + "1,2024-01-01,TSLA,one,2,3,\n", "invalid qty"},
		{"bad stop", header + "1,2024-01-01,TSLA,1,2,,\n", "invalid stop"},
		{"short row", header + "1,2024-01-01,TSLA\n", "want at least 6 fields"},
		{"duplicate id", header + "1,2024-01-01,TSLA,1,2,3,\n1,2024-01-01,TSLA,1,2,3,\n", "line 3: event id 1 is not after 1"},
		{"decreasing id", header + "2,2024-01-01,TSLA,1,2,3,\n1,2024-01-01,TSLA,1,2,3,\n", "is not after"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeLedger(strings.NewReader(tc.ledger))
			if err == nil {
				t.Fatalf("DecodeLedger() succeeded, want error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("DecodeLedger() error = %q, want it to contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestDecodeLedger_FreeTextDates(t *testing.T) {
	ledger := "id,date,ticker,qty,price,stop,note\r\n" +
		"1,2024/01/05,TSLA,100,200,180,\r\n" +
		"2,2024-1-8,TSLA,-30,220,0,trim id=1\r\n" +
		"3,,TSLA,0,0,190,stop id=1\r\n" +
		"4,2024-01-09,TSLA,-20,230,0,trim id=1\r\n"

	events, err := DecodeLedger(strings.NewReader(ledger))
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	wantDates := []string{"2024/01/05", "2024-1-8", "", "2024-01-09"}
	for i, e := range events {
		if got := e.DateText(); got != wantDates[i] {
			t.Errorf("event %d DateText() = %q, want %q", e.ID, got, wantDates[i])
		}
	}
	if !events[0].Date.IsZero() {
		t.Errorf("event 1 Date = %v, want zero", events[0].Date)
	}
	if events[1].Date != on("2024-01-08") {
		t.Errorf("event 2 Date = %v, want 2024-01-08", events[1].Date)
	}

	p, err := Replay(events)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if got := p.Realized("TSLA"); !got.Equal(D("1200")) {
		t.Errorf("Realized(TSLA) = %s, want 1200", got)
	}

	var b bytes.Buffer
	if err := EncodeLedger(&b, events); err != nil {
		t.Fatalf("EncodeLedger() error = %v", err)
	}
	if got := b.String(); got != ledger {
		t.Errorf("EncodeLedger() =\n%q\nwant\n%q", got, ledger)
	}
}

func TestDecodeDate(t *testing.T) {
	testCases := []struct {
		text    string
		wantOn  string
		wantRaw string
	}{
		{text: "2024-01-05", wantOn: "2024-01-05"},
		{text: "2024-1-5", wantOn: "2024-01-05", wantRaw: "2024-1-5"},
		{text: "2024/01/05", wantRaw: "2024/01/05"},
		{text: "yesterday", wantRaw: "yesterday"},
		{text: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			gotOn, gotRaw := DecodeDate(tc.text)
			if gotRaw != tc.wantRaw {
				t.Errorf("DecodeDate(%q) raw = %q, want %q", tc.text, gotRaw, tc.wantRaw)
			}
			switch {
			case tc.wantOn == "" && !gotOn.IsZero():
				t.Errorf("DecodeDate(%q) = %v, want zero", tc.text, gotOn)
			case tc.wantOn != "" && gotOn != on(tc.wantOn):
				t.Errorf("DecodeDate(%q) = %v, want %s", tc.text, gotOn, tc.wantOn)
			}
		})
	}
}

func TestEncodeLedger(t *testing.T) {
	events := []Event{
		ev(1, "2024-01-01", "TSLA", "100", "200", "180", ""),
		ev(2, "2024-01-02", "TSLA", "-30", "220", "0", "trim id=1, \"quoted\""),
		ev(3, "2024-01-03", "TSLA", "0", "0", "190.125", "stop id=1"),
	}
	var b bytes.Buffer
	if err := EncodeLedger(&b, events); err != nil {
		t.Fatalf("EncodeLedger() error = %v", err)
	}
	want := "id,date,ticker,qty,price,stop,note\r\n" +
		"1,2024-01-01,TSLA,100,200,180,\r\n" +
		"2,2024-01-02,TSLA,-30,220,0,\"trim id=1, \"\"quoted\"\"\"\r\n" +
		"3,2024-01-03,TSLA,0,0,190.125,stop id=1\r\n"
	if got := b.String(); got != want {
		t.Errorf("EncodeLedger() =\n%q\nwant\n%q", got, want)
	}

	decoded, err := DecodeLedger(&b)
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	if diff := cmp.Diff(events, decoded, cmp.Comparer(Event.Equal)); diff != "" {
		t.Errorf("DecodeLedger(EncodeLedger()) mismatch (-want +got):\n%s", diff)
	}
}

func TestDecimalPrecision(t *testing.T) {
	// Repeated replays of fractional values must not drift.
	events := []Event{ev(1, "2024-01-01", "BRK", "3", "0.1", "0", "")}
	for i := uint64(2); i <= 4; i++ {
		events = append(events, ev(i, "2024-01-02", "BRK", "-1", "0.3", "0", "id=1"))
	}
	p, err := Replay(events)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if got := p.Realized("BRK"); !got.Equal(D("0.6")) {
		t.Errorf("Realized(BRK) = %s, want exactly 0.6", got)
	}
	if got := EncodeEvent(ev(1, "2024-01-01", "X", "123456789.0123456789", "1", "0", ""))[3]; got != "123456789.0123456789" {
		t.Errorf("qty encoded as %q, want all digits kept", got)
	}
}

func TestNextID(t *testing.T) {
	if got := NextID(nil); got != 1 {
		t.Errorf("NextID(nil) = %d, want 1", got)
	}
	if got := NextID([]Event{ev(1, "2024-01-01", "A", "1", "1", "0", ""), ev(5, "2024-01-01", "A", "1", "1", "0", "")}); got != 6 {
		t.Errorf("NextID() = %d, want 6", got)
	}
}
