package tradingbook

import (
	"errors"
	"strings"
	"testing"

	"github.com/etnz/tradingbook/date"
	"github.com/google/go-cmp/cmp"
)

// tslaStore returns a store holding a TSLA lot of 100 shares partially sold down to 70.
func tslaStore() *memStore {
	return newMemStore(
		NewOpen(on("2024-01-01"), "TSLA", D("100"), D("200"), D("180"), ""),
		NewReduce(on("2024-01-02"), "TSLA", D("30"), D("220"), "id=1"),
	)
}

func TestPlanner_Open(t *testing.T) {
	s := newMemStore()
	p := NewPlanner(s)

	got, err := p.Open(OpenRequest{Date: on("2024-01-01"), Ticker: " tsla", Qty: D("100"), Price: D("200"), Stop: D("180"), Note: "breakout"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	want := ev(1, "2024-01-01", "TSLA", "100", "200", "180", "breakout")
	if !got.Equal(want) {
		t.Errorf("Open() = %v, want %v", got, want)
	}
	if len(s.events) != 1 {
		t.Errorf("store holds %d events, want 1", len(s.events))
	}
}

func TestPlanner_OpenDefaultsToToday(t *testing.T) {
	p := NewPlanner(newMemStore())
	got, err := p.Open(OpenRequest{Ticker: "AAPL", Qty: D("1"), Price: D("150"), Stop: D("140")})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got.Date != date.Today() {
		t.Errorf("Open() date = %v, want today", got.Date)
	}
}

func TestPlanner_OpenValidation(t *testing.T) {
	testCases := []struct {
		name string
		req  OpenRequest
	}{
		{"missing ticker", OpenRequest{Qty: D("1"), Price: D("1")}},
		{"zero quantity", OpenRequest{Ticker: "TSLA", Qty: D("0"), Price: D("1")}},
		{"negative quantity", OpenRequest{Ticker: "TSLA", Qty: D("-5"), Price: D("1")}},
		{"negative price", OpenRequest{Ticker: "TSLA", Qty: D("1"), Price: D("-5")}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newMemStore()
			_, err := NewPlanner(s).Open(tc.req)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Open() error = %v, want ErrValidation", err)
			}
			if len(s.events) != 0 {
				t.Errorf("store holds %d events, want none", len(s.events))
			}
		})
	}
}

func TestPlanner_Trim(t *testing.T) {
	s := tslaStore()
	p := NewPlanner(s)

	got, err := p.Trim(TrimRequest{Date: on("2024-01-03"), Ticker: "tsla", LotID: 1, Qty: D("20"), Price: D("230"), Note: "take profit"})
	if err != nil {
		t.Fatalf("Trim() error = %v", err)
	}
	want := ev(3, "2024-01-03", "TSLA", "-20", "230", "0", "trim id=1 take profit")
	if !got.Equal(want) {
		t.Errorf("Trim() = %v, want %v", got, want)
	}

	state, err := p.State()
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	lot, _ := state.Lot("TSLA", 1)
	if !lot.Qty.Equal(D("50")) {
		t.Errorf("lot 1 qty = %s, want 50", lot.Qty)
	}
	// 30*20 + 20*30
	if got := state.Realized("TSLA"); !got.Equal(D("1200")) {
		t.Errorf("Realized(TSLA) = %s, want 1200", got)
	}
}

func TestPlanner_TrimRejections(t *testing.T) {
	testCases := []struct {
		name    string
		req     TrimRequest
		wantErr error
	}{
		{
			name:    "more than the lot holds",
			req:     TrimRequest{Ticker: "TSLA", LotID: 1, Qty: D("200"), Price: D("230")},
			wantErr: ErrInsufficientQuantity,
		},
		{
			name:    "unknown lot",
			req:     TrimRequest{Ticker: "TSLA", LotID: 9, Qty: D("1"), Price: D("230")},
			wantErr: ErrNotFound,
		},
		{
			name:    "lot of another ticker",
			req:     TrimRequest{Ticker: "AAPL", LotID: 1, Qty: D("1"), Price: D("230")},
			wantErr: ErrNotFound,
		},
		{
			name:    "zero quantity",
			req:     TrimRequest{Ticker: "TSLA", LotID: 1, Qty: D("0"), Price: D("230")},
			wantErr: ErrValidation,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := tslaStore()
			_, err := NewPlanner(s).Trim(tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Trim() error = %v, want %v", err, tc.wantErr)
			}
			if len(s.events) != 2 {
				t.Errorf("ledger holds %d events, want it unchanged with 2", len(s.events))
			}
		})
	}
}

func TestPlanner_InsufficientQuantityIsValidation(t *testing.T) {
	_, err := NewPlanner(tslaStore()).Trim(TrimRequest{Ticker: "TSLA", LotID: 1, Qty: D("70.0001"), Price: D("1")})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Trim() error = %v, want it to match ErrValidation", err)
	}
	var lerr *LotError
	if !errors.As(err, &lerr) || lerr.LotID != 1 || lerr.Ticker != "TSLA" {
		t.Errorf("Trim() error = %#v, want a *LotError on TSLA lot 1", err)
	}
}

func TestPlanner_Close(t *testing.T) {
	s := tslaStore()
	p := NewPlanner(s)

	got, err := p.Close(CloseRequest{Date: on("2024-01-04"), Ticker: "TSLA", LotID: 1, Price: D("240")})
	if err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	want := ev(3, "2024-01-04", "TSLA", "-70", "240", "0", "close id=1")
	if !got.Equal(want) {
		t.Errorf("Close() = %v, want %v", got, want)
	}

	state, _ := p.State()
	if _, ok := state.Lot("TSLA", 1); ok {
		t.Errorf("lot 1 should be closed")
	}
	// 600 + 70*40
	if got := state.Realized("TSLA"); !got.Equal(D("3400")) {
		t.Errorf("Realized(TSLA) = %s, want 3400", got)
	}

	// Closing again is the same as closing a lot that does not exist.
	_, err = p.Close(CloseRequest{Ticker: "TSLA", LotID: 1, Price: D("240")})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("second Close() error = %v, want ErrNotFound", err)
	}
	if len(s.events) != 3 {
		t.Errorf("ledger holds %d events, want 3", len(s.events))
	}
}

func TestPlanner_MoveStop(t *testing.T) {
	s := tslaStore()
	p := NewPlanner(s)

	got, err := p.MoveStop(StopRequest{Date: on("2024-01-05"), Ticker: "TSLA", LotID: 1, Stop: D("210")})
	if err != nil {
		t.Fatalf("MoveStop() error = %v", err)
	}
	want := ev(3, "2024-01-05", "TSLA", "0", "0", "210", "stop id=1")
	if !got.Equal(want) {
		t.Errorf("MoveStop() = %v, want %v", got, want)
	}
	state, _ := p.State()
	lot, _ := state.Lot("TSLA", 1)
	if !lot.Risk().Equal(D("-700")) {
		t.Errorf("Risk() = %s, want -700", lot.Risk())
	}

	_, err = p.MoveStop(StopRequest{Ticker: "TSLA", LotID: 2, Stop: D("1")})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("MoveStop() on a reduction id error = %v, want ErrNotFound", err)
	}
}

func TestPlanner_Split(t *testing.T) {
	s := tslaStore()
	p := NewPlanner(s)

	parts, err := ParseSplitParts("30:190 40:185")
	if err != nil {
		t.Fatalf("ParseSplitParts() error = %v", err)
	}
	got, err := p.Split(SplitRequest{Date: on("2024-01-06"), Ticker: "TSLA", LotID: 1, Parts: parts})
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	want := []Event{
		ev(3, "2024-01-06", "TSLA", "-40", "200", "0", "split from id=1 part 1/2"),
		ev(4, "2024-01-06", "TSLA", "0", "0", "190", "split from id=1 part 1/2"),
		ev(5, "2024-01-06", "TSLA", "40", "200", "185", "split from id=1 part 2/2"),
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(Event.Equal)); diff != "" {
		t.Errorf("Split() mismatch (-want +got):\n%s", diff)
	}

	state, err := p.State()
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	wantLots := []Lot{
		{ID: 1, Ticker: "TSLA", Qty: D("30"), Price: D("200"), Stop: D("190")},
		{ID: 5, Ticker: "TSLA", Qty: D("40"), Price: D("200"), Stop: D("185")},
	}
	if diff := cmp.Diff(wantLots, state.Lots("TSLA"), decimalEqual); diff != "" {
		t.Errorf("Lots(TSLA) mismatch (-want +got):\n%s", diff)
	}
	if got := state.Summary("TSLA").Shares; !got.Equal(D("70")) {
		t.Errorf("shares = %s, want 70", got)
	}
	// a split books no profit or loss.
	if got := state.Realized("TSLA"); !got.Equal(D("600")) {
		t.Errorf("Realized(TSLA) = %s, want 600", got)
	}
}

func TestPlanner_SplitInThree(t *testing.T) {
	s := tslaStore()
	p := NewPlanner(s)

	parts, _ := ParseSplitParts("10:195,", "25:190", "35:170")
	got, err := p.Split(SplitRequest{Date: on("2024-01-06"), Ticker: "TSLA", LotID: 1, Parts: parts, Note: "scale out"})
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("Split() appended %d events, want 4", len(got))
	}
	if got[3].Note != "split from id=1 part 3/3 scale out" {
		t.Errorf("last note = %q", got[3].Note)
	}

	state, _ := p.State()
	total := D("0")
	for _, lot := range state.Lots("TSLA") {
		if !lot.Price.Equal(D("200")) {
			t.Errorf("lot %d entry = %s, want the original 200", lot.ID, lot.Price)
		}
		total = total.Add(lot.Qty)
	}
	if !total.Equal(D("70")) {
		t.Errorf("split lots total %s, want 70", total)
	}
	if n := len(state.Lots("TSLA")); n != 3 {
		t.Errorf("%d lots after split, want 3", n)
	}
}

func TestPlanner_SplitRejections(t *testing.T) {
	testCases := []struct {
		name    string
		lotID   uint64
		parts   []SplitPart
		wantErr error
	}{
		{
			name:    "unknown lot",
			lotID:   7,
			parts:   []SplitPart{{D("30"), D("190")}, {D("40"), D("185")}},
			wantErr: ErrNotFound,
		},
		{
			name:    "under allocation",
			lotID:   1,
			parts:   []SplitPart{{D("30"), D("190")}, {D("30"), D("185")}},
			wantErr: ErrSplitMismatch,
		},
		{
			name:    "over allocation",
			lotID:   1,
			parts:   []SplitPart{{D("30"), D("190")}, {D("50"), D("185")}},
			wantErr: ErrSplitMismatch,
		},
		{
			name:    "duplicate stops",
			lotID:   1,
			parts:   []SplitPart{{D("30"), D("190")}, {D("40"), D("190.0")}},
			wantErr: ErrDuplicateStop,
		},
		{
			name:    "single part",
			lotID:   1,
			parts:   []SplitPart{{D("70"), D("190")}},
			wantErr: ErrValidation,
		},
		{
			name:    "zero quantity part",
			lotID:   1,
			parts:   []SplitPart{{D("70"), D("190")}, {D("0"), D("185")}},
			wantErr: ErrBadSplitPart,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := tslaStore()
			_, err := NewPlanner(s).Split(SplitRequest{Ticker: "TSLA", LotID: tc.lotID, Parts: tc.parts})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Split() error = %v, want %v", err, tc.wantErr)
			}
			if len(s.events) != 2 {
				t.Errorf("ledger holds %d events, want it unchanged with 2", len(s.events))
			}
		})
	}
}

func TestPlanner_SplitStoreFailure(t *testing.T) {
	s := tslaStore()
	s.failIn = 1
	parts, _ := ParseSplitParts("30:190 40:185")

	got, err := NewPlanner(s).Split(SplitRequest{Ticker: "TSLA", LotID: 1, Parts: parts})
	if !errors.Is(err, ErrStore) {
		t.Fatalf("Split() error = %v, want ErrStore", err)
	}
	// No rollback: what was appended stays.
	if len(got) != 1 || len(s.events) != 3 {
		t.Errorf("Split() returned %d events, store holds %d, want 1 and 3", len(got), len(s.events))
	}
}

func TestParseSplitParts(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		want    []SplitPart
		wantErr string
	}{
		{
			name: "space separated",
			args: []string{"30:190 40:185"},
			want: []SplitPart{{D("30"), D("190")}, {D("40"), D("185")}},
		},
		{
			name: "several arguments and commas",
			args: []string{"30:190,", "40.5:185.25"},
			want: []SplitPart{{D("30"), D("190")}, {D("40.5"), D("185.25")}},
		},
		{
			name:    "missing colon",
			args:    []string{"30:190 40"},
			wantErr: `"40"`,
		},
		{
			name:    "bad stop",
			args:    []string{"30:abc"},
			wantErr: `"30:abc"`,
		},
		{
			name:    "nothing",
			args:    []string{" "},
			wantErr: "no parts",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSplitParts(tc.args...)
			if tc.wantErr != "" {
				if !errors.Is(err, ErrBadSplitPart) {
					t.Fatalf("ParseSplitParts() error = %v, want ErrBadSplitPart", err)
				}
				if !strings.Contains(err.Error(), tc.wantErr) {
					t.Errorf("ParseSplitParts() error = %q, want it to name %s", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSplitParts() error = %v", err)
			}
			if diff := cmp.Diff(tc.want, got, decimalEqual); diff != "" {
				t.Errorf("ParseSplitParts() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
