package tradingbook

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below wrap them so callers can use errors.Is.
var (
	// ErrMalformedReference reports a reduction whose note has no usable id=<lot> token.
	ErrMalformedReference = errors.New("malformed lot reference")
	// ErrNotFound reports a request on a lot that is not currently open.
	ErrNotFound = errors.New("lot not found")
	// ErrValidation reports a request rejected before anything was appended.
	ErrValidation = errors.New("invalid request")
	// ErrStore reports a failure of the underlying event store.
	ErrStore = errors.New("store failure")

	ErrInsufficientQuantity = fmt.Errorf("%w: insufficient quantity", ErrValidation)
	ErrBadSplitPart         = fmt.Errorf("%w: bad split part", ErrValidation)
	ErrSplitMismatch        = fmt.Errorf("%w: split quantities do not match the lot", ErrValidation)
	ErrDuplicateStop        = fmt.Errorf("%w: duplicate stop in split", ErrValidation)
)

// MalformedReferenceError is returned by Replay when a reduction event cannot
// be attached to a lot.
type MalformedReferenceError struct {
	EventID uint64
	Note    string
}

func (e *MalformedReferenceError) Error() string {
	return fmt.Sprintf("event %d: no id=<lot> reference in note %q", e.EventID, e.Note)
}

func (e *MalformedReferenceError) Unwrap() error { return ErrMalformedReference }

// LotError identifies the lot a planning request failed on.
type LotError struct {
	Ticker string
	LotID  uint64
	Err    error
}

func (e *LotError) Error() string {
	return fmt.Sprintf("%s lot %d: %v", e.Ticker, e.LotID, e.Err)
}

func (e *LotError) Unwrap() error { return e.Err }

// StoreError wraps an I/O failure of an event store.
type StoreError struct {
	Op  string // load, append, open
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }

// Unwrap exposes both ErrStore and the underlying cause.
func (e *StoreError) Unwrap() []error { return []error{ErrStore, e.Err} }
