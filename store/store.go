// Package store holds the event stores a ledger can live in.
//
// Every store hands out ids itself: Append ignores the id of the event it is
// given and returns the event as persisted.
package store

import (
	"fmt"
	"io"

	"github.com/etnz/tradingbook"
)

// Backend names.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config selects and locates a store. An empty Backend means BackendCSV.
type Config struct {
	Backend string
	Path    string
}

// Store is a tradingbook.Store that holds resources until closed.
type Store interface {
	tradingbook.Store
	io.Closer
}

// Open returns the store described by cfg. An empty backend means csv.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendCSV:
		return NewCSV(cfg.Path)
	case BackendSQLite:
		return NewSQLite(cfg.Path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, &tradingbook.StoreError{Op: "open", Err: fmt.Errorf("unknown backend %q, want one of csv, sqlite, memory", cfg.Backend)}
	}
}

func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &tradingbook.StoreError{Op: op, Err: err}
}
