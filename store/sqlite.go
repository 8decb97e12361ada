package store

import (
	"database/sql"
	"fmt"

	"github.com/etnz/tradingbook"
	"github.com/shopspring/decimal"

	_ "github.com/mattn/go-sqlite3"
)

// schema stores decimals as TEXT so that no digit is lost to floating point.
const schema = `
CREATE TABLE IF NOT EXISTS events (
	id     INTEGER PRIMARY KEY,
	date   TEXT NOT NULL,
	ticker TEXT NOT NULL,
	qty    TEXT NOT NULL,
	price  TEXT NOT NULL,
	stop   TEXT NOT NULL,
	note   TEXT NOT NULL DEFAULT ''
);`

// SQLite stores the ledger in a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates the database at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, storeError("open", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, storeError("open", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) LoadAll() ([]tradingbook.Event, error) {
	rows, err := s.db.Query(`SELECT id, date, ticker, qty, price, stop, note FROM events ORDER BY id`)
	if err != nil {
		return nil, storeError("load", err)
	}
	defer rows.Close()

	var events []tradingbook.Event
	for rows.Next() {
		var id uint64
		var day, ticker, qty, price, stop, note string
		if err := rows.Scan(&id, &day, &ticker, &qty, &price, &stop, &note); err != nil {
			return nil, storeError("load", err)
		}
		e, err := scanEvent(id, day, ticker, qty, price, stop, note)
		if err != nil {
			return nil, storeError("load", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("load", err)
	}
	return events, nil
}

func scanEvent(id uint64, day, ticker, qty, price, stop, note string) (tradingbook.Event, error) {
	on, raw := tradingbook.DecodeDate(day)
	var values [3]decimal.Decimal
	for i, v := range []string{qty, price, stop} {
		var err error
		if values[i], err = decimal.NewFromString(v); err != nil {
			return tradingbook.Event{}, fmt.Errorf("event %d: invalid %s %q: %w", id, tradingbook.Header[3+i], v, err)
		}
	}
	e := tradingbook.NewEvent(on, ticker, values[0], values[1], values[2], note).WithID(id)
	e.RawDate = raw
	return e, nil
}

// Append assigns the next id to e and inserts it in a single transaction.
func (s *SQLite) Append(e tradingbook.Event) (tradingbook.Event, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return tradingbook.Event{}, storeError("append", err)
	}
	defer tx.Rollback()

	var last uint64
	if err := tx.QueryRow(`SELECT COALESCE(MAX(id), 0) FROM events`).Scan(&last); err != nil {
		return tradingbook.Event{}, storeError("append", err)
	}
	e = e.WithID(last + 1)
	_, err = tx.Exec(`
		INSERT INTO events (id, date, ticker, qty, price, stop, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.DateText(), e.Ticker, e.Qty.String(), e.Price.String(), e.Stop.String(), e.Note,
	)
	if err != nil {
		return tradingbook.Event{}, storeError("append", err)
	}
	if err := tx.Commit(); err != nil {
		return tradingbook.Event{}, storeError("append", err)
	}
	return e, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
