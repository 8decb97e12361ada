package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/etnz/tradingbook"
)

// CSV stores the ledger in a CSV file, one row per event.
//
// The file is read in full by LoadAll and Append, and written only by
// appending complete rows.
type CSV struct {
	path string
}

// NewCSV opens the ledger at path, creating it with its header if it does not
// exist or is empty.
func NewCSV(path string) (*CSV, error) {
	if path == "" {
		return nil, storeError("open", errors.New("missing ledger path"))
	}
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return nil, storeError("open", fmt.Errorf("%s is a directory", path))
	case err == nil && info.Size() > 0:
		return &CSV{path: path}, nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return nil, storeError("open", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, storeError("open", err)
	}
	var b bytes.Buffer
	if err := tradingbook.EncodeLedger(&b, nil); err != nil {
		return nil, storeError("open", err)
	}
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		return nil, storeError("open", err)
	}
	return &CSV{path: path}, nil
}

// Path returns the ledger file name.
func (s *CSV) Path() string { return s.path }

func (s *CSV) LoadAll() ([]tradingbook.Event, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, storeError("load", err)
	}
	defer f.Close()
	events, err := tradingbook.DecodeLedger(f)
	if err != nil {
		return nil, storeError("load", fmt.Errorf("%s: %w", s.path, err))
	}
	return events, nil
}

// Append assigns the next id to e and writes it as a new row. The row is
// synced to disk before Append returns.
func (s *CSV) Append(e tradingbook.Event) (tradingbook.Event, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return tradingbook.Event{}, storeError("append", err)
	}
	events, err := tradingbook.DecodeLedger(bytes.NewReader(content))
	if err != nil {
		return tradingbook.Event{}, storeError("append", fmt.Errorf("%s: %w", s.path, err))
	}
	e = e.WithID(tradingbook.NextID(events))

	var row bytes.Buffer
	switch {
	case len(content) == 0:
		row.Write(headerRow())
	case content[len(content)-1] != '\n' && len(events) > 0:
		return tradingbook.Event{}, storeError("append", fmt.Errorf("%s: last row is not terminated", s.path))
	case content[len(content)-1] != '\n':
		// a lone header, terminate it.
		row.WriteString("\r\n")
	}
	w := tradingbook.NewWriter(&row)
	if err := w.Write(tradingbook.EncodeEvent(e)); err != nil {
		return tradingbook.Event{}, storeError("append", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return tradingbook.Event{}, storeError("append", err)
	}

	if err := appendFile(s.path, row.Bytes()); err != nil {
		return tradingbook.Event{}, storeError("append", err)
	}
	return e, nil
}

func (s *CSV) Close() error { return nil }

func headerRow() []byte {
	var b bytes.Buffer
	tradingbook.EncodeLedger(&b, nil)
	return b.Bytes()
}

func appendFile(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	n, err := f.Write(data)
	if err == nil && n < len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return err
	}
	return f.Sync()
}
