package store

import (
	"slices"

	"github.com/etnz/tradingbook"
)

// Memory is a slice backed store. Nothing survives the process.
type Memory struct {
	events []tradingbook.Event
}

// NewMemory returns an empty Memory store.
func NewMemory(events ...tradingbook.Event) *Memory {
	m := new(Memory)
	for _, e := range events {
		m.Append(e)
	}
	return m
}

func (m *Memory) LoadAll() ([]tradingbook.Event, error) {
	return slices.Clone(m.events), nil
}

func (m *Memory) Append(e tradingbook.Event) (tradingbook.Event, error) {
	e = e.WithID(tradingbook.NextID(m.events))
	m.events = append(m.events, e)
	return e, nil
}

func (m *Memory) Close() error { return nil }
