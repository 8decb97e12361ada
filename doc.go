// Package tradingbook keeps track of equity trading positions in an
// append-only ledger of events.
//
// Nothing but events is ever stored. The current state, the open lots and the
// realized profit and loss, is rebuilt by replaying the whole ledger from the
// first event on every query:
//   - Events: immutable rows of the ledger. The sign of their quantity tells
//     whether they open a lot, reduce it or move its stop. Reductions and stop
//     moves reference the lot they target with an id=<lot> token in their note.
//   - Replay: a pure function turning events into a Portfolio.
//   - Planner: validates a user intent (open, trim, close, stop move, split)
//     against the replayed state and appends the events expressing it to a
//     Store. A split is made of ordinary reductions, stop moves and openings,
//     so replay needs no special case for it.
//   - Encoding: the CSV ledger format, "id,date,ticker,qty,price,stop,note",
//     with decimal values written as plain strings.
//
// This package serves as the foundational logic for the `tb` command-line
// tool.
package tradingbook
