// Package finance is the state engine of a local-first personal finance
// tracker.
//
// It records income and expense transactions and savings goals for the users
// of a single session, and derives their totals:
//   - Identity: registered users and the user currently logged in.
//   - Ledger: transactions, most recent first, and goals. Every read is scoped
//     to one user. Contributing to a goal increases its saved amount and
//     records the matching savings expense as one change.
//   - Snapshot: the whole state, encoded as a single JSON document.
//   - Store: where snapshots are kept (memory, a folder, or the sqlstore
//     package).
//   - Session: loads a snapshot, applies each operation to a copy of it,
//     saves the copy and only then makes it current.
//
// This package serves as the foundational logic for the `fin` command-line
// tool.
package finance
