package finance

import (
	"fmt"
	"time"
)

// sequentialIDs returns a generator of predictable ids: prefix-1, prefix-2...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// tickingClock returns a clock starting at start and moving one minute at each
// call, so that every transaction gets a distinct date.
func tickingClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(time.Minute)
		return t
	}
}

var t0 = time.Date(2025, time.September, 8, 9, 0, 0, 0, time.UTC)

// newTestLedger returns an empty ledger with predictable goal ids.
func newTestLedger() *Ledger {
	l := NewLedger()
	l.ids = sequentialIDs("goal")
	return l
}

// descriptions lists transaction descriptions, in order.
func descriptions(txs []Transaction) []string {
	var out []string
	for _, tx := range txs {
		out = append(out, tx.Description)
	}
	return out
}
