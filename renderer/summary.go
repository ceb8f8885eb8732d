package renderer

import "github.com/etnz/finance"

// Summary is the balance of a user, over a period or all time.
type Summary struct {
	Period     string // e.g. "2025-09", empty for all time.
	Currency   string
	Aggregates finance.Aggregates
	Recent     []finance.Transaction // optional
}

// RenderSummary renders the totals, followed by the recent transactions if any.
func RenderSummary(s *Summary) string {
	partials := map[string]string{
		"transactions_table": "transactions_table.md",
	}
	return renderTemplate("summary", "summary.md", partials, s.Currency, s)
}
