package renderer

import "github.com/etnz/finance"

// TransactionList is a titled list of transactions, most recent first.
type TransactionList struct {
	Title        string
	Currency     string
	Transactions []finance.Transaction
}

// RenderTransactions renders the list as a markdown table.
func RenderTransactions(l *TransactionList) string {
	partials := map[string]string{
		"transactions_table": "transactions_table.md",
	}
	return renderTemplate("transactions", "transactions.md", partials, l.Currency, l)
}
