package finance

import (
	"fmt"
	"time"

	"github.com/etnz/finance/date"
	"github.com/shopspring/decimal"
)

// TxType is the kind of a transaction.
type TxType string

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TxType) Valid() bool { return t == Income || t == Expense }

// ParseType parses "income" or "expense".
func ParseType(s string) (TxType, error) {
	t := TxType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
	return t, nil
}

// Filter restricts a transaction listing by type.
type Filter string

const (
	All          Filter = "all"
	IncomeOnly   Filter = "income"
	ExpensesOnly Filter = "expense"
)

// ParseFilter parses "all", "income" or "expense". The empty string means all.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "":
		return All, nil
	case All, IncomeOnly, ExpensesOnly:
		return Filter(s), nil
	default:
		return "", fmt.Errorf("unknown filter %q, want one of all, income, expense", s)
	}
}

// Accept reports whether the filter keeps tx.
func (f Filter) Accept(tx Transaction) bool {
	switch f {
	case "", All:
		return true
	default:
		return string(tx.Type) == string(f)
	}
}

// SavingsCategory is the category of transactions created by goal contributions.
const SavingsCategory = "savings"

// Transaction is an entry of the ledger. Transactions are never modified once
// recorded.
type Transaction struct {
	UserID      string    `json:"userId"`
	Type        TxType    `json:"type"`
	Description string    `json:"description"`
	Amount      Amount    `json:"amount"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"` // creation time
}

// Signed returns the amount as a balance contribution: negative for expenses.
func (tx Transaction) Signed() Amount {
	if tx.Type == Expense {
		return tx.Amount.Neg()
	}
	return tx.Amount
}

// Day returns the day the transaction was created, in local time.
func (tx Transaction) Day() date.Date { return date.Of(tx.Date.Local()) }

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (tx Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("userId", tx.UserID)
	w.Append("type", tx.Type)
	w.Append("description", tx.Description)
	w.Append("amount", tx.Amount)
	w.Append("category", tx.Category)
	w.Append("date", tx.Date.UTC())
	return w.MarshalJSON()
}

// InRange returns a predicate that keeps transactions created within r.
func InRange(r date.Range) func(Transaction) bool {
	return func(tx Transaction) bool { return r.Contains(tx.Day()) }
}

// ByCategory returns a predicate that keeps transactions of that category.
func ByCategory(category string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Category == category }
}

// Goal is a savings target.
//
// A goal never completes: contributions keep accumulating past the target.
type Goal struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Amount Amount `json:"amount"` // target
	Saved  Amount `json:"saved"`
}

// Progress returns the saved amount as a percentage of the target, uncapped.
func (g Goal) Progress() decimal.Decimal { return g.Saved.Percent(g.Amount) }

// Remaining returns what is left to save, zero once the target is reached.
func (g Goal) Remaining() Amount {
	if g.Saved.GreaterThanOrEqual(g.Amount) {
		return Amount{}
	}
	return g.Amount.Sub(g.Saved)
}

// MarshalJSON implements the json.Marshaler interface for Goal.
func (g Goal) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", g.ID)
	w.Append("userId", g.UserID)
	w.Append("name", g.Name)
	w.Append("amount", g.Amount)
	w.Append("saved", g.Saved)
	return w.MarshalJSON()
}
