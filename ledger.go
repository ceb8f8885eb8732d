package finance

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ledger owns the transactions and the goals of all users.
//
// Transactions are kept most recent first; goals in creation order. Every
// accessor is scoped to one user: a user never sees another user's records.
type Ledger struct {
	transactions []Transaction
	goals        []Goal
	ids          func() string
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		transactions: make([]Transaction, 0),
		goals:        make([]Goal, 0),
		ids:          uuid.NewString,
	}
}

// Aggregates are the totals of a user's transactions.
type Aggregates struct {
	Income   Amount
	Expenses Amount
	Balance  Amount // Income - Expenses
}

// RecordTransaction prepends a new transaction created at on.
//
// Only the type is validated: amounts are recorded as given, including zero
// and negative values. Callers converting user input go through ParseAmount.
func (l *Ledger) RecordTransaction(userID string, typ TxType, description string, amount Amount, category string, on time.Time) (Transaction, error) {
	if !typ.Valid() {
		return Transaction{}, fmt.Errorf("%w: %q", ErrInvalidType, typ)
	}
	tx := Transaction{
		UserID:      userID,
		Type:        typ,
		Description: description,
		Amount:      amount,
		Category:    category,
		Date:        on,
	}
	l.prepend(tx)
	return tx, nil
}

// InsertTransaction records a transaction dated on, which may be in the past,
// keeping the ledger most recent first: it goes below every transaction dated
// after it, and above the others.
func (l *Ledger) InsertTransaction(userID string, typ TxType, description string, amount Amount, category string, on time.Time) (Transaction, error) {
	if !typ.Valid() {
		return Transaction{}, fmt.Errorf("%w: %q", ErrInvalidType, typ)
	}
	tx := Transaction{
		UserID:      userID,
		Type:        typ,
		Description: description,
		Amount:      amount,
		Category:    category,
		Date:        on,
	}
	i := slices.IndexFunc(l.transactions, func(x Transaction) bool { return !x.Date.After(on) })
	if i < 0 {
		i = len(l.transactions)
	}
	l.transactions = slices.Insert(l.transactions, i, tx)
	return tx, nil
}

func (l *Ledger) prepend(txs ...Transaction) {
	l.transactions = slices.Concat(txs, l.transactions)
}

// Transactions returns an iterator over the user's transactions, most recent
// first, keeping only those accepted by filter and by every predicate.
func (l *Ledger) Transactions(userID string, filter Filter, preds ...func(Transaction) bool) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
	next:
		for _, tx := range l.transactions {
			if tx.UserID != userID || !filter.Accept(tx) {
				continue
			}
			for _, pred := range preds {
				if !pred(tx) {
					continue next
				}
			}
			if !yield(tx) {
				return
			}
		}
	}
}

// All returns an iterator over every transaction of every user.
func (l *Ledger) All() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range l.transactions {
			if !yield(tx) {
				return
			}
		}
	}
}

// Aggregates computes income, expenses and balance of the user's transactions
// accepted by every predicate.
func (l *Ledger) Aggregates(userID string, preds ...func(Transaction) bool) Aggregates {
	var agg Aggregates
	for tx := range l.Transactions(userID, All, preds...) {
		switch tx.Type {
		case Income:
			agg.Income = agg.Income.Add(tx.Amount)
		case Expense:
			agg.Expenses = agg.Expenses.Add(tx.Amount)
		}
	}
	agg.Balance = agg.Income.Sub(agg.Expenses)
	return agg
}

// CreateGoal appends a new goal with nothing saved yet.
func (l *Ledger) CreateGoal(userID, name string, amount Amount) (Goal, error) {
	if strings.TrimSpace(name) == "" {
		return Goal{}, fmt.Errorf("%w: goal name is empty", ErrInvalidAmount)
	}
	if !amount.IsPositive() {
		return Goal{}, fmt.Errorf("%w: goal target must be greater than zero, got %s", ErrInvalidAmount, amount)
	}
	g := Goal{
		ID:     l.ids(),
		UserID: userID,
		Name:   name,
		Amount: amount,
	}
	l.goals = append(l.goals, g)
	return g, nil
}

// Goals returns an iterator over the user's goals in creation order.
func (l *Ledger) Goals(userID string) iter.Seq[Goal] {
	return func(yield func(Goal) bool) {
		for _, g := range l.goals {
			if g.UserID != userID {
				continue
			}
			if !yield(g) {
				return
			}
		}
	}
}

// AllGoals returns an iterator over every goal of every user.
func (l *Ledger) AllGoals() iter.Seq[Goal] {
	return func(yield func(Goal) bool) {
		for _, g := range l.goals {
			if !yield(g) {
				return
			}
		}
	}
}

// Goal returns the user's goal with that ID.
func (l *Ledger) Goal(userID, goalID string) (Goal, bool) {
	i := l.goalIndex(userID, goalID)
	if i < 0 {
		return Goal{}, false
	}
	return l.goals[i], true
}

// GoalAt returns the index-th goal of the user, counting only that user's
// goals.
func (l *Ledger) GoalAt(userID string, index int) (Goal, bool) {
	if index < 0 {
		return Goal{}, false
	}
	i := 0
	for g := range l.Goals(userID) {
		if i == index {
			return g, true
		}
		i++
	}
	return Goal{}, false
}

// goalIndex returns the storage index of the goal, or -1.
func (l *Ledger) goalIndex(userID, goalID string) int {
	for i, g := range l.goals {
		if g.ID == goalID && g.UserID == userID {
			return i
		}
	}
	return -1
}

// Contribute adds amount to the saved amount of a goal and records the matching
// savings expense.
//
// Either both changes are applied or none: every check happens before the
// first mutation.
func (l *Ledger) Contribute(userID, goalID string, amount Amount, on time.Time) (Goal, Transaction, error) {
	if !amount.IsPositive() {
		return Goal{}, Transaction{}, fmt.Errorf("%w: contribution must be greater than zero, got %s", ErrInvalidAmount, amount)
	}
	i := l.goalIndex(userID, goalID)
	if i < 0 {
		return Goal{}, Transaction{}, fmt.Errorf("%w: %q", ErrGoalNotFound, goalID)
	}

	g := l.goals[i]
	g.Saved = g.Saved.Add(amount)
	tx := Transaction{
		UserID:      userID,
		Type:        Expense,
		Description: "Contribution to " + g.Name,
		Amount:      amount,
		Category:    SavingsCategory,
		Date:        on,
	}
	l.goals[i] = g
	l.prepend(tx)
	return g, tx, nil
}

// ContributeAt is like Contribute, the goal being designated by its index
// among the user's goals.
func (l *Ledger) ContributeAt(userID string, index int, amount Amount, on time.Time) (Goal, Transaction, error) {
	g, ok := l.GoalAt(userID, index)
	if !ok {
		return Goal{}, Transaction{}, fmt.Errorf("%w: no goal at index %d", ErrGoalNotFound, index)
	}
	return l.Contribute(userID, g.ID, amount, on)
}

func (l *Ledger) clone() *Ledger {
	c := *l
	c.transactions = append([]Transaction(nil), l.transactions...)
	c.goals = append([]Goal(nil), l.goals...)
	return &c
}
