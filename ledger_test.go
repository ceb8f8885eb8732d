package finance

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLedger_Aggregates(t *testing.T) {
	type entry struct {
		typ    TxType
		amount float64
	}
	testCases := []struct {
		name    string
		entries []entry
		want    Aggregates
	}{
		{
			name: "empty ledger",
			want: Aggregates{},
		},
		{
			name:    "income only",
			entries: []entry{{Income, 1000}, {Income, 250.5}},
			want:    Aggregates{Income: A(1250.5), Balance: A(1250.5)},
		},
		{
			name:    "negative balance",
			entries: []entry{{Income, 100}, {Expense, 30}, {Expense, 120}},
			want:    Aggregates{Income: A(100), Expenses: A(150), Balance: A(-50)},
		},
		{
			name:    "exact decimals",
			entries: []entry{{Income, 0.1}, {Income, 0.2}, {Expense, 0.3}},
			want:    Aggregates{Income: A(0.3), Expenses: A(0.3), Balance: A(0)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// the order of the calls must not matter.
			for _, entries := range [][]entry{tc.entries, reversed(tc.entries)} {
				l := newTestLedger()
				for _, e := range entries {
					if _, err := l.RecordTransaction("ann", e.typ, "", A(e.amount), "", t0); err != nil {
						t.Fatalf("RecordTransaction() error = %v", err)
					}
				}
				// noise from another user.
				l.RecordTransaction("bob", Income, "", A(999), "", t0)

				if diff := cmp.Diff(tc.want, l.Aggregates("ann")); diff != "" {
					t.Errorf("Aggregates() mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func reversed[T any](s []T) []T {
	r := slices.Clone(s)
	slices.Reverse(r)
	return r
}

func TestLedger_RecordTransaction(t *testing.T) {
	l := newTestLedger()
	clock := tickingClock(t0)

	first, err := l.RecordTransaction("ann", Income, "salary", A(1000), "work", clock())
	if err != nil {
		t.Fatalf("RecordTransaction() error = %v", err)
	}
	want := Transaction{UserID: "ann", Type: Income, Description: "salary", Amount: A(1000), Category: "work", Date: t0}
	if diff := cmp.Diff(want, first); diff != "" {
		t.Errorf("RecordTransaction() mismatch (-want +got):\n%s", diff)
	}

	l.RecordTransaction("ann", Expense, "rent", A(700), "home", clock())
	got := descriptions(slices.Collect(l.Transactions("ann", All)))
	if diff := cmp.Diff([]string{"rent", "salary"}, got); diff != "" {
		t.Errorf("transactions are not most recent first (-want +got):\n%s", diff)
	}

	// amounts are not validated at this level.
	if _, err := l.RecordTransaction("ann", Expense, "refund", A(-5), "", clock()); err != nil {
		t.Errorf("RecordTransaction() with a negative amount error = %v, want nil", err)
	}
	if _, err := l.RecordTransaction("ann", Expense, "free", A(0), "", clock()); err != nil {
		t.Errorf("RecordTransaction() with a zero amount error = %v, want nil", err)
	}

	if _, err := l.RecordTransaction("ann", TxType("transfer"), "", A(1), "", clock()); !errors.Is(err, ErrInvalidType) {
		t.Errorf("RecordTransaction() with an unknown type error = %v, want %v", err, ErrInvalidType)
	}
	if n := len(slices.Collect(l.All())); n != 4 {
		t.Errorf("ledger has %d transactions, want 4", n)
	}
}

func TestLedger_Transactions(t *testing.T) {
	l := newTestLedger()
	clock := tickingClock(t0)
	l.RecordTransaction("ann", Income, "a1", A(1), "", clock())
	l.RecordTransaction("bob", Income, "b1", A(1), "", clock())
	l.RecordTransaction("ann", Expense, "a2", A(1), "food", clock())
	l.RecordTransaction("bob", Expense, "b2", A(1), "", clock())
	l.RecordTransaction("ann", Expense, "a3", A(1), "", clock())

	testCases := []struct {
		name   string
		filter Filter
		preds  []func(Transaction) bool
		want   []string
	}{
		{name: "all", filter: All, want: []string{"a3", "a2", "a1"}},
		{name: "empty filter", filter: "", want: []string{"a3", "a2", "a1"}},
		{name: "income", filter: IncomeOnly, want: []string{"a1"}},
		{name: "expense", filter: ExpensesOnly, want: []string{"a3", "a2"}},
		{name: "expense by category", filter: ExpensesOnly, preds: []func(Transaction) bool{ByCategory("food")}, want: []string{"a2"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := descriptions(slices.Collect(l.Transactions("ann", tc.filter, tc.preds...)))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Transactions() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("restartable", func(t *testing.T) {
		seq := l.Transactions("ann", All)
		first := slices.Collect(seq)
		second := slices.Collect(seq)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("second iteration differs (-first +second):\n%s", diff)
		}
	})

	t.Run("early stop", func(t *testing.T) {
		n := 0
		for range l.Transactions("ann", All) {
			n++
			break
		}
		if n != 1 {
			t.Errorf("iterated %d times, want 1", n)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if got := slices.Collect(l.Transactions("carol", All)); len(got) != 0 {
			t.Errorf("Transactions(carol) = %v, want none", got)
		}
	})
}

func TestLedger_CreateGoal(t *testing.T) {
	testCases := []struct {
		name    string
		goal    string
		amount  Amount
		wantErr error
	}{
		{name: "valid", goal: "Car", amount: A(5000)},
		{name: "empty name", goal: "", amount: A(5000), wantErr: ErrInvalidAmount},
		{name: "blank name", goal: "  ", amount: A(5000), wantErr: ErrInvalidAmount},
		{name: "zero target", goal: "Car", amount: A(0), wantErr: ErrInvalidAmount},
		{name: "negative target", goal: "Car", amount: A(-1), wantErr: ErrInvalidAmount},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := newTestLedger()
			g, err := l.CreateGoal("ann", tc.goal, tc.amount)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("CreateGoal() error = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr != nil {
				if n := len(slices.Collect(l.AllGoals())); n != 0 {
					t.Errorf("a failed CreateGoal() added %d goals", n)
				}
				return
			}
			want := Goal{ID: "goal-1", UserID: "ann", Name: tc.goal, Amount: tc.amount}
			if diff := cmp.Diff(want, g); diff != "" {
				t.Errorf("CreateGoal() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLedger_Contribute(t *testing.T) {
	newLedger := func() *Ledger {
		l := newTestLedger()
		l.CreateGoal("ann", "Car", A(5000))  // goal-1
		l.CreateGoal("bob", "Boat", A(9000)) // goal-2
		l.CreateGoal("ann", "Trip", A(800))  // goal-3
		return l
	}

	t.Run("success", func(t *testing.T) {
		l := newLedger()
		g, tx, err := l.Contribute("ann", "goal-3", A(300), t0)
		if err != nil {
			t.Fatalf("Contribute() error = %v", err)
		}
		if !g.Saved.Equal(A(300)) {
			t.Errorf("saved = %v, want 300", g.Saved)
		}
		wantTx := Transaction{UserID: "ann", Type: Expense, Description: "Contribution to Trip", Amount: A(300), Category: SavingsCategory, Date: t0}
		if diff := cmp.Diff(wantTx, tx); diff != "" {
			t.Errorf("Contribute() transaction mismatch (-want +got):\n%s", diff)
		}
		stored, _ := l.Goal("ann", "goal-3")
		if !stored.Saved.Equal(A(300)) {
			t.Errorf("stored saved = %v, want 300", stored.Saved)
		}
		if diff := cmp.Diff([]Transaction{wantTx}, slices.Collect(l.All())); diff != "" {
			t.Errorf("ledger transactions mismatch (-want +got):\n%s", diff)
		}

		// contributions accumulate past the target.
		g, _, _ = l.Contribute("ann", "goal-3", A(600), t0)
		if !g.Saved.Equal(A(900)) {
			t.Errorf("saved = %v, want 900", g.Saved)
		}
		if got := g.Progress().StringFixed(1); got != "112.5" {
			t.Errorf("Progress() = %s, want 112.5", got)
		}
		if !g.Remaining().IsZero() {
			t.Errorf("Remaining() = %v, want 0", g.Remaining())
		}
	})

	failures := []struct {
		name    string
		user    string
		goal    string
		amount  Amount
		wantErr error
	}{
		{"unknown goal", "ann", "goal-42", A(10), ErrGoalNotFound},
		{"other user's goal", "ann", "goal-2", A(10), ErrGoalNotFound},
		{"zero amount", "ann", "goal-1", A(0), ErrInvalidAmount},
		{"negative amount", "ann", "goal-1", A(-10), ErrInvalidAmount},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			l := newLedger()
			before := slices.Collect(l.AllGoals())
			_, _, err := l.Contribute(tc.user, tc.goal, tc.amount, t0)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Contribute() error = %v, want %v", err, tc.wantErr)
			}
			if diff := cmp.Diff(before, slices.Collect(l.AllGoals())); diff != "" {
				t.Errorf("a failed Contribute() changed goals (-before +after):\n%s", diff)
			}
			if n := len(slices.Collect(l.All())); n != 0 {
				t.Errorf("a failed Contribute() recorded %d transactions", n)
			}
		})
	}
}

func TestLedger_ContributeAt(t *testing.T) {
	l := newTestLedger()
	l.CreateGoal("bob", "Boat", A(9000)) // goal-1
	l.CreateGoal("ann", "Car", A(5000))  // goal-2
	l.CreateGoal("bob", "Bike", A(300))  // goal-3
	l.CreateGoal("ann", "Trip", A(800))  // goal-4

	// index 1 of ann is her second goal, not the second stored goal.
	g, _, err := l.ContributeAt("ann", 1, A(50), t0)
	if err != nil {
		t.Fatalf("ContributeAt() error = %v", err)
	}
	if g.ID != "goal-4" {
		t.Errorf("ContributeAt(ann, 1) contributed to %s, want goal-4", g.ID)
	}

	for _, index := range []int{-1, 2} {
		if _, _, err := l.ContributeAt("ann", index, A(50), t0); !errors.Is(err, ErrGoalNotFound) {
			t.Errorf("ContributeAt(ann, %d) error = %v, want %v", index, err, ErrGoalNotFound)
		}
	}
}

// TestScenario follows a user from registration to a first goal contribution.
func TestScenario(t *testing.T) {
	id := NewIdentity()
	id.ids = sequentialIDs("user")
	ann, err := id.Register("Ann", "ann@x.com", "pw", PlainCredentials{})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	l := newTestLedger()
	clock := tickingClock(t0)
	l.RecordTransaction(ann.ID, Income, "Salary", A(1000), "work", clock())
	l.RecordTransaction(ann.ID, Expense, "Groceries", A(200), "food", clock())

	want := Aggregates{Income: A(1000), Expenses: A(200), Balance: A(800)}
	if diff := cmp.Diff(want, l.Aggregates(ann.ID)); diff != "" {
		t.Errorf("Aggregates() mismatch (-want +got):\n%s", diff)
	}

	car, err := l.CreateGoal(ann.ID, "Car", A(5000))
	if err != nil {
		t.Fatalf("CreateGoal() error = %v", err)
	}
	if _, _, err := l.Contribute(ann.ID, car.ID, A(300), clock()); err != nil {
		t.Fatalf("Contribute() error = %v", err)
	}
	car, _ = l.Goal(ann.ID, car.ID)
	if !car.Saved.Equal(A(300)) {
		t.Errorf("goal saved = %v, want 300", car.Saved)
	}

	expenses := slices.Collect(l.Transactions(ann.ID, ExpensesOnly))
	if len(expenses) != 2 {
		t.Fatalf("got %d expenses, want 2", len(expenses))
	}
	if first := expenses[0]; first.Description != "Contribution to Car" || !first.Amount.Equal(A(300)) {
		t.Errorf("newest expense = %q %v, want %q 300", first.Description, first.Amount, "Contribution to Car")
	}
	if got := l.Aggregates(ann.ID).Balance; !got.Equal(A(500)) {
		t.Errorf("balance after contribution = %v, want 500", got)
	}
}

func TestLedger_InsertTransaction(t *testing.T) {
	l := newTestLedger()
	for i, d := range []string{"b", "d"} {
		if _, err := l.RecordTransaction("ann", Income, d, A(1), "", t0.AddDate(0, 0, 2*i+1)); err != nil {
			t.Fatal(err)
		}
	}
	inserts := []struct {
		description string
		days        int
	}{
		{"a", 0}, // older than everything
		{"c", 2}, // between b and d
		{"e", 9}, // newer than everything
		{"c2", 2},
	}
	for _, in := range inserts {
		if _, err := l.InsertTransaction("ann", Expense, in.description, A(1), "", t0.AddDate(0, 0, in.days)); err != nil {
			t.Fatal(err)
		}
	}
	got := descriptions(slices.Collect(l.Transactions("ann", All)))
	if diff := cmp.Diff([]string{"e", "d", "c2", "c", "b", "a"}, got); diff != "" {
		t.Errorf("transactions mismatch (-want +got):\n%s", diff)
	}

	if _, err := l.InsertTransaction("ann", "gift", "x", A(1), "", t0); !errors.Is(err, ErrInvalidType) {
		t.Errorf("InsertTransaction() error = %v, want %v", err, ErrInvalidType)
	}
}
