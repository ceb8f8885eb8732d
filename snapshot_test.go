package finance

import (
	"errors"
	"strings"
	"testing"
)

func TestSnapshot_Check(t *testing.T) {
	if err := newTestSnapshot(t).Check(); err != nil {
		t.Errorf("Check() of a valid snapshot error = %v", err)
	}
	if err := NewSnapshot().Check(); err != nil {
		t.Errorf("Check() of an empty snapshot error = %v", err)
	}

	testCases := []struct {
		name    string
		corrupt func(s *Snapshot)
		want    string
	}{
		{
			name:    "duplicate email",
			corrupt: func(s *Snapshot) { s.Identity.users = append(s.Identity.users, User{ID: "id-9", Email: "ann@example.com"}) },
			want:    `email "ann@example.com" is registered twice`,
		},
		{
			name:    "duplicate user id",
			corrupt: func(s *Snapshot) { s.Identity.users = append(s.Identity.users, User{ID: "id-1", Email: "carol@example.com"}) },
			want:    `user id "id-1" is used twice`,
		},
		{
			name:    "dangling current user",
			corrupt: func(s *Snapshot) { s.Identity.current = "ghost" },
			want:    `current user "ghost" does not exist`,
		},
		{
			name:    "orphan transaction",
			corrupt: func(s *Snapshot) { s.Ledger.transactions[0].UserID = "ghost" },
			want:    `belongs to unknown user "ghost"`,
		},
		{
			name:    "invalid type",
			corrupt: func(s *Snapshot) { s.Ledger.transactions[0].Type = "transfer" },
			want:    `has an invalid type "transfer"`,
		},
		{
			name:    "orphan goal",
			corrupt: func(s *Snapshot) { s.Ledger.goals[0].UserID = "ghost" },
			want:    `goal "Car" belongs to unknown user "ghost"`,
		},
		{
			name:    "duplicate goal id",
			corrupt: func(s *Snapshot) { s.Ledger.goals = append(s.Ledger.goals, s.Ledger.goals[0]) },
			want:    `goal id "id-3" is used twice`,
		},
		{
			name:    "non positive target",
			corrupt: func(s *Snapshot) { s.Ledger.goals[0].Amount = A(0) },
			want:    `goal "Car" has a non positive target 0`,
		},
		{
			name:    "negative saved",
			corrupt: func(s *Snapshot) { s.Ledger.goals[0].Saved = A(-1) },
			want:    `goal "Car" has a negative saved amount -1`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSnapshot(t)
			tc.corrupt(s)
			err := s.Check()
			if !errors.Is(err, ErrCorruptSnapshot) {
				t.Fatalf("Check() error = %v, want %v", err, ErrCorruptSnapshot)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Check() error = %q, want it to contain %q", err, tc.want)
			}
		})
	}
}

func TestSnapshot_Clone(t *testing.T) {
	s := newTestSnapshot(t)
	c := s.Clone()
	c.Identity.Logout()
	c.Ledger.RecordTransaction("id-2", Income, "bonus", A(50), "", t0)
	c.Ledger.Contribute("id-2", "id-3", A(10), t0)

	if s.Identity.CurrentID() != "id-2" {
		t.Errorf("original current user = %q, want id-2", s.Identity.CurrentID())
	}
	if agg := s.Ledger.Aggregates("id-2"); !agg.Balance.Equal(A(500)) {
		t.Errorf("original balance = %v, want 500", agg.Balance)
	}
	if g, _ := s.Ledger.Goal("id-2", "id-3"); !g.Saved.Equal(A(300)) {
		t.Errorf("original saved = %v, want 300", g.Saved)
	}
}
