package finance

import (
	"errors"
	"fmt"
)

// Snapshot is the complete application state at one instant: the users, the
// current session user, the transactions and the goals.
//
// It is persisted as a whole by a Session.
type Snapshot struct {
	Identity *Identity
	Ledger   *Ledger
}

// NewSnapshot returns an empty snapshot: no users, nobody logged in, no records.
func NewSnapshot() *Snapshot {
	return &Snapshot{Identity: NewIdentity(), Ledger: NewLedger()}
}

// Clone returns a deep copy of s. Mutating the copy does not affect s.
func (s *Snapshot) Clone() *Snapshot {
	return &Snapshot{Identity: s.Identity.clone(), Ledger: s.Ledger.clone()}
}

// setIDs replaces the id generator of users and goals.
func (s *Snapshot) setIDs(ids func() string) {
	s.Identity.ids = ids
	s.Ledger.ids = ids
}

// Check verifies the snapshot invariants and returns every violation found,
// each wrapping ErrCorruptSnapshot.
//
// Snapshots built through a Session always pass; Check is meant for snapshots
// read from a store, which are loaded as is.
func (s *Snapshot) Check() error {
	var errs error
	fail := func(format string, args ...any) {
		errs = errors.Join(errs, fmt.Errorf("%w: %s", ErrCorruptSnapshot, fmt.Sprintf(format, args...)))
	}

	emails := make(map[string]struct{})
	userIDs := make(map[string]struct{})
	for u := range s.Identity.Users() {
		if _, dup := emails[u.Email]; dup {
			fail("email %q is registered twice", u.Email)
		}
		emails[u.Email] = struct{}{}
		if _, dup := userIDs[u.ID]; dup {
			fail("user id %q is used twice", u.ID)
		}
		userIDs[u.ID] = struct{}{}
	}

	if cur := s.Identity.CurrentID(); cur != "" {
		if _, ok := userIDs[cur]; !ok {
			fail("current user %q does not exist", cur)
		}
	}

	for tx := range s.Ledger.All() {
		if _, ok := userIDs[tx.UserID]; !ok {
			fail("transaction %q of %v belongs to unknown user %q", tx.Description, tx.Date, tx.UserID)
		}
		if !tx.Type.Valid() {
			fail("transaction %q of %v has an invalid type %q", tx.Description, tx.Date, tx.Type)
		}
	}

	goalIDs := make(map[string]struct{})
	for g := range s.Ledger.AllGoals() {
		if _, ok := userIDs[g.UserID]; !ok {
			fail("goal %q belongs to unknown user %q", g.Name, g.UserID)
		}
		if _, dup := goalIDs[g.ID]; dup {
			fail("goal id %q is used twice", g.ID)
		}
		goalIDs[g.ID] = struct{}{}
		if !g.Amount.IsPositive() {
			fail("goal %q has a non positive target %s", g.Name, g.Amount)
		}
		if g.Saved.IsNegative() {
			fail("goal %q has a negative saved amount %s", g.Name, g.Saved)
		}
	}
	return errs
}
