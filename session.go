package finance

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"time"

	"github.com/google/uuid"
)

// DefaultKey is the store key of the snapshot when none is configured.
const DefaultKey = "financeData"

// Session is the application state of one process: a snapshot loaded from a
// Store, mutated by the operations below, and saved back after each of them.
//
// Every mutation works on a copy of the snapshot which replaces the current
// one only once it has been saved: a failed operation or a failed write
// leaves the session unchanged.
//
// A Session is not safe for concurrent use. Two sessions on the same store and
// key overwrite each other's snapshot: the last save wins.
type Session struct {
	store   Store
	key     string
	creds   Credentials
	now     func() time.Time
	ids     func() string
	recover bool

	snap *Snapshot
}

// Option configures a Session.
type Option func(*Session)

// WithKey sets the store key of the snapshot, DefaultKey otherwise.
func WithKey(key string) Option { return func(s *Session) { s.key = key } }

// WithCredentials sets how passwords are stored, PlainCredentials otherwise.
func WithCredentials(c Credentials) Option { return func(s *Session) { s.creds = c } }

// WithClock sets the clock used to date transactions.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// WithIDs sets the generator of user and goal ids.
func WithIDs(ids func() string) Option { return func(s *Session) { s.ids = ids } }

// RecoverCorrupt makes Open start from an empty snapshot when the stored one
// cannot be decoded, instead of failing with ErrCorruptSnapshot. The corrupt
// snapshot is overwritten by the next save.
func RecoverCorrupt() Option { return func(s *Session) { s.recover = true } }

// Open loads the snapshot from the store and returns a session on it.
//
// A missing snapshot is not an error: the session starts empty.
func Open(ctx context.Context, store Store, opts ...Option) (*Session, error) {
	s := &Session{
		store: store,
		key:   DefaultKey,
		creds: PlainCredentials{},
		now:   time.Now,
		ids:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.snap = snap
	return s, nil
}

func (s *Session) load(ctx context.Context) (*Snapshot, error) {
	data, ok, err := s.store.Read(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("cannot load snapshot %q: %w", s.key, err)
	}
	if !ok {
		snap := NewSnapshot()
		snap.setIDs(s.ids)
		return snap, nil
	}

	snap, err := decodeSnapshot(bytes.NewReader(data), s.ids)
	if errors.Is(err, ErrCorruptSnapshot) && s.recover {
		log.Printf("warning, snapshot %q is corrupt, starting from an empty one: %v", s.key, err)
		snap, err = NewSnapshot(), nil
		snap.setIDs(s.ids)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot load snapshot %q: %w", s.key, err)
	}
	return snap, nil
}

// Save writes the current snapshot to the store.
func (s *Session) Save(ctx context.Context) error {
	return s.save(ctx, s.snap)
}

func (s *Session) save(ctx context.Context, snap *Snapshot) error {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, snap); err != nil {
		return err
	}
	if err := s.store.Write(ctx, s.key, buf.Bytes()); err != nil {
		return fmt.Errorf("cannot save snapshot %q: %w", s.key, err)
	}
	return nil
}

// mutate applies fn to a copy of the snapshot, saves it and makes it current.
func (s *Session) mutate(ctx context.Context, fn func(*Snapshot) error) error {
	next := s.snap.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.save(ctx, next); err != nil {
		return err
	}
	s.snap = next
	return nil
}

// mutateAsCurrent is mutate for operations that need a logged in user.
func (s *Session) mutateAsCurrent(ctx context.Context, fn func(snap *Snapshot, userID string) error) error {
	userID := s.snap.Identity.CurrentID()
	if userID == "" {
		return ErrNotLoggedIn
	}
	return s.mutate(ctx, func(snap *Snapshot) error { return fn(snap, userID) })
}

// Snapshot returns the current snapshot. It must not be modified.
func (s *Session) Snapshot() *Snapshot { return s.snap }

// Key returns the store key of the snapshot.
func (s *Session) Key() string { return s.key }

// Register creates a user and logs it in.
func (s *Session) Register(ctx context.Context, name, email, password string) (u User, err error) {
	err = s.mutate(ctx, func(snap *Snapshot) error {
		u, err = snap.Identity.Register(name, email, password, s.creds)
		return err
	})
	return u, err
}

// Login logs in the user with that email and password.
func (s *Session) Login(ctx context.Context, email, password string) (u User, err error) {
	err = s.mutate(ctx, func(snap *Snapshot) error {
		u, err = snap.Identity.Login(email, password, s.creds)
		return err
	})
	return u, err
}

// Logout logs the current user out. Only saving can fail.
func (s *Session) Logout(ctx context.Context) error {
	return s.mutate(ctx, func(snap *Snapshot) error {
		snap.Identity.Logout()
		return nil
	})
}

// CurrentUser returns the logged in user, if any.
func (s *Session) CurrentUser() (User, bool) { return s.snap.Identity.Current() }

// RecordTransaction records a transaction of the current user, dated now.
func (s *Session) RecordTransaction(ctx context.Context, typ TxType, description string, amount Amount, category string) (tx Transaction, err error) {
	err = s.mutateAsCurrent(ctx, func(snap *Snapshot, userID string) error {
		tx, err = snap.Ledger.RecordTransaction(userID, typ, description, amount, category, s.now())
		return err
	})
	return tx, err
}

// Transactions iterates over the current user's transactions, most recent
// first. It yields nothing when nobody is logged in.
func (s *Session) Transactions(filter Filter, preds ...func(Transaction) bool) iter.Seq[Transaction] {
	userID := s.snap.Identity.CurrentID()
	if userID == "" {
		return func(func(Transaction) bool) {}
	}
	return s.snap.Ledger.Transactions(userID, filter, preds...)
}

// Aggregates returns the totals of the current user, zero when nobody is
// logged in.
func (s *Session) Aggregates(preds ...func(Transaction) bool) Aggregates {
	userID := s.snap.Identity.CurrentID()
	if userID == "" {
		return Aggregates{}
	}
	return s.snap.Ledger.Aggregates(userID, preds...)
}

// CreateGoal creates a goal for the current user.
func (s *Session) CreateGoal(ctx context.Context, name string, amount Amount) (g Goal, err error) {
	err = s.mutateAsCurrent(ctx, func(snap *Snapshot, userID string) error {
		g, err = snap.Ledger.CreateGoal(userID, name, amount)
		return err
	})
	return g, err
}

// Goals iterates over the current user's goals.
func (s *Session) Goals() iter.Seq[Goal] {
	userID := s.snap.Identity.CurrentID()
	if userID == "" {
		return func(func(Goal) bool) {}
	}
	return s.snap.Ledger.Goals(userID)
}

// Contribute adds amount to the current user's goal and records the
// matching savings expense, in a single save.
func (s *Session) Contribute(ctx context.Context, goalID string, amount Amount) (g Goal, err error) {
	err = s.mutateAsCurrent(ctx, func(snap *Snapshot, userID string) error {
		g, _, err = snap.Ledger.Contribute(userID, goalID, amount, s.now())
		return err
	})
	return g, err
}

// ContributeAt is like Contribute, the goal being the index-th of the current
// user's goals.
func (s *Session) ContributeAt(ctx context.Context, index int, amount Amount) (g Goal, err error) {
	err = s.mutateAsCurrent(ctx, func(snap *Snapshot, userID string) error {
		g, _, err = snap.Ledger.ContributeAt(userID, index, amount, s.now())
		return err
	})
	return g, err
}

// Import records every record for the current user in a single save. Each
// record is merged by date, so the ledger stays most recent first. Records
// without a date are dated now. Nothing is recorded if any record is invalid.
func (s *Session) Import(ctx context.Context, records []ImportRecord) (int, error) {
	err := s.mutateAsCurrent(ctx, func(snap *Snapshot, userID string) error {
		for i, r := range records {
			on := r.Date
			if on.IsZero() {
				on = s.now()
			}
			if _, err := snap.Ledger.InsertTransaction(userID, r.Type, r.Description, r.Amount, r.Category, on); err != nil {
				return fmt.Errorf("record #%d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}
