package finance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log"

	"github.com/google/uuid"
)

// The snapshot is persisted as a single JSON document:
//
//	{
//	  "currentUserId": "…" | null,
//	  "users": [ {id, name, email, password} ],
//	  "transactions": [ {userId, type, description, amount, category, date} ],
//	  "goals": [ {id, userId, name, amount, saved} ]
//	}
//
// Keys are always written in that order, and the document is indented, so that
// two snapshots can be compared with a plain diff.

// EncodeSnapshot writes the snapshot to w.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	var o jsonObjectWriter
	o.Nullable("currentUserId", s.Identity.CurrentID())
	o.Append("users", collect(s.Identity.Users()))
	o.Append("transactions", collect(s.Ledger.All()))
	o.Append("goals", collect(s.Ledger.AllGoals()))
	data, err := o.MarshalJSON()
	if err != nil {
		return fmt.Errorf("cannot encode snapshot: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("cannot indent snapshot: %w", err)
	}
	buf.WriteByte('\n')
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("cannot write snapshot: %w", err)
	}
	return nil
}

// collect is like slices.Collect but never returns nil, so that empty lists
// are encoded as [] and not null.
func collect[T any](seq iter.Seq[T]) []T {
	list := make([]T, 0)
	for v := range seq {
		list = append(list, v)
	}
	return list
}

// DecodeSnapshot reads a snapshot from r.
//
// Any decoding failure is reported as ErrCorruptSnapshot. The content is not
// validated otherwise: use Snapshot.Check for that.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	return decodeSnapshot(r, uuid.NewString)
}

func decodeSnapshot(r io.Reader, ids func() string) (*Snapshot, error) {
	// jsnapshot is a superset of what EncodeSnapshot writes: older snapshots
	// stored the whole current user, and a cached balance.
	var js struct {
		CurrentUserID *string `json:"currentUserId"`
		CurrentUser   *struct {
			ID string `json:"id"`
		} `json:"currentUser"`
		Users        []User        `json:"users"`
		Transactions []Transaction `json:"transactions"`
		Goals        []Goal        `json:"goals"`
	}
	if err := json.NewDecoder(r).Decode(&js); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	s := NewSnapshot()
	s.setIDs(ids)
	if js.Users != nil {
		s.Identity.users = js.Users
	}
	switch {
	case js.CurrentUserID != nil:
		s.Identity.current = *js.CurrentUserID
	case js.CurrentUser != nil:
		s.Identity.current = js.CurrentUser.ID
	}
	if js.Transactions != nil {
		s.Ledger.transactions = js.Transactions
	}
	if js.Goals != nil {
		s.Ledger.goals = js.Goals
	}
	positions := make(map[string]int)
	for i, g := range s.Ledger.goals {
		pos := positions[g.UserID]
		positions[g.UserID]++
		if g.ID == "" {
			s.Ledger.goals[i].ID = legacyGoalID(g.UserID, pos, g.Name)
			log.Printf("goal %q has no id, using %s", g.Name, s.Ledger.goals[i].ID)
		}
	}
	return s, nil
}

// legacyGoalNamespace scopes the ids given to goals saved without one.
var legacyGoalNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/etnz/finance/legacy-goal"))

// legacyGoalID returns the id of a goal saved without one. It depends only on
// the owner, the position among the owner's goals and the name, so that every
// load of the same snapshot finds the same id until it is saved.
func legacyGoalID(userID string, position int, name string) string {
	return uuid.NewSHA1(legacyGoalNamespace, []byte(fmt.Sprintf("%s/%d/%s", userID, position, name))).String()
}
