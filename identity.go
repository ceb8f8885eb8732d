package finance

import (
	"fmt"
	"iter"

	"github.com/google/uuid"
)

// User is a registered user of the tracker.
//
// Password holds whatever the Credentials backend sealed at registration. With
// PlainCredentials, the default, it is the plaintext password.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MarshalJSON implements the json.Marshaler interface for User.
func (u User) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", u.ID)
	w.Append("name", u.Name)
	w.Append("email", u.Email)
	w.Append("password", u.Password)
	return w.MarshalJSON()
}

// Identity holds the registered users and the user of the current session.
type Identity struct {
	users   []User
	current string // ID of the current user, "" when logged out.
	ids     func() string
}

// NewIdentity creates an empty identity store.
func NewIdentity() *Identity {
	return &Identity{ids: uuid.NewString}
}

// Register creates a new user and makes it the current user.
//
// Emails are unique, compared exactly (case matters).
func (id *Identity) Register(name, email, password string, creds Credentials) (User, error) {
	if _, exists := id.ByEmail(email); exists {
		return User{}, fmt.Errorf("cannot register %q: %w", email, ErrDuplicateEmail)
	}
	sealed, err := creds.Seal(password)
	if err != nil {
		return User{}, fmt.Errorf("cannot seal password: %w", err)
	}
	u := User{
		ID:       id.ids(),
		Name:     name,
		Email:    email,
		Password: sealed,
	}
	id.users = append(id.users, u)
	id.current = u.ID
	return u, nil
}

// Login makes the user matching both email and password the current user.
func (id *Identity) Login(email, password string, creds Credentials) (User, error) {
	for _, u := range id.users {
		if u.Email == email && creds.Match(u.Password, password) {
			id.current = u.ID
			return u, nil
		}
	}
	return User{}, ErrInvalidCredentials
}

// Logout clears the current user.
func (id *Identity) Logout() { id.current = "" }

// Current returns the current user, if any.
func (id *Identity) Current() (User, bool) {
	if id.current == "" {
		return User{}, false
	}
	return id.User(id.current)
}

// CurrentID returns the ID of the current user, or "" when nobody is logged in.
func (id *Identity) CurrentID() string { return id.current }

// User returns the user with that ID.
func (id *Identity) User(userID string) (User, bool) {
	for _, u := range id.users {
		if u.ID == userID {
			return u, true
		}
	}
	return User{}, false
}

// ByEmail returns the user registered with that exact email.
func (id *Identity) ByEmail(email string) (User, bool) {
	for _, u := range id.users {
		if u.Email == email {
			return u, true
		}
	}
	return User{}, false
}

// Users iterates over registered users in registration order.
func (id *Identity) Users() iter.Seq[User] {
	return func(yield func(User) bool) {
		for _, u := range id.users {
			if !yield(u) {
				return
			}
		}
	}
}

// Len returns the number of registered users.
func (id *Identity) Len() int { return len(id.users) }

func (id *Identity) clone() *Identity {
	c := *id
	c.users = append([]User(nil), id.users...)
	return &c
}
