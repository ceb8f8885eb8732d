package finance

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Credentials turns passwords into the value stored with a User, and checks a
// password against it.
type Credentials interface {
	Seal(password string) (string, error)
	Match(stored, password string) bool
}

// PlainCredentials stores passwords as is.
//
// It is the historical behavior of the tracker and remains the default so that
// existing snapshots keep working. Anyone able to read the store can read the
// passwords: use BcryptCredentials for new profiles.
type PlainCredentials struct{}

func (PlainCredentials) Seal(password string) (string, error) { return password, nil }

func (PlainCredentials) Match(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// BcryptCredentials stores bcrypt hashes.
type BcryptCredentials struct {
	Cost int // bcrypt.DefaultCost when zero.
}

func (c BcryptCredentials) Seal(password string) (string, error) {
	cost := c.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Match also accepts passwords stored in clear, by users registered before
// switching to bcrypt.
func (BcryptCredentials) Match(stored, password string) bool {
	if _, err := bcrypt.Cost([]byte(stored)); err != nil {
		return PlainCredentials{}.Match(stored, password)
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// ParseCredentials returns the backend for a configuration name: "plain" or "bcrypt".
func ParseCredentials(name string) (Credentials, error) {
	switch name {
	case "", "plain":
		return PlainCredentials{}, nil
	case "bcrypt":
		return BcryptCredentials{}, nil
	default:
		return nil, fmt.Errorf("unknown credentials backend: %q", name)
	}
}
