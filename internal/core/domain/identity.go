package domain

import (
	"strconv"
	"time"
)

// Identity is the authenticated caller as produced by Telegram init data verification.
// It is passed explicitly into every service operation.
type Identity struct {
	UserID    int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName returns the name shown to other users: the Telegram username,
// then the first name, then a synthetic "user_<id>".
func (i Identity) DisplayName() string {
	if i.Username != "" {
		return i.Username
	}
	if i.FirstName != "" {
		return i.FirstName
	}
	return "user_" + i.Key()
}

// Key is the string form of the user id, used to key per-user maps inside documents.
func (i Identity) Key() string {
	return strconv.FormatInt(i.UserID, 10)
}

// LegacyKey is the key older documents used for per-user maps: the display name.
// It is empty when it cannot be told apart from the id key.
func (i Identity) LegacyKey() string {
	name := i.DisplayName()
	if name == i.Key() {
		return ""
	}
	return name
}

// storageKeys lists the per-user map keys of the identity, current key first.
func (i Identity) storageKeys() []string {
	if legacy := i.LegacyKey(); legacy != "" {
		return []string{i.Key(), legacy}
	}
	return []string{i.Key()}
}

// Session is the result of a successful login.
type Session struct {
	Identity  Identity  `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SeedReport lists which documents a seed run created and which already existed.
type SeedReport struct {
	Created []DocumentKey `json:"created"`
	Skipped []DocumentKey `json:"skipped"`
}
