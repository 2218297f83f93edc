package domain

import "strings"

type (
	// TransactionID identifies a delivery transaction.
	TransactionID string
	// DriverID identifies a driver record. It is not a user id.
	DriverID string
	// UserID identifies an authenticated account (drivers and customers alike).
	UserID string
	// MessageID identifies a chat message.
	MessageID string
)

// Matches reports whether two driver ids refer to the same driver.
// Upstream mixes numeric and string representations, so both sides are
// compared as trimmed strings. An empty id never matches anything.
func (d DriverID) Matches(other DriverID) bool {
	a := strings.TrimSpace(string(d))
	b := strings.TrimSpace(string(other))
	return a != "" && a == b
}

// Matches reports whether two user ids refer to the same account.
func (u UserID) Matches(other UserID) bool {
	a := strings.TrimSpace(string(u))
	b := strings.TrimSpace(string(other))
	return a != "" && a == b
}
