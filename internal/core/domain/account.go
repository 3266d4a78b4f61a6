package domain

import (
	"regexp"
	"time"
)

// AccountStatus represents the lifecycle state of a cloud account.
type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountClosed    AccountStatus = "closed"
)

// validAccountTransitions defines the allowed state machine transitions.
var validAccountTransitions = map[AccountStatus][]AccountStatus{
	AccountActive:    {AccountSuspended, AccountClosed},
	AccountSuspended: {AccountActive, AccountClosed},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s AccountStatus) CanTransitionTo(next AccountStatus) bool {
	for _, allowed := range validAccountTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// accountIDPattern matches a cloud account identifier: exactly 12 digits.
var accountIDPattern = regexp.MustCompile(`^\d{12}$`)

// ValidAccountID reports whether id is a well-formed 12-digit account identifier.
func ValidAccountID(id string) bool {
	return accountIDPattern.MatchString(id)
}

// Account is the core aggregate of the console: metadata for one cloud account.
type Account struct {
	AccountID     string        `json:"account_id" bson:"account_id"`
	AccountName   string        `json:"account_name" bson:"account_name"`
	ActiveRegions []string      `json:"active_regions" bson:"active_regions"`
	LogoURL       string        `json:"logo_url,omitempty" bson:"logo_url,omitempty"`
	Status        AccountStatus `json:"status" bson:"status"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}
