package account

import (
	"fmt"
	"strings"
	"time"
)

// Account represents an API consumer account on the gateway.
type Account struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	GroupID         *int64    `json:"groupId,omitempty"`
	Status          Status    `json:"status"`
	KeyHash         string    `json:"-"`
	RateLimitMinute int       `json:"rateLimitMinute"`
	QuotaRequests   int64     `json:"quotaRequestsDay"`
	QuotaTokensIn   int64     `json:"quotaInputTokensDay"`
	QuotaTokensOut  int64     `json:"quotaOutputTokensDay"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Status represents account status.
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// Defaults applied when a quota field is left zero.
const (
	DefaultRateLimitMinute = 60
	DefaultQuotaRequests   = 1000
	DefaultQuotaTokensIn   = 1_000_000
	DefaultQuotaTokensOut  = 500_000
)

// New creates an account with validation and quota defaults.
func New(name string, groupID *int64) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("account name is required")
	}
	if len(name) < 2 || len(name) > 100 {
		return nil, fmt.Errorf("account name must be between 2 and 100 characters")
	}
	return &Account{
		Name:            name,
		GroupID:         groupID,
		Status:          StatusActive,
		RateLimitMinute: DefaultRateLimitMinute,
		QuotaRequests:   DefaultQuotaRequests,
		QuotaTokensIn:   DefaultQuotaTokensIn,
		QuotaTokensOut:  DefaultQuotaTokensOut,
	}, nil
}

// ValidStatus reports whether s is a known account status.
func ValidStatus(s Status) bool {
	return s == StatusActive || s == StatusDisabled
}

// IsActive checks if the account can issue requests.
func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// Disable suspends the account.
func (a *Account) Disable() {
	a.Status = StatusDisabled
}

// Enable reactivates the account.
func (a *Account) Enable() {
	a.Status = StatusActive
}
