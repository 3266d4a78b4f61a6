package ports

import (
	"context"
	"time"

	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/validation"
)

// CreateAccountInput carries all data needed to register a new cloud account.
type CreateAccountInput struct {
	AccountID     string
	AccountName   string
	ActiveRegions []string
	Logo          *validation.FileMeta
}

// UpdateAccountInput carries an account update. The account ID is immutable
// and only identifies the record.
type UpdateAccountInput struct {
	AccountID     string
	AccountName   string
	ActiveRegions []string
	Logo          *validation.FileMeta
	Status        string // optional: request a status transition
}

// AccountSummary is the lightweight view used in list responses.
type AccountSummary struct {
	AccountID     string    `json:"account_id"`
	AccountName   string    `json:"account_name"`
	ActiveRegions []string  `json:"active_regions"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ListAccountsResult is returned by ListAccounts.
type ListAccountsResult struct {
	Items      []AccountSummary `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// AccountService defines the console's account operations.
type AccountService interface {
	CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, input UpdateAccountInput) (*domain.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
	ListAccounts(ctx context.Context, filter ListAccountsFilter) (*ListAccountsResult, error)
}
