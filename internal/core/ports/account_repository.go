package ports

import (
	"context"

	"github.com/cloudscope/console-api/internal/core/domain"
)

// ListAccountsFilter carries the query parameters for listing accounts.
type ListAccountsFilter struct {
	Search string // optional: substring match on name, ID, or region codes
	Status string // optional: filter by account status
	Page   int    // 1-based
	Limit  int    // max rows per page (capped at 100 by the service)
}

// AccountRepository defines persistence operations for cloud accounts.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) error
	FindByID(ctx context.Context, accountID string) (*domain.Account, error)
	Update(ctx context.Context, a *domain.Account) error
	Delete(ctx context.Context, accountID string) error
	// List returns a page of accounts matching filter and the total count.
	List(ctx context.Context, filter ListAccountsFilter) ([]*domain.Account, int64, error)
}
