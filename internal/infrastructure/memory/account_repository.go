package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
)

// AccountRepository keeps the account collection in process memory. It backs
// the default deployment mode, where the console works over seeded mock data
// that does not survive a restart.
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

// NewAccountRepository returns an empty in-memory repository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]*domain.Account)}
}

// Seed inserts accounts without uniqueness checks. Used at startup for the
// demo dataset; later duplicates win.
func (r *AccountRepository) Seed(accounts []*domain.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range accounts {
		clone := cloneAccount(a)
		r.accounts[clone.AccountID] = clone
	}
}

func (r *AccountRepository) Create(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[a.AccountID]; exists {
		return domain.ErrDuplicateAccount
	}
	r.accounts[a.AccountID] = cloneAccount(a)
	return nil
}

func (r *AccountRepository) FindByID(_ context.Context, accountID string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *AccountRepository) Update(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.AccountID]; !ok {
		return domain.ErrAccountNotFound
	}
	r.accounts[a.AccountID] = cloneAccount(a)
	return nil
}

func (r *AccountRepository) Delete(_ context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[accountID]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, accountID)
	return nil
}

func (r *AccountRepository) List(_ context.Context, filter ports.ListAccountsFilter) ([]*domain.Account, int64, error) {
	r.mu.RLock()
	matched := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		if matchesFilter(a, filter) {
			matched = append(matched, cloneAccount(a))
		}
	}
	r.mu.RUnlock()

	// Newest first, mirroring the console's account list.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].AccountID < matched[j].AccountID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		return matched, total, nil
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return []*domain.Account{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func matchesFilter(a *domain.Account, filter ports.ListAccountsFilter) bool {
	if filter.Status != "" && string(a.Status) != filter.Status {
		return false
	}
	if filter.Search == "" {
		return true
	}
	needle := strings.ToLower(filter.Search)
	if strings.Contains(strings.ToLower(a.AccountName), needle) {
		return true
	}
	if strings.Contains(a.AccountID, filter.Search) {
		return true
	}
	for _, region := range a.ActiveRegions {
		if strings.Contains(strings.ToLower(region), needle) {
			return true
		}
	}
	return false
}

func cloneAccount(a *domain.Account) *domain.Account {
	clone := *a
	clone.ActiveRegions = append([]string(nil), a.ActiveRegions...)
	return &clone
}

var _ ports.AccountRepository = (*AccountRepository)(nil)
