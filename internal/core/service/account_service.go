package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
	"github.com/cloudscope/console-api/internal/core/validation"
)

const maxListLimit = 100

// AccountService implements the console's account operations over a repository.
type AccountService struct {
	repo   ports.AccountRepository
	now    func() time.Time
	logger zerolog.Logger
}

func NewAccountService(repo ports.AccountRepository, logger zerolog.Logger) *AccountService {
	return &AccountService{repo: repo, now: time.Now, logger: logger}
}

// WithClock overrides the service's clock. Intended for tests.
func (s *AccountService) WithClock(now func() time.Time) *AccountService {
	s.now = now
	return s
}

// CreateAccount validates the submission and registers a new account.
// Validation runs before any mutation, so a rejected form leaves the
// collection unchanged.
func (s *AccountService) CreateAccount(ctx context.Context, input ports.CreateAccountInput) (*domain.Account, error) {
	form := validation.AccountForm{
		AccountName:   input.AccountName,
		AccountID:     input.AccountID,
		ActiveRegions: input.ActiveRegions,
		Logo:          input.Logo,
	}
	if result := validation.Validate(form, validation.AccountConfig(validation.ModeCreate)); !result.IsValid {
		return nil, domain.NewValidationError(result.Errors)
	}

	now := s.now().UTC()
	account := &domain.Account{
		AccountID:     input.AccountID,
		AccountName:   input.AccountName,
		ActiveRegions: input.ActiveRegions,
		Status:        domain.AccountActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.Logo != nil {
		account.LogoURL = logoURL(input.AccountID, input.Logo)
	}

	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateAccount) {
			return nil, fmt.Errorf("create account %s: %w", input.AccountID, err)
		}
		s.logger.Error().Err(err).Str("account_id", input.AccountID).Msg("failed to create account")
		return nil, err
	}

	s.logger.Info().Str("account_id", account.AccountID).Str("account_name", account.AccountName).Msg("account created")
	return account, nil
}

// GetAccount retrieves a single account by ID. A malformed ID is reported as
// not found without touching the repository.
func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	if !domain.ValidAccountID(accountID) {
		return nil, domain.ErrAccountNotFound
	}
	return s.repo.FindByID(ctx, accountID)
}

// UpdateAccount validates the submission and applies it to an existing
// account. The account ID is immutable; a status change must follow the
// account lifecycle transitions.
func (s *AccountService) UpdateAccount(ctx context.Context, input ports.UpdateAccountInput) (*domain.Account, error) {
	form := validation.AccountForm{
		AccountName:   input.AccountName,
		ActiveRegions: input.ActiveRegions,
		Logo:          input.Logo,
	}
	if result := validation.Validate(form, validation.AccountConfig(validation.ModeUpdate)); !result.IsValid {
		return nil, domain.NewValidationError(result.Errors)
	}

	account, err := s.repo.FindByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if input.Status != "" && input.Status != string(account.Status) {
		next := domain.AccountStatus(input.Status)
		if !account.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("update account %s: %w (from %s to %s)", input.AccountID, domain.ErrInvalidTransition, account.Status, next)
		}
		account.Status = next
	}

	account.AccountName = input.AccountName
	account.ActiveRegions = input.ActiveRegions
	if input.Logo != nil {
		account.LogoURL = logoURL(account.AccountID, input.Logo)
	}
	account.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, account); err != nil {
		s.logger.Error().Err(err).Str("account_id", input.AccountID).Msg("failed to update account")
		return nil, err
	}

	s.logger.Info().Str("account_id", account.AccountID).Msg("account updated")
	return account, nil
}

// DeleteAccount removes an account from the collection.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID string) error {
	if err := s.repo.Delete(ctx, accountID); err != nil {
		return err
	}
	s.logger.Info().Str("account_id", accountID).Msg("account deleted")
	return nil
}

// ListAccounts returns a page of accounts matching the filter.
func (s *AccountService) ListAccounts(ctx context.Context, filter ports.ListAccountsFilter) (*ports.ListAccountsResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	accounts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ports.AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, ports.AccountSummary{
			AccountID:     a.AccountID,
			AccountName:   a.AccountName,
			ActiveRegions: a.ActiveRegions,
			Status:        string(a.Status),
			CreatedAt:     a.CreatedAt,
			UpdatedAt:     a.UpdatedAt,
		})
	}

	totalPages := int(total) / filter.Limit
	if int(total)%filter.Limit != 0 {
		totalPages++
	}

	return &ports.ListAccountsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// logoURL is where the uploaded logo would be served from. Content storage is
// out of scope; only the metadata survives validation.
func logoURL(accountID string, logo *validation.FileMeta) string {
	return fmt.Sprintf("/static/logos/%s-%s", accountID, logo.Name)
}

var _ ports.AccountService = (*AccountService)(nil)
