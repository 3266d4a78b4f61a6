package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cloudscope/console-api/internal/api/metrics"
	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
	"github.com/cloudscope/console-api/internal/core/validation"
)

// AccountHandler exposes the cloud account CRUD surface.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type accountRequest struct {
	AccountID     string   `form:"accountId" json:"accountId" validate:"omitempty,number"`
	AccountName   string   `form:"accountName" json:"accountName" validate:"required,min=2"`
	ActiveRegions []string `form:"activeRegions" json:"activeRegions"`
	Status        string   `form:"status" json:"status" validate:"omitempty,oneof=active suspended closed"`
}

// logoMeta extracts the uploaded logo's metadata without reading the file
// body. Validation only needs name, size, and content type.
func logoMeta(c echo.Context) *validation.FileMeta {
	file, err := c.FormFile("logo")
	if err != nil {
		return nil
	}
	return &validation.FileMeta{
		Name:        file.Filename,
		Size:        file.Size,
		ContentType: file.Header.Get("Content-Type"),
	}
}

// mutationResult maps a mutation error to its metrics label.
func mutationResult(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &ve):
		return "invalid"
	case errors.Is(err, domain.ErrDuplicateAccount):
		return "duplicate"
	default:
		return "error"
	}
}

// Create registers a new cloud account.
//
// @Summary      Create account
// @Tags         accounts
// @Accept       mpfd
// @Produce      json
// @Param        accountId      formData  string  true   "12-digit account ID"
// @Param        accountName    formData  string  true   "Account name"
// @Param        activeRegions  formData  []string true  "Active regions"
// @Param        logo           formData  file    false  "Account logo"
// @Success      201  {object}  domain.Account
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/accounts [post]
func (h *AccountHandler) Create(c echo.Context) error {
	var req accountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.AccountMutationsTotal.WithLabelValues("create", mutationResult(err)).Inc()
		return err
	}

	account, err := h.accounts.CreateAccount(c.Request().Context(), ports.CreateAccountInput{
		AccountID:     req.AccountID,
		AccountName:   req.AccountName,
		ActiveRegions: req.ActiveRegions,
		Logo:          logoMeta(c),
	})
	metrics.AccountMutationsTotal.WithLabelValues("create", mutationResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, account)
}

// Get returns one account by its 12-digit ID.
//
// @Summary      Get account
// @Tags         accounts
// @Produce      json
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  domain.Account
// @Failure      404  {object}  map[string]string
// @Router       /api/accounts/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	account, err := h.accounts.GetAccount(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Update edits an existing account. The account ID is immutable.
//
// @Summary      Update account
// @Tags         accounts
// @Accept       mpfd
// @Produce      json
// @Param        id             path      string  true   "Account ID"
// @Param        accountName    formData  string  true   "Account name"
// @Param        activeRegions  formData  []string true  "Active regions"
// @Param        status         formData  string  false  "Requested status"
// @Param        logo           formData  file    false  "Account logo"
// @Success      200  {object}  domain.Account
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /api/accounts/{id} [put]
func (h *AccountHandler) Update(c echo.Context) error {
	var req accountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.AccountMutationsTotal.WithLabelValues("update", mutationResult(err)).Inc()
		return err
	}

	account, err := h.accounts.UpdateAccount(c.Request().Context(), ports.UpdateAccountInput{
		AccountID:     c.Param("id"),
		AccountName:   req.AccountName,
		ActiveRegions: req.ActiveRegions,
		Logo:          logoMeta(c),
		Status:        req.Status,
	})
	metrics.AccountMutationsTotal.WithLabelValues("update", mutationResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Delete removes an account.
//
// @Summary      Delete account
// @Tags         accounts
// @Param        id  path  string  true  "Account ID"
// @Success      204  "account deleted"
// @Failure      404  {object}  map[string]string
// @Router       /api/accounts/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	err := h.accounts.DeleteAccount(c.Request().Context(), c.Param("id"))
	metrics.AccountMutationsTotal.WithLabelValues("delete", mutationResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type listAccountsQuery struct {
	Search string `query:"search"`
	Status string `query:"status"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

// List returns accounts matching the search and status filters, paginated.
//
// @Summary      List accounts
// @Tags         accounts
// @Produce      json
// @Param        search  query     string  false  "Substring match on name, ID, or region"
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number, 1-based"
// @Param        limit   query     int     false  "Page size"
// @Success      200  {object}  ports.ListAccountsResult
// @Router       /api/accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	var q listAccountsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	result, err := h.accounts.ListAccounts(c.Request().Context(), ports.ListAccountsFilter{
		Search: q.Search,
		Status: q.Status,
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
