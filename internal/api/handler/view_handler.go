package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cloudscope/console-api/internal/api/middleware"
	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
)

// availableRegions is the fixed region catalog offered by the account forms.
var availableRegions = []string{
	"us-east-1", "us-west-2",
	"eu-west-1", "eu-central-1",
	"ap-south-1", "ap-southeast-1", "ap-northeast-1",
	"sa-east-1",
}

// ViewHandler renders the JSON view payloads behind the console pages. The
// guard middleware decides whether a page renders, redirects, or shows the
// loading placeholder before these handlers run.
type ViewHandler struct {
	accounts ports.AccountService
	reports  ports.ReportService
}

func NewViewHandler(accounts ports.AccountService, reports ports.ReportService) *ViewHandler {
	return &ViewHandler{accounts: accounts, reports: reports}
}

// Root only runs when the guard neither redirected nor blocked; send the
// operator to the dashboard.
func (h *ViewHandler) Root(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/dashboard")
}

// Dashboard summarizes the account fleet and the latest reports.
func (h *ViewHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	list, err := h.accounts.ListAccounts(ctx, ports.ListAccountsFilter{})
	if err != nil {
		return err
	}

	byStatus := map[string]int{}
	for _, account := range list.Items {
		byStatus[account.Status]++
	}

	reports, err := h.reports.ListReports(ctx, "")
	if err != nil {
		return err
	}
	if len(reports) > 5 {
		reports = reports[:5]
	}

	return c.JSON(http.StatusOK, echo.Map{
		"page":             "dashboard",
		"totalAccounts":    list.Total,
		"accountsByStatus": byStatus,
		"recentReports":    reports,
	})
}

// Accounts renders the account management page: the first page of accounts
// plus the region catalog the create/edit forms offer.
func (h *ViewHandler) Accounts(c echo.Context) error {
	list, err := h.accounts.ListAccounts(c.Request().Context(), ports.ListAccountsFilter{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"page":             "accounts",
		"accounts":         list,
		"availableRegions": availableRegions,
	})
}

// Reports renders the report request page: the account selector options and
// previously requested reports.
func (h *ViewHandler) Reports(c echo.Context) error {
	ctx := c.Request().Context()

	list, err := h.accounts.ListAccounts(ctx, ports.ListAccountsFilter{})
	if err != nil {
		return err
	}

	options := make([]echo.Map, 0, len(list.Items))
	for _, account := range list.Items {
		options = append(options, echo.Map{
			"accountId":   account.AccountID,
			"accountName": account.AccountName,
		})
	}

	reports, err := h.reports.ListReports(ctx, c.QueryParam("accountId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"page":     "reports",
		"accounts": options,
		"reports":  reports,
	})
}

// UserOnboard renders the new-account onboarding page.
func (h *ViewHandler) UserOnboard(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"page":             "user-onboard",
		"availableRegions": availableRegions,
		"statuses": []string{
			string(domain.AccountActive),
			string(domain.AccountSuspended),
			string(domain.AccountClosed),
		},
	})
}

// MyAccount renders the operator's own profile page.
func (h *ViewHandler) MyAccount(c echo.Context) error {
	session := middleware.SessionFrom(c)
	if session == nil {
		return domain.ErrNoSession
	}
	return c.JSON(http.StatusOK, echo.Map{
		"page": "my-account",
		"user": session.User,
	})
}

// Login renders the login page payload. Public.
func (h *ViewHandler) Login(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"page": "login"})
}

// Signup renders the signup page payload. Public.
func (h *ViewHandler) Signup(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"page": "signup"})
}
