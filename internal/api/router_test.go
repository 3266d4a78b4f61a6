package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/service"
	"github.com/cloudscope/console-api/internal/infrastructure/memory"
)

// newTestRouter wires the full stack over the memory backend, the way the
// default deployment runs.
func newTestRouter() *echo.Echo {
	nop := zerolog.Nop()

	store := service.NewDualSessionStore(
		memory.NewSessionScope(), memory.NewSessionScope(),
		domain.ScopePersistent, 24*time.Hour, nop,
	)
	auth := service.NewAuthService(store, memory.NewUserRepository(), service.AuthModeOpen, "test-secret", 24*time.Hour, nop)
	manager := service.NewAuthManager(auth)
	manager.Initialize(context.Background(), "")

	accountRepo := memory.NewAccountRepository()
	accountRepo.Seed(memory.DemoAccounts())
	accounts := service.NewAccountService(accountRepo, nop)
	reports := service.NewReportService(memory.NewReportRepository(), accountRepo, nil, nop)

	return NewRouter(RouterDeps{
		Auth:       auth,
		Manager:    manager,
		Accounts:   accounts,
		Reports:    reports,
		Scope:      domain.ScopePersistent,
		SessionTTL: 24 * time.Hour,
		Logger:     nop,
	})
}

func login(t *testing.T, e *echo.Echo) *http.Cookie {
	t.Helper()
	body := `{"email":"ops@example.com","password":"secret-pw"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "console_session" && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("login did not set the session cookie")
	return nil
}

// Metrics middleware registers collectors globally, so the router is built
// once and shared across subtests.
func TestRouter(t *testing.T) {
	e := newTestRouter()

	t.Run("health is public", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("api without session is 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("page without session redirects to login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
			t.Errorf("expected 302 to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
		}
	})

	t.Run("login with empty credentials is 400 with field errors", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		var resp struct {
			Fields map[string]string `json:"fields"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad error body: %v", err)
		}
		if resp.Fields["email"] != "This field is required" {
			t.Errorf("email field error: %q", resp.Fields["email"])
		}
	})

	cookie := login(t, e)

	t.Run("session endpoint reflects the login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp struct {
			IsAuthenticated bool `json:"isAuthenticated"`
			IsInitialized   bool `json:"isInitialized"`
			User            *struct {
				Email string `json:"email"`
			} `json:"user"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if !resp.IsAuthenticated || !resp.IsInitialized {
			t.Errorf("session state: %+v", resp)
		}
		if resp.User == nil || resp.User.Email != "ops@example.com" {
			t.Errorf("session user: %+v", resp.User)
		}
	})

	t.Run("authenticated root redirects to dashboard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
			t.Errorf("expected 302 to /dashboard, got %d %q", rec.Code, rec.Header().Get("Location"))
		}
	})

	t.Run("dashboard renders for the operator", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			TotalAccounts int64 `json:"totalAccounts"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if resp.TotalAccounts != 12 {
			t.Errorf("totalAccounts = %d", resp.TotalAccounts)
		}
	})

	t.Run("account list with search", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/accounts?search=environment", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp struct {
			Items []json.RawMessage `json:"items"`
			Total int64             `json:"total"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if resp.Total != 4 {
			t.Errorf("search total = %d", resp.Total)
		}
	})

	t.Run("duplicate account create is 409", func(t *testing.T) {
		form := url.Values{
			"accountId":     {"123456789012"},
			"accountName":   {"Clone"},
			"activeRegions": {"us-east-1"},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/accounts", strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("report request completes inline", func(t *testing.T) {
		body := `{"accountId":"123456789012","startMonth":"1","startYear":"2024","endMonth":"2","endYear":"2024"}`
		req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
		}
		var report struct {
			Status      string `json:"status"`
			RequestedBy string `json:"requested_by"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if report.Status != "completed" {
			t.Errorf("status = %q", report.Status)
		}
		if report.RequestedBy != "ops@example.com" {
			t.Errorf("requested_by = %q", report.RequestedBy)
		}
	})

	t.Run("report with reversed range is 400", func(t *testing.T) {
		body := `{"accountId":"123456789012","startMonth":"6","startYear":"2024","endMonth":"1","endYear":"2024"}`
		req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("report with non-numeric month is 400 with field errors", func(t *testing.T) {
		body := `{"accountId":"123456789012","startMonth":"x","startYear":"yy","endMonth":"2","endYear":"2024"}`
		req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Fields map[string]string `json:"fields"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad error body: %v", err)
		}
		if resp.Fields["startMonth"] != "Must be a number" {
			t.Errorf("startMonth field error: %q", resp.Fields["startMonth"])
		}
	})

	t.Run("report spanning more than a year is 400", func(t *testing.T) {
		body := `{"accountId":"123456789012","startMonth":"1","startYear":"2023","endMonth":"6","endYear":"2024"}`
		req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("logout clears the cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}

		var cleared bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == "console_session" && c.MaxAge < 0 {
				cleared = true
			}
		}
		if !cleared {
			t.Error("logout did not expire the cookie")
		}

		// The session no longer restores.
		req = httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
		req.AddCookie(cookie)
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 after logout, got %d", rec.Code)
		}
	})
}
