package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cloudscope/console-api/internal/api/metrics"
	"github.com/cloudscope/console-api/internal/api/middleware"
	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
)

// ReportHandler exposes usage report requests and retrieval.
type ReportHandler struct {
	reports ports.ReportService
}

func NewReportHandler(reports ports.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type reportRequest struct {
	AccountID  string `json:"accountId" validate:"required,number"`
	StartMonth string `json:"startMonth" validate:"required,number"`
	StartYear  string `json:"startYear" validate:"required,number"`
	EndMonth   string `json:"endMonth" validate:"required,number"`
	EndYear    string `json:"endYear" validate:"required,number"`
}

// Request queues a usage report for the given account and month range. A
// repeat of an identical request inside the dedup window returns the
// already-queued report instead of a new one.
//
// @Summary      Request usage report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        body  body      reportRequest  true  "Report parameters"
// @Success      202   {object}  domain.Report
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/reports [post]
func (h *ReportHandler) Request(c echo.Context) error {
	var req reportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.ReportsRequestedTotal.WithLabelValues("invalid").Inc()
		return err
	}

	input := ports.ReportRequestInput{
		AccountID:  req.AccountID,
		StartMonth: req.StartMonth,
		StartYear:  req.StartYear,
		EndMonth:   req.EndMonth,
		EndYear:    req.EndYear,
	}
	if session := middleware.SessionFrom(c); session != nil {
		input.RequestedBy = session.User.Email
	}

	report, err := h.reports.RequestReport(c.Request().Context(), input)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			metrics.ReportsRequestedTotal.WithLabelValues("invalid").Inc()
		} else {
			metrics.ReportsRequestedTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.ReportsRequestedTotal.WithLabelValues("accepted").Inc()
	return c.JSON(http.StatusAccepted, report)
}

// Get returns one report, including its usage rows once generation finished.
//
// @Summary      Get report
// @Tags         reports
// @Produce      json
// @Param        id   path      string  true  "Report ID"
// @Success      200  {object}  domain.Report
// @Failure      404  {object}  map[string]string
// @Router       /api/reports/{id} [get]
func (h *ReportHandler) Get(c echo.Context) error {
	report, err := h.reports.GetReport(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// List returns reports newest first, optionally scoped to one account.
//
// @Summary      List reports
// @Tags         reports
// @Produce      json
// @Param        accountId  query     string  false  "Scope to one account"
// @Success      200  {array}  domain.Report
// @Router       /api/reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	reports, err := h.reports.ListReports(c.Request().Context(), c.QueryParam("accountId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reports)
}
