package ports

import (
	"context"

	"github.com/cloudscope/console-api/internal/core/domain"
)

// ReportRequestInput carries the raw report form values from the report view.
type ReportRequestInput struct {
	AccountID   string
	StartMonth  string
	StartYear   string
	EndMonth    string
	EndYear     string
	RequestedBy string
}

// ReportJob is the unit of work handed to the generation dispatcher.
type ReportJob struct {
	ReportID  string
	AccountID string
}

// ReportService accepts report requests and processes generation jobs.
type ReportService interface {
	// RequestReport validates the form, records a pending report, and
	// enqueues its generation. An identical account+range request inside
	// the dedup window returns the existing report.
	RequestReport(ctx context.Context, input ReportRequestInput) (*domain.Report, error)
	// GetReport returns a single report by ID.
	GetReport(ctx context.Context, reportID string) (*domain.Report, error)
	// ListReports returns reports, newest first, optionally scoped to one account.
	ListReports(ctx context.Context, accountID string) ([]*domain.Report, error)
	// Process generates the rows for one queued job. It is called by the
	// dispatcher workers.
	Process(ctx context.Context, job ReportJob) error
}

// ReportRepository defines persistence operations for reports.
type ReportRepository interface {
	Insert(ctx context.Context, r *domain.Report) error
	FindByID(ctx context.Context, reportID string) (*domain.Report, error)
	// Update replaces the stored report (status, rows, timestamps).
	Update(ctx context.Context, r *domain.Report) error
	List(ctx context.Context, accountID string) ([]*domain.Report, error)
}
