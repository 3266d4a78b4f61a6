package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub report repository
// ---------------------------------------------------------------------------

type stubReportRepo struct {
	byID       map[string]*domain.Report
	insertCall int
}

func newStubReportRepo() *stubReportRepo {
	return &stubReportRepo{byID: make(map[string]*domain.Report)}
}

func (r *stubReportRepo) Insert(_ context.Context, report *domain.Report) error {
	r.insertCall++
	clone := *report
	r.byID[report.ID] = &clone
	return nil
}

func (r *stubReportRepo) FindByID(_ context.Context, reportID string) (*domain.Report, error) {
	report, ok := r.byID[reportID]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	clone := *report
	return &clone, nil
}

func (r *stubReportRepo) Update(_ context.Context, report *domain.Report) error {
	if _, ok := r.byID[report.ID]; !ok {
		return domain.ErrReportNotFound
	}
	clone := *report
	r.byID[report.ID] = &clone
	return nil
}

func (r *stubReportRepo) List(_ context.Context, accountID string) ([]*domain.Report, error) {
	var out []*domain.Report
	for _, report := range r.byID {
		if accountID != "" && report.AccountID != accountID {
			continue
		}
		clone := *report
		out = append(out, &clone)
	}
	return out, nil
}

// stubDedup records marks and can replay a fixed report ID.
type stubDedup struct {
	existing  string
	markCalls int
}

func (d *stubDedup) Existing(context.Context, string, domain.Period, domain.Period) (string, error) {
	return d.existing, nil
}

func (d *stubDedup) Mark(_ context.Context, _ string, _, _ domain.Period, reportID string) error {
	d.markCalls++
	d.existing = reportID
	return nil
}

// stubQueue captures enqueued jobs instead of running them.
type stubQueue struct {
	jobs []ports.ReportJob
}

func (q *stubQueue) Enqueue(job ports.ReportJob) {
	q.jobs = append(q.jobs, job)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func seededAccounts() *stubAccountRepo {
	repo := newStubAccountRepo()
	repo.accounts["123456789012"] = &domain.Account{
		AccountID:     "123456789012",
		AccountName:   "Production",
		ActiveRegions: []string{"us-east-1", "eu-west-1"},
		Status:        domain.AccountActive,
	}
	return repo
}

func validReportInput() ports.ReportRequestInput {
	return ports.ReportRequestInput{
		AccountID:  "123456789012",
		StartMonth: "1", StartYear: "2024",
		EndMonth: "3", EndYear: "2024",
		RequestedBy: "ops@example.com",
	}
}

// ---------------------------------------------------------------------------
// RequestReport
// ---------------------------------------------------------------------------

func TestReportService_Request_SynchronousCompletion(t *testing.T) {
	reports := newStubReportRepo()
	svc := NewReportService(reports, seededAccounts(), nil, discardLogger)

	report, err := svc.RequestReport(context.Background(), validReportInput())
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if report.Status != domain.ReportCompleted {
		t.Fatalf("without a queue the report completes inline, got %s", report.Status)
	}

	// 3 months x 2 regions.
	if len(report.Rows) != 6 {
		t.Errorf("expected 6 rows, got %d", len(report.Rows))
	}
	if report.CompletedAt.IsZero() {
		t.Error("CompletedAt must be set")
	}
	if report.RequestedBy != "ops@example.com" {
		t.Errorf("RequestedBy = %q", report.RequestedBy)
	}
	for _, row := range report.Rows {
		if row.UsageHours < 100 || row.UsageHours >= 1000 {
			t.Errorf("usage hours out of range: %v", row.UsageHours)
		}
		if row.CostUSD <= 0 {
			t.Errorf("cost must be positive: %v", row.CostUSD)
		}
	}
}

func TestReportService_Request_ValidationErrors(t *testing.T) {
	svc := NewReportService(newStubReportRepo(), seededAccounts(), nil, discardLogger)

	_, err := svc.RequestReport(context.Background(), ports.ReportRequestInput{})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Errors["accountId"] != "Please select an account" {
		t.Errorf("accountId error: %q", ve.Errors["accountId"])
	}
}

func TestReportService_Request_StartAfterEnd(t *testing.T) {
	svc := NewReportService(newStubReportRepo(), seededAccounts(), nil, discardLogger)

	input := validReportInput()
	input.StartMonth, input.StartYear = "6", "2024"
	input.EndMonth, input.EndYear = "1", "2024"

	_, err := svc.RequestReport(context.Background(), input)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Errors["dateRange"] != "Start date cannot be after end date" {
		t.Errorf("dateRange error: %q", ve.Errors["dateRange"])
	}
}

func TestReportService_Request_OutOfWindowRange(t *testing.T) {
	reports := newStubReportRepo()
	svc := NewReportService(reports, seededAccounts(), nil, discardLogger)

	// A millennia-wide range would generate millions of rows if accepted.
	input := validReportInput()
	input.StartMonth, input.StartYear = "1", "1"
	input.EndMonth, input.EndYear = "12", "9999"

	_, err := svc.RequestReport(context.Background(), input)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Errors["startYear"] == "" || ve.Errors["endYear"] == "" {
		t.Errorf("year bounds not enforced: %v", ve.Errors)
	}
	if reports.insertCall != 0 {
		t.Errorf("rejected request must not be recorded, got %d inserts", reports.insertCall)
	}
}

func TestReportService_Request_SpanCapped(t *testing.T) {
	svc := NewReportService(newStubReportRepo(), seededAccounts(), nil, discardLogger)

	input := validReportInput()
	input.StartMonth, input.StartYear = "1", "2023"
	input.EndMonth, input.EndYear = "6", "2024"

	_, err := svc.RequestReport(context.Background(), input)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Errors["dateRange"] != "Date range cannot exceed 12 months" {
		t.Errorf("dateRange error: %q", ve.Errors["dateRange"])
	}
}

func TestReportService_Request_NonNumericPeriod(t *testing.T) {
	reports := newStubReportRepo()
	svc := NewReportService(reports, seededAccounts(), nil, discardLogger)

	input := validReportInput()
	input.StartMonth, input.StartYear = "x", "yy"

	_, err := svc.RequestReport(context.Background(), input)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Errors["startMonth"] != "Month must be between 1 and 12" {
		t.Errorf("startMonth error: %q", ve.Errors["startMonth"])
	}
	if reports.insertCall != 0 {
		t.Errorf("rejected request must not be recorded, got %d inserts", reports.insertCall)
	}
}

func TestReportService_Request_UnknownAccount(t *testing.T) {
	svc := NewReportService(newStubReportRepo(), newStubAccountRepo(), nil, discardLogger)

	_, err := svc.RequestReport(context.Background(), validReportInput())
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestReportService_Request_DedupReplay(t *testing.T) {
	reports := newStubReportRepo()
	dedup := &stubDedup{}
	svc := NewReportService(reports, seededAccounts(), dedup, discardLogger)
	ctx := context.Background()

	first, err := svc.RequestReport(ctx, validReportInput())
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	if dedup.markCalls != 1 {
		t.Fatalf("expected one dedup mark, got %d", dedup.markCalls)
	}

	second, err := svc.RequestReport(ctx, validReportInput())
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("replay should return the existing report: %s vs %s", second.ID, first.ID)
	}
	if reports.insertCall != 1 {
		t.Errorf("replay must not insert, got %d inserts", reports.insertCall)
	}
	if dedup.markCalls != 1 {
		t.Errorf("replay must not re-mark, got %d marks", dedup.markCalls)
	}
}

func TestReportService_Request_QueuedStaysPending(t *testing.T) {
	reports := newStubReportRepo()
	queue := &stubQueue{}
	svc := NewReportService(reports, seededAccounts(), nil, discardLogger)
	svc.SetQueue(queue)

	report, err := svc.RequestReport(context.Background(), validReportInput())
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if report.Status != domain.ReportPending {
		t.Errorf("queued report should stay pending, got %s", report.Status)
	}
	if len(queue.jobs) != 1 || queue.jobs[0].ReportID != report.ID {
		t.Errorf("job not enqueued: %+v", queue.jobs)
	}
}

// ---------------------------------------------------------------------------
// Process
// ---------------------------------------------------------------------------

func TestReportService_Process_IsDeterministic(t *testing.T) {
	reports := newStubReportRepo()
	svc := NewReportService(reports, seededAccounts(), nil, discardLogger)
	ctx := context.Background()

	first, err := svc.RequestReport(ctx, validReportInput())
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	// A fresh service over the same account must produce identical rows.
	other := NewReportService(newStubReportRepo(), seededAccounts(), nil, discardLogger)
	second, err := other.RequestReport(ctx, validReportInput())
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	if !reflect.DeepEqual(first.Rows, second.Rows) {
		t.Error("row generation is not deterministic")
	}
}

func TestReportService_Process_CompletedReportIsNotReprocessed(t *testing.T) {
	reports := newStubReportRepo()
	svc := NewReportService(reports, seededAccounts(), nil, discardLogger)
	ctx := context.Background()

	report, err := svc.RequestReport(ctx, validReportInput())
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	err = svc.Process(ctx, ports.ReportJob{ReportID: report.ID, AccountID: report.AccountID})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestReportService_Process_AccountVanishedMarksFailed(t *testing.T) {
	reports := newStubReportRepo()
	accounts := seededAccounts()
	queue := &stubQueue{}
	svc := NewReportService(reports, accounts, nil, discardLogger)
	svc.SetQueue(queue)
	ctx := context.Background()

	report, err := svc.RequestReport(ctx, validReportInput())
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	// Account disappears between request and processing.
	delete(accounts.accounts, "123456789012")

	if err := svc.Process(ctx, queue.jobs[0]); err == nil {
		t.Fatal("expected processing error")
	}

	stored, _ := reports.FindByID(ctx, report.ID)
	if stored.Status != domain.ReportFailed {
		t.Errorf("status = %s", stored.Status)
	}
	if stored.Error == "" {
		t.Error("failed report should carry the cause")
	}
}

func TestReportService_Process_UnknownReport(t *testing.T) {
	svc := NewReportService(newStubReportRepo(), seededAccounts(), nil, discardLogger)

	err := svc.Process(context.Background(), ports.ReportJob{ReportID: "nope"})
	if !errors.Is(err, domain.ErrReportNotFound) {
		t.Errorf("expected ErrReportNotFound, got %v", err)
	}
}
