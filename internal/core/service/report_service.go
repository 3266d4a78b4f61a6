package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
	"github.com/cloudscope/console-api/internal/core/validation"
)

// ReportDedup abstracts the request idempotency store (Redis).
type ReportDedup interface {
	// Existing returns the report ID already recorded for this
	// account+range, or "" when the request is new.
	Existing(ctx context.Context, accountID string, start, end domain.Period) (string, error)
	Mark(ctx context.Context, accountID string, start, end domain.Period, reportID string) error
}

// ReportQueue hands generation jobs to the worker dispatcher.
type ReportQueue interface {
	Enqueue(job ports.ReportJob)
}

// ReportService accepts usage report requests and generates their rows.
type ReportService struct {
	reports  ports.ReportRepository
	accounts ports.AccountRepository
	dedup    ReportDedup
	queue    ReportQueue
	now      func() time.Time
	newID    func() string
	log      zerolog.Logger
}

func NewReportService(reports ports.ReportRepository, accounts ports.AccountRepository, dedup ReportDedup, log zerolog.Logger) *ReportService {
	return &ReportService{
		reports:  reports,
		accounts: accounts,
		dedup:    dedup,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
		log:      log,
	}
}

// SetQueue attaches the generation dispatcher. Without a queue, requests are
// processed synchronously, which is what the tests use.
func (s *ReportService) SetQueue(q ReportQueue) {
	s.queue = q
}

// WithClock overrides the service's clock. Intended for tests.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// RequestReport validates the form, records a pending report, and enqueues
// its generation. An identical account+range request inside the dedup window
// returns the previously created report without side effects.
func (s *ReportService) RequestReport(ctx context.Context, input ports.ReportRequestInput) (*domain.Report, error) {
	form := validation.ReportForm{
		AccountID:  input.AccountID,
		StartMonth: input.StartMonth,
		StartYear:  input.StartYear,
		EndMonth:   input.EndMonth,
		EndYear:    input.EndYear,
	}
	if result := validation.Validate(form, validation.ReportConfig()); !result.IsValid {
		return nil, domain.NewValidationError(result.Errors)
	}

	start, err := parsePeriod(input.StartYear, input.StartMonth)
	if err != nil {
		return nil, fmt.Errorf("request report: %w", err)
	}
	end, err := parsePeriod(input.EndYear, input.EndMonth)
	if err != nil {
		return nil, fmt.Errorf("request report: %w", err)
	}

	if _, err := s.accounts.FindByID(ctx, input.AccountID); err != nil {
		return nil, fmt.Errorf("request report: %w", err)
	}

	if s.dedup != nil {
		existingID, err := s.dedup.Existing(ctx, input.AccountID, start, end)
		if err != nil {
			s.log.Warn().Err(err).Str("account_id", input.AccountID).Msg("dedup check failed, processing anyway")
		} else if existingID != "" {
			existing, err := s.reports.FindByID(ctx, existingID)
			if err == nil {
				s.log.Info().Str("report_id", existingID).Str("account_id", input.AccountID).Msg("idempotent replay")
				return existing, nil
			}
		}
	}

	report := &domain.Report{
		ID:          s.newID(),
		AccountID:   input.AccountID,
		Start:       start,
		End:         end,
		Status:      domain.ReportPending,
		RequestedBy: input.RequestedBy,
		RequestedAt: s.now().UTC(),
	}

	if err := s.reports.Insert(ctx, report); err != nil {
		s.log.Error().Err(err).Str("account_id", input.AccountID).Msg("failed to record report request")
		return nil, err
	}

	if s.dedup != nil {
		if err := s.dedup.Mark(ctx, input.AccountID, start, end, report.ID); err != nil {
			s.log.Warn().Err(err).Str("report_id", report.ID).Msg("failed to set dedup key")
		}
	}

	job := ports.ReportJob{ReportID: report.ID, AccountID: report.AccountID}
	if s.queue != nil {
		s.queue.Enqueue(job)
	} else if err := s.Process(ctx, job); err != nil {
		return nil, err
	}

	s.log.Info().Str("report_id", report.ID).Str("account_id", report.AccountID).
		Str("start", start.Key()).Str("end", end.Key()).Msg("report requested")

	return s.reports.FindByID(ctx, report.ID)
}

// GetReport returns a single report by ID.
func (s *ReportService) GetReport(ctx context.Context, reportID string) (*domain.Report, error) {
	return s.reports.FindByID(ctx, reportID)
}

// ListReports returns reports, newest first, optionally scoped to one account.
func (s *ReportService) ListReports(ctx context.Context, accountID string) ([]*domain.Report, error) {
	return s.reports.List(ctx, accountID)
}

// Process generates the rows for one queued job, moving the report through
// pending → running → completed (or failed).
func (s *ReportService) Process(ctx context.Context, job ports.ReportJob) error {
	report, err := s.reports.FindByID(ctx, job.ReportID)
	if err != nil {
		return fmt.Errorf("process report: %w", err)
	}

	if !report.Status.CanTransitionTo(domain.ReportRunning) {
		return fmt.Errorf("process report: %w (from %s to %s)", domain.ErrInvalidTransition, report.Status, domain.ReportRunning)
	}
	report.Status = domain.ReportRunning
	if err := s.reports.Update(ctx, report); err != nil {
		return fmt.Errorf("process report: %w", err)
	}

	account, err := s.accounts.FindByID(ctx, report.AccountID)
	if err != nil {
		return s.fail(ctx, report, err)
	}

	report.Rows = usageRows(account, report.Start, report.End)
	report.Status = domain.ReportCompleted
	report.CompletedAt = s.now().UTC()
	if err := s.reports.Update(ctx, report); err != nil {
		return fmt.Errorf("process report: %w", err)
	}

	s.log.Info().Str("report_id", report.ID).Str("account_id", report.AccountID).
		Int("rows", len(report.Rows)).Msg("report generated")
	return nil
}

func (s *ReportService) fail(ctx context.Context, report *domain.Report, cause error) error {
	report.Status = domain.ReportFailed
	report.Error = cause.Error()
	report.CompletedAt = s.now().UTC()
	if err := s.reports.Update(ctx, report); err != nil {
		s.log.Error().Err(err).Str("report_id", report.ID).Msg("failed to mark report as failed")
	}
	return fmt.Errorf("process report: %w", cause)
}

// usageRows produces one row per region per month. The figures are
// deterministic in (account, period, region) so repeated generations agree.
func usageRows(account *domain.Account, start, end domain.Period) []domain.UsageRow {
	var rows []domain.UsageRow
	for p := start; !end.Before(p); p = p.Next() {
		for _, region := range account.ActiveRegions {
			seed := rowSeed(account.AccountID, p, region)
			hours := float64(100 + seed%900)
			rows = append(rows, domain.UsageRow{
				Period:     p,
				Region:     region,
				UsageHours: hours,
				CostUSD:    round2(hours * (0.5 + float64(seed%50)/100)),
			})
		}
	}
	return rows
}

func rowSeed(accountID string, p domain.Period, region string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(accountID + ":" + p.Key() + ":" + region))
	return h.Sum32()
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

// parsePeriod converts validated form values. The form rules guarantee both
// parts are numeric, so a failure here is a programming error, not user input.
func parsePeriod(year, month string) (domain.Period, error) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return domain.Period{}, fmt.Errorf("parse year %q: %w", year, err)
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return domain.Period{}, fmt.Errorf("parse month %q: %w", month, err)
	}
	return domain.Period{Year: y, Month: m}, nil
}

var _ ports.ReportService = (*ReportService)(nil)
