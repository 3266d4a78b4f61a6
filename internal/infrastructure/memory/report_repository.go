package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cloudscope/console-api/internal/core/domain"
	"github.com/cloudscope/console-api/internal/core/ports"
)

// ReportRepository keeps generated reports in process memory.
type ReportRepository struct {
	mu      sync.RWMutex
	reports map[string]*domain.Report
}

// NewReportRepository returns an empty in-memory report store.
func NewReportRepository() *ReportRepository {
	return &ReportRepository{reports: make(map[string]*domain.Report)}
}

func (r *ReportRepository) Insert(_ context.Context, report *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports[report.ID] = cloneReport(report)
	return nil
}

func (r *ReportRepository) FindByID(_ context.Context, reportID string) (*domain.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[reportID]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return cloneReport(report), nil
}

func (r *ReportRepository) Update(_ context.Context, report *domain.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reports[report.ID]; !ok {
		return domain.ErrReportNotFound
	}
	r.reports[report.ID] = cloneReport(report)
	return nil
}

func (r *ReportRepository) List(_ context.Context, accountID string) ([]*domain.Report, error) {
	r.mu.RLock()
	out := make([]*domain.Report, 0, len(r.reports))
	for _, report := range r.reports {
		if accountID == "" || report.AccountID == accountID {
			out = append(out, cloneReport(report))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].RequestedAt.After(out[j].RequestedAt)
	})
	return out, nil
}

func cloneReport(r *domain.Report) *domain.Report {
	clone := *r
	clone.Rows = append([]domain.UsageRow(nil), r.Rows...)
	return &clone
}

var _ ports.ReportRepository = (*ReportRepository)(nil)
