package domain

import (
	"fmt"
	"time"
)

// Period identifies one calendar month of usage data.
type Period struct {
	Year  int `json:"year" bson:"year"`
	Month int `json:"month" bson:"month"`
}

// Key renders the period as a zero-padded sortable string, e.g. "2024-03".
// Lexicographic order on keys equals chronological order.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Before reports whether p is strictly earlier than other.
func (p Period) Before(other Period) bool {
	return p.Key() < other.Key()
}

// Next returns the following calendar month.
func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Year: p.Year + 1, Month: 1}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// ReportStatus represents the lifecycle state of a report generation request.
type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportRunning   ReportStatus = "running"
	ReportCompleted ReportStatus = "completed"
	ReportFailed    ReportStatus = "failed"
)

// validReportTransitions defines the allowed state machine transitions.
var validReportTransitions = map[ReportStatus][]ReportStatus{
	ReportPending: {ReportRunning, ReportFailed},
	ReportRunning: {ReportCompleted, ReportFailed},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	for _, allowed := range validReportTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// UsageRow is one month of usage/cost figures for a single region.
type UsageRow struct {
	Period     Period  `json:"period" bson:"period"`
	Region     string  `json:"region" bson:"region"`
	UsageHours float64 `json:"usage_hours" bson:"usage_hours"`
	CostUSD    float64 `json:"cost_usd" bson:"cost_usd"`
}

// Report is a usage/cost report generated for one account over a period range.
type Report struct {
	ID          string       `json:"id" bson:"_id,omitempty"`
	AccountID   string       `json:"account_id" bson:"account_id"`
	Start       Period       `json:"start" bson:"start"`
	End         Period       `json:"end" bson:"end"`
	Status      ReportStatus `json:"status" bson:"status"`
	Rows        []UsageRow   `json:"rows,omitempty" bson:"rows,omitempty"`
	RequestedBy string       `json:"requested_by" bson:"requested_by"`
	RequestedAt time.Time    `json:"requested_at" bson:"requested_at"`
	CompletedAt time.Time    `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	Error       string       `json:"error,omitempty" bson:"error,omitempty"`
}
