package domain

import "time"

// PeriodStatus is the lifecycle state of a financial period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
	PeriodLocked PeriodStatus = "LOCKED" // Terminal, cannot be reopened
)

// FinancialPeriod is a non-overlapping [StartDate, EndDate] window gating all
// postings. Journals may only post into an OPEN period covering their date.
type FinancialPeriod struct {
	PeriodID    string       `json:"periodID"`
	WorkplaceID string       `json:"workplaceID"`
	Name        string       `json:"name"`
	StartDate   time.Time    `json:"startDate"`
	EndDate     time.Time    `json:"endDate"`
	Status      PeriodStatus `json:"status"`
	AuditFields
}

// Covers reports whether the given date falls inside the period window
// (inclusive on both ends, compared at day granularity).
func (p FinancialPeriod) Covers(date time.Time) bool {
	d := date.Truncate(24 * time.Hour)
	return !d.Before(p.StartDate.Truncate(24*time.Hour)) && !d.After(p.EndDate.Truncate(24*time.Hour))
}
