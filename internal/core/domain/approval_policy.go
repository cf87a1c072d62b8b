package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApprovalPolicy is the single threshold table shared by the journal service
// and the approval engine, so the two can never diverge on which level an
// amount requires.
type ApprovalPolicy struct {
	// Amounts up to and including Level1Max require LEVEL_1, up to
	// Level2Max require LEVEL_2, anything above requires LEVEL_3.
	Level1Max decimal.Decimal
	Level2Max decimal.Decimal
	// DueIn maps priority (1..10) to the advisory SLA window added to the
	// submission time. Must be monotonically non-decreasing.
	DueIn map[int]time.Duration
}

// DefaultApprovalPolicy returns the stock thresholds (50,000 / 500,000) and
// the 1 day .. 7 days priority ladder.
func DefaultApprovalPolicy() ApprovalPolicy {
	return ApprovalPolicy{
		Level1Max: decimal.NewFromInt(50000),
		Level2Max: decimal.NewFromInt(500000),
		DueIn: map[int]time.Duration{
			1:  24 * time.Hour,
			2:  24 * time.Hour,
			3:  48 * time.Hour,
			4:  48 * time.Hour,
			5:  72 * time.Hour,
			6:  72 * time.Hour,
			7:  96 * time.Hour,
			8:  120 * time.Hour,
			9:  144 * time.Hour,
			10: 168 * time.Hour,
		},
	}
}

// LevelFor returns the approval level required for the given amount.
func (p ApprovalPolicy) LevelFor(amount decimal.Decimal) ApprovalLevel {
	switch {
	case amount.LessThanOrEqual(p.Level1Max):
		return ApprovalLevel1
	case amount.LessThanOrEqual(p.Level2Max):
		return ApprovalLevel2
	default:
		return ApprovalLevel3
	}
}

// DueDateFor computes the advisory due date for a request submitted at the
// given time with the given priority. Out-of-range priorities clamp to the
// nearest defined entry.
func (p ApprovalPolicy) DueDateFor(submittedAt time.Time, priority int) time.Time {
	if priority < 1 {
		priority = 1
	} else if priority > 10 {
		priority = 10
	}
	d, ok := p.DueIn[priority]
	if !ok {
		d = 168 * time.Hour
	}
	return submittedAt.Add(d)
}

// MinimumRoleFor maps an approval level to the workplace role allowed to act
// on it. Higher levels require more senior roles.
func (p ApprovalPolicy) MinimumRoleFor(level ApprovalLevel) UserWorkplaceRole {
	switch level {
	case ApprovalLevel3:
		return RoleAdmin
	default:
		return RoleApprover
	}
}
