package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
)

// MoneyPlaces is the scale every monetary amount is rounded to.
const MoneyPlaces = 2

// RoundAmount applies the single, centralized rounding rule (round-half-up to
// two places) used for all monetary math.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	// decimal.Round rounds half away from zero, which is half-up for the
	// positive amounts the ledger deals in.
	return d.Round(MoneyPlaces)
}

// SignedDelta computes the balance change a (debit, credit) pair causes on an
// account, using the account's normal-balance side:
// ASSET/EXPENSE grow with debits, LIABILITY/EQUITY/REVENUE grow with credits.
func SignedDelta(accountType domain.AccountType, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debit.Sub(credit), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// LineDelta computes the balance change one journal line causes on its account.
func LineDelta(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	return SignedDelta(accountType, line.Debit, line.Credit)
}

// SumLines returns the debit and credit totals of a set of journal lines.
func SumLines(lines []domain.JournalLine) (totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, l := range lines {
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}
	return totalDebit, totalCredit
}
