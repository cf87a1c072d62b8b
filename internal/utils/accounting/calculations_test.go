package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/traxel-labs/erp_ledger_app/internal/core/domain"
	"github.com/traxel-labs/erp_ledger_app/internal/utils/accounting"
)

func TestRoundAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "exact two places untouched", input: "100.25", want: "100.25"},
		{name: "half rounds up", input: "10.005", want: "10.01"},
		{name: "below half rounds down", input: "10.004", want: "10.00"},
		{name: "integer gains no places", input: "7", want: "7"},
		{name: "long tail truncates with rounding", input: "33.333333", want: "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.RoundAmount(decimal.RequireFromString(tt.input))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"RoundAmount(%s) = %s, want %s", tt.input, got, tt.want)
		})
	}
}

func TestSignedDelta(t *testing.T) {
	debit := decimal.NewFromInt(100)
	credit := decimal.NewFromInt(30)

	tests := []struct {
		name        string
		accountType domain.AccountType
		want        string
	}{
		{name: "asset grows with debits", accountType: domain.Asset, want: "70"},
		{name: "expense grows with debits", accountType: domain.Expense, want: "70"},
		{name: "liability grows with credits", accountType: domain.Liability, want: "-70"},
		{name: "equity grows with credits", accountType: domain.Equity, want: "-70"},
		{name: "revenue grows with credits", accountType: domain.Revenue, want: "-70"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.SignedDelta(tt.accountType, debit, credit)
			assert.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"SignedDelta = %s, want %s", got, tt.want)
		})
	}

	_, err := accounting.SignedDelta(domain.AccountType("BOGUS"), debit, credit)
	assert.Error(t, err, "Unknown account type should error")
}

func TestLineDelta(t *testing.T) {
	line := domain.JournalLine{
		Debit:  decimal.Zero,
		Credit: decimal.NewFromInt(250),
	}

	delta, err := accounting.LineDelta(line, domain.Revenue)
	assert.NoError(t, err)
	assert.True(t, delta.Equal(decimal.NewFromInt(250)), "Credit to revenue should increase its balance")

	delta, err = accounting.LineDelta(line, domain.Asset)
	assert.NoError(t, err)
	assert.True(t, delta.Equal(decimal.NewFromInt(-250)), "Credit to an asset should decrease its balance")
}

func TestSumLines(t *testing.T) {
	lines := []domain.JournalLine{
		{Debit: decimal.NewFromInt(100)},
		{Debit: decimal.NewFromInt(50)},
		{Credit: decimal.NewFromInt(150)},
	}

	totalDebit, totalCredit := accounting.SumLines(lines)
	assert.True(t, totalDebit.Equal(decimal.NewFromInt(150)))
	assert.True(t, totalCredit.Equal(decimal.NewFromInt(150)))

	totalDebit, totalCredit = accounting.SumLines(nil)
	assert.True(t, totalDebit.IsZero())
	assert.True(t, totalCredit.IsZero())
}
