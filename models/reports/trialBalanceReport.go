package reports

import (
	"context"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TrialBalanceLine struct {
	AccountId     int                `json:"account_id"`
	AccountNumber string             `json:"account_number"`
	AccountName   string             `json:"account_name"`
	AccountType   models.AccountType `json:"account_type"`
	Debit         decimal.Decimal    `json:"debit"`
	Credit        decimal.Decimal    `json:"credit"`
}

type TrialBalance struct {
	Lines        []TrialBalanceLine `json:"lines"`
	TotalDebits  decimal.Decimal    `json:"total_debits"`
	TotalCredits decimal.Decimal    `json:"total_credits"`
	// reported only; an unbalanced book is not an error here
	IsBalanced bool `json:"is_balanced"`
}

// GetTrialBalanceReport places every active account's balance in the column
// of its normal side and totals both columns.
func GetTrialBalanceReport(ctx context.Context) (*TrialBalance, error) {
	return runReport(ctx, "trial_balance", nil, func(tx *gorm.DB, tenantId string) (*TrialBalance, error) {
		accounts, err := activeAccounts(tx, tenantId)
		if err != nil {
			return nil, err
		}
		report := &TrialBalance{
			Lines:        make([]TrialBalanceLine, 0, len(accounts)),
			TotalDebits:  decimal.Zero,
			TotalCredits: decimal.Zero,
		}
		for _, a := range accounts {
			line := TrialBalanceLine{
				AccountId:     a.ID,
				AccountNumber: a.AccountNumber,
				AccountName:   a.Name,
				AccountType:   a.AccountType,
				Debit:         decimal.Zero,
				Credit:        decimal.Zero,
			}
			if a.AccountType.IsDebitNormal() {
				line.Debit = a.Balance
				report.TotalDebits = report.TotalDebits.Add(a.Balance)
			} else {
				line.Credit = a.Balance
				report.TotalCredits = report.TotalCredits.Add(a.Balance)
			}
			report.Lines = append(report.Lines, line)
		}
		report.IsBalanced = report.TotalDebits.Equal(report.TotalCredits)
		return report, nil
	})
}

func (r *TrialBalance) Table() ReportTable {
	t := ReportTable{
		Title:  "Trial Balance",
		Header: []string{"Account Number", "Account Name", "Account Type", "Debit", "Credit"},
	}
	for _, l := range r.Lines {
		t.Rows = append(t.Rows, []any{l.AccountNumber, l.AccountName, string(l.AccountType), l.Debit, l.Credit})
	}
	t.Totals = []any{"Total", "", "", r.TotalDebits, r.TotalCredits}
	return t
}
