package reports

import (
	"context"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BalanceSheet struct {
	Assets           []ReportLine    `json:"assets"`
	Liabilities      []ReportLine    `json:"liabilities"`
	Equity           []ReportLine    `json:"equity"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalEquity      decimal.Decimal `json:"total_equity"`
}

// GetBalanceSheetReport groups active accounts into assets, liabilities and
// equity. assets = liabilities + equity is not checked.
func GetBalanceSheetReport(ctx context.Context) (*BalanceSheet, error) {
	return runReport(ctx, "balance_sheet", nil, func(tx *gorm.DB, tenantId string) (*BalanceSheet, error) {
		accounts, err := activeAccounts(tx, tenantId)
		if err != nil {
			return nil, err
		}
		var assets, liabilities, equity []*models.Account
		for _, a := range accounts {
			switch {
			case a.AccountType.IsAsset():
				assets = append(assets, a)
			case a.AccountType.IsLiability():
				liabilities = append(liabilities, a)
			case a.AccountType == models.AccountTypeEquity:
				equity = append(equity, a)
			}
		}
		report := &BalanceSheet{}
		report.Assets, report.TotalAssets = accountLines(assets)
		report.Liabilities, report.TotalLiabilities = accountLines(liabilities)
		report.Equity, report.TotalEquity = accountLines(equity)
		return report, nil
	})
}

func (r *BalanceSheet) Table() ReportTable {
	t := ReportTable{
		Title:  "Balance Sheet",
		Header: []string{"Section", "Account Number", "Account Name", "Amount"},
	}
	section := func(name string, lines []ReportLine, total decimal.Decimal) {
		for _, l := range lines {
			t.Rows = append(t.Rows, []any{name, l.AccountNumber, l.Name, l.Amount})
		}
		t.Rows = append(t.Rows, []any{"Total " + name, "", "", total})
	}
	section("Assets", r.Assets, r.TotalAssets)
	section("Liabilities", r.Liabilities, r.TotalLiabilities)
	section("Equity", r.Equity, r.TotalEquity)
	t.Totals = []any{"Liabilities and Equity", "", "", r.TotalLiabilities.Add(r.TotalEquity)}
	return t
}
