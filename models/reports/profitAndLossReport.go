package reports

import (
	"context"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProfitAndLoss struct {
	Income        []ReportLine    `json:"income"`
	Cogs          []ReportLine    `json:"cogs"`
	Expenses      []ReportLine    `json:"expenses"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalCogs     decimal.Decimal `json:"total_cogs"`
	GrossProfit   decimal.Decimal `json:"gross_profit"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
}

func GetProfitAndLossReport(ctx context.Context) (*ProfitAndLoss, error) {
	return runReport(ctx, "profit_and_loss", nil, func(tx *gorm.DB, tenantId string) (*ProfitAndLoss, error) {
		income, err := activeAccounts(tx, tenantId, models.AccountTypeIncome, models.AccountTypeOtherIncome)
		if err != nil {
			return nil, err
		}
		cogs, err := activeAccounts(tx, tenantId, models.AccountTypeCostOfGoodsSold)
		if err != nil {
			return nil, err
		}
		expenses, err := activeAccounts(tx, tenantId, models.AccountTypeExpense, models.AccountTypeOtherExpense)
		if err != nil {
			return nil, err
		}

		report := &ProfitAndLoss{}
		report.Income, report.TotalIncome = accountLines(income)
		report.Cogs, report.TotalCogs = accountLines(cogs)
		report.Expenses, report.TotalExpenses = accountLines(expenses)
		report.GrossProfit = report.TotalIncome.Sub(report.TotalCogs)
		report.NetIncome = report.GrossProfit.Sub(report.TotalExpenses)
		return report, nil
	})
}

func (r *ProfitAndLoss) Table() ReportTable {
	t := ReportTable{
		Title:  "Profit and Loss",
		Header: []string{"Section", "Account Number", "Account Name", "Amount"},
	}
	section := func(name string, lines []ReportLine, total decimal.Decimal) {
		for _, l := range lines {
			t.Rows = append(t.Rows, []any{name, l.AccountNumber, l.Name, l.Amount})
		}
		t.Rows = append(t.Rows, []any{"Total " + name, "", "", total})
	}
	section("Income", r.Income, r.TotalIncome)
	section("Cost of Goods Sold", r.Cogs, r.TotalCogs)
	t.Rows = append(t.Rows, []any{"Gross Profit", "", "", r.GrossProfit})
	section("Expenses", r.Expenses, r.TotalExpenses)
	t.Totals = []any{"Net Income", "", "", r.NetIncome}
	return t
}
