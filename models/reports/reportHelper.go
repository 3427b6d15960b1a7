package reports

import (
	"time"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportLine is one account with its balance.
type ReportLine struct {
	AccountId     int             `json:"account_id"`
	AccountNumber string          `json:"account_number"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
}

// activeAccounts loads the tenant's active accounts, optionally restricted
// to the given types, ordered by account number.
func activeAccounts(tx *gorm.DB, tenantId string, types ...models.AccountType) ([]*models.Account, error) {
	dbCtx := tx.Where("tenant_id = ? AND is_active = ?", tenantId, true)
	if len(types) > 0 {
		dbCtx = dbCtx.Where("account_type IN ?", types)
	}
	var accounts []*models.Account
	if err := dbCtx.Order("account_number").Find(&accounts).Error; err != nil {
		return nil, utils.DatabaseError(err)
	}
	return accounts, nil
}

func accountLines(accounts []*models.Account) ([]ReportLine, decimal.Decimal) {
	lines := make([]ReportLine, 0, len(accounts))
	total := decimal.Zero
	for _, a := range accounts {
		lines = append(lines, ReportLine{
			AccountId:     a.ID,
			AccountNumber: a.AccountNumber,
			Name:          a.Name,
			Amount:        a.Balance,
		})
		total = total.Add(a.Balance)
	}
	return lines, total
}

// asOfDate is the report date: the given day, or today (UTC).
func asOfDate(asOf *time.Time) time.Time {
	if asOf != nil {
		return utils.DateOnly(*asOf)
	}
	return utils.DateOnly(time.Now())
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// trailingMonths returns the first day of each of the n months ending with
// the month of asOf, oldest first.
func trailingMonths(asOf time.Time, n int) []time.Time {
	first := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := make([]time.Time, n)
	for i := 0; i < n; i++ {
		months[n-1-i] = first.AddDate(0, -i, 0)
	}
	return months
}
