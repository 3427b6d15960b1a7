package reports

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GeneralLedgerFilter struct {
	From      *time.Time
	To        *time.Time
	AccountId *int
}

func (f GeneralLedgerFilter) params() map[string]any {
	p := map[string]any{}
	if f.From != nil {
		p["from"] = formatDate(utils.DateOnly(*f.From))
	}
	if f.To != nil {
		p["to"] = formatDate(utils.DateOnly(*f.To))
	}
	if f.AccountId != nil {
		p["account_id"] = *f.AccountId
	}
	return p
}

type GeneralLedgerLine struct {
	Date          string          `json:"date"`
	EntryId       int             `json:"entry_id"`
	EntryNumber   string          `json:"entry_number"`
	AccountId     int             `json:"account_id"`
	AccountNumber string          `json:"account_number"`
	AccountName   string          `json:"account_name"`
	Description   string          `json:"description"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	// debit - credit of this line
	Balance decimal.Decimal `json:"balance"`
}

type GeneralLedger struct {
	Lines        []GeneralLedgerLine `json:"lines"`
	TotalDebits  decimal.Decimal     `json:"total_debits"`
	TotalCredits decimal.Decimal     `json:"total_credits"`
}

// GetGeneralLedgerReport lists journal lines with their account and entry in
// posting order (entry date, entry, line order).
func GetGeneralLedgerReport(ctx context.Context, filter GeneralLedgerFilter) (*GeneralLedger, error) {
	return runReport(ctx, "general_ledger", filter.params(), func(tx *gorm.DB, tenantId string) (*GeneralLedger, error) {
		if filter.AccountId != nil {
			if err := utils.ValidateResourceId[models.Account](tx, tenantId, "account", *filter.AccountId); err != nil {
				return nil, err
			}
		}
		dbCtx := tx.Where("tenant_id = ?", tenantId)
		if filter.From != nil {
			dbCtx = dbCtx.Where("entry_date >= ?", utils.DateOnly(*filter.From))
		}
		if filter.To != nil {
			dbCtx = dbCtx.Where("entry_date < ?", utils.DateOnly(*filter.To).AddDate(0, 0, 1))
		}
		var entries []*models.JournalEntry
		if err := dbCtx.Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Where("tenant_id = ?", tenantId).Order("sort_order, id")
		}).Order("entry_date, id").Find(&entries).Error; err != nil {
			return nil, utils.DatabaseError(err)
		}

		var accounts []*models.Account
		if err := tx.Where("tenant_id = ?", tenantId).Find(&accounts).Error; err != nil {
			return nil, utils.DatabaseError(err)
		}
		byId := make(map[int]*models.Account, len(accounts))
		for _, a := range accounts {
			byId[a.ID] = a
		}

		report := &GeneralLedger{Lines: []GeneralLedgerLine{}, TotalDebits: decimal.Zero, TotalCredits: decimal.Zero}
		for _, e := range entries {
			for _, l := range e.Lines {
				if filter.AccountId != nil && l.AccountId != *filter.AccountId {
					continue
				}
				line := GeneralLedgerLine{
					Date:        formatDate(e.EntryDate),
					EntryId:     e.ID,
					EntryNumber: e.EntryNumber,
					AccountId:   l.AccountId,
					Description: l.Memo,
					Debit:       l.Debit,
					Credit:      l.Credit,
					Balance:     l.Debit.Sub(l.Credit),
				}
				if line.Description == "" {
					line.Description = e.Memo
				}
				if a, ok := byId[l.AccountId]; ok {
					line.AccountNumber = a.AccountNumber
					line.AccountName = a.Name
				}
				report.TotalDebits = report.TotalDebits.Add(l.Debit)
				report.TotalCredits = report.TotalCredits.Add(l.Credit)
				report.Lines = append(report.Lines, line)
			}
		}
		return report, nil
	})
}

func (r *GeneralLedger) Table() ReportTable {
	t := ReportTable{
		Title:  "General Ledger",
		Header: []string{"Date", "Entry", "Account Number", "Account Name", "Description", "Debit", "Credit", "Balance"},
	}
	for _, l := range r.Lines {
		t.Rows = append(t.Rows, []any{l.Date, l.EntryNumber, l.AccountNumber, l.AccountName, l.Description, l.Debit, l.Credit, l.Balance})
	}
	t.Totals = []any{"Total", "", "", "", "", r.TotalDebits, r.TotalCredits, r.TotalDebits.Sub(r.TotalCredits)}
	return t
}
