package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type JournalEntry struct {
	ID          int                `gorm:"primary_key" json:"id"`
	TenantId    string             `gorm:"size:36;index;not null" json:"tenant_id"`
	EntryNumber string             `gorm:"size:64;not null" json:"entry_number"`
	EntryDate   time.Time          `gorm:"not null;index" json:"entry_date"`
	Memo        string             `gorm:"type:text" json:"memo"`
	IsAdjusting bool               `gorm:"not null;default:false" json:"is_adjusting"`
	TotalAmount decimal.Decimal    `gorm:"type:decimal(20,4);not null" json:"total_amount"`
	Lines       []JournalEntryLine `json:"lines"`
	CreatedAt   time.Time          `gorm:"autoCreateTime" json:"created_at"`
}

type JournalEntryLine struct {
	ID             int             `gorm:"primary_key" json:"id"`
	TenantId       string          `gorm:"size:36;index;not null" json:"tenant_id"`
	JournalEntryId int             `gorm:"index;not null" json:"journal_entry_id"`
	AccountId      int             `gorm:"index;not null" json:"account_id"`
	Debit          decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"debit"`
	Credit         decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"credit"`
	Memo           string          `gorm:"size:255" json:"memo"`
	SortOrder      int             `gorm:"not null;default:0" json:"sort_order"`
}

type NewJournalEntry struct {
	EntryNumber string                 `json:"entry_number" validate:"required,max=64"`
	EntryDate   *time.Time             `json:"entry_date"`
	Memo        string                 `json:"memo"`
	IsAdjusting bool                   `json:"is_adjusting"`
	Lines       []*NewJournalEntryLine `json:"lines" validate:"required,min=2,dive,required"`
}

type NewJournalEntryLine struct {
	AccountId int             `json:"account_id" validate:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo" validate:"max=255"`
}

// receiveJournalLines checks that every line posts to exactly one side and
// that the entry balances, returning the lines and the entry total.
func receiveJournalLines(tenantId string, input *NewJournalEntry) ([]JournalEntryLine, decimal.Decimal, error) {
	lines := make([]JournalEntryLine, 0, len(input.Lines))
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, l := range input.Lines {
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return nil, decimal.Zero, utils.ValidationError("line %d: debit and credit must not be negative", i+1)
		}
		if l.Debit.IsZero() == l.Credit.IsZero() {
			return nil, decimal.Zero, utils.ValidationError("line %d: exactly one of debit or credit must have value", i+1)
		}
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
		lines = append(lines, JournalEntryLine{
			TenantId:  tenantId,
			AccountId: l.AccountId,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
			SortOrder: i,
		})
	}
	if !totalDebit.Equal(totalCredit) {
		return nil, decimal.Zero, utils.ValidationError("journal entry is not balanced: debits %s, credits %s",
			totalDebit.String(), totalCredit.String())
	}
	return lines, totalDebit, nil
}

// CreateJournalEntry posts a balanced entry and moves each account's running
// balance on its normal side, all in one transaction.
func CreateJournalEntry(ctx context.Context, input *NewJournalEntry) (*JournalEntry, error) {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	lines, total, err := receiveJournalLines(tenantId, input)
	if err != nil {
		return nil, err
	}
	entryDate := utils.DateOnly(time.Now())
	if input.EntryDate != nil {
		entryDate = utils.DateOnly(*input.EntryDate)
	}

	entry := JournalEntry{
		TenantId:    tenantId,
		EntryNumber: input.EntryNumber,
		EntryDate:   entryDate,
		Memo:        input.Memo,
		IsAdjusting: input.IsAdjusting,
		TotalAmount: total,
		Lines:       lines,
	}
	err = createInTx(ctx, tenantId, func(tx *gorm.DB) error {
		if err := utils.ValidateUnique[JournalEntry](tx, tenantId, "entry_number", input.EntryNumber, 0); err != nil {
			return err
		}
		accounts := make(map[int]*Account)
		for _, l := range lines {
			if _, ok := accounts[l.AccountId]; ok {
				continue
			}
			account, err := utils.FetchModelTx[Account](tx, tenantId, "account", l.AccountId)
			if err != nil {
				return err
			}
			if !account.Active() {
				return utils.BusinessRuleError("account %s is inactive", account.AccountNumber)
			}
			accounts[l.AccountId] = account
		}
		if err := tx.Create(&entry).Error; err != nil {
			return utils.DatabaseError(err)
		}
		for _, l := range lines {
			change := l.Debit.Sub(l.Credit)
			if !accounts[l.AccountId].AccountType.IsDebitNormal() {
				change = change.Neg()
			}
			if err := tx.Model(&Account{}).Where("tenant_id = ? AND id = ?", tenantId, l.AccountId).
				UpdateColumn("balance", gorm.Expr("balance + ?", change)).Error; err != nil {
				return utils.DatabaseError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func GetJournalEntry(ctx context.Context, id int) (*JournalEntry, error) {
	tenantId, db, err := tenantDB(ctx)
	if err != nil {
		return nil, err
	}
	var entry JournalEntry
	if err := db.Where("tenant_id = ?", tenantId).Preload("Lines", orderedLines).First(&entry, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NotFoundError("journal entry")
		}
		return nil, utils.DatabaseError(err)
	}
	return &entry, nil
}

func ListJournalEntries(ctx context.Context, page Pagination) ([]*JournalEntry, error) {
	tenantId, db, err := tenantDB(ctx)
	if err != nil {
		return nil, err
	}
	var entries []*JournalEntry
	if err := page.apply(db.Where("tenant_id = ?", tenantId).
		Preload("Lines", orderedLines).Order("entry_date, id")).
		Find(&entries).Error; err != nil {
		return nil, utils.DatabaseError(err)
	}
	return entries, nil
}
