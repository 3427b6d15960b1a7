package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Account struct {
	ID            int         `gorm:"primary_key" json:"id"`
	TenantId      string      `gorm:"size:36;index;not null" json:"tenant_id"`
	ParentId      *int        `gorm:"index" json:"parent_id"`
	AccountNumber string      `gorm:"size:32;not null" json:"account_number"`
	Name          string      `gorm:"size:255;not null" json:"name"`
	AccountType   AccountType `gorm:"size:32;not null" json:"account_type"`
	DetailType    string      `gorm:"size:64" json:"detail_type"`
	Description   string      `gorm:"type:text" json:"description"`
	// running balance on the account's normal side; moved by journal entries
	Balance   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"balance"`
	IsActive  *bool           `gorm:"not null;default:true" json:"is_active"`
	IsSystem  *bool           `gorm:"not null;default:false" json:"is_system"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAccount struct {
	ParentId       *int            `json:"parent_id"`
	AccountNumber  string          `json:"account_number" validate:"required,max=32"`
	Name           string          `json:"name" validate:"required,max=255"`
	AccountType    AccountType     `json:"account_type" validate:"required"`
	DetailType     string          `json:"detail_type"`
	Description    string          `json:"description"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	IsSystem       bool            `json:"is_system"`
}

func (a Account) Active() bool {
	return a.IsActive == nil || *a.IsActive
}

func (input *NewAccount) validate(tx *gorm.DB, tenantId string) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if !input.AccountType.IsValid() {
		return utils.ValidationError("invalid account type %q", input.AccountType)
	}
	if input.ParentId != nil {
		if err := utils.ValidateResourceId[Account](tx, tenantId, "parent account", *input.ParentId); err != nil {
			return err
		}
	}
	return utils.ValidateUnique[Account](tx, tenantId, "account_number", input.AccountNumber, 0)
}

func CreateAccount(ctx context.Context, input *NewAccount) (*Account, error) {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return nil, err
	}
	var account Account
	err = createInTx(ctx, tenantId, func(tx *gorm.DB) error {
		var err error
		account, err = createAccountTx(tx, tenantId, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func createAccountTx(tx *gorm.DB, tenantId string, input *NewAccount) (Account, error) {
	if err := input.validate(tx, tenantId); err != nil {
		return Account{}, err
	}
	isSystem := input.IsSystem
	account := Account{
		TenantId:      tenantId,
		ParentId:      input.ParentId,
		AccountNumber: input.AccountNumber,
		Name:          input.Name,
		AccountType:   input.AccountType,
		DetailType:    input.DetailType,
		Description:   input.Description,
		Balance:       input.OpeningBalance,
		IsActive:      utils.NewTrue(),
		IsSystem:      &isSystem,
	}
	if err := tx.Create(&account).Error; err != nil {
		return Account{}, utils.DatabaseError(err)
	}
	return account, nil
}

func GetAccount(ctx context.Context, id int) (*Account, error) {
	return getTenantModel[Account](ctx, "account", id)
}

// ListAccounts returns the chart of accounts ordered by account number.
func ListAccounts(ctx context.Context) ([]*Account, error) {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchAllModels[Account](ctx, tenantId, "account_number")
}

// DefaultChartOfAccounts is the chart seeded for a new tenant.
var DefaultChartOfAccounts = []NewAccount{
	{AccountNumber: "1000", Name: "Cash", AccountType: AccountTypeBank, DetailType: "Cash", IsSystem: true},
	{AccountNumber: "1010", Name: "Checking", AccountType: AccountTypeBank, DetailType: "Bank", IsSystem: true},
	{AccountNumber: "1100", Name: "Accounts Receivable", AccountType: AccountTypeAccountsReceivable, IsSystem: true},
	{AccountNumber: "1200", Name: "Inventory", AccountType: AccountTypeOtherCurrentAsset, DetailType: "Stock", IsSystem: true},
	{AccountNumber: "1500", Name: "Equipment", AccountType: AccountTypeFixedAsset},
	{AccountNumber: "2000", Name: "Accounts Payable", AccountType: AccountTypeAccountsPayable, IsSystem: true},
	{AccountNumber: "2100", Name: "Credit Card", AccountType: AccountTypeCreditCard},
	{AccountNumber: "2200", Name: "Sales Tax Payable", AccountType: AccountTypeOtherCurrentLiability},
	{AccountNumber: "2700", Name: "Long Term Loan", AccountType: AccountTypeLongTermLiability},
	{AccountNumber: "3000", Name: "Owner's Equity", AccountType: AccountTypeEquity, IsSystem: true},
	{AccountNumber: "3900", Name: "Retained Earnings", AccountType: AccountTypeEquity, IsSystem: true},
	{AccountNumber: "4000", Name: "Sales Income", AccountType: AccountTypeIncome, IsSystem: true},
	{AccountNumber: "4900", Name: "Other Income", AccountType: AccountTypeOtherIncome},
	{AccountNumber: "5000", Name: "Cost of Goods Sold", AccountType: AccountTypeCostOfGoodsSold, IsSystem: true},
	{AccountNumber: "6000", Name: "Operating Expenses", AccountType: AccountTypeExpense},
	{AccountNumber: "6100", Name: "Payroll Expenses", AccountType: AccountTypeExpense},
	{AccountNumber: "7000", Name: "Other Expenses", AccountType: AccountTypeOtherExpense},
}

// SeedDefaultAccounts creates the default chart for the tenant of ctx,
// skipping account numbers that already exist. It returns the created accounts.
func SeedDefaultAccounts(ctx context.Context) ([]*Account, error) {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return nil, err
	}
	var created []*Account
	err = createInTx(ctx, tenantId, func(tx *gorm.DB) error {
		for i := range DefaultChartOfAccounts {
			input := DefaultChartOfAccounts[i]
			var count int64
			if err := tx.Model(&Account{}).Where("tenant_id = ? AND account_number = ?", tenantId, input.AccountNumber).
				Count(&count).Error; err != nil {
				return utils.DatabaseError(err)
			}
			if count > 0 {
				continue
			}
			account, err := createAccountTx(tx, tenantId, &input)
			if err != nil {
				return err
			}
			created = append(created, &account)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
