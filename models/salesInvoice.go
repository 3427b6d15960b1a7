package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Invoice struct {
	ID            int             `gorm:"primary_key" json:"id"`
	TenantId      string          `gorm:"size:36;index;not null" json:"tenant_id"`
	CustomerId    int             `gorm:"index;not null" json:"customer_id"`
	SalesOrderId  *int            `gorm:"index" json:"sales_order_id"`
	InvoiceNumber string          `gorm:"size:64;not null" json:"invoice_number"`
	InvoiceDate   time.Time       `gorm:"not null" json:"invoice_date"`
	DueDate       time.Time       `gorm:"not null" json:"due_date"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total_amount"`
	// only ever increases, through RecordPayment
	AmountPaid decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"amount_paid"`
	Status     InvoiceStatus   `gorm:"size:16;not null" json:"status"`
	Notes      string          `gorm:"type:text" json:"notes"`
	Payments   []Payment       `json:"payments,omitempty"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewInvoice struct {
	CustomerId    int             `json:"customer_id" validate:"required"`
	SalesOrderId  *int            `json:"sales_order_id"`
	InvoiceNumber string          `json:"invoice_number" validate:"required,max=64"`
	InvoiceDate   *time.Time      `json:"invoice_date"`
	DueDate       *time.Time      `json:"due_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Notes         string          `json:"notes"`
}

// Outstanding is the unpaid remainder; negative when overpaid.
func (inv Invoice) Outstanding() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.AmountPaid)
}

// PaidStatus derives the status of a document once payments have begun.
func PaidStatus(total, paid decimal.Decimal) InvoiceStatus {
	if paid.GreaterThanOrEqual(total) {
		return InvoiceStatusPaid
	}
	return InvoiceStatusPartiallyPaid
}

func (input *NewInvoice) validate(tx *gorm.DB, tenantId string) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if err := utils.RequirePositive("total amount", input.TotalAmount); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Customer](tx, tenantId, "customer", input.CustomerId); err != nil {
		return err
	}
	if input.SalesOrderId != nil {
		if err := utils.ValidateResourceId[SalesOrder](tx, tenantId, "sales order", *input.SalesOrderId); err != nil {
			return err
		}
	}
	return utils.ValidateUnique[Invoice](tx, tenantId, "invoice_number", input.InvoiceNumber, 0)
}

// CreateInvoice creates an invoice in Draft. Due date defaults to 30 days after the invoice date.
func CreateInvoice(ctx context.Context, input *NewInvoice) (*Invoice, error) {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return nil, err
	}
	invoiceDate := utils.DateOnly(time.Now())
	if input.InvoiceDate != nil {
		invoiceDate = utils.DateOnly(*input.InvoiceDate)
	}
	dueDate := invoiceDate.AddDate(0, 0, 30)
	if input.DueDate != nil {
		dueDate = utils.DateOnly(*input.DueDate)
	}
	if dueDate.Before(invoiceDate) {
		return nil, utils.ValidationError("due date must not be before invoice date")
	}

	var invoice Invoice
	err = createInTx(ctx, tenantId, func(tx *gorm.DB) error {
		if err := input.validate(tx, tenantId); err != nil {
			return err
		}
		invoice = Invoice{
			TenantId:      tenantId,
			CustomerId:    input.CustomerId,
			SalesOrderId:  input.SalesOrderId,
			InvoiceNumber: input.InvoiceNumber,
			InvoiceDate:   invoiceDate,
			DueDate:       dueDate,
			TotalAmount:   input.TotalAmount,
			AmountPaid:    decimal.Zero,
			Status:        InvoiceStatusDraft,
			Notes:         input.Notes,
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return utils.DatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func GetInvoice(ctx context.Context, id int) (*Invoice, error) {
	return getTenantModel[Invoice](ctx, "invoice", id, "Payments")
}

func ListInvoices(ctx context.Context, page Pagination) ([]*Invoice, error) {
	return listTenantModels[Invoice](ctx, page)
}
