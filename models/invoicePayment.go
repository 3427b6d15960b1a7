package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrPaymentImmutable = errors.New("payments are immutable")

type Payment struct {
	ID          int             `gorm:"primary_key" json:"id"`
	TenantId    string          `gorm:"size:36;index;not null" json:"tenant_id"`
	InvoiceId   int             `gorm:"index;not null" json:"invoice_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Method      PaymentMethod   `gorm:"size:16;not null" json:"method"`
	PaymentDate time.Time       `gorm:"not null" json:"payment_date"`
	Reference   string          `gorm:"size:255" json:"reference"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (p *Payment) BeforeUpdate(tx *gorm.DB) error {
	return ErrPaymentImmutable
}

func (p *Payment) BeforeDelete(tx *gorm.DB) error {
	return ErrPaymentImmutable
}

// NewPayment is the input of RecordPayment.
type NewPayment struct {
	InvoiceId   int             `json:"invoice_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method" validate:"required"`
	PaymentDate *time.Time      `json:"payment_date"`
	Reference   string          `json:"reference" validate:"max=255"`
}

// Validate checks the payment input without touching the database.
func (input *NewPayment) Validate() error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if err := utils.RequirePositive("payment amount", input.Amount); err != nil {
		return err
	}
	if !input.Method.IsValid() {
		return utils.ValidationError("invalid payment method %q", input.Method)
	}
	return nil
}

// Date is the payment date, today when not given.
func (input *NewPayment) Date() time.Time {
	if input.PaymentDate != nil {
		return utils.DateOnly(*input.PaymentDate)
	}
	return utils.DateOnly(time.Now())
}

func ListInvoicePayments(ctx context.Context, invoiceId int) ([]*Payment, error) {
	tenantId, db, err := tenantDB(ctx)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[Invoice](db, tenantId, "invoice", invoiceId); err != nil {
		return nil, err
	}
	var payments []*Payment
	if err := db.Where("tenant_id = ? AND invoice_id = ?", tenantId, invoiceId).Order("id").Find(&payments).Error; err != nil {
		return nil, utils.DatabaseError(err)
	}
	return payments, nil
}
