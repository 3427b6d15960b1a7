package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BillPayment struct {
	ID          int             `gorm:"primary_key" json:"id"`
	TenantId    string          `gorm:"size:36;index;not null" json:"tenant_id"`
	BillId      int             `gorm:"index;not null" json:"bill_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Method      PaymentMethod   `gorm:"size:16;not null" json:"method"`
	PaymentDate time.Time       `gorm:"not null" json:"payment_date"`
	Reference   string          `gorm:"size:255" json:"reference"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (p *BillPayment) BeforeUpdate(tx *gorm.DB) error {
	return ErrPaymentImmutable
}

func (p *BillPayment) BeforeDelete(tx *gorm.DB) error {
	return ErrPaymentImmutable
}

// NewBillPayment is the input of RecordBillPayment.
type NewBillPayment struct {
	Amount      decimal.Decimal `json:"amount"`
	Method      PaymentMethod   `json:"method" validate:"required"`
	PaymentDate *time.Time      `json:"payment_date"`
	Reference   string          `json:"reference" validate:"max=255"`
}

// AsPayment converts the input so it can be validated like an invoice payment.
func (input *NewBillPayment) AsPayment(billId int) *NewPayment {
	return &NewPayment{
		InvoiceId:   billId,
		Amount:      input.Amount,
		Method:      input.Method,
		PaymentDate: input.PaymentDate,
		Reference:   input.Reference,
	}
}
