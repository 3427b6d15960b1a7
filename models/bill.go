package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Bill struct {
	ID              int             `gorm:"primary_key" json:"id"`
	TenantId        string          `gorm:"size:36;index;not null" json:"tenant_id"`
	SupplierId      int             `gorm:"index;not null" json:"supplier_id"`
	PurchaseOrderId *int            `gorm:"index" json:"purchase_order_id"`
	BillNumber      string          `gorm:"size:64;not null" json:"bill_number"`
	BillDate        time.Time       `gorm:"not null" json:"bill_date"`
	DueDate         time.Time       `gorm:"not null" json:"due_date"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total_amount"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"amount_paid"`
	Status          BillStatus      `gorm:"size:16;not null" json:"status"`
	Terms           string          `gorm:"size:64" json:"terms"`
	Notes           string          `gorm:"type:text" json:"notes"`
	Payments        []BillPayment   `json:"payments,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBill struct {
	SupplierId      int             `json:"supplier_id" validate:"required"`
	PurchaseOrderId *int            `json:"purchase_order_id"`
	BillNumber      string          `json:"bill_number" validate:"required,max=64"`
	BillDate        *time.Time      `json:"bill_date"`
	DueDate         time.Time       `json:"due_date"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Terms           string          `json:"terms"`
	Notes           string          `json:"notes"`
}

// BillStatusFor derives the status of a bill once payments have begun.
func BillStatusFor(total, paid decimal.Decimal) BillStatus {
	if PaidStatus(total, paid) == InvoiceStatusPaid {
		return BillStatusPaid
	}
	return BillStatusPartiallyPaid
}

func (input *NewBill) validate(tx *gorm.DB, tenantId string) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if err := utils.RequirePositive("total amount", input.TotalAmount); err != nil {
		return err
	}
	if input.DueDate.IsZero() {
		return utils.ValidationError("due date is required")
	}
	if err := utils.ValidateResourceId[Supplier](tx, tenantId, "supplier", input.SupplierId); err != nil {
		return err
	}
	if input.PurchaseOrderId != nil {
		if err := utils.ValidateResourceId[PurchaseOrder](tx, tenantId, "purchase order", *input.PurchaseOrderId); err != nil {
			return err
		}
	}
	return utils.ValidateUnique[Bill](tx, tenantId, "bill_number", input.BillNumber, 0)
}

// CreateBill records a supplier bill in Open.
func CreateBill(ctx context.Context, input *NewBill) (*Bill, error) {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return nil, err
	}
	billDate := utils.DateOnly(time.Now())
	if input.BillDate != nil {
		billDate = utils.DateOnly(*input.BillDate)
	}

	var bill Bill
	err = createInTx(ctx, tenantId, func(tx *gorm.DB) error {
		if err := input.validate(tx, tenantId); err != nil {
			return err
		}
		bill = Bill{
			TenantId:        tenantId,
			SupplierId:      input.SupplierId,
			PurchaseOrderId: input.PurchaseOrderId,
			BillNumber:      input.BillNumber,
			BillDate:        billDate,
			DueDate:         utils.DateOnly(input.DueDate),
			TotalAmount:     input.TotalAmount,
			AmountPaid:      decimal.Zero,
			Status:          BillStatusOpen,
			Terms:           input.Terms,
			Notes:           input.Notes,
		}
		if err := tx.Create(&bill).Error; err != nil {
			return utils.DatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

func GetBill(ctx context.Context, id int) (*Bill, error) {
	return getTenantModel[Bill](ctx, "bill", id, "Payments")
}

func ListBills(ctx context.Context, page Pagination) ([]*Bill, error) {
	return listTenantModels[Bill](ctx, page)
}
