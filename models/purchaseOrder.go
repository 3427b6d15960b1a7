package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PurchaseOrder struct {
	ID           int                 `gorm:"primary_key" json:"id"`
	TenantId     string              `gorm:"size:36;index;not null" json:"tenant_id"`
	SupplierId   int                 `gorm:"index;not null" json:"supplier_id"`
	OrderNumber  string              `gorm:"size:64;not null" json:"order_number"`
	OrderDate    time.Time           `gorm:"not null" json:"order_date"`
	Status       PurchaseOrderStatus `gorm:"size:16;not null" json:"status"`
	TotalAmount  decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Notes        string              `gorm:"type:text" json:"notes"`
	ReceivedDate *time.Time          `json:"received_date"`
	Lines        []PurchaseOrderLine `json:"lines"`
	CreatedAt    time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseOrderLine struct {
	ID              int             `gorm:"primary_key" json:"id"`
	TenantId        string          `gorm:"size:36;index;not null" json:"tenant_id"`
	PurchaseOrderId int             `gorm:"index;not null" json:"purchase_order_id"`
	ProductId       int             `gorm:"not null" json:"product_id"`
	Quantity        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"line_total"`
	SortOrder       int             `gorm:"not null;default:0" json:"sort_order"`
}

// NewOrderLine is the input line shared by purchase and sales orders.
type NewOrderLine struct {
	ProductId int             `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type NewPurchaseOrder struct {
	SupplierId  int             `json:"supplier_id" validate:"required"`
	OrderNumber string          `json:"order_number" validate:"required,max=64"`
	OrderDate   *time.Time      `json:"order_date"`
	Notes       string          `json:"notes"`
	Lines       []*NewOrderLine `json:"lines" validate:"required,min=1,dive,required"`
}

// validateOrderLines checks quantities and prices and that every product exists.
func validateOrderLines(tx *gorm.DB, tenantId string, lines []*NewOrderLine) error {
	productIds := make([]int, 0, len(lines))
	for _, l := range lines {
		if err := utils.RequirePositive("line quantity", l.Quantity); err != nil {
			return err
		}
		if l.UnitPrice.IsNegative() {
			return utils.ValidationError("line unit price must not be negative")
		}
		productIds = append(productIds, l.ProductId)
	}
	return utils.ValidateResourceIds[Product](tx, tenantId, "product", productIds)
}

// orderTotal is the sum of quantity × unit price over the lines.
func orderTotal(lines []*NewOrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Quantity.Mul(l.UnitPrice))
	}
	return total
}

func (input *NewPurchaseOrder) validate(tx *gorm.DB, tenantId string) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Supplier](tx, tenantId, "supplier", input.SupplierId); err != nil {
		return err
	}
	if err := utils.ValidateUnique[PurchaseOrder](tx, tenantId, "order_number", input.OrderNumber, 0); err != nil {
		return err
	}
	return validateOrderLines(tx, tenantId, input.Lines)
}

// CreatePurchaseOrder creates an order in Draft.
func CreatePurchaseOrder(ctx context.Context, input *NewPurchaseOrder) (*PurchaseOrder, error) {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return nil, err
	}
	orderDate := utils.DateOnly(time.Now())
	if input.OrderDate != nil {
		orderDate = utils.DateOnly(*input.OrderDate)
	}

	var order PurchaseOrder
	err = createInTx(ctx, tenantId, func(tx *gorm.DB) error {
		if err := input.validate(tx, tenantId); err != nil {
			return err
		}
		lines := make([]PurchaseOrderLine, 0, len(input.Lines))
		for i, l := range input.Lines {
			lines = append(lines, PurchaseOrderLine{
				TenantId:  tenantId,
				ProductId: l.ProductId,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
				LineTotal: l.Quantity.Mul(l.UnitPrice),
				SortOrder: i,
			})
		}
		order = PurchaseOrder{
			TenantId:    tenantId,
			SupplierId:  input.SupplierId,
			OrderNumber: input.OrderNumber,
			OrderDate:   orderDate,
			Status:      PurchaseOrderStatusDraft,
			TotalAmount: orderTotal(input.Lines),
			Notes:       input.Notes,
			Lines:       lines,
		}
		if err := tx.Create(&order).Error; err != nil {
			return utils.DatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func GetPurchaseOrder(ctx context.Context, id int) (*PurchaseOrder, error) {
	tenantId, db, err := tenantDB(ctx)
	if err != nil {
		return nil, err
	}
	return LoadPurchaseOrder(db, tenantId, id)
}

// LoadPurchaseOrder reads an order with its lines on db, which may be a transaction.
func LoadPurchaseOrder(db *gorm.DB, tenantId string, id int) (*PurchaseOrder, error) {
	var order PurchaseOrder
	if err := db.Where("tenant_id = ?", tenantId).Preload("Lines", orderedLines).First(&order, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NotFoundError("purchase order")
		}
		return nil, utils.DatabaseError(err)
	}
	return &order, nil
}

func ListPurchaseOrders(ctx context.Context, page Pagination) ([]*PurchaseOrder, error) {
	return listTenantModels[PurchaseOrder](ctx, page)
}
