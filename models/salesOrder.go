package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalesOrder struct {
	ID          int              `gorm:"primary_key" json:"id"`
	TenantId    string           `gorm:"size:36;index;not null" json:"tenant_id"`
	CustomerId  int              `gorm:"index;not null" json:"customer_id"`
	OrderNumber string           `gorm:"size:64;not null" json:"order_number"`
	OrderDate   time.Time        `gorm:"not null" json:"order_date"`
	Status      SalesOrderStatus `gorm:"size:16;not null" json:"status"`
	TotalAmount decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Notes       string           `gorm:"type:text" json:"notes"`
	ShippedDate *time.Time       `json:"shipped_date"`
	Lines       []SalesOrderLine `json:"lines"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type SalesOrderLine struct {
	ID           int             `gorm:"primary_key" json:"id"`
	TenantId     string          `gorm:"size:36;index;not null" json:"tenant_id"`
	SalesOrderId int             `gorm:"index;not null" json:"sales_order_id"`
	ProductId    int             `gorm:"not null" json:"product_id"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"line_total"`
	SortOrder    int             `gorm:"not null;default:0" json:"sort_order"`
}

type NewSalesOrder struct {
	CustomerId  int             `json:"customer_id" validate:"required"`
	OrderNumber string          `json:"order_number" validate:"required,max=64"`
	OrderDate   *time.Time      `json:"order_date"`
	Notes       string          `json:"notes"`
	Lines       []*NewOrderLine `json:"lines" validate:"required,min=1,dive,required"`
}

func (input *NewSalesOrder) validate(tx *gorm.DB, tenantId string) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Customer](tx, tenantId, "customer", input.CustomerId); err != nil {
		return err
	}
	if err := utils.ValidateUnique[SalesOrder](tx, tenantId, "order_number", input.OrderNumber, 0); err != nil {
		return err
	}
	return validateOrderLines(tx, tenantId, input.Lines)
}

// CreateSalesOrder creates an order in Draft.
func CreateSalesOrder(ctx context.Context, input *NewSalesOrder) (*SalesOrder, error) {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return nil, err
	}
	orderDate := utils.DateOnly(time.Now())
	if input.OrderDate != nil {
		orderDate = utils.DateOnly(*input.OrderDate)
	}

	var order SalesOrder
	err = createInTx(ctx, tenantId, func(tx *gorm.DB) error {
		if err := input.validate(tx, tenantId); err != nil {
			return err
		}
		lines := make([]SalesOrderLine, 0, len(input.Lines))
		for i, l := range input.Lines {
			lines = append(lines, SalesOrderLine{
				TenantId:  tenantId,
				ProductId: l.ProductId,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
				LineTotal: l.Quantity.Mul(l.UnitPrice),
				SortOrder: i,
			})
		}
		order = SalesOrder{
			TenantId:    tenantId,
			CustomerId:  input.CustomerId,
			OrderNumber: input.OrderNumber,
			OrderDate:   orderDate,
			Status:      SalesOrderStatusDraft,
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

func GetSalesOrder(ctx context.Context, id int) (*SalesOrder, error) {
	tenantId, db, err := tenantDB(ctx)
	if err != nil {
		return nil, err
	}
	return LoadSalesOrder(db, tenantId, id)
}

// LoadSalesOrder reads an order with its lines on db, which may be a transaction.
func LoadSalesOrder(db *gorm.DB, tenantId string, id int) (*SalesOrder, error) {
	var order SalesOrder
	if err := db.Where("tenant_id = ?", tenantId).Preload("Lines", orderedLines).First(&order, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NotFoundError("sales order")
		}
		return nil, utils.DatabaseError(err)
	}
	return &order, nil
}

func ListSalesOrders(ctx context.Context, page Pagination) ([]*SalesOrder, error) {
	return listTenantModels[SalesOrder](ctx, page)
}
