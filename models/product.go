package models

import (
	"context"
	"strings"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID            int             `gorm:"primary_key" json:"id"`
	TenantId      string          `gorm:"size:36;index;not null" json:"tenant_id"`
	Sku           string          `gorm:"size:64;not null" json:"sku"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	UnitOfMeasure UnitOfMeasure   `gorm:"size:16;not null;default:'UNIT'" json:"unit_of_measure"`
	Price         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cost_price"`
	// Σ StockLedgerEntry.Quantity for this product; written only by PostStockMovement.
	StockQuantity decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"stock_quantity"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Sku           string          `json:"sku" validate:"required,max=64"`
	Name          string          `json:"name" validate:"required,max=255"`
	Description   string          `json:"description"`
	UnitOfMeasure UnitOfMeasure   `json:"unit_of_measure"`
	Price         decimal.Decimal `json:"price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
}

func (input *NewProduct) validate(tx *gorm.DB, tenantId string) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if input.UnitOfMeasure == "" {
		input.UnitOfMeasure = UnitOfMeasureUnit
	}
	if !input.UnitOfMeasure.IsValid() {
		return utils.ValidationError("invalid unit of measure %q", input.UnitOfMeasure)
	}
	if input.Price.IsNegative() || input.CostPrice.IsNegative() {
		return utils.ValidationError("price and cost price must not be negative")
	}
	return utils.ValidateUnique[Product](tx, tenantId, "sku", input.Sku, 0)
}

// CreateProduct creates a product with zero stock. Opening stock is posted
// through AdjustStock so that the ledger stays the source of truth.
func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return nil, err
	}
	input.Sku = strings.TrimSpace(input.Sku)

	var product Product
	err = createInTx(ctx, tenantId, func(tx *gorm.DB) error {
		if err := input.validate(tx, tenantId); err != nil {
			return err
		}
		product = Product{
			TenantId:      tenantId,
			Sku:           input.Sku,
			Name:          input.Name,
			Description:   input.Description,
			UnitOfMeasure: input.UnitOfMeasure,
			Price:         input.Price,
			CostPrice:     input.CostPrice,
			StockQuantity: decimal.Zero,
		}
		if err := tx.Create(&product).Error; err != nil {
			return utils.DatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return getTenantModel[Product](ctx, "product", id)
}

func ListProducts(ctx context.Context, page Pagination) ([]*Product, error) {
	return listTenantModels[Product](ctx, page)
}
