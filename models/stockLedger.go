package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrLedgerImmutable = errors.New("stock ledger entries are immutable")

// StockLedgerEntry is one signed stock movement. The ledger is append-only.
type StockLedgerEntry struct {
	ID            int             `gorm:"primary_key" json:"id"`
	TenantId      string          `gorm:"size:36;index:idx_stock_ledger_tenant_product;not null" json:"tenant_id"`
	ProductId     int             `gorm:"index:idx_stock_ledger_tenant_product;not null" json:"product_id"`
	Quantity      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	MovementKind  MovementKind    `gorm:"size:16;not null" json:"movement_kind"`
	ReferenceType ReferenceType   `gorm:"size:32" json:"reference_type,omitempty"`
	ReferenceId   int             `gorm:"index" json:"reference_id,omitempty"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// StockReference names the document a movement originates from.
type StockReference struct {
	Type  ReferenceType
	Id    int
	Notes string
}

func (e *StockLedgerEntry) BeforeUpdate(tx *gorm.DB) error {
	return ErrLedgerImmutable
}

func (e *StockLedgerEntry) BeforeDelete(tx *gorm.DB) error {
	return ErrLedgerImmutable
}

// PostStockMovement appends a ledger entry and moves the product's cached
// stock by the same delta. It must run inside the caller's transaction so the
// entry, the cached quantity and the caller's own writes commit together.
//
// Stock is allowed to go negative unless STRICT_STOCK_FLOOR is set.
func PostStockMovement(tx *gorm.DB, tenantId string, productId int, delta decimal.Decimal, kind MovementKind, ref StockReference) (*StockLedgerEntry, error) {
	if !kind.IsValid() {
		return nil, utils.ValidationError("invalid movement kind %q", kind)
	}
	if delta.IsZero() {
		return nil, utils.ValidationError("stock movement quantity must not be zero")
	}

	product, err := utils.FetchModelTx[Product](tx, tenantId, "product", productId)
	if err != nil {
		return nil, err
	}

	// single atomic increment; the floor is part of the same statement so two
	// consumers of one product cannot both pass it
	floor := kind.consumes() && config.StrictStockFloor()
	update := tx.Model(&Product{}).Where("tenant_id = ? AND id = ?", tenantId, productId)
	if floor {
		update = update.Where("stock_quantity + ? >= 0", delta)
	}
	res := update.UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if res.Error != nil {
		return nil, utils.DatabaseError(res.Error)
	}
	if res.RowsAffected != 1 {
		if floor {
			return nil, insufficientStock(tx, tenantId, product, delta)
		}
		return nil, utils.NotFoundError("product")
	}

	entry := StockLedgerEntry{
		TenantId:      tenantId,
		ProductId:     productId,
		Quantity:      delta,
		MovementKind:  kind,
		ReferenceType: ref.Type,
		ReferenceId:   ref.Id,
		Notes:         ref.Notes,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, utils.DatabaseError(err)
	}
	return &entry, nil
}

func insufficientStock(tx *gorm.DB, tenantId string, product *Product, delta decimal.Decimal) error {
	have := product.StockQuantity
	if current, err := utils.FetchModelTx[Product](tx, tenantId, "product", product.ID); err == nil {
		have = current.StockQuantity
	}
	return utils.BusinessRuleError("insufficient stock for product %s: have %s, need %s",
		product.Sku, have.String(), delta.Neg().String())
}

// ProjectStock is the ledger view of a product's stock: the sum of all its deltas.
func ProjectStock(ctx context.Context, productId int) (decimal.Decimal, error) {
	tenantId, db, err := tenantDB(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if err := utils.ValidateResourceId[Product](db, tenantId, "product", productId); err != nil {
		return decimal.Zero, err
	}
	return sumLedger(db, tenantId, productId)
}

func sumLedger(db *gorm.DB, tenantId string, productId int) (decimal.Decimal, error) {
	var quantities []decimal.Decimal
	if err := db.Model(&StockLedgerEntry{}).
		Where("tenant_id = ? AND product_id = ?", tenantId, productId).
		Pluck("quantity", &quantities).Error; err != nil {
		return decimal.Zero, utils.DatabaseError(err)
	}
	total := decimal.Zero
	for _, q := range quantities {
		total = total.Add(q)
	}
	return total, nil
}

// ListStockLedger returns a product's movements in posting order.
func ListStockLedger(ctx context.Context, productId int) ([]*StockLedgerEntry, error) {
	tenantId, db, err := tenantDB(ctx)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[Product](db, tenantId, "product", productId); err != nil {
		return nil, err
	}
	var entries []*StockLedgerEntry
	if err := db.Where("tenant_id = ? AND product_id = ?", tenantId, productId).
		Order("id").Find(&entries).Error; err != nil {
		return nil, utils.DatabaseError(err)
	}
	return entries, nil
}

// ListStockLedgerByReference returns the movements posted by one document.
func ListStockLedgerByReference(ctx context.Context, refType ReferenceType, refId int) ([]*StockLedgerEntry, error) {
	tenantId, db, err := tenantDB(ctx)
	if err != nil {
		return nil, err
	}
	var entries []*StockLedgerEntry
	if err := db.Where("tenant_id = ? AND reference_type = ? AND reference_id = ?", tenantId, refType, refId).
		Order("id").Find(&entries).Error; err != nil {
		return nil, utils.DatabaseError(err)
	}
	return entries, nil
}

type NewStockAdjustment struct {
	ProductId int             `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes" validate:"max=1000"`
}

// AdjustStock is the only user-facing write to the ledger: a manual count
// correction or opening balance, posted as one Adjustment entry.
func AdjustStock(ctx context.Context, input *NewStockAdjustment) (*StockLedgerEntry, error) {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	var entry *StockLedgerEntry
	err = createInTx(ctx, tenantId, func(tx *gorm.DB) error {
		var err error
		entry, err = PostStockMovement(tx, tenantId, input.ProductId, input.Quantity, MovementKindAdjustment,
			StockReference{Type: ReferenceTypeAdjustment, Notes: input.Notes})
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// StockRebuildResult reports one product whose cached stock was corrected.
type StockRebuildResult struct {
	ProductId int             `json:"product_id"`
	Sku       string          `json:"sku"`
	Cached    decimal.Decimal `json:"cached"`
	Ledger    decimal.Decimal `json:"ledger"`
}

// RebuildStockQuantities recomputes every product's cached stock from the
// ledger and returns the products that had drifted.
func RebuildStockQuantities(ctx context.Context) ([]StockRebuildResult, error) {
	tenantId, db, err := tenantDB(ctx)
	if err != nil {
		return nil, err
	}
	var fixed []StockRebuildResult
	err = db.Transaction(func(tx *gorm.DB) error {
		var products []*Product
		if err := tx.Where("tenant_id = ?", tenantId).Order("id").Find(&products).Error; err != nil {
			return utils.DatabaseError(err)
		}
		for _, p := range products {
			total, err := sumLedger(tx, tenantId, p.ID)
			if err != nil {
				return err
			}
			if total.Equal(p.StockQuantity) {
				continue
			}
			if err := tx.Model(&Product{}).Where("tenant_id = ? AND id = ?", tenantId, p.ID).
				UpdateColumn("stock_quantity", total).Error; err != nil {
				return utils.DatabaseError(err)
			}
			fixed = append(fixed, StockRebuildResult{ProductId: p.ID, Sku: p.Sku, Cached: p.StockQuantity, Ledger: total})
		}
		return nil
	})
	if err != nil {
		return nil, utils.DatabaseError(err)
	}
	if len(fixed) > 0 {
		utils.BumpTenantCacheGeneration(ctx, tenantId)
	}
	return fixed, nil
}
