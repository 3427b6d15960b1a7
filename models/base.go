package models

import (
	"context"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"gorm.io/gorm"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 500
)

// Pagination is an offset page over a list ordered by id.
type Pagination struct {
	Limit  int `form:"limit" json:"limit"`
	Offset int `form:"offset" json:"offset"`
}

func (p Pagination) apply(db *gorm.DB) *gorm.DB {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	return db.Limit(limit).Offset(offset)
}

// tenantDB returns the tenant of ctx and a session bound to ctx.
func tenantDB(ctx context.Context) (string, *gorm.DB, error) {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return "", nil, err
	}
	return tenantId, config.GetDB().WithContext(ctx), nil
}

func listTenantModels[T any](ctx context.Context, page Pagination, associations ...string) ([]*T, error) {
	tenantId, db, err := tenantDB(ctx)
	if err != nil {
		return nil, err
	}
	dbCtx := db.Where("tenant_id = ?", tenantId)
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var results []*T
	if err := page.apply(dbCtx.Order("id")).Find(&results).Error; err != nil {
		return nil, utils.DatabaseError(err)
	}
	return results, nil
}

func getTenantModel[T any](ctx context.Context, entity string, id int, associations ...string) (*T, error) {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[T](ctx, tenantId, entity, id, associations...)
}

// createInTx runs fn in a transaction and invalidates the tenant's cached reads on commit.
func createInTx(ctx context.Context, tenantId string, fn func(tx *gorm.DB) error) error {
	db := config.GetDB()
	if err := db.WithContext(ctx).Transaction(fn); err != nil {
		return utils.DatabaseError(err)
	}
	utils.BumpTenantCacheGeneration(ctx, tenantId)
	return nil
}

// orderedLines is a Preload condition keeping line items in entry order.
func orderedLines(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order, id")
}
