package utils

import (
	"context"
	"errors"

	"github.com/mmdatafocus/erp_backend/config"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

/* DB fetching */

// fetch model from db
// (tenant_id is used in query's WHERE, returns a NotFound AppError naming entity)
func FetchModel[T any](ctx context.Context, tenantId string, entity string, id int, associations ...string) (*T, error) {
	return FetchModelTx[T](config.GetDB().WithContext(ctx), tenantId, entity, id, associations...)
}

// FetchModelTx is FetchModel on an existing session or transaction.
func FetchModelTx[T any](tx *gorm.DB, tenantId string, entity string, id int, associations ...string) (*T, error) {
	dbCtx := tx.Where("tenant_id = ?", tenantId)
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	if err := dbCtx.First(&result, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError(entity)
		}
		return nil, DatabaseError(err)
	}
	return &result, nil
}

// FetchModelForUpdate loads the row with an exclusive row lock held until tx ends.
// sqlite has no row locks; there the caller's document lock is the only guard.
func FetchModelForUpdate[T any](tx *gorm.DB, tenantId string, entity string, id int, associations ...string) (*T, error) {
	if !config.IsSQLite(tx) {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return FetchModelTx[T](tx, tenantId, entity, id, associations...)
}

// fetch all models from db
// (tenant_id is used in query's WHERE)
func FetchAllModels[T any](ctx context.Context, tenantId string, order string, associations ...string) ([]*T, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("tenant_id = ?", tenantId)
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	if order != "" {
		dbCtx = dbCtx.Order(order)
	}
	var results []*T
	if err := dbCtx.Find(&results).Error; err != nil {
		return nil, DatabaseError(err)
	}
	return results, nil
}
