package utils

import (
	"gorm.io/gorm"
)

// ValidateResourceId checks that a row with id exists for the tenant.
func ValidateResourceId[T any](tx *gorm.DB, tenantId string, entity string, id int) error {
	if id <= 0 {
		return ValidationError("%s id is required", entity)
	}
	var count int64
	if err := tx.Model(new(T)).Where("tenant_id = ? AND id = ?", tenantId, id).Count(&count).Error; err != nil {
		return DatabaseError(err)
	}
	if count <= 0 {
		return NotFoundError(entity)
	}
	return nil
}

// ValidateResourceIds checks that every id exists for the tenant.
func ValidateResourceIds[T any](tx *gorm.DB, tenantId string, entity string, ids []int) error {
	unique := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return ValidationError("%s id is required", entity)
		}
		unique[id] = struct{}{}
	}
	if len(unique) == 0 {
		return nil
	}
	keys := make([]int, 0, len(unique))
	for id := range unique {
		keys = append(keys, id)
	}
	var count int64
	if err := tx.Model(new(T)).Where("tenant_id = ? AND id IN ?", tenantId, keys).Count(&count).Error; err != nil {
		return DatabaseError(err)
	}
	if int(count) != len(keys) {
		return NotFoundError(entity)
	}
	return nil
}

// ValidateUnique fails when another row of the tenant already uses value in column.
func ValidateUnique[T any](tx *gorm.DB, tenantId string, column string, value interface{}, exceptId int) error {
	var count int64
	dbCtx := tx.Model(new(T)).Where("tenant_id = ?", tenantId).Where(column+" = ?", value)
	if exceptId > 0 {
		dbCtx = dbCtx.Not("id = ?", exceptId)
	}
	if err := dbCtx.Count(&count).Error; err != nil {
		return DatabaseError(err)
	}
	if count > 0 {
		return ValidationError("duplicate %s %v", column, value)
	}
	return nil
}
