package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WorkOrder struct {
	ID        int             `gorm:"primary_key" json:"id"`
	TenantId  string          `gorm:"size:36;index;not null" json:"tenant_id"`
	RecipeId  int             `gorm:"index;not null" json:"recipe_id"`
	Quantity  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	Status    WorkOrderStatus `gorm:"size:16;not null" json:"status"`
	StartDate *time.Time      `json:"start_date"`
	EndDate   *time.Time      `json:"end_date"`
	Notes     string          `gorm:"type:text" json:"notes"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewWorkOrder struct {
	RecipeId  int             `json:"recipe_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	StartDate *time.Time      `json:"start_date"`
	Notes     string          `json:"notes"`
}

func (wo WorkOrder) IsTerminal() bool {
	return wo.Status == WorkOrderStatusCompleted || wo.Status == WorkOrderStatusCancelled
}

func CreateWorkOrder(ctx context.Context, input *NewWorkOrder) (*WorkOrder, error) {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if err := utils.RequirePositive("quantity", input.Quantity); err != nil {
		return nil, err
	}

	workOrder := WorkOrder{
		TenantId: tenantId,
		RecipeId: input.RecipeId,
		Quantity: input.Quantity,
		Status:   WorkOrderStatusPlanned,
		Notes:    input.Notes,
	}
	if input.StartDate != nil {
		d := utils.DateOnly(*input.StartDate)
		workOrder.StartDate = &d
	}
	err = createInTx(ctx, tenantId, func(tx *gorm.DB) error {
		if err := utils.ValidateResourceId[Recipe](tx, tenantId, "recipe", input.RecipeId); err != nil {
			return err
		}
		if err := tx.Create(&workOrder).Error; err != nil {
			return utils.DatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &workOrder, nil
}

func GetWorkOrder(ctx context.Context, id int) (*WorkOrder, error) {
	return getTenantModel[WorkOrder](ctx, "work order", id)
}

func ListWorkOrders(ctx context.Context, page Pagination) ([]*WorkOrder, error) {
	return listTenantModels[WorkOrder](ctx, page)
}
