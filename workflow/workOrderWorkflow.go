package workflow

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"gorm.io/gorm"
)

func lockWorkOrder(tx *gorm.DB, tenantId string, id int) (*models.WorkOrder, error) {
	return utils.FetchModelForUpdate[models.WorkOrder](tx, tenantId, "work order", id)
}

// StartWorkOrder moves a Planned order onto the shop floor (Planned -> InProgress).
func StartWorkOrder(ctx context.Context, id int) (*models.WorkOrder, error) {
	var workOrder *models.WorkOrder
	err := runDocumentTransition(ctx, DocumentWorkOrder, id, "StartWorkOrder", func(tx *gorm.DB, tenantId string) error {
		current, err := lockWorkOrder(tx, tenantId, id)
		if err != nil {
			return err
		}
		if err := requireStatus("start", "work order", current.Status, models.WorkOrderStatusPlanned); err != nil {
			return err
		}
		updates := map[string]interface{}{"status": models.WorkOrderStatusInProgress}
		if current.StartDate == nil {
			updates["start_date"] = utils.DateOnly(time.Now())
		}
		if err := updateStatus(tx, &models.WorkOrder{}, tenantId, id, updates); err != nil {
			return err
		}
		workOrder, err = utils.FetchModelTx[models.WorkOrder](tx, tenantId, "work order", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return workOrder, nil
}

// CompleteWorkOrder finishes production (Planned|InProgress -> Completed).
// The recipe is resolved for the batch; every ingredient is consumed with a
// ProductionOut posting before the output is booked with one ProductionIn posting.
func CompleteWorkOrder(ctx context.Context, id int) (*models.WorkOrder, error) {
	var workOrder *models.WorkOrder
	err := runDocumentTransition(ctx, DocumentWorkOrder, id, "CompleteWorkOrder", func(tx *gorm.DB, tenantId string) error {
		current, err := lockWorkOrder(tx, tenantId, id)
		if err != nil {
			return err
		}
		if err := requireStatus("complete", "work order", current.Status,
			models.WorkOrderStatusPlanned, models.WorkOrderStatusInProgress); err != nil {
			return err
		}
		recipe, err := models.LoadRecipe(tx, tenantId, current.RecipeId)
		if err != nil {
			return err
		}
		resolution := models.ResolveRecipe(recipe, current.Quantity)

		today := utils.DateOnly(time.Now())
		updates := map[string]interface{}{
			"status":   models.WorkOrderStatusCompleted,
			"end_date": today,
		}
		if current.StartDate == nil {
			updates["start_date"] = today
		}
		if err := updateStatus(tx, &models.WorkOrder{}, tenantId, id, updates); err != nil {
			return err
		}

		ref := models.StockReference{Type: models.ReferenceTypeWorkOrder, Id: id, Notes: recipe.Name}
		for _, ing := range resolution.Ingredients {
			if _, err := models.PostStockMovement(tx, tenantId, ing.ProductId, ing.Quantity.Neg(), models.MovementKindProductionOut, ref); err != nil {
				return err
			}
		}
		if _, err := models.PostStockMovement(tx, tenantId, resolution.Output.ProductId, resolution.Output.Quantity, models.MovementKindProductionIn, ref); err != nil {
			return err
		}

		workOrder, err = utils.FetchModelTx[models.WorkOrder](tx, tenantId, "work order", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return workOrder, nil
}

// CancelWorkOrder abandons an order that has not completed. Nothing was posted yet.
func CancelWorkOrder(ctx context.Context, id int) (*models.WorkOrder, error) {
	var workOrder *models.WorkOrder
	err := runDocumentTransition(ctx, DocumentWorkOrder, id, "CancelWorkOrder", func(tx *gorm.DB, tenantId string) error {
		current, err := lockWorkOrder(tx, tenantId, id)
		if err != nil {
			return err
		}
		if err := requireStatus("cancel", "work order", current.Status,
			models.WorkOrderStatusPlanned, models.WorkOrderStatusInProgress); err != nil {
			return err
		}
		if err := updateStatus(tx, &models.WorkOrder{}, tenantId, id, map[string]interface{}{
			"status": models.WorkOrderStatusCancelled,
		}); err != nil {
			return err
		}
		workOrder, err = utils.FetchModelTx[models.WorkOrder](tx, tenantId, "work order", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return workOrder, nil
}
