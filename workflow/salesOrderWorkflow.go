package workflow

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"gorm.io/gorm"
)

func lockSalesOrder(tx *gorm.DB, tenantId string, id int) (*models.SalesOrder, error) {
	if _, err := utils.FetchModelForUpdate[models.SalesOrder](tx, tenantId, "sales order", id); err != nil {
		return nil, err
	}
	return models.LoadSalesOrder(tx, tenantId, id)
}

// ConfirmSalesOrder accepts a Draft order (Draft -> Confirmed).
func ConfirmSalesOrder(ctx context.Context, id int) (*models.SalesOrder, error) {
	var order *models.SalesOrder
	err := runDocumentTransition(ctx, DocumentSalesOrder, id, "ConfirmSalesOrder", func(tx *gorm.DB, tenantId string) error {
		current, err := lockSalesOrder(tx, tenantId, id)
		if err != nil {
			return err
		}
		if err := requireStatus("confirm", "sales order", current.Status, models.SalesOrderStatusDraft); err != nil {
			return err
		}
		if err := updateStatus(tx, &models.SalesOrder{}, tenantId, id, map[string]interface{}{
			"status": models.SalesOrderStatusConfirmed,
		}); err != nil {
			return err
		}
		order, err = models.LoadSalesOrder(tx, tenantId, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ShipSalesOrder takes the goods of a Confirmed order out of stock
// (Confirmed -> Shipped): one Sale posting of -quantity per line.
func ShipSalesOrder(ctx context.Context, id int) (*models.SalesOrder, error) {
	var order *models.SalesOrder
	err := runDocumentTransition(ctx, DocumentSalesOrder, id, "ShipSalesOrder", func(tx *gorm.DB, tenantId string) error {
		current, err := lockSalesOrder(tx, tenantId, id)
		if err != nil {
			return err
		}
		if err := requireStatus("ship", "sales order", current.Status, models.SalesOrderStatusConfirmed); err != nil {
			return err
		}
		if err := updateStatus(tx, &models.SalesOrder{}, tenantId, id, map[string]interface{}{
			"status":       models.SalesOrderStatusShipped,
			"shipped_date": time.Now().UTC(),
		}); err != nil {
			return err
		}
		ref := models.StockReference{Type: models.ReferenceTypeSalesOrder, Id: id, Notes: current.OrderNumber}
		for _, line := range current.Lines {
			if _, err := models.PostStockMovement(tx, tenantId, line.ProductId, line.Quantity.Neg(), models.MovementKindSale, ref); err != nil {
				return err
			}
		}
		order, err = models.LoadSalesOrder(tx, tenantId, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CancelSalesOrder abandons an order that has not shipped.
func CancelSalesOrder(ctx context.Context, id int) (*models.SalesOrder, error) {
	var order *models.SalesOrder
	err := runDocumentTransition(ctx, DocumentSalesOrder, id, "CancelSalesOrder", func(tx *gorm.DB, tenantId string) error {
		current, err := lockSalesOrder(tx, tenantId, id)
		if err != nil {
			return err
		}
		if err := requireStatus("cancel", "sales order", current.Status,
			models.SalesOrderStatusDraft, models.SalesOrderStatusConfirmed); err != nil {
			return err
		}
		if err := updateStatus(tx, &models.SalesOrder{}, tenantId, id, map[string]interface{}{
			"status": models.SalesOrderStatusCancelled,
		}); err != nil {
			return err
		}
		order, err = models.LoadSalesOrder(tx, tenantId, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
