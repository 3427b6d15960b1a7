package workflow

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"gorm.io/gorm"
)

func lockPurchaseOrder(tx *gorm.DB, tenantId string, id int) (*models.PurchaseOrder, error) {
	if _, err := utils.FetchModelForUpdate[models.PurchaseOrder](tx, tenantId, "purchase order", id); err != nil {
		return nil, err
	}
	return models.LoadPurchaseOrder(tx, tenantId, id)
}

// PlacePurchaseOrder sends a Draft order to the supplier (Draft -> Ordered).
func PlacePurchaseOrder(ctx context.Context, id int) (*models.PurchaseOrder, error) {
	var order *models.PurchaseOrder
	err := runDocumentTransition(ctx, DocumentPurchaseOrder, id, "PlacePurchaseOrder", func(tx *gorm.DB, tenantId string) error {
		current, err := lockPurchaseOrder(tx, tenantId, id)
		if err != nil {
			return err
		}
		if err := requireStatus("place", "purchase order", current.Status, models.PurchaseOrderStatusDraft); err != nil {
			return err
		}
		if err := updateStatus(tx, &models.PurchaseOrder{}, tenantId, id, map[string]interface{}{
			"status": models.PurchaseOrderStatusOrdered,
		}); err != nil {
			return err
		}
		order, err = models.LoadPurchaseOrder(tx, tenantId, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ReceivePurchaseOrder books the goods of an Ordered order into stock
// (Ordered -> Received): one Purchase posting of +quantity per line.
func ReceivePurchaseOrder(ctx context.Context, id int) (*models.PurchaseOrder, error) {
	var order *models.PurchaseOrder
	err := runDocumentTransition(ctx, DocumentPurchaseOrder, id, "ReceivePurchaseOrder", func(tx *gorm.DB, tenantId string) error {
		current, err := lockPurchaseOrder(tx, tenantId, id)
		if err != nil {
			return err
		}
		if err := requireStatus("receive", "purchase order", current.Status, models.PurchaseOrderStatusOrdered); err != nil {
			return err
		}
		if err := updateStatus(tx, &models.PurchaseOrder{}, tenantId, id, map[string]interface{}{
			"status":        models.PurchaseOrderStatusReceived,
			"received_date": time.Now().UTC(),
		}); err != nil {
			return err
		}
		ref := models.StockReference{Type: models.ReferenceTypePurchaseOrder, Id: id, Notes: current.OrderNumber}
		for _, line := range current.Lines {
			if _, err := models.PostStockMovement(tx, tenantId, line.ProductId, line.Quantity, models.MovementKindPurchase, ref); err != nil {
				return err
			}
		}
		order, err = models.LoadPurchaseOrder(tx, tenantId, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CancelPurchaseOrder abandons an order that has not been received.
func CancelPurchaseOrder(ctx context.Context, id int) (*models.PurchaseOrder, error) {
	var order *models.PurchaseOrder
	err := runDocumentTransition(ctx, DocumentPurchaseOrder, id, "CancelPurchaseOrder", func(tx *gorm.DB, tenantId string) error {
		current, err := lockPurchaseOrder(tx, tenantId, id)
		if err != nil {
			return err
		}
		if err := requireStatus("cancel", "purchase order", current.Status,
			models.PurchaseOrderStatusDraft, models.PurchaseOrderStatusOrdered); err != nil {
			return err
		}
		if err := updateStatus(tx, &models.PurchaseOrder{}, tenantId, id, map[string]interface{}{
			"status": models.PurchaseOrderStatusCancelled,
		}); err != nil {
			return err
		}
		order, err = models.LoadPurchaseOrder(tx, tenantId, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
