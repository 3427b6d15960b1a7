package workflow

import (
	"context"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"gorm.io/gorm"
)

func reloadInvoice(tx *gorm.DB, tenantId string, id int) (*models.Invoice, error) {
	return utils.FetchModelTx[models.Invoice](tx, tenantId, "invoice", id, "Payments")
}

// SendInvoice issues a Draft invoice to the customer (Draft -> Sent).
func SendInvoice(ctx context.Context, id int) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := runDocumentTransition(ctx, DocumentInvoice, id, "SendInvoice", func(tx *gorm.DB, tenantId string) error {
		current, err := utils.FetchModelForUpdate[models.Invoice](tx, tenantId, "invoice", id)
		if err != nil {
			return err
		}
		if err := requireStatus("send", "invoice", current.Status, models.InvoiceStatusDraft); err != nil {
			return err
		}
		if err := updateStatus(tx, &models.Invoice{}, tenantId, id, map[string]interface{}{
			"status": models.InvoiceStatusSent,
		}); err != nil {
			return err
		}
		invoice, err = reloadInvoice(tx, tenantId, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// CancelInvoice voids an invoice that has not received any payment.
func CancelInvoice(ctx context.Context, id int) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := runDocumentTransition(ctx, DocumentInvoice, id, "CancelInvoice", func(tx *gorm.DB, tenantId string) error {
		current, err := utils.FetchModelForUpdate[models.Invoice](tx, tenantId, "invoice", id)
		if err != nil {
			return err
		}
		if err := requireStatus("cancel", "invoice", current.Status,
			models.InvoiceStatusDraft, models.InvoiceStatusSent); err != nil {
			return err
		}
		if current.AmountPaid.IsPositive() {
			return utils.BusinessRuleError("cannot cancel invoice %s, payments of %s were recorded",
				current.InvoiceNumber, current.AmountPaid.StringFixed(2))
		}
		if err := updateStatus(tx, &models.Invoice{}, tenantId, id, map[string]interface{}{
			"status": models.InvoiceStatusCancelled,
		}); err != nil {
			return err
		}
		invoice, err = reloadInvoice(tx, tenantId, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}
