package workflow

import (
	"context"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"gorm.io/gorm"
)

// RecordPayment applies a customer payment to an invoice. The payment row,
// the new amount_paid and the derived status are written together.
// Any invoice that is not Cancelled accepts payments, overpayment included.
func RecordPayment(ctx context.Context, input *models.NewPayment) (*models.Payment, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	var payment models.Payment
	err := runDocumentTransition(ctx, DocumentInvoice, input.InvoiceId, "RecordPayment", func(tx *gorm.DB, tenantId string) error {
		invoice, err := utils.FetchModelForUpdate[models.Invoice](tx, tenantId, "invoice", input.InvoiceId)
		if err != nil {
			return err
		}
		if invoice.Status == models.InvoiceStatusCancelled {
			return utils.BusinessRuleError("cannot record payment on invoice %s with status %s",
				invoice.InvoiceNumber, invoice.Status)
		}

		payment = models.Payment{
			TenantId:    tenantId,
			InvoiceId:   invoice.ID,
			Amount:      input.Amount,
			Method:      input.Method,
			PaymentDate: input.Date(),
			Reference:   input.Reference,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return utils.DatabaseError(err)
		}

		paid := invoice.AmountPaid.Add(input.Amount)
		return updateStatus(tx, &models.Invoice{}, tenantId, invoice.ID, map[string]interface{}{
			"amount_paid": paid,
			"status":      models.PaidStatus(invoice.TotalAmount, paid),
		})
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}
