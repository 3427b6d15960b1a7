package workflow

import (
	"context"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"gorm.io/gorm"
)

// RecordBillPayment applies a payment to a supplier bill the same way
// RecordPayment does for invoices.
func RecordBillPayment(ctx context.Context, billId int, input *models.NewBillPayment) (*models.BillPayment, error) {
	if err := input.AsPayment(billId).Validate(); err != nil {
		return nil, err
	}
	var payment models.BillPayment
	err := runDocumentTransition(ctx, DocumentBill, billId, "RecordBillPayment", func(tx *gorm.DB, tenantId string) error {
		bill, err := utils.FetchModelForUpdate[models.Bill](tx, tenantId, "bill", billId)
		if err != nil {
			return err
		}
		if bill.Status == models.BillStatusCancelled {
			return utils.BusinessRuleError("cannot record payment on bill %s with status %s",
				bill.BillNumber, bill.Status)
		}

		payment = models.BillPayment{
			TenantId:    tenantId,
			BillId:      bill.ID,
			Amount:      input.Amount,
			Method:      input.Method,
			PaymentDate: input.AsPayment(billId).Date(),
			Reference:   input.Reference,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return utils.DatabaseError(err)
		}

		paid := bill.AmountPaid.Add(input.Amount)
		return updateStatus(tx, &models.Bill{}, tenantId, bill.ID, map[string]interface{}{
			"amount_paid": paid,
			"status":      models.BillStatusFor(bill.TotalAmount, paid),
		})
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// CancelBill voids an Open bill that has no payments.
func CancelBill(ctx context.Context, billId int) (*models.Bill, error) {
	var bill *models.Bill
	err := runDocumentTransition(ctx, DocumentBill, billId, "CancelBill", func(tx *gorm.DB, tenantId string) error {
		current, err := utils.FetchModelForUpdate[models.Bill](tx, tenantId, "bill", billId)
		if err != nil {
			return err
		}
		if err := requireStatus("cancel", "bill", current.Status, models.BillStatusOpen); err != nil {
			return err
		}
		if current.AmountPaid.IsPositive() {
			return utils.BusinessRuleError("cannot cancel bill %s, payments were recorded", current.BillNumber)
		}
		if err := updateStatus(tx, &models.Bill{}, tenantId, billId, map[string]interface{}{
			"status": models.BillStatusCancelled,
		}); err != nil {
			return err
		}
		bill, err = utils.FetchModelTx[models.Bill](tx, tenantId, "bill", billId, "Payments")
		return err
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}
