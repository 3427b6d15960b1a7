package workflow_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/testutil"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/mmdatafocus/erp_backend/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertStockMatchesLedger checks the cached quantity against the ledger sum.
func assertStockMatchesLedger(t *testing.T, ctx context.Context, productIds ...int) {
	t.Helper()
	for _, id := range productIds {
		p, err := models.GetProduct(ctx, id)
		require.NoError(t, err)
		projected, err := models.ProjectStock(ctx, id)
		require.NoError(t, err)
		assert.True(t, p.StockQuantity.Equal(projected), "product %d: cached %s ledger %s", id, p.StockQuantity, projected)
	}
}

func stockOf(t *testing.T, ctx context.Context, productId int) string {
	t.Helper()
	p, err := models.GetProduct(ctx, productId)
	require.NoError(t, err)
	return p.StockQuantity.String()
}

func TestCompleteWorkOrder_PostsIngredientsThenOutput(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()

	output := testutil.Product(t, ctx, "O-1")
	ingredient := testutil.StockedProduct(t, ctx, "I-1", "100")

	recipe, err := models.CreateRecipe(ctx, &models.NewRecipe{
		Name:            "Widget",
		OutputProductId: output.ID,
		OutputQuantity:  testutil.Dec("2"),
		Ingredients: []*models.NewRecipeIngredient{
			{ProductId: ingredient.ID, Quantity: testutil.Dec("3")},
		},
	})
	require.NoError(t, err)

	wo, err := models.CreateWorkOrder(ctx, &models.NewWorkOrder{RecipeId: recipe.ID, Quantity: testutil.Dec("5")})
	require.NoError(t, err)

	done, err := workflow.CompleteWorkOrder(ctx, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderStatusCompleted, done.Status)
	require.NotNil(t, done.StartDate)
	require.NotNil(t, done.EndDate)

	entries, err := models.ListStockLedgerByReference(ctx, models.ReferenceTypeWorkOrder, wo.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ingredient.ID, entries[0].ProductId)
	assert.Equal(t, models.MovementKindProductionOut, entries[0].MovementKind)
	assert.True(t, entries[0].Quantity.Equal(testutil.Dec("-15")), entries[0].Quantity.String())
	assert.Equal(t, output.ID, entries[1].ProductId)
	assert.Equal(t, models.MovementKindProductionIn, entries[1].MovementKind)
	assert.True(t, entries[1].Quantity.Equal(testutil.Dec("10")), entries[1].Quantity.String())

	assert.Equal(t, "85", stockOf(t, ctx, ingredient.ID))
	assert.Equal(t, "10", stockOf(t, ctx, output.ID))

	_, err = workflow.CompleteWorkOrder(ctx, wo.ID)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.ErrorKindBusinessRule))
	assert.Contains(t, err.Error(), "Completed")

	entries, err = models.ListStockLedgerByReference(ctx, models.ReferenceTypeWorkOrder, wo.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assertStockMatchesLedger(t, ctx, ingredient.ID, output.ID)
}

func TestWorkOrder_StartThenCancel(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()

	output := testutil.Product(t, ctx, "O-2")
	ingredient := testutil.Product(t, ctx, "I-2")
	recipe, err := models.CreateRecipe(ctx, &models.NewRecipe{
		Name:            "Gadget",
		OutputProductId: output.ID,
		OutputQuantity:  testutil.Dec("1"),
		Ingredients:     []*models.NewRecipeIngredient{{ProductId: ingredient.ID, Quantity: testutil.Dec("1")}},
	})
	require.NoError(t, err)
	wo, err := models.CreateWorkOrder(ctx, &models.NewWorkOrder{RecipeId: recipe.ID, Quantity: testutil.Dec("1")})
	require.NoError(t, err)

	started, err := workflow.StartWorkOrder(ctx, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderStatusInProgress, started.Status)
	assert.NotNil(t, started.StartDate)

	_, err = workflow.StartWorkOrder(ctx, wo.ID)
	assert.True(t, utils.IsKind(err, utils.ErrorKindBusinessRule))

	cancelled, err := workflow.CancelWorkOrder(ctx, wo.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WorkOrderStatusCancelled, cancelled.Status)

	_, err = workflow.CompleteWorkOrder(ctx, wo.ID)
	assert.True(t, utils.IsKind(err, utils.ErrorKindBusinessRule))

	entries, err := models.ListStockLedgerByReference(ctx, models.ReferenceTypeWorkOrder, wo.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReceivePurchaseOrder_RequiresOrdered(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()

	supplier := testutil.Supplier(t, ctx, "Acme Supplies")
	product := testutil.Product(t, ctx, "P-1")
	po, err := models.CreatePurchaseOrder(ctx, &models.NewPurchaseOrder{
		SupplierId:  supplier.ID,
		OrderNumber: "PO-1",
		Lines:       []*models.NewOrderLine{testutil.Line(product.ID, "4", "2.50")},
	})
	require.NoError(t, err)

	_, err = workflow.ReceivePurchaseOrder(ctx, po.ID)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.ErrorKindBusinessRule))
	assert.Equal(t, "cannot receive purchase order with status Draft, must be Ordered", err.Error())

	reloaded, err := models.GetPurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseOrderStatusDraft, reloaded.Status)
	assert.Equal(t, "0", stockOf(t, ctx, product.ID))

	_, err = workflow.PlacePurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	received, err := workflow.ReceivePurchaseOrder(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PurchaseOrderStatusReceived, received.Status)
	assert.NotNil(t, received.ReceivedDate)
	assert.Equal(t, "4", stockOf(t, ctx, product.ID))

	_, err = workflow.CancelPurchaseOrder(ctx, po.ID)
	assert.True(t, utils.IsKind(err, utils.ErrorKindBusinessRule))
	assertStockMatchesLedger(t, ctx, product.ID)
}

func TestTransition_UnknownDocumentIsNotFound(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()

	_, err := workflow.ShipSalesOrder(ctx, 999)
	assert.True(t, utils.IsKind(err, utils.ErrorKindNotFound))
	_, err = workflow.ReceivePurchaseOrder(ctx, 999)
	assert.True(t, utils.IsKind(err, utils.ErrorKindNotFound))
}

func TestTransition_OtherTenantDocumentIsNotFound(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()
	otherCtx, _ := testutil.TenantContext()

	customer := testutil.Customer(t, ctx, "Globex")
	product := testutil.StockedProduct(t, ctx, "S-9", "5")
	so, err := models.CreateSalesOrder(ctx, &models.NewSalesOrder{
		CustomerId:  customer.ID,
		OrderNumber: "SO-9",
		Lines:       []*models.NewOrderLine{testutil.Line(product.ID, "1", "10")},
	})
	require.NoError(t, err)

	_, err = workflow.ConfirmSalesOrder(otherCtx, so.ID)
	assert.True(t, utils.IsKind(err, utils.ErrorKindNotFound))

	reloaded, err := models.GetSalesOrder(ctx, so.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SalesOrderStatusDraft, reloaded.Status)
}

func TestTransition_RequiresTenant(t *testing.T) {
	testutil.OpenDB(t)
	_, err := workflow.ShipSalesOrder(context.Background(), 1)
	assert.True(t, utils.IsKind(err, utils.ErrorKindUnauthorized))
}

func TestShipSalesOrder_ConcurrentShipsOnce(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()

	customer := testutil.Customer(t, ctx, "Initech")
	a := testutil.StockedProduct(t, ctx, "A-1", "10")
	b := testutil.StockedProduct(t, ctx, "B-1", "10")
	so, err := models.CreateSalesOrder(ctx, &models.NewSalesOrder{
		CustomerId:  customer.ID,
		OrderNumber: "SO-1",
		Lines: []*models.NewOrderLine{
			testutil.Line(a.ID, "3", "5"),
			testutil.Line(b.ID, "2", "7"),
		},
	})
	require.NoError(t, err)
	_, err = workflow.ConfirmSalesOrder(ctx, so.ID)
	require.NoError(t, err)

	const workers = 2
	errs := make([]error, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = workflow.ShipSalesOrder(ctx, so.ID)
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, utils.IsKind(err, utils.ErrorKindBusinessRule), err.Error())
	}
	assert.Equal(t, 1, succeeded)

	entries, err := models.ListStockLedgerByReference(ctx, models.ReferenceTypeSalesOrder, so.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "7", stockOf(t, ctx, a.ID))
	assert.Equal(t, "8", stockOf(t, ctx, b.ID))
	assertStockMatchesLedger(t, ctx, a.ID, b.ID)

	shipped, err := models.GetSalesOrder(ctx, so.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SalesOrderStatusShipped, shipped.Status)
	assert.NotNil(t, shipped.ShippedDate)
}

func TestShipSalesOrder_StrictStockFloorRollsBack(t *testing.T) {
	t.Setenv("STRICT_STOCK_FLOOR", "true")
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()

	customer := testutil.Customer(t, ctx, "Umbrella")
	plenty := testutil.StockedProduct(t, ctx, "PL-1", "10")
	scarce := testutil.StockedProduct(t, ctx, "SC-1", "1")
	so, err := models.CreateSalesOrder(ctx, &models.NewSalesOrder{
		CustomerId:  customer.ID,
		OrderNumber: "SO-2",
		Lines: []*models.NewOrderLine{
			testutil.Line(plenty.ID, "2", "1"),
			testutil.Line(scarce.ID, "5", "1"),
		},
	})
	require.NoError(t, err)
	_, err = workflow.ConfirmSalesOrder(ctx, so.ID)
	require.NoError(t, err)

	_, err = workflow.ShipSalesOrder(ctx, so.ID)
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.ErrorKindBusinessRule))

	reloaded, err := models.GetSalesOrder(ctx, so.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SalesOrderStatusConfirmed, reloaded.Status)
	assert.Equal(t, "10", stockOf(t, ctx, plenty.ID))
	assert.Equal(t, "1", stockOf(t, ctx, scarce.ID))
	assertStockMatchesLedger(t, ctx, plenty.ID, scarce.ID)
}

func TestShipSalesOrder_NegativeStockAllowedByDefault(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()

	customer := testutil.Customer(t, ctx, "Hooli")
	product := testutil.StockedProduct(t, ctx, "N-1", "1")
	so, err := models.CreateSalesOrder(ctx, &models.NewSalesOrder{
		CustomerId:  customer.ID,
		OrderNumber: "SO-3",
		Lines:       []*models.NewOrderLine{testutil.Line(product.ID, "3", "1")},
	})
	require.NoError(t, err)
	_, err = workflow.ConfirmSalesOrder(ctx, so.ID)
	require.NoError(t, err)
	_, err = workflow.ShipSalesOrder(ctx, so.ID)
	require.NoError(t, err)

	assert.Equal(t, "-2", stockOf(t, ctx, product.ID))
	assertStockMatchesLedger(t, ctx, product.ID)
}

func TestRecordPayment_PartialThenOverpaid(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()

	customer := testutil.Customer(t, ctx, "Stark")
	today := utils.DateOnly(time.Now())
	inv := testutil.Invoice(t, ctx, customer.ID, "INV-1", "100", today, today.AddDate(0, 0, 30))

	_, err := workflow.RecordPayment(ctx, &models.NewPayment{InvoiceId: inv.ID, Amount: testutil.Dec("60"), Method: models.PaymentMethodCash})
	require.NoError(t, err)
	got, err := models.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, got.Status)
	assert.True(t, got.AmountPaid.Equal(testutil.Dec("60")))

	p, err := workflow.RecordPayment(ctx, &models.NewPayment{InvoiceId: inv.ID, Amount: testutil.Dec("50"), Method: models.PaymentMethodBankTransfer, Reference: "TRX-2"})
	require.NoError(t, err)
	assert.Equal(t, "TRX-2", p.Reference)
	got, err = models.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, got.Status)
	assert.True(t, got.AmountPaid.Equal(testutil.Dec("110")))
	assert.Len(t, got.Payments, 2)
	assert.True(t, got.Outstanding().Equal(testutil.Dec("-10")))
}

func TestRecordPayment_RejectsBadInput(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()

	customer := testutil.Customer(t, ctx, "Wayne")
	today := utils.DateOnly(time.Now())
	inv := testutil.Invoice(t, ctx, customer.ID, "INV-2", "100", today, today)

	_, err := workflow.RecordPayment(ctx, &models.NewPayment{InvoiceId: inv.ID, Amount: testutil.Dec("0"), Method: models.PaymentMethodCash})
	assert.True(t, utils.IsKind(err, utils.ErrorKindValidation))
	_, err = workflow.RecordPayment(ctx, &models.NewPayment{InvoiceId: inv.ID, Amount: testutil.Dec("5"), Method: "BARTER"})
	assert.True(t, utils.IsKind(err, utils.ErrorKindValidation))
	_, err = workflow.RecordPayment(ctx, &models.NewPayment{InvoiceId: 4242, Amount: testutil.Dec("5"), Method: models.PaymentMethodCash})
	assert.True(t, utils.IsKind(err, utils.ErrorKindNotFound))

	got, err := models.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.AmountPaid.IsZero())
	assert.Empty(t, got.Payments)
}

func TestInvoice_SendCancelAndPaymentRules(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()

	customer := testutil.Customer(t, ctx, "Oscorp")
	today := utils.DateOnly(time.Now())
	paid := testutil.Invoice(t, ctx, customer.ID, "INV-3", "50", today, today)
	voided := testutil.Invoice(t, ctx, customer.ID, "INV-4", "50", today, today)

	sent, err := workflow.SendInvoice(ctx, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusSent, sent.Status)

	_, err = workflow.RecordPayment(ctx, &models.NewPayment{InvoiceId: paid.ID, Amount: testutil.Dec("10"), Method: models.PaymentMethodCreditCard})
	require.NoError(t, err)
	_, err = workflow.CancelInvoice(ctx, paid.ID)
	assert.True(t, utils.IsKind(err, utils.ErrorKindBusinessRule))

	cancelled, err := workflow.CancelInvoice(ctx, voided.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusCancelled, cancelled.Status)

	_, err = workflow.RecordPayment(ctx, &models.NewPayment{InvoiceId: voided.ID, Amount: testutil.Dec("10"), Method: models.PaymentMethodCash})
	assert.True(t, utils.IsKind(err, utils.ErrorKindBusinessRule))
}

func TestRecordBillPayment_ReconcilesBill(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()

	supplier := testutil.Supplier(t, ctx, "Vandelay")
	bill, err := models.CreateBill(ctx, &models.NewBill{
		SupplierId:  supplier.ID,
		BillNumber:  "B-1",
		DueDate:     time.Now().AddDate(0, 0, 14),
		TotalAmount: testutil.Dec("80"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusOpen, bill.Status)

	_, err = workflow.RecordBillPayment(ctx, bill.ID, &models.NewBillPayment{Amount: testutil.Dec("30"), Method: models.PaymentMethodBankTransfer})
	require.NoError(t, err)
	got, err := models.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusPartiallyPaid, got.Status)

	_, err = workflow.CancelBill(ctx, bill.ID)
	assert.True(t, utils.IsKind(err, utils.ErrorKindBusinessRule))

	_, err = workflow.RecordBillPayment(ctx, bill.ID, &models.NewBillPayment{Amount: testutil.Dec("50"), Method: models.PaymentMethodCash})
	require.NoError(t, err)
	got, err = models.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BillStatusPaid, got.Status)
	assert.True(t, got.AmountPaid.Equal(testutil.Dec("80")))
	assert.Len(t, got.Payments, 2)
}
