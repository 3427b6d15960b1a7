package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func Product(t *testing.T, ctx context.Context, sku string) *models.Product {
	t.Helper()
	p, err := models.CreateProduct(ctx, &models.NewProduct{
		Sku:       sku,
		Name:      "Product " + sku,
		Price:     Dec("10"),
		CostPrice: Dec("6"),
	})
	require.NoError(t, err)
	return p
}

// StockedProduct creates a product with an opening adjustment of qty.
func StockedProduct(t *testing.T, ctx context.Context, sku string, qty string) *models.Product {
	t.Helper()
	p := Product(t, ctx, sku)
	_, err := models.AdjustStock(ctx, &models.NewStockAdjustment{ProductId: p.ID, Quantity: Dec(qty), Notes: "opening"})
	require.NoError(t, err)
	return p
}

func Supplier(t *testing.T, ctx context.Context, name string) *models.Supplier {
	t.Helper()
	s, err := models.CreateSupplier(ctx, &models.NewSupplier{Name: name})
	require.NoError(t, err)
	return s
}

func Customer(t *testing.T, ctx context.Context, name string) *models.Customer {
	t.Helper()
	c, err := models.CreateCustomer(ctx, &models.NewCustomer{Name: name})
	require.NoError(t, err)
	return c
}

func Line(productId int, qty, price string) *models.NewOrderLine {
	return &models.NewOrderLine{ProductId: productId, Quantity: Dec(qty), UnitPrice: Dec(price)}
}

// Invoice creates a Draft invoice with the given total and due date.
func Invoice(t *testing.T, ctx context.Context, customerId int, number string, total string, invoiceDate, dueDate time.Time) *models.Invoice {
	t.Helper()
	inv, err := models.CreateInvoice(ctx, &models.NewInvoice{
		CustomerId:    customerId,
		InvoiceNumber: number,
		InvoiceDate:   &invoiceDate,
		DueDate:       &dueDate,
		TotalAmount:   Dec(total),
	})
	require.NoError(t, err)
	return inv
}

func Account(t *testing.T, ctx context.Context, number, name string, accountType models.AccountType, balance string) *models.Account {
	t.Helper()
	a, err := models.CreateAccount(ctx, &models.NewAccount{
		AccountNumber:  number,
		Name:           name,
		AccountType:    accountType,
		OpeningBalance: Dec(balance),
	})
	require.NoError(t, err)
	return a
}
