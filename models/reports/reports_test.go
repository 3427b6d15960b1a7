package reports_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/models/reports"
	"github.com/mmdatafocus/erp_backend/testutil"
	"github.com/mmdatafocus/erp_backend/workflow"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(testutil.Dec(want)), "want %s got %s", want, got.String())
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestARAging_BucketsOutstandingByDaysPastDue(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()
	asOf := day(2024, time.June, 30)

	acme := testutil.Customer(t, ctx, "Acme")
	zenith := testutil.Customer(t, ctx, "Zenith")

	late := testutil.Invoice(t, ctx, acme.ID, "INV-1", "100", asOf.AddDate(0, 0, -75), asOf.AddDate(0, 0, -45))
	_, err := workflow.RecordPayment(ctx, &models.NewPayment{InvoiceId: late.ID, Amount: testutil.Dec("20"), Method: models.PaymentMethodCash})
	require.NoError(t, err)

	testutil.Invoice(t, ctx, zenith.ID, "INV-2", "40", asOf.AddDate(0, 0, -5), asOf.AddDate(0, 0, 10))
	testutil.Invoice(t, ctx, zenith.ID, "INV-3", "15", asOf.AddDate(0, 0, -120), asOf.AddDate(0, 0, -91))

	paid := testutil.Invoice(t, ctx, acme.ID, "INV-4", "30", asOf.AddDate(0, 0, -40), asOf.AddDate(0, 0, -10))
	_, err = workflow.RecordPayment(ctx, &models.NewPayment{InvoiceId: paid.ID, Amount: testutil.Dec("30"), Method: models.PaymentMethodCash})
	require.NoError(t, err)

	report, err := reports.GetARAgingReport(ctx, &asOf)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-30", report.AsOf)
	require.Len(t, report.Lines, 2)

	assert.Equal(t, "Acme", report.Lines[0].Name)
	assertDec(t, "80", report.Lines[0].Days31To60)
	assertDec(t, "0", report.Lines[0].Days1To30)
	assertDec(t, "80", report.Lines[0].Total)

	assert.Equal(t, "Zenith", report.Lines[1].Name)
	assertDec(t, "40", report.Lines[1].Current)
	assertDec(t, "15", report.Lines[1].Over90)

	assertDec(t, "80", report.Total31To60)
	assertDec(t, "40", report.TotalCurrent)
	assertDec(t, "15", report.TotalOver90)
	assertDec(t, "135", report.GrandTotal)
}

func TestAPAging_SkipsCancelledBills(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()
	asOf := day(2024, time.March, 31)
	supplier := testutil.Supplier(t, ctx, "Mill")

	billDate := asOf.AddDate(0, 0, -30)
	_, err := models.CreateBill(ctx, &models.NewBill{SupplierId: supplier.ID, BillNumber: "B-1", BillDate: &billDate, DueDate: asOf.AddDate(0, 0, -20), TotalAmount: testutil.Dec("250")})
	require.NoError(t, err)
	cancelled, err := models.CreateBill(ctx, &models.NewBill{SupplierId: supplier.ID, BillNumber: "B-2", BillDate: &billDate, DueDate: asOf.AddDate(0, 0, -20), TotalAmount: testutil.Dec("99")})
	require.NoError(t, err)
	_, err = workflow.CancelBill(ctx, cancelled.ID)
	require.NoError(t, err)

	report, err := reports.GetAPAgingReport(ctx, &asOf)
	require.NoError(t, err)
	require.Len(t, report.Lines, 1)
	assert.Equal(t, supplier.ID, report.Lines[0].PartyId)
	assertDec(t, "250", report.Lines[0].Days1To30)
	assertDec(t, "250", report.GrandTotal)
}

func TestTrialBalance_TotalsBothColumnsPerTenant(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()
	cash := testutil.Account(t, ctx, "1000", "Cash", models.AccountTypeBank, "500")
	testutil.Account(t, ctx, "3000", "Equity", models.AccountTypeEquity, "500")
	sales := testutil.Account(t, ctx, "4000", "Sales", models.AccountTypeIncome, "0")

	_, err := models.CreateJournalEntry(ctx, &models.NewJournalEntry{
		EntryNumber: "JE-1",
		Lines: []*models.NewJournalEntryLine{
			{AccountId: cash.ID, Debit: testutil.Dec("120")},
			{AccountId: sales.ID, Credit: testutil.Dec("120")},
		},
	})
	require.NoError(t, err)

	other, _ := testutil.TenantContext()
	testutil.Account(t, other, "1000", "Cash", models.AccountTypeBank, "9999")

	report, err := reports.GetTrialBalanceReport(ctx)
	require.NoError(t, err)
	require.Len(t, report.Lines, 3)
	assert.Equal(t, "1000", report.Lines[0].AccountNumber)
	assertDec(t, "620", report.Lines[0].Debit)
	assertDec(t, "0", report.Lines[0].Credit)
	assertDec(t, "620", report.TotalDebits)
	assertDec(t, "620", report.TotalCredits)
	assert.True(t, report.IsBalanced)
}

func TestProfitAndLossAndBalanceSheet(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()
	testutil.Account(t, ctx, "1000", "Cash", models.AccountTypeBank, "700")
	testutil.Account(t, ctx, "1200", "Inventory", models.AccountTypeOtherCurrentAsset, "300")
	testutil.Account(t, ctx, "2000", "Payables", models.AccountTypeAccountsPayable, "200")
	testutil.Account(t, ctx, "3000", "Equity", models.AccountTypeEquity, "800")
	testutil.Account(t, ctx, "4000", "Sales", models.AccountTypeIncome, "1000")
	testutil.Account(t, ctx, "5000", "COGS", models.AccountTypeCostOfGoodsSold, "400")
	testutil.Account(t, ctx, "6000", "Rent", models.AccountTypeExpense, "150")

	pl, err := reports.GetProfitAndLossReport(ctx)
	require.NoError(t, err)
	assertDec(t, "1000", pl.TotalIncome)
	assertDec(t, "400", pl.TotalCogs)
	assertDec(t, "600", pl.GrossProfit)
	assertDec(t, "150", pl.TotalExpenses)
	assertDec(t, "450", pl.NetIncome)

	bs, err := reports.GetBalanceSheetReport(ctx)
	require.NoError(t, err)
	assertDec(t, "1000", bs.TotalAssets)
	assertDec(t, "200", bs.TotalLiabilities)
	assertDec(t, "800", bs.TotalEquity)
	require.Len(t, bs.Assets, 2)
	assert.Equal(t, "Cash", bs.Assets[0].Name)
}

func TestSalesSummary_ExcludesCancelledAndFutureInvoices(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()
	asOf := day(2024, time.May, 20)
	c := testutil.Customer(t, ctx, "Acme")

	a := testutil.Invoice(t, ctx, c.ID, "INV-1", "100", day(2024, time.May, 2), day(2024, time.June, 1))
	testutil.Invoice(t, ctx, c.ID, "INV-2", "50", day(2024, time.March, 15), day(2024, time.April, 15))
	cancelled := testutil.Invoice(t, ctx, c.ID, "INV-3", "70", day(2024, time.May, 3), day(2024, time.June, 3))
	testutil.Invoice(t, ctx, c.ID, "INV-4", "999", day(2024, time.May, 21), day(2024, time.June, 21))

	_, err := workflow.CancelInvoice(ctx, cancelled.ID)
	require.NoError(t, err)
	_, err = workflow.RecordPayment(ctx, &models.NewPayment{InvoiceId: a.ID, Amount: testutil.Dec("20"), Method: models.PaymentMethodCash})
	require.NoError(t, err)

	report, err := reports.GetSalesSummaryReport(ctx, &asOf)
	require.NoError(t, err)
	assert.Equal(t, 2, report.InvoiceCount)
	assertDec(t, "150", report.TotalInvoiced)
	assertDec(t, "20", report.TotalCollected)
	assertDec(t, "130", report.Outstanding)
	assertDec(t, "75", report.AverageInvoice)

	require.Len(t, report.Monthly, 12)
	assert.Equal(t, "2024-05", report.Monthly[0].Month)
	assertDec(t, "100", report.Monthly[0].Revenue)
	assert.Equal(t, 1, report.Monthly[0].Count)
	assert.Equal(t, "2024-03", report.Monthly[2].Month)
	assertDec(t, "50", report.Monthly[2].Revenue)
	assert.Equal(t, "2023-06", report.Monthly[11].Month)
}

func TestSalesTrend_MonthsOldestFirst(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()
	asOf := day(2024, time.December, 10)
	c := testutil.Customer(t, ctx, "Acme")
	p := testutil.Product(t, ctx, "P-1")

	oct := day(2024, time.October, 4)
	_, err := models.CreateSalesOrder(ctx, &models.NewSalesOrder{CustomerId: c.ID, OrderNumber: "SO-1", OrderDate: &oct, Lines: []*models.NewOrderLine{testutil.Line(p.ID, "2", "10")}})
	require.NoError(t, err)
	dec := day(2024, time.December, 1)
	_, err = models.CreateSalesOrder(ctx, &models.NewSalesOrder{CustomerId: c.ID, OrderNumber: "SO-2", OrderDate: &dec, Lines: []*models.NewOrderLine{testutil.Line(p.ID, "1", "5")}})
	require.NoError(t, err)
	old := day(2023, time.December, 1)
	_, err = models.CreateSalesOrder(ctx, &models.NewSalesOrder{CustomerId: c.ID, OrderNumber: "SO-3", OrderDate: &old, Lines: []*models.NewOrderLine{testutil.Line(p.ID, "1", "500")}})
	require.NoError(t, err)

	report, err := reports.GetSalesTrendReport(ctx, &asOf)
	require.NoError(t, err)
	require.Len(t, report.Months, 12)
	assert.Equal(t, "2024-01", report.Months[0].Month)
	assert.Equal(t, "2024-12", report.Months[11].Month)
	assertDec(t, "5", report.Months[11].Revenue)
	assertDec(t, "20", report.Months[9].Revenue)
	assertDec(t, "25", report.Total)
}

func TestGeneralLedger_FiltersByAccountAndDate(t *testing.T) {
	testutil.OpenDB(t)
	ctx, _ := testutil.TenantContext()
	cash := testutil.Account(t, ctx, "1000", "Cash", models.AccountTypeBank, "0")
	sales := testutil.Account(t, ctx, "4000", "Sales", models.AccountTypeIncome, "0")
	rent := testutil.Account(t, ctx, "6000", "Rent", models.AccountTypeExpense, "0")

	post := func(number string, date time.Time, lines ...*models.NewJournalEntryLine) {
		_, err := models.CreateJournalEntry(ctx, &models.NewJournalEntry{EntryNumber: number, EntryDate: &date, Memo: number, Lines: lines})
		require.NoError(t, err)
	}
	post("JE-2", day(2024, time.February, 10),
		&models.NewJournalEntryLine{AccountId: rent.ID, Debit: testutil.Dec("30")},
		&models.NewJournalEntryLine{AccountId: cash.ID, Credit: testutil.Dec("30")})
	post("JE-1", day(2024, time.January, 5),
		&models.NewJournalEntryLine{AccountId: cash.ID, Debit: testutil.Dec("100"), Memo: "cash sale"},
		&models.NewJournalEntryLine{AccountId: sales.ID, Credit: testutil.Dec("100")})

	all, err := reports.GetGeneralLedgerReport(ctx, reports.GeneralLedgerFilter{})
	require.NoError(t, err)
	require.Len(t, all.Lines, 4)
	assert.Equal(t, "JE-1", all.Lines[0].EntryNumber)
	assert.Equal(t, "cash sale", all.Lines[0].Description)
	assert.Equal(t, "JE-1", all.Lines[1].Description)
	assertDec(t, "130", all.TotalDebits)
	assertDec(t, "130", all.TotalCredits)

	cashOnly, err := reports.GetGeneralLedgerReport(ctx, reports.GeneralLedgerFilter{AccountId: &cash.ID})
	require.NoError(t, err)
	require.Len(t, cashOnly.Lines, 2)
	assertDec(t, "100", cashOnly.Lines[0].Balance)
	assertDec(t, "-30", cashOnly.Lines[1].Balance)

	from, to := day(2024, time.February, 1), day(2024, time.February, 10)
	feb, err := reports.GetGeneralLedgerReport(ctx, reports.GeneralLedgerFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, feb.Lines, 2)
	assert.Equal(t, "2024-02-10", feb.Lines[0].Date)
	assert.Equal(t, "6000", feb.Lines[0].AccountNumber)

	missing := 999999
	_, err = reports.GetGeneralLedgerReport(ctx, reports.GeneralLedgerFilter{AccountId: &missing})
	require.Error(t, err)
}

func TestStockReconciliation_FlagsDrift(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx, tenantId := testutil.TenantContext()
	good := testutil.StockedProduct(t, ctx, "A-1", "4")
	drifted := testutil.StockedProduct(t, ctx, "B-1", "9")
	require.NoError(t, db.Model(&models.Product{}).Where("tenant_id = ? AND id = ?", tenantId, drifted.ID).
		UpdateColumn("stock_quantity", testutil.Dec("12")).Error)

	report, err := reports.GetStockReconciliationReport(ctx)
	require.NoError(t, err)
	require.Len(t, report.Lines, 2)
	assert.Equal(t, 1, report.DriftCount)
	assert.Equal(t, good.ID, report.Lines[0].ProductId)
	assert.False(t, report.Lines[0].Drift)
	assert.True(t, report.Lines[1].Drift)
	assertDec(t, "12", report.Lines[1].Cached)
	assertDec(t, "9", report.Lines[1].Ledger)
}

func TestReportsRequireTenant(t *testing.T) {
	testutil.OpenDB(t)
	_, err := reports.GetTrialBalanceReport(context.Background())
	require.Error(t, err)
}

func TestWriteExcel_RendersHeaderRowsAndTotals(t *testing.T) {
	report := &reports.TrialBalance{
		Lines: []reports.TrialBalanceLine{
			{AccountNumber: "1000", AccountName: "Cash", AccountType: models.AccountTypeBank, Debit: testutil.Dec("12.5"), Credit: decimal.Zero},
		},
		TotalDebits:  testutil.Dec("12.5"),
		TotalCredits: decimal.Zero,
	}
	var buf bytes.Buffer
	require.NoError(t, reports.WriteExcel(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Trial Balance", title)
	header, err := f.GetCellValue("Sheet1", "D3")
	require.NoError(t, err)
	assert.Equal(t, "Debit", header)
	name, err := f.GetCellValue("Sheet1", "B4")
	require.NoError(t, err)
	assert.Equal(t, "Cash", name)
	debit, err := f.GetCellValue("Sheet1", "D4")
	require.NoError(t, err)
	assert.Equal(t, "12.5", debit)
	total, err := f.GetCellValue("Sheet1", "A5")
	require.NoError(t, err)
	assert.Equal(t, "Total", total)
}
