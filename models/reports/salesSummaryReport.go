package reports

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const trendMonths = 12

type MonthlySales struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Count   int             `json:"count"`
}

type SalesSummary struct {
	AsOf           string          `json:"as_of"`
	TotalInvoiced  decimal.Decimal `json:"total_invoiced"`
	TotalCollected decimal.Decimal `json:"total_collected"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	InvoiceCount   int             `json:"invoice_count"`
	AverageInvoice decimal.Decimal `json:"average_invoice"`
	// most recent month first
	Monthly []MonthlySales `json:"monthly"`
}

// monthlyBuckets accumulates amounts into the trailing months ending at asOf.
type monthlyBuckets struct {
	order []string
	index map[string]*MonthlySales
}

func newMonthlyBuckets(asOf time.Time) *monthlyBuckets {
	b := &monthlyBuckets{index: make(map[string]*MonthlySales, trendMonths)}
	for _, m := range trailingMonths(asOf, trendMonths) {
		key := monthKey(m)
		b.order = append(b.order, key)
		b.index[key] = &MonthlySales{Month: key, Revenue: decimal.Zero}
	}
	return b
}

func (b *monthlyBuckets) add(day time.Time, amount decimal.Decimal) {
	if m, ok := b.index[monthKey(day)]; ok {
		m.Revenue = m.Revenue.Add(amount)
		m.Count++
	}
}

func (b *monthlyBuckets) chronological() []MonthlySales {
	out := make([]MonthlySales, 0, len(b.order))
	for _, k := range b.order {
		out = append(out, *b.index[k])
	}
	return out
}

func (b *monthlyBuckets) newestFirst() []MonthlySales {
	out := b.chronological()
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// GetSalesSummaryReport totals every non-cancelled invoice dated on or before
// asOf and breaks revenue down over the 12 months ending with asOf.
func GetSalesSummaryReport(ctx context.Context, asOf *time.Time) (*SalesSummary, error) {
	day := asOfDate(asOf)
	return runReport(ctx, "sales_summary", map[string]any{"as_of": formatDate(day)}, func(tx *gorm.DB, tenantId string) (*SalesSummary, error) {
		var invoices []*models.Invoice
		if err := tx.Where("tenant_id = ? AND status <> ? AND invoice_date < ?",
			tenantId, models.InvoiceStatusCancelled, day.AddDate(0, 0, 1)).
			Order("invoice_date, id").Find(&invoices).Error; err != nil {
			return nil, utils.DatabaseError(err)
		}

		report := &SalesSummary{
			AsOf:           formatDate(day),
			TotalInvoiced:  decimal.Zero,
			TotalCollected: decimal.Zero,
			AverageInvoice: decimal.Zero,
		}
		months := newMonthlyBuckets(day)
		for _, inv := range invoices {
			report.TotalInvoiced = report.TotalInvoiced.Add(inv.TotalAmount)
			report.TotalCollected = report.TotalCollected.Add(inv.AmountPaid)
			report.InvoiceCount++
			months.add(inv.InvoiceDate, inv.TotalAmount)
		}
		report.Outstanding = report.TotalInvoiced.Sub(report.TotalCollected)
		if report.InvoiceCount > 0 {
			report.AverageInvoice = report.TotalInvoiced.DivRound(decimal.NewFromInt(int64(report.InvoiceCount)), 4)
		}
		report.Monthly = months.newestFirst()
		return report, nil
	})
}

func (r *SalesSummary) Table() ReportTable {
	t := ReportTable{
		Title:  "Sales Summary as of " + r.AsOf,
		Header: []string{"Month", "Revenue", "Invoices"},
	}
	for _, m := range r.Monthly {
		t.Rows = append(t.Rows, []any{m.Month, m.Revenue, m.Count})
	}
	t.Totals = []any{"Total invoiced", r.TotalInvoiced, r.InvoiceCount}
	return t
}
