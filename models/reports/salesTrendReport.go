package reports

import (
	"context"
	"time"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalesTrend struct {
	AsOf   string          `json:"as_of"`
	Months []MonthlySales  `json:"months"`
	Total  decimal.Decimal `json:"total"`
}

// GetSalesTrendReport sums non-cancelled sales order totals per order month
// over the 12 months ending with asOf, oldest month first.
func GetSalesTrendReport(ctx context.Context, asOf *time.Time) (*SalesTrend, error) {
	day := asOfDate(asOf)
	return runReport(ctx, "sales_trend", map[string]any{"as_of": formatDate(day)}, func(tx *gorm.DB, tenantId string) (*SalesTrend, error) {
		months := trailingMonths(day, trendMonths)
		var orders []*models.SalesOrder
		if err := tx.Where("tenant_id = ? AND status <> ? AND order_date >= ? AND order_date < ?",
			tenantId, models.SalesOrderStatusCancelled, months[0], day.AddDate(0, 0, 1)).
			Order("order_date, id").Find(&orders).Error; err != nil {
			return nil, utils.DatabaseError(err)
		}

		buckets := newMonthlyBuckets(day)
		total := decimal.Zero
		for _, o := range orders {
			buckets.add(o.OrderDate, o.TotalAmount)
			total = total.Add(o.TotalAmount)
		}
		return &SalesTrend{AsOf: formatDate(day), Months: buckets.chronological(), Total: total}, nil
	})
}

func (r *SalesTrend) Table() ReportTable {
	t := ReportTable{
		Title:  "Sales Trend as of " + r.AsOf,
		Header: []string{"Month", "Revenue", "Orders"},
	}
	count := 0
	for _, m := range r.Months {
		t.Rows = append(t.Rows, []any{m.Month, m.Revenue, m.Count})
		count += m.Count
	}
	t.Totals = []any{"Total", r.Total, count}
	return t
}
