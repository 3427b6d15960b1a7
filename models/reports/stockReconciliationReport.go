package reports

import (
	"context"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockReconciliationLine struct {
	ProductId int             `json:"product_id"`
	Sku       string          `json:"sku"`
	Name      string          `json:"name"`
	Cached    decimal.Decimal `json:"cached"`
	Ledger    decimal.Decimal `json:"ledger"`
	Drift     bool            `json:"drift"`
}

type StockReconciliation struct {
	Lines      []StockReconciliationLine `json:"lines"`
	DriftCount int                       `json:"drift_count"`
}

// GetStockReconciliationReport compares each product's cached stock with the
// sum of its ledger entries. Any drift is repaired with RebuildStockQuantities.
func GetStockReconciliationReport(ctx context.Context) (*StockReconciliation, error) {
	return runReport(ctx, "stock_reconciliation", nil, func(tx *gorm.DB, tenantId string) (*StockReconciliation, error) {
		var products []*models.Product
		if err := tx.Where("tenant_id = ?", tenantId).Order("sku, id").Find(&products).Error; err != nil {
			return nil, utils.DatabaseError(err)
		}
		var entries []*models.StockLedgerEntry
		if err := tx.Select("product_id", "quantity").Where("tenant_id = ?", tenantId).Find(&entries).Error; err != nil {
			return nil, utils.DatabaseError(err)
		}
		sums := make(map[int]decimal.Decimal, len(products))
		for _, e := range entries {
			sums[e.ProductId] = sums[e.ProductId].Add(e.Quantity)
		}

		report := &StockReconciliation{Lines: make([]StockReconciliationLine, 0, len(products))}
		for _, p := range products {
			ledger := sums[p.ID]
			line := StockReconciliationLine{
				ProductId: p.ID,
				Sku:       p.Sku,
				Name:      p.Name,
				Cached:    p.StockQuantity,
				Ledger:    ledger,
				Drift:     !ledger.Equal(p.StockQuantity),
			}
			if line.Drift {
				report.DriftCount++
			}
			report.Lines = append(report.Lines, line)
		}
		return report, nil
	})
}

func (r *StockReconciliation) Table() ReportTable {
	t := ReportTable{
		Title:  "Stock Reconciliation",
		Header: []string{"SKU", "Name", "Cached", "Ledger", "Drift"},
	}
	for _, l := range r.Lines {
		t.Rows = append(t.Rows, []any{l.Sku, l.Name, l.Cached, l.Ledger, l.Drift})
	}
	t.Totals = []any{"Products with drift", "", "", "", r.DriftCount}
	return t
}
