package reports

import (
	"context"
	"sort"
	"time"

	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AgingLine struct {
	PartyId    int             `json:"party_id"`
	Name       string          `json:"name"`
	Current    decimal.Decimal `json:"current"`
	Days1To30  decimal.Decimal `json:"days_1_30"`
	Days31To60 decimal.Decimal `json:"days_31_60"`
	Days61To90 decimal.Decimal `json:"days_61_90"`
	Over90     decimal.Decimal `json:"days_over_90"`
	Total      decimal.Decimal `json:"total"`
}

type AgingReport struct {
	AsOf         string          `json:"as_of"`
	Lines        []*AgingLine    `json:"lines"`
	TotalCurrent decimal.Decimal `json:"total_current"`
	Total1To30   decimal.Decimal `json:"total_1_30"`
	Total31To60  decimal.Decimal `json:"total_31_60"`
	Total61To90  decimal.Decimal `json:"total_61_90"`
	TotalOver90  decimal.Decimal `json:"total_over_90"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
}

// agingItem is one open receivable or payable.
type agingItem struct {
	PartyId     int
	DueDate     time.Time
	Outstanding decimal.Decimal
}

func newAgingLine(id int, name string) *AgingLine {
	return &AgingLine{
		PartyId: id, Name: name,
		Current: decimal.Zero, Days1To30: decimal.Zero, Days31To60: decimal.Zero,
		Days61To90: decimal.Zero, Over90: decimal.Zero, Total: decimal.Zero,
	}
}

// add puts amount in the bucket of daysPast. Upper bounds are inclusive and
// anything not yet past due is current.
func (l *AgingLine) add(daysPast int, amount decimal.Decimal) {
	switch {
	case daysPast <= 0:
		l.Current = l.Current.Add(amount)
	case daysPast <= 30:
		l.Days1To30 = l.Days1To30.Add(amount)
	case daysPast <= 60:
		l.Days31To60 = l.Days31To60.Add(amount)
	case daysPast <= 90:
		l.Days61To90 = l.Days61To90.Add(amount)
	default:
		l.Over90 = l.Over90.Add(amount)
	}
	l.Total = l.Total.Add(amount)
}

// buildAging buckets items by days past due on asOf, one line per party
// ordered by name. Items with nothing outstanding are skipped.
func buildAging(asOf time.Time, items []agingItem, names map[int]string) *AgingReport {
	byParty := make(map[int]*AgingLine)
	totals := newAgingLine(0, "")
	for _, it := range items {
		if !it.Outstanding.IsPositive() {
			continue
		}
		line, ok := byParty[it.PartyId]
		if !ok {
			line = newAgingLine(it.PartyId, names[it.PartyId])
			byParty[it.PartyId] = line
		}
		days := utils.DaysBetween(it.DueDate, asOf)
		line.add(days, it.Outstanding)
		totals.add(days, it.Outstanding)
	}

	lines := make([]*AgingLine, 0, len(byParty))
	for _, l := range byParty {
		lines = append(lines, l)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].PartyId < lines[j].PartyId
	})

	return &AgingReport{
		AsOf:         formatDate(asOf),
		Lines:        lines,
		TotalCurrent: totals.Current,
		Total1To30:   totals.Days1To30,
		Total31To60:  totals.Days31To60,
		Total61To90:  totals.Days61To90,
		TotalOver90:  totals.Over90,
		GrandTotal:   totals.Total,
	}
}

// GetARAgingReport ages every invoice that is neither Paid nor Cancelled.
// asOf defaults to today.
func GetARAgingReport(ctx context.Context, asOf *time.Time) (*AgingReport, error) {
	day := asOfDate(asOf)
	return runReport(ctx, "ar_aging", map[string]any{"as_of": formatDate(day)}, func(tx *gorm.DB, tenantId string) (*AgingReport, error) {
		var invoices []*models.Invoice
		if err := tx.Where("tenant_id = ? AND status NOT IN ?", tenantId,
			[]models.InvoiceStatus{models.InvoiceStatusPaid, models.InvoiceStatusCancelled}).
			Order("id").Find(&invoices).Error; err != nil {
			return nil, utils.DatabaseError(err)
		}
		var customers []*models.Customer
		if err := tx.Where("tenant_id = ?", tenantId).Find(&customers).Error; err != nil {
			return nil, utils.DatabaseError(err)
		}
		names := make(map[int]string, len(customers))
		for _, c := range customers {
			names[c.ID] = c.Name
		}
		items := make([]agingItem, 0, len(invoices))
		for _, inv := range invoices {
			items = append(items, agingItem{PartyId: inv.CustomerId, DueDate: inv.DueDate, Outstanding: inv.Outstanding()})
		}
		return buildAging(day, items, names), nil
	})
}

// GetAPAgingReport ages every bill that is neither Paid nor Cancelled.
func GetAPAgingReport(ctx context.Context, asOf *time.Time) (*AgingReport, error) {
	day := asOfDate(asOf)
	return runReport(ctx, "ap_aging", map[string]any{"as_of": formatDate(day)}, func(tx *gorm.DB, tenantId string) (*AgingReport, error) {
		var bills []*models.Bill
		if err := tx.Where("tenant_id = ? AND status NOT IN ?", tenantId,
			[]models.BillStatus{models.BillStatusPaid, models.BillStatusCancelled}).
			Order("id").Find(&bills).Error; err != nil {
			return nil, utils.DatabaseError(err)
		}
		var suppliers []*models.Supplier
		if err := tx.Where("tenant_id = ?", tenantId).Find(&suppliers).Error; err != nil {
			return nil, utils.DatabaseError(err)
		}
		names := make(map[int]string, len(suppliers))
		for _, s := range suppliers {
			names[s.ID] = s.Name
		}
		items := make([]agingItem, 0, len(bills))
		for _, b := range bills {
			items = append(items, agingItem{PartyId: b.SupplierId, DueDate: b.DueDate, Outstanding: b.TotalAmount.Sub(b.AmountPaid)})
		}
		return buildAging(day, items, names), nil
	})
}

func (r *AgingReport) Table() ReportTable {
	t := ReportTable{
		Title:  "Aging as of " + r.AsOf,
		Header: []string{"Name", "Current", "1-30", "31-60", "61-90", "Over 90", "Total"},
	}
	for _, l := range r.Lines {
		t.Rows = append(t.Rows, []any{l.Name, l.Current, l.Days1To30, l.Days31To60, l.Days61To90, l.Over90, l.Total})
	}
	t.Totals = []any{"Total", r.TotalCurrent, r.Total1To30, r.Total31To60, r.Total61To90, r.TotalOver90, r.GrandTotal}
	return t
}
