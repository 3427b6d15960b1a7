package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/erp_backend/models/reports"
	"github.com/mmdatafocus/erp_backend/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func registerReportRoutes(g *gin.RouterGroup) {
	g.GET("/trial-balance", reportHandler("trial-balance", func(c *gin.Context) (*reports.TrialBalance, error) {
		return reports.GetTrialBalanceReport(c.Request.Context())
	}))
	g.GET("/profit-and-loss", reportHandler("profit-and-loss", func(c *gin.Context) (*reports.ProfitAndLoss, error) {
		return reports.GetProfitAndLossReport(c.Request.Context())
	}))
	g.GET("/balance-sheet", reportHandler("balance-sheet", func(c *gin.Context) (*reports.BalanceSheet, error) {
		return reports.GetBalanceSheetReport(c.Request.Context())
	}))
	g.GET("/ar-aging", reportHandler("ar-aging", func(c *gin.Context) (*reports.AgingReport, error) {
		asOf, err := queryDate(c, "as_of")
		if err != nil {
			return nil, err
		}
		return reports.GetARAgingReport(c.Request.Context(), asOf)
	}))
	g.GET("/ap-aging", reportHandler("ap-aging", func(c *gin.Context) (*reports.AgingReport, error) {
		asOf, err := queryDate(c, "as_of")
		if err != nil {
			return nil, err
		}
		return reports.GetAPAgingReport(c.Request.Context(), asOf)
	}))
	g.GET("/sales-summary", reportHandler("sales-summary", func(c *gin.Context) (*reports.SalesSummary, error) {
		asOf, err := queryDate(c, "as_of")
		if err != nil {
			return nil, err
		}
		return reports.GetSalesSummaryReport(c.Request.Context(), asOf)
	}))
	g.GET("/sales-trend", reportHandler("sales-trend", func(c *gin.Context) (*reports.SalesTrend, error) {
		asOf, err := queryDate(c, "as_of")
		if err != nil {
			return nil, err
		}
		return reports.GetSalesTrendReport(c.Request.Context(), asOf)
	}))
	g.GET("/general-ledger", reportHandler("general-ledger", func(c *gin.Context) (*reports.GeneralLedger, error) {
		filter, err := generalLedgerFilter(c)
		if err != nil {
			return nil, err
		}
		return reports.GetGeneralLedgerReport(c.Request.Context(), filter)
	}))
	g.GET("/stock-reconciliation", reportHandler("stock-reconciliation", func(c *gin.Context) (*reports.StockReconciliation, error) {
		return reports.GetStockReconciliationReport(c.Request.Context())
	}))
}

func queryDate(c *gin.Context, name string) (*time.Time, error) {
	return utils.ParseDate(c.Query(name))
}

func generalLedgerFilter(c *gin.Context) (reports.GeneralLedgerFilter, error) {
	var filter reports.GeneralLedgerFilter
	var err error
	if filter.From, err = queryDate(c, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = queryDate(c, "to"); err != nil {
		return filter, err
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, utils.ValidationError("to must not be before from")
	}
	if raw := c.Query("account_id"); raw != "" {
		id, err := utils.ParseId(raw)
		if err != nil {
			return filter, err
		}
		filter.AccountId = &id
	}
	return filter, nil
}

// reportHandler renders the report as JSON, or as an xlsx download when
// format=xlsx.
func reportHandler[T reports.Tabular](name string, build func(c *gin.Context) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		format := c.DefaultQuery("format", "json")
		if format != "json" && format != "xlsx" {
			respondError(c, name, utils.ValidationError("unsupported format %q", format))
			return
		}
		report, err := build(c)
		if err != nil {
			respondError(c, name, err)
			return
		}
		if format == "json" {
			c.JSON(http.StatusOK, report)
			return
		}

		var buf bytes.Buffer
		if err := reports.WriteExcel(&buf, report); err != nil {
			respondError(c, name, utils.DatabaseError(err))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}
