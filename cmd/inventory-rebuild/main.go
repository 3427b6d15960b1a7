// inventory-rebuild recomputes every product's cached stock_quantity of one
// tenant from its stock ledger and prints the products that had drifted.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/inventory-rebuild --tenant-id <uuid>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/models/reports"
	"github.com/mmdatafocus/erp_backend/utils"
)

func main() {
	rawTenant := flag.String("tenant-id", "", "Required: tenant id (uuid)")
	dryRun := flag.Bool("dry-run", false, "Only report drift, do not write")
	flag.Parse()

	tenantId, err := utils.ParseTenantId(*rawTenant)
	if err != nil {
		fmt.Fprintln(os.Stderr, "--tenant-id is required and must be a uuid")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}
	ctx := utils.SetTenantIdInContext(context.Background(), tenantId)

	if *dryRun {
		report, err := reports.GetStockReconciliationReport(ctx)
		if err != nil {
			config.LogError(config.GetLogger(), "inventory-rebuild", "main", "GetStockReconciliationReport", tenantId, err)
			os.Exit(1)
		}
		for _, l := range report.Lines {
			if l.Drift {
				fmt.Printf("product=%d sku=%s cached=%s ledger=%s\n", l.ProductId, l.Sku, l.Cached, l.Ledger)
			}
		}
		fmt.Printf("tenant=%s products with drift: %d\n", tenantId, report.DriftCount)
		return
	}

	fixed, err := models.RebuildStockQuantities(ctx)
	if err != nil {
		config.LogError(config.GetLogger(), "inventory-rebuild", "main", "RebuildStockQuantities", tenantId, err)
		os.Exit(1)
	}
	for _, f := range fixed {
		fmt.Printf("product=%d sku=%s cached=%s ledger=%s\n", f.ProductId, f.Sku, f.Cached, f.Ledger)
	}
	fmt.Printf("tenant=%s rebuilt %d products\n", tenantId, len(fixed))
}
