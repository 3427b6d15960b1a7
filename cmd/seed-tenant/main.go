// seed-tenant creates the default chart of accounts for a tenant. Accounts
// whose number already exists are left alone, so it is safe to rerun.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-tenant --tenant-id <uuid>
//
// Without --tenant-id a new tenant id is generated and printed together with
// an admin token for it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
)

func main() {
	rawTenant := flag.String("tenant-id", "", "Optional: tenant id (uuid); generated when empty")
	migrate := flag.Bool("migrate", false, "Run AutoMigrate before seeding")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "Lifespan of the printed admin token")
	flag.Parse()

	tenantId := uuid.NewString()
	if *rawTenant != "" {
		parsed, err := utils.ParseTenantId(*rawTenant)
		if err != nil {
			fmt.Fprintln(os.Stderr, "--tenant-id must be a uuid")
			os.Exit(1)
		}
		tenantId = parsed
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	if *migrate {
		if err := models.Migrate(db); err != nil {
			config.LogError(config.GetLogger(), "seed-tenant", "main", "Migrate", nil, err)
			os.Exit(1)
		}
	}

	ctx := utils.SetTenantIdInContext(context.Background(), tenantId)
	ctx = utils.SetUserIdInContext(ctx, "seed")
	ctx = utils.SetRoleInContext(ctx, utils.RoleAdmin)

	created, err := models.SeedDefaultAccounts(ctx)
	if err != nil {
		config.LogError(config.GetLogger(), "seed-tenant", "main", "SeedDefaultAccounts", tenantId, err)
		os.Exit(1)
	}
	for _, a := range created {
		fmt.Printf("created account %s %s (%s)\n", a.AccountNumber, a.Name, a.AccountType)
	}
	fmt.Printf("tenant=%s accounts created: %d\n", tenantId, len(created))

	token, err := utils.JwtGenerate("seed", tenantId, utils.RoleAdmin, *tokenTTL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("admin token: %s\n", token)
}
