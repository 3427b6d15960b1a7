// Package testutil opens throwaway sqlite databases wired like production:
// same gorm config, tenant guard plugin and schema.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq int64

// OpenDB creates a migrated in-memory database, installs it as the global
// connection and closes it when the test ends.
//
// The pool holds a single connection, so concurrent transactions queue on it.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("file:erp_test_%d_%d?mode=memory&cache=shared&_busy_timeout=5000", atomic.AddInt64(&dbSeq, 1), uuid.New().ID())
	db, err := gorm.Open(sqlite.Open(name), config.GormConfig())
	require.NoError(t, err)
	require.NoError(t, db.Use(config.NewTenantGuardPlugin()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	require.NoError(t, models.Migrate(db))

	prev := config.GetDB()
	config.UseDatabase(db)
	t.Cleanup(func() {
		config.UseDatabase(prev)
		_ = sqlDB.Close()
	})
	return db
}

// TenantContext returns a context scoped to a fresh tenant and that tenant's id.
func TenantContext() (context.Context, string) {
	tenantId := uuid.NewString()
	return utils.SetTenantIdInContext(context.Background(), tenantId), tenantId
}
