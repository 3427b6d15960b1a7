package reports

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("erp_backend/reports")

func reportCacheEnabled() bool {
	return config.ReportCacheEnabled() && config.GetRedisDB() != nil
}

func reportCacheTTL() time.Duration {
	return utils.GetCacheLifespan()
}

func reportSlowMs() int64 {
	// Env: REPORT_SLOW_MS (default 500ms)
	ms := int64(500)
	if v := strings.TrimSpace(os.Getenv("REPORT_SLOW_MS")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			ms = n
		}
	}
	return ms
}

func logSlowReport(ctx context.Context, name string, started time.Time, extra map[string]any) {
	d := time.Since(started)
	if d.Milliseconds() < reportSlowMs() {
		return
	}
	tenantId, _ := utils.GetTenantIdFromContext(ctx)
	cid, _ := utils.GetCorrelationIdFromContext(ctx)
	config.GetLogger().WithFields(logrus.Fields{
		"report":         name,
		"ms":             d.Milliseconds(),
		"tenant_id":      tenantId,
		"correlation_id": cid,
		"params":         extra,
	}).Warn("slow_report")
}

// readSnapshot runs fn in one read-only transaction so every query of a
// report sees the same committed state.
func readSnapshot(ctx context.Context, fn func(tx *gorm.DB) error) error {
	db := config.GetDB().WithContext(ctx)
	if config.IsSQLite(db) {
		return db.Transaction(fn)
	}
	return db.Transaction(fn, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
}

// runReport builds a report for the tenant of ctx inside a snapshot.
// With the report cache on, results are keyed by tenant data generation,
// report name and params, so any committed write makes older entries unreachable.
func runReport[T any](ctx context.Context, name string, params map[string]any, build func(tx *gorm.DB, tenantId string) (*T, error)) (*T, error) {
	tenantId, err := utils.RequireTenantId(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	ctx, span := tracer.Start(ctx, "reports."+name)
	span.SetAttributes(attribute.String("tenant_id", tenantId))
	defer span.End()
	defer logSlowReport(ctx, name, start, params)

	key := ""
	if reportCacheEnabled() {
		if gen, err := utils.TenantCacheGeneration(ctx, tenantId); err == nil {
			key = utils.TenantCacheKey(tenantId, gen, "report", name, paramKey(params))
			var cached T
			if ok, err := config.GetRedisObject(ctx, key, &cached); err == nil && ok {
				span.SetAttributes(attribute.Bool("cache_hit", true))
				return &cached, nil
			}
		}
	}

	var result *T
	err = readSnapshot(ctx, func(tx *gorm.DB) error {
		var err error
		result, err = build(tx, tenantId)
		return err
	})
	if err != nil {
		err = utils.DatabaseError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, utils.PublicMessage(err))
		if utils.ErrorKindOf(err) == utils.ErrorKindDatabase {
			config.LogError(config.GetLogger(), "reports", name, "build", params, err)
		}
		return nil, err
	}
	if key != "" {
		if err := config.SetRedisObject(ctx, key, result, reportCacheTTL()); err != nil {
			config.LogError(config.GetLogger(), "reports", name, "cache set", key, err)
		}
	}
	return result, nil
}

// paramKey renders params in a stable order.
func paramKey(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return strings.Join(parts, "&")
}
