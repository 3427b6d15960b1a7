package utils

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mmdatafocus/erp_backend/config"
)

func tenantGenerationKey(tenantId string) string {
	return "tenant:" + tenantId + ":generation"
}

// GetCacheLifespan reads REPORT_CACHE_TTL_SECONDS (default 120s).
func GetCacheLifespan() time.Duration {
	ttl := 120
	if v := strings.TrimSpace(os.Getenv("REPORT_CACHE_TTL_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = n
		}
	}
	return time.Duration(ttl) * time.Second
}

// TenantCacheGeneration returns the tenant's current data generation.
// Cached values keyed by an older generation are never read again.
func TenantCacheGeneration(ctx context.Context, tenantId string) (string, error) {
	val, ok, err := config.GetRedisValue(ctx, tenantGenerationKey(tenantId))
	if err != nil {
		return "", err
	}
	if !ok {
		return "0", nil
	}
	return val, nil
}

// BumpTenantCacheGeneration invalidates every cached value of the tenant.
// Called after each committed write.
func BumpTenantCacheGeneration(ctx context.Context, tenantId string) {
	if _, err := config.IncrRedisCounter(ctx, tenantGenerationKey(tenantId)); err != nil {
		config.LogError(config.GetLogger(), "utils", "BumpTenantCacheGeneration", "incr", tenantId, err)
	}
}

// TenantCacheKey builds a key scoped to tenant and generation.
func TenantCacheKey(tenantId string, generation string, parts ...any) string {
	key := fmt.Sprintf("tenant:%s:gen:%s", tenantId, generation)
	for _, p := range parts {
		key += ":" + fmt.Sprint(p)
	}
	return key
}
