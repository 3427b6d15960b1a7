package middlewares

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// key counts per tenant when the request is authenticated, per client IP otherwise.
func (rl *RateLimiter) key(c *gin.Context) string {
	if tenantId, ok := utils.GetTenantIdFromContext(c.Request.Context()); ok && tenantId != "" {
		return "ratelimit:tenant:" + tenantId
	}
	return "ratelimit:ip:" + c.ClientIP()
}

// RateLimitMiddleware allows limit requests per window for each key.
// Redis failures let the request through.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	ctx := c.Request.Context()
	key := rl.key(c)

	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		config.GetLogger().WithFields(logrus.Fields{
			"field": "RateLimitMiddleware",
			"key":   key,
		}).Warn("rate limit check failed: " + err.Error())
		c.Next()
		return
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, key, rl.window).Err(); err != nil {
			config.GetLogger().WithFields(logrus.Fields{
				"field": "RateLimitMiddleware",
				"key":   key,
			}).Warn("rate limit expiry failed: " + err.Error())
		}
	}

	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}
	c.Next()
}
