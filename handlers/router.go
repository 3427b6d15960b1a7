package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/middlewares"
	"github.com/sirupsen/logrus"
)

type RouterOptions struct {
	// empty allows every origin
	AllowedOrigins []string
	// nil disables rate limiting
	RateLimiter *middlewares.RateLimiter
	// API routes answer 503 while Ready returns false
	Ready func() bool
}

// NewRouter builds the gin engine with the middleware chain and all routes.
func NewRouter(opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.CorrelationId())
	r.Use(customErrorLogger(config.GetLogger()))
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	r.GET("/healthz", healthz)

	api := r.Group("/api")
	if opts.Ready != nil {
		api.Use(readinessGate(opts.Ready))
	}
	api.Use(middlewares.AuthMiddleware())
	if opts.RateLimiter != nil {
		api.Use(opts.RateLimiter.RateLimitMiddleware)
	}
	RegisterRoutes(api)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	return r
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}
	cfg.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	cfg.AddAllowHeaders("Origin", "Content-Type", "Authorization", "x-tenant-id", "x-correlation-id")
	cfg.AddExposeHeaders("Content-Length", "Content-Disposition", "x-correlation-id")
	return cfg
}

func readinessGate(ready func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ready() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "service starting"})
			return
		}
		c.Next()
	}
}

// healthz reports 503 until the database is connected.
func healthz(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
		return
	}
	sqlDB, err := db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// customErrorLogger logs the errors attached to the request.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			logger.WithFields(logrus.Fields{
				"path":   c.FullPath(),
				"status": c.Writer.Status(),
			}).Error(c.Errors.String())
		}
	}
}
