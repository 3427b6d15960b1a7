package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/erp_backend/config"
	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch utils.ErrorKindOf(err) {
	case utils.ErrorKindNotFound:
		return http.StatusNotFound
	case utils.ErrorKindBusinessRule, utils.ErrorKindValidation:
		return http.StatusBadRequest
	case utils.ErrorKindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the caller-safe message of err. Database causes are
// logged, never returned.
func respondError(c *gin.Context, funcName string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		cid, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		config.LogError(config.GetLogger(), "handlers", funcName, c.Request.Method+" "+c.FullPath(), map[string]any{"correlation_id": cid}, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": utils.PublicMessage(err)})
}

func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return false
	}
	return true
}

func pathId(c *gin.Context) (int, bool) {
	id, err := utils.ParseId(c.Param("id"))
	if err != nil {
		respondError(c, "pathId", err)
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (models.Pagination, bool) {
	var page models.Pagination
	if err := c.ShouldBindQuery(&page); err != nil || page.Limit < 0 || page.Offset < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid pagination"})
		return page, false
	}
	return page, true
}

func createHandler[In any, Out any](name string, fn func(context.Context, *In) (*Out, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input In
		if !bindJSON(c, &input) {
			return
		}
		out, err := fn(c.Request.Context(), &input)
		if err != nil {
			respondError(c, name, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

func getHandler[Out any](name string, fn func(context.Context, int) (*Out, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		out, err := fn(c.Request.Context(), id)
		if err != nil {
			respondError(c, name, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func listHandler[Out any](name string, fn func(context.Context, models.Pagination) ([]*Out, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, ok := pagination(c)
		if !ok {
			return
		}
		out, err := fn(c.Request.Context(), page)
		if err != nil {
			respondError(c, name, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// transitionHandler runs a document transition on the :id of the path.
func transitionHandler[Out any](name string, fn func(context.Context, int) (*Out, error)) gin.HandlerFunc {
	return getHandler(name, fn)
}

// RegisterRoutes mounts every API route on api, which must already carry
// the auth middleware.
func RegisterRoutes(api *gin.RouterGroup) {
	registerInventoryRoutes(api)
	registerPurchasingRoutes(api.Group("/purchasing"))
	registerSalesRoutes(api.Group("/sales"))
	registerManufacturingRoutes(api.Group("/manufacturing"))
	registerAccountingRoutes(api.Group("/accounting"))
	registerEmployeeRoutes(api.Group("/employees"))
	registerReportRoutes(api.Group("/reports"))
}
