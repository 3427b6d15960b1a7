package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/erp_backend/models"
)

func registerInventoryRoutes(api *gin.RouterGroup) {
	products := api.Group("/products")
	products.GET("", listHandler("ListProducts", models.ListProducts))
	products.POST("", createHandler("CreateProduct", models.CreateProduct))
	products.GET("/:id", getHandler("GetProduct", models.GetProduct))
	products.GET("/:id/ledger", productLedger)

	api.POST("/inventory/adjustments", createHandler("AdjustStock", models.AdjustStock))
}

func productLedger(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	entries, err := models.ListStockLedger(c.Request.Context(), id)
	if err != nil {
		respondError(c, "ListStockLedger", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
