package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/workflow"
)

func registerSalesRoutes(g *gin.RouterGroup) {
	g.GET("/customers", listHandler("ListCustomers", models.ListCustomers))
	g.POST("/customers", createHandler("CreateCustomer", models.CreateCustomer))

	g.GET("/orders", listHandler("ListSalesOrders", models.ListSalesOrders))
	g.POST("/orders", createHandler("CreateSalesOrder", models.CreateSalesOrder))
	g.GET("/orders/:id", getHandler("GetSalesOrder", models.GetSalesOrder))
	g.POST("/orders/:id/confirm", transitionHandler("ConfirmSalesOrder", workflow.ConfirmSalesOrder))
	g.POST("/orders/:id/ship", transitionHandler("ShipSalesOrder", workflow.ShipSalesOrder))
	g.POST("/orders/:id/cancel", transitionHandler("CancelSalesOrder", workflow.CancelSalesOrder))
}
