package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/workflow"
)

func registerManufacturingRoutes(g *gin.RouterGroup) {
	g.GET("/recipes", listHandler("ListRecipes", models.ListRecipes))
	g.POST("/recipes", createHandler("CreateRecipe", models.CreateRecipe))
	g.GET("/recipes/:id", getHandler("GetRecipe", models.GetRecipe))

	g.GET("/work-orders", listHandler("ListWorkOrders", models.ListWorkOrders))
	g.POST("/work-orders", createHandler("CreateWorkOrder", models.CreateWorkOrder))
	g.GET("/work-orders/:id", getHandler("GetWorkOrder", models.GetWorkOrder))
	g.POST("/work-orders/:id/start", transitionHandler("StartWorkOrder", workflow.StartWorkOrder))
	g.POST("/work-orders/:id/complete", transitionHandler("CompleteWorkOrder", workflow.CompleteWorkOrder))
	g.POST("/work-orders/:id/cancel", transitionHandler("CancelWorkOrder", workflow.CancelWorkOrder))
}
