package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/workflow"
)

func registerPurchasingRoutes(g *gin.RouterGroup) {
	g.GET("/suppliers", listHandler("ListSuppliers", models.ListSuppliers))
	g.POST("/suppliers", createHandler("CreateSupplier", models.CreateSupplier))

	g.GET("/orders", listHandler("ListPurchaseOrders", models.ListPurchaseOrders))
	g.POST("/orders", createHandler("CreatePurchaseOrder", models.CreatePurchaseOrder))
	g.GET("/orders/:id", getHandler("GetPurchaseOrder", models.GetPurchaseOrder))
	g.POST("/orders/:id/place", transitionHandler("PlacePurchaseOrder", workflow.PlacePurchaseOrder))
	g.POST("/orders/:id/receive", transitionHandler("ReceivePurchaseOrder", workflow.ReceivePurchaseOrder))
	g.POST("/orders/:id/cancel", transitionHandler("CancelPurchaseOrder", workflow.CancelPurchaseOrder))

	g.GET("/bills", listHandler("ListBills", models.ListBills))
	g.POST("/bills", createHandler("CreateBill", models.CreateBill))
	g.GET("/bills/:id", getHandler("GetBill", models.GetBill))
	g.POST("/bills/:id/payments", recordBillPayment)
	g.POST("/bills/:id/cancel", transitionHandler("CancelBill", workflow.CancelBill))
}

func recordBillPayment(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewBillPayment
	if !bindJSON(c, &input) {
		return
	}
	payment, err := workflow.RecordBillPayment(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "RecordBillPayment", err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}
