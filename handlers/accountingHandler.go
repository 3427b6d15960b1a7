package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/erp_backend/middlewares"
	"github.com/mmdatafocus/erp_backend/models"
	"github.com/mmdatafocus/erp_backend/utils"
	"github.com/mmdatafocus/erp_backend/workflow"
)

func registerAccountingRoutes(g *gin.RouterGroup) {
	admin := middlewares.RequireRole(utils.RoleAdmin)

	g.GET("/invoices", listHandler("ListInvoices", models.ListInvoices))
	g.POST("/invoices", createHandler("CreateInvoice", models.CreateInvoice))
	g.GET("/invoices/:id", getHandler("GetInvoice", models.GetInvoice))
	g.GET("/invoices/:id/payments", invoicePayments)
	g.POST("/invoices/:id/send", transitionHandler("SendInvoice", workflow.SendInvoice))
	g.POST("/invoices/:id/cancel", transitionHandler("CancelInvoice", workflow.CancelInvoice))
	g.POST("/payments", createHandler("RecordPayment", workflow.RecordPayment))

	g.GET("/accounts", listAccounts)
	g.POST("/accounts", admin, createHandler("CreateAccount", models.CreateAccount))
	g.GET("/accounts/:id", getHandler("GetAccount", models.GetAccount))

	g.GET("/journal-entries", listHandler("ListJournalEntries", models.ListJournalEntries))
	g.POST("/journal-entries", admin, createHandler("CreateJournalEntry", models.CreateJournalEntry))
	g.GET("/journal-entries/:id", getHandler("GetJournalEntry", models.GetJournalEntry))
}

func registerEmployeeRoutes(g *gin.RouterGroup) {
	g.GET("", listHandler("ListEmployees", models.ListEmployees))
	g.POST("", middlewares.RequireRole(utils.RoleAdmin), createHandler("CreateEmployee", models.CreateEmployee))
	g.GET("/:id", getHandler("GetEmployee", models.GetEmployee))
}

func listAccounts(c *gin.Context) {
	accounts, err := models.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, "ListAccounts", err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func invoicePayments(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	payments, err := models.ListInvoicePayments(c.Request.Context(), id)
	if err != nil {
		respondError(c, "ListInvoicePayments", err)
		return
	}
	c.JSON(http.StatusOK, payments)
}
