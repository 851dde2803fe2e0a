package router

import (
	"mentorhub_backend/internal/handlers"
	"mentorhub_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupStaffRoutes sets up the staff member routes.
// Note: RoleAuthMiddleware is applied specifically for write and read operations.
func SetupStaffRoutes(authenticatedGroup *gin.RouterGroup, staffHandler *handlers.StaffHandler) {
	staffWriteRoutes := authenticatedGroup.Group("/staff")
	staffWriteRoutes.Use(middleware.RoleAuthMiddleware("Admin")) // Admin only for POST, PUT, DELETE
	{
		staffWriteRoutes.POST("", staffHandler.CreateStaffMember)
		staffWriteRoutes.PUT("/:id", staffHandler.UpdateStaffMember)
		staffWriteRoutes.DELETE("/:id", staffHandler.DeleteStaffMember)
	}

	// GET routes with Admin or Staff roles
	authenticatedGroup.GET("/staff", middleware.RoleAuthMiddleware("Admin", "Staff"), staffHandler.GetStaffMembers)
	authenticatedGroup.GET("/staff/:id", middleware.RoleAuthMiddleware("Admin", "Staff"), staffHandler.GetStaffMemberByID)
}

// SetupMenteeRoutes sets up the mentee routes.
func SetupMenteeRoutes(authenticatedGroup *gin.RouterGroup, menteeHandler *handlers.MenteeHandler) {
	menteeRoutes := authenticatedGroup.Group("/mentees")
	menteeRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		menteeRoutes.POST("", menteeHandler.CreateMentee)
		menteeRoutes.GET("", menteeHandler.GetMentees)
		menteeRoutes.GET("/:id", menteeHandler.GetMenteeByID)
		menteeRoutes.PUT("/:id", menteeHandler.UpdateMentee)
		menteeRoutes.PATCH("/:id/mentor", menteeHandler.AssignMentor)
	}

	// Removing a mentee record is Admin only
	authenticatedGroup.DELETE("/mentees/:id", middleware.RoleAuthMiddleware("Admin"), menteeHandler.DeleteMentee)
}

// SetupSessionRoutes sets up the mentorship session routes.
func SetupSessionRoutes(authenticatedGroup *gin.RouterGroup, sessionHandler *handlers.SessionHandler) {
	sessionRoutes := authenticatedGroup.Group("/sessions")
	sessionRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		sessionRoutes.POST("", sessionHandler.CreateSession)
		sessionRoutes.GET("", sessionHandler.GetSessions)
		sessionRoutes.GET("/:id", sessionHandler.GetSessionByID)
		sessionRoutes.PUT("/:id", sessionHandler.UpdateSession)
		sessionRoutes.DELETE("/:id", sessionHandler.DeleteSession)
	}
}

// SetupInvoiceRoutes sets up the invoice routes.
func SetupInvoiceRoutes(authenticatedGroup *gin.RouterGroup, invoiceHandler *handlers.InvoiceHandler) {
	invoiceRoutes := authenticatedGroup.Group("/invoices")
	invoiceRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		invoiceRoutes.POST("", invoiceHandler.CreateInvoice)
		invoiceRoutes.GET("", invoiceHandler.GetInvoices)
		invoiceRoutes.GET("/:id", invoiceHandler.GetInvoiceByID)
		invoiceRoutes.PUT("/:id", invoiceHandler.UpdateInvoice)
		invoiceRoutes.DELETE("/:id", invoiceHandler.DeleteInvoice)
	}

	// Approvals and payment marking are Admin only
	authenticatedGroup.PATCH("/invoices/:id/status", middleware.RoleAuthMiddleware("Admin"), invoiceHandler.UpdateInvoiceStatus)
}

// SetupReceiptRoutes sets up the receipt routes.
func SetupReceiptRoutes(authenticatedGroup *gin.RouterGroup, receiptHandler *handlers.ReceiptHandler) {
	receiptRoutes := authenticatedGroup.Group("/receipts")
	receiptRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		receiptRoutes.POST("", receiptHandler.CreateReceipt)
		receiptRoutes.GET("", receiptHandler.GetReceipts)
		receiptRoutes.GET("/:id", receiptHandler.GetReceiptByID)
		receiptRoutes.PUT("/:id", receiptHandler.UpdateReceipt)
		receiptRoutes.DELETE("/:id", receiptHandler.DeleteReceipt)
	}

	// Approve/reject decisions are Admin only
	authenticatedGroup.PATCH("/receipts/:id/status", middleware.RoleAuthMiddleware("Admin"), receiptHandler.DecideReceipt)
}

// SetupInventoryRoutes sets up the inventory routes. There is no DELETE:
// items are deactivated through PUT with is_active = false so stock history
// stays intact.
func SetupInventoryRoutes(authenticatedGroup *gin.RouterGroup, inventoryHandler *handlers.InventoryHandler) {
	inventoryRoutes := authenticatedGroup.Group("/inventory")
	inventoryRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		inventoryRoutes.POST("", inventoryHandler.CreateItem)
		inventoryRoutes.GET("", inventoryHandler.GetItems)
		inventoryRoutes.GET("/:id", inventoryHandler.GetItemByID)
		inventoryRoutes.PUT("/:id", inventoryHandler.UpdateItem)
		inventoryRoutes.PATCH("/:id/stock", inventoryHandler.AdjustStock)
	}
}

// SetupDocumentRoutes sets up the document metadata routes.
func SetupDocumentRoutes(authenticatedGroup *gin.RouterGroup, documentHandler *handlers.DocumentHandler) {
	documentRoutes := authenticatedGroup.Group("/documents")
	documentRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		documentRoutes.POST("", documentHandler.CreateDocument)
		documentRoutes.GET("", documentHandler.GetDocuments)
		documentRoutes.GET("/:id", documentHandler.GetDocumentByID)
		documentRoutes.PUT("/:id", documentHandler.UpdateDocument)
	}

	authenticatedGroup.DELETE("/documents/:id", middleware.RoleAuthMiddleware("Admin"), documentHandler.DeleteDocument)
}

// SetupAuditRoutes sets up the audit log routes.
func SetupAuditRoutes(authenticatedGroup *gin.RouterGroup, auditHandler *handlers.AuditHandler) {
	auditRoutes := authenticatedGroup.Group("/audit-log")
	auditRoutes.Use(middleware.RoleAuthMiddleware("Admin"))
	{
		auditRoutes.GET("", auditHandler.GetEntries)
	}
}

// SetupSettingsRoutes sets up the application settings routes.
func SetupSettingsRoutes(authenticatedGroup *gin.RouterGroup /*, handler *handlers.SettingsHandler*/) {
	settingsRoutes := authenticatedGroup.Group("/settings")
	settingsRoutes.Use(middleware.RoleAuthMiddleware("Admin"))
	{
		settingsRoutes.GET("", handlers.GetApplicationSettings)
		settingsRoutes.POST("", handlers.CreateOrUpdateApplicationSetting)
		settingsRoutes.GET("/:key", handlers.GetApplicationSettingByKey)
		settingsRoutes.DELETE("/:key", handlers.DeleteApplicationSettingByKey)
	}
}

// SetupSearchRoutes sets up the federated search route.
func SetupSearchRoutes(authenticatedGroup *gin.RouterGroup /*, handler *handlers.SearchHandler*/) {
	authenticatedGroup.GET("/search", middleware.RoleAuthMiddleware("Admin", "Staff"), handlers.GlobalSearch)
}

// SetupDashboardRoutes sets up the dashboard routes.
func SetupDashboardRoutes(authenticatedGroup *gin.RouterGroup /*, handler *handlers.DashboardHandler*/) {
	dashboardRoutes := authenticatedGroup.Group("/dashboard")
	dashboardRoutes.Use(middleware.RoleAuthMiddleware("Admin", "Staff"))
	{
		dashboardRoutes.GET("/summary", handlers.GetDashboardSummary)
	}
}
