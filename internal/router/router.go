package router

import (
	"database/sql"

	"mentorhub_backend/internal/handlers"
	"mentorhub_backend/internal/middleware"
	"mentorhub_backend/internal/repositories"
	"mentorhub_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	staffRepo := repositories.NewStaffRepository(db)
	menteeRepo := repositories.NewMenteeRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	invoiceRepo := repositories.NewInvoiceRepository(db)
	receiptRepo := repositories.NewReceiptRepository(db)
	inventoryRepo := repositories.NewInventoryRepository(db)
	documentRepo := repositories.NewDocumentRepository(db)
	auditRepo := repositories.NewAuditRepository(db)

	// Initialize Services
	authService := services.NewAuthService(authRepo, db)
	staffService := services.NewStaffService(staffRepo, db)
	menteeService := services.NewMenteeService(menteeRepo, staffRepo, db)
	sessionService := services.NewSessionService(sessionRepo, staffRepo, menteeRepo, db)
	invoiceService := services.NewInvoiceService(invoiceRepo, db)
	receiptService := services.NewReceiptService(receiptRepo, db)
	inventoryService := services.NewInventoryService(inventoryRepo, db)
	documentService := services.NewDocumentService(documentRepo, db)
	auditService := services.NewAuditService(auditRepo)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	staffHandler := handlers.NewStaffHandler(staffService)
	menteeHandler := handlers.NewMenteeHandler(menteeService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	receiptHandler := handlers.NewReceiptHandler(receiptService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	auditHandler := handlers.NewAuditHandler(auditService)

	apiV1 := engine.Group("/api/v1")

	// Public authentication routes
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	// Authenticated routes. The audit middleware sits after auth so every
	// recorded entry carries the acting user.
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	authenticated.Use(middleware.AuditMiddleware(auditService))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)

		SetupStaffRoutes(authenticated, staffHandler)
		SetupMenteeRoutes(authenticated, menteeHandler)
		SetupSessionRoutes(authenticated, sessionHandler)
		SetupInvoiceRoutes(authenticated, invoiceHandler)
		SetupReceiptRoutes(authenticated, receiptHandler)
		SetupInventoryRoutes(authenticated, inventoryHandler)
		SetupDocumentRoutes(authenticated, documentHandler)
		SetupAuditRoutes(authenticated, auditHandler)

		// Settings, search and dashboard still use direct handlers
		SetupSettingsRoutes(authenticated)
		SetupSearchRoutes(authenticated)
		SetupDashboardRoutes(authenticated)
	}
}

// SetupPublicAuthRoutes registers the routes that work without a token.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.Register)
	group.POST("/login", authHandler.Login)
}

// SetupAuthenticatedAuthRoutes registers the auth routes behind the token check.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.Me)
	group.GET("/users", middleware.RoleAuthMiddleware("Admin"), authHandler.GetUsers)
}
