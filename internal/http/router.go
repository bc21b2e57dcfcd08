package http

import (
	"log/slog"

	"clubhouse-server/internal/config"
	"clubhouse-server/internal/http/handlers"
	"clubhouse-server/internal/http/middleware"
	"clubhouse-server/internal/metrics"
	"clubhouse-server/internal/models"
	"clubhouse-server/internal/services"
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Config      *config.Config
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	RateLimiter *middleware.RateLimiter
	DB          handlers.Pinger
	Tokens      middleware.TokenVerifier

	AuthService      *services.AuthService
	ResetService     *services.ResetService
	MemberService    *services.MemberService
	ContractService  *services.ContractService
	InvoiceService   *services.InvoiceService
	InventoryService *services.RecordService[models.InventoryItem]
	DocumentService  *services.RecordService[models.Document]
	MessageService   *services.RecordService[models.Message]
	ReportService    *services.ReportService
	DashboardService *services.DashboardService
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(gin.Recovery())
	router.Use(middleware.Metrics(deps.Metrics))
	router.Use(middleware.CORS(deps.Config.AllowedOrigins))
	router.Use(middleware.Timeout(deps.Config.RequestTimeout))

	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.ResetService)
	meHandler := handlers.NewMeHandler(deps.AuthService)
	userHandler := handlers.NewUserHandler(deps.AuthService)
	memberHandler := handlers.NewMemberHandler(deps.MemberService)
	contractHandler := handlers.NewContractHandler(deps.ContractService)
	invoiceHandler := handlers.NewInvoiceHandler(deps.InvoiceService)
	inventoryHandler := handlers.NewInventoryHandler(deps.InventoryService)
	documentHandler := handlers.NewDocumentHandler(deps.DocumentService)
	messageHandler := handlers.NewMessageHandler(deps.MessageService)
	reportHandler := handlers.NewReportHandler(deps.ReportService)
	dashboardHandler := handlers.NewDashboardHandler(deps.DashboardService)

	router.GET("/healthz", handlers.Health)
	if deps.DB != nil {
		router.GET("/readyz", handlers.Ready(deps.DB))
	}
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	api := router.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(deps.RateLimiter.Middleware())
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/forgot-password", authHandler.Forgot)
		authGroup.POST("/reset-password", authHandler.Reset)
		authGroup.POST("/reset-password/:token", authHandler.Reset)
	}

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(deps.Tokens))
	{
		protected.GET("/me", meHandler.GetMe)
		protected.PUT("/me/password", meHandler.ChangePassword)

		users := protected.Group("/users")
		users.Use(middleware.RequireRole(models.RoleAdmin))
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.PUT("/:id", userHandler.UpdateRole)
		users.DELETE("/:id", userHandler.Delete)

		protected.GET("/members", memberHandler.List)
		protected.GET("/members/unpaid", memberHandler.Unpaid)
		protected.GET("/members/:id", memberHandler.Get)
		protected.POST("/members", memberHandler.Create)
		protected.PUT("/members/:id", memberHandler.Update)
		protected.DELETE("/members/:id", memberHandler.Delete)

		protected.GET("/contracts", contractHandler.List)
		protected.GET("/contracts/expired", contractHandler.Expired)
		protected.GET("/contracts/:id", contractHandler.Get)
		protected.POST("/contracts", contractHandler.Create)
		protected.PUT("/contracts/:id", contractHandler.Update)
		protected.DELETE("/contracts/:id", contractHandler.Delete)

		protected.GET("/invoices", invoiceHandler.List)
		protected.GET("/invoices/unpaid", invoiceHandler.Unpaid)
		protected.GET("/invoices/summary", invoiceHandler.Summary)
		protected.GET("/invoices/:id", invoiceHandler.GetByID)
		protected.POST("/invoices", invoiceHandler.Create)
		protected.PUT("/invoices/:id", invoiceHandler.Update)
		protected.DELETE("/invoices/:id", invoiceHandler.Delete)

		protected.GET("/inventory", inventoryHandler.List)
		protected.POST("/inventory", inventoryHandler.Create)
		protected.PUT("/inventory/:id", inventoryHandler.Update)
		protected.DELETE("/inventory/:id", inventoryHandler.Delete)

		protected.GET("/documents", documentHandler.List)
		protected.POST("/documents", documentHandler.Create)
		protected.PUT("/documents/:id", documentHandler.Update)
		protected.DELETE("/documents/:id", documentHandler.Delete)

		protected.GET("/messages", messageHandler.List)
		protected.POST("/messages", messageHandler.Create)

		protected.GET("/reports/member/:id", reportHandler.ListByMember)
		protected.POST("/reports", reportHandler.Create)

		protected.GET("/dashboard", dashboardHandler.Get)
	}

	return router
}
