// Package server assembles the HTTP router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"budgettracker/internal/config"
	_ "budgettracker/internal/docs" // registers the swagger spec
	"budgettracker/internal/handlers"
	"budgettracker/internal/middleware"
	"budgettracker/internal/services"
)

// Services groups the business services the router exposes.
type Services struct {
	Users      services.UserServicer
	Categories services.CategoryServicer
	Expenses   services.ExpenseServicer
	Recurring  services.RecurringExpenseServicer
	Audit      services.AuditServicer
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(cfg *config.Config, svc Services) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Audit)
	categoryHandler := handlers.NewCategoryHandler(svc.Categories, svc.Audit)
	expenseHandler := handlers.NewExpenseHandler(svc.Expenses, svc.Audit)
	recurringHandler := handlers.NewRecurringExpenseHandler(svc.Recurring, svc.Audit)
	pipelineHandler := handlers.NewPipelineHandler(svc.Recurring)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors(cfg.CORSOrigin))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.POST("/initialize", categoryHandler.InitializeDefaults)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	recurring := protected.Group("/recurring")
	recurring.POST("", recurringHandler.CreateRecurringExpense)
	recurring.GET("", recurringHandler.ListRecurringExpenses)
	recurring.GET("/upcoming", recurringHandler.GetUpcoming)
	recurring.POST("/preview", recurringHandler.PreviewNextDue)
	recurring.POST("/process", recurringHandler.ProcessDueRecurringExpenses)
	recurring.GET("/:id", recurringHandler.GetRecurringExpense)
	recurring.PUT("/:id", recurringHandler.UpdateRecurringExpense)
	recurring.DELETE("/:id", recurringHandler.DeleteRecurringExpense)
	recurring.PATCH("/:id/toggle", recurringHandler.ToggleRecurringExpense)
	recurring.POST("/:id/process", recurringHandler.ProcessRecurringExpense)

	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.POST("/recurring/process", pipelineHandler.ProcessRecurring)

	return router
}

func cors(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
