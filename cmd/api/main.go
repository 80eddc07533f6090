package main

import (
	"fmt"
	"net/http"
	"os"

	"chitieu/internal/config"
	"chitieu/internal/database"
	"chitieu/internal/handlers"
	"chitieu/internal/logger"
	"chitieu/internal/middleware"
	"chitieu/internal/services"
	"chitieu/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "chitieu/internal/docs" // Import swagger docs
)

// @title           Chi Tieu API
// @version         1.0
// @description     Chi Tieu is a personal and family expense tracking application with budgets, shared family groups, and spending reports.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	loc := appConfig.ReportLocation()
	scopeResolver := services.NewScopeResolver(db)
	userService := services.NewUserService(db)
	transactionService := services.NewTransactionService(db, scopeResolver)
	analyticsService := services.NewAnalyticsService(db, scopeResolver, loc)
	budgetService := services.NewBudgetService(db, loc)
	categoryService := services.NewCategoryService(db)
	familyService := services.NewFamilyService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	familyHandler := handlers.NewFamilyHandler(familyService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile and session
	protected.GET("/profile", authHandler.GetProfile)
	protected.POST("/auth/logout", authHandler.Logout)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("/export", transactionHandler.ExportTransactions)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Category routes (read-only union of defaults and family categories)
	protected.GET("/categories", transactionHandler.GetCategories)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.UpsertBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/progress", budgetHandler.GetBudgetProgress)

	// Family routes
	families := protected.Group("/families")
	families.POST("", familyHandler.CreateFamily)
	families.POST("/join", familyHandler.JoinFamily)
	families.POST("/leave", familyHandler.LeaveFamily)
	families.GET("/me", familyHandler.GetFamily)
	families.GET("/members", familyHandler.GetFamilyMembers)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/daily", analyticsHandler.GetDailyStats)
	reports.GET("/categories", analyticsHandler.GetCategoryStats)
	reports.GET("/yearly", analyticsHandler.GetYearlyComparison)
	reports.GET("/trend", analyticsHandler.GetSixMonthTrend)
	reports.GET("/summary", analyticsHandler.GetSummary)
	reports.GET("/monthly", analyticsHandler.GetMonthlyStats)

	// Admin routes
	admin := protected.Group("/admin")
	admin.Use(middleware.AdminRequired(db))
	admin.GET("/categories", categoryHandler.ListSystemCategories)
	admin.POST("/categories", categoryHandler.CreateSystemCategory)
	admin.PUT("/categories/:id", categoryHandler.UpdateSystemCategory)
	admin.DELETE("/categories/:id", categoryHandler.DeleteSystemCategory)

	log.Infof("Starting Chi Tieu backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
