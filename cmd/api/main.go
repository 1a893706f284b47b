package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/notify"
	"fintrack/internal/services"
	"fintrack/internal/validator"

	_ "fintrack/internal/docs" // Import swagger docs
)

// @title           Fintrack API
// @version         1.0
// @description     Fintrack is a personal finance tracker: record expenses and income, set a budget ceiling, and get alerted when you exceed it.

// @host      localhost:8080
// @BasePath  /api

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

	// Create database manager
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Budget-alert dispatcher: queued, best-effort, drained on shutdown.
	dispatcher := notify.NewDispatcher(notify.NewMailSender(appConfig.SMTP), 64)
	defer dispatcher.Close()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	auditService := services.NewAuditService(db)
	expenseService := services.NewExpenseService(db, dispatcher)
	incomeService := services.NewIncomeService(db)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	incomeHandler := handlers.NewIncomeHandler(incomeService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", appConfig.CORSOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

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

	authRequired := middleware.AuthMiddleware(userService)
	adminOnly := middleware.RequireAdmin(userService)

	// User routes
	users := router.Group("/api/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.GET("/logout", authRequired, userHandler.Logout)
	users.PATCH("/change-password", authRequired, userHandler.ChangePassword)
	users.PATCH("/update-budget", authRequired, userHandler.UpdateBudget)
	users.DELETE("/delete/:id", authRequired, adminOnly, userHandler.DeleteUser)
	users.GET("/get-all-users", authRequired, adminOnly, userHandler.GetAllUsers)

	// Expense routes
	expenses := router.Group("/api/expenses")
	expenses.Use(authRequired)
	expenses.POST("/create-expense", expenseHandler.CreateExpense)
	expenses.GET("/get-expenses", expenseHandler.GetExpenses)
	expenses.GET("/getall-expenses", adminOnly, expenseHandler.GetAllExpenses)
	expenses.PATCH("/update-expense/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/delete-expense/:id", expenseHandler.DeleteExpense)
	expenses.GET("/generate-report", expenseHandler.GenerateReport)

	// Income routes
	incomes := router.Group("/api/incomes")
	incomes.Use(authRequired)
	incomes.POST("/create-income", incomeHandler.CreateIncome)
	incomes.GET("/get-incomes", incomeHandler.GetIncomes)
	incomes.GET("/getall-incomes", adminOnly, incomeHandler.GetAllIncomes)
	incomes.PATCH("/update-income/:id", incomeHandler.UpdateIncome)
	incomes.DELETE("/delete-income/:id", incomeHandler.DeleteIncome)

	log.Infof("Starting Fintrack backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
