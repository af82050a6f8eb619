// Package router assembles the HTTP surface of the API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "fintrack/internal/docs" // Import swagger docs
	"fintrack/internal/handlers"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
)

// Config holds what the route table needs from the process.
type Config struct {
	DB             *gorm.DB
	Tokens         middleware.TokenValidator
	AllowedOrigins []string
}

// New builds the gin engine with every route registered.
func New(cfg Config) *gin.Engine {
	// Initialize services
	accountService := services.NewAccountService(cfg.DB)
	categoryService := services.NewCategoryService(cfg.DB)
	budgetService := services.NewBudgetService(cfg.DB)
	transactionService := services.NewTransactionService(cfg.DB)

	// Initialize handlers
	userHandler := handlers.NewUserHandler()
	accountHandler := handlers.NewAccountHandler(accountService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group, every route requires a bearer token
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(cfg.Tokens))

	v1.GET("/users/me", userHandler.GetMe)

	registerResource(v1.Group("/accounts"), resourceHandlers{
		list:   accountHandler.ListAccounts,
		create: accountHandler.CreateAccount,
		get:    accountHandler.GetAccount,
		update: accountHandler.UpdateAccount,
		delete: accountHandler.DeleteAccount,
	})
	registerResource(v1.Group("/categories"), resourceHandlers{
		list:   categoryHandler.ListCategories,
		create: categoryHandler.CreateCategory,
		get:    categoryHandler.GetCategory,
		update: categoryHandler.UpdateCategory,
		delete: categoryHandler.DeleteCategory,
	})
	registerResource(v1.Group("/budgets"), resourceHandlers{
		list:   budgetHandler.ListBudgets,
		create: budgetHandler.CreateBudget,
		get:    budgetHandler.GetBudget,
		update: budgetHandler.UpdateBudget,
		delete: budgetHandler.DeleteBudget,
	})
	registerResource(v1.Group("/transactions"), resourceHandlers{
		list:   transactionHandler.ListTransactions,
		create: transactionHandler.CreateTransaction,
		get:    transactionHandler.GetTransaction,
		update: transactionHandler.UpdateTransaction,
		delete: transactionHandler.DeleteTransaction,
	})

	return router
}

// Handler wraps the engine with CORS, which must see preflight requests
// before gin routing does.
func Handler(cfg Config) http.Handler {
	return middleware.NewCORS(cfg.AllowedOrigins)(New(cfg))
}

type resourceHandlers struct {
	list, create, get, update, delete gin.HandlerFunc
}

// registerResource mounts the collection at both "/x" and "/x/" so
// clients never see a trailing-slash redirect.
func registerResource(group *gin.RouterGroup, h resourceHandlers) {
	for _, collection := range []string{"", "/"} {
		group.GET(collection, h.list)
		group.POST(collection, h.create)
	}
	group.GET("/:id", h.get)
	group.PUT("/:id", h.update)
	group.DELETE("/:id", h.delete)
}
