// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"barback/internal/domain/catalog/product"
	"barback/internal/domain/expense"
	"barback/internal/domain/pnl"
	"barback/internal/domain/sales"
	"barback/internal/domain/till"
	"barback/internal/infrastructure/http/v1/handlers"
	"barback/internal/infrastructure/http/v1/middleware"
	"barback/internal/infrastructure/storage/postgres"
	"barback/pkg/logger"
)

// RouterConfig holds everything the router needs.
type RouterConfig struct {
	// Pool is the database pool, used by health checks.
	Pool *postgres.Pool

	// Logger for request logging.
	Logger *logger.Logger

	Products *product.Service
	Sales    *sales.Service
	Expenses *expense.Service
	Till     *till.Service
	Reports  *pnl.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	{
		productsHandler := handlers.NewProductsHandler(base, cfg.Products)
		products := api.Group("/products")
		{
			products.GET("", productsHandler.List)
			products.POST("", productsHandler.Create)
			products.GET("/:upc", productsHandler.Get)
			products.PUT("/:upc", productsHandler.Update)
			products.POST("/:upc/restock", productsHandler.Restock)
		}

		salesHandler := handlers.NewSalesHandler(base, cfg.Sales)
		salesGroup := api.Group("/sales")
		{
			salesGroup.POST("", salesHandler.Record)
			salesGroup.GET("", salesHandler.List)
			salesGroup.GET("/:id", salesHandler.Get)
			salesGroup.GET("/:id/receipt", salesHandler.Receipt)
		}

		expensesHandler := handlers.NewExpensesHandler(base, cfg.Expenses)
		expenses := api.Group("/expenses")
		{
			expenses.POST("", expensesHandler.Create)
			expenses.GET("", expensesHandler.List)
		}

		tillHandler := handlers.NewTillHandler(base, cfg.Till)
		tillGroup := api.Group("/till")
		{
			tillGroup.GET("/current", tillHandler.Current)
			tillGroup.POST("/open", tillHandler.Open)
			tillGroup.POST("/close", tillHandler.Close)
		}

		reportsHandler := handlers.NewReportsHandler(base, cfg.Reports)
		reports := api.Group("/reports")
		{
			reports.GET("/pnl", reportsHandler.GetPnL)
			reports.GET("/pnl/breakdown", reportsHandler.GetBreakdown)
			reports.POST("/pnl/compare", reportsHandler.Compare)
			reports.GET("/performance/categories", reportsHandler.GetCategoryPerformance)
			reports.GET("/performance/products", reportsHandler.GetProductPerformance)
		}
	}

	return router
}
