// Package server assembles the HTTP router: middleware, swagger and every
// API route under /api.
package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "stockstalk/internal/docs" // swagger docs
	"stockstalk/internal/handlers"
	"stockstalk/internal/middleware"
	"stockstalk/internal/services"
)

// Services bundles the business services the router dispatches to.
type Services struct {
	Users      services.UserServicer
	Stocks     services.StockServicer
	Watchlists services.WatchlistServicer
	Audit      services.AuditServicer
}

// Options configures optional router behavior.
type Options struct {
	CORSAllowedOrigins []string
	RequestLogging     bool
	Swagger            bool
}

// NewRouter builds the gin engine. Every API route answers both with and
// without a trailing slash.
func NewRouter(db *gorm.DB, svc Services, opts Options) *gin.Engine {
	authHandler := handlers.NewAuthHandler(svc.Users, svc.Audit)
	stockHandler := handlers.NewStockHandler(svc.Stocks, svc.Audit)
	watchlistHandler := handlers.NewWatchlistHandler(svc.Watchlists, svc.Audit)
	healthHandler := handlers.NewHealthHandler(db)

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	if opts.RequestLogging {
		router.Use(middleware.RequestLogging())
	}
	router.Use(middleware.CORS(middleware.NewCORSConfig(opts.CORSAllowedOrigins)))
	router.Use(middleware.ErrorHandler())

	if opts.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := router.Group("/api")
	handle(api, "GET", "/health", healthHandler.Health)

	// Public routes
	auth := api.Group("/auth")
	handle(auth, "POST", "/register", authHandler.Register)
	handle(auth, "POST", "/login", authHandler.Login)

	stocks := api.Group("/stocks")
	handle(stocks, "GET", "", stockHandler.ListStocks)
	handle(stocks, "POST", "", stockHandler.CreateStock)
	handle(stocks, "GET", "/search", stockHandler.SearchStocks)
	handle(stocks, "GET", "/:id", stockHandler.GetStock)
	handle(stocks, "PUT", "/:id", stockHandler.UpdateStock)
	handle(stocks, "DELETE", "/:id", stockHandler.DeleteStock)
	handle(stocks, "GET", "/:id/details", stockHandler.StockDetails)
	handle(stocks, "POST", "/:id/predict_price", stockHandler.PredictPrice)
	handle(stocks, "GET", "/:id/history", stockHandler.GetPriceHistory)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())

	handle(protected, "GET", "/profile", authHandler.GetProfile)

	watchlists := protected.Group("/watchlists")
	handle(watchlists, "GET", "", watchlistHandler.ListWatchlists)
	handle(watchlists, "POST", "", watchlistHandler.CreateWatchlist)
	handle(watchlists, "GET", "/:id", watchlistHandler.GetWatchlist)
	handle(watchlists, "DELETE", "/:id", watchlistHandler.DeleteWatchlist)
	handle(watchlists, "POST", "/:id/add_stock", watchlistHandler.AddStock)
	handle(watchlists, "POST", "/:id/remove_stock", watchlistHandler.RemoveStock)

	return router
}

// handle registers h at path and at path with a trailing slash.
func handle(group *gin.RouterGroup, method, path string, h gin.HandlerFunc) {
	group.Handle(method, path, h)
	group.Handle(method, path+"/", h)
}
