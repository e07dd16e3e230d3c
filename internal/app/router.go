package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"cargotma/internal/handler"
	"cargotma/internal/metrics"
	"cargotma/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	OrderHandler  *handler.OrderHandler
	DriverHandler *handler.DriverHandler
	UserHandler   *handler.UserHandler
	BidHandler    *handler.BidHandler
	CityHandler   *handler.CityHandler
	RedisClient   *redis.Client
	NewRelicApp   *newrelic.Application
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	Logger        *zap.Logger
	DebugFeed     bool
	CORSOrigins   []string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.MetricsMiddleware(deps.Metrics))
	router.Use(middleware.CORSMiddleware(deps.CORSOrigins))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
		router.Use(middleware.NewRelicAttributes())
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient, logger))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		v1.GET("/cities", deps.CityHandler.Search)

		// Order routes.
		orders := v1.Group("/orders")
		{
			orders.POST("", deps.OrderHandler.CreateOrder)
			orders.GET("", deps.OrderHandler.ListOrders)
			orders.GET("/:id", deps.OrderHandler.GetOrder)
			orders.POST("/:id/accept", deps.OrderHandler.AcceptOrder)
			orders.POST("/:id/advance", deps.OrderHandler.AdvanceStatus)
			orders.PUT("/:id/chat", deps.OrderHandler.AttachChat)
		}

		// Driver routes.
		drivers := v1.Group("/drivers")
		{
			drivers.POST("", deps.DriverHandler.Register)
			drivers.GET("", deps.DriverHandler.GetAll)
			drivers.GET("/:id", deps.DriverHandler.GetDriver)
			drivers.PUT("/:id", deps.DriverHandler.UpdateDriver)
			drivers.GET("/:id/orders", deps.DriverHandler.EligibleOrders)
		}

		// User routes, keyed by messenger user id.
		users := v1.Group("/users")
		{
			users.GET("/:userId/driver", deps.UserHandler.GetDriver)
			users.GET("/:userId/orders", deps.UserHandler.EligibleOrders)
		}

		// Bid routes.
		bids := v1.Group("/bids")
		{
			bids.POST("", deps.BidHandler.PlaceBid)
			bids.GET("", deps.BidHandler.ListBids)
		}

		// Unfiltered feed, registered only when enabled.
		if deps.DebugFeed {
			v1.GET("/debug/orders/pending", deps.OrderHandler.PendingOrders)
		}
	}

	return router
}
