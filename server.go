package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/humbertomar/vipo-backend/config"
	"github.com/humbertomar/vipo-backend/middlewares"
	"github.com/humbertomar/vipo-backend/models"
	"github.com/humbertomar/vipo-backend/utils"
	"github.com/humbertomar/vipo-backend/workflow"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

const defaultPort = "8080"

var tracer = otel.Tracer("vipo-backend")

// cartCleaner empties consumed carts after checkout commits (best-effort).
var cartCleaner *workflow.CartCleaner

// Define a struct to represent the rate limiter.
type RateLimiter struct {
	limit  int64
	window time.Duration
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Shutdown coordination: SIGTERM on deploy, handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP; until DB/Redis are ready, app endpoints
	// return 503.
	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow the startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate app endpoints on dependency readiness.
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// Production-safe CORS: explicit allowlist via CORS_ALLOWED_ORIGINS
	// (comma-separated) in production; allow all otherwise.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// Optional rate limiting (recommended for production).
	// Env:
	// - RATE_LIMIT_ENABLED=true
	// - RATE_LIMIT_WINDOW_SECONDS=60
	// - RATE_LIMIT_MAX_REQUESTS=600
	if strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true") {
		limit := int64(600)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_MAX_REQUESTS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				limit = n
			}
		}
		windowSec := int64(60)
		if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				windowSec = n
			}
		}
		rateLimiter := NewRateLimiter(limit, time.Duration(windowSec)*time.Second)
		r.Use(rateLimiter.RateLimitMiddleware)
	}

	r.Use(middlewares.AuthMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		// storefront
		api.GET("/products", listProductsHandler)
		api.GET("/products/:slug", getProductHandler)
		api.GET("/categories", listCategoriesHandler)
		api.GET("/carts/:customerId", getCartHandler)
		api.POST("/carts/:customerId/items", addCartItemHandler)
		api.PUT("/carts/:customerId/items/:itemId", updateCartItemHandler)
		api.DELETE("/carts/:customerId/items/:itemId", removeCartItemHandler)

		// order placement + tracking
		api.POST("/orders", placeOrderHandler)
		api.GET("/orders/:orderNumber", getOrderByNumberHandler)
		api.POST("/checkout", checkoutHandler)

		// external payment confirmations (stub: log and acknowledge)
		api.POST("/webhooks/payment", paymentWebhookHandler)

		api.POST("/auth/login", loginHandler)

		admin := api.Group("/admin", middlewares.RequireAuth())
		{
			admin.POST("/products", createProductHandler)
			admin.PUT("/products/:id", updateProductHandler)
			admin.DELETE("/products/:id", deleteProductHandler)
			admin.GET("/products", paginateProductsHandler)

			admin.POST("/variants", createVariantHandler)
			admin.PUT("/variants/:id", updateVariantHandler)
			admin.DELETE("/variants/:id", deleteVariantHandler)

			admin.POST("/categories", createCategoryHandler)
			admin.PUT("/categories/:id", updateCategoryHandler)
			admin.DELETE("/categories/:id", deleteCategoryHandler)

			admin.POST("/customers", createCustomerHandler)
			admin.PUT("/customers/:id", updateCustomerHandler)
			admin.DELETE("/customers/:id", deleteCustomerHandler)
			admin.GET("/customers", listCustomersHandler)
			admin.POST("/addresses", createAddressHandler)
			admin.DELETE("/addresses/:id", deleteAddressHandler)

			admin.POST("/users", createUserHandler)

			admin.GET("/orders", paginateOrdersHandler)
			admin.GET("/orders/:id", getOrderHandler)
			admin.PUT("/orders/:id/status", updateOrderStatusHandler)

			admin.GET("/reports/sales", salesReportHandler)
			admin.GET("/reports/sales.xlsx", salesReportExportHandler)
		}
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can run DDL that blocks tables; allow disabling on startup
	// (run as a separate job instead).
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	// Start the cart cleanup worker (runs AFTER order commit).
	cartCleaner = workflow.NewCartCleaner(models.ClearCartItems, 64)
	cartCleaner.Start()

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port)

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Drain HTTP requests.
	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	// Drain outstanding cart cleanups.
	cartCleaner.Stop()

	// Close Redis (best-effort).
	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// customErrorLogger is a custom Gin middleware that logs only errors
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only log when there are errors
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

// Initialize a new RateLimiter instance.
func NewRateLimiter(limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
	}
}

// Middleware function to check rate limits. Best-effort: counts against the
// shared redis connection and fails open when redis is unavailable.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	key := "ratelimit:" + c.ClientIP()

	count, err := config.GetRedisCounter(c.Request.Context(), key)
	if err != nil {
		config.LogError(config.GetLogger(), "server.go", "RateLimitMiddleware", "redis counter", key, err)
		c.Next()
		return
	}

	// first hit in this window starts the expiry clock
	if count == 1 {
		if err := config.ExpireRedisKey(c.Request.Context(), key, rl.window); err != nil {
			config.LogError(config.GetLogger(), "server.go", "RateLimitMiddleware", "redis expire", key, err)
		}
	}

	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	c.Next()
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
