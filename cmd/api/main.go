package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/munckapp/munck-backend/internal/config"
	"github.com/munckapp/munck-backend/internal/handler"
	"github.com/munckapp/munck-backend/internal/middleware"
	"github.com/munckapp/munck-backend/internal/repository/postgres"
	"github.com/munckapp/munck-backend/internal/repository/storage"
	"github.com/munckapp/munck-backend/internal/service"
	"github.com/munckapp/munck-backend/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)
	serviceRecordRepo := postgres.NewServiceRecordRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	driverRepo := postgres.NewDriverRepository(pool)

	// Object storage is optional: without it, receipt uploads and report
	// archiving are disabled but everything else works.
	var documentRepo storage.DocumentRepository
	if cfg.S3.Bucket != "" && (cfg.S3.AccessKeyID != "" || cfg.S3.Endpoint != "") {
		s3Repo, err := storage.NewS3DocumentRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Warn().Err(err).Msg("Object storage unavailable, receipts and report archiving disabled")
		} else {
			documentRepo = s3Repo
			log.Info().Str("bucket", cfg.S3.Bucket).Msg("Object storage ready")
		}
	}

	// Initialize services
	authService := service.NewAuthService(userRepo)
	profileService := service.NewProfileService(userRepo)
	serviceRecordService := service.NewServiceRecordService(serviceRecordRepo, vehicleRepo)
	expenseService := service.NewExpenseService(expenseRepo, vehicleRepo)
	vehicleService := service.NewVehicleService(vehicleRepo)
	driverService := service.NewDriverService(driverRepo)
	aggregationService := service.NewAggregationService()
	dashboardService := service.NewDashboardService(serviceRecordRepo, expenseRepo, vehicleRepo, aggregationService)
	reportService := service.NewReportService(serviceRecordRepo, expenseRepo, driverRepo, cfg.CommissionRate)
	exportService := service.NewExportService(reportService, documentRepo)
	receiptService := service.NewReceiptService(expenseRepo, documentRepo)

	// WebSocket hub broadcasts entity change events to connected clients
	hub := websocket.NewHub()
	serviceRecordService.SetEventPublisher(hub)
	expenseService.SetEventPublisher(hub)
	vehicleService.SetEventPublisher(hub)
	driverService.SetEventPublisher(hub)

	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket JWT validator")
	}

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	serviceRecordHandler := handler.NewServiceRecordHandler(serviceRecordService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	receiptHandler := handler.NewReceiptHandler(receiptService)
	vehicleHandler := handler.NewVehicleHandler(vehicleService)
	driverHandler := handler.NewDriverHandler(driverService)
	reportHandler := handler.NewReportHandler(reportService, exportService)
	websocketHandler := handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Per-IP rate limiting
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()
	e.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, authHandler, profileHandler, dashboardHandler, serviceRecordHandler, expenseHandler, receiptHandler, vehicleHandler, driverHandler, reportHandler, websocketHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
