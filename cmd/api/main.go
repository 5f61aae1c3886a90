// @title Project Tracker API
// @version 1.0
// @description Multi-tenant tracking dashboard for workstream forms: schema-driven rendering, session answers, and admin exports.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"project-tracker/internal/adapter"
	"project-tracker/internal/cache"
	"project-tracker/internal/config"
	"project-tracker/internal/database"
	"project-tracker/internal/handler"
	"project-tracker/internal/logger"
	"project-tracker/internal/middleware"
	"project-tracker/internal/repository"
	"project-tracker/internal/schema"
	"project-tracker/internal/service"

	_ "project-tracker/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Initialize repositories
	submissionRepository := repository.NewSQLXSubmissionRepository(db)
	projectRepository := repository.NewSQLXProjectRepository(db)
	userRepository := repository.NewSQLXUserRepository(db)

	// Initialize Redis client and cache adapter
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Schema source: the form workbook, memoized per sheet
	schemaSource := schema.NewCachedSource(schema.NewExcelSource(cfg.Form.WorkbookPath))
	appLogger.Info("Schema source initialized", zap.String("workbook", cfg.Form.WorkbookPath))

	// Initialize services
	sessionStore := service.NewSessionStore(cacheAdapter, cfg.Form.SessionTTL)
	formService := service.NewFormService(schemaSource, sessionStore, submissionRepository, projectRepository, cfg)
	projectService := service.NewProjectService(projectRepository)
	exportService := service.NewExportService(submissionRepository)

	authService, err := service.NewAuthService(userRepository, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	appLogger.Info("AuthService initialized")

	// Initialize handlers
	formHandler := handler.NewFormHandler(formService)
	projectHandler := handler.NewProjectHandler(projectService)
	exportHandler := handler.NewExportHandler(exportService)
	authHandler := handler.NewAuthHandler(authService, userRepository, cfg)
	healthHandler := handler.NewHealthHandler(db, cacheAdapter)
	validationMW := middleware.NewValidationMiddleware()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	// Swagger handler
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API group
	apiGroup := app.Group("/api")

	// Liveness, unauthenticated
	apiGroup.Get("/health", healthHandler.Check)

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Get("/google/login", authHandler.GoogleLogin)
	authGroup.Get("/google/callback", authHandler.GoogleCallback)
	authGroup.Get("/me", middleware.Protected(authService), authHandler.Me)

	// Project routes
	apiGroup.Get("/projects", middleware.Protected(authService), projectHandler.ListProjects)

	// Form routes
	formGroup := apiGroup.Group("/forms", middleware.Protected(authService))
	formGroup.Post("/:workstream/sessions", validationMW.ValidateWorkstream(), formHandler.StartSession)
	formGroup.Get("/:workstream/sessions/:sessionID", validationMW.ValidateWorkstream(), validationMW.ValidateSessionID(), formHandler.GetForm)
	formGroup.Put("/:workstream/sessions/:sessionID", validationMW.ValidateWorkstream(), validationMW.ValidateSessionID(), formHandler.SaveAnswers)
	formGroup.Post("/:workstream/sessions/:sessionID/submit", validationMW.ValidateWorkstream(), validationMW.ValidateSessionID(), formHandler.Submit)

	// Admin routes
	adminGroup := apiGroup.Group("/admin", middleware.Protected(authService), middleware.AdminOnly())
	adminGroup.Get("/counts", exportHandler.Counts)
	adminGroup.Get("/export", exportHandler.ExportAll)
	adminGroup.Get("/export/:workstream", validationMW.ValidateWorkstream(), exportHandler.ExportWorkstream)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
