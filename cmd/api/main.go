// @title Quiz Forge API
// @version 1.0
// @description Turns PDF and DOCX study material into scored exam questions and printable question papers.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
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

	_ "quiz-forge/cmd/api/docs"
	"quiz-forge/internal/bootstrap"
	"quiz-forge/internal/config"
	"quiz-forge/internal/handler"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/middleware"
	"quiz-forge/internal/service"
	"quiz-forge/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// multipart overhead allowed on top of the per-file limits
const bodyLimitSlack = 1 << 20

// maxFilesPerUpload bounds the request body together with upload.max_file_size_mb
const maxFilesPerUpload = 10

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	pipeline, err := bootstrap.NewPipeline(startupCtx, cfg, appLogger, bootstrap.Options{WithStorage: true})
	cancelStartup()
	if err != nil {
		appLogger.Fatal("Failed to build pipeline", zap.Error(err))
	}
	defer pipeline.Close()

	var verifier service.TokenVerifier
	if cfg.Auth.JWTSecret != "" {
		verifier, err = service.NewTokenVerifier(cfg.Auth.JWTSecret, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to create token verifier", zap.Error(err))
		}
	} else {
		appLogger.Warn("auth.jwt_secret not set: bank routes are disabled and generation is anonymous")
	}

	validator := validation.NewValidator()
	routes := handler.Routes{
		Pipeline:  handler.NewPipelineHandler(pipeline.Ingest, pipeline.Generation, pipeline.Export, validator),
		Banks:     handler.NewBankHandler(pipeline.BankSvc, validator),
		Health:    handler.NewHealthHandler(pipeline.Cache, pipeline.Banks),
		Verifier:  verifier,
		Validator: validator,
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    maxFilesPerUpload*int(cfg.Upload.MaxFileSize()) + bodyLimitSlack,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(appLogger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	handler.RegisterRoutes(app, routes)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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
