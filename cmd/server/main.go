package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"techsavvy.backend/internal/config"
	"techsavvy.backend/internal/infrastructure/jobs"
	"techsavvy.backend/internal/infrastructure/repositories"
	"techsavvy.backend/internal/interfaces/http/handlers"
	"techsavvy.backend/internal/interfaces/http/middleware"
	"techsavvy.backend/internal/usecases"
	"techsavvy.backend/pkg/jwt"
	"techsavvy.backend/pkg/logger"
	"techsavvy.backend/pkg/mailer"
	"techsavvy.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("database not available: %v (endpoints will return errors)", err)
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	codeRepo := repositories.NewVerificationCodeRepository(db)

	// Notifier: SMTP in production, log-only in development without a relay
	var mail mailer.Mailer
	if cfg.Server.Env == "development" && cfg.SMTP.Username == "" {
		mail = mailer.NewLogMailer()
	} else {
		mail = mailer.NewSMTPMailer(
			cfg.SMTP.Host,
			cfg.SMTP.Port,
			cfg.SMTP.Username,
			cfg.SMTP.Password,
			cfg.SMTP.FromEmail,
			cfg.SMTP.CompanyName,
		)
	}

	// Usecases
	limiter := redis.NewRateLimiter()
	verificationUsecase := usecases.NewVerificationUsecase(userRepo, codeRepo, limiter, mail, cfg.Verification)
	authUsecase := usecases.NewAuthUsecase(userRepo, verificationUsecase, jwtService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	verificationHandler := handlers.NewVerificationHandler(verificationUsecase)

	// Background cleanup of stale verification rows
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupJob := jobs.NewVerificationCleanupJob(codeRepo, cfg.Verification.CleanupInterval, cfg.Verification.CleanupRetention)
	go cleanupJob.Start(ctx)

	// Router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		authHandler:         authHandler,
		verificationHandler: verificationHandler,
		authMiddleware:      middleware.AuthMiddleware(jwtService),
		edgeLimiter:         middleware.NewIPRateLimiter(5, 10).Middleware(),
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(context.Background(), "shutting down server")
		cleanupJob.Stop()
		cancel()
	}()

	logger.Info(context.Background(), "server starting",
		zap.String("port", cfg.Server.Port),
		zap.String("env", cfg.Server.Env),
	)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
