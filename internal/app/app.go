package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"jobhunt_backend/internal/auth"
	"jobhunt_backend/internal/config"
	"jobhunt_backend/internal/email"
	"jobhunt_backend/internal/handlers"
	"jobhunt_backend/internal/logger"
	"jobhunt_backend/internal/middleware"
	"jobhunt_backend/internal/models"
	"jobhunt_backend/internal/repositories"
	"jobhunt_backend/internal/resume"
	"jobhunt_backend/internal/routes"
	"jobhunt_backend/internal/services"
	"jobhunt_backend/internal/storage"
	"jobhunt_backend/internal/validator"
	"jobhunt_backend/internal/workers"
	"jobhunt_backend/pkg/apperrors"
)

const (
	otpSweepInterval = time.Hour
	shutdownTimeout  = 10 * time.Second
)

func Run() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.Debug = cfg.IsDevelopment()

	gormDB, err := openDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected")

	if err := migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ginRouter, err := SetupRouter(cfg, gormDB)
	if err != nil {
		logger.Fatal("Failed to build router", "error", err)
	}

	otpWorker := workers.NewOTPWorker(
		gormDB,
		repositories.NewUserRepository(),
		otpSweepInterval,
		time.Duration(cfg.OTP.SweepAfterHours)*time.Hour,
	)
	otpWorker.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(fmt.Sprintf("Server starting on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Server stopped")
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger:         logger.NewGormLogger(gormlogger.Warn, 200*time.Millisecond),
		TranslateError: true,
		// Ссылки на удаленные вакансии остаются в откликах и списках пользователей
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get *sql.DB: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database unavailable: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return gormDB, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Job{},
		&models.Application{},
	)
}

// SetupRouter собирает зависимости и возвращает готовый *gin.Engine
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, error) {
	storageInstance, err := storage.NewStorage(storageConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	mailer, err := initializeMailer(cfg)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour)

	// 1. Сервисы
	serviceContainer := services.NewServiceContainer(services.Dependencies{
		Storage:   storageInstance,
		Extractor: resume.NewPDFExtractor(),
		Mailer:    mailer,
		Tokens:    tokens,
		Auth: services.AuthConfig{
			AdminEmail:    cfg.Admin.Email,
			AdminPassword: cfg.Admin.Password,
			OTPTTL:        time.Duration(cfg.OTP.TTLMinutes) * time.Minute,
			MaxResumeSize: cfg.Upload.MaxResumeSize,
		},
	})

	// 2. Хэндлеры
	appHandlers := initializeHandlers(serviceContainer, storageInstance, tokens)

	// 3. Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	// 4. Маршруты
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter, nil
}

func storageConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
		UseSSL:    cfg.Storage.UseSSL,
	}
}

// initializeMailer - SMTP, если он настроен, иначе письма только пишутся в лог
func initializeMailer(cfg *config.Config) (services.EmailService, error) {
	templates, err := email.NewDefaultTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("load email templates: %w", err)
	}

	provider, err := selectMailProvider(cfg)
	if err != nil {
		return nil, err
	}

	otpTTL := time.Duration(cfg.OTP.TTLMinutes) * time.Minute
	return services.NewEmailService(provider, templates, otpTTL), nil
}

// selectMailProvider - лог-провайдер допускается только в development
func selectMailProvider(cfg *config.Config) (email.Provider, error) {
	if !cfg.EmailConfigured() {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("smtp is not configured for env %q", cfg.Server.Env)
		}
		logger.Warn("SMTP is not configured, outgoing emails are only logged")
		return email.NewLogProvider(logger.GetLogger()), nil
	}

	smtpCfg := email.DefaultConfig()
	smtpCfg.Host = cfg.Email.SMTPHost
	smtpCfg.Port = cfg.Email.SMTPPort
	smtpCfg.Username = cfg.Email.SMTPUsername
	smtpCfg.Password = cfg.Email.SMTPPassword
	smtpCfg.FromEmail = cfg.Email.FromEmail
	smtpCfg.FromName = cfg.Email.FromName
	smtpCfg.UseTLS = cfg.Email.UseTLS
	return email.NewSMTPProvider(smtpCfg), nil
}

func initializeHandlers(svc *services.ServiceContainer, storageInstance storage.Storage, tokens *auth.TokenManager) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New(), tokens)

	return &handlers.AppHandlers{
		AuthHandler:        handlers.NewAuthHandler(baseHandler, svc.AuthService),
		ProfileHandler:     handlers.NewProfileHandler(baseHandler, svc.ProfileService),
		JobHandler:         handlers.NewJobHandler(baseHandler, svc.JobService),
		ApplicationHandler: handlers.NewApplicationHandler(baseHandler, svc.ApplicationService),
		AnalyticsHandler:   handlers.NewAnalyticsHandler(baseHandler, svc.AnalyticsService),
		FileHandler:        handlers.NewFileHandler(baseHandler, storageInstance, svc.ApplicationService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	// форма регистрации/отклика: резюме плюс текстовые поля
	router.MaxMultipartMemory = cfg.Upload.MaxResumeSize + 1<<20

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(cors.New(corsConfig(cfg)))
	router.Use(middleware.DBMiddleware(db))
	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.Server.CORSOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
	corsCfg.ExposeHeaders = []string{"X-Total-Count", "X-Request-ID"}
	return corsCfg
}
