package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NTAravind/Eustress/internal/config"
	"github.com/NTAravind/Eustress/internal/database"
	"github.com/NTAravind/Eustress/internal/email"
	"github.com/NTAravind/Eustress/internal/gateway"
	"github.com/NTAravind/Eustress/internal/handler"
	"github.com/NTAravind/Eustress/internal/logger"
	"github.com/NTAravind/Eustress/internal/middleware"
	appredis "github.com/NTAravind/Eustress/internal/redis"
	"github.com/NTAravind/Eustress/internal/repository"
	"github.com/NTAravind/Eustress/internal/service"
	"github.com/NTAravind/Eustress/internal/telemetry"
	"github.com/NTAravind/Eustress/internal/upload"
	"github.com/NTAravind/Eustress/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCfg := &logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if cfg.App.Debug {
		logCfg.Level = "debug"
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting Eustress API...")

	ctx := context.Background()

	tel, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Telemetry init failed: %v", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			appLog.Warn(fmt.Sprintf("Telemetry shutdown: %v", err))
		}
	}()

	// Database
	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()

	version, err := database.RunMigrations(cfg.Database.URL(), cfg.Database.MigrationsPath)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Migrations failed: %v", err))
	}
	appLog.Info(fmt.Sprintf("Database ready (schema version %d)", version))

	// Redis
	redisClient, err := appredis.NewClient(ctx, &appredis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
	}
	defer redisClient.Close()

	// Payment gateway; falls back to the deterministic mock when no
	// credentials are configured so local checkout flows still work
	var paymentGateway gateway.PaymentGateway
	if cfg.Razorpay.KeyID != "" && cfg.Razorpay.KeySecret != "" {
		paymentGateway, err = gateway.NewRazorpayGateway(&gateway.RazorpayConfig{
			KeyID:     cfg.Razorpay.KeyID,
			KeySecret: cfg.Razorpay.KeySecret,
		})
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Razorpay init failed: %v", err))
		}
		appLog.Info("Razorpay gateway configured")
	} else {
		if cfg.IsProduction() {
			appLog.Fatal("Razorpay credentials are required in production")
		}
		paymentGateway = gateway.NewMockGateway("local-dev-secret")
		appLog.Warn("No Razorpay credentials, using mock payment gateway")
	}

	// Transactional email
	var mailer email.Mailer
	if cfg.Email.ResendAPIKey != "" {
		mailer, err = email.NewResendMailer(cfg.Email.ResendAPIKey, cfg.Email.From())
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Resend init failed: %v", err))
		}
	} else {
		if cfg.IsProduction() {
			appLog.Fatal("Resend API key is required in production")
		}
		mailer = email.NewMockMailer()
		appLog.Warn("No Resend API key, email dispatch is a no-op")
	}

	// Event publisher
	var eventPublisher service.EventPublisher
	eventPublisher, err = service.NewKafkaEventPublisher(ctx, &service.EventPublisherConfig{
		Brokers:     cfg.Kafka.Brokers,
		Topic:       cfg.Kafka.Topic,
		ServiceName: cfg.App.Name,
		ClientID:    cfg.Kafka.ClientID,
	})
	if err != nil {
		appLog.Warn(fmt.Sprintf("Kafka connection failed, using no-op publisher: %v", err))
		eventPublisher = service.NewNoOpEventPublisher()
	} else {
		appLog.Info("Kafka event publisher connected")
	}
	defer eventPublisher.Close()

	// Thumbnail uploads are optional
	var uploader upload.Uploader
	if cfg.Upload.GitHubToken != "" && cfg.Upload.GitHubRepo != "" {
		uploader, err = upload.NewGitHubUploaderFromRepo(cfg.Upload.GitHubToken, cfg.Upload.GitHubRepo, cfg.Upload.GitHubBranch, cfg.Upload.PathPrefix)
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Upload init failed: %v", err))
		}
	}

	// Repositories
	userRepo := repository.NewPostgresUserRepository(db.Pool())
	workshopRepo := repository.NewPostgresWorkshopRepository(db.Pool())
	registrationRepo := repository.NewPostgresRegistrationRepository(db.Pool())
	catalogCache := repository.NewRedisCatalogCache(redisClient)

	// Services
	authService := service.NewAuthService(userRepo, &service.AuthServiceConfig{
		JWTSecret:          cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.AccessTokenTTL,
		RefreshTokenExpiry: cfg.JWT.RefreshTokenTTL,
	})
	workshopService := service.NewWorkshopService(workshopRepo, catalogCache)
	registrationService := service.NewRegistrationService(
		registrationRepo, workshopRepo, paymentGateway, eventPublisher, catalogCache,
		&service.RegistrationServiceConfig{
			Currency:     "INR",
			GatewayKeyID: cfg.Razorpay.KeyID,
		},
	)
	notificationService := service.NewNotificationService(
		registrationRepo, workshopRepo, userRepo, mailer, eventPublisher, catalogCache,
		&service.NotificationServiceConfig{
			CatalogURL: cfg.App.BaseURL,
		},
	)
	adminService := service.NewAdminService(userRepo, workshopRepo, registrationRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	workshopHandler := handler.NewWorkshopHandler(workshopService)
	registrationHandler := handler.NewRegistrationHandler(registrationService)
	paymentHandler := handler.NewPaymentHandler(registrationService)
	adminHandler := handler.NewAdminHandler(adminService, registrationService, notificationService, uploader)
	healthHandler := handler.NewHealthHandler(map[string]handler.HealthChecker{
		"postgres": db,
		"redis":    redisClient,
	})

	router := buildRouter(cfg, redisClient, authService, routerHandlers{
		auth:         authHandler,
		workshop:     workshopHandler,
		registration: registrationHandler,
		payment:      paymentHandler,
		admin:        adminHandler,
		health:       healthHandler,
	})

	// Day-before reminder emails
	reminderWorker := worker.NewReminderWorker(workshopRepo, notificationService, worker.ReminderWorkerConfig{})
	if err := reminderWorker.Start(); err != nil {
		appLog.Fatal(fmt.Sprintf("Reminder worker failed to start: %v", err))
	}
	defer reminderWorker.Stop()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLog.Info(fmt.Sprintf("Eustress API listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited")
}

type routerHandlers struct {
	auth         *handler.AuthHandler
	workshop     *handler.WorkshopHandler
	registration *handler.RegistrationHandler
	payment      *handler.PaymentHandler
	admin        *handler.AdminHandler
	health       *handler.HealthHandler
}

func buildRouter(cfg *config.Config, redisClient *appredis.Client, authService service.AuthService, h routerHandlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger.Get()))
	router.Use(middleware.CORS(&middleware.CORSConfig{
		AllowedOrigins: []string{cfg.App.BaseURL},
	}))

	router.GET("/health", h.health.Live)
	router.GET("/ready", h.health.Ready)

	idempotency := middleware.Idempotency(&middleware.IdempotencyConfig{Store: redisClient})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.auth.Register)
			auth.POST("/login", h.auth.Login)
			auth.POST("/refresh", h.auth.Refresh)
			auth.GET("/me", middleware.Auth(authService), h.auth.Me)
		}

		// Public catalog
		v1.GET("/workshops", h.workshop.Catalog)
		v1.GET("/workshops/:id", h.workshop.Get)

		authed := v1.Group("", middleware.Auth(authService))
		{
			authed.POST("/workshops/:id/register", idempotency, h.registration.Register)
			authed.GET("/workshops/:id/registration", h.registration.Get)
			authed.DELETE("/workshops/:id/registration", h.registration.Cancel)

			authed.POST("/payments/orders", h.payment.CreateOrder)
			authed.POST("/payments/verify", idempotency, h.payment.Verify)
		}

		admin := v1.Group("/admin", middleware.Auth(authService), middleware.RequireAdmin())
		{
			admin.GET("/workshops", h.workshop.ListAll)
			admin.POST("/workshops", h.workshop.Create)
			admin.PUT("/workshops/:id", h.workshop.Update)
			admin.DELETE("/workshops/:id", h.admin.DeleteWorkshop)

			admin.GET("/users", h.admin.ListUsers)
			admin.GET("/users/:id", h.admin.GetUser)

			admin.GET("/registrations", h.admin.ListRegistrations)
			admin.GET("/registrations/:id", h.admin.GetRegistration)
			admin.PATCH("/registrations/:id/payment", h.admin.UpdatePayment)
			admin.GET("/workshops/:id/registrations", h.admin.ListWorkshopRegistrations)

			admin.GET("/stats", h.admin.Stats)

			admin.POST("/notifications/reminders", h.admin.SendReminders)
			admin.POST("/notifications/cancel-workshop", h.admin.CancelWorkshop)
			admin.POST("/notifications/announce", h.admin.Announce)

			admin.POST("/uploads", h.admin.Upload)
		}
	}

	return router
}
