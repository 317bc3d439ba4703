package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"petclinic/database"
	"petclinic/internal/config"
	"petclinic/internal/http-api/handler"
	"petclinic/internal/http-api/middleware"
	"petclinic/internal/http-api/repository"
	"petclinic/internal/http-api/service"
	"petclinic/internal/notify"
	"petclinic/internal/payments/paypal"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		// The catalog cache degrades to plain DB reads without Redis.
		logger.Warn("redis unavailable, catalog cache disabled", "addr", cfg.RedisAddr, "error", err)
		redisClient = nil
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	petRepo := repository.NewPetRepository(db)
	serviceRepo := repository.NewCachedServiceRepository(repository.NewServiceRepository(db), redisClient, cfg.CacheTTL, logger)
	appointmentRepo := repository.NewAppointmentRepository(db)
	billingRepo := repository.NewBillingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	petRecordRepo := repository.NewPetRecordRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Delivery channels, built from whatever credentials are present
	var channels []notify.Channel
	if cfg.EmailConfigured() {
		channels = append(channels, notify.NewEmailChannel(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass))
		logger.Info("email channel enabled", "smtp_host", cfg.SMTPHost)
	}
	if cfg.SMSConfigured() {
		channels = append(channels, notify.NewSMSChannel(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, cfg.SMSDefaultCountryCode))
		logger.Info("sms channel enabled", "from", cfg.TwilioFromNumber)
	}
	if len(channels) == 0 {
		logger.Warn("no delivery channels configured, notifications are in-app only")
	}

	var paypalClient *paypal.Client
	if cfg.PayPalConfigured() {
		paypalClient = paypal.NewClient(cfg.PayPalClientID, cfg.PayPalSecret, cfg.PayPalBaseURL, cfg.PayPalReturnURL, cfg.PayPalCancelURL)
		logger.Info("paypal enabled", "base_url", cfg.PayPalBaseURL)
	}

	// Services
	notificationSvc := service.NewNotificationService(notificationRepo, scheduleRepo, userRepo, channels, nil, logger)
	authSvc := service.NewAuthService(userRepo, cfg)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, billingRepo, serviceRepo, petRepo, notificationSvc, logger)
	billingSvc := service.NewBillingService(billingRepo, notificationSvc, logger)
	paymentSvc := service.NewPaymentService(paypalClient, billingRepo, notificationSvc, logger)
	catalogSvc := service.NewCatalogService(serviceRepo, appointmentRepo)
	petSvc := service.NewPetService(petRepo)
	petRecordSvc := service.NewPetRecordService(petRecordRepo, petRepo, notificationSvc, logger)
	reportSvc := service.NewReportService(reportRepo, nil)

	scheduler := service.NewScheduler(scheduleRepo, notificationSvc, cfg.SchedulerInterval, nil, logger)

	router := setupRouter(cfg, authSvc, appointmentSvc, billingSvc, paymentSvc, catalogSvc, petSvc, petRecordSvc, notificationSvc, reportSvc)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler.Start(ctx)

	go func() {
		logger.Info("http server listening", "port", cfg.HTTPPort, "env", cfg.GoEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelDebug
	switch cfg.LogLevel {
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func setupRouter(
	cfg *config.Config,
	authSvc service.AuthService,
	appointmentSvc service.AppointmentService,
	billingSvc service.BillingService,
	paymentSvc service.PaymentService,
	catalogSvc service.CatalogService,
	petSvc service.PetService,
	petRecordSvc service.PetRecordService,
	notificationSvc service.NotificationService,
	reportSvc service.ReportService,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.RateLimit(rate.Limit(20), 40))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handler.NewAuthHandler(authSvc)
	appointmentHandler := handler.NewAppointmentHandler(appointmentSvc)
	billingHandler := handler.NewBillingHandler(billingSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	petHandler := handler.NewPetHandler(petSvc)
	petRecordHandler := handler.NewPetRecordHandler(petRecordSvc, petSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	reportHandler := handler.NewReportHandler(reportSvc)

	api := router.Group("/api")

	authHandler.RegisterRoutes(api.Group("/auth"))
	catalogHandler.RegisterRoutes(api.Group("/services"))

	authed := api.Group("/")
	authed.Use(middleware.AuthMiddleware(authSvc))
	{
		appointmentHandler.RegisterRoutes(authed.Group("/appointments"))
		billingHandler.RegisterRoutes(authed.Group("/billing"))
		paymentHandler.RegisterRoutes(authed.Group("/payments"))
		petHandler.RegisterRoutes(authed.Group("/pets"))
		petRecordHandler.RegisterRoutes(authed.Group("/records"))
		notificationHandler.RegisterRoutes(authed.Group("/notifications"))
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authSvc), middleware.RequireAdmin())
	{
		appointmentHandler.RegisterAdminRoutes(admin.Group("/appointments"))
		billingHandler.RegisterAdminRoutes(admin.Group("/billing"))
		petRecordHandler.RegisterAdminRoutes(admin.Group("/records"))
		reportHandler.RegisterAdminRoutes(admin)
	}

	return router
}
