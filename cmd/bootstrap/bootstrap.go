package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medibook/config"
	deliveryHttp "medibook/internal/delivery/http"
	"medibook/internal/delivery/http/handler"
	"medibook/internal/delivery/http/middleware"
	"medibook/internal/infrastructure/cache"
	"medibook/internal/infrastructure/database"
	"medibook/internal/repository"
	"medibook/internal/service"
	"medibook/internal/usecase"
	"medibook/pkg/jwt"
	"medibook/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server := initializeServer(cfg, db, redisClient)
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	scheduleRepo := repository.NewScheduleRepository()
	timeSlotRepo := repository.NewTimeSlotRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	clinicRepo := repository.NewClinicRepository()
	pricingRepo := repository.NewPricingRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	txm := database.NewTransactor(db, cfg.Booking.TxTimeout)
	auditSvc := service.NewAuditService(log, auditLogRepo)
	availabilityCache := service.NewAvailabilityCache(redisClient, log, cfg.Booking.AvailabilityCacheTTL)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, txm, log, userRepo, doctorProfileRepo, patientProfileRepo, auditSvc, jwtService, redisClient)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorProfileRepo)
	scheduleUsecase := usecase.NewScheduleUsecase(db, txm, log, scheduleRepo, timeSlotRepo, clinicRepo, auditSvc)
	slotUsecase := usecase.NewSlotUsecase(db, txm, log, scheduleRepo, timeSlotRepo, auditSvc, availabilityCache, cfg.Booking.MaxHorizonDays)
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, timeSlotRepo, slotUsecase, availabilityCache, cfg.Booking.MaxHorizonDays)
	bookingUsecase := usecase.NewBookingUsecase(db, txm, log, appointmentRepo, timeSlotRepo, clinicRepo, pricingRepo, auditSvc, availabilityCache)
	statusUsecase := usecase.NewAppointmentStatusUsecase(db, txm, log, appointmentRepo, timeSlotRepo, auditSvc, availabilityCache, cfg.Booking.CancelLeadTime)
	calendarUsecase := usecase.NewCalendarUsecase(db, log, appointmentRepo, cfg.Booking.MaxHorizonDays)
	clinicUsecase := usecase.NewClinicUsecase(db, txm, log, clinicRepo, pricingRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase)
	scheduleHandler := handler.NewScheduleHandler(scheduleUsecase, slotUsecase, customValidator)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(bookingUsecase, statusUsecase, calendarUsecase, customValidator)
	clinicHandler := handler.NewClinicHandler(clinicUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.AllowedOrigin)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		doctorHandler,
		scheduleHandler,
		availabilityHandler,
		appointmentHandler,
		clinicHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
