package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marcha-api/config"
	deliveryHttp "marcha-api/internal/delivery/http"
	"marcha-api/internal/delivery/http/handler"
	"marcha-api/internal/delivery/http/middleware"
	"marcha-api/internal/infrastructure/cache"
	"marcha-api/internal/infrastructure/database"
	"marcha-api/internal/infrastructure/storage"
	"marcha-api/internal/repository"
	"marcha-api/internal/service"
	"marcha-api/internal/usecase"
	"marcha-api/pkg/jwt"
	"marcha-api/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates an App serving the HTTP API. Database and Redis are both required.
func New(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg, Log: SetupLogger(cfg.App)}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.IsDevelopment())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	app.Log.Info("Database connected successfully")

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.Server = app.initializeServer()

	return app, nil
}

// NewWorker creates an App for maintenance commands. Redis is optional there:
// without it the ranking cache is simply not invalidated.
func NewWorker(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg, Log: SetupLogger(cfg.App)}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.IsDevelopment())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Log.Warnf("Redis unavailable, ranking cache will not be invalidated: %v", err)
	} else {
		app.RedisClient = redisClient
	}

	return app, nil
}

// SetupLogger configures the shared logrus logger and money encoding
func SetupLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	if cfg.IsDevelopment() {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	// amounts are written as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	return log
}

func (app *App) rankingCache() service.RankingCache {
	if app.RedisClient == nil {
		return service.NewNoopRankingCache()
	}
	return service.NewRedisRankingCache(app.RedisClient, app.Log, app.Config.Clinic.RankingCacheTTL)
}

// Maintenance builds the usecase behind the seed and reset commands
func (app *App) Maintenance() usecase.MaintenanceUsecase {
	auditService := service.NewAuditService(app.Log, repository.NewAuditLogRepository())
	return usecase.NewMaintenanceUsecase(
		app.DB,
		app.Log,
		repository.NewHouseRepository(),
		repository.NewScoringRuleRepository(),
		repository.NewPatientRepository(),
		auditService,
		app.rankingCache(),
	)
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() *http.Server {
	cfg, db, log := app.Config, app.DB, app.Log

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Initialize repositories
	patientRepo := repository.NewPatientRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	transactionRepo := repository.NewFinancialTransactionRepository()
	houseRepo := repository.NewHouseRepository()
	athleteRepo := repository.NewAthleteRepository()
	ruleRepo := repository.NewScoringRuleRepository()
	scoreRepo := repository.NewScoreRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	tokenStore := service.NewRedisTokenStore(app.RedisClient, log)
	rankingCache := app.rankingCache()
	auditService := service.NewAuditService(log, auditLogRepo)
	scoringService := service.NewScoringService(log, athleteRepo, ruleRepo, scoreRepo)
	imageStorage := storage.NewLocalImageStorage(cfg.Upload, log)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, patientRepo, auditService, jwtService, tokenStore)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo, tokenStore, imageStorage)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, patientRepo, transactionRepo, scoringService, auditService, rankingCache, cfg.Clinic.DefaultAppointmentPrice)
	financialUsecase := usecase.NewFinancialUsecase(db, log, transactionRepo, patientRepo, appointmentRepo)
	houseUsecase := usecase.NewHouseUsecase(db, log, houseRepo, athleteRepo, imageStorage, rankingCache)
	athleteUsecase := usecase.NewAthleteUsecase(db, log, athleteRepo, houseRepo, patientRepo, scoreRepo, rankingCache)
	scoringUsecase := usecase.NewScoringUsecase(db, log, ruleRepo, athleteRepo, scoringService, auditService, rankingCache)
	portalUsecase := usecase.NewStudentPortalUsecase(db, log, patientRepo, athleteRepo, houseRepo, scoreRepo, scoringService, rankingCache)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	handlers := deliveryHttp.Handlers{
		Auth:          handler.NewAuthHandler(authUsecase, customValidator),
		Patient:       handler.NewPatientHandler(patientUsecase, customValidator, cfg.Upload.MaxBytes),
		Appointment:   handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		Financial:     handler.NewFinancialHandler(financialUsecase, customValidator),
		House:         handler.NewHouseHandler(houseUsecase, customValidator, cfg.Upload.MaxBytes),
		Athlete:       handler.NewAthleteHandler(athleteUsecase, customValidator),
		Scoring:       handler.NewScoringHandler(scoringUsecase, customValidator),
		StudentPortal: handler.NewStudentPortalHandler(portalUsecase),
		AuditLog:      handler.NewAuditLogHandler(auditLogUsecase, customValidator),
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)

	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, cfg.Upload.Dir, cfg.Upload.URLPrefix)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
