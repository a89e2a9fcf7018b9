package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-assignment/backend/internal/config"
	"task-assignment/backend/internal/database"
	"task-assignment/backend/internal/handlers"
	"task-assignment/backend/internal/logging"
	"task-assignment/backend/internal/middleware"
	"task-assignment/backend/internal/monitoring"
	"task-assignment/backend/internal/repositories"
	"task-assignment/backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

// Application holds all application dependencies and state
type Application struct {
	Config  *config.Config
	Log     *logrus.Logger
	DB      *database.DatabasePool
	Redis   *redis.Client
	Metrics *monitoring.Registry
	Router  *gin.Engine
	Server  *http.Server

	TaskService services.TaskService
	UserService services.UserService

	closeLog    func() error
	stopLimiter context.CancelFunc
}

func main() {
	rollback := flag.Bool("rollback", false, "roll back the most recent postgres migration and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *rollback {
		cfg.Database.RunMigrations = false
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := initializeApplication(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if *rollback {
		err := app.rollbackMigration()
		app.cleanup()
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Rollback failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	app.setupRoutes()
	app.startServer()
}

func initializeApplication(cfg *config.Config) (*Application, error) {
	log, closeLog, err := logging.New(cfg.Log, cfg.IsProduction())
	if err != nil {
		return nil, fmt.Errorf("logger setup failed: %w", err)
	}

	app := &Application{
		Config:   cfg,
		Log:      log,
		Metrics:  monitoring.NewRegistry(),
		closeLog: closeLog,
	}
	entry := logging.Service(log)

	entry.Info("🚀 Initializing Task Assignment API...")
	entry.Infof("📋 Environment: %s", cfg.Server.Environment)

	dsn := cfg.GetDatabaseDSN()
	if cfg.Database.Driver == database.DriverSQLite {
		dsn = database.SQLiteDSN(dsn)
	}

	gormLevel := logger.Warn
	if log.IsLevelEnabled(logrus.DebugLevel) {
		gormLevel = logger.Info
	}

	pool, err := database.NewDatabasePool(&database.PoolConfig{
		Driver:          cfg.Database.Driver,
		DSN:             dsn,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		LogLevel:        gormLevel,
		Log:             entry,
	})
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	app.DB = pool
	entry.Info("✅ Database connected and configured")

	if cfg.Database.RunMigrations {
		if err := repositories.RunMigrations(pool.DB, app.migrationConfig(), entry); err != nil {
			app.cleanup()
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
	}

	app.TaskService = services.NewTaskService(repositories.NewTaskRepository(pool.DB))
	app.UserService = services.NewUserService(repositories.NewUserRepository(pool.DB))
	entry.Info("✅ All services initialized")

	app.Metrics.RegisterHealthCheck("database", pool.HealthContext)

	if cfg.RateLimit.Enabled && cfg.RateLimit.Backend == "redis" {
		app.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Redis.Ping(ctx).Err(); err != nil {
			entry.WithError(err).Warn("⚠️  Redis unavailable, rate limiting fails open until it returns")
		} else {
			entry.Info("✅ Redis connected")
		}

		app.Metrics.RegisterHealthCheck("redis", func(ctx context.Context) error {
			return app.Redis.Ping(ctx).Err()
		})
	}

	return app, nil
}

func (app *Application) migrationConfig() *repositories.MigrationConfig {
	migrationConfig := repositories.DefaultMigrationConfig()
	migrationConfig.Driver = app.Config.Database.Driver
	migrationConfig.DBName = app.Config.Database.Name
	return migrationConfig
}

// rollbackMigration steps the schema back one migration. Only postgres keeps
// versioned migrations.
func (app *Application) rollbackMigration() error {
	if err := repositories.RollbackMigration(app.DB.DB, app.migrationConfig()); err != nil {
		return err
	}
	logging.Service(app.Log).Info("↩️  Rolled back the latest migration")
	return nil
}

func (app *Application) setupRoutes() {
	r := gin.New()
	handlers.ConfigureEngine(r)

	entry := logging.Service(app.Log)

	// Global middleware stack (order matters!)
	r.Use(middleware.RecoveryWithLog(entry))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(entry))
	r.Use(app.Metrics.MetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  app.Config.CORS.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	r.Use(middleware.ErrorResponder(entry))
	r.Use(middleware.BodyLimit(int64(app.Config.Server.MaxBodyBytes)))

	// Health and monitoring endpoints stay outside the rate limit
	app.Metrics.Register(r)

	api := r.Group("")
	if limiter := app.rateLimiter(); limiter != nil {
		api.Use(limiter)
	}

	handlers.RegisterTaskRoutes(api, handlers.NewTaskHandler(app.TaskService))
	handlers.RegisterUserRoutes(api, handlers.NewUserHandler(app.UserService))

	app.Router = r
}

func (app *Application) rateLimiter() gin.HandlerFunc {
	cfg := app.Config.RateLimit
	if !cfg.Enabled {
		return nil
	}

	if cfg.Backend == "redis" && app.Redis != nil {
		limiter := middleware.NewDistributedRateLimiter(app.Redis)
		return limiter.CreateMiddleware("api", &middleware.RateLimit{
			Rate:    cfg.RequestsPerMin,
			Window:  cfg.Window,
			KeyFunc: middleware.IPKeyFunc,
		})
	}

	limiter := middleware.NewIPRateLimiter(middleware.PerMinute(cfg.RequestsPerMin), cfg.BurstSize)
	ctx, cancel := context.WithCancel(context.Background())
	app.stopLimiter = cancel
	go limiter.RunCleanup(ctx, cfg.CleanupInterval)
	return limiter.Middleware()
}

func (app *Application) startServer() {
	addr := app.Config.GetServerAddr()
	entry := logging.Service(app.Log)

	app.Server = &http.Server{
		Addr:         addr,
		Handler:      app.Router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		entry.Info("🛑 Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := app.Server.Shutdown(ctx); err != nil {
			entry.WithError(err).Error("❌ Server forced to shutdown")
		}
	}()

	entry.Infof("🚀 Server starting on %s", addr)
	entry.Infof("📊 Metrics available at http://%s/metrics", addr)
	entry.Infof("💚 Health check at http://%s/health", addr)

	if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		entry.WithError(err).Error("❌ Server failed to start")
		app.cleanup()
		os.Exit(1)
	}

	<-done
	app.cleanup()
	entry.Info("✅ Server stopped gracefully")
}

func (app *Application) cleanup() {
	entry := logging.Service(app.Log)
	entry.Info("🧹 Cleaning up resources...")

	if app.stopLimiter != nil {
		app.stopLimiter()
	}

	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			entry.WithError(err).Warn("⚠️  Error closing Redis")
		}
	}

	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			entry.WithError(err).Warn("⚠️  Error closing database")
		}
	}

	entry.Info("✅ Cleanup complete")

	if app.closeLog != nil {
		_ = app.closeLog()
	}
}
