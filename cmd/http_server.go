package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campussrc/src-portal/internal"
	"github.com/campussrc/src-portal/internal/activity"
	activityPostgres "github.com/campussrc/src-portal/internal/activity/postgres"
	"github.com/campussrc/src-portal/internal/auth"
	authPostgres "github.com/campussrc/src-portal/internal/auth/postgres"
	"github.com/campussrc/src-portal/internal/budget"
	budgetPostgres "github.com/campussrc/src-portal/internal/budget/postgres"
	"github.com/campussrc/src-portal/internal/core/events"
	"github.com/campussrc/src-portal/internal/department"
	departmentPostgres "github.com/campussrc/src-portal/internal/department/postgres"
	"github.com/campussrc/src-portal/internal/messaging"
	messagingPostgres "github.com/campussrc/src-portal/internal/messaging/postgres"
	"github.com/campussrc/src-portal/internal/settings"
	settingsPostgres "github.com/campussrc/src-portal/internal/settings/postgres"
	"github.com/campussrc/src-portal/internal/transport"
	"github.com/campussrc/src-portal/internal/transport/middleware"
	"github.com/campussrc/src-portal/internal/transport/rest"
	"github.com/campussrc/src-portal/internal/user"
	userPostgres "github.com/campussrc/src-portal/internal/user/postgres"
	"github.com/campussrc/src-portal/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	DB         *sqlx.DB
	GormDB     *gorm.DB
	Router     *chi.Mux
	Logger     *slog.Logger
	Dispatcher *messaging.BroadcastDispatcher
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if deps.Dispatcher != nil {
			deps.Dispatcher.Shutdown()
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	cfg := deps.Config
	lg := deps.Logger
	gormDB := deps.GormDB

	deps.Router.Use(middleware.RequestID)

	baseHandler := transport.NewBaseHandler(lg)

	eventBus := events.NewEventBus(lg)

	// audit trail, fed by the event bus
	activityRepo := activityPostgres.NewActivityRepository(gormDB)
	activityService := activity.NewService(activityRepo, lg)
	activity.NewSubscriber(activityService).Register(eventBus)
	activityHandler := activity.NewHandler(baseHandler, activityService)

	// auth
	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authRepo := authPostgres.NewRepository(gormDB)
	authService := auth.NewService(authRepo, tokenGen, cfg.Security.BCryptCost, lg)
	authHandler := auth.NewHandler(authService)

	// current user
	userRepo := userPostgres.NewUserRepository(gormDB)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// budget ledger
	budgetRepo := budgetPostgres.NewBudgetRepository(gormDB)
	budgetService := budget.NewService(budgetRepo, eventBus, lg, cfg.Budget)
	budgetHandler := budget.NewHandler(baseHandler, budgetService)

	// department directory
	departmentRepo := departmentPostgres.NewDepartmentRepository(gormDB)
	departmentService := department.NewService(departmentRepo, lg)
	departmentHandler := department.NewHandler(baseHandler, departmentService)

	// broadcasts
	dispatcher := messaging.NewBroadcastDispatcher(cfg.Messaging, lg, nil)
	deps.Dispatcher = dispatcher
	messagingRepo := messagingPostgres.NewMessagingRepository(gormDB)
	messagingService := messaging.NewService(messagingRepo, dispatcher, lg, cfg.Messaging)
	messagingHandler := messaging.NewHandler(baseHandler, messagingService)

	// portal settings
	settingsRepo := settingsPostgres.NewSettingsRepository(gormDB)
	settingsService := settings.NewService(settingsRepo, lg)
	settingsHandler := settings.NewHandler(baseHandler, settingsService)

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, authHandler, authService, userHandler, budgetHandler, departmentHandler, messagingHandler, settingsHandler, activityHandler, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	router := chi.NewRouter()

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		GormDB: gormDB,
		Router: router,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers gorm over the already-open pgx connection pool so both
// query paths share one pool and one set of limits.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormPostgres.New(gormPostgres.Config{
		Conn: db.DB,
	}), &gorm.Config{})
}
