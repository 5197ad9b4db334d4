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

	"github.com/frahmantamala/team-management/internal"
	"github.com/frahmantamala/team-management/internal/auth"
	"github.com/frahmantamala/team-management/internal/authprovider"
	"github.com/frahmantamala/team-management/internal/core/events"
	"github.com/frahmantamala/team-management/internal/organization"
	organizationPostgres "github.com/frahmantamala/team-management/internal/organization/postgres"
	"github.com/frahmantamala/team-management/internal/profile"
	profilePostgres "github.com/frahmantamala/team-management/internal/profile/postgres"
	"github.com/frahmantamala/team-management/internal/provisioning"
	"github.com/frahmantamala/team-management/internal/transport"
	"github.com/frahmantamala/team-management/internal/transport/middleware"
	"github.com/frahmantamala/team-management/internal/transport/rest"
	"github.com/frahmantamala/team-management/pkg/logger"

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
	Config         *internal.Config
	DB             *sqlx.DB
	Router         *chi.Mux
	AuthHandler    *auth.Handler
	ProfileHandler *profile.Handler
	WebhookHandler *provisioning.WebhookHandler
	Logger         *slog.Logger
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
	deps.Router.Use(middleware.RequestID)
	deps.Router.Use(middleware.LoggingMiddleware(deps.Logger))

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, rest.RouterConfig{
		JWTSecret:      deps.Config.AuthProvider.JWTSecret,
		ServiceRoleKey: deps.Config.AuthProvider.ServiceRoleKey,
	}, deps.AuthHandler, deps.ProfileHandler, deps.WebhookHandler, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over pgx pool: %w", err)
	}

	eventBus := events.NewEventBus(lg)
	eventBus.Subscribe(events.ProfileProvisionedEventType, provisioningAuditHandler(lg))
	eventBus.Subscribe(events.ProvisioningFailedEventType, provisioningAuditHandler(lg))
	eventBus.Subscribe(events.OrganizationCreatedEventType, provisioningAuditHandler(lg))

	orgRepo := organizationPostgres.NewOrganizationRepository(gormDB)
	orgService := organization.NewService(orgRepo, lg)

	profileRepo := profilePostgres.NewProfileRepository(gormDB)
	profileService := profile.NewService(profileRepo, orgService, lg)

	orchestrator := provisioning.NewOrchestrator(orgService, profileService, eventBus, lg)

	providerClient := authprovider.NewClient(authprovider.Config{
		BaseURL:        config.AuthProvider.BaseURL,
		AnonKey:        config.AuthProvider.AnonKey,
		ServiceRoleKey: config.AuthProvider.ServiceRoleKey,
		Timeout:        config.AuthProvider.RequestTimeout,
	}, lg)
	authService := auth.NewService(providerClient, orchestrator, lg)

	return &Dependencies{
		Config:         config,
		Logger:         lg,
		DB:             db,
		Router:         chi.NewRouter(),
		AuthHandler:    auth.NewHandler(authService, config.AuthProvider.DashboardRedirect),
		ProfileHandler: profile.NewHandler(profileService),
		WebhookHandler: provisioning.NewWebhookHandler(transport.NewBaseHandler(lg), orchestrator, lg),
	}, nil
}

func provisioningAuditHandler(lg *slog.Logger) events.Handler {
	return func(ctx context.Context, event events.Event) error {
		lg.Info("provisioning audit",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	}
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
