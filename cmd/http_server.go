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

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/identity-access/internal"
	"github.com/frahmantamala/identity-access/internal/audit"
	auditPostgres "github.com/frahmantamala/identity-access/internal/audit/postgres"
	"github.com/frahmantamala/identity-access/internal/auth"
	authPostgres "github.com/frahmantamala/identity-access/internal/auth/postgres"
	"github.com/frahmantamala/identity-access/internal/authz"
	authzPostgres "github.com/frahmantamala/identity-access/internal/authz/postgres"
	"github.com/frahmantamala/identity-access/internal/core/events"
	"github.com/frahmantamala/identity-access/internal/identity"
	identityPostgres "github.com/frahmantamala/identity-access/internal/identity/postgres"
	"github.com/frahmantamala/identity-access/internal/recovery"
	"github.com/frahmantamala/identity-access/internal/tenant"
	tenantPostgres "github.com/frahmantamala/identity-access/internal/tenant/postgres"
	"github.com/frahmantamala/identity-access/internal/transport/rest"
	"github.com/frahmantamala/identity-access/pkg/logger"
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
	Config *internal.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

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
		if err := deps.Redis.Close(); err != nil {
			slog.Error("Redis close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	appLogger := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM rides on the same pgx connection pool as sqlx.
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})

	eventBus := events.NewEventBus(appLogger)

	// Audit trail: every security event becomes an access-log row.
	auditRepo := auditPostgres.NewAuditRepository(gormDB)
	audit.NewEventHandler(auditRepo, appLogger).RegisterEventHandlers(eventBus)

	// Stores
	credentialRepo := authPostgres.NewCredentialRepository(gormDB, config.Security.BCryptCost)
	tenantRepo := tenantPostgres.NewTenantRepository(gormDB)
	permissionRepo := authzPostgres.NewPermissionRepository(gormDB)
	userRepo := identityPostgres.NewUserRepository(gormDB, config.Security.BCryptCost)

	cachedPermissions := authz.NewCachedPermissionStore(permissionRepo, redisClient, config.Redis.PermissionTTL, appLogger)

	// Services
	sessionIssuer := auth.NewJWTSessionIssuer(config.Security.SessionSecret, config.Security.SessionDuration)
	authService := auth.NewService(credentialRepo, tenantRepo, sessionIssuer, eventBus, appLogger)
	recoveryService := recovery.NewService(credentialRepo, tenantRepo, eventBus, appLogger)
	engine := authz.NewEngine(cachedPermissions, permissionRepo, appLogger)
	identityService := identity.NewService(userRepo, tenantRepo, appLogger)
	tenantService := tenant.NewService(tenantRepo, appLogger)

	// Handlers
	authHandler := auth.NewHandler(authService, sessionIssuer)
	recoveryHandler := recovery.NewHandler(recoveryService)
	authzHandler := authz.NewHandler(engine)
	identityHandler := identity.NewHandler(identityService)
	tenantHandler := tenant.NewHandler(tenantService)
	auditHandler := audit.NewHandler(auditRepo)

	storeTimeout := config.Security.StoreTimeout
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}

	router := chi.NewRouter()
	// Every store call takes the request context, so a single deadline here
	// bounds all of them.
	router.Use(chiMiddleware.Timeout(storeTimeout))
	rest.RegisterAllRoutes(router, db.DB, redisClient,
		authHandler, recoveryHandler, authzHandler, engine,
		identityHandler, tenantHandler, auditHandler, appLogger)

	return &Dependencies{
		Config: config,
		Logger: appLogger,
		DB:     db,
		Redis:  redisClient,
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
