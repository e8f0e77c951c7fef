package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sentra-ids/sentra/internal/auth"
	"github.com/sentra-ids/sentra/internal/background"
	"github.com/sentra-ids/sentra/internal/blocklist"
	"github.com/sentra-ids/sentra/internal/config"
	"github.com/sentra-ids/sentra/internal/database"
	"github.com/sentra-ids/sentra/internal/features"
	"github.com/sentra-ids/sentra/internal/handlers"
	middlewareCustom "github.com/sentra-ids/sentra/internal/middleware"
	"github.com/sentra-ids/sentra/internal/notify"
	"github.com/sentra-ids/sentra/internal/predictor"
	"github.com/sentra-ids/sentra/internal/repositories"
	"github.com/sentra-ids/sentra/internal/reports"
	"github.com/sentra-ids/sentra/internal/routes"
	"github.com/sentra-ids/sentra/internal/services"
	pkghttp "github.com/sentra-ids/sentra/pkg/http"
	pkglogger "github.com/sentra-ids/sentra/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize the attempt store. The memory backend exists for DB-less
	// demo runs; the database is only dialed for the postgres backend.
	var (
		db        *database.DB
		store     services.AttemptStore
		counter   features.AttemptCounter
		retention background.RetentionStore
	)
	if cfg.Store == "memory" {
		logger.Warn("using in-memory attempt store; records are lost on restart")
		mem := repositories.NewMemoryAttemptStore()
		store, counter, retention = mem, mem, mem
	} else {
		db, err = database.NewConnection(&cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			logger.Error("failed to run migrations", slog.Any("error", err))
			os.Exit(1)
		}

		repo := repositories.NewAttemptRepository(db)
		store, counter, retention = repo, repo, repo
	}

	// Load the pretrained model. The service is useless without it, so a
	// bad artifact is fatal rather than degraded.
	forest, err := predictor.Load(cfg.Detection.ModelPath)
	if err != nil {
		logger.Error("failed to load model", slog.Any("error", err), slog.String("path", cfg.Detection.ModelPath))
		os.Exit(1)
	}
	if forest.Arity() != features.Arity {
		logger.Error("model arity does not match feature extractor",
			slog.Int("model_arity", forest.Arity()),
			slog.Int("extractor_arity", features.Arity))
		os.Exit(1)
	}
	logger.Info("model loaded", slog.String("path", cfg.Detection.ModelPath))

	// Initialize core state
	bl := blocklist.New()
	extractor := features.New(counter, cfg.Detection.HistoryWindow)

	eventLog, err := reports.NewEventLog(cfg.Reports.Dir)
	if err != nil {
		logger.Error("failed to initialize event log", slog.Any("error", err))
		os.Exit(1)
	}

	auditLogger := pkglogger.NewAuditLogger(logger)

	verifier, err := services.NewBcryptVerifier(cfg.Detection.CredentialHash)
	if err != nil {
		logger.Error("invalid CREDENTIAL_HASH", slog.Any("error", err))
		os.Exit(1)
	}

	notifier, err := buildNotifier(&cfg.Notifier, logger)
	if err != nil {
		logger.Error("failed to initialize notifier", slog.Any("error", err))
		os.Exit(1)
	}

	decisionService := services.NewDecisionService(
		store,
		extractor,
		forest,
		verifier,
		bl,
		notifier,
		eventLog,
		auditLogger,
		logger,
		cfg.Detection.BlockDuration,
	)

	// Initialize cleanup manager
	cleanupManager := background.NewCleanupManager(retention, bl, logger, cfg.Detection.CleanupInterval, cfg.Detection.AttemptRetention)

	// Initialize token manager for the operator surface
	tokenManager := auth.NewTokenManager(cfg.Admin.TokenSecret, cfg.Admin.TokenExpiry)

	// Initialize handlers
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	loginHandler := handlers.NewLoginHandler(decisionService, ipConfig)
	adminHandler := handlers.NewAdminHandler(decisionService)
	reportsHandler := handlers.NewReportsHandler(decisionService, eventLog)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, loginHandler, adminHandler, reportsHandler, tokenManager)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"healthy","database":"none"}`))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// buildNotifier selects the alert sink from configuration.
func buildNotifier(cfg *config.NotifierConfig, logger *slog.Logger) (notify.Notifier, error) {
	switch cfg.Kind {
	case "webhook":
		return notify.NewWebhookNotifier(cfg.WebhookURL, logger), nil
	case "ses":
		return notify.NewSESNotifier(cfg.AWSRegion, cfg.FromAddress, cfg.ToAddress, logger)
	default:
		return notify.NewLogNotifier(logger), nil
	}
}
