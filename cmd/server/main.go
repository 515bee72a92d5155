package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rohits-web03/humandns/internal/api"
	"github.com/rohits-web03/humandns/internal/api/handlers"
	"github.com/rohits-web03/humandns/internal/api/services"
	"github.com/rohits-web03/humandns/internal/config"
	"github.com/rohits-web03/humandns/internal/repositories"
)

var (
	logger *zap.Logger
	cfg    config.Config
)

var rootCmd = &cobra.Command{
	Use:   "humandns-server",
	Short: "HumanDNS API server",
	Long: `HumanDNS serves permanent public profiles listing a user's current
communication channels, plus the authenticated API to manage them.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()

		zcfg := zap.NewProductionConfig()
		if !cfg.IsProduction() {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := repositories.ConnectDatabase(cfg.DB_URL, logger)
		if err != nil {
			return err
		}
		if err := repositories.Migrate(db); err != nil {
			return err
		}
		logger.Info("migration complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	if cfg.IsProduction() && cfg.JWTSecret == "not-so-secret-now-is-it?" {
		return errors.New("JWT_SECRET must be set in production")
	}

	db, err := repositories.ConnectDatabase(cfg.DB_URL, logger)
	if err != nil {
		return err
	}
	if err := repositories.Migrate(db); err != nil {
		return err
	}
	store := repositories.NewStore(db)

	var cache repositories.Cache
	if cfg.RedisURL != "" {
		rc, err := repositories.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rc.Close()
		cache = rc
		logger.Info("using redis cache")
	} else {
		cache = repositories.NewMemoryCache()
		logger.Warn("REDIS_URL not set, using in-process cache")
	}

	deps := handlers.Deps{
		Config: cfg,
		Store:  store,
		Cache:  cache,
		Tokens: services.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		OAuth:  services.NewOAuthProviders(cfg),
		Mailer: services.LogMailer{Log: logger.Named("mailer")},
		Log:    logger,
	}
	if cfg.R2.BucketName != "" {
		r2, err := repositories.NewR2Store(ctx, cfg.R2)
		if err != nil {
			return err
		}
		deps.Avatars = r2
	} else {
		logger.Warn("R2_BUCKET_NAME not set, avatar uploads disabled")
	}

	h := handlers.New(deps)
	mux := api.SetupRouter(h, api.RouterDeps{
		Config: cfg,
		Store:  store,
		Tokens: deps.Tokens,
		Cache:  cache,
		Log:    logger,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: mux,
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HumanDNS server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("could not listen on port %s: %w", cfg.Port, err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
