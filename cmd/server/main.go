// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recruitment-core/internal/analyzer"
	"recruitment-core/internal/api"
	"recruitment-core/internal/common/config"
	"recruitment-core/internal/common/database"
	"recruitment-core/internal/common/logger"
	"recruitment-core/internal/intake"
	"recruitment-core/internal/pipeline"
	"recruitment-core/internal/storage"
	"recruitment-core/internal/upload"
)

const app = "recruitment-core"

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   app,
	Short: "recruitment-core is the application intake and candidate pipeline service",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the intake HTTP server",
	RunE: func(_ *cobra.Command, _ []string) error {
		return serve()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s %s\n", app, version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting intake server",
		zap.String("version", version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pg.Ping(pingCtx)
	}, 10, 2*time.Second, zapLog, "PostgreSQL initialization")
	if err != nil {
		return err
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis (cache only; startup tolerates an outage) ---
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := rdb.Ping(pingCtx); err != nil {
		zapLog.Warn("Redis unreachable, job text caching disabled", zap.Error(err))
	}
	cancel()

	// --- Wire the pipeline ---
	appRepo := storage.NewApplicationRepository(pg.GetDB(), log)
	jobRepo := storage.NewJobRepository(pg.GetDB())
	receiver := upload.NewReceiver(cfg.Uploads.Dir, cfg.Uploads.MaxSizeBytes, log)
	analyzerClient := analyzer.NewClient(cfg.Analyzer, log)
	resolver := intake.NewResolver(jobRepo, rdb.GetClient(), cfg.Cache.JobTextCacheTTL(), log)
	intakeSvc := intake.NewService(receiver, resolver, analyzerClient, appRepo, log)
	pipelineSvc := pipeline.NewService(appRepo, log)

	server := api.NewServer(intakeSvc, pipelineSvc, appRepo, jobRepo, analyzerClient, log)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.Routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		zapLog.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancelShutdown()
	return httpServer.Shutdown(shutdownCtx)
}
