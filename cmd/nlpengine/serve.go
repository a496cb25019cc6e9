package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"nlpengine/internal/api"
	"nlpengine/internal/apikeys"
	"nlpengine/internal/config"
	"nlpengine/internal/db"
	"nlpengine/internal/keytester"
	"nlpengine/internal/logger"
	"nlpengine/internal/metrics"
	"nlpengine/internal/mockapi"
	"nlpengine/internal/scheduler"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// customRecovery is a middleware that recovers from panics and handles http.ErrAbortHandler gracefully.
func customRecovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				if recovered == http.ErrAbortHandler {
					log.Warn("Client connection aborted", "path", c.Request.URL.Path)
					c.Abort()
					return
				}

				log.Error("Panic recovered",
					"error", recovered,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

func newGenerator(cfg config.MockConfig) *mockapi.Generator {
	opts := []mockapi.Option{mockapi.WithLatencyScale(cfg.Scale())}
	if cfg.Seed != 0 {
		opts = append(opts, mockapi.WithSeed(cfg.Seed))
	}
	return mockapi.New(opts...)
}

// newRouter wires every route onto a fresh engine.
func newRouter(log *slog.Logger, dbService db.Service, gen *mockapi.Generator, tester apikeys.Tester) *gin.Engine {
	router := gin.New()
	router.Use(customRecovery(log))
	router.Use(logger.Middleware(logger.Component(log, "http")))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.MetricsHandler())

	api.SetupRoutes(router, gen, logger.Component(log, "mockapi"))
	apikeys.SetupRoutes(router, dbService, tester, logger.Component(log, "apikeys"))
	return router
}

// setupAndRunServer serves until ctx is done, then shuts down gracefully.
func setupAndRunServer(ctx context.Context, cfg *config.Config, log *slog.Logger, dbService db.Service) error {
	metrics.Init()

	sched := scheduler.NewScheduler(dbService, log)
	if err := sched.Start(cfg.Scheduler.ExpirySchedule); err != nil {
		return err
	}
	defer sched.Stop()

	tester := keytester.New(dbService, cfg.KeyTester, log)
	defer tester.Close()

	gen := newGenerator(cfg.Mock)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(log, dbService, gen, tester)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("Shutting down server...")

	// The server has 5 seconds to finish the requests it is currently handling.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exiting")
	return nil
}

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, warning, err := config.LoadConfig(configPath)
			if err != nil {
				// Use a temporary logger for startup errors
				slog.Error("Error loading configuration", "error", err)
				return err
			}

			log := logger.New(cfg.Debug)
			log.Info("Logger initialized", "debug_mode", cfg.Debug)
			if warning != "" {
				log.Warn(warning)
			}

			dbService, err := db.NewService(cfg.Database)
			if err != nil {
				log.Error("Error initializing database", "error", err)
				return err
			}
			log.Info("Database initialized", "type", cfg.Database.Type)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return setupAndRunServer(ctx, cfg, log, dbService)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
	return cmd
}
