package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jamcalli/pulsarr/internal/database"
	internalhttp "github.com/jamcalli/pulsarr/internal/http"
	"github.com/jamcalli/pulsarr/internal/http/handlers"
	"github.com/jamcalli/pulsarr/internal/observability"
	"github.com/jamcalli/pulsarr/internal/repository"
	"github.com/jamcalli/pulsarr/internal/router"
	"github.com/jamcalli/pulsarr/internal/router/evaluators"
	"github.com/jamcalli/pulsarr/internal/scheduler"
	"github.com/jamcalli/pulsarr/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pulsarr server",
	Long: `Start the pulsarr HTTP server and API.

The server provides:
- REST API for managing instances and routing rules
- Routing preview and condition validation endpoints
- Health check endpoint
- OpenAPI documentation at /docs`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().Int("port", 8484, "Port to listen on")
	serveCmd.Flags().String("database", "pulsarr.db", "Database DSN (file path for sqlite)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	// CLI flags win over config/env, but only when explicitly set.
	stringFlagOverride(cmd.Flags(), "host", &cfg.Server.Host)
	intFlagOverride(cmd.Flags(), "port", &cfg.Server.Port)
	stringFlagOverride(cmd.Flags(), "database", &cfg.Database.DSN)

	// Database
	db, err := database.New(cfg.Database, observability.WithComponent(logger, "database"))
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Repositories
	ruleRepo := repository.NewRouterRuleRepository(db.DB)
	instanceRepo := repository.NewInstanceRepository(db.DB)

	// Routing engine. The snapshot store serves rules from memory and is
	// refreshed on a cron schedule; the resolver and evaluators read
	// through it.
	routerLog := observability.WithComponent(logger, "router")
	snapshot := router.NewSnapshotStore(ruleRepo, routerLog)
	registry := evaluators.DefaultRegistry(snapshot, routerLog)
	resolver := router.NewResolver(snapshot, registry, routerLog)

	sched := scheduler.NewScheduler(snapshot).
		WithLogger(observability.WithComponent(logger, "scheduler")).
		WithCron(cfg.Router.SnapshotCron).
		WithRefreshOnStart(cfg.Router.SnapshotOnStart)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		cancel()
	}()

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// HTTP server
	server := internalhttp.NewServer(cfg.Server, logger, version.Version)

	healthHandler := handlers.NewHealthHandler(version.Version).
		WithDB(db.DB).
		WithRouter(snapshot, registry)
	healthHandler.Register(server.API())

	instanceHandler := handlers.NewInstanceHandler(instanceRepo)
	instanceHandler.Register(server.API())

	ruleHandler := handlers.NewRouterRuleHandler(ruleRepo)
	ruleHandler.Register(server.API())

	evaluatorHandler := handlers.NewEvaluatorHandler(registry)
	evaluatorHandler.Register(server.API())

	routingHandler := handlers.NewRoutingHandler(resolver)
	routingHandler.Register(server.API())

	logger.Info("starting pulsarr server",
		slog.String("address", cfg.Server.Address()),
		slog.String("version", version.Version),
		slog.String("database", cfg.Database.Driver),
	)

	return server.ListenAndServe(ctx)
}
