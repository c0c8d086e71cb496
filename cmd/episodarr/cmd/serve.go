package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/episodarr/internal/config"
	"github.com/jmylchreest/episodarr/internal/database"
	"github.com/jmylchreest/episodarr/internal/database/migrations"
	"github.com/jmylchreest/episodarr/internal/events"
	episodarrhttp "github.com/jmylchreest/episodarr/internal/http"
	"github.com/jmylchreest/episodarr/internal/http/handlers"
	"github.com/jmylchreest/episodarr/internal/maintenance"
	"github.com/jmylchreest/episodarr/internal/repository"
	"github.com/jmylchreest/episodarr/internal/series"
	"github.com/jmylchreest/episodarr/internal/version"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the episodarr server",
	Long: `Start the episodarr HTTP server.

The server applies pending database migrations on startup, runs the
background maintenance scheduler, and exposes the operational API for
health checks and read-only series queries.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "address to bind the HTTP server to")
	serveCmd.Flags().Int("port", 0, "port to listen on")
	serveCmd.Flags().String("database-dsn", "", "database connection string")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config/env only when explicitly set, keeping
	// the flag > env > config > default precedence.
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("database-dsn") {
		cfg.Database.DSN, _ = flags.GetString("database-dsn")
	}

	logger := slog.Default()

	db, err := database.New(cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	migrator := migrations.NewMigrator(db.DB, logger)
	migrator.RegisterAll(migrations.AllMigrations())
	if err := migrator.Up(cmd.Context()); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	bus := events.NewBus(logger)
	svc := series.NewService(db.DB, bus).WithLogger(logger)

	gc := maintenance.NewService(repository.NewShowRepository(db.DB), cfg.Maintenance).WithLogger(logger)
	if err := gc.Start(); err != nil {
		return fmt.Errorf("starting maintenance scheduler: %w", err)
	}
	defer gc.Stop()

	serverConfig := episodarrhttp.DefaultServerConfig()
	serverConfig.Host = cfg.Server.Host
	serverConfig.Port = cfg.Server.Port
	if cfg.Server.ReadTimeout > 0 {
		serverConfig.ReadTimeout = cfg.Server.ReadTimeout
	}
	if cfg.Server.WriteTimeout > 0 {
		serverConfig.WriteTimeout = cfg.Server.WriteTimeout
	}
	if cfg.Server.ShutdownTimeout > 0 {
		serverConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout
	}

	server := episodarrhttp.NewServer(serverConfig, logger, version.Version)

	handlers.NewHealthHandler(version.Short()).WithDB(db.DB).Register(server.API())
	handlers.NewSeriesHandler(svc).Register(server.API())

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		cancel()
	}()

	logger.Info("starting episodarr server",
		slog.String("host", serverConfig.Host),
		slog.Int("port", serverConfig.Port),
		slog.String("version", version.Version),
	)

	return server.ListenAndServe(ctx)
}
