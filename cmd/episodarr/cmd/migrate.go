package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/episodarr/internal/config"
	"github.com/jmylchreest/episodarr/internal/database"
	"github.com/jmylchreest/episodarr/internal/database/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration commands",
	Long:  `Commands for applying and inspecting database schema migrations.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runMigrateUp,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last applied migration",
	RunE:  runMigrateDown,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of all migrations",
	RunE:  runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

// openMigrator connects to the configured database and returns a migrator
// with all known migrations registered. Callers own closing the database.
func openMigrator() (*migrations.Migrator, *database.DB, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := database.New(cfg.Database, slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	migrator := migrations.NewMigrator(db.DB, slog.Default())
	migrator.RegisterAll(migrations.AllMigrations())

	return migrator, db, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	migrator, db, err := openMigrator()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrator.Up(cmd.Context()); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	fmt.Println("migrations applied")
	return nil
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	migrator, db, err := openMigrator()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrator.Down(cmd.Context()); err != nil {
		return fmt.Errorf("rolling back migration: %w", err)
	}

	fmt.Println("last migration rolled back")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	migrator, db, err := openMigrator()
	if err != nil {
		return err
	}
	defer db.Close()

	statuses, err := migrator.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("getting migration status: %w", err)
	}

	for _, status := range statuses {
		state := "pending"
		if status.Applied {
			state = fmt.Sprintf("applied %s", status.AppliedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("%-8s %-10s %s\n", status.Version, state, status.Description)
	}

	return nil
}
