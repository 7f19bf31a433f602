package cmd

import (
	"fmt"

	"clinic/database"
	"clinic/utils"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage PostgreSQL schema migrations",
	Long: `Apply or roll back the SQL migrations in db.migrations_path.
SQLite databases are migrated automatically on startup and do not use these commands.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePostgres(); err != nil {
			return err
		}
		if err := database.RunMigrations(cfg); err != nil {
			return err
		}
		utils.WithComponent("migrate").Info().Msg("migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Example: `  # Roll back the last migration
  clinic migrate down --steps 1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePostgres(); err != nil {
			return err
		}
		steps, _ := cmd.Flags().GetInt("steps")
		if steps <= 0 {
			return fmt.Errorf("steps must be positive")
		}
		if err := database.RollbackMigrations(cfg, steps); err != nil {
			return err
		}
		utils.WithComponent("migrate").Info().Int("steps", steps).Msg("migrations rolled back")
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requirePostgres(); err != nil {
			return err
		}
		v, dirty, err := database.MigrationVersion(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version: %d, dirty: %t\n", v, dirty)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)

	migrateDownCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
}

func requirePostgres() error {
	if cfg.DB.Driver != "postgres" {
		return fmt.Errorf("migrations are only used with postgres, current driver: %s", cfg.DB.Driver)
	}
	return nil
}
