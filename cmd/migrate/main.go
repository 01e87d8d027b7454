package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/erp/requisition/internal/infrastructure/config"
	"github.com/erp/requisition/internal/infrastructure/logger"
	"github.com/erp/requisition/internal/infrastructure/migration"
	"github.com/erp/requisition/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrationsPath string
	logLevel       string
	log            *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the requisition draft store schema",
	Long: `Applies the draft store migrations for the configured database driver.
Migrations are embedded in the binary; --path reads them from disk instead.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.New(&logger.Config{
			Level:      logLevel,
			Format:     "console",
			Output:     "stdout",
			TimeFormat: "2006-01-02 15:04:05",
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
		return m.Up()
	}),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
		return m.Down()
	}),
}

var stepCmd = &cobra.Command{
	Use:   "step <n>",
	Short: "Apply n migrations (negative rolls back)",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return m.Steps(n)
	}),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current migration version",
	RunE: withMigrator(func(m *migration.Migrator, _ []string) error {
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	}),
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Set the migration version without running migrations",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(m *migration.Migrator, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.Force(version)
	}),
}

var createCmd = &cobra.Command{
	Use:   "create <name> [description]",
	Short: "Create an up/down pair for every driver",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := migrationsPath
		if root == "" {
			root = "migrations"
		}
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		created, err := migration.CreateMigration(root, args[0], description, time.Now())
		if err != nil {
			return err
		}
		for _, mf := range created {
			log.Info("Migration created",
				zap.String("driver", mf.Driver),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List migrations for the configured driver",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		driver := migrationDriver(cfg.Database.Driver)

		var names []string
		if migrationsPath == "" {
			entries, err := migrations.FS.ReadDir(driver)
			if err != nil {
				return err
			}
			for _, e := range entries {
				names = append(names, e.Name())
			}
		} else {
			names, err = migration.ListMigrations(filepath.Join(migrationsPath, driver))
			if err != nil {
				return err
			}
		}
		for _, n := range names {
			fmt.Println("  -", n)
		}
		return nil
	},
}

// withMigrator opens a Migrator for the configured database around fn
func withMigrator(fn func(m *migration.Migrator, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		if cfg.Database.Driver == "memory" {
			return fmt.Errorf("database.driver is memory; there is no schema to migrate")
		}
		driver := migrationDriver(cfg.Database.Driver)

		var m *migration.Migrator
		if migrationsPath == "" {
			m, err = migration.NewFromFS(migrations.FS, driver, cfg.Database.MigrationURL(), log)
		} else {
			m, err = migration.NewFromPath(filepath.Join(migrationsPath, driver), cfg.Database.MigrationURL(), log)
		}
		if err != nil {
			return err
		}
		defer m.Close()

		log.Info("Migration started", zap.String("command", cmd.Name()), zap.String("driver", driver))
		return fn(m, args)
	}
}

func migrationDriver(dbDriver string) string {
	if dbDriver == "sqlite" {
		return "sqlite"
	}
	return "postgres"
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrationsPath, "path", "", "migrations root on disk (default: embedded)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.AddCommand(upCmd, downCmd, stepCmd, versionCmd, forceCmd, createCmd, listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
