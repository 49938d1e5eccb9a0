package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/migrate"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/postgres"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func MigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres schema",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(db *gorm.DB, path string) error {
				if err := migrate.RunMigrations(db, path); err != nil {
					return err
				}
				fmt.Println(color.New(color.FgGreen).Sprint("schema is up to date"))
				return nil
			})
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			return withDB(cmd, func(db *gorm.DB, path string) error {
				if err := migrate.Rollback(db, path, steps); err != nil {
					return err
				}
				fmt.Printf("rolled back %s migration(s)\n", color.New(color.FgYellow).Sprint(steps))
				return nil
			})
		},
	}
	downCmd.Flags().Int("steps", 1, "number of migrations to revert")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(db *gorm.DB, path string) error {
				v, dirty, err := migrate.Version(db, path)
				if err != nil {
					return err
				}
				state := color.New(color.FgGreen).Sprint("clean")
				if dirty {
					state = color.New(color.FgRed).Sprint("DIRTY")
				}
				fmt.Printf("version %d (%s)\n", v, state)
				return nil
			})
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, versionCmd)
	return migrateCmd
}

func withDB(cmd *cobra.Command, fn func(db *gorm.DB, migrationPath string) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Storage.Driver != "postgres" {
		return fmt.Errorf("storage driver %q has no schema", cfg.Storage.Driver)
	}
	db, err := postgres.OpenDB(cfg.DisputeDB)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	return fn(db, cfg.DisputeDB.MigrationPath)
}
