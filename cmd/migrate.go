package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/billed/internal"
	"github.com/frahmantamala/billed/internal/storage/database"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded storage migrations",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Storage.Driver == internal.StorageDriverMemory {
		return fmt.Errorf("nothing to migrate for the %s driver", cfg.Storage.Driver)
	}

	db, err := database.Open(cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if migrateRollback {
		if err := database.Rollback(ctx, db, cfg.Storage.Driver); err != nil {
			return err
		}
		slog.Info("storage migration rolled back", "driver", cfg.Storage.Driver)
		return nil
	}

	if err := database.Migrate(ctx, db, cfg.Storage.Driver); err != nil {
		return err
	}
	slog.Info("storage migrated", "driver", cfg.Storage.Driver)
	return nil
}
