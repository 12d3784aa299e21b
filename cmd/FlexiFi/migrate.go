package main

import (
	"context"

	"github.com/sebuszqo/FlexiFi/internal/db"
	"github.com/sebuszqo/FlexiFi/internal/logging"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded schema for the configured driver",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		dbService, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer dbService.Close()

		if err := dbService.Migrate(ctx); err != nil {
			return err
		}
		logger.Info("Schema applied", logging.Field{Key: logging.FieldDriver, Value: cfg.Database.Driver})
		return nil
	},
}

func openDatabase(ctx context.Context) (*db.DBService, error) {
	return db.NewDBService(ctx, db.Options{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
}
