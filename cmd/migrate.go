package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema and seed the badge catalogue",
	Run: func(_ *cobra.Command, _ []string) {
		logger, config := loadConfig()

		db, err := openStore(context.Background(), config.Database, logger)
		if err != nil {
			logger.Fatal("migrating storage", zap.Error(err))
		}
		defer closeStore(db, logger)

		logger.Info("storage is ready", zap.String("driver", config.Database.Driver))
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
