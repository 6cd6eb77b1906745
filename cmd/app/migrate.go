package main

import (
	"fmt"

	"mediamgr/internal/config"
	"mediamgr/internal/core/post"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the posts table",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := config.InitLogger(getenvDefault("APP_ENV", "development"))
		defer logger.Sync()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.PostStore != config.StoreMySQL {
			return fmt.Errorf("migrate only applies to the mysql store, POST_STORE=%s", cfg.PostStore)
		}

		db, err := config.OpenDB(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer config.CloseDB(db)

		// اعمال مایگریشن برای مدل‌ها
		if err := db.AutoMigrate(&post.Post{}); err != nil {
			return fmt.Errorf("migrate posts: %w", err)
		}
		logger.Info("Database migrations completed")
		return nil
	},
}
