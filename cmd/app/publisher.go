package main

import (
	"os"
	"os/signal"
	"syscall"

	"mediamgr/internal/workers"

	"github.com/spf13/cobra"
)

var publisherCmd = &cobra.Command{
	Use:   "publisher",
	Short: "Publish approved posts when their schedule time is due",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		w := workers.NewPublishWorker(a.queue, a.posts, a.cfg.PublishBatchSize, a.cfg.PublishInterval, a.logger)
		w.Run(ctx)
		return nil
	},
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
