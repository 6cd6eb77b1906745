package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediamgr/internal/adapters/httpapi"
	campaignapp "mediamgr/internal/core/campaign/service"
	"mediamgr/internal/workers"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var withPublisher bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&withPublisher, "with-publisher", false, "Also run the publish worker in this process")
}

func runServe(ctx context.Context) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	campaignSvc := campaignapp.NewCampaignService(a.posts, a.logger)
	r := httpapi.SetupRoutes(a.posts, campaignSvc, []byte(a.cfg.JWTSecret))

	srv := &http.Server{
		Addr:    ":" + a.cfg.AppPort,
		Handler: r,
	}

	if withPublisher {
		w := workers.NewPublishWorker(a.queue, a.posts, a.cfg.PublishBatchSize, a.cfg.PublishInterval, a.logger)
		go w.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("App is running...", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.logger.Info("Shutting down server")
	return srv.Shutdown(shutdownCtx)
}
