package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/config"
	"github.com/artiops/artifactory-automation/internal/server"
	"github.com/artiops/artifactory-automation/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bulk provisioning HTTP API",
	Long:  `Starts the HTTP server exposing the bulk repository provisioning API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		utils.Logger.Info("Configuration loaded successfully")

		jobStore := config.NewJobStore()
		arti := client.NewArtifactoryClient(cfg.ArtifactoryURL, credentials(cfg))
		batchManager := server.NewBatchManager(cfg, jobStore, arti)

		router := server.NewRouter(cfg, jobStore, batchManager)
		return startServer(router, cfg)
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

// startServer binds the HTTP server and handles graceful shutdown signals.
func startServer(router http.Handler, cfg *config.Config) error {
	portStr := strconv.Itoa(cfg.Port)
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, portStr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  config.DefaultReadTimeout,
		WriteTimeout: config.DefaultWriteTimeout,
		IdleTimeout:  config.DefaultIdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		utils.Logger.Info("Shutdown signal received", zap.String(utils.FieldSignal, sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			utils.Logger.Error("Server shutdown error", zap.Error(err))
		}
	}()

	utils.Logger.Info("Server starting",
		zap.String(utils.FieldHost, cfg.APIHost),
		zap.String(utils.FieldPort, portStr))

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	utils.Logger.Info("Server stopped")
	return nil
}
