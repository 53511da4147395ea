package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/iwvelando/swing-o-matic/internal/server"
	"github.com/iwvelando/swing-o-matic/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type serveFlags struct {
	serverConfig string
	address      string
	maxBodySize  string
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	sf := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the slider projection API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), flags, sf)
		},
	}
	cmd.Flags().StringVar(&sf.serverConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&sf.address, "address", "", "listen address override")
	cmd.Flags().StringVar(&sf.maxBodySize, "max-body-size", "", "request body limit override, e.g. 64K")
	return cmd
}

func runServe(ctx context.Context, flags *globalFlags, sf *serveFlags) error {
	serverConf, err := server.LoadConfig(sf.serverConfig)
	if err != nil {
		return fmt.Errorf("failed to load server configuration at %s: %w", sf.serverConfig, err)
	}
	if sf.address != "" {
		serverConf.Address = sf.address
	}
	if sf.maxBodySize != "" {
		size, err := server.ParseSize(sf.maxBodySize)
		if err != nil {
			return fmt.Errorf("invalid --max-body-size: %w", err)
		}
		serverConf.SetBodySizeBytes(size)
	}

	// The server's logging section governs the API process
	conf, logger, err := setup(flags, &serverConf.Logging)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	baseline, err := loadBaseline(logger, conf)
	if err != nil {
		return err
	}

	handler := server.NewHandler(logger, baseline, server.Options{
		MaxBodySize: serverConf.BodySizeBytes(),
		Version:     version,
		Scaling:     conf.Scaling.Projection(),
	})

	srv := &http.Server{
		Addr:              serverConf.Address,
		Handler:           handler,
		ReadHeaderTimeout: serverConf.ReadHeaderTimeoutDuration(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting projection API",
			zap.String("op", "main.runServe"),
			zap.String("address", serverConf.Address),
			zap.Int("states", baseline.StateCount()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down projection API",
		zap.String("op", "main.runServe"),
		zap.Duration("timeout", serverConf.ShutdownTimeoutDuration()),
	)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConf.ShutdownTimeoutDuration())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
