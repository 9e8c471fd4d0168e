package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iudanet/restaurants/internal/config"
	"github.com/iudanet/restaurants/internal/logging"
	"github.com/iudanet/restaurants/internal/server"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "restaurants-server",
		Short:        "Restaurants server: list, create and live creation feed",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newVersionCmd())

	return root
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServer(cmd.Flags())
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}

	config.AddServerFlags(cmd.Flags())

	return cmd
}

func runServer(ctx context.Context, cfg config.ServerConfig) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		return err
	}

	logger.Info("Restaurants server starting",
		"version", Version,
		"storage_backend", storageScheme(cfg.Storage),
		"broker", storageScheme(cfg.Broker))

	srv, err := server.New(ctx, cfg, Version, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Error("Failed to close server", "error", err)
		}
	}()

	return srv.Run(ctx)
}

// storageScheme возвращает схему DSN без учетных данных для логов
func storageScheme(dsn string) string {
	scheme, _, found := strings.Cut(dsn, "://")
	if !found {
		return dsn
	}
	return scheme
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion()
		},
	}
}

func printVersion() {
	fmt.Printf("Restaurants Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
