package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iudanet/restaurants/internal/client/api"
	"github.com/iudanet/restaurants/internal/client/app"
	"github.com/iudanet/restaurants/internal/client/cli"
	"github.com/iudanet/restaurants/internal/client/iocli"
	"github.com/iudanet/restaurants/internal/client/state"
	"github.com/iudanet/restaurants/internal/config"
	"github.com/iudanet/restaurants/internal/logging"
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
		Use:          "restaurants",
		Short:        "Restaurants client: browse and add restaurants, see new ones live",
		SilenceUsage: true,
	}

	config.AddClientFlags(root.PersistentFlags())

	root.AddCommand(
		newRunCmd(),
		newListCmd(),
		newAddCmd(),
		newVersionCmd(),
	)

	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Interactive form with a live restaurant list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCli(cmd)
			if err != nil {
				return err
			}
			return c.RunInteractive(cmd.Context())
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all restaurants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCli(cmd)
			if err != nil {
				return err
			}
			return c.RunList(cmd.Context())
		},
	}
}

func newAddCmd() *cobra.Command {
	var draft state.Draft

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a restaurant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCli(cmd)
			if err != nil {
				return err
			}
			return c.RunAdd(cmd.Context(), draft)
		},
	}

	cmd.Flags().StringVar(&draft.Name, "name", "", "Restaurant name")
	cmd.Flags().StringVar(&draft.Description, "description", "", "Restaurant description")
	cmd.Flags().StringVar(&draft.City, "city", "", "Restaurant city")
	_ = cmd.MarkFlagRequired("name")

	return cmd
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

// newCli собирает клиентское ядро по конфигурации команды
func newCli(cmd *cobra.Command) (*cli.Cli, error) {
	cfg, err := config.LoadClient(cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}

	apiClient := api.NewClient(cfg.Server, cfg.Timeout)
	core := app.NewCore(apiClient, logger)

	return cli.New(iocli.NewStdio(), core, logger), nil
}

func printVersion() {
	fmt.Printf("Restaurants Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
