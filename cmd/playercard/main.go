package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/playercard/internal/app"
	"github.com/five82/playercard/internal/config"
	"github.com/five82/playercard/internal/logging"
	"github.com/five82/playercard/internal/server"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "playercard: %v\n", err)
		return 1
	}
	return 0
}

type rootFlags struct {
	configPath  string
	prefsPath   string
	pollSeconds int
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "playercard",
		Short:         "Edit your player profile from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: flags.configPath,
				PrefsPath:  flags.prefsPath,
				PollEvery:  flags.pollSeconds,
				Version:    version,
			})
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "override config path (optional)")
	root.Flags().StringVar(&flags.prefsPath, "prefs", "", "override preferences path (optional)")
	root.Flags().IntVar(&flags.pollSeconds, "poll", 0, "refresh interval in seconds (optional, defaults to config)")

	root.AddCommand(newServeCmd(&flags), newVersionCmd())
	return root
}

func newServeCmd(flags *rootFlags) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference profile service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}
			log := logging.New(logging.Config{
				Level:   cfg.LogLevel,
				Output:  cmd.ErrOrStderr(),
				Service: "playercard-server",
				Version: version,
			})
			return server.Run(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides [server] listen)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
