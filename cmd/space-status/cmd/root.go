package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/space-status/internal/config"
	"github.com/oshokin/space-status/internal/service/status"
	"github.com/oshokin/space-status/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// stateFile path where the presence state is persisted.
	stateFile string

	// rootCmd represents the base command for running the status server.
	rootCmd = &cobra.Command{
		Use:   "space-status [listen-address]",
		Short: "Run the space status server.",
		Long: `Starts the HTTP server that tracks whether the space is open and
announces every change to the configured publishers.

State transitions are requested via GET /open, /open_intern and /close,
guarded by a static API key or a single-use challenge-response token
depending on configuration. The current state is served publicly as a
SpaceAPI document at /spaceapi.json and persisted to a state file for
recovery across restarts.

The listen address can be provided as an argument to override the
configuration (e.g., :1337, 0.0.0.0:8080).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &status.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				StateFile:     stateFile,
			}

			return status.Run(ctx, options)
		},
	}
)

// Execute runs the space-status CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().
		StringVarP(&stateFile, "state-file", "s", "", "path to persist presence state (overrides config)")
}
