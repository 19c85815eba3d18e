package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"toggl-cli/internal/app"
	"toggl-cli/internal/config"
)

var Version = "dev"

func main() {
	var (
		configPath string
		verbose    bool
		logger     *slog.Logger
		cfg        config.Config
	)

	rootCmd := &cobra.Command{
		Use:           "toggl-cli",
		Short:         "Interactive Toggl Track client",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			// stdout belongs to the menu.
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(logger, cfg)
			if err != nil {
				return err
			}
			application.RunMenu(context.Background(), cmd.InOrStdin(), cmd.OutOrStdout())
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(exportCmd(&logger, &cfg))
	rootCmd.AddCommand(configCmd(&cfg))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func exportCmd(logger **slog.Logger, cfg *config.Config) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy time entries and projects into MySQL",
		Long: "Copy time entries in [--from, --to) and the project list into MySQL.\n" +
			"Bounds accept RFC3339 or YYYY-MM-DD; a date-only --to includes that whole day.\n" +
			"Defaults to the last 24 hours.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := *logger
			application, err := app.New(log, *cfg)
			if err != nil {
				return err
			}
			fromTime, toTime, err := window(from, to, time.Now(), application.Location())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := application.Export(ctx, fromTime, toTime); err != nil {
				log.Error("export failed", slog.String("error", err.Error()))
				return err
			}
			log.Info("export completed", slog.Time("from", fromTime), slog.Time("to", toTime))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Start of the window (default: --to minus 24h)")
	cmd.Flags().StringVar(&to, "to", "", "End of the window (default: now)")
	return cmd
}

func configCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg.Masked()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
