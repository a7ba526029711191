package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"beigebook/lib/configutil"
	"beigebook/lib/serviceutil"
	libtelemetry "beigebook/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	cfg Config
	tel libtelemetry.Telemetry
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "beigebook.json5", "The config file, <name>.local.json5 is merged over it if present.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logs.")
}

var rootCmd = &cobra.Command{
	Use:   "beigebook",
	Short: "beigebook scrapes the Beige Book archive into text files and normalizes them.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		serviceutil.InitSlog(verbose)

		var err error
		cfg, err = configutil.ReadWithDefaults(configPath, defaultConfig())
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		slog.Debug("loaded config", "path", configPath, "output_dir", cfg.OutputDir)

		tel, err = libtelemetry.Setup(cmd.Context(), "beigebook", cfg.Telemetry)
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		if tel.MeterProvider != nil {
			libtelemetry.InstrumentPerfStats(cmd.Context())
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if !tel.Enabled() {
			return
		}
		err := tel.Shutdown(context.Background())
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// yearFlags registers --start and --end on cmd, applyYears copies the ones
// that were set over the config.
func yearFlags(cmd *cobra.Command) (start, end *int) {
	start = cmd.Flags().Int("start", 0, "The first year to process (inclusive), defaults to start_year.")
	end = cmd.Flags().Int("end", 0, "The last year to process (inclusive), defaults to end_year.")
	return start, end
}

func applyYears(cmd *cobra.Command, start, end *int) {
	if cmd.Flags().Changed("start") {
		cfg.StartYear = *start
	}
	if cmd.Flags().Changed("end") {
		cfg.EndYear = *end
	}
}
