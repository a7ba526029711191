package commands

import (
	"log/slog"
	"os"

	"beigebook/internal/normalize"
	"beigebook/internal/telemetry"
	"beigebook/lib/serviceutil"

	"github.com/spf13/cobra"
)

const minimalOutputDir = "txt_clean"

var (
	cleanProfile *string
	cleanIn      *string
	cleanOut     *string

	cleanStart, cleanEnd *int
)

func init() {
	cleanProfile = cleanCmd.Flags().String("profile", normalize.ProfileFull, "The normalization profile, full or minimal.")
	cleanIn = cleanCmd.Flags().String("in", "", "Normalize every *.txt file under this directory, defaults to output_dir.")
	cleanOut = cleanCmd.Flags().String("out", "", "Write normalized files under this directory instead of in place (minimal defaults to "+minimalOutputDir+").")
	cleanStart, cleanEnd = yearFlags(cleanCmd)
	rootCmd.AddCommand(cleanCmd)
}

var cleanCmd = &cobra.Command{
	Use:   "clean [--profile full|minimal] [--in <dir>] [--out <dir>]",
	Short: "Normalizes scraped report texts.",
	Long: `Normalizes scraped report texts.

Without --in or --out, the full profile rewrites in place every report file
of the configured year range. Otherwise every *.txt file under --in is
normalized to the same relative path under --out.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		profile, err := normalize.ParseProfile(*cleanProfile)
		if err != nil {
			serviceutil.Fatal("invalid profile", err)
		}
		applyYears(cmd, cleanStart, cleanEnd)

		runner := normalize.Runner{
			Profile:  profile,
			Tel:      telemetry.SlogAPI{},
			Progress: os.Stdout,
		}

		treeMode := cmd.Flags().Changed("in") || cmd.Flags().Changed("out") ||
			profile.Name() == normalize.ProfileMinimal

		var count int
		if treeMode {
			in := cfg.OutputDir
			if cmd.Flags().Changed("in") {
				in = *cleanIn
			}
			out := *cleanOut
			if out == "" && profile.Name() == normalize.ProfileMinimal {
				out = minimalOutputDir
			}
			slog.Info("normalizing tree", "profile", profile.Name(), "in", in, "out", out)
			count, err = runner.Tree(ctx, in, out)
		} else {
			cal, calErr := cfg.Calendar()
			if calErr != nil {
				serviceutil.Fatal("invalid report range", calErr)
			}
			slog.Info("normalizing reports", "profile", profile.Name(), "start", cal.StartYear, "end", cal.EndYear)
			count, err = runner.Keys(ctx, cal)
		}
		if err != nil {
			serviceutil.Fatal("failed to normalize reports", err)
		}
		slog.Info("normalized reports", "files", count)
	},
}
