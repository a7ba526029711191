package commands

import (
	"errors"
	"fmt"
	"os"

	"beigebook/internal/manifest"
	"beigebook/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statusRun *string

func init() {
	statusRun = statusCmd.Flags().String("run", "", "The scrape run to describe, defaults to the latest one.")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status [--run <id>]",
	Short: "Prints the outcome counts and missing reports of a scrape run recorded in the manifest.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		if !cfg.Manifest.Enabled() {
			serviceutil.Fatal("manifest is not configured", errors.New("set manifest.file or manifest.url in the config"))
		}
		db, err := cfg.Manifest.OpenDB()
		if err != nil {
			serviceutil.Fatal("failed to open manifest db", err)
		}
		defer db.Close()
		store, err := manifest.Open(ctx, db)
		if err != nil {
			serviceutil.Fatal("failed to initialize manifest", err)
		}

		var info manifest.RunInfo
		if *statusRun != "" {
			info, err = store.GetRun(ctx, *statusRun)
		} else {
			info, err = store.LatestRun(ctx)
		}
		if err != nil {
			serviceutil.Fatal("failed to find run", err)
		}

		counts, err := store.Counts(ctx, info.ID)
		if err != nil {
			serviceutil.Fatal("failed to count outcomes", err)
		}
		missing, err := store.Missing(ctx, info.ID)
		if err != nil {
			serviceutil.Fatal("failed to list missing reports", err)
		}

		summary := table.NewWriter()
		summary.SetOutputMirror(os.Stdout)
		summary.SetTitle(fmt.Sprintf("run %s (%d-%d)", info.ID, info.StartYear, info.EndYear))
		summary.AppendHeader(table.Row{"State", "Reports"})
		total := 0
		for _, state := range []string{manifest.StateWritten, manifest.StateSkipped, manifest.StateMissing} {
			summary.AppendRow(table.Row{state, counts[state]})
			total += counts[state]
		}
		summary.AppendFooter(table.Row{"total", total})
		summary.SetCaption("started %s", info.StartedAt.Format("2006-01-02 15:04:05"))
		summary.Render()

		if len(missing) == 0 {
			return
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Year", "Month", "Region", "Cause"})
		for _, entry := range missing {
			t.AppendRow(table.Row{
				entry.Key.Year,
				fmt.Sprintf("%02d", entry.Key.Month),
				entry.Key.Region,
				entry.Cause,
			})
		}
		t.Render()
	},
}
