package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"beigebook/internal/fetcher"
	"beigebook/internal/httpclient"
	"beigebook/internal/manifest"
	"beigebook/internal/reports"
	"beigebook/internal/scrape"
	"beigebook/internal/telemetry"
	"beigebook/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	scrapeStart, scrapeEnd *int
	scrapeDelay            *string
	scrapeOut              *string
	scrapeLedger           *string
	scrapeRegions          *string
)

func init() {
	scrapeStart, scrapeEnd = yearFlags(scrapeCmd)
	scrapeDelay = scrapeCmd.Flags().String("delay", "", "Wait this long after every written report (ex. 500ms).")
	scrapeOut = scrapeCmd.Flags().String("out", "", "The directory report texts are written to, defaults to output_dir.")
	scrapeLedger = scrapeCmd.Flags().String("ledger", "", "The CSV file missing reports are appended to, defaults to ledger_path.")
	scrapeRegions = scrapeCmd.Flags().String("regions", "", "Comma separated region codes or names to restrict the run to.")
	rootCmd.AddCommand(scrapeCmd)
}

func applyScrapeFlags(cmd *cobra.Command) error {
	applyYears(cmd, scrapeStart, scrapeEnd)
	if cmd.Flags().Changed("delay") {
		cfg.PoliteDelay = *scrapeDelay
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = *scrapeOut
	}
	if cmd.Flags().Changed("ledger") {
		cfg.LedgerPath = *scrapeLedger
	}
	if cmd.Flags().Changed("regions") {
		regions, err := reports.ParseRegionList(*scrapeRegions)
		if err != nil {
			return err
		}
		cfg.Regions = regions
	}
	return nil
}

func printSummary(summary scrape.Summary, elapsed time.Duration) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Outcome", "Reports"})
	t.AppendRow(table.Row{"written", summary.Written})
	t.AppendRow(table.Row{"skipped", summary.Skipped})
	t.AppendRow(table.Row{"missing", summary.Missing})
	for _, kind := range []fetcher.Kind{fetcher.NotFound, fetcher.Transient, fetcher.Permanent} {
		if summary.Failures[kind] == 0 {
			continue
		}
		t.AppendRow(table.Row{"  " + kind.String(), summary.Failures[kind]})
	}
	t.AppendFooter(table.Row{"total", summary.Total()})
	t.SetCaption("finished in %s", elapsed.Round(time.Millisecond))
	t.Render()
}

// closeAll closes in reverse order. serviceutil.Fatal exits without running
// deferred calls, so anything opened must be closed before it.
func closeAll(closers []io.Closer) {
	for i := len(closers) - 1; i >= 0; i-- {
		err := closers[i].Close()
		if err != nil {
			slog.Warn("failed to close", "err", err)
		}
	}
}

// runScrape runs the orchestrator, prints its summary and closes every
// closer whether or not the run was interrupted.
func runScrape(ctx context.Context, o scrape.Orchestrator, startYear, endYear int, closers []io.Closer) (scrape.Summary, error) {
	defer closeAll(closers)

	t1 := time.Now()
	summary, err := o.Run(ctx, startYear, endYear)
	printSummary(summary, time.Since(t1))
	return summary, err
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--start <year>] [--end <year>] [--delay <duration>] [--regions <at,ny,...>]",
	Short: "Downloads every report that has no text file yet, recording failures in the missing ledger.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		err := applyScrapeFlags(cmd)
		if err != nil {
			serviceutil.Fatal("invalid flags", err)
		}
		cal, err := cfg.Calendar()
		if err != nil {
			serviceutil.Fatal("invalid report range", err)
		}
		delay, err := cfg.Delay()
		if err != nil {
			serviceutil.Fatal("invalid delay", err)
		}
		opts, err := cfg.ClientOptions()
		if err != nil {
			serviceutil.Fatal("invalid http client config", err)
		}

		client, err := httpclient.New(opts)
		if err != nil {
			serviceutil.Fatal("failed to create http client", err)
		}

		ledger, err := scrape.OpenLedger(cfg.LedgerPath)
		if err != nil {
			serviceutil.Fatal("failed to open missing ledger", err)
		}
		closers := []io.Closer{ledger}

		var recorder scrape.Recorder
		if cfg.Manifest.Enabled() {
			db, err := cfg.Manifest.OpenDB()
			if err != nil {
				closeAll(closers)
				serviceutil.Fatal("failed to open manifest db", err)
			}
			closers = append(closers, db)
			store, err := manifest.Open(ctx, db)
			if err != nil {
				closeAll(closers)
				serviceutil.Fatal("failed to initialize manifest", err)
			}
			run, err := store.BeginRun(ctx, cfg.StartYear, cfg.EndYear)
			if err != nil {
				closeAll(closers)
				serviceutil.Fatal("failed to begin manifest run", err)
			}
			slog.Info("recording scrape run", "run_id", run.ID)
			recorder = run
		}

		orchestrator := scrape.Orchestrator{
			Source:   cal,
			Fetcher:  fetcher.New(cfg.BaseUrl, client, telemetry.SlogAPI{}),
			Ledger:   ledger,
			Recorder: recorder,
			Tel:      telemetry.SlogAPI{},
			Progress: os.Stdout,
			Delay:    delay,
		}

		slog.Info(
			"scraping reports",
			"start", cfg.StartYear,
			"end", cfg.EndYear,
			"out", cfg.OutputDir,
			"ledger", cfg.LedgerPath,
		)
		_, err = runScrape(ctx, orchestrator, cfg.StartYear, cfg.EndYear, closers)
		if err != nil {
			serviceutil.Fatal("scrape interrupted", err)
		}
	},
}
