package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"beigebook/internal/fetcher"
	"beigebook/internal/reports"
	"beigebook/internal/scrape"

	"github.com/stretchr/testify/require"
)

// cancelFetcher reports every key missing and cancels the run after the first.
type cancelFetcher struct {
	cancel context.CancelFunc
}

func (f cancelFetcher) Fetch(_ context.Context, _ reports.Key) fetcher.Outcome {
	f.cancel()
	return fetcher.Outcome{Kind: fetcher.NotFound, Cause: fetcher.ErrNotFound}
}

type closeRecorder struct {
	name   string
	closed *[]string
}

func (c closeRecorder) Close() error {
	*c.closed = append(*c.closed, c.name)
	return nil
}

func TestRunScrapeClosesWhenInterrupted(t *testing.T) {
	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "missing.csv")
	ledger, err := scrape.OpenLedger(ledgerPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	o := scrape.Orchestrator{
		Source: reports.Calendar{
			Root:      dir,
			StartYear: 2018,
			EndYear:   2018,
			Months:    []int{6},
			Regions:   []string{"ny", "sf"},
		},
		Fetcher: cancelFetcher{cancel: cancel},
		Ledger:  ledger,
	}

	var closed []string
	summary, err := runScrape(ctx, o, 2018, 2018, []io.Closer{
		ledger,
		closeRecorder{name: "manifest", closed: &closed},
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, summary.Missing)
	require.Equal(t, []string{"manifest"}, closed)

	contents, err := os.ReadFile(ledgerPath)
	require.NoError(t, err)
	require.Contains(t, string(contents), "2018,06,ny")

	// closed ledgers reject further rows
	require.Error(t, ledger.Append(reports.Key{Year: 2018, Month: 6, Region: "sf"}))
}

func TestCloseAllReverseOrder(t *testing.T) {
	var closed []string
	closeAll([]io.Closer{
		closeRecorder{name: "ledger", closed: &closed},
		closeRecorder{name: "manifest", closed: &closed},
	})
	require.Equal(t, []string{"manifest", "ledger"}, closed)
}
