package commands

import (
	"fmt"
	"time"

	"beigebook/internal/fetcher"
	"beigebook/internal/httpclient"
	"beigebook/internal/reports"
	configlibsql "beigebook/lib/configutil/libsql"
	libtelemetry "beigebook/lib/telemetry"
)

type RetryConfig struct {
	MaxRetries  int    `json:"max_retries"`
	BackoffBase string `json:"backoff_base"`
	Statuses    []int  `json:"statuses"`
}

type Config struct {
	BaseUrl   string      `json:"base_url"`
	UserAgent string      `json:"user_agent"`
	Timeout   string      `json:"timeout"`
	Retry     RetryConfig `json:"retry"`

	OutputDir   string   `json:"output_dir"`
	LedgerPath  string   `json:"ledger_path"`
	StartYear   int      `json:"start_year"`
	EndYear     int      `json:"end_year"`
	PoliteDelay string   `json:"polite_delay"`
	Months      []int    `json:"months"`
	Regions     []string `json:"regions"`

	BypassCloudflare bool   `json:"bypass_cloudflare"`
	HttpDumpDir      string `json:"http_dump_dir"`

	Manifest  configlibsql.Struct `json:"manifest"`
	Telemetry libtelemetry.Config `json:"telemetry"`
}

func defaultConfig() Config {
	retry := httpclient.DefaultRetryPolicy()
	return Config{
		BaseUrl:   fetcher.DefaultBaseURL,
		UserAgent: httpclient.DefaultUserAgent,
		Timeout:   httpclient.DefaultTimeout.String(),
		Retry: RetryConfig{
			MaxRetries:  retry.MaxRetries,
			BackoffBase: retry.BackoffBase.String(),
			Statuses:    retry.Statuses,
		},
		OutputDir:  "txt",
		LedgerPath: "out/csv/missing.csv",
		StartYear:  1970,
		EndYear:    2025,
	}
}

func parseDuration(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", name, value)
	}
	return d, nil
}

func (c Config) ClientOptions() (httpclient.Options, error) {
	timeout, err := parseDuration("timeout", c.Timeout)
	if err != nil {
		return httpclient.Options{}, err
	}
	backoff, err := parseDuration("retry.backoff_base", c.Retry.BackoffBase)
	if err != nil {
		return httpclient.Options{}, err
	}
	return httpclient.Options{
		UserAgent: c.UserAgent,
		Timeout:   timeout,
		Retry: httpclient.RetryPolicy{
			MaxRetries:  c.Retry.MaxRetries,
			BackoffBase: backoff,
			Statuses:    c.Retry.Statuses,
		},
		BypassCloudflare: c.BypassCloudflare,
		DumpDir:          c.HttpDumpDir,
	}, nil
}

func (c Config) Delay() (time.Duration, error) {
	return parseDuration("polite_delay", c.PoliteDelay)
}

// Calendar validates the configured months and regions.
func (c Config) Calendar() (reports.Calendar, error) {
	if c.StartYear > c.EndYear {
		return reports.Calendar{}, fmt.Errorf("start year %d is after end year %d", c.StartYear, c.EndYear)
	}
	for _, month := range c.Months {
		if month < 1 || month > 12 {
			return reports.Calendar{}, fmt.Errorf("invalid month %d", month)
		}
	}
	var regions []string
	for _, name := range c.Regions {
		region, err := reports.ParseRegion(name)
		if err != nil {
			return reports.Calendar{}, err
		}
		regions = append(regions, region.Code)
	}
	return reports.Calendar{
		Root:      c.OutputDir,
		StartYear: c.StartYear,
		EndYear:   c.EndYear,
		Months:    c.Months,
		Regions:   regions,
	}, nil
}
