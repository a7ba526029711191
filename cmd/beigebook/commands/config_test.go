package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"beigebook/internal/httpclient"
	"beigebook/lib/configutil"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	opts, err := cfg.ClientOptions()
	require.NoError(t, err)
	require.Equal(t, httpclient.DefaultTimeout, opts.Timeout)
	require.Equal(t, httpclient.DefaultRetryPolicy(), opts.Retry)
	require.Equal(t, httpclient.DefaultUserAgent, opts.UserAgent)

	delay, err := cfg.Delay()
	require.NoError(t, err)
	require.Equal(t, time.Duration(0), delay)

	cal, err := cfg.Calendar()
	require.NoError(t, err)
	require.Equal(t, 1970, cal.StartYear)
	require.Equal(t, 2025, cal.EndYear)
	require.Equal(t, "txt", cal.Root)
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "beigebook.json5")
	err := os.WriteFile(path, []byte(`{
		// only what differs from the defaults
		start_year: 2018,
		polite_delay: "250ms",
		regions: ["ny", "Kansas City"],
		retry: { backoff_base: "1s" },
	}`), 0644)
	require.NoError(t, err)

	cfg, err := configutil.ReadWithDefaults(path, defaultConfig())
	require.NoError(t, err)
	require.Equal(t, 2018, cfg.StartYear)
	require.Equal(t, 2025, cfg.EndYear)

	delay, err := cfg.Delay()
	require.NoError(t, err)
	require.Equal(t, 250*time.Millisecond, delay)

	opts, err := cfg.ClientOptions()
	require.NoError(t, err)
	require.Equal(t, time.Second, opts.Retry.BackoffBase)
	require.Equal(t, 3, opts.Retry.MaxRetries)

	cal, err := cfg.Calendar()
	require.NoError(t, err)
	require.Equal(t, []string{"ny", "kc"}, cal.Regions)
}

func TestConfigValidation(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(cfg *Config)
		check  func(cfg Config) error
	}{
		{
			name:   "bad timeout",
			modify: func(cfg *Config) { cfg.Timeout = "soon" },
			check:  func(cfg Config) error { _, err := cfg.ClientOptions(); return err },
		},
		{
			name:   "negative delay",
			modify: func(cfg *Config) { cfg.PoliteDelay = "-1s" },
			check:  func(cfg Config) error { _, err := cfg.Delay(); return err },
		},
		{
			name:   "inverted years",
			modify: func(cfg *Config) { cfg.StartYear = 2030 },
			check:  func(cfg Config) error { _, err := cfg.Calendar(); return err },
		},
		{
			name:   "bad month",
			modify: func(cfg *Config) { cfg.Months = []int{13} },
			check:  func(cfg Config) error { _, err := cfg.Calendar(); return err },
		},
		{
			name:   "unknown region",
			modify: func(cfg *Config) { cfg.Regions = []string{"gotham"} },
			check:  func(cfg Config) error { _, err := cfg.Calendar(); return err },
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			cfg := defaultConfig()
			test.modify(&cfg)
			require.Error(t, test.check(cfg))
		})
	}
}
