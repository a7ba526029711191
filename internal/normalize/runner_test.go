package normalize

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"beigebook/internal/reports"
	"beigebook/internal/telemetry"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func writeFile(t testing.TB, path, contents string) {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(path, []byte(contents), 0644)
	if err != nil {
		t.Fatal(err)
	}
}

func readFile(t testing.TB, path string) string {
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(contents)
}

func TestRunnerTree(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	writeFile(t, filepath.Join(in, "2018", "06", "2018-06-ny.txt"), "Up 5%. See https://example.com now.")
	writeFile(t, filepath.Join(in, "2019", "01", "2019-01-su.txt"), "Note: draft. Output rose.")
	writeFile(t, filepath.Join(in, "README.md"), "not a report")

	progress := &bytes.Buffer{}
	rec := &telemetry.Recorder{}
	runner := Runner{Profile: Minimal{}, Tel: rec, Progress: progress}

	count, err := runner.Tree(context.Background(), in, out)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	require.Equal(t, "Up 5%.", readFile(t, filepath.Join(out, "2018", "06", "2018-06-ny.txt")))
	require.Equal(t, "Output rose.", readFile(t, filepath.Join(out, "2019", "01", "2019-01-su.txt")))
	require.NoFileExists(t, filepath.Join(out, "README.md"))

	// inputs are left alone when writing elsewhere
	require.Equal(t, "Note: draft. Output rose.", readFile(t, filepath.Join(in, "2019", "01", "2019-01-su.txt")))

	require.Contains(t, progress.String(), "cleaned "+filepath.Join(out, "2018", "06", "2018-06-ny.txt"))
	require.Equal(t, int64(2), rec.Count("normalize:runner.files"))
}

func TestRunnerTreeInPlace(t *testing.T) {
	in := t.TempDir()
	path := filepath.Join(in, "2001", "03", "2001-03-kc.txt")
	writeFile(t, path, "growth--slow")

	count, err := Runner{}.Tree(context.Background(), in, "")
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, "growth, slow", readFile(t, path))
}

func TestRunnerTreeNestedOutput(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(in, "clean")
	writeFile(t, filepath.Join(in, "a.txt"), "a = b")

	count, err := Runner{}.Tree(context.Background(), in, out)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, "a equals b", readFile(t, filepath.Join(out, "a.txt")))
}

func TestRunnerKeys(t *testing.T) {
	cal := reports.Calendar{
		Root:      t.TempDir(),
		StartYear: 2020,
		EndYear:   2020,
		Months:    []int{1, 4},
		Regions:   []string{"mi", reports.Summary},
	}
	present := reports.Key{Year: 2020, Month: 4, Region: "mi"}
	writeFile(t, cal.PathFor(present), "Loans [rose] 3% ...")

	count, err := Runner{Profile: Full{}}.Keys(context.Background(), cal)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, "Loans rose 3 percent", readFile(t, cal.PathFor(present)))
	require.NoFileExists(t, cal.PathFor(reports.Key{Year: 2020, Month: 1, Region: "mi"}))
}

func TestRunnerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	writeFile(t, path, "What ?Yes")

	err := Runner{}.File(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "What? Yes", readFile(t, path))

	err = Runner{}.File(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

// installs a global meter provider, keep it the last test of the package.
func TestRunnerCountsFiles(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	in := t.TempDir()
	writeFile(t, filepath.Join(in, "a.txt"), "a")
	writeFile(t, filepath.Join(in, "b.txt"), "b")
	_, err := Runner{Profile: Minimal{}}.Tree(context.Background(), in, "")
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "beigebook.normalize.files" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, point := range sum.DataPoints {
				profile, _ := point.Attributes.Value("profile")
				counts[profile.AsString()] += point.Value
			}
		}
	}
	require.Equal(t, map[string]int64{ProfileMinimal: 2}, counts)
}
