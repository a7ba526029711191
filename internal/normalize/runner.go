package normalize

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"beigebook/internal/reports"
	"beigebook/internal/telemetry"
	"beigebook/lib/fsutil"
	libtelemetry "beigebook/lib/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("beigebook/normalize")
	meter  = otel.Meter("beigebook/normalize")

	fileCounter = libtelemetry.Int64Counter(meter, "beigebook.normalize.files", "Files rewritten, by profile.")
)

const report_runner_rewrite = "runner.rewrite"

// Runner applies a profile to report files.
type Runner struct {
	// Profile defaults to Full.
	Profile Profile
	Tel     telemetry.API
	// Progress receives one line per written file.
	Progress io.Writer
}

func (r Runner) init() Runner {
	if r.Profile == nil {
		r.Profile = Full{}
	}
	if r.Tel == nil {
		r.Tel = telemetry.SlogAPI{}
	}
	r.Tel = telemetry.NewScopedAPI("normalize", r.Tel)
	return r
}

func (r Runner) rewrite(ctx context.Context, src, dst string) error {
	contents, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	out := r.Profile.Apply(string(contents))
	err = fsutil.WriteFileAtomic(dst, []byte(out), 0644)
	if err != nil {
		r.Tel.ReportBroken(report_runner_rewrite, dst, err)
		return err
	}

	fileCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("profile", r.Profile.Name())))
	if r.Progress != nil {
		fmt.Fprintf(r.Progress, "cleaned %s\n", dst)
	}
	return nil
}

// File normalizes a single file in place.
func (r Runner) File(ctx context.Context, path string) error {
	r = r.init()
	return r.rewrite(ctx, path, path)
}

// Tree normalizes every *.txt file under inDir, writing each one to the same
// relative path under outDir. An empty outDir rewrites the files in place.
func (r Runner) Tree(ctx context.Context, inDir, outDir string) (int, error) {
	ctx, span := tracer.Start(ctx, "Tree")
	defer span.End()

	r = r.init()
	if outDir == "" {
		outDir = inDir
	}
	inDir = filepath.Clean(inDir)
	outDir = filepath.Clean(outDir)
	span.SetAttributes(
		attribute.String("profile", r.Profile.Name()),
		attribute.String("in", inDir),
		attribute.String("out", outDir),
	)

	count := 0
	err := filepath.WalkDir(inDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			// output nested inside the input must not be walked again
			if path != inDir && path == outDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".txt") {
			return nil
		}

		rel, err := filepath.Rel(inDir, path)
		if err != nil {
			return err
		}
		err = r.rewrite(ctx, path, filepath.Join(outDir, rel))
		if err != nil {
			return fmt.Errorf("normalize %s: %w", path, err)
		}
		count++
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return count, err
	}

	r.Tel.ReportCount("runner.files", int64(count))
	return count, nil
}

// Keys normalizes in place every file of the source that already exists.
func (r Runner) Keys(ctx context.Context, source reports.Source) (int, error) {
	ctx, span := tracer.Start(ctx, "Keys")
	defer span.End()

	r = r.init()
	span.SetAttributes(attribute.String("profile", r.Profile.Name()))

	count := 0
	for _, key := range source.Enumerate(true) {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		path := source.PathFor(key)
		if !fsutil.Exists(path) {
			continue
		}
		err := r.rewrite(ctx, path, path)
		if err != nil {
			err = fmt.Errorf("normalize %s: %w", key, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return count, err
		}
		count++
	}

	r.Tel.ReportCount("runner.files", int64(count))
	return count, nil
}
