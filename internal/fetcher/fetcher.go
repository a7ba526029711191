package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"beigebook/internal/extract"
	"beigebook/internal/httpclient"
	"beigebook/internal/reports"
	"beigebook/internal/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("beigebook/fetcher")

const (
	report_fetcher_fetch_report = "fetcher.fetch-report"
	report_fetcher_summary      = "fetcher.summary"
)

const DefaultBaseURL = "https://www.minneapolisfed.org/beige-book-reports"

// SummarySlugs are tried in order for the national summary, the slug changed
// across redesigns of the site.
var SummarySlugs = []string{"su", "national-summary"}

// statuses that send the summary lookup on to the next slug
var skipStatuses = map[int]bool{
	http.StatusMovedPermanently:  true,
	http.StatusFound:             true,
	http.StatusSeeOther:          true,
	http.StatusTemporaryRedirect: true,
	http.StatusPermanentRedirect: true,
	http.StatusNotFound:          true,
}

// HTTP is the part of httpclient.Client the fetcher uses. Get follows
// redirects, GetDirect returns them.
type HTTP interface {
	Get(ctx context.Context, url string) (httpclient.Response, error)
	GetDirect(ctx context.Context, url string) (httpclient.Response, error)
	Retryable(status int) bool
}

// URL builds <base>/<year>/<year>-<mm>-<slug>
func URL(base string, year, month int, slug string) string {
	return fmt.Sprintf("%s/%d/%d-%02d-%s", strings.TrimSuffix(base, "/"), year, year, month, slug)
}

type Fetcher struct {
	BaseURL string
	HTTP    HTTP
	Tel     telemetry.API
}

func New(baseURL string, client HTTP, tel telemetry.API) Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Fetcher{
		BaseURL: baseURL,
		HTTP:    client,
		Tel:     telemetry.NewScopedAPI("fetcher", tel),
	}
}

// Fetch retrieves and extracts the report identified by `key`. It never
// fails, every problem is classified into the returned Outcome.
func (f Fetcher) Fetch(ctx context.Context, key reports.Key) Outcome {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("key", key.String()))

	var out Outcome
	if key.IsSummary() {
		out = f.fetchSummary(ctx, key)
	} else {
		out = f.fetchDistrict(ctx, key)
	}

	span.SetAttributes(attribute.String("outcome", out.Kind.String()))
	if !out.Succeeded() {
		span.SetStatus(codes.Error, out.String())
	}
	return out
}

func (f Fetcher) fetchDistrict(ctx context.Context, key reports.Key) Outcome {
	link := URL(f.BaseURL, key.Year, key.Month, key.Region)
	f.Tel.ReportDebug("fetch district", key.String(), link)

	res, err := f.HTTP.Get(ctx, link)
	if err != nil {
		f.Tel.ReportWarning(report_fetcher_fetch_report, key.String(), err)
		return transient(err)
	}

	switch {
	case res.Status == http.StatusNotFound:
		return notFound()
	case f.HTTP.Retryable(res.Status):
		return transient(&StatusError{Status: res.Status})
	case res.Status < 200 || res.Status > 299:
		return permanent(&StatusError{Status: res.Status})
	}
	return f.extract(ctx, key, res.Body)
}

func (f Fetcher) fetchSummary(ctx context.Context, key reports.Key) Outcome {
	for _, slug := range SummarySlugs {
		link := URL(f.BaseURL, key.Year, key.Month, slug)
		f.Tel.ReportDebug("fetch summary", key.String(), link)

		// redirects are kept visible, they mean this slug is not the one
		res, err := f.HTTP.GetDirect(ctx, link)
		if err != nil {
			f.Tel.ReportWarning(report_fetcher_summary, key.String(), slug, err)
			return transient(err)
		}

		switch {
		case res.Status == http.StatusOK:
			return f.extract(ctx, key, res.Body)
		case skipStatuses[res.Status]:
			continue
		case f.HTTP.Retryable(res.Status):
			return transient(&StatusError{Status: res.Status})
		default:
			return permanent(&StatusError{Status: res.Status})
		}
	}
	return permanent(ErrSummaryNotFound)
}

func (f Fetcher) extract(ctx context.Context, key reports.Key, body []byte) Outcome {
	text, err := extract.Extract(ctx, string(body))
	if err != nil {
		f.Tel.ReportBroken(report_fetcher_fetch_report, key.String(), err)
		return permanent(err)
	}
	return succeeded(text)
}
