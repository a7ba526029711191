package httpclient

import (
	"context"
	"math"
	"net/http"
	"slices"
	"time"

	"beigebook/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("beigebook/httpclient")

const (
	DefaultUserAgent = "Mozilla/5.0 (compatible; BeigeBookScraper/1.0)"
	DefaultTimeout   = 20 * time.Second
	MaxRedirects     = 10
)

// RetryPolicy controls how transient server errors are retried.
type RetryPolicy struct {
	// MaxRetries is the number of attempts made after the first one.
	MaxRetries int
	// BackoffBase is the wait before the first retry, it doubles on each
	// subsequent retry.
	BackoffBase time.Duration
	// Statuses are the response statuses that trigger a retry.
	Statuses []int
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:  3,
		BackoffBase: 700 * time.Millisecond,
		Statuses: []int{
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

// Backoff returns the wait before retry number `attempt` (1-based).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(float64(p.BackoffBase) * math.Pow(2, float64(attempt-1)))
}

func (p RetryPolicy) Retryable(status int) bool {
	return slices.Contains(p.Statuses, status)
}

type Options struct {
	UserAgent string
	Timeout   time.Duration
	Retry     RetryPolicy
	// BypassCloudflare wraps the transport with cloudflare-bp-go.
	BypassCloudflare bool
	// DumpDir, if set, receives a file per HTTP message.
	DumpDir string
}

func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

type Response struct {
	Status int
	Body   []byte
}

// Client issues GET requests with bounded retry on transient server errors.
// Redirects are followed up to MaxRedirects hops unless the request was made
// with GetDirect.
type directKeyType int

var directKey directKeyType

// redirectPolicy follows redirects like a browser would, except for requests
// whose context was marked by GetDirect.
func redirectPolicy() resty.RedirectPolicy {
	follow := resty.FlexibleRedirectPolicy(MaxRedirects)
	return resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
		if direct, _ := req.Context().Value(directKey).(bool); direct {
			return http.ErrUseLastResponse
		}
		return follow.Apply(req, via)
	})
}

type Client struct {
	http  *resty.Client
	retry RetryPolicy
}

func New(opts Options) (*Client, error) {
	opts = opts.withDefaults()

	client := resty.New()
	client.SetLogger(restyutil.SlogLogger{})
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetTimeout(opts.Timeout)
	client.SetRedirectPolicy(redirectPolicy())
	if opts.BypassCloudflare {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	c := &Client{http: client, retry: opts.Retry}
	c.configureRetry()

	var output restyutil.InstrumentOutput
	if opts.DumpDir != "" {
		fsOutput, err := restyutil.NewFilesystemOutput(opts.DumpDir)
		if err != nil {
			return nil, err
		}
		output = fsOutput
	}
	restyutil.InstrumentClient(client, tracer, output)

	return c, nil
}

func (c *Client) configureRetry() {
	if c.retry.MaxRetries <= 0 {
		return
	}
	c.http.SetRetryCount(c.retry.MaxRetries)
	c.http.SetRetryWaitTime(c.retry.BackoffBase)
	c.http.SetRetryMaxWaitTime(c.retry.Backoff(c.retry.MaxRetries))
	c.http.SetRetryAfter(func(_ *resty.Client, res *resty.Response) (time.Duration, error) {
		return c.retry.Backoff(res.Request.Attempt), nil
	})
	c.http.AddRetryCondition(func(res *resty.Response, err error) bool {
		if res == nil || res.Request == nil || res.Request.Method != http.MethodGet {
			return false
		}
		if err != nil {
			return true
		}
		return c.retry.Retryable(res.StatusCode())
	})
}

// Retryable reports whether the status is one the client retries on, a
// response with such a status means the retry budget was used up.
func (c *Client) Retryable(status int) bool {
	return c.retry.Retryable(status)
}

// Get fetches `url`, following redirects. An error is only returned when no
// response was received (timeouts, connection failures, cancellation, too
// many redirects).
func (c *Client) Get(ctx context.Context, url string) (Response, error) {
	return c.get(ctx, url)
}

// GetDirect fetches `url` without following redirects, a 3xx response is
// returned to the caller as is.
func (c *Client) GetDirect(ctx context.Context, url string) (Response, error) {
	return c.get(context.WithValue(ctx, directKey, true), url)
}

func (c *Client) get(ctx context.Context, url string) (Response, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Status: res.StatusCode(),
		Body:   res.Body(),
	}, nil
}
