// client.go contains the HTTP side of talking to the E-ITS portal, it does
// not know anything about the shape of the pages it downloads.

package scraper

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"eitsapi/internal/assert"
	"eitsapi/internal/eits"
	"eitsapi/internal/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const (
	report_client_fetch = "client.fetch"
)

const DefaultBaseUrl = "https://eits.ria.ee"

type ClientOptions struct {
	// Timeout of a single request, 0 keeps the transport default.
	Timeout time.Duration
	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool
	UserAgent          string
	// CloudflareBypass wraps the transport so requests look like they come
	// from a regular browser.
	CloudflareBypass bool
}

// Client fetches raw pages. It never retries, a failed request is returned
// to the caller immediately.
type Client struct {
	http *resty.Client
	tel  telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) Client {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("eits_scraper", tel)

	httpClient := resty.New()
	httpClient.SetHeader("accept", "application/json")
	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}
	if opts.InsecureSkipVerify {
		httpClient.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	telemetry.InstrumentResty(httpClient, tel)

	return Client{
		http: httpClient,
		tel:  tel,
	}
}

// Fetch downloads a page. Transport failures, timeouts and non-2xx responses
// are returned as *eits.FetchError.
func (c Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	c.tel.ReportDebug(report_client_fetch, url)

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		c.tel.ReportBroken(
			report_client_fetch,
			fmt.Errorf("fetch: %w", err),
			url,
		)
		return nil, &eits.FetchError{URL: url, Err: err}
	}
	if !res.IsSuccess() {
		c.tel.ReportBroken(
			report_client_fetch,
			fmt.Errorf("unexpected status: %s", res.Status()),
			url,
		)
		return nil, &eits.FetchError{URL: url, Status: res.StatusCode()}
	}

	return res.Body(), nil
}
