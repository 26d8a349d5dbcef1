package scraper

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/jusmonitor/process-tracker/internal/config"
)

// maxBackoff caps the exponential backoff between retry attempts.
const maxBackoff = 60 * time.Second

// Client issues HTTP requests with bounded retries, exponential backoff
// and a fixed identity header profile. Each scrape unit of work gets its
// own Client so concurrent tasks never share connection state.
type Client struct {
	http    *retryablehttp.Client
	headers map[string]string
}

// NewClient builds a fetch client from the scraper configuration.
func NewClient(cfg *config.Config) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = log.New(io.Discard, "", 0)
	rc.RetryMax = cfg.MaxRetries - 1
	if rc.RetryMax < 0 {
		rc.RetryMax = 0
	}
	rc.RetryWaitMin = cfg.RetryDelay
	rc.RetryWaitMax = maxBackoff
	rc.HTTPClient.Timeout = cfg.RequestTimeout
	rc.CheckRetry = checkRetry

	return &Client{
		http: rc,
		headers: map[string]string{
			"User-Agent":      cfg.UserAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7",
		},
	}
}

// checkRetry treats every transport fault and non-2xx response as
// transient. Retries stop when the context is done.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return true, nil
	}
	return false, nil
}

// Fetch performs an HTTP request and returns the response body. Query
// params are appended for GET requests. Failures after the retry budget
// is exhausted come back as *RequestError.
func (c *Client) Fetch(ctx context.Context, method, rawURL string, params url.Values) (string, error) {
	target := rawURL
	if len(params) > 0 {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", &RequestError{URL: rawURL, Err: err}
		}
		query := u.Query()
		for key, values := range params {
			for _, v := range values {
				query.Add(key, v)
			}
		}
		u.RawQuery = query.Encode()
		target = u.String()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return "", &RequestError{URL: target, Err: err}
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &RequestError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return "", &RequestError{URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RequestError{URL: target, Err: err}
	}

	return string(body), nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.http.HTTPClient.CloseIdleConnections()
}
