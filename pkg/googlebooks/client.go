// Package googlebooks talks to the Google Books volumes search API and
// flattens its loosely structured results into book records.
package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rubiojr/gbooks/pkg/log"
)

const (
	// DefaultBaseURL is the public volumes search endpoint.
	DefaultBaseURL = "https://www.googleapis.com/books/v1/volumes"
	// DefaultTimeout bounds a single search request.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of a failed response is kept for reporting.
	maxErrorBody = 4096
)

// ErrRemoteRequestFailed matches every RequestError.
var ErrRemoteRequestFailed = errors.New("remote request failed")

// RequestError reports a transport failure or a non-200 response.
type RequestError struct {
	// StatusCode is zero for transport failures.
	StatusCode int
	Body       string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("books API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("books API request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRemoteRequestFailed
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	APIKey     string
	MaxResults int
	HTTPClient *http.Client
}

// Client issues volume searches.
type Client struct {
	baseURL    string
	userAgent  string
	apiKey     string
	maxResults int
	client     *http.Client
}

// NewClient builds a client from opts.
func NewClient(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  opts.UserAgent,
		apiKey:     opts.APIKey,
		maxResults: opts.MaxResults,
		client:     client,
	}
}

// SearchResponse is the subset of the volumes response the extractor needs.
// Items stay loosely typed so that every field can be defaulted on its own.
type SearchResponse struct {
	Kind       string `json:"kind"`
	TotalItems int    `json:"totalItems"`
	Items      []any  `json:"items"`
}

// Search runs one GET request for query. Any status other than 200 is
// reported as a *RequestError.
func (c *Client) Search(ctx context.Context, query string) (*SearchResponse, error) {
	l := log.ForService("googlebooks")

	params := url.Values{}
	params.Set("q", query)
	if c.maxResults > 0 {
		params.Set("maxResults", strconv.Itoa(c.maxResults))
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	l.Debugf("Searching volumes: %q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	l.Debugf("Response code: %d", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result SearchResponse
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	l.Debugf("Received %d items (%d total matches)", len(result.Items), result.TotalItems)
	return &result, nil
}
