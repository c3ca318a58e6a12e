package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rmax-ai/skillgraph/pkg/api"
	"github.com/rmax-ai/skillgraph/pkg/store"
)

// Client reads the skillgraph daemon's HTTP API.
type Client struct {
	endpoint   string
	http       *http.Client
	backoff    BackoffStrategy
	maxRetries int
}

// NewClient creates a new skillgraph client.
// endpoint defaults to "http://127.0.0.1:8090" if empty.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = "http://127.0.0.1:8090"
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		backoff:    DefaultBackoff(),
		maxRetries: 2,
	}
}

// WithRetries sets how often a request is retried after a network error or
// a 5xx answer, waiting per b between attempts.
func (c *Client) WithRetries(n int, b BackoffStrategy) *Client {
	c.maxRetries = max(n, 0)
	if b != nil {
		c.backoff = b
	}
	return c
}

// Health checks the daemon.
func (c *Client) Health(ctx context.Context) (Status, error) {
	var st Status
	err := c.get(ctx, "/v1/health", nil, &st)
	return st, err
}

// Graph fetches the filtered graph for q.
func (c *Client) Graph(ctx context.Context, q Query) (api.GraphResponse, error) {
	v := url.Values{}
	if q.All {
		v.Set("all", "1")
	} else if len(q.Expand) > 0 {
		v.Set("expand", strings.Join(q.Expand, ","))
	}
	if q.Dataset != "" {
		v.Set("dataset", q.Dataset)
	}
	var g api.GraphResponse
	err := c.get(ctx, "/v1/graph", v, &g)
	return g, err
}

// Node fetches one node with its relations.
func (c *Client) Node(ctx context.Context, id string) (api.NodeResponse, error) {
	var n api.NodeResponse
	err := c.get(ctx, "/v1/nodes/"+url.PathEscape(id), nil, &n)
	return n, err
}

// Datasets lists the datasets in the daemon's store.
func (c *Client) Datasets(ctx context.Context) ([]store.DatasetInfo, error) {
	var infos []store.DatasetInfo
	err := c.get(ctx, "/v1/datasets", nil, &infos)
	return infos, err
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.backoff.Next(attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := c.do(ctx, u, out)
		if err == nil {
			return nil
		}
		lastErr = err

		var se *StatusError
		if errors.As(err, &se) && se.Code < 500 {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("daemon unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
