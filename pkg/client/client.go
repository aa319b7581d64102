// Package client executes requests built with generated projections against a GraphQL endpoint.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jensneuse/abstractlogger"
	"github.com/tidwall/sjson"

	"github.com/wundergraph/graphql-clientgen/pkg/introspection"
	"github.com/wundergraph/graphql-clientgen/pkg/projection"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	endpoint   string
	httpClient *http.Client
	header     http.Header
	log        abstractlogger.Logger
}

type Option func(c *Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Add(key, value)
	}
}

func WithLogger(log abstractlogger.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func New(endpoint string, options ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
		header:     http.Header{},
		log:        abstractlogger.NoopLogger,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Execute sends the request and parses the response. GraphQL errors are returned as part of the
// response, use Response.Err to turn them into an error.
func (c *Client) Execute(ctx context.Context, req *projection.Request) (*Response, error) {
	body, err := req.Body()
	if err != nil {
		return nil, err
	}
	return c.do(ctx, body)
}

// ExecuteQuery sends a hand written query with optional variables.
func (c *Client) ExecuteQuery(ctx context.Context, query string, variables map[string]any) (*Response, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "query", query)
	if err != nil {
		return nil, err
	}
	if len(variables) != 0 {
		body, err = sjson.SetBytes(body, "variables", variables)
		if err != nil {
			return nil, fmt.Errorf("failed to encode variables: %w", err)
		}
	}
	return c.do(ctx, body)
}

// Introspect runs the introspection query and returns the raw data object.
func (c *Client) Introspect(ctx context.Context) ([]byte, error) {
	resp, err := c.ExecuteQuery(ctx, introspection.Query, nil)
	if err != nil {
		return nil, fmt.Errorf("introspection query failed: %w", err)
	}
	if err := resp.Err(); err != nil {
		return nil, fmt.Errorf("introspection query failed: %w", err)
	}
	return resp.Data, nil
}

func (c *Client) do(ctx context.Context, body []byte) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for key, values := range c.header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	c.log.Debug("client.Execute",
		abstractlogger.String("endpoint", c.endpoint),
		abstractlogger.ByteString("body", body),
	)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		c.log.Error("client.Execute",
			abstractlogger.Int("status", httpResp.StatusCode),
			abstractlogger.ByteString("response", data),
		)
		return nil, &StatusError{StatusCode: httpResp.StatusCode, Body: data}
	}

	return ParseResponse(data)
}

// StatusError is returned for non 2xx responses.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, string(e.Body))
}
