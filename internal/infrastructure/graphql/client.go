// Package graphql implements the transport against a CMS content API:
// introspection, scoped field discovery, and synthesized query execution
// with retries on transient failures.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/hashicorp/go-retryablehttp"
)

// Client executes GraphQL operations against one project endpoint.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

// ClientOptions tune the underlying HTTP transport.
type ClientOptions struct {
	Timeout  time.Duration
	RetryMax int
}

// NewClient builds a client for one endpoint. An empty token disables the
// Authorization header for public content APIs.
func NewClient(endpoint, token string, opts ClientOptions) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	retryClient.HTTPClient.Timeout = opts.Timeout
	retryClient.Logger = nil

	return &Client{
		endpoint: endpoint,
		token:    token,
		http:     retryClient.StandardClient(),
	}
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string { return c.endpoint }

type requestBody struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Response is a raw GraphQL response envelope. Errors being non-empty does
// not imply Data is absent; partial responses carry both.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []ResponseError `json:"errors,omitempty"`
}

// Query executes an operation and returns the raw response envelope. A
// non-nil error is a transport failure (network, HTTP status, malformed
// body); GraphQL-level errors come back inside the envelope.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any) (*Response, error) {
	payload, err := gojson.Marshal(requestBody{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var envelope Response
	if err := gojson.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &envelope, nil
}

// execute runs an operation and decodes its data payload into out. A
// response whose errors array is non-empty and whose data is null is
// returned as an error.
func (c *Client) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	envelope, err := c.Query(ctx, query, variables)
	if err != nil {
		return err
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		if len(envelope.Errors) > 0 {
			return fmt.Errorf("graphql: %s", envelope.Errors[0].Message)
		}
		return fmt.Errorf("graphql: empty response data")
	}
	if err := gojson.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// IntrospectSchema runs the full introspection query.
func (c *Client) IntrospectSchema(ctx context.Context) (*IntrospectionSchema, error) {
	var data introspectionData
	if err := c.execute(ctx, introspectionQuery, nil, &data); err != nil {
		return nil, &SchemaFetchError{Endpoint: c.endpoint, Err: err}
	}
	return &data.Schema, nil
}

// TypeFields runs the scoped single-type discovery query. A nil result with
// nil error means the type does not exist on the server.
func (c *Client) TypeFields(ctx context.Context, typeName string) (*IntrospectionType, error) {
	var data typeFieldsData
	err := c.execute(ctx, typeFieldsQuery, map[string]any{"name": typeName}, &data)
	if err != nil {
		return nil, &FieldDiscoveryError{TypeName: typeName, Err: err}
	}
	return data.Type, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
