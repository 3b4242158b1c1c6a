package rapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clusterkit/gntsync/internal/log"
)

// DefaultPollInterval is the fixed delay between job status polls.
const DefaultPollInterval = 1 * time.Second

const apiVersionPrefix = "/2"

// RealClient implements Client against a live cluster endpoint.
type RealClient struct {
	endpoint     string // scheme://host:port, without the version prefix
	user         string
	password     string
	httpClient   *http.Client
	pollInterval time.Duration
	logger       zerolog.Logger
}

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithBasicAuth sets HTTP Basic credentials. The Authorization header is
// only added when both user and password are non-empty.
func WithBasicAuth(user, password string) ClientOption {
	return func(c *RealClient) {
		c.user = user
		c.password = password
	}
}

// WithHTTPClient sets a custom HTTP client, e.g. one trusting the cluster's
// self-signed certificate.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *RealClient) {
		c.httpClient = hc
	}
}

// WithPollInterval overrides the job polling interval.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *RealClient) {
		c.pollInterval = d
	}
}

// WithEndpoint replaces the endpoint URL entirely (useful for testing).
func WithEndpoint(url string) ClientOption {
	return func(c *RealClient) {
		c.endpoint = strings.TrimSuffix(url, "/")
	}
}

// NewRealClient creates a client for the cluster at host:port.
func NewRealClient(host string, port int, opts ...ClientOption) *RealClient {
	c := &RealClient{
		endpoint:     fmt.Sprintf("https://%s:%d", host, port),
		httpClient:   http.DefaultClient,
		pollInterval: DefaultPollInterval,
		logger:       log.WithComponent("rapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody is the shape of the cluster's error responses.
type errorBody struct {
	Message string `json:"message"`
	Explain string `json:"explain"`
}

// do issues one request against the versioned API and decodes the JSON
// response into out (which may be nil when the body is irrelevant).
//
// A 404 maps to NotFoundError, any other non-2xx to RemoteError, and
// failures below HTTP to TransportError.
func (c *RealClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := c.endpoint + apiVersionPrefix + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.user != "" && c.password != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode == http.StatusNotFound {
		return &NotFoundError{Path: path}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RemoteError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Explain:    explainFromBody(data),
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &TransportError{Method: method, Path: path, Err: fmt.Errorf("parse response: %w", err)}
		}
	}
	return nil
}

// submit issues a mutating request and decodes the returned job id.
func (c *RealClient) submit(ctx context.Context, method, path string, body any) (JobID, error) {
	var id JobID
	if err := c.do(ctx, method, path, body, &id); err != nil {
		return 0, err
	}
	c.logger.Debug().Str("method", method).Str("path", path).Int64("job", int64(id)).Msg("submitted")
	return id, nil
}

// explainFromBody extracts the server's explanation string from an error
// response, falling back to the raw body.
func explainFromBody(data []byte) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil {
		if eb.Explain != "" {
			return eb.Explain
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	return strings.TrimSpace(string(data))
}
