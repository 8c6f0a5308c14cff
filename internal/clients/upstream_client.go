package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// UpstreamError is returned when the upstream API answers with a non-2xx status.
type UpstreamError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s %s returned status %d", e.Method, e.Path, e.StatusCode)
}

var ErrInvalidJSON = errors.New("upstream response is not valid JSON")

type UpstreamClient interface {
	// Do forwards one request to the upstream API and returns its JSON body,
	// nil when the body is empty. authorize attaches the static bearer credential.
	Do(ctx context.Context, method, path string, body []byte, authorize bool) (json.RawMessage, error)
	Ping(ctx context.Context) error
}

type upstreamHTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
	log     *logrus.Logger
}

// NewUpstreamHTTPClient builds a client for baseURL. A zero timeout leaves the
// transport default in place.
func NewUpstreamHTTPClient(baseURL, token string, timeout time.Duration, logger *logrus.Logger) UpstreamClient {
	return &upstreamHTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

func (c *upstreamHTTPClient) Do(ctx context.Context, method, path string, body []byte, authorize bool) (json.RawMessage, error) {
	url := c.baseURL + path
	c.log.Debugf("UpstreamClient: %s %s (auth=%t)", method, url, authorize)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		c.log.Errorf("UpstreamClient: Failed to create %s request for %s: %v", method, path, err)
		return nil, fmt.Errorf("failed to create upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authorize {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("UpstreamClient: Failed to execute %s %s: %v", method, path, err)
		return nil, fmt.Errorf("failed to communicate with upstream API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Errorf("UpstreamClient: Failed to read response of %s %s: %v", method, path, err)
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warnf("UpstreamClient: %s %s failed with status %d. Response body: %s", method, path, resp.StatusCode, string(respBody))
		return nil, &UpstreamError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	// Empty bodies are legal (204 on delete); callers that need a document check for nil.
	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, nil
	}
	if !json.Valid(respBody) {
		c.log.Errorf("UpstreamClient: %s %s returned a body that is not JSON", method, path)
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrInvalidJSON)
	}

	return json.RawMessage(respBody), nil
}

// Ping reports whether the upstream host answers HTTP at all; any status counts.
func (c *upstreamHTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create upstream ping request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("upstream API unreachable: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}
