package grafana

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Status-level error kinds, matched with errors.Is.
var (
	// ErrAuth is returned on HTTP 401: invalid or expired API key.
	ErrAuth = errors.New("authentication failed (401)")

	// ErrPermission is returned on HTTP 403: the key cannot write dashboards.
	ErrPermission = errors.New("permission denied (403)")

	// ErrEndpointNotFound is returned on HTTP 404: wrong Grafana base URL.
	ErrEndpointNotFound = errors.New("dashboard endpoint not found (404)")

	// ErrUnexpectedStatus is returned for any other non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// dashboardPath is the Grafana create-or-update dashboard endpoint.
const dashboardPath = "/api/dashboards/db"

// DeployResult is the Grafana response body on a successful deploy.
type DeployResult struct {
	URL     string `json:"url"`
	Status  string `json:"status"`
	Version int    `json:"version"`
	UID     string `json:"uid"`
	Slug    string `json:"slug"`
}

// Client publishes dashboards to one Grafana instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the Grafana at baseURL (no trailing slash)
// authenticating with the given bearer token. timeout bounds the whole
// request, connect and TLS handshake included.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Transport: &bearerRoundTripper{base: http.DefaultTransport, token: apiKey},
			Timeout:   timeout,
		},
	}
}

// Endpoint returns the full dashboard API URL the client posts to.
func (c *Client) Endpoint() string { return c.baseURL + dashboardPath }

// Deploy POSTs the dashboard document and returns the parsed Grafana
// response. Non-200 statuses come back as one of the status error kinds;
// transport failures are returned as-is for ClassifyFailure.
func (c *Client) Deploy(ctx context.Context, dashboard []byte) (*DeployResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(dashboard))
	if err != nil {
		return nil, fmt.Errorf("grafana: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var result DeployResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("grafana: decode response: %w", err)
		}
		return &result, nil
	case http.StatusUnauthorized:
		return nil, ErrAuth
	case http.StatusForbidden:
		return nil, ErrPermission
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrEndpointNotFound, c.Endpoint())
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, bytes.TrimSpace(body))
	}
}

// LoadDashboard reads the dashboard definition at path, validates that it is
// JSON, and substitutes every occurrence of placeholder with dataURL when
// dataURL is non-empty.
func LoadDashboard(path, placeholder, dataURL string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("grafana: read dashboard %q: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("grafana: dashboard %q is not valid JSON", path)
	}
	if dataURL != "" && placeholder != "" {
		data = bytes.ReplaceAll(data, []byte(placeholder), []byte(dataURL))
	}
	return data, nil
}

// bearerRoundTripper injects the Authorization header into every request.
type bearerRoundTripper struct {
	base  http.RoundTripper
	token string
}

func (t *bearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)
	return t.base.RoundTrip(req)
}
