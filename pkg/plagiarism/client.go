package plagiarism

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/edulog/plagiarism-check/pkg/obs"
)

// DefaultBaseURL is the production scoring API.
const DefaultBaseURL = "https://api.copyleaks.com"

// DefaultTimeout bounds connecting to the API and waiting for response
// headers.
const DefaultTimeout = 30 * time.Second

const maxResponseBytes = 1 << 20

// Credentials identify the account used against the scoring API.
type Credentials struct {
	Email string
	Key   string
}

// ScanProperties are the scan options sent with every submission.
type ScanProperties struct {
	IncludeCitations bool   `json:"includeCitations"`
	SensitivityLevel string `json:"sensitivityLevel"`
	ScanType         string `json:"scanType"`
}

// DefaultScanProperties are tuned for short educational blog posts.
var DefaultScanProperties = ScanProperties{
	IncludeCitations: true,
	SensitivityLevel: "medium",
	ScanType:         "education",
}

type submitRequest struct {
	Text       string         `json:"text"`
	Sandbox    bool           `json:"sandbox"`
	Properties ScanProperties `json:"properties"`
}

// StatusResponse is the body of a scan status request.
type StatusResponse struct {
	Status ScanStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

// ResultsResponse is the subset of a scan result the checker reads. Every
// field is optional upstream.
type ResultsResponse struct {
	Summary *struct {
		PlagiarismScore *float64 `json:"plagiarismScore"`
	} `json:"summary"`
}

// Score returns the summary score if the response carried one.
func (r ResultsResponse) Score() (float64, bool) {
	if r.Summary == nil || r.Summary.PlagiarismScore == nil {
		return 0, false
	}
	return *r.Summary.PlagiarismScore, true
}

// Client speaks the scoring API's v3 REST protocol. It is safe for
// concurrent use; it holds no per-scan state.
type Client struct {
	baseURL    string
	creds      Credentials
	props      ScanProperties
	httpClient *http.Client
	limiter    *rate.Limiter
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

// WithRateLimit throttles every outgoing request through limiter.
func WithRateLimit(limiter *rate.Limiter) ClientOption {
	return func(c *Client) { c.limiter = limiter }
}

// WithScanProperties overrides DefaultScanProperties.
func WithScanProperties(props ScanProperties) ClientOption {
	return func(c *Client) { c.props = props }
}

// NewClient builds a client for baseURL. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL string, creds Credentials, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		props:      DefaultScanProperties,
		httpClient: newHTTPClient(DefaultTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: timeout, KeepAlive: timeout}).DialContext
	transport.TLSHandshakeTimeout = timeout
	transport.ResponseHeaderTimeout = timeout
	return &http.Client{Transport: transport}
}

// Login exchanges the account credentials for a bearer token.
func (c *Client) Login(ctx context.Context) (string, error) {
	body := map[string]string{"email": c.creds.Email, "key": c.creds.Key}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, "login", http.MethodPost, "/v3/account/login/api", "", body, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", errors.New("access token not found in response")
	}
	return out.AccessToken, nil
}

// Submit starts a scan of text under the client generated scanID.
func (c *Client) Submit(ctx context.Context, token, scanID, text string) error {
	body := submitRequest{Text: text, Sandbox: false, Properties: c.props}
	return c.do(ctx, "submit", http.MethodPost, "/v3/scans/"+scanID+"/text", token, body, nil)
}

// Status reads the current status of a scan.
func (c *Client) Status(ctx context.Context, token, scanID string) (StatusResponse, error) {
	var out StatusResponse
	if err := c.do(ctx, "status", http.MethodGet, "/v3/scans/"+scanID+"/status", token, nil, &out); err != nil {
		return StatusResponse{}, err
	}
	if out.Status == "" {
		return StatusResponse{}, errors.New("status field missing from response")
	}
	return out, nil
}

// Results fetches the result of a finished scan.
func (c *Client) Results(ctx context.Context, token, scanID string) (ResultsResponse, error) {
	var out ResultsResponse
	if err := c.do(ctx, "results", http.MethodGet, "/v3/scans/"+scanID+"/results", token, nil, &out); err != nil {
		return ResultsResponse{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, endpoint, method, path, token string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		obs.ObserveUpstream(endpoint, 0, time.Since(start))
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	obs.ObserveUpstream(endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return fmt.Errorf("read %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: upstreamMessage(raw, resp.StatusCode)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// upstreamMessage prefers the API's own error message over the status line.
func upstreamMessage(body []byte, code int) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fmt.Sprintf("Unknown error: HTTP %d", code)
}
