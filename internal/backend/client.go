package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/five82/pomojira/internal/jira"
	"github.com/five82/pomojira/internal/prefs"
)

// IssueService defines what the terminal client needs from the proxy.
// This interface is implemented by *Client and can be used for testing.
type IssueService interface {
	FetchIssues(ctx context.Context, creds prefs.Credentials) ([]jira.Issue, error)
	AddWorklog(ctx context.Context, creds prefs.Credentials, issueKey string, timeSpentSeconds int64) error
}

// Ensure Client implements IssueService at compile time.
var _ IssueService = (*Client)(nil)

// Client talks to the pomojira proxy.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultProxyURL  = "http://127.0.0.1:3001"
	defaultUserAgent = "pomojira-tui/0.1"
	requestTimeout   = 20 * time.Second
	maxBody          = 1 << 20
)

// StatusError is a non-2xx answer from the proxy, which includes Jira
// errors relayed with their original status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// AsStatusError unwraps err into a *StatusError when it carries one.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// NewClient builds a Client for the proxy at proxyURL.
func NewClient(proxyURL string) (*Client, error) {
	base, err := parseBaseURL(proxyURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchIssues retrieves the user's unfinished issues.
func (c *Client) FetchIssues(ctx context.Context, creds prefs.Credentials) ([]jira.Issue, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var issues []jira.Issue
	if err := c.do(ctx, http.MethodGet, "/api/issues", creds, nil, &issues); err != nil {
		return nil, err
	}
	if issues == nil {
		issues = []jira.Issue{}
	}
	return issues, nil
}

// AddWorklog logs timeSpentSeconds against issueKey.
func (c *Client) AddWorklog(ctx context.Context, creds prefs.Credentials, issueKey string, timeSpentSeconds int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(issueKey) == "" {
		return fmt.Errorf("issue key required")
	}
	path := "/api/issues/" + strings.TrimSpace(issueKey) + "/worklog"
	body := map[string]int64{"timeSpentSeconds": timeSpentSeconds}
	return c.do(ctx, http.MethodPost, path, creds, body, nil)
}

// Ping checks that the proxy is up. It sends no credentials.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: "/healthz"})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))

	if resp.StatusCode != http.StatusOK {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

// BaseURL returns the proxy address requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) do(ctx context.Context, method, path string, creds prefs.Credentials, body, dest any) error {
	if !creds.Complete() {
		return prefs.ErrIncompleteCredentials
	}

	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(prefs.HeaderDomain, creds.Domain)
	req.Header.Set(prefs.HeaderEmail, creds.Email)
	req.Header.Set(prefs.HeaderToken, creds.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		return &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage pulls a human readable message out of a proxy error body.
// The proxy answers with {"message": ...}; relayed Jira errors use
// errorMessages and errors instead.
func errorMessage(raw []byte) string {
	var payload struct {
		Message       string            `json:"message"`
		ErrorMessages []string          `json:"errorMessages"`
		Errors        map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}
	if len(payload.ErrorMessages) > 0 {
		return strings.Join(payload.ErrorMessages, "; ")
	}
	fields := make([]string, 0, len(payload.Errors))
	for field := range payload.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		return field + ": " + payload.Errors[field]
	}
	return ""
}

func parseBaseURL(proxyURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(proxyURL)
	if trimmed == "" {
		trimmed = defaultProxyURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse proxy_url %q: %w", proxyURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
