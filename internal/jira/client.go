package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// AssignedOpenIssuesJQL selects the caller's unfinished issues, most recently updated first.
const AssignedOpenIssuesJQL = "assignee = currentUser() AND statusCategory != Done ORDER BY updated DESC"

var searchFields = []string{"summary", "status", "timetracking"}

const (
	defaultScheme     = "https"
	defaultAPIVersion = "3"
	defaultUserAgent  = "pomojira/0.1"
	requestTimeout    = 15 * time.Second
	maxErrorBody      = 1 << 20
)

// IssueTracker is the subset of the Jira API the proxy forwards.
// It is implemented by *Client and can be replaced in tests.
type IssueTracker interface {
	SearchAssignedIssues(ctx context.Context) ([]Issue, error)
	AddWorklog(ctx context.Context, issueKey string, timeSpentSeconds int64) error
}

// Ensure Client implements IssueTracker at compile time.
var _ IssueTracker = (*Client)(nil)

// Options tune how a Client reaches Jira. Zero values select Jira Cloud defaults.
type Options struct {
	Scheme     string
	APIVersion string
	HTTPClient *http.Client
}

// Client talks to the Jira REST API on behalf of a single user. A Client is
// built per incoming request and carries that request's credentials only.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	email     string
	token     string
	userAgent string
}

// APIError is a non-2xx response from Jira, kept verbatim so it can be relayed.
type APIError struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira returned status %d", e.StatusCode)
}

// AsAPIError unwraps err into an *APIError when it carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// NewClient builds a Client for https://{domain}/rest/api/{version} using
// Basic authentication with email and API token.
func NewClient(domain, email, token string, opts Options) (*Client, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("jira credentials are incomplete")
	}
	scheme := strings.TrimSpace(opts.Scheme)
	if scheme == "" {
		scheme = defaultScheme
	}
	version := strings.TrimSpace(opts.APIVersion)
	if version == "" {
		version = defaultAPIVersion
	}
	base, err := url.Parse(fmt.Sprintf("%s://%s/rest/api/%s/", scheme, domain, version))
	if err != nil {
		return nil, fmt.Errorf("parse jira domain %q: %w", domain, err)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("parse jira domain %q: missing host", domain)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		baseURL:   base,
		http:      httpClient,
		email:     email,
		token:     token,
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the REST root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SearchAssignedIssues returns the caller's unfinished issues. An empty
// result is a valid answer, not an error.
func (c *Client) SearchAssignedIssues(ctx context.Context) ([]Issue, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	req := searchRequest{JQL: AssignedOpenIssuesJQL, Fields: searchFields}
	var payload searchResponse
	if err := c.do(ctx, http.MethodPost, "search/jql", req, &payload); err != nil {
		return nil, err
	}
	issues := make([]Issue, 0, len(payload.Issues))
	for _, raw := range payload.Issues {
		issues = append(issues, raw.toIssue())
	}
	return issues, nil
}

// AddWorklog records timeSpentSeconds of work against issueKey.
func (c *Client) AddWorklog(ctx context.Context, issueKey string, timeSpentSeconds int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	issueKey = strings.TrimSpace(issueKey)
	if issueKey == "" {
		return fmt.Errorf("issue key required")
	}
	if timeSpentSeconds <= 0 {
		return fmt.Errorf("time spent must be positive, got %d", timeSpentSeconds)
	}
	path := "issue/" + url.PathEscape(issueKey) + "/worklog"
	return c.do(ctx, http.MethodPost, path, worklogRequest{TimeSpentSeconds: timeSpentSeconds}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("parse path: %w", err)
	}
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
	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return fmt.Errorf("read error response: %w", err)
		}
		return &APIError{
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        raw,
		}
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
