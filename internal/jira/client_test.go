package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	domain := strings.TrimPrefix(server.URL, "http://")
	c, err := NewClient(domain, "me@acme.io", "tok", Options{Scheme: "http", HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func TestNewClient_BuildsBaseURL(t *testing.T) {
	c, err := NewClient("acme.atlassian.net", "me@acme.io", "tok", Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if got := c.BaseURL(); got != "https://acme.atlassian.net/rest/api/3/" {
		t.Fatalf("BaseURL = %q", got)
	}

	c, err = NewClient("jira.local:8080", "me@acme.io", "tok", Options{Scheme: "http", APIVersion: "2"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if got := c.BaseURL(); got != "http://jira.local:8080/rest/api/2/" {
		t.Fatalf("BaseURL = %q", got)
	}
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	for _, tc := range [][3]string{
		{"", "e", "t"},
		{"d", " ", "t"},
		{"d", "e", ""},
	} {
		if _, err := NewClient(tc[0], tc[1], tc[2], Options{}); err == nil {
			t.Fatalf("NewClient(%q) returned nil error, want error", tc)
		}
	}
}

func TestSearchAssignedIssues_SendsQueryAndMapsIssues(t *testing.T) {
	t.Parallel()

	var gotBody searchRequest
	var gotUser, gotPass string
	var gotAuthOK bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/api/3/search/jql" {
			http.NotFound(w, r)
			return
		}
		gotUser, gotPass, gotAuthOK = r.BasicAuth()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"issues":[
			{"id":"10001","key":"POM-1","fields":{"summary":"Write docs","status":{"name":"In Progress"},"timetracking":{"timeSpentSeconds":5400}}},
			{"id":"10002","key":"POM-2","fields":{"summary":"Fix bug","status":{"name":"To Do"}}}
		]}`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	issues, err := c.SearchAssignedIssues(ctx)
	if err != nil {
		t.Fatalf("SearchAssignedIssues returned error: %v", err)
	}
	if !gotAuthOK || gotUser != "me@acme.io" || gotPass != "tok" {
		t.Fatalf("basic auth = %q/%q ok=%v, want me@acme.io/tok", gotUser, gotPass, gotAuthOK)
	}
	if gotBody.JQL != AssignedOpenIssuesJQL {
		t.Fatalf("jql = %q, want %q", gotBody.JQL, AssignedOpenIssuesJQL)
	}
	if strings.Join(gotBody.Fields, ",") != "summary,status,timetracking" {
		t.Fatalf("fields = %v", gotBody.Fields)
	}

	want := []Issue{
		{ID: "10001", Key: "POM-1", Summary: "Write docs", Status: "In Progress", TimeSpentSeconds: 5400},
		{ID: "10002", Key: "POM-2", Summary: "Fix bug", Status: "To Do", TimeSpentSeconds: 0},
	}
	if len(issues) != len(want) {
		t.Fatalf("issues = %#v, want %#v", issues, want)
	}
	for i := range want {
		if issues[i] != want[i] {
			t.Fatalf("issues[%d] = %#v, want %#v", i, issues[i], want[i])
		}
	}
}

func TestSearchAssignedIssues_EmptyResultIsNotAnError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"issues":[]}`))
	}))
	t.Cleanup(server.Close)

	issues, err := newTestClient(t, server).SearchAssignedIssues(context.Background())
	if err != nil {
		t.Fatalf("SearchAssignedIssues returned error: %v", err)
	}
	if issues == nil || len(issues) != 0 {
		t.Fatalf("issues = %#v, want empty non-nil slice", issues)
	}
}

func TestAddWorklog_PostsSeconds(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody worklogRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))
	t.Cleanup(server.Close)

	if err := newTestClient(t, server).AddWorklog(context.Background(), "POM-7", 1500); err != nil {
		t.Fatalf("AddWorklog returned error: %v", err)
	}
	if gotPath != "/rest/api/3/issue/POM-7/worklog" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotBody.TimeSpentSeconds != 1500 {
		t.Fatalf("timeSpentSeconds = %d, want 1500", gotBody.TimeSpentSeconds)
	}
}

func TestAddWorklog_RejectsBadInput(t *testing.T) {
	c, err := NewClient("acme.atlassian.net", "e", "t", Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := c.AddWorklog(context.Background(), " ", 60); err == nil {
		t.Fatalf("AddWorklog with blank key returned nil error")
	}
	if err := c.AddWorklog(context.Background(), "POM-1", 0); err == nil {
		t.Fatalf("AddWorklog with zero seconds returned nil error")
	}
}

func TestClient_UpstreamErrorKeepsStatusAndBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errorMessages":["Client must be authenticated"]}`))
	}))
	t.Cleanup(server.Close)

	_, err := newTestClient(t, server).SearchAssignedIssues(context.Background())
	apiErr, ok := AsAPIError(err)
	if !ok {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
	if string(apiErr.Body) != `{"errorMessages":["Client must be authenticated"]}` {
		t.Fatalf("Body = %q", apiErr.Body)
	}
	if apiErr.ContentType != "application/json" {
		t.Fatalf("ContentType = %q", apiErr.ContentType)
	}
}

func TestClient_TransportAndDecodeErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not-json"))
	}))
	t.Cleanup(server.Close)

	_, err := newTestClient(t, server).SearchAssignedIssues(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("error = %v, want decode response error", err)
	}

	c, err := NewClient("127.0.0.1:1", "e", "t", Options{Scheme: "http"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.SearchAssignedIssues(context.Background())
	if err == nil {
		t.Fatalf("SearchAssignedIssues returned nil error, want transport error")
	}
	if _, ok := AsAPIError(err); ok {
		t.Fatalf("transport failure should not be an APIError: %v", err)
	}
}
