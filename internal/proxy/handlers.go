package proxy

import (
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/five82/pomojira/internal/jira"
	"github.com/five82/pomojira/internal/prefs"
)

const (
	msgMissingAuth    = "Jira authentication headers are missing."
	msgInvalidDomain  = "Jira domain is invalid."
	msgBadWorklog     = "timeSpentSeconds (number) is required."
	msgWorklogAdded   = "Worklog added successfully"
	msgUnexpected     = "An unexpected error occurred."
	trackerContextKey = "pomojira.tracker"
)

// requireCredentials builds the upstream client from this request's headers
// and rejects the request before any outbound call when one is missing.
func (s *Server) requireCredentials(c *gin.Context) {
	creds := prefs.Credentials{
		Domain: strings.TrimSpace(c.GetHeader(prefs.HeaderDomain)),
		Email:  strings.TrimSpace(c.GetHeader(prefs.HeaderEmail)),
		Token:  strings.TrimSpace(c.GetHeader(prefs.HeaderToken)),
	}
	if !creds.Complete() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msgMissingAuth})
		return
	}

	tracker, err := s.newTracker(creds)
	if err != nil {
		s.logger.Warn("rejecting request credentials", "domain", creds.Domain, "error", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msgInvalidDomain})
		return
	}
	c.Set(trackerContextKey, tracker)
	c.Next()
}

func trackerFrom(c *gin.Context) jira.IssueTracker {
	return c.MustGet(trackerContextKey).(jira.IssueTracker)
}

// GET /api/issues
func (s *Server) listIssues(c *gin.Context) {
	s.logger.Debug("fetching issues from jira")
	issues, err := trackerFrom(c).SearchAssignedIssues(c.Request.Context())
	if err != nil {
		s.relayError(c, "fetch issues", "", err)
		return
	}
	s.logger.Info("fetched issues", "count", len(issues))
	c.JSON(http.StatusOK, issues)
}

type worklogBody struct {
	TimeSpentSeconds *float64 `json:"timeSpentSeconds"`
}

// POST /api/issues/:issueKey/worklog
func (s *Server) addWorklog(c *gin.Context) {
	issueKey := c.Param("issueKey")

	var body worklogBody
	if err := c.ShouldBindJSON(&body); err != nil || !validSeconds(body.TimeSpentSeconds) {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgBadWorklog})
		return
	}
	seconds := int64(*body.TimeSpentSeconds)

	s.logger.Debug("adding worklog", "issue", issueKey, "seconds", seconds)
	if err := trackerFrom(c).AddWorklog(c.Request.Context(), issueKey, seconds); err != nil {
		s.relayError(c, "add worklog", issueKey, err)
		return
	}
	s.logger.Info("worklog added", "issue", issueKey, "seconds", seconds)
	c.JSON(http.StatusCreated, gin.H{"message": msgWorklogAdded})
}

// validSeconds accepts positive whole numbers only.
func validSeconds(v *float64) bool {
	if v == nil {
		return false
	}
	f := *v
	return f > 0 && f == math.Trunc(f) && f <= math.MaxInt32
}

// relayError passes upstream failures through with their status and body
// unchanged. Anything without an upstream response becomes a generic 500.
func (s *Server) relayError(c *gin.Context, op, issueKey string, err error) {
	if apiErr, ok := jira.AsAPIError(err); ok {
		s.logger.Error(op+" failed",
			"issue", issueKey,
			"status", apiErr.StatusCode,
			"body", string(apiErr.Body),
		)
		contentType := apiErr.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		c.Data(apiErr.StatusCode, contentType, apiErr.Body)
		return
	}
	s.logger.Error(op+" failed", "issue", issueKey, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": msgUnexpected})
}
