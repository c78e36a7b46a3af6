package jira

// Issue is the trimmed-down issue shape served to clients.
type Issue struct {
	ID               string `json:"id"`
	Key              string `json:"key"`
	Summary          string `json:"summary"`
	Status           string `json:"status"`
	TimeSpentSeconds int64  `json:"timeSpentSeconds"`
}

// searchRequest mirrors the body of POST /search/jql.
type searchRequest struct {
	JQL        string   `json:"jql"`
	Fields     []string `json:"fields"`
	MaxResults int      `json:"maxResults,omitempty"`
}

// searchResponse mirrors the subset of /search/jql results we read.
type searchResponse struct {
	Issues []rawIssue `json:"issues"`
}

type rawIssue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
		Status  *struct {
			Name string `json:"name"`
		} `json:"status"`
		TimeTracking *struct {
			TimeSpentSeconds int64 `json:"timeSpentSeconds"`
		} `json:"timetracking"`
	} `json:"fields"`
}

func (r rawIssue) toIssue() Issue {
	issue := Issue{
		ID:      r.ID,
		Key:     r.Key,
		Summary: r.Fields.Summary,
	}
	if r.Fields.Status != nil {
		issue.Status = r.Fields.Status.Name
	}
	if r.Fields.TimeTracking != nil {
		issue.TimeSpentSeconds = r.Fields.TimeTracking.TimeSpentSeconds
	}
	return issue
}

// worklogRequest mirrors the body of POST /issue/{key}/worklog.
type worklogRequest struct {
	TimeSpentSeconds int64 `json:"timeSpentSeconds"`
}
