// Package backend is the terminal client's HTTP client for the pomojira
// proxy. Every call carries the stored Jira credentials as headers; the
// proxy itself keeps nothing between requests.
package backend
