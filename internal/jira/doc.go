// Package jira provides a minimal client for the Jira Cloud REST API.
//
// Only the two calls pomojira needs are implemented: searching the caller's
// unfinished issues and adding a worklog. A Client holds one user's
// credentials and is meant to live for a single proxied request.
//
// Non-2xx responses come back as *APIError with the status, content type and
// body untouched, so the proxy can relay them verbatim. Transport failures
// are plain wrapped errors.
package jira
