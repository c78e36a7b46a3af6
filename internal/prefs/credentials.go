package prefs

import (
	"errors"
	"regexp"
	"strings"
)

// Header names carrying Credentials on every proxied request.
const (
	HeaderDomain = "x-jira-domain"
	HeaderEmail  = "x-jira-email"
	HeaderToken  = "x-jira-token"
)

// ErrIncompleteCredentials is returned when any credential field is blank.
var ErrIncompleteCredentials = errors.New("please fill in all fields")

var (
	schemePrefix    = regexp.MustCompile(`(?i)^https?://`)
	trailingSlashes = regexp.MustCompile(`/+$`)
)

// Credentials identify a Jira Cloud user. They travel with every proxied
// request and are never cached by the proxy.
type Credentials struct {
	Domain string `toml:"domain" json:"domain"`
	Email  string `toml:"email" json:"email"`
	Token  string `toml:"token" json:"token"`
}

// NewCredentials validates raw form input and returns credentials ready to store.
// The domain loses any http(s):// prefix and trailing slashes.
func NewCredentials(domain, email, token string) (Credentials, error) {
	c := Credentials{
		Domain: strings.TrimSpace(domain),
		Email:  strings.TrimSpace(email),
		Token:  strings.TrimSpace(token),
	}
	if !c.Complete() {
		return Credentials{}, ErrIncompleteCredentials
	}
	c.Domain = NormalizeDomain(c.Domain)
	if c.Domain == "" {
		return Credentials{}, ErrIncompleteCredentials
	}
	return c, nil
}

// Complete reports whether all three fields are set.
func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.Domain) != "" &&
		strings.TrimSpace(c.Email) != "" &&
		strings.TrimSpace(c.Token) != ""
}

// NormalizeDomain strips a leading http:// or https:// and any trailing slashes.
func NormalizeDomain(domain string) string {
	domain = schemePrefix.ReplaceAllString(strings.TrimSpace(domain), "")
	return trailingSlashes.ReplaceAllString(domain, "")
}
