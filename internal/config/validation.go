package config

import (
	"net/url"
	"strings"
)

// Validate checks settings before first use.
// The first failing rule is reported; messages never include field values.
func (s *Settings) Validate() error {
	if s.Env.APIKey == "" {
		return &ValidationError{Reason: "API key is required"}
	}
	if !isHTTPURL(s.Env.BaseURL) {
		return &ValidationError{Reason: "invalid base URL"}
	}
	if s.Env.HTTPSProxy != "" && !isHTTPURL(s.Env.HTTPSProxy) {
		return &ValidationError{Reason: "invalid proxy URL"}
	}
	return nil
}

// isHTTPURL requires an http:// or https:// prefix followed by a host.
func isHTTPURL(raw string) bool {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return false
	}
	u, err := url.Parse(raw)
	return err == nil && u.Host != ""
}
