// Package urlcheck holds structural URL checks shared by the factory and the
// generators. Pure functions, no network access.
package urlcheck

import (
	"net/url"
	"strings"

	"nfogen/internal/nfoerr"
)

// IsValid reports whether rawURL parses and names both a scheme and a host.
func IsValid(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// IsHTTP reports whether rawURL uses the http or https scheme.
func IsHTTP(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	}
	return false
}

// Domain returns the lowercased host component, or ok=false when rawURL is
// unparseable or has no host.
func Domain(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", false
	}
	return strings.ToLower(u.Host), true
}

// Validate fails with kind InvalidURL unless rawURL is structurally valid
// and uses http(s).
func Validate(rawURL string) error {
	if rawURL == "" {
		return nfoerr.Newf(nfoerr.KindInvalidURL, "empty URL")
	}
	if !IsValid(rawURL) {
		return nfoerr.Newf(nfoerr.KindInvalidURL, "malformed URL: %s", rawURL)
	}
	if !IsHTTP(rawURL) {
		return nfoerr.Newf(nfoerr.KindInvalidURL, "URL must use http or https: %s", rawURL)
	}
	return nil
}
