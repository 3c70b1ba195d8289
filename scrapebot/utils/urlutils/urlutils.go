// Package urlutils provides URL helpers shared by the scraper and the chatbot.
package urlutils

import (
	"net/url"
	"strings"
)

// Normalize adds an https:// scheme to URLs that are missing one.
func Normalize(raw string) string {
	if raw == "" {
		return raw
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + strings.TrimLeft(raw, "/")
}

// ExtractDomain returns the host portion of a URL, normalizing first so that
// bare domains like "example.com" resolve too.
func ExtractDomain(raw string) string {
	parsed, err := url.Parse(Normalize(raw))
	if err != nil {
		return ""
	}
	return parsed.Host
}

// IsValid reports whether a URL (after scheme normalization) has both an
// http(s) scheme and a host.
func IsValid(raw string) bool {
	parsed, err := url.Parse(Normalize(raw))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// IsInternal reports whether a link URL belongs to the given base domain.
// Relative links (no resolvable host) count as internal.
func IsInternal(linkURL, baseDomain string) bool {
	domain := ExtractDomain(linkURL)
	return domain == "" || domain == baseDomain
}
