package utils

import (
	"net"
	"net/url"
	"strings"
)

// CanonicalHostname returns a host name in canonical form:
// - Trimmed of surrounding whitespace and lowercased
// - Reduced to the host when a full URL is given
// - Without port, brackets or trailing dots
//
// An input that yields no host returns "".
func CanonicalHostname(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return ""
	}
	if strings.Contains(name, "://") {
		u, err := url.Parse(name)
		if err != nil {
			return ""
		}
		name = u.Hostname()
	} else {
		// bare "host/path" or "host:port" forms
		if i := strings.IndexAny(name, "/?#"); i >= 0 {
			name = name[:i]
		}
		if h, _, err := net.SplitHostPort(name); err == nil {
			name = h
		}
	}
	name = strings.TrimSuffix(strings.TrimPrefix(name, "["), "]")
	for strings.HasSuffix(name, ".") {
		name = strings.TrimSuffix(name, ".")
	}
	return name
}

// HostMatches reports whether host equals domain or is a subdomain of it.
// Both arguments are canonicalized first.
func HostMatches(host, domain string) bool {
	host = CanonicalHostname(host)
	domain = CanonicalHostname(domain)
	if host == "" || domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
