package utils

import "golang.org/x/net/publicsuffix"

// IsPublicSuffix reports whether name is itself an ICANN public suffix
// such as "com" or "co.uk". Listing one would match every site under it.
func IsPublicSuffix(name string) bool {
	name = CanonicalHostname(name)
	if name == "" {
		return false
	}
	suffix, icann := publicsuffix.PublicSuffix(name)
	return icann && suffix == name
}
