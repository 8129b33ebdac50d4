package sitelist

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/haukened/discourse-new-tab/internal/dnt/common/utils"
)

var (
	// ErrInvalidDomain is returned for entries that are not a host name or IP.
	ErrInvalidDomain = errors.New("invalid domain")
	// ErrPublicSuffix is returned for entries such as "com" or "co.uk".
	ErrPublicSuffix = errors.New("domain is a public suffix")
)

var validate = validator.New()

// Normalize reduces raw input (a bare host, host:port or a full URL) to a
// canonical host name and validates it.
func Normalize(raw string) (string, error) {
	name := utils.CanonicalHostname(raw)
	if name == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidDomain, raw)
	}
	if err := validate.Var(name, "hostname_rfc1123|ip"); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDomain, raw)
	}
	if utils.IsPublicSuffix(name) {
		return "", fmt.Errorf("%w: %q", ErrPublicSuffix, name)
	}
	return name, nil
}

// uniqSort normalises entries, drops the invalid ones and returns the rest
// de-duplicated and sorted.
func uniqSort(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name, err := Normalize(e)
		if err != nil {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
