// Package classify maps forum URLs to page kinds and extracts the topic id
// and username embedded in their paths. Only the path is ever examined, so
// query strings and fragments never influence the result.
package classify

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrUnresolvable is returned when an href cannot be turned into an absolute URL.
	ErrUnresolvable = errors.New("href cannot be resolved")
	// ErrUnsupportedScheme is returned for resolved URLs that are not http(s).
	ErrUnsupportedScheme = errors.New("unsupported url scheme")
)

var (
	// The slug form wins, so /t/2024/99 is topic 99 with slug "2024".
	topicSlugRe    = regexp.MustCompile(`/t/[\w%\-.]+/(\d+)(?:/|$)`)
	topicNumericRe = regexp.MustCompile(`/t/(\d+)(?:/|$)`)
	usernameRe     = regexp.MustCompile(`/u/([\w%\-.]+)`)
	attachmentExt  = regexp.MustCompile(`\.(png|jpe?g|gif|webp|svg|zip|rar|7z|pdf|mp4|mp3)$`)
)

// ExtractTopicID returns the numeric topic id of a /t/ path. Zero is a
// valid id.
func ExtractTopicID(path string) (int, bool) {
	p := strings.ToLower(path)
	for _, re := range []*regexp.Regexp{topicSlugRe, topicNumericRe} {
		m := re.FindStringSubmatch(p)
		if len(m) < 2 {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return id, true
	}
	return 0, false
}

// ExtractUsername returns the URL-decoded username of a /u/ path.
func ExtractUsername(path string) (string, bool) {
	m := usernameRe.FindStringSubmatch(strings.ToLower(path))
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	name, err := url.PathUnescape(m[1])
	if err != nil {
		return "", false
	}
	return name, true
}

// IsLikelyAttachment reports whether the path points at an upload or a
// file with a well-known media/archive extension.
func IsLikelyAttachment(path string) bool {
	p := strings.ToLower(path)
	if strings.Contains(p, "/uploads/") {
		return true
	}
	return attachmentExt.MatchString(p)
}

// ResolveAbsoluteURL resolves href against base. Only http and https
// results are accepted.
func ResolveAbsoluteURL(href string, base *url.URL) (*url.URL, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return nil, fmt.Errorf("%w: empty href", ErrUnresolvable)
	}
	if base == nil {
		return nil, fmt.Errorf("%w: no base url", ErrUnresolvable)
	}
	u, err := base.Parse(href)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnresolvable, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

// SameTopic reports whether both paths carry the same topic id.
func SameTopic(a, b string) bool {
	ida, ok := ExtractTopicID(a)
	if !ok {
		return false
	}
	idb, ok := ExtractTopicID(b)
	return ok && ida == idb
}
