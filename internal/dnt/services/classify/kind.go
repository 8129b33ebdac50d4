package classify

import (
	"net/url"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
)

var homepagePaths = map[string]struct{}{
	"":            {},
	"/":           {},
	"/latest":     {},
	"/top":        {},
	"/new":        {},
	"/unread":     {},
	"/hot":        {},
	"/categories": {},
}

// PathInfo classifies a path without regard to host.
func PathInfo(path string) domain.PageInfo {
	info := domain.PageInfo{Kind: domain.PageUnknown}
	if id, ok := ExtractTopicID(path); ok {
		info.TopicID, info.TopicFound = id, true
	}
	if name, ok := ExtractUsername(path); ok {
		info.Username = name
	}
	p := strings.TrimSuffix(strings.ToLower(path), "/")
	switch {
	case info.HasTopic():
		info.Kind = domain.PageTopic
	case info.Username != "":
		info.Kind = domain.PageUser
	case strings.HasPrefix(p, "/c/"):
		info.Kind = domain.PageCategory
	case p == "/search" || strings.HasPrefix(p, "/search/"):
		info.Kind = domain.PageSearch
	default:
		if _, ok := homepagePaths[p]; ok {
			info.Kind = domain.PageHomepage
		}
	}
	return info
}

// Classifier memoizes PathInfo per escaped path.
type Classifier struct {
	cache *lru.Cache[string, domain.PageInfo]
}

// NewClassifier returns a Classifier backed by an LRU of the given size.
// A size <= 0 disables memoization.
func NewClassifier(size int) (*Classifier, error) {
	if size <= 0 {
		return &Classifier{}, nil
	}
	cache, err := lru.New[string, domain.PageInfo](size)
	if err != nil {
		return nil, err
	}
	return &Classifier{cache: cache}, nil
}

// Classify returns the page info of target. When current is given and the
// hosts differ, the kind is PageExternal while ids are still reported.
func (c *Classifier) Classify(target, current *url.URL) domain.PageInfo {
	if target == nil {
		return domain.PageInfo{Kind: domain.PageUnknown}
	}
	info := c.pathInfo(target.EscapedPath())
	if current != nil && !strings.EqualFold(target.Host, current.Host) {
		info.Kind = domain.PageExternal
	}
	return info
}

// Len returns the number of memoized paths.
func (c *Classifier) Len() int {
	if c == nil || c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

func (c *Classifier) pathInfo(path string) domain.PageInfo {
	if c == nil || c.cache == nil {
		return PathInfo(path)
	}
	if info, ok := c.cache.Get(path); ok {
		return info
	}
	info := PathInfo(path)
	c.cache.Add(path, info)
	return info
}
