package dom

import (
	"strings"

	"github.com/andybalholm/cascadia"
	lru "github.com/hashicorp/golang-lru/v2"
)

const selectorCacheSize = 256

type compiled struct {
	group cascadia.SelectorGroup
	ok    bool
}

// Predicates re-test the same handful of selectors on every click, so
// compiled groups are kept. Invalid selectors are cached as such.
var selectorCache = func() *lru.Cache[string, compiled] {
	c, err := lru.New[string, compiled](selectorCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}()

// compile returns the selector group for sel and whether it parsed.
func compile(sel string) (cascadia.SelectorGroup, bool) {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return nil, false
	}
	if c, ok := selectorCache.Get(sel); ok {
		return c.group, c.ok
	}
	group, err := cascadia.ParseGroup(sel)
	c := compiled{group: group, ok: err == nil}
	selectorCache.Add(sel, c)
	return c.group, c.ok
}

// ValidSelector reports whether sel is a CSS selector this package understands.
func ValidSelector(sel string) bool {
	_, ok := compile(sel)
	return ok
}
