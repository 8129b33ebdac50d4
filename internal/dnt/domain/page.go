package domain

// PageKind is the semantic kind of a forum URL.
type PageKind string

const (
	PageTopic    PageKind = "topic"
	PageCategory PageKind = "category"
	PageUser     PageKind = "user"
	PageHomepage PageKind = "homepage"
	PageSearch   PageKind = "search"
	PageExternal PageKind = "external"
	PageUnknown  PageKind = "unknown"
)

// PageInfo is the classification of one URL.
type PageInfo struct {
	Kind     PageKind
	TopicID  int
	Username string
	// TopicFound is set when TopicID came from the path.
	TopicFound bool
}

// HasTopic reports whether a topic id was extracted.
func (p PageInfo) HasTopic() bool { return p.TopicFound }
