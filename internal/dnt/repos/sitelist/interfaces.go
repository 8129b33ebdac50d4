// Package sitelist stores the per-domain whitelist and blacklist that
// override forum auto-detection, and answers exact-or-subdomain lookups
// against them.
package sitelist

// BloomSizer computes Bloom filter parameters from capacity (n) and
// target false-positive rate (p): m bits and k hash functions.
type BloomSizer interface {
	Size(n uint64, p float64) (m uint64, k uint8)
}

// BloomFilter is the minimal interface the index needs from a filter.
type BloomFilter interface {
	Add(key []byte)
	MightContain(key []byte) bool
}

// BloomFactory builds filters sized for a dataset.
type BloomFactory interface {
	New(capacity uint64, fpRate float64) BloomFilter
}

// Lists is a snapshot of both lists, each normalised and sorted.
type Lists struct {
	Whitelist []string `json:"whitelist" yaml:"whitelist"`
	Blacklist []string `json:"blacklist" yaml:"blacklist"`
}
