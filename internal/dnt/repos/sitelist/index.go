package sitelist

import (
	"bytes"
	"strings"
)

const (
	// defaultFPRate is the false-positive target of each list's Bloom filter.
	defaultFPRate = 0.01
	// BloomMinEntries is the list size from which lookups go through a Bloom
	// filter before the map. Hand-edited lists stay below it; imported ones
	// usually do not.
	BloomMinEntries = 256
)

// index is an immutable lookup structure for one list, built from the
// exact bytes it was decoded from.
type index struct {
	raw     []byte
	entries []string
	set     map[string]struct{}
	bloom   BloomFilter
}

func buildIndex(raw []byte, entries []string, factory BloomFactory) *index {
	idx := &index{
		raw:     append([]byte(nil), raw...),
		entries: entries,
		set:     make(map[string]struct{}, len(entries)),
	}
	if factory != nil && len(entries) >= BloomMinEntries {
		idx.bloom = factory.New(uint64(len(entries)), defaultFPRate)
	}
	for _, e := range entries {
		idx.set[e] = struct{}{}
		if idx.bloom != nil {
			idx.bloom.Add([]byte(e))
		}
	}
	return idx
}

// current reports whether idx was built from raw.
func (idx *index) current(raw []byte) bool {
	return idx != nil && bytes.Equal(idx.raw, raw)
}

// match walks host and each parent domain, most specific first, and
// reports the first listed anchor.
func (idx *index) match(host string) (string, bool) {
	if idx == nil || len(idx.set) == 0 || host == "" {
		return "", false
	}
	a := host
	for {
		if idx.bloom == nil || idx.bloom.MightContain([]byte(a)) {
			if _, ok := idx.set[a]; ok {
				return a, true
			}
		}
		i := strings.IndexByte(a, '.')
		if i < 0 || i == len(a)-1 {
			return "", false
		}
		a = a[i+1:]
	}
}
