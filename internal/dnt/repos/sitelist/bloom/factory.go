package bloom

import (
	bitsbloom "github.com/bits-and-blooms/bloom/v3"

	"github.com/haukened/discourse-new-tab/internal/dnt/repos/sitelist"
)

// factory implements sitelist.BloomFactory using the package sizer.
type factory struct {
	sizer sitelist.BloomSizer
}

// NewFactory returns a BloomFactory that sizes filters from capacity and FP rate.
func NewFactory() sitelist.BloomFactory { return factory{sizer: NewSizer()} }

// New constructs a filter sized for capacity entries at fpRate.
func (f factory) New(capacity uint64, fpRate float64) sitelist.BloomFilter {
	m, k := f.sizer.Size(capacity, fpRate)
	return &filter{bf: bitsbloom.New(uint(m), uint(k))}
}
