// Package bloom provides URL deduplication backed by a Bloom filter.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Set is an exact set of URLs with a Bloom filter in front of it.
// The filter answers most "never seen" queries without touching the map;
// positive answers are confirmed against the map, so false positives never
// cause a URL to be dropped.
//
// Set is not safe for concurrent use.
type Set struct {
	filter *bloom.BloomFilter
	keys   map[string]struct{}
}

// NewSet creates a Set whose filter is sized for n expected URLs
// with the given false positive rate.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{
		filter: bloom.NewWithEstimates(n, fpRate),
		keys:   make(map[string]struct{}),
	}
}

// Add inserts url and reports whether it was absent before.
func (s *Set) Add(url string) bool {
	if s.Contains(url) {
		return false
	}
	s.filter.AddString(url)
	s.keys[url] = struct{}{}
	return true
}

// Contains reports whether url is in the set.
func (s *Set) Contains(url string) bool {
	if !s.filter.TestString(url) {
		return false
	}
	_, ok := s.keys[url]
	return ok
}

// Len returns the number of URLs in the set.
func (s *Set) Len() int {
	return len(s.keys)
}

// EstimatedCount returns the filter's approximation of the number of URLs.
func (s *Set) EstimatedCount() uint {
	return uint(s.filter.ApproximatedSize())
}
