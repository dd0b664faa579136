package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/zealgen/bloom"
	"github.com/stretchr/testify/assert"
)

func TestSet_AddAndContains(t *testing.T) {
	t.Parallel()

	s := bloom.NewSet(1000, 0.01)

	assert.False(t, s.Contains("https://example.com/page1"))

	assert.True(t, s.Add("https://example.com/page1"))
	assert.True(t, s.Contains("https://example.com/page1"))
	assert.False(t, s.Contains("https://example.com/page2"))
}

func TestSet_AddReportsDuplicates(t *testing.T) {
	t.Parallel()

	s := bloom.NewSet(1000, 0.01)

	assert.True(t, s.Add("https://example.com/page1"))
	assert.False(t, s.Add("https://example.com/page1"))
	assert.Equal(t, 1, s.Len())
}

func TestSet_EstimatedCount(t *testing.T) {
	t.Parallel()

	s := bloom.NewSet(1000, 0.01)
	assert.Equal(t, uint(0), s.EstimatedCount())

	s.Add("https://example.com/page1")
	s.Add("https://example.com/page2")
	s.Add("https://example.com/page3")

	count := s.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestSet_ExactBeyondFilterCapacity(t *testing.T) {
	t.Parallel()

	// A tiny, saturated filter reports almost everything as present;
	// the set must still distinguish new URLs.
	s := bloom.NewSet(1, 0.5)

	for i := 0; i < 500; i++ {
		assert.True(t, s.Add(fmt.Sprintf("https://example.com/page%d", i)))
	}
	assert.Equal(t, 500, s.Len())
	assert.False(t, s.Contains("https://example.com/never-added"))
}
