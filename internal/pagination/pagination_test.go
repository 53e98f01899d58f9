package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, PageCount(0, 10), "empty set still has one page")
	assert.Equal(t, 1, PageCount(1, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 2, PageCount(15, 10))
	assert.Equal(t, 3, PageCount(21, 10))
}

func TestResolveClampsLowPages(t *testing.T) {
	t.Parallel()

	for _, requested := range []int{-5, -1, 0, 1} {
		number, offset := Resolve(35, 10, requested)
		assert.Equal(t, 1, number, "requested %d", requested)
		assert.Equal(t, 0, offset, "requested %d", requested)
	}
}

func TestResolveClampsHighPages(t *testing.T) {
	t.Parallel()

	// 35 items at size 10 -> 4 pages
	for _, requested := range []int{4, 5, 99} {
		number, offset := Resolve(35, 10, requested)
		assert.Equal(t, 4, number, "requested %d", requested)
		assert.Equal(t, 30, offset, "requested %d", requested)
	}
}

func TestResolveInRange(t *testing.T) {
	t.Parallel()

	number, offset := Resolve(35, 10, 2)
	assert.Equal(t, 2, number)
	assert.Equal(t, 10, offset)
}

func TestResolveEmptySet(t *testing.T) {
	t.Parallel()

	number, offset := Resolve(0, 10, 7)
	assert.Equal(t, 1, number)
	assert.Equal(t, 0, offset)
}

func TestNewNavigationFlags(t *testing.T) {
	t.Parallel()

	first := New([]int{1, 2, 3}, 25, 10, 1)
	assert.False(t, first.HasPrev)
	assert.True(t, first.HasNext)
	assert.Equal(t, 3, first.Pages)
	assert.Equal(t, 1, first.PrevNumber())
	assert.Equal(t, 2, first.NextNumber())

	middle := New([]int{1}, 25, 10, 2)
	assert.True(t, middle.HasPrev)
	assert.True(t, middle.HasNext)
	assert.Equal(t, 1, middle.PrevNumber())
	assert.Equal(t, 3, middle.NextNumber())

	last := New([]int{1}, 25, 10, 3)
	assert.True(t, last.HasPrev)
	assert.False(t, last.HasNext)
	assert.Equal(t, 3, last.NextNumber())
}
