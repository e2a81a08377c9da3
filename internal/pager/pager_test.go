package pager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(p Pager) []int {
	var out []int
	for i := range p.VisibleIndices() {
		out = append(out, i)
	}
	return out
}

func TestPagerWalkthrough(t *testing.T) {
	p := New(6)
	p.SetTotal(13)

	assert.Equal(t, 3, p.PageCount())
	assert.Equal(t, 1, p.PageFrom())
	assert.Equal(t, 6, p.PageTo())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, collect(p))

	assert.True(t, p.PageRight())
	assert.Equal(t, 7, p.PageFrom())
	assert.Equal(t, 12, p.PageTo())

	assert.True(t, p.PageRight())
	assert.Equal(t, 13, p.PageFrom())
	assert.Equal(t, 13, p.PageTo())
	assert.Equal(t, []int{12}, collect(p))

	// Already on the last page.
	assert.False(t, p.PageRight())
	assert.Equal(t, 2, p.Page())

	assert.True(t, p.PageLeft())
	assert.True(t, p.PageLeft())
	assert.False(t, p.PageLeft())
	assert.Equal(t, 0, p.Page())
}

func TestPagerEmpty(t *testing.T) {
	p := New(6)

	assert.Equal(t, 0, p.PageCount())
	assert.Equal(t, 0, p.PageFrom())
	assert.Equal(t, 0, p.PageTo())
	assert.Empty(t, collect(p))
	assert.False(t, p.PageRight())
	assert.False(t, p.PageLeft())
}

func TestPagerClampOnShrink(t *testing.T) {
	p := New(6)
	p.SetTotal(13)
	p.PageRight()
	p.PageRight()
	assert.Equal(t, 2, p.Page())

	// The whole last page disappears; the window must follow.
	p.SetTotal(12)
	assert.Equal(t, 1, p.Page())
	assert.Equal(t, 7, p.PageFrom())
	assert.Equal(t, 12, p.PageTo())

	p.SetTotal(0)
	assert.Equal(t, 0, p.Page())
	assert.Equal(t, 0, p.PageFrom())
}

func TestPagerReset(t *testing.T) {
	p := New(6)
	p.SetTotal(20)
	p.PageRight()
	p.PageRight()

	p.Reset(9)
	assert.Equal(t, 0, p.Page())
	assert.Equal(t, 1, p.PageFrom())
	assert.Equal(t, 6, p.PageTo())
}

func TestPagerRightUntilStuckThenLeftReturnsHome(t *testing.T) {
	for _, total := range []int{0, 1, 5, 6, 7, 12, 13, 100} {
		p := New(6)
		p.SetTotal(total)

		rights := 0
		for p.PageRight() {
			rights++
		}
		for p.PageLeft() {
		}
		assert.Equal(t, 0, p.Page(), "total=%d", total)
		if total > 0 {
			assert.Equal(t, p.PageCount()-1, rights, "total=%d", total)
		}
	}
}

func TestPagerInvariants(t *testing.T) {
	p := New(6)
	totals := []int{13, 7, 6, 5, 0, 1, 30}
	for _, total := range totals {
		p.SetTotal(total)
		for range 4 {
			from, to, n := p.RangeLabel()
			if n == 0 {
				assert.Zero(t, from)
				assert.Zero(t, to)
			} else {
				assert.GreaterOrEqual(t, from, 1)
				assert.LessOrEqual(t, from, to)
				assert.LessOrEqual(t, to, n)
				assert.LessOrEqual(t, to-from+1, p.PageSize())
			}
			p.PageRight()
		}
	}
}

func TestPagerCoercesPageSize(t *testing.T) {
	p := New(0)
	assert.Equal(t, 1, p.PageSize())
	p.SetTotal(3)
	assert.Equal(t, 3, p.PageCount())
}

func TestVisibleIndicesRestartable(t *testing.T) {
	p := New(6)
	p.SetTotal(13)
	p.PageRight()

	seq := p.VisibleIndices()
	first := []int{}
	for i := range seq {
		first = append(first, i)
	}
	second := []int{}
	for i := range seq {
		second = append(second, i)
	}
	assert.Equal(t, first, second)
	assert.Equal(t, []int{6, 7, 8, 9, 10, 11}, first)
}
