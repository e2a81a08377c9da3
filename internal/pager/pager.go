// Package pager implements the mailbox pagination window: a zero-based page
// index over a collection whose size can change underneath it (bulk deletes,
// folder refreshes). All display bounds are recomputed from page, pageSize
// and total; nothing is cached.
package pager

import "iter"

// Pager tracks the visible slice of a collection of total items, pageSize
// items at a time.
//
// Invariants, holding after any sequence of operations:
//
//	0 <= page <= max(0, PageCount()-1)
//	1 <= PageFrom() <= PageTo() <= total   (both 0 when total == 0)
//	PageTo() - PageFrom() + 1 <= pageSize
type Pager struct {
	page     int
	pageSize int
	total    int
}

// New creates a pager on page 0. Sizes below 1 are coerced to 1.
func New(pageSize int) Pager {
	if pageSize < 1 {
		pageSize = 1
	}
	return Pager{pageSize: pageSize}
}

// PageSize returns the fixed page size.
func (p Pager) PageSize() int { return p.pageSize }

// Page returns the current zero-based page index.
func (p Pager) Page() int { return p.page }

// Total returns the current collection size.
func (p Pager) Total() int { return p.total }

// PageCount returns ceil(total/pageSize), 0 for an empty collection.
func (p Pager) PageCount() int {
	return (p.total + p.pageSize - 1) / p.pageSize
}

// SetTotal records a new collection size and clamps the page index back
// into range. Deleting every item on the last page must not leave the
// window pointing past the end.
func (p *Pager) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	p.total = total
	if last := p.PageCount() - 1; p.page > last {
		if last < 0 {
			last = 0
		}
		p.page = last
	}
}

// Reset returns to page 0 with the given total, for folder switches.
func (p *Pager) Reset(total int) {
	p.page = 0
	p.SetTotal(total)
}

// PageFrom returns the 1-based index of the first visible item, 0 when the
// collection is empty.
func (p Pager) PageFrom() int {
	if p.total == 0 {
		return 0
	}
	return p.page*p.pageSize + 1
}

// PageTo returns the 1-based index of the last visible item, exactly total
// on a partial final page, 0 when the collection is empty.
func (p Pager) PageTo() int {
	if p.total == 0 {
		return 0
	}
	to := (p.page + 1) * p.pageSize
	if to > p.total {
		to = p.total
	}
	return to
}

// PageLeft moves one page back. No-op on page 0. Reports whether the page
// changed.
func (p *Pager) PageLeft() bool {
	if p.page == 0 {
		return false
	}
	p.page--
	return true
}

// PageRight moves one page forward. No-op on the last page or when the
// collection is empty. Reports whether the page changed.
func (p *Pager) PageRight() bool {
	if p.page >= p.PageCount()-1 {
		return false
	}
	p.page++
	return true
}

// VisibleIndices returns the zero-based offsets of the items on the current
// page as a finite, restartable sequence. The range is recomputed from page
// and total on every call; callers must not hold on to a stale sequence
// across mutations of the collection.
func (p Pager) VisibleIndices() iter.Seq[int] {
	start := p.page * p.pageSize
	end := start + p.pageSize
	if end > p.total {
		end = p.total
	}
	return func(yield func(int) bool) {
		for i := start; i < end; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// RangeLabel returns the "from-to of total" display bounds.
func (p Pager) RangeLabel() (from, to, total int) {
	return p.PageFrom(), p.PageTo(), p.total
}
