package conversation

import "github.com/zamontech/yaqinbot/internal/entity"

// Paginator exposes windowed access over an ordered result set. Movement is
// clamped at both ends; there is no wraparound, so paging past an edge is an
// idempotent no-op.
type Paginator struct {
	results []entity.Place
	cursor  int
}

// NewPaginator wraps a result set with the cursor at the first item.
func NewPaginator(results []entity.Place) *Paginator {
	return &Paginator{results: results}
}

// Current returns the item under the cursor, or false on an empty set.
func (p *Paginator) Current() (entity.Place, bool) {
	if p == nil || len(p.results) == 0 {
		return entity.Place{}, false
	}
	return p.results[p.cursor], true
}

// Next advances the cursor, clamped to the last index.
func (p *Paginator) Next() (entity.Place, bool) {
	if p == nil || len(p.results) == 0 {
		return entity.Place{}, false
	}
	if p.cursor < len(p.results)-1 {
		p.cursor++
	}
	return p.results[p.cursor], true
}

// Previous decrements the cursor, clamped to zero.
func (p *Paginator) Previous() (entity.Place, bool) {
	if p == nil || len(p.results) == 0 {
		return entity.Place{}, false
	}
	if p.cursor > 0 {
		p.cursor--
	}
	return p.results[p.cursor], true
}

// Cursor reports the current index; meaningful only when Len is non-zero.
func (p *Paginator) Cursor() int {
	if p == nil {
		return 0
	}
	return p.cursor
}

// Len reports the result count.
func (p *Paginator) Len() int {
	if p == nil {
		return 0
	}
	return len(p.results)
}

// HasNext reports whether Next would move the cursor.
func (p *Paginator) HasNext() bool {
	return p != nil && p.cursor < len(p.results)-1
}

// HasPrevious reports whether Previous would move the cursor.
func (p *Paginator) HasPrevious() bool {
	return p != nil && p.cursor > 0
}
