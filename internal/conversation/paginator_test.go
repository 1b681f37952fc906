package conversation

import (
	"testing"

	"github.com/zamontech/yaqinbot/internal/entity"
)

func placeSet(n int) []entity.Place {
	out := make([]entity.Place, n)
	for i := range out {
		out[i] = entity.Place{DisplayName: string(rune('A' + i))}
	}
	return out
}

func TestPaginatorStartsAtFirst(t *testing.T) {
	p := NewPaginator(placeSet(3))

	place, ok := p.Current()
	if !ok {
		t.Fatal("expected a current item")
	}
	if place.DisplayName != "A" || p.Cursor() != 0 {
		t.Errorf("got %q at cursor %d, want A at 0", place.DisplayName, p.Cursor())
	}
	if p.HasPrevious() {
		t.Error("expected no previous at the first item")
	}
	if !p.HasNext() {
		t.Error("expected next at the first item")
	}
}

func TestPaginatorClampsAtEdges(t *testing.T) {
	p := NewPaginator(placeSet(2))

	if place, _ := p.Previous(); place.DisplayName != "A" {
		t.Errorf("previous at start moved to %q", place.DisplayName)
	}

	p.Next()
	if place, _ := p.Next(); place.DisplayName != "B" {
		t.Errorf("next at end moved to %q", place.DisplayName)
	}
	if p.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1", p.Cursor())
	}
	if p.HasNext() {
		t.Error("expected no next at the last item")
	}
}

func TestPaginatorEmpty(t *testing.T) {
	p := NewPaginator(nil)

	if _, ok := p.Current(); ok {
		t.Error("expected no current item on an empty set")
	}
	if _, ok := p.Next(); ok {
		t.Error("expected next to report no item on an empty set")
	}
	if p.Len() != 0 || p.HasNext() || p.HasPrevious() {
		t.Error("empty paginator should report no movement")
	}
}

func TestPaginatorSingleItem(t *testing.T) {
	p := NewPaginator(placeSet(1))

	if p.HasNext() || p.HasPrevious() {
		t.Error("single item set should have no paging")
	}
	if place, _ := p.Next(); place.DisplayName != "A" {
		t.Errorf("next on single item moved to %q", place.DisplayName)
	}
}
