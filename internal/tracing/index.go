package tracing

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/sirkon/rbtree"

	"github.com/sirkon/csense/internal/cir"
)

// Index holds all CIR nodes of a body arranged into a span containment hierarchy.
type Index struct {
	body    cir.Body
	tree    *rbtree.Tree[*indexNodeSpan]
	parents []int
}

// NewIndex builds containment hierarchy over body entries.
// It fails when two spans partially overlap.
func NewIndex(body cir.Body) (*Index, error) {
	idx := &Index{
		body:    body,
		tree:    rbtree.New[*indexNodeSpan](),
		parents: make([]int, len(body)),
	}

	// Outer spans go first so that every entry finds its container already in place.
	order := make([]int, len(body))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		sa, sb := body[a].Span, body[b].Span
		return cmp.Or(
			cmp.Compare(sa.Start, sb.Start),
			cmp.Compare(sb.End, sa.End),
		)
	})

	for _, i := range order {
		s := body[i].Span
		if s.End < s.Start {
			return nil, fmt.Errorf("entry %d has inverted span %s", i, s)
		}
		if err := idx.add(i); err != nil {
			return nil, fmt.Errorf("add entry %d: %w", i, err)
		}
	}

	for i, e := range body {
		path, ok := pathTo(idx.tree, &indexNodeSpan{start: e.Span.Start, end: e.Span.End, entry: i})
		if !ok {
			return nil, fmt.Errorf("entry %d is lost in the index", i)
		}
		idx.parents[i] = -1
		if len(path) > 0 {
			idx.parents[i] = path[len(path)-1]
		}
	}

	return idx, nil
}

// Add registers an entry with its [start,end] span.
// The RB-tree orders only disjoint spans; any overlap is reported back via
// InsertReturn, and we resolve it into a strict containment hierarchy.
func (x *Index) add(i int) error {
	s := x.body[i].Span
	return attachInto(x.tree, &indexNodeSpan{start: s.Start, end: s.End, entry: i})
}

// Body returns indexed entries.
func (x *Index) Body() cir.Body {
	return x.body
}

// Entry returns the i-th entry.
func (x *Index) Entry(i int) cir.Entry {
	return x.body[i]
}

// Parent returns the innermost entry enclosing the i-th one.
func (x *Index) Parent(i int) (int, bool) {
	p := x.parents[i]
	return p, p >= 0
}

// Ancestors iterates over entries enclosing the i-th one, innermost first.
func (x *Index) Ancestors(i int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for p, ok := x.Parent(i); ok; p, ok = x.Parent(p) {
			if !yield(p) {
				return
			}
		}
	}
}

// At returns the most specific (innermost) entry covering `pos`.
func (x *Index) At(pos int) (cir.Entry, bool) {
	probe := &indexNodeSpan{start: pos, end: pos}
	res := x.tree.Search(probe)
	if res == nil {
		return cir.Entry{}, false
	}

	return x.body[descendSearch(res, pos)], true
}
