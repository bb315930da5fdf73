package tracing

import (
	"fmt"

	"github.com/sirkon/rbtree"
)

// indexNodeSpan stores a [start,end] span for a body entry and, if needed,
// a nested RB-tree for child spans fully contained in this span.
type indexNodeSpan struct {
	start int
	end   int

	entry    int
	children *rbtree.Tree[*indexNodeSpan]
}

// Cmp defines ordering for the RB-tree as "disjoint by position".
// - return -1 if this span is strictly before other (ends before other's start)
// - return  1 if this span is strictly after  other (starts after other's end)
// - return  0 if spans overlap in any way (including containment).
//
// NOTE: Any two overlapping spans must be in a containment relationship.
// Under this invariant, "equal" (0) means either superspan/subspan. The RB-tree
// gives us a handle (`InsertReturn`) to the overlapping node so we can perform the
// containment-structure fix-up ourselves.
func (n *indexNodeSpan) Cmp(other *indexNodeSpan) int {
	if n.end < other.start { // strictly before
		return -1
	}
	if n.start > other.end { // strictly after
		return 1
	}
	return 0 // overlapping (containment or equal boundaries)
}

func contains(a, b *indexNodeSpan) bool {
	return a.start <= b.start && a.end >= b.end
}

// attachInto inserts span s into RB-tree t, using the following containment rules:
//   - If t has no overlapping node, s is inserted as a sibling in t.
//   - If an overlapping node r exists and r contains s, s is attached into r.children.
//     Equal spans go this way too, so the entry added first stays the outer one.
//   - If s contains r, mutate r in-place to become s (so the pointer already present
//     in the tree now represents s), and then re-attach the old r as a child of the new s.
//
// Partial overlaps are reported as errors.
func attachInto(t *rbtree.Tree[*indexNodeSpan], s *indexNodeSpan) error {
	r := t.InsertReturn(s)
	if r == s {
		// Disjoint: brand new entry on this level.
		return nil
	}

	if contains(r, s) {
		if r.children == nil {
			r.children = rbtree.New[*indexNodeSpan]()
		}
		return attachInto(r.children, s)
	}

	if contains(s, r) {
		old := *r
		*r = *s
		r.children = rbtree.New[*indexNodeSpan]()
		return attachInto(r.children, &old)
	}

	return fmt.Errorf("span [%d,%d] partially overlaps [%d,%d]", s.start, s.end, r.start, r.end)
}

// pathTo collects entries of spans enclosing the given entry, outermost first.
func pathTo(t *rbtree.Tree[*indexNodeSpan], probe *indexNodeSpan) ([]int, bool) {
	var path []int
	for t != nil {
		n := t.Search(probe)
		if n == nil {
			return nil, false
		}
		if n.entry == probe.entry {
			return path, true
		}
		path = append(path, n.entry)
		t = n.children
	}

	return nil, false
}

func descendSearch(n *indexNodeSpan, pos int) int {
	if n.children == nil {
		return n.entry
	}
	probe := &indexNodeSpan{start: pos, end: pos}
	child := n.children.Search(probe)
	if child == nil {
		return n.entry
	}

	return descendSearch(child, pos)
}
