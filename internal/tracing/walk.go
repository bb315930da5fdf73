package tracing

import (
	"context"
	"iter"

	"github.com/sirkon/csense/internal/cir"
)

// Descend decides whether a walk enters the subtree of the given node.
type Descend func(cir.Node) bool

// DescendMember is the predicate for member bodies: nested scopes are skipped.
func DescendMember(n cir.Node) bool {
	switch n.(type) {
	case *cir.Lambda, *cir.LocalFunc, *cir.NestedType:
		return false
	default:
		return true
	}
}

// DescendPrimaryCtor is the predicate for type bodies of primary-constructor-like types:
// on top of nested scopes, sibling members and accessors are skipped as they are analyzed
// on their own. Field initializers are entered.
func DescendPrimaryCtor(n cir.Node) bool {
	switch n.(type) {
	case *cir.Member, *cir.Accessor:
		return false
	default:
		return DescendMember(n)
	}
}

// Walk lazily iterates over throw and rethrow sites in document order, skipping those nested
// in nodes descend refuses to enter. The context is checked at every node: once it is done
// the walk yields its error and stops.
func (x *Index) Walk(ctx context.Context, descend Descend) iter.Seq2[int, error] {
	return func(yield func(int, error) bool) {
		// pruned[i]: 0 unknown, 1 reachable, 2 pruned.
		pruned := make([]byte, len(x.body))
		var isPruned func(i int) bool
		isPruned = func(i int) bool {
			switch pruned[i] {
			case 1:
				return false
			case 2:
				return true
			}

			res := false
			if p, ok := x.Parent(i); ok {
				res = isPruned(p) || !descend(x.body[p].Node)
			}
			pruned[i] = 1
			if res {
				pruned[i] = 2
			}
			return res
		}

		for i, e := range x.body {
			if err := ctx.Err(); err != nil {
				yield(-1, err)
				return
			}

			if _, ok := e.Node.(cir.Site); !ok {
				continue
			}
			if isPruned(i) {
				continue
			}
			if !yield(i, nil) {
				return
			}
		}
	}
}
