package symdump

import (
	"github.com/sirkon/csense/internal/cir"
	"github.com/sirkon/csense/internal/symbols"
)

// spanner lays out body constructs: every construct takes a position at its start and at its end,
// nested constructs take positions in between.
type spanner struct {
	u     *Unit
	scope *symbols.Decl
	pos   int
	out   cir.Body
}

func (u *Unit) flatten(nodes []bodyNode, scope *symbols.Decl) cir.Body {
	s := &spanner{u: u, scope: scope}
	s.nodes(nodes)
	return s.out
}

func (s *spanner) next() int {
	s.pos++
	return s.pos - 1
}

func (s *spanner) nodes(nodes []bodyNode) {
	for _, n := range nodes {
		s.node(n)
	}
}

// enclose places node around constructs produced by inner.
func (s *spanner) enclose(node cir.Node, inner func()) cir.Span {
	start := s.next()
	i := len(s.out)
	s.out = append(s.out, cir.Entry{Node: node})
	inner()
	span := cir.Span{Start: start, End: s.next()}
	s.out[i].Span = span

	return span
}

func (s *spanner) node(n bodyNode) {
	switch n.kind {
	case nodeThrow:
		s.enclose(&cir.Throw{Type: s.u.resolveType(n.typ, s.scope)}, func() {})

	case nodeRethrow:
		s.enclose(&cir.Rethrow{}, func() {})

	case nodeTry:
		try := &cir.Try{}
		s.enclose(try, func() {
			start := s.next()
			s.nodes(n.body)
			try.Protected = cir.Span{Start: start, End: s.next()}

			for _, c := range n.catches {
				catch := &cir.Catch{Type: s.u.resolveType(c.typ, s.scope), Filtered: c.filtered}
				try.Catches = append(try.Catches, catch)
				s.enclose(catch, func() { s.nodes(c.body) })
			}
			if len(n.finally) > 0 {
				s.enclose(&cir.Finally{}, func() { s.nodes(n.finally) })
			}
		})

	case nodeLambda:
		s.enclose(&cir.Lambda{}, func() { s.nodes(n.body) })

	case nodeLocalFunc:
		s.enclose(&cir.LocalFunc{Name: n.name}, func() { s.nodes(n.body) })

	case nodeNestedType:
		s.enclose(&cir.NestedType{Name: n.name}, func() { s.nodes(n.body) })

	case nodeMember:
		s.enclose(&cir.Member{Name: n.name, Kind: n.member}, func() { s.nodes(n.body) })

	case nodeAccessor:
		s.enclose(&cir.Accessor{Kind: n.accessor}, func() { s.nodes(n.body) })

	case nodeField:
		s.enclose(&cir.Field{Name: n.name}, func() { s.nodes(n.body) })
	}
}
