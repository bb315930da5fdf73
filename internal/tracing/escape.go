package tracing

import (
	"context"

	"github.com/sirkon/csense/internal/cir"
	"github.com/sirkon/csense/internal/symbols"
)

// Options of the escape analysis.
type Options struct {
	// PrimaryCtor switches to analysis of a primary-constructor-like type body.
	PrimaryCtor bool

	// BaseException is the built-in base exception type used for catch-all rethrows.
	BaseException *symbols.Type
}

func (o Options) descend() Descend {
	if o.PrimaryCtor {
		return DescendPrimaryCtor
	}

	return DescendMember
}

func (o Options) withBaseException() Options {
	if o.BaseException == nil {
		o.BaseException = &symbols.Type{Name: "Exception", Namespace: "System", Kind: symbols.TypeKindClass}
	}

	return o
}

// Escape is a set of exception types that can propagate out of a body.
// Types are distinct by identity and kept in the order of discovery.
type Escape struct {
	types []*symbols.Type
	seen  map[*symbols.Type]struct{}
}

func (e *Escape) add(t *symbols.Type) {
	if e.seen == nil {
		e.seen = map[*symbols.Type]struct{}{}
	}
	if _, ok := e.seen[t]; ok {
		return
	}

	e.seen[t] = struct{}{}
	e.types = append(e.types, t)
}

// Types returns escaping types.
func (e Escape) Types() []*symbols.Type {
	return e.types
}

// Len returns the number of escaping types.
func (e Escape) Len() int {
	return len(e.types)
}

// Has checks if the type escapes.
func (e Escape) Has(t *symbols.Type) bool {
	_, ok := e.seen[t]
	return ok
}

// Escapes computes the set of exception types that can escape the indexed body.
func Escapes(ctx context.Context, idx *Index, opts Options) (Escape, error) {
	opts = opts.withBaseException()

	var res Escape
	for i, err := range idx.Walk(ctx, opts.descend()) {
		if err != nil {
			return Escape{}, err
		}

		t := idx.thrownType(i, opts)
		if t == nil {
			continue
		}
		if idx.caught(i, t) {
			continue
		}
		res.add(t)
	}

	return res, nil
}

// Conservative treats every site of the body as escaping. It serves bodies that cannot be indexed.
// Rethrows are typed as the base exception type since their catch clauses are unknown.
func Conservative(body cir.Body, opts Options) Escape {
	opts = opts.withBaseException()

	var res Escape
	for _, e := range body {
		switch v := e.Node.(type) {
		case *cir.Throw:
			if v.Type != nil {
				res.add(v.Type)
			}
		case *cir.Rethrow:
			res.add(opts.BaseException)
		}
	}

	return res
}

// thrownType returns the static type of a throw, or the type declared by the nearest
// enclosing catch clause for a rethrow. It returns nil when there is nothing to type.
func (x *Index) thrownType(i int, opts Options) *symbols.Type {
	switch v := x.body[i].Node.(type) {
	case *cir.Throw:
		return v.Type
	case *cir.Rethrow:
		for p := range x.Ancestors(i) {
			switch a := x.body[p].Node.(type) {
			case *cir.Catch:
				if a.Type == nil {
					return opts.BaseException
				}
				return a.Type
			case cir.Boundary:
				return nil
			}
		}
		return nil
	default:
		return nil
	}
}

// caught checks if some enclosing try construct catches the site of the i-th entry.
func (x *Index) caught(i int, t *symbols.Type) bool {
	site := x.body[i].Span
	for p := range x.Ancestors(i) {
		switch a := x.body[p].Node.(type) {
		case cir.Boundary:
			return false
		case *cir.Try:
			if !a.Protected.Contains(site) {
				// Throws from catch and finally blocks escape the construct.
				continue
			}
			for _, c := range a.Catches {
				if catches(c, t) {
					return true
				}
			}
		}
	}

	return false
}

func catches(c *cir.Catch, t *symbols.Type) bool {
	if c.Filtered {
		return false
	}
	if c.Type == nil {
		return true
	}

	return t.Underlying().InheritsFromOrEquals(c.Type.Underlying())
}
