package csense

import (
	"github.com/sirkon/csense/internal/cir"
	"github.com/sirkon/csense/internal/config"
	"github.com/sirkon/csense/internal/crefs"
	"github.com/sirkon/csense/internal/csrules"
	"github.com/sirkon/csense/internal/report"
	"github.com/sirkon/csense/internal/symbols"
)

var (
	tObject  = &symbols.Type{Name: "Object", Namespace: "System", Kind: symbols.TypeKindClass}
	tInt     = &symbols.Type{Name: "Int32", Namespace: "System", Kind: symbols.TypeKindStruct, Base: tObject}
	tString  = &symbols.Type{Name: "String", Namespace: "System", Kind: symbols.TypeKindClass, Base: tObject}
	tVoid    = &symbols.Type{Name: "Void", Namespace: "System", Kind: symbols.TypeKindVoid}
	tExc     = &symbols.Type{Name: "Exception", Namespace: "System", Kind: symbols.TypeKindClass, Base: tObject}
	tArg     = &symbols.Type{Name: "ArgumentException", Namespace: "System", Kind: symbols.TypeKindClass, Base: tExc}
	tArgNull = &symbols.Type{Name: "ArgumentNullException", Namespace: "System", Kind: symbols.TypeKindClass, Base: tArg}
	tIO      = &symbols.Type{Name: "IOException", Namespace: "System.IO", Kind: symbols.TypeKindClass, Base: tExc}
	tTaskInt = &symbols.Type{Name: "Task", Namespace: "System.Threading.Tasks", Kind: symbols.TypeKindClass,
		TypeArgs: []*symbols.Type{tInt}}
)

// fakeHost is an in-memory host.
type fakeHost struct {
	id     string
	decls  []*symbols.Decl
	bodies map[*symbols.Decl]cir.Body
	opts   map[string]string
	types  []*symbols.Type
}

func newHost(decls ...*symbols.Decl) *fakeHost {
	return &fakeHost{
		id:     "unit",
		decls:  decls,
		bodies: map[*symbols.Decl]cir.Body{},
		types:  []*symbols.Type{tObject, tInt, tString, tExc, tArg, tArgNull, tIO},
	}
}

func (h *fakeHost) ID() string                         { return h.id }
func (h *fakeHost) Declarations() []*symbols.Decl      { return h.decls }
func (h *fakeHost) Options() map[string]string         { return h.opts }
func (h *fakeHost) Body(d *symbols.Decl) cir.Body      { return h.bodies[d] }
func (h *fakeHost) ByID(id string) []crefs.Symbol      { return nil }
func (h *fakeHost) Bind(name string, _ *symbols.Decl) []crefs.Symbol {
	for _, t := range h.types {
		if t.Name == name {
			return []crefs.Symbol{{Type: t}}
		}
	}
	return nil
}

func (h *fakeHost) ByQualifiedName(name string) *symbols.Type {
	for _, t := range h.types {
		if t.FullName() == name {
			return t
		}
	}
	return nil
}

func (h *fakeHost) TypesBySimpleName(name string) []*symbols.Type {
	var res []*symbols.Type
	for _, t := range h.types {
		if t.Name == name {
			res = append(res, t)
		}
	}
	return res
}

var _ Unit = (*fakeHost)(nil)

func loc(line int) []symbols.Location {
	return []symbols.Location{{File: "Lib.cs", Line: line, Column: 5}}
}

func params(line int, names ...string) []*symbols.Decl {
	res := make([]*symbols.Decl, len(names))
	for i, n := range names {
		res[i] = &symbols.Decl{
			Name:      n,
			Kind:      symbols.DeclKindParameter,
			Locations: loc(line + i + 1),
			Info:      &symbols.ParamInfo{Type: tInt},
		}
	}
	return res
}

func typeParams(line int, names ...string) []*symbols.Decl {
	res := params(line, names...)
	for _, p := range res {
		p.Kind = symbols.DeclKindTypeParameter
		p.Info = nil
	}
	return res
}

func methodDecl(name, doc string, ret *symbols.Type, ps ...string) *symbols.Decl {
	return &symbols.Decl{
		Name:      name,
		Kind:      symbols.DeclKindMethod,
		Access:    symbols.AccessPublic,
		Locations: loc(10),
		Doc:       doc,
		Info: &symbols.MethodInfo{
			Params: params(10, ps...),
			Return: symbols.ClassifyReturn(ret),
		},
	}
}

func propertyDecl(name, doc string, typ *symbols.Type, getter, setter bool) *symbols.Decl {
	return &symbols.Decl{
		Name:      name,
		Kind:      symbols.DeclKindProperty,
		Access:    symbols.AccessPublic,
		Locations: loc(20),
		Doc:       doc,
		Info:      &symbols.PropertyInfo{Type: typ, HasGetter: getter, HasSetter: setter},
	}
}

func withOptions(raw map[string]string) *config.Options {
	var c config.Cache
	return c.Resolve("test", raw)
}

// codes renders findings as "RULE:arg,arg" entries in order.
func codes(fs []report.Finding) []string {
	res := make([]string, 0, len(fs))
	for _, f := range fs {
		s := f.Rule.String() + ":"
		for i, a := range f.Args {
			if i > 0 {
				s += ","
			}
			s += a
		}
		res = append(res, s)
	}
	return res
}

func count(fs []report.Finding, r csrules.Rule) int {
	n := 0
	for _, f := range fs {
		if f.Rule == r {
			n++
		}
	}
	return n
}
