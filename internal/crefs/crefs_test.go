package crefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirkon/csense/internal/symbols"
)

type fakeTable struct {
	ids   map[string][]Symbol
	binds map[string][]Symbol
	types []*symbols.Type
}

func (f *fakeTable) ByID(id string) []Symbol { return f.ids[id] }

func (f *fakeTable) Bind(name string, _ *symbols.Decl) []Symbol { return f.binds[name] }

func (f *fakeTable) ByQualifiedName(name string) *symbols.Type {
	for _, t := range f.types {
		if t.FullName() == name {
			return t
		}
	}
	return nil
}

func (f *fakeTable) TypesBySimpleName(name string) []*symbols.Type {
	var res []*symbols.Type
	for _, t := range f.types {
		if t.Name == name {
			res = append(res, t)
		}
	}
	return res
}

var (
	object   = &symbols.Type{Name: "Object", Namespace: "System", Kind: symbols.TypeKindClass}
	excBase  = &symbols.Type{Name: "Exception", Namespace: "System", Kind: symbols.TypeKindClass, Base: object}
	excIO    = &symbols.Type{Name: "IOException", Namespace: "System.IO", Kind: symbols.TypeKindClass, Base: excBase}
	str      = &symbols.Type{Name: "String", Namespace: "System", Kind: symbols.TypeKindClass, Base: object}
	tparam   = &symbols.Type{Name: "TErr", Kind: symbols.TypeKindTypeParameter}
	missing  = &symbols.Type{Name: "Nowhere", Kind: symbols.TypeKindUnresolved}
	ioAlias  = &symbols.Type{Name: "IOErr", Kind: symbols.TypeKindAlias, Target: excIO}
	strAlias = &symbols.Type{Name: "Str", Kind: symbols.TypeKindAlias, Target: str}
	listT    = &symbols.Type{Name: "List", Namespace: "System.Collections.Generic", Kind: symbols.TypeKindClass,
		TypeArgs: []*symbols.Type{{Name: "T", Kind: symbols.TypeKindTypeParameter}}}
	dupA      = &symbols.Type{Name: "Dup", Namespace: "A", Kind: symbols.TypeKindClass}
	dupB      = &symbols.Type{Name: "Dup", Namespace: "B", Kind: symbols.TypeKindClass}
	synthetic = &symbols.Type{Name: "Hidden", Namespace: "X", Kind: symbols.TypeKindClass, Synthetic: true}
	method    = &symbols.Decl{Name: "Run", Kind: symbols.DeclKindMethod, Info: &symbols.MethodInfo{}}
)

func table() *fakeTable {
	return &fakeTable{
		ids: map[string][]Symbol{
			"T:System.IO.IOException": {{Type: excIO}},
			"M:Foo.Run":               {{Decl: method}},
		},
		binds: map[string][]Symbol{
			"IOException": {{Type: excIO}},
			"String":      {{Type: str}},
			"TErr":        {{Type: tparam}},
			"Nowhere":     {{Type: missing}},
			"IOErr":       {{Type: ioAlias}},
			"Str":         {{Type: strAlias}},
			"Run":         {{Decl: method}},
			"Overloaded":  {{Decl: method}, {Decl: method}},
		},
		types: []*symbols.Type{excBase, excIO, str, listT, dupA, dupB, synthetic},
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		cref    string
		outcome Outcome
		want    *symbols.Type
	}{
		{name: "by-id", cref: "T:System.IO.IOException", outcome: Resolved, want: excIO},
		{name: "bound", cref: "IOException", outcome: Resolved, want: excIO},
		{name: "qualified-fallback", cref: "System.Exception", outcome: Resolved, want: excBase},
		{name: "prefixed-qualified-fallback", cref: "T:System.String", outcome: Resolved, want: str},
		{name: "simple-name-fallback", cref: "E:Some.Where.Exception", outcome: Resolved, want: excBase},
		{name: "generic-display-name", cref: "List{T}", outcome: Resolved, want: listT},
		{name: "generic-qualified", cref: "System.Collections.Generic.List{T}", outcome: Resolved, want: listT},
		{name: "generic-arity-id", cref: "T:System.Collections.Generic.List`1", outcome: Resolved, want: listT},
		{name: "generic-arity-mismatch", cref: "T:System.String{T}", outcome: Unresolved},
		{name: "non-generic-of-generic", cref: "System.Collections.Generic.List", outcome: Unresolved},
		{name: "ambiguous-bind", cref: "Overloaded", outcome: Ambiguous},
		{name: "ambiguous-simple-name", cref: "Dup", outcome: Ambiguous},
		{name: "synthetic-skipped", cref: "Hidden", outcome: Unresolved},
		{name: "unresolved", cref: "NoSuchThing", outcome: Unresolved},
		{name: "empty", cref: "  ", outcome: Unresolved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(table(), tt.cref, nil)
			require.Equal(t, tt.outcome, res.Outcome, res.Outcome.String())
			if tt.want != nil {
				assert.Equal(t, tt.want, res.Symbol.AsType())
			}
		})
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name        string
		cref        string
		inException bool
		want        Verdict
	}{
		{name: "plain-resolved", cref: "String", want: Valid},
		{name: "plain-unresolved", cref: "Nope", want: UnresolvedRef},
		{name: "exception-unresolved", cref: "Nope", inException: true, want: UnresolvedRef},
		{name: "exception-ok", cref: "IOException", inException: true, want: Valid},
		{name: "exception-base", cref: "System.Exception", inException: true, want: Valid},
		{name: "exception-not-exception", cref: "String", inException: true, want: InvalidException},
		{name: "exception-type-parameter", cref: "TErr", inException: true, want: Valid},
		{name: "exception-placeholder", cref: "Nowhere", inException: true, want: Valid},
		{name: "exception-alias", cref: "IOErr", inException: true, want: Valid},
		{name: "exception-alias-not-exception", cref: "Str", inException: true, want: InvalidException},
		{name: "exception-member", cref: "Run", inException: true, want: InvalidException},
		{name: "exception-ambiguous-excused", cref: "Overloaded", inException: true, want: Valid},
		{name: "member", cref: "M:Foo.Run", want: Valid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(Resolve(table(), tt.cref, nil), tt.inException))
		})
	}
}

func TestDocumentedType(t *testing.T) {
	assert.Equal(t, excIO, DocumentedType(Resolve(table(), "IOErr", nil)))
	assert.Nil(t, DocumentedType(Resolve(table(), "Overloaded", nil)))
	assert.Same(t, dupA, DocumentedType(Resolve(table(), "Dup", nil)))
	assert.Nil(t, DocumentedType(Resolve(table(), "Run", nil)))
}

func TestNameHelpers(t *testing.T) {
	assert.Equal(t, "System.Collections.Generic.List", genericName("System.Collections.Generic.List{T}"))
	assert.Equal(t, 1, genericArity("System.Collections.Generic.List{T}"))
	assert.Equal(t, 2, genericArity("System.Dictionary{TKey,List{TValue}}"))
	assert.Equal(t, 2, genericArity("System.Collections.Generic.Dictionary`2"))
	assert.Equal(t, 0, genericArity("System.String"))
	assert.Equal(t, "Foo.Run", genericName("Foo.Run(System.Int32)"))
	assert.Equal(t, "Dictionary{TKey,TValue}", lastSegment("System.Dictionary{TKey,TValue}"))
	assert.Equal(t, "Dictionary<TKey, TValue>", displayName("Dictionary{TKey,TValue}"))
	assert.Equal(t, "Dictionary", simpleName("Dictionary<TKey, TValue>"))
	assert.Equal(t, "Run", lastSegment("Foo.Run(System.Int32)"))
}
