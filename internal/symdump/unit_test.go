package symdump

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirkon/csense/internal/cir"
	"github.com/sirkon/csense/internal/crefs"
	"github.com/sirkon/csense/internal/csense"
	"github.com/sirkon/csense/internal/symbols"
	"github.com/sirkon/csense/internal/tracing"
)

var _ csense.Unit = (*Unit)(nil)

const sample = `
unit: Sample
options:
  comment_sense.analyze_internal: "true"
types:
  - name: StorageException
    namespace: Sample.IO
    base: System.IO.IOException
declarations:
  - name: Sample
    kind: namespace
    members:
      - name: Store
        kind: type
        location: Store.cs:3:5
        members:
          - name: Store
            kind: constructor
            location: Store.cs:5:9
          - name: Load
            kind: method
            location: Store.cs:12:9
            returns: string
            params: [{name: key, type: string}]
            doc: <summary>Loads a value.</summary>
            body:
              - try:
                  body:
                    - throw: Sample.IO.StorageException
                  catches:
                    - type: System.IO.IOException
                      filtered: true
                      body: [rethrow]
              - lambda:
                  - throw: ArgumentException
          - name: Load
            kind: method
            location: Store.cs:20:9
            returns: Task<int>
            params: [{name: key, type: string}, {name: attempts, type: int}]
          - name: Find
            kind: method
            location: Store.cs:30:9
            type_params: [T]
            returns: T
            params: [{name: items, type: List<T>}]
          - name: Count
            kind: property
            type: long
            getter: true
          - name: Internal
            kind: method
            access: internal
            returns: void
`

func parseSample(t *testing.T) *Unit {
	t.Helper()

	u, err := Parse([]byte(sample), "fallback")
	require.NoError(t, err)
	return u
}

func declByPath(t *testing.T, u *Unit, qualified string, n int) *symbols.Decl {
	t.Helper()

	var found []*symbols.Decl
	for _, d := range u.Declarations() {
		if u.QualifiedName(d) == qualified {
			found = append(found, d)
		}
	}
	require.Greater(t, len(found), n, "declaration %s #%d", qualified, n)
	return found[n]
}

func TestParse(t *testing.T) {
	u := parseSample(t)

	assert.Equal(t, "Sample", u.ID())
	assert.Equal(t, map[string]string{"comment_sense.analyze_internal": "true"}, u.Options())

	var names []string
	for _, d := range u.Declarations() {
		names = append(names, u.QualifiedName(d))
	}
	assert.Equal(t, []string{
		"Sample",
		"Sample.Store",
		"Sample.Store.Store",
		"Sample.Store.Load",
		"Sample.Store.Load",
		"Sample.Store.Find",
		"Sample.Store.Count",
		"Sample.Store.Internal",
	}, names)

	ns := declByPath(t, u, "Sample", 0)
	assert.Equal(t, symbols.Access(0), ns.Access)

	internal := declByPath(t, u, "Sample.Store.Internal", 0)
	assert.Equal(t, symbols.AccessInternal, internal.Access)

	load := declByPath(t, u, "Sample.Store.Load", 0)
	assert.Equal(t, symbols.Location{File: "Store.cs", Line: 12, Column: 9}, load.Primary())
	assert.Equal(t, "<summary>Loads a value.</summary>", load.Doc)
	info, ok := load.Info.(*symbols.MethodInfo)
	require.True(t, ok)
	assert.Equal(t, symbols.ReturnValue, info.Return.Class)
	assert.Equal(t, "System.String", info.Return.Type.FullName())
	require.Len(t, load.Params(), 1)
	assert.Equal(t, "key", load.Params()[0].Name)
	assert.Same(t, load, load.Params()[0].Parent)

	async := declByPath(t, u, "Sample.Store.Load", 1)
	ainfo := async.Info.(*symbols.MethodInfo)
	assert.Equal(t, symbols.ReturnAsync, ainfo.Return.Class)
	assert.Equal(t, "System.Int32", ainfo.Return.Payload.FullName())
	assert.Equal(t, "Task<Int32>", ainfo.Return.Type.DisplayName())

	find := declByPath(t, u, "Sample.Store.Find", 0)
	finfo := find.Info.(*symbols.MethodInfo)
	require.Len(t, find.TypeParams(), 1)
	assert.Equal(t, "T", find.TypeParams()[0].Name)
	assert.Equal(t, symbols.TypeKindTypeParameter, finfo.Return.Type.Kind)
	items := find.Params()[0].Info.(*symbols.ParamInfo)
	assert.Equal(t, symbols.TypeKindUnresolved, items.Type.Kind)
	assert.Same(t, finfo.Return.Type, items.Type.TypeArgs[0])

	count := declByPath(t, u, "Sample.Store.Count", 0)
	pinfo := count.Info.(*symbols.PropertyInfo)
	assert.True(t, pinfo.HasGetter)
	assert.False(t, pinfo.HasSetter)
	assert.Equal(t, "System.Int64", pinfo.Type.FullName())

	store := declByPath(t, u, "Sample.Store", 0)
	sinfo := store.Info.(*symbols.TypeInfo)
	assert.Equal(t, "Sample.Store", sinfo.Type.FullName())
	assert.Same(t, sinfo.Type, u.ByQualifiedName("Sample.Store"))

	storage := u.ByQualifiedName("Sample.IO.StorageException")
	require.NotNil(t, storage)
	assert.True(t, storage.IsException())
	assert.True(t, storage.InheritsFromOrEquals(u.ByQualifiedName("System.IO.IOException")))
}

func TestParseDefaultID(t *testing.T) {
	u, err := Parse([]byte("declarations: []\n"), "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", u.ID())
	assert.Empty(t, u.Declarations())

	u, err = Parse(nil, "empty")
	require.NoError(t, err)
	assert.Equal(t, "empty", u.ID())
}

func TestBodySpans(t *testing.T) {
	u := parseSample(t)
	load := declByPath(t, u, "Sample.Store.Load", 0)
	body := u.Body(load)
	require.Len(t, body, 6)

	try, ok := body[0].Node.(*cir.Try)
	require.True(t, ok)
	throw, ok := body[1].Node.(*cir.Throw)
	require.True(t, ok)
	catch, ok := body[2].Node.(*cir.Catch)
	require.True(t, ok)
	_, ok = body[3].Node.(*cir.Rethrow)
	require.True(t, ok)
	_, ok = body[4].Node.(*cir.Lambda)
	require.True(t, ok)
	lambdaThrow, ok := body[5].Node.(*cir.Throw)
	require.True(t, ok)

	assert.Equal(t, "Sample.IO.StorageException", throw.Type.FullName())
	assert.Equal(t, "System.ArgumentException", lambdaThrow.Type.FullName())
	assert.True(t, catch.Filtered)
	assert.Equal(t, []*cir.Catch{catch}, try.Catches)

	assert.True(t, body[0].Span.Contains(try.Protected))
	assert.True(t, try.Protected.Contains(body[1].Span))
	assert.False(t, try.Protected.Contains(body[2].Span))
	assert.True(t, body[2].Span.Contains(body[3].Span))
	assert.True(t, body[4].Span.Contains(body[5].Span))
	assert.False(t, body[0].Span.Contains(body[4].Span))

	for i, e := range body {
		for j, o := range body {
			if i == j {
				continue
			}
			disjoint := e.Span.End < o.Span.Start || o.Span.End < e.Span.Start
			nested := e.Span.Contains(o.Span) || o.Span.Contains(e.Span)
			assert.True(t, disjoint || nested, "%s and %s overlap", e.Span, o.Span)
		}
	}
}

func TestBodyEscapes(t *testing.T) {
	u := parseSample(t)
	load := declByPath(t, u, "Sample.Store.Load", 0)

	idx, err := tracing.NewIndex(u.Body(load))
	require.NoError(t, err)
	esc, err := tracing.Escapes(context.Background(), idx, tracing.Options{
		BaseException: u.ByQualifiedName(symbols.BaseExceptionName),
	})
	require.NoError(t, err)

	// The filtered catch lets the exception through and rethrows the caught type.
	// The lambda body is out of scope.
	var got []string
	for _, typ := range esc.Types() {
		got = append(got, typ.FullName())
	}
	assert.Equal(t, []string{"Sample.IO.StorageException", "System.IO.IOException"}, got)
}

func TestByID(t *testing.T) {
	u := parseSample(t)
	load0 := declByPath(t, u, "Sample.Store.Load", 0)
	load1 := declByPath(t, u, "Sample.Store.Load", 1)
	ctor := declByPath(t, u, "Sample.Store.Store", 0)

	tests := []struct {
		name string
		id   string
		want []crefs.Symbol
	}{
		{
			name: "type",
			id:   "T:Sample.IO.StorageException",
			want: []crefs.Symbol{{Type: u.ByQualifiedName("Sample.IO.StorageException")}},
		},
		{
			name: "builtin-type",
			id:   "T:System.IO.IOException",
			want: []crefs.Symbol{{Type: u.ByQualifiedName("System.IO.IOException")}},
		},
		{
			name: "method-group",
			id:   "M:Sample.Store.Load",
			want: []crefs.Symbol{{Decl: load0}, {Decl: load1}},
		},
		{
			name: "overload",
			id:   "M:Sample.Store.Load(System.String,System.Int32)",
			want: []crefs.Symbol{{Decl: load1}},
		},
		{
			name: "overload-keyword",
			id:   "M:Sample.Store.Load(string)",
			want: []crefs.Symbol{{Decl: load0}},
		},
		{
			name: "constructor",
			id:   "M:Sample.Store.#ctor",
			want: []crefs.Symbol{{Decl: ctor}},
		},
		{
			name: "property",
			id:   "P:Sample.Store.Count",
			want: []crefs.Symbol{{Decl: declByPath(t, u, "Sample.Store.Count", 0)}},
		},
		{
			name: "kind-mismatch",
			id:   "P:Sample.Store.Load",
		},
		{
			name: "declared-type",
			id:   "T:Sample.Store",
			want: []crefs.Symbol{{Type: u.ByQualifiedName("Sample.Store")}},
		},
		{
			name: "arity-mismatch",
			id:   "T:Sample.Store`1",
		},
		{
			name: "missing",
			id:   "T:Sample.Nowhere",
		},
		{
			name: "no-prefix",
			id:   "Sample.Store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, u.ByID(tt.id))
		})
	}
}

func TestBind(t *testing.T) {
	u := parseSample(t)
	find := declByPath(t, u, "Sample.Store.Find", 0)
	load := declByPath(t, u, "Sample.Store.Load", 0)

	got := u.Bind("T", find)
	require.Len(t, got, 1)
	assert.Equal(t, symbols.TypeKindTypeParameter, got[0].Type.Kind)

	assert.Empty(t, u.Bind("T", load))

	got = u.Bind("Count", load)
	require.Len(t, got, 1)
	assert.Equal(t, "Count", got[0].Decl.Name)

	assert.Len(t, u.Bind("Load(string)", find), 2)

	got = u.Bind("Store", load)
	require.Len(t, got, 1)
	assert.Equal(t, symbols.DeclKindConstructor, got[0].Decl.Kind)

	got = u.Bind("IO.StorageException", load)
	require.Len(t, got, 1)
	assert.Equal(t, "Sample.IO.StorageException", got[0].Type.FullName())

	got = u.Bind("string", load)
	require.Len(t, got, 1)
	assert.Equal(t, "System.String", got[0].Type.FullName())

	got = u.Bind("InvalidOperationException", load)
	require.Len(t, got, 1)
	assert.Equal(t, "System.InvalidOperationException", got[0].Type.FullName())

	assert.Empty(t, u.Bind("StorageException", load))
	assert.Equal(t, []*symbols.Type{u.ByQualifiedName("Sample.IO.StorageException")}, u.TypesBySimpleName("StorageException"))
}

func TestResolveThroughTable(t *testing.T) {
	u := parseSample(t)
	load := declByPath(t, u, "Sample.Store.Load", 0)

	res := crefs.Resolve(u, "StorageException", load)
	require.Equal(t, crefs.Resolved, res.Outcome)
	assert.Equal(t, "Sample.IO.StorageException", res.Symbol.AsType().FullName())

	res = crefs.Resolve(u, "M:Sample.Store.Load", load)
	assert.Equal(t, crefs.Ambiguous, res.Outcome)

	res = crefs.Resolve(u, "Missing", load)
	assert.Equal(t, crefs.Unresolved, res.Outcome)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "unknown-construct",
			data: "declarations: [{name: M, kind: method, body: [{loop: x}]}]",
		},
		{
			name: "unknown-scalar-construct",
			data: "declarations: [{name: M, kind: method, body: [loop]}]",
		},
		{
			name: "multi-key-construct",
			data: "declarations: [{name: M, kind: method, body: [{throw: X, rethrow: null}]}]",
		},
		{
			name: "throw-mapping",
			data: "declarations: [{name: M, kind: method, body: [{throw: {type: X}}]}]",
		},
		{
			name: "unknown-kind",
			data: "declarations: [{name: M, kind: macro}]",
		},
		{
			name: "missing-kind",
			data: "declarations: [{name: M}]",
		},
		{
			name: "missing-name",
			data: "declarations: [{kind: method}]",
		},
		{
			name: "duplicate-type",
			data: "types: [{name: E, namespace: N}, {name: E, namespace: N}]",
		},
		{
			name: "type-clashes-with-declaration",
			data: "types: [{name: E, namespace: N}]\ndeclarations: [{name: N, kind: namespace, members: [{name: E, kind: type}]}]",
		},
		{
			name: "unknown-field",
			data: "declarations: [{name: M, kind: method, bogus: 1}]",
		},
		{
			name: "bad-location",
			data: "declarations: [{name: M, kind: method, location: ':12'}]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "test")
			require.Error(t, err)
		})
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in   string
		want symbols.Location
	}{
		{"", symbols.Location{}},
		{"a.cs", symbols.Location{File: "a.cs"}},
		{"a.cs:7", symbols.Location{File: "a.cs", Line: 7}},
		{"a.cs:7:3", symbols.Location{File: "a.cs", Line: 7, Column: 3}},
		{`C:\src\a.cs:7:3`, symbols.Location{File: `C:\src\a.cs`, Line: 7, Column: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLocation(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, os.WriteFile(path, []byte("declarations: []\n"), 0o644))

	u, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sample.yaml", u.ID())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
