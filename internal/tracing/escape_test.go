package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirkon/csense/internal/cir"
	"github.com/sirkon/csense/internal/symbols"
)

var (
	excBase = &symbols.Type{Name: "Exception", Namespace: "System", Kind: symbols.TypeKindClass}
	excArg  = &symbols.Type{Name: "ArgumentException", Namespace: "System", Kind: symbols.TypeKindClass, Base: excBase}
	excNull = &symbols.Type{Name: "ArgumentNullException", Namespace: "System", Kind: symbols.TypeKindClass, Base: excArg}
	excIO   = &symbols.Type{Name: "IOException", Namespace: "System.IO", Kind: symbols.TypeKindClass, Base: excBase}
)

func span(start, end int) cir.Span {
	return cir.Span{Start: start, End: end}
}

// tryCatch builds try { <protected> } catch … { <handler> } entries occupying [start, start+99]:
// the protected block is [start, start+49], each catch gets its own slot after it.
func tryCatch(start int, catches ...*cir.Catch) cir.Body {
	try := &cir.Try{Protected: span(start, start+49), Catches: catches}
	body := cir.Body{{Node: try, Span: span(start, start+99)}}
	for i, c := range catches {
		s := start + 50 + i*10
		body = append(body, cir.Entry{Node: c, Span: span(s, s+9)})
	}

	return body
}

func throwAt(t *symbols.Type, pos int) cir.Entry {
	return cir.Entry{Node: &cir.Throw{Type: t}, Span: span(pos, pos+1)}
}

func rethrowAt(pos int) cir.Entry {
	return cir.Entry{Node: &cir.Rethrow{}, Span: span(pos, pos+1)}
}

func join(parts ...cir.Body) cir.Body {
	var res cir.Body
	for _, p := range parts {
		res = append(res, p...)
	}
	return res
}

func TestEscapes(t *testing.T) {
	tests := []struct {
		name        string
		body        cir.Body
		primaryCtor bool
		want        []*symbols.Type
	}{
		{
			name: "plain-throw",
			body: cir.Body{throwAt(excIO, 5)},
			want: []*symbols.Type{excIO},
		},
		{
			name: "untyped-throw",
			body: cir.Body{throwAt(nil, 5)},
		},
		{
			name: "caught-by-same-type",
			body: join(tryCatch(0, &cir.Catch{Type: excIO}), cir.Body{throwAt(excIO, 10)}),
		},
		{
			name: "filtered-catch-does-not-suppress",
			body: join(tryCatch(0, &cir.Catch{Type: excIO, Filtered: true}), cir.Body{throwAt(excIO, 10)}),
			want: []*symbols.Type{excIO},
		},
		{
			name: "catch-all-suppresses",
			body: join(tryCatch(0, &cir.Catch{}), cir.Body{throwAt(excIO, 10)}),
		},
		{
			name: "caught-by-ancestor",
			body: join(tryCatch(0, &cir.Catch{Type: excArg}), cir.Body{throwAt(excNull, 10)}),
		},
		{
			name: "not-caught-by-descendant",
			body: join(tryCatch(0, &cir.Catch{Type: excNull}), cir.Body{throwAt(excArg, 10)}),
			want: []*symbols.Type{excArg},
		},
		{
			name: "rethrow-typed-by-catch",
			body: join(tryCatch(0, &cir.Catch{Type: excIO}), cir.Body{throwAt(excIO, 10), rethrowAt(52)}),
			want: []*symbols.Type{excIO},
		},
		{
			name: "rethrow-from-catch-all-is-base",
			body: join(tryCatch(0, &cir.Catch{}), cir.Body{throwAt(excIO, 10), rethrowAt(52)}),
			want: []*symbols.Type{excBase},
		},
		{
			name: "rethrow-passes-outer-try-without-catches",
			body: join(
				cir.Body{{Node: &cir.Try{Protected: span(0, 199), Catches: nil}, Span: span(0, 299)}},
				tryCatch(10, &cir.Catch{Type: excIO}),
				cir.Body{throwAt(excIO, 20), rethrowAt(62)},
			),
			want: []*symbols.Type{excIO},
		},
		{
			name: "nested-try-propagates-to-outer-catch",
			body: func() cir.Body {
				outerCatch := &cir.Catch{Type: excBase}
				return join(
					cir.Body{
						{Node: &cir.Try{Protected: span(0, 199), Catches: []*cir.Catch{outerCatch}}, Span: span(0, 299)},
						{Node: outerCatch, Span: span(200, 299)},
					},
					tryCatch(10, &cir.Catch{Type: excNull}),
					cir.Body{throwAt(excIO, 20), rethrowAt(62)},
				)
			}(),
		},
		{
			name: "throw-in-finally-escapes",
			body: join(
				tryCatch(0, &cir.Catch{}),
				cir.Body{
					{Node: &cir.Finally{}, Span: span(70, 99)},
					throwAt(excIO, 75),
				},
			),
			want: []*symbols.Type{excIO},
		},
		{
			name: "lambda-and-local-function-are-skipped",
			body: cir.Body{
				{Node: &cir.Lambda{}, Span: span(0, 20)},
				throwAt(excIO, 5),
				{Node: &cir.LocalFunc{Name: "local"}, Span: span(30, 50)},
				throwAt(excArg, 35),
				{Node: &cir.NestedType{Name: "Nested"}, Span: span(60, 80)},
				throwAt(excNull, 65),
			},
		},
		{
			name: "duplicates-are-merged",
			body: cir.Body{throwAt(excIO, 5), throwAt(excIO, 10), throwAt(excArg, 15)},
			want: []*symbols.Type{excIO, excArg},
		},
		{
			name: "primary-ctor-skips-members",
			body: cir.Body{
				{Node: &cir.Field{Name: "field"}, Span: span(0, 20)},
				throwAt(excNull, 5),
				{Node: &cir.Member{Name: "Method", Kind: symbols.DeclKindMethod}, Span: span(30, 50)},
				throwAt(excIO, 35),
				{Node: &cir.Member{Name: "Prop", Kind: symbols.DeclKindProperty}, Span: span(60, 90)},
				{Node: &cir.Accessor{Kind: symbols.AccessorGet}, Span: span(61, 80)},
				throwAt(excArg, 65),
			},
			primaryCtor: true,
			want:        []*symbols.Type{excNull},
		},
		{
			name: "member-mode-enters-members",
			body: cir.Body{
				{Node: &cir.Member{Name: "Method", Kind: symbols.DeclKindMethod}, Span: span(30, 50)},
				throwAt(excIO, 35),
			},
			want: []*symbols.Type{excIO},
		},
		{
			name: "boundary-stops-outward-walk",
			body: join(
				tryCatch(0, &cir.Catch{}),
				cir.Body{
					{Node: &cir.Member{Name: "Inner"}, Span: span(5, 30)},
					throwAt(excIO, 10),
				},
			),
			want: []*symbols.Type{excIO},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := NewIndex(tt.body)
			require.NoError(t, err)

			got, err := Escapes(context.Background(), idx, Options{
				PrimaryCtor:   tt.primaryCtor,
				BaseException: excBase,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Types())
			assert.Equal(t, len(tt.want), got.Len())
			for _, w := range tt.want {
				assert.True(t, got.Has(w))
			}
		})
	}
}

func TestEscapesCancelled(t *testing.T) {
	idx, err := NewIndex(cir.Body{throwAt(excIO, 5)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Escapes(ctx, idx, Options{BaseException: excBase})
	require.ErrorIs(t, err, context.Canceled)
}

func TestEscapesDefaultBaseException(t *testing.T) {
	body := join(tryCatch(0, &cir.Catch{}), cir.Body{rethrowAt(52), rethrowAt(55)})
	idx, err := NewIndex(body)
	require.NoError(t, err)

	got, err := Escapes(context.Background(), idx, Options{})
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, symbols.BaseExceptionName, got.Types()[0].FullName())
}

func TestConservative(t *testing.T) {
	body := cir.Body{
		{Node: &cir.Lambda{}, Span: span(0, 20)},
		throwAt(excIO, 5),
		rethrowAt(30),
		throwAt(nil, 40),
	}

	got := Conservative(body, Options{BaseException: excBase})
	assert.Equal(t, []*symbols.Type{excIO, excBase}, got.Types())
}

func TestWalkStopsEarly(t *testing.T) {
	idx, err := NewIndex(cir.Body{throwAt(excIO, 5), throwAt(excArg, 10), throwAt(excNull, 15)})
	require.NoError(t, err)

	var seen []int
	for i, err := range idx.Walk(context.Background(), DescendMember) {
		require.NoError(t, err)
		seen = append(seen, i)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []int{0, 1}, seen)
}
