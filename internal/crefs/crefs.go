// Package crefs resolves cref references of documentation against the host symbol table.
package crefs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirkon/csense/internal/symbols"
)

// Table is the host symbol table as seen by the resolver.
type Table interface {
	// ByID looks up a prefixed documentation ID, such as "T:System.IO.IOException".
	ByID(id string) []Symbol

	// Bind binds a name as it would be bound in source code at the given declaration.
	Bind(name string, scope *symbols.Decl) []Symbol

	// ByQualifiedName looks up a type by its namespace-qualified name.
	ByQualifiedName(name string) *symbols.Type

	// TypesBySimpleName returns all types having the given simple name.
	TypesBySimpleName(name string) []*symbols.Type
}

// Symbol is a resolution candidate: either a type or a declaration.
type Symbol struct {
	Type *symbols.Type
	Decl *symbols.Decl
}

// AsType returns the type the symbol denotes, nil for non-type declarations.
func (s Symbol) AsType() *symbols.Type {
	if s.Type != nil {
		return s.Type
	}
	if s.Decl == nil {
		return nil
	}

	switch v := s.Decl.Info.(type) {
	case *symbols.TypeInfo:
		return v.Type
	case *symbols.MethodInfo, *symbols.PropertyInfo, *symbols.FieldInfo,
		*symbols.EventInfo, *symbols.AccessorInfo, *symbols.ParamInfo, nil:
		return nil
	default:
		panic(fmt.Errorf("unsupported declaration info %T", v))
	}
}

func (s Symbol) String() string {
	switch {
	case s.Type != nil:
		return s.Type.FullName()
	case s.Decl != nil:
		return s.Decl.Name
	default:
		return "<nil>"
	}
}

// Outcome of a resolution.
type Outcome int

const (
	_ Outcome = iota
	Unresolved
	Resolved
	Ambiguous
)

func (o Outcome) String() string {
	switch o {
	case Unresolved:
		return "unresolved"
	case Resolved:
		return "resolved"
	case Ambiguous:
		return "ambiguous"
	default:
		return fmt.Sprintf("outcome-invalid(%d)", o)
	}
}

// Result of a resolution.
type Result struct {
	Outcome Outcome

	// Symbol is set for Resolved outcomes.
	Symbol Symbol

	// Candidates are set for Ambiguous outcomes.
	Candidates []Symbol
}

func fromCandidates(cands []Symbol) (Result, bool) {
	switch len(cands) {
	case 0:
		return Result{}, false
	case 1:
		return Result{Outcome: Resolved, Symbol: cands[0]}, true
	default:
		return Result{Outcome: Ambiguous, Candidates: cands}, true
	}
}

// Resolve resolves cref at the given declaration.
//
// A prefixed reference is looked up by its documentation ID, an unprefixed one is bound
// like a name in source. When that gives nothing, the prefix is stripped and the
// reference is looked up as a qualified type name, then as a simple name of a
// non-synthetic type whose display name equals it.
func Resolve(t Table, cref string, scope *symbols.Decl) Result {
	cref = strings.TrimSpace(cref)
	if cref == "" {
		return Result{Outcome: Unresolved}
	}

	var cands []Symbol
	if hasPrefix(cref) {
		cands = t.ByID(cref)
	} else {
		cands = t.Bind(cref, scope)
	}
	if res, ok := fromCandidates(cands); ok {
		return res
	}

	name := stripPrefix(cref)
	if typ := t.ByQualifiedName(genericName(name)); typ != nil && len(typ.TypeArgs) == genericArity(name) {
		return Result{Outcome: Resolved, Symbol: Symbol{Type: typ}}
	}

	target := displayName(lastSegment(name))
	var matches []Symbol
	for _, typ := range t.TypesBySimpleName(simpleName(target)) {
		if typ.Synthetic || typ.DisplayName() != target {
			continue
		}
		matches = append(matches, Symbol{Type: typ})
	}
	if res, ok := fromCandidates(matches); ok {
		return res
	}

	return Result{Outcome: Unresolved}
}

// Verdict of a reference check.
type Verdict int

const (
	// Valid references need no report, ambiguous ones included.
	Valid Verdict = iota
	UnresolvedRef
	InvalidException
)

// Check validates a resolution result. inException is set for references of exception tags,
// they must denote an exception type, an unresolved placeholder type or a type parameter.
func Check(r Result, inException bool) Verdict {
	switch r.Outcome {
	case Unresolved:
		return UnresolvedRef
	case Ambiguous:
		return Valid
	case Resolved:
		if !inException {
			return Valid
		}
		if ExceptionCandidate(r.Symbol) {
			return Valid
		}
		return InvalidException
	default:
		return UnresolvedRef
	}
}

// ExceptionCandidate checks if the symbol may stand in an exception tag.
func ExceptionCandidate(s Symbol) bool {
	typ := s.AsType().Underlying()
	if typ == nil {
		return false
	}

	switch typ.Kind {
	case symbols.TypeKindUnresolved, symbols.TypeKindTypeParameter:
		return true
	default:
		return typ.IsException()
	}
}

// DocumentedType returns the underlying type a reference denotes. Ambiguous references
// denote the first candidate that is a type. Nil for anything else.
func DocumentedType(r Result) *symbols.Type {
	switch r.Outcome {
	case Resolved:
		return r.Symbol.AsType().Underlying()
	case Ambiguous:
		for _, c := range r.Candidates {
			if t := c.AsType(); t != nil {
				return t.Underlying()
			}
		}
		return nil
	default:
		return nil
	}
}

func hasPrefix(cref string) bool {
	return len(cref) > 2 && cref[1] == ':' && cref[0] >= 'A' && cref[0] <= 'Z'
}

func stripPrefix(cref string) string {
	if hasPrefix(cref) {
		return cref[2:]
	}

	return cref
}

// genericName turns cref generic syntax into a plain qualified name:
// "System.Collections.Generic.List{T}" → "System.Collections.Generic.List".
// Member signatures keep only the part before the parameter list.
func genericName(name string) string {
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, '{'); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, '`'); i >= 0 {
		name = name[:i]
	}

	return name
}

// genericArity returns the number of type arguments of the last name segment,
// given either as "List{T}" or as "List`1".
func genericArity(name string) int {
	last := lastSegment(name)
	if i := strings.IndexAny(last, "{<"); i >= 0 {
		depth := 0
		n := 1
		for _, r := range last[i+1:] {
			switch r {
			case '{', '<':
				depth++
			case '}', '>':
				depth--
			case ',':
				if depth == 0 {
					n++
				}
			}
		}
		return n
	}

	if i := strings.LastIndexByte(last, '`'); i >= 0 {
		n, err := strconv.Atoi(last[i+1:])
		if err != nil {
			return 0
		}
		return n
	}

	return 0
}

func lastSegment(name string) string {
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}

	depth := 0
	for i := len(name) - 1; i >= 0; i-- {
		switch name[i] {
		case '}', '>':
			depth++
		case '{', '<':
			depth--
		case '.':
			if depth == 0 {
				return name[i+1:]
			}
		}
	}

	return name
}

// displayName turns "List{T}" into "List<T>".
func displayName(name string) string {
	name = strings.NewReplacer("{", "<", "}", ">").Replace(name)
	return strings.ReplaceAll(strings.ReplaceAll(name, " ", ""), ",", ", ")
}

func simpleName(display string) string {
	if i := strings.IndexByte(display, '<'); i >= 0 {
		return display[:i]
	}

	return display
}
