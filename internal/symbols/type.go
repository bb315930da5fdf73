package symbols

import (
	"encoding"
	"fmt"
	"strings"
)

// Type is a symbol table type entry. Types are compared by pointer identity.
type Type struct {
	Name      string
	Namespace string
	Kind      TypeKind

	// Base is the direct base type, nil for roots and non-class kinds.
	Base *Type

	// Target is the aliased type for alias kinds.
	Target *Type

	TypeArgs  []*Type
	Synthetic bool
}

// Well-known type names.
const (
	BaseExceptionName = "System.Exception"
	TaskName          = "System.Threading.Tasks.Task"
	ValueTaskName     = "System.Threading.Tasks.ValueTask"
)

// FullName returns namespace-qualified name of the type.
func (t *Type) FullName() string {
	if t == nil {
		return ""
	}
	if t.Namespace == "" {
		return t.Name
	}

	return t.Namespace + "." + t.Name
}

// DisplayName returns simple name followed by type arguments, if any.
//
//	List<T>
func (t *Type) DisplayName() string {
	if t == nil {
		return ""
	}
	if len(t.TypeArgs) == 0 {
		return t.Name
	}

	args := make([]string, len(t.TypeArgs))
	for i, a := range t.TypeArgs {
		args[i] = a.DisplayName()
	}
	return t.Name + "<" + strings.Join(args, ", ") + ">"
}

func (t *Type) String() string {
	return t.FullName()
}

// Underlying resolves alias chain down to the first non-alias type.
func (t *Type) Underlying() *Type {
	seen := map[*Type]struct{}{}
	for t != nil && t.Kind == TypeKindAlias && t.Target != nil {
		if _, ok := seen[t]; ok {
			return t
		}
		seen[t] = struct{}{}
		t = t.Target
	}

	return t
}

// InheritsFromOrEquals checks if ancestor is t itself or is in t's base chain.
func (t *Type) InheritsFromOrEquals(ancestor *Type) bool {
	if t == nil || ancestor == nil {
		return false
	}

	seen := map[*Type]struct{}{}
	for cur := t; cur != nil; cur = cur.Base {
		if cur == ancestor {
			return true
		}
		if _, ok := seen[cur]; ok {
			return false
		}
		seen[cur] = struct{}{}
	}

	return false
}

// IsException checks if the type is the base exception type or its descendant.
func (t *Type) IsException() bool {
	seen := map[*Type]struct{}{}
	for cur := t.Underlying(); cur != nil; cur = cur.Base {
		if cur.FullName() == BaseExceptionName {
			return true
		}
		if _, ok := seen[cur]; ok {
			return false
		}
		seen[cur] = struct{}{}
	}

	return false
}

// TypeKind classifies types.
type TypeKind int

const (
	_ TypeKind = iota
	TypeKindClass
	TypeKindStruct
	TypeKindInterface
	TypeKindEnum
	TypeKindDelegate
	TypeKindTypeParameter
	TypeKindAlias
	TypeKindUnresolved
	TypeKindVoid
)

var typeKindNames = map[TypeKind]string{
	TypeKindClass:         "class",
	TypeKindStruct:        "struct",
	TypeKindInterface:     "interface",
	TypeKindEnum:          "enum",
	TypeKindDelegate:      "delegate",
	TypeKindTypeParameter: "type-parameter",
	TypeKindAlias:         "alias",
	TypeKindUnresolved:    "unresolved",
	TypeKindVoid:          "void",
}

func (k TypeKind) String() string {
	v, ok := typeKindNames[k]
	if !ok {
		return fmt.Sprintf("type-kind-invalid(%d)", k)
	}

	return v
}

var _ encoding.TextUnmarshaler = (*TypeKind)(nil)

func (k *TypeKind) UnmarshalText(b []byte) error {
	for kk, v := range typeKindNames {
		if v == string(b) {
			*k = kk
			return nil
		}
	}

	return fmt.Errorf("unknown type kind %q", b)
}
