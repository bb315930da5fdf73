package symbols

import (
	"encoding"
	"fmt"
)

// Decl is a declaration supplied by the host. Kind-specific data lives in Info.
type Decl struct {
	Name      string
	Kind      DeclKind
	Access    Access
	Locations []Location

	// Parent is the lexical container. It is a back-reference, never an owner.
	Parent *Decl

	Synthetic bool

	// Doc is the raw documentation markup, empty when there is none.
	Doc string

	Info Info
}

// Location is a source location.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" {
		return "-"
	}

	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Primary returns the first declared location of the declaration.
func (d *Decl) Primary() Location {
	if d == nil || len(d.Locations) == 0 {
		return Location{}
	}

	return d.Locations[0]
}

// Params returns ordered parameters of the declaration.
func (d *Decl) Params() []*Decl {
	switch v := d.Info.(type) {
	case *TypeInfo:
		return v.Params
	case *MethodInfo:
		return v.Params
	case *PropertyInfo:
		return v.Params
	case *FieldInfo, *EventInfo, *AccessorInfo, *ParamInfo, nil:
		return nil
	default:
		panic(fmt.Errorf("unsupported declaration info %T", v))
	}
}

// TypeParams returns ordered type parameters of the declaration.
func (d *Decl) TypeParams() []*Decl {
	switch v := d.Info.(type) {
	case *TypeInfo:
		return v.TypeParams
	case *MethodInfo:
		return v.TypeParams
	case *PropertyInfo, *FieldInfo, *EventInfo, *AccessorInfo, *ParamInfo, nil:
		return nil
	default:
		panic(fmt.Errorf("unsupported declaration info %T", v))
	}
}

// Info is a kind-specific declaration payload.
type Info interface {
	isInfo()
}

// TypeInfo describes type declarations.
type TypeInfo struct {
	Type       *Type
	TypeParams []*Decl

	// Params are primary constructor parameters.
	Params []*Decl

	// PrimaryCtorLike is set for types carrying constructor parameters in their header.
	PrimaryCtorLike bool

	// Delegate is set for delegate types.
	Delegate *ReturnSlot
}

// MethodInfo describes methods, constructors, operators and conversions.
type MethodInfo struct {
	Params     []*Decl
	TypeParams []*Decl
	Return     ReturnSlot

	// PrimaryCtorWrapper marks constructors duplicating a type's primary constructor.
	PrimaryCtorWrapper bool
}

// PropertyInfo describes properties and indexers. Indexer arity is len(Params).
type PropertyInfo struct {
	Type      *Type
	HasGetter bool
	HasSetter bool
	Params    []*Decl
}

// FieldInfo describes fields.
type FieldInfo struct {
	Type *Type
}

// EventInfo describes events.
type EventInfo struct {
	Type *Type
}

// AccessorInfo describes property and event accessors.
type AccessorInfo struct {
	Accessor AccessorKind
}

// ParamInfo describes parameters.
type ParamInfo struct {
	Type *Type
}

func (*TypeInfo) isInfo()     {}
func (*MethodInfo) isInfo()   {}
func (*PropertyInfo) isInfo() {}
func (*FieldInfo) isInfo()    {}
func (*EventInfo) isInfo()    {}
func (*AccessorInfo) isInfo() {}
func (*ParamInfo) isInfo()    {}

// DeclKind classifies declarations.
type DeclKind int

const (
	_ DeclKind = iota
	DeclKindType
	DeclKindMethod
	DeclKindConstructor
	DeclKindOperator
	DeclKindConversion
	DeclKindProperty
	DeclKindIndexer
	DeclKindField
	DeclKindEvent
	DeclKindParameter
	DeclKindTypeParameter
	DeclKindNamespace
	DeclKindAccessor
)

var declKindNames = map[DeclKind]string{
	DeclKindType:          "type",
	DeclKindMethod:        "method",
	DeclKindConstructor:   "constructor",
	DeclKindOperator:      "operator",
	DeclKindConversion:    "conversion",
	DeclKindProperty:      "property",
	DeclKindIndexer:       "indexer",
	DeclKindField:         "field",
	DeclKindEvent:         "event",
	DeclKindParameter:     "parameter",
	DeclKindTypeParameter: "type-parameter",
	DeclKindNamespace:     "namespace",
	DeclKindAccessor:      "accessor",
}

func (k DeclKind) String() string {
	v, ok := declKindNames[k]
	if !ok {
		return fmt.Sprintf("decl-kind-invalid(%d)", k)
	}

	return v
}

var _ encoding.TextUnmarshaler = (*DeclKind)(nil)

func (k *DeclKind) UnmarshalText(b []byte) error {
	for kk, v := range declKindNames {
		if v == string(b) {
			*k = kk
			return nil
		}
	}

	return fmt.Errorf("unknown declaration kind %q", b)
}

// Access is a declared accessibility.
type Access int

const (
	_ Access = iota
	AccessPublic
	AccessProtected
	AccessProtectedInternal
	AccessInternal
	AccessPrivateProtected
	AccessPrivate
)

var accessNames = map[Access]string{
	AccessPublic:            "public",
	AccessProtected:         "protected",
	AccessProtectedInternal: "protected-internal",
	AccessInternal:          "internal",
	AccessPrivateProtected:  "private-protected",
	AccessPrivate:           "private",
}

func (a Access) String() string {
	v, ok := accessNames[a]
	if !ok {
		return fmt.Sprintf("access-invalid(%d)", a)
	}

	return v
}

var _ encoding.TextUnmarshaler = (*Access)(nil)

func (a *Access) UnmarshalText(b []byte) error {
	for k, v := range accessNames {
		if v == string(b) {
			*a = k
			return nil
		}
	}

	return fmt.Errorf("unknown accessibility %q", b)
}

// ExternallyVisible checks if the accessibility is visible outside the assembly.
func (a Access) ExternallyVisible() bool {
	switch a {
	case AccessPublic, AccessProtected, AccessProtectedInternal:
		return true
	default:
		return false
	}
}

// AccessorKind classifies accessors.
type AccessorKind int

const (
	_ AccessorKind = iota
	AccessorGet
	AccessorSet
	AccessorAdd
	AccessorRemove
	AccessorRaise
)

var accessorKindNames = map[AccessorKind]string{
	AccessorGet:    "get",
	AccessorSet:    "set",
	AccessorAdd:    "add",
	AccessorRemove: "remove",
	AccessorRaise:  "raise",
}

func (k AccessorKind) String() string {
	v, ok := accessorKindNames[k]
	if !ok {
		return fmt.Sprintf("accessor-kind-invalid(%d)", k)
	}

	return v
}

var _ encoding.TextUnmarshaler = (*AccessorKind)(nil)

func (k *AccessorKind) UnmarshalText(b []byte) error {
	for kk, v := range accessorKindNames {
		if v == string(b) {
			*k = kk
			return nil
		}
	}

	return fmt.Errorf("unknown accessor kind %q", b)
}
