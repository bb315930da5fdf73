package cir

import "github.com/sirkon/csense/internal/symbols"

// Node is the base interface implemented by all CIR node types.
// Each node denotes a single construct of a member body relevant to exception flow.
type Node interface {
	isNode()
}

// Site marks nodes that raise an exception: explicit throws and bare rethrows.
type Site interface {
	Node
	isSite()
}

// Boundary marks nodes whose bodies form a separate analysis scope.
// Exception flow never crosses them.
type Boundary interface {
	Node
	isBoundary()
}

// Throw is an explicit throw with an expression.
//
//	throw new ArgumentNullException(nameof(x)); // Type: System.ArgumentNullException
type Throw struct {
	// Type is the static type of the thrown expression, nil if the host could not type it.
	Type *symbols.Type
}

// Rethrow is a bare rethrow of the exception being handled.
//
//	catch (IOException) { throw; }
type Rethrow struct{}

// Try is a try statement. Its span covers the whole statement, Protected covers the try block only.
//
//	try { … } catch (IOException e) { … } finally { … }
type Try struct {
	Protected Span
	Catches   []*Catch
}

// Catch is a catch clause, the span covers the clause with its block.
type Catch struct {
	// Type is the declared exception type, nil for catch-all clauses.
	Type *symbols.Type

	// Filtered is set for clauses with a when-condition.
	Filtered bool
}

// Finally is a cleanup block of a try statement.
type Finally struct{}

// Lambda is an anonymous function body.
type Lambda struct{}

// LocalFunc is a local function body.
type LocalFunc struct {
	Name string
}

// NestedType is a type declared inside the analyzed body.
type NestedType struct {
	Name string
}

// Member is a member body (method, constructor, property, indexer, event or arrow member)
// inside a type body.
type Member struct {
	Name string
	Kind symbols.DeclKind
}

// Accessor is an accessor body of a property or event.
type Accessor struct {
	Kind symbols.AccessorKind
}

// Field is a field or field-style property initializer inside a type body.
type Field struct {
	Name string
}

func (*Throw) isNode()          {}
func (*Throw) isSite()          {}
func (*Rethrow) isNode()        {}
func (*Rethrow) isSite()        {}
func (*Try) isNode()            {}
func (*Catch) isNode()          {}
func (*Finally) isNode()        {}
func (*Lambda) isNode()         {}
func (*Lambda) isBoundary()     {}
func (*LocalFunc) isNode()      {}
func (*LocalFunc) isBoundary()  {}
func (*NestedType) isNode()     {}
func (*NestedType) isBoundary() {}
func (*Member) isNode()         {}
func (*Member) isBoundary()     {}
func (*Accessor) isNode()       {}
func (*Accessor) isBoundary()   {}
func (*Field) isNode()          {}
