// Package tracing determines which exception types can escape a member body.
//
// The host supplies a body as a flat list of CIR nodes with their spans. The package
// rebuilds the nesting of those nodes and reasons about exception flow over it without
// executing anything.
//
// Core components:
//
//   - Index
//     Arranges body entries into a containment hierarchy by their spans. Siblings are kept
//     in red-black trees ordered by position, every span owning a tree of the spans it
//     contains. Partial overlaps are rejected.
//
//   - Walk
//     Lazily enumerates throw and rethrow sites, pruning subtrees a predicate refuses to
//     enter: lambdas, local functions and nested types always, sibling members when a
//     primary-constructor-like type body is analyzed.
//
//   - Escapes
//     Types every site (a rethrow takes the type of its nearest catch clause, a catch-all
//     rethrows the base exception type) and walks outward through enclosing try constructs.
//     Only sites inside the protected region of a try are caught by it, and only by catch
//     clauses without a filter. The walk stops at member, accessor, lambda and local function
//     boundaries.
//
// The analysis is intraprocedural: calls are opaque, whatever a callee throws is up to
// its own documentation.
package tracing
