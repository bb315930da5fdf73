// Package cir defines structural types used to describe and locate
// exception-flow constructs within a member body.
//
// The host hands over a flat list of nodes (throws, rethrows, try statements,
// catch clauses, lambdas, local functions, nested types, members, accessors
// and field initializers) with their source spans. Nesting is not stored
// explicitly: it is recovered from span containment by the tracing package.
package cir
