// Package symbols defines the declaration and type model the host supplies to csense.
//
// A declaration is a shared base record (Decl) plus a sealed kind-specific payload (Info).
// Every consumer switches over the payload exhaustively, so a new kind breaks loudly at each
// use site instead of silently falling back to some default.
//
// Types are compared by pointer identity: two entries with the same name are different types
// unless the host gives out the same pointer.
package symbols
