// Package preset holds the typed preset stores and the resolver that turns a
// root preset into a merge plan.
//
// A preset is an id, an ordered list of ids it extends, and a body in its
// dialect's schema. Stores are per dialect and immutable once loaded, so ids
// never collide across dialects.
//
// Resolution is an iterative depth-first walk over `extends`. Children are
// expanded in declared order, a shared ancestor is merged once, and every
// back-edge is reported as a CycleError naming the full chain:
//
//	A extends B, C; B extends D   =>   plan D, B, C, A
//	p1 -> p2 -> p3 -> p1          =>   cycle detected
//
// Compose folds the dialect default, the plan, and an optional inline
// override, in that order, so later declarations win.
package preset
