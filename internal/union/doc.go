// Package union implements the reusable union node types and their
// cross-variant coercion rules.
//
// Every union decodes by shape (object, array or scalar), never by trying each
// variant in turn, and declares a total merge table:
//
//   - same variant on both sides: merge inside the variant
//   - scalar against a container of that scalar: widen to the container
//   - map against non-map: the right operand wins
//   - records with different discriminants: the right operand wins
//   - Inheritable: a right-hand workspace marker wins; a concrete right value
//     replaces a left-hand marker
//
// Dialect-specific unions live with their dialect and follow the same shape.
package union
