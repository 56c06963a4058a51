// Package schema is the reflective codec between tree values and typed dialect
// records.
//
// A dialect is a set of Go structs. Struct tags declare everything the codec and
// the merge engine need to know about a field:
//
//	json:"devDependencies"   canonical on-disk key (the only key ever emitted)
//	alias:"dev_dependencies" extra spellings accepted on input
//	merge:"union"            merge policy (see Policy)
//	default:"0.1.0"          default value, decoded through the codec
//	schema:"extra"           *tree.Object catch-all for unknown keys
//
// Types that need more than field-by-field handling (collections, unions,
// enums) implement Decoder, Encoder, Zeroer or Enum.
//
// Decoding is total: every input produces either a typed value or a ParseError
// carrying the field path. Encoding is the inverse on every well-typed value.
package schema
