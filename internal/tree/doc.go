// Package tree provides the ordered dynamic value model shared by every dialect.
//
// Configuration sources (YAML, TOML, JSON/JSONC, CUE) are parsed into a tree of
// Value nodes before the schema codec turns them into typed dialect records, and
// typed records are encoded back into a tree before serialization. Objects keep
// their key order so insertion-ordered mappings survive the round trip.
//
// This package imports nothing internal. Values are treated as immutable once
// built: builders call Set while constructing, consumers only read.
package tree
