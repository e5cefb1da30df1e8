// Package document defines the constrained value model that character
// snapshots are serialized through, plus the canonical JSON form and
// SHA-256 checksums computed over it.
//
// The value set is sealed (Null, String, Int, Bool, Array, Object) and
// carries no float type: every quantity in the character model is integral,
// and excluding floats keeps canonical serialization byte-stable across
// platforms. Checksums are domain-separated SHA-256 over RFC 8785 canonical
// JSON, so two structurally equal documents always hash identically.
//
// Paths into documents are structured []Step values (field or index hops)
// with a parser/printer for the dotted wire form; patch replay walks steps
// directly and never re-parses strings.
package document
