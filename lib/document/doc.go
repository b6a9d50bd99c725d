// Package document provides the in-memory representation of a configuration
// and the codec that converts it to and from its persisted byte form.
//
// The package focuses on:
//   - A closed set of scalar values (integer, floating-point, string)
//   - A flat Document mapping keys to those values
//   - Get-or-default accessors with best-effort type coercion
//   - A pluggable ICodec with a compact JSON implementation
//
// Key Components:
//
//   - Value: Tagged union of the three scalar kinds. Values are created with
//     Int, Float, Text or the generic ValueOf, whose type constraint is limited
//     to the Go types that map onto one of the kinds.
//
//   - Document: map[string]Value with helpers mirroring the operations a store
//     needs (Get, Set, Remove, Has) and the coercing accessors IntOr, FloatOr
//     and TextOr. Text is read as decimal (ParseInt), other conversions go
//     through github.com/spf13/cast; a conversion
//     that is not meaningful (a fractional float read as int, a non numeric
//     string read as float) yields the fallback.
//
//   - ICodec / jsonCodecImpl: Parse accepts exactly one JSON object whose
//     members are numbers or strings. Serialize emits a compact object with
//     sorted keys; floats always keep a decimal point so their kind survives a
//     round trip. The empty document serializes to "{}".
//
// Thread Safety:
//
//	Documents are plain maps and must not be shared between goroutines without
//	external synchronization. Codecs are stateless and safe for concurrent use.
//
// Usage:
//
//	codec := document.NewJSONCodec()
//	doc, err := codec.Parse([]byte(`{"boot_count":1}`))
//	doc.Set("name", document.Text("bob"))
//	n := doc.IntOr("boot_count", 0)
//	b, err := codec.Serialize(doc) // {"boot_count":1,"name":"bob"}
package document
