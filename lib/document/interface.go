package document

import "errors"

var (
	// ErrMalformed is returned by ICodec.Parse when the input is not a flat
	// object of scalar values.
	ErrMalformed = errors.New("malformed document")
	// ErrUnsupportedValue is returned by ICodec.Serialize when a value has no
	// representation in the output format (e.g. NaN).
	ErrUnsupportedValue = errors.New("unsupported value")
)

// ICodec converts between the persisted byte form of a configuration and
// its in-memory Document.
type ICodec interface {
	// Parse decodes b into a fresh Document.
	// It returns an error wrapping ErrMalformed if b is not a flat object of scalars.
	Parse(b []byte) (Document, error)
	// Serialize encodes doc. The output for an empty document must be
	// the shortest representation the format allows.
	Serialize(doc Document) ([]byte, error)
}
