package document

import (
	"fmt"
	"github.com/spf13/cast"
	"math"
	"sort"
	"strconv"
	"strings"
)

// bounds of float64 values that convert to int64 without overflow
const (
	minInt64Float = -9223372036854775808.0
	maxInt64Float = 9223372036854775808.0
)

// Document is the in-memory form of the configuration: a flat mapping from
// keys to scalar values. A Document is created fresh for every store operation
// and is not safe for concurrent use.
type Document map[string]Value

// New returns an empty document
func New() Document {
	return make(Document)
}

// --------------------------------------------------------------------------
// Basic access
// --------------------------------------------------------------------------

// Get returns the value stored for key and whether it was present.
func (d Document) Get(key string) (Value, bool) {
	v, ok := d[key]
	return v, ok
}

// Set stores value under key. Invalid values are ignored.
func (d Document) Set(key string, value Value) {
	if !value.IsValid() {
		return
	}
	d[key] = value
}

// Remove deletes key and reports whether it was present.
func (d Document) Remove(key string) bool {
	if _, ok := d[key]; !ok {
		return false
	}
	delete(d, key)
	return true
}

// Has reports whether key is present.
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Len returns the number of keys
func (d Document) Len() int { return len(d) }

// Keys returns all keys in ascending order.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --------------------------------------------------------------------------
// Get-or-default accessors
// --------------------------------------------------------------------------

// IntOr returns the value for key as int64, or fallback if the key is absent
// or its value has no meaningful integer form. Floats convert only when they
// are integral and in range, strings are parsed.
func (d Document) IntOr(key string, fallback int64) int64 {
	v, ok := d[key]
	if !ok {
		return fallback
	}
	switch v.kind {
	case KindInt:
		return v.i
	case KindFloat:
		i, ok := floatToInt(v.f)
		if !ok {
			return fallback
		}
		return i
	case KindText:
		i, err := ParseInt(v.s)
		if err != nil {
			return fallback
		}
		return i
	}
	return fallback
}

// FloatOr returns the value for key as float64, or fallback if the key is
// absent or its value has no meaningful numeric form.
func (d Document) FloatOr(key string, fallback float64) float64 {
	v, ok := d[key]
	if !ok {
		return fallback
	}
	switch v.kind {
	case KindInt:
		return float64(v.i)
	case KindFloat:
		return v.f
	case KindText:
		f, err := cast.ToFloat64E(strings.TrimSpace(v.s))
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fallback
		}
		return f
	}
	return fallback
}

// TextOr returns the value for key as string, or fallback if the key is
// absent. Numbers are formatted in their shortest exact form.
func (d Document) TextOr(key string, fallback string) string {
	v, ok := d[key]
	if !ok {
		return fallback
	}
	if v.kind == KindText {
		return v.s
	}
	s, err := cast.ToStringE(v.Interface())
	if err != nil {
		return fallback
	}
	return s
}

// --------------------------------------------------------------------------
// Text conversion
// --------------------------------------------------------------------------

// ParseInt parses s as a decimal integer. Leading zeros do not switch the base,
// "010" is 10. Numbers in float notation are accepted if they are integral and
// fit into int64 ("4.0", "1e3"), everything else is an error.
func ParseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	i, ok := floatToInt(f)
	if !ok {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return i, nil
}

// floatToInt converts f if it is integral and in the range of int64
func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || f != math.Trunc(f) || f < minInt64Float || f >= maxInt64Float {
		return 0, false
	}
	return int64(f), true
}

// Clone returns a shallow copy of the document
func (d Document) Clone() Document {
	c := make(Document, len(d))
	for k, v := range d {
		c[k] = v
	}
	return c
}
