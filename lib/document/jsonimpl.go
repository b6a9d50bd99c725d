package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/buger/jsonparser"
	"math"
	"strconv"
	"strings"
)

// NewJSONCodec creates a new codec using compact json encoding
func NewJSONCodec() ICodec {
	return &jsonCodecImpl{}
}

// jsonCodecImpl implements the ICodec interface using json encoding.
// Parsing is done with jsonparser, which hands out the scalar type of every
// member without building an intermediate interface{} tree.
type jsonCodecImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see document.ICodec)
// --------------------------------------------------------------------------

func (j jsonCodecImpl) Parse(b []byte) (Document, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrMalformed)
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	if b[0] != '{' {
		return nil, fmt.Errorf("%w: top level value is not an object", ErrMalformed)
	}

	doc := New()
	err := jsonparser.ObjectEach(b, func(rawKey []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		var keyBuf [64]byte
		key, err := jsonparser.Unescape(rawKey, keyBuf[:])
		if err != nil {
			return fmt.Errorf("invalid key %q: %w", rawKey, err)
		}
		v, err := parseScalar(value, dataType)
		if err != nil {
			return fmt.Errorf("key %q: %w", key, err)
		}
		doc[string(key)] = v
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return doc, nil
}

func (j jsonCodecImpl) Serialize(doc Document) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 64))

	// the encoder is only used to quote strings, html escaping would
	// inflate the document for no benefit
	var scratch bytes.Buffer
	enc := json.NewEncoder(&scratch)
	enc.SetEscapeHTML(false)
	quote := func(s string) error {
		scratch.Reset()
		if err := enc.Encode(s); err != nil {
			return err
		}
		buf.Write(bytes.TrimSuffix(scratch.Bytes(), []byte{'\n'}))
		return nil
	}

	buf.WriteByte('{')
	for i, key := range doc.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := quote(key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')

		v := doc[key]
		switch v.Kind() {
		case KindInt:
			buf.WriteString(strconv.FormatInt(v.Int(), 10))
		case KindFloat:
			s, err := formatFloat(v.Float())
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			buf.WriteString(s)
		case KindText:
			if err := quote(v.Text()); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("key %q: %w: invalid value", key, ErrUnsupportedValue)
		}
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// parseScalar converts a raw json member into a Value. Numbers without
// fraction or exponent become integers unless they overflow int64.
func parseScalar(raw []byte, dataType jsonparser.ValueType) (Value, error) {
	switch dataType {
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return Value{}, err
		}
		return Text(s), nil
	case jsonparser.Number:
		if !bytes.ContainsAny(raw, ".eE") {
			if i, err := jsonparser.ParseInt(raw); err == nil {
				return Int(i), nil
			}
		}
		f, err := jsonparser.ParseFloat(raw)
		if err != nil {
			return Value{}, err
		}
		return Float(f), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %s", dataType)
	}
}

// formatFloat writes f in its shortest form and keeps a decimal point or
// exponent in the output, so the value is read back as a float.
func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedValue, f)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, nil
}
