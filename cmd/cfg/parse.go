package cfg

import (
	"fmt"
	"github.com/ValentinKolb/tinycfg/lib/document"
	"github.com/spf13/cast"
	"math"
	"strconv"
	"strings"
)

// parseValue converts a command-line argument into a document value.
// typeName is auto, int, float or string.
func parseValue(typeName, raw string) (document.Value, error) {
	switch typeName {
	case "auto":
		s := strings.TrimSpace(raw)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return document.Int(i), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && isFinite(f) {
			return document.Float(f), nil
		}
		return document.Text(raw), nil
	case "int":
		i, err := document.ParseInt(raw)
		if err != nil {
			return document.Value{}, fmt.Errorf("invalid int: %w", err)
		}
		return document.Int(i), nil
	case "float":
		f, err := cast.ToFloat64E(strings.TrimSpace(raw))
		if err != nil {
			return document.Value{}, fmt.Errorf("%q is not a float: %w", raw, err)
		}
		if !isFinite(f) {
			return document.Value{}, fmt.Errorf("%q is not a finite number", raw)
		}
		return document.Float(f), nil
	case "string":
		return document.Text(raw), nil
	default:
		return document.Value{}, fmt.Errorf("invalid value type %q (expected one of: auto, int, float, string)", typeName)
	}
}

// defaultFallback is the fallback of a typed get without --fallback
func defaultFallback(kind document.Kind) string {
	switch kind {
	case document.KindInt, document.KindFloat:
		return "0"
	default:
		return ""
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
