// Package sanitize converts arbitrary value graphs into JSON-safe form before
// serialization. NaN and infinite floats become null, raw table cells collapse
// to primitives, and anything unrecognized is stringified rather than allowed
// to break encoding. Cyclic inputs are not a supported case.
package sanitize

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"practice_sale/pkg/models"
)

// Value recursively transforms v into a graph containing only JSON primitives:
// string, float64/int, bool, nil, []interface{} and map[string]interface{}.
func Value(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case json.Number:
		// Numeric-library scalar: prefer the native integer form when exact.
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return sanitizeFloat(f)
		}
		return t.String()
	case float64:
		return sanitizeFloat(t)
	case float32:
		return sanitizeFloat(float64(t))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return t
	case bool, string:
		return t
	case models.Cell:
		return sanitizeCell(t)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.UTC().Format(time.RFC3339)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = Value(e)
		}
		return out
	case []float64:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = sanitizeFloat(e)
		}
		return out
	case []string:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = Value(e)
		}
		return out
	case map[string]float64:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = sanitizeFloat(e)
		}
		return out
	case map[interface{}]interface{}:
		// yaml.v2 decodes nested mappings this way; keys must become strings.
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[fmt.Sprintf("%v", k)] = Value(e)
		}
		return out
	default:
		return fmt.Sprintf("%v", t)
	}
}

func sanitizeFloat(f float64) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func sanitizeCell(c models.Cell) interface{} {
	switch c.Kind {
	case models.KindMissing:
		return nil
	case models.KindString:
		return c.Str
	case models.KindNumber:
		return sanitizeFloat(c.Num)
	case models.KindDate:
		return c.Date.Format("2006-01-02")
	}
	return nil
}
