package query

import "strconv"

// Record is one decoded set of key=value tokens. Values are int64, float64,
// string, or nil for keys sent without a value.
type Record map[string]any

// Has reports whether key is present, with or without a value.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Int returns the integer value of key.
func (r Record) Int(key string) (int64, bool) {
	n, ok := r[key].(int64)
	return n, ok
}

// Float returns the numeric value of key. Integer values are converted.
func (r Record) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// String returns the textual value of key. Numeric values are formatted back
// to text, since a nickname like "1234" is coerced to an integer on decode.
func (r Record) String(key string) (string, bool) {
	switch v := r[key].(type) {
	case string:
		return v, true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}
