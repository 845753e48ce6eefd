package network

import "strconv"

// Float returns the edge data value of the given key as a number. Strings
// holding a number are converted.
func (e *Edge) Float(key string) (float64, bool) {
	return ToFloat(e.Data[key])
}

// ToFloat converts a loosely typed value, e.g. decoded from JSON or read
// from a database, to a float.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
