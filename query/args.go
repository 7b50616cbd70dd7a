package query

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Param is a single key=value command argument.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered set of key=value arguments. Keys are emitted in slice
// order.
type Params []Param

// P is shorthand for building a Param.
func P(key string, value any) Param {
	return Param{Key: key, Value: value}
}

// FormatCommand serializes a command name and its arguments into the wire
// line (without the trailing newline).
//
// Accepted arguments:
//   - integers of any width: rendered in decimal
//   - string: passed through verbatim, NOT escaped
//   - Param, Params: one key=value token per entry, value escaped
//   - map[string]any, map[string]string: like Params, keys sorted
//
// Any other argument type yields an *ArgumentError.
func FormatCommand(command string, args ...any) (string, error) {
	var sb strings.Builder
	sb.WriteString(command)

	for i, arg := range args {
		switch v := arg.(type) {
		case string:
			writeToken(&sb, v)
		case Param:
			writeParam(&sb, v.Key, v.Value)
		case Params:
			for _, p := range v {
				writeParam(&sb, p.Key, p.Value)
			}
		case []Param:
			for _, p := range v {
				writeParam(&sb, p.Key, p.Value)
			}
		case map[string]any:
			for _, k := range slices.Sorted(maps.Keys(v)) {
				writeParam(&sb, k, v[k])
			}
		case map[string]string:
			for _, k := range slices.Sorted(maps.Keys(v)) {
				writeParam(&sb, k, v[k])
			}
		default:
			token, ok := formatInteger(arg)
			if !ok {
				return "", &ArgumentError{Command: command, Index: i, Value: arg}
			}
			writeToken(&sb, token)
		}
	}

	return sb.String(), nil
}

func writeToken(sb *strings.Builder, token string) {
	sb.WriteByte(' ')
	sb.WriteString(token)
}

func writeParam(sb *strings.Builder, key string, value any) {
	sb.WriteByte(' ')
	sb.WriteString(key)
	sb.WriteByte('=')
	sb.WriteString(Escape(FormatValue(value)))
}

// FormatValue renders a parameter value as unescaped text.
func FormatValue(value any) string {
	if s, ok := formatInteger(value); ok {
		return s
	}

	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatInteger(value any) (string, bool) {
	switch v := value.(type) {
	case int:
		return strconv.FormatInt(int64(v), 10), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	default:
		return "", false
	}
}
