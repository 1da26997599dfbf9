package ids

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Encode returns a deep structural copy of v in which every ID (and every
// non-nil *ID or valid NullID) is replaced by its decimal string. Sequences
// and mappings are walked without a depth limit. Other primitives, including
// plain integers, pass through unchanged: callers must construct ID values
// themselves, Encode never guesses which number is an identifier.
//
// v is never mutated.
func Encode(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case ID:
		return x.String()
	case *ID:
		if x == nil {
			return nil
		}
		return x.String()
	case NullID:
		if !x.Valid {
			return nil
		}
		return x.ID.String()
	case string, bool, float32, float64,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return x
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = Encode(e)
		}
		return out
	case []any:
		if x == nil {
			return x
		}
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Encode(e)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Encode(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[mapKey(iter.Key())] = Encode(iter.Value().Interface())
		}
		return out
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Encode(rv.Elem().Interface())
	default:
		return v
	}
}

func mapKey(k reflect.Value) string {
	if id, ok := k.Interface().(ID); ok {
		return id.String()
	}
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

// Hint names the identifier-bearing fields of a payload, as dot-separated
// paths. A "*" segment matches any sequence index or mapping key, so
// "entries.*.id" covers the id of every element of an entries array.
type Hint []string

// Fields builds a Hint from paths.
func Fields(paths ...string) Hint {
	return Hint(paths)
}

func (h Hint) matches(path []string) bool {
	for _, pattern := range h {
		// "" names the payload root itself.
		if pattern == "" {
			if len(path) == 0 {
				return true
			}
			continue
		}
		segs := strings.Split(pattern, ".")
		if len(segs) != len(path) {
			continue
		}
		ok := true
		for i, s := range segs {
			if s != "*" && s != path[i] {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// Decode is the selective inverse of Encode. Only strings found at a path
// named by hint are parsed into IDs; every other string stays a string
// because the wire format cannot tell a numeric string from an encoded
// identifier. Decode returns a copy and does not mutate v.
func Decode(v any, hint Hint) (any, error) {
	return decodeAt(v, nil, hint)
}

func decodeAt(v any, path []string, hint Hint) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			d, err := decodeAt(e, append(path[:len(path):len(path)], k), hint)
			if err != nil {
				return nil, err
			}
			out[k] = d
		}
		return out, nil
	case []any:
		if x == nil {
			return x, nil
		}
		out := make([]any, len(x))
		for i, e := range x {
			d, err := decodeAt(e, append(path[:len(path):len(path)], strconv.Itoa(i)), hint)
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	case string:
		if !hint.matches(path) {
			return x, nil
		}
		id, err := Parse(x)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", strings.Join(path, "."), err)
		}
		return id, nil
	default:
		return v, nil
	}
}
