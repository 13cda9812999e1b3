package cache

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = ":"

// nilMarker stands in for absent values. url.QueryEscape never produces "!",
// so it cannot collide with an escaped string.
const nilMarker = "!"

// defaultKeySerializer implements KeySerializer using reflection-based serialization.
// Strings are query-escaped so a value can never contain the separator, which
// keeps keys built from distinct arguments distinct.
type defaultKeySerializer struct{}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

// SerializeKey builds "method:arg1:arg2". Struct arguments expand into one
// "name=value" segment per exported field, named after the field's json tag.
func (s *defaultKeySerializer) SerializeKey(method string, args ...any) string {
	if len(args) == 0 {
		return method
	}

	parts := make([]string, 0, len(args)+1)
	parts = append(parts, method)

	for _, arg := range args {
		parts = append(parts, s.serializeValue(arg))
	}

	return strings.Join(parts, KeySeparator)
}

// serializeValue handles individual argument serialization based on type.
func (s *defaultKeySerializer) serializeValue(v any) string {
	if v == nil {
		return nilMarker
	}

	rv := reflect.ValueOf(v)
	rt := rv.Type()

	if rt.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nilMarker
		}
		return s.serializeValue(rv.Elem().Interface())
	}

	// uuid.UUID, time.Duration and friends render best through String
	if str, ok := v.(fmt.Stringer); ok && rt.Kind() != reflect.Struct {
		return url.QueryEscape(str.String())
	}

	switch rt.Kind() {
	case reflect.String:
		return url.QueryEscape(rv.String())
	case reflect.Func:
		return fmt.Sprintf("func=%p", v)
	case reflect.Chan:
		return fmt.Sprintf("chan=%p", v)
	case reflect.Slice:
		if rv.IsNil() {
			return nilMarker
		}
		return s.serializeList(rv)
	case reflect.Array:
		return s.serializeList(rv)
	case reflect.Map:
		if rv.IsNil() {
			return nilMarker
		}
		return s.serializeMap(rv)
	case reflect.Struct:
		return s.serializeStruct(rv, rt)
	}

	if s.isBasicType(rt.Kind()) {
		return fmt.Sprintf("%v", v)
	}

	return s.jsonFallback(v)
}

// serializeList renders slices and arrays as "[a,b,c]".
func (s *defaultKeySerializer) serializeList(rv reflect.Value) string {
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = s.serializeValue(rv.Index(i).Interface())
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// serializeMap handles map serialization with sorted keys for determinism
func (s *defaultKeySerializer) serializeMap(rv reflect.Value) string {
	pairs := make([]string, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		pairs = append(pairs, s.serializeValue(iter.Key().Interface())+"="+s.serializeValue(iter.Value().Interface()))
	}
	sort.Strings(pairs)
	return "{" + strings.Join(pairs, ",") + "}"
}

// serializeStruct emits one "name=value" segment per exported field.
func (s *defaultKeySerializer) serializeStruct(rv reflect.Value, rt reflect.Type) string {
	parts := make([]string, 0, rv.NumField())

	for i := 0; i < rv.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name := fieldKeyName(field)
		if name == "" {
			continue
		}

		parts = append(parts, name+"="+s.serializeValue(rv.Field(i).Interface()))
	}

	return strings.Join(parts, KeySeparator)
}

// fieldKeyName returns the json name of a field without a leading "$", the
// lowercased Go name when untagged, or "" for fields tagged "-".
func fieldKeyName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return strings.ToLower(field.Name)
	}
	return strings.TrimPrefix(name, "$")
}

// isBasicType checks if a kind represents a basic Go type
func (s *defaultKeySerializer) isBasicType(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}

// jsonFallback provides JSON serialization as a last resort
func (s *defaultKeySerializer) jsonFallback(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "type=" + reflect.TypeOf(v).String()
	}
	return url.QueryEscape(string(data))
}
