package projection

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/wundergraph/graphql-clientgen/internal/pkg/quotes"
)

// Literal is implemented by values that print themselves as GraphQL literals, e.g. generated enums.
type Literal interface {
	GraphQLLiteral() string
}

var (
	literalType       = reflect.TypeOf((*Literal)(nil)).Elem()
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// FormatValue prints v as a GraphQL input literal.
//
// Structs are printed as input objects using their json field names, nil pointers, maps and slices as null.
// Values implementing Literal are printed as returned, json.Marshaler and encoding.TextMarshaler
// implementations are printed from their marshaled form.
func FormatValue(v any) (string, error) {
	return formatValue(reflect.ValueOf(v))
}

// FormatArguments prints args as a parenthesized argument list, empty when there are no arguments.
func FormatArguments(args []Argument) (string, error) {
	if len(args) == 0 {
		return "", nil
	}
	printed := make([]string, 0, len(args))
	for _, arg := range args {
		value, err := FormatValue(arg.Value)
		if err != nil {
			return "", fmt.Errorf("argument %s: %w", arg.Name, err)
		}
		printed = append(printed, arg.Name+": "+value)
	}
	return "(" + strings.Join(printed, ", ") + ")", nil
}

func formatValue(rv reflect.Value) (string, error) {
	if !rv.IsValid() {
		return "null", nil
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return "null", nil
		}
	}

	if !rv.CanInterface() {
		return "", fmt.Errorf("unsupported unexported value of type %s", rv.Type())
	}
	if rv.Type().Implements(literalType) {
		return rv.Interface().(Literal).GraphQLLiteral(), nil
	}
	if rv.Kind() != reflect.Ptr && rv.Kind() != reflect.Interface {
		if rv.Type().Implements(jsonMarshalerType) {
			return formatJSONMarshaler(rv.Interface().(json.Marshaler))
		}
		if rv.Type().Implements(textMarshalerType) {
			text, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return "", err
			}
			return quotes.QuoteString(string(text)), nil
		}
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		return formatValue(rv.Elem())
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float(), rv.Type().Bits())
	case reflect.String:
		return quotes.QuoteString(rv.String()), nil
	case reflect.Slice, reflect.Array:
		return formatList(rv)
	case reflect.Map:
		return formatMap(rv)
	case reflect.Struct:
		return formatStruct(rv)
	}

	return "", fmt.Errorf("unsupported value of type %s", rv.Type())
}

func formatList(rv reflect.Value) (string, error) {
	items := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item, err := formatValue(rv.Index(i))
		if err != nil {
			return "", err
		}
		items = append(items, item)
	}
	return "[" + strings.Join(items, ", ") + "]", nil
}

func formatMap(rv reflect.Value) (string, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return "", fmt.Errorf("unsupported map key type %s", rv.Type().Key())
	}

	keys := make([]string, 0, rv.Len())
	values := make(map[string]reflect.Value, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		keys = append(keys, key)
		values[key] = iter.Value()
	}
	sort.Strings(keys)

	fields := make([]string, 0, len(keys))
	for _, key := range keys {
		value, err := formatValue(values[key])
		if err != nil {
			return "", err
		}
		fields = append(fields, key+": "+value)
	}
	return "{" + strings.Join(fields, ", ") + "}", nil
}

func formatStruct(rv reflect.Value) (string, error) {
	fields, err := structFields(rv)
	if err != nil {
		return "", err
	}
	return "{" + strings.Join(fields, ", ") + "}", nil
}

func structFields(rv reflect.Value) ([]string, error) {
	var fields []string
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, options, _ := strings.Cut(tag, ",")

		if field.Anonymous && name == "" && field.Type.Kind() == reflect.Struct {
			embedded, err := structFields(rv.Field(i))
			if err != nil {
				return nil, err
			}
			fields = append(fields, embedded...)
			continue
		}
		if !field.IsExported() {
			continue
		}
		if name == "" {
			name = field.Name
		}

		value := rv.Field(i)
		if hasOption(options, "omitempty") && isEmptyValue(value) {
			continue
		}

		formatted, err := formatValue(value)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		fields = append(fields, name+": "+formatted)
	}
	return fields, nil
}

func hasOption(options, option string) bool {
	for options != "" {
		var current string
		current, options, _ = strings.Cut(options, ",")
		if current == option {
			return true
		}
	}
	return false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}

func formatJSONMarshaler(m json.Marshaler) (string, error) {
	data, err := m.MarshalJSON()
	if err != nil {
		return "", err
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", err
	}
	return formatDecodedJSON(decoded)
}

func formatDecodedJSON(v any) (string, error) {
	switch value := v.(type) {
	case float64:
		return formatFloat(value, 64)
	case []any:
		return formatList(reflect.ValueOf(value))
	case map[string]any:
		return formatMap(reflect.ValueOf(value))
	}
	return formatValue(reflect.ValueOf(v))
}

func formatFloat(f float64, bits int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("unsupported float value %v", f)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, bits), nil
	}
	return strconv.FormatFloat(f, 'g', -1, bits), nil
}
