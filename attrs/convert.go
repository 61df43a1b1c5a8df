package attrs

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrNotEnoughMembers is returned when a tuple is converted from an Array
// that has fewer elements than the tuple has fields.
var ErrNotEnoughMembers = errors.New("Not enough members")

// TypeError reports an attribute whose variant cannot become the requested type.
type TypeError struct {
	Got     string // attribute type name, e.g. "Integer"
	Want    string // simplified target type name, e.g. "(Integer, Bool)"
	Relaxed bool
}

func (e *TypeError) Error() string {
	if e.Relaxed {
		return fmt.Sprintf("Incorrect Type: `%s` cannot be converted to `%s`", e.Got, e.Want)
	}
	return fmt.Sprintf("Incorrect Type: got `%s` instead of `%s`", e.Got, e.Want)
}

// RangeError reports an integer that does not fit the requested Go type.
type RangeError struct {
	Value int64
	Want  string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("Invalid Value: %d does not fit in `%s`", e.Value, e.Want)
}

// From converts an attribute to T, requiring an exact variant match for every
// scalar along the way. Supported targets are bool, string, the integer and
// float kinds, Date, Time, DateTime, Attribute, *Table, slices, string-keyed
// maps, the Tuple types and any combination of them.
func From[T any](a Attribute) (T, error) {
	var out T
	err := convertInto(a, reflect.ValueOf(&out).Elem(), false)
	return out, err
}

// FromRelaxed converts like From but also accepts the fallback coercions:
//   - bool from a non-zero Integer or Float, or a non-empty String, Array or Table
//   - integers from Bool (0 or 1)
//   - floats from Integer or Bool
//   - DateTime from Date, at midnight
func FromRelaxed[T any](a Attribute) (T, error) {
	var out T
	err := convertInto(a, reflect.ValueOf(&out).Elem(), true)
	return out, err
}

// TypeName returns the simplified name of T used in conversion errors.
func TypeName[T any]() string {
	return typeName(reflect.TypeFor[T]())
}

var (
	attributeType = reflect.TypeFor[Attribute]()
	tablePtrType  = reflect.TypeFor[*Table]()
	dateType      = reflect.TypeFor[Date]()
	timeType      = reflect.TypeFor[Time]()
	dateTimeType  = reflect.TypeFor[DateTime]()
	tupleType     = reflect.TypeFor[tuple]()
)

func convertInto(a Attribute, dst reflect.Value, relaxed bool) error {
	t := dst.Type()
	mismatch := func() error {
		return &TypeError{Got: a.TypeName(), Want: typeName(t), Relaxed: relaxed}
	}

	switch t {
	case attributeType:
		dst.Set(reflect.ValueOf(a.Clone()))
		return nil
	case tablePtrType:
		if a.Kind != KindTable {
			return mismatch()
		}
		dst.Set(reflect.ValueOf(a.Table.Clone()))
		return nil
	case dateType:
		if a.Kind != KindDate {
			return mismatch()
		}
		dst.Set(reflect.ValueOf(a.Date))
		return nil
	case timeType:
		if a.Kind != KindTime {
			return mismatch()
		}
		dst.Set(reflect.ValueOf(a.Time))
		return nil
	case dateTimeType:
		switch {
		case a.Kind == KindDateTime:
			dst.Set(reflect.ValueOf(a.Clone().DateTime))
		case relaxed && a.Kind == KindDate:
			dst.Set(reflect.ValueOf(a.Date.WithTime(Time{})))
		default:
			return mismatch()
		}
		return nil
	}

	if t.Implements(tupleType) {
		return convertTuple(a, dst, relaxed)
	}

	switch t.Kind() {
	case reflect.Bool:
		v, ok := asBool(a, relaxed)
		if !ok {
			return mismatch()
		}
		dst.SetBool(v)
		return nil

	case reflect.String:
		if a.Kind != KindString {
			return mismatch()
		}
		dst.SetString(a.Str)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, ok := asInt(a, relaxed)
		if !ok {
			return mismatch()
		}
		if dst.OverflowInt(v) {
			return &RangeError{Value: v, Want: typeName(t)}
		}
		dst.SetInt(v)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, ok := asInt(a, relaxed)
		if !ok {
			return mismatch()
		}
		if v < 0 || dst.OverflowUint(uint64(v)) {
			return &RangeError{Value: v, Want: typeName(t)}
		}
		dst.SetUint(uint64(v))
		return nil

	case reflect.Float32, reflect.Float64:
		v, ok := asFloat(a, relaxed)
		if !ok {
			return mismatch()
		}
		dst.SetFloat(v)
		return nil

	case reflect.Slice:
		if a.Kind != KindArray {
			return mismatch()
		}
		out := reflect.MakeSlice(t, len(a.Array), len(a.Array))
		for i, elem := range a.Array {
			if err := convertInto(elem, out.Index(i), relaxed); err != nil {
				return err
			}
		}
		dst.Set(out)
		return nil

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			break
		}
		if a.Kind != KindTable {
			return mismatch()
		}
		out := reflect.MakeMapWithSize(t, a.Table.Len())
		for k, v := range a.Table.All() {
			elem := reflect.New(t.Elem()).Elem()
			if err := convertInto(v, elem, relaxed); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), elem)
		}
		dst.Set(out)
		return nil

	case reflect.Interface:
		if t.NumMethod() == 0 {
			dst.Set(reflect.ValueOf(a.Native()))
			return nil
		}
	}
	return fmt.Errorf("unsupported conversion target `%s`", typeName(t))
}

func convertTuple(a Attribute, dst reflect.Value, relaxed bool) error {
	if a.Kind != KindArray {
		return &TypeError{Got: a.TypeName(), Want: typeName(dst.Type()), Relaxed: relaxed}
	}
	// Elements past the tuple's arity are ignored.
	for i := range dst.NumField() {
		if i >= len(a.Array) {
			return ErrNotEnoughMembers
		}
		if err := convertInto(a.Array[i], dst.Field(i), relaxed); err != nil {
			return err
		}
	}
	return nil
}

func asBool(a Attribute, relaxed bool) (bool, bool) {
	if a.Kind == KindBool {
		return a.Bool, true
	}
	if !relaxed {
		return false, false
	}
	switch a.Kind {
	case KindInteger:
		return a.Int != 0, true
	case KindFloat:
		return a.Float != 0, true
	case KindString:
		return a.Str != "", true
	case KindArray:
		return len(a.Array) > 0, true
	case KindTable:
		return a.Table.Len() > 0, true
	}
	return false, false
}

func asInt(a Attribute, relaxed bool) (int64, bool) {
	if a.Kind == KindInteger {
		return a.Int, true
	}
	if relaxed && a.Kind == KindBool {
		return int64(boolInt(a.Bool)), true
	}
	return 0, false
}

func asFloat(a Attribute, relaxed bool) (float64, bool) {
	if a.Kind == KindFloat {
		return a.Float, true
	}
	if !relaxed {
		return 0, false
	}
	switch a.Kind {
	case KindInteger:
		return float64(a.Int), true
	case KindBool:
		return float64(boolInt(a.Bool)), true
	}
	return 0, false
}

func typeName(t reflect.Type) string {
	switch t {
	case attributeType:
		return "Attribute"
	case tablePtrType:
		return "Table"
	case dateType:
		return "Date"
	case timeType:
		return "Time"
	case dateTimeType:
		return "DateTime"
	}
	if t.Implements(tupleType) {
		parts := make([]string, t.NumField())
		for i := range parts {
			parts[i] = typeName(t.Field(i).Type)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	if t.Name() == "" || t.PkgPath() == "" {
		switch t.Kind() {
		case reflect.Bool:
			return "Bool"
		case reflect.String:
			return "String"
		case reflect.Int64:
			return "Integer"
		case reflect.Float64:
			return "Float"
		case reflect.Slice:
			return "[]" + typeName(t.Elem())
		case reflect.Map:
			return "map[" + t.Key().String() + "]" + typeName(t.Elem())
		case reflect.Pointer:
			return "*" + typeName(t.Elem())
		}
	}
	return simplifyTypeName(t.String())
}

// simplifyTypeName strips package paths from every identifier in a Go type
// string while keeping the punctuation: "map[string]github.com/x/pkg.Node"
// becomes "map[string]Node".
func simplifyTypeName(s string) string {
	var sb strings.Builder
	start := 0
	flush := func(end int) {
		word := s[start:end]
		if i := strings.LastIndexAny(word, "./"); i >= 0 {
			word = word[i+1:]
		}
		sb.WriteString(word)
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ',', '(', ')', '[', ']', '<', '>', '*', ' ':
			flush(i)
			sb.WriteByte(s[i])
			start = i + 1
		}
	}
	flush(len(s))
	return sb.String()
}
