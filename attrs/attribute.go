package attrs

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Kind discriminates the Attribute tagged union. The string value doubles as
// the type name shown in conversion errors.
type Kind string

const (
	KindBool     Kind = "Bool"
	KindString   Kind = "String"
	KindInteger  Kind = "Integer"
	KindFloat    Kind = "Float"
	KindDate     Kind = "Date"
	KindTime     Kind = "Time"
	KindDateTime Kind = "DateTime"
	KindArray    Kind = "Array"
	KindTable    Kind = "Table"
)

// Attribute is a literal value. Kind determines which typed field is populated.
type Attribute struct {
	Kind     Kind
	Bool     bool        // populated when Kind == KindBool
	Str      string      // populated when Kind == KindString
	Int      int64       // populated when Kind == KindInteger
	Float    float64     // populated when Kind == KindFloat
	Date     Date        // populated when Kind == KindDate
	Time     Time        // populated when Kind == KindTime
	DateTime DateTime    // populated when Kind == KindDateTime
	Array    []Attribute // populated when Kind == KindArray
	Table    *Table      // populated when Kind == KindTable
}

func Bool(v bool) Attribute       { return Attribute{Kind: KindBool, Bool: v} }
func String(v string) Attribute   { return Attribute{Kind: KindString, Str: v} }
func Int(v int64) Attribute       { return Attribute{Kind: KindInteger, Int: v} }
func Float(v float64) Attribute   { return Attribute{Kind: KindFloat, Float: v} }
func DateValue(v Date) Attribute  { return Attribute{Kind: KindDate, Date: v} }
func TimeValue(v Time) Attribute  { return Attribute{Kind: KindTime, Time: v} }
func Array(v ...Attribute) Attribute {
	if v == nil {
		v = []Attribute{}
	}
	return Attribute{Kind: KindArray, Array: v}
}

// DateTimeValue wraps a DateTime.
func DateTimeValue(v DateTime) Attribute { return Attribute{Kind: KindDateTime, DateTime: v} }

// TableValue wraps a Table. A nil table becomes an empty one.
func TableValue(t *Table) Attribute {
	if t == nil {
		t = NewTable()
	}
	return Attribute{Kind: KindTable, Table: t}
}

// TypeName returns the name of the attribute's variant, e.g. "Integer".
func (a Attribute) TypeName() string {
	if a.Kind == "" {
		return "Unknown"
	}
	return string(a.Kind)
}

// Clone deep-copies arrays and tables.
func (a Attribute) Clone() Attribute {
	switch a.Kind {
	case KindArray:
		out := make([]Attribute, len(a.Array))
		for i, v := range a.Array {
			out[i] = v.Clone()
		}
		a.Array = out
	case KindTable:
		a.Table = a.Table.Clone()
	case KindDateTime:
		if a.DateTime.Offset != nil {
			off := *a.DateTime.Offset
			a.DateTime.Offset = &off
		}
	}
	return a
}

// Equal reports structural equality. Tables compare without regard to order.
func (a Attribute) Equal(b Attribute) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindBool:
		return a.Bool == b.Bool
	case KindString:
		return a.Str == b.Str
	case KindInteger:
		return a.Int == b.Int
	case KindFloat:
		return a.Float == b.Float
	case KindDate:
		return a.Date == b.Date
	case KindTime:
		return a.Time == b.Time
	case KindDateTime:
		return a.DateTime.Equal(b.DateTime)
	case KindArray:
		return slices.EqualFunc(a.Array, b.Array, Attribute.Equal)
	case KindTable:
		return a.Table.Equal(b.Table)
	}
	return true
}

// String renders the attribute in the literal syntax accepted by the
// attribute grammar, so that the output reads back as an equal value.
func (a Attribute) String() string {
	switch a.Kind {
	case KindBool:
		return strconv.FormatBool(a.Bool)
	case KindString:
		return Quote(a.Str)
	case KindInteger:
		return strconv.FormatInt(a.Int, 10)
	case KindFloat:
		return formatFloat(a.Float)
	case KindDate:
		return a.Date.String()
	case KindTime:
		return a.Time.String()
	case KindDateTime:
		return a.DateTime.String()
	case KindArray:
		parts := make([]string, len(a.Array))
		for i, v := range a.Array {
			parts[i] = v.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindTable:
		return a.Table.String()
	}
	return ""
}

// Display renders the attribute for humans: strings are unquoted, everything
// else matches String.
func (a Attribute) Display() string {
	if a.Kind == KindString {
		return a.Str
	}
	return a.String()
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Quote renders s as a double-quoted string literal. Control characters
// without a short escape are written as \u{XX}.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u{%x}`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// Native converts the attribute into plain Go values: bool, string, int64,
// float64, Date, Time, DateTime, []any and map[string]any.
func (a Attribute) Native() any {
	switch a.Kind {
	case KindBool:
		return a.Bool
	case KindString:
		return a.Str
	case KindInteger:
		return a.Int
	case KindFloat:
		return a.Float
	case KindDate:
		return a.Date
	case KindTime:
		return a.Time
	case KindDateTime:
		return a.DateTime
	case KindArray:
		out := make([]any, len(a.Array))
		for i, v := range a.Array {
			out[i] = v.Native()
		}
		return out
	case KindTable:
		return a.Table.Native()
	}
	return nil
}

// Of converts a native Go value into an Attribute. It accepts everything
// Native produces plus other integer and float widths, slices, arrays,
// string-keyed maps (sorted by key) and the Tuple types.
func Of(v any) (Attribute, error) {
	switch val := v.(type) {
	case Attribute:
		return val, nil
	case *Table:
		return TableValue(val), nil
	case Date:
		return DateValue(val), nil
	case Time:
		return TimeValue(val), nil
	case DateTime:
		return DateTimeValue(val), nil
	case nil:
		return Attribute{}, fmt.Errorf("cannot convert nil to an attribute")
	}
	return ofValue(reflect.ValueOf(v))
}

func ofValue(rv reflect.Value) (Attribute, error) {
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Attribute{}, fmt.Errorf("cannot convert nil to an attribute")
		}
		rv = rv.Elem()
	}
	if rv.CanInterface() {
		switch val := rv.Interface().(type) {
		case Attribute, *Table, Date, Time, DateTime:
			return Of(val)
		}
	}
	if rv.Type().Implements(tupleType) {
		out := make([]Attribute, rv.NumField())
		for i := range out {
			a, err := ofValue(rv.Field(i))
			if err != nil {
				return Attribute{}, err
			}
			out[i] = a
		}
		return Array(out...), nil
	}
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Attribute{}, fmt.Errorf("integer %d overflows Integer", u)
		}
		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		out := make([]Attribute, rv.Len())
		for i := range out {
			a, err := ofValue(rv.Index(i))
			if err != nil {
				return Attribute{}, err
			}
			out[i] = a
		}
		return Array(out...), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Attribute{}, fmt.Errorf("cannot convert %s to a Table: keys must be strings", rv.Type())
		}
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(x, y reflect.Value) int { return strings.Compare(x.String(), y.String()) })
		t := NewTable()
		for _, k := range keys {
			a, err := ofValue(rv.MapIndex(k))
			if err != nil {
				return Attribute{}, err
			}
			t.Set(k.String(), a)
		}
		return TableValue(t), nil
	case reflect.Pointer:
		if rv.IsNil() {
			return Attribute{}, fmt.Errorf("cannot convert nil to an attribute")
		}
		return ofValue(rv.Elem())
	}
	return Attribute{}, fmt.Errorf("cannot convert %s to an attribute", rv.Type())
}

// Compare orders two attributes of comparable kinds. Integers and floats
// compare numerically with each other; strings, dates, times and datetimes
// compare within their own kind.
func Compare(a, b Attribute) (int, error) {
	if a.Kind == KindInteger && b.Kind == KindInteger {
		return cmpOrdered(a.Int, b.Int), nil
	}
	if isNumber(a) && isNumber(b) {
		return cmpOrdered(toFloat(a), toFloat(b)), nil
	}
	if a.Kind != b.Kind {
		return 0, fmt.Errorf("cannot compare %s with %s", a.TypeName(), b.TypeName())
	}
	switch a.Kind {
	case KindString:
		return strings.Compare(a.Str, b.Str), nil
	case KindBool:
		return cmpOrdered(boolInt(a.Bool), boolInt(b.Bool)), nil
	case KindDate:
		return a.Date.Compare(b.Date), nil
	case KindTime:
		return a.Time.Compare(b.Time), nil
	case KindDateTime:
		return a.DateTime.Compare(b.DateTime), nil
	}
	return 0, fmt.Errorf("cannot order values of type %s", a.TypeName())
}

func isNumber(a Attribute) bool { return a.Kind == KindInteger || a.Kind == KindFloat }

func toFloat(a Attribute) float64 {
	if a.Kind == KindInteger {
		return float64(a.Int)
	}
	return a.Float
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func cmpOrdered[T int | int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
