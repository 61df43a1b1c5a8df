package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrictBool(t *testing.T) {
	v, err := From[bool](Bool(true))
	require.NoError(t, err)
	assert.True(t, v)

	_, err = From[bool](Int(0))
	require.Error(t, err)
	assert.Equal(t, "Incorrect Type: got `Integer` instead of `Bool`", err.Error())

	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.False(t, typeErr.Relaxed)
}

func TestRelaxedBool(t *testing.T) {
	tests := []struct {
		name string
		in   Attribute
		want bool
	}{
		{"bool", Bool(true), true},
		{"zero integer", Int(0), false},
		{"integer", Int(5), true},
		{"zero float", Float(0), false},
		{"float", Float(0.5), true},
		{"empty string", String(""), false},
		{"string", String("false"), true},
		{"empty array", Array(), false},
		{"array", Array(Int(1)), true},
		{"empty table", TableValue(nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromRelaxed[bool](tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FromRelaxed[bool](DateValue(Date{2020, 1, 1}))
	require.Error(t, err)
	assert.Equal(t, "Incorrect Type: `Date` cannot be converted to `Bool`", err.Error())
}

func TestNumericConversions(t *testing.T) {
	i, err := From[int64](Int(42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), i)

	_, err = From[int64](Bool(true))
	require.Error(t, err)

	i, err = FromRelaxed[int64](Bool(true))
	require.NoError(t, err)
	assert.Equal(t, int64(1), i)

	_, err = From[float64](Int(2))
	require.Error(t, err)
	assert.Equal(t, "Incorrect Type: got `Integer` instead of `Float`", err.Error())

	f, err := FromRelaxed[float64](Int(2))
	require.NoError(t, err)
	assert.Equal(t, 2.0, f)

	f, err = FromRelaxed[float64](Bool(false))
	require.NoError(t, err)
	assert.Equal(t, 0.0, f)

	_, err = FromRelaxed[int64](Float(1.5))
	require.Error(t, err)
	assert.Equal(t, "Incorrect Type: `Float` cannot be converted to `Integer`", err.Error())
}

func TestIntegerWidths(t *testing.T) {
	u, err := From[uint8](Int(200))
	require.NoError(t, err)
	assert.Equal(t, uint8(200), u)

	_, err = From[uint8](Int(300))
	var rangeErr *RangeError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "uint8", rangeErr.Want)

	_, err = From[uint64](Int(-1))
	require.ErrorAs(t, err, &rangeErr)

	n, err := From[int](Int(-7))
	require.NoError(t, err)
	assert.Equal(t, -7, n)
}

func TestDateTimeWidening(t *testing.T) {
	d := Date{Year: 2022, Month: 1, Day: 1}

	_, err := From[DateTime](DateValue(d))
	require.Error(t, err)

	dt, err := FromRelaxed[DateTime](DateValue(d))
	require.NoError(t, err)
	assert.Equal(t, d, dt.Date)
	assert.Equal(t, Time{}, dt.Time)
	assert.Nil(t, dt.Offset)
}

func TestTupleConversion(t *testing.T) {
	arr := Array(Int(2), Bool(true))

	v, err := From[Tuple2[int64, bool]](arr)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.V1)
	assert.True(t, v.V2)

	_, err = From[Tuple2[int64, bool]](Array(Int(2)))
	require.ErrorIs(t, err, ErrNotEnoughMembers)
	assert.Equal(t, "Not enough members", err.Error())

	_, err = From[Tuple2[int64, bool]](Int(2))
	require.Error(t, err)
	assert.Equal(t, "Incorrect Type: got `Integer` instead of `(Integer, Bool)`", err.Error())

	relaxed, err := FromRelaxed[Tuple2[int64, bool]](Array(Int(2), Int(1)))
	require.NoError(t, err)
	assert.Equal(t, Tuple2[int64, bool]{V1: 2, V2: true}, relaxed)
}

// Extra Array elements beyond a tuple's arity are dropped rather than
// rejected. This pins down the current lenient behaviour.
func TestTupleIgnoresExtraMembers(t *testing.T) {
	v, err := From[Tuple1[string]](Array(String("a"), String("b"), Int(3)))
	require.NoError(t, err)
	assert.Equal(t, "a", v.V1)

	six, err := From[Tuple6[int64, int64, int64, int64, int64, int64]](
		Array(Int(1), Int(2), Int(3), Int(4), Int(5), Int(6), Int(7)))
	require.NoError(t, err)
	assert.Equal(t, int64(6), six.V6)
}

func TestSliceConversion(t *testing.T) {
	v, err := From[[]int64](Array(Int(1), Int(2), Int(3)))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, v)

	_, err = From[[]int64](Array(Int(1), Float(2)))
	require.Error(t, err)
	assert.Equal(t, "Incorrect Type: got `Float` instead of `Integer`", err.Error())

	_, err = From[[]int64](Int(1))
	require.Error(t, err)
	assert.Equal(t, "Incorrect Type: got `Integer` instead of `[]Integer`", err.Error())
	var terr *TypeError
	require.ErrorAs(t, err, &terr)
	assert.False(t, terr.Relaxed)

	_, err = FromRelaxed[[]string](String("a, b"))
	assert.EqualError(t, err, "Incorrect Type: `String` cannot be converted to `[]String`")

	floats, err := FromRelaxed[[]float64](Array(Int(1), Float(2.5), Bool(true)))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, 1}, floats)
}

func TestMapConversion(t *testing.T) {
	tbl := NewTable()
	tbl.Set("a", Int(1))
	tbl.Set("b", Int(2))

	m, err := From[map[string]int64](TableValue(tbl))
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"a": 1, "b": 2}, m)

	_, err = From[map[string]int64](Array())
	require.Error(t, err)
}

func TestAttributeAndAnyTargets(t *testing.T) {
	arr := Array(Int(1), String("x"))
	got, err := From[Attribute](arr)
	require.NoError(t, err)
	assert.True(t, got.Equal(arr))

	native, err := From[any](arr)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), "x"}, native)
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "Bool", TypeName[bool]())
	assert.Equal(t, "Integer", TypeName[int64]())
	assert.Equal(t, "Float", TypeName[float64]())
	assert.Equal(t, "String", TypeName[string]())
	assert.Equal(t, "int", TypeName[int]())
	assert.Equal(t, "[]Integer", TypeName[[]int64]())
	assert.Equal(t, "map[string]Float", TypeName[map[string]float64]())
	assert.Equal(t, "(Integer, Bool)", TypeName[Tuple2[int64, bool]]())
	assert.Equal(t, "[](String, DateTime)", TypeName[[]Tuple2[string, DateTime]]())
	assert.Equal(t, "Table", TypeName[*Table]())
	assert.Equal(t, "TypeError", TypeName[TypeError]())
}

func TestSimplifyTypeName(t *testing.T) {
	assert.Equal(t, "map[string]Node", simplifyTypeName("map[string]github.com/x/network.Node"))
	assert.Equal(t, "Pair[int,Node]", simplifyTypeName("pkg.Pair[int,github.com/a/b.Node]"))
}
