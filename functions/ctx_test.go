package functions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
)

func TestArgKwarg(t *testing.T) {
	ctx := NewCtx(args(attrs.Int(1), attrs.Int(0)), kwargs("scale", attrs.Float(2)))

	v, ok, err := ArgKwarg[int64](ctx, 0, "value")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)

	f, ok, err := ArgKwarg[float64](ctx, 5, "scale")
	require.NoError(t, err)
	assert.True(t, ok, "keyword found even past the positional args")
	assert.Equal(t, 2.0, f)

	_, ok, err = ArgKwarg[string](ctx, 4, "label")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = ArgKwarg[bool](ctx, 1, "flag")
	assert.EqualError(t, err, "Argument 2 (flag [Bool]): Incorrect Type: got `Integer` instead of `Bool`")

	b, ok, err := ArgKwargRelaxed[bool](ctx, 1, "flag")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, b)

	_, _, err = ArgKwargRelaxed[[]int64](ctx, 0, "values")
	assert.ErrorContains(t, err, "Argument 1 (values [[]Integer])")

	def, err := Optional(ctx, 3, "label", "none")
	require.NoError(t, err)
	assert.Equal(t, "none", def)
}

func TestBind(t *testing.T) {
	opts := struct {
		Radius float64 `attr:"radius"`
		Label  string  `attr:"label"`
	}{Radius: 1}

	require.NoError(t, NewCtx(nil, kwargs("label", attrs.String("river"))).Bind(&opts))
	assert.Equal(t, 1.0, opts.Radius)
	assert.Equal(t, "river", opts.Label)

	err := NewCtx(nil, kwargs("radius", attrs.String("big"))).Bind(&opts)
	assert.Error(t, err)
}

func TestRet(t *testing.T) {
	_, ok := Ret{}.Get()
	assert.False(t, ok)

	v, ok := Return(attrs.Int(3)).Get()
	require.True(t, ok)
	assert.Equal(t, attrs.Int(3), v)
}
