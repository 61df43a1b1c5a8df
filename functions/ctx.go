package functions

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
	"github.com/Nadi-System/nadi-core-sub000/network"
	"github.com/Nadi-System/nadi-core-sub000/parser"
)

// Ctx is the evaluated arguments of one call together with the resources a
// function may use while it runs.
type Ctx struct {
	Args   []attrs.Attribute
	Kwargs *attrs.Table

	// Propagation is the node selection of the calling statement, and
	// Evaluator decides its conditions.
	Propagation parser.Propagation
	Evaluator   network.Evaluator

	Out    io.Writer
	ErrOut io.Writer
	Fs     afero.Fs
	Logger hclog.Logger
}

// NewCtx creates a context with the given arguments. Output is discarded and
// files are read from the OS until the caller says otherwise.
func NewCtx(args []attrs.Attribute, kwargs *attrs.Table) *Ctx {
	if kwargs == nil {
		kwargs = attrs.NewTable()
	}
	return &Ctx{
		Args:   args,
		Kwargs: kwargs,
		Out:    io.Discard,
		ErrOut: io.Discard,
		Fs:     afero.NewOsFs(),
		Logger: hclog.NewNullLogger(),
	}
}

// Select returns the nodes of net picked by the statement's propagation.
func (c *Ctx) Select(net *network.Network) ([]*network.Node, error) {
	return net.Select(c.Propagation, c.Evaluator)
}

// Arg returns the positional argument at i.
func (c *Ctx) Arg(i int) (attrs.Attribute, bool) {
	if i < 0 || i >= len(c.Args) {
		return attrs.Attribute{}, false
	}
	return c.Args[i], true
}

// Kwarg returns the keyword argument called name.
func (c *Ctx) Kwarg(name string) (attrs.Attribute, bool) {
	return c.Kwargs.Get(name)
}

// lookup prefers the keyword form over the positional one.
func (c *Ctx) lookup(i int, name string) (attrs.Attribute, bool) {
	if v, ok := c.Kwarg(name); ok {
		return v, true
	}
	return c.Arg(i)
}

// Bind decodes the keyword arguments into the struct pointed to by out.
// Fields keep their current values when no keyword names them, so callers
// set defaults before binding.
func (c *Ctx) Bind(out any) error {
	return attrs.Decode(c.Kwargs, out)
}

// ArgKwarg converts the argument given as keyword name or at position i
// (zero based) into T. ok is false when the argument was not given.
func ArgKwarg[T any](c *Ctx, i int, name string) (v T, ok bool, err error) {
	return argKwarg(c, i, name, attrs.From[T])
}

// ArgKwargRelaxed is like ArgKwarg but uses relaxed conversion.
func ArgKwargRelaxed[T any](c *Ctx, i int, name string) (v T, ok bool, err error) {
	return argKwarg(c, i, name, attrs.FromRelaxed[T])
}

func argKwarg[T any](c *Ctx, i int, name string, conv func(attrs.Attribute) (T, error)) (T, bool, error) {
	var zero T
	a, ok := c.lookup(i, name)
	if !ok {
		return zero, false, nil
	}
	v, err := conv(a)
	if err != nil {
		return zero, true, fmt.Errorf("Argument %d (%s [%s]): %w", i+1, name, attrs.TypeName[T](), err)
	}
	return v, true, nil
}

// Required is ArgKwarg for an argument without a default.
func Required[T any](c *Ctx, i int, name string) (T, error) {
	v, ok, err := ArgKwarg[T](c, i, name)
	if err == nil && !ok {
		err = fmt.Errorf("Argument %d (%s [%s]) is required", i+1, name, attrs.TypeName[T]())
	}
	return v, err
}

// Optional is ArgKwarg with a default for a missing argument.
func Optional[T any](c *Ctx, i int, name string, def T) (T, error) {
	v, ok, err := ArgKwarg[T](c, i, name)
	if err != nil {
		return v, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// RequiredRelaxed is Required with relaxed conversion, for arguments that
// take any value with a truth or numeric reading.
func RequiredRelaxed[T any](c *Ctx, i int, name string) (T, error) {
	v, ok, err := ArgKwargRelaxed[T](c, i, name)
	if err == nil && !ok {
		err = fmt.Errorf("Argument %d (%s [%s]) is required", i+1, name, attrs.TypeName[T]())
	}
	return v, err
}
