package tasks

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
	"github.com/Nadi-System/nadi-core-sub000/functions"
	"github.com/Nadi-System/nadi-core-sub000/network"
	"github.com/Nadi-System/nadi-core-sub000/parser"
)

// scope is where a statement runs. The zero value is the env scope.
type scope struct {
	network bool
	node    *network.Node
	prop    parser.Propagation
}

// lookup resolves a variable. "env.", "network." and "node." prefixes pick
// the store explicitly; a bare name is looked up in the statement's own store
// and then in the env.
func (c *Context) lookup(sc scope, name string) (attrs.Attribute, bool) {
	if rest, ok := strings.CutPrefix(name, "env."); ok {
		return c.Env.Get(rest)
	}
	if rest, ok := strings.CutPrefix(name, "network."); ok {
		return c.Network.Attr(rest)
	}
	if rest, ok := strings.CutPrefix(name, "node."); ok {
		if sc.node == nil {
			return attrs.Attribute{}, false
		}
		return sc.node.Attr(rest)
	}
	switch {
	case sc.node != nil:
		if v, ok := sc.node.Attr(name); ok {
			return v, true
		}
	case sc.network:
		if v, ok := c.Network.Attr(name); ok {
			return v, true
		}
	}
	return c.Env.Get(name)
}

func (c *Context) variable(sc scope, name string) (attrs.Attribute, error) {
	v, ok := c.lookup(sc, name)
	if !ok {
		if sc.node != nil {
			return attrs.Attribute{}, fmt.Errorf("node %s: %w: %s", sc.node.Name(), network.ErrNoAttribute, name)
		}
		return attrs.Attribute{}, fmt.Errorf("%w: %s", network.ErrNoAttribute, name)
	}
	return v.Clone(), nil
}

// value evaluates an assignment's right hand side.
func (c *Context) value(sc scope, in parser.TaskInput) (attrs.Attribute, error) {
	switch in.Kind {
	case parser.InputLiteral:
		return in.Literal.Clone(), nil
	case parser.InputVariable:
		return c.variable(sc, in.Variable)
	case parser.InputFunction:
		ret, err := c.callStatement(sc, in)
		if err != nil {
			return attrs.Attribute{}, err
		}
		v, ok := ret.Get()
		if !ok {
			return attrs.Attribute{}, fmt.Errorf("function %s returned no value", in.Call.Name)
		}
		return v, nil
	}
	return attrs.Attribute{}, errors.New("nothing to assign")
}

// callStatement runs the function of a statement: a node function in node
// scope, a network function in network scope, and an env function anywhere.
func (c *Context) callStatement(sc scope, in parser.TaskInput) (functions.Ret, error) {
	if in.Kind != parser.InputFunction {
		return functions.Ret{}, fmt.Errorf("expected a function call, got %s", in)
	}
	call := in.Call
	ctx, err := c.arguments(sc, call)
	if err != nil {
		return functions.Ret{}, err
	}

	switch {
	case sc.node != nil:
		if fn, ok := c.Registry.Node(call.Name); ok {
			return fn.Call(c.Network, sc.node, ctx)
		}
		if fn, ok := c.Registry.Env(call.Name); ok {
			return fn.Call(ctx)
		}
		_, err := c.Registry.Lookup(functions.ScopeNode, call.Name)
		return functions.Ret{}, err

	case sc.network:
		if fn, ok := c.Registry.Network(call.Name); ok {
			return fn.Call(c.Network, ctx)
		}
		if fn, ok := c.Registry.Env(call.Name); ok {
			return fn.Call(ctx)
		}
		_, err := c.Registry.Lookup(functions.ScopeNetwork, call.Name)
		return functions.Ret{}, err
	}
	return c.callEnv(call, ctx)
}

func (c *Context) callEnv(call *parser.FunctionCall, ctx *functions.Ctx) (functions.Ret, error) {
	fn, err := c.Registry.Lookup(functions.ScopeEnv, call.Name)
	if err != nil {
		return functions.Ret{}, err
	}
	return fn.(functions.EnvFunction).Call(ctx)
}

// arguments evaluates the arguments of call, innermost calls first. Nested
// calls must be env functions.
func (c *Context) arguments(sc scope, call *parser.FunctionCall) (*functions.Ctx, error) {
	args := make([]attrs.Attribute, len(call.Args))
	for i, in := range call.Args {
		v, err := c.argument(sc, in)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", call.Name, i+1, err)
		}
		args[i] = v
	}

	keys := make([]string, 0, len(call.Kwargs))
	for k := range call.Kwargs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	kwargs := attrs.NewTable()
	for _, k := range keys {
		v, err := c.argument(sc, call.Kwargs[k])
		if err != nil {
			return nil, fmt.Errorf("%s: argument %s: %w", call.Name, k, err)
		}
		kwargs.Set(k, v)
	}

	ctx := functions.NewCtx(args, kwargs)
	ctx.Out = c.Out
	ctx.ErrOut = c.ErrOut
	ctx.Fs = c.Fs
	ctx.Logger = c.Logger.Named(call.Name)
	ctx.Propagation = sc.prop
	ctx.Evaluator = c.evaluator(sc.prop)
	return ctx, nil
}

func (c *Context) argument(sc scope, in parser.TaskInput) (attrs.Attribute, error) {
	if in.Kind != parser.InputFunction {
		return c.value(sc, in)
	}
	ctx, err := c.arguments(sc, in.Call)
	if err != nil {
		return attrs.Attribute{}, err
	}
	ret, err := c.callEnv(in.Call, ctx)
	if err != nil {
		return attrs.Attribute{}, err
	}
	v, ok := ret.Get()
	if !ok {
		return attrs.Attribute{}, fmt.Errorf("function %s returned no value", in.Call.Name)
	}
	return v, nil
}
