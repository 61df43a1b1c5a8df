package functions

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
	"github.com/Nadi-System/nadi-core-sub000/network"
)

func registerCore(r *Registry) {
	r.RegisterEnv("core", EnvFunc{Info{"type_name",
		"Type name of the argument\n\nWith recursive, arrays and tables are walked and every member is replaced by its type name.",
		"(value: Attribute, recursive: Bool = false)"}, typeNameFn})
	r.RegisterEnv("core", EnvFunc{Info{"float",
		"Make a float from the value\n\nStrings are parsed when parse is true; other values use relaxed conversion.",
		"(value: Attribute, parse: Bool = true)"}, floatFn})
	r.RegisterEnv("core", EnvFunc{Info{"int",
		"Make an integer from the value\n\nStrings are parsed when parse is true, or parsed as a float and rounded when strfloat is true. Floats are rounded when round is true.",
		"(value: Attribute, parse: Bool = true, round: Bool = true, strfloat: Bool = false)"}, intFn})
	r.RegisterEnv("core", EnvFunc{Info{"str",
		"Make a string from the value\n\nWith quote, the value is rendered in literal syntax, so strings gain quotes.",
		"(value: Attribute, quote: Bool = false)"}, strFn})
	r.RegisterEnv("core", EnvFunc{Info{"array",
		"Make an array from the arguments",
		"(*attributes)"}, arrayFn})
	r.RegisterEnv("core", EnvFunc{Info{"attrmap",
		"Make a table from the keyword arguments",
		"(**attributes)"}, attrmapFn})

	r.RegisterNode("core", NodeFunc{Info{"inputs_count",
		"Count the number of input nodes of the node",
		"()"}, inputsCount})
	r.RegisterNode("core", NodeFunc{Info{"has_outlet",
		"Node has an outlet or not",
		"()"}, hasOutlet})
	r.RegisterNode("core", NodeFunc{Info{"inputs",
		"Get an attribute of every input node, as an array",
		`(attr: String = "NAME")`}, inputsFn})
	r.RegisterNode("core", NodeFunc{Info{"output",
		"Get an attribute of the output node",
		`(attr: String = "NAME")`}, outputFn})

	r.RegisterNetwork("core", NetworkFunc{Info{"count",
		"Count the number of nodes in the network\n\n"+
			"With a propagation, as in network[a -> b] count(), only the "+
			"selected nodes are counted.",
		"()"}, countFn})
}

func typeNameFn(ctx *Ctx) (Ret, error) {
	value, err := Required[attrs.Attribute](ctx, 0, "value")
	if err != nil {
		return Ret{}, err
	}
	recursive, err := Optional(ctx, 1, "recursive", false)
	if err != nil {
		return Ret{}, err
	}
	if recursive {
		return Return(typeTree(value)), nil
	}
	return Return(attrs.String(value.TypeName())), nil
}

func typeTree(a attrs.Attribute) attrs.Attribute {
	switch a.Kind {
	case attrs.KindArray:
		out := make([]attrs.Attribute, len(a.Array))
		for i, v := range a.Array {
			out[i] = typeTree(v)
		}
		return attrs.Array(out...)
	case attrs.KindTable:
		t := attrs.NewTable()
		for k, v := range a.Table.All() {
			t.Set(k, typeTree(v))
		}
		return attrs.TableValue(t)
	}
	return attrs.String(a.TypeName())
}

func floatFn(ctx *Ctx) (Ret, error) {
	value, err := Required[attrs.Attribute](ctx, 0, "value")
	if err != nil {
		return Ret{}, err
	}
	parse, err := Optional(ctx, 1, "parse", true)
	if err != nil {
		return Ret{}, err
	}
	if value.Kind == attrs.KindString && parse {
		f, err := strconv.ParseFloat(value.Str, 64)
		if err != nil {
			return Ret{}, fmt.Errorf("parsing %s as float: %w", value, err)
		}
		return Return(attrs.Float(f)), nil
	}
	f, err := attrs.FromRelaxed[float64](value)
	if err != nil {
		return Ret{}, err
	}
	return Return(attrs.Float(f)), nil
}

func intFn(ctx *Ctx) (Ret, error) {
	value, err := Required[attrs.Attribute](ctx, 0, "value")
	if err != nil {
		return Ret{}, err
	}
	parse, err := Optional(ctx, 1, "parse", true)
	if err != nil {
		return Ret{}, err
	}
	round, err := Optional(ctx, 2, "round", true)
	if err != nil {
		return Ret{}, err
	}
	strfloat, err := Optional(ctx, 3, "strfloat", false)
	if err != nil {
		return Ret{}, err
	}

	switch {
	case value.Kind == attrs.KindString && strfloat:
		f, err := strconv.ParseFloat(value.Str, 64)
		if err != nil {
			return Ret{}, fmt.Errorf("parsing %s as float: %w", value, err)
		}
		return Return(attrs.Int(int64(math.Round(f)))), nil
	case value.Kind == attrs.KindString && parse:
		i, err := strconv.ParseInt(value.Str, 10, 64)
		if err != nil {
			return Ret{}, fmt.Errorf("parsing %s as integer: %w", value, err)
		}
		return Return(attrs.Int(i)), nil
	case value.Kind == attrs.KindFloat && round:
		return Return(attrs.Int(int64(math.Round(value.Float)))), nil
	}
	i, err := attrs.FromRelaxed[int64](value)
	if err != nil {
		return Ret{}, err
	}
	return Return(attrs.Int(i)), nil
}

func strFn(ctx *Ctx) (Ret, error) {
	value, err := Required[attrs.Attribute](ctx, 0, "value")
	if err != nil {
		return Ret{}, err
	}
	quote, err := Optional(ctx, 1, "quote", false)
	if err != nil {
		return Ret{}, err
	}
	if quote {
		return Return(attrs.String(value.String())), nil
	}
	return Return(attrs.String(value.Display())), nil
}

func arrayFn(ctx *Ctx) (Ret, error) {
	out := make([]attrs.Attribute, len(ctx.Args))
	for i, a := range ctx.Args {
		out[i] = a.Clone()
	}
	return Return(attrs.Array(out...)), nil
}

func attrmapFn(ctx *Ctx) (Ret, error) {
	return Return(attrs.TableValue(ctx.Kwargs.Clone())), nil
}

func inputsCount(_ *network.Network, node *network.Node, _ *Ctx) (Ret, error) {
	return Return(attrs.Int(int64(len(node.Inputs())))), nil
}

func hasOutlet(_ *network.Network, node *network.Node, _ *Ctx) (Ret, error) {
	_, ok := node.Output()
	return Return(attrs.Bool(ok)), nil
}

func inputsFn(net *network.Network, node *network.Node, ctx *Ctx) (Ret, error) {
	attr, err := Optional(ctx, 0, "attr", "NAME")
	if err != nil {
		return Ret{}, err
	}
	var out []attrs.Attribute
	for _, i := range node.Inputs() {
		v, err := network.TryAttr[attrs.Attribute](net.Node(i), attr)
		if err != nil {
			return Ret{}, err
		}
		out = append(out, v)
	}
	return Return(attrs.Array(out...)), nil
}

func outputFn(net *network.Network, node *network.Node, ctx *Ctx) (Ret, error) {
	attr, err := Optional(ctx, 0, "attr", "NAME")
	if err != nil {
		return Ret{}, err
	}
	o, ok := node.Output()
	if !ok {
		return Ret{}, fmt.Errorf("node %s has no output", node.Name())
	}
	v, err := network.TryAttr[attrs.Attribute](net.Node(o), attr)
	if err != nil {
		return Ret{}, err
	}
	return Return(v), nil
}

func countFn(net *network.Network, ctx *Ctx) (Ret, error) {
	nodes, err := ctx.Select(net)
	if err != nil {
		return Ret{}, err
	}
	return Return(attrs.Int(int64(len(nodes)))), nil
}
