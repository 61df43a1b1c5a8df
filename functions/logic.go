package functions

import (
	"fmt"
	"math"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
	"github.com/Nadi-System/nadi-core-sub000/network"
	"github.com/Nadi-System/nadi-core-sub000/parser"
)

// Conditions in this file are relaxed: numbers are true unless zero, and
// strings, arrays and tables are true unless empty.
func registerLogic(r *Registry) {
	r.RegisterNode("attrs", NodeFunc{Info{"has_attr",
		"Check if the node has the attribute",
		"(attr: String)"}, hasAttr})
	r.RegisterNode("attrs", NodeFunc{Info{"set_attrs_ifelse",
		"Set node attributes to one of two values\n\n"+
			"Each keyword takes an array [iftrue, iffalse]; the first member is set when cond holds.",
		"(cond: Bool, **values)"}, setAttrsIfelse})
	r.RegisterNode("attrs", NodeFunc{Info{"set_attrs_render",
		"Set node attributes by rendering the keyword templates\n\nSee load_attrs for the template syntax.",
		"(**templates)"}, setAttrsRender})
	r.RegisterNode("attrs", NodeFunc{Info{"load_toml_render",
		"Render a template and load it as node attributes\n\n"+
			"Literal braces in the TOML are written {{ and }}. With echo the rendered text is printed.",
		"(toml: String, echo: Bool = false)"}, loadTomlRender})

	r.RegisterEnv("attrs", EnvFunc{Info{"ifelse",
		"Return iftrue when cond holds and iffalse otherwise",
		"(cond: Bool, iftrue: Attribute, iffalse: Attribute)"}, ifelse})
	r.RegisterEnv("attrs", EnvFunc{Info{"and",
		"Boolean and of all the conditions",
		"(*conds)"}, andFn})
	r.RegisterEnv("attrs", EnvFunc{Info{"or",
		"Boolean or of all the conditions",
		"(*conds)"}, orFn})
	r.RegisterEnv("attrs", EnvFunc{Info{"not",
		"Boolean not of the condition",
		"(cond: Bool)"}, notFn})
	r.RegisterEnv("attrs", EnvFunc{Info{"strmap",
		"Map a string through attrmap\n\nReturns default when the string is not a key, and nothing when there is no default either.",
		"(attr: String, attrmap: Table, default: Attribute)"}, strmap})
	r.RegisterEnv("attrs", EnvFunc{Info{"float_transform",
		"Transform a float with log, log10 or sqrt\n\nZero is treated as 0.1 so the logarithms stay finite.",
		"(value: Float, transformation: String)"}, floatTransform})
}

func hasAttr(_ *network.Network, node *network.Node, ctx *Ctx) (Ret, error) {
	name, err := Required[string](ctx, 0, "attr")
	if err != nil {
		return Ret{}, err
	}
	_, ok := node.Attr(name)
	return Return(attrs.Bool(ok)), nil
}

func setAttrsIfelse(_ *network.Network, node *network.Node, ctx *Ctx) (Ret, error) {
	cond, err := RequiredRelaxed[bool](ctx, 0, "cond")
	if err != nil {
		return Ret{}, err
	}
	for k, v := range ctx.Kwargs.All() {
		if k == "cond" {
			continue
		}
		pair, err := attrs.From[attrs.Tuple2[attrs.Attribute, attrs.Attribute]](v)
		if err != nil {
			return Ret{}, fmt.Errorf("%s: %w", k, err)
		}
		val := pair.V2
		if cond {
			val = pair.V1
		}
		if err := node.SetAttr(k, val.Clone()); err != nil {
			return Ret{}, err
		}
	}
	return Ret{}, nil
}

func setAttrsRender(_ *network.Network, node *network.Node, ctx *Ctx) (Ret, error) {
	for k, v := range ctx.Kwargs.All() {
		templ, err := attrs.From[string](v)
		if err != nil {
			return Ret{}, fmt.Errorf("%s: %w", k, err)
		}
		text, err := renderTemplate(templ, node)
		if err != nil {
			return Ret{}, err
		}
		if err := node.SetAttr(k, attrs.String(text)); err != nil {
			return Ret{}, err
		}
	}
	return Ret{}, nil
}

func loadTomlRender(_ *network.Network, node *network.Node, ctx *Ctx) (Ret, error) {
	templ, err := Required[string](ctx, 0, "toml")
	if err != nil {
		return Ret{}, err
	}
	echo, err := Optional(ctx, 1, "echo", false)
	if err != nil {
		return Ret{}, err
	}
	text, err := renderTemplate(templ, node)
	if err != nil {
		return Ret{}, err
	}
	if echo {
		fmt.Fprintln(ctx.Out, text)
	}
	tbl, err := parser.ParseAttrFile(text + "\n")
	if err != nil {
		return Ret{}, fmt.Errorf("node %s: %w", node.Name(), err)
	}
	node.Attrs().Merge(tbl)
	return Ret{}, nil
}

func ifelse(ctx *Ctx) (Ret, error) {
	cond, err := RequiredRelaxed[bool](ctx, 0, "cond")
	if err != nil {
		return Ret{}, err
	}
	iftrue, err := Required[attrs.Attribute](ctx, 1, "iftrue")
	if err != nil {
		return Ret{}, err
	}
	iffalse, err := Required[attrs.Attribute](ctx, 2, "iffalse")
	if err != nil {
		return Ret{}, err
	}
	if cond {
		return Return(iftrue), nil
	}
	return Return(iffalse), nil
}

// conds converts every positional argument to a relaxed bool.
func conds(ctx *Ctx) ([]bool, error) {
	out := make([]bool, len(ctx.Args))
	for i, a := range ctx.Args {
		b, err := attrs.FromRelaxed[bool](a)
		if err != nil {
			return nil, fmt.Errorf("Argument %d (conds [Bool]): %w", i+1, err)
		}
		out[i] = b
	}
	return out, nil
}

func andFn(ctx *Ctx) (Ret, error) {
	cs, err := conds(ctx)
	if err != nil {
		return Ret{}, err
	}
	all := true
	for _, c := range cs {
		all = all && c
	}
	return Return(attrs.Bool(all)), nil
}

func orFn(ctx *Ctx) (Ret, error) {
	cs, err := conds(ctx)
	if err != nil {
		return Ret{}, err
	}
	some := false
	for _, c := range cs {
		some = some || c
	}
	return Return(attrs.Bool(some)), nil
}

func notFn(ctx *Ctx) (Ret, error) {
	cond, err := RequiredRelaxed[bool](ctx, 0, "cond")
	if err != nil {
		return Ret{}, err
	}
	return Return(attrs.Bool(!cond)), nil
}

func strmap(ctx *Ctx) (Ret, error) {
	key, err := RequiredRelaxed[string](ctx, 0, "attr")
	if err != nil {
		return Ret{}, err
	}
	m, err := Required[*attrs.Table](ctx, 1, "attrmap")
	if err != nil {
		return Ret{}, err
	}
	if v, ok := m.Get(key); ok {
		return Return(v.Clone()), nil
	}
	if def, ok := ctx.lookup(2, "default"); ok {
		return Return(def), nil
	}
	return Ret{}, nil
}

func floatTransform(ctx *Ctx) (Ret, error) {
	value, err := RequiredRelaxed[float64](ctx, 0, "value")
	if err != nil {
		return Ret{}, err
	}
	name, err := Required[string](ctx, 1, "transformation")
	if err != nil {
		return Ret{}, err
	}
	if value == 0 {
		value = 0.1
	}
	switch name {
	case "log":
		value = math.Log(value)
	case "log10":
		value = math.Log10(value)
	case "sqrt":
		value = math.Sqrt(value)
	default:
		return Ret{}, fmt.Errorf("Unknown Transformation: %s", name)
	}
	return Return(attrs.Float(value)), nil
}
