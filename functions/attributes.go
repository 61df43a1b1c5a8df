package functions

import (
	"fmt"
	"strings"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
	"github.com/Nadi-System/nadi-core-sub000/network"
)

func registerAttrs(r *Registry) {
	r.RegisterNode("attrs", NodeFunc{Info{"set_attrs",
		"Set node attributes from the keyword arguments\n\nDotted keys descend into tables, creating them as needed.",
		"(**attrs)"}, setNodeAttrs})
	r.RegisterNode("attrs", NodeFunc{Info{"get_attr",
		"Get a node attribute\n\nReturns default when the attribute is missing, or fails when no default is given.",
		"(name: String, default: Attribute)"}, getAttr})
	r.RegisterNode("attrs", NodeFunc{Info{"print_attrs",
		"Print the given node attributes if present\n\nWith name, each line is prefixed by the node name.",
		"(*names, name: Bool = false)"}, printAttrs})
	r.RegisterNode("attrs", NodeFunc{Info{"print_all_attrs",
		"Print all attributes of the node",
		"()"}, printAllAttrs})
	r.RegisterNode("attrs", NodeFunc{Info{"load_attrs",
		"Load attributes for the node from a file\n\nThe filename is a template: `{attr}` is replaced by the node's attribute, e.g. \"attrs/{NAME}.toml\".",
		"(filename: String)"}, loadAttrs})

	r.RegisterNetwork("attrs", NetworkFunc{Info{"set_attrs",
		"Set network attributes from the keyword arguments",
		"(**attrs)"}, setNetworkAttrs})
}

func setNodeAttrs(_ *network.Network, node *network.Node, ctx *Ctx) (Ret, error) {
	for k, v := range ctx.Kwargs.All() {
		if err := node.SetAttr(k, v.Clone()); err != nil {
			return Ret{}, err
		}
	}
	return Ret{}, nil
}

func setNetworkAttrs(net *network.Network, ctx *Ctx) (Ret, error) {
	for k, v := range ctx.Kwargs.All() {
		if err := net.SetAttr(k, v.Clone()); err != nil {
			return Ret{}, err
		}
	}
	return Ret{}, nil
}

func getAttr(_ *network.Network, node *network.Node, ctx *Ctx) (Ret, error) {
	name, err := Required[string](ctx, 0, "name")
	if err != nil {
		return Ret{}, err
	}
	if v, ok := node.Attr(name); ok {
		return Return(v.Clone()), nil
	}
	if def, ok := ctx.lookup(1, "default"); ok {
		return Return(def), nil
	}
	return Ret{}, fmt.Errorf("node %s: %w: %s", node.Name(), network.ErrNoAttribute, name)
}

func printAttrs(_ *network.Network, node *network.Node, ctx *Ctx) (Ret, error) {
	opts := struct {
		Name bool `attr:"name"`
	}{}
	if err := ctx.Bind(&opts); err != nil {
		return Ret{}, err
	}
	for i, a := range ctx.Args {
		key, err := attrs.From[string](a)
		if err != nil {
			return Ret{}, fmt.Errorf("Argument %d (names [String]): %w", i+1, err)
		}
		v, ok := node.Attr(key)
		if !ok {
			continue
		}
		if opts.Name {
			fmt.Fprintf(ctx.Out, "%s::%s = %s\n", node.Name(), key, v)
		} else {
			fmt.Fprintf(ctx.Out, "%s = %s\n", key, v)
		}
	}
	return Ret{}, nil
}

func printAllAttrs(_ *network.Network, node *network.Node, ctx *Ctx) (Ret, error) {
	for k, v := range node.Attrs().All() {
		fmt.Fprintf(ctx.Out, "%s::%s = %s\n", node.Name(), k, v)
	}
	return Ret{}, nil
}

func loadAttrs(_ *network.Network, node *network.Node, ctx *Ctx) (Ret, error) {
	templ, err := Required[string](ctx, 0, "filename")
	if err != nil {
		return Ret{}, err
	}
	path, err := renderTemplate(templ, node)
	if err != nil {
		return Ret{}, err
	}
	ctx.Logger.Debug("loading attributes", "node", node.Name(), "file", path)
	tbl, err := network.LoadAttrFile(ctx.Fs, path)
	if err != nil {
		return Ret{}, err
	}
	node.Attrs().Merge(tbl)
	return Ret{}, nil
}

// renderTemplate replaces every {attr} in templ with the node's attribute,
// shown without quotes. "{{" and "}}" stand for literal braces.
func renderTemplate(templ string, node *network.Node) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(templ); i++ {
		c := templ[i]
		switch {
		case c == '{' && strings.HasPrefix(templ[i:], "{{"):
			sb.WriteByte('{')
			i++
		case c == '}' && strings.HasPrefix(templ[i:], "}}"):
			sb.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(templ[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("template %q: unclosed {", templ)
			}
			key := strings.TrimSpace(templ[i+1 : i+end])
			v, ok := node.Attr(key)
			if !ok {
				return "", fmt.Errorf("template %q: node %s: %w: %s", templ, node.Name(), network.ErrNoAttribute, key)
			}
			sb.WriteString(v.Display())
			i += end
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), nil
}
