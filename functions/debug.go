package functions

import (
	"fmt"
	"io"
	"strings"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
	"github.com/Nadi-System/nadi-core-sub000/network"
)

func registerDebug(r *Registry) {
	r.RegisterNetwork("debug", NetworkFunc{Info{"debug",
		"Print the args and kwargs of this function call",
		"(*args, **kwargs)"}, debugFn})
	r.RegisterNetwork("debug", NetworkFunc{Info{"echo",
		"Print the line to standard output, or to standard error with error=true",
		"(line: String, error: Bool = false, newline: Bool = true)"}, echoFn})
}

func debugFn(_ *network.Network, ctx *Ctx) (Ret, error) {
	parts := make([]string, 0, len(ctx.Args)+ctx.Kwargs.Len())
	for _, a := range ctx.Args {
		parts = append(parts, a.String())
	}
	for k, v := range ctx.Kwargs.All() {
		parts = append(parts, attrs.TableKey(k)+"="+v.String())
	}
	fmt.Fprintf(ctx.Out, "Function Call: debug(%s)\n", strings.Join(parts, ", "))
	fmt.Fprintf(ctx.Out, "Args: %s\n", attrs.Array(ctx.Args...))
	fmt.Fprintf(ctx.Out, "KwArgs: %s\n", ctx.Kwargs)
	return Ret{}, nil
}

func echoFn(_ *network.Network, ctx *Ctx) (Ret, error) {
	line, err := Required[string](ctx, 0, "line")
	if err != nil {
		return Ret{}, err
	}
	toErr, err := Optional(ctx, 1, "error", false)
	if err != nil {
		return Ret{}, err
	}
	newline, err := Optional(ctx, 2, "newline", true)
	if err != nil {
		return Ret{}, err
	}
	w := ctx.Out
	if toErr {
		w = ctx.ErrOut
	}
	if newline {
		line += "\n"
	}
	_, err = io.WriteString(w, line)
	return Ret{}, err
}
