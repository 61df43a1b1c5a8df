package functions

import (
	"reflect"
	"runtime"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
	"github.com/Nadi-System/nadi-core-sub000/network"
)

// Scope says what a function operates on.
type Scope int

const (
	ScopeNode Scope = iota
	ScopeNetwork
	ScopeEnv
)

var scopeNames = map[Scope]string{
	ScopeNode:    "node",
	ScopeNetwork: "network",
	ScopeEnv:     "env",
}

func (s Scope) String() string {
	if name, ok := scopeNames[s]; ok {
		return name
	}
	return "unknown"
}

// title is the scope name used in help headers and lookup errors.
func (s Scope) title() string {
	switch s {
	case ScopeNode:
		return "Node"
	case ScopeNetwork:
		return "Network"
	case ScopeEnv:
		return "Env"
	}
	return "Unknown"
}

// Ret is what a function call produces. A nil Value means the function
// returned nothing.
type Ret struct {
	Value *attrs.Attribute
}

// Return wraps a produced attribute.
func Return(a attrs.Attribute) Ret { return Ret{Value: &a} }

// Get returns the produced value, if any.
func (r Ret) Get() (attrs.Attribute, bool) {
	if r.Value == nil {
		return attrs.Attribute{}, false
	}
	return *r.Value, true
}

// Function is the part every scope shares.
type Function interface {
	// Name is the short name, without the plugin prefix.
	Name() string
	// Help is the documentation. The first line is a summary.
	Help() string
	// Signature lists the arguments, e.g. `(attr: String = "NAME")`.
	Signature() string
	// Code identifies the implementation.
	Code() string
}

// NodeFunction runs once per selected node.
type NodeFunction interface {
	Function
	Call(net *network.Network, node *network.Node, ctx *Ctx) (Ret, error)
}

// NetworkFunction runs once on the whole network.
type NetworkFunction interface {
	Function
	Call(net *network.Network, ctx *Ctx) (Ret, error)
}

// EnvFunction needs nothing but its arguments. Env functions may be nested
// inside the arguments of any other call.
type EnvFunction interface {
	Function
	Call(ctx *Ctx) (Ret, error)
}

// Info carries the descriptive half of a function defined from a Go func.
type Info struct {
	FuncName string
	HelpText string
	Sig      string
}

func (i Info) Name() string      { return i.FuncName }
func (i Info) Help() string      { return i.HelpText }
func (i Info) Signature() string { return i.Sig }

// NodeFunc adapts a Go func to NodeFunction.
type NodeFunc struct {
	Info
	Fn func(net *network.Network, node *network.Node, ctx *Ctx) (Ret, error)
}

func (f NodeFunc) Code() string { return funcName(f.Fn) }

func (f NodeFunc) Call(net *network.Network, node *network.Node, ctx *Ctx) (Ret, error) {
	return f.Fn(net, node, ctx)
}

// NetworkFunc adapts a Go func to NetworkFunction.
type NetworkFunc struct {
	Info
	Fn func(net *network.Network, ctx *Ctx) (Ret, error)
}

func (f NetworkFunc) Code() string { return funcName(f.Fn) }

func (f NetworkFunc) Call(net *network.Network, ctx *Ctx) (Ret, error) {
	return f.Fn(net, ctx)
}

// EnvFunc adapts a Go func to EnvFunction.
type EnvFunc struct {
	Info
	Fn func(ctx *Ctx) (Ret, error)
}

func (f EnvFunc) Code() string { return funcName(f.Fn) }

func (f EnvFunc) Call(ctx *Ctx) (Ret, error) { return f.Fn(ctx) }

func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return ""
}
