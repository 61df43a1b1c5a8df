package functions

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/go-wordwrap"
)

// helpWidth is the column help text is wrapped at.
const helpWidth = 72

// Plugin lists the short names of the functions one plugin provides, in
// registration order.
type Plugin struct {
	Name    string
	Node    []string
	Network []string
	Env     []string
}

// NotFoundError is returned when a function name resolves to nothing.
type NotFoundError struct {
	Scope       Scope
	Name        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s Function %s not found", e.Scope.title(), e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(", did you mean %s?", strings.Join(e.Suggestions, " or "))
	}
	return msg
}

// table holds the functions of one scope by full name, and the short name
// aliases pointing at them.
type table[F Function] struct {
	funcs map[string]F
	alias map[string]string
}

func newTable[F Function]() *table[F] {
	return &table[F]{funcs: make(map[string]F), alias: make(map[string]string)}
}

func (t *table[F]) get(name string) (F, bool) {
	if !strings.Contains(name, ".") {
		full, ok := t.alias[name]
		if !ok {
			var zero F
			return zero, false
		}
		name = full
	}
	f, ok := t.funcs[name]
	return f, ok
}

// names returns every full and short name, sorted.
func (t *table[F]) names() []string {
	out := make([]string, 0, len(t.funcs)+len(t.alias))
	for k := range t.funcs {
		out = append(out, k)
	}
	for k := range t.alias {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Registry maps function names to functions for each scope. Functions are
// stored under "plugin.name"; the bare name is an alias for the most recently
// registered function with that name.
type Registry struct {
	node    *table[NodeFunction]
	network *table[NetworkFunction]
	env     *table[EnvFunction]
	plugins []*Plugin
	logger  hclog.Logger
}

// NewRegistry creates an empty registry. A nil logger discards output.
func NewRegistry(logger hclog.Logger) *Registry {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Registry{
		node:    newTable[NodeFunction](),
		network: newTable[NetworkFunction](),
		env:     newTable[EnvFunction](),
		logger:  logger,
	}
}

// NewDefaultRegistry creates a registry pre-populated with the built-in
// core, attrs, regex, datetime and debug plugins.
func NewDefaultRegistry(logger hclog.Logger) *Registry {
	r := NewRegistry(logger)
	registerCore(r)
	registerAttrs(r)
	registerLogic(r)
	registerRegex(r)
	registerDatetime(r)
	registerDebug(r)
	return r
}

// RegisterNode adds or replaces a node function.
func (r *Registry) RegisterNode(plugin string, fn NodeFunction) {
	register(r, r.node, ScopeNode, plugin, fn)
	p := r.plugin(plugin)
	p.Node = appendNew(p.Node, fn.Name())
}

// RegisterNetwork adds or replaces a network function.
func (r *Registry) RegisterNetwork(plugin string, fn NetworkFunction) {
	register(r, r.network, ScopeNetwork, plugin, fn)
	p := r.plugin(plugin)
	p.Network = appendNew(p.Network, fn.Name())
}

// RegisterEnv adds or replaces an env function.
func (r *Registry) RegisterEnv(plugin string, fn EnvFunction) {
	register(r, r.env, ScopeEnv, plugin, fn)
	p := r.plugin(plugin)
	p.Env = appendNew(p.Env, fn.Name())
}

func register[F Function](r *Registry, t *table[F], scope Scope, plugin string, fn F) {
	name := fn.Name()
	full := plugin + "." + name
	t.funcs[full] = fn
	if prev, ok := t.alias[name]; ok && prev != full {
		r.logger.Warn("function alias now points to a different plugin, use the full name to disambiguate",
			"scope", scope, "function", name, "new", full, "old", prev)
	}
	t.alias[name] = full
}

func (r *Registry) plugin(name string) *Plugin {
	for _, p := range r.plugins {
		if p.Name == name {
			return p
		}
	}
	p := &Plugin{Name: name}
	r.plugins = append(r.plugins, p)
	return p
}

func appendNew(names []string, name string) []string {
	if slices.Contains(names, name) {
		return names
	}
	return append(names, name)
}

// Node resolves a node function by full or short name.
func (r *Registry) Node(name string) (NodeFunction, bool) { return r.node.get(name) }

// Network resolves a network function by full or short name.
func (r *Registry) Network(name string) (NetworkFunction, bool) { return r.network.get(name) }

// Env resolves an env function by full or short name.
func (r *Registry) Env(name string) (EnvFunction, bool) { return r.env.get(name) }

// Lookup resolves name in the given scope, returning a *NotFoundError with
// suggestions when it is unknown.
func (r *Registry) Lookup(scope Scope, name string) (Function, error) {
	var (
		fn Function
		ok bool
	)
	switch scope {
	case ScopeNode:
		fn, ok = r.Node(name)
	case ScopeNetwork:
		fn, ok = r.Network(name)
	case ScopeEnv:
		fn, ok = r.Env(name)
	}
	if !ok {
		return nil, &NotFoundError{Scope: scope, Name: name, Suggestions: r.Suggest(scope, name)}
	}
	return fn, nil
}

// Suggest returns up to three registered names in scope that are close to
// name, closest first.
func (r *Registry) Suggest(scope Scope, name string) []string {
	var candidates []string
	switch scope {
	case ScopeNode:
		candidates = r.node.names()
	case ScopeNetwork:
		candidates = r.network.names()
	case ScopeEnv:
		candidates = r.env.names()
	}

	type scored struct {
		name string
		dist int
	}
	limit := max(2, len(name)/3)
	var hits []scored
	for _, c := range candidates {
		if d := levenshtein.Distance(name, c, nil); d <= limit {
			hits = append(hits, scored{c, d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	var out []string
	for _, h := range hits {
		if len(out) == 3 {
			break
		}
		out = append(out, h.name)
	}
	return out
}

// Plugins lists the registered plugins in registration order.
func (r *Registry) Plugins() []Plugin {
	out := make([]Plugin, len(r.plugins))
	for i, p := range r.plugins {
		out[i] = Plugin{
			Name:    p.Name,
			Node:    slices.Clone(p.Node),
			Network: slices.Clone(p.Network),
			Env:     slices.Clone(p.Env),
		}
	}
	return out
}

// Help renders the documentation of a function in one scope.
func (r *Registry) Help(scope Scope, name string) (string, error) {
	fn, err := r.Lookup(scope, name)
	if err != nil {
		return "", err
	}
	return formatHelp(scope, name, fn), nil
}

// HelpAny renders the documentation of every function called name, across
// all scopes.
func (r *Registry) HelpAny(name string) (string, error) {
	var parts []string
	for _, scope := range []Scope{ScopeNode, ScopeNetwork, ScopeEnv} {
		if fn, err := r.Lookup(scope, name); err == nil {
			parts = append(parts, formatHelp(scope, name, fn))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("Function %s not found", name)
	}
	return strings.Join(parts, "\n"), nil
}

// List renders a one-line summary of every function in scope, grouped by
// plugin.
func (r *Registry) List(scope Scope) string {
	var sb strings.Builder
	for _, p := range r.plugins {
		var names []string
		switch scope {
		case ScopeNode:
			names = p.Node
		case ScopeNetwork:
			names = p.Network
		case ScopeEnv:
			names = p.Env
		}
		for _, name := range names {
			fn, err := r.Lookup(scope, p.Name+"."+name)
			if err != nil {
				continue
			}
			fmt.Fprintf(&sb, "%s %s.%s%s\n", scope, p.Name, name, fn.Signature())
			if summary := firstLine(fn.Help()); summary != "" {
				fmt.Fprintf(&sb, "    %s\n", summary)
			}
		}
	}
	return sb.String()
}

func formatHelp(scope Scope, name string, fn Function) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s Function: %s\n", scope.title(), name)
	fmt.Fprintf(&sb, "%s %s%s\n", scope, fn.Name(), fn.Signature())
	if help := strings.TrimSpace(fn.Help()); help != "" {
		sb.WriteByte('\n')
		sb.WriteString(wordwrap.WrapString(help, helpWidth))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
