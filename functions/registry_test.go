package functions

import (
	"bytes"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
	"github.com/Nadi-System/nadi-core-sub000/network"
)

func TestRegistryLookup(t *testing.T) {
	reg := NewDefaultRegistry(nil)

	fn, ok := reg.Network("count")
	require.True(t, ok)
	assert.Equal(t, "count", fn.Name())

	full, ok := reg.Network("core.count")
	require.True(t, ok)
	assert.Equal(t, fn.Code(), full.Code())

	_, ok = reg.Node("count")
	assert.False(t, ok, "count is a network function only")

	_, ok = reg.Env("other.int")
	assert.False(t, ok)

	set, err := reg.Lookup(ScopeNetwork, "set_attrs")
	require.NoError(t, err)
	assert.Equal(t, "(**attrs)", set.Signature())
}

func TestRegistryNotFound(t *testing.T) {
	reg := NewDefaultRegistry(nil)

	_, err := reg.Lookup(ScopeNode, "inputs_cout")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, ScopeNode, nf.Scope)
	assert.Equal(t, "Node Function inputs_cout not found, did you mean inputs_count?", err.Error())

	_, err = reg.Lookup(ScopeEnv, "zzzzzzzz")
	assert.EqualError(t, err, "Env Function zzzzzzzz not found")
}

func TestRegistryAliasOverride(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "functions",
		Level:  hclog.Trace,
		Output: &buf,
	})
	reg := NewDefaultRegistry(logger)

	mine := NetworkFunc{Info{"count", "Always seven", "()"}, func(*network.Network, *Ctx) (Ret, error) {
		return Return(attrs.Int(7)), nil
	}}
	reg.RegisterNetwork("mine", mine)
	assert.Contains(t, buf.String(), "function alias now points to a different plugin")
	assert.Contains(t, buf.String(), "mine.count")

	fn, _ := reg.Network("count")
	assert.Equal(t, "Always seven", fn.Help())
	fn, _ = reg.Network("core.count")
	assert.Equal(t, "Count the number of nodes in the network", firstLine(fn.Help()))

	buf.Reset()
	reg.RegisterNetwork("mine", mine)
	assert.Empty(t, buf.String(), "re-registering the same full name is silent")
}

func TestRegistryPlugins(t *testing.T) {
	reg := NewDefaultRegistry(nil)
	assert.Equal(t, []Plugin{
		{
			Name:    "core",
			Node:    []string{"inputs_count", "has_outlet", "inputs", "output"},
			Network: []string{"count"},
			Env:     []string{"type_name", "float", "int", "str", "array", "attrmap"},
		},
		{
			Name: "attrs",
			Node: []string{"set_attrs", "get_attr", "print_attrs", "print_all_attrs", "load_attrs",
				"has_attr", "set_attrs_ifelse", "set_attrs_render", "load_toml_render"},
			Network: []string{"set_attrs"},
			Env:     []string{"ifelse", "and", "or", "not", "strmap", "float_transform"},
		},
		{
			Name: "regex",
			Env:  []string{"str_match", "str_replace", "str_find", "str_find_all", "str_count"},
		},
		{
			Name: "datetime",
			Env:  []string{"day_of_year", "is_leap", "days_in_month", "seconds_since_midnight", "time_from_seconds"},
		},
		{
			Name:    "debug",
			Network: []string{"debug", "echo"},
		},
	}, reg.Plugins())
}

func TestRegistryHelp(t *testing.T) {
	reg := NewDefaultRegistry(nil)

	help, err := reg.Help(ScopeNetwork, "count")
	require.NoError(t, err)
	assert.Equal(t, "== Network Function: count\nnetwork count()\n\n"+
		"Count the number of nodes in the network\n\n"+
		"With a propagation, as in network[a -> b] count(), only the selected\n"+
		"nodes are counted.\n", help)

	help, err = reg.HelpAny("set_attrs")
	require.NoError(t, err)
	assert.Contains(t, help, "== Node Function: set_attrs")
	assert.Contains(t, help, "== Network Function: set_attrs")

	_, err = reg.HelpAny("nothing")
	assert.EqualError(t, err, "Function nothing not found")

	list := reg.List(ScopeNetwork)
	assert.Equal(t, "network core.count()\n"+
		"    Count the number of nodes in the network\n"+
		"network attrs.set_attrs(**attrs)\n"+
		"    Set network attributes from the keyword arguments\n"+
		"network debug.debug(*args, **kwargs)\n"+
		"    Print the args and kwargs of this function call\n"+
		"network debug.echo(line: String, error: Bool = false, newline: Bool = true)\n"+
		"    Print the line to standard output, or to standard error with error=true\n", list)
}

func TestHelpIsWrapped(t *testing.T) {
	reg := NewRegistry(nil)
	long := "one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen"
	reg.RegisterEnv("x", EnvFunc{Info{"long", long, "()"}, func(*Ctx) (Ret, error) { return Ret{}, nil }})

	help, err := reg.Help(ScopeEnv, "long")
	require.NoError(t, err)
	for _, line := range bytes.Split([]byte(help), []byte("\n")) {
		assert.LessOrEqual(t, len(line), helpWidth)
	}
}

func TestCodeNamesImplementation(t *testing.T) {
	reg := NewDefaultRegistry(nil)
	fn, _ := reg.Env("float")
	assert.Contains(t, fn.Code(), "functions.floatFn")
}
