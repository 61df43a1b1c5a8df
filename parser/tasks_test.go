package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
)

func call(name string, args []TaskInput, kwargs map[string]TaskInput) TaskInput {
	c := NewFunctionCall(name)
	c.Args = args
	for k, v := range kwargs {
		c.Kwargs[k] = v
	}
	return FunctionInput(c)
}

func lit(a attrs.Attribute) TaskInput { return LiteralInput(a) }

func parseOne(t *testing.T, src string) Task {
	t.Helper()
	tasks, err := ParseTasks(src)
	require.NoError(t, err)
	require.Len(t, tasks, 1, "tasks: %v", tasks)
	return tasks[0]
}

func TestParseTasksNetworkFunction(t *testing.T) {
	got := parseOne(t, "network debug(\"t\", true, radius=0.2)\n")
	want := Task{
		Kind: TaskNetwork,
		Input: call("debug",
			[]TaskInput{lit(attrs.String("t")), lit(attrs.Bool(true))},
			map[string]TaskInput{"radius": lit(attrs.Float(0.2))}),
	}
	assert.Equal(t, want, got)
}

func TestParseTasksNetworkPropagation(t *testing.T) {
	tests := []struct {
		src  string
		want Task
	}{
		{"network<inverse> count()", Task{
			Kind:        TaskNetwork,
			Propagation: Propagation{Kind: PropInverse},
			Input:       call("count", nil, nil),
		}},
		{"network[a, b] count()", Task{
			Kind:        TaskNetwork,
			Propagation: Propagation{Kind: PropList, Names: []string{"a", "b"}},
			Input:       call("count", nil, nil),
		}},
		{"network[a -> b].x = 1", Task{
			Kind:        TaskNetwork,
			Propagation: Propagation{Kind: PropPath, Path: Path{Start: "a", End: "b"}},
			Attribute:   "x",
			Input:       lit(attrs.Int(1)),
		}},
		{"network(=gauged) count()", Task{
			Kind: TaskNetwork,
			Propagation: Propagation{
				Kind:      PropConditionalStrict,
				Condition: &Condition{Kind: CondVariable, Variable: "gauged"},
			},
			Input: call("count", nil, nil),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOne(t, tt.src))
		})
	}
}

func TestParseTasksNestedCalls(t *testing.T) {
	got := parseOne(t, "network outer(inner(1, 2), x=3)")
	want := Task{
		Kind: TaskNetwork,
		Input: call("outer",
			[]TaskInput{call("inner", []TaskInput{lit(attrs.Int(1)), lit(attrs.Int(2))}, nil)},
			map[string]TaskInput{"x": lit(attrs.Int(3))}),
	}
	assert.Equal(t, want, got)
}

func TestParseTasksNestedCallAsKwarg(t *testing.T) {
	got := parseOne(t, "env.x = f(k=g(h(1)), 2)")
	want := Task{
		Kind:      TaskEnv,
		Attribute: "x",
		Input: call("f",
			[]TaskInput{lit(attrs.Int(2))},
			map[string]TaskInput{"k": call("g", []TaskInput{call("h", []TaskInput{lit(attrs.Int(1))}, nil)}, nil)}),
	}
	assert.Equal(t, want, got)
}

func TestParseTasksPropagation(t *testing.T) {
	tests := []struct {
		src  string
		want Propagation
	}{
		{"node.attr = 1\n", Propagation{Kind: PropSequential}},
		{"node<sequential>.attr = 1\n", Propagation{Kind: PropSequential}},
		{"node<inverse>.attr = 1\n", Propagation{Kind: PropInverse}},
		{"node<inputsfirst>.attr = 1\n", Propagation{Kind: PropInputsFirst}},
		{"node< outputfirst >.attr = 1\n", Propagation{Kind: PropOutputFirst}},
		{"node[a,b,c].attr = 1\n", Propagation{Kind: PropList, Names: []string{"a", "b", "c"}}},
		{"node[\"x y\", node].attr = 1\n", Propagation{Kind: PropList, Names: []string{"x y", "node"}}},
		{"node[a -> b].attr = 1\n", Propagation{Kind: PropPath, Path: Path{Start: "a", End: "b"}}},
		{"node(x).attr = 1\n", Propagation{
			Kind:      PropConditional,
			Condition: &Condition{Kind: CondVariable, Variable: "x"},
		}},
		{"node(=x > 1.5).attr = 1\n", Propagation{
			Kind:      PropConditionalStrict,
			Condition: &Condition{Kind: CondGt, Variable: "x", Literal: attrs.Float(1.5)},
		}},
		{"node(== !a & b | c).attr = 1\n", Propagation{
			Kind: PropConditionalSuperStrict,
			Condition: &Condition{
				Kind: CondOr,
				Left: &Condition{
					Kind:  CondAnd,
					Left:  &Condition{Kind: CondNot, Left: &Condition{Kind: CondVariable, Variable: "a"}},
					Right: &Condition{Kind: CondVariable, Variable: "b"},
				},
				Right: &Condition{Kind: CondVariable, Variable: "c"},
			},
		}},
		{"node(a.b < 2022-01-01 & true).attr = 1\n", Propagation{
			Kind: PropConditional,
			Condition: &Condition{
				Kind:  CondAnd,
				Left:  &Condition{Kind: CondLt, Variable: "a.b", Literal: attrs.DateValue(attrs.Date{Year: 2022, Month: 1, Day: 1})},
				Right: &Condition{Kind: CondLiteral, Literal: attrs.Bool(true)},
			},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := parseOne(t, tt.src)
			assert.Equal(t, TaskNode, got.Kind)
			assert.Equal(t, "attr", got.Attribute)
			assert.Equal(t, lit(attrs.Int(1)), got.Input)
			assert.Equal(t, tt.want, got.Propagation)
		})
	}
}

func TestParseTasksInputs(t *testing.T) {
	tests := []struct {
		src  string
		want Task
	}{
		{"env.x = 1", Task{Kind: TaskEnv, Attribute: "x", Input: lit(attrs.Int(1))}},
		{"env.x = \"s\"", Task{Kind: TaskEnv, Attribute: "x", Input: lit(attrs.String("s"))}},
		{"env.x.y = env.z", Task{Kind: TaskEnv, Attribute: "x.y", Input: VariableInput("env.z")}},
		{"node.x = area", Task{Kind: TaskNode, Attribute: "x", Input: VariableInput("area")}},
		{"node.x = stats.mean", Task{Kind: TaskNode, Attribute: "x", Input: VariableInput("stats.mean")}},
		{"network.x = [1, {a = 2}]", Task{Kind: TaskNetwork, Attribute: "x", Input: lit(attrs.Array(
			attrs.Int(1), attrs.TableValue(tableOf("a", attrs.Int(2))),
		))}},
		{"node.x = core.float(\"1.5\")", Task{Kind: TaskNode, Attribute: "x", Input: call("core.float",
			[]TaskInput{lit(attrs.String("1.5"))}, nil)}},
		{"node render()", Task{Kind: TaskNode, Input: call("render", nil, nil)}},
		{"node<inverse> f(env.x, node.y)", Task{
			Kind:        TaskNode,
			Propagation: Propagation{Kind: PropInverse},
			Input:       call("f", []TaskInput{VariableInput("env.x"), VariableInput("node.y")}, nil),
		}},
		{"env f(1,)", Task{Kind: TaskEnv, Input: call("f", []TaskInput{lit(attrs.Int(1))}, nil)}},
		{"network f(\n  1,\n  \"k\" = 2,\n)", Task{Kind: TaskNetwork, Input: call("f",
			[]TaskInput{lit(attrs.Int(1))}, map[string]TaskInput{"k": lit(attrs.Int(2))})}},
		{"network f([1, 2], {a = \"b\"})", Task{Kind: TaskNetwork, Input: call("f", []TaskInput{
			lit(attrs.Array(attrs.Int(1), attrs.Int(2))),
			lit(attrs.TableValue(tableOf("a", attrs.String("b")))),
		}, nil)}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := parseOne(t, tt.src)
			assert.Equal(t, tt.want.String(), got.String())
			assert.Equal(t, tt.want, got)
		})
	}
}

func tableOf(key string, val attrs.Attribute) *attrs.Table {
	tbl := attrs.NewTable()
	tbl.Set(key, val)
	return tbl
}

func TestParseTasksBareReferences(t *testing.T) {
	tasks, err := ParseTasks("node.x\nnetwork.y network\nenv\nnode<inverse>\n# end\nenv.z")
	require.NoError(t, err)
	assert.Equal(t, []Task{
		{Kind: TaskNode, Attribute: "x"},
		{Kind: TaskNetwork, Attribute: "y"},
		{Kind: TaskNetwork},
		{Kind: TaskEnv},
		{Kind: TaskNode, Propagation: Propagation{Kind: PropInverse}},
		{Kind: TaskEnv, Attribute: "z"},
	}, tasks)
}

func TestParseTasksMultipleStatements(t *testing.T) {
	src := `
# set things up
env.a = 1
node.b = env.a   # copy
network f(a=1) env.c = 2
`
	tasks, err := ParseTasks(src)
	require.NoError(t, err)
	require.Len(t, tasks, 4)
	assert.Equal(t, TaskEnv, tasks[0].Kind)
	assert.Equal(t, TaskNode, tasks[1].Kind)
	assert.Equal(t, TaskNetwork, tasks[2].Kind)
	assert.Equal(t, "env.c = 2", tasks[3].String())
}

func TestParseTasksHelp(t *testing.T) {
	tasks, err := ParseTasks("help\nhelp node\nhelp node render\nhelp render\nhelp network help env\nhelp core.count")
	require.NoError(t, err)
	assert.Equal(t, []Task{
		HelpTask(KeywordNone, ""),
		HelpTask(KeywordNode, ""),
		HelpTask(KeywordNode, "render"),
		HelpTask(KeywordNone, "render"),
		HelpTask(KeywordNetwork, ""),
		HelpTask(KeywordEnv, ""),
		HelpTask(KeywordNone, "core.count"),
	}, tasks)
}

func TestParseTasksExitTerminates(t *testing.T) {
	tests := []string{
		"exit",
		"exit\nnode.x = 1\n",
		"exit ) ] node[ {",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			tasks, err := ParseTasks(src)
			require.NoError(t, err)
			assert.Equal(t, []Task{ExitTask()}, tasks)
		})
	}

	tasks, err := ParseTasks("env.x = 1\nnode.y\nexit\nnode.z = 2")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, ExitTask(), tasks[2])
}

func TestParseTasksPathClosedByNewline(t *testing.T) {
	got := parseOne(t, "node[a -> b\n")
	assert.Equal(t, Task{Kind: TaskNode, Propagation: Propagation{Kind: PropPath, Path: Path{"a", "b"}}}, got)
}

func TestParseTasksEmpty(t *testing.T) {
	tasks, err := ParseTasks("\n# only a comment\n")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestParseTasksErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind ErrorKind
	}{
		{"x = 1", InvalidLineStart},
		{"1", InvalidLineStart},
		{"env.x =", Unclosed},
		{"env.x =\n1", Unclosed},
		{"env.", Unclosed},
		{"network f(1", Unclosed},
		{"network f(g(1)", Unclosed},
		{"node(x > 1", Unclosed},
		{"node<inverse", Unclosed},
		{"node[a, b\n", Unclosed},
		{"env.x = [1, 2", Unclosed},
		{"env.x = {k=1", Unclosed},
		{"network f(1 2)", SyntaxError},
		{"network f(,)", SyntaxError},
		{"network f(k=)", SyntaxError},
		{"network f(k=1", Unclosed},
		{"env.x = )", SyntaxError},
		{"env.x = node", SyntaxError},
		{"node[a -> b -> c].x", SyntaxError},
		{"node[a b].x", SyntaxError},
		{"node[a, b -> c].x", SyntaxError},
		{"node[a ->].x", SyntaxError},
		{"node<inverse><inverse>.x", SyntaxError},
		{"node(x = 1 & y = 2).z", SyntaxError},
		{"node(x > 1 & y = 2).z", SyntaxError},
		{"node(x > y).z", ValueError},
		{"node<sideways>.x = 1", InvalidPropagation},
		{"network<sideways> count()", InvalidPropagation},
		{"network<inverse>[a] count()", SyntaxError},
		{"node.x.f()", SyntaxError},
		{"env.x = 1 = 2", InvalidLineStart},
		{"network f(k=1, k=2)", ValueError},
		{"help 1", SyntaxError},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := ParseTasks(tt.src)
			requireParseError(t, err, tt.kind)
		})
	}
}

func TestParseTasksTokenError(t *testing.T) {
	_, err := ParseTasks("env.x = $")
	var terr *TokenError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 9, terr.Pos.Column)
}

func TestTaskStringRoundTrip(t *testing.T) {
	sources := []string{
		"node<inverse>.x = 1",
		"node[a, \"b c\"].x = \"s\"",
		"node[a -> b] f(1, k=2)",
		"node(=x > 1.5 & !y).z",
		"node(==a = \"v\" | b).z = [1, 2]",
		"network debug(\"t\", true, radius=0.2)",
		"network outer(inner(1, 2), x=3)",
		"network<inverse> count()",
		"network[a, b].x = 1",
		"env.a.b = env.c",
		"env",
		"node.x",
		"help",
		"help node render",
		"exit",
	}
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			first := parseOne(t, src)
			assert.Equal(t, src, first.String())
			second := parseOne(t, first.String())
			assert.Equal(t, first, second)
		})
	}
}

func TestParsePropagation(t *testing.T) {
	tests := []struct {
		src  string
		want Propagation
	}{
		{"inverse", Propagation{Kind: PropInverse}},
		{"<outputfirst>", Propagation{Kind: PropOutputFirst}},
		{"[a, b]", Propagation{Kind: PropList, Names: []string{"a", "b"}}},
		{"[\n a,\n b\n]", Propagation{Kind: PropList, Names: []string{"a", "b"}}},
		{"[a -> b]", Propagation{Kind: PropPath, Path: Path{"a", "b"}}},
		{" (x) ", Propagation{Kind: PropConditional, Condition: &Condition{Kind: CondVariable, Variable: "x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := ParsePropagation(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	errs := []struct {
		src  string
		kind ErrorKind
	}{
		{"sideways", InvalidPropagation},
		{"", Unclosed},
		{"[a", Unclosed},
		{"<inverse> x", SyntaxError},
		{".x", SyntaxError},
	}
	for _, tt := range errs {
		t.Run("error "+tt.src, func(t *testing.T) {
			_, err := ParsePropagation(tt.src)
			requireParseError(t, err, tt.kind)
		})
	}
}

func TestValidVariableName(t *testing.T) {
	for _, name := range []string{"x", "area_km2", "kebab-case", "a.b.c"} {
		assert.True(t, ValidVariableName(name), name)
	}
	for _, name := range []string{"", "1a", "node", "a..b", "a b", "true", "a.env"} {
		assert.False(t, ValidVariableName(name), name)
	}
}
