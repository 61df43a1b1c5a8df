package parser

import (
	"slices"
	"strings"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
)

// TaskKind is the statement target of a Task.
type TaskKind int

const (
	TaskNode TaskKind = iota
	TaskNetwork
	TaskEnv
	TaskHelp
	TaskExit
)

var taskKindNames = map[TaskKind]string{
	TaskNode:    "node",
	TaskNetwork: "network",
	TaskEnv:     "env",
	TaskHelp:    "help",
	TaskExit:    "exit",
}

func (k TaskKind) String() string { return taskKindNames[k] }

// Task is one statement of the task language.
type Task struct {
	Kind        TaskKind
	Propagation Propagation // node and network tasks
	HelpKeyword Keyword     // help tasks only; KeywordNone when absent
	HelpName    string      // help tasks only
	Attribute   string      // assignment target, possibly dotted; empty when absent
	Input       TaskInput
}

// HelpTask builds a help statement.
func HelpTask(kw Keyword, name string) Task {
	return Task{Kind: TaskHelp, HelpKeyword: kw, HelpName: name}
}

// ExitTask builds an exit statement.
func ExitTask() Task {
	return Task{Kind: TaskExit}
}

// String renders the task back into task syntax.
func (t Task) String() string {
	switch t.Kind {
	case TaskExit:
		return "exit"
	case TaskHelp:
		parts := []string{"help"}
		if t.HelpKeyword != KeywordNone {
			parts = append(parts, t.HelpKeyword.String())
		}
		if t.HelpName != "" {
			parts = append(parts, t.HelpName)
		}
		return strings.Join(parts, " ")
	}

	var sb strings.Builder
	sb.WriteString(t.Kind.String())
	if t.Kind != TaskEnv && t.Propagation.Kind != PropSequential {
		sb.WriteString(t.Propagation.selector())
	}
	if t.Attribute != "" {
		sb.WriteByte('.')
		sb.WriteString(t.Attribute)
		if t.Input.Kind != InputNone {
			sb.WriteString(" = ")
			sb.WriteString(t.Input.String())
		}
	} else if t.Input.Kind != InputNone {
		sb.WriteByte(' ')
		sb.WriteString(t.Input.String())
	}
	return sb.String()
}

// InputKind discriminates TaskInput.
type InputKind int

const (
	InputNone InputKind = iota
	InputFunction
	InputLiteral
	InputVariable
)

// TaskInput is what produces the value of a statement or argument.
type TaskInput struct {
	Kind     InputKind
	Call     *FunctionCall   // InputFunction
	Literal  attrs.Attribute // InputLiteral
	Variable string          // InputVariable; dotted names are kept unresolved
}

func FunctionInput(call *FunctionCall) TaskInput { return TaskInput{Kind: InputFunction, Call: call} }
func LiteralInput(a attrs.Attribute) TaskInput   { return TaskInput{Kind: InputLiteral, Literal: a} }
func VariableInput(name string) TaskInput        { return TaskInput{Kind: InputVariable, Variable: name} }

func (in TaskInput) String() string {
	switch in.Kind {
	case InputFunction:
		return in.Call.String()
	case InputLiteral:
		return in.Literal.String()
	case InputVariable:
		return in.Variable
	}
	return ""
}

// FunctionCall is a call with positional and keyword arguments. Arguments
// may themselves be calls.
type FunctionCall struct {
	Name   string
	Args   []TaskInput
	Kwargs map[string]TaskInput
}

// NewFunctionCall creates a call with no arguments.
func NewFunctionCall(name string) *FunctionCall {
	return &FunctionCall{Name: name, Kwargs: make(map[string]TaskInput)}
}

// String renders name(args, key=value) with keyword arguments sorted by name.
func (c *FunctionCall) String() string {
	parts := make([]string, 0, len(c.Args)+len(c.Kwargs))
	for _, a := range c.Args {
		parts = append(parts, a.String())
	}
	keys := make([]string, 0, len(c.Kwargs))
	for k := range c.Kwargs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		parts = append(parts, quoteName(k)+"="+c.Kwargs[k].String())
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

// PropagationKind selects which nodes a node statement applies to.
type PropagationKind int

const (
	PropSequential PropagationKind = iota
	PropInverse
	PropInputsFirst
	PropOutputFirst
	PropList
	PropPath
	PropConditional
	PropConditionalStrict
	PropConditionalSuperStrict
)

var namedPropagations = map[string]PropagationKind{
	"sequential":  PropSequential,
	"inverse":     PropInverse,
	"inputsfirst": PropInputsFirst,
	"outputfirst": PropOutputFirst,
}

// Propagation is a node selector. The zero value is Sequential.
type Propagation struct {
	Kind      PropagationKind
	Names     []string   // PropList
	Path      Path       // PropPath
	Condition *Condition // PropConditional*
}

// IsConditional reports whether the propagation filters by a condition.
func (p Propagation) IsConditional() bool {
	switch p.Kind {
	case PropConditional, PropConditionalStrict, PropConditionalSuperStrict:
		return true
	}
	return false
}

// String names the propagation: "inverse", "a, b", "a -> b" or the condition.
func (p Propagation) String() string {
	switch p.Kind {
	case PropList:
		names := make([]string, len(p.Names))
		for i, n := range p.Names {
			names[i] = quoteName(n)
		}
		return strings.Join(names, ", ")
	case PropPath:
		return p.Path.String()
	case PropConditional:
		return p.Condition.String()
	case PropConditionalStrict:
		return "=" + p.Condition.String()
	case PropConditionalSuperStrict:
		return "==" + p.Condition.String()
	}
	for name, kind := range namedPropagations {
		if kind == p.Kind {
			return name
		}
	}
	return ""
}

// selector renders the propagation in statement position, e.g. "<inverse>".
func (p Propagation) selector() string {
	switch p.Kind {
	case PropList, PropPath:
		return "[" + p.String() + "]"
	case PropConditional, PropConditionalStrict, PropConditionalSuperStrict:
		return "(" + p.String() + ")"
	}
	return "<" + p.String() + ">"
}

// ConditionKind discriminates Condition nodes.
type ConditionKind int

const (
	CondVariable ConditionKind = iota
	CondLiteral
	CondNot
	CondAnd
	CondOr
	CondEq
	CondLt
	CondGt
)

// Condition is a boolean expression over node attributes. Comparisons hold
// a variable and a literal; Not uses Left; And and Or use Left and Right.
type Condition struct {
	Kind     ConditionKind
	Variable string
	Literal  attrs.Attribute
	Left     *Condition
	Right    *Condition
}

func (c *Condition) String() string {
	if c == nil {
		return ""
	}
	switch c.Kind {
	case CondVariable:
		return c.Variable
	case CondLiteral:
		return c.Literal.String()
	case CondNot:
		return "!" + c.Left.String()
	case CondAnd:
		return c.Left.String() + " & " + c.Right.String()
	case CondOr:
		return c.Left.String() + " | " + c.Right.String()
	case CondEq:
		return c.Variable + " = " + c.Literal.String()
	case CondLt:
		return c.Variable + " < " + c.Literal.String()
	case CondGt:
		return c.Variable + " > " + c.Literal.String()
	}
	return ""
}
