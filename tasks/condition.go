package tasks

import (
	"fmt"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
	"github.com/Nadi-System/nadi-core-sub000/network"
	"github.com/Nadi-System/nadi-core-sub000/parser"
)

// strictness of a conditional propagation.
type strictness int

const (
	lenient     strictness = iota // missing or mismatched values fail the test
	strict                        // missing variables are errors
	superStrict                   // missing variables and type mismatches are errors
)

func strictnessOf(kind parser.PropagationKind) strictness {
	switch kind {
	case parser.PropConditionalStrict:
		return strict
	case parser.PropConditionalSuperStrict:
		return superStrict
	}
	return lenient
}

// evaluator returns the node filter for a conditional propagation, or nil
// for the others.
func (c *Context) evaluator(prop parser.Propagation) network.Evaluator {
	if !prop.IsConditional() {
		return nil
	}
	level := strictnessOf(prop.Kind)
	return func(n *network.Node) (bool, error) {
		return c.evaluateCondition(prop.Condition, n, level)
	}
}

// evaluateCondition evaluates a condition tree against a node. And and Or
// short-circuit.
func (c *Context) evaluateCondition(cond *parser.Condition, n *network.Node, level strictness) (bool, error) {
	if cond == nil {
		return true, nil
	}
	switch cond.Kind {
	case parser.CondLiteral:
		return isTruthy(cond.Literal), nil

	case parser.CondVariable:
		v, ok, err := c.conditionVariable(cond.Variable, n, level)
		if !ok || err != nil {
			return false, err
		}
		if level == superStrict && v.Kind != attrs.KindBool {
			return false, fmt.Errorf("node %s: `%s` is %s, not Bool", n.Name(), cond.Variable, v.TypeName())
		}
		return isTruthy(v), nil

	case parser.CondNot:
		ok, err := c.evaluateCondition(cond.Left, n, level)
		return !ok, err

	case parser.CondAnd:
		ok, err := c.evaluateCondition(cond.Left, n, level)
		if !ok || err != nil {
			return false, err
		}
		return c.evaluateCondition(cond.Right, n, level)

	case parser.CondOr:
		ok, err := c.evaluateCondition(cond.Left, n, level)
		if ok || err != nil {
			return ok, err
		}
		return c.evaluateCondition(cond.Right, n, level)

	case parser.CondEq, parser.CondLt, parser.CondGt:
		v, ok, err := c.conditionVariable(cond.Variable, n, level)
		if !ok || err != nil {
			return false, err
		}
		return compare(cond, v, n, level)
	}
	return false, fmt.Errorf("unknown condition %d", cond.Kind)
}

// conditionVariable looks a variable up for a node. A missing variable is
// an error unless the propagation is lenient.
func (c *Context) conditionVariable(name string, n *network.Node, level strictness) (attrs.Attribute, bool, error) {
	v, ok := c.lookup(scope{node: n}, name)
	if ok {
		return v, true, nil
	}
	if level == lenient {
		return attrs.Attribute{}, false, nil
	}
	return attrs.Attribute{}, false, fmt.Errorf("node %s: %w: %s", n.Name(), network.ErrNoAttribute, name)
}

func compare(cond *parser.Condition, v attrs.Attribute, n *network.Node, level strictness) (bool, error) {
	lit := cond.Literal
	if level == superStrict && v.Kind != lit.Kind {
		return false, fmt.Errorf("node %s: `%s` is %s, not %s", n.Name(), cond.Variable, v.TypeName(), lit.TypeName())
	}
	ord, err := attrs.Compare(v, lit)
	if err != nil {
		if cond.Kind == parser.CondEq {
			return v.Equal(lit), nil
		}
		if level == lenient {
			return false, nil
		}
		return false, fmt.Errorf("node %s: %w", n.Name(), err)
	}
	switch cond.Kind {
	case parser.CondEq:
		return ord == 0, nil
	case parser.CondLt:
		return ord < 0, nil
	}
	return ord > 0, nil
}

// isTruthy tests an attribute with the relaxed bool rules. Values that have
// no truth value, like dates, are false.
func isTruthy(a attrs.Attribute) bool {
	b, err := attrs.FromRelaxed[bool](a)
	return err == nil && b
}
