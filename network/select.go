package network

import (
	"fmt"
	"slices"

	"github.com/Nadi-System/nadi-core-sub000/parser"
)

// Evaluator decides whether a node passes a conditional propagation.
type Evaluator func(*Node) (bool, error)

// Select returns the nodes a propagation applies to, in the order they
// should be visited. eval is only used for conditional propagations.
func (net *Network) Select(prop parser.Propagation, eval Evaluator) ([]*Node, error) {
	switch prop.Kind {
	case parser.PropSequential, parser.PropInputsFirst:
		return net.Nodes(), nil

	case parser.PropInverse, parser.PropOutputFirst:
		nodes := net.Nodes()
		slices.Reverse(nodes)
		return nodes, nil

	case parser.PropList:
		nodes := make([]*Node, 0, len(prop.Names))
		for _, name := range prop.Names {
			n, ok := net.NodeByName(name)
			if !ok {
				return nil, fmt.Errorf("node %q not found", name)
			}
			nodes = append(nodes, n)
		}
		return nodes, nil

	case parser.PropPath:
		return net.Path(prop.Path.Start, prop.Path.End)

	case parser.PropConditional, parser.PropConditionalStrict, parser.PropConditionalSuperStrict:
		if eval == nil {
			return nil, fmt.Errorf("conditional propagation %s needs an evaluator", prop)
		}
		var nodes []*Node
		for _, n := range net.nodes {
			ok, err := eval(n)
			if err != nil {
				return nil, err
			}
			if ok {
				nodes = append(nodes, n)
			}
		}
		return nodes, nil
	}
	return nil, fmt.Errorf("unknown propagation %d", prop.Kind)
}

// Path returns the nodes on the river path between start and end, both
// included, ordered from upstream to downstream. Either endpoint may be the
// upstream one.
func (net *Network) Path(start, end string) ([]*Node, error) {
	a, ok := net.NodeByName(start)
	if !ok {
		return nil, fmt.Errorf("node %q not found", start)
	}
	b, ok := net.NodeByName(end)
	if !ok {
		return nil, fmt.Errorf("node %q not found", end)
	}
	if nodes := net.walk(a, b); nodes != nil {
		return nodes, nil
	}
	if nodes := net.walk(b, a); nodes != nil {
		return nodes, nil
	}
	return nil, fmt.Errorf("no path between %s and %s", start, end)
}

// walk follows outputs from a and returns the nodes up to b, or nil when b
// is not downstream of a.
func (net *Network) walk(a, b *Node) []*Node {
	nodes := []*Node{a}
	for cur := a; cur != b; {
		next, ok := cur.Output()
		if !ok {
			return nil
		}
		cur = net.nodes[next]
		nodes = append(nodes, cur)
	}
	return nodes
}
