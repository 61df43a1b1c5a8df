package network

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
	"github.com/Nadi-System/nadi-core-sub000/parser"
)

// Network is an arena of nodes connected by single-output edges, plus the
// network's own attributes. Nodes keep the order in which they were added.
type Network struct {
	nodes  []*Node
	byName map[string]int
	attrs  *attrs.Table
}

// New creates an empty network.
func New() *Network {
	return &Network{byName: make(map[string]int), attrs: attrs.NewTable()}
}

// FromEdges builds a network from a parsed network file. Nodes are created
// in order of first mention.
func FromEdges(file *parser.NetworkFile) (*Network, error) {
	net := New()
	for _, name := range file.Nodes {
		net.AddNode(name)
	}
	for _, p := range file.Paths {
		if err := net.Connect(p.Start, p.End); err != nil {
			return nil, err
		}
	}
	return net, nil
}

// Parse parses network file text and builds the network.
func Parse(src string) (*Network, error) {
	file, err := parser.ParseNetwork(src)
	if err != nil {
		return nil, err
	}
	return FromEdges(file)
}

// AddNode returns the node called name, creating it if needed.
func (net *Network) AddNode(name string) *Node {
	if i, ok := net.byName[name]; ok {
		return net.nodes[i]
	}
	n := newNode(len(net.nodes), name)
	net.nodes = append(net.nodes, n)
	net.byName[name] = n.index
	return n
}

// Connect adds the edge from -> to, creating missing nodes. Each node has at
// most one output, and edges may not close a cycle.
func (net *Network) Connect(from, to string) error {
	if from == to {
		return fmt.Errorf("node %s cannot output to itself", from)
	}
	a, b := net.AddNode(from), net.AddNode(to)
	if out, ok := a.Output(); ok {
		if out == b.index {
			return nil
		}
		return fmt.Errorf("node %s already outputs to %s, cannot also output to %s",
			from, net.nodes[out].name, to)
	}
	for cur := b; ; {
		if cur == a {
			return fmt.Errorf("edge %s -> %s creates a cycle", from, to)
		}
		next, ok := cur.Output()
		if !ok {
			break
		}
		cur = net.nodes[next]
	}
	a.output = b.index
	b.inputs = append(b.inputs, a.index)
	return nil
}

// Len returns the number of nodes.
func (net *Network) Len() int { return len(net.nodes) }

// Node returns the node at index i, or nil when out of range.
func (net *Network) Node(i int) *Node {
	if i < 0 || i >= len(net.nodes) {
		return nil
	}
	return net.nodes[i]
}

// NodeByName looks a node up by name.
func (net *Network) NodeByName(name string) (*Node, bool) {
	i, ok := net.byName[name]
	if !ok {
		return nil, false
	}
	return net.nodes[i], true
}

// Nodes returns the nodes in insertion order.
func (net *Network) Nodes() []*Node { return slices.Clone(net.nodes) }

// NodeNames returns the node names in insertion order.
func (net *Network) NodeNames() []string {
	names := make([]string, len(net.nodes))
	for i, n := range net.nodes {
		names[i] = n.name
	}
	return names
}

// Edges lists every node -> output connection, ordered by the upstream node.
func (net *Network) Edges() []parser.Path {
	var out []parser.Path
	for _, n := range net.nodes {
		if o, ok := n.Output(); ok {
			out = append(out, parser.Path{Start: n.name, End: net.nodes[o].name})
		}
	}
	return out
}

// Outlets returns the nodes that have no output.
func (net *Network) Outlets() []*Node {
	var out []*Node
	for _, n := range net.nodes {
		if _, ok := n.Output(); !ok {
			out = append(out, n)
		}
	}
	return out
}

// Attrs exposes the network's attribute table.
func (net *Network) Attrs() *attrs.Table { return net.attrs }

// Attr returns a network attribute. Dotted names descend into tables.
func (net *Network) Attr(name string) (attrs.Attribute, bool) {
	return net.attrs.Lookup(strings.Split(name, ".")...)
}

// SetAttr stores a network attribute.
func (net *Network) SetAttr(name string, v attrs.Attribute) error {
	if err := net.attrs.SetPath(v, strings.Split(name, ".")...); err != nil {
		return fmt.Errorf("network: %w", err)
	}
	return nil
}

// String renders the network in network-file syntax. Isolated nodes are
// written as bare lines.
func (net *Network) String() string {
	var sb strings.Builder
	for _, n := range net.nodes {
		o, hasOut := n.Output()
		switch {
		case hasOut:
			sb.WriteString(parser.Path{Start: n.name, End: net.nodes[o].name}.String())
		case len(n.inputs) == 0:
			sb.WriteString(attrs.TableKey(n.name))
		default:
			continue
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
