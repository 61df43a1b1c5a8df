package network

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
)

// ErrNoAttribute is returned when a node or network lacks a requested attribute.
var ErrNoAttribute = errors.New("attribute not found")

// Node is a named point of a Network. Nodes refer to each other by index;
// a node has any number of inputs and at most one output.
type Node struct {
	index  int
	name   string
	inputs []int
	output int // -1 for an outlet
	attrs  *attrs.Table
}

func newNode(index int, name string) *Node {
	n := &Node{index: index, name: name, output: -1, attrs: attrs.NewTable()}
	n.attrs.Set("NAME", attrs.String(name))
	n.attrs.Set("INDEX", attrs.Int(int64(index)))
	return n
}

// Index is the position of the node in its network.
func (n *Node) Index() int { return n.index }

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Inputs returns the indices of the nodes flowing into this one.
func (n *Node) Inputs() []int { return slices.Clone(n.inputs) }

// Output returns the index of the downstream node, if any.
func (n *Node) Output() (int, bool) {
	return n.output, n.output >= 0
}

// Attrs exposes the node's attribute table.
func (n *Node) Attrs() *attrs.Table { return n.attrs }

// Attr returns the attribute at name. Dotted names descend into tables.
func (n *Node) Attr(name string) (attrs.Attribute, bool) {
	return n.attrs.Lookup(strings.Split(name, ".")...)
}

// SetAttr stores an attribute, creating the tables a dotted name passes through.
func (n *Node) SetAttr(name string, v attrs.Attribute) error {
	if err := n.attrs.SetPath(v, strings.Split(name, ".")...); err != nil {
		return fmt.Errorf("node %s: %w", n.name, err)
	}
	return nil
}

// DelAttr removes a top-level attribute, reporting whether it existed.
func (n *Node) DelAttr(name string) bool {
	return n.attrs.Delete(name)
}

func (n *Node) String() string { return n.name }

// TryAttr converts the node attribute at name into T with strict rules.
func TryAttr[T any](n *Node, name string) (T, error) {
	return tryAttr[T](n, name, attrs.From[T])
}

// TryAttrRelaxed converts the node attribute at name into T with relaxed rules.
func TryAttrRelaxed[T any](n *Node, name string) (T, error) {
	return tryAttr[T](n, name, attrs.FromRelaxed[T])
}

func tryAttr[T any](n *Node, name string, conv func(attrs.Attribute) (T, error)) (T, error) {
	var zero T
	v, ok := n.Attr(name)
	if !ok {
		return zero, fmt.Errorf("node %s: %w: %s", n.name, ErrNoAttribute, name)
	}
	out, err := conv(v)
	if err != nil {
		return zero, fmt.Errorf("node %s: attribute %s: %w", n.name, name, err)
	}
	return out, nil
}
