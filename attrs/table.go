package attrs

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Table is a string-keyed map of attributes that remembers insertion order.
// Equality ignores order; String and All iterate in insertion order.
type Table struct {
	keys   []string
	values map[string]Attribute
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{values: make(map[string]Attribute)}
}

// Set stores value under key. Overwriting keeps the key's original position.
func (t *Table) Set(key string, value Attribute) {
	if t.values == nil {
		t.values = make(map[string]Attribute)
	}
	if _, exists := t.values[key]; !exists {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get returns the value for key and whether it was present.
func (t *Table) Get(key string) (Attribute, bool) {
	if t == nil {
		return Attribute{}, false
	}
	v, ok := t.values[key]
	return v, ok
}

// Delete removes key, reporting whether it was present.
func (t *Table) Delete(key string) bool {
	if t == nil {
		return false
	}
	if _, ok := t.values[key]; !ok {
		return false
	}
	delete(t.values, key)
	t.keys = slices.DeleteFunc(t.keys, func(k string) bool { return k == key })
	return true
}

// Lookup descends through nested tables along path.
func (t *Table) Lookup(path ...string) (Attribute, bool) {
	if len(path) == 0 {
		return Attribute{}, false
	}
	cur := t
	for _, key := range path[:len(path)-1] {
		v, ok := cur.Get(key)
		if !ok || v.Kind != KindTable {
			return Attribute{}, false
		}
		cur = v.Table
	}
	return cur.Get(path[len(path)-1])
}

// SetPath stores value at the end of path, creating missing tables. It fails
// when a step of the path holds a value that is not a table.
func (t *Table) SetPath(value Attribute, path ...string) error {
	if len(path) == 0 {
		return fmt.Errorf("empty attribute path")
	}
	cur := t
	for i, key := range path[:len(path)-1] {
		v, ok := cur.Get(key)
		if !ok {
			next := NewTable()
			cur.Set(key, TableValue(next))
			cur = next
			continue
		}
		if v.Kind != KindTable {
			return fmt.Errorf("`%s` is %s, not Table", strings.Join(path[:i+1], "."), v.TypeName())
		}
		cur = v.Table
	}
	cur.Set(path[len(path)-1], value)
	return nil
}

// Merge copies every entry of o into t, replacing existing keys.
func (t *Table) Merge(o *Table) {
	for k, v := range o.All() {
		t.Set(k, v)
	}
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns a copy of the keys in insertion order.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.keys)
}

// All iterates over the entries in insertion order.
func (t *Table) All() iter.Seq2[string, Attribute] {
	return func(yield func(string, Attribute) bool) {
		if t == nil {
			return
		}
		for _, k := range t.keys {
			if !yield(k, t.values[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		keys:   slices.Clone(t.keys),
		values: make(map[string]Attribute, len(t.values)),
	}
	for k, v := range t.values {
		out.values[k] = v.Clone()
	}
	return out
}

// Equal reports whether both tables hold equal values under the same keys.
// A nil table equals an empty one.
func (t *Table) Equal(o *Table) bool {
	if t.Len() != o.Len() {
		return false
	}
	for k, v := range t.All() {
		ov, ok := o.Get(k)
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Native converts the table into a map of native Go values (see Attribute.Native).
func (t *Table) Native() map[string]any {
	out := make(map[string]any, t.Len())
	for k, v := range t.All() {
		out[k] = v.Native()
	}
	return out
}

// String renders the table in literal syntax: {a = 1, "b c" = true}.
func (t *Table) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for k, v := range t.All() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(TableKey(k))
		sb.WriteString(" = ")
		sb.WriteString(v.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// TableKey renders a table key, quoting it when it would not read back as a
// bare identifier.
func TableKey(key string) string {
	if IsIdentifier(key) && !reservedWords[key] {
		return key
	}
	return Quote(key)
}

var reservedWords = map[string]bool{
	"node": true, "network": true, "env": true, "exit": true, "help": true,
	"true": true, "false": true,
}

// IsIdentifier reports whether s is a bare identifier: a letter or
// underscore followed by alphanumeric runs that may be joined by single
// hyphens (e.g. "snake_case", "kebab-case-2").
func IsIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case isIdentPart(c):
		case c == '-':
			if i+1 >= len(s) || !isIdentPart(s[i+1]) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
