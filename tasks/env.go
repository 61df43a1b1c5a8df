package tasks

import (
	"strings"
	"sync"

	"github.com/Nadi-System/nadi-core-sub000/attrs"
)

// Env is the thread-safe store behind `env.*` variables. Names may be dotted
// to reach into tables.
type Env struct {
	mu     sync.RWMutex
	values *attrs.Table
}

// NewEnv creates an empty Env.
func NewEnv() *Env {
	return &Env{values: attrs.NewTable()}
}

// Set stores a value, creating the tables a dotted name passes through.
func (e *Env) Set(name string, value attrs.Attribute) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.values.SetPath(value, strings.Split(name, ".")...)
}

// Get retrieves a value. Returns false if any part of the name is missing.
func (e *Env) Get(name string) (attrs.Attribute, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.values.Lookup(strings.Split(name, ".")...)
	if !ok {
		return attrs.Attribute{}, false
	}
	return v.Clone(), true
}

// Delete removes a top-level variable.
func (e *Env) Delete(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.values.Delete(name)
}

// Len returns the number of top-level variables.
func (e *Env) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.values.Len()
}

// Snapshot returns a deep copy of all variables, safe to read without locks.
func (e *Env) Snapshot() *attrs.Table {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.values.Clone()
}

// Clone creates an independent copy of the env.
func (e *Env) Clone() *Env {
	return &Env{values: e.Snapshot()}
}

// ApplyUpdates merges a table of values into the env.
func (e *Env) ApplyUpdates(updates *attrs.Table) {
	if updates == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.values.Merge(updates.Clone())
}
