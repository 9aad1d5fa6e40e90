// Copyright © 2018 The ELPS authors

package lang

import "fmt"

// SignalID is a handle to a cell in a SignalGraph.
type SignalID int

// RecomputeFunc produces the current value of a computed signal.
type RecomputeFunc func() (*Value, error)

type signalCell struct {
	name       string
	value      *Value
	dependents []SignalID

	// computed signal state
	computed       bool
	deps           []SignalID
	dirty          bool
	recompute      RecomputeFunc
	recomputations int
}

// SignalGraph is an arena of reactive cells.  Writing a plain signal marks
// its transitive dependents dirty.  A dirty computed signal is recomputed
// lazily, the next time its value is read.
//
// The dependency list of a computed signal is flattened: when a dependency
// is itself computed its own dependencies are inlined.
type SignalGraph struct {
	cells []*signalCell
	logf  func(format string, v ...interface{})
}

// NewSignalGraph returns an empty SignalGraph.
func NewSignalGraph() *SignalGraph {
	return &SignalGraph{}
}

// Len returns the number of signals allocated in g.
func (g *SignalGraph) Len() int {
	return len(g.cells)
}

func (g *SignalGraph) cell(id SignalID) *signalCell {
	if id < 0 || int(id) >= len(g.cells) {
		panic(fmt.Sprintf("invalid signal id: %d", id))
	}
	return g.cells[id]
}

func (g *SignalGraph) debugf(format string, v ...interface{}) {
	if g.logf != nil {
		g.logf(format, v...)
	}
}

// NewSignal allocates a plain signal holding v.
func (g *SignalGraph) NewSignal(name string, v *Value) SignalID {
	id := SignalID(len(g.cells))
	g.cells = append(g.cells, &signalCell{name: name, value: v})
	return id
}

// Name returns the name id was allocated with.
func (g *SignalGraph) Name(id SignalID) string {
	return g.cell(id).name
}

// IsComputed returns true if id is bound to a recomputation rule.
func (g *SignalGraph) IsComputed(id SignalID) bool {
	return g.cell(id).computed
}

// Dirty returns true if id is a computed signal awaiting recomputation.
func (g *SignalGraph) Dirty(id SignalID) bool {
	return g.cell(id).dirty
}

// Recomputations returns the number of times computed signal id has been
// recomputed since it was seeded.
func (g *SignalGraph) Recomputations(id SignalID) int {
	return g.cell(id).recomputations
}

// Dependencies returns the flattened dependency list of id.
func (g *SignalGraph) Dependencies(id SignalID) []SignalID {
	return append([]SignalID(nil), g.cell(id).deps...)
}

// Dependents returns the signals registered as direct dependents of id.
func (g *SignalGraph) Dependents(id SignalID) []SignalID {
	return append([]SignalID(nil), g.cell(id).dependents...)
}

// Set stores v in id and marks the dependents of id dirty.  When id is a
// computed signal v overrides its cached value until an upstream change
// dirties it again.
func (g *SignalGraph) Set(id SignalID, v *Value) {
	c := g.cell(id)
	c.value = v
	c.dirty = false
	g.markChildrenDirty(id)
}

// markChildrenDirty marks every direct dependent of id dirty and propagates
// to their dependents.  Propagation stops at a dependent which is already
// dirty since its own dependents were marked when it became dirty.
func (g *SignalGraph) markChildrenDirty(id SignalID) {
	for _, dep := range g.cell(id).dependents {
		c := g.cell(dep)
		if c.dirty {
			continue
		}
		c.dirty = true
		g.debugf("signal %s marked dirty", c.name)
		g.markChildrenDirty(dep)
	}
}

// Flatten expands deps with the dependencies of every computed signal it
// contains.  The result preserves first-seen order and has no duplicates.
func (g *SignalGraph) Flatten(deps []SignalID) []SignalID {
	var flat []SignalID
	seen := make(map[SignalID]bool, len(deps))
	add := func(id SignalID) {
		if !seen[id] {
			seen[id] = true
			flat = append(flat, id)
		}
	}
	for _, id := range deps {
		add(id)
		for _, up := range g.cell(id).deps {
			add(up)
		}
	}
	return flat
}

// Bind makes id a computed signal depending on deps and recomputed by fn.
// The value seed is cached as the current value and id is left clean.  Any
// previous binding of id is replaced, keeping its dependents.  Bind returns
// an error if the flattened dependency list contains id.
func (g *SignalGraph) Bind(id SignalID, deps []SignalID, seed *Value, fn RecomputeFunc) error {
	flat := g.Flatten(deps)
	for _, dep := range flat {
		if dep == id {
			return Errorf(CondRuntimeError, "computed signal %s depends on itself", g.cell(id).name)
		}
	}
	c := g.cell(id)
	for _, old := range c.deps {
		g.removeDependent(old, id)
	}
	c.computed = true
	c.deps = flat
	c.recompute = fn
	c.value = seed
	c.dirty = false
	for _, dep := range flat {
		up := g.cell(dep)
		up.dependents = append(up.dependents, id)
	}
	g.markChildrenDirty(id)
	return nil
}

func (g *SignalGraph) removeDependent(id SignalID, dependent SignalID) {
	c := g.cell(id)
	for i, d := range c.dependents {
		if d == dependent {
			c.dependents = append(c.dependents[:i], c.dependents[i+1:]...)
			return
		}
	}
}

// Value returns the current value of id.  A clean signal returns its cached
// value.  A dirty computed signal first resolves each of its dependencies
// and then reruns its recomputation rule.
func (g *SignalGraph) Value(id SignalID) (*Value, error) {
	c := g.cell(id)
	if !c.dirty {
		return c.value, nil
	}
	for _, dep := range c.deps {
		if _, err := g.Value(dep); err != nil {
			return nil, err
		}
	}
	v, err := c.recompute()
	if err != nil {
		return nil, err
	}
	c.value = v
	c.dirty = false
	c.recomputations++
	g.debugf("signal %s recomputed: %v", c.name, v)
	return v, nil
}
