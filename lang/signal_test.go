// Copyright © 2018 The ELPS authors

package lang

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sum returns a recompute function adding the current values of ids.
func sum(g *SignalGraph, calls *int, ids ...SignalID) RecomputeFunc {
	return func() (*Value, error) {
		*calls++
		var total float64
		for _, id := range ids {
			v, err := g.Value(id)
			if err != nil {
				return nil, err
			}
			total += v.Num
		}
		return Num(total), nil
	}
}

func TestSignalGraphPlain(t *testing.T) {
	g := NewSignalGraph()
	x := g.NewSignal("x", Num(1))
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, "x", g.Name(x))
	assert.False(t, g.IsComputed(x))
	v, err := g.Value(x)
	require.NoError(t, err)
	assert.Equal(t, Num(1), v)
	g.Set(x, Num(2))
	v, err = g.Value(x)
	require.NoError(t, err)
	assert.Equal(t, Num(2), v)
}

func TestSignalGraphLazy(t *testing.T) {
	g := NewSignalGraph()
	var calls int
	x := g.NewSignal("x", Num(1))
	y := g.NewSignal("y", nil)
	require.NoError(t, g.Bind(y, []SignalID{x}, Num(1), sum(g, &calls, x)))
	assert.True(t, g.IsComputed(y))
	assert.False(t, g.Dirty(y))

	g.Set(x, Num(5))
	g.Set(x, Num(6))
	assert.True(t, g.Dirty(y))
	assert.Equal(t, 0, calls)

	v, err := g.Value(y)
	require.NoError(t, err)
	assert.Equal(t, Num(6), v)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, g.Recomputations(y))

	_, err = g.Value(y)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSignalGraphFlatten(t *testing.T) {
	g := NewSignalGraph()
	var calls int
	a := g.NewSignal("a", Num(1))
	b := g.NewSignal("b", Num(2))
	c := g.NewSignal("c", nil)
	require.NoError(t, g.Bind(c, []SignalID{a, b}, Num(3), sum(g, &calls, a, b)))
	d := g.NewSignal("d", nil)
	require.NoError(t, g.Bind(d, []SignalID{c, a}, Num(4), sum(g, &calls, c, a)))
	assert.Equal(t, []SignalID{c, a, b}, g.Dependencies(d))
	assert.Equal(t, []SignalID{c, d}, g.Dependents(a))
	assert.Equal(t, []SignalID{c, d}, g.Dependents(b))

	g.Set(b, Num(10))
	assert.True(t, g.Dirty(c))
	assert.True(t, g.Dirty(d))
	v, err := g.Value(d)
	require.NoError(t, err)
	assert.Equal(t, Num(12), v)
	assert.Equal(t, 1, g.Recomputations(c))
	assert.Equal(t, 1, g.Recomputations(d))
}

func TestSignalGraphRebind(t *testing.T) {
	g := NewSignalGraph()
	var calls int
	a := g.NewSignal("a", Num(1))
	b := g.NewSignal("b", Num(2))
	c := g.NewSignal("c", nil)
	require.NoError(t, g.Bind(c, []SignalID{a}, Num(1), sum(g, &calls, a)))
	require.NoError(t, g.Bind(c, []SignalID{b}, Num(2), sum(g, &calls, b)))
	assert.Empty(t, g.Dependents(a))
	assert.Equal(t, []SignalID{c}, g.Dependents(b))

	g.Set(a, Num(100))
	assert.False(t, g.Dirty(c))
}

func TestSignalGraphCycle(t *testing.T) {
	g := NewSignalGraph()
	var calls int
	a := g.NewSignal("a", Num(1))
	b := g.NewSignal("b", nil)
	require.NoError(t, g.Bind(b, []SignalID{a}, Num(1), sum(g, &calls, a)))
	err := g.Bind(b, []SignalID{b}, Num(1), sum(g, &calls, b))
	assert.True(t, errors.Is(err, ErrRuntime), "%v", err)
	assert.Equal(t, []SignalID{a}, g.Dependencies(b), "failed bind must not modify the signal")
}

func TestSignalGraphOverride(t *testing.T) {
	g := NewSignalGraph()
	var calls int
	a := g.NewSignal("a", Num(1))
	b := g.NewSignal("b", nil)
	require.NoError(t, g.Bind(b, []SignalID{a}, Num(1), sum(g, &calls, a)))
	g.Set(a, Num(2))
	g.Set(b, Num(50))
	v, err := g.Value(b)
	require.NoError(t, err)
	assert.Equal(t, Num(50), v)
	assert.Equal(t, 0, calls)

	g.Set(a, Num(3))
	v, err = g.Value(b)
	require.NoError(t, err)
	assert.Equal(t, Num(3), v)
}

func TestSignalGraphRecomputeError(t *testing.T) {
	g := NewSignalGraph()
	a := g.NewSignal("a", Num(1))
	b := g.NewSignal("b", nil)
	boom := Errorf(CondRuntimeError, "boom")
	require.NoError(t, g.Bind(b, []SignalID{a}, Num(1), func() (*Value, error) { return nil, boom }))
	g.Set(a, Num(2))
	_, err := g.Value(b)
	assert.Equal(t, boom, err)
	assert.True(t, g.Dirty(b))
}
