// Copyright © 2018 The ELPS authors

package lang

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanndlin/tanscript/ast"
)

func TestScopeBindings(t *testing.T) {
	root, err := NewRootScope()
	require.NoError(t, err)
	require.NoError(t, root.Declare("x", Num(1)))
	assert.True(t, errors.Is(root.Declare("x", Num(2)), ErrInternalConsistency))

	child := root.NewChild()
	assert.Equal(t, root, child.Parent)
	assert.Equal(t, root, child.Root())
	require.NoError(t, child.Declare("x", Num(3)))
	v, err := child.Get("x")
	require.NoError(t, err)
	assert.Equal(t, Num(3), v)
	v, err = root.Get("x")
	require.NoError(t, err)
	assert.Equal(t, Num(1), v)

	grandchild := child.NewChild()
	require.NoError(t, grandchild.Set("x", Num(4)))
	v, err = child.Get("x")
	require.NoError(t, err)
	assert.Equal(t, Num(4), v)

	assert.True(t, errors.Is(grandchild.Set("nope", Num(1)), ErrUseBeforeDeclaration))
	_, err = grandchild.Get("nope")
	assert.True(t, errors.Is(err, ErrUndeclaredVariable))
}

func TestScopeCallIsolation(t *testing.T) {
	root, err := NewRootScope()
	require.NoError(t, err)
	require.NoError(t, root.Declare("g", Num(1)))
	block := root.NewChild()
	require.NoError(t, block.Declare("local", Num(2)))

	call := block.newCallScope()
	assert.Nil(t, call.Parent)
	assert.Equal(t, root, call.Global)
	v, err := call.Get("g")
	require.NoError(t, err)
	assert.Equal(t, Num(1), v)
	_, err = call.Get("local")
	assert.True(t, errors.Is(err, ErrUndeclaredVariable))
	assert.Equal(t, []string{"g"}, call.Names())
	assert.Equal(t, []string{"g", "local"}, block.Names())
}

func TestScopeFunctions(t *testing.T) {
	root, err := NewRootScope()
	require.NoError(t, err)
	def := &ast.FunctionDef{Name: "f", Body: &ast.Block{}}
	require.NoError(t, root.DeclareFunction(def))
	got, err := root.NewChild().GetFunction("f")
	require.NoError(t, err)
	assert.Equal(t, def, got)
	_, err = root.Get("f")
	assert.True(t, errors.Is(err, ErrType))

	require.NoError(t, root.DeclareFunction(&ast.FunctionDef{Name: "f", Body: &ast.Block{}}))
	require.NoError(t, root.Declare("v", Num(1)))
	err = root.DeclareFunction(&ast.FunctionDef{Name: "v", Body: &ast.Block{}})
	assert.True(t, errors.Is(err, ErrInternalConsistency))
	_, err = root.GetFunction("v")
	assert.True(t, errors.Is(err, ErrUndeclaredFunction))
}

func TestScopeSignals(t *testing.T) {
	root, err := NewRootScope()
	require.NoError(t, err)
	id := root.SetSignal("s", Num(1))
	assert.Equal(t, id, root.SetSignal("s", Num(2)), "existing signals are updated in place")

	child := root.NewChild()
	got, err := child.GetSignal("s")
	require.NoError(t, err)
	assert.Equal(t, id, got)
	v, err := child.SignalValue("s")
	require.NoError(t, err)
	assert.Equal(t, Num(2), v)

	local := child.SetSignal("t", Num(3))
	assert.NotEqual(t, id, local)
	_, err = root.GetSignal("t")
	assert.True(t, errors.Is(err, ErrUndeclaredSignal))

	call := child.newCallScope()
	_, err = call.GetSignal("s")
	assert.True(t, errors.Is(err, ErrUndeclaredSignal), "signals are not resolved through the global scope")

	assert.Equal(t, []string{"s", "t"}, child.SignalNames())
	assert.Equal(t, []string{"s"}, root.SignalNames())
}

func TestScopeSignalCompute(t *testing.T) {
	root, err := NewRootScope()
	require.NoError(t, err)
	root.SetSignal("x", Num(2))
	expr := &ast.BinaryOp{
		Op:    ast.Mul,
		Left:  &ast.Signal{Name: "x"},
		Right: &ast.Number{Value: 3},
	}
	seed, err := root.SetSignalCompute("y", expr)
	require.NoError(t, err)
	assert.Equal(t, Num(6), seed)

	root.SetSignal("x", Num(5))
	v, err := root.SignalValue("y")
	require.NoError(t, err)
	assert.Equal(t, Num(15), v)

	_, err = root.SetSignalCompute("z", &ast.Signal{Name: "undefined"})
	assert.True(t, errors.Is(err, ErrUndeclaredSignal))
	_, err = root.GetSignal("z")
	assert.Error(t, err, "a failed rule must not create a signal")
}
