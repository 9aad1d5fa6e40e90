// Copyright © 2024 The ELPS authors

package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanndlin/tanscript/ast"
)

func TestNewReader(t *testing.T) {
	r := NewReader()
	prog, err := r.Read("test", strings.NewReader("let x = 1 + 2;"))
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)
	assert.Equal(t, "test", prog.File)
	assert.IsType(t, &ast.Declaration{}, prog.Statements[0])
}

func TestIsIncomplete(t *testing.T) {
	for _, src := range []string{
		"let x = ",
		"if (x) {",
		"function f(a, ",
		"print(1",
		"while (true) { let y = [1, 2",
	} {
		_, err := NewReader().Read("test", strings.NewReader(src))
		if assert.Error(t, err, src) {
			assert.True(t, IsIncomplete(err), "%q: %v", src, err)
		}
	}

	for _, src := range []string{
		"let = 1;",
		"x + ;",
		"1 2",
		"}",
	} {
		_, err := NewReader().Read("test", strings.NewReader(src))
		if assert.Error(t, err, src) {
			assert.False(t, IsIncomplete(err), "%q: %v", src, err)
		}
	}
}
