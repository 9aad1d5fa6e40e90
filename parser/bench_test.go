// Copyright © 2018 The ELPS authors

package parser_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanndlin/tanscript/parser"
	"github.com/tanndlin/tanscript/tanstest"
)

func BenchmarkReader(b *testing.B) {
	b.Run("bench.tan", tanstest.BenchmarkParse("testdata/bench.tan", parser.NewReader))
}

func TestBenchmarkSource(t *testing.T) {
	f, err := os.Open("testdata/bench.tan")
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck // read-only
	prog, err := parser.NewReader().Read("bench.tan", f)
	require.NoError(t, err)
	assert.Len(t, prog.Statements, 13)
}
