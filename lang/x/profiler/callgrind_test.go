// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanndlin/tanscript/lang/x/profiler"
)

func TestNewCallgrind(t *testing.T) {
	s := newScope(t)
	var out bytes.Buffer
	p := profiler.NewCallgrindProfiler(s.Runtime, &out)
	require.NoError(t, p.Enable())
	assert.Same(t, p, s.Runtime.Profiler)
	assert.Error(t, p.Enable(), "profiler already enabled")

	_, err := s.LoadString("test.tan", testSource)
	require.NoError(t, err)
	require.NoError(t, p.Complete())

	prof := out.String()
	assert.True(t, strings.HasPrefix(prof, "version: 1\ncreator: tanscript"), prof)
	assert.Contains(t, prof, "events: Time_(ns) Memory_(bytes)\n")
	// names are compressed after their first use
	assert.Equal(t, 1, strings.Count(prof, ") sq\n"), prof)
	assert.Equal(t, 1, strings.Count(prof, ") sumsq\n"), prof)
	assert.Equal(t, 3, strings.Count(prof, "calls=1 "), prof)
	assert.Contains(t, prof, "calls=1 2\n")
	assert.Contains(t, prof, "fn=(5) ENTRYPOINT\n")
	assert.Contains(t, prof, "\nsummary: ")
}

func TestCallgrindSetFile(t *testing.T) {
	s := newScope(t)
	p := profiler.NewCallgrindProfiler(s.Runtime, nil)
	require.EqualError(t, p.Enable(), "no output set in profiler")

	path := filepath.Join(t.TempDir(), "callgrind.out")
	require.NoError(t, p.SetFile(path))
	require.NoError(t, p.Enable())
	assert.Error(t, p.SetFile(path))
	_, err := s.LoadString("test.tan", testSource)
	require.NoError(t, err)
	require.NoError(t, p.Complete())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "sumsq")
}

func TestCallgrindError(t *testing.T) {
	s := newScope(t)
	var out bytes.Buffer
	p := profiler.NewCallgrindProfiler(s.Runtime, &out)
	require.NoError(t, p.Enable())
	_, err := s.LoadString("test.tan", "function f(n) { return n / 0; }\nf(1);")
	require.Error(t, err)
	require.NoError(t, p.Complete())
	assert.Contains(t, out.String(), "fn=(2) f\n")
}
