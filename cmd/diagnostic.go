// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"
	"os"

	"github.com/spf13/viper"
	"github.com/tanndlin/tanscript/diagnostic"
)

func colorMode() diagnostic.ColorMode {
	return diagnostic.ParseColorMode(viper.GetString("color"))
}

// newRenderer returns a renderer which reads the source of the named
// programs in sources from memory and any other file from disk.
func newRenderer(sources map[string]string) *diagnostic.Renderer {
	return &diagnostic.Renderer{
		Color: colorMode(),
		SourceReader: func(name string) ([]byte, error) {
			if src, ok := sources[name]; ok {
				return []byte(src), nil
			}
			return os.ReadFile(name) //nolint:gosec // CLI tool reads user-specified files
		},
	}
}

// renderError renders err, and every error aggregated in it, with annotated
// source snippets.  Notes are appended to the first diagnostic.
func renderError(w io.Writer, err error, sources map[string]string, notes ...string) {
	diags := diagnostic.FromError(err)
	if len(diags) > 0 {
		diags[0].Notes = append(diags[0].Notes, notes...)
	}
	_ = newRenderer(sources).RenderAll(w, diags)
}
