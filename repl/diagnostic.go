// Copyright © 2024 The ELPS authors

package repl

import (
	"io"
	"os"

	"github.com/tanndlin/tanscript/diagnostic"
)

// renderError renders err with annotated snippets of the entered source.
func renderError(w io.Writer, src string, color diagnostic.ColorMode, err error) {
	r := &diagnostic.Renderer{
		Color:        color,
		SourceReader: stdinReader(src),
	}
	_ = r.RenderAll(w, diagnostic.FromError(err))
}

// stdinReader serves src for the "stdin" pseudo-file and reads any other
// file from disk.
func stdinReader(src string) func(string) ([]byte, error) {
	return func(name string) ([]byte, error) {
		if name == "stdin" {
			return []byte(src), nil
		}
		return os.ReadFile(name) //#nosec G304
	}
}
