// Copyright © 2018 The ELPS authors

// Package parser provides the default lang.Reader for TanScript source.
package parser

import (
	"errors"
	"io"

	"github.com/tanndlin/tanscript/lang"
	"github.com/tanndlin/tanscript/parser/rdparser"
)

// NewReader returns a new lang.Reader
func NewReader() lang.Reader {
	return rdparser.NewReader()
}

// IsIncomplete reports whether err was caused by input that ended in the
// middle of a statement.  An interactive reader may read more input and try
// again.
func IsIncomplete(err error) bool {
	return errors.Is(err, io.ErrUnexpectedEOF)
}
