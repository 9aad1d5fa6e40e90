// Copyright © 2024 The ELPS authors

// Package errwrap contains error helpers shared by the interpreter front ends
// and the compiler.
package errwrap

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Wrapf annotates err with a formatted message.  If err is nil, Wrapf returns
// nil.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// Append safely accumulates err onto reterr.  Nil errors on either side are
// passed through, so Append can be used as `reterr += err` without checking
// either value first.
func Append(reterr, err error) error {
	if reterr == nil {
		return err
	}
	if err == nil {
		return reterr
	}
	return multierror.Append(reterr, err)
}

// Errors returns the individual errors accumulated in err.  A nil err yields
// an empty slice and an error that is not an aggregate yields itself.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.WrappedErrors()
	}
	return []error{err}
}

// String returns a string representation of the error. In particular, if the
// error is nil, it returns an empty string instead of panicing.
func String(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
