// Copyright © 2018 The ELPS authors

package lang

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/tanndlin/tanscript/ast"
)

// Type is the type of a Value.
type Type uint

// Possible Type values.
const (
	Void Type = iota
	Number
	String
	Boolean
	List
	Object
	numTypes
)

var typeStrings = [numTypes]string{
	Void:    "void",
	Number:  "number",
	String:  "string",
	Boolean: "boolean",
	List:    "list",
	Object:  "object",
}

func (t Type) String() string {
	if t >= numTypes {
		return "invalid-type"
	}
	return typeStrings[t]
}

// Value is a TanScript runtime value.  Only the fields relevant to Type are
// meaningful.
//
// Values are never mutated once constructed.  Operations that produce a
// modified list or object return a fresh Value, so a Value may be shared
// freely between variables, signals and function parameters.
type Value struct {
	Type Type

	// Num holds the value of a Number.
	Num float64

	// Str holds the value of a String.
	Str string

	// Bool holds the value of a Boolean.
	Bool bool

	// Cells holds the elements of a List.
	Cells []*Value

	// Attrs holds the attributes of an Object.
	Attrs map[string]*Value
}

var voidValue = &Value{Type: Void}

// VoidValue returns the absent value.
func VoidValue() *Value {
	return voidValue
}

// Num returns a Number value.
func Num(x float64) *Value {
	return &Value{Type: Number, Num: x}
}

// Str returns a String value.
func Str(s string) *Value {
	return &Value{Type: String, Str: s}
}

// Bool returns a Boolean value.
func Bool(b bool) *Value {
	return &Value{Type: Boolean, Bool: b}
}

// ListOf returns a List value containing cells.
func ListOf(cells ...*Value) *Value {
	if cells == nil {
		cells = []*Value{}
	}
	return &Value{Type: List, Cells: cells}
}

// ObjectOf returns an Object value with the given attributes.
func ObjectOf(attrs map[string]*Value) *Value {
	if attrs == nil {
		attrs = map[string]*Value{}
	}
	return &Value{Type: Object, Attrs: attrs}
}

// IsVoid returns true if v is the absent value.
func (v *Value) IsVoid() bool {
	return v == nil || v.Type == Void
}

// Truthy implements the truthiness rules of &&, || and !.  false, void, 0,
// the empty string and the empty list are falsy.
func (v *Value) Truthy() bool {
	if v == nil {
		return false
	}
	switch v.Type {
	case Void:
		return false
	case Number:
		return v.Num != 0
	case String:
		return v.Str != ""
	case Boolean:
		return v.Bool
	case List:
		return len(v.Cells) > 0
	default:
		return true
	}
}

// Equal returns true if v and other have the same type and value.  Lists and
// objects are compared element-wise.
func (v *Value) Equal(other *Value) bool {
	if v.IsVoid() || other.IsVoid() {
		return v.IsVoid() && other.IsVoid()
	}
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case Number:
		return v.Num == other.Num
	case String:
		return v.Str == other.Str
	case Boolean:
		return v.Bool == other.Bool
	case List:
		if len(v.Cells) != len(other.Cells) {
			return false
		}
		for i := range v.Cells {
			if !v.Cells[i].Equal(other.Cells[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.Attrs) != len(other.Attrs) {
			return false
		}
		for k, x := range v.Attrs {
			y, ok := other.Attrs[k]
			if !ok || !x.Equal(y) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Keys returns the attribute names of an Object in sorted order.
func (v *Value) Keys() []string {
	keys := make([]string, 0, len(v.Attrs))
	for k := range v.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders v the way print displays it.  Top-level strings are
// written raw, strings nested in lists and objects are quoted.
func (v *Value) String() string {
	if v != nil && v.Type == String {
		return v.Str
	}
	var buf bytes.Buffer
	v.write(&buf)
	return buf.String()
}

// Repr is like String but quotes a string value, so that it can be told
// apart from other values.
func (v *Value) Repr() string {
	var buf bytes.Buffer
	v.write(&buf)
	return buf.String()
}

func (v *Value) write(buf *bytes.Buffer) {
	if v == nil {
		buf.WriteString("void")
		return
	}
	switch v.Type {
	case Void:
		buf.WriteString("void")
	case Number:
		buf.WriteString(ast.FormatNumber(v.Num))
	case String:
		buf.WriteString(strconv.Quote(v.Str))
	case Boolean:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case List:
		buf.WriteString("[")
		for i, c := range v.Cells {
			if i > 0 {
				buf.WriteString(", ")
			}
			c.write(buf)
		}
		buf.WriteString("]")
	case Object:
		buf.WriteString("{")
		for i, k := range v.Keys() {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(k)
			buf.WriteString(": ")
			v.Attrs[k].write(buf)
		}
		buf.WriteString("}")
	default:
		buf.WriteString("<invalid>")
	}
}
