// Copyright © 2018 The ELPS authors

package lang

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		v   *Value
		out string
	}{
		{VoidValue(), "void"},
		{nil, "void"},
		{Num(3), "3"},
		{Num(-0.5), "-0.5"},
		{Num(1e6), "1000000"},
		{Str("raw"), "raw"},
		{Bool(true), "true"},
		{ListOf(), "[]"},
		{ListOf(Num(1), Str("a"), ListOf(Bool(false))), `[1, "a", [false]]`},
		{ObjectOf(nil), "{}"},
		{ObjectOf(map[string]*Value{"b": Str("x"), "a": Num(1)}), `{a: 1, b: "x"}`},
	}
	for _, test := range tests {
		assert.Equal(t, test.out, test.v.String())
	}
}

func TestValueRepr(t *testing.T) {
	assert.Equal(t, `"raw"`, Str("raw").Repr())
	assert.Equal(t, `"a\nb"`, Str("a\nb").Repr())
	assert.Equal(t, `[1, "a"]`, ListOf(Num(1), Str("a")).Repr())
	assert.Equal(t, "void", (*Value)(nil).Repr())
}

func TestValueTruthy(t *testing.T) {
	falsy := []*Value{nil, VoidValue(), Bool(false), Num(0), Str(""), ListOf()}
	for _, v := range falsy {
		assert.False(t, v.Truthy(), "%v", v)
	}
	truthy := []*Value{Bool(true), Num(-1), Num(math.NaN()), Str("0"), ListOf(Num(0)), ObjectOf(nil)}
	for _, v := range truthy {
		assert.True(t, v.Truthy(), "%v", v)
	}
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Num(1).Equal(Num(1)))
	assert.False(t, Num(1).Equal(Str("1")))
	assert.True(t, VoidValue().Equal(nil))
	assert.False(t, VoidValue().Equal(Num(0)))
	assert.True(t, ListOf(Num(1), Str("a")).Equal(ListOf(Num(1), Str("a"))))
	assert.False(t, ListOf(Num(1)).Equal(ListOf(Num(1), Num(2))))
	a := ObjectOf(map[string]*Value{"x": ListOf(Num(1))})
	b := ObjectOf(map[string]*Value{"x": ListOf(Num(1))})
	assert.True(t, a.Equal(b))
	b.Attrs["y"] = Num(2)
	assert.False(t, a.Equal(b))
	assert.False(t, Num(math.NaN()).Equal(Num(math.NaN())))
}

func TestTypeString(t *testing.T) {
	names := []string{"void", "number", "string", "boolean", "list", "object"}
	for i, typ := range []Type{Void, Number, String, Boolean, List, Object} {
		assert.Equal(t, names[i], typ.String())
	}
}
