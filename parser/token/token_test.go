// Copyright © 2018 The ELPS authors

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeString(t *testing.T) {
	used := make(map[string]bool)
	for tok := Type(0); tok < numTokenTypes; tok++ {
		str := tok.String()
		if str == "" {
			t.Errorf("token type %x has empty string value", tok)
			continue
		}
		if used[str] {
			t.Errorf("token type string used twice: %v", tok)
		}
		used[str] = true
	}
	assert.Equal(t, "invalid", Type(numTokenTypes+3).String())
}

func TestKeywords(t *testing.T) {
	for word, typ := range Keywords {
		assert.Equal(t, word, typ.String())
	}
}

func TestLocationString(t *testing.T) {
	var loc *Location
	assert.Equal(t, "<unknown>", loc.String())
	assert.Equal(t, "a.tan", (&Location{File: "a.tan", Pos: -1}).String())
	assert.Equal(t, "a.tan[4]", (&Location{File: "a.tan", Pos: 4}).String())
	assert.Equal(t, "a.tan:2", (&Location{File: "a.tan", Line: 2}).String())
	assert.Equal(t, "a.tan:2:3", (&Location{File: "a.tan", Line: 2, Col: 3}).String())
}
