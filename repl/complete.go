// Copyright © 2018 The ELPS authors

package repl

import (
	"sort"
	"strings"

	"github.com/tanndlin/tanscript/lang"
	"github.com/tanndlin/tanscript/parser/token"
)

// nameCompleter implements readline.AutoCompleter by enumerating the names
// visible in a TanScript scope, the built-in functions and keywords.
type nameCompleter struct {
	scope *lang.Scope
}

func (c *nameCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed, including a leading signal sigil.
	start := pos
	for start > 0 && isNameRune(line[start-1]) {
		start--
	}
	if start > 0 && (line[start-1] == '#' || line[start-1] == '$') {
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectNames(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, name := range candidates {
		result = append(result, []rune(name[len(prefix):]))
	}
	return result, len([]rune(prefix))
}

func isNameRune(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

func (c *nameCompleter) collectNames(prefix string) []string {
	seen := make(map[string]bool)
	var result []string
	add := func(name string) {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}

	if sigil := prefix[0]; sigil == '#' || sigil == '$' {
		for _, name := range c.scope.SignalNames() {
			add(string(sigil) + name)
		}
		sort.Strings(result)
		return result
	}

	for _, name := range c.scope.Names() {
		add(name)
	}
	for _, name := range lang.BuiltinNames(c.scope.Runtime.Builtins) {
		add(name)
	}
	for word := range token.Keywords {
		add(word)
	}

	sort.Strings(result)
	return result
}
