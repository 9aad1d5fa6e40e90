// Copyright © 2018 The ELPS authors

package compiler

// slotScope maps the variables declared in one block to memory addresses.
// The addresses of a block follow those reserved by its enclosing blocks.
type slotScope struct {
	parent *slotScope
	base   int
	size   int
	slots  map[string]int
}

func newSlotScope(parent *slotScope, size int) *slotScope {
	s := &slotScope{
		parent: parent,
		size:   size,
		slots:  make(map[string]int, size),
	}
	if parent != nil {
		s.base = parent.base + parent.size
	}
	return s
}

// declare assigns the next free address of s to name.  declare fails if name
// is already declared in s.
func (s *slotScope) declare(name string) (int, bool) {
	if _, ok := s.slots[name]; ok {
		return 0, false
	}
	addr := s.base + len(s.slots)
	s.slots[name] = addr
	return addr, true
}

// lookup returns the address of name in the innermost scope declaring it.
func (s *slotScope) lookup(name string) (int, bool) {
	for ; s != nil; s = s.parent {
		if addr, ok := s.slots[name]; ok {
			return addr, true
		}
	}
	return 0, false
}
