// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"cmp"
	"iter"
	"maps"
	"slices"
	"strconv"
)

// Line is a source line that occupies a word of memory.
type Line struct {
	LineNo  int      // Line number in the source text.
	Address int      // Address of the word generated by the line.
	Words   []string // Tokens of the line, after equate substitution.
}

// Program is an assembled memory image and its symbol table.
type Program struct {
	Memory [MEMORY_SIZE]Word // Memory image.
	Label  map[string]int    // Map of labels to addresses.
	Lines  []Line            // Source map, in address order.
}

// Debug returns the source line that generated the word at an address,
// or nil if the address was not written by the source.
func (prog *Program) Debug(addr int) (line *Line) {
	n, found := slices.BinarySearchFunc(prog.Lines, addr, func(l Line, addr int) int {
		return cmp.Compare(l.Address, addr)
	})
	if found {
		line = &prog.Lines[n]
	}

	return
}

// Address resolves a decimal address or a label to an address.
func (prog *Program) Address(ref string) (addr int, err error) {
	addr, err = strconv.Atoi(ref)
	if err == nil {
		if addr < 0 || addr >= MEMORY_SIZE {
			err = ErrAddressRange
		}
		return
	}

	err = nil
	addr, ok := prog.Label[ref]
	if !ok {
		err = ErrLabelMissing(ref)
		return
	}

	return
}

// Labels returns an iterator over the labels, in address order.
func (prog *Program) Labels() iter.Seq2[string, int] {
	names := slices.SortedFunc(maps.Keys(prog.Label), func(a, b string) int {
		return cmp.Or(cmp.Compare(prog.Label[a], prog.Label[b]), cmp.Compare(a, b))
	})

	return func(yield func(name string, addr int) bool) {
		for _, name := range names {
			if !yield(name, prog.Label[name]) {
				return
			}
		}
	}
}

// LabelOf returns the first label bound to an address.
func (prog *Program) LabelOf(addr int) (label string, ok bool) {
	for name, at := range prog.Labels() {
		if at == addr {
			return name, true
		}
	}

	return
}
