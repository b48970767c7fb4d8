// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// System defines, visible to $(...) expressions.
var sysDefine = map[string]string{
	"LINENO":      "0",
	"ADDR":        "0",
	"MEMORY_SIZE": fmt.Sprintf("%d", MEMORY_SIZE),
	"WORD_MAX":    fmt.Sprintf("%d", WORD_MAX),
	"OPERAND_MAX": fmt.Sprintf("%d", OPERAND_MAX),
}

// commentMarkers start a comment that runs to the end of the line.
var commentMarkers = []string{";", "//", "#"}

var parenExpr = regexp.MustCompile(`\$\([^\$]*\)`)

// Assembler is a two pass assembler for the Little Man Computer.
//
// The first pass writes each non-blank source line to the next word of
// memory, binding labels as they are seen. Operands that name a label not
// yet bound are recorded in the link table, and resolved by the second pass.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Memory [MEMORY_SIZE]Word // Memory image under construction.
	Label  map[string]int    // Map of labels to addresses.
	Equate map[string]string // Map of .equ names, substituted for tokens.
	Define map[string]string // System and predefined names, for $(...) only.
	Link   map[int]string    // Map of addresses to unresolved labels.
	Lines  []Line            // Source map of generated words.

	predefine map[string]string // Predefines
	ptr       int               // Memory pointer.
}

// Predefine defines a name for $(...) expressions, or redefines one,
// applied at the start of every Parse. Predefined names are never
// substituted for bare tokens, so they do not shadow labels.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// stripComment removes any comment from a line.
func stripComment(line string) string {
	end := len(line)
	for _, marker := range commentMarkers {
		index := strings.Index(line, marker)
		if index >= 0 && index < end {
			end = index
		}
	}

	return line[:end]
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for _, names := range []map[string]string{asm.Define, asm.Equate} {
		for key, str := range names {
			v, perr := strconv.Atoi(str)
			if perr != nil {
				// Ignore non-integer equates. They may be
				// mnemonics or labels.
				continue
			}
			pred[key] = starlark.MakeInt(v)
		}
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands a single line into words.
// Equate definitions are consumed, and return no words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	asm.Define["LINENO"] = fmt.Sprintf("%d", lineno)
	asm.Define["ADDR"] = fmt.Sprintf("%d", asm.ptr)

	// Do $() evaluations
	line = parenExpr.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// Parse parses an input stream into a Program.
// No Program is returned if any part of the source is in error.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Memory[:])
	asm.Label = make(map[string]int)
	asm.Link = make(map[int]string)
	asm.Lines = nil
	asm.ptr = 0
	asm.Equate = make(map[string]string)
	asm.Define = maps.Clone(sysDefine)
	for attr, val := range asm.predefine {
		asm.Define[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		if len(words) == 0 {
			continue
		}

		if asm.ptr >= MEMORY_SIZE {
			err = ErrProgramSize
			return
		}

		err = asm.parseWords(words)
		if err != nil {
			return
		}

		asm.Lines = append(asm.Lines, Line{LineNo: lineno, Address: asm.ptr, Words: words})
		asm.ptr++
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of forward references.
	for _, src := range asm.Lines {
		label, ok := asm.Link[src.Address]
		if !ok {
			continue
		}
		lineno = src.LineNo
		line = strings.Join(src.Words, " ")
		addr, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}
		err = asm.addOperand(src.Address, addr)
		if err != nil {
			return
		}
		delete(asm.Link, src.Address)
	}

	prog = &Program{
		Memory: asm.Memory,
		Label:  maps.Clone(asm.Label),
		Lines:  slices.Clone(asm.Lines),
	}

	return
}

// parseWords writes the words of a line to the current memory word.
func (asm *Assembler) parseWords(words []string) (err error) {
	switch len(words) {
	case 1:
		// OPCODE
		err = asm.writeOp(words[0])
	case 2:
		if _, ok := Lookup(words[0]); ok {
			// OPCODE OPERAND
			err = asm.writeOp(words[0])
			if err != nil {
				return
			}
			err = asm.writeValue(words[1])
		} else {
			// LABEL OPCODE
			err = asm.writeLabel(words[0])
			if err != nil {
				return
			}
			err = asm.writeOp(words[1])
		}
	case 3:
		// LABEL OPCODE OPERAND
		err = asm.writeLabel(words[0])
		if err != nil {
			return
		}
		err = asm.writeOp(words[1])
		if err != nil {
			return
		}
		err = asm.writeValue(words[2])
	default:
		err = ErrTokenCount
	}

	return
}

// writeOp adds the base encoding of a mnemonic to the current word.
func (asm *Assembler) writeOp(word string) (err error) {
	base, ok := Lookup(word)
	if !ok {
		err = ErrMnemonicInvalid
		return
	}

	asm.Memory[asm.ptr] += base

	return
}

// writeValue adds an operand to the current word.
//
// An operand to an instruction is an address, 0 to OPERAND_MAX. A word
// with no instruction encoding is data, 0 to WORD_MAX.
func (asm *Assembler) writeValue(word string) (err error) {
	limit := WORD_MAX
	if asm.Memory[asm.ptr] != 0 {
		limit = OPERAND_MAX
	}

	value, perr := strconv.Atoi(word)
	if perr == nil {
		if value < 0 || value > limit {
			err = ErrOperandRange
			return
		}
		err = asm.addOperand(asm.ptr, value)
		return
	}

	addr, ok := asm.Label[word]
	if ok {
		err = asm.addOperand(asm.ptr, addr)
		return
	}

	asm.Link[asm.ptr] = word

	return
}

// addOperand adds a value to a word, keeping the word in range.
func (asm *Assembler) addOperand(addr int, value int) (err error) {
	sum := int(asm.Memory[addr]) + value
	if sum > WORD_MAX {
		err = ErrOperandRange
		return
	}

	asm.Memory[addr] = Word(sum)

	return
}

// writeLabel binds a label to the current address.
func (asm *Assembler) writeLabel(label string) (err error) {
	if _, ok := Lookup(label); ok {
		err = ErrLabelInvalid
		return
	}
	if _, perr := strconv.Atoi(label); perr == nil {
		err = ErrLabelInvalid
		return
	}

	_, ok := asm.Label[label]
	if ok {
		err = ErrLabelDuplicate
		return
	}

	asm.Label[label] = asm.ptr

	return
}
