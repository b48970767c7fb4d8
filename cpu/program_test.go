package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, []string{
		"; header",
		"START INP",
		"",
		"      OUT",
		"      BRA START",
	})
	assert.NoError(err)

	line := prog.Debug(0)
	assert.NotNil(line)
	assert.Equal(2, line.LineNo)
	assert.Equal([]string{"START", "INP"}, line.Words)

	line = prog.Debug(1)
	assert.NotNil(line)
	assert.Equal(4, line.LineNo)

	line = prog.Debug(2)
	assert.NotNil(line)
	assert.Equal(5, line.LineNo)
	assert.Equal([]string{"BRA", "START"}, line.Words)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, []string{"HLT"})
	assert.NoError(err)

	assert.Nil(prog.Debug(1))
	assert.Nil(prog.Debug(99))
	assert.Nil((&Program{}).Debug(0))
}

func TestProgram_Address(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, squareProgram)
	assert.NoError(err)

	addr, err := prog.Address("LOOP")
	assert.NoError(err)
	assert.Equal(6, addr)

	addr, err = prog.Address("17")
	assert.NoError(err)
	assert.Equal(17, addr)

	_, err = prog.Address("100")
	assert.True(errors.Is(err, ErrAddressRange))

	_, err = prog.Address("-1")
	assert.True(errors.Is(err, ErrAddressRange))

	_, err = prog.Address("NOWHERE")
	assert.Equal(ErrLabelMissing("NOWHERE"), err)
}

func TestProgram_Labels(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{Label: map[string]int{"C": 5, "B": 1, "A": 5}}

	var names []string
	var addrs []int
	for name, addr := range prog.Labels() {
		names = append(names, name)
		addrs = append(addrs, addr)
	}

	assert.Equal([]string{"B", "A", "C"}, names)
	assert.Equal([]int{1, 5, 5}, addrs)

	label, ok := prog.LabelOf(5)
	assert.True(ok)
	assert.Equal("A", label)

	_, ok = prog.LabelOf(2)
	assert.False(ok)
}

func TestWord(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		word    Word
		opcode  Opcode
		operand int
		valid   bool
		text    string
	}{
		{0, OP_HLT, 0, true, "HLT"},
		{7, OP_HLT, 7, true, "DAT 7"},
		{123, OP_ADD, 23, true, "ADD 23"},
		{205, OP_SUB, 5, true, "SUB 05"},
		{399, OP_STA, 99, true, "STA 99"},
		{412, Opcode(4), 12, false, "DAT 412"},
		{500, OP_LDA, 0, true, "LDA 00"},
		{642, OP_BRA, 42, true, "BRA 42"},
		{742, OP_BRZ, 42, true, "BRZ 42"},
		{842, OP_BRP, 42, true, "BRP 42"},
		{901, OP_IO, 1, true, "INP"},
		{902, OP_IO, 2, true, "OUT"},
		{903, OP_IO, 3, false, "DAT 903"},
	}

	for _, entry := range table {
		assert.Equal(entry.opcode, entry.word.Opcode(), entry.text)
		assert.Equal(entry.operand, entry.word.Operand(), entry.text)
		assert.Equal(entry.valid, entry.word.Valid(), entry.text)
		assert.Equal(entry.text, entry.word.String())
	}

	assert.Equal("Opcode(4)", Opcode(4).String())
	assert.Equal("IO", OP_IO.String())
}

func TestLookup(t *testing.T) {
	assert := assert.New(t)

	table := map[string]Word{
		"ADD": 100, "SUB": 200, "STA": 300, "LDA": 500,
		"BRA": 600, "BRZ": 700, "BRP": 800,
		"INP": 901, "OUT": 902,
		"HLT": 0, "COB": 0, "DAT": 0,
	}

	for mnemonic, base := range table {
		got, ok := Lookup(mnemonic)
		assert.True(ok, mnemonic)
		assert.Equal(base, got, mnemonic)
	}

	for _, bad := range []string{"add", "IO", "NOP", ""} {
		_, ok := Lookup(bad)
		assert.False(ok, bad)
	}
}
