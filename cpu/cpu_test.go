package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		in    int
		value Word
		neg   bool
	}{
		{1000, 999, false},
		{-1, 0, true},
		{500, 500, false},
		{0, 0, false},
		{999, 999, false},
		{-999, 0, true},
	}

	for _, entry := range table {
		value, neg := clamp(entry.in)
		assert.Equal(entry.value, value, entry.in)
		assert.Equal(entry.neg, neg, entry.in)
	}
}

type state struct {
	Pc  int
	Acc Word
	Neg bool
}

var instrTests = []struct {
	name   string
	state  state
	core   map[int]Word
	input  []int
	signal Signal
	want   state
}{
	{"ADD", state{Acc: 5}, map[int]Word{0: 110, 10: 7}, nil, SIGNAL_CONTINUE, state{Pc: 1, Acc: 12}},
	{"ADD clears flag", state{Acc: 5, Neg: true}, map[int]Word{0: 110, 10: 7}, nil, SIGNAL_CONTINUE, state{Pc: 1, Acc: 12}},
	{"ADD saturates", state{Acc: 900, Neg: true}, map[int]Word{0: 110, 10: 200}, nil, SIGNAL_CONTINUE, state{Pc: 1, Acc: 999}},
	{"SUB", state{Acc: 7, Neg: true}, map[int]Word{0: 210, 10: 5}, nil, SIGNAL_CONTINUE, state{Pc: 1, Acc: 2}},
	{"SUB to zero", state{Acc: 7}, map[int]Word{0: 210, 10: 7}, nil, SIGNAL_CONTINUE, state{Pc: 1, Acc: 0}},
	{"SUB underflow", state{Acc: 5}, map[int]Word{0: 210, 10: 7}, nil, SIGNAL_CONTINUE, state{Pc: 1, Acc: 0, Neg: true}},
	{"STA clears flag", state{Acc: 42, Neg: true}, map[int]Word{0: 310}, nil, SIGNAL_CONTINUE, state{Pc: 1, Acc: 42}},
	{"LDA keeps flag", state{Acc: 1, Neg: true}, map[int]Word{0: 510, 10: 77}, nil, SIGNAL_CONTINUE, state{Pc: 1, Acc: 77, Neg: true}},
	{"BRA", state{Neg: true}, map[int]Word{0: 642}, nil, SIGNAL_CONTINUE, state{Pc: 42, Neg: true}},
	{"BRZ taken", state{}, map[int]Word{0: 742}, nil, SIGNAL_CONTINUE, state{Pc: 42}},
	{"BRZ nonzero", state{Acc: 3}, map[int]Word{0: 742}, nil, SIGNAL_CONTINUE, state{Pc: 1, Acc: 3}},
	{"BRZ negative", state{Neg: true}, map[int]Word{0: 742}, nil, SIGNAL_CONTINUE, state{Pc: 1, Neg: true}},
	{"BRP taken zero", state{}, map[int]Word{0: 842}, nil, SIGNAL_CONTINUE, state{Pc: 42}},
	{"BRP taken positive", state{Acc: 3}, map[int]Word{0: 842}, nil, SIGNAL_CONTINUE, state{Pc: 42, Acc: 3}},
	{"BRP negative", state{Neg: true}, map[int]Word{0: 842}, nil, SIGNAL_CONTINUE, state{Pc: 1, Neg: true}},
	{"INP", state{Neg: true}, map[int]Word{0: 901}, []int{42}, SIGNAL_INPUT, state{Pc: 1, Acc: 42}},
	{"INP saturates", state{}, map[int]Word{0: 901}, []int{1500}, SIGNAL_INPUT, state{Pc: 1, Acc: 999}},
	{"INP negative", state{}, map[int]Word{0: 901}, []int{-4}, SIGNAL_INPUT, state{Pc: 1, Acc: 0}},
	{"OUT", state{Acc: 17, Neg: true}, map[int]Word{0: 902}, nil, SIGNAL_OUTPUT, state{Pc: 1, Acc: 17, Neg: true}},
	{"OUT ignores input", state{Acc: 17}, map[int]Word{0: 902}, []int{5}, SIGNAL_OUTPUT, state{Pc: 1, Acc: 17}},
	{"HLT", state{Acc: 17, Neg: true}, map[int]Word{0: 0}, nil, SIGNAL_HALT, state{Pc: 1, Acc: 17, Neg: true}},
	{"wrap", state{Pc: 99}, map[int]Word{99: 110}, nil, SIGNAL_CONTINUE, state{Pc: 0}},
}

func TestInstructions(t *testing.T) {
	for _, entry := range instrTests {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			var memory [MEMORY_SIZE]Word
			for addr, word := range entry.core {
				memory[addr] = word
			}

			cpu := NewCpu(memory, nil)
			cpu.Pc = entry.state.Pc
			cpu.Acc = entry.state.Acc
			cpu.Neg = entry.state.Neg

			signal, err := cpu.Cycle(entry.input...)
			assert.NoError(err)
			assert.Equal(entry.signal, signal)
			assert.Equal(entry.want, state{Pc: cpu.Pc, Acc: cpu.Acc, Neg: cpu.Neg})
			assert.Equal(entry.state.Pc, cpu.Ip)
			assert.Equal(memory[entry.state.Pc], cpu.Ir)
			assert.Equal(1, cpu.Ticks)
		})
	}
}

func TestCpuStore(t *testing.T) {
	assert := assert.New(t)

	var memory [MEMORY_SIZE]Word
	memory[0] = 310

	cpu := NewCpu(memory, nil)
	cpu.Acc = 123

	_, err := cpu.Cycle()
	assert.NoError(err)
	assert.Equal(Word(123), cpu.Memory[10])

	// The image is not modified by execution.
	cpu.Reset()
	assert.Equal(Word(0), cpu.Memory[10])
}

func TestCpuHistory(t *testing.T) {
	assert := assert.New(t)

	var memory [MEMORY_SIZE]Word
	copy(memory[:], []Word{901, 902, 901, 902, 0})

	cpu := NewCpu(memory, nil)

	for _, in := range []int{3, 2000} {
		signal, err := cpu.Cycle(in)
		assert.NoError(err)
		assert.Equal(SIGNAL_INPUT, signal)
		signal, err = cpu.Cycle()
		assert.NoError(err)
		assert.Equal(SIGNAL_OUTPUT, signal)
	}

	assert.Equal([]Word{3, 999}, cpu.Inbox)
	assert.Equal([]Word{3, 999}, cpu.Outbox)
}

func TestCpuNeedsInput(t *testing.T) {
	assert := assert.New(t)

	var memory [MEMORY_SIZE]Word
	copy(memory[:], []Word{901, 902, 900, 903, 0})

	cpu := NewCpu(memory, map[string]int{"A": 1})

	expected := []bool{true, false, false, false, false}
	for pc, want := range expected {
		cpu.Pc = pc
		before := *cpu
		assert.Equal(want, cpu.NeedsInput(), pc)
		assert.Equal(before, *cpu, pc)
	}
}

func TestCpuDecode(t *testing.T) {
	for _, word := range []Word{400, 499, 900, 903, 999} {
		t.Run(word.String(), func(t *testing.T) {
			assert := assert.New(t)

			var memory [MEMORY_SIZE]Word
			memory[0] = word

			cpu := NewCpu(memory, nil)
			before := *cpu

			_, err := cpu.Cycle(1)
			assert.True(errors.Is(err, ErrOpcodeDecode))
			assert.True(errors.Is(err, ErrOpcode(word)))
			assert.Equal(before, *cpu)
		})
	}
}

func TestCpuInputFaults(t *testing.T) {
	assert := assert.New(t)

	var memory [MEMORY_SIZE]Word
	memory[0] = 901

	cpu := NewCpu(memory, nil)
	before := *cpu

	_, err := cpu.Cycle()
	assert.True(errors.Is(err, ErrInputMissing))
	assert.Equal(before, *cpu)

	_, err = cpu.Cycle(1, 2)
	assert.True(errors.Is(err, ErrInputExtra))
	assert.Equal(before, *cpu)
}

func TestCpuHalted(t *testing.T) {
	assert := assert.New(t)

	var memory [MEMORY_SIZE]Word
	copy(memory[:], []Word{0, 901})

	cpu := NewCpu(memory, nil)
	assert.False(cpu.Halted())

	signal, err := cpu.Cycle()
	assert.NoError(err)
	assert.Equal(SIGNAL_HALT, signal)
	assert.True(cpu.Halted())

	before := *cpu
	for range 3 {
		signal, err = cpu.Cycle()
		assert.NoError(err)
		assert.Equal(SIGNAL_HALT, signal)
	}
	assert.Equal(before, *cpu)

	cpu.Reset()
	assert.False(cpu.Halted())
	assert.Equal(0, cpu.Pc)
	assert.Equal(0, cpu.Ticks)
}

func TestCpuLabel(t *testing.T) {
	assert := assert.New(t)

	label := map[string]int{"A": 1}

	first := NewCpu([MEMORY_SIZE]Word{}, label)
	second := NewCpu([MEMORY_SIZE]Word{}, label)
	first.Label["B"] = 2

	assert.Equal(map[string]int{"A": 1}, label)
	assert.Equal(map[string]int{"A": 1}, second.Label)

	empty := NewCpu([MEMORY_SIZE]Word{}, nil)
	assert.NotNil(empty.Label)
}

func TestCpuString(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu([MEMORY_SIZE]Word{}, nil)
	cpu.Pc = 7
	cpu.Acc = 42
	cpu.Ir = 123

	expected := "" +
		"   pc: 07\n" +
		"   ip: 00\n" +
		"   ir: 123 ADD 23\n" +
		"  acc: 042\n" +
		"  neg: false\n"
	assert.Equal(expected, cpu.String())
}

// run drives a program to completion with a batch of inputs.
func run(t *testing.T, prog *Program, inputs []int, limit int) (outputs []Word) {
	t.Helper()

	cpu := NewCpuFromProgram(prog)
	for range limit {
		var signal Signal
		var err error
		if cpu.NeedsInput() {
			if len(inputs) == 0 {
				t.Fatalf("input exhausted at %02d", cpu.Pc)
			}
			signal, err = cpu.Cycle(inputs[0])
			inputs = inputs[1:]
		} else {
			signal, err = cpu.Cycle()
		}
		if err != nil {
			t.Fatal(err)
		}
		switch signal {
		case SIGNAL_OUTPUT:
			outputs = append(outputs, cpu.Acc)
		case SIGNAL_HALT:
			assert.Equal(t, cpu.Outbox, outputs)
			return
		}
	}

	t.Fatalf("no halt after %d cycles", limit)
	return
}

func TestCpuSquare(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, squareProgram)
	assert.NoError(err)

	assert.Equal([]Word{9}, run(t, prog, []int{3, 0}, 1000))
	assert.Equal([]Word{9, 49}, run(t, prog, []int{3, 7, 0}, 10000))
}

func TestCpuEcho(t *testing.T) {
	assert := assert.New(t)

	prog, err := parse(t, []string{"INP", "OUT", "HLT"})
	assert.NoError(err)

	assert.Equal([]Word{42}, run(t, prog, []int{42}, 10))
}
