// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"

	"github.com/ezrec/lmc/cpu"
	"github.com/ezrec/lmc/internal"
	"github.com/ezrec/lmc/io"
)

const (
	CYCLE_LIMIT = 100_000 // Default cycle limit for unattended runs.
)

var _emulator_defines = map[string]string{
	"CYCLE_LIMIT": fmt.Sprintf("%v", CYCLE_LIMIT),
}

// Emulator state. CPU + program + IO channels.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Tape   io.Tape    // Tape IO channel, the default Input and Output.
	Input  io.Channel // Source of INP values.
	Output io.Channel // Sink of OUT values.

	breakpoint map[int]bool
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:        cpu.NewCpu([cpu.MEMORY_SIZE]cpu.Word{}, nil),
		Program:    &cpu.Program{},
		breakpoint: make(map[int]bool),
	}

	emu.Input = &emu.Tape
	emu.Output = &emu.Tape

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset loads the program into a new CPU, and rewinds the input.
// Breakpoints are kept.
func (emu *Emulator) Reset() (err error) {
	if emu.Program == nil {
		err = ErrProgramMissing
		return
	}

	emu.Cpu = cpu.NewCpuFromProgram(emu.Program)
	emu.Cpu.Verbose = emu.Verbose

	if emu.Input != nil {
		emu.Input.Rewind()
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Code returns the instruction at the program counter.
func (emu *Emulator) Code() cpu.Word {
	return emu.Cpu.Memory[emu.Cpu.Pc]
}

// LineNo returns the source line number for the instruction at the
// program counter, or 0 if it was not generated by the source.
func (emu *Emulator) LineNo() int {
	line := emu.Program.Debug(emu.Cpu.Pc)
	if line == nil {
		return 0
	}

	return line.LineNo
}

// pender is a channel that knows how many values are ready.
type pender interface {
	Pending() int
}

// Awaiting returns true if the next instruction is INP, and the input
// channel is known to hold no value for it.
func (emu *Emulator) Awaiting() bool {
	if emu.Cpu.Halted() || !emu.Cpu.NeedsInput() {
		return false
	}

	p, ok := emu.Input.(pender)

	return ok && p.Pending() == 0
}

// Tick performs a single cycle of the emulator.
// INP values are taken from Input, and OUT values sent to Output.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Halted() {
		done = true
		return
	}

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	var signal cpu.Signal
	if emu.Cpu.NeedsInput() {
		var value int
		value, err = emu.Input.Receive()
		if err != nil {
			return
		}
		if emu.Verbose {
			log.Printf("emulator: input %v", value)
		}
		signal, err = emu.Cpu.Cycle(value)
	} else {
		signal, err = emu.Cpu.Cycle()
	}
	if err != nil {
		return
	}

	switch signal {
	case cpu.SIGNAL_OUTPUT:
		if emu.Verbose {
			log.Printf("emulator: output %v", emu.Cpu.Acc)
		}
		err = emu.Output.Send(int(emu.Cpu.Acc))
	case cpu.SIGNAL_HALT:
		done = true
	}

	return
}

// Run ticks the emulator until it halts, faults, reaches a breakpoint,
// or awaits input that is not available. At least one cycle is
// executed unless the emulator is awaiting input.
func (emu *Emulator) Run() (done bool, err error) {
	for {
		if emu.Awaiting() {
			return
		}

		done, err = emu.Tick()
		if done || err != nil {
			return
		}

		if emu.breakpoint[emu.Cpu.Pc] {
			return
		}
	}
}

// RunLimit ticks the emulator until it halts, faults, or has executed
// limit cycles since the last reset. Breakpoints are ignored.
func (emu *Emulator) RunLimit(limit int) (err error) {
	for {
		if emu.Cpu.Ticks >= limit {
			err = &ErrRuntime{LineNo: emu.LineNo(), Err: ErrCycleLimit}
			return
		}

		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}
}

// SetBreakpoint sets a breakpoint at an address or label.
func (emu *Emulator) SetBreakpoint(ref string) (addr int, err error) {
	addr, err = emu.Program.Address(ref)
	if err != nil {
		return
	}

	emu.breakpoint[addr] = true

	return
}

// DeleteBreakpoint removes the breakpoint at an address or label.
func (emu *Emulator) DeleteBreakpoint(ref string) (addr int, err error) {
	addr, err = emu.Program.Address(ref)
	if err != nil {
		return
	}

	if !emu.breakpoint[addr] {
		err = ErrBreakpointMissing
		return
	}

	delete(emu.breakpoint, addr)

	return
}

// Breakpoint returns true if a breakpoint is set at the address.
func (emu *Emulator) Breakpoint(addr int) bool {
	return emu.breakpoint[addr]
}

// Breakpoints returns an iterator over the breakpoints, in address order.
func (emu *Emulator) Breakpoints() iter.Seq[int] {
	return slices.Values(slices.Sorted(maps.Keys(emu.breakpoint)))
}
