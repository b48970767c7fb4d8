// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package debugger is an interactive stepper for the LMC emulator.
package debugger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ezrec/lmc/cpu"
	"github.com/ezrec/lmc/emulator"
	chio "github.com/ezrec/lmc/io"
)

const (
	PROMPT = "lmc> "
)

type command struct {
	args   int    // Required argument count.
	usage  string // Argument summary.
	help   string // One line description.
	action func(db *Debugger, args []string) (err error)
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"breakpoint": {1, "<addr|label>", "set a breakpoint", (*Debugger).doBreakpoint},
		"delpoint":   {1, "<addr|label>", "delete a breakpoint", (*Debugger).doDelpoint},
		"listpoints": {0, "", "list breakpoints", (*Debugger).doListpoints},
		"input":      {1, "<value>", "queue a value for INP", (*Debugger).doInput},
		"run":        {0, "", "run to halt, breakpoint, or input", (*Debugger).doRun},
		"step":       {0, "", "execute one instruction", (*Debugger).doStep},
		"state":      {0, "", "show the registers", (*Debugger).doState},
		"memory":     {0, "", "show memory", (*Debugger).doMemory},
		"reset":      {0, "", "restart the program, dropping queued input", (*Debugger).doReset},
		"help":       {0, "", "list commands", (*Debugger).doHelp},
		"quit":       {0, "", "end the session", (*Debugger).doQuit},
	}
}

// Debugger drives an emulator from a command stream.
type Debugger struct {
	Verbose bool
	Emu     *emulator.Emulator
	Prompt  string // Written before each command is read.

	out   io.Writer
	queue *chio.Queue
	done  bool // Session is over.
}

// NewDebugger attaches a debugger to an emulator. INP values are taken
// from the values queued by the 'input' command.
func NewDebugger(emu *emulator.Emulator) (db *Debugger) {
	db = &Debugger{
		Emu:    emu,
		Prompt: PROMPT,
		queue:  &chio.Queue{},
	}

	emu.Input = db.queue

	return
}

// Run reads commands from in until the program halts, a 'quit' command
// is read, or a runtime fault occurs. Reaching the end of the command
// stream before the program halts is ErrAborted.
func (db *Debugger) Run(in io.Reader, out io.Writer) (err error) {
	db.out = out
	db.done = false

	db.showLine()

	scanner := bufio.NewScanner(in)
	for !db.done {
		fmt.Fprint(out, db.Prompt)

		if !scanner.Scan() {
			err = scanner.Err()
			if err == nil && !db.Emu.Cpu.Halted() {
				err = ErrAborted
			}
			return
		}

		err = db.Execute(scanner.Text())
		var runtime *emulator.ErrRuntime
		if errors.As(err, &runtime) {
			return
		}
		if err != nil {
			fmt.Fprintf(out, "%v\n", err)
			err = nil
		}
	}

	return
}

// Execute runs a single command line.
func (db *Debugger) Execute(line string) (err error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	if db.Verbose {
		log.Printf("debugger: %v", words)
	}

	cmd, ok := commands[words[0]]
	if !ok {
		err = ErrCommand(words[0])
		return
	}

	args := words[1:]
	if len(args) != cmd.args {
		err = fmt.Errorf("%w: %v %v", ErrArgumentCount, words[0], cmd.usage)
		return
	}

	return cmd.action(db, args)
}

func (db *Debugger) printf(format string, args ...any) {
	if db.out != nil {
		fmt.Fprintf(db.out, format, args...)
	}
}

// showLine shows the instruction at the program counter.
func (db *Debugger) showLine() {
	emu := db.Emu
	pc := emu.Cpu.Pc

	source := ""
	if line := emu.Program.Debug(pc); line != nil {
		source = fmt.Sprintf("line %d: %v", line.LineNo, strings.Join(line.Words, " "))
	}

	db.printf("%02d %03d %-8v %v\n", pc, int(emu.Code()), emu.Code(), source)
}

// stopped reports why the emulator stopped.
func (db *Debugger) stopped(done bool) {
	emu := db.Emu

	switch {
	case done:
		db.printf("%v\n", f("halted after %d cycles", emu.Ticks()))
		db.done = true
		return
	case emu.Awaiting():
		db.printf("%v\n", f("waiting for input"))
	case emu.Breakpoint(emu.Cpu.Pc):
		db.printf("%v\n", f("breakpoint"))
	}

	db.showLine()
}

func (db *Debugger) doBreakpoint(args []string) (err error) {
	addr, err := db.Emu.SetBreakpoint(args[0])
	if err != nil {
		return
	}

	db.printf("%v\n", f("breakpoint at %02d", addr))

	return
}

func (db *Debugger) doDelpoint(args []string) (err error) {
	addr, err := db.Emu.DeleteBreakpoint(args[0])
	if err != nil {
		return
	}

	db.printf("%v\n", f("deleted breakpoint at %02d", addr))

	return
}

func (db *Debugger) doListpoints(args []string) (err error) {
	for addr := range db.Emu.Breakpoints() {
		label, _ := db.Emu.Program.LabelOf(addr)
		db.printf("%02d %v\n", addr, label)
	}

	return
}

func (db *Debugger) doInput(args []string) (err error) {
	value, err := strconv.Atoi(args[0])
	if err != nil {
		err = chio.ErrInputInvalid(args[0])
		return
	}

	err = db.queue.Send(value)

	return
}

func (db *Debugger) doRun(args []string) (err error) {
	done, err := db.Emu.Run()
	if err != nil {
		return
	}

	db.stopped(done)

	return
}

func (db *Debugger) doStep(args []string) (err error) {
	var done bool
	if !db.Emu.Awaiting() {
		done, err = db.Emu.Tick()
		if err != nil {
			return
		}
	}

	db.stopped(done)

	return
}

func (db *Debugger) doReset(args []string) (err error) {
	db.queue.Reset()

	err = db.Emu.Reset()
	if err != nil {
		return
	}

	db.showLine()

	return
}

func (db *Debugger) doState(args []string) (err error) {
	db.printf("%v", db.Emu.Cpu.String())

	return
}

// doMemory shows memory as a 10x10 grid; the program counter is marked
// with '>' and breakpoints with '*'.
func (db *Debugger) doMemory(args []string) (err error) {
	emu := db.Emu

	db.printf("   ")
	for col := range 10 {
		db.printf("    %d", col)
	}
	db.printf("\n")

	for row := range cpu.MEMORY_SIZE / 10 {
		db.printf("%02d ", row*10)
		for col := range 10 {
			addr := row*10 + col
			mark := ' '
			switch {
			case addr == emu.Cpu.Pc:
				mark = '>'
			case emu.Breakpoint(addr):
				mark = '*'
			}
			db.printf(" %c%03d", mark, int(emu.Cpu.Memory[addr]))
		}
		db.printf("\n")
	}

	return
}

func (db *Debugger) doHelp(args []string) (err error) {
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		cmd := commands[name]
		db.printf("%-24v %v\n", strings.TrimSpace(name+" "+cmd.usage), cmd.help)
	}

	return
}

func (db *Debugger) doQuit(args []string) (err error) {
	db.done = true

	return
}
