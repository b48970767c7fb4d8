// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/ezrec/lmc/cpu"
	"github.com/ezrec/lmc/debugger"
	"github.com/ezrec/lmc/emulator"
)

const (
	TTY          = "/dev/tty"
	INPUT_PROMPT = "? " // Shown before each INP read from the terminal.
)

var (
	verbose bool
	defines []string
	debug   bool
	save    bool
	input   string
	output  string
)

var rootCmd = &cobra.Command{
	Use:   "lmc [flags] PROGRAM | --",
	Short: "Little Man Computer assembler and emulator",
	Long: `Lmc assembles a Little Man Computer program and runs it.

The program is read from PROGRAM, or from standard input when the
argument is '--'; runtime input is then taken from the terminal.
Each INP reads one decimal value per line from the tape input, and
each OUT writes the accumulator to the tape output.

With --debug, the program is run under an interactive stepper.
Type 'help' at the prompt for its commands.
`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fromStdin := cmd.ArgsLenAtDash() == 0
		if fromStdin == (len(args) != 0) {
			cmd.Usage()
			os.Exit(2)
		}

		var name string
		var source io.Reader
		if fromStdin {
			name = "<stdin>"
			source = os.Stdin
			if !cmd.Flags().Changed("input") {
				input = TTY
			}
		} else {
			name = args[0]
			inf, err := os.Open(name)
			if err != nil {
				log.Fatalf("%v: %v", name, err)
			}
			defer inf.Close()
			source = inf
		}

		prog, err := assemble(source)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}

		if save {
			pp.Println(prog)
			return
		}

		emu := emulator.NewEmulator()
		emu.Program = prog
		emu.Verbose = verbose

		tapeIn := os.Stdin
		if input != "-" {
			tapeIn, err = os.Open(input)
			if err != nil {
				log.Fatalf("%v: %v", input, err)
			}
			defer tapeIn.Close()
		}

		if output == "-" {
			emu.Tape.Output = os.Stdout
		} else {
			ouf, err := os.Create(output)
			if err != nil {
				log.Fatalf("%v: %v", output, err)
			}
			defer ouf.Close()
			emu.Tape.Output = ouf
		}

		err = emu.Reset()
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}

		if debug {
			// Commands arrive on the tape input; INP values are queued
			// with the 'input' command.
			db := debugger.NewDebugger(emu)
			db.Verbose = verbose
			err = db.Run(tapeIn, os.Stdout)
			if err != nil {
				log.Fatalf("%v: %v", name, err)
			}
			return
		}

		emu.Tape.Input = tapeIn
		emu.Tape.Prompt = tapePrompt(input, output)
		for done, err := emu.Tick(); !done; done, err = emu.Tick() {
			if err != nil {
				log.Fatalf("%v: %v", name, err)
			}
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Verbose mode")
	flags.StringArrayVarP(&defines, "define", "D", nil, "Define a name for $(...) expressions, as NAME=VALUE")

	flags = rootCmd.Flags()
	flags.BoolVar(&debug, "debug", false, "Run under the interactive stepper")
	flags.BoolVarP(&save, "save", "s", false, "Dump the assembled program, do not execute")
	flags.StringVarP(&input, "input", "i", "-", "Tape input")
	flags.StringVarP(&output, "output", "o", "-", "Tape output")
}

// parseDefine splits a NAME=VALUE predefine.
func parseDefine(define string) (name string, value string, err error) {
	name, value, ok := strings.Cut(define, "=")
	if !ok || len(name) == 0 {
		err = fmt.Errorf("invalid define '%v', expected NAME=VALUE", define)
	}

	return
}

// tapePrompt returns the prompt for INP values. Only the terminal is
// prompted, and only when the tape output is not redirected to a file.
func tapePrompt(input string, output string) string {
	if input == TTY && output == "-" {
		return INPUT_PROMPT
	}

	return ""
}

// assemble parses a program, with the emulator defines and the
// command line defines available to $(...) expressions.
func assemble(source io.Reader) (prog *cpu.Program, err error) {
	asm := &cpu.Assembler{Verbose: verbose}

	for name, value := range emulator.NewEmulator().Defines() {
		asm.Predefine(name, value)
	}

	for _, define := range defines {
		var name, value string
		name, value, err = parseDefine(define)
		if err != nil {
			return
		}
		asm.Predefine(name, value)
	}

	prog, err = asm.Parse(source)

	return
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
