// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ezrec/lmc/cpu"
	"github.com/ezrec/lmc/io"
)

// Case is a batch run of a program: the inputs supplied to INP, and the
// outputs expected from OUT before the program halts.
type Case struct {
	Name   string `toml:"name" yaml:"name"`
	Input  []int  `toml:"input" yaml:"input"`
	Output []int  `toml:"output" yaml:"output"`
}

type caseFile struct {
	Case []Case `toml:"case" yaml:"case"`
}

// Result is the outcome of a Case.
type Result struct {
	Case   Case
	Output []int // Values produced by OUT.
	Err    error // Runtime fault, if any.
}

// Passed returns true if the run halted with the expected output.
func (r Result) Passed() bool {
	return r.Err == nil && slices.Equal(r.Case.Output, r.Output)
}

// LoadCases reads a case file. The format is selected by the extension:
// ".toml", or ".yaml" and ".yml".
func LoadCases(path string) (cases []Case, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	return DecodeCases(data, format)
}

// DecodeCases decodes cases in "toml" or "yaml" format.
//
// TOML:
//
//	[[case]]
//	name = "square"
//	input = [3, 0]
//	output = [9]
//
// YAML:
//
//	case:
//	  - name: square
//	    input: [3, 0]
//	    output: [9]
func DecodeCases(data []byte, format string) (cases []Case, err error) {
	var file caseFile

	switch format {
	case "toml":
		var md toml.MetaData
		md, err = toml.Decode(string(data), &file)
		if err != nil {
			return
		}
		if undecoded := md.Undecoded(); len(undecoded) != 0 {
			err = ErrCaseKey(undecoded[0].String())
			return
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&file)
		if err != nil {
			return
		}
	default:
		err = ErrCaseFormat
		return
	}

	cases = file.Case

	return
}

// RunCase runs a program against a single case, on its own emulator.
func RunCase(prog *cpu.Program, c Case, limit int) (result Result) {
	emu := NewEmulator()
	emu.Program = prog

	output := &io.Queue{}
	emu.Input = &io.Queue{Values: slices.Clone(c.Input)}
	emu.Output = output

	result.Case = c
	result.Err = emu.Reset()
	if result.Err == nil {
		result.Err = emu.RunLimit(limit)
	}
	result.Output = output.Values

	return
}

// RunCases runs a program against every case concurrently.
// Results are returned in case order.
func RunCases(ctx context.Context, prog *cpu.Program, cases []Case, limit int) (results []Result, err error) {
	results = make([]Result, len(cases))

	g, ctx := errgroup.WithContext(ctx)
	for n, c := range cases {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[n] = RunCase(prog, c, limit)
			return nil
		})
	}

	err = g.Wait()

	return
}
