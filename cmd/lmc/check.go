// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezrec/lmc/emulator"
)

var limit int

// checkCmd runs a program against a file of batch cases.
var checkCmd = &cobra.Command{
	Use:   "check PROGRAM CASES",
	Short: "Run a program against batch test cases",
	Long: `Check assembles PROGRAM and runs it once per case in CASES,
a .toml or .yaml file listing the input values of each case and the
output values expected before the program halts. Cases run in
parallel. The exit status is non-zero if any case fails.
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		inf, err := os.Open(name)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
		defer inf.Close()

		prog, err := assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}

		cases, err := emulator.LoadCases(args[1])
		if err != nil {
			log.Fatalf("%v: %v", args[1], err)
		}

		results, err := emulator.RunCases(context.Background(), prog, cases, limit)
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}

		if report(os.Stdout, results) != 0 {
			os.Exit(1)
		}
	},
}

func init() {
	checkCmd.Flags().IntVar(&limit, "limit", emulator.CYCLE_LIMIT, "Cycle limit per case")
	rootCmd.AddCommand(checkCmd)
}

// report writes one line per case result, and returns the failure count.
func report(w io.Writer, results []emulator.Result) (failed int) {
	for n, result := range results {
		name := result.Case.Name
		if len(name) == 0 {
			name = fmt.Sprintf("#%d", n+1)
		}

		switch {
		case result.Passed():
			fmt.Fprintf(w, "PASS %v\n", name)
		case result.Err != nil:
			failed++
			fmt.Fprintf(w, "FAIL %v: %v (output %v)\n", name, result.Err, result.Output)
		default:
			failed++
			fmt.Fprintf(w, "FAIL %v: expected %v, got %v\n", name, result.Case.Output, result.Output)
		}
	}

	fmt.Fprintf(w, "%d/%d passed\n", len(results)-failed, len(results))

	return
}
