// Package cpu implements the accumulator machine and assembler for the
// Little Man Computer.
//
// The machine has 100 words of memory, each holding a decimal value from 0
// to 999. A word is either data or an instruction whose hundreds digit is
// the opcode and whose low two digits are an operand address. The CPU holds
// a program counter, an accumulator, and a negative flag that is only set
// by a subtraction that falls below zero.
//
// The assembler translates line-oriented source text into a memory image
// and a symbol table, resolving forward label references after the source
// has been read. It also supports equates and compile-time expressions.
//
// Execution is cooperative: each call to Cpu.Cycle executes exactly one
// instruction and returns a Signal, and input is supplied by the caller
// rather than read by the CPU.
package cpu
