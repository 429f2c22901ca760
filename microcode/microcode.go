// Package microcode is the catalog of one-cycle primitives the pipeline
// tables compose into per-opcode micro-op lists. Every exported function
// here either *is* a state.MicroOp or returns one built from smaller
// pieces; none of them loop or advance more than a single clock tick's
// worth of bus activity.
package microcode

import (
	"github.com/jmchacon6502fork/sixfiveohtwo/bus"
	"github.com/jmchacon6502fork/sixfiveohtwo/state"
)

// Kind distinguishes how an addressing-mode builder terminates its
// micro-op list: a load reads a value for the apply step to consume, a
// store writes a caller-supplied value, a read-modify-write reads, issues
// a dummy write-back of the unmodified value, then lets apply compute and
// write the final value.
type Kind int

const (
	Load Kind = iota
	Store
	RMW
)

// FetchOpcode is the first micro-op of every instruction's pipeline. It
// performs the real, observable opcode read that the engine's preceding
// Peek only anticipated for table selection.
func FetchOpcode(prev, cur *state.Registers, b bus.Bus) bool {
	cur.OpcodeAddress = cur.PC
	cur.CurrentOpcode = b.Read(cur.PC)
	cur.PC++
	return false
}

// Complete marks the current instruction done.
func Complete(prev, cur *state.Registers, b bus.Bus) bool {
	return true
}

// NopCycle is a pure internal cycle: no bus access, not terminal.
func NopCycle(prev, cur *state.Registers, b bus.Bus) bool {
	return false
}

// NopCycleComplete is a pure internal cycle that ends the instruction.
func NopCycleComplete(prev, cur *state.Registers, b bus.Bus) bool {
	return true
}

// PhantomRead reads the byte at PC without advancing PC and without using
// the value. Real 6502 silicon always fetches the byte following the
// opcode even for single-byte implied instructions; that read must still
// appear on the bus trace.
func PhantomRead(prev, cur *state.Registers, b bus.Bus) bool {
	_ = b.Read(cur.PC)
	return false
}

// Implied builds the pipeline for a single-byte instruction: the
// mandatory phantom read of the following byte, then apply runs in the
// same cycle on real silicon, so we fold them into one micro-op to get
// the documented 2-cycle total.
func Implied(apply state.MicroOp) []state.MicroOp {
	return []state.MicroOp{
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(cur.PC)
			apply(prev, cur, b)
			return true
		},
	}
}

// Immediate builds the pipeline for #i mode: read the operand, advance
// PC past it, apply.
func Immediate(apply state.MicroOp) []state.MicroOp {
	return []state.MicroOp{
		func(prev, cur *state.Registers, b bus.Bus) bool {
			cur.OpVal = b.Read(cur.PC)
			cur.PC++
			apply(prev, cur, b)
			return true
		},
	}
}

// Accumulator builds the pipeline for instructions that operate directly
// on A instead of a memory operand (ASL A, ROL A, ...). Matches Implied's
// phantom-read-then-apply shape.
func Accumulator(apply state.MicroOp) []state.MicroOp {
	return Implied(apply)
}
