// Package cpu assembles the microcode catalog into per-variant pipeline
// tables and drives them one clock cycle at a time.
package cpu

import (
	"github.com/jmchacon6502fork/sixfiveohtwo/bus"
	"github.com/jmchacon6502fork/sixfiveohtwo/state"
)

// maxStepCycles bounds Step: a malformed or runaway pipeline aborts rather
// than spinning forever.
const maxStepCycles = 100

// CPU drives one variant's pipeline table against a bus and a state
// buffer the caller owns.
type CPU struct {
	variant Variant
	table   [256][]state.MicroOp
	buf     *state.Pair
	bus     bus.Bus
	irqLine bool
}

// New builds a CPU for the given variant. It rejects an unrecognized
// Variant; everything else about construction is infallible since the
// pipeline tables are built once, here, and never touched again.
func New(v Variant, buf *state.Pair, b bus.Bus, opts Options) (*CPU, error) {
	if !v.valid() {
		return nil, &InvalidVariant{Variant: v}
	}
	var table [256][]state.MicroOp
	switch v {
	case Nmos6502:
		table = buildNMOSTable(false)
	case Nmos6502Simple:
		table = buildNMOSTable(true)
	case Wdc65C02:
		table = buildCMOSTable(false)
	case Rockwell65C02:
		table = buildCMOSTable(true)
	}
	buf.Current.DecimalDisabled = opts.DecimalDisabled
	return &CPU{variant: v, table: table, buf: buf, bus: b}, nil
}

// Variant reports the CPU's decode table selection.
func (c *CPU) Variant() Variant {
	return c.variant
}

// Buffer returns the Prev/Current register pair this CPU drives.
func (c *CPU) Buffer() *state.Pair {
	return c.buf
}

// Reset installs and immediately runs the 7 cycle power-on/reset
// pipeline to completion, leaving Current at its documented post-reset
// resting state.
func (c *CPU) Reset() {
	cur := &c.buf.Current
	pc, decimalDisabled := cur.PC, cur.DecimalDisabled
	cur.Reset(pc)
	cur.DecimalDisabled = decimalDisabled
	// The pipeline's three stack decrements bring SP from $00 down to the
	// documented resting value $FD.
	cur.SP = 0x00
	c.buf.SaveStateBeforeInstruction()
	cur.Pipeline = resetPipeline()
	cur.PipelineIndex = 0
	for !cur.InstructionComplete {
		c.runPipelineStep()
	}
}

// Clock advances exactly one micro-op: one clock cycle. If no pipeline is
// installed it selects one, either an interrupt/reset service sequence if
// one is latched, or the next opcode's pipeline via a real fetch
// (preceded by a Peek so the correct table row is already known before
// the fetch's own bus cycle happens). It returns true iff this cycle
// completed an instruction (or interrupt/reset sequence).
func (c *CPU) Clock() bool {
	cur := &c.buf.Current
	if cur.Status == state.Jammed || cur.Status == state.Stopped {
		return false
	}
	if cur.Pipeline == nil {
		c.installPipeline()
	}
	return c.runPipelineStep()
}

func (c *CPU) installPipeline() {
	cur := &c.buf.Current
	c.buf.SaveStateBeforeInstruction()
	cur.PipelineIndex = 0
	cur.InstructionComplete = false
	cur.PrevSkipInterrupt = cur.SkipInterrupt
	cur.SkipInterrupt = false

	cmos := c.variant.isCMOS()
	if cur.Status == state.Waiting {
		// A WAI-halted core isn't running instructions, so nothing else
		// calls HandlePendingInterrupt on its behalf; poll the line
		// directly so a just-raised (possibly masked) IRQ wakes it within
		// this same installPipeline call instead of one cycle later.
		c.HandlePendingInterrupt()
	}
	if cur.PendingInterrupt != state.None && !cur.PrevSkipInterrupt {
		switch cur.PendingInterrupt {
		case state.Reset:
			cur.Pipeline = resetPipeline()
			return
		case state.Nmi:
			cur.Status = state.Running
			cur.Pipeline = nmiPipeline(cmos)
			return
		case state.Irq:
			if cur.P&state.FlagI == 0 {
				cur.Status = state.Running
				cur.Pipeline = irqPipeline(cmos)
				return
			}
			// Masked: still wakes a WAI-halted core, but execution resumes
			// at the next opcode instead of jumping to the vector.
			if cur.Status == state.Waiting {
				cur.Status = state.Running
			}
			cur.PendingInterrupt = state.None
		}
	}

	if cur.Status == state.Waiting {
		cur.Pipeline = []state.MicroOp{func(prev, cur *state.Registers, b bus.Bus) bool { return true }}
		return
	}

	opcode := c.bus.Peek(cur.PC)
	ops := c.table[opcode]
	if len(ops) == 0 {
		// A genuine single-cycle instruction: the opcode fetch is the
		// entire instruction, so the fetch itself must be terminal.
		cur.Pipeline = []state.MicroOp{microcodeFetchOpcodeTerminal}
		return
	}
	cur.Pipeline = append([]state.MicroOp{microcodeFetchOpcode}, ops...)
}

// microcodeFetchOpcode is a local alias so this file doesn't need to
// import microcode just for the one primitive every pipeline starts with.
var microcodeFetchOpcode = func(prev, cur *state.Registers, b bus.Bus) bool {
	cur.OpcodeAddress = cur.PC
	cur.CurrentOpcode = b.Read(cur.PC)
	cur.PC++
	return false
}

// microcodeFetchOpcodeTerminal is microcodeFetchOpcode for opcodes whose
// entire instruction is the fetch cycle itself (the 65C02 variants'
// 1-cycle reserved NOPs).
var microcodeFetchOpcodeTerminal = func(prev, cur *state.Registers, b bus.Bus) bool {
	cur.OpcodeAddress = cur.PC
	cur.CurrentOpcode = b.Read(cur.PC)
	cur.PC++
	return true
}

func (c *CPU) runPipelineStep() bool {
	cur := &c.buf.Current
	op := cur.Pipeline[cur.PipelineIndex]
	done := op(&c.buf.Prev, cur, c.bus)
	cur.PipelineIndex++
	if done {
		cur.InstructionComplete = true
		cur.Pipeline = nil
		cur.PipelineIndex = 0
		c.HandlePendingInterrupt()
	}
	return done
}

// Step runs one full instruction (or interrupt/reset service sequence) to
// completion and returns the number of cycles it took. A pipeline that
// runs out of micro-ops or doesn't terminate within maxStepCycles is
// aborted with PipelineOverrun; this can only happen if a pipeline table
// entry is malformed, since every real 6502 instruction completes well
// under that bound. A Jammed or Stopped core runs nothing and returns 0
// cycles until a Reset is latched or CPU.Reset is called.
func (c *CPU) Step() (int, error) {
	cur := &c.buf.Current
	if (cur.Status == state.Jammed || cur.Status == state.Stopped) && cur.PendingInterrupt != state.Reset {
		return 0, nil
	}
	if cur.Pipeline == nil {
		c.installPipeline()
	}
	cycles := 0
	for !cur.InstructionComplete {
		if cur.PipelineIndex >= len(cur.Pipeline) {
			return cycles, &PipelineOverrun{Cycles: cycles}
		}
		c.runPipelineStep()
		cycles++
		if cycles > maxStepCycles {
			return cycles, &PipelineOverrun{Cycles: cycles}
		}
	}
	return cycles, nil
}

// Run advances the clock exactly n cycles, irrespective of instruction
// boundaries, and returns n.
func (c *CPU) Run(n int) int {
	for i := 0; i < n; i++ {
		c.Clock()
	}
	return n
}

// RunUntil calls Step in a loop until stop returns true or an error occurs.
func (c *CPU) RunUntil(stop func(*state.Registers) bool) error {
	for {
		if _, err := c.Step(); err != nil {
			return err
		}
		if stop(&c.buf.Current) {
			return nil
		}
	}
}
