// Package state defines the CPU register/flag state, the snapshot
// discipline that keeps a before/after pair of that state available to
// callers, and the micro-op cursor fields the execution engine advances.
package state

import "github.com/jmchacon6502fork/sixfiveohtwo/bus"

// Flag bit masks for the P status register.
const (
	FlagN = uint8(0x80) // Negative
	FlagV = uint8(0x40) // Overflow
	FlagU = uint8(0x20) // Unused, always reads 1
	FlagB = uint8(0x10) // Break, only meaningful in a pushed copy of P
	FlagD = uint8(0x08) // Decimal
	FlagI = uint8(0x04) // Interrupt disable
	FlagZ = uint8(0x02) // Zero
	FlagC = uint8(0x01) // Carry
)

// Vector addresses. Little-endian in memory.
const (
	NMIVector   = uint16(0xFFFA)
	ResetVector = uint16(0xFFFC)
	IRQVector   = uint16(0xFFFE)
)

// Status is the CPU's execution status.
type Status int

const (
	Running Status = iota
	Waiting
	Stopped
	Jammed
	Bypassed // WAI/STP serviced by an interrupt that woke the core without a Reset
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Waiting:
		return "Waiting"
	case Stopped:
		return "Stopped"
	case Jammed:
		return "Jammed"
	case Bypassed:
		return "Bypassed"
	default:
		return "Unknown"
	}
}

// PendingInterrupt is the interrupt latch. At most one is held at a time,
// with Reset > Nmi > Irq priority enforced by Latch.
type PendingInterrupt int

const (
	None PendingInterrupt = iota
	Irq
	Nmi
	Reset
)

func (p PendingInterrupt) String() string {
	switch p {
	case None:
		return "None"
	case Irq:
		return "Irq"
	case Nmi:
		return "Nmi"
	case Reset:
		return "Reset"
	default:
		return "Unknown"
	}
}

// MicroOp is a single-clock-cycle primitive. It performs at most one bus
// read or write, operating only on cur and bus, and returns true iff it is
// the terminal micro-op of the instruction or interrupt sequence it belongs
// to. prev is available read-only for micro-ops that need the
// pre-instruction snapshot (branch/interrupt edge cases).
type MicroOp func(prev *Registers, cur *Registers, b bus.Bus) bool

// Registers holds one buffer slot's worth of CPU state: the architectural
// registers plus the pipeline cursor fields that let the engine resume an
// in-progress instruction one micro-op per Clock call.
type Registers struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8

	Status            Status
	PendingInterrupt  PendingInterrupt
	DecimalDisabled   bool // Ricoh-style variant option: D flag is stored but ADC/SBC never honor it
	CurrentOpcode     uint8
	OpcodeAddress     uint16
	HaltOpcode        uint8
	SkipInterrupt     bool // this instruction's branch took, so the next one runs before interrupt service
	PrevSkipInterrupt bool // the instruction that just completed set SkipInterrupt

	Pipeline            []MicroOp
	PipelineIndex       int
	InstructionComplete bool

	// Scratch registers used by micro-ops while assembling an effective
	// address or transient operand. Not architectural state.
	OpAddr      uint16
	OpVal       uint8
	PageCrossed bool
}

// U always reads 1; B is synthesized only when pushed, not stored. ReadP
// returns P with those invariants enforced for external observation.
func (r *Registers) ReadP() uint8 {
	return (r.P | FlagU) &^ FlagB
}

// Pair holds the Prev/Current snapshot discipline described by the
// state buffer component: Current is the only side the engine mutates,
// and Prev is overwritten with a full copy of Current exactly once, at
// the moment a new instruction or interrupt sequence is about to begin.
type Pair struct {
	Prev    Registers
	Current Registers
}

// SaveStateBeforeInstruction copies Current into Prev. Must be called
// exactly once per instruction/interrupt boundary, before the new
// pipeline's first micro-op runs, and never again until the next boundary.
func (p *Pair) SaveStateBeforeInstruction() {
	p.Prev = p.Current
}

// Reset puts Current into the documented post-reset resting values, with
// PC set to pc and no bus access. CPU.Reset calls it before running the
// 7-cycle reset pipeline, which then loads PC from the reset vector.
func (r *Registers) Reset(pc uint16) {
	r.A, r.X, r.Y = 0, 0, 0
	r.SP = 0xFD
	r.P = FlagU | FlagI
	r.PC = pc
	r.Status = Running
	r.PendingInterrupt = None
	r.CurrentOpcode = 0
	r.OpcodeAddress = 0
	r.HaltOpcode = 0
	r.SkipInterrupt = false
	r.PrevSkipInterrupt = false
	r.Pipeline = nil
	r.PipelineIndex = 0
	r.InstructionComplete = false
	r.OpAddr = 0
	r.OpVal = 0
	r.PageCrossed = false
}

// LoadResetVector reads the 16 bit reset vector from the bus (two
// observable reads) and returns it.
func LoadResetVector(b bus.Bus) uint16 {
	return bus.ReadAddr(b, ResetVector)
}

// Latch raises an interrupt request, honoring Reset > Nmi > Irq priority:
// a higher priority latch already pending is never overwritten by a lower
// one.
func (r *Registers) Latch(want PendingInterrupt) {
	if want > r.PendingInterrupt {
		r.PendingInterrupt = want
	}
}
