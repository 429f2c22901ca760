package cpu

import (
	"github.com/jmchacon6502fork/sixfiveohtwo/bus"
	"github.com/jmchacon6502fork/sixfiveohtwo/state"
)

// SignalIrq raises the level-triggered IRQ line. It stays raised until
// ClearIrq is called; HandlePendingInterrupt re-latches it every
// instruction boundary as long as it's asserted, whatever the I flag;
// installPipeline only services it while I is clear.
func (c *CPU) SignalIrq() {
	c.irqLine = true
}

// ClearIrq lowers the IRQ line.
func (c *CPU) ClearIrq() {
	c.irqLine = false
}

// SignalNmi raises the edge-triggered NMI line. Unlike IRQ it is
// consumed the instant it's serviced and is not explicitly cleared by
// the caller.
func (c *CPU) SignalNmi() {
	c.buf.Current.Latch(state.Nmi)
}

// SignalReset raises Reset, which overrides and survives across any other
// pending interrupt per the buffer's priority rule.
func (c *CPU) SignalReset() {
	c.buf.Current.Latch(state.Reset)
}

// HandlePendingInterrupt is the per-instruction-boundary check: if the IRQ
// line is asserted, latch Irq regardless of the I mask. A masked IRQ still
// needs to be visible so a WAI-halted core wakes on it; installPipeline is
// what gates actually servicing it on I being clear. It is idempotent when
// called with nothing to do.
func (c *CPU) HandlePendingInterrupt() {
	cur := &c.buf.Current
	if c.irqLine {
		cur.Latch(state.Irq)
	}
}

// resetPipeline models the 7 cycle power-on/reset sequence: an opcode
// fetch that's discarded, three read cycles standing in for the aborted
// stack pushes real hardware performs without actually writing, an
// internal cycle that sets I, then the two vector reads.
func resetPipeline() []state.MicroOp {
	return []state.MicroOp{
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(cur.PC)
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(0x0100 | uint16(cur.SP))
			cur.SP--
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(0x0100 | uint16(cur.SP))
			cur.SP--
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(0x0100 | uint16(cur.SP))
			cur.SP--
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			cur.P |= state.FlagI
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			lo := b.Read(state.ResetVector)
			cur.OpVal = lo
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			hi := b.Read(state.ResetVector + 1)
			cur.PC = uint16(hi)<<8 | uint16(cur.OpVal)
			cur.Status = state.Running
			cur.PendingInterrupt = state.None
			return true
		},
	}
}

// nmiPipeline and irqPipeline model the 7 cycle hardware interrupt
// sequence: two internal cycles, push PCH/PCL/P (with B clear, unlike
// BRK), then fetch the vector. NMI and IRQ differ only in which vector
// they read and in that installPipeline only installs irqPipeline once it
// has confirmed I is clear. cmos additionally clears D when servicing.
func nmiPipeline(cmos bool) []state.MicroOp {
	return interruptPipeline(state.NMIVector, cmos)
}

func irqPipeline(cmos bool) []state.MicroOp {
	return interruptPipeline(state.IRQVector, cmos)
}

func interruptPipeline(vector uint16, cmos bool) []state.MicroOp {
	return []state.MicroOp{
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(cur.PC)
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(cur.PC)
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			b.Write(0x0100|uint16(cur.SP), uint8(cur.PC>>8))
			cur.SP--
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			b.Write(0x0100|uint16(cur.SP), uint8(cur.PC))
			cur.SP--
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			b.Write(0x0100|uint16(cur.SP), cur.P|state.FlagU) // B clear: this is hardware, not BRK
			cur.SP--
			cur.P |= state.FlagI
			if cmos {
				cur.P &^= state.FlagD
			}
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			lo := b.Read(vector)
			cur.OpVal = lo
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			hi := b.Read(vector + 1)
			cur.PC = uint16(hi)<<8 | uint16(cur.OpVal)
			cur.PendingInterrupt = state.None
			cur.Status = state.Running
			return true
		},
	}
}
