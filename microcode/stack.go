package microcode

import (
	"github.com/jmchacon6502fork/sixfiveohtwo/bus"
	"github.com/jmchacon6502fork/sixfiveohtwo/state"
)

// stackAddr returns the current top-of-stack bus address; the stack lives
// permanently in page 1 and SP is never allowed to leave uint8 range.
func stackAddr(cur *state.Registers) uint16 {
	return 0x0100 | uint16(cur.SP)
}

// Push builds the two-cycle sequence common to PHA/PHP: a phantom read of
// the next instruction byte (real hardware always does this before a
// stack push), then the write itself, decrementing SP.
func Push(val func(*state.Registers) uint8) []state.MicroOp {
	return []state.MicroOp{
		PhantomRead,
		func(prev, cur *state.Registers, b bus.Bus) bool {
			b.Write(stackAddr(cur), val(cur))
			cur.SP--
			return true
		},
	}
}

// Pull builds the three-cycle PLA/PLP sequence: phantom read, dummy read
// of the current (pre-increment) stack address, then the real pull.
func Pull(apply func(cur *state.Registers, val uint8)) []state.MicroOp {
	return []state.MicroOp{
		PhantomRead,
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(stackAddr(cur))
			cur.SP++
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			apply(cur, b.Read(stackAddr(cur)))
			return true
		},
	}
}

// JSR builds the 6-cycle JSR a sequence: fetch low, internal cycle, push PC
// high then low (PC left pointing at the last byte of the instruction, the
// well known off-by-one JSR/RTS convention), fetch high and jump.
func JSR() []state.MicroOp {
	return []state.MicroOp{
		func(prev, cur *state.Registers, b bus.Bus) bool {
			cur.OpAddr = uint16(b.Read(cur.PC))
			cur.PC++
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(stackAddr(cur)) // internal delay cycle
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			b.Write(stackAddr(cur), uint8(cur.PC>>8))
			cur.SP--
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			b.Write(stackAddr(cur), uint8(cur.PC))
			cur.SP--
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			hi := b.Read(cur.PC)
			cur.PC = uint16(hi)<<8 | cur.OpAddr
			return true
		},
	}
}

// RTS builds the 6-cycle RTS sequence: two internal cycles, pull PC low
// then high, then the trailing PC++ that compensates for JSR's push
// convention, spent as its own bus cycle.
func RTS() []state.MicroOp {
	return []state.MicroOp{
		PhantomRead,
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(stackAddr(cur))
			cur.SP++
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			lo := b.Read(stackAddr(cur))
			cur.SP++
			cur.OpVal = lo
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			hi := b.Read(stackAddr(cur))
			cur.PC = uint16(hi)<<8 | uint16(cur.OpVal)
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(cur.PC)
			cur.PC++
			return true
		},
	}
}

// RTI builds the 6-cycle RTI sequence: two internal cycles, pull P, pull PC
// low then high. Unlike RTS there is no PC++ afterward since RTI's pushed
// PC already points at the instruction to resume, not one before it.
func RTI() []state.MicroOp {
	return []state.MicroOp{
		PhantomRead,
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(stackAddr(cur))
			cur.SP++
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			p := b.Read(stackAddr(cur))
			cur.SP++
			cur.P = (p | state.FlagU) &^ state.FlagB
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			lo := b.Read(stackAddr(cur))
			cur.SP++
			cur.OpVal = lo
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			hi := b.Read(stackAddr(cur))
			cur.PC = uint16(hi)<<8 | uint16(cur.OpVal)
			return true
		},
	}
}

// PHAVal, PHPVal supply Push's byte-to-write callback.
func PHAVal(cur *state.Registers) uint8 { return cur.A }
func PHPVal(cur *state.Registers) uint8 { return cur.P | state.FlagU | state.FlagB }

// PLAApply, PLPApply supply Pull's apply callback.
func PLAApply(cur *state.Registers, val uint8) {
	cur.LoadZN(&cur.A, val)
}

func PLPApply(cur *state.Registers, val uint8) {
	cur.P = (val | state.FlagU) &^ state.FlagB
}

// PHXVal, PHYVal, PLXApply, PLYApply extend the stack ops to WDC/Rockwell's
// X/Y push-pull instructions.
func PHXVal(cur *state.Registers) uint8 { return cur.X }
func PHYVal(cur *state.Registers) uint8 { return cur.Y }

func PLXApply(cur *state.Registers, val uint8) { cur.LoadZN(&cur.X, val) }
func PLYApply(cur *state.Registers, val uint8) { cur.LoadZN(&cur.Y, val) }
