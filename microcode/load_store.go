package microcode

import (
	"github.com/jmchacon6502fork/sixfiveohtwo/bus"
	"github.com/jmchacon6502fork/sixfiveohtwo/state"
)

// LoadA, LoadX, LoadY are the Load-kind apply steps for LDA/LDX/LDY.
func LoadA(prev, cur *state.Registers, b bus.Bus) bool {
	cur.LoadZN(&cur.A, cur.OpVal)
	return true
}

func LoadX(prev, cur *state.Registers, b bus.Bus) bool {
	cur.LoadZN(&cur.X, cur.OpVal)
	return true
}

func LoadY(prev, cur *state.Registers, b bus.Bus) bool {
	cur.LoadZN(&cur.Y, cur.OpVal)
	return true
}

// StoreA, StoreX, StoreY are the Store-kind apply steps for STA/STX/STY.
func StoreA(prev, cur *state.Registers, b bus.Bus) bool {
	b.Write(cur.OpAddr, cur.A)
	return true
}

func StoreX(prev, cur *state.Registers, b bus.Bus) bool {
	b.Write(cur.OpAddr, cur.X)
	return true
}

func StoreY(prev, cur *state.Registers, b bus.Bus) bool {
	b.Write(cur.OpAddr, cur.Y)
	return true
}

// Nop is the Implied apply step that does nothing beyond the phantom read
// Implied() already performs.
func Nop(prev, cur *state.Registers, b bus.Bus) bool {
	return true
}

// ClearFlag, SetFlag build the Implied apply steps for CLC/CLI/CLV/CLD and
// SEC/SEI/SED.
func ClearFlag(mask uint8) state.MicroOp {
	return func(prev, cur *state.Registers, b bus.Bus) bool {
		cur.P &^= mask
		return true
	}
}

func SetFlag(mask uint8) state.MicroOp {
	return func(prev, cur *state.Registers, b bus.Bus) bool {
		cur.P |= mask
		return true
	}
}

// JMPAbsolute builds the 3-cycle unconditional absolute jump.
func JMPAbsolute() []state.MicroOp {
	return []state.MicroOp{
		func(prev, cur *state.Registers, b bus.Bus) bool {
			cur.OpAddr = uint16(b.Read(cur.PC))
			cur.PC++
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			hi := b.Read(cur.PC)
			cur.PC = uint16(hi)<<8 | cur.OpAddr
			return true
		},
	}
}

// BRA builds the WDC/Rockwell unconditional relative branch: same shape as
// a taken Branch but never checks a condition.
func BRA() []state.MicroOp {
	return Branch(func(*state.Registers) bool { return true })
}

// ZPIndirect implements the CMOS (d) addressing mode (no index register):
// fetch the zero page pointer, read its two bytes, then behave like any
// other Load/Store/RMW terminal sequence.
func ZPIndirect(kind Kind, apply state.MicroOp) []state.MicroOp {
	ops := []state.MicroOp{
		func(prev, cur *state.Registers, b bus.Bus) bool {
			cur.OpAddr = uint16(b.Read(cur.PC))
			cur.PC++
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			lo := b.Read(cur.OpAddr)
			cur.OpAddr = uint16(uint8(cur.OpAddr) + 1)
			cur.OpVal = lo
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			hi := b.Read(cur.OpAddr)
			cur.OpAddr = uint16(hi)<<8 | uint16(cur.OpVal)
			return false
		},
	}
	return append(ops, finishSingleByteAddr(kind, apply)...)
}
