package microcode

import (
	"github.com/jmchacon6502fork/sixfiveohtwo/bus"
	"github.com/jmchacon6502fork/sixfiveohtwo/state"
)

// BRK builds the software-interrupt pipeline: unlike a hardware IRQ/NMI, it
// reads (and discards) a signature byte after the opcode, pushes PC+2 and
// P with B set, then services the IRQ vector like a real interrupt. On CMOS,
// servicing also clears D.
func BRK(cmos bool) []state.MicroOp {
	return []state.MicroOp{
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(cur.PC) // signature byte, discarded
			cur.PC++
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
			b.Write(0x0100|uint16(cur.SP), cur.P|state.FlagU|state.FlagB)
			cur.SP--
			cur.P |= state.FlagI
			if cmos {
				cur.P &^= state.FlagD
			}
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			lo := b.Read(state.IRQVector)
			cur.OpVal = lo
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			hi := b.Read(state.IRQVector + 1)
			cur.PC = uint16(hi)<<8 | uint16(cur.OpVal)
			return true
		},
	}
}

// Jam halts the core permanently (until Reset) on an NMOS illegal opcode
// that locks the bus.
func Jam(prev, cur *state.Registers, b bus.Bus) bool {
	cur.Status = state.Jammed
	cur.HaltOpcode = cur.CurrentOpcode
	return true
}

// Stp implements WDC/Rockwell STP: halt until Reset.
func Stp(prev, cur *state.Registers, b bus.Bus) bool {
	cur.Status = state.Stopped
	return true
}

// Wai implements WDC/Rockwell WAI: suspend until an interrupt (including a
// masked IRQ) is latched; the caller's HandlePendingInterrupt resumes it.
func Wai(prev, cur *state.Registers, b bus.Bus) bool {
	cur.Status = state.Waiting
	return true
}

// Stz writes zero to cur.OpAddr; the WDC/Rockwell STZ apply step.
func Stz(prev, cur *state.Registers, b bus.Bus) bool {
	b.Write(cur.OpAddr, 0)
	return true
}

// Trb clears the bits of cur.OpAddr's byte that are set in A, Z reflects
// the pre-clear AND like BIT.
func Trb(prev, cur *state.Registers, b bus.Bus) bool {
	cur.SetZ(cur.A & cur.OpVal)
	b.Write(cur.OpAddr, cur.OpVal&^cur.A)
	return true
}

// Tsb sets the bits of cur.OpAddr's byte that are set in A, same Z rule.
func Tsb(prev, cur *state.Registers, b bus.Bus) bool {
	cur.SetZ(cur.A & cur.OpVal)
	b.Write(cur.OpAddr, cur.OpVal|cur.A)
	return true
}

// Rmb clears bit n of cur.OpAddr's byte.
func Rmb(n uint8) state.MicroOp {
	mask := ^(uint8(1) << n)
	return func(prev, cur *state.Registers, b bus.Bus) bool {
		b.Write(cur.OpAddr, cur.OpVal&mask)
		return true
	}
}

// Smb sets bit n of cur.OpAddr's byte.
func Smb(n uint8) state.MicroOp {
	mask := uint8(1) << n
	return func(prev, cur *state.Registers, b bus.Bus) bool {
		b.Write(cur.OpAddr, cur.OpVal|mask)
		return true
	}
}

// Bbr builds the BBRn zero-page-then-relative-branch pipeline: test bit n
// of the zero page operand, branch if clear.
func Bbr(n uint8) []state.MicroOp {
	return bitBranch(n, false)
}

// Bbs mirrors Bbr, branching if the bit is set.
func Bbs(n uint8) []state.MicroOp {
	return bitBranch(n, true)
}

func bitBranch(n uint8, wantSet bool) []state.MicroOp {
	mask := uint8(1) << n
	return []state.MicroOp{
		func(prev, cur *state.Registers, b bus.Bus) bool {
			cur.OpAddr = uint16(b.Read(cur.PC))
			cur.PC++
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			cur.OpVal = b.Read(cur.OpAddr)
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			offset := b.Read(cur.PC)
			cur.PC++
			bitSet := cur.OpVal&mask != 0
			if bitSet != wantSet {
				return true
			}
			cur.OpVal = offset
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(cur.PC)
			cur.PC = uint16(int32(cur.PC) + int32(int8(cur.OpVal)))
			return true
		},
	}
}
