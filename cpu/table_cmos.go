package cpu

import (
	"github.com/jmchacon6502fork/sixfiveohtwo/bus"
	"github.com/jmchacon6502fork/sixfiveohtwo/microcode"
	"github.com/jmchacon6502fork/sixfiveohtwo/state"
)

// buildCMOSTable returns the 256 entry pipeline table for Wdc65C02 or
// Rockwell65C02. Both start from the shared legal opcode set (with the
// NMOS JMP (a) bug fixed and decimal ADC/SBC re-deriving N/Z from the
// corrected BCD result; decimal mode adds no extra cycle), add the
// WDC-introduced instructions, and fill every
// still-unimplemented slot with a 1-cycle NOP. The two variants differ
// only in how $CB/$DB decode.
func buildCMOSTable(rockwell bool) [256][]state.MicroOp {
	common := commonTable()
	var table [256][]state.MicroOp
	for op, b := range common {
		table[op] = b(true)
	}
	table[0x6C] = microcode.Indirect(true) // WDC fixed the page-wrap bug

	ld, st, rmw := microcode.Load, microcode.Store, microcode.RMW

	table[0x04] = microcode.ZeroPage(rmw, microcode.Tsb)
	table[0x0C] = microcode.Absolute(rmw, microcode.Tsb)
	table[0x14] = microcode.ZeroPage(rmw, microcode.Trb)
	table[0x1C] = microcode.Absolute(rmw, microcode.Trb)

	table[0x64] = microcode.ZeroPage(st, microcode.Stz)
	table[0x74] = microcode.ZeroPageX(st, microcode.Stz)
	table[0x9C] = microcode.Absolute(st, microcode.Stz)
	table[0x9E] = microcode.AbsoluteX(st, microcode.Stz)

	table[0x12] = microcode.ZPIndirect(ld, microcode.OraAcc)
	table[0x32] = microcode.ZPIndirect(ld, microcode.AndAcc)
	table[0x52] = microcode.ZPIndirect(ld, microcode.EorAcc)
	table[0x72] = microcode.ZPIndirect(ld, microcode.ADC(true))
	table[0x92] = microcode.ZPIndirect(st, microcode.StoreA)
	table[0xB2] = microcode.ZPIndirect(ld, microcode.LoadA)
	table[0xD2] = microcode.ZPIndirect(ld, microcode.CMP)
	table[0xF2] = microcode.ZPIndirect(ld, microcode.SBC(true))

	table[0x89] = microcode.Immediate(microcode.BitImmediate)
	table[0x34] = microcode.ZeroPageX(ld, microcode.BitAcc)
	table[0x3C] = microcode.AbsoluteX(ld, microcode.BitAcc)

	table[0x7C] = cmosJmpAbsX()
	table[0x80] = microcode.BRA()

	table[0x1A] = microcode.Accumulator(microcode.IncReg(microcode.RegA))
	table[0x3A] = microcode.Accumulator(microcode.DecReg(microcode.RegA))

	table[0x5A] = microcode.Push(microcode.PHYVal)
	table[0xDA] = microcode.Push(microcode.PHXVal)
	table[0x7A] = microcode.Pull(microcode.PLYApply)
	table[0xFA] = microcode.Pull(microcode.PLXApply)

	for n := uint8(0); n < 8; n++ {
		table[0x07+n*0x10] = microcode.ZeroPage(rmw, microcode.Rmb(n))
		table[0x87+n*0x10] = microcode.ZeroPage(rmw, microcode.Smb(n))
		table[0x0F+n*0x10] = microcode.Bbr(n)
		table[0x8F+n*0x10] = microcode.Bbs(n)
	}

	if rockwell {
		// Empty op lists: the opcode fetch is the whole 1-cycle NOP.
		table[0xCB] = []state.MicroOp{}
		table[0xDB] = []state.MicroOp{}
	} else {
		table[0xCB] = []state.MicroOp{microcode.Wai}
		table[0xDB] = []state.MicroOp{microcode.Stp}
	}

	fillSingleByteReservedNOPs(&table)
	fillCMOSReservedNOPs(&table)
	return table
}

// fillSingleByteReservedNOPs marks the $x3/$xB reserved columns as true
// 1-cycle NOPs (the fetch cycle is the whole instruction), matching the
// WDC datasheet's reserved-opcode table. $CB/$DB are excluded since they
// decode to WAI/STP (or their Rockwell NOP substitutes) instead.
func fillSingleByteReservedNOPs(table *[256][]state.MicroOp) {
	for n := 0; n < 16; n++ {
		for _, col := range [2]uint8{0x03, 0x0B} {
			op := uint8(n)<<4 | col
			if table[op] == nil {
				table[op] = []state.MicroOp{}
			}
		}
	}
}

// cmosJmpAbsX is JMP (a,x): read the base pointer, add X (with a spent
// internal cycle, no actual page-cross penalty since the add is always
// done before the final reads), then read the two target bytes. 6 cycles.
func cmosJmpAbsX() []state.MicroOp {
	return []state.MicroOp{
		func(prev, cur *state.Registers, b bus.Bus) bool {
			cur.OpAddr = uint16(b.Read(cur.PC))
			cur.PC++
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			hi := b.Read(cur.PC)
			cur.PC++
			cur.OpAddr |= uint16(hi) << 8
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(cur.OpAddr) // internal cycle spent adding X
			cur.OpAddr += uint16(cur.X)
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			lo := b.Read(cur.OpAddr)
			cur.OpVal = lo
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			hi := b.Read(cur.OpAddr + 1)
			cur.PC = uint16(hi)<<8 | uint16(cur.OpVal)
			return true
		},
	}
}

// fillCMOSReservedNOPs fills every opcode slot still unimplemented after
// fillSingleByteReservedNOPs with the same 1-cycle NOP: an empty op list,
// so the opcode fetch is the whole instruction.
func fillCMOSReservedNOPs(table *[256][]state.MicroOp) {
	for op := range table {
		if table[op] == nil {
			table[op] = []state.MicroOp{}
		}
	}
}
