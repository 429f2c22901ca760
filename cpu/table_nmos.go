package cpu

import (
	"github.com/jmchacon6502fork/sixfiveohtwo/microcode"
	"github.com/jmchacon6502fork/sixfiveohtwo/state"
)

// buildNMOSTable returns the 256 entry pipeline table for Nmos6502 or
// Nmos6502Simple. The full variant wires in the named illegal opcodes and
// the JAM opcodes that lock the bus; the simple variant instead treats
// every undocumented opcode as a NOP with its documented cycle count and
// never halts.
func buildNMOSTable(simple bool) [256][]state.MicroOp {
	common := commonTable()
	var table [256][]state.MicroOp
	for op, b := range common {
		table[op] = b(false)
	}

	if simple {
		fillUnstableNOPs(&table)
		return table
	}

	ld, st, rmw := microcode.Load, microcode.Store, microcode.RMW
	sbc := microcode.SBC(false)

	type entry struct {
		op   uint8
		pipe []state.MicroOp
	}
	illegal := []entry{
		// SLO
		{0x03, microcode.IndirectX(rmw, microcode.SLO)},
		{0x07, microcode.ZeroPage(rmw, microcode.SLO)},
		{0x0F, microcode.Absolute(rmw, microcode.SLO)},
		{0x13, microcode.IndirectY(rmw, microcode.SLO)},
		{0x17, microcode.ZeroPageX(rmw, microcode.SLO)},
		{0x1B, microcode.AbsoluteY(rmw, microcode.SLO)},
		{0x1F, microcode.AbsoluteX(rmw, microcode.SLO)},
		// RLA
		{0x23, microcode.IndirectX(rmw, microcode.RLA)},
		{0x27, microcode.ZeroPage(rmw, microcode.RLA)},
		{0x2F, microcode.Absolute(rmw, microcode.RLA)},
		{0x33, microcode.IndirectY(rmw, microcode.RLA)},
		{0x37, microcode.ZeroPageX(rmw, microcode.RLA)},
		{0x3B, microcode.AbsoluteY(rmw, microcode.RLA)},
		{0x3F, microcode.AbsoluteX(rmw, microcode.RLA)},
		// SRE
		{0x43, microcode.IndirectX(rmw, microcode.SRE)},
		{0x47, microcode.ZeroPage(rmw, microcode.SRE)},
		{0x4F, microcode.Absolute(rmw, microcode.SRE)},
		{0x53, microcode.IndirectY(rmw, microcode.SRE)},
		{0x57, microcode.ZeroPageX(rmw, microcode.SRE)},
		{0x5B, microcode.AbsoluteY(rmw, microcode.SRE)},
		{0x5F, microcode.AbsoluteX(rmw, microcode.SRE)},
		// RRA
		{0x63, microcode.IndirectX(rmw, microcode.RRA(false))},
		{0x67, microcode.ZeroPage(rmw, microcode.RRA(false))},
		{0x6F, microcode.Absolute(rmw, microcode.RRA(false))},
		{0x73, microcode.IndirectY(rmw, microcode.RRA(false))},
		{0x77, microcode.ZeroPageX(rmw, microcode.RRA(false))},
		{0x7B, microcode.AbsoluteY(rmw, microcode.RRA(false))},
		{0x7F, microcode.AbsoluteX(rmw, microcode.RRA(false))},
		// SAX
		{0x83, microcode.IndirectX(st, microcode.SAX)},
		{0x87, microcode.ZeroPage(st, microcode.SAX)},
		{0x8F, microcode.Absolute(st, microcode.SAX)},
		{0x97, microcode.ZeroPageY(st, microcode.SAX)},
		// LAX
		{0xA3, microcode.IndirectX(ld, microcode.LAX)},
		{0xA7, microcode.ZeroPage(ld, microcode.LAX)},
		{0xAF, microcode.Absolute(ld, microcode.LAX)},
		{0xB3, microcode.IndirectY(ld, microcode.LAX)},
		{0xB7, microcode.ZeroPageY(ld, microcode.LAX)},
		{0xBF, microcode.AbsoluteY(ld, microcode.LAX)},
		// DCP
		{0xC3, microcode.IndirectX(rmw, microcode.DCP)},
		{0xC7, microcode.ZeroPage(rmw, microcode.DCP)},
		{0xCF, microcode.Absolute(rmw, microcode.DCP)},
		{0xD3, microcode.IndirectY(rmw, microcode.DCP)},
		{0xD7, microcode.ZeroPageX(rmw, microcode.DCP)},
		{0xDB, microcode.AbsoluteY(rmw, microcode.DCP)},
		{0xDF, microcode.AbsoluteX(rmw, microcode.DCP)},
		// ISC
		{0xE3, microcode.IndirectX(rmw, microcode.ISC(false))},
		{0xE7, microcode.ZeroPage(rmw, microcode.ISC(false))},
		{0xEF, microcode.Absolute(rmw, microcode.ISC(false))},
		{0xF3, microcode.IndirectY(rmw, microcode.ISC(false))},
		{0xF7, microcode.ZeroPageX(rmw, microcode.ISC(false))},
		{0xFB, microcode.AbsoluteY(rmw, microcode.ISC(false))},
		{0xFF, microcode.AbsoluteX(rmw, microcode.ISC(false))},
		// Immediate-operand combined-ALU illegals
		{0x0B, microcode.Immediate(microcode.ANC)},
		{0x2B, microcode.Immediate(microcode.ANC)},
		{0x4B, microcode.Immediate(microcode.ALR)},
		{0x6B, microcode.Immediate(microcode.ARR)},
		{0x8B, microcode.Immediate(microcode.XAA)},
		{0xAB, microcode.Immediate(microcode.OAL)},
		{0xCB, microcode.Immediate(microcode.AXS)},
		{0xEB, microcode.Immediate(sbc)}, // SBC immediate with the same encoding as $E9
		// LAS, TAS, SHA/AHX, SHX, SHY
		{0xBB, microcode.AbsoluteY(ld, microcode.LAS)},
		{0x9B, microcode.AbsoluteY(st, microcode.TAS)},
		{0x93, microcode.IndirectY(st, microcode.SHA)},
		{0x9F, microcode.AbsoluteY(st, microcode.SHA)},
		{0x9E, microcode.AbsoluteY(st, microcode.SHX)},
		{0x9C, microcode.AbsoluteX(st, microcode.SHY)},
	}
	for _, e := range illegal {
		table[e.op] = e.pipe
	}

	jamOps := []uint8{
		0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2,
		0xD2, 0xF2,
	}
	for _, op := range jamOps {
		table[op] = []state.MicroOp{microcode.Jam}
	}

	fillDocumentedNOPs(&table)
	return table
}

// fillDocumentedNOPs installs the documented NMOS unstable NOPs that don't
// collide with named illegal opcodes above: single-byte 2-cycle NOPs,
// zero-page 3-cycle NOPs, zero-page,x 4-cycle NOPs, absolute 4-cycle NOPs,
// and absolute,x 4-or-5-cycle NOPs.
func fillDocumentedNOPs(table *[256][]state.MicroOp) {
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		table[op] = microcode.Implied(microcode.Nop)
	}
	for _, op := range []uint8{0x80, 0x82, 0xC2, 0xE2, 0x89} {
		table[op] = microcode.Immediate(microcode.Nop)
	}
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		table[op] = microcode.ZeroPage(microcode.Load, microcode.Nop)
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		table[op] = microcode.ZeroPageX(microcode.Load, microcode.Nop)
	}
	for _, op := range []uint8{0x0C} {
		table[op] = microcode.Absolute(microcode.Load, microcode.Nop)
	}
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		table[op] = microcode.AbsoluteX(microcode.Load, microcode.Nop)
	}
}

// fillUnstableNOPs is Nmos6502Simple's treatment of every opcode slot that
// the full variant wires to a named illegal or JAM: the addressing mode
// still runs (and still costs its documented cycles and bus reads), but
// the terminal step is a no-op instead of the real illegal semantics, and
// nothing ever halts.
func fillUnstableNOPs(table *[256][]state.MicroOp) {
	ld := microcode.Load
	type entry struct {
		op   uint8
		pipe []state.MicroOp
	}
	byAddr := []entry{
		{0x03, microcode.IndirectX(ld, microcode.Nop)},
		{0x07, microcode.ZeroPage(ld, microcode.Nop)},
		{0x0F, microcode.Absolute(ld, microcode.Nop)},
		{0x13, microcode.IndirectY(ld, microcode.Nop)},
		{0x17, microcode.ZeroPageX(ld, microcode.Nop)},
		{0x1B, microcode.AbsoluteY(ld, microcode.Nop)},
		{0x1F, microcode.AbsoluteX(ld, microcode.Nop)},
		{0x23, microcode.IndirectX(ld, microcode.Nop)},
		{0x27, microcode.ZeroPage(ld, microcode.Nop)},
		{0x2F, microcode.Absolute(ld, microcode.Nop)},
		{0x33, microcode.IndirectY(ld, microcode.Nop)},
		{0x37, microcode.ZeroPageX(ld, microcode.Nop)},
		{0x3B, microcode.AbsoluteY(ld, microcode.Nop)},
		{0x3F, microcode.AbsoluteX(ld, microcode.Nop)},
		{0x43, microcode.IndirectX(ld, microcode.Nop)},
		{0x47, microcode.ZeroPage(ld, microcode.Nop)},
		{0x4F, microcode.Absolute(ld, microcode.Nop)},
		{0x53, microcode.IndirectY(ld, microcode.Nop)},
		{0x57, microcode.ZeroPageX(ld, microcode.Nop)},
		{0x5B, microcode.AbsoluteY(ld, microcode.Nop)},
		{0x5F, microcode.AbsoluteX(ld, microcode.Nop)},
		{0x63, microcode.IndirectX(ld, microcode.Nop)},
		{0x67, microcode.ZeroPage(ld, microcode.Nop)},
		{0x6F, microcode.Absolute(ld, microcode.Nop)},
		{0x73, microcode.IndirectY(ld, microcode.Nop)},
		{0x77, microcode.ZeroPageX(ld, microcode.Nop)},
		{0x7B, microcode.AbsoluteY(ld, microcode.Nop)},
		{0x7F, microcode.AbsoluteX(ld, microcode.Nop)},
		{0x83, microcode.IndirectX(ld, microcode.Nop)},
		{0x87, microcode.ZeroPage(ld, microcode.Nop)},
		{0x8F, microcode.Absolute(ld, microcode.Nop)},
		{0x97, microcode.ZeroPageY(ld, microcode.Nop)},
		{0xA3, microcode.IndirectX(ld, microcode.Nop)},
		{0xA7, microcode.ZeroPage(ld, microcode.Nop)},
		{0xAF, microcode.Absolute(ld, microcode.Nop)},
		{0xB3, microcode.IndirectY(ld, microcode.Nop)},
		{0xB7, microcode.ZeroPageY(ld, microcode.Nop)},
		{0xBF, microcode.AbsoluteY(ld, microcode.Nop)},
		{0xC3, microcode.IndirectX(ld, microcode.Nop)},
		{0xC7, microcode.ZeroPage(ld, microcode.Nop)},
		{0xCF, microcode.Absolute(ld, microcode.Nop)},
		{0xD3, microcode.IndirectY(ld, microcode.Nop)},
		{0xD7, microcode.ZeroPageX(ld, microcode.Nop)},
		{0xDB, microcode.AbsoluteY(ld, microcode.Nop)},
		{0xDF, microcode.AbsoluteX(ld, microcode.Nop)},
		{0xE3, microcode.IndirectX(ld, microcode.Nop)},
		{0xE7, microcode.ZeroPage(ld, microcode.Nop)},
		{0xEF, microcode.Absolute(ld, microcode.Nop)},
		{0xF3, microcode.IndirectY(ld, microcode.Nop)},
		{0xF7, microcode.ZeroPageX(ld, microcode.Nop)},
		{0xFB, microcode.AbsoluteY(ld, microcode.Nop)},
		{0xFF, microcode.AbsoluteX(ld, microcode.Nop)},
		{0x0B, microcode.Immediate(microcode.Nop)},
		{0x2B, microcode.Immediate(microcode.Nop)},
		{0x4B, microcode.Immediate(microcode.Nop)},
		{0x6B, microcode.Immediate(microcode.Nop)},
		{0x8B, microcode.Immediate(microcode.Nop)},
		{0xAB, microcode.Immediate(microcode.Nop)},
		{0xCB, microcode.Immediate(microcode.Nop)},
		{0xEB, microcode.Immediate(microcode.Nop)},
		{0xBB, microcode.AbsoluteY(ld, microcode.Nop)},
		{0x9B, microcode.AbsoluteY(ld, microcode.Nop)},
		{0x93, microcode.IndirectY(ld, microcode.Nop)},
		{0x9F, microcode.AbsoluteY(ld, microcode.Nop)},
		{0x9E, microcode.AbsoluteY(ld, microcode.Nop)},
		{0x9C, microcode.AbsoluteX(ld, microcode.Nop)},
		{0x02, microcode.Immediate(microcode.Nop)},
		{0x12, microcode.Immediate(microcode.Nop)},
		{0x22, microcode.Immediate(microcode.Nop)},
		{0x32, microcode.Immediate(microcode.Nop)},
		{0x42, microcode.Immediate(microcode.Nop)},
		{0x52, microcode.Immediate(microcode.Nop)},
		{0x62, microcode.Immediate(microcode.Nop)},
		{0x72, microcode.Immediate(microcode.Nop)},
		{0x92, microcode.Immediate(microcode.Nop)},
		{0xB2, microcode.Immediate(microcode.Nop)},
		{0xD2, microcode.Immediate(microcode.Nop)},
		{0xF2, microcode.Immediate(microcode.Nop)},
	}
	for _, e := range byAddr {
		table[e.op] = e.pipe
	}
	fillDocumentedNOPs(table)
}
