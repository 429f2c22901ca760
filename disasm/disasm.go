// Package disasm implements a disassembler used by the compliance test
// harnesses to print a trace when a target program gets stuck.
package disasm

import (
	"fmt"

	"github.com/jmchacon6502fork/sixfiveohtwo/bus"
)

// mode identifies an instruction's addressing mode for byte-count and
// operand-formatting purposes. Unlike the execution engine's microcode
// builders, disassembly only needs to know how many operand bytes to
// print and how to format them.
type mode int

const (
	modeImplied mode = iota
	modeAccumulator
	modeImmediate
	modeZP
	modeZPX
	modeZPY
	modeIndirectX
	modeIndirectY
	modeIndirect
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeRelative
	modeZPRelative // BBRn/BBSn: zero page operand, then a relative offset
)

type entry struct {
	name string
	mode mode
}

var table = buildTable()

// Step disassembles the instruction at pc, returning its text and the
// number of bytes (including the opcode) it occupies. It does not follow
// control flow; a JMP simply disassembles as "JMP $addr".
func Step(pc uint16, b bus.Bus) (string, int) {
	op := b.Peek(pc)
	e := table[op]
	if e.name == "" {
		return fmt.Sprintf("??? ($%02X)", op), 1
	}
	b1 := b.Peek(pc + 1)
	b2 := b.Peek(pc + 2)

	switch e.mode {
	case modeImplied, modeAccumulator:
		return e.name, 1
	case modeImmediate:
		return fmt.Sprintf("%s #$%02X", e.name, b1), 2
	case modeZP:
		return fmt.Sprintf("%s $%02X", e.name, b1), 2
	case modeZPX:
		return fmt.Sprintf("%s $%02X,X", e.name, b1), 2
	case modeZPY:
		return fmt.Sprintf("%s $%02X,Y", e.name, b1), 2
	case modeIndirectX:
		return fmt.Sprintf("%s ($%02X,X)", e.name, b1), 2
	case modeIndirectY:
		return fmt.Sprintf("%s ($%02X),Y", e.name, b1), 2
	case modeRelative:
		target := uint16(int32(pc) + 2 + int32(int8(b1)))
		return fmt.Sprintf("%s $%04X", e.name, target), 2
	case modeZPRelative:
		target := uint16(int32(pc) + 3 + int32(int8(b2)))
		return fmt.Sprintf("%s $%02X,$%04X", e.name, b1, target), 3
	case modeAbsolute:
		addr := uint16(b2)<<8 | uint16(b1)
		return fmt.Sprintf("%s $%04X", e.name, addr), 3
	case modeAbsoluteX:
		addr := uint16(b2)<<8 | uint16(b1)
		return fmt.Sprintf("%s $%04X,X", e.name, addr), 3
	case modeAbsoluteY:
		addr := uint16(b2)<<8 | uint16(b1)
		return fmt.Sprintf("%s $%04X,Y", e.name, addr), 3
	case modeIndirect:
		addr := uint16(b2)<<8 | uint16(b1)
		return fmt.Sprintf("%s ($%04X)", e.name, addr), 3
	default:
		return fmt.Sprintf("??? ($%02X)", op), 1
	}
}

// buildTable assembles the 256 entry mnemonic/mode table once. Entries
// left at the zero value print as the catch-all "???" above; that's
// every NMOS illegal opcode disassembly doesn't bother distinguishing by
// name from a plain NOP, since the trace printer only needs byte counts
// to stay in sync, not documentation-grade illegal opcode names.
func buildTable() [256]entry {
	var t [256]entry
	set := func(op uint8, name string, m mode) { t[op] = entry{name, m} }

	set(0x00, "BRK", modeImplied)
	set(0x08, "PHP", modeImplied)
	set(0x28, "PLP", modeImplied)
	set(0x48, "PHA", modeImplied)
	set(0x68, "PLA", modeImplied)
	set(0x40, "RTI", modeImplied)
	set(0x60, "RTS", modeImplied)
	set(0x18, "CLC", modeImplied)
	set(0x38, "SEC", modeImplied)
	set(0x58, "CLI", modeImplied)
	set(0x78, "SEI", modeImplied)
	set(0xB8, "CLV", modeImplied)
	set(0xD8, "CLD", modeImplied)
	set(0xF8, "SED", modeImplied)
	set(0xEA, "NOP", modeImplied)
	set(0x88, "DEY", modeImplied)
	set(0xC8, "INY", modeImplied)
	set(0xCA, "DEX", modeImplied)
	set(0xE8, "INX", modeImplied)
	set(0x8A, "TXA", modeImplied)
	set(0x98, "TYA", modeImplied)
	set(0x9A, "TXS", modeImplied)
	set(0xA8, "TAY", modeImplied)
	set(0xAA, "TAX", modeImplied)
	set(0xBA, "TSX", modeImplied)
	set(0x5A, "PHY", modeImplied)
	set(0xDA, "PHX", modeImplied)
	set(0x7A, "PLY", modeImplied)
	set(0xFA, "PLX", modeImplied)
	set(0xCB, "WAI", modeImplied)
	set(0xDB, "STP", modeImplied)
	set(0x1A, "INC", modeAccumulator)
	set(0x3A, "DEC", modeAccumulator)

	set(0x0A, "ASL", modeAccumulator)
	set(0x2A, "ROL", modeAccumulator)
	set(0x4A, "LSR", modeAccumulator)
	set(0x6A, "ROR", modeAccumulator)

	type group struct {
		name             string
		imm, zp, zpx, zpy, izx, izy, abs, absx, absy uint16
	}
	na := uint16(0x100) // sentinel: no opcode for this addressing mode
	groups := []group{
		{"ORA", 0x09, 0x05, 0x15, na, 0x01, 0x11, 0x0D, 0x1D, 0x19},
		{"AND", 0x29, 0x25, 0x35, na, 0x21, 0x31, 0x2D, 0x3D, 0x39},
		{"EOR", 0x49, 0x45, 0x55, na, 0x41, 0x51, 0x4D, 0x5D, 0x59},
		{"ADC", 0x69, 0x65, 0x75, na, 0x61, 0x71, 0x6D, 0x7D, 0x79},
		{"SBC", 0xE9, 0xE5, 0xF5, na, 0xE1, 0xF1, 0xED, 0xFD, 0xF9},
		{"CMP", 0xC9, 0xC5, 0xD5, na, 0xC1, 0xD1, 0xCD, 0xDD, 0xD9},
		{"LDA", 0xA9, 0xA5, 0xB5, na, 0xA1, 0xB1, 0xAD, 0xBD, 0xB9},
		{"STA", na, 0x85, 0x95, na, 0x81, 0x91, 0x8D, 0x9D, 0x99},
		{"CPX", 0xE0, 0xE4, na, na, na, na, 0xEC, na, na},
		{"CPY", 0xC0, 0xC4, na, na, na, na, 0xCC, na, na},
		{"LDX", 0xA2, 0xA6, na, 0xB6, na, na, 0xAE, na, 0xBE},
		{"LDY", 0xA0, 0xA4, 0xB4, na, na, na, 0xAC, 0xBC, na},
		{"STX", na, 0x86, na, 0x96, na, na, 0x8E, na, na},
		{"STY", na, 0x84, 0x94, na, na, na, 0x8C, na, na},
		{"ASL", na, 0x06, 0x16, na, na, na, 0x0E, 0x1E, na},
		{"ROL", na, 0x26, 0x36, na, na, na, 0x2E, 0x3E, na},
		{"LSR", na, 0x46, 0x56, na, na, na, 0x4E, 0x5E, na},
		{"ROR", na, 0x66, 0x76, na, na, na, 0x6E, 0x7E, na},
		{"DEC", na, 0xC6, 0xD6, na, na, na, 0xCE, 0xDE, na},
		{"INC", na, 0xE6, 0xF6, na, na, na, 0xEE, 0xFE, na},
		{"BIT", 0x89, 0x24, 0x34, na, na, na, 0x2C, 0x3C, na},
		{"STZ", na, 0x64, 0x74, na, na, na, 0x9C, 0x9E, na},
		{"TSB", na, 0x04, na, na, na, na, 0x0C, na, na},
		{"TRB", na, 0x14, na, na, na, na, 0x1C, na, na},
	}
	for _, g := range groups {
		assign := func(op uint16, m mode) {
			if op != na {
				set(uint8(op), g.name, m)
			}
		}
		assign(g.imm, modeImmediate)
		assign(g.zp, modeZP)
		assign(g.zpx, modeZPX)
		assign(g.zpy, modeZPY)
		assign(g.izx, modeIndirectX)
		assign(g.izy, modeIndirectY)
		assign(g.abs, modeAbsolute)
		assign(g.absx, modeAbsoluteX)
		assign(g.absy, modeAbsoluteY)
	}

	set(0x4C, "JMP", modeAbsolute)
	set(0x6C, "JMP", modeIndirect)
	set(0x7C, "JMP", modeIndirectX) // (a,x) prints like an indexed indirect; close enough for a trace
	set(0x20, "JSR", modeAbsolute)

	branches := []struct {
		op   uint8
		name string
	}{
		{0x10, "BPL"}, {0x30, "BMI"}, {0x50, "BVC"}, {0x70, "BVS"},
		{0x90, "BCC"}, {0xB0, "BCS"}, {0xD0, "BNE"}, {0xF0, "BEQ"},
		{0x80, "BRA"},
	}
	for _, br := range branches {
		set(br.op, br.name, modeRelative)
	}

	for n := uint8(0); n < 8; n++ {
		set(0x07+n*0x10, fmt.Sprintf("RMB%d", n), modeZP)
		set(0x87+n*0x10, fmt.Sprintf("SMB%d", n), modeZP)
		set(0x0F+n*0x10, fmt.Sprintf("BBR%d", n), modeZPRelative)
		set(0x8F+n*0x10, fmt.Sprintf("BBS%d", n), modeZPRelative)
	}

	return t
}
