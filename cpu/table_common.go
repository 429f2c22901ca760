package cpu

import (
	"github.com/jmchacon6502fork/sixfiveohtwo/microcode"
	"github.com/jmchacon6502fork/sixfiveohtwo/state"
)

// build is one opcode's pipeline factory. cmos selects the CMOS behavior of
// decimal ADC/SBC (N/Z re-derived from the corrected BCD result) and of BRK
// (clears D); instructions unaffected by either ignore the argument.
type build func(cmos bool) []state.MicroOp

func flagCheck(mask uint8, want bool) func(*state.Registers) bool {
	return func(r *state.Registers) bool {
		return (r.P&mask != 0) == want
	}
}

// commonTable holds every opcode whose encoding and behavior is identical
// across NMOS and CMOS parts. Variant-specific tables start from a copy of
// this and overlay their own illegal/extension opcodes on top.
func commonTable() map[uint8]build {
	m := map[uint8]build{}
	ld := microcode.Load
	st := microcode.Store
	rmw := microcode.RMW

	m[0x00] = func(cmos bool) []state.MicroOp { return microcode.BRK(cmos) }
	m[0x01] = func(cmos bool) []state.MicroOp { return microcode.IndirectX(ld, microcode.OraAcc) }
	m[0x05] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(ld, microcode.OraAcc) }
	m[0x06] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(rmw, microcode.AslVal) }
	m[0x08] = func(cmos bool) []state.MicroOp { return microcode.Push(microcode.PHPVal) }
	m[0x09] = func(cmos bool) []state.MicroOp { return microcode.Immediate(microcode.OraAcc) }
	m[0x0A] = func(cmos bool) []state.MicroOp { return microcode.Accumulator(microcode.AslAcc) }
	m[0x0D] = func(cmos bool) []state.MicroOp { return microcode.Absolute(ld, microcode.OraAcc) }
	m[0x0E] = func(cmos bool) []state.MicroOp { return microcode.Absolute(rmw, microcode.AslVal) }
	m[0x10] = func(cmos bool) []state.MicroOp { return microcode.Branch(flagCheck(state.FlagN, false)) }
	m[0x11] = func(cmos bool) []state.MicroOp { return microcode.IndirectY(ld, microcode.OraAcc) }
	m[0x15] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageX(ld, microcode.OraAcc) }
	m[0x16] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageX(rmw, microcode.AslVal) }
	m[0x18] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.ClearFlag(state.FlagC)) }
	m[0x19] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteY(ld, microcode.OraAcc) }
	m[0x1D] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteX(ld, microcode.OraAcc) }
	m[0x1E] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteX(rmw, microcode.AslVal) }

	m[0x20] = func(cmos bool) []state.MicroOp { return microcode.JSR() }
	m[0x21] = func(cmos bool) []state.MicroOp { return microcode.IndirectX(ld, microcode.AndAcc) }
	m[0x24] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(ld, microcode.BitAcc) }
	m[0x25] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(ld, microcode.AndAcc) }
	m[0x26] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(rmw, microcode.RolVal) }
	m[0x28] = func(cmos bool) []state.MicroOp { return microcode.Pull(microcode.PLPApply) }
	m[0x29] = func(cmos bool) []state.MicroOp { return microcode.Immediate(microcode.AndAcc) }
	m[0x2A] = func(cmos bool) []state.MicroOp { return microcode.Accumulator(microcode.RolAcc) }
	m[0x2C] = func(cmos bool) []state.MicroOp { return microcode.Absolute(ld, microcode.BitAcc) }
	m[0x2D] = func(cmos bool) []state.MicroOp { return microcode.Absolute(ld, microcode.AndAcc) }
	m[0x2E] = func(cmos bool) []state.MicroOp { return microcode.Absolute(rmw, microcode.RolVal) }
	m[0x30] = func(cmos bool) []state.MicroOp { return microcode.Branch(flagCheck(state.FlagN, true)) }
	m[0x31] = func(cmos bool) []state.MicroOp { return microcode.IndirectY(ld, microcode.AndAcc) }
	m[0x35] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageX(ld, microcode.AndAcc) }
	m[0x36] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageX(rmw, microcode.RolVal) }
	m[0x38] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.SetFlag(state.FlagC)) }
	m[0x39] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteY(ld, microcode.AndAcc) }
	m[0x3D] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteX(ld, microcode.AndAcc) }
	m[0x3E] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteX(rmw, microcode.RolVal) }

	m[0x40] = func(cmos bool) []state.MicroOp { return microcode.RTI() }
	m[0x41] = func(cmos bool) []state.MicroOp { return microcode.IndirectX(ld, microcode.EorAcc) }
	m[0x45] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(ld, microcode.EorAcc) }
	m[0x46] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(rmw, microcode.LsrVal) }
	m[0x48] = func(cmos bool) []state.MicroOp { return microcode.Push(microcode.PHAVal) }
	m[0x49] = func(cmos bool) []state.MicroOp { return microcode.Immediate(microcode.EorAcc) }
	m[0x4A] = func(cmos bool) []state.MicroOp { return microcode.Accumulator(microcode.LsrAcc) }
	m[0x4C] = func(cmos bool) []state.MicroOp { return microcode.JMPAbsolute() }
	m[0x4D] = func(cmos bool) []state.MicroOp { return microcode.Absolute(ld, microcode.EorAcc) }
	m[0x4E] = func(cmos bool) []state.MicroOp { return microcode.Absolute(rmw, microcode.LsrVal) }
	m[0x50] = func(cmos bool) []state.MicroOp { return microcode.Branch(flagCheck(state.FlagV, false)) }
	m[0x51] = func(cmos bool) []state.MicroOp { return microcode.IndirectY(ld, microcode.EorAcc) }
	m[0x55] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageX(ld, microcode.EorAcc) }
	m[0x56] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageX(rmw, microcode.LsrVal) }
	m[0x58] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.ClearFlag(state.FlagI)) }
	m[0x59] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteY(ld, microcode.EorAcc) }
	m[0x5D] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteX(ld, microcode.EorAcc) }
	m[0x5E] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteX(rmw, microcode.LsrVal) }

	m[0x60] = func(cmos bool) []state.MicroOp { return microcode.RTS() }
	m[0x61] = func(cmos bool) []state.MicroOp { return microcode.IndirectX(ld, microcode.ADC(cmos)) }
	m[0x65] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(ld, microcode.ADC(cmos)) }
	m[0x66] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(rmw, microcode.RorVal) }
	m[0x68] = func(cmos bool) []state.MicroOp { return microcode.Pull(microcode.PLAApply) }
	m[0x69] = func(cmos bool) []state.MicroOp { return microcode.Immediate(microcode.ADC(cmos)) }
	m[0x6A] = func(cmos bool) []state.MicroOp { return microcode.Accumulator(microcode.RorAcc) }
	m[0x6C] = func(cmos bool) []state.MicroOp { return microcode.Indirect(false) } // NMOS bug; CMOS overlay replaces this entry
	m[0x6D] = func(cmos bool) []state.MicroOp { return microcode.Absolute(ld, microcode.ADC(cmos)) }
	m[0x6E] = func(cmos bool) []state.MicroOp { return microcode.Absolute(rmw, microcode.RorVal) }
	m[0x70] = func(cmos bool) []state.MicroOp { return microcode.Branch(flagCheck(state.FlagV, true)) }
	m[0x71] = func(cmos bool) []state.MicroOp { return microcode.IndirectY(ld, microcode.ADC(cmos)) }
	m[0x75] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageX(ld, microcode.ADC(cmos)) }
	m[0x76] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageX(rmw, microcode.RorVal) }
	m[0x78] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.SetFlag(state.FlagI)) }
	m[0x79] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteY(ld, microcode.ADC(cmos)) }
	m[0x7D] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteX(ld, microcode.ADC(cmos)) }
	m[0x7E] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteX(rmw, microcode.RorVal) }

	m[0x81] = func(cmos bool) []state.MicroOp { return microcode.IndirectX(st, microcode.StoreA) }
	m[0x84] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(st, microcode.StoreY) }
	m[0x85] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(st, microcode.StoreA) }
	m[0x86] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(st, microcode.StoreX) }
	m[0x88] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.DecReg(microcode.RegY)) }
	m[0x8A] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.Transfer(microcode.RegA, microcode.RegX, true)) }
	m[0x8C] = func(cmos bool) []state.MicroOp { return microcode.Absolute(st, microcode.StoreY) }
	m[0x8D] = func(cmos bool) []state.MicroOp { return microcode.Absolute(st, microcode.StoreA) }
	m[0x8E] = func(cmos bool) []state.MicroOp { return microcode.Absolute(st, microcode.StoreX) }
	m[0x90] = func(cmos bool) []state.MicroOp { return microcode.Branch(flagCheck(state.FlagC, false)) }
	m[0x91] = func(cmos bool) []state.MicroOp { return microcode.IndirectY(st, microcode.StoreA) }
	m[0x94] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageX(st, microcode.StoreY) }
	m[0x95] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageX(st, microcode.StoreA) }
	m[0x96] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageY(st, microcode.StoreX) }
	m[0x98] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.Transfer(microcode.RegA, microcode.RegY, true)) }
	m[0x99] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteY(st, microcode.StoreA) }
	m[0x9A] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.Transfer(microcode.RegSP, microcode.RegX, false)) }
	m[0x9D] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteX(st, microcode.StoreA) }

	m[0xA0] = func(cmos bool) []state.MicroOp { return microcode.Immediate(microcode.LoadY) }
	m[0xA1] = func(cmos bool) []state.MicroOp { return microcode.IndirectX(ld, microcode.LoadA) }
	m[0xA2] = func(cmos bool) []state.MicroOp { return microcode.Immediate(microcode.LoadX) }
	m[0xA4] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(ld, microcode.LoadY) }
	m[0xA5] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(ld, microcode.LoadA) }
	m[0xA6] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(ld, microcode.LoadX) }
	m[0xA8] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.Transfer(microcode.RegY, microcode.RegA, true)) }
	m[0xA9] = func(cmos bool) []state.MicroOp { return microcode.Immediate(microcode.LoadA) }
	m[0xAA] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.Transfer(microcode.RegX, microcode.RegA, true)) }
	m[0xAC] = func(cmos bool) []state.MicroOp { return microcode.Absolute(ld, microcode.LoadY) }
	m[0xAD] = func(cmos bool) []state.MicroOp { return microcode.Absolute(ld, microcode.LoadA) }
	m[0xAE] = func(cmos bool) []state.MicroOp { return microcode.Absolute(ld, microcode.LoadX) }
	m[0xB0] = func(cmos bool) []state.MicroOp { return microcode.Branch(flagCheck(state.FlagC, true)) }
	m[0xB1] = func(cmos bool) []state.MicroOp { return microcode.IndirectY(ld, microcode.LoadA) }
	m[0xB4] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageX(ld, microcode.LoadY) }
	m[0xB5] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageX(ld, microcode.LoadA) }
	m[0xB6] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageY(ld, microcode.LoadX) }
	m[0xB8] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.ClearFlag(state.FlagV)) }
	m[0xB9] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteY(ld, microcode.LoadA) }
	m[0xBA] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.Transfer(microcode.RegX, microcode.RegSP, true)) }
	m[0xBC] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteX(ld, microcode.LoadY) }
	m[0xBD] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteX(ld, microcode.LoadA) }
	m[0xBE] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteY(ld, microcode.LoadX) }

	m[0xC0] = func(cmos bool) []state.MicroOp { return microcode.Immediate(microcode.CPY) }
	m[0xC1] = func(cmos bool) []state.MicroOp { return microcode.IndirectX(ld, microcode.CMP) }
	m[0xC4] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(ld, microcode.CPY) }
	m[0xC5] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(ld, microcode.CMP) }
	m[0xC6] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(rmw, microcode.DecVal) }
	m[0xC8] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.IncReg(microcode.RegY)) }
	m[0xC9] = func(cmos bool) []state.MicroOp { return microcode.Immediate(microcode.CMP) }
	m[0xCA] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.DecReg(microcode.RegX)) }
	m[0xCC] = func(cmos bool) []state.MicroOp { return microcode.Absolute(ld, microcode.CPY) }
	m[0xCD] = func(cmos bool) []state.MicroOp { return microcode.Absolute(ld, microcode.CMP) }
	m[0xCE] = func(cmos bool) []state.MicroOp { return microcode.Absolute(rmw, microcode.DecVal) }
	m[0xD0] = func(cmos bool) []state.MicroOp { return microcode.Branch(flagCheck(state.FlagZ, false)) }
	m[0xD1] = func(cmos bool) []state.MicroOp { return microcode.IndirectY(ld, microcode.CMP) }
	m[0xD5] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageX(ld, microcode.CMP) }
	m[0xD6] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageX(rmw, microcode.DecVal) }
	m[0xD8] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.ClearFlag(state.FlagD)) }
	m[0xD9] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteY(ld, microcode.CMP) }
	m[0xDD] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteX(ld, microcode.CMP) }
	m[0xDE] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteX(rmw, microcode.DecVal) }

	m[0xE0] = func(cmos bool) []state.MicroOp { return microcode.Immediate(microcode.CPX) }
	m[0xE1] = func(cmos bool) []state.MicroOp { return microcode.IndirectX(ld, microcode.SBC(cmos)) }
	m[0xE4] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(ld, microcode.CPX) }
	m[0xE5] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(ld, microcode.SBC(cmos)) }
	m[0xE6] = func(cmos bool) []state.MicroOp { return microcode.ZeroPage(rmw, microcode.IncVal) }
	m[0xE8] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.IncReg(microcode.RegX)) }
	m[0xE9] = func(cmos bool) []state.MicroOp { return microcode.Immediate(microcode.SBC(cmos)) }
	m[0xEA] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.Nop) }
	m[0xEC] = func(cmos bool) []state.MicroOp { return microcode.Absolute(ld, microcode.CPX) }
	m[0xED] = func(cmos bool) []state.MicroOp { return microcode.Absolute(ld, microcode.SBC(cmos)) }
	m[0xEE] = func(cmos bool) []state.MicroOp { return microcode.Absolute(rmw, microcode.IncVal) }
	m[0xF0] = func(cmos bool) []state.MicroOp { return microcode.Branch(flagCheck(state.FlagZ, true)) }
	m[0xF1] = func(cmos bool) []state.MicroOp { return microcode.IndirectY(ld, microcode.SBC(cmos)) }
	m[0xF5] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageX(ld, microcode.SBC(cmos)) }
	m[0xF6] = func(cmos bool) []state.MicroOp { return microcode.ZeroPageX(rmw, microcode.IncVal) }
	m[0xF8] = func(cmos bool) []state.MicroOp { return microcode.Implied(microcode.SetFlag(state.FlagD)) }
	m[0xF9] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteY(ld, microcode.SBC(cmos)) }
	m[0xFD] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteX(ld, microcode.SBC(cmos)) }
	m[0xFE] = func(cmos bool) []state.MicroOp { return microcode.AbsoluteX(rmw, microcode.IncVal) }

	return m
}
