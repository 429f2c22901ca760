package microcode

import (
	"testing"

	"github.com/jmchacon6502fork/sixfiveohtwo/bus"
	"github.com/jmchacon6502fork/sixfiveohtwo/state"
)

func TestBrkPushesPcPlusTwoAndBSet(t *testing.T) {
	mem := bus.NewFlatMemory()
	mem.Write(state.IRQVector, 0x00)
	mem.Write(state.IRQVector+1, 0x04)
	cur := &state.Registers{PC: 0x0200, SP: 0xFF, P: state.FlagU}
	runOps(BRK(false), &state.Registers{}, cur, mem)
	if cur.PC != 0x0400 {
		t.Errorf("PC = %#04x, want 0x0400 (vectored)", cur.PC)
	}
	pushedP := mem.Peek(0x01FD)
	if pushedP&state.FlagB == 0 {
		t.Error("BRK must push P with B set")
	}
	pushedHi, pushedLo := mem.Peek(0x01FF), mem.Peek(0x01FE)
	ret := uint16(pushedHi)<<8 | uint16(pushedLo)
	if ret != 0x0201 {
		t.Errorf("pushed return address = %#04x, want 0x0201 (PC advanced past the discarded signature byte)", ret)
	}
	if cur.P&state.FlagI == 0 {
		t.Error("BRK must set I")
	}
}

func TestJamSetsStatus(t *testing.T) {
	mem := bus.NewFlatMemory()
	cur := &state.Registers{CurrentOpcode: 0x02}
	Jam(&state.Registers{}, cur, mem)
	if cur.Status != state.Jammed {
		t.Errorf("Status = %v, want Jammed", cur.Status)
	}
	if cur.HaltOpcode != 0x02 {
		t.Errorf("HaltOpcode = %#02x, want 0x02", cur.HaltOpcode)
	}
}

func TestTsbSetsBitsAndZReflectsPreClearAnd(t *testing.T) {
	mem := bus.NewFlatMemory()
	cur := &state.Registers{A: 0x0F, OpVal: 0xF0, OpAddr: 0x10}
	Tsb(&state.Registers{}, cur, mem)
	if cur.P&state.FlagZ == 0 {
		t.Error("Z should be set: A&OpVal is 0")
	}
	if got := mem.Peek(0x10); got != 0xFF {
		t.Errorf("mem[$10] = %#02x, want 0xFF (OR of A into the operand)", got)
	}
}

func TestTrbClearsBits(t *testing.T) {
	mem := bus.NewFlatMemory()
	cur := &state.Registers{A: 0x0F, OpVal: 0xFF, OpAddr: 0x10}
	Trb(&state.Registers{}, cur, mem)
	if got := mem.Peek(0x10); got != 0xF0 {
		t.Errorf("mem[$10] = %#02x, want 0xF0 (A's bits cleared)", got)
	}
}

func TestRmbSmb(t *testing.T) {
	mem := bus.NewFlatMemory()
	mem.Write(0x10, 0xFF)
	cur := &state.Registers{OpVal: 0xFF, OpAddr: 0x10}
	Rmb(3)(&state.Registers{}, cur, mem)
	if got := mem.Peek(0x10); got != 0xF7 {
		t.Errorf("mem[$10] = %#02x, want 0xF7 (bit 3 cleared)", got)
	}
	cur.OpVal = 0x00
	Smb(3)(&state.Registers{}, cur, mem)
	if got := mem.Peek(0x10); got != 0x08 {
		t.Errorf("mem[$10] = %#02x, want 0x08 (bit 3 set)", got)
	}
}

func TestBbrBranchesWhenBitClear(t *testing.T) {
	mem := bus.NewFlatMemory()
	mem.Write(0x0200, 0x10) // zero page operand address
	mem.Write(0x10, 0x00)   // bit 0 clear
	mem.Write(0x0201, 0x05) // relative offset
	cur := &state.Registers{PC: 0x0200}
	n := runOps(Bbr(0), &state.Registers{}, cur, mem)
	if n != 4 {
		t.Errorf("Bbr taken ran %d ops, want 4", n)
	}
	if cur.PC != 0x0207 {
		t.Errorf("PC = %#04x, want 0x0207", cur.PC)
	}
}

func TestBbrDoesNotBranchWhenBitSet(t *testing.T) {
	mem := bus.NewFlatMemory()
	mem.Write(0x0200, 0x10)
	mem.Write(0x10, 0x01) // bit 0 set
	mem.Write(0x0201, 0x05)
	cur := &state.Registers{PC: 0x0200}
	n := runOps(Bbr(0), &state.Registers{}, cur, mem)
	if n != 3 {
		t.Errorf("Bbr not taken ran %d ops, want 3", n)
	}
	if cur.PC != 0x0202 {
		t.Errorf("PC = %#04x, want 0x0202 (past the offset byte, no branch)", cur.PC)
	}
}
