package microcode

import (
	"testing"

	"github.com/jmchacon6502fork/sixfiveohtwo/bus"
	"github.com/jmchacon6502fork/sixfiveohtwo/state"
)

func TestPushDecrementsSP(t *testing.T) {
	mem := bus.NewFlatMemory()
	cur := &state.Registers{PC: 0x0200, SP: 0xFF, A: 0x42}
	n := runOps(Push(PHAVal), &state.Registers{}, cur, mem)
	if n != 2 {
		t.Errorf("Push ran %d ops, want 2", n)
	}
	if cur.SP != 0xFE {
		t.Errorf("SP = %#02x, want 0xFE", cur.SP)
	}
	if got := mem.Peek(0x01FF); got != 0x42 {
		t.Errorf("mem[$01FF] = %#02x, want 0x42", got)
	}
}

func TestPhpSetsBAndU(t *testing.T) {
	mem := bus.NewFlatMemory()
	cur := &state.Registers{PC: 0x0200, SP: 0xFF, P: 0}
	runOps(Push(PHPVal), &state.Registers{}, cur, mem)
	got := mem.Peek(0x01FF)
	if got&state.FlagU == 0 || got&state.FlagB == 0 {
		t.Errorf("pushed P = %#02x, want U and B both set", got)
	}
}

func TestPullIncrementsSP(t *testing.T) {
	mem := bus.NewFlatMemory()
	mem.Write(0x01FF, 0x77)
	cur := &state.Registers{PC: 0x0200, SP: 0xFE}
	n := runOps(Pull(PLAApply), &state.Registers{}, cur, mem)
	if n != 3 {
		t.Errorf("Pull ran %d ops, want 3", n)
	}
	if cur.SP != 0xFF {
		t.Errorf("SP = %#02x, want 0xFF", cur.SP)
	}
	if cur.A != 0x77 {
		t.Errorf("A = %#02x, want 0x77", cur.A)
	}
}

func TestPlpClearsBAndSetsU(t *testing.T) {
	mem := bus.NewFlatMemory()
	mem.Write(0x01FF, state.FlagB|state.FlagC)
	cur := &state.Registers{PC: 0x0200, SP: 0xFE}
	runOps(Pull(PLPApply), &state.Registers{}, cur, mem)
	if cur.P&state.FlagB != 0 {
		t.Error("PLP left B set, should always clear it in storage")
	}
	if cur.P&state.FlagU == 0 {
		t.Error("PLP did not synthesize U")
	}
	if cur.P&state.FlagC == 0 {
		t.Error("PLP lost a real flag")
	}
}

func TestJsrPushesPcMinusOneConvention(t *testing.T) {
	mem := bus.NewFlatMemory()
	mem.Write(0x0200, 0x10) // low byte of target
	mem.Write(0x0201, 0x03) // high byte, at PC+1 when JSR's second op runs
	cur := &state.Registers{PC: 0x0200, SP: 0xFF}
	runOps(JSR(), &state.Registers{}, cur, mem)
	if cur.PC != 0x0310 {
		t.Errorf("PC = %#04x, want 0x0310", cur.PC)
	}
	pushedHi := mem.Peek(0x01FF)
	pushedLo := mem.Peek(0x01FE)
	if pushedHi != 0x02 || pushedLo != 0x01 {
		t.Errorf("pushed return addr = %02x%02x, want 0x0201 (PC pointing at the high-byte fetch, not past it)", pushedHi, pushedLo)
	}
	if cur.SP != 0xFD {
		t.Errorf("SP = %#02x, want 0xFD", cur.SP)
	}
}

func TestJsrThenRtsRoundTrips(t *testing.T) {
	mem := bus.NewFlatMemory()
	mem.Write(0x0200, 0x10)
	mem.Write(0x0201, 0x03)
	cur := &state.Registers{PC: 0x0200, SP: 0xFF}
	runOps(JSR(), &state.Registers{}, cur, mem)
	if cur.PC != 0x0310 {
		t.Fatalf("PC after JSR = %#04x, want 0x0310", cur.PC)
	}
	runOps(RTS(), &state.Registers{}, cur, mem)
	if cur.PC != 0x0202 {
		t.Errorf("PC after RTS = %#04x, want 0x0202 (one past the JSR instruction)", cur.PC)
	}
	if cur.SP != 0xFF {
		t.Errorf("SP after RTS = %#02x, want 0xFF (restored)", cur.SP)
	}
}

func TestRtiDoesNotApplyRtsOffByOne(t *testing.T) {
	mem := bus.NewFlatMemory()
	cur := &state.Registers{PC: 0x0200, SP: 0xFC}
	mem.Write(0x01FD, state.FlagC) // P
	mem.Write(0x01FE, 0x00)        // PC lo
	mem.Write(0x01FF, 0x04)        // PC hi
	runOps(RTI(), &state.Registers{}, cur, mem)
	if cur.PC != 0x0400 {
		t.Errorf("PC = %#04x, want 0x0400 exactly (no trailing increment like RTS)", cur.PC)
	}
	if cur.P&state.FlagC == 0 {
		t.Error("RTI did not restore C")
	}
}
