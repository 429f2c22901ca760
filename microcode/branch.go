package microcode

import (
	"github.com/jmchacon6502fork/sixfiveohtwo/bus"
	"github.com/jmchacon6502fork/sixfiveohtwo/state"
)

// Branch builds the pipeline for a relative branch instruction: fetch the
// offset (always 2 cycles minimum), then if taken spend a third cycle
// computing the new PC, and a fourth if that crossed a page. A taken
// branch also sets SkipInterrupt, the documented quirk that delays
// interrupt servicing by one more instruction.
func Branch(taken func(*state.Registers) bool) []state.MicroOp {
	return []state.MicroOp{
		func(prev, cur *state.Registers, b bus.Bus) bool {
			cur.OpVal = b.Read(cur.PC)
			cur.PC++
			if !taken(cur) {
				return true
			}
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(cur.PC) // internal cycle, PC not yet updated
			offset := int8(cur.OpVal)
			base := cur.PC
			target := uint16(int32(base) + int32(offset))
			cur.PageCrossed = (base & 0xFF00) != (target & 0xFF00)
			cur.OpAddr = target
			cur.SkipInterrupt = true
			if !cur.PageCrossed {
				cur.PC = target
				return true
			}
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(cur.PC) // internal cycle spent fixing the page
			cur.PC = cur.OpAddr
			return true
		},
	}
}
