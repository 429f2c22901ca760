package microcode

import (
	"github.com/jmchacon6502fork/sixfiveohtwo/bus"
	"github.com/jmchacon6502fork/sixfiveohtwo/state"
)

// Every builder below returns the micro-ops that follow FetchOpcode for one
// addressing mode, parameterized by Kind and an apply primitive:
//
//   - Load: apply reads cur.OpVal and updates a register/flags. It is fused
//     into the same cycle as the final memory read, since on real silicon
//     the load happens combinationally off the same data-bus cycle.
//   - Store: apply writes the value to store to cur.OpAddr. It is its own
//     cycle, since the write is itself an observable bus access.
//   - RMW: the addressing sequence always reads the operand, writes it back
//     unmodified (the documented dummy cycle), and only then lets apply
//     compute and write the final value on its own cycle.

// ZeroPage implements d.
func ZeroPage(kind Kind, apply state.MicroOp) []state.MicroOp {
	ops := []state.MicroOp{
		func(prev, cur *state.Registers, b bus.Bus) bool {
			cur.OpAddr = uint16(b.Read(cur.PC))
			cur.PC++
			return false
		},
	}
	return append(ops, finishSingleByteAddr(kind, apply)...)
}

// ZeroPageX implements d,x.
func ZeroPageX(kind Kind, apply state.MicroOp) []state.MicroOp {
	return zeroPageIndexed(kind, apply, func(cur *state.Registers) uint8 { return cur.X })
}

// ZeroPageY implements d,y.
func ZeroPageY(kind Kind, apply state.MicroOp) []state.MicroOp {
	return zeroPageIndexed(kind, apply, func(cur *state.Registers) uint8 { return cur.Y })
}

func zeroPageIndexed(kind Kind, apply state.MicroOp, reg func(*state.Registers) uint8) []state.MicroOp {
	ops := []state.MicroOp{
		func(prev, cur *state.Registers, b bus.Bus) bool {
			cur.OpAddr = uint16(b.Read(cur.PC))
			cur.PC++
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(cur.OpAddr) // dummy read of the unindexed zero page address
			cur.OpAddr = uint16(uint8(cur.OpAddr) + reg(cur))
			return false
		},
	}
	return append(ops, finishSingleByteAddr(kind, apply)...)
}

// finishSingleByteAddr appends the terminal cycle(s) once OpAddr is final
// for a zero-page-family mode: Load reads+applies in one cycle, Store
// applies (a write) in its own cycle, RMW reads then dummy-writes then
// lets apply supply the final write.
func finishSingleByteAddr(kind Kind, apply state.MicroOp) []state.MicroOp {
	switch kind {
	case Store:
		return []state.MicroOp{apply}
	case RMW:
		return []state.MicroOp{
			func(prev, cur *state.Registers, b bus.Bus) bool {
				cur.OpVal = b.Read(cur.OpAddr)
				return false
			},
			func(prev, cur *state.Registers, b bus.Bus) bool {
				b.Write(cur.OpAddr, cur.OpVal)
				return false
			},
			apply,
		}
	default: // Load
		return []state.MicroOp{
			func(prev, cur *state.Registers, b bus.Bus) bool {
				cur.OpVal = b.Read(cur.OpAddr)
				apply(prev, cur, b)
				return true
			},
		}
	}
}

// Absolute implements a.
func Absolute(kind Kind, apply state.MicroOp) []state.MicroOp {
	ops := []state.MicroOp{
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
	}
	return append(ops, finishSingleByteAddr(kind, apply)...)
}

// AbsoluteX implements a,x.
func AbsoluteX(kind Kind, apply state.MicroOp) []state.MicroOp {
	return absoluteIndexed(kind, apply, func(cur *state.Registers) uint8 { return cur.X })
}

// AbsoluteY implements a,y.
func AbsoluteY(kind Kind, apply state.MicroOp) []state.MicroOp {
	return absoluteIndexed(kind, apply, func(cur *state.Registers) uint8 { return cur.Y })
}

func absoluteIndexed(kind Kind, apply state.MicroOp, reg func(*state.Registers) uint8) []state.MicroOp {
	ops := []state.MicroOp{
		func(prev, cur *state.Registers, b bus.Bus) bool {
			cur.OpAddr = uint16(b.Read(cur.PC))
			cur.PC++
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			hi := b.Read(cur.PC)
			cur.PC++
			base := uint16(hi)<<8 | cur.OpAddr
			wrong := (base & 0xFF00) | uint16(uint8(base)+reg(cur))
			cur.PageCrossed = wrong != base+uint16(reg(cur))
			cur.OpAddr = wrong
			return false
		},
	}
	switch kind {
	case Load:
		ops = append(ops,
			func(prev, cur *state.Registers, b bus.Bus) bool {
				v := b.Read(cur.OpAddr)
				if cur.PageCrossed {
					cur.OpAddr += 0x0100
					return false
				}
				cur.OpVal = v
				apply(prev, cur, b)
				return true
			},
			func(prev, cur *state.Registers, b bus.Bus) bool {
				cur.OpVal = b.Read(cur.OpAddr)
				apply(prev, cur, b)
				return true
			},
		)
	case Store:
		ops = append(ops,
			func(prev, cur *state.Registers, b bus.Bus) bool {
				_ = b.Read(cur.OpAddr) // always takes the extra cycle, page-cross or not
				if cur.PageCrossed {
					cur.OpAddr += 0x0100
				}
				return false
			},
			apply,
		)
	case RMW:
		ops = append(ops,
			func(prev, cur *state.Registers, b bus.Bus) bool {
				_ = b.Read(cur.OpAddr)
				if cur.PageCrossed {
					cur.OpAddr += 0x0100
				}
				return false
			},
			func(prev, cur *state.Registers, b bus.Bus) bool {
				cur.OpVal = b.Read(cur.OpAddr)
				return false
			},
			func(prev, cur *state.Registers, b bus.Bus) bool {
				b.Write(cur.OpAddr, cur.OpVal)
				return false
			},
			apply,
		)
	}
	return ops
}

// IndirectX implements (d,x).
func IndirectX(kind Kind, apply state.MicroOp) []state.MicroOp {
	ops := []state.MicroOp{
		func(prev, cur *state.Registers, b bus.Bus) bool {
			cur.OpAddr = uint16(b.Read(cur.PC))
			cur.PC++
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			_ = b.Read(cur.OpAddr) // dummy read of the unindexed pointer
			cur.OpAddr = uint16(uint8(cur.OpAddr) + cur.X)
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

// IndirectY implements (d),y.
func IndirectY(kind Kind, apply state.MicroOp) []state.MicroOp {
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
			base := uint16(hi)<<8 | uint16(cur.OpVal)
			wrong := (base & 0xFF00) | uint16(uint8(base)+cur.Y)
			cur.PageCrossed = wrong != base+uint16(cur.Y)
			cur.OpAddr = wrong
			return false
		},
	}
	switch kind {
	case Load:
		ops = append(ops,
			func(prev, cur *state.Registers, b bus.Bus) bool {
				v := b.Read(cur.OpAddr)
				if cur.PageCrossed {
					cur.OpAddr += 0x0100
					return false
				}
				cur.OpVal = v
				apply(prev, cur, b)
				return true
			},
			func(prev, cur *state.Registers, b bus.Bus) bool {
				cur.OpVal = b.Read(cur.OpAddr)
				apply(prev, cur, b)
				return true
			},
		)
	case Store:
		ops = append(ops,
			func(prev, cur *state.Registers, b bus.Bus) bool {
				_ = b.Read(cur.OpAddr)
				if cur.PageCrossed {
					cur.OpAddr += 0x0100
				}
				return false
			},
			apply,
		)
	case RMW:
		ops = append(ops,
			func(prev, cur *state.Registers, b bus.Bus) bool {
				_ = b.Read(cur.OpAddr)
				if cur.PageCrossed {
					cur.OpAddr += 0x0100
				}
				return false
			},
			func(prev, cur *state.Registers, b bus.Bus) bool {
				cur.OpVal = b.Read(cur.OpAddr)
				return false
			},
			func(prev, cur *state.Registers, b bus.Bus) bool {
				b.Write(cur.OpAddr, cur.OpVal)
				return false
			},
			apply,
		)
	}
	return ops
}

// Indirect implements JMP (a), including the NMOS page-wrap bug (the high
// byte is read from $xx00, not $(xx+1)00, when the pointer's low byte is
// $FF) and the WDC fix (reads the correct, possibly-crossing address and
// costs one extra cycle).
func Indirect(cmosFixed bool) []state.MicroOp {
	ops := []state.MicroOp{
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
	}
	if cmosFixed {
		ops = append(ops,
			func(prev, cur *state.Registers, b bus.Bus) bool {
				_ = b.Read(cur.OpAddr) // extra cycle WDC spends fixing the bug
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
		)
		return ops
	}
	ops = append(ops,
		func(prev, cur *state.Registers, b bus.Bus) bool {
			lo := b.Read(cur.OpAddr)
			cur.OpVal = lo
			return false
		},
		func(prev, cur *state.Registers, b bus.Bus) bool {
			// NMOS bug: wraps within the same page instead of crossing it.
			hiAddr := (cur.OpAddr & 0xFF00) | uint16(uint8(cur.OpAddr)+1)
			hi := b.Read(hiAddr)
			cur.PC = uint16(hi)<<8 | uint16(cur.OpVal)
			return true
		},
	)
	return ops
}
