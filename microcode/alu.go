package microcode

import (
	"github.com/jmchacon6502fork/sixfiveohtwo/bus"
	"github.com/jmchacon6502fork/sixfiveohtwo/state"
)

// ADC returns the apply primitive for ADC, threading the variant's decimal
// mode flag behavior: NMOS derives N/Z from the binary pre-correction
// result, CMOS re-derives N/Z from the corrected BCD result. Decimal mode
// costs no extra cycle on either variant; the addressing builders charge
// the same cycle count as in binary mode.
func ADC(cmosDecimalFixup bool) state.MicroOp {
	return func(prev, cur *state.Registers, b bus.Bus) bool {
		a, arg := cur.A, cur.OpVal
		carry := uint16(0)
		if cur.P&state.FlagC != 0 {
			carry = 1
		}
		if cur.P&state.FlagD != 0 && !cur.DecimalDisabled {
			res := bcdAdd(a, arg, uint8(carry))
			cur.SetV(a, arg, uint8(binaryAdd(a, arg, carry)))
			cur.A = res.sum
			setCarryBit(cur, uint8(res.carryOut))
			if cmosDecimalFixup {
				cur.SetZ(cur.A)
				cur.SetN(cur.A)
			} else {
				// NMOS leaves N/Z as derived from the binary sum, a
				// documented quirk: they can disagree with the decimal
				// result's sign/zero-ness.
				bin := binaryAdd(a, arg, carry)
				cur.SetZ(uint8(bin))
				cur.SetN(uint8(bin))
			}
			return true
		}
		sum := binaryAdd(a, arg, carry)
		cur.A = uint8(sum)
		cur.SetC(sum)
		cur.SetV(a, arg, cur.A)
		cur.SetZ(cur.A)
		cur.SetN(cur.A)
		return true
	}
}

// SBC mirrors ADC; 6502 SBC is ADC with the operand's ones complement.
func SBC(cmosDecimalFixup bool) state.MicroOp {
	return func(prev, cur *state.Registers, b bus.Bus) bool {
		a, arg := cur.A, cur.OpVal
		carry := uint16(0)
		if cur.P&state.FlagC != 0 {
			carry = 1
		}
		if cur.P&state.FlagD != 0 && !cur.DecimalDisabled {
			res := bcdSub(a, arg, uint8(carry))
			bin := binaryAdd(a, ^arg, carry)
			cur.SetV(a, ^arg, uint8(bin))
			cur.A = res.sum
			setCarryBit(cur, uint8(res.carryOut))
			if cmosDecimalFixup {
				cur.SetZ(cur.A)
				cur.SetN(cur.A)
			} else {
				cur.SetZ(uint8(bin))
				cur.SetN(uint8(bin))
			}
			return true
		}
		sum := binaryAdd(a, ^arg, carry)
		cur.A = uint8(sum)
		cur.SetC(sum)
		cur.SetV(a, ^arg, cur.A)
		cur.SetZ(cur.A)
		cur.SetN(cur.A)
		return true
	}
}

func binaryAdd(a, arg uint8, carry uint16) uint16 {
	return uint16(a) + uint16(arg) + carry
}

type bcdResult struct {
	sum      uint8
	carryOut uint16
}

// bcdAdd performs nibble-wise BCD addition with carry fixups, grounded on
// the standard 6502 decimal-adjust algorithm: add low nibbles, correct if
// >9, add high nibbles plus any nibble carry, correct if >9.
func bcdAdd(a, arg, carry uint8) bcdResult {
	lo := (a & 0x0F) + (arg & 0x0F) + carry
	var nibCarry uint8
	if lo > 0x09 {
		lo += 0x06
		nibCarry = 1
	}
	hi := (a >> 4) + (arg >> 4) + nibCarry
	var carryOut uint16
	if hi > 0x09 {
		hi += 0x06
		carryOut = 1
	}
	return bcdResult{sum: (hi << 4 & 0xF0) | (lo & 0x0F), carryOut: carryOut}
}

// bcdSub mirrors bcdAdd for subtraction with borrow.
func bcdSub(a, arg, carry uint8) bcdResult {
	lo := int8(a&0x0F) - int8(arg&0x0F) - int8(1-carry)
	var nibBorrow uint8
	if lo < 0 {
		lo -= 6
		nibBorrow = 1
	}
	hi := int8(a>>4) - int8(arg>>4) - int8(nibBorrow)
	carryOut := uint16(1)
	if hi < 0 {
		hi -= 6
		carryOut = 0
	}
	return bcdResult{sum: (uint8(hi) << 4 & 0xF0) | (uint8(lo) & 0x0F), carryOut: carryOut}
}

// AndAcc, OraAcc, EorAcc fold cur.OpVal into A.
func AndAcc(prev, cur *state.Registers, b bus.Bus) bool {
	cur.LoadZN(&cur.A, cur.A&cur.OpVal)
	return true
}

func OraAcc(prev, cur *state.Registers, b bus.Bus) bool {
	cur.LoadZN(&cur.A, cur.A|cur.OpVal)
	return true
}

func EorAcc(prev, cur *state.Registers, b bus.Bus) bool {
	cur.LoadZN(&cur.A, cur.A^cur.OpVal)
	return true
}

// BitAcc implements BIT: Z from A&val, N/V from bits 7/6 of val itself
// (not of the AND result).
func BitAcc(prev, cur *state.Registers, b bus.Bus) bool {
	cur.SetZ(cur.A & cur.OpVal)
	if cur.OpVal&0x80 != 0 {
		cur.P |= state.FlagN
	} else {
		cur.P &^= state.FlagN
	}
	if cur.OpVal&0x40 != 0 {
		cur.P |= state.FlagV
	} else {
		cur.P &^= state.FlagV
	}
	return true
}

// BitImmediate is BIT #i on 65C02: like BitAcc but skips the N/V update
// documented hardware never performs for the immediate form.
func BitImmediate(prev, cur *state.Registers, b bus.Bus) bool {
	cur.SetZ(cur.A & cur.OpVal)
	return true
}

func cmpReg(reg func(*state.Registers) uint8) state.MicroOp {
	return func(prev, cur *state.Registers, b bus.Bus) bool {
		r := reg(cur)
		res := uint16(r) - uint16(cur.OpVal)
		cur.SetZ(uint8(res))
		cur.SetN(uint8(res))
		if r >= cur.OpVal {
			cur.P |= state.FlagC
		} else {
			cur.P &^= state.FlagC
		}
		return true
	}
}

// CMP, CPX, CPY compare the named register against cur.OpVal.
var (
	CMP = cmpReg(func(r *state.Registers) uint8 { return r.A })
	CPX = cmpReg(func(r *state.Registers) uint8 { return r.X })
	CPY = cmpReg(func(r *state.Registers) uint8 { return r.Y })
)

// AslVal, LsrVal, RolVal, RorVal shift/rotate cur.OpVal and write the
// result back to cur.OpAddr; used as the RMW apply step for memory
// operands.
func AslVal(prev, cur *state.Registers, b bus.Bus) bool {
	res := uint16(cur.OpVal) << 1
	cur.SetC(res)
	cur.OpVal = uint8(res)
	cur.SetZ(cur.OpVal)
	cur.SetN(cur.OpVal)
	b.Write(cur.OpAddr, cur.OpVal)
	return true
}

func LsrVal(prev, cur *state.Registers, b bus.Bus) bool {
	carry := cur.OpVal & 0x01
	cur.OpVal >>= 1
	cur.SetZ(cur.OpVal)
	cur.SetN(cur.OpVal)
	setCarryBit(cur, carry)
	b.Write(cur.OpAddr, cur.OpVal)
	return true
}

func RolVal(prev, cur *state.Registers, b bus.Bus) bool {
	carryIn := uint8(0)
	if cur.P&state.FlagC != 0 {
		carryIn = 1
	}
	res := uint16(cur.OpVal)<<1 | uint16(carryIn)
	cur.SetC(res)
	cur.OpVal = uint8(res)
	cur.SetZ(cur.OpVal)
	cur.SetN(cur.OpVal)
	b.Write(cur.OpAddr, cur.OpVal)
	return true
}

func RorVal(prev, cur *state.Registers, b bus.Bus) bool {
	carryIn := uint8(0)
	if cur.P&state.FlagC != 0 {
		carryIn = 0x80
	}
	carryOut := cur.OpVal & 0x01
	cur.OpVal = (cur.OpVal >> 1) | carryIn
	cur.SetZ(cur.OpVal)
	cur.SetN(cur.OpVal)
	setCarryBit(cur, carryOut)
	b.Write(cur.OpAddr, cur.OpVal)
	return true
}

func setCarryBit(cur *state.Registers, bit uint8) {
	if bit != 0 {
		cur.P |= state.FlagC
	} else {
		cur.P &^= state.FlagC
	}
}

// AslAcc, LsrAcc, RolAcc, RorAcc are the accumulator forms: same math, no
// bus write, operating on cur.A.
func AslAcc(prev, cur *state.Registers, b bus.Bus) bool {
	res := uint16(cur.A) << 1
	cur.SetC(res)
	cur.LoadZN(&cur.A, uint8(res))
	return true
}

func LsrAcc(prev, cur *state.Registers, b bus.Bus) bool {
	carry := cur.A & 0x01
	cur.LoadZN(&cur.A, cur.A>>1)
	setCarryBit(cur, carry)
	return true
}

func RolAcc(prev, cur *state.Registers, b bus.Bus) bool {
	carryIn := uint8(0)
	if cur.P&state.FlagC != 0 {
		carryIn = 1
	}
	res := uint16(cur.A)<<1 | uint16(carryIn)
	cur.SetC(res)
	cur.LoadZN(&cur.A, uint8(res))
	return true
}

func RorAcc(prev, cur *state.Registers, b bus.Bus) bool {
	carryIn := uint8(0)
	if cur.P&state.FlagC != 0 {
		carryIn = 0x80
	}
	carryOut := cur.A & 0x01
	cur.LoadZN(&cur.A, (cur.A>>1)|carryIn)
	setCarryBit(cur, carryOut)
	return true
}

// IncVal, DecVal are the memory RMW apply steps for INC/DEC.
func IncVal(prev, cur *state.Registers, b bus.Bus) bool {
	cur.OpVal++
	cur.SetZ(cur.OpVal)
	cur.SetN(cur.OpVal)
	b.Write(cur.OpAddr, cur.OpVal)
	return true
}

func DecVal(prev, cur *state.Registers, b bus.Bus) bool {
	cur.OpVal--
	cur.SetZ(cur.OpVal)
	cur.SetN(cur.OpVal)
	b.Write(cur.OpAddr, cur.OpVal)
	return true
}

// RegField selects one architectural register out of cur for instructions
// (INX/DEY/transfers) that are generic across which register they touch.
type RegField func(*state.Registers) *uint8

var (
	RegA  RegField = func(r *state.Registers) *uint8 { return &r.A }
	RegX  RegField = func(r *state.Registers) *uint8 { return &r.X }
	RegY  RegField = func(r *state.Registers) *uint8 { return &r.Y }
	RegSP RegField = func(r *state.Registers) *uint8 { return &r.SP }
)

// IncReg, DecReg build the Implied apply steps for INX/INY/DEX/DEY.
func IncReg(reg RegField) state.MicroOp {
	return func(prev, cur *state.Registers, b bus.Bus) bool {
		p := reg(cur)
		*p++
		cur.SetZ(*p)
		cur.SetN(*p)
		return true
	}
}

func DecReg(reg RegField) state.MicroOp {
	return func(prev, cur *state.Registers, b bus.Bus) bool {
		p := reg(cur)
		*p--
		cur.SetZ(*p)
		cur.SetN(*p)
		return true
	}
}

// Transfer builds the apply step for T_ _ instructions: copy src into dst,
// update flags unless the destination is SP (TXS doesn't touch N/Z).
func Transfer(dst, src RegField, setFlags bool) state.MicroOp {
	return func(prev, cur *state.Registers, b bus.Bus) bool {
		d, s := dst(cur), src(cur)
		*d = *s
		if setFlags {
			cur.SetZ(*d)
			cur.SetN(*d)
		}
		return true
	}
}
