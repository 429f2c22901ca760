package state

// SetZ sets the Z flag iff val is zero.
func (r *Registers) SetZ(val uint8) {
	if val == 0 {
		r.P |= FlagZ
	} else {
		r.P &^= FlagZ
	}
}

// SetN sets the N flag to bit 7 of val.
func (r *Registers) SetN(val uint8) {
	if val&0x80 != 0 {
		r.P |= FlagN
	} else {
		r.P &^= FlagN
	}
}

// SetC sets the C flag iff an 8 bit ALU operation, represented here as a
// 16 bit result, carried out of bit 7 (i.e. produced a value >= 0x100).
// BCD math can legitimately produce a 9 bit intermediate above 0x1FF; the
// check still reduces to the same mask.
func (r *Registers) SetC(res uint16) {
	if res >= 0x100 {
		r.P |= FlagC
	} else {
		r.P &^= FlagC
	}
}

// SetV sets the V flag per the standard two's complement overflow check:
// the inputs agreed in sign and the result's sign differs from both.
func (r *Registers) SetV(a, arg, res uint8) {
	if (a^res)&(arg^res)&0x80 != 0 {
		r.P |= FlagV
	} else {
		r.P &^= FlagV
	}
}

// LoadZN stores val into *reg and updates Z/N from it. Used by every
// instruction that loads a register from an ALU result or memory.
func (r *Registers) LoadZN(reg *uint8, val uint8) {
	*reg = val
	r.SetZ(val)
	r.SetN(val)
}
