package cpu

import "fmt"

// Variant selects which opcode decode table and instruction-set quirks a
// CPU runs with. Each value gets its own fully built pipeline table rather
// than branching per-instruction at runtime.
type Variant int

const (
	variantUnimplemented Variant = iota // zero value is deliberately invalid
	Nmos6502                            // full NMOS 6502 including the illegal opcode matrix and JAM opcodes
	Nmos6502Simple                      // NMOS 6502 with illegal opcodes treated as documented unstable NOPs, no JAM
	Wdc65C02                            // WDC 65C02: new instructions, fixed JMP (a) bug, unimplemented opcodes are 1-cycle NOP
	Rockwell65C02                       // like Wdc65C02 but WAI/STP decode as 1-cycle NOPs instead of halting
	variantMax
)

func (v Variant) String() string {
	switch v {
	case Nmos6502:
		return "Nmos6502"
	case Nmos6502Simple:
		return "Nmos6502Simple"
	case Wdc65C02:
		return "Wdc65C02"
	case Rockwell65C02:
		return "Rockwell65C02"
	default:
		return "Unknown"
	}
}

// InvalidVariant reports an unrecognized Variant passed to New.
type InvalidVariant struct {
	Variant Variant
}

func (e *InvalidVariant) Error() string {
	return fmt.Sprintf("invalid CPU variant: %d", e.Variant)
}

// PipelineOverrun reports a pipeline that failed to reach its terminal
// micro-op within Step's cycle bound, indicating a malformed table entry.
type PipelineOverrun struct {
	Cycles int
}

func (e *PipelineOverrun) Error() string {
	return fmt.Sprintf("pipeline did not terminate within %d cycles", e.Cycles)
}

// Options carries construction-time toggles that don't change the opcode
// table shape but do change instruction semantics.
type Options struct {
	// DecimalDisabled models the Ricoh 2A03/2A07 found in the NES: an NMOS
	// 6502 derivative where the D flag is stored and can be set/cleared
	// normally but ADC/SBC never honor it.
	DecimalDisabled bool
}

func (v Variant) isCMOS() bool {
	return v == Wdc65C02 || v == Rockwell65C02
}

func (v Variant) valid() bool {
	return v > variantUnimplemented && v < variantMax
}
