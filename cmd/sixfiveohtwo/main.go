// Command sixfiveohtwo loads a flat binary image into a FlatMemory bus and
// runs it, printing Dormann-style stuck-PC diagnostics if execution wedges.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jmchacon6502fork/sixfiveohtwo/bus"
	"github.com/jmchacon6502fork/sixfiveohtwo/cpu"
	"github.com/jmchacon6502fork/sixfiveohtwo/disasm"
	"github.com/jmchacon6502fork/sixfiveohtwo/state"
)

var (
	rom             = flag.String("rom", "", "path to a flat binary image to load")
	loadAddr        = flag.Uint("load_addr", 0x0000, "address the image is loaded at")
	resetVector     = flag.Uint("reset", 0x0000, "start PC, written to $FFFC/$FFFD before reset; ignored with -no_vector")
	noVector        = flag.Bool("no_vector", false, "don't overwrite the reset vector, trust whatever the image already has there")
	variantFlag     = flag.String("variant", "nmos", "cpu variant: nmos, nmos_simple, wdc65c02, rockwell65c02")
	decimalDisabled = flag.Bool("decimal_disabled", false, "Ricoh-style variant: D flag stored but ADC/SBC ignore it")
	maxInstructions = flag.Uint64("max_instructions", 10_000_000, "abort after this many instructions without halting")
	verbose         = flag.Bool("verbose", false, "print a disassembly trace of every instruction executed")
)

func variantFromFlag(s string) (cpu.Variant, error) {
	switch s {
	case "nmos":
		return cpu.Nmos6502, nil
	case "nmos_simple":
		return cpu.Nmos6502Simple, nil
	case "wdc65c02":
		return cpu.Wdc65C02, nil
	case "rockwell65c02":
		return cpu.Rockwell65C02, nil
	default:
		return 0, fmt.Errorf("unknown variant %q", s)
	}
}

func main() {
	flag.Parse()
	if *rom == "" {
		fmt.Fprintln(os.Stderr, "-rom is required")
		os.Exit(2)
	}
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	data, err := os.ReadFile(*rom)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *rom, err)
	}
	v, err := variantFromFlag(*variantFlag)
	if err != nil {
		return err
	}

	mem := bus.NewFlatMemory()
	mem.Load(uint16(*loadAddr), data)
	if !*noVector {
		mem.SetResetVector(uint16(*resetVector))
	}

	buf := &state.Pair{}
	c, err := cpu.New(v, buf, mem, cpu.Options{DecimalDisabled: *decimalDisabled})
	if err != nil {
		return err
	}
	c.Reset()

	lastPC := uint16(0xFFFF)
	stuck := 0
	for i := uint64(0); i < *maxInstructions; i++ {
		pc := buf.Current.PC
		if *verbose {
			text, _ := disasm.Step(pc, mem)
			fmt.Printf("%04X: %s\n", pc, text)
		}
		if _, err := c.Step(); err != nil {
			return fmt.Errorf("step at %#04x: %w", pc, err)
		}
		if buf.Current.Status == state.Jammed || buf.Current.Status == state.Stopped {
			fmt.Printf("halted at %#04x, status %v\n", pc, buf.Current.Status)
			return nil
		}
		if buf.Current.PC == pc {
			stuck++
			if stuck > 2 {
				text, _ := disasm.Step(pc, mem)
				return fmt.Errorf("stuck at %#04x (%s)", pc, text)
			}
		} else {
			stuck = 0
		}
		lastPC = pc
	}
	return fmt.Errorf("exceeded %d instructions without halting, last pc %#04x", *maxInstructions, lastPC)
}
