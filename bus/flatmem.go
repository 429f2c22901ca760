package bus

// FlatMemory is a 64K flat RAM/ROM-less address space implementing Bus.
// It is a first class, reusable implementation shared by the CLI harness
// and the test suite, instead of a throwaway type redeclared per test file.
type FlatMemory struct {
	addr [65536]uint8
}

// NewFlatMemory returns a zeroed 64K address space.
func NewFlatMemory() *FlatMemory {
	return &FlatMemory{}
}

// Read implements Bus.
func (m *FlatMemory) Read(addr uint16) uint8 {
	return m.addr[addr]
}

// Write implements Bus.
func (m *FlatMemory) Write(addr uint16, val uint8) {
	m.addr[addr] = val
}

// Peek implements Bus.
func (m *FlatMemory) Peek(addr uint16) uint8 {
	return m.addr[addr]
}

// Load copies data into the address space starting at offset.
func (m *FlatMemory) Load(offset uint16, data []uint8) {
	copy(m.addr[offset:], data)
}

// SetResetVector writes addr as the little-endian value at $FFFC/$FFFD.
func (m *FlatMemory) SetResetVector(addr uint16) {
	m.addr[0xFFFC] = uint8(addr & 0xFF)
	m.addr[0xFFFD] = uint8(addr >> 8)
}

// SetNmiVector writes addr as the little-endian value at $FFFA/$FFFB.
func (m *FlatMemory) SetNmiVector(addr uint16) {
	m.addr[0xFFFA] = uint8(addr & 0xFF)
	m.addr[0xFFFB] = uint8(addr >> 8)
}

// SetIrqVector writes addr as the little-endian value at $FFFE/$FFFF.
func (m *FlatMemory) SetIrqVector(addr uint16) {
	m.addr[0xFFFE] = uint8(addr & 0xFF)
	m.addr[0xFFFF] = uint8(addr >> 8)
}

// Bytes returns the backing array for inspection (dumps, disassembly).
func (m *FlatMemory) Bytes() *[65536]uint8 {
	return &m.addr
}
