// Package mmio defines the 32-bit memory-mapped register accessor used by the
// serial drivers, and RegFile, a sparse recording register file for hosts
// without real hardware.
package mmio

// Bus reads and writes 32-bit registers at absolute addresses. Implementations
// own address validation; drivers never check that an address is mapped.
type Bus interface {
	Read32(addr uintptr) uint32
	Write32(addr uintptr, v uint32)
}

// Op is the kind of a recorded access.
type Op uint8

const (
	OpRead Op = iota
	OpWrite
)

func (o Op) String() string {
	if o == OpWrite {
		return "W"
	}
	return "R"
}

// Access is one recorded register access.
type Access struct {
	Op   Op
	Addr uintptr
	Val  uint32
}
