// Package interrupt implements the x86_64 interrupt dispatch core: the IDT,
// the per-vector trampoline bank, the two common entry points the
// trampolines funnel into, and the high-level dispatcher that multiplexes
// each vector to a registered handler chain.
package interrupt

import "novaos/kernel/kfmt"

// Vector identifies one of the 256 architectural interrupt vectors.
type Vector uint8

// Architectural exception vectors that the dispatcher classifies directly
// instead of handing off to the registry.
const (
	vectorBreakpoint = Vector(0x03)
	vectorGPF        = Vector(0x0D)
	vectorPageFault  = Vector(0x0E)
)

// hasErrorCode reports whether the CPU pushes an architectural error code
// for this vector. Every other vector needs the trampoline to synthesize a
// zero placeholder so the saved frame shape is uniform across all 256
// entries.
func hasErrorCode(v Vector) bool {
	switch v {
	case 8, 10, 11, 12, 13, 14, 17, 21, 29, 30:
		return true
	default:
		return false
	}
}

// ISRFrame mirrors the exact layout of the interrupt stack at the moment
// the dispatcher is entered. Field order matters: it is the memory layout
// the trampolines and common entry stubs build and tear down, low address
// first. The first seven fields are saved by the common entry, Vector and
// ErrorCode by the trampoline (ErrorCode is a zero placeholder for vectors
// where hasErrorCode is false), and the final five are pushed by the CPU
// itself on interrupt entry.
type ISRFrame struct {
	RDI uint64
	RSI uint64
	RDX uint64
	RCX uint64
	RBX uint64
	RAX uint64
	RBP uint64

	Vector    uint64
	ErrorCode uint64

	// CPU-pushed return frame, restored verbatim by IRETQ unless a
	// handler deliberately mutates it.
	RIP    uint64
	CS     uint64
	RFlags uint64
	RSP    uint64
	SS     uint64
}

// Print outputs a dump of the saved frame to the active console.
func (f *ISRFrame) Print() {
	kfmt.Printf("RAX = %16x RBX = %16x\n", f.RAX, f.RBX)
	kfmt.Printf("RCX = %16x RDX = %16x\n", f.RCX, f.RDX)
	kfmt.Printf("RSI = %16x RDI = %16x\n", f.RSI, f.RDI)
	kfmt.Printf("RBP = %16x\n", f.RBP)
	kfmt.Printf("VEC = %16x ERR = %16x\n", f.Vector, f.ErrorCode)
	kfmt.Printf("RIP = %16x CS  = %16x\n", f.RIP, f.CS)
	kfmt.Printf("RSP = %16x SS  = %16x\n", f.RSP, f.SS)
	kfmt.Printf("RFL = %16x\n", f.RFlags)
}
