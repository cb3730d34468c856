// Package sched provides the minimal scheduler surface that the interrupt
// core depends on: a "current process" slot and a per-process operation to
// load that process' address space. Everything else a real scheduler would
// need (run queues, preemption, wait channels) lives outside the interrupt
// core's contract and is intentionally absent here.
package sched

import "novaos/kernel/cpu"

// PID identifies a schedulable process.
type PID uint32

// Process is the minimal process handle the interrupt core needs: just
// enough identity and address-space information to swap CR3 around a
// handler invocation.
type Process struct {
	PID PID

	// PDTPhysAddr is the physical address of this process' top-level
	// page directory, as loaded into CR3 by LoadAddressSpace.
	PDTPhysAddr uintptr
}

var (
	// current is the "current process" slot. It is nil until the
	// scheduler has scheduled at least one process. The dispatcher does
	// not read it: around a handler it snapshots and restores the active
	// CR3 value via ActiveAddressSpace and LoadAddressSpaceRaw.
	current *Process

	// switchPDTFn and activePDTFn are mocked by tests and are
	// automatically inlined by the compiler.
	switchPDTFn = cpu.SwitchPDT
	activePDTFn = cpu.ActivePDT
)

// CurrentProcess returns the process the CPU considers "current", or nil if
// no process has been scheduled yet (e.g. during early boot interrupts).
func CurrentProcess() *Process {
	return current
}

// SetCurrentProcess updates the current process slot. It is called by the
// (out of scope) scheduler whenever it context-switches to a new process.
func SetCurrentProcess(p *Process) {
	current = p
}

// LoadAddressSpace activates p's page table root by writing it into CR3 and
// flushing the TLB as a side effect of the architectural MOV-to-CR3.
// Passing nil is a no-op, matching the "no process scheduled yet" state.
func LoadAddressSpace(p *Process) {
	if p == nil {
		return
	}

	switchPDTFn(p.PDTPhysAddr)
}

// ActiveAddressSpace returns the physical address of the page table
// currently loaded into CR3, regardless of which process (if any) it
// belongs to. The dispatcher uses this to snapshot and restore the caller's
// mapping around a handler that runs in a different process' address space.
func ActiveAddressSpace() uintptr {
	return activePDTFn()
}

// LoadAddressSpaceRaw activates the page table root at physAddr directly,
// bypassing the Process abstraction. The dispatcher uses this to restore a
// snapshotted CR3 value after a handler runs in another process' mapping,
// since the previously active root may not correspond to any Process the
// scheduler still holds a handle to (e.g. a kernel-only mapping at boot).
func LoadAddressSpaceRaw(physAddr uintptr) {
	switchPDTFn(physAddr)
}
