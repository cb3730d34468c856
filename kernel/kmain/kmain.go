package kmain

import (
	"novaos/kernel"
	"novaos/kernel/apic"
	"novaos/kernel/cpu"
	"novaos/kernel/interrupt"
	"novaos/kernel/klog"
)

var (
	errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}

	// lapicBaseAddr is the virtual address the rt0 bootstrap code has
	// already identity-mapped for the Local APIC register window.
	lapicBaseAddr uintptr = 0xfee00000
)

// Kmain is the only Go symbol visible to the rt0 initialization code. It is
// invoked after rt0 has set up the GDT, the TSS (with its interrupt IST
// stack), paging and a minimal g0 allowing Go code to run on the boot
// stack -- all of that bring-up is the out-of-scope collaborator surface
// spec.md §1 describes (paging/GDT are consulted only for the two facts
// kernel/gdt publishes), so Kmain itself starts from "the interrupt core
// can now be installed", not from bare metal.
//
// rt0 passes the multiboot info payload address and the kernel's physical
// load bounds; neither is consulted here since this tree's scope stops at
// the interrupt core and its immediate collaborators. Kmain is not expected
// to return; if it does, rt0 halts the CPU.
//
//go:noinline
func Kmain(multibootInfoPtr, kernelStart, kernelEnd uintptr) {
	apic.SetBaseAddress(lapicBaseAddr)

	if err := interrupt.Init(); err != nil {
		panic(err)
	}

	cpu.EnableInterrupts()

	// Use klog.Panic instead of panic to prevent the compiler from
	// treating the call as dead-code and eliminating it.
	klog.Panic(errKmainReturned)
}
