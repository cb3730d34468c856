// Package gdt exposes the handful of GDT-derived facts that the interrupt
// core needs in order to populate IDT gate descriptors. Construction of the
// GDT itself (and the TSS it anchors) happens in the rt0 bootstrap code
// before the Go runtime starts and is out of scope for this package; it only
// answers the two queries the interrupt core needs.
package gdt

// KernelCodeSelector returns the 16-bit segment selector that the rt0
// bootstrap code installs for ring-0 code. It is the value every IDT gate
// descriptor uses as its target code segment.
func KernelCodeSelector() uint16 {
	return kernelCodeSelector
}

// InterruptISTIndex returns the Interrupt Stack Table slot (1-7) that
// architectural exception and device interrupt gates should switch to on
// entry. A value of 0 would mean "use whatever stack was active", which the
// interrupt core never wants for an asynchronous entry point.
func InterruptISTIndex() uint8 {
	return interruptISTIndex
}

const (
	// kernelCodeSelector is GDT entry 1 (index 1, RPL 0): 1<<3 | 0.
	kernelCodeSelector = 1 << 3

	// interruptISTIndex selects the first IST slot in the TSS. rt0 sets
	// up this stack before handing control to Kmain.
	interruptISTIndex = 1
)
