package interrupt

import (
	"novaos/kernel"
	"novaos/kernel/gdt"
	"unsafe"
)

// gate types understood by the IDT entry "type and attributes" byte.
const (
	gateTypeInterrupt = 0xE
	gateTypeTrap      = 0xF

	attrPresent = 1 << 7
)

// idtEntry is the 16-byte, bit-packed layout of a single IDT gate
// descriptor, exactly as the CPU expects to find it in the table pointed
// to by LIDT (Intel SDM Vol 3A, ch 6.14.1).
type idtEntry struct {
	offsetLow  uint16
	selector   uint16
	ist        uint8
	typeAttr   uint8
	offsetMid  uint16
	offsetHigh uint32
	reserved   uint32
}

// idtDescriptor holds the two fields of the 10-byte pseudo-descriptor LIDT
// reads: a 16-bit table limit (size in bytes, minus one) followed by the
// table's 64-bit base address. Go aligns base to 8 bytes, so loadIDT packs
// the two fields into the 10-byte form before issuing LIDT.
type idtDescriptor struct {
	limit uint16
	base  uint64
}

// idt is the live, in-memory interrupt descriptor table. It is a package
// level array rather than a heap allocation because the interrupt core
// must be usable before the Go runtime's allocator is.
var idt [256]idtEntry

// idtDesc is the pseudo-descriptor handed to the LIDT instruction. It is
// kept alongside idt rather than built on the stack at load time so its
// address remains stable.
var idtDesc idtDescriptor

// loadIDT is implemented in idt_amd64.s and issues the LIDT instruction
// using desc.
func loadIDT(desc *idtDescriptor)

// loadIDTFn is mocked by tests and is automatically inlined by the
// compiler.
var loadIDTFn = loadIDT

// installGate writes a single gate descriptor targeting handlerAddr into
// slot vector of the IDT, using the kernel code selector and interrupt IST
// index that gdt publishes and the supplied gate type.
func installGate(vector Vector, handlerAddr uintptr, gateType uint8) {
	e := &idt[vector]
	e.offsetLow = uint16(handlerAddr)
	e.offsetMid = uint16(handlerAddr >> 16)
	e.offsetHigh = uint32(handlerAddr >> 32)
	e.selector = gdt.KernelCodeSelector()
	e.ist = gdt.InterruptISTIndex()
	e.typeAttr = attrPresent | gateType
	e.reserved = 0
}

// installKernelISR installs an interrupt gate at vector that targets
// handlerAddr, running at ring 0 (DPL 0, implicit in attrPresent|gateType
// since the DPL bits default to zero).
func installKernelISR(vector Vector, handlerAddr uintptr) {
	installGate(vector, handlerAddr, gateTypeInterrupt)
}

// installKernelErrorISR is identical to installKernelISR; it exists as a
// distinct entry point because the trampoline bank generates a
// differently-shaped stub for vectors that carry a CPU-pushed error code,
// and callers should name the distinction even though the gate descriptor
// itself does not encode it.
func installKernelErrorISR(vector Vector, handlerAddr uintptr) {
	installGate(vector, handlerAddr, gateTypeInterrupt)
}

// Init populates all 256 IDT gates from the trampoline table, loads the IDT
// and returns. Interrupts remain masked; the caller is expected to issue
// cpu.EnableInterrupts once the rest of the boot sequence (GDT, TSS, paging)
// is ready to take an interrupt.
func Init() *kernel.Error {
	if trampolineTable[0] == 0 {
		populateTrampolineTable()
	}

	for v := 0; v < 256; v++ {
		addr := trampolineTable[v]
		if addr == 0 {
			return errNoTrampoline
		}

		if hasErrorCode(Vector(v)) {
			installKernelErrorISR(Vector(v), addr)
		} else {
			installKernelISR(Vector(v), addr)
		}
	}

	idtDesc.limit = uint16(unsafe.Sizeof(idt) - 1)
	idtDesc.base = uint64(uintptr(unsafe.Pointer(&idt[0])))
	loadIDTFn(&idtDesc)

	return nil
}

var errNoTrampoline = &kernel.Error{Module: "interrupt", Message: "missing trampoline entry"}
