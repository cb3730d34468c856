package interrupt

import (
	"novaos/kernel/gdt"
	"testing"
)

func TestHasErrorCode(t *testing.T) {
	errVectors := map[Vector]bool{
		8: true, 10: true, 11: true, 12: true, 13: true,
		14: true, 17: true, 21: true, 29: true, 30: true,
	}

	for v := 0; v < 256; v++ {
		exp := errVectors[Vector(v)]
		if got := hasErrorCode(Vector(v)); got != exp {
			t.Errorf("vector %d: expected hasErrorCode to return %t; got %t", v, exp, got)
		}
	}
}

func TestInstallGate(t *testing.T) {
	defer func() { idt = [256]idtEntry{} }()

	handlerAddr := uintptr(0x1122334455667788)

	installGate(42, handlerAddr, gateTypeInterrupt)

	e := idt[42]
	if got := e.offsetLow; got != uint16(handlerAddr) {
		t.Errorf("expected offsetLow %#04x; got %#04x", uint16(handlerAddr), got)
	}
	if got := e.offsetMid; got != uint16(handlerAddr>>16) {
		t.Errorf("expected offsetMid %#04x; got %#04x", uint16(handlerAddr>>16), got)
	}
	if got := e.offsetHigh; got != uint32(handlerAddr>>32) {
		t.Errorf("expected offsetHigh %#08x; got %#08x", uint32(handlerAddr>>32), got)
	}
	if got, exp := e.selector, gdt.KernelCodeSelector(); got != exp {
		t.Errorf("expected selector %#x; got %#x", exp, got)
	}
	if got, exp := e.ist, gdt.InterruptISTIndex(); got != exp {
		t.Errorf("expected IST index %d; got %d", exp, got)
	}
	if e.typeAttr&attrPresent == 0 {
		t.Error("expected present bit to be set")
	}
	if got := e.typeAttr &^ attrPresent; got != gateTypeInterrupt {
		t.Errorf("expected gate type %#x; got %#x", gateTypeInterrupt, got)
	}
}

func TestInstallKernelISRAndErrorISR(t *testing.T) {
	defer func() { idt = [256]idtEntry{} }()

	installKernelISR(1, 0xdead)
	installKernelErrorISR(2, 0xbeef)

	for _, v := range []Vector{1, 2} {
		if idt[v].typeAttr&attrPresent == 0 {
			t.Errorf("vector %d: expected present bit", v)
		}
		if idt[v].typeAttr&^attrPresent != gateTypeInterrupt {
			t.Errorf("vector %d: expected interrupt gate type", v)
		}
	}
}

// TestInitPopulatesAllVectors covers the invariant that for every vector in
// [0, 255], after IDT initialization the entry is marked present and
// targets the trampoline generated for that vector. loadIDTFn is mocked so
// the test never issues the privileged LIDT instruction.
func TestInitPopulatesAllVectors(t *testing.T) {
	defer func() {
		idt = [256]idtEntry{}
		trampolineTable = [256]uintptr{}
		loadIDTFn = loadIDT
	}()

	for v := 0; v < 256; v++ {
		trampolineTable[v] = uintptr(0x1000 + v)
	}

	var loadedDesc *idtDescriptor
	loadIDTFn = func(d *idtDescriptor) { loadedDesc = d }

	if err := Init(); err != nil {
		t.Fatalf("unexpected error from Init: %v", err)
	}

	if loadedDesc == nil {
		t.Fatal("expected loadIDTFn to be invoked")
	}
	if exp := uint16(256*16 - 1); loadedDesc.limit != exp {
		t.Errorf("expected descriptor limit %d; got %d", exp, loadedDesc.limit)
	}

	for v := 0; v < 256; v++ {
		e := idt[v]
		if e.typeAttr&attrPresent == 0 {
			t.Errorf("vector %d: expected present bit to be set", v)
		}

		gotAddr := uintptr(e.offsetLow) | uintptr(e.offsetMid)<<16 | uintptr(e.offsetHigh)<<32
		if gotAddr != trampolineTable[v] {
			t.Errorf("vector %d: expected offset to target %#x; got %#x", v, trampolineTable[v], gotAddr)
		}
	}
}

func TestInitMissingTrampolineEntry(t *testing.T) {
	defer func() {
		idt = [256]idtEntry{}
		trampolineTable = [256]uintptr{}
		loadIDTFn = loadIDT
	}()

	for v := 0; v < 256; v++ {
		trampolineTable[v] = uintptr(0x2000 + v)
	}
	trampolineTable[100] = 0

	loadIDTFn = func(*idtDescriptor) {}

	if err := Init(); err != errNoTrampoline {
		t.Fatalf("expected errNoTrampoline; got %v", err)
	}
}
