package interrupt

import (
	"novaos/kernel"
	"novaos/kernel/apic"
	"novaos/kernel/cpu"
	"novaos/kernel/klog"
	"novaos/kernel/sched"
)

var (
	// the following are mocked by tests and are automatically inlined by
	// the compiler.
	infoFn      = klog.Info
	warnFn      = klog.Warn
	panicFn     = klog.Panic
	readCR2Fn   = cpu.ReadCR2
	signalEOIFn = apic.SignalEOI

	loadAddrSpaceFn   = sched.LoadAddressSpace
	activeAddrSpaceFn = sched.ActiveAddressSpace
	restoreAddrSpace  = sched.LoadAddressSpaceRaw
)

// pageFaultFlag bits, decoded in the exact order specified for the
// dispatcher's page-fault diagnostic: bit 0 is tested first, then bit 1 in
// either polarity, then bits 2 through 4.
const (
	pfFlagProtection = 1 << 0
	pfFlagWrite      = 1 << 1
	pfFlagUser       = 1 << 2
	pfFlagReserved   = 1 << 3
	pfFlagExecute    = 1 << 4
)

// dispatch is the single high-level entry invoked by both Common Entry
// variants. It receives a pointer to the saved frame and returns a
// (possibly identical) pointer for the caller to resume from.
//
//go:nosplit
func dispatch(frame *ISRFrame) *ISRFrame {
	switch Vector(frame.Vector) {
	case vectorBreakpoint:
		panicFn(&kernel.Error{Module: "interrupt", Message: "Breakpoint"})
		return frame
	case vectorGPF:
		panicFn(&kernel.Error{Module: "interrupt", Message: "GPF"})
		return frame
	case vectorPageFault:
		panicFn(&kernel.Error{Module: "interrupt", Message: pageFaultMessage(frame.ErrorCode, uint64(readCR2Fn()))})
		return frame
	}

	dispatchToRegistry(frame)
	return frame
}

// pageFaultMessage builds the panic message for a page fault: the faulting
// address in hex followed by the tags decoded from errorCode, joined with
// ", " in the fixed bit-test order the spec mandates.
func pageFaultMessage(errorCode, faultAddr uint64) string {
	msg := "page fault at 0x"
	msg += hex64(faultAddr)
	msg += ": "

	first := true
	appendTag := func(tag string) {
		if !first {
			msg += ", "
		}
		msg += tag
		first = false
	}

	if errorCode&pfFlagProtection != 0 {
		appendTag("Page Protection")
	}

	if errorCode&pfFlagWrite != 0 {
		appendTag("Write")
	} else {
		appendTag("Read")
	}

	if errorCode&pfFlagUser != 0 {
		appendTag("CPL=3")
	}

	if errorCode&pfFlagReserved != 0 {
		appendTag("Reserved Write")
	}

	if errorCode&pfFlagExecute != 0 {
		appendTag("Executed")
	}

	return msg
}

const hexDigits = "0123456789abcdef"

// hex64 renders v as lowercase hex with no leading zero padding beyond a
// single required digit, matching the kfmt convention used elsewhere in
// this kernel for addresses.
func hex64(v uint64) string {
	if v == 0 {
		return "0"
	}

	var buf [16]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = hexDigits[v&0xf]
		v >>= 4
	}

	return string(buf[i:])
}

// dispatchToRegistry implements the dispatch-to-registry path: log, walk
// the vector's handler chain, acknowledge the interrupt.
func dispatchToRegistry(frame *ISRFrame) {
	vector := Vector(frame.Vector)

	infoFn("interrupt.dispatch", "ss=%x vector=%x rflags=%x", frame.SS, frame.Vector, frame.RFlags)

	head, count := chainSnapshot(vector)

	handled := false
	n := head
	for i := 0; i < count && n != nil; i, n = i+1, n.next {
		handled = invokeHandler(n.desc, frame) || handled
		if handled {
			break
		}
	}

	if !handled {
		// Preserves the source's field choice verbatim: this should
		// almost certainly read frame.Vector, not frame.SS.
		warnFn("interrupt.dispatch", "unhandled interrupt: ss=%x", frame.SS)
	}

	signalEOIFn()
}

// invokeHandler runs a single descriptor's callback, performing the
// address-space swap around it if the descriptor names a process. The
// previous address space is restored unconditionally, regardless of what
// the callback returns.
func invokeHandler(desc Descriptor, frame *ISRFrame) bool {
	if desc.Process == nil {
		return desc.Callback(frame)
	}

	prevAddrSpace := activeAddrSpaceFn()
	loadAddrSpaceFn(desc.Process)

	claimed := desc.Callback(frame)

	restoreAddrSpace(prevAddrSpace)

	return claimed
}
