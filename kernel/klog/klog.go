// Package klog provides the info/warn/panic sinks that the interrupt core
// (and its collaborators) report diagnostics through. Panic is a thin,
// non-allocating wrapper around kfmt.Printf that halts the CPU. Panic and
// panicString carry //go:redirect-from directives naming runtime.gopanic and
// runtime.throw; the Go toolchain ignores these directives and this tree has
// no tool that applies them, so a builtin panic() still goes to the Go
// runtime.
package klog

import (
	"novaos/kernel"
	"novaos/kernel/cpu"
	"novaos/kernel/kfmt"
)

var (
	// haltFn is mocked by tests and is automatically inlined by the
	// compiler.
	haltFn = cpu.Halt

	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}
)

// Info writes an informational line tagged with loc, a short caller-
// supplied token identifying the origin of the message (e.g.
// "interrupt.dispatch") -- kept as a plain string since runtime.Caller is
// unavailable this early in boot.
func Info(loc, format string, args ...interface{}) {
	kfmt.Printf("[%s] ", loc)
	kfmt.Printf(format, args...)
	kfmt.Printf("\n")
}

// Warn writes a warning line, formatted identically to Info but prefixed to
// make it easy to grep kernel logs for recoverable anomalies.
func Warn(loc, format string, args ...interface{}) {
	kfmt.Printf("[%s] warning: ", loc)
	kfmt.Printf(format, args...)
	kfmt.Printf("\n")
}

// Panic outputs the supplied error (if not nil) to the console and halts the
// CPU. Calls to Panic never return. The directive below names Panic as the
// redirect target for runtime.gopanic (see the package comment).
//go:redirect-from runtime.gopanic
func Panic(e interface{}) {
	var err *kernel.Error

	switch t := e.(type) {
	case *kernel.Error:
		err = t
	case string:
		panicString(t)
		return
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	kfmt.Printf("\n-----------------------------------\n")
	if err != nil {
		kfmt.Printf("[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	kfmt.Printf("*** kernel panic: system halted ***")
	kfmt.Printf("\n-----------------------------------\n")

	for {
		haltFn()
	}
}

// panicString serves as a redirect target for runtime.throw.
//go:redirect-from runtime.throw
func panicString(msg string) {
	errRuntimePanic.Message = msg
	Panic(errRuntimePanic)
}
