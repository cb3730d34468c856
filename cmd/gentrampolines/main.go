// Command gentrampolines emits the 256 per-vector interrupt trampoline
// stubs and the asm routine that populates the runtime trampoline table
// from them. The trampolines are near-identical by construction (they
// differ only in an immediate vector number and whether they synthesize a
// zero error code), which makes them a poor fit for hand maintenance and a
// good fit for generation at build time; see the design note this tool
// implements in kernel/interrupt.
//
// Usage: gentrampolines > kernel/interrupt/zz_generated_trampolines_amd64.s
package main

import (
	"bufio"
	"fmt"
	"os"
)

// errorCodeVectors lists the vectors for which the CPU itself pushes an
// error code; every other vector needs a synthetic zero pushed in its
// place so the saved frame shape stays uniform.
var errorCodeVectors = map[int]bool{
	8: true, 10: true, 11: true, 12: true, 13: true,
	14: true, 17: true, 21: true, 29: true, 30: true,
}

const header = `// Code generated by cmd/gentrampolines. DO NOT EDIT.

#include "textflag.h"

`

func main() {
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	fmt.Fprint(w, header)

	for v := 0; v < 256; v++ {
		emitTrampoline(w, v)
	}

	emitPopulateTable(w)
}

func emitTrampoline(w *bufio.Writer, v int) {
	fmt.Fprintf(w, "// func trampoline%d()\n", v)
	fmt.Fprintf(w, "TEXT ·trampoline%d(SB), NOSPLIT, $0\n", v)
	fmt.Fprintf(w, "\tCLI\n")

	if errorCodeVectors[v] {
		fmt.Fprintf(w, "\tPUSHQ $%d\n", v)
		fmt.Fprintf(w, "\tJMP ·commonEntryWithCode(SB)\n\n")
		return
	}

	fmt.Fprintf(w, "\tPUSHQ $0\n")
	fmt.Fprintf(w, "\tPUSHQ $%d\n", v)
	fmt.Fprintf(w, "\tJMP ·commonEntryNoCode(SB)\n\n")
}

// emitPopulateTable writes the asm routine that copies each trampoline's
// address into the Go-visible trampolineTable array, one LEAQ/MOVQ pair
// per vector. AX holds the table's base address, loaded once; each vector
// then costs a LEAQ of its stub plus a MOVQ at a fixed offset.
func emitPopulateTable(w *bufio.Writer) {
	fmt.Fprintf(w, "// func populateTrampolineTable()\n")
	fmt.Fprintf(w, "TEXT ·populateTrampolineTable(SB), NOSPLIT, $8-0\n")
	fmt.Fprintf(w, "\tMOVQ $·trampolineTable(SB), AX\n")

	for v := 0; v < 256; v++ {
		fmt.Fprintf(w, "\tLEAQ ·trampoline%d(SB), BX\n", v)
		fmt.Fprintf(w, "\tMOVQ BX, %d(AX)\n", v*8)
	}

	fmt.Fprintf(w, "\tRET\n")
}
