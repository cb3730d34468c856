package interrupt

// commonEntryNoCode and commonEntryWithCode are implemented in
// common_amd64.s. Every generated trampoline jumps to one or the other
// depending on whether the CPU supplies an error code for its vector.
func commonEntryNoCode()
func commonEntryWithCode()

// trampolineTable holds the address of the generated trampoline stub for
// each of the 256 vectors, filled in by populateTrampolineTable. It is
// indexed directly by vector number.
var trampolineTable [256]uintptr

// populateTrampolineTable is implemented in
// zz_generated_trampolines_amd64.s. It writes the address of each
// generated trampolineN stub into the corresponding trampolineTable
// slot, using LEAQ against the stub's symbol rather than any runtime
// function-value machinery, since funcval tricks are unavailable this
// early in boot and are unnecessary for naked, non-Go-ABI stubs anyway.
func populateTrampolineTable()
