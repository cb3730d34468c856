package interrupt

import "novaos/kernel/sched"

// maxHandlers bounds the number of handler descriptors the registry can
// hold across all 256 vectors combined. It is sized generously for a
// freestanding kernel's driver set; see the design note on arena sizing.
const maxHandlers = 512

// CallbackFn is invoked by the dispatcher with a pointer to the saved
// frame for the interrupt currently being serviced. It returns true if it
// claimed the interrupt, which stops the chain walk for this dispatch.
type CallbackFn func(frame *ISRFrame) bool

// Descriptor pairs a callback with the process whose address space should
// be active while the callback runs. A nil Process means "run in whatever
// address space is already active".
type Descriptor struct {
	Callback CallbackFn
	Process  *sched.Process
}

// handlerNode is one link in a vector's intrusive handler chain. Nodes are
// carved out of a fixed arena at registration time; there is no free path
// since handlers are never unregistered.
type handlerNode struct {
	desc Descriptor
	next *handlerNode
}

var (
	// arena backs every handlerNode ever allocated. Using a fixed array
	// instead of the allocator keeps registration out of the heap, which
	// matters because registration can happen before the allocator is
	// fully up and must never block.
	arena     [maxHandlers]handlerNode
	arenaUsed int

	// chainHead and chainTail anchor each vector's handler list in
	// registration order. chainTail lets register append in O(1) instead
	// of walking the list on every call.
	chainHead [256]*handlerNode
	chainTail [256]*handlerNode
)

// register appends desc to vector's handler chain. If the arena is
// exhausted the registration is silently dropped after a warning is
// logged; the registrant is never notified, matching the policy that
// allocator exhaustion during boot-time registration is itself fatal to
// the system, not to this one driver.
func register(vector Vector, desc Descriptor) {
	if arenaUsed >= len(arena) {
		warnFn("interrupt.register", "handler arena exhausted, dropping registration for vector %d", vector)
		return
	}

	node := &arena[arenaUsed]
	arenaUsed++
	node.desc = desc
	node.next = nil

	if chainTail[vector] == nil {
		chainHead[vector] = node
		chainTail[vector] = node
		return
	}

	chainTail[vector].next = node
	chainTail[vector] = node
}

// registerCallback is shorthand for register with no associated process.
func registerCallback(vector Vector, cb CallbackFn) {
	register(vector, Descriptor{Callback: cb})
}

// Register subscribes a handler descriptor to vector. It is the driver
// facing entry point for register.
func Register(vector Vector, desc Descriptor) {
	register(vector, desc)
}

// RegisterCallback subscribes a bare callback (no address-space swap) to
// vector. It is the driver facing entry point for registerCallback.
func RegisterCallback(vector Vector, cb CallbackFn) {
	registerCallback(vector, cb)
}

// chainSnapshot returns the head of vector's handler chain along with how
// many nodes were present at the time of the call. The dispatcher uses the
// count to bound its walk so that handlers registered by a callback mid
// dispatch never affect the chain currently being walked, per the "stable
// view" requirement.
func chainSnapshot(vector Vector) (*handlerNode, int) {
	head := chainHead[vector]

	count := 0
	for n := head; n != nil; n = n.next {
		count++
	}

	return head, count
}
