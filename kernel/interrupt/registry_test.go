package interrupt

import "testing"

// resetVector clears vector's handler chain without touching the arena, so
// tests can run against a clean chain regardless of registration order.
func resetVector(v Vector) {
	chainHead[v] = nil
	chainTail[v] = nil
}

func TestRegisterOrdersHandlersByInsertion(t *testing.T) {
	const v = Vector(200)
	defer resetVector(v)
	resetVector(v)

	var order []int
	cb := func(n int) CallbackFn {
		return func(*ISRFrame) bool {
			order = append(order, n)
			return false
		}
	}

	registerCallback(v, cb(1))
	registerCallback(v, cb(2))
	registerCallback(v, cb(3))

	head, count := chainSnapshot(v)
	if count != 3 {
		t.Fatalf("expected chain length 3; got %d", count)
	}

	for n := head; n != nil; n = n.next {
		n.desc.Callback(nil)
	}

	exp := []int{1, 2, 3}
	if len(order) != len(exp) {
		t.Fatalf("expected %d invocations; got %d", len(exp), len(order))
	}
	for i := range exp {
		if order[i] != exp[i] {
			t.Errorf("expected invocation order %v; got %v", exp, order)
			break
		}
	}
}

func TestRegisterLazilyCreatesChain(t *testing.T) {
	const v = Vector(201)
	defer resetVector(v)
	resetVector(v)

	if head, count := chainSnapshot(v); head != nil || count != 0 {
		t.Fatalf("expected empty chain before registration; got count %d", count)
	}

	Register(v, Descriptor{Callback: func(*ISRFrame) bool { return true }})

	if _, count := chainSnapshot(v); count != 1 {
		t.Fatalf("expected chain length 1 after registration; got %d", count)
	}
}

func TestRegisterCallbackHasNoProcess(t *testing.T) {
	const v = Vector(202)
	defer resetVector(v)
	resetVector(v)

	RegisterCallback(v, func(*ISRFrame) bool { return false })

	head, _ := chainSnapshot(v)
	if head.desc.Process != nil {
		t.Error("expected RegisterCallback to register a descriptor with no process")
	}
}

func TestRegisterDropsWhenArenaExhausted(t *testing.T) {
	const v = Vector(203)
	defer resetVector(v)
	resetVector(v)

	savedUsed := arenaUsed
	savedWarn := warnFn
	defer func() {
		arenaUsed = savedUsed
		warnFn = savedWarn
	}()

	arenaUsed = len(arena)

	var warned bool
	warnFn = func(loc, format string, args ...interface{}) { warned = true }

	register(v, Descriptor{Callback: func(*ISRFrame) bool { return true }})

	if !warned {
		t.Error("expected a warning to be logged when the arena is exhausted")
	}
	if _, count := chainSnapshot(v); count != 0 {
		t.Errorf("expected registration to be silently dropped; chain length %d", count)
	}
}

func TestEmptyChainIdenticalToAbsentChain(t *testing.T) {
	const v = Vector(204)
	resetVector(v)

	head, count := chainSnapshot(v)
	if head != nil || count != 0 {
		t.Fatalf("expected an absent vector to report an empty chain; got count %d, head %v", count, head)
	}
}
