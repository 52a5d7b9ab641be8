package interp

import "testing"

func TestInstanceTableAllocAndGet(t *testing.T) {
	tbl := NewInstanceTable()
	cls := NewClass("Point", nil)
	inst := NewInstance(cls)
	inst.Fields["x"] = Number(1)

	h := tbl.Alloc(inst)
	got, ok := tbl.Get(h)
	if !ok {
		t.Fatal("expected a fresh handle to resolve")
	}
	if got != inst {
		t.Error("Get returned a different instance than was allocated")
	}
}

func TestInstanceTableGetOutOfRange(t *testing.T) {
	tbl := NewInstanceTable()
	if _, ok := tbl.Get(Handle(0)); ok {
		t.Error("expected Get on an empty table to fail")
	}
	if _, ok := tbl.Get(Handle(-1)); ok {
		t.Error("expected Get of a negative handle to fail")
	}
}

func TestInstanceTableSweepClearsUnreachable(t *testing.T) {
	tbl := NewInstanceTable()
	cls := NewClass("Thing", nil)
	kept := tbl.Alloc(NewInstance(cls))
	garbage := tbl.Alloc(NewInstance(cls))

	root := NewEnvironment()
	root.Define("x", KindAny, kept)

	tbl.Sweep(root)

	if _, ok := tbl.Get(kept); !ok {
		t.Error("expected the reachable handle to survive the sweep")
	}
	if _, ok := tbl.Get(garbage); ok {
		t.Error("expected the unreachable handle to be cleared")
	}
}

func TestInstanceTableSweepPreservesHandleStability(t *testing.T) {
	tbl := NewInstanceTable()
	cls := NewClass("Thing", nil)
	a := tbl.Alloc(NewInstance(cls))
	garbage := tbl.Alloc(NewInstance(cls))
	b := tbl.Alloc(NewInstance(cls))

	root := NewEnvironment()
	root.Define("a", KindAny, a)
	root.Define("b", KindAny, b)

	tbl.Sweep(root)

	if _, ok := tbl.Get(garbage); ok {
		t.Fatal("expected the middle handle to be cleared")
	}
	// handles a and b must still resolve at their original indices; a
	// compacting sweep would have shifted b down and broken this.
	gotA, ok := tbl.Get(a)
	if !ok || gotA.Class != cls {
		t.Errorf("handle a did not survive at a stable index: ok=%v", ok)
	}
	gotB, ok := tbl.Get(b)
	if !ok || gotB.Class != cls {
		t.Errorf("handle b did not survive at a stable index: ok=%v", ok)
	}
	if int(b) != int(garbage)+1 {
		t.Fatalf("test setup invariant broken: expected b immediately after garbage")
	}
}

func TestInstanceTableSweepReachesThroughListAndFields(t *testing.T) {
	tbl := NewInstanceTable()
	cls := NewClass("Node", nil)

	leaf := tbl.Alloc(NewInstance(cls))
	container := NewInstance(cls)
	container.Fields["items"] = NewList([]Value{leaf})
	containerHandle := tbl.Alloc(container)

	root := NewEnvironment()
	root.Define("c", KindAny, containerHandle)

	tbl.Sweep(root)

	if _, ok := tbl.Get(leaf); !ok {
		t.Error("expected a handle nested inside a list inside an instance field to survive")
	}
}

func TestInstanceTableSweepReachesThroughClosure(t *testing.T) {
	tbl := NewInstanceTable()
	cls := NewClass("Box", nil)
	boxed := tbl.Alloc(NewInstance(cls))

	closureEnv := NewEnvironment()
	closureEnv.Define("captured", KindAny, boxed)
	fn := &Function{FnName: "f", Closure: closureEnv}

	root := NewEnvironment()
	root.Define("fn", KindAny, fn)

	tbl.Sweep(root)

	if _, ok := tbl.Get(boxed); !ok {
		t.Error("expected a handle captured by a function's closure environment to survive")
	}
}

func TestInstanceTableSweepNilRootClearsEverything(t *testing.T) {
	tbl := NewInstanceTable()
	cls := NewClass("Thing", nil)
	h := tbl.Alloc(NewInstance(cls))

	tbl.Sweep(nil)

	if _, ok := tbl.Get(h); ok {
		t.Error("expected every cell to be cleared when root is nil")
	}
}
