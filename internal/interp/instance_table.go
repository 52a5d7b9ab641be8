package interp

// InstanceTable is the interpreter's append-only vector of instance
// cells, addressed by stable Handle values (spec.md §3.4). Handles are
// never reused; a cleared cell stays cleared at its original index.
type InstanceTable struct {
	cells []*Instance // a nil entry is a cleared/unallocated cell
}

func NewInstanceTable() *InstanceTable {
	return &InstanceTable{}
}

// Alloc appends a new instance and returns its handle.
func (t *InstanceTable) Alloc(inst *Instance) Handle {
	t.cells = append(t.cells, inst)
	return Handle(len(t.cells) - 1)
}

// Get dereferences a handle. ok is false for an out-of-range or
// already-swept handle.
func (t *InstanceTable) Get(h Handle) (*Instance, bool) {
	if int(h) < 0 || int(h) >= len(t.cells) {
		return nil, false
	}
	inst := t.cells[h]
	return inst, inst != nil
}

// Sweep clears every cell not reachable from root (the current
// environment chain). Reachability recurses through List elements,
// Instance fields, and Function closure environments, so an instance
// nested inside a captured closure or a list survives the sweep.
//
// This is a from-scratch mark phase (see DESIGN.md): the reference
// implementation's collect_garbage only walks a single environment's
// direct values and then re-indexes the table, which silently breaks
// handle stability; this sweep walks the full chain and clears cells
// in place instead of compacting them.
func (t *InstanceTable) Sweep(root *Environment) {
	reachable := make(map[Handle]bool)
	visitedEnv := make(map[*Environment]bool)
	var mark func(v Value)
	mark = func(v Value) {
		if v == nil || IsNil(v) {
			return
		}
		switch val := v.(type) {
		case Handle:
			if reachable[val] {
				return
			}
			reachable[val] = true
			if inst, ok := t.Get(val); ok {
				for _, fv := range inst.Fields {
					mark(fv)
				}
			}
		case *List:
			for _, e := range val.Elements {
				mark(e)
			}
		case *Function:
			if val.Closure != nil && !visitedEnv[val.Closure] {
				visitedEnv[val.Closure] = true
				val.Closure.Range(func(_ string, fv Value) bool {
					mark(fv)
					return true
				})
			}
		}
	}

	if root != nil {
		root.Range(func(_ string, v Value) bool {
			mark(v)
			return true
		})
	}

	for h := range t.cells {
		if !reachable[Handle(h)] {
			t.cells[h] = nil
		}
	}
}
