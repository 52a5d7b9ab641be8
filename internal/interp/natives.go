package interp

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"
)

// defaultRand backs Interpreter.rng with math/rand's global source
// (spec.md §4.6's `random` native has no determinism requirement outside
// of tests, which inject their own randSource).
type defaultRand struct{}

func (defaultRand) Float64() float64 { return rand.Float64() }

// registerNatives wires spec.md §4.6's native functions into the global
// environment, grounded on original_source/rlox/src/std_lib.rs's
// native_function! macro block.
func registerNatives(in *Interpreter) {
	define := func(name string, arity int, fn func(*Interpreter, []Value) (Value, error)) {
		in.globals.Define(name, KindAny, &NativeFunction{FnName: name, Arg: arity, Fn: fn})
	}

	in.globals.Define("PI", KindAny, Number(3.14159265359))

	define("debug", 1, func(in *Interpreter, args []Value) (Value, error) {
		fmt.Println(args[0])
		return Nil, nil
	})

	define("collect_garbage", 0, func(in *Interpreter, args []Value) (Value, error) {
		in.table.Sweep(in.env)
		return Nil, nil
	})

	define("len", 1, func(in *Interpreter, args []Value) (Value, error) {
		if l, ok := args[0].(*List); ok {
			return Number(l.Len()), nil
		}
		if s, ok := args[0].(String); ok {
			return Number(len([]rune(s))), nil
		}
		return Number(1), nil
	})

	define("clock", 0, func(in *Interpreter, args []Value) (Value, error) {
		return Number(time.Since(in.start).Milliseconds()), nil
	})

	define("random", 2, func(in *Interpreter, args []Value) (Value, error) {
		lo, ok1 := args[0].(Number)
		hi, ok2 := args[1].(Number)
		if !ok1 || !ok2 {
			return Nil, fmt.Errorf("random expects two numbers")
		}
		return Number(float64(lo) + in.rng.Float64()*float64(hi-lo)), nil
	})

	define("hashcode", 1, func(in *Interpreter, args []Value) (Value, error) {
		h := fnv.New64a()
		switch x := args[0].(type) {
		case Number:
			fmt.Fprintf(h, "%d", int64(x))
		case String:
			h.Write([]byte(x))
		default:
			return Nil, fmt.Errorf("invalid hashcode input")
		}
		return Number(h.Sum64() % (1 << 53)), nil
	})
}

// preludeSource defines the Stack/Queue/Hashmap collection classes
// embedded ahead of every user program, transcribed from
// original_source/rlox/src/std_lib.rs's STD_LIB_SCRIPT with three bugs
// fixed (see DESIGN.md's "Prelude bugs" and "Prelude's third bug fix"):
// resize() rehashed using an undefined `key` variable instead of each
// node's own key, get() had an unreachable `return head.val` after an
// unconditional `break`, and insert() updated an existing key through a
// nonexistent `value` field instead of `val`.
const preludeSource = `
class Entry {
    Entry(key, val) {
        this.key = key;
        this.val = val;
        this.next = nil;
    }
}

class Hashmap {
    Hashmap() {
        this.buckets = [];
        for i < 16 {
            this.buckets += nil;
        }
        this.size = 0;
        this.capacity = 16;
    }

    resize() {
        var new_capacity = this.capacity * 2;
        var new_table = [];
        for i < new_capacity {
            new_table += nil;
        }
        for i < this.capacity {
            var node = this.buckets[i];
            while node != nil {
                var next = node.next;
                var index = hashcode(node.key) % new_capacity;
                node.next = new_table[index];
                new_table[index] = node;
                node = next;
            }
        }

        this.buckets = new_table;
        this.capacity = new_capacity;
    }

    insert(key, value) {
        var hash = hashcode(key) % this.capacity;
        var head = this.buckets[hash];

        while head != nil {
            if head.key == key {
                head.val = value;
                return;
            }
            head = head.next;
        }

        var new_entry = Entry(key, value);
        new_entry.next = this.buckets[hash];
        this.buckets[hash] = new_entry;
        this.size += 1;
        if this.size > this.capacity * 0.75 {
            this.resize();
        }
    }

    remove(key) {
        var index = hashcode(key) % this.capacity;
        var node = this.buckets[index];
        var prev = nil;
        while node != nil {
            if node.key == key {
                if prev == nil {
                    this.buckets[index] = node.next;
                }
                else {
                    prev.next = node.next;
                }
                this.size = (this.size - 1 < 0) ? 0 : this.size - 1;
                return;
            }
            prev = node;
            node = node.next;
        }
    }

    get(key) {
        var hash = hashcode(key) % this.capacity;
        var head = this.buckets[hash];

        while head != nil {
            if head.key == key {
                return head.val;
            }
            head = head.next;
        }

        return nil;
    }
}

class Stack {
    Stack() {
        this.items = [];
    }

    push(item) {
        this.items += item;
    }

    pop() {
        var item = this.items[-1];
        this.items -= -1;
        return item;
    }

    count() {
        return #this.items;
    }
}

class Queue {
    Queue() {
        this.items = [];
    }

    front() {
        return this.items[0];
    }

    back() {
        return this.items[-1];
    }

    enqueue(item) {
        this.items += item;
    }

    dequeue() {
        var ret = this.items[0];
        this.items -= 0;
        return ret;
    }
}
`
