// Package interp implements the tree-walking evaluator: the value model,
// the lexically scoped Environment, the InstanceTable, and statement/
// expression evaluation.
package interp

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a plain runtime value. Unlike the reference implementation,
// there is no separate "Strong" tag on the value itself — the "strong"
// discipline is a property of the binding that holds the value (see
// Environment / DeclKind), per spec.md §9's recommended redesign.
type Value interface {
	Type() string
	String() string
}

// DeclKind names the declared kind of a binding, used to enforce the
// "strong" assignment-compatibility rule of spec.md §4.4.3. KindAny means
// the binding was declared with "var" and accepts any Value.
type DeclKind int

const (
	KindAny DeclKind = iota
	KindNumber
	KindString
	KindBoolean
)

func (k DeclKind) String() string {
	switch k {
	case KindNumber:
		return "num"
	case KindString:
		return "string"
	case KindBoolean:
		return "bool"
	default:
		return "var"
	}
}

// KindOf reports the DeclKind a plain Value belongs to, or KindAny if the
// value's type has no strong counterpart (List, Function, Class, Instance).
func KindOf(v Value) DeclKind {
	switch v.(type) {
	case Number:
		return KindNumber
	case String:
		return KindString
	case Boolean:
		return KindBoolean
	default:
		return KindAny
	}
}

// ---- scalar values ----

type Number float64

func (Number) Type() string { return "NUMBER" }
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

type String string

func (String) Type() string     { return "STRING" }
func (s String) String() string { return string(s) }

type Boolean bool

func (Boolean) Type() string { return "BOOLEAN" }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Nil is the singleton absent value.
type nilValue struct{}

func (nilValue) Type() string   { return "NIL" }
func (nilValue) String() string { return "nil" }

var Nil Value = nilValue{}

func IsNil(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(nilValue)
	return ok
}

// ---- list ----

// List is an ordered, mutable sequence of optional values. It is always
// handled through a pointer so aliasing (two bindings, one list) works
// the same way Go's own slice-of-pointer semantics would suggest.
type List struct {
	Elements []Value
}

func NewList(elems []Value) *List {
	return &List{Elements: elems}
}

func (*List) Type() string { return "LIST" }

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range l.Elements {
		if i > 0 {
			b.WriteString(", ")
		}
		if IsNil(e) {
			b.WriteString("nil")
		} else {
			b.WriteString(e.String())
		}
	}
	b.WriteByte(']')
	return b.String()
}

// Len reports the list's element count.
func (l *List) Len() int { return len(l.Elements) }

// NormalizeIndex applies the Euclidean-modulo indexing rule of spec.md
// §4.4.4/§8.3: the effective index is idx mod length, so -1 is the last
// element. Returns false if the list is empty.
func (l *List) NormalizeIndex(idx int) (int, bool) {
	n := len(l.Elements)
	if n == 0 {
		return 0, false
	}
	m := idx % n
	if m < 0 {
		m += n
	}
	return m, true
}

// ---- function ----

// Callable is implemented by user functions/methods/lambdas and by
// native (host-provided) functions.
type Callable interface {
	Value
	Arity() int
	Name() string
}

// ---- class ----

// Class is a runtime class descriptor (spec.md §3.5). Method lookup
// recurses up Super, following the teacher's ClassInfo.lookupMethod
// shape.
type Class struct {
	Name    string
	Super   *Class
	Methods map[string]*Function
}

func NewClass(name string, super *Class) *Class {
	return &Class{Name: name, Super: super, Methods: make(map[string]*Function)}
}

func (*Class) Type() string     { return "CLASS" }
func (c *Class) String() string { return fmt.Sprintf("class %s", c.Name) }

// Arity reports the argument count of the class's initializer, or 0 if
// it has none.
func (c *Class) Arity() int {
	if init := c.FindMethod(c.Name); init != nil {
		return init.Arity()
	}
	return 0
}

// FindMethod walks the superclass chain for a method of the given name.
func (c *Class) FindMethod(name string) *Function {
	if c == nil {
		return nil
	}
	if m, ok := c.Methods[name]; ok {
		return m
	}
	return c.Super.FindMethod(name)
}

// Initializer returns the method whose name equals the class name, if any.
func (c *Class) Initializer() *Function {
	return c.Methods[c.Name]
}

// ---- instance ----

// Instance is the payload stored in the InstanceTable, addressed only
// through a Handle value (see instance_table.go).
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Value)}
}

// Handle is a stable index into the interpreter's InstanceTable. It is
// the Value variant spec.md §3.2 calls "Instance(handle)".
type Handle int

func (Handle) Type() string { return "INSTANCE" }
func (h Handle) String() string {
	return fmt.Sprintf("<instance #%d>", int(h))
}
