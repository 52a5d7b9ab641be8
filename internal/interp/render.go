package interp

import (
	"fmt"
	"sort"
	"strings"
)

// render implements spec.md §4.4.7's print/println rendering rules. It is
// a method (not a free function) because rendering an Instance handle or
// a list of handles requires dereferencing through the interpreter's
// InstanceTable — value.go's own String() methods can't do that, since a
// bare Handle carries no reference to the table that owns it.
func (in *Interpreter) render(v Value) string {
	return in.renderDepth(v, 0)
}

func (in *Interpreter) renderDepth(v Value, depth int) string {
	if v == nil || IsNil(v) {
		return "nil"
	}
	switch x := v.(type) {
	case *List:
		return in.renderList(x, depth)
	case Handle:
		return in.renderInstance(x, depth)
	default:
		return x.String()
	}
}

func (in *Interpreter) renderList(l *List, depth int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range l.Elements {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(in.renderDepth(e, depth))
	}
	b.WriteByte(']')
	return b.String()
}

func (in *Interpreter) renderInstance(h Handle, depth int) string {
	inst, ok := in.table.Get(h)
	if !ok {
		return "<freed instance>"
	}
	indent := strings.Repeat("  ", depth+1)
	closing := strings.Repeat("  ", depth)

	var b strings.Builder
	b.WriteString(inst.Class.Name)
	b.WriteString(" {\n")

	names := make([]string, 0, len(inst.Fields))
	for name := range inst.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "%s%s = %s\n", indent, name, in.renderDepth(inst.Fields[name], depth+1))
	}
	b.WriteString(closing)
	b.WriteByte('}')
	return b.String()
}
