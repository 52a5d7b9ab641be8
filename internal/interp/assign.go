package interp

import (
	"github.com/arlox/arlox/internal/ast"
	"github.com/arlox/arlox/internal/token"
)

var compoundToBinary = map[token.Kind]token.Kind{
	token.PLUS_EQUAL:    token.PLUS,
	token.MINUS_EQUAL:   token.MINUS,
	token.STAR_EQUAL:    token.STAR,
	token.SLASH_EQUAL:   token.SLASH,
	token.PERCENT_EQUAL: token.PERCENT,
}

// evalAssign implements spec.md §4.4.3/§9's compound-assignment rule: the
// current value at the place is fetched (for compound ops), combined
// with the evaluated rhs using the §4.3 operator table, and written back
// to the place. Chained accessors (obj.list[i].field += v) round-trip
// because GetExpr/IndexExpr on List/Instance are pointer/handle based in
// this module; only String targets require writing the rebuilt value
// back up through evalPlaceSet (see SPEC_FULL.md's "Compound assignment"
// design note).
func (in *Interpreter) evalAssign(e *ast.AssignExpr) (Value, error) {
	var current Value
	if e.Op.Kind != token.EQUAL {
		v, err := in.eval(e.Target)
		if err != nil {
			return nil, err
		}
		current = v
	}

	rhs, err := in.eval(e.Value)
	if err != nil {
		return nil, err
	}

	var result Value
	if e.Op.Kind == token.EQUAL {
		result = rhs
	} else {
		baseOp, ok := compoundToBinary[e.Op.Kind]
		if !ok {
			return nil, rtErr(e.Op, "unsupported compound assignment operator")
		}
		combined, err := applyBinary(baseOp, current, rhs)
		if err != nil {
			return nil, rtErr(e.Op, err.Error())
		}
		result = combined
	}

	if v, ok := e.Target.(*ast.VarExpr); ok {
		if err := in.checkStrongAssign(v.Name, result); err != nil {
			return nil, err
		}
	}

	if err := in.evalPlaceSet(e.Target, result); err != nil {
		return nil, err
	}
	return result, nil
}

// checkStrongAssign implements spec.md §4.4.3's reassignment rule: a
// Strong (declared-type) binding only accepts a value of the matching
// kind; a non-Strong ("var") binding accepts anything.
func (in *Interpreter) checkStrongAssign(name token.Token, value Value) error {
	kind, ok := in.env.DeclaredKind(name.Lexeme)
	if !ok {
		return rtErr(name, "undefined variable '"+name.Lexeme+"'")
	}
	if kind == KindAny {
		return nil
	}
	if IsNil(value) {
		return nil
	}
	if KindOf(value) != kind {
		return rtErr(name, "cannot assign "+value.Type()+" to a "+kind.String()+" variable")
	}
	return nil
}

// evalPlaceSet writes newVal into the storage location named by target,
// which must be a VarExpr, GetExpr, or IndexExpr (spec.md §4.2's
// assignment-target restriction, enforced earlier by the parser).
func (in *Interpreter) evalPlaceSet(target ast.Expr, newVal Value) error {
	switch t := target.(type) {
	case *ast.VarExpr:
		if !in.env.Assign(t.Name.Lexeme, newVal) {
			return rtErr(t.Name, "undefined variable '"+t.Name.Lexeme+"'")
		}
		return nil

	case *ast.GetExpr:
		obj, err := in.eval(t.Object)
		if err != nil {
			return err
		}
		inst, err := in.instanceOf(t.Name, obj)
		if err != nil {
			return err
		}
		inst.Fields[t.Name.Lexeme] = newVal
		return nil

	case *ast.IndexExpr:
		obj, err := in.eval(t.Object)
		if err != nil {
			return err
		}
		idxVal, err := in.eval(t.Index)
		if err != nil {
			return err
		}
		idxNum, ok := idxVal.(Number)
		if !ok {
			return rtErr(t.Bracket, "index must be a number")
		}

		switch o := obj.(type) {
		case *List:
			idx, ok := o.NormalizeIndex(int(idxNum))
			if !ok {
				return rtErr(t.Bracket, "cannot index an empty list")
			}
			o.Elements[idx] = newVal
			return nil
		case String:
			runes := []rune(o)
			n := len(runes)
			if n == 0 {
				return rtErr(t.Bracket, "cannot index an empty string")
			}
			idx := int(idxNum) % n
			if idx < 0 {
				idx += n
			}
			replacement := []rune(displayString(newVal))
			if len(replacement) == 0 {
				replacement = []rune{0}
			}
			runes[idx] = replacement[0]
			return in.evalPlaceSet(t.Object, String(string(runes)))
		}
		return rtErr(t.Bracket, "only lists and strings can be indexed")
	}
	return rtErr(token.Token{}, "invalid assignment target")
}
