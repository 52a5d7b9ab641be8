package interp

import (
	"github.com/arlox/arlox/internal/ast"
	"github.com/arlox/arlox/internal/token"
)

func (in *Interpreter) eval(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		return literalValue(e.Value), nil
	case *ast.ListExpr:
		elems := make([]Value, len(e.Elements))
		for i, el := range e.Elements {
			v, err := in.eval(el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return NewList(elems), nil
	case *ast.VarExpr:
		v, ok := in.env.Get(e.Name.Lexeme)
		if !ok {
			return nil, rtErr(e.Name, "undefined variable '"+e.Name.Lexeme+"'")
		}
		return v, nil
	case *ast.ThisExpr:
		v, ok := in.env.Get("this")
		if !ok {
			return nil, rtErr(e.Keyword, "'this' used outside a method")
		}
		return v, nil
	case *ast.SuperExpr:
		return in.evalSuper(e)
	case *ast.GroupingExpr:
		return in.eval(e.Expression)
	case *ast.UnaryExpr:
		v, err := in.eval(e.Right)
		if err != nil {
			return nil, err
		}
		result, err := applyUnary(e.Op.Kind, v)
		if err != nil {
			return nil, rtErr(e.Op, err.Error())
		}
		return result, nil
	case *ast.BinaryExpr:
		return in.evalBinary(e)
	case *ast.LogicalExpr:
		return in.evalLogical(e)
	case *ast.TernaryExpr:
		cond, err := in.eval(e.Cond)
		if err != nil {
			return nil, err
		}
		if truthy(cond) {
			return in.eval(e.Then)
		}
		return in.eval(e.Else)
	case *ast.TypeTestExpr:
		return in.evalTypeTest(e)
	case *ast.CallExpr:
		return in.evalCall(e)
	case *ast.GetExpr:
		return in.evalGet(e)
	case *ast.IndexExpr:
		return in.evalIndex(e)
	case *ast.LambdaExpr:
		return &Function{Params: e.Params, Body: e.Body, Closure: in.env, Kind: FuncAnon}, nil
	case *ast.AssignExpr:
		return in.evalAssign(e)
	}
	return nil, nil
}

func literalValue(v any) Value {
	switch x := v.(type) {
	case nil:
		return Nil
	case bool:
		return Boolean(x)
	case float64:
		return Number(x)
	case string:
		return String(x)
	}
	return Nil
}

func (in *Interpreter) evalBinary(e *ast.BinaryExpr) (Value, error) {
	left, err := in.eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(e.Right)
	if err != nil {
		return nil, err
	}
	result, err := applyBinary(e.Op.Kind, left, right)
	if err != nil {
		return nil, rtErr(e.Op, err.Error())
	}
	return result, nil
}

func (in *Interpreter) evalLogical(e *ast.LogicalExpr) (Value, error) {
	left, err := in.eval(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op.Kind == token.OR {
		if truthy(left) {
			return left, nil
		}
	} else {
		if !truthy(left) {
			return left, nil
		}
	}
	return in.eval(e.Right)
}

func (in *Interpreter) evalTypeTest(e *ast.TypeTestExpr) (Value, error) {
	v, err := in.eval(e.Value)
	if err != nil {
		return nil, err
	}
	if e.Op.Kind == token.IS {
		return applyIs(v, e.Type.Kind), nil
	}
	result, err := applyAs(v, e.Type.Kind)
	if err != nil {
		return nil, rtErr(e.Op, err.Error())
	}
	return result, nil
}

func (in *Interpreter) evalGet(e *ast.GetExpr) (Value, error) {
	obj, err := in.eval(e.Object)
	if err != nil {
		return nil, err
	}
	inst, err := in.instanceOf(e.Name, obj)
	if err != nil {
		return nil, err
	}
	if field, ok := inst.Fields[e.Name.Lexeme]; ok {
		return field, nil
	}
	if method := inst.Class.FindMethod(e.Name.Lexeme); method != nil {
		handle := obj.(Handle)
		return method.Bind(handle), nil
	}
	return nil, rtErr(e.Name, "undefined field or method '"+e.Name.Lexeme+"'")
}

func (in *Interpreter) instanceOf(at token.Token, v Value) (*Instance, error) {
	h, ok := v.(Handle)
	if !ok {
		return nil, rtErr(at, "only instances have fields or methods")
	}
	inst, ok := in.table.Get(h)
	if !ok {
		return nil, rtErr(at, "instance no longer exists")
	}
	return inst, nil
}

func (in *Interpreter) evalIndex(e *ast.IndexExpr) (Value, error) {
	obj, err := in.eval(e.Object)
	if err != nil {
		return nil, err
	}
	idxVal, err := in.eval(e.Index)
	if err != nil {
		return nil, err
	}
	idxNum, ok := idxVal.(Number)
	if !ok {
		return nil, rtErr(e.Bracket, "index must be a number")
	}

	switch o := obj.(type) {
	case *List:
		idx, ok := o.NormalizeIndex(int(idxNum))
		if !ok {
			return nil, rtErr(e.Bracket, "cannot index an empty list")
		}
		v := o.Elements[idx]
		if v == nil {
			return Nil, nil
		}
		return v, nil
	case String:
		runes := []rune(o)
		n := len(runes)
		if n == 0 {
			return nil, rtErr(e.Bracket, "cannot index an empty string")
		}
		m := int(idxNum) % n
		if m < 0 {
			m += n
		}
		return String(string(runes[m])), nil
	}
	return nil, rtErr(e.Bracket, "only lists and strings can be indexed")
}

// evalSuper implements spec.md §4.4.6: `super.m` resolves `m` starting
// at the enclosing method's own class's superclass (not the runtime
// class of `this`), then binds it to the current `this` handle. Because
// instances are handle-addressed, the super call mutates the very same
// Instance cell as the outer `this` — no separate merge-back step is
// needed.
func (in *Interpreter) evalSuper(e *ast.SuperExpr) (Value, error) {
	frame := in.currentFrame()
	if frame == nil || frame.OwnerClass == nil || frame.OwnerClass.Super == nil {
		return nil, rtErr(e.Keyword, "'super' used outside a derived class method")
	}
	method := frame.OwnerClass.Super.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, rtErr(e.Method, "undefined superclass method '"+e.Method.Lexeme+"'")
	}
	thisVal, ok := in.env.Get("this")
	if !ok {
		return nil, rtErr(e.Keyword, "'super' used outside a method")
	}
	handle := thisVal.(Handle)
	return method.Bind(handle), nil
}

func (in *Interpreter) currentFrame() *Function {
	if len(in.frames) == 0 {
		return nil
	}
	return in.frames[len(in.frames)-1]
}
