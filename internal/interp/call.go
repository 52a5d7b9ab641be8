package interp

import (
	"fmt"

	"github.com/arlox/arlox/internal/ast"
)

func (in *Interpreter) evalCall(e *ast.CallExpr) (Value, error) {
	callee, err := in.eval(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch c := callee.(type) {
	case *Class:
		return in.instantiate(e, c, args)
	case *Function:
		return in.callFunction(e, c, args)
	case *NativeFunction:
		if len(args) != c.Arity() {
			return nil, rtErr(e.Paren, fmt.Sprintf("expected %d arguments but got %d", c.Arity(), len(args)))
		}
		v, err := c.Fn(in, args)
		if err != nil {
			return nil, rtErr(e.Paren, err.Error())
		}
		return v, nil
	default:
		return nil, rtErr(e.Paren, "can only call functions and classes")
	}
}

// instantiate implements spec.md §4.4.6's constructor-call rule: allocate
// a new Instance, run its initializer (if any) ignoring any explicit
// return, and return the instance handle regardless.
func (in *Interpreter) instantiate(e *ast.CallExpr, class *Class, args []Value) (Value, error) {
	inst := NewInstance(class)
	handle := in.table.Alloc(inst)

	init := class.FindMethod(class.Name)
	if init == nil {
		if len(args) != 0 {
			return nil, rtErr(e.Paren, fmt.Sprintf("expected 0 arguments but got %d", len(args)))
		}
		return handle, nil
	}

	bound := init.Bind(handle)
	if _, err := in.invoke(e, bound, args); err != nil {
		return nil, err
	}
	return handle, nil
}

func (in *Interpreter) callFunction(e *ast.CallExpr, fn *Function, args []Value) (Value, error) {
	if fn.IsInit {
		// initializers are only reachable through instantiate(); a direct
		// call (e.g. via a bound method value) still honours is_init.
		v, err := in.invoke(e, fn, args)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	return in.invoke(e, fn, args)
}

// invoke runs a user function/method/lambda body in a fresh environment
// enclosed by its closure (spec.md §4.4.5).
func (in *Interpreter) invoke(e *ast.CallExpr, fn *Function, args []Value) (Value, error) {
	if len(args) != len(fn.Params) {
		return nil, rtErr(e.Paren, fmt.Sprintf("expected %d arguments but got %d", len(fn.Params), len(args)))
	}

	env := NewEnclosedEnvironment(fn.Closure)
	for i, param := range fn.Params {
		kind := KindAny
		if param.Typed {
			kind = declKindFromToken(param.Type.Kind)
			if !IsNil(args[i]) && KindOf(args[i]) != kind {
				return nil, rtErr(param.Name, "argument '"+param.Name.Lexeme+"' must be "+kind.String())
			}
		}
		env.Define(param.Name.Lexeme, kind, args[i])
	}

	previous := in.env
	in.env = env
	in.frames = append(in.frames, fn)
	defer func() {
		in.env = previous
		in.frames = in.frames[:len(in.frames)-1]
	}()

	for _, stmt := range fn.Body {
		sig, err := in.execute(stmt)
		if err != nil {
			return nil, err
		}
		if sig.kind == sigReturn {
			if fn.IsInit {
				return *fn.This, nil
			}
			return sig.value, nil
		}
	}

	if fn.IsInit {
		return *fn.This, nil
	}
	return Nil, nil
}
