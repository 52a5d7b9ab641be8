package interp

import "github.com/arlox/arlox/internal/ast"

// FunctionKind distinguishes plain functions from methods (which bind
// `this`) and anonymous lambdas (spec.md §3.5).
type FunctionKind int

const (
	FuncNormal FunctionKind = iota
	FuncMethod
	FuncAnon
)

// Function is a user-defined callable: a named function, a bound method,
// or a lambda literal. It always carries the Environment it closed over
// at definition time (spec.md §4.4.5).
type Function struct {
	FnName   string
	Params   []ast.Param
	Body     []ast.Stmt
	Closure  *Environment
	Kind     FunctionKind
	IsInit   bool

	// This, when set, is the bound receiver handle for a method produced
	// by Bind. It is nil for a plain function/lambda.
	This *Handle

	// OwnerClass is the class whose body declared this method; nil for
	// plain functions/lambdas. super.m resolution (spec.md §4.4.6) looks
	// up OwnerClass.Super, not the runtime class of `this`.
	OwnerClass *Class
}

func (*Function) Type() string { return "FUNCTION" }

func (f *Function) String() string {
	if f.FnName == "" {
		return "<anonymous fn>"
	}
	return "<fn " + f.FnName + ">"
}

func (f *Function) Arity() int  { return len(f.Params) }
func (f *Function) Name() string { return f.FnName }

// Bind returns a new Function wrapping the same declaration but whose
// closure is a fresh environment defining "this" = the given instance
// handle, per spec.md §4.4.6.
func (f *Function) Bind(this Handle) *Function {
	env := NewEnclosedEnvironment(f.Closure)
	env.Define("this", KindAny, this)
	bound := *f
	bound.Closure = env
	bound.Kind = FuncMethod
	bound.This = &this
	return &bound
}

// NativeFunction is a host-provided builtin (spec.md §4.6).
type NativeFunction struct {
	FnName string
	Arg    int
	Fn     func(interp *Interpreter, args []Value) (Value, error)
}

func (*NativeFunction) Type() string       { return "FUNCTION" }
func (n *NativeFunction) String() string   { return "<native fn " + n.FnName + ">" }
func (n *NativeFunction) Arity() int       { return n.Arg }
func (n *NativeFunction) Name() string     { return n.FnName }
