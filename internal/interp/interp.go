package interp

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/arlox/arlox/internal/ast"
	"github.com/arlox/arlox/internal/errors"
	"github.com/arlox/arlox/internal/lexer"
	"github.com/arlox/arlox/internal/parser"
	"github.com/arlox/arlox/internal/token"
)

// signalKind distinguishes the control-flow signals a statement can
// propagate up the call/block stack (spec.md §4.4.1). Return/Break/
// Continue are deliberately NOT Value variants here (see DESIGN.md);
// they travel alongside the normal (Value, error) results instead.
type signalKind int

const (
	sigNone signalKind = iota
	sigReturn
	sigBreak
	sigContinue
)

type signal struct {
	kind  signalKind
	value Value
}

var noSignal = signal{}

// Interpreter owns the single mutable evaluation state described in
// spec.md §5: the current environment, the InstanceTable, the captured
// output sink, and the monotonic clock.
type Interpreter struct {
	globals *Environment
	env     *Environment
	table   *InstanceTable
	out     strings.Builder
	writer  io.Writer
	start   time.Time
	rng     randSource
	frames  []*Function
}

// randSource abstracts the source behind the `random` native so tests can
// inject deterministic behaviour (spec.md §8.1's determinism property).
// `clock` is not covered: it always reads the real time since start.
type randSource interface {
	Float64() float64
}

// New creates an interpreter that echoes print/println output to os.Stdout
// as it runs, mirroring original_source/rlox/src/interpreter.rs's
// `print!("{}", out)` (the source echoes immediately, in addition to the
// buffered Output() sink the CLI's `--stdout` flag and the Host API read).
func New() *Interpreter {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter is identical to New but echoes to w instead of os.Stdout;
// used by tests and embedders who want a captured interpreter with no
// real-stdout side effect (pass io.Discard).
func NewWithWriter(w io.Writer) *Interpreter {
	in := &Interpreter{
		globals: NewEnvironment(),
		table:   NewInstanceTable(),
		writer:  w,
		start:   time.Now(),
		rng:     defaultRand{},
	}
	in.env = in.globals
	registerNatives(in)
	in.loadPrelude()
	return in
}

// Output returns the interpreter's captured output sink, accumulated by
// print/println since the last time it was cleared.
func (in *Interpreter) Output() string { return in.out.String() }

// ClearOutput empties the captured output sink (used by the REPL driver
// between lines).
func (in *Interpreter) ClearOutput() { in.out.Reset() }

// Run scans, parses, and executes source against the interpreter's
// existing global environment, accumulating output in the sink.
func (in *Interpreter) Run(source string) error {
	lx := lexer.New(source)
	tokens := lx.ScanTokens()
	if lexErrs := lx.Errors(); len(lexErrs) > 0 {
		e := lexErrs[0]
		return errors.New(e.Line, "", e.Message)
	}

	p := parser.New(tokens)
	program := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		return errs[0]
	}

	for _, stmt := range program {
		sig, err := in.execute(stmt)
		if err != nil {
			return err
		}
		if sig.kind == sigReturn {
			// a bare top-level return ends the run early; nothing else
			// to do with its value at the top level.
			return nil
		}
	}
	return nil
}

func (in *Interpreter) loadPrelude() {
	lx := lexer.New(preludeSource)
	tokens := lx.ScanTokens()
	p := parser.New(tokens)
	program := p.Parse()
	for _, stmt := range program {
		if _, err := in.execute(stmt); err != nil {
			panic("prelude failed to execute: " + err.Error())
		}
	}
}

// GetGlobal looks up a name in the final global environment, used by the
// Host embedding API (pkg/lox).
func (in *Interpreter) GetGlobal(name string) (Value, bool) {
	return in.globals.Get(name)
}

// Table exposes the InstanceTable so the Host layer can dereference
// handles when rendering List<T> results.
func (in *Interpreter) Table() *InstanceTable { return in.table }

func rtErr(t token.Token, message string) error {
	return errors.AtToken(t.Line, t.Lexeme, t.Kind == token.EOF, message)
}

// ---- statement execution ----

func (in *Interpreter) execute(stmt ast.Stmt) (signal, error) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		_, err := in.eval(s.Expression)
		return noSignal, err
	case *ast.PrintStmt:
		v, err := in.eval(s.Expression)
		if err != nil {
			return noSignal, err
		}
		text := in.render(v)
		if s.Newline {
			text += "\n"
		}
		in.out.WriteString(text)
		io.WriteString(in.writer, text)
		return noSignal, nil
	case *ast.VarDeclStmt:
		return noSignal, in.execVarDecl(s)
	case *ast.BlockStmt:
		return in.executeBlock(s.Statements, NewEnclosedEnvironment(in.env))
	case *ast.IfStmt:
		return in.execIf(s)
	case *ast.WhileStmt:
		return in.execWhile(s)
	case *ast.FunctionStmt:
		fn := &Function{FnName: s.Name.Lexeme, Params: s.Params, Body: s.Body, Closure: in.env, Kind: FuncNormal}
		in.env.Define(s.Name.Lexeme, KindAny, fn)
		return noSignal, nil
	case *ast.ReturnStmt:
		var val Value = Nil
		if s.Value != nil {
			v, err := in.eval(s.Value)
			if err != nil {
				return noSignal, err
			}
			val = v
		}
		return signal{kind: sigReturn, value: val}, nil
	case *ast.BreakStmt:
		return signal{kind: sigBreak}, nil
	case *ast.ContinueStmt:
		return signal{kind: sigContinue}, nil
	case *ast.ClassStmt:
		return noSignal, in.execClassDecl(s)
	}
	return noSignal, nil
}

func (in *Interpreter) execVarDecl(s *ast.VarDeclStmt) error {
	var val Value = Nil
	if s.Initializer != nil {
		v, err := in.eval(s.Initializer)
		if err != nil {
			return err
		}
		val = v
	}
	kind := KindAny
	if s.Typed {
		kind = declKindFromToken(s.Type.Kind)
		if !IsNil(val) && KindOf(val) != kind {
			return rtErr(s.Name, "cannot initialize a "+kind.String()+" variable with a "+val.Type())
		}
	}
	in.env.Define(s.Name.Lexeme, kind, val)
	return nil
}

func declKindFromToken(k token.Kind) DeclKind {
	switch k {
	case token.NUM:
		return KindNumber
	case token.STRING_KW:
		return KindString
	case token.BOOL:
		return KindBoolean
	}
	return KindAny
}

// executeBlock runs stmts in env, restores the previous current
// environment on exit, and runs the instance-table sweep (spec.md
// §4.4.1, §3.4).
func (in *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) (signal, error) {
	previous := in.env
	in.env = env
	defer func() {
		in.env = previous
		in.table.Sweep(in.env)
	}()

	for _, stmt := range stmts {
		sig, err := in.execute(stmt)
		if err != nil {
			return noSignal, err
		}
		if sig.kind != sigNone {
			return sig, nil
		}
	}
	return noSignal, nil
}

func (in *Interpreter) execIf(s *ast.IfStmt) (signal, error) {
	cond, err := in.eval(s.Cond)
	if err != nil {
		return noSignal, err
	}
	if truthy(cond) {
		return in.execute(s.Then)
	}
	for _, clause := range s.ElseIfs {
		c, err := in.eval(clause.Cond)
		if err != nil {
			return noSignal, err
		}
		if truthy(c) {
			return in.execute(clause.Then)
		}
	}
	if s.Else != nil {
		return in.execute(s.Else)
	}
	return noSignal, nil
}

// execWhile implements spec.md §4.4.2, including the StepCount mechanism
// (SPEC_FULL.md §4.2) for re-executing a desugared for-loop's trailing
// step statement(s) when a Continue fires.
func (in *Interpreter) execWhile(s *ast.WhileStmt) (signal, error) {
	block, isBlock := s.Body.(*ast.BlockStmt)
	for {
		cond, err := in.eval(s.Cond)
		if err != nil {
			return noSignal, err
		}
		if !truthy(cond) {
			return noSignal, nil
		}

		if isBlock && s.StepCount > 0 {
			sig, err := in.runLoopBody(block, s.StepCount)
			if err != nil {
				return noSignal, err
			}
			if sig.kind == sigBreak {
				return noSignal, nil
			}
			if sig.kind == sigReturn {
				return sig, nil
			}
			continue
		}

		sig, err := in.execute(s.Body)
		if err != nil {
			return noSignal, err
		}
		switch sig.kind {
		case sigBreak:
			return noSignal, nil
		case sigReturn:
			return sig, nil
		}
	}
}

// runLoopBody executes a desugared for-loop's body block. On a Continue
// from any depth, it still re-executes the block's trailing stepCount
// statements (the loop's increment step(s)) before the caller retests
// the condition.
func (in *Interpreter) runLoopBody(block *ast.BlockStmt, stepCount int) (signal, error) {
	env := NewEnclosedEnvironment(in.env)
	previous := in.env
	in.env = env
	defer func() {
		in.env = previous
		in.table.Sweep(in.env)
	}()

	n := len(block.Statements)
	start := n - stepCount
	if start < 0 {
		start = 0
	}

	for i, stmt := range block.Statements {
		sig, err := in.execute(stmt)
		if err != nil {
			return noSignal, err
		}
		if sig.kind == sigContinue {
			if i >= start {
				// the continue fired from inside a step statement itself;
				// nothing further to re-run.
				return noSignal, nil
			}
			for j := start; j < n; j++ {
				sig2, err := in.execute(block.Statements[j])
				if err != nil {
					return noSignal, err
				}
				if sig2.kind != sigNone {
					return sig2, nil
				}
			}
			return noSignal, nil
		}
		if sig.kind != sigNone {
			return sig, nil
		}
	}
	return noSignal, nil
}
