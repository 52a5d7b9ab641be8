package parser

import (
	"testing"

	"github.com/arlox/arlox/internal/ast"
	"github.com/arlox/arlox/internal/lexer"
	"github.com/arlox/arlox/internal/token"
)

func parse(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	l := lexer.New(source)
	toks := l.ScanTokens()
	if len(l.Errors()) != 0 {
		t.Fatalf("unexpected lex errors: %v", l.Errors())
	}
	p := New(toks)
	prog := p.Parse()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return prog
}

func TestParseVarDecl(t *testing.T) {
	prog := parse(t, `var x = 1;`)
	if len(prog) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog))
	}
	decl, ok := prog[0].(*ast.VarDeclStmt)
	if !ok {
		t.Fatalf("expected *ast.VarDeclStmt, got %T", prog[0])
	}
	if decl.Typed {
		t.Error("var declaration should not be Typed")
	}
}

func TestParseTypedVarDeclMismatchIsRuntimeNotParse(t *testing.T) {
	prog := parse(t, `num x = "one";`)
	decl := prog[0].(*ast.VarDeclStmt)
	if !decl.Typed || decl.Type.Lexeme != "num" {
		t.Errorf("expected a Typed num decl, got %+v", decl)
	}
}

func TestParseCountedForDesugars(t *testing.T) {
	prog := parse(t, `for i < 10 { print(i); }`)
	block, ok := prog[0].(*ast.BlockStmt)
	if !ok || len(block.Statements) != 2 {
		t.Fatalf("expected a 2-statement block, got %#v", prog[0])
	}
	if _, ok := block.Statements[0].(*ast.VarDeclStmt); !ok {
		t.Errorf("expected the first statement to be the hidden init, got %T", block.Statements[0])
	}
	while, ok := block.Statements[1].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected a WhileStmt, got %T", block.Statements[1])
	}
	if while.StepCount != 1 {
		t.Errorf("StepCount = %d, want 1", while.StepCount)
	}
}

func TestParseForeachDesugarsWithStepCountTwo(t *testing.T) {
	prog := parse(t, `for x in [1, 2, 3] { print(x); }`)
	block := prog[0].(*ast.BlockStmt)
	if len(block.Statements) != 3 {
		t.Fatalf("expected 3 statements (x, x_iter, while), got %d", len(block.Statements))
	}
	while, ok := block.Statements[2].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected a WhileStmt, got %T", block.Statements[2])
	}
	if while.StepCount != 2 {
		t.Errorf("StepCount = %d, want 2", while.StepCount)
	}
}

func TestParseCompoundAssignDesugarsPostfix(t *testing.T) {
	prog := parse(t, `x++;`)
	stmt := prog[0].(*ast.ExprStmt)
	assign, ok := stmt.Expression.(*ast.AssignExpr)
	if !ok {
		t.Fatalf("expected *ast.AssignExpr, got %T", stmt.Expression)
	}
	if assign.Op.Kind != token.PLUS_EQUAL {
		t.Errorf("postfix ++ should desugar to PLUS_EQUAL, got %s", assign.Op.Kind)
	}
}

func TestParseTernaryAtOrPrecedence(t *testing.T) {
	prog := parse(t, `print(a || b ? 1 : 2);`)
	stmt := prog[0].(*ast.PrintStmt)
	if _, ok := stmt.Expression.(*ast.TernaryExpr); !ok {
		t.Fatalf("expected *ast.TernaryExpr, got %T", stmt.Expression)
	}
}

func TestParseClassAndSuperRequiresDerived(t *testing.T) {
	l := lexer.New(`class A { m() { return super.m(); } }`)
	toks := l.ScanTokens()
	p := New(toks)
	p.Parse()
	if len(p.Errors()) == 0 {
		t.Fatal("expected an error using 'super' in a non-derived class")
	}
}

func TestParseSuperAllowedInDerivedClass(t *testing.T) {
	prog := parse(t, `
		class A { m() { return 1; } }
		class B : A { m() { return super.m(); } }
	`)
	if len(prog) != 2 {
		t.Fatalf("expected 2 class declarations, got %d", len(prog))
	}
}

func TestParseIndexAndFieldChainIsAssignable(t *testing.T) {
	prog := parse(t, `a.b[0] += 1;`)
	stmt := prog[0].(*ast.ExprStmt)
	assign, ok := stmt.Expression.(*ast.AssignExpr)
	if !ok {
		t.Fatalf("expected *ast.AssignExpr, got %T", stmt.Expression)
	}
	if _, ok := assign.Target.(*ast.IndexExpr); !ok {
		t.Errorf("expected an IndexExpr target, got %T", assign.Target)
	}
}

func TestParseInvalidAssignmentTargetIsError(t *testing.T) {
	l := lexer.New(`1 + 2 = 3;`)
	toks := l.ScanTokens()
	p := New(toks)
	p.Parse()
	if len(p.Errors()) == 0 {
		t.Fatal("expected a parse error for an invalid assignment target")
	}
}

func TestParseLambdaLiteralArrowForm(t *testing.T) {
	prog := parse(t, `var add => |a, b| a + b;`)
	decl := prog[0].(*ast.VarDeclStmt)
	lam, ok := decl.Initializer.(*ast.LambdaExpr)
	if !ok {
		t.Fatalf("expected *ast.LambdaExpr, got %T", decl.Initializer)
	}
	if len(lam.Params) != 2 {
		t.Errorf("expected 2 params, got %d", len(lam.Params))
	}
	if _, ok := lam.Body[0].(*ast.ReturnStmt); !ok {
		t.Errorf("bare-expression lambda body should be wrapped in a ReturnStmt, got %T", lam.Body[0])
	}
}

func TestParseLambdaLiteralBlockForm(t *testing.T) {
	prog := parse(t, `var add = |a, b| { return a + b; };`)
	decl := prog[0].(*ast.VarDeclStmt)
	lam, ok := decl.Initializer.(*ast.LambdaExpr)
	if !ok {
		t.Fatalf("expected *ast.LambdaExpr, got %T", decl.Initializer)
	}
	if len(lam.Params) != 2 {
		t.Errorf("expected 2 params, got %d", len(lam.Params))
	}
}
