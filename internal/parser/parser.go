// Package parser implements the recursive-descent, predictive parser
// described in spec.md §4.2.
package parser

import (
	"github.com/arlox/arlox/internal/ast"
	"github.com/arlox/arlox/internal/errors"
	"github.com/arlox/arlox/internal/token"
)

const maxArgs = 255

// Parser consumes a flat token stream and produces a program (a slice of
// top-level statements).
type Parser struct {
	tokens  []token.Token
	current int
	errs    []*errors.CompilerError

	inClass   bool
	inDerived bool
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Errors returns every parse error accumulated during Parse.
func (p *Parser) Errors() []*errors.CompilerError {
	return p.errs
}

// Parse parses the full token stream into a program.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// ---- token stream helpers ----

func (p *Parser) peek() token.Token  { return p.tokens[p.current] }
func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}
func (p *Parser) isAtEnd() bool { return p.peek().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return kind == token.EOF
	}
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, message string) token.Token {
	if p.check(kind) {
		return p.advance()
	}
	p.errorAt(p.peek(), message)
	return p.peek()
}

func (p *Parser) errorAt(t token.Token, message string) {
	p.errs = append(p.errs, errors.AtToken(t.Line, t.Lexeme, t.Kind == token.EOF, message))
}

// synchronize discards tokens until the next statement boundary so a
// single parse error does not cascade into spurious follow-on errors.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.SEMICOLON {
			return
		}
		switch p.peek().Kind {
		case token.CLASS, token.FN, token.VAR, token.NUM, token.STRING_KW,
			token.BOOL, token.FOR, token.IF, token.WHILE, token.PRINT,
			token.PRINTLN, token.RETURN:
			return
		}
		p.advance()
	}
}

func isTypeKeyword(k token.Kind) bool {
	return k == token.NUM || k == token.STRING_KW || k == token.BOOL
}

// ---- declarations ----

func (p *Parser) declaration() (s ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				s = nil
				return
			}
			panic(r)
		}
	}()

	switch {
	case p.match(token.VAR, token.NUM, token.STRING_KW, token.BOOL):
		return p.typedVarDecl()
	case p.match(token.CLASS):
		return p.classDecl()
	case p.match(token.FN):
		return p.functionStmt("function")
	default:
		return p.statement()
	}
}

type parseError struct{}

func (p *Parser) fail(t token.Token, message string) {
	p.errorAt(t, message)
	panic(parseError{})
}

func (p *Parser) typedVarDecl() ast.Stmt {
	kw := p.previous()
	typed := kw.Kind != token.VAR
	name := p.consume(token.IDENTIFIER, "expected variable name")

	decl := &ast.VarDeclStmt{Name: name, Type: kw, Typed: typed}

	switch {
	case p.match(token.EQUAL):
		decl.Initializer = p.expression()
	case p.match(token.ARROW):
		decl.Initializer = p.lambdaLiteral()
	}
	p.consume(token.SEMICOLON, "expected ';' after variable declaration")
	return decl
}

func (p *Parser) lambdaLiteral() ast.Expr {
	p.consume(token.PIPE, "expected '|' to start lambda parameters")
	params := p.paramList()
	p.consume(token.PIPE, "expected '|' after lambda parameters")
	body := p.lambdaBody()
	return &ast.LambdaExpr{Params: params, Body: body}
}

// lambdaBody accepts either a block `{ ... }` or a bare expression, which
// is wrapped in an implicit return.
func (p *Parser) lambdaBody() []ast.Stmt {
	if p.check(token.LEFT_BRACE) {
		p.advance()
		return p.blockStatements()
	}
	expr := p.expression()
	return []ast.Stmt{&ast.ReturnStmt{Keyword: p.previous(), Value: expr}}
}

func (p *Parser) paramList() []ast.Param {
	var params []ast.Param
	if !p.check(token.PIPE) && !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), "too many parameters")
			}
			name := p.consume(token.IDENTIFIER, "expected parameter name")
			param := ast.Param{Name: name}
			if p.match(token.COLON) {
				if !isTypeKeyword(p.peek().Kind) {
					p.fail(p.peek(), "expected a type keyword after ':'")
				}
				param.Type = p.advance()
				param.Typed = true
			}
			params = append(params, param)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	return params
}

func (p *Parser) classDecl() ast.Stmt {
	name := p.consume(token.IDENTIFIER, "expected class name")

	var super *ast.VarExpr
	wasDerived := p.inDerived
	if p.match(token.COLON) {
		superName := p.consume(token.IDENTIFIER, "expected superclass name")
		super = &ast.VarExpr{Name: superName}
		p.inDerived = true
	}

	wasInClass := p.inClass
	p.inClass = true

	p.consume(token.LEFT_BRACE, "expected '{' before class body")
	var methods []*ast.FunctionStmt
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		methods = append(methods, p.methodSig())
	}
	p.consume(token.RIGHT_BRACE, "expected '}' after class body")

	p.inClass = wasInClass
	p.inDerived = wasDerived

	return &ast.ClassStmt{Name: name, Superclass: super, Methods: methods}
}

func (p *Parser) methodSig() *ast.FunctionStmt {
	return p.funSig()
}

func (p *Parser) functionStmt(kind string) ast.Stmt {
	return p.funSig()
}

func (p *Parser) funSig() *ast.FunctionStmt {
	name := p.consume(token.IDENTIFIER, "expected a name")
	p.consume(token.LEFT_PAREN, "expected '(' after name")
	var params []ast.Param
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), "too many parameters")
			}
			pname := p.consume(token.IDENTIFIER, "expected parameter name")
			param := ast.Param{Name: pname}
			if p.match(token.COLON) {
				if !isTypeKeyword(p.peek().Kind) {
					p.fail(p.peek(), "expected a type keyword after ':'")
				}
				param.Type = p.advance()
				param.Typed = true
			}
			params = append(params, param)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_PAREN, "expected ')' after parameters")
	p.consume(token.LEFT_BRACE, "expected '{' before body")
	body := p.blockStatements()
	return &ast.FunctionStmt{Name: name, Params: params, Body: body}
}

// ---- statements ----

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.BREAK):
		kw := p.previous()
		p.consume(token.SEMICOLON, "expected ';' after 'break'")
		return &ast.BreakStmt{Keyword: kw}
	case p.match(token.CONTINUE):
		kw := p.previous()
		p.consume(token.SEMICOLON, "expected ';' after 'continue'")
		return &ast.ContinueStmt{Keyword: kw}
	case p.match(token.PRINT, token.PRINTLN):
		return p.printStatement()
	case p.match(token.LEFT_BRACE):
		return &ast.BlockStmt{Statements: p.blockStatements()}
	default:
		return p.exprStatement()
	}
}

func (p *Parser) blockStatements() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.consume(token.RIGHT_BRACE, "expected '}' after block")
	return stmts
}

func (p *Parser) printStatement() ast.Stmt {
	newline := p.previous().Kind == token.PRINTLN
	p.consume(token.LEFT_PAREN, "expected '(' after print/println")
	expr := p.expression()
	p.consume(token.RIGHT_PAREN, "expected ')' after expression")
	p.consume(token.SEMICOLON, "expected ';' after statement")
	return &ast.PrintStmt{Expression: expr, Newline: newline}
}

func (p *Parser) exprStatement() ast.Stmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "expected ';' after expression")
	return &ast.ExprStmt{Expression: expr}
}

func (p *Parser) returnStatement() ast.Stmt {
	kw := p.previous()
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "expected ';' after return value")
	return &ast.ReturnStmt{Keyword: kw, Value: value}
}

func (p *Parser) ifStatement() ast.Stmt {
	cond := p.expression()
	then := p.statement()
	stmt := &ast.IfStmt{Cond: cond, Then: then}
	for p.match(token.ELSE_IF) {
		c := p.expression()
		t := p.statement()
		stmt.ElseIfs = append(stmt.ElseIfs, ast.ElseIfClause{Cond: c, Then: t})
	}
	if p.match(token.ELSE) {
		stmt.Else = p.statement()
	}
	return stmt
}

func (p *Parser) whileStatement() ast.Stmt {
	cond := p.expression()
	body := p.statement()
	return &ast.WhileStmt{Cond: cond, Body: body}
}

// forStatement implements the three forHead variants of spec.md §4.2 by
// desugaring to a block containing the initializer(s) followed by an
// equivalent While loop annotated with StepCount (SPEC_FULL.md §4.2).
func (p *Parser) forStatement() ast.Stmt {
	switch {
	case p.match(token.VAR, token.NUM, token.STRING_KW, token.BOOL):
		return p.classicForStatement()
	case p.check(token.IDENTIFIER) && p.checkNext(token.LESS):
		return p.countedForStatement()
	case p.check(token.IDENTIFIER) && p.checkNext(token.IN):
		return p.foreachStatement()
	default:
		p.fail(p.peek(), "expected a for-loop head")
		return nil
	}
}

func (p *Parser) checkNext(kind token.Kind) bool {
	if p.current+1 >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+1].Kind == kind
}

func (p *Parser) classicForStatement() ast.Stmt {
	init := p.typedVarDecl()
	cond := p.expression()
	p.consume(token.SEMICOLON, "expected ';' after loop condition")
	incr := p.expression()
	body := p.statement()

	incrStmt := &ast.ExprStmt{Expression: incr}
	blockBody := &ast.BlockStmt{Statements: []ast.Stmt{body, incrStmt}}
	whileStmt := &ast.WhileStmt{Cond: cond, Body: blockBody, StepCount: 1}
	return &ast.BlockStmt{Statements: []ast.Stmt{init, whileStmt}}
}

func (p *Parser) countedForStatement() ast.Stmt {
	name := p.advance() // IDENTIFIER
	p.advance()          // LESS
	limit := p.unaryOrHigherForCount()
	body := p.statement()

	init := &ast.VarDeclStmt{
		Name: name, Type: token.New(token.VAR, "var", nil, name.Line),
		Initializer: &ast.LiteralExpr{Value: float64(0)},
	}
	cond := &ast.BinaryExpr{
		Left:  &ast.VarExpr{Name: name},
		Op:    token.New(token.LESS, "<", nil, name.Line),
		Right: limit,
	}
	incr := &ast.AssignExpr{
		Target: &ast.VarExpr{Name: name},
		Op:     token.New(token.PLUS_EQUAL, "+=", nil, name.Line),
		Value:  &ast.LiteralExpr{Value: float64(1)},
	}
	incrStmt := &ast.ExprStmt{Expression: incr}
	blockBody := &ast.BlockStmt{Statements: []ast.Stmt{body, incrStmt}}
	whileStmt := &ast.WhileStmt{Cond: cond, Body: blockBody, StepCount: 1}
	return &ast.BlockStmt{Statements: []ast.Stmt{init, whileStmt}}
}

// unaryOrHigherForCount parses the counted-for limit expression, which is
// everything up to the body statement; the full expression grammar
// applies here (e.g. `for i < len(xs)`).
func (p *Parser) unaryOrHigherForCount() ast.Expr {
	return p.expression()
}

func (p *Parser) foreachStatement() ast.Stmt {
	name := p.advance() // IDENTIFIER
	p.advance()          // IN
	collection := p.expression()
	body := p.statement()

	iterName := token.New(token.IDENTIFIER, name.Lexeme+"_iter", nil, name.Line)

	initIter := &ast.VarDeclStmt{
		Name: iterName, Type: token.New(token.VAR, "var", nil, name.Line),
		Initializer: &ast.LiteralExpr{Value: float64(0)},
	}
	initX := &ast.VarDeclStmt{
		Name: name, Type: token.New(token.VAR, "var", nil, name.Line),
		Initializer: &ast.IndexExpr{Object: collection, Bracket: name, Index: &ast.LiteralExpr{Value: float64(0)}},
	}
	cond := &ast.BinaryExpr{
		Left:  &ast.VarExpr{Name: iterName},
		Op:    token.New(token.LESS, "<", nil, name.Line),
		Right: &ast.UnaryExpr{Op: token.New(token.HASH, "#", nil, name.Line), Right: collection},
	}
	rebind := &ast.AssignExpr{
		Target: &ast.VarExpr{Name: name},
		Op:     token.New(token.EQUAL, "=", nil, name.Line),
		Value:  &ast.IndexExpr{Object: collection, Bracket: name, Index: &ast.VarExpr{Name: iterName}},
	}
	advance := &ast.AssignExpr{
		Target: &ast.VarExpr{Name: iterName},
		Op:     token.New(token.PLUS_EQUAL, "+=", nil, name.Line),
		Value:  &ast.LiteralExpr{Value: float64(1)},
	}
	blockBody := &ast.BlockStmt{Statements: []ast.Stmt{
		body,
		&ast.ExprStmt{Expression: advance},
		&ast.ExprStmt{Expression: rebind},
	}}
	whileStmt := &ast.WhileStmt{Cond: cond, Body: blockBody, StepCount: 2}
	return &ast.BlockStmt{Statements: []ast.Stmt{initX, initIter, whileStmt}}
}

// ---- expressions ----

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

var assignOps = []token.Kind{
	token.EQUAL, token.PLUS_EQUAL, token.MINUS_EQUAL,
	token.STAR_EQUAL, token.SLASH_EQUAL, token.PERCENT_EQUAL,
}

func (p *Parser) assignment() ast.Expr {
	expr := p.ternary()

	if p.match(assignOps...) {
		op := p.previous()
		if !isAssignable(expr) {
			p.fail(op, "invalid assignment target")
		}
		value := p.assignment()
		return &ast.AssignExpr{Target: expr, Op: op, Value: value}
	}

	if p.match(token.PLUS_PLUS, token.MINUS_MINUS) {
		op := p.previous()
		if !isAssignable(expr) {
			p.fail(op, "invalid assignment target")
		}
		aop := token.PLUS_EQUAL
		if op.Kind == token.MINUS_MINUS {
			aop = token.MINUS_EQUAL
		}
		return &ast.AssignExpr{
			Target: expr,
			Op:     token.New(aop, "", nil, op.Line),
			Value:  &ast.LiteralExpr{Value: float64(1)},
		}
	}

	return expr
}

func isAssignable(e ast.Expr) bool {
	switch e.(type) {
	case *ast.VarExpr, *ast.GetExpr, *ast.IndexExpr:
		return true
	}
	return false
}

func (p *Parser) ternary() ast.Expr {
	expr := p.logicOr()
	if p.match(token.QUESTION) {
		then := p.logicOr()
		p.consume(token.COLON, "expected ':' in ternary expression")
		els := p.logicOr()
		return &ast.TernaryExpr{Cond: expr, Then: then, Else: els}
	}
	return expr
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.OR) {
		op := p.previous()
		right := p.logicAnd()
		expr = &ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = &ast.LogicalExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.EQUAL_EQUAL, token.BANG_EQUAL) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL, token.IS) {
		op := p.previous()
		if op.Kind == token.IS {
			if !isTypeKeyword(p.peek().Kind) {
				p.fail(p.peek(), "expected a type keyword after 'is'")
			}
			typeTok := p.advance()
			expr = &ast.TypeTestExpr{Value: expr, Op: op, Type: typeTok}
			continue
		}
		right := p.term()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.PLUS, token.MINUS) {
		op := p.previous()
		right := p.factor()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.STAR, token.SLASH, token.PERCENT, token.AS) {
		op := p.previous()
		if op.Kind == token.AS {
			if !isTypeKeyword(p.peek().Kind) {
				p.fail(p.peek(), "expected a type keyword after 'as'")
			}
			typeTok := p.advance()
			expr = &ast.TypeTestExpr{Value: expr, Op: op, Type: typeTok}
			continue
		}
		right := p.unary()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	switch {
	case p.match(token.BANG, token.MINUS, token.HASH):
		op := p.previous()
		right := p.unary()
		return &ast.UnaryExpr{Op: op, Right: right}
	case p.match(token.PLUS_PLUS, token.MINUS_MINUS):
		op := p.previous()
		target := p.unary()
		if !isAssignable(target) {
			p.fail(op, "invalid assignment target")
		}
		aop := token.PLUS_EQUAL
		if op.Kind == token.MINUS_MINUS {
			aop = token.MINUS_EQUAL
		}
		return &ast.AssignExpr{
			Target: target,
			Op:     token.New(aop, "", nil, op.Line),
			Value:  &ast.LiteralExpr{Value: float64(1)},
		}
	case p.match(token.LEFT_BRACKET):
		return p.listLiteral()
	default:
		return p.call()
	}
}

func (p *Parser) listLiteral() ast.Expr {
	var elems []ast.Expr
	if !p.check(token.RIGHT_BRACKET) {
		for {
			elems = append(elems, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	p.consume(token.RIGHT_BRACKET, "expected ']' after list elements")
	return &ast.ListExpr{Elements: elems}
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LEFT_PAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.consume(token.IDENTIFIER, "expected property name after '.'")
			expr = &ast.GetExpr{Object: expr, Name: name}
		case p.match(token.LEFT_BRACKET):
			bracket := p.previous()
			idx := p.expression()
			p.consume(token.RIGHT_BRACKET, "expected ']' after index")
			expr = &ast.IndexExpr{Object: expr, Bracket: bracket, Index: idx}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.peek(), "too many arguments")
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.consume(token.RIGHT_PAREN, "expected ')' after arguments")
	return &ast.CallExpr{Callee: callee, Paren: paren, Args: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return &ast.LiteralExpr{Value: false}
	case p.match(token.TRUE):
		return &ast.LiteralExpr{Value: true}
	case p.match(token.NIL):
		return &ast.LiteralExpr{Value: nil}
	case p.match(token.NUMBER):
		return &ast.LiteralExpr{Value: p.previous().Literal.(float64)}
	case p.match(token.STRING):
		return &ast.LiteralExpr{Value: p.previous().Literal.(string)}
	case p.match(token.THIS):
		if !p.inClass {
			p.errorAt(p.previous(), "'this' is only valid inside a class")
		}
		return &ast.ThisExpr{Keyword: p.previous()}
	case p.match(token.SUPER):
		kw := p.previous()
		if !p.inDerived {
			p.errorAt(kw, "'super' is only valid inside a derived class")
		}
		p.consume(token.DOT, "expected '.' after 'super'")
		method := p.consume(token.IDENTIFIER, "expected superclass method name")
		return &ast.SuperExpr{Keyword: kw, Method: method}
	case p.match(token.IDENTIFIER):
		return &ast.VarExpr{Name: p.previous()}
	case p.match(token.LEFT_PAREN):
		expr := p.expression()
		p.consume(token.RIGHT_PAREN, "expected ')' after expression")
		return &ast.GroupingExpr{Expression: expr}
	case p.match(token.PIPE):
		params := p.paramList()
		p.consume(token.PIPE, "expected '|' after lambda parameters")
		p.consume(token.LEFT_BRACE, "expected '{' before lambda body")
		body := p.blockStatements()
		return &ast.LambdaExpr{Params: params, Body: body}
	}
	p.fail(p.peek(), "expected an expression")
	return nil
}
