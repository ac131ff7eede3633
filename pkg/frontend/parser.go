package frontend

import (
	"fmt"
	"strconv"

	"github.com/GriffinCanCode/quadc/pkg/compile"
	"github.com/GriffinCanCode/quadc/pkg/ir"
	"github.com/GriffinCanCode/quadc/pkg/logger"
	"github.com/GriffinCanCode/quadc/pkg/symtab"
	"github.com/GriffinCanCode/quadc/pkg/types"
)

type Parser struct {
	lex      *Lexer
	current  Token
	ahead    Token
	buffered bool

	ctx    *compile.Context
	file   string
	errors []string
	loops  []*loop
	blocks int
}

// loop tracks the jumps of the innermost enclosing loop
type loop struct {
	breaks     ir.List
	continueTo int
}

// NewParser returns a parser that translates source into ctx.
// file is only used in diagnostics.
func NewParser(ctx *compile.Context, file, source string) *Parser {
	p := &Parser{
		lex:  NewLexer(source),
		ctx:  ctx,
		file: file,
	}
	// keeps block names unique when a context is compiled into repeatedly
	p.blocks = len(ctx.Scopes()) - 1
	p.current = p.nextToken()
	return p
}

// Parse translates the whole source. Top-level declarations, function
// definitions and statements may be mixed.
func (p *Parser) Parse() error {
	logger.Debug("Translating", "file", p.file)

	var next ir.List
	for !p.check(EOF) {
		next = p.topLevel(next)
	}
	// dangling jumps fall through to the end of the program
	p.patchHere(next)

	if len(p.errors) > 0 {
		return fmt.Errorf("parse errors: %v", p.errors)
	}

	logger.Debug("Translation complete", "file", p.file, "quads", p.ctx.NextQuad())
	return nil
}

// Errors returns every diagnostic reported so far
func (p *Parser) Errors() []string {
	return p.errors
}

// topLevel translates one top-level item. pending holds the jumps of the
// code before it that still wait for a target.
func (p *Parser) topLevel(pending ir.List) ir.List {
	if p.check(RBRACE) {
		p.error("unexpected '}'")
		p.advance()
		return pending
	}

	if p.isTypeStart() {
		base := p.typeSpec()
		if p.check(NAME) && p.peekToken().Type == LPAREN {
			// top-level code never runs into a function body
			if p.fallsThrough() {
				pending = ir.Merge(pending, ir.MakeList(p.ctx.Emit(ir.OpGoto, "", "", "")))
			}
			p.function(base)
			return pending
		}
		p.patchHere(pending)
		p.declaration(base)
		return nil
	}

	p.patchHere(pending)
	return p.statement()
}

// fallsThrough reports whether control can run off the last quad emitted
func (p *Parser) fallsThrough() bool {
	n := p.ctx.NextQuad()
	if n == 0 {
		return false
	}
	q, _ := p.ctx.Code.At(n - 1)
	return q.Op != ir.OpGoto && q.Op != ir.OpReturn
}

// item parses one declaration or statement inside a body
func (p *Parser) item() ir.List {
	if !p.isTypeStart() {
		return p.statement()
	}

	base := p.typeSpec()
	if p.check(NAME) && p.peekToken().Type == LPAREN {
		p.error("nested functions are not supported")
		p.synchronize()
		return nil
	}
	p.declaration(base)
	return nil
}

// items parses a sequence up to end, chaining each item's pending jumps
// to the start of the next one
func (p *Parser) items(end TokenType) ir.List {
	var next ir.List
	for !p.check(end) && !p.check(EOF) {
		p.patchHere(next)
		next = p.item()
	}
	return next
}

func (p *Parser) function(ret types.Type) {
	nameTok := p.advance()
	fn, outcome := p.ctx.BeginFunction(nameTok.Lexeme, ret)
	if outcome == symtab.AlreadyDeclared {
		p.errorAt(nameTok, fmt.Sprintf("redeclaration of '%s'", nameTok.Lexeme))
	}
	defer p.ctx.EndFunction(fn)

	p.consume(LPAREN, "expected '(' after function name")
	p.parameters(fn)
	p.consume(RPAREN, "expected ')' after parameters")

	if !p.check(LBRACE) {
		p.error("expected '{' to open function body")
		p.synchronize()
		return
	}
	p.advance()

	start := p.ctx.NextQuad()
	next := p.items(RBRACE)
	p.consume(RBRACE, "expected '}' to close function body")

	endsInReturn := false
	if n := p.ctx.NextQuad(); n > start {
		q, _ := p.ctx.Code.At(n - 1)
		endsInReturn = q.Op == ir.OpReturn
	}
	if len(next) > 0 || !endsInReturn {
		p.patchHere(next)
		p.ctx.Emit(ir.OpReturn, "", "", "")
	}
}

func (p *Parser) parameters(fn *compile.Function) {
	if p.check(RPAREN) {
		return
	}
	if p.check(VOID) && p.peekToken().Type == RPAREN {
		p.advance()
		return
	}

	for {
		if !p.isTypeStart() {
			p.error("expected parameter type")
			return
		}
		base := p.typeSpec()

		ptr := false
		if p.check(STAR) {
			p.advance()
			ptr = true
		}
		nameTok := p.current
		if !p.consume(NAME, "expected parameter name") {
			return
		}
		if p.check(LBRACKET) {
			p.advance()
			p.consume(RBRACKET, "expected ']' in array parameter")
			ptr = true
		}

		typ := base
		if ptr {
			typ = types.Pointer
		}
		e, outcome := p.ctx.DeclareParam(fn, nameTok.Lexeme, typ)
		switch {
		case outcome == symtab.AlreadyDeclared:
			p.errorAt(nameTok, fmt.Sprintf("redeclaration of parameter '%s'", nameTok.Lexeme))
		case ptr:
			e.SetElemType(base)
		case base == types.Void:
			p.errorAt(nameTok, fmt.Sprintf("parameter '%s' declared void", nameTok.Lexeme))
		}

		if !p.check(COMMA) {
			return
		}
		p.advance()
	}
}

func (p *Parser) declaration(base types.Type) {
	for {
		if !p.declarator(base) {
			p.synchronize()
			return
		}
		if !p.check(COMMA) {
			break
		}
		p.advance()
	}
	if !p.consume(SEMICOLON, "expected ';' after declaration") {
		p.synchronize()
	}
}

func (p *Parser) declarator(base types.Type) bool {
	ptr := false
	if p.check(STAR) {
		p.advance()
		ptr = true
	}

	nameTok := p.current
	if !p.consume(NAME, "expected identifier in declaration") {
		return false
	}
	name := nameTok.Lexeme

	elem := base
	if ptr {
		elem = types.Pointer
	}

	if p.check(LBRACKET) {
		p.advance()
		lenTok := p.current
		if !p.consume(INTEGER, "expected array length") {
			return false
		}
		p.consume(RBRACKET, "expected ']' after array length")

		n, err := strconv.Atoi(lenTok.Lexeme)
		if err != nil || n <= 0 {
			p.errorAt(lenTok, fmt.Sprintf("invalid array length %s", lenTok.Lexeme))
			return true
		}
		if elem == types.Void {
			p.errorAt(nameTok, fmt.Sprintf("array '%s' of void", name))
			return true
		}

		e, outcome := p.ctx.Declare(name, types.Array)
		if outcome == symtab.AlreadyDeclared {
			p.errorAt(nameTok, fmt.Sprintf("redeclaration of '%s'", name))
			return true
		}
		e.SetElemType(elem)
		e.SetArrayLen(n)
		e.SetSize(n * elem.Size())

		if p.check(ASSIGN) {
			p.error("array initializers are not supported")
			return false
		}
		return true
	}

	if elem == types.Void {
		p.errorAt(nameTok, fmt.Sprintf("variable '%s' declared void", name))
	}

	typ := base
	if ptr {
		typ = types.Pointer
	}
	e, outcome := p.ctx.Declare(name, typ)
	if outcome == symtab.AlreadyDeclared {
		p.errorAt(nameTok, fmt.Sprintf("redeclaration of '%s'", name))
		if p.check(ASSIGN) {
			p.advance()
			p.assignment()
		}
		return true
	}
	if ptr {
		e.SetElemType(base)
	}

	if p.check(ASSIGN) {
		tok := p.advance()
		p.initialize(e, p.assignment(), tok)
	}
	return true
}

// initialize stores the initial value of a fresh entry. A literal whose value
// converts statically is recorded in the entry and assigned directly.
func (p *Parser) initialize(e *symtab.Entry, val expr, at Token) {
	if val.bad {
		return
	}
	if val.lit != nil {
		if v, ok := castValue(val.lit, e.Type); ok {
			e.SetInit(v)
			p.ctx.Emit(ir.OpAssign, operand(v), "", e.Name)
			return
		}
	}
	place := p.convert(val, e.Type, at)
	p.ctx.Emit(ir.OpAssign, place, "", e.Name)
}

// Token helpers

func (p *Parser) isTypeStart() bool {
	return p.match(INT, FLOAT, CHAR, BOOL, VOID)
}

func (p *Parser) typeSpec() types.Type {
	tok := p.advance()
	t, _ := types.Parse(tok.Lexeme)
	return t
}

// patchHere resolves l to the address of the next quad
func (p *Parser) patchHere(l ir.List) {
	if len(l) > 0 {
		p.ctx.Backpatch(l, p.ctx.NextQuad())
	}
}

// synchronize skips to the end of the current statement after an error
func (p *Parser) synchronize() {
	for !p.check(EOF) {
		if p.check(SEMICOLON) {
			p.advance()
			return
		}
		if p.check(RBRACE) {
			return
		}
		p.advance()
	}
}

func (p *Parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			return true
		}
	}
	return false
}

func (p *Parser) check(typ TokenType) bool {
	return p.current.Type == typ
}

func (p *Parser) advance() Token {
	prev := p.current
	if p.buffered {
		p.current = p.ahead
		p.buffered = false
	} else {
		p.current = p.nextToken()
	}
	return prev
}

func (p *Parser) peekToken() Token {
	if !p.buffered {
		p.ahead = p.nextToken()
		p.buffered = true
	}
	return p.ahead
}

// nextToken reads from the lexer, reporting and skipping illegal tokens
func (p *Parser) nextToken() Token {
	for {
		tok := p.lex.Next()
		if tok.Type != ILLEGAL {
			return tok
		}
		p.errorAt(tok, tok.Lexeme)
	}
}

func (p *Parser) consume(typ TokenType, msg string) bool {
	if p.check(typ) {
		p.advance()
		return true
	}
	p.error(msg)
	return false
}

func (p *Parser) error(msg string) {
	p.errorAt(p.current, msg)
}

func (p *Parser) errorAt(tok Token, msg string) {
	errMsg := fmt.Sprintf("line %d, col %d: %s", tok.Line, tok.Col, msg)
	p.errors = append(p.errors, errMsg)
	logger.LogCompileError(p.file, tok.Line, msg)
}
