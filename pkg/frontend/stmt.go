package frontend

import (
	"fmt"
	"strconv"

	"github.com/GriffinCanCode/quadc/pkg/ir"
	"github.com/GriffinCanCode/quadc/pkg/types"
)

// statement translates one statement and returns the jumps that must be
// patched to whatever follows it
func (p *Parser) statement() ir.List {
	switch p.current.Type {
	case LBRACE:
		return p.block()
	case IF:
		return p.ifStatement()
	case WHILE:
		return p.whileStatement()
	case FOR:
		return p.forStatement()
	case BREAK:
		return p.breakStatement()
	case CONTINUE:
		return p.continueStatement()
	case RETURN:
		return p.returnStatement()
	case SEMICOLON:
		p.advance()
		return nil
	default:
		next := p.discard(p.expression())
		if !p.consume(SEMICOLON, "expected ';' after expression") {
			p.synchronize()
		}
		return next
	}
}

func (p *Parser) block() ir.List {
	p.advance() // {
	p.blocks++
	p.ctx.OpenScope(fmt.Sprintf("%s.block%d", p.ctx.Active.Name, p.blocks))
	defer p.ctx.CloseScope()

	next := p.items(RBRACE)
	p.consume(RBRACE, "expected '}' to close block")
	return next
}

func (p *Parser) ifStatement() ir.List {
	p.advance() // if
	c := p.condition()

	p.patchHere(c.truelist)
	thenNext := p.statement()
	if !p.check(ELSE) {
		return ir.Merge(c.falselist, thenNext)
	}
	p.advance()

	skip := p.ctx.Emit(ir.OpGoto, "", "", "")
	p.patchHere(c.falselist)
	elseNext := p.statement()

	return ir.Merge(ir.Merge(thenNext, ir.MakeList(skip)), elseNext)
}

func (p *Parser) whileStatement() ir.List {
	p.advance() // while
	top := p.ctx.NextQuad()
	c := p.condition()

	p.patchHere(c.truelist)
	body, lp := p.loopBody(top)
	p.ctx.Backpatch(body, top)
	p.ctx.Emit(ir.OpGoto, "", "", strconv.Itoa(top))

	return ir.Merge(c.falselist, lp.breaks)
}

// forStatement lays the step out before the body:
//
//	top:  cond, true -> body, false -> exit
//	step: step; goto top
//	body: body; goto step
func (p *Parser) forStatement() ir.List {
	p.advance() // for
	p.consume(LPAREN, "expected '(' after 'for'")

	p.blocks++
	p.ctx.OpenScope(fmt.Sprintf("%s.for%d", p.ctx.Active.Name, p.blocks))
	defer p.ctx.CloseScope()

	switch {
	case p.isTypeStart():
		p.declaration(p.typeSpec())
	case p.check(SEMICOLON):
		p.advance()
	default:
		p.patchHere(p.discard(p.expression()))
		p.consume(SEMICOLON, "expected ';' after loop initializer")
	}

	top := p.ctx.NextQuad()
	var c expr
	if p.check(SEMICOLON) {
		c = expr{isCond: true, truelist: ir.MakeList(p.ctx.Emit(ir.OpGoto, "", "", ""))}
	} else {
		c = p.cond(p.expression())
	}
	p.consume(SEMICOLON, "expected ';' after loop condition")

	step := p.ctx.NextQuad()
	if !p.check(RPAREN) {
		p.patchHere(p.discard(p.expression()))
	}
	p.ctx.Emit(ir.OpGoto, "", "", strconv.Itoa(top))
	p.consume(RPAREN, "expected ')' after loop clauses")

	p.patchHere(c.truelist)
	body, lp := p.loopBody(step)
	p.ctx.Backpatch(body, step)
	p.ctx.Emit(ir.OpGoto, "", "", strconv.Itoa(step))

	return ir.Merge(c.falselist, lp.breaks)
}

func (p *Parser) loopBody(continueTo int) (ir.List, *loop) {
	lp := &loop{continueTo: continueTo}
	p.loops = append(p.loops, lp)
	body := p.statement()
	p.loops = p.loops[:len(p.loops)-1]
	return body, lp
}

func (p *Parser) breakStatement() ir.List {
	tok := p.advance()
	if len(p.loops) == 0 {
		p.errorAt(tok, "break outside loop")
	} else {
		lp := p.loops[len(p.loops)-1]
		lp.breaks = ir.Merge(lp.breaks, ir.MakeList(p.ctx.Emit(ir.OpGoto, "", "", "")))
	}
	p.consume(SEMICOLON, "expected ';' after 'break'")
	return nil
}

func (p *Parser) continueStatement() ir.List {
	tok := p.advance()
	if len(p.loops) == 0 {
		p.errorAt(tok, "continue outside loop")
	} else {
		lp := p.loops[len(p.loops)-1]
		p.ctx.Emit(ir.OpGoto, "", "", strconv.Itoa(lp.continueTo))
	}
	p.consume(SEMICOLON, "expected ';' after 'continue'")
	return nil
}

func (p *Parser) returnStatement() ir.List {
	tok := p.advance()
	fn := p.ctx.Function()
	if fn == nil {
		p.errorAt(tok, "return outside function")
	}

	if p.check(SEMICOLON) {
		if fn != nil && fn.Return != types.Void {
			p.errorAt(tok, fmt.Sprintf("'%s' must return a %s", fn.Entry.Name, fn.Return))
		}
		p.advance()
		p.ctx.Emit(ir.OpReturn, "", "", "")
		return nil
	}

	val := p.expression()
	switch {
	case fn == nil:
	case fn.Return == types.Void:
		p.errorAt(tok, fmt.Sprintf("void function '%s' returns a value", fn.Entry.Name))
	case !val.bad:
		p.ctx.Emit(ir.OpReturn, p.convert(val, fn.Return, tok), "", "")
	}

	if !p.consume(SEMICOLON, "expected ';' after return value") {
		p.synchronize()
	}
	return nil
}

// condition parses a parenthesized control expression as a jump pair
func (p *Parser) condition() expr {
	p.consume(LPAREN, "expected '('")
	c := p.cond(p.expression())
	p.consume(RPAREN, "expected ')'")
	return c
}

// discard ends an expression statement. Jumps of a bare condition simply
// continue with the next statement.
func (p *Parser) discard(e expr) ir.List {
	if e.isCond {
		return ir.Merge(e.truelist, e.falselist)
	}
	return nil
}
