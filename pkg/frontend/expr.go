package frontend

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/quadc/pkg/ir"
	"github.com/GriffinCanCode/quadc/pkg/symtab"
	"github.com/GriffinCanCode/quadc/pkg/types"
)

// expr carries the attributes of a translated expression. A condition lives
// in its jump lists instead of a place.
type expr struct {
	place string
	typ   types.Type
	elem  types.Type // pointee of a pointer value

	entry *symtab.Entry // named storage, for assignment targets
	index string        // byte offset of an element of entry, not yet loaded
	lit   symtab.Value  // literal constant, no code emitted

	isCond    bool
	truelist  ir.List
	falselist ir.List

	bad bool // already reported
}

var badExpr = expr{bad: true, typ: types.Void}

func (p *Parser) expression() expr {
	return p.assignment()
}

func (p *Parser) assignment() expr {
	left := p.logicalOr()
	if !p.check(ASSIGN) {
		return left
	}
	tok := p.advance()
	right := p.assignment()
	if left.bad || right.bad {
		return badExpr
	}

	if left.entry == nil || left.isCond {
		p.errorAt(tok, "left side of assignment is not assignable")
		return badExpr
	}
	target := left.entry
	if left.index != "" {
		place := p.convert(right, target.ElemType, tok)
		p.ctx.Emit(ir.OpIndexStore, left.index, place, target.Name)
		return expr{place: place, typ: target.ElemType}
	}
	if target.Type == types.Array || target.Type == types.Function {
		p.errorAt(tok, fmt.Sprintf("cannot assign to %s '%s'", target.Type, target.Name))
		return badExpr
	}

	place := p.convert(right, target.Type, tok)
	p.ctx.Emit(ir.OpAssign, place, "", target.Name)
	return expr{place: target.Name, typ: target.Type, elem: target.ElemType, entry: target}
}

func (p *Parser) logicalOr() expr {
	left := p.logicalAnd()
	for p.check(OROR) {
		p.advance()
		left = p.cond(left)
		mark := p.ctx.NextQuad()
		right := p.cond(p.logicalAnd())
		if left.bad || right.bad {
			left = badExpr
			continue
		}
		p.ctx.Backpatch(left.falselist, mark)
		left = expr{
			isCond:    true,
			typ:       types.Bool,
			truelist:  ir.Merge(left.truelist, right.truelist),
			falselist: right.falselist,
		}
	}
	return left
}

func (p *Parser) logicalAnd() expr {
	left := p.bitOr()
	for p.check(ANDAND) {
		p.advance()
		left = p.cond(left)
		mark := p.ctx.NextQuad()
		right := p.cond(p.bitOr())
		if left.bad || right.bad {
			left = badExpr
			continue
		}
		p.ctx.Backpatch(left.truelist, mark)
		left = expr{
			isCond:    true,
			typ:       types.Bool,
			truelist:  right.truelist,
			falselist: ir.Merge(left.falselist, right.falselist),
		}
	}
	return left
}

func (p *Parser) bitOr() expr {
	left := p.bitXor()
	for p.check(PIPE) {
		tok := p.advance()
		left = p.arith(tok, left, p.bitXor())
	}
	return left
}

func (p *Parser) bitXor() expr {
	left := p.bitAnd()
	for p.check(CARET) {
		tok := p.advance()
		left = p.arith(tok, left, p.bitAnd())
	}
	return left
}

func (p *Parser) bitAnd() expr {
	left := p.equality()
	for p.check(AMP) {
		tok := p.advance()
		left = p.arith(tok, left, p.equality())
	}
	return left
}

func (p *Parser) equality() expr {
	left := p.relational()
	for p.match(EQ, NE) {
		tok := p.advance()
		left = p.compare(tok, left, p.relational())
	}
	return left
}

func (p *Parser) relational() expr {
	left := p.shift()
	for p.match(LT, LE, GT, GE) {
		tok := p.advance()
		left = p.compare(tok, left, p.shift())
	}
	return left
}

func (p *Parser) shift() expr {
	left := p.additive()
	for p.match(SHL, SHR) {
		tok := p.advance()
		left = p.arith(tok, left, p.additive())
	}
	return left
}

func (p *Parser) additive() expr {
	left := p.multiplicative()
	for p.match(PLUS, MINUS) {
		tok := p.advance()
		left = p.arith(tok, left, p.multiplicative())
	}
	return left
}

func (p *Parser) multiplicative() expr {
	left := p.unary()
	for p.match(STAR, SLASH, PERCENT) {
		tok := p.advance()
		left = p.arith(tok, left, p.unary())
	}
	return left
}

func (p *Parser) unary() expr {
	switch p.current.Type {
	case NOT:
		p.advance()
		e := p.cond(p.unary())
		e.truelist, e.falselist = e.falselist, e.truelist
		return e

	case MINUS:
		tok := p.advance()
		e := p.toInt(p.value(p.unary()))
		if e.bad {
			return e
		}
		if !e.typ.IsNumeric() {
			p.errorAt(tok, fmt.Sprintf("invalid operand to unary '-' (%s)", e.typ))
			return badExpr
		}
		if v, ok := negate(e.lit); ok {
			return literal(v)
		}
		return p.unaryOp(ir.OpNeg, e, e.typ)

	case TILDE:
		tok := p.advance()
		e := p.toInt(p.value(p.unary()))
		if e.bad {
			return e
		}
		if e.typ != types.Int && e.typ != types.Char {
			p.errorAt(tok, fmt.Sprintf("invalid operand to '~' (%s)", e.typ))
			return badExpr
		}
		return p.unaryOp(ir.OpCompl, e, e.typ)

	case AMP:
		tok := p.advance()
		e := p.unary()
		if e.bad {
			return e
		}
		if e.entry == nil || e.index != "" || e.isCond {
			p.errorAt(tok, "cannot take the address of this expression")
			return badExpr
		}
		addr := p.unaryOp(ir.OpAddr, e, types.Pointer)
		addr.elem = e.entry.Type
		return addr

	case STAR:
		tok := p.advance()
		e := p.value(p.unary())
		if e.bad {
			return e
		}
		if e.typ != types.Pointer {
			p.errorAt(tok, fmt.Sprintf("cannot dereference %s", e.typ))
			return badExpr
		}
		elem := e.elem
		if elem == types.Void {
			elem = types.Int
		}
		return p.unaryOp(ir.OpDeref, e, elem)
	}

	return p.postfix()
}

func (p *Parser) unaryOp(op ir.Op, e expr, result types.Type) expr {
	tmp := p.ctx.GenTemp(result)
	p.ctx.Emit(op, e.place, "", tmp.Name)
	return expr{place: tmp.Name, typ: result}
}

func (p *Parser) postfix() expr {
	if !p.check(NAME) {
		return p.primary()
	}

	nameTok := p.advance()
	if p.check(LPAREN) {
		return p.call(nameTok)
	}

	entry, ok := p.ctx.Lookup(nameTok.Lexeme)
	if !ok {
		p.errorAt(nameTok, fmt.Sprintf("undeclared identifier '%s'", nameTok.Lexeme))
		if p.check(LBRACKET) {
			p.advance()
			p.expression()
			p.consume(RBRACKET, "expected ']'")
		}
		return badExpr
	}

	if p.check(LBRACKET) {
		return p.index(nameTok, entry)
	}
	return expr{place: entry.Name, typ: entry.Type, elem: entry.ElemType, entry: entry}
}

// index computes the byte offset of an element. The load itself is left to
// value so the same attributes serve as an assignment target.
func (p *Parser) index(nameTok Token, entry *symtab.Entry) expr {
	p.advance() // [
	idx := p.expression()
	p.consume(RBRACKET, "expected ']' after index")
	if idx.bad {
		return badExpr
	}

	if entry.Type != types.Array && entry.Type != types.Pointer {
		p.errorAt(nameTok, fmt.Sprintf("'%s' is not an array", entry.Name))
		return badExpr
	}
	elem := entry.ElemType
	size := elem.Size()

	idx = p.toInt(p.value(idx))
	if idx.typ != types.Int && idx.typ != types.Char {
		p.errorAt(nameTok, fmt.Sprintf("array index of '%s' is %s", entry.Name, idx.typ))
		return badExpr
	}

	var offset string
	if v, ok := idx.lit.(symtab.IntValue); ok {
		offset = strconv.FormatInt(int64(v)*int64(size), 10)
	} else {
		i := p.convert(idx, types.Int, nameTok)
		tmp := p.ctx.GenTemp(types.Int)
		p.ctx.Emit(ir.OpMul, i, strconv.Itoa(size), tmp.Name)
		offset = tmp.Name
	}

	return expr{typ: elem, entry: entry, index: offset}
}

func (p *Parser) call(nameTok Token) expr {
	p.advance() // (
	name := nameTok.Lexeme

	fn, ok := p.ctx.Lookup(name)
	switch {
	case !ok:
		p.errorAt(nameTok, fmt.Sprintf("undeclared function '%s'", name))
	case fn.Type != types.Function:
		p.errorAt(nameTok, fmt.Sprintf("'%s' is not a function", name))
		ok = false
	}

	var args []string
	for !p.check(RPAREN) && !p.check(EOF) {
		arg := p.assignment()
		if ok && !arg.bad {
			want := types.Int
			if fn.Nested != nil {
				if param, found := fn.Nested.EntryAt(len(args)); found && len(args) < fn.ParamCount {
					want = param.Type
				}
			}
			args = append(args, p.convert(arg, want, nameTok))
		} else {
			args = append(args, "")
		}
		if !p.check(COMMA) {
			break
		}
		p.advance()
	}
	p.consume(RPAREN, "expected ')' after arguments")

	if !ok {
		return badExpr
	}
	if len(args) != fn.ParamCount {
		p.errorAt(nameTok, fmt.Sprintf("'%s' expects %d arguments, got %d", name, fn.ParamCount, len(args)))
		return badExpr
	}

	for _, a := range args {
		p.ctx.Emit(ir.OpParam, a, "", "")
	}
	count := strconv.Itoa(len(args))
	ret := fn.ElemType
	if ret == types.Void {
		p.ctx.Emit(ir.OpCall, name, count, "")
		return expr{typ: types.Void}
	}
	tmp := p.ctx.GenTemp(ret)
	p.ctx.Emit(ir.OpCall, name, count, tmp.Name)
	return expr{place: tmp.Name, typ: ret}
}

func (p *Parser) primary() expr {
	tok := p.current
	switch tok.Type {
	case INTEGER:
		p.advance()
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			p.errorAt(tok, fmt.Sprintf("integer constant %s out of range", tok.Lexeme))
			return badExpr
		}
		return literal(symtab.IntValue(v))
	case REAL:
		p.advance()
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.errorAt(tok, fmt.Sprintf("invalid float constant %s", tok.Lexeme))
			return badExpr
		}
		return literal(symtab.FloatValue(f))
	case CHARACTER:
		p.advance()
		return literal(symtab.CharValue([]rune(tok.Lexeme)[0]))
	case TRUE, FALSE:
		p.advance()
		return literal(symtab.BoolValue(tok.Type == TRUE))
	case LPAREN:
		p.advance()
		e := p.expression()
		p.consume(RPAREN, "expected ')'")
		return e
	}

	p.error(fmt.Sprintf("unexpected token %s", tok))
	if !p.match(SEMICOLON, RBRACE, RPAREN, EOF) {
		p.advance()
	}
	return badExpr
}

// arith translates a binary arithmetic or bitwise operation, promoting the
// operands to their unified type first
func (p *Parser) arith(tok Token, left, right expr) expr {
	if left.bad || right.bad {
		return badExpr
	}
	op, _ := ir.BinaryOp(tok.Lexeme)
	left = p.toInt(p.value(left))
	right = p.toInt(p.value(right))

	t, ok := types.Unify(left.typ, right.typ)
	if !ok || !validArith(op, t, left.typ, right.typ) {
		p.errorAt(tok, fmt.Sprintf("invalid operands to '%s' (%s and %s)", tok.Lexeme, left.typ, right.typ))
		return badExpr
	}

	l, r := left.place, right.place
	if t != types.Pointer {
		l = p.convert(left, t, tok)
		r = p.convert(right, t, tok)
	}
	tmp := p.ctx.GenTemp(t)
	p.ctx.Emit(op, l, r, tmp.Name)

	res := expr{place: tmp.Name, typ: t}
	if t == types.Pointer {
		res.elem = left.elem
		if left.typ != types.Pointer {
			res.elem = right.elem
		}
	}
	return res
}

// validArith reports whether op applies to operands a and b unified to t.
// A pointer only moves by an integral amount, and p - q is the one
// operation on two pointers.
func validArith(op ir.Op, t, a, b types.Type) bool {
	switch t {
	case types.Char, types.Int:
		return true
	case types.Float:
		return op == ir.OpAdd || op == ir.OpSub || op == ir.OpMul || op == ir.OpDiv
	case types.Pointer:
		integral := func(x types.Type) bool { return x == types.Int || x == types.Char }
		switch op {
		case ir.OpAdd:
			return a == types.Pointer && integral(b) || integral(a) && b == types.Pointer
		case ir.OpSub:
			return a == types.Pointer && (integral(b) || b == types.Pointer)
		}
	}
	return false
}

// compare translates a relational or equality test into a jump pair
func (p *Parser) compare(tok Token, left, right expr) expr {
	if left.bad || right.bad {
		return badExpr
	}
	op, _ := ir.RelJump(tok.Lexeme)
	left = p.toInt(p.value(left))
	right = p.toInt(p.value(right))

	t, ok := types.Unify(left.typ, right.typ)
	if !ok || !(t.IsNumeric() || t == types.Pointer) {
		p.errorAt(tok, fmt.Sprintf("invalid operands to '%s' (%s and %s)", tok.Lexeme, left.typ, right.typ))
		return badExpr
	}

	l, r := left.place, right.place
	if t != types.Pointer {
		l = p.convert(left, t, tok)
		r = p.convert(right, t, tok)
	}
	yes := p.ctx.Emit(op, l, r, "")
	no := p.ctx.Emit(ir.OpGoto, "", "", "")
	return expr{
		isCond:    true,
		typ:       types.Bool,
		truelist:  ir.MakeList(yes),
		falselist: ir.MakeList(no),
	}
}

// value turns e into something with a place, emitting the code a condition
// or a pending element load needs
func (p *Parser) value(e expr) expr {
	switch {
	case e.bad:
		return e
	case e.isCond:
		tmp := p.ctx.GenTemp(types.Bool)
		p.patchHere(e.truelist)
		p.ctx.Emit(ir.OpAssign, "1", "", tmp.Name)
		p.ctx.Emit(ir.OpGoto, "", "", strconv.Itoa(p.ctx.NextQuad()+2))
		p.patchHere(e.falselist)
		p.ctx.Emit(ir.OpAssign, "0", "", tmp.Name)
		return expr{place: tmp.Name, typ: types.Bool}
	case e.index != "":
		tmp := p.ctx.GenTemp(e.typ)
		p.ctx.Emit(ir.OpIndexLoad, e.entry.Name, e.index, tmp.Name)
		return expr{place: tmp.Name, typ: e.typ}
	}
	return e
}

// cond turns e into a jump pair
func (p *Parser) cond(e expr) expr {
	if e.bad || e.isCond {
		return e
	}
	e = p.value(e)
	if e.typ == types.Void {
		p.error("void value used as a condition")
		return badExpr
	}
	yes := p.ctx.Emit(ir.OpIf, e.place, "", "")
	no := p.ctx.Emit(ir.OpGoto, "", "", "")
	return expr{
		isCond:    true,
		typ:       types.Bool,
		truelist:  ir.MakeList(yes),
		falselist: ir.MakeList(no),
	}
}

// toInt widens a bool operand before arithmetic
func (p *Parser) toInt(e expr) expr {
	if e.bad || e.typ != types.Bool {
		return e
	}
	if e.lit != nil {
		v, _ := castValue(e.lit, types.Int)
		return literal(v)
	}
	return expr{place: p.ctx.BoolToInt(e.place), typ: types.Int}
}

// convert returns a place holding e as type to, emitting coercions as needed
func (p *Parser) convert(e expr, to types.Type, at Token) string {
	if e.bad {
		return ""
	}
	e = p.value(e)
	if e.typ == to || to == types.Pointer && e.typ == types.Array {
		return e.place
	}
	if e.lit != nil {
		if v, ok := castValue(e.lit, to); ok {
			return operand(v)
		}
	}
	name, err := p.ctx.Coerce(e.place, e.typ, to)
	if err != nil {
		p.errorAt(at, fmt.Sprintf("cannot convert %s to %s", e.typ, to))
		return e.place
	}
	return name
}

func literal(v symtab.Value) expr {
	return expr{place: operand(v), typ: v.Type(), lit: v}
}

// operand renders a constant as quad operand text
func operand(v symtab.Value) string {
	switch x := v.(type) {
	case symtab.FloatValue:
		s := strconv.FormatFloat(float64(x), 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") && !math.IsInf(float64(x), 0) && !math.IsNaN(float64(x)) {
			s += ".0"
		}
		return s
	case symtab.BoolValue:
		if x {
			return "1"
		}
		return "0"
	}
	return v.String()
}

// castValue converts a constant at compile time
func castValue(v symtab.Value, to types.Type) (symtab.Value, bool) {
	if v.Type() == to {
		return v, true
	}

	var i int64
	var f float64
	switch x := v.(type) {
	case symtab.IntValue:
		i, f = int64(x), float64(x)
	case symtab.FloatValue:
		i, f = int64(x), float64(x)
	case symtab.CharValue:
		i, f = int64(x), float64(x)
	case symtab.BoolValue:
		if x {
			i, f = 1, 1
		}
	default:
		return nil, false
	}

	switch to {
	case types.Int:
		return symtab.IntValue(i), true
	case types.Float:
		return symtab.FloatValue(f), true
	case types.Char:
		return symtab.CharValue(rune(i)), true
	case types.Bool:
		return symtab.BoolValue(f != 0), true
	}
	return nil, false
}

func negate(v symtab.Value) (symtab.Value, bool) {
	switch x := v.(type) {
	case symtab.IntValue:
		return -x, true
	case symtab.FloatValue:
		return -x, true
	case symtab.CharValue:
		return symtab.IntValue(-int64(x)), true
	}
	return nil, false
}
