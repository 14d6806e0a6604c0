// Package irparse is a recursive-descent parser turning IR assembly text
// into an *ir.Function: small per-production methods, a one-token
// lookahead, and errors that carry a source location.
package irparse

import (
	"fmt"
	"strconv"

	"github.com/ashrielbrian/numba-typeinfer/internal/ir"
	"github.com/ashrielbrian/numba-typeinfer/internal/irlex"
	"github.com/ashrielbrian/numba-typeinfer/internal/lattice"
	"github.com/ashrielbrian/numba-typeinfer/internal/location"
)

// Parser consumes a token stream produced by irlex and builds an
// ir.Function.
type Parser struct {
	lex    *irlex.Lexer
	file   string
	cur    irlex.Token
	peek   irlex.Token
	errors []error
}

// New normalizes src (NFC + BOM-strip, per irlex.Normalize) and returns a
// Parser ready to parse one function from it.
func New(src []byte, filename string) *Parser {
	normalized := irlex.Normalize(src)
	p := &Parser{lex: irlex.New(string(normalized), filename), file: filename}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) loc() location.Location {
	return location.Location{Filename: p.file, Line: p.cur.Line}
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Errorf("%s:%d: %s", p.file, p.cur.Line, fmt.Sprintf(format, args...)))
}

// Errors returns every error accumulated while parsing.
func (p *Parser) Errors() []error { return p.errors }

func (p *Parser) skipNewlines() {
	for p.cur.Kind == irlex.NEWLINE {
		p.advance()
	}
}

func (p *Parser) expect(k irlex.Kind) (irlex.Token, bool) {
	if p.cur.Kind != k {
		p.errorf("expected %s, got %s %q", k, p.cur.Kind, p.cur.Literal)
		return p.cur, false
	}
	tok := p.cur
	p.advance()
	return tok, true
}

func (p *Parser) expectIdent(lit string) bool {
	if p.cur.Kind != irlex.IDENT || p.cur.Literal != lit {
		p.errorf("expected %q, got %s %q", lit, p.cur.Kind, p.cur.Literal)
		return false
	}
	p.advance()
	return true
}

func (p *Parser) curIsKeyword(lit string) bool {
	return p.cur.Kind == irlex.IDENT && p.cur.Literal == lit
}

// ParseFunction parses exactly one function definition.
func (p *Parser) ParseFunction() (*ir.Function, error) {
	p.skipNewlines()
	if !p.expectIdent("function") {
		return nil, p.firstError()
	}
	nameTok, ok := p.expect(irlex.IDENT)
	if !ok {
		return nil, p.firstError()
	}
	if _, ok := p.expect(irlex.LPAREN); !ok {
		return nil, p.firstError()
	}
	var argNames []string
	for p.cur.Kind != irlex.RPAREN && p.cur.Kind != irlex.EOF {
		arg, ok := p.expect(irlex.IDENT)
		if !ok {
			return nil, p.firstError()
		}
		argNames = append(argNames, arg.Literal)
		if p.cur.Kind == irlex.COMMA {
			p.advance()
		}
	}
	p.expect(irlex.RPAREN)
	p.expect(irlex.COLON)
	p.skipNewlines()

	fn := &ir.Function{Name: nameTok.Literal, ArgNames: argNames, Blocks: map[int]*ir.Block{}}

	if p.curIsKeyword("generator") {
		p.advance()
		gen := &ir.GeneratorInfo{}
		for p.cur.Kind == irlex.IDENT && !p.curIsKeyword("finalizer") {
			gen.StateVars = append(gen.StateVars, p.cur.Literal)
			p.advance()
			if p.cur.Kind == irlex.COMMA {
				p.advance()
			}
		}
		if p.curIsKeyword("finalizer") {
			gen.HasFinalizer = true
			p.advance()
		}
		fn.Generator = gen
		p.skipNewlines()
	}

	first := true
	for p.curIsKeyword("block") {
		label, body := p.parseBlock()
		fn.Blocks[label] = &ir.Block{Label: label, Body: body}
		if first {
			fn.EntryLabel = label
			first = false
		}
		p.skipNewlines()
	}

	if len(p.errors) > 0 {
		return nil, p.firstError()
	}
	return fn, nil
}

func (p *Parser) firstError() error {
	if len(p.errors) == 0 {
		return nil
	}
	return p.errors[0]
}

func (p *Parser) parseBlock() (int, []ir.Statement) {
	p.advance() // "block"
	labelTok, _ := p.expect(irlex.INT)
	label, _ := strconv.Atoi(labelTok.Literal)
	p.expect(irlex.COLON)
	p.skipNewlines()

	var body []ir.Statement
	for !p.curIsKeyword("block") && p.cur.Kind != irlex.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			body = append(body, stmt)
		}
		p.skipNewlines()
	}
	return label, body
}

// parseLiteralValue parses a constant value: an int, float, string, or one
// of the sentinel identifiers none/true/false. Any other identifier becomes
// a lattice.Builtin of that name.
func parseLiteralValue(tok irlex.Token) interface{} {
	switch tok.Kind {
	case irlex.INT:
		n, _ := strconv.ParseInt(tok.Literal, 10, 64)
		return int64(n)
	case irlex.FLOAT:
		f, _ := strconv.ParseFloat(tok.Literal, 64)
		return f
	case irlex.STRING:
		return tok.Literal
	case irlex.IDENT:
		switch tok.Literal {
		case "none":
			return nil
		case "true":
			return true
		case "false":
			return false
		default:
			return lattice.Builtin{Name: tok.Literal}
		}
	default:
		return nil
	}
}

// parseExpr parses the right-hand side of an assignment: one of the
// expression keywords the build phase understands, or a bare literal
// token treated as an implicit "const".
func (p *Parser) parseExpr(loc location.Location) ir.Expr {
	if p.cur.Kind != irlex.IDENT {
		tok := p.cur
		p.advance()
		return ir.NewConst(parseLiteralValue(tok), loc)
	}

	switch p.cur.Literal {
	case "const":
		p.advance()
		tok := p.cur
		p.advance()
		return ir.NewConst(parseLiteralValue(tok), loc)

	case "var":
		p.advance()
		return ir.NewVar(p.identLit(), loc)

	case "arg":
		p.advance()
		name := p.identLit()
		idx := p.intLit()
		e := ir.NewArg(name, idx, loc)
		if p.curIsKeyword("default") {
			p.advance()
			tok := p.cur
			p.advance()
			e.Default = parseLiteralValue(tok)
		}
		return e

	case "global":
		p.advance()
		name := p.identLit()
		tok := p.cur
		p.advance()
		return ir.NewGlobal(name, parseLiteralValue(tok), loc)

	case "freevar":
		p.advance()
		name := p.identLit()
		tok := p.cur
		p.advance()
		return ir.NewFreeVar(name, parseLiteralValue(tok), loc)

	case "yield":
		p.advance()
		return ir.NewYield(p.identLit(), loc)

	case "call":
		return p.parseCallExpr(loc)

	case "getiter":
		p.advance()
		return ir.NewOpExpr(ir.OpGetIter, "", []string{p.identLit()}, loc)

	case "iternext":
		p.advance()
		return ir.NewOpExpr(ir.OpIterNext, "", []string{p.identLit()}, loc)

	case "getitem":
		p.advance()
		a := p.identLit()
		b := p.identLit()
		return ir.NewOpExpr(ir.OpGetItem, "", []string{a, b}, loc)

	case "binop":
		p.advance()
		op := p.opToken()
		a := p.identLit()
		b := p.identLit()
		return ir.NewOpExpr(ir.OpBinOp, op, []string{a, b}, loc)

	case "inplace_binop":
		p.advance()
		op := p.opToken()
		a := p.identLit()
		b := p.identLit()
		return ir.NewOpExpr(ir.OpInplaceBinOp, op, []string{a, b}, loc)

	case "unary":
		p.advance()
		op := p.opToken()
		a := p.identLit()
		return ir.NewOpExpr(ir.OpUnary, op, []string{a}, loc)

	case "static_getitem":
		p.advance()
		value := p.identLit()
		index := p.parseStaticIndex()
		e := ir.NewOpExpr(ir.OpStaticGetItem, "", []string{value}, loc)
		e.StaticIndex = index
		if p.curIsKeyword("indexvar") {
			p.advance()
			e.Operands = append(e.Operands, p.identLit())
		}
		return e

	case "exhaust_iter":
		p.advance()
		value := p.identLit()
		count := p.intLit()
		e := ir.NewOpExpr(ir.OpExhaustIter, "", []string{value}, loc)
		e.Count = count
		return e

	case "pair_first":
		p.advance()
		return ir.NewOpExpr(ir.OpPairFirst, "", []string{p.identLit()}, loc)

	case "pair_second":
		p.advance()
		return ir.NewOpExpr(ir.OpPairSecond, "", []string{p.identLit()}, loc)

	case "getattr":
		p.advance()
		value := p.identLit()
		attr := p.identLit()
		e := ir.NewOpExpr(ir.OpGetAttr, "", []string{value}, loc)
		e.Attr = attr
		return e

	case "build_tuple":
		p.advance()
		return ir.NewOpExpr(ir.OpBuildTuple, "", p.restOfLineIdents(), loc)

	case "build_list":
		p.advance()
		return ir.NewOpExpr(ir.OpBuildList, "", p.restOfLineIdents(), loc)

	case "build_set":
		p.advance()
		return ir.NewOpExpr(ir.OpBuildSet, "", p.restOfLineIdents(), loc)

	case "cast":
		p.advance()
		return ir.NewOpExpr(ir.OpCast, "", []string{p.identLit()}, loc)

	default:
		p.errorf("unknown expression %q", p.cur.Literal)
		p.advance()
		return nil
	}
}

// parseCallExpr parses `call fn(arg, ...) [kw k=v, ...] [vararg v]`.
func (p *Parser) parseCallExpr(loc location.Location) ir.Expr {
	p.advance() // "call"
	fn := p.identLit()

	var args []string
	if p.cur.Kind == irlex.LPAREN {
		p.advance()
		for p.cur.Kind != irlex.RPAREN && p.cur.Kind != irlex.EOF {
			args = append(args, p.identLit())
			if p.cur.Kind == irlex.COMMA {
				p.advance()
			}
		}
		p.expect(irlex.RPAREN)
	}

	if p.curIsKeyword("kw") {
		p.advance()
	}
	kws := map[string]string{}
	for p.cur.Kind == irlex.IDENT && p.peek.Kind == irlex.EQUALS {
		key := p.cur.Literal
		p.advance()
		p.advance() // '='
		kws[key] = p.identLit()
		if p.cur.Kind == irlex.COMMA {
			p.advance()
		}
	}

	vararg := ""
	if p.curIsKeyword("vararg") {
		p.advance()
		vararg = p.identLit()
	}

	return ir.NewCallExpr(fn, args, kws, vararg, loc)
}

// opToken consumes one operator token, punctuation or keyword, and
// returns its literal spelling.
func (p *Parser) opToken() string {
	tok := p.cur
	p.advance()
	return tok.Literal
}
