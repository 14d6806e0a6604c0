package irparse

import (
	"strconv"

	"github.com/ashrielbrian/numba-typeinfer/internal/ir"
	"github.com/ashrielbrian/numba-typeinfer/internal/irlex"
)

func (p *Parser) parseStatement() ir.Statement {
	loc := p.loc()

	if p.cur.Kind == irlex.IDENT && p.peek.Kind == irlex.EQUALS {
		target := p.cur.Literal
		p.advance() // ident
		p.advance() // '='
		return ir.NewAssign(target, p.parseExpr(loc), loc)
	}

	if p.cur.Kind != irlex.IDENT {
		p.errorf("expected statement, got %s %q", p.cur.Kind, p.cur.Literal)
		p.advance()
		return nil
	}

	switch p.cur.Literal {
	case "setitem":
		p.advance()
		target := p.identLit()
		index := p.identLit()
		value := p.identLit()
		return ir.NewSetItem(target, index, value, loc)

	case "staticsetitem":
		p.advance()
		target := p.identLit()
		index := p.parseStaticIndex()
		value := p.identLit()
		indexVar := ""
		if p.curIsKeyword("indexvar") {
			p.advance()
			indexVar = p.identLit()
		}
		return ir.NewStaticSetItem(target, index, indexVar, value, loc)

	case "delitem":
		p.advance()
		target := p.identLit()
		index := p.identLit()
		return ir.NewDelItem(target, index, loc)

	case "setattr":
		p.advance()
		target := p.identLit()
		attr := p.identLit()
		value := p.identLit()
		return ir.NewSetAttr(target, attr, value, loc)

	case "print":
		p.advance()
		return ir.NewPrint(p.restOfLineIdents(), loc)

	case "jump":
		p.advance()
		return ir.NewJump(p.intLit(), loc)

	case "branch":
		p.advance()
		cond := p.identLit()
		p.expectIdent("then")
		thenLabel := p.intLit()
		p.expectIdent("else")
		elseLabel := p.intLit()
		return ir.NewBranch(cond, thenLabel, elseLabel, loc)

	case "return":
		p.advance()
		value := ""
		if p.cur.Kind == irlex.IDENT {
			value = p.identLit()
		}
		return ir.NewReturn(value, loc)

	case "del":
		p.advance()
		return ir.NewDel(p.identLit(), loc)

	case "raise":
		p.advance()
		msg := ""
		if p.cur.Kind == irlex.STRING {
			msg = p.cur.Literal
			p.advance()
		}
		return ir.NewStaticRaise(msg, loc)

	default:
		p.errorf("unknown statement %q", p.cur.Literal)
		p.advance()
		return nil
	}
}

// identLit consumes and returns one IDENT's literal.
func (p *Parser) identLit() string {
	tok, _ := p.expect(irlex.IDENT)
	return tok.Literal
}

func (p *Parser) intLit() int {
	tok, _ := p.expect(irlex.INT)
	n, _ := strconv.Atoi(tok.Literal)
	return n
}

// restOfLineIdents consumes comma-separated identifiers until NEWLINE/EOF.
func (p *Parser) restOfLineIdents() []string {
	var out []string
	for p.cur.Kind == irlex.IDENT {
		out = append(out, p.cur.Literal)
		p.advance()
		if p.cur.Kind == irlex.COMMA {
			p.advance()
		}
	}
	return out
}

// parseStaticIndex reads either an integer position or a quoted field name.
func (p *Parser) parseStaticIndex() interface{} {
	if p.cur.Kind == irlex.INT {
		return p.intLit()
	}
	tok, _ := p.expect(irlex.STRING)
	return tok.Literal
}
