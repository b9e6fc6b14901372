package typeshape

import (
	"fmt"
	"strconv"
)

// parse drives the grammar over one bound scanner and returns the
// type tree plus a status code: 0 on success, 2 on memory exhaustion,
// any other nonzero on failure.  Errors are reported through ctx.
// When meta is non-nil, 'var' dimensions consume its offset arrays in
// order, outermost dimension first.
func parse(sc *scanner, meta *Meta, ctx *Context) (Type, int) {
	p := &grammarParser{sc: sc, ctx: ctx, meta: meta}
	p.tok = sc.next()

	t := p.parseDatashape()
	if t != nil && p.tok.kind != tokEOF {
		p.errorf("unexpected %s after type", tokenDesc(p.tok))
		t = nil
	}
	if t == nil {
		if ctx.pendingKind() == MemoryError {
			return nil, 2
		}
		return nil, 1
	}
	return t, 0
}

type grammarParser struct {
	sc      *scanner
	ctx     *Context
	meta    *Meta
	metaDim int
	tok     token
	ahead   *token
}

// next consumes the current token and returns it.
func (p *grammarParser) next() token {
	cur := p.tok
	if p.ahead != nil {
		p.tok = *p.ahead
		p.ahead = nil
	} else {
		p.tok = p.sc.next()
	}
	return cur
}

// peekAhead returns the token after the current one without consuming
// anything.
func (p *grammarParser) peekAhead() token {
	if p.ahead == nil {
		t := p.sc.next()
		p.ahead = &t
	}
	return *p.ahead
}

func (p *grammarParser) errorf(format string, args ...interface{}) {
	p.errorAt(p.tok, format, args...)
}

func (p *grammarParser) errorAt(tok token, format string, args ...interface{}) {
	p.ctx.report(ParseError, "%d:%d: %s", tok.line, tok.col, fmt.Sprintf(format, args...))
}

func (p *grammarParser) expect(kind tokenKind, what string) bool {
	if p.tok.kind != kind {
		p.errorf("expected %s, found %s", what, tokenDesc(p.tok))
		return false
	}
	p.next()
	return true
}

func tokenDesc(t token) string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", t.text)
}

// DS: datashape <- dimension '*' datashape / dtype
func (p *grammarParser) parseDatashape() Type {
	switch p.tok.kind {
	case tokInt:
		return p.parseFixedDim()
	case tokLowerName:
		if p.tok.text == "var" && p.peekAhead().kind == tokStar {
			return p.parseVarDim()
		}
	case tokUpperName:
		if p.tok.text != "Any" && p.peekAhead().kind == tokStar {
			return p.parseSymbolicDim()
		}
	}
	return p.parseDtype()
}

// DS: fixed_dim <- INT '*' datashape
func (p *grammarParser) parseFixedDim() Type {
	tok := p.next()
	size, err := strconv.ParseInt(tok.text, 10, 64)
	if err != nil {
		p.errorAt(tok, "invalid dimension size '%s'", tok.text)
		return nil
	}
	if !p.expect(tokStar, "'*'") {
		return nil
	}
	elem := p.parseDatashape()
	if elem == nil {
		return nil
	}
	return NewFixedDimType(size, elem)
}

// DS: symbolic_dim <- UPPER_NAME '*' datashape
func (p *grammarParser) parseSymbolicDim() Type {
	name := p.next().text
	if !p.expect(tokStar, "'*'") {
		return nil
	}
	elem := p.parseDatashape()
	if elem == nil {
		return nil
	}
	return NewSymbolicDimType(name, elem)
}

// DS: var_dim <- 'var' '*' datashape
//
// With metadata bound to the parse, each 'var' takes the next offset
// array, so the first array shapes the outermost ragged dimension.
func (p *grammarParser) parseVarDim() Type {
	vtok := p.next()

	var offsets []int32
	if p.meta != nil {
		if p.metaDim >= p.meta.NumDims() {
			p.ctx.report(ValueError, "%d:%d: more 'var' dimensions than supplied offset arrays (%d)",
				vtok.line, vtok.col, p.meta.NumDims())
			return nil
		}
		offsets = p.meta.OffsetArrays[p.metaDim]
		p.metaDim++
	}

	if !p.expect(tokStar, "'*'") {
		return nil
	}
	elem := p.parseDatashape()
	if elem == nil {
		return nil
	}
	if offsets != nil {
		return NewVarDimType(elem, offsets, p.ctx)
	}
	return newVarDimNoOffsets(elem)
}

// DS: dtype <- scalar / 'Any' / typevar / tuple / record
func (p *grammarParser) parseDtype() Type {
	switch p.tok.kind {
	case tokLowerName:
		tok := p.next()
		if kind, ok := primitiveKinds[tok.text]; ok {
			return NewPrimitiveType(kind)
		}
		p.errorAt(tok, "unexpected name '%s'", tok.text)
		return nil
	case tokUpperName:
		tok := p.next()
		if tok.text == "Any" {
			return NewAnyType()
		}
		return NewTypeVar(tok.text)
	case tokLparen:
		return p.parseTuple()
	case tokLbrace:
		return p.parseRecord()
	case tokEOF:
		p.errorf("unexpected end of input")
		return nil
	default:
		p.errorf("unexpected %s", tokenDesc(p.tok))
		return nil
	}
}

// DS: tuple <- '(' (datashape (',' datashape)*)? ')'
func (p *grammarParser) parseTuple() Type {
	p.next()
	var fields []Type
	if p.tok.kind != tokRparen {
		for {
			f := p.parseDatashape()
			if f == nil {
				return nil
			}
			fields = append(fields, f)
			if p.tok.kind != tokComma {
				break
			}
			p.next()
		}
	}
	if !p.expect(tokRparen, "')'") {
		return nil
	}
	return NewTupleType(fields)
}

// DS: record <- '{' (field (',' field)*)? '}'
// DS: field  <- NAME ':' datashape
func (p *grammarParser) parseRecord() Type {
	p.next()
	var fields []RecordField
	if p.tok.kind != tokRbrace {
		for {
			if p.tok.kind != tokLowerName && p.tok.kind != tokUpperName {
				p.errorf("expected field name, found %s", tokenDesc(p.tok))
				return nil
			}
			name := p.next().text
			if !p.expect(tokColon, "':'") {
				return nil
			}
			f := p.parseDatashape()
			if f == nil {
				return nil
			}
			fields = append(fields, RecordField{Name: name, Type: f})
			if p.tok.kind != tokComma {
				break
			}
			p.next()
		}
	}
	if !p.expect(tokRbrace, "'}'") {
		return nil
	}
	return NewRecordType(fields)
}
