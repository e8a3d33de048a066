package expr

import "github.com/brindlewood/actcore/runtime/lexer"

// ParseError is a single recovered parse failure. Parsing never aborts on
// error: the malformed region becomes an Error node and parsing continues
// on siblings, so ParseErrors can contain more than one entry.
type ParseError struct {
	Span    lexer.Span
	Message string
}

func (e ParseError) Error() string { return e.Message }

type parser struct {
	toks []lexer.Token
	pos  int
	tree *Tree
	errs []ParseError
}

// Parse tokenizes and parses src per the expression grammar. It always
// returns a usable Tree; parse errors are reported alongside, not as a
// fatal failure, matching the recovering-parser contract.
func Parse(src string) (*Tree, []ParseError) {
	all := lexer.Lex(src)
	toks := make([]lexer.Token, 0, len(all))
	for _, t := range all {
		if t.Kind == lexer.Whitespace {
			continue
		}
		toks = append(toks, t)
	}
	p := &parser{toks: toks, tree: &Tree{}}
	root := p.parseExpr()
	p.tree.Root = root
	return p.tree, p.errs
}

func (p *parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Kind: lexer.Eof}
	}
	return p.toks[p.pos]
}

func (p *parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) isOperatorText(texts ...string) bool {
	t := p.cur()
	if t.Kind != lexer.Operator {
		return false
	}
	for _, want := range texts {
		if t.Text == want {
			return true
		}
	}
	return false
}

// parseExpr == "or" in the grammar.
func (p *parser) parseExpr() int {
	return p.parseOr()
}

func (p *parser) parseOr() int {
	left := p.parseAnd()
	for p.isOperatorText("||") {
		op := p.advance()
		right := p.parseAnd()
		left = p.tree.push(Node{Kind: Binary, Tok: op, Children: []int{left, right}})
	}
	return left
}

func (p *parser) parseAnd() int {
	left := p.parseEq()
	for p.isOperatorText("&&") {
		op := p.advance()
		right := p.parseEq()
		left = p.tree.push(Node{Kind: Binary, Tok: op, Children: []int{left, right}})
	}
	return left
}

func (p *parser) parseEq() int {
	left := p.parseCmp()
	for p.isOperatorText("==", "!=") {
		op := p.advance()
		right := p.parseCmp()
		left = p.tree.push(Node{Kind: Binary, Tok: op, Children: []int{left, right}})
	}
	return left
}

func (p *parser) parseCmp() int {
	left := p.parseUnary()
	for p.isOperatorText("<", "<=", ">", ">=") {
		op := p.advance()
		right := p.parseUnary()
		left = p.tree.push(Node{Kind: Binary, Tok: op, Children: []int{left, right}})
	}
	return left
}

func (p *parser) parseUnary() int {
	if p.isOperatorText("!") {
		op := p.advance()
		operand := p.parseUnary()
		return p.tree.push(Node{Kind: Unary, Tok: op, Children: []int{operand}})
	}
	return p.parsePrimary()
}

// isSyncToken reports whether t could start a new expression primary, used
// to resynchronize after a parse error.
func isSyncToken(t lexer.Token) bool {
	switch t.Kind {
	case lexer.Ident, lexer.Number, lexer.Bool, lexer.Null,
		lexer.SingleString, lexer.DoubleString, lexer.OpenParen, lexer.OpenExpr, lexer.Eof:
		return true
	case lexer.Operator:
		return t.Text == "!"
	default:
		return false
	}
}

func (p *parser) recover(msg string) int {
	start := p.cur().Span
	for !isSyncToken(p.cur()) && p.cur().Kind != lexer.Eof {
		p.advance()
	}
	p.errs = append(p.errs, ParseError{Span: start, Message: msg})
	return p.tree.push(Node{Kind: Error, Tok: lexer.Token{Kind: lexer.Error, Text: msg, Span: start}})
}

func (p *parser) parsePrimary() int {
	t := p.cur()
	switch t.Kind {
	case lexer.Number:
		p.advance()
		return p.tree.push(Node{Kind: Number, Tok: t})
	case lexer.Bool:
		p.advance()
		return p.tree.push(Node{Kind: Bool, Tok: t})
	case lexer.Null:
		p.advance()
		return p.tree.push(Node{Kind: Null, Tok: t})
	case lexer.SingleString:
		p.advance()
		return p.tree.push(Node{Kind: SingleString, Tok: t})
	case lexer.DoubleString:
		p.advance()
		return p.tree.push(Node{Kind: DoubleString, Tok: t})
	case lexer.OpenParen:
		p.advance()
		inner := p.parseExpr()
		if p.cur().Kind == lexer.CloseParen {
			p.advance()
		} else {
			p.errs = append(p.errs, ParseError{Span: p.cur().Span, Message: "expected ')'"})
		}
		return p.tree.push(Node{Kind: Group, Tok: t, Children: []int{inner}})
	case lexer.OpenExpr:
		p.advance()
		inner := p.parseExpr()
		if p.cur().Kind == lexer.CloseExpr {
			p.advance()
		} else {
			p.errs = append(p.errs, ParseError{Span: p.cur().Span, Message: "expected '}}'"})
		}
		return p.tree.push(Node{Kind: Group, Tok: t, Children: []int{inner}})
	case lexer.Ident:
		return p.parseIdentLed()
	case lexer.Error:
		p.advance()
		p.errs = append(p.errs, ParseError{Span: t.Span, Message: t.Text})
		return p.tree.push(Node{Kind: Error, Tok: t})
	default:
		return p.recover("expected an expression")
	}
}

func (p *parser) parseIdentLed() int {
	base := p.advance() // Ident
	if p.cur().Kind == lexer.OpenParen {
		p.advance()
		var args []int
		if p.cur().Kind != lexer.CloseParen {
			args = append(args, p.parseExpr())
			for p.cur().Kind == lexer.Comma {
				p.advance()
				args = append(args, p.parseExpr())
			}
		}
		if p.cur().Kind == lexer.CloseParen {
			p.advance()
		} else {
			p.errs = append(p.errs, ParseError{Span: p.cur().Span, Message: "expected ')'"})
		}
		return p.tree.push(Node{Kind: Function, Tok: base, Children: args})
	}

	var segs []int
	for p.cur().Kind == lexer.Dot {
		p.advance()
		seg := p.cur()
		switch seg.Kind {
		case lexer.Ident:
			p.advance()
			segs = append(segs, p.tree.push(Node{Kind: Ident, Tok: seg}))
		case lexer.Star:
			p.advance()
			segs = append(segs, p.tree.push(Node{Kind: Star, Tok: seg}))
		default:
			segs = append(segs, p.recover("expected identifier or '*' after '.'"))
		}
	}
	return p.tree.push(Node{Kind: Lookup, Tok: base, Children: segs})
}
