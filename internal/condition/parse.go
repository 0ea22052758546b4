package condition

import (
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryerr"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryir"
)

// node is the unbound expression tree produced by the parser.
type node interface{}

type andNode struct{ terms []node }

type orNode struct{ terms []node }

type notNode struct{ term node }

// cmpNode compares a property path with a literal. A bare path (no
// operator) tests a bool property.
type cmpNode struct {
	path   string
	op     queryir.Op
	fold   bool
	bare   bool
	lit    string
	quoted bool
	tok    string
}

var symbolicOps = map[string]queryir.Op{
	"==": queryir.OpEq,
	"=":  queryir.OpEq,
	"!=": queryir.OpNe,
	"<>": queryir.OpNe,
	"<":  queryir.OpLt,
	"<=": queryir.OpLe,
	">":  queryir.OpGt,
	">=": queryir.OpGe,
}

var keywordOps = map[string]queryir.Op{
	"contains": queryir.OpContains,
	"starts":   queryir.OpStarts,
	"ends":     queryir.OpEnds,
}

// exprParser is a recursive-descent parser over lexemes:
//
//	expr  := and {("or" | "||") and}
//	and   := unary {("and" | "&&") unary}
//	unary := ("not" | "!") unary | "(" expr ")" | cmp
//	cmp   := path [op literal]
type exprParser struct {
	lx  []lexeme
	pos int
}

func parseExpr(lx []lexeme) (node, error) {
	p := &exprParser{lx: lx}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.lx) {
		return nil, syntaxAt("unexpected token in condition", p.lx[p.pos])
	}
	return n, nil
}

func (p *exprParser) peek() (lexeme, bool) {
	if p.pos >= len(p.lx) {
		return lexeme{}, false
	}
	return p.lx[p.pos], true
}

// accept consumes the next lexeme if it is a word matching one of kw
// case-insensitively, or an operator equal to one of sym.
func (p *exprParser) accept(kw []string, sym []string) bool {
	l, ok := p.peek()
	if !ok {
		return false
	}
	switch l.kind {
	case lexWord:
		for _, k := range kw {
			if fold(l.text) == k {
				p.pos++
				return true
			}
		}
	case lexOp:
		for _, s := range sym {
			if l.text == s {
				p.pos++
				return true
			}
		}
	}
	return false
}

func (p *exprParser) parseOr() (node, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	terms := []node{first}
	for p.accept([]string{"or"}, []string{"||"}) {
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		terms = append(terms, next)
	}
	if len(terms) == 1 {
		return first, nil
	}
	return orNode{terms: terms}, nil
}

func (p *exprParser) parseAnd() (node, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	terms := []node{first}
	for p.accept([]string{"and"}, []string{"&&"}) {
		next, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		terms = append(terms, next)
	}
	if len(terms) == 1 {
		return first, nil
	}
	return andNode{terms: terms}, nil
}

func (p *exprParser) parseUnary() (node, error) {
	if p.accept([]string{"not"}, []string{"!"}) {
		term, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{term: term}, nil
	}

	l, ok := p.peek()
	if !ok {
		return nil, p.syntaxAtEnd("condition ends unexpectedly")
	}

	switch l.kind {
	case lexLParen:
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		closing, ok := p.peek()
		if !ok || closing.kind != lexRParen {
			return nil, p.syntaxAtEnd("missing closing parenthesis")
		}
		p.pos++
		return inner, nil
	case lexWord:
		return p.parseCompare()
	default:
		return nil, syntaxAt("expected property name", l)
	}
}

func (p *exprParser) parseCompare() (node, error) {
	pathLex := p.lx[p.pos]
	p.pos++
	n := cmpNode{path: pathLex.text, tok: pathLex.tok}

	l, ok := p.peek()
	if !ok || l.kind == lexRParen || isConnective(l) {
		n.bare = true
		return n, nil
	}

	switch l.kind {
	case lexOp:
		text := l.text
		if len(text) > 1 && text[len(text)-1] == '~' {
			n.fold = true
			text = text[:len(text)-1]
		}
		op, known := symbolicOps[text]
		if !known || (n.fold && op != queryir.OpEq && op != queryir.OpNe) {
			return nil, syntaxAt("unknown operator", l)
		}
		n.op = op
		p.pos++
	case lexWord:
		op, known := keywordOps[fold(l.text)]
		if !known {
			return nil, syntaxAt("expected operator", l)
		}
		n.op = op
		p.pos++
		if next, ok := p.peek(); ok && next.kind == lexOp && next.text == "~" {
			n.fold = true
			p.pos++
		}
	default:
		return nil, syntaxAt("expected operator", l)
	}

	lit, ok := p.peek()
	if !ok {
		return nil, p.syntaxAtEnd("missing comparison value")
	}
	if lit.kind != lexWord && lit.kind != lexQuoted {
		return nil, syntaxAt("expected comparison value", lit)
	}
	p.pos++
	n.lit = lit.text
	n.quoted = lit.kind == lexQuoted
	return n, nil
}

func isConnective(l lexeme) bool {
	switch l.kind {
	case lexWord:
		f := fold(l.text)
		return f == "and" || f == "or"
	case lexOp:
		return l.text == "&&" || l.text == "||"
	}
	return false
}

func syntaxAt(msg string, l lexeme) error {
	return queryerr.Syntax("%s: %q", msg, l.text).WithToken(l.tok)
}

func (p *exprParser) syntaxAtEnd(msg string) error {
	err := queryerr.Syntax("%s", msg)
	if len(p.lx) > 0 {
		err = err.WithToken(p.lx[len(p.lx)-1].tok)
	}
	return err
}
