package condition

import "strings"

type lexKind int

const (
	lexWord lexKind = iota
	lexQuoted
	lexOp
	lexLParen
	lexRParen
)

type lexeme struct {
	kind lexKind
	text string
	tok  string // the command token the lexeme came from
}

const opChars = "=!<>~&|"

// lex splits command tokens into lexemes. Parentheses and runs of operator
// characters are split off words, so "hits>=50" and "hits >= 50" lex the
// same. A token wrapped in matching quotes is a single string literal.
func lex(tokens []string) []lexeme {
	var out []lexeme
	for _, tok := range tokens {
		if unq, ok := unquote(tok); ok {
			out = append(out, lexeme{kind: lexQuoted, text: unq, tok: tok})
			continue
		}

		i := 0
		for i < len(tok) {
			c := tok[i]
			switch {
			case c == '(':
				out = append(out, lexeme{kind: lexLParen, text: "(", tok: tok})
				i++
			case c == ')':
				out = append(out, lexeme{kind: lexRParen, text: ")", tok: tok})
				i++
			case strings.IndexByte(opChars, c) >= 0:
				j := i
				for j < len(tok) && strings.IndexByte(opChars, tok[j]) >= 0 {
					j++
				}
				out = append(out, lexeme{kind: lexOp, text: tok[i:j], tok: tok})
				i = j
			default:
				j := i
				for j < len(tok) && tok[j] != '(' && tok[j] != ')' && strings.IndexByte(opChars, tok[j]) < 0 {
					j++
				}
				out = append(out, lexeme{kind: lexWord, text: tok[i:j], tok: tok})
				i = j
			}
		}
	}
	return out
}

func unquote(tok string) (string, bool) {
	if len(tok) < 2 {
		return "", false
	}
	q := tok[0]
	if (q != '"' && q != '\'') || tok[len(tok)-1] != q {
		return "", false
	}
	return tok[1 : len(tok)-1], true
}
