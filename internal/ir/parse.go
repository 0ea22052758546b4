package ir

import (
	"strconv"
	"strings"
)

// ParseInt parses a command integer literal. Literals are decimal unless
// they carry an explicit 0x, 0o or 0b prefix after the optional sign, so a
// leading zero never means octal. Digit separators are not accepted.
func ParseInt(s string) (int64, error) {
	syntaxErr := &strconv.NumError{Func: "ParseInt", Num: s, Err: strconv.ErrSyntax}
	if strings.Contains(s, "_") {
		return 0, syntaxErr
	}

	sign, body := "", s
	if body != "" && (body[0] == '-' || body[0] == '+') {
		sign, body = body[:1], body[1:]
	}

	base := 10
	if len(body) >= 2 && body[0] == '0' {
		switch body[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
	}
	if base != 10 {
		body = body[2:]
		if body == "" || body[0] == '-' || body[0] == '+' {
			return 0, syntaxErr
		}
	}

	n, err := strconv.ParseInt(sign+body, base, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok {
			ne.Num = s
		}
		return 0, err
	}
	return n, nil
}
