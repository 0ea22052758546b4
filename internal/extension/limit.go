package extension

import (
	"strconv"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryerr"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryir"
)

// Limit truncates the list to its first N objects.
type Limit struct {
	n int64
}

func (l *Limit) Name() string { return "Limit" }

func (l *Limit) Order() int { return OrderLimit }

// Parse reads a single integer, decimal or 0x/0o/0b prefixed.
func (l *Limit) Parse(_ *Env, args []string) error {
	if len(args) != 1 {
		return queryerr.Syntax("invalid extended argument count").WithToken("Limit")
	}
	n, err := ir.ParseInt(args[0])
	if err != nil {
		return &queryerr.Error{
			Code:    queryerr.CodeSyntax,
			Message: "invalid limit",
			Token:   args[0],
			Err:     err,
		}
	}
	if n < 0 {
		return queryerr.Syntax("limit cannot be less than zero").WithToken(args[0])
	}
	l.n = n
	return nil
}

func (l *Limit) Optimize(*Env, *ir.TypeSpec) error { return nil }

func (l *Limit) IsValid(Object) bool { return true }

// Filter returns at most the first N objects.
func (l *Limit) Filter(objs []Object) ([]Object, error) {
	if int64(len(objs)) <= l.n {
		return objs, nil
	}
	return objs[:l.n:l.n], nil
}

// N returns the parsed limit.
func (l *Limit) N() int64 {
	return l.n
}

// Lower keeps the tightest limit.
func (l *Limit) Lower(sel *queryir.Select) error {
	if sel.Limit == queryir.NoLimit || l.n < sel.Limit {
		sel.Limit = l.n
	}
	return nil
}

func (l *Limit) String() string {
	return "Limit " + strconv.FormatInt(l.n, 10)
}
