package ir

import "golang.org/x/text/cases"

// FoldCase returns the Unicode full case folding of s. It is the single
// definition of case-insensitive equality: in-memory matching and the
// store's casefold SQL function both call it.
func FoldCase(s string) string {
	return cases.Fold().String(s)
}
