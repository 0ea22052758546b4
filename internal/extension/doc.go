// Package extension parses the trailing keywords of a command into an
// ordered query pipeline and runs it over a candidate list.
//
// A command such as
//
//	list name hits Where Mobile hits > 50 Distinct title Sort hits desc Limit 5
//
// is scanned from the right. Each registered keyword (Where, Distinct,
// Sort, Limit) consumes the tokens to its right; whatever precedes the
// first keyword is returned to the caller untouched. Parsed extensions run
// in declared order regardless of where they appeared:
//
//	Where (20)    selects objects of a base type matching a condition
//	Distinct (30) keeps the first object of each group of equal keys
//	Sort (40)     stably orders by one or more keys
//	Limit (80)    truncates the list
//
// Where resolves the base type that Distinct and Sort bind their property
// paths against, so both are semantic errors without it.
package extension
