// Package queryir provides the backend-neutral representation of a
// compiled command query.
//
// The IR sits between the token pipeline and the engines that evaluate it:
//
//	[Where/Distinct/Sort/Limit tokens] -> [Query IR] -> [in-memory executor]
//	                                                  -> [SQL backend]
//
// The in-memory executor is authoritative. The SQL backend renders the same
// Select so a query can be pushed down to a snapshot store; Validate reports
// constructs whose SQL rendering is not guaranteed to agree with the
// in-memory result.
//
// SEALED INTERFACES:
//
// Query and Predicate are sealed interfaces using the marker method pattern.
// Only types in this package can implement them, so backends can switch
// exhaustively:
//
//	switch p := pred.(type) {
//	case Compare:
//	case And:
//	case Or:
//	case Not:
//	case TypeIn:
//	}
//
// NULL SEMANTICS:
//
// A missing property reads as null. Equality operators are null-safe
// (null == null holds). Ordering and string operators are false whenever
// the property is null, so Not over them is true.
package queryir
