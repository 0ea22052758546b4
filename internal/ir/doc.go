// Package ir holds the value model and schema types shared by every layer of
// the query pipeline.
//
// ir imports nothing internal. Every other package imports it, which keeps
// the dependency graph a tree.
//
// Key constraints:
//   - Property values are IRValue only; there is no float type, so ordering
//     and equality are exact.
//   - Compare defines one total order over all IRValues. Sort and Distinct
//     keys, condition operators and SQL rendering all agree with it.
//   - Canonical JSON (RFC 8785 key order, NFC strings) is the only encoding
//     used for digests and golden output.
package ir
