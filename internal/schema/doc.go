// Package schema compiles CUE object type definitions into ir.TypeSpec
// values and indexes them in a Catalog.
//
// A schema file declares types under the top-level "type" field:
//
//	type: Mobile: {
//		parent: "Entity"
//		properties: {
//			hits:    int
//			account: {kind: "string", access: "Administrator"}
//			stats:   {str: int, dex: int}
//		}
//	}
//
// A property is either a bare CUE type (string, int, bool), a descriptor
// struct with a concrete "kind" and optional "access" and "properties", or
// a plain struct of nested properties. Floats are rejected.
package schema
