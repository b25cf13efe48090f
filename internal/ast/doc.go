// Package ast defines the spanned syntax tree the external parser hands to
// the checker. Nodes are plain structs with exported fields so bundles can
// round-trip through the wire codec in internal/astio; declarations inside a
// File are grouped by kind, mirroring the parser's output contract.
//
// The checker annotates expressions in place: every Expr carries a type slot
// that semantic analysis fills in.
package ast
