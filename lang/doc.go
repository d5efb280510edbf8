// Package lang expands token-tree templates.
//
// A [Script] is a list of items evaluated in order. Static items are copied
// to the output. A let item binds a name to an ordered set of token
// sequences. A for item repeats its body once per combination of values
// drawn from one or more sets, substituting loop variables into the body.
//
// # Grammar
//
// Informal EBNF over the tokens produced by [Scan]:
//
//	Script   → Item*
//	Item     → Let | For | Static | Raw
//	Let      → 'let' Ident '=' Terms ';'
//	For      → ('for' Target 'in' Terms)+ '{' Tokens '}'
//	Static   → 'static' '{' Tokens '}'
//	Target   → Ident | '(' Ident (',' Ident)* ')'
//	Terms    → Term (('+' | '-') Term)*
//	Term     → Ident | '[' Entries ']' | '{' Entries '}'
//
// # Example
//
//	let Small = [u8, u16];
//	let Wide = Small + [u32, u64] - [u16];
//
//	for T in Wide {
//	    fn zero() -> T { 0 }
//	}
//
//	for (Name, Ty) in [(Byte, u8), (Word, u16)] for N in [1, 2] {
//	    type Name N = [Ty; N];
//	}
//
// # Sets
//
// Sets keep insertion order and drop duplicates by structural equality:
// "+" appends the elements of the right term not already present, "-"
// removes them. Terms are combined strictly left to right.
//
// # Scoping
//
// Let names are visible only as binding terms; they are never substituted
// into bodies. Loop variables are substituted into the body and into the
// list entries of loops nested after them, so inner sets may depend on
// outer values. Each for item starts with no loop variables, and a name may
// be bound only once per for item. The target "_" consumes a value without
// binding it.
//
// # Errors
//
// Evaluation fails as a whole: on error no partial output is returned. All
// errors are [*Error] values derived from the sentinel errors of this
// package and carry the source position of the offending token.
package lang
