// Package expr compiles the library's infix alpha-formula DSL into Go
// source that calls kernel operators through a ctx-like dispatcher.
//
// The pipeline is lexer -> precedence-climbing parser -> AST -> emitter.
// The grammar — ternary, ||, &&, comparisons, +-, */, ^, unary -, calls,
// dotted names — is fixed by the DSL contract this package targets.
//
// Repeated reads of the same identifier are hoisted into one local per
// identifier (Compile's "common subexpression" pass), matching an
// optimizing code generator's usual hoist-on-repeat behavior.
package expr
