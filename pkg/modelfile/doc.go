// Package modelfile reads model definitions from TOML, YAML or JSON files.
//
// A file describes one root node. Nodes nest through children:
//
//	name = "checkout"
//	description = "Cart checkout"
//	label = "POST /checkout"
//	kind = "call"
//	service = "API"
//	overhead = 10
//
//	[[children]]
//	kind = "constant"
//	label = "SELECT cart"
//	duration = 40
//	service = "DB"
//
// Kinds are the four node kinds of pkg/core/model plus two shorthands from
// pkg/models: "gap" (a hidden constant) and "call" (a visible overhead
// wrapper, overhead defaults to 100). The span key overrides the kind's
// default visibility.
//
// Decoding is strict: unknown keys are rejected in every format, so a typo
// such as "durration" fails instead of silently producing a zero.
package modelfile
