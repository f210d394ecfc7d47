// Package services holds the racg core: import validation, compile
// dispatch and the compiler-guided repair loop, plus the experiment runner,
// run history and settings built on top of them.
//
// Toolchains, parsers, registries, storage and the LLM are reached only
// through driven ports, so every service runs against in-memory fakes in
// tests.
package services
