// Package domain holds the types shared by every layer of racg.
//
// A Language selects the parser, registry and compiler. Validating a
// snippet yields a ValidationReport made of Findings (typosquats, unknown
// or unapproved packages, syntax errors). Compiling yields a CompileResult. The
// repair loop records a RepairRun with one RepairRound per attempt.
// ImportPolicy lists the popular packages and built-ins per language.
//
// The package imports only the standard library; adapters and services
// depend on it, never the other way round.
package domain
