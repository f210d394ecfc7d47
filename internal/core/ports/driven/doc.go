// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Compiler: Runs a language toolchain over a snippet
//   - ImportParser: Extracts imported packages from a snippet
//   - PackageRegistry: Answers whether a package exists in a public registry
//   - PolicyStore: Popular packages and built-ins per language
//   - RunStore: Repair run history
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model operations. Without it, repair is disabled and only checks run.
//   - RegistryCache: Lookup cache. Without it, every check hits the registry.
//   - Metrics: Observability sink. Without it, nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
