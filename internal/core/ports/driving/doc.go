// Package driving declares what racg offers to its callers: import
// validation, compile checks, repair runs, batch experiments, run history
// and settings. The CLI, the HTTP API, the MCP server and the file watcher
// all talk to the core through these interfaces; internal/core/services
// implements them.
package driving
