// Package mcp provides an MCP (Model Context Protocol) server adapter for racg.
// It lets AI assistants validate imports, compile-check and repair the code
// they generate before handing it to a user.
package mcp

import "errors"

// ErrMissingValidator is returned when the import validator is not provided.
var ErrMissingValidator = errors.New("mcp: import validator is required")
