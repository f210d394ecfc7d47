package tui

import "errors"

// ErrMissingHistoryService is returned when the history service is not provided.
var ErrMissingHistoryService = errors.New("tui: history service is required")

// ErrInvalidPorts is returned when no ports are provided at all.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
