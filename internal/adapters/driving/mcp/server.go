package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/asdzza/RACG-Defense/internal/logger"
)

// Version is reported to clients in the initialize handshake.
const Version = "0.1.0"

const instructions = `racg checks LLM-generated code for hallucinated imports.
Call validate_imports before trusting new dependencies, check_code to compile
a snippet, and repair_code to let the repair agent fix both kinds of error.`

const shutdownTimeout = 5 * time.Second

// Server exposes the racg driving ports as MCP tools and resources.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer registers tools for every non-nil port. Validator is required.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "racg", Version: Version},
			&mcp.ServerOptions{Instructions: instructions},
		),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Handler serves the streamable HTTP transport.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// Serve blocks until ctx is done. An empty addr speaks MCP over stdio,
// otherwise streamable HTTP is served on addr.
func (s *Server) Serve(ctx context.Context, addr string) error {
	if addr == "" {
		logger.Debug("mcp: serving over stdio")
		return s.server.Run(ctx, &mcp.StdioTransport{})
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("mcp: listening on %s", addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
