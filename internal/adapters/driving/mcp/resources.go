package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for racg resources.
	uriScheme = "racg://"

	// recentRunsLimit bounds the racg://runs/recent listing.
	recentRunsLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs/recent",
		Name:        "recent-runs",
		Description: "Most recent repair runs, newest first",
		MIMEType:    "application/json",
	}, s.handleRecentRunsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{runId}",
		Name:        "repair-run",
		Description: "A recorded repair run with every round",
		MIMEType:    "application/json",
	}, s.handleRunResource)
}

// runSummary is the listing form of a repair run.
type runSummary struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Language  string    `json:"language"`
	Status    string    `json:"status"`
	Rounds    int       `json:"rounds"`
	StartedAt time.Time `json:"started_at"`
}

// handleRecentRunsResource returns summaries of the latest runs.
func (s *Server) handleRecentRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	runs, err := s.ports.History.List(ctx, recentRunsLimit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	infos := make([]runSummary, len(runs))
	for i := range runs {
		infos[i] = runSummary{
			ID:        runs[i].ID,
			Source:    runs[i].Source,
			Language:  runs[i].Language.String(),
			Status:    runs[i].Status.String(),
			Rounds:    len(runs[i].Rounds),
			StartedAt: runs[i].StartedAt,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling runs: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleRunResource returns one run in full.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// racg://runs/recent is served by the static resource.
	runID := extractRunID(req.Params.URI)
	if runID == "" || runID == "recent" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	run, err := s.ports.History.Get(ctx, runID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling run: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractRunID extracts the run ID from a URI like racg://runs/{runId}.
func extractRunID(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
