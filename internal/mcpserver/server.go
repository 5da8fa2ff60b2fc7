// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the vault's capture and query tools via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/munin-vault/munin/internal/vaultservice"
)

// Server wraps the MCP server with vault tools.
type Server struct {
	mcp *server.MCPServer
	svc *vaultservice.Service
}

// New creates a new MCP server with all vault tools registered.
func New(svc *vaultservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Munin",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("capture_artifact",
		mcp.WithDescription("Capture free-form text into the vault. The input is classified "+
			"automatically: hex colors, quotes, GitHub repo URLs, YouTube links, bare URLs and "+
			"plain notes are all recognised."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The text to capture")),
		mcp.WithString("title", mcp.Description("Optional title override")),
		mcp.WithString("space_id", mcp.Description("Optional target space id")),
	), s.captureArtifact)

	s.mcp.AddTool(mcp.NewTool("search_artifacts",
		mcp.WithDescription("Search the vault. Supports type names (note, article, video...), "+
			"'favorites', numeric id prefixes, the 'trash' keyword, and free text matched "+
			"against titles, content and tags. A natural-language date expression such as "+
			"'last week' or '20240728' may be given separately to narrow by capture date."),
		mcp.WithString("query", mcp.Description("Search query string")),
		mcp.WithString("range", mcp.Description("Optional date expression, e.g. 'yesterday', 'last 3 days'")),
	), s.searchArtifacts)

	s.mcp.AddTool(mcp.NewTool("get_artifact",
		mcp.WithDescription("Read one artifact by id, including its full content."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Artifact id")),
	), s.getArtifact)

	s.mcp.AddTool(mcp.NewTool("list_anchors",
		mcp.WithDescription("List anchors (uniquely titled bundles of artifact references), "+
			"optionally filtered by a title or id substring."),
		mcp.WithString("query", mcp.Description("Optional filter string")),
	), s.listAnchors)

	s.mcp.AddTool(mcp.NewTool("save_anchor",
		mcp.WithDescription("Create an anchor bundling artifact ids under a unique title. "+
			"If the title is taken the existing anchor is returned as a conflict instead of "+
			"a failure; resolve it by calling again with merge=true to union the id sets."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Anchor title (globally unique)")),
		mcp.WithString("artifact_ids", mcp.Required(), mcp.Description("JSON array of artifact ids")),
		mcp.WithBoolean("merge", mcp.Description("On a title conflict, merge into the existing anchor")),
	), s.saveAnchor)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) captureArtifact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title := req.GetString("title", "")
	spaceID := req.GetString("space_id", "")

	a, err := s.svc.Capture(ctx, vaultservice.CaptureRequest{
		Text:    text,
		Title:   title,
		SpaceID: spaceID,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(a, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchArtifacts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.SearchArtifacts(vaultservice.SearchRequest{
		Query:     req.GetString("query", ""),
		RangeText: req.GetString("range", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// Content bodies can be large; the listing carries summaries only.
	type summary struct {
		ID      string   `json:"id"`
		Type    string   `json:"type"`
		Title   string   `json:"title"`
		Tags    []string `json:"tags"`
		SpaceID string   `json:"spaceId,omitempty"`
	}
	summaries := make([]summary, 0, len(items))
	for _, a := range items {
		summaries = append(summaries, summary{
			ID: a.ID, Type: string(a.Type), Title: a.Title, Tags: a.Tags, SpaceID: a.SpaceID,
		})
	}
	out, _ := json.MarshalIndent(summaries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getArtifact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	a, err := s.svc.Artifact(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(a, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listAnchors(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.SearchAnchors(req.GetString("query", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) saveAnchor(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawIDs, err := req.RequireString("artifact_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(rawIDs), &ids); err != nil {
		return mcp.NewToolResultError("artifact_ids must be a JSON array of strings"), nil
	}

	res, err := s.svc.SaveAnchor(vaultservice.SaveAnchorRequest{Title: title, ArtifactIDs: ids})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.Conflict == nil {
		out, _ := json.MarshalIndent(res.Saved, "", "  ")
		return mcp.NewToolResultText(string(out)), nil
	}

	if !req.GetBool("merge", false) {
		out, _ := json.MarshalIndent(res.Conflict, "", "  ")
		return mcp.NewToolResultText(fmt.Sprintf("conflict: title %q is taken by this anchor:\n%s", title, out)), nil
	}
	merged, err := s.svc.ResolveAnchorConflict(res.TargetID, vaultservice.ActionMerge, ids)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(merged, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
