package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/munin-vault/munin/internal/classifier"
	"github.com/munin-vault/munin/internal/store"
	"github.com/munin-vault/munin/internal/testutil"
	"github.com/munin-vault/munin/internal/vaultservice"
)

func testServer(t *testing.T) (*Server, *store.DB) {
	t.Helper()
	db := testutil.TestDB(t)
	svc := vaultservice.New(db, &classifier.Classifier{}, nil, nil, nil)
	return New(svc), db
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no call-tool test helper, so the handlers are invoked
	// directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "capture_artifact":
		result, err = srv.captureArtifact(ctx, req)
	case "search_artifacts":
		result, err = srv.searchArtifacts(ctx, req)
	case "get_artifact":
		result, err = srv.getArtifact(ctx, req)
	case "list_anchors":
		result, err = srv.listAnchors(ctx, req)
	case "save_anchor":
		result, err = srv.saveAnchor(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCaptureAndGetArtifact(t *testing.T) {
	srv, db := testServer(t)

	r := callTool(t, srv, "capture_artifact", map[string]interface{}{
		"text": "#FF0000",
	})
	if r.IsError {
		t.Fatalf("capture failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"color"`) {
		t.Errorf("capture result = %s", resultText(r))
	}

	artifacts, _ := db.ListArtifacts()
	if len(artifacts) != 1 {
		t.Fatalf("artifacts = %d", len(artifacts))
	}

	r = callTool(t, srv, "get_artifact", map[string]interface{}{"id": artifacts[0].ID})
	if r.IsError {
		t.Fatalf("get failed: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "#FF0000") {
		t.Errorf("get result = %s", resultText(r))
	}
}

func TestCaptureMissingText(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "capture_artifact", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error without text")
	}
}

func TestSearchArtifacts(t *testing.T) {
	srv, db := testServer(t)
	testutil.SeedArtifact(t, db, "alpha note")
	testutil.SeedArtifact(t, db, "beta note")

	r := callTool(t, srv, "search_artifacts", map[string]interface{}{"query": "alpha"})
	text := resultText(r)
	if !strings.Contains(text, "alpha note") || strings.Contains(text, "beta note") {
		t.Errorf("search result = %s", text)
	}
}

func TestGetArtifactMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_artifact", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing artifact")
	}
}

func TestSaveAnchorAndConflictMerge(t *testing.T) {
	srv, db := testServer(t)
	a := testutil.SeedArtifact(t, db, "one")
	b := testutil.SeedArtifact(t, db, "two")

	r := callTool(t, srv, "save_anchor", map[string]interface{}{
		"title":        "research",
		"artifact_ids": `["` + a.ID + `"]`,
	})
	if r.IsError {
		t.Fatalf("save failed: %s", resultText(r))
	}

	// Same title again without merge reports the conflict.
	r = callTool(t, srv, "save_anchor", map[string]interface{}{
		"title":        "research",
		"artifact_ids": `["` + b.ID + `"]`,
	})
	if !strings.Contains(resultText(r), "conflict") {
		t.Fatalf("result = %s", resultText(r))
	}
	anchors, _ := db.ListAnchors()
	if len(anchors) != 1 {
		t.Fatalf("anchors = %d, conflict must not mint a second record", len(anchors))
	}

	// With merge=true the id sets union into the existing anchor.
	r = callTool(t, srv, "save_anchor", map[string]interface{}{
		"title":        "research",
		"artifact_ids": `["` + b.ID + `"]`,
		"merge":        true,
	})
	if r.IsError {
		t.Fatalf("merge failed: %s", resultText(r))
	}
	anchors, _ = db.ListAnchors()
	if len(anchors) != 1 || len(anchors[0].ArtifactIDs) != 2 {
		t.Errorf("anchors = %+v", anchors)
	}
}

func TestSaveAnchorBadIDs(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "save_anchor", map[string]interface{}{
		"title":        "x",
		"artifact_ids": "not json",
	})
	if !r.IsError {
		t.Error("expected error for malformed artifact_ids")
	}
}

func TestListAnchors(t *testing.T) {
	srv, db := testServer(t)
	a := testutil.SeedArtifact(t, db, "one")
	callTool(t, srv, "save_anchor", map[string]interface{}{
		"title":        "alpha",
		"artifact_ids": `["` + a.ID + `"]`,
	})

	r := callTool(t, srv, "list_anchors", map[string]interface{}{})
	if !strings.Contains(resultText(r), "alpha") {
		t.Errorf("list result = %s", resultText(r))
	}
}
