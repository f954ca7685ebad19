package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/revisehq/revise/internal/models"
	"github.com/revisehq/revise/internal/testutil"
)

var mcpNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func testServer(t *testing.T) *Server {
	t.Helper()
	return New(testutil.TestService(t, mcpNow))
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper; invoke the handler
	// functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_due_items":
		result, err = srv.listDueItems(ctx, req)
	case "search_items":
		result, err = srv.searchItems(ctx, req)
	case "add_item":
		result, err = srv.addItem(ctx, req)
	case "rate_item":
		result, err = srv.rateItem(ctx, req)
	case "get_rating_scale":
		result, err = srv.getRatingScale(ctx, req)
	case "get_stats":
		result, err = srv.getStats(ctx, req)
	case "export_data":
		result, err = srv.exportData(ctx, req)
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

func TestAddAndSearchItem(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "add_item", map[string]interface{}{
		"title":    "Two Sum",
		"category": "Algorithms",
	})
	if r.IsError {
		t.Fatalf("add_item failed: %s", resultText(r))
	}
	var item models.Item
	if err := json.Unmarshal([]byte(resultText(r)), &item); err != nil {
		t.Fatalf("add_item result not JSON: %v", err)
	}
	if item.ID == "" || item.Interval != 1 {
		t.Errorf("item = %+v", item)
	}

	r = callTool(t, srv, "search_items", map[string]interface{}{"query": "two sum"})
	var found []models.Item
	_ = json.Unmarshal([]byte(resultText(r)), &found)
	if len(found) != 1 || found[0].ID != item.ID {
		t.Errorf("search results = %+v", found)
	}
}

func TestAddItemMissingTitle(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "add_item", map[string]interface{}{"notes": "no title"})
	if !r.IsError {
		t.Error("expected error for missing title")
	}
}

func TestRateItem(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "add_item", map[string]interface{}{"title": "x"})
	var item models.Item
	_ = json.Unmarshal([]byte(resultText(r)), &item)

	r = callTool(t, srv, "rate_item", map[string]interface{}{
		"id":     item.ID,
		"rating": 4,
	})
	if r.IsError {
		t.Fatalf("rate_item failed: %s", resultText(r))
	}
	var rated models.Item
	_ = json.Unmarshal([]byte(resultText(r)), &rated)
	if rated.Repetition != 1 || rated.Interval != 3 {
		t.Errorf("rated = %+v", rated)
	}
}

func TestRateItemInvalidRating(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "add_item", map[string]interface{}{"title": "x"})
	var item models.Item
	_ = json.Unmarshal([]byte(resultText(r)), &item)

	r = callTool(t, srv, "rate_item", map[string]interface{}{
		"id":     item.ID,
		"rating": 2,
	})
	if !r.IsError {
		t.Fatal("expected error for rating 2")
	}
	if !strings.Contains(resultText(r), "0 (Again), 3 (Hard), 4 (Good), 5 (Easy)") {
		t.Errorf("error should restate the scale: %q", resultText(r))
	}
}

func TestRateItemNotFound(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "rate_item", map[string]interface{}{
		"id":     "ghost",
		"rating": 4,
	})
	if !r.IsError {
		t.Error("expected error for unknown item")
	}
}

func TestListDueItemsEmpty(t *testing.T) {
	srv := testServer(t)
	_ = callTool(t, srv, "add_item", map[string]interface{}{"title": "due tomorrow"})

	r := callTool(t, srv, "list_due_items", nil)
	var due []models.Item
	_ = json.Unmarshal([]byte(resultText(r)), &due)
	if len(due) != 0 {
		t.Errorf("a fresh item should not be due yet: %+v", due)
	}
}

func TestGetRatingScale(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_rating_scale", nil)
	text := resultText(r)
	for _, want := range []string{"0", "3", "4", "5", "Again", "Easy"} {
		if !strings.Contains(text, want) {
			t.Errorf("rating scale missing %q", want)
		}
	}
}

func TestGetStats(t *testing.T) {
	srv := testServer(t)
	_ = callTool(t, srv, "add_item", map[string]interface{}{"title": "x"})

	r := callTool(t, srv, "get_stats", nil)
	var rep struct {
		Summary struct {
			TotalItems int `json:"totalItems"`
		} `json:"summary"`
		Heatmap []json.RawMessage `json:"heatmap"`
	}
	if err := json.Unmarshal([]byte(resultText(r)), &rep); err != nil {
		t.Fatalf("stats not JSON: %v", err)
	}
	if rep.Summary.TotalItems != 1 {
		t.Errorf("totalItems = %d", rep.Summary.TotalItems)
	}
	if len(rep.Heatmap) != 14 {
		t.Errorf("heatmap days = %d, want 14", len(rep.Heatmap))
	}
}

func TestExportData(t *testing.T) {
	srv := testServer(t)
	_ = callTool(t, srv, "add_item", map[string]interface{}{"title": "x"})

	r := callTool(t, srv, "export_data", nil)
	var snap models.Snapshot
	if err := json.Unmarshal([]byte(resultText(r)), &snap); err != nil {
		t.Fatalf("export not JSON: %v", err)
	}
	if len(snap.Items) != 1 {
		t.Errorf("items = %+v", snap.Items)
	}
}

func TestReadRatingScaleResource(t *testing.T) {
	srv := testServer(t)
	contents, err := srv.readRatingScaleResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != "revise://rating-scale" {
		t.Errorf("resource = %+v", contents[0])
	}
}
