// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Revise study tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/revisehq/revise/internal/apperr"
	"github.com/revisehq/revise/internal/srs"
	"github.com/revisehq/revise/internal/studyservice"
)

// Server wraps the MCP server with Revise tools.
type Server struct {
	mcp *server.MCPServer
	svc *studyservice.Service
}

// New creates a new MCP server with all Revise tools registered.
func New(svc *studyservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Revise",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_due_items",
		mcp.WithDescription("List the study items due for review right now, in study order."),
	), s.listDueItems)

	s.mcp.AddTool(mcp.NewTool("search_items",
		mcp.WithDescription("Search study items by free text over title, notes, and tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchItems)

	s.mcp.AddTool(mcp.NewTool("add_item",
		mcp.WithDescription("Add a new study item. It is scheduled for review tomorrow."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Item title, e.g. a problem name")),
		mcp.WithString("category", mcp.Description("Optional category, e.g. Algorithms")),
		mcp.WithString("difficulty", mcp.Description("Optional difficulty: Easy, Medium, or Hard")),
		mcp.WithString("notes", mcp.Description("Optional free-form notes")),
		mcp.WithString("url", mcp.Description("Optional reference URL")),
	), s.addItem)

	s.mcp.AddTool(mcp.NewTool("rate_item",
		mcp.WithDescription("Record a review rating for an item. Rating MUST be one of "+
			"0 (Again), 3 (Hard), 4 (Good), 5 (Easy). Read the rating scale first via "+
			"the get_rating_scale tool or the revise://rating-scale resource."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Item id")),
		mcp.WithNumber("rating", mcp.Required(), mcp.Description("Recall rating: 0, 3, 4, or 5")),
	), s.rateItem)

	s.mcp.AddTool(mcp.NewTool("get_rating_scale",
		mcp.WithDescription("Returns the canonical rating scale contract. "+
			"Call this before rating items to ensure correct values."),
	), s.getRatingScale)

	s.mcp.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Get study statistics: totals, due count, streak, and the 14-day review heatmap."),
	), s.getStats)

	s.mcp.AddTool(mcp.NewTool("export_data",
		mcp.WithDescription("Export the full snapshot (items, review log, settings) as JSON."),
	), s.exportData)

	// Resource: rating scale contract.
	s.mcp.AddResource(
		mcp.NewResource("revise://rating-scale", "Rating Scale Contract",
			mcp.WithResourceDescription("Canonical review rating scale that all ratings must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRatingScaleResource,
	)

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

func (s *Server) listDueItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items := s.svc.DueItems()
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchItems(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items := s.svc.ListItems(studyservice.ItemQuery{Search: query})
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	item, err := s.svc.CreateItem(ctx, studyservice.ItemInput{
		Title:      title,
		Category:   req.GetString("category", ""),
		Difficulty: req.GetString("difficulty", ""),
		Notes:      req.GetString("notes", ""),
		URL:        req.GetString("url", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(item, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) rateItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rating, err := req.RequireInt("rating")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	item, err := s.svc.RateItem(ctx, id, srs.Rating(rating))
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidRating):
			return mcp.NewToolResultError("rating must be one of 0 (Again), 3 (Hard), 4 (Good), 5 (Easy)"), nil
		case errors.Is(err, apperr.ErrNotFound):
			return mcp.NewToolResultError(fmt.Sprintf("item not found: %s", id)), nil
		default:
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	out, _ := json.MarshalIndent(item, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getRatingScale(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RatingScaleContract), nil
}

func (s *Server) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.svc.Stats(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) exportData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, _, err := s.svc.Export()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) readRatingScaleResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "revise://rating-scale",
			MIMEType: "text/markdown",
			Text:     RatingScaleContract,
		},
	}, nil
}
