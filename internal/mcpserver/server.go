// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes reaction dataset tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/antonkast-google/ord-editor/internal/codec"
	"github.com/antonkast-google/ord-editor/internal/datasetservice"
	"github.com/antonkast-google/ord-editor/internal/index"
	"github.com/antonkast-google/ord-editor/internal/models"
)

const (
	formatURI   = "ord://reaction-format"
	searchLimit = 20
)

// Service is the dataset surface exposed as tools.
type Service interface {
	ListDatasets(ctx context.Context) ([]models.DatasetMetadata, error)
	ReadDataset(ctx context.Context, name string) (*models.Dataset, error)
	ReactionByID(ctx context.Context, id string) (*models.Reaction, error)
	Search(ctx context.Context, query string, limit int) ([]index.SearchResult, error)
	Validate(ctx context.Context, typeName string, body []byte) (*models.Diagnostics, error)
	Render(ctx context.Context, r *models.Reaction) (string, error)
	Download(ctx context.Context, r *models.Reaction) ([]byte, error)
	Upload(ctx context.Context, name, token string, data []byte) error
}

var _ Service = (*datasetservice.Service)(nil)

// Server wraps the MCP server with dataset tools.
type Server struct {
	mcp *server.MCPServer
	svc Service
}

// New creates a new MCP server with all tools registered.
func New(svc Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"ord-editor",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_reactions",
		mcp.WithDescription("Full-text search through reaction ids, identifiers and notes."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchReactions)

	s.mcp.AddTool(mcp.NewTool("list_datasets",
		mcp.WithDescription("List all datasets with their reaction counts."),
	), s.listDatasets)

	s.mcp.AddTool(mcp.NewTool("read_dataset",
		mcp.WithDescription("Read a whole dataset in the text encoding."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Dataset name relative to the storage root (e.g. folder/demo.json)")),
	), s.readDataset)

	s.mcp.AddTool(mcp.NewTool("get_reaction",
		mcp.WithDescription("Fetch one reaction by reaction_id in the text encoding."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Reaction id (e.g. ord-0123abcd)")),
	), s.getReaction)

	s.mcp.AddTool(mcp.NewTool("download_reaction",
		mcp.WithDescription("Download a reaction by id as a reaction.pbtxt text document."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Reaction id")),
	), s.downloadReaction)

	s.mcp.AddTool(mcp.NewTool("render_reaction",
		mcp.WithDescription("Render the HTML summary of a reaction looked up by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Reaction id")),
	), s.renderReaction)

	s.mcp.AddTool(mcp.NewTool("validate_reaction",
		mcp.WithDescription("Validate a message in the text encoding (YAML or JSON). "+
			"Read the format via get_format_contract or the "+formatURI+" resource first."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Message in the text encoding")),
		mcp.WithString("type", mcp.Description("Message type (default Reaction)")),
	), s.validateReaction)

	s.mcp.AddTool(mcp.NewTool("get_format_contract",
		mcp.WithDescription("Returns the reaction record format. "+
			"Call this before writing or validating records."),
	), s.getFormatContract)

	s.mcp.AddTool(mcp.NewTool("upload_asset",
		mcp.WithDescription("Attach an image or PDF to a dataset from a URL or data URI."),
		mcp.WithString("dataset", mcp.Required(), mcp.Description("Dataset name the asset belongs to")),
		mcp.WithString("url", mcp.Required(), mcp.Description("http(s) URL or base64 data URI")),
		mcp.WithString("token", mcp.Description("Optional asset token; generated when empty")),
	), s.uploadAsset)

	// Resource: record format.
	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Reaction Record Format",
			mcp.WithResourceDescription("Text encoding of reactions and datasets."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
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

func (s *Server) searchReactions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, searchLimit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDatasets(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metas, err := s.svc.ListDatasets(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lines := make([]string, 0, len(metas))
	for _, m := range metas {
		lines = append(lines, fmt.Sprintf("%s\t%d", m.Path, m.Reactions))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) readDataset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ds, err := s.svc.ReadDataset(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name)), nil
	}
	return textResult(ds)
}

func (s *Server) getReaction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	r, err := s.svc.ReactionByID(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return textResult(r)
}

func (s *Server) renderReaction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	r, err := s.svc.ReactionByID(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	html, err := s.svc.Render(ctx, r)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(html), nil
}

func (s *Server) downloadReaction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	r, err := s.svc.ReactionByID(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	text, err := s.svc.Download(ctx, r)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(text)), nil
}

func (s *Server) validateReaction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	typeName := "Reaction"
	if v, tErr := req.RequireString("type"); tErr == nil && v != "" {
		typeName = v
	}
	body, err := codec.TextToBinary([]byte(content))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	diag, err := s.svc.Validate(ctx, typeName, body)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(diag, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getFormatContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ReactionFormatContract), nil
}

func (s *Server) readFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     ReactionFormatContract,
		},
	}, nil
}

func textResult(v any) (*mcp.CallToolResult, error) {
	text, err := codec.MarshalText(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(text)), nil
}
