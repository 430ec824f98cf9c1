// Package mcpserver exposes the content engine's browse, fetch, search,
// publish, delete, and dump operations over the MCP/JSON-RPC surface.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/gopherdesk/contentd/internal/contenterr"
	"github.com/gopherdesk/contentd/internal/router"
)

const serverName = "contentd"

// Version is the server's reported MCP version. Nothing in this
// repository sets it, so it stays "dev" unless overridden at link time
// (-ldflags "-X").
var Version = "dev"

// Server wraps an MCP server wired to a content router.
type Server struct {
	mcp    *server.MCPServer
	router *router.Router
	log    *logrus.Entry
}

// New builds a Server exposing r's six operations as MCP tools.
func New(r *router.Router) *Server {
	s := &Server{
		router: r,
		log:    logrus.WithField("component", "mcpserver"),
	}
	s.mcp = server.NewMCPServer(serverName, Version)
	s.registerTools()
	return s
}

// ServeStdio runs the server over stdio, the default MCP transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("gopher_browse",
			mcp.WithDescription("Browse a namespace/selector path as a menu"),
			mcp.WithString("path", mcp.Required(), mcp.Description("namespace/selector path")),
		),
		s.handleBrowse,
	)
	s.mcp.AddTool(
		mcp.NewTool("gopher_fetch",
			mcp.WithDescription("Fetch a namespace/selector path as a document"),
			mcp.WithString("path", mcp.Required(), mcp.Description("namespace/selector path")),
		),
		s.handleFetch,
	)
	s.mcp.AddTool(
		mcp.NewTool("gopher_search",
			mcp.WithDescription("Search within a namespace/selector path"),
			mcp.WithString("path", mcp.Required(), mcp.Description("namespace/selector path")),
			mcp.WithString("query", mcp.Required(), mcp.Description("search query")),
		),
		s.handleSearch,
	)
	s.mcp.AddTool(
		mcp.NewTool("gopher_publish",
			mcp.WithDescription("Publish content to a writable namespace/selector path"),
			mcp.WithString("path", mcp.Required(), mcp.Description("namespace/selector path")),
			mcp.WithString("content", mcp.Required(), mcp.Description("document content")),
		),
		s.handlePublish,
	)
	s.mcp.AddTool(
		mcp.NewTool("gopher_delete",
			mcp.WithDescription("Delete a namespace/selector path from a writable namespace"),
			mcp.WithString("path", mcp.Required(), mcp.Description("namespace/selector path")),
		),
		s.handleDelete,
	)
	s.mcp.AddTool(
		mcp.NewTool("gopher_dump",
			mcp.WithDescription("Recursively copy documents from source into a writable destination"),
			mcp.WithString("source", mcp.Required(), mcp.Description("source namespace/selector path")),
			mcp.WithString("destination", mcp.Required(), mcp.Description("destination namespace/selector path")),
			mcp.WithNumber("max_depth", mcp.Description("maximum menu depth to walk, default 3")),
		),
		s.handleDump,
	)
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, contenterr.Wrap(contenterr.Internal, "mcpserver", "", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func stringArg(req mcp.CallToolRequest, name string) (string, error) {
	v, ok := req.GetArguments()[name]
	if !ok {
		return "", fmt.Errorf("missing required argument %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", name)
	}
	return s, nil
}

func (s *Server) handleBrowse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := stringArg(req, "path")
	if err != nil {
		return toolError(err)
	}
	items, err := s.router.Browse(ctx, path)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{"items": items, "count": len(items)})
}

func (s *Server) handleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := stringArg(req, "path")
	if err != nil {
		return toolError(err)
	}
	res, err := s.router.Fetch(ctx, path)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{"path": res.Path, "content": res.Content, "mime": res.Mime})
}

func (s *Server) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := stringArg(req, "path")
	if err != nil {
		return toolError(err)
	}
	query, err := stringArg(req, "query")
	if err != nil {
		return toolError(err)
	}
	items, err := s.router.Search(ctx, path, query)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{"items": items, "count": len(items)})
}

func (s *Server) handlePublish(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := stringArg(req, "path")
	if err != nil {
		return toolError(err)
	}
	content, err := stringArg(req, "content")
	if err != nil {
		return toolError(err)
	}
	res, err := s.router.Publish(ctx, path, content)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{"ok": true, "path": res.Path, "action": res.Action})
}

func (s *Server) handleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := stringArg(req, "path")
	if err != nil {
		return toolError(err)
	}
	res, err := s.router.Delete(ctx, path)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{"ok": true, "path": res.Path, "action": res.Action})
}

func (s *Server) handleDump(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := stringArg(req, "source")
	if err != nil {
		return toolError(err)
	}
	destination, err := stringArg(req, "destination")
	if err != nil {
		return toolError(err)
	}
	maxDepth := 3
	if v, ok := req.GetArguments()["max_depth"]; ok {
		if f, ok := v.(float64); ok {
			maxDepth = int(f)
		}
	}

	res, err := s.router.Dump(ctx, source, destination, maxDepth)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{
		"ok": true, "source": res.Source, "destination": res.Destination,
		"published": res.Published, "skipped": res.Skipped,
	})
}
