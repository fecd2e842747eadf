package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jcdickinson/uiuadoc/internal/rpc"
	"github.com/jcdickinson/uiuadoc/internal/search"
)

//go:embed instructions.md
var instructions string

// Backend answers queries over the binding index. Both a running preview
// server's client and a local searcher satisfy it.
type Backend interface {
	Search(ctx context.Context, req rpc.SearchRequest) (*rpc.SearchResponse, error)
	GetDoc(ctx context.Context, req rpc.GetDocRequest) (*rpc.GetDocResponse, error)
}

type localBackend struct {
	searcher *search.Searcher
}

// LocalBackend serves queries straight from the index database.
func LocalBackend(s *search.Searcher) Backend {
	return &localBackend{searcher: s}
}

func (b *localBackend) Search(_ context.Context, req rpc.SearchRequest) (*rpc.SearchResponse, error) {
	results, err := b.searcher.Search(req)
	if err != nil {
		return nil, err
	}
	return &rpc.SearchResponse{Results: results}, nil
}

func (b *localBackend) GetDoc(_ context.Context, req rpc.GetDocRequest) (*rpc.GetDocResponse, error) {
	doc, err := b.searcher.Get(req.Library, req.Path)
	if err != nil {
		return nil, err
	}
	return &rpc.GetDocResponse{Markdown: doc}, nil
}

type Server struct {
	mcpServer *server.MCPServer
	backend   Backend
}

func NewServer(backend Backend, version string) *Server {
	s := &Server{backend: backend}

	mcpServer := server.NewMCPServer(
		"uiuadoc",
		version,
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("search_bindings",
			mcp.WithDescription("Search the bindings, modules and data definitions of indexed Uiua libraries by name or summary. Returns URIs that can be read as resources or passed to get_binding."),
			mcp.WithString("query",
				mcp.Description("Binding name, module path or words from its documentation"),
				mcp.Required(),
			),
			mcp.WithArray("libraries",
				mcp.Description("Optional list of library names to search within"),
				mcp.Items(map[string]interface{}{"type": "string"}),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results (default 20)"),
			),
		),
		s.handleSearch,
	)

	mcpServer.AddTool(
		mcp.NewTool("get_binding",
			mcp.WithDescription("Read the documentation of one binding as markdown: its code, arguments and doc comment."),
			mcp.WithString("uri",
				mcp.Description("Item URI from search results, e.g. uadoc://mylib/Geo.Area"),
				mcp.Required(),
			),
		),
		s.handleGetBinding,
	)
}

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			search.URIScheme+"{library}/{path}",
			"Uiua documentation item",
			mcp.WithTemplateDescription("Read a documented Uiua binding, module or data definition. Search results return these URIs."),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		s.handleReadResource,
	)
}

func (s *Server) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query, _ := args["query"].(string)
	if query == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	searchReq := rpc.SearchRequest{Query: query}
	if libsRaw, ok := args["libraries"]; ok {
		libsJSON, _ := json.Marshal(libsRaw)
		json.Unmarshal(libsJSON, &searchReq.Libraries)
	}
	if limit, ok := args["limit"].(float64); ok {
		searchReq.Limit = int(limit)
	}

	resp, err := s.backend.Search(ctx, searchReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	resultJSON, _ := json.MarshalIndent(resp.Results, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleGetBinding(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uri, _ := req.GetArguments()["uri"].(string)
	library, path, err := search.ParseURI(uri)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := s.backend.GetDoc(ctx, rpc.GetDocRequest{Library: library, Path: path})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get %s: %v", uri, err)), nil
	}
	return mcp.NewToolResultText(resp.Markdown), nil
}

func (s *Server) handleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	library, path, err := search.ParseURI(uri)
	if err != nil {
		return nil, err
	}

	resp, err := s.backend.GetDoc(ctx, rpc.GetDocRequest{Library: library, Path: path})
	if err != nil {
		return nil, fmt.Errorf("getting doc: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     resp.Markdown,
		},
	}, nil
}

func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) Shutdown(_ context.Context) error {
	return nil
}
