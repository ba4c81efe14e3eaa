// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tools registers the MCP tool and prompt surface over the
// paper store, the arXiv client, and the download pipeline. Protocol
// framing is owned entirely by mcp-go.
package tools

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pdiddy/arxiv-mcp/internal/acquire"
	"github.com/pdiddy/arxiv-mcp/internal/arxiv"
	"github.com/pdiddy/arxiv-mcp/internal/convert"
	"github.com/pdiddy/arxiv-mcp/internal/store"
	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

const (
	serverName    = "arxiv-mcp"
	serverVersion = "0.1.0"
)

// Searcher queries arXiv for paper summaries.
type Searcher interface {
	Search(ctx context.Context, q arxiv.Query) ([]types.Paper, error)
}

// Downloader runs the download pipeline and status checks.
type Downloader interface {
	Download(ctx context.Context, identifier string) (acquire.Report, error)
	CheckStatus(identifier string) (acquire.Report, error)
}

// Library reads papers already in the store.
type Library interface {
	List() ([]string, error)
	ReadMetadata(id string) (*types.Paper, error)
	ReadText(id string) (string, error)
}

// Server is the MCP tool surface.
type Server struct {
	mcp      *server.MCPServer
	searcher Searcher
	pipeline Downloader
	library  Library
	logger   *slog.Logger

	// cleanup drains in-flight conversions and releases the store when
	// the transport shuts down.
	cleanup func()
}

// New builds the full server from config: store, arXiv client,
// converter, pipeline, and the MCP registration on top.
func New(cfg types.Config, logger *slog.Logger) (*Server, error) {
	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, goerr.Wrap(err, "opening paper store")
	}

	client := arxiv.NewClient(cfg.Arxiv)
	pipeline := acquire.NewPipeline(client, st, convert.NewPDFTextConverter(), logger)

	s := newServer(client, pipeline, st, logger)
	s.cleanup = func() {
		pipeline.Wait()
		if err := st.Close(); err != nil {
			s.logger.Error("closing paper store", "error", err)
		}
	}
	return s, nil
}

// newServer wires the MCP surface over the given dependencies. Split
// from New so tests can inject fakes.
func newServer(searcher Searcher, pipeline Downloader, library Library, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mcp: server.NewMCPServer(serverName, serverVersion,
			server.WithToolCapabilities(true),
			server.WithPromptCapabilities(true),
			server.WithRecovery(),
		),
		searcher: searcher,
		pipeline: pipeline,
		library:  library,
		logger:   logger,
	}
	s.registerTools()
	s.registerPrompts()
	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchTool(), s.handleSearch)
	s.mcp.AddTool(downloadTool(), s.handleDownload)
	s.mcp.AddTool(listTool(), s.handleList)
	s.mcp.AddTool(readTool(), s.handleRead)
}

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(analysisPrompt(), s.handleAnalysisPrompt)
}

// Run serves the MCP protocol over the selected transport until the
// transport shuts down. stdio blocks on stdin EOF; http and sse listen
// on addr. Before returning, in-flight conversions are drained so a
// disconnect never strands a paper mid-conversion.
func (s *Server) Run(transport, addr string) error {
	defer s.shutdown()
	switch transport {
	case "", "stdio":
		s.logger.Info("serving MCP over stdio")
		return server.ServeStdio(s.mcp)
	case "http":
		s.logger.Info("serving MCP over streamable HTTP", "addr", addr)
		return server.NewStreamableHTTPServer(s.mcp).Start(addr)
	case "sse":
		s.logger.Info("serving MCP over SSE", "addr", addr)
		return server.NewSSEServer(s.mcp).Start(addr)
	default:
		return goerr.New("unknown transport", goerr.V("transport", transport))
	}
}

func (s *Server) shutdown() {
	if s.cleanup == nil {
		return
	}
	s.logger.Info("draining in-flight conversions")
	s.cleanup()
}

// jsonResult marshals v into a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult turns a handler error into a structured failure payload.
// Errors never abort the server; each request fails independently.
func errorResult(err error) *mcp.CallToolResult {
	body := map[string]string{
		"status":  "error",
		"kind":    types.ErrorKind(err),
		"message": err.Error(),
	}
	data, mErr := json.Marshal(body)
	if mErr != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(string(data))
}
