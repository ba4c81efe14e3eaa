// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pdiddy/arxiv-mcp/internal/arxiv"
	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

func searchTool() mcp.Tool {
	return mcp.NewTool("search_papers",
		mcp.WithDescription("Search for papers on arXiv with filtering by date range and categories."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query string"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of results to return (default: 10)"),
		),
		mcp.WithString("date_from",
			mcp.Description("Start date for filtering (YYYY-MM-DD)"),
		),
		mcp.WithString("date_to",
			mcp.Description("End date for filtering (YYYY-MM-DD)"),
		),
		mcp.WithArray("categories",
			mcp.Description("arXiv categories to filter by (e.g. cs.LG, stat.ML)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

// paperSummary is the wire shape of one search result.
type paperSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Abstract    string   `json:"abstract"`
	Categories  []string `json:"categories"`
	Published   string   `json:"published"`
	URL         string   `json:"url"`
	ResourceURI string   `json:"resource_uri"`
}

type searchResponse struct {
	TotalResults int            `json:"total_results"`
	Papers       []paperSummary `json:"papers"`
}

func (s *Server) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	queryText, err := req.RequireString("query")
	if err != nil {
		return errorResult(goerr.Wrap(err, "invalid arguments", goerr.T(types.TagValidation))), nil
	}

	q := arxiv.Query{
		Text:       queryText,
		MaxResults: req.GetInt("max_results", 10),
		Categories: req.GetStringSlice("categories", nil),
	}

	if v := req.GetString("date_from", ""); v != "" {
		if q.DateFrom, err = arxiv.ParseDate(v); err != nil {
			return errorResult(err), nil
		}
	}
	if v := req.GetString("date_to", ""); v != "" {
		if q.DateTo, err = arxiv.ParseDate(v); err != nil {
			return errorResult(err), nil
		}
	}

	s.logger.Info("searching papers", "query", queryText, "max_results", q.MaxResults)

	papers, err := s.searcher.Search(ctx, q)
	if err != nil {
		return errorResult(err), nil
	}

	resp := searchResponse{
		TotalResults: len(papers),
		Papers:       make([]paperSummary, 0, len(papers)),
	}
	for _, p := range papers {
		resp.Papers = append(resp.Papers, summarize(p))
	}
	return jsonResult(resp)
}

func summarize(p types.Paper) paperSummary {
	var published string
	if !p.Published.IsZero() {
		published = p.Published.UTC().Format(time.RFC3339)
	}
	return paperSummary{
		ID:          p.ID,
		Title:       p.Title,
		Authors:     p.Authors,
		Abstract:    p.Abstract,
		Categories:  p.Categories,
		Published:   published,
		URL:         p.PDFURL(),
		ResourceURI: p.ResourceURI(),
	}
}
