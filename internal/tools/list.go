// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

func listTool() mcp.Tool {
	return mcp.NewTool("list_papers",
		mcp.WithDescription("List all downloaded papers in the local store."),
	)
}

type listResponse struct {
	TotalPapers int            `json:"total_papers"`
	Papers      []paperSummary `json:"papers"`
}

func (s *Server) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.library.List()
	if err != nil {
		return errorResult(err), nil
	}

	resp := listResponse{
		TotalPapers: len(ids),
		Papers:      make([]paperSummary, 0, len(ids)),
	}
	for _, id := range ids {
		paper, err := s.library.ReadMetadata(id)
		if err != nil {
			s.logger.Warn("skipping unreadable metadata", "id", id, "error", err)
			paper = &types.Paper{ID: id}
		}
		resp.Papers = append(resp.Papers, summarize(*paper))
	}
	return jsonResult(resp)
}
