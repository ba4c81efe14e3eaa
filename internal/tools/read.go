// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pdiddy/arxiv-mcp/internal/arxiv"
	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

func readTool() mcp.Tool {
	return mcp.NewTool("read_paper",
		mcp.WithDescription("Read the text content of a downloaded and converted paper."),
		mcp.WithString("paper_id",
			mcp.Required(),
			mcp.Description("The arXiv paper ID (e.g. '2301.07041')"),
		),
	)
}

type readResponse struct {
	Status  string `json:"status"`
	PaperID string `json:"paper_id"`
	Content string `json:"content"`
}

func (s *Server) handleRead(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	paperID, err := req.RequireString("paper_id")
	if err != nil {
		return errorResult(goerr.Wrap(err, "invalid arguments", goerr.T(types.TagValidation))), nil
	}

	id, err := arxiv.NormalizeID(paperID)
	if err != nil {
		return errorResult(err), nil
	}

	content, err := s.library.ReadText(id)
	if err != nil {
		return errorResult(err), nil
	}

	return jsonResult(readResponse{
		Status:  "success",
		PaperID: id,
		Content: content,
	})
}
