// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

func downloadTool() mcp.Tool {
	return mcp.NewTool("download_paper",
		mcp.WithDescription("Download a paper from arXiv by ID and convert it to text. Idempotent: repeating a completed download is a no-op."),
		mcp.WithString("paper_id",
			mcp.Required(),
			mcp.Description("The arXiv paper ID (e.g. '2301.07041')"),
		),
		mcp.WithBoolean("check_status",
			mcp.Description("If true, only report conversion status without downloading"),
		),
	)
}

func (s *Server) handleDownload(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	paperID, err := req.RequireString("paper_id")
	if err != nil {
		return errorResult(goerr.Wrap(err, "invalid arguments", goerr.T(types.TagValidation))), nil
	}

	if req.GetBool("check_status", false) {
		report, err := s.pipeline.CheckStatus(paperID)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(report)
	}

	s.logger.Info("downloading paper", "id", paperID)

	report, err := s.pipeline.Download(ctx, paperID)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(report)
}
