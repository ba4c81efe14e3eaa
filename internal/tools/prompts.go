// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func analysisPrompt() mcp.Prompt {
	return mcp.NewPrompt("deep_paper_analysis",
		mcp.WithPromptDescription("Generate a structured deep-analysis workflow for a specific arXiv paper."),
		mcp.WithArgument("paper_id",
			mcp.RequiredArgument(),
			mcp.ArgumentDescription("The arXiv paper ID to analyze"),
		),
		mcp.WithArgument("expertise_level",
			mcp.ArgumentDescription("Target expertise level: beginner, intermediate, or expert (default: intermediate)"),
		),
		mcp.WithArgument("analysis_focus",
			mcp.ArgumentDescription("Aspect to emphasize: general, methodology, results, or implications (default: general)"),
		),
	)
}

// audienceHints tunes the template's register per expertise level.
var audienceHints = map[string]string{
	"beginner":     "Explain concepts from first principles and avoid unexplained jargon.",
	"intermediate": "Assume graduate-level familiarity with the field; define only specialized terms.",
	"expert":       "Write for a domain expert; focus on novelty, rigor, and open problems.",
}

// focusHints tunes which sections deserve the most depth.
var focusHints = map[string]string{
	"general":      "Give balanced coverage across all sections.",
	"methodology":  "Spend the most depth on the methodology critique.",
	"results":      "Spend the most depth on results, baselines, and statistical validity.",
	"implications": "Spend the most depth on practical and theoretical implications.",
}

func (s *Server) handleAnalysisPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	paperID := req.Params.Arguments["paper_id"]
	if paperID == "" {
		return nil, fmt.Errorf("paper_id is required")
	}

	level := req.Params.Arguments["expertise_level"]
	if _, ok := audienceHints[level]; !ok {
		level = "intermediate"
	}
	focus := req.Params.Arguments["analysis_focus"]
	if _, ok := focusHints[focus]; !ok {
		focus = "general"
	}

	text := analysisTemplate(paperID, level, focus)
	return mcp.NewGetPromptResult(
		"Deep analysis workflow for arXiv paper "+paperID,
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		},
	), nil
}

func analysisTemplate(paperID, level, focus string) string {
	return fmt.Sprintf(`Analyze arXiv paper %[1]s in depth.

Audience: %[2]s. %[3]s
Focus: %[4]s. %[5]s

First, ensure the paper is available locally:
1. Call download_paper with paper_id "%[1]s" and wait until its status is completed (poll with check_status).
2. Call read_paper with paper_id "%[1]s" to obtain the full text.

Then produce a structured analysis with these sections:

## Executive Summary
Two or three paragraphs describing the problem, the approach, and the headline result.

## Background and Context
What prior work does this build on, and what gap does it address?

## Methodology Critique
How the approach works, its key assumptions, and where those assumptions are fragile.

## Results Assessment
What was measured, against which baselines, and whether the evidence supports the claims.

## Implications
What follows if the claims hold: practical applications, theoretical consequences, and likely follow-up work.

## Limitations and Open Questions
What the paper does not establish, and the most promising directions left open.

Quote short passages from the paper text where they support your assessment, and cite section names rather than page numbers.`,
		paperID, level, audienceHints[level], focus, focusHints[focus])
}
