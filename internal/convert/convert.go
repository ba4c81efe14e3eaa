// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns downloaded PDFs into plain text for retrieval.
package convert

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

// Converter transforms a PDF file into text. The production
// implementation extracts in-process; tests substitute fakes.
type Converter interface {
	// Convert reads a PDF at pdfPath and returns the text content.
	Convert(pdfPath string) (string, error)
}

// AddFrontmatter prepends a YAML frontmatter header to converted text so
// stored artifacts carry their provenance.
func AddFrontmatter(paper types.Paper, body string) string {
	ts := time.Now().UTC().Format(time.RFC3339)
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "paper_id: %q\n", paper.ID)
	if paper.Title != "" {
		fmt.Fprintf(&b, "title: %q\n", paper.Title)
	}
	fmt.Fprintf(&b, "converted_at: %q\n", ts)
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String()
}
