// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus indicates the state of PDF-to-text conversion for a paper.
type ConversionStatus string

const (
	ConversionPending    ConversionStatus = "pending"
	ConversionInProgress ConversionStatus = "in_progress"
	ConversionCompleted  ConversionStatus = "completed"
	ConversionFailed     ConversionStatus = "failed"
)

// terminal reports whether the status can never change again.
func (s ConversionStatus) terminal() bool {
	return s == ConversionCompleted || s == ConversionFailed
}

// CanTransition reports whether moving from s to next is a legal status
// transition. Transitions are monotonic: terminal statuses never regress
// and in_progress cannot fall back to pending.
func (s ConversionStatus) CanTransition(next ConversionStatus) bool {
	if s == next {
		return true
	}
	if s.terminal() {
		return false
	}
	if s == ConversionInProgress && next == ConversionPending {
		return false
	}
	return true
}

// Paper holds metadata and file paths for a paper in the store.
type Paper struct {
	// ID is the canonical arXiv identifier (e.g. "2301.07041").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Published is the publication or preprint date.
	Published time.Time `json:"published" yaml:"published"`

	// Categories lists the arXiv category tags (e.g. "cs.LG").
	Categories []string `json:"categories" yaml:"categories"`

	// SourceURL is the URL from which the PDF was downloaded.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// PDFPath is the local filesystem path to the downloaded PDF.
	PDFPath string `json:"pdf_path,omitempty" yaml:"pdf_path,omitempty"`

	// TextPath is the local filesystem path to the converted text.
	TextPath string `json:"text_path,omitempty" yaml:"text_path,omitempty"`

	// ConversionStatus tracks whether the PDF has been converted to text.
	ConversionStatus ConversionStatus `json:"conversion_status" yaml:"conversion_status"`
}

// PDFURL returns the arXiv PDF endpoint for the paper.
func (p Paper) PDFURL() string {
	return "https://arxiv.org/pdf/" + p.ID
}

// ResourceURI returns the MCP resource URI for the paper.
func (p Paper) ResourceURI() string {
	return "arxiv://" + p.ID
}
