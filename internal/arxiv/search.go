// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

// Query holds search parameters. All filtering is delegated to the arXiv
// API through query parameters; no local ranking is applied.
type Query struct {
	// Text is the free-text search string.
	Text string

	// MaxResults caps the number of returned summaries.
	MaxResults int

	// DateFrom and DateTo bound the submission date range. Zero values
	// leave the corresponding bound open.
	DateFrom time.Time
	DateTo   time.Time

	// Categories restricts results to the given arXiv categories,
	// OR-combined (e.g. "cs.LG", "stat.ML").
	Categories []string
}

// ParseDate parses a YYYY-MM-DD request parameter. A malformed value
// fails with a validation_error.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid date, expected YYYY-MM-DD",
			goerr.T(types.TagValidation), goerr.V("date", value))
	}
	return t, nil
}

// Search queries the arXiv API and returns paper summaries in the order
// the API returned them.
func (c *Client) Search(ctx context.Context, q Query) ([]types.Paper, error) {
	sq := buildSearchQuery(q)
	if sq == "" {
		return nil, goerr.New("empty search query", goerr.T(types.TagValidation))
	}

	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}
	if c.cfg.MaxResults > 0 && maxResults > c.cfg.MaxResults {
		maxResults = c.cfg.MaxResults
	}

	url := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		apiBase, sq, maxResults)

	feed, err := c.queryFeed(ctx, url)
	if err != nil {
		return nil, err
	}

	var papers []types.Paper
	for _, entry := range feed.Entries {
		if extractID(entry.ID) == "" {
			continue
		}
		papers = append(papers, entry.toPaper())
		if len(papers) >= maxResults {
			break
		}
	}
	return papers, nil
}

// buildSearchQuery constructs the search_query parameter from structured
// fields. Free text becomes all: terms, categories an OR group of cat:
// terms, and date bounds a submittedDate range. Individual terms are
// URL-escaped so reserved characters survive the query string.
func buildSearchQuery(q Query) string {
	var parts []string

	if q.Text != "" {
		terms := strings.Fields(q.Text)
		for i, term := range terms {
			terms[i] = url.QueryEscape(term)
		}
		parts = append(parts, "all:"+strings.Join(terms, "+"))
	}

	if len(q.Categories) > 0 {
		cats := make([]string, len(q.Categories))
		for i, c := range q.Categories {
			cats[i] = "cat:" + url.QueryEscape(c)
		}
		group := strings.Join(cats, "+OR+")
		if len(cats) > 1 {
			group = "%28" + group + "%29"
		}
		parts = append(parts, group)
	}

	if !q.DateFrom.IsZero() || !q.DateTo.IsZero() {
		from := "199101010000"
		to := time.Now().UTC().Format("200601021504")
		if !q.DateFrom.IsZero() {
			from = q.DateFrom.Format("200601021504")
		}
		if !q.DateTo.IsZero() {
			to = q.DateTo.Format("200601021504")
		}
		parts = append(parts, fmt.Sprintf("submittedDate:[%s+TO+%s]", from, to))
	}

	return strings.Join(parts, "+AND+")
}
