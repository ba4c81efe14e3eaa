// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv is the acquisition client for the arXiv API: metadata
// lookup, PDF download, and search.
package arxiv

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/pdiddy/arxiv-mcp/internal/httputil"
	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

// API base URLs. Declared as vars so tests can substitute httptest servers.
var (
	apiBase = "https://export.arxiv.org/api/query"
	pdfBase = "https://arxiv.org/pdf/"
)

const defaultTimeout = 30 * time.Second

// Client talks to the arXiv API.
type Client struct {
	http *http.Client
	cfg  types.ArxivConfig
}

// NewClient creates an arXiv client from config.
func NewClient(cfg types.ArxivConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
		cfg:  cfg,
	}
}

// FetchMetadata retrieves title, authors, abstract, publication date, and
// categories for a single paper via the id_list endpoint.
func (c *Client) FetchMetadata(ctx context.Context, identifier string) (*types.Paper, error) {
	id, err := NormalizeID(identifier)
	if err != nil {
		return nil, err
	}

	feed, err := c.queryFeed(ctx, apiBase+"?id_list="+id)
	if err != nil {
		return nil, err
	}

	for _, entry := range feed.Entries {
		if extractID(entry.ID) != id {
			continue
		}
		p := entry.toPaper()
		return &p, nil
	}
	return nil, goerr.New("paper not found on arXiv",
		goerr.T(types.TagNotFound), goerr.V("id", id))
}

// DownloadPDF fetches the PDF bytes for a paper. An upstream 404 fails
// with a not_found error without retrying; transient failures are retried
// and report remote_error once retries are exhausted. The caller owns the
// returned body.
func (c *Client) DownloadPDF(ctx context.Context, identifier string) (io.ReadCloser, error) {
	id, err := NormalizeID(identifier)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfBase+id, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "creating PDF request", goerr.T(types.TagRemote))
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, goerr.Wrap(err, "downloading PDF",
			goerr.T(types.TagRemote), goerr.V("id", id))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, goerr.New("paper not found on arXiv",
			goerr.T(types.TagNotFound), goerr.V("id", id))
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, goerr.New("arXiv PDF endpoint failed",
			goerr.T(types.TagRemote), goerr.V("id", id), goerr.V("status", resp.StatusCode))
	}
	return resp.Body, nil
}

// queryFeed issues a GET against the query API and decodes the Atom feed.
func (c *Client) queryFeed(ctx context.Context, url string) (*atomFeed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "creating API request", goerr.T(types.TagRemote))
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.http, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, goerr.Wrap(err, "arXiv API request", goerr.T(types.TagRemote))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("arXiv API failed",
			goerr.T(types.TagRemote), goerr.V("status", resp.StatusCode))
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, goerr.Wrap(err, "parsing arXiv response", goerr.T(types.TagRemote))
	}
	return &feed, nil
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// toPaper converts an Atom entry into a Paper record with pending
// conversion status.
func (e atomEntry) toPaper() types.Paper {
	p := types.Paper{
		ID:               extractID(e.ID),
		Title:            strings.Join(strings.Fields(e.Title), " "),
		Abstract:         strings.TrimSpace(e.Summary),
		ConversionStatus: types.ConversionPending,
	}
	p.SourceURL = p.PDFURL()

	for _, a := range e.Authors {
		p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
	}
	for _, c := range e.Categories {
		if c.Term != "" {
			p.Categories = append(p.Categories, c.Term)
		}
	}
	if t, parseErr := time.Parse(time.RFC3339, e.Published); parseErr == nil {
		p.Published = t
	}
	return p
}
