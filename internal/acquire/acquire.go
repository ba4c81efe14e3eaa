// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire runs the download pipeline: fetch metadata and PDF
// from arXiv, persist them in the store, and convert to text in the
// background. Downloads are idempotent per identifier.
package acquire

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/pdiddy/arxiv-mcp/internal/arxiv"
	"github.com/pdiddy/arxiv-mcp/internal/convert"
	"github.com/pdiddy/arxiv-mcp/internal/store"
	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

// Client is the slice of the arXiv client the pipeline needs.
type Client interface {
	FetchMetadata(ctx context.Context, identifier string) (*types.Paper, error)
	DownloadPDF(ctx context.Context, identifier string) (io.ReadCloser, error)
}

// Pipeline coordinates the arXiv client, the paper store, and the
// converter.
type Pipeline struct {
	client    Client
	store     *store.Store
	converter convert.Converter
	logger    *slog.Logger

	// wg tracks in-flight conversion goroutines so shutdown and tests
	// can drain them.
	wg sync.WaitGroup
}

// NewPipeline wires the download pipeline.
func NewPipeline(client Client, st *store.Store, conv convert.Converter, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{client: client, store: st, converter: conv, logger: logger}
}

// Report describes the outcome of a download or status check.
type Report struct {
	PaperID     string                 `json:"paper_id"`
	Status      types.ConversionStatus `json:"status"`
	Message     string                 `json:"message"`
	ResourceURI string                 `json:"resource_uri,omitempty"`
}

// Download runs the fetch + save + convert pipeline for one identifier.
// A repeat call on an already-completed paper is a no-op reporting
// completed; a paper mid-conversion reports in_progress. Conversion runs
// in the background and never blocks the returned report.
func (p *Pipeline) Download(ctx context.Context, identifier string) (Report, error) {
	id, err := arxiv.NormalizeID(identifier)
	if err != nil {
		return Report{}, err
	}

	status, err := p.store.Status(id)
	if err != nil {
		return Report{}, err
	}

	switch status {
	case types.ConversionCompleted:
		return Report{
			PaperID:     id,
			Status:      status,
			Message:     "paper already available",
			ResourceURI: types.Paper{ID: id}.ResourceURI(),
		}, nil
	case types.ConversionInProgress:
		return Report{PaperID: id, Status: status, Message: "conversion in progress"}, nil
	case types.ConversionFailed:
		return Report{PaperID: id, Status: status, Message: "conversion previously failed"}, nil
	}

	paper, err := p.fetchAndSave(ctx, id)
	if err != nil {
		return Report{}, err
	}

	if err := p.store.SetStatus(id, types.ConversionInProgress); err != nil {
		return Report{}, err
	}
	p.startConversion(*paper)

	return Report{
		PaperID: id,
		Status:  types.ConversionInProgress,
		Message: "paper downloaded, conversion started",
	}, nil
}

// CheckStatus reports the current conversion status without contacting
// arXiv. Unknown identifiers report pending.
func (p *Pipeline) CheckStatus(identifier string) (Report, error) {
	id, err := arxiv.NormalizeID(identifier)
	if err != nil {
		return Report{}, err
	}

	status, err := p.store.Status(id)
	if err != nil {
		return Report{}, err
	}

	r := Report{PaperID: id, Status: status}
	switch status {
	case types.ConversionCompleted:
		r.Message = "paper is ready"
		r.ResourceURI = types.Paper{ID: id}.ResourceURI()
	case types.ConversionInProgress:
		r.Message = "conversion in progress"
	case types.ConversionFailed:
		r.Message = "conversion failed"
	default:
		r.Message = "no download or conversion started"
	}
	return r, nil
}

// Wait blocks until all in-flight conversions finish.
func (p *Pipeline) Wait() {
	p.wg.Wait()
}

// fetchAndSave downloads metadata and PDF for id. A PDF already on disk
// (e.g. from a crashed run) is reused without re-downloading.
func (p *Pipeline) fetchAndSave(ctx context.Context, id string) (*types.Paper, error) {
	if p.store.Exists(id) {
		paper, err := p.store.ReadMetadata(id)
		if err != nil {
			return nil, err
		}
		paper.PDFPath = p.store.PDFPath(id)
		p.logger.Info("reusing existing PDF", "id", id)
		return paper, nil
	}

	paper, err := p.client.FetchMetadata(ctx, id)
	if err != nil {
		return nil, err
	}

	body, err := p.client.DownloadPDF(ctx, id)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	pdfPath, err := p.store.SavePDF(id, body)
	if err != nil {
		return nil, goerr.Wrap(err, "saving PDF", goerr.V("id", id))
	}
	paper.PDFPath = pdfPath
	paper.TextPath = p.store.TextPath(id)

	if err := p.store.WriteMetadata(paper); err != nil {
		return nil, err
	}
	p.logger.Info("downloaded paper", "id", id, "title", paper.Title)
	return paper, nil
}

// startConversion converts the paper's PDF in the background, recording
// the terminal status when done.
func (p *Pipeline) startConversion(paper types.Paper) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		text, err := p.converter.Convert(paper.PDFPath)
		if err != nil {
			p.logger.Error("conversion failed", "id", paper.ID, "error", err)
			if setErr := p.store.SetStatus(paper.ID, types.ConversionFailed); setErr != nil {
				p.logger.Error("recording failed status", "id", paper.ID, "error", setErr)
			}
			return
		}

		if err := p.store.SaveText(paper.ID, convert.AddFrontmatter(paper, text)); err != nil {
			p.logger.Error("saving converted text", "id", paper.ID, "error", err)
			if setErr := p.store.SetStatus(paper.ID, types.ConversionFailed); setErr != nil {
				p.logger.Error("recording failed status", "id", paper.ID, "error", setErr)
			}
			return
		}
		p.logger.Info("conversion completed", "id", paper.ID)
	}()
}
