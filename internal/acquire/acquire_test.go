// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-mcp/internal/store"
	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

// fakeClient implements Client with canned responses and call counters.
type fakeClient struct {
	paper         *types.Paper
	pdf           string
	metadataErr   error
	downloadErr   error
	metadataCalls int32
	downloadCalls int32
}

func (f *fakeClient) FetchMetadata(_ context.Context, id string) (*types.Paper, error) {
	atomic.AddInt32(&f.metadataCalls, 1)
	if f.metadataErr != nil {
		return nil, f.metadataErr
	}
	p := *f.paper
	return &p, nil
}

func (f *fakeClient) DownloadPDF(_ context.Context, id string) (io.ReadCloser, error) {
	atomic.AddInt32(&f.downloadCalls, 1)
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return io.NopCloser(strings.NewReader(f.pdf)), nil
}

// fakeConverter returns canned text or an error.
type fakeConverter struct {
	output string
	err    error
}

func (f *fakeConverter) Convert(pdfPath string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

func testPaper() *types.Paper {
	return &types.Paper{
		ID:       "2301.07041",
		Title:    "A Paper",
		Authors:  []string{"Ada Lovelace"},
		Abstract: "Abstract.",
	}
}

func newTestPipeline(t *testing.T, client Client, conv *fakeConverter) (*Pipeline, *store.Store) {
	t.Helper()
	st, err := store.Open(types.StoreConfig{RootDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewPipeline(client, st, conv, nil), st
}

func TestDownloadHappyPath(t *testing.T) {
	client := &fakeClient{paper: testPaper(), pdf: "%PDF-1.4"}
	p, st := newTestPipeline(t, client, &fakeConverter{output: "Extracted text."})

	report, err := p.Download(context.Background(), "2301.07041")
	require.NoError(t, err)
	assert.Equal(t, types.ConversionInProgress, report.Status)
	assert.Equal(t, "2301.07041", report.PaperID)

	p.Wait()

	status, err := st.Status("2301.07041")
	require.NoError(t, err)
	assert.Equal(t, types.ConversionCompleted, status)

	text, err := st.ReadText("2301.07041")
	require.NoError(t, err)
	assert.Contains(t, text, "Extracted text.")
	assert.Contains(t, text, `paper_id: "2301.07041"`)
}

func TestDownloadIdempotent(t *testing.T) {
	client := &fakeClient{paper: testPaper(), pdf: "%PDF-1.4"}
	p, st := newTestPipeline(t, client, &fakeConverter{output: "text"})

	_, err := p.Download(context.Background(), "2301.07041")
	require.NoError(t, err)
	p.Wait()

	report, err := p.Download(context.Background(), "2301.07041")
	require.NoError(t, err)
	assert.Equal(t, types.ConversionCompleted, report.Status)

	// Second call never touches the remote again.
	assert.Equal(t, int32(1), atomic.LoadInt32(&client.metadataCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&client.downloadCalls))

	ids, err := st.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"2301.07041"}, ids)
}

func TestDownloadConversionFailure(t *testing.T) {
	client := &fakeClient{paper: testPaper(), pdf: "garbage"}
	conv := &fakeConverter{err: goerr.New("broken", goerr.T(types.TagConversion))}
	p, st := newTestPipeline(t, client, conv)

	_, err := p.Download(context.Background(), "2301.07041")
	require.NoError(t, err)
	p.Wait()

	status, err := st.Status("2301.07041")
	require.NoError(t, err)
	assert.Equal(t, types.ConversionFailed, status)

	// Failed is terminal: a repeat download reports it without refetching.
	report, err := p.Download(context.Background(), "2301.07041")
	require.NoError(t, err)
	assert.Equal(t, types.ConversionFailed, report.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&client.downloadCalls))
}

func TestDownloadRecoversStalledConversion(t *testing.T) {
	root := t.TempDir()
	st, err := store.Open(types.StoreConfig{RootDir: root})
	require.NoError(t, err)

	// A previous run died mid-conversion: PDF and metadata on disk,
	// ledger stuck at in_progress.
	const id = "2301.07041"
	_, err = st.SavePDF(id, strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, st.WriteMetadata(testPaper()))
	require.NoError(t, st.SetStatus(id, types.ConversionInProgress))
	require.NoError(t, st.Close())

	st, err = store.Open(types.StoreConfig{RootDir: root})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	client := &fakeClient{paper: testPaper(), pdf: "%PDF-1.4"}
	p := NewPipeline(client, st, &fakeConverter{output: "recovered text"}, nil)

	report, err := p.Download(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, types.ConversionInProgress, report.Status)
	p.Wait()

	status, err := st.Status(id)
	require.NoError(t, err)
	assert.Equal(t, types.ConversionCompleted, status)

	text, err := st.ReadText(id)
	require.NoError(t, err)
	assert.Contains(t, text, "recovered text")

	// The PDF on disk is reused without contacting the remote again.
	assert.Equal(t, int32(0), atomic.LoadInt32(&client.metadataCalls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&client.downloadCalls))
}

func TestDownloadUnknownPaper(t *testing.T) {
	client := &fakeClient{
		metadataErr: goerr.New("paper not found", goerr.T(types.TagNotFound)),
	}
	p, _ := newTestPipeline(t, client, &fakeConverter{})

	_, err := p.Download(context.Background(), "9999.99999")
	require.Error(t, err)
	assert.True(t, goerr.HasTag(err, types.TagNotFound))
}

func TestDownloadBadIdentifier(t *testing.T) {
	p, _ := newTestPipeline(t, &fakeClient{}, &fakeConverter{})

	_, err := p.Download(context.Background(), "not-an-id")
	require.Error(t, err)
	assert.True(t, goerr.HasTag(err, types.TagValidation))
}

func TestDownloadRemoteFailureLeavesNoArtifacts(t *testing.T) {
	client := &fakeClient{
		paper:       testPaper(),
		downloadErr: errors.New("connection reset"),
	}
	p, st := newTestPipeline(t, client, &fakeConverter{})

	_, err := p.Download(context.Background(), "2301.07041")
	require.Error(t, err)

	ids, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCheckStatusNeverContactsRemote(t *testing.T) {
	client := &fakeClient{paper: testPaper(), pdf: "%PDF-1.4"}
	p, _ := newTestPipeline(t, client, &fakeConverter{output: "text"})

	report, err := p.CheckStatus("2401.12345")
	require.NoError(t, err)
	assert.Equal(t, types.ConversionPending, report.Status)
	assert.Equal(t, int32(0), atomic.LoadInt32(&client.metadataCalls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&client.downloadCalls))
}

func TestCheckStatusAfterCompletion(t *testing.T) {
	client := &fakeClient{paper: testPaper(), pdf: "%PDF-1.4"}
	p, _ := newTestPipeline(t, client, &fakeConverter{output: "text"})

	_, err := p.Download(context.Background(), "2301.07041")
	require.NoError(t, err)
	p.Wait()

	report, err := p.CheckStatus("2301.07041")
	require.NoError(t, err)
	assert.Equal(t, types.ConversionCompleted, report.Status)
	assert.Equal(t, "arxiv://2301.07041", report.ResourceURI)
}
