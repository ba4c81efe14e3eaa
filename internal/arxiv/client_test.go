// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/arxiv-mcp/internal/httputil"
	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>Attention Is Not All You Need</title>
    <summary>  We revisit the role of attention.  </summary>
    <published>2023-01-17T14:02:11Z</published>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
    <category term="cs.LG"/>
    <category term="stat.ML"/>
  </entry>
</feed>`

const errorFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/api/errors#incorrect_id_format_for_9999.99999</id>
    <title>Error</title>
    <summary>incorrect id format for 9999.99999</summary>
  </entry>
</feed>`

func testClient() *Client {
	return NewClient(types.ArxivConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 10 * time.Second, UserAgent: "arxiv-mcp-test/0.1"},
		MaxRetries: 2,
	})
}

// overrideAPI points apiBase at a test server for the test's duration.
func overrideAPI(t *testing.T, ts *httptest.Server) {
	t.Helper()
	orig := apiBase
	apiBase = ts.URL
	t.Cleanup(func() { apiBase = orig })
}

func overridePDF(t *testing.T, ts *httptest.Server) {
	t.Helper()
	orig := pdfBase
	pdfBase = ts.URL + "/"
	t.Cleanup(func() { pdfBase = orig })
}

func TestFetchMetadata(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2301.07041", r.URL.Query().Get("id_list"))
		fmt.Fprint(w, sampleFeed)
	}))
	defer ts.Close()
	overrideAPI(t, ts)

	paper, err := testClient().FetchMetadata(context.Background(), "arXiv:2301.07041v1")
	require.NoError(t, err)

	assert.Equal(t, "2301.07041", paper.ID)
	assert.Equal(t, "Attention Is Not All You Need", paper.Title)
	assert.Equal(t, []string{"Ada Lovelace", "Alan Turing"}, paper.Authors)
	assert.Equal(t, "We revisit the role of attention.", paper.Abstract)
	assert.Equal(t, []string{"cs.LG", "stat.ML"}, paper.Categories)
	assert.Equal(t, 2023, paper.Published.Year())
	assert.Equal(t, types.ConversionPending, paper.ConversionStatus)
}

func TestFetchMetadataUnknownID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, errorFeed)
	}))
	defer ts.Close()
	overrideAPI(t, ts)

	_, err := testClient().FetchMetadata(context.Background(), "9999.99999")
	require.Error(t, err)
	assert.True(t, goerr.HasTag(err, types.TagNotFound))
}

func TestFetchMetadataBadIdentifier(t *testing.T) {
	_, err := testClient().FetchMetadata(context.Background(), "not-an-id")
	require.Error(t, err)
	assert.True(t, goerr.HasTag(err, types.TagValidation))
}

func TestDownloadPDF(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2301.07041", r.URL.Path)
		assert.Equal(t, "application/pdf", r.Header.Get("Accept"))
		w.Write([]byte("%PDF-1.4 payload"))
	}))
	defer ts.Close()
	overridePDF(t, ts)

	body, err := testClient().DownloadPDF(context.Background(), "2301.07041")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 payload", string(data))
}

func TestDownloadPDFNotFound(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()
	overridePDF(t, ts)

	_, err := testClient().DownloadPDF(context.Background(), "2301.07041")
	require.Error(t, err)
	assert.True(t, goerr.HasTag(err, types.TagNotFound))
	// 404 must propagate without retries.
	assert.Equal(t, 1, calls)
}

func TestDownloadPDFRemoteErrorAfterRetries(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()
	overridePDF(t, ts)

	_, err := testClient().DownloadPDF(context.Background(), "2301.07041")
	require.Error(t, err)
	assert.True(t, goerr.HasTag(err, types.TagRemote))
	// Initial attempt plus MaxRetries.
	assert.Equal(t, 3, calls)
}
