// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

// PDFTextConverter extracts plain text from PDFs in-process. The input
// is validated with pdfcpu first so malformed files fail with a clear
// conversion_error instead of a parser panic deep in extraction.
type PDFTextConverter struct{}

// NewPDFTextConverter creates the production converter.
func NewPDFTextConverter() *PDFTextConverter {
	return &PDFTextConverter{}
}

// Convert validates the PDF at pdfPath and returns its text content.
func (c *PDFTextConverter) Convert(pdfPath string) (text string, err error) {
	if vErr := api.ValidateFile(pdfPath, nil); vErr != nil {
		return "", goerr.Wrap(vErr, "malformed PDF",
			goerr.T(types.TagConversion), goerr.V("path", pdfPath))
	}

	// The extraction library panics on some inputs that survive
	// validation; convert those into errors.
	defer func() {
		if r := recover(); r != nil {
			err = goerr.New(fmt.Sprintf("text extraction panicked: %v", r),
				goerr.T(types.TagConversion), goerr.V("path", pdfPath))
		}
	}()

	f, reader, err := pdf.Open(pdfPath)
	if err != nil {
		return "", goerr.Wrap(err, "opening PDF",
			goerr.T(types.TagConversion), goerr.V("path", pdfPath))
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", goerr.Wrap(err, "extracting text",
			goerr.T(types.TagConversion), goerr.V("path", pdfPath))
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", goerr.Wrap(err, "reading extracted text",
			goerr.T(types.TagConversion), goerr.V("path", pdfPath))
	}
	if buf.Len() == 0 {
		return "", goerr.New("extraction produced empty output",
			goerr.T(types.TagConversion), goerr.V("path", pdfPath))
	}
	return buf.String(), nil
}
