// Package document turns uploaded resume documents into plain text.
package document

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/upskill-roadmap/internal/types"
)

// AcceptedFormat names the only resume format the service reads.
const AcceptedFormat = "PDF"

// Upload is a document received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Extractor turns an accepted upload into plain text.
type Extractor interface {
	Extract(ctx context.Context, upload *Upload) (string, error)
}

// CheckFormat returns UnsupportedFormatError unless the upload is a PDF.
// The filename extension decides, matching what clients send from file pickers.
func CheckFormat(upload *Upload) error {
	if upload == nil {
		return &types.InputError{Field: "resume", Message: "no document provided"}
	}
	if !strings.EqualFold(filepath.Ext(upload.Filename), ".pdf") {
		return &types.UnsupportedFormatError{Filename: upload.Filename, Accepted: AcceptedFormat}
	}
	return nil
}

// PDFExtractor reads the text layer of PDF documents.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract returns the concatenated page text of the upload.
// Scanned documents without a text layer yield an error.
func (e *PDFExtractor) Extract(ctx context.Context, upload *Upload) (text string, err error) {
	if err := CheckFormat(upload); err != nil {
		return "", err
	}
	if len(upload.Data) == 0 {
		return "", fmt.Errorf("resume %s is empty", upload.Filename)
	}

	// The PDF parser panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to parse pdf %s: %v", upload.Filename, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(upload.Data), int64(len(upload.Data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf %s: %w", upload.Filename, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d of %s: %w", i, upload.Filename, err)
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	text = normalizeWhitespace(sb.String())
	if text == "" {
		return "", fmt.Errorf("no extractable text in %s", upload.Filename)
	}
	return text, nil
}

// normalizeWhitespace collapses runs of spaces and drops blank lines.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
