// Package pdftext implements the upstream PDF-to-text collaborator.
package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"ats-optimizer-go/internal/textkit"
)

// Extractor pulls plain text out of a PDF and normalizes it for the
// segmenter.
type Extractor struct{}

// NewExtractor returns a ready extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText concatenates the plain text of every page and runs it
// through CleanText. Pages that cannot be decoded are skipped.
func (e *Extractor) ExtractText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var builder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return textkit.CleanText(builder.String()), nil
}
