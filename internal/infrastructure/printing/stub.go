package printing

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StubRenderer is a PDFRenderer for development and tests. It produces a
// minimal single-page PDF without needing a Chrome binary, so label routes
// stay usable in environments where headless Chrome is not installed.
type StubRenderer struct{}

// NewStubRenderer creates a new stub renderer
func NewStubRenderer() *StubRenderer {
	return &StubRenderer{}
}

// Render returns a minimal valid PDF regardless of the HTML input
func (r *StubRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if !req.PaperSize.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.PaperSize), nil)
	}

	start := time.Now()
	pdf := buildStubPDF(req.Title)

	return &RenderResult{
		PDFData:        pdf,
		PageCount:      1,
		RenderDuration: time.Since(start),
	}, nil
}

// Close is a no-op for the stub renderer
func (r *StubRenderer) Close() error {
	return nil
}

// buildStubPDF assembles a minimal one-page PDF document
func buildStubPDF(title string) []byte {
	if title == "" {
		title = "Document"
	}
	var sb strings.Builder
	sb.WriteString("%PDF-1.4\n")
	sb.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	sb.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	sb.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Contents 4 0 R >>\nendobj\n")
	content := fmt.Sprintf("BT /F1 12 Tf 50 780 Td (%s) Tj ET", title)
	sb.WriteString(fmt.Sprintf("4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(content), content))
	sb.WriteString("trailer\n<< /Root 1 0 R >>\n%%EOF\n")
	return []byte(sb.String())
}

var _ PDFRenderer = (*StubRenderer)(nil)
