// Package printing renders HTML to PDF for printable artifacts, primarily
// location barcode label sheets.
//
// This package contains:
// - PDFRenderer interface for rendering HTML to PDF
// - ChromedpRenderer implementation using headless Chrome (CDP)
// - StubRenderer for environments without a Chrome binary
// - TemplateEngine for binding data into HTML templates
// - LocationLabelTemplate and the Code 39 barcode helper it uses
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	result, err := renderer.Render(ctx, &RenderRequest{
//	    HTML:      html,
//	    PaperSize: PaperSizeA4,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Generated PDF: %d bytes\n", len(result.PDFData))
package printing
