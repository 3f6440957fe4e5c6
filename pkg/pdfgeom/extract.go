// Package pdfgeom extracts positioned text spans from PDF pages.
//
// The package wraps MuPDF (via go-fitz) and converts its positioned HTML
// page rendition into a flat list of spans, each carrying a bounding box in
// page points and font metadata. It is the geometric front end consumed by
// the structural analysis packages; it makes no layout decisions itself.
//
// Key Types:
//
// - Span: a contiguous run of same-style text with a bounding box
// - BBox: a rectangle in page-point coordinates
// - Document: an open PDF handle exposing per-page spans, text, and rasters
//
// Main Functions:
//
// - Open: opens a PDF file for extraction
// - ParseSpans: converts one page of positioned HTML into spans
package pdfgeom

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
)

// Document is an open PDF exposing geometric page data.
// A Document is not safe for concurrent use; each conversion must own
// its own instance.
type Document struct {
	doc *fitz.Document
}

// Open opens the PDF at path for geometric extraction.
func Open(path string) (*Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &Document{doc: doc}, nil
}

// NumPages returns the page count.
func (d *Document) NumPages() int {
	return d.doc.NumPage()
}

// PageSize returns the width and height of page i (0-based) in points.
func (d *Document) PageSize(i int) (float64, float64, error) {
	bounds, err := d.doc.Bound(i)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read page %d bounds: %w", i+1, err)
	}
	return float64(bounds.Dx()), float64(bounds.Dy()), nil
}

// NativeText returns the selectable text of page i (0-based).
func (d *Document) NativeText(i int) (string, error) {
	text, err := d.doc.Text(i)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", i+1, err)
	}
	return text, nil
}

// Spans returns the positioned text spans of page i (0-based).
func (d *Document) Spans(i int) ([]Span, error) {
	pageHTML, err := d.doc.HTML(i, false)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d markup: %w", i+1, err)
	}
	spans, err := ParseSpans(pageHTML)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", i+1, err)
	}
	return spans, nil
}

// RasterPNG renders page i (0-based) at the given DPI and returns the
// PNG bytes along with the raster's pixel dimensions.
func (d *Document) RasterPNG(i int, dpi float64) ([]byte, int, int, error) {
	img, err := d.doc.ImageDPI(i, dpi)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to rasterize page %d: %w", i+1, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to encode page %d raster: %w", i+1, err)
	}
	bounds := img.Bounds()
	return buf.Bytes(), bounds.Dx(), bounds.Dy(), nil
}

// Metadata returns the document metadata reported by MuPDF.
func (d *Document) Metadata() map[string]string {
	return d.doc.Metadata()
}

// Close releases the underlying document handle.
func (d *Document) Close() error {
	return d.doc.Close()
}
