// Package ocr recognizes text on scanned PDF pages.
//
// The package rasterizes a page, hands the raster to a pluggable OCR
// engine, and rescales the recognized line boxes from raster pixels back
// into page-point coordinates so downstream structural analysis can treat
// OCR output like native text geometry. Engines are explicitly constructed
// and injected; there is no process-wide engine state.
//
// Key Types:
//
// - Engine: the OCR capability (Tesseract and Document AI implementations)
// - Line: one recognized text line with a bounding box and confidence
// - Adapter: rasterize → recognize → rescale for a single page
//
// Main Functions:
//
// - (*Adapter).RecognizePage: full OCR pass over one page
// - GroupLines: gap-based grouping of lines into paragraphs
// - NormalizeText: cleanup of common OCR spacing artifacts
package ocr

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/sthevan027/Converso/pkg/pdfgeom"
)

// Line is one recognized text line. The bounding box is in raster pixels
// when produced by an Engine and in page points after adapter rescaling.
type Line struct {
	Text       string
	BBox       pdfgeom.BBox
	Confidence float64 // 0-100
}

// Engine performs text recognition on a rendered page image.
// Implementations must be safe to construct per conversion; a single
// instance is not shared across concurrent conversions.
type Engine interface {
	// Recognize runs OCR over PNG image data and returns text lines
	// with pixel-space bounding boxes.
	Recognize(ctx context.Context, pngData []byte) ([]Line, error)
}

// Heuristics holds the tunable constants of the OCR path.
type Heuristics struct {
	DPI            float64 // raster resolution for recognition
	GroupGapFactor float64 // gaps above this ×average-line-height start a new paragraph
}

// DefaultHeuristics returns the tuned defaults. The grouping factor is
// looser than the native path's because OCR line detection is noisier.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		DPI:            300,
		GroupGapFactor: 1.5,
	}
}

// PageRasterizer renders pages to images; *pdfgeom.Document satisfies it.
type PageRasterizer interface {
	RasterPNG(i int, dpi float64) ([]byte, int, int, error)
	PageSize(i int) (float64, float64, error)
}

// Result is the OCR output for one page, lines sorted in reading order.
type Result struct {
	Lines    []Line
	FullText string
}

// Adapter runs the rasterize → recognize → rescale sequence.
type Adapter struct {
	Engine Engine
	H      Heuristics
}

// NewAdapter creates an Adapter around the given engine.
func NewAdapter(engine Engine, h Heuristics) *Adapter {
	return &Adapter{Engine: engine, H: h}
}

// RecognizePage OCRs page i (0-based) of src. Boxes come back in page
// points. A page where the engine finds nothing yields an empty Result,
// not an error; the caller decides whether that warrants a warning.
func (a *Adapter) RecognizePage(ctx context.Context, src PageRasterizer, i int) (*Result, error) {
	pngData, pixW, pixH, err := src.RasterPNG(i, a.H.DPI)
	if err != nil {
		return nil, err
	}

	lines, err := a.Engine.Recognize(ctx, pngData)
	if err != nil {
		return nil, fmt.Errorf("OCR failed on page %d: %w", i+1, err)
	}

	pageW, pageH, err := src.PageSize(i)
	if err != nil {
		return nil, err
	}
	scaleX := pageW / float64(pixW)
	scaleY := pageH / float64(pixH)

	result := &Result{Lines: make([]Line, 0, len(lines))}
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		result.Lines = append(result.Lines, Line{
			Text: text,
			BBox: pdfgeom.NewBBox(
				line.BBox.X1*scaleX,
				line.BBox.Y1*scaleY,
				line.BBox.X2*scaleX,
				line.BBox.Y2*scaleY,
			),
			Confidence: line.Confidence,
		})
	}

	sort.SliceStable(result.Lines, func(x, y int) bool {
		if result.Lines[x].BBox.Y1 != result.Lines[y].BBox.Y1 {
			return result.Lines[x].BBox.Y1 < result.Lines[y].BBox.Y1
		}
		return result.Lines[x].BBox.X1 < result.Lines[y].BBox.X1
	})

	texts := make([]string, 0, len(result.Lines))
	for _, line := range result.Lines {
		texts = append(texts, line.Text)
	}
	result.FullText = strings.Join(texts, "\n")

	return result, nil
}

// GroupLines splits sorted lines into paragraph groups: a new group
// starts when the vertical gap between consecutive lines exceeds
// gapFactor times the average of their two heights.
func GroupLines(lines []Line, gapFactor float64) [][]Line {
	if len(lines) == 0 {
		return nil
	}

	var groups [][]Line
	current := []Line{lines[0]}

	for _, line := range lines[1:] {
		prev := current[len(current)-1]
		gap := line.BBox.Y1 - prev.BBox.Y2
		avgHeight := (prev.BBox.Height() + line.BBox.Height()) / 2
		if gap > gapFactor*avgHeight {
			groups = append(groups, current)
			current = []Line{line}
		} else {
			current = append(current, line)
		}
	}
	return append(groups, current)
}

// NormalizeText repairs common OCR spacing artifacts: missing spaces
// after colons and sentence-ending periods, and words fused across a
// recognized line wrap (a lowercase letter immediately followed by an
// uppercase one). Already-correct spacing is left alone.
func NormalizeText(text string) string {
	runes := []rune(text)
	var sb strings.Builder
	sb.Grow(len(text) + len(text)/16)

	for i, r := range runes {
		sb.WriteRune(r)
		if i+1 >= len(runes) {
			continue
		}
		next := runes[i+1]
		switch {
		case r == ':' && (unicode.IsLetter(next) || unicode.IsDigit(next)):
			sb.WriteByte(' ')
		case r == '.' && unicode.IsUpper(next):
			sb.WriteByte(' ')
		case unicode.IsLower(r) && unicode.IsUpper(next):
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
