package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/sthevan027/Converso/pkg/pdfgeom"
)

// GosseractEngine recognizes text with a local Tesseract installation.
// It needs no network access and is the default engine.
type GosseractEngine struct {
	Languages []string // Tesseract language codes, e.g. "eng", "por"
}

// NewGosseractEngine creates a Tesseract-backed engine. With no languages
// given, Tesseract's default applies.
func NewGosseractEngine(languages ...string) *GosseractEngine {
	return &GosseractEngine{Languages: languages}
}

// Recognize runs Tesseract over the image and returns line-level boxes.
// A fresh client is created per call so concurrent conversions never
// share a Tesseract handle.
func (e *GosseractEngine) Recognize(ctx context.Context, pngData []byte) ([]Line, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if len(e.Languages) > 0 {
		if err := client.SetLanguage(e.Languages...); err != nil {
			return nil, fmt.Errorf("failed to set OCR language: %w", err)
		}
	}
	if err := client.SetImageFromBytes(pngData); err != nil {
		return nil, fmt.Errorf("failed to load image into tesseract: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("tesseract recognition failed: %w", err)
	}

	lines := make([]Line, 0, len(boxes))
	for _, box := range boxes {
		lines = append(lines, Line{
			Text: box.Word,
			BBox: pdfgeom.NewBBox(
				float64(box.Box.Min.X),
				float64(box.Box.Min.Y),
				float64(box.Box.Max.X),
				float64(box.Box.Max.Y),
			),
			Confidence: box.Confidence,
		})
	}
	return lines, nil
}
