package convert

import (
	"fmt"

	"github.com/sthevan027/Converso/pkg/ocr"
	"github.com/sthevan027/Converso/pkg/pdfstruct"
)

// HeaderFooterMode controls what happens to detected boilerplate.
type HeaderFooterMode string

const (
	// HeaderFooterKeep leaves boilerplate embedded in the body flow.
	HeaderFooterKeep HeaderFooterMode = "keep"
	// HeaderFooterRemove drops detected boilerplate entirely.
	HeaderFooterRemove HeaderFooterMode = "remove"
	// HeaderFooterConvert promotes detected boilerplate into the target
	// format's native running header/footer mechanism.
	HeaderFooterConvert HeaderFooterMode = "convert"
)

// Quality is the advisory transcription quality tier.
type Quality string

const (
	QualityFast     Quality = "fast"
	QualityBalanced Quality = "balanced"
	QualityHigh     Quality = "high"
)

// Options is the immutable configuration of one conversion invocation.
// Page numbers are 1-based inclusive. EndPage 0 means through the last
// page; StartPage must always be at least 1.
type Options struct {
	StartPage int
	EndPage   int

	HeaderMode        HeaderFooterMode
	FooterMode        HeaderFooterMode
	HeaderMarginRatio float64
	FooterMarginRatio float64

	TranscriptionQuality Quality

	PreserveFormatting bool
	PreserveLayout     bool
	MergeParagraphs    bool
	RemoveHyphenation  bool

	ExtractImages bool
	ImageQuality  int // JPEG quality 1-100
	MaxImageWidth int // pixels

	// Verbose additionally surfaces Result warnings through the logger
	// once the conversion finishes.
	Verbose bool

	// OCREngine recognizes text on scanned pages. Nil disables OCR;
	// scanned pages then produce a warning and a blank page.
	OCREngine ocr.Engine

	// Heuristics tune the structural analysis; zero value means defaults.
	Heuristics *pdfstruct.Heuristics
}

// DefaultOptions returns the default conversion configuration.
func DefaultOptions() Options {
	return Options{
		StartPage:            1,
		HeaderMode:           HeaderFooterConvert,
		FooterMode:           HeaderFooterConvert,
		HeaderMarginRatio:    0.10,
		FooterMarginRatio:    0.10,
		TranscriptionQuality: QualityBalanced,
		PreserveFormatting:   true,
		PreserveLayout:       true,
		MergeParagraphs:      true,
		RemoveHyphenation:    true,
		ExtractImages:        true,
		ImageQuality:         95,
		MaxImageWidth:        800,
	}
}

// Validate checks the option set before any document resource is opened.
func (o *Options) Validate() error {
	if o.StartPage < 1 {
		return fmt.Errorf("%w: start page must be >= 1, got %d", ErrInvalidPageRange, o.StartPage)
	}
	if o.EndPage < 0 {
		return fmt.Errorf("%w: end page must be >= 1, got %d", ErrInvalidPageRange, o.EndPage)
	}
	if o.EndPage != 0 && o.EndPage < o.StartPage {
		return fmt.Errorf("%w: end page %d is before start page %d",
			ErrInvalidPageRange, o.EndPage, o.StartPage)
	}
	if o.HeaderMarginRatio < 0 || o.HeaderMarginRatio > 1 {
		return fmt.Errorf("header margin ratio must be within [0,1], got %g", o.HeaderMarginRatio)
	}
	if o.FooterMarginRatio < 0 || o.FooterMarginRatio > 1 {
		return fmt.Errorf("footer margin ratio must be within [0,1], got %g", o.FooterMarginRatio)
	}
	if o.ImageQuality < 1 || o.ImageQuality > 100 {
		return fmt.Errorf("image quality must be within 1-100, got %d", o.ImageQuality)
	}
	return nil
}

// heuristics resolves the analysis heuristics, folding the margin ratio
// options into the returned struct.
func (o *Options) heuristics() pdfstruct.Heuristics {
	h := pdfstruct.DefaultHeuristics()
	if o.Heuristics != nil {
		h = *o.Heuristics
	}
	if o.HeaderMarginRatio > 0 {
		h.HeaderMarginRatio = o.HeaderMarginRatio
	}
	if o.FooterMarginRatio > 0 {
		h.FooterMarginRatio = o.FooterMarginRatio
	}
	return h
}

// pageRange translates the 1-based inclusive option range into the
// 0-based half-open range used internally. total is the page count.
func (o *Options) pageRange(total int) (start, end int) {
	start = 0
	if o.StartPage > 0 {
		start = o.StartPage - 1
	}
	end = total
	if o.EndPage > 0 && o.EndPage < total {
		end = o.EndPage
	}
	if start > end {
		start = end
	}
	return start, end
}
