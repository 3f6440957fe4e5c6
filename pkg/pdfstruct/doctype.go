package pdfstruct

import "strings"

// DocType is the per-document extraction route.
type DocType string

const (
	DocTypeNative  DocType = "native"  // every page has selectable text
	DocTypeScanned DocType = "scanned" // every page needs OCR
	DocTypeMixed   DocType = "mixed"   // some pages native, some scanned
)

// PageNeedsOCR reports whether a page looks scanned: too little native
// text to be useful AND at least one embedded raster image backing it.
// Pages that are merely sparse (short text, no image) stay native.
func PageNeedsOCR(nativeText string, hasImage bool, minTextLen int) bool {
	if len(strings.TrimSpace(nativeText)) >= minTextLen {
		return false
	}
	return hasImage
}

// ClassifyDocument reduces per-page OCR decisions to a document type.
// An empty page set classifies as native.
func ClassifyDocument(needsOCR []bool) DocType {
	scanned := 0
	for _, needs := range needsOCR {
		if needs {
			scanned++
		}
	}
	switch {
	case scanned == 0:
		return DocTypeNative
	case scanned == len(needsOCR) && len(needsOCR) > 0:
		return DocTypeScanned
	default:
		return DocTypeMixed
	}
}
