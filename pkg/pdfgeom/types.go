package pdfgeom

// BBox represents a rectangle in page-point coordinates
// X1, Y1 is the top-left corner and X2, Y2 the bottom-right corner,
// with the Y axis growing downward as in PDF page space.
type BBox struct {
	X1 float64 // Left coordinate
	Y1 float64 // Top coordinate
	X2 float64 // Right coordinate
	Y2 float64 // Bottom coordinate
}

// NewBBox creates a bounding box from coordinates
func NewBBox(x1, y1, x2, y2 float64) BBox {
	return BBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width returns the horizontal extent of the box
func (b BBox) Width() float64 { return b.X2 - b.X1 }

// Height returns the vertical extent of the box
func (b BBox) Height() float64 { return b.Y2 - b.Y1 }

// CenterY returns the vertical midpoint of the box
func (b BBox) CenterY() float64 { return (b.Y1 + b.Y2) / 2 }

// Span is a contiguous run of same-style text on a page,
// with its bounding box and font information.
type Span struct {
	Text     string  // The actual text content
	BBox     BBox    // Position in page points
	FontName string  // Font family name as reported by the document
	FontSize float64 // Font size in points
	Bold     bool    // Whether the span is rendered bold
	Italic   bool    // Whether the span is rendered italic
}
