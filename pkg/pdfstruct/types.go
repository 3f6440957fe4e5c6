package pdfstruct

import "github.com/sthevan027/Converso/pkg/pdfgeom"

// Region classifies where on the page a text block sits.
type Region string

const (
	RegionHeader Region = "header"
	RegionFooter Region = "footer"
	RegionBody   Region = "body"
	RegionTitle  Region = "title"
)

// TextBlock is a text span tagged with its page region.
type TextBlock struct {
	pdfgeom.Span
	Region Region
}

// PageAnalysis is the structural breakdown of a single page.
type PageAnalysis struct {
	PageNum int // 0-based index into the source document
	Width   float64
	Height  float64

	HeaderBlocks []TextBlock
	FooterBlocks []TextBlock
	BodyBlocks   []TextBlock

	HeaderText string
	FooterText string
	BodyText   string
}

// Landscape reports whether the page is wider than it is tall.
func (p *PageAnalysis) Landscape() bool { return p.Width > p.Height }

// DocumentAnalysis aggregates page analyses and cross-page signals.
// CommonHeader and CommonFooter hold the digit-normalized boilerplate
// pattern (page numbers replaced by the {NUM} placeholder) and are empty
// when no pattern recurs in enough pages.
type DocumentAnalysis struct {
	Pages                    []PageAnalysis
	CommonHeader             string
	CommonFooter             string
	HasSequentialPageNumbers bool
}
