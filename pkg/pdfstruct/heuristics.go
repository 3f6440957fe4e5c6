package pdfstruct

// Heuristics holds the tunable constants driving structural analysis.
// The defaults come from empirical PDF typography norms rather than any
// physical derivation; callers may adjust them for unusual documents.
type Heuristics struct {
	HeaderMarginRatio float64 // fraction of page height treated as header band
	FooterMarginRatio float64 // fraction of page height treated as footer band

	LineMergeFactor float64 // spans within this ×font-size vertically share a line
	ParagraphGap    float64 // gaps above this ×font-size start a new paragraph
	SameLineFactor  float64 // tighter line threshold used inside a paragraph

	TitleMinFontSize float64 // minimum average font size for title candidates
	TitleMaxLength   int     // titles longer than this are reclassified as body
	H1MinFontSize    float64 // first-block size at or above this is level 1
	H2MinFontSize    float64 // first-block size at or above this is level 2

	CenterIndent float64 // first-block offset (points) beyond which a paragraph is centered

	BoilerplateMinShare float64 // pattern must recur in this share of pages
	SequentialMinShare  float64 // share of +1 footer-number steps declaring sequential numbering

	MinNativeTextLen int // pages with less native text are OCR candidates
}

// DefaultHeuristics returns the tuned defaults.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		HeaderMarginRatio:   0.10,
		FooterMarginRatio:   0.10,
		LineMergeFactor:     0.5,
		ParagraphGap:        1.8,
		SameLineFactor:      0.7,
		TitleMinFontSize:    14,
		TitleMaxLength:      100,
		H1MinFontSize:       18,
		H2MinFontSize:       14,
		CenterIndent:        100,
		BoilerplateMinShare: 0.5,
		SequentialMinShare:  0.6,
		MinNativeTextLen:    20,
	}
}
