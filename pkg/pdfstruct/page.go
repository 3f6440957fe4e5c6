package pdfstruct

import (
	"sort"
	"strings"

	"github.com/sthevan027/Converso/pkg/pdfgeom"
)

// AnalyzePage classifies a page's spans into header, footer, and body
// regions by vertical position and builds the concatenated region texts.
//
// Classification is position-only: a span whose vertical center falls
// strictly above height×HeaderMarginRatio is header, strictly below
// height×(1−FooterMarginRatio) is footer, everything else body. Ties at
// either threshold stay in the body. A page with no spans yields an
// analysis with empty regions, not an error.
func AnalyzePage(spans []pdfgeom.Span, pageNum int, width, height float64, h Heuristics) PageAnalysis {
	headerThreshold := height * h.HeaderMarginRatio
	footerThreshold := height * (1 - h.FooterMarginRatio)

	analysis := PageAnalysis{
		PageNum: pageNum,
		Width:   width,
		Height:  height,
	}

	for _, span := range spans {
		if strings.TrimSpace(span.Text) == "" {
			continue
		}
		block := TextBlock{Span: span, Region: RegionBody}
		center := span.BBox.CenterY()

		switch {
		case center < headerThreshold:
			block.Region = RegionHeader
			analysis.HeaderBlocks = append(analysis.HeaderBlocks, block)
		case center > footerThreshold:
			block.Region = RegionFooter
			analysis.FooterBlocks = append(analysis.FooterBlocks, block)
		default:
			analysis.BodyBlocks = append(analysis.BodyBlocks, block)
		}
	}

	analysis.HeaderText = blocksToText(analysis.HeaderBlocks, h)
	analysis.FooterText = blocksToText(analysis.FooterBlocks, h)
	analysis.BodyText = blocksToText(analysis.BodyBlocks, h)

	return analysis
}

// blocksToText renders blocks in reading order: sorted top-to-bottom then
// left-to-right, with spans whose tops differ by less than
// LineMergeFactor×font-size merged into one visual line. The tolerance
// absorbs sub-pixel baseline jitter without collapsing distinct lines.
func blocksToText(blocks []TextBlock, h Heuristics) string {
	if len(blocks) == 0 {
		return ""
	}

	sorted := make([]TextBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BBox.Y1 != sorted[j].BBox.Y1 {
			return sorted[i].BBox.Y1 < sorted[j].BBox.Y1
		}
		return sorted[i].BBox.X1 < sorted[j].BBox.X1
	})

	var lines []string
	var currentLine []string
	currentY := -1.0

	for _, block := range sorted {
		switch {
		case currentY < 0:
			currentY = block.BBox.Y1
			currentLine = append(currentLine, block.Text)
		case abs(block.BBox.Y1-currentY) < block.FontSize*h.LineMergeFactor:
			currentLine = append(currentLine, block.Text)
		default:
			if len(currentLine) > 0 {
				lines = append(lines, strings.Join(currentLine, " "))
			}
			currentLine = []string{block.Text}
			currentY = block.BBox.Y1
		}
	}
	if len(currentLine) > 0 {
		lines = append(lines, strings.Join(currentLine, " "))
	}

	return strings.Join(lines, "\n")
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
