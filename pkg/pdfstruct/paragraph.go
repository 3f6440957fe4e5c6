package pdfstruct

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Paragraph is an ordered group of body blocks treated as one semantic
// unit, with style metadata derived from its blocks.
type Paragraph struct {
	Blocks   []TextBlock
	Text     string  // joined text, lines separated by newlines
	FontSize float64 // average font size across blocks
	Bold     bool    // any block bold
	Italic   bool    // any block italic
	Level    int     // 0 body, 1-3 heading level
	Centered bool    // alignment hint; false means justified
}

// IsTitle reports whether the paragraph classified as a heading.
func (p *Paragraph) IsTitle() bool { return p.Level > 0 }

// ReconstructOptions toggle the optional cleanup passes.
type ReconstructOptions struct {
	RemoveHyphenation bool // join word-\nword breaks
	MergeParagraphs   bool // re-flow wrapped lines into single-line paragraphs
}

// ReconstructParagraphs groups a page's body blocks into paragraphs.
//
// Blocks are taken in reading order; a new paragraph starts when the
// vertical gap between consecutive blocks exceeds ParagraphGap times the
// larger of the two font sizes. Every input block lands in exactly one
// paragraph.
func ReconstructParagraphs(blocks []TextBlock, h Heuristics, opts ReconstructOptions) []Paragraph {
	if len(blocks) == 0 {
		return nil
	}

	sorted := make([]TextBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BBox.Y1 != sorted[j].BBox.Y1 {
			return sorted[i].BBox.Y1 < sorted[j].BBox.Y1
		}
		return sorted[i].BBox.X1 < sorted[j].BBox.X1
	})

	var groups [][]TextBlock
	current := []TextBlock{sorted[0]}

	for _, block := range sorted[1:] {
		prev := current[len(current)-1]
		gap := block.BBox.Y1 - prev.BBox.Y2
		threshold := h.ParagraphGap * maxFloat(prev.FontSize, block.FontSize)
		if gap > threshold {
			groups = append(groups, current)
			current = []TextBlock{block}
		} else {
			current = append(current, block)
		}
	}
	groups = append(groups, current)

	paragraphs := make([]Paragraph, 0, len(groups))
	for _, group := range groups {
		paragraphs = append(paragraphs, buildParagraph(group, h, opts))
	}
	return paragraphs
}

// buildParagraph joins a group's blocks into text and derives its style.
func buildParagraph(blocks []TextBlock, h Heuristics, opts ReconstructOptions) Paragraph {
	para := Paragraph{Blocks: blocks}

	var sizeSum float64
	for _, block := range blocks {
		sizeSum += block.FontSize
		if block.Bold {
			para.Bold = true
		}
		if block.Italic {
			para.Italic = true
		}
	}
	para.FontSize = sizeSum / float64(len(blocks))

	para.Text = joinBlockLines(blocks, h)
	if opts.RemoveHyphenation {
		para.Text = RemoveHyphenation(para.Text)
	}
	if opts.MergeParagraphs {
		para.Text = mergeWrappedLines(para.Text)
	}

	classifyTitle(&para, h)
	para.Centered = blocks[0].BBox.X1 > h.CenterIndent

	return para
}

// joinBlockLines assembles a paragraph's text: blocks whose tops sit
// within SameLineFactor×font-size share a line and are joined with
// spaces left-to-right; distinct lines are joined with newlines.
func joinBlockLines(blocks []TextBlock, h Heuristics) string {
	type line struct {
		y      float64
		blocks []TextBlock
	}

	var lines []line
	for _, block := range blocks {
		placed := false
		for i := range lines {
			if abs(block.BBox.Y1-lines[i].y) < block.FontSize*h.SameLineFactor {
				lines[i].blocks = append(lines[i].blocks, block)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, line{y: block.BBox.Y1, blocks: []TextBlock{block}})
		}
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y < lines[j].y })

	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		sort.SliceStable(l.blocks, func(i, j int) bool {
			return l.blocks[i].BBox.X1 < l.blocks[j].BBox.X1
		})
		words := make([]string, 0, len(l.blocks))
		for _, block := range l.blocks {
			words = append(words, block.Text)
		}
		parts = append(parts, strings.Join(words, " "))
	}
	return strings.Join(parts, "\n")
}

// A hyphen break only joins when the leading fragment is a standalone
// word: a fragment already preceded by a hyphen is part of a compound
// ("up-to-\ndate") and keeps its break.
var hyphenBreakRe = regexp.MustCompile(`(^|[^-\w])(\w+)-\n(\w+)`)

// RemoveHyphenation joins words split across lines by end-of-line hyphens.
func RemoveHyphenation(text string) string {
	return hyphenBreakRe.ReplaceAllString(text, "$1$2$3")
}

var spaceRunRe = regexp.MustCompile(`[ \t]+`)

// mergeWrappedLines collapses newlines that do not precede a capital
// letter, digit, or bullet marker into spaces, re-flowing wrapped body
// text while preserving intentional list-like breaks. Runs of spaces
// introduced by the collapse are squeezed afterwards.
func mergeWrappedLines(text string) string {
	var sb strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' && i+1 < len(runes) && !startsNewLine(runes[i+1]) {
			sb.WriteByte(' ')
			continue
		}
		sb.WriteRune(r)
	}
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(sb.String(), " "))
}

func startsNewLine(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsDigit(r) || r == '•' || r == '-' || r == '*'
}

// classifyTitle marks short, large-or-bold paragraphs as headings.
// The level tiering uses only the first block's font size.
func classifyTitle(para *Paragraph, h Heuristics) {
	joined := strings.ReplaceAll(para.Text, "\n", " ")
	if !(para.FontSize > h.TitleMinFontSize || para.Bold) {
		return
	}
	if len([]rune(joined)) >= h.TitleMaxLength {
		return
	}

	first := para.Blocks[0].FontSize
	switch {
	case first >= h.H1MinFontSize:
		para.Level = 1
	case first >= h.H2MinFontSize:
		para.Level = 2
	default:
		para.Level = 3
	}
	for i := range para.Blocks {
		para.Blocks[i].Region = RegionTitle
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
