package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gtext "github.com/yuin/goldmark/text"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Flow layout geometry: A4 in points with one-inch margins.
const (
	pdfPageW    = 595.0
	pdfPageH    = 842.0
	pdfMarginPt = 72.0

	pdfBodySize  = 11.0
	pdfTitleSize = 20.0
	pdfH1Size    = 18.0
	pdfH2Size    = 14.0
	pdfH3Size    = 12.0

	pdfLineFactor     = 1.5 // line height as a multiple of font size
	pdfCharWidthRatio = 0.5 // estimated glyph width as a multiple of font size
	pdfFontName       = "Helvetica"
)

// ToPDFConverter renders a DOCX, plain-text, or Markdown document as a
// flow-layout PDF: A4 pages, word wrapping against an estimated character
// width, headings at fixed sizes, tables as pipe-joined rows.
type ToPDFConverter struct{}

func (c *ToPDFConverter) Convert(ctx context.Context, inputPath, outputPath string, opts Options, res *Result) error {
	var blocks []flowBlock
	var err error
	switch strings.ToLower(filepath.Ext(inputPath)) {
	case ".docx":
		blocks, err = readDocx(inputPath)
	case ".txt":
		blocks, err = readTextFile(inputPath)
	case ".md":
		blocks, err = readMarkdown(inputPath)
	default:
		return fmt.Errorf("%w: cannot build PDF from %s", ErrUnsupportedFormat, filepath.Ext(inputPath))
	}
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	flow := newPDFFlow()
	for _, b := range blocks {
		flow.writeBlock(b)
	}
	res.PagesConverted = flow.pdf.PageNo()

	if err := flow.pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	return nil
}

// pdfFlow tracks a vertical cursor on successive A4 pages.
type pdfFlow struct {
	pdf     *fpdf.Fpdf
	y       float64
	encoder *encoding.Encoder
}

func newPDFFlow() *pdfFlow {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return &pdfFlow{
		pdf: pdf,
		y:   pdfMarginPt,
		// fpdf core fonts are Latin-1; unsupported runes degrade to '?'
		// rather than failing the conversion.
		encoder: encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder()),
	}
}

// blockFont picks font style, size, and extra leading for a block.
func blockFont(b flowBlock) (style string, size, lead float64) {
	switch {
	case b.Title:
		return "B", pdfTitleSize, pdfTitleSize * 0.5
	case b.Level == 1:
		return "B", pdfH1Size, pdfH1Size * 0.5
	case b.Level == 2:
		return "B", pdfH2Size, pdfH2Size * 0.5
	case b.Level >= 3:
		return "B", pdfH3Size, pdfH3Size * 0.5
	}
	if b.Bold {
		style += "B"
	}
	if b.Italic {
		style += "I"
	}
	return style, pdfBodySize, 0
}

func (f *pdfFlow) writeBlock(b flowBlock) {
	if b.TableRows != nil {
		for _, row := range b.TableRows {
			f.writeLines(strings.Join(row, " | "), "", pdfBodySize, 0)
		}
		f.y += pdfBodySize * pdfLineFactor * 0.5
		return
	}
	style, size, lead := blockFont(b)
	f.writeLines(b.Text, style, size, lead)
	// Gap between paragraphs.
	f.y += size * pdfLineFactor * 0.5
}

// writeLines word-wraps text to the printable width and emits it line by
// line, starting a new page when the cursor passes the bottom margin.
func (f *pdfFlow) writeLines(text, style string, size, lead float64) {
	f.pdf.SetFont(pdfFontName, style, size)
	lineH := size * pdfLineFactor
	maxChars := int((pdfPageW - 2*pdfMarginPt) / (size * pdfCharWidthRatio))

	f.y += lead
	for _, line := range wrapText(text, maxChars) {
		if f.y+lineH > pdfPageH-pdfMarginPt {
			f.pdf.AddPage()
			f.y = pdfMarginPt
		}
		f.y += lineH
		out, err := f.encoder.String(line)
		if err != nil {
			out = line
		}
		f.pdf.Text(pdfMarginPt, f.y, out)
	}
}

// wrapText breaks text into lines of at most maxChars characters on word
// boundaries. Existing newlines are respected; a single word longer than
// the limit is split hard.
func wrapText(text string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}
	var lines []string
	for _, src := range strings.Split(text, "\n") {
		words := strings.Fields(src)
		if len(words) == 0 {
			continue
		}
		current := ""
		for _, word := range words {
			for len(word) > maxChars {
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				lines = append(lines, word[:maxChars])
				word = word[maxChars:]
			}
			switch {
			case current == "":
				current = word
			case len(current)+1+len(word) <= maxChars:
				current += " " + word
			default:
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}

// readTextFile splits a plain-text file into blank-line separated
// paragraphs.
func readTextFile(path string) ([]flowBlock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	var blocks []flowBlock
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		blocks = append(blocks, flowBlock{Text: para})
	}
	return blocks, nil
}

// readMarkdown parses a Markdown file with goldmark and walks the AST
// into flow blocks: headings (levels past 3 clamp to 3), paragraphs,
// pipe tables, and code blocks kept as literal text. A paragraph that is
// one emphasis node end to end maps to bold/italic; inline markup inside
// mixed paragraphs stays literal.
func readMarkdown(path string) ([]flowBlock, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(gtext.NewReader(source))

	var blocks []flowBlock
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			level := node.Level
			if level > 3 {
				level = 3
			}
			blocks = append(blocks, flowBlock{Text: nodeText(node, source), Level: level})
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph:
			blocks = append(blocks, mdParagraphBlock(node, source))
			return ast.WalkSkipChildren, nil

		case *ast.TextBlock:
			// Tight list items wrap their text in a TextBlock.
			if text := rawLines(node, source); text != "" {
				blocks = append(blocks, flowBlock{Text: text})
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			if text := rawLines(node, source); text != "" {
				blocks = append(blocks, flowBlock{Text: text})
			}
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock:
			if text := rawLines(node, source); text != "" {
				blocks = append(blocks, flowBlock{Text: text})
			}
			return ast.WalkSkipChildren, nil

		case *east.Table:
			if rows := tableRows(node, source); len(rows) > 0 {
				blocks = append(blocks, flowBlock{TableRows: rows})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown: %w", err)
	}
	return blocks, nil
}

// mdParagraphBlock converts one paragraph node. A sole emphasis child
// spanning the paragraph carries its style onto the block.
func mdParagraphBlock(node *ast.Paragraph, source []byte) flowBlock {
	if node.ChildCount() == 1 {
		if em, ok := node.FirstChild().(*ast.Emphasis); ok {
			block := flowBlock{Text: nodeText(em, source)}
			if em.Level >= 2 {
				block.Bold = true
			} else {
				block.Italic = true
			}
			return block
		}
	}
	return flowBlock{Text: rawLines(node, source)}
}

// nodeText extracts the flattened text content of an AST node.
func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		buf.Write(child.Text(source))
	}
	return strings.TrimSpace(buf.String())
}

// rawLines reassembles a block node's source lines, one text line per
// source line, markers and fences excluded.
func rawLines(node ast.Node, source []byte) string {
	lines := node.Lines()
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		parts = append(parts, strings.TrimRight(string(seg.Value(source)), "\r\n"))
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// tableRows flattens a goldmark table into header and body cell grids.
func tableRows(table *east.Table, source []byte) [][]string {
	var rows [][]string
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, nodeText(cell, source))
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}
