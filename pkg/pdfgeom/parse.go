package pdfgeom

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Approximate glyph width as a fraction of the font size.
// MuPDF's positioned HTML only reports the top-left corner of each text
// block, so the right and bottom edges are estimated from the font metrics.
const glyphWidthRatio = 0.5

// ParseSpans converts a page of MuPDF positioned HTML into Spans.
// Each <p> element carries top/left offsets in its inline style; nested
// <span> elements carry font-family and font-size. Bold and italic are
// detected both from <b>/<i> nesting and from the font name.
func ParseSpans(pageHTML string) ([]Span, error) {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page markup: %w", err)
	}

	var spans []Span

	var findBlocks func(*html.Node)
	findBlocks = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			props := parseStyle(attrValue(n, "style"))
			if _, ok := props["top"]; ok {
				spans = append(spans, processBlock(n, props)...)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findBlocks(c)
		}
	}
	findBlocks(doc)

	return spans, nil
}

// blockState tracks the pen position and inherited style while walking
// the children of one positioned <p> block.
type blockState struct {
	x        float64
	y        float64
	fontName string
	fontSize float64
	bold     bool
	italic   bool
}

// processBlock extracts the spans of a single positioned <p> element.
func processBlock(p *html.Node, props map[string]string) []Span {
	state := blockState{
		x:        parsePt(props["left"]),
		y:        parsePt(props["top"]),
		fontName: firstFamily(props["font-family"]),
		fontSize: parsePt(props["font-size"]),
	}
	if state.fontSize == 0 {
		state.fontSize = parsePt(props["line-height"])
	}

	var spans []Span
	collectSpans(p, state, &spans)
	return spans
}

// collectSpans walks a block's subtree, emitting one Span per text run and
// advancing the pen position by the estimated width of each run.
func collectSpans(n *html.Node, state blockState, out *[]Span) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			text := strings.TrimSpace(c.Data)
			if text == "" {
				continue
			}
			width := float64(len([]rune(text))) * state.fontSize * glyphWidthRatio
			span := Span{
				Text:     text,
				BBox:     NewBBox(state.x, state.y, state.x+width, state.y+state.fontSize),
				FontName: state.fontName,
				FontSize: state.fontSize,
				Bold:     state.bold || boldFontName(state.fontName),
				Italic:   state.italic || italicFontName(state.fontName),
			}
			*out = append(*out, span)
			// Advance past this run, plus the collapsed whitespace
			// that TrimSpace removed.
			state.x += width + state.fontSize*glyphWidthRatio

		case html.ElementNode:
			child := state
			switch c.Data {
			case "b", "strong":
				child.bold = true
			case "i", "em":
				child.italic = true
			}
			if style := attrValue(c, "style"); style != "" {
				props := parseStyle(style)
				if fam := firstFamily(props["font-family"]); fam != "" {
					child.fontName = fam
				}
				if size := parsePt(props["font-size"]); size > 0 {
					child.fontSize = size
				}
				if props["font-weight"] == "bold" {
					child.bold = true
				}
				if props["font-style"] == "italic" {
					child.italic = true
				}
			}
			before := len(*out)
			collectSpans(c, child, out)
			// Keep the pen position in sync with nested emissions.
			if len(*out) > before {
				last := (*out)[len(*out)-1]
				state.x = last.BBox.X2 + state.fontSize*glyphWidthRatio
			}
		}
	}
}

// parseStyle breaks an inline CSS declaration list into a property map.
// Example input: "top:72.0pt;left:108.0pt;font-size:12.0pt"
func parseStyle(style string) map[string]string {
	props := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		props[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return props
}

// parsePt parses a CSS point value such as "12.0pt".
func parsePt(v string) float64 {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "pt"))
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// firstFamily returns the first font family from a CSS font-family list.
func firstFamily(v string) string {
	if idx := strings.IndexByte(v, ','); idx >= 0 {
		v = v[:idx]
	}
	return strings.Trim(strings.TrimSpace(v), `"'`)
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func boldFontName(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "bold") || strings.Contains(lower, "black") ||
		strings.Contains(lower, "heavy")
}

func italicFontName(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "italic") || strings.Contains(lower, "oblique")
}
