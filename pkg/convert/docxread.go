package convert

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strings"
)

// flowBlock is one element of a source document flattened for flow
// layout: either a text block (with optional heading level and emphasis)
// or a table.
type flowBlock struct {
	Text   string
	Level  int // 0 body, 1-3 heading
	Title  bool
	Bold   bool
	Italic bool

	TableRows [][]string // non-nil for tables; Text is empty
}

// readDocx parses a .docx file by streaming word/document.xml out of the
// ZIP archive. Headings are recognized by paragraph style, tables become
// row/cell grids, and run-level bold/italic marks carry over.
func readDocx(path string) ([]flowBlock, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open docx archive: %w", err)
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open document.xml: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var blocks []flowBlock

	var text strings.Builder
	var inParagraph, inText bool
	var style string
	var bold, italic bool

	var tableDepth int
	var rows [][]string
	var row []string
	var cellText strings.Builder

	flushParagraph := func() {
		raw := strings.TrimSpace(text.String())
		inParagraph = false
		if tableDepth > 0 {
			if raw != "" {
				if cellText.Len() > 0 {
					cellText.WriteByte(' ')
				}
				cellText.WriteString(raw)
			}
			return
		}
		if raw == "" {
			return
		}
		blocks = append(blocks, flowBlock{
			Text:   raw,
			Level:  docxHeadingLevel(style),
			Title:  strings.EqualFold(style, "Title"),
			Bold:   bold,
			Italic: italic,
		})
	}

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				text.Reset()
				style = ""
				bold, italic = false, false
			case "pStyle":
				if inParagraph {
					style = attrVal(t, "val")
				}
			case "b":
				if inParagraph && !isOffToggle(t) {
					bold = true
				}
			case "i":
				if inParagraph && !isOffToggle(t) {
					italic = true
				}
			case "t":
				inText = inParagraph
			case "br", "cr":
				if inParagraph {
					text.WriteByte('\n')
				}
			case "tab":
				if inParagraph {
					text.WriteByte('\t')
				}
			case "tbl":
				tableDepth++
				if tableDepth == 1 {
					rows = nil
				}
			case "tr":
				if tableDepth == 1 {
					row = nil
				}
			case "tc":
				if tableDepth == 1 {
					cellText.Reset()
				}
			}

		case xml.CharData:
			if inText {
				text.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inParagraph {
					flushParagraph()
				}
			case "t":
				inText = false
			case "tc":
				if tableDepth == 1 {
					row = append(row, strings.TrimSpace(cellText.String()))
				}
			case "tr":
				if tableDepth == 1 && len(row) > 0 {
					rows = append(rows, row)
				}
			case "tbl":
				tableDepth--
				if tableDepth == 0 && len(rows) > 0 {
					blocks = append(blocks, flowBlock{TableRows: rows})
				}
			}
		}
	}

	return blocks, nil
}

// docxHeadingLevel extracts the heading level from a paragraph style name.
// e.g. "Heading1" → 1, "heading2" → 2; unknown styles are body text.
func docxHeadingLevel(style string) int {
	lower := strings.ToLower(style)
	for _, prefix := range []string{"heading", "titre", "überschrift"} {
		if strings.HasPrefix(lower, prefix) {
			rest := lower[len(prefix):]
			if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
				return int(rest[0] - '0')
			}
		}
	}
	return 0
}

// attrVal returns the value of the named attribute, ignoring namespace.
func attrVal(el xml.StartElement, name string) string {
	for _, attr := range el.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// isOffToggle reports whether a run property toggle like <w:b w:val="0"/>
// explicitly turns the property off.
func isOffToggle(el xml.StartElement) bool {
	v := attrVal(el, "val")
	return v == "0" || strings.EqualFold(v, "false")
}
