package convert

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/sthevan027/Converso/pkg/pdfstruct"
)

// OOXML page geometry in twentieths of a point (A4).
const (
	docxPageW   = 11906
	docxPageH   = 16838
	docxMargin  = 1440
	emuPerPixel = 9525 // EMU per pixel at 96 DPI
)

// docxWriter assembles a minimal but valid WordprocessingML package:
// document body, styles, optional running header/footer, and embedded
// media, zipped in the OOXML layout.
type docxWriter struct {
	body      strings.Builder
	images    []docImage
	header    string // boilerplate pattern, {NUM} becomes a PAGE field
	footer    string
	landscape bool
	drawingID int
}

func newDocxWriter() *docxWriter {
	return &docxWriter{}
}

// SetHeader promotes a detected header pattern into the document's
// running header. An empty pattern leaves the header out.
func (w *docxWriter) SetHeader(pattern string) { w.header = pattern }

// SetFooter promotes a detected footer pattern into the running footer.
func (w *docxWriter) SetFooter(pattern string) { w.footer = pattern }

// AddParagraph appends one paragraph. A non-empty style must name one of
// the built-in styles (Title, Heading1, Heading2, Heading3).
func (w *docxWriter) AddParagraph(text, style string, bold, italic, centered bool) {
	w.body.WriteString("<w:p>")
	if style != "" || centered {
		w.body.WriteString("<w:pPr>")
		if style != "" {
			fmt.Fprintf(&w.body, `<w:pStyle w:val="%s"/>`, style)
		}
		if centered {
			w.body.WriteString(`<w:jc w:val="center"/>`)
		}
		w.body.WriteString("</w:pPr>")
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			w.body.WriteString(`<w:r><w:br/></w:r>`)
		}
		w.body.WriteString("<w:r>")
		if bold || italic {
			w.body.WriteString("<w:rPr>")
			if bold {
				w.body.WriteString("<w:b/>")
			}
			if italic {
				w.body.WriteString("<w:i/>")
			}
			w.body.WriteString("</w:rPr>")
		}
		fmt.Fprintf(&w.body, `<w:t xml:space="preserve">%s</w:t>`, escapeXML(line))
		w.body.WriteString("</w:r>")
	}
	w.body.WriteString("</w:p>")
}

// AddStructured appends a reconstructed paragraph with its derived style.
func (w *docxWriter) AddStructured(para pdfstruct.Paragraph) {
	style := ""
	switch para.Level {
	case 1:
		style = "Heading1"
	case 2:
		style = "Heading2"
	case 3:
		style = "Heading3"
	}
	w.AddParagraph(para.Text, style, para.Bold, para.Italic, para.Centered)
}

// AddImage embeds a prepared image as an inline drawing.
func (w *docxWriter) AddImage(img docImage) {
	w.images = append(w.images, img)
	w.drawingID++
	relID := fmt.Sprintf("rIdImg%d", len(w.images))
	cx := img.Width * emuPerPixel
	cy := img.Height * emuPerPixel

	fmt.Fprintf(&w.body,
		`<w:p><w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
			`<wp:extent cx="%d" cy="%d"/><wp:docPr id="%d" name="Picture %d"/>`+
			`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
			`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
			`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
			`<pic:nvPicPr><pic:cNvPr id="%d" name="Picture %d"/><pic:cNvPicPr/></pic:nvPicPr>`+
			`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
			`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
			`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
			`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`,
		cx, cy, w.drawingID, w.drawingID, w.drawingID, w.drawingID, relID, cx, cy)
}

// AddPageBreak forces the following content onto a new page.
func (w *docxWriter) AddPageBreak() {
	w.body.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
}

// SetOrientation switches the page orientation for subsequent content.
// A change mid-document closes the current section with a section break
// so the orientation applies per source page, as in mixed documents
// whose scans alternate portrait and landscape.
func (w *docxWriter) SetOrientation(landscape bool) {
	if landscape == w.landscape {
		return
	}
	if w.body.Len() > 0 {
		fmt.Fprintf(&w.body, `<w:p><w:pPr>%s</w:pPr></w:p>`, w.sectPr(w.landscape))
	}
	w.landscape = landscape
}

// sectPr renders section properties for the given orientation, including
// header/footer references when boilerplate promotion is active.
func (w *docxWriter) sectPr(landscape bool) string {
	var sb strings.Builder
	sb.WriteString("<w:sectPr>")
	if w.header != "" {
		sb.WriteString(`<w:headerReference w:type="default" r:id="rIdHdr"/>`)
	}
	if w.footer != "" {
		sb.WriteString(`<w:footerReference w:type="default" r:id="rIdFtr"/>`)
	}
	pw, ph := docxPageW, docxPageH
	orient := ""
	if landscape {
		pw, ph = docxPageH, docxPageW
		orient = ` w:orient="landscape"`
	}
	fmt.Fprintf(&sb, `<w:pgSz w:w="%d" w:h="%d"%s/>`, pw, ph, orient)
	fmt.Fprintf(&sb, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d"/>`,
		docxMargin, docxMargin, docxMargin, docxMargin)
	sb.WriteString("</w:sectPr>")
	return sb.String()
}

// WriteFile writes the assembled package to path.
func (w *docxWriter) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	if err := w.writeParts(zw); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize docx archive: %w", err)
	}
	return nil
}

func (w *docxWriter) writeParts(zw *zip.Writer) error {
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(w.contentTypes())},
		{"_rels/.rels", []byte(docxRootRels)},
		{"word/document.xml", []byte(w.documentXML())},
		{"word/styles.xml", []byte(docxStyles)},
		{"word/_rels/document.xml.rels", []byte(w.documentRels())},
	}
	if w.header != "" {
		parts = append(parts, struct {
			name string
			data []byte
		}{"word/header1.xml", []byte(marginalXML("hdr", w.header))})
	}
	if w.footer != "" {
		parts = append(parts, struct {
			name string
			data []byte
		}{"word/footer1.xml", []byte(marginalXML("ftr", w.footer))})
	}
	for i, img := range w.images {
		parts = append(parts, struct {
			name string
			data []byte
		}{fmt.Sprintf("word/media/image%d.jpg", i+1), img.Data})
	}

	for _, part := range parts {
		pw, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", part.name, err)
		}
		if _, err := pw.Write(part.data); err != nil {
			return fmt.Errorf("failed to write %s: %w", part.name, err)
		}
	}
	return nil
}

func (w *docxWriter) documentXML() string {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"><w:body>`)
	sb.WriteString(w.body.String())
	sb.WriteString(w.sectPr(w.landscape))
	sb.WriteString("</w:body></w:document>")
	return sb.String()
}

func (w *docxWriter) documentRels() string {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	sb.WriteString(`<Relationship Id="rIdStyles" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`)
	if w.header != "" {
		sb.WriteString(`<Relationship Id="rIdHdr" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>`)
	}
	if w.footer != "" {
		sb.WriteString(`<Relationship Id="rIdFtr" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>`)
	}
	for i := range w.images {
		fmt.Fprintf(&sb,
			`<Relationship Id="rIdImg%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image%d.jpg"/>`,
			i+1, i+1)
	}
	sb.WriteString("</Relationships>")
	return sb.String()
}

func (w *docxWriter) contentTypes() string {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	if len(w.images) > 0 {
		sb.WriteString(`<Default Extension="jpg" ContentType="image/jpeg"/>`)
	}
	sb.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	sb.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	if w.header != "" {
		sb.WriteString(`<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>`)
	}
	if w.footer != "" {
		sb.WriteString(`<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>`)
	}
	sb.WriteString("</Types>")
	return sb.String()
}

// marginalXML renders a header or footer part. Occurrences of the digit
// placeholder become live PAGE fields so the running header shows the
// actual page number.
func marginalXML(root, pattern string) string {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	fmt.Fprintf(&sb, `<w:%s xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:p><w:pPr><w:jc w:val="center"/></w:pPr>`, root)
	for i, piece := range strings.Split(pattern, pdfstruct.NumPlaceholder) {
		if i > 0 {
			sb.WriteString(`<w:fldSimple w:instr=" PAGE "><w:r><w:t>1</w:t></w:r></w:fldSimple>`)
		}
		if piece != "" {
			fmt.Fprintf(&sb, `<w:r><w:t xml:space="preserve">%s</w:t></w:r>`, escapeXML(piece))
		}
	}
	fmt.Fprintf(&sb, `</w:p></w:%s>`, root)
	return sb.String()
}

const docxRootRels = xml.Header +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const docxStyles = xml.Header +
	`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/>` +
	`<w:rPr><w:sz w:val="22"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/>` +
	`<w:rPr><w:b/><w:sz w:val="40"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/>` +
	`<w:rPr><w:b/><w:sz w:val="36"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/>` +
	`<w:rPr><w:b/><w:sz w:val="28"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="heading 3"/>` +
	`<w:rPr><w:b/><w:sz w:val="24"/></w:rPr></w:style>` +
	`</w:styles>`

// escapeXML escapes text for embedding in an XML element.
func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
