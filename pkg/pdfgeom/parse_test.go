package pdfgeom

import (
	"math"
	"testing"
)

func TestParseSpans_PositionAndFont(t *testing.T) {
	// WHAT: A positioned <p> block with font styling yields one span at
	// the stated coordinates with the stated font.
	// WHY: This is the markup shape MuPDF emits for every text block.
	page := `<div id="page0">` +
		`<p style="top:100.0pt;left:72.0pt;line-height:12.0pt">` +
		`<span style="font-family:Helvetica,sans-serif;font-size:12.0pt">Hello world</span>` +
		`</p></div>`

	spans, err := ParseSpans(page)
	if err != nil {
		t.Fatalf("ParseSpans: %v", err)
	}
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}

	s := spans[0]
	if s.Text != "Hello world" {
		t.Errorf("text = %q, want %q", s.Text, "Hello world")
	}
	if s.BBox.X1 != 72 || s.BBox.Y1 != 100 {
		t.Errorf("top-left = (%v, %v), want (72, 100)", s.BBox.X1, s.BBox.Y1)
	}
	if s.FontName != "Helvetica" {
		t.Errorf("font = %q, want Helvetica", s.FontName)
	}
	if s.FontSize != 12 {
		t.Errorf("size = %v, want 12", s.FontSize)
	}
	// 11 glyphs at half the font size each.
	wantWidth := 11 * 12 * 0.5
	if math.Abs(s.BBox.Width()-wantWidth) > 1e-9 {
		t.Errorf("width = %v, want %v", s.BBox.Width(), wantWidth)
	}
}

func TestParseSpans_BoldItalicNesting(t *testing.T) {
	// WHAT: <b> and <i> wrappers mark their text runs bold/italic.
	// WHY: Style flags feed heading classification downstream.
	page := `<p style="top:50pt;left:72pt;line-height:14pt">` +
		`<span style="font-family:Times;font-size:14pt">` +
		`plain <b>bolded</b> <i>slanted</i></span></p>`

	spans, err := ParseSpans(page)
	if err != nil {
		t.Fatalf("ParseSpans: %v", err)
	}
	if len(spans) != 3 {
		t.Fatalf("spans = %d, want 3", len(spans))
	}

	if spans[0].Bold || spans[0].Italic {
		t.Errorf("plain run flagged: %+v", spans[0])
	}
	if !spans[1].Bold || spans[1].Text != "bolded" {
		t.Errorf("bold run = %+v, want bold %q", spans[1], "bolded")
	}
	if !spans[2].Italic || spans[2].Text != "slanted" {
		t.Errorf("italic run = %+v, want italic %q", spans[2], "slanted")
	}
}

func TestParseSpans_FontNameInference(t *testing.T) {
	// WHAT: Bold/italic also derive from the font name itself.
	// WHY: Many PDFs encode weight in the face name, not in markup.
	page := `<p style="top:50pt;left:72pt;line-height:12pt">` +
		`<span style="font-family:Arial-BoldItalicMT;font-size:12pt">styled</span></p>`

	spans, err := ParseSpans(page)
	if err != nil {
		t.Fatalf("ParseSpans: %v", err)
	}
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if !spans[0].Bold || !spans[0].Italic {
		t.Errorf("Arial-BoldItalicMT not inferred bold+italic: %+v", spans[0])
	}
}

func TestParseSpans_IgnoresUnpositionedParagraphs(t *testing.T) {
	// WHAT: <p> elements without top/left offsets produce no spans.
	// WHY: Only positioned blocks carry page geometry.
	page := `<p>floating text</p>`
	spans, err := ParseSpans(page)
	if err != nil {
		t.Fatalf("ParseSpans: %v", err)
	}
	if len(spans) != 0 {
		t.Errorf("spans = %d, want 0", len(spans))
	}
}

func TestParseSpans_PenAdvancesAcrossRuns(t *testing.T) {
	// WHAT: Consecutive runs on a line get increasing X positions.
	// WHY: Horizontal order must survive for left-to-right line assembly.
	page := `<p style="top:50pt;left:72pt;line-height:10pt">` +
		`<span style="font-family:Courier;font-size:10pt">first <b>second</b></span></p>`

	spans, err := ParseSpans(page)
	if err != nil {
		t.Fatalf("ParseSpans: %v", err)
	}
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}
	if spans[1].BBox.X1 <= spans[0].BBox.X2 {
		t.Errorf("second run X1=%v not past first run X2=%v",
			spans[1].BBox.X1, spans[0].BBox.X2)
	}
}
