package pdfstruct

import (
	"strings"
	"testing"

	"github.com/sthevan027/Converso/pkg/pdfgeom"
)

// fakeSource serves pre-built span sets as a PageSource.
type fakeSource struct {
	pages [][]pdfgeom.Span
}

func (s *fakeSource) NumPages() int { return len(s.pages) }

func (s *fakeSource) PageSize(i int) (float64, float64, error) { return 612, 792, nil }

func (s *fakeSource) Spans(i int) ([]pdfgeom.Span, error) { return s.pages[i], nil }

func pageWith(header, body, footer string) []pdfgeom.Span {
	var spans []pdfgeom.Span
	if header != "" {
		spans = append(spans, span(header, 30, 42, 10))
	}
	if body != "" {
		spans = append(spans, span(body, 400, 412, 12))
	}
	if footer != "" {
		spans = append(spans, span(footer, 744, 756, 10))
	}
	return spans
}

func TestNormalizePattern(t *testing.T) {
	// WHAT: Digit runs become the placeholder and whitespace collapses.
	// WHY: "Page 3 of 10" and "Page 4 of 10" must compare equal across pages.
	cases := []struct {
		in, want string
	}{
		{"Page 3 of 10", "Page {NUM} of {NUM}"},
		{"Page 4 of 10", "Page {NUM} of {NUM}"},
		{"  Acme   Corp \n 2024 ", "Acme Corp {NUM}"},
		{"no digits here", "no digits here"},
		{"v1.2", "v{NUM}.{NUM}"},
	}
	for _, c := range cases {
		if got := NormalizePattern(c.in); got != c.want {
			t.Errorf("NormalizePattern(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestAnalyzeDocument_CommonHeaderAcrossPages(t *testing.T) {
	// WHAT: A header recurring (digit-normalized) on most pages is detected.
	// WHY: Boilerplate detection is the basis of header/footer removal.
	src := &fakeSource{pages: [][]pdfgeom.Span{
		pageWith("Annual Report 2023", "intro", "Page 1"),
		pageWith("Annual Report 2024", "middle", "Page 2"),
		pageWith("Annual Report 2025", "end", "Page 3"),
	}}
	analysis, err := NewAnalyzer(DefaultHeuristics()).AnalyzeDocument(src, 0, -1)
	if err != nil {
		t.Fatalf("AnalyzeDocument: %v", err)
	}

	if analysis.CommonHeader != "Annual Report {NUM}" {
		t.Errorf("common header = %q, want %q", analysis.CommonHeader, "Annual Report {NUM}")
	}
	if analysis.CommonFooter != "Page {NUM}" {
		t.Errorf("common footer = %q, want %q", analysis.CommonFooter, "Page {NUM}")
	}
	if !analysis.HasSequentialPageNumbers {
		t.Error("expected sequential page numbers")
	}
}

func TestAnalyzeDocument_SinglePageNoBoilerplate(t *testing.T) {
	// WHAT: One page never yields a common header or footer.
	// WHY: A single occurrence carries no repetition signal.
	src := &fakeSource{pages: [][]pdfgeom.Span{
		pageWith("Acme Corp", "body", "Page 1"),
	}}
	analysis, err := NewAnalyzer(DefaultHeuristics()).AnalyzeDocument(src, 0, -1)
	if err != nil {
		t.Fatalf("AnalyzeDocument: %v", err)
	}
	if analysis.CommonHeader != "" || analysis.CommonFooter != "" {
		t.Errorf("single page detected boilerplate: header=%q footer=%q",
			analysis.CommonHeader, analysis.CommonFooter)
	}
}

func TestDetectBoilerplate_BelowShare(t *testing.T) {
	// WHAT: A pattern on fewer than half the pages is not boilerplate.
	// WHY: One-off top-of-page text must not be stripped document-wide.
	analysis := &DocumentAnalysis{Pages: []PageAnalysis{
		{HeaderText: "Chapter One"},
		{HeaderText: "Chapter Two"},
		{HeaderText: "Chapter Three"},
		{HeaderText: "Chapter Four"},
	}}
	NewAnalyzer(DefaultHeuristics()).DetectBoilerplate(analysis)
	if analysis.CommonHeader != "" {
		t.Errorf("common header = %q, want none", analysis.CommonHeader)
	}
}

func TestDetectBoilerplate_SequentialFooters(t *testing.T) {
	// WHAT: Footers whose last number increments by one flag sequential
	// numbering; shuffled numbers do not.
	// WHY: The flag distinguishes page numbers from other footer digits.
	sequential := &DocumentAnalysis{Pages: []PageAnalysis{
		{FooterText: "3 of 12"},
		{FooterText: "3 of 13"},
		{FooterText: "3 of 14"},
		{FooterText: "3 of 15"},
	}}
	NewAnalyzer(DefaultHeuristics()).DetectBoilerplate(sequential)
	if !sequential.HasSequentialPageNumbers {
		t.Error("expected sequential page numbers from incrementing last digits")
	}

	shuffled := &DocumentAnalysis{Pages: []PageAnalysis{
		{FooterText: "Page 7"},
		{FooterText: "Page 2"},
		{FooterText: "Page 9"},
		{FooterText: "Page 4"},
	}}
	NewAnalyzer(DefaultHeuristics()).DetectBoilerplate(shuffled)
	if shuffled.HasSequentialPageNumbers {
		t.Error("shuffled footer numbers flagged as sequential")
	}

	// A constant trailing total masks the incrementing page number.
	totals := &DocumentAnalysis{Pages: []PageAnalysis{
		{FooterText: "1 of 15"},
		{FooterText: "2 of 15"},
		{FooterText: "3 of 15"},
		{FooterText: "4 of 15"},
	}}
	NewAnalyzer(DefaultHeuristics()).DetectBoilerplate(totals)
	if totals.HasSequentialPageNumbers {
		t.Error("constant trailing totals flagged as sequential")
	}
}

func TestAnalyzeDocument_PageRange(t *testing.T) {
	// WHAT: Only pages inside [start, end) are analyzed.
	// WHY: Partial conversions must not touch out-of-range pages.
	src := &fakeSource{pages: [][]pdfgeom.Span{
		pageWith("", "page zero", ""),
		pageWith("", "page one", ""),
		pageWith("", "page two", ""),
	}}
	analysis, err := NewAnalyzer(DefaultHeuristics()).AnalyzeDocument(src, 1, 2)
	if err != nil {
		t.Fatalf("AnalyzeDocument: %v", err)
	}
	if len(analysis.Pages) != 1 {
		t.Fatalf("pages analyzed = %d, want 1", len(analysis.Pages))
	}
	if analysis.Pages[0].BodyText != "page one" {
		t.Errorf("body = %q, want %q", analysis.Pages[0].BodyText, "page one")
	}
}

func TestExtractCleanText_RemovesDetectedBoilerplate(t *testing.T) {
	// WHAT: With boilerplate detected and removal on, headers/footers drop
	// and pages are joined by a rule.
	// WHY: Clean text export is the whole point of the remove mode.
	analysis := &DocumentAnalysis{Pages: []PageAnalysis{
		{HeaderText: "Acme Corp", BodyText: "First page.", FooterText: "Page 1"},
		{HeaderText: "Acme Corp", BodyText: "Second page.", FooterText: "Page 2"},
	}}
	NewAnalyzer(DefaultHeuristics()).DetectBoilerplate(analysis)

	got := ExtractCleanText(analysis, CleanTextOptions{RemoveHeaders: true, RemoveFooters: true})
	want := "First page.\n\n---\n\nSecond page."
	if got != want {
		t.Errorf("clean text = %q, want %q", got, want)
	}
}

func TestExtractCleanText_KeepsUndetectedMarginals(t *testing.T) {
	// WHAT: Without detected boilerplate the marginal text stays in the
	// output even when removal is requested.
	// WHY: Removal without a confirmed pattern would eat real content.
	analysis := &DocumentAnalysis{Pages: []PageAnalysis{
		{HeaderText: "Unique A", BodyText: "First."},
		{HeaderText: "Unique B", BodyText: "Second."},
		{HeaderText: "Unique C", BodyText: "Third."},
		{HeaderText: "Unique D", BodyText: "Fourth."},
	}}
	NewAnalyzer(DefaultHeuristics()).DetectBoilerplate(analysis)

	got := ExtractCleanText(analysis, CleanTextOptions{RemoveHeaders: true})
	if !strings.Contains(got, "Unique A") {
		t.Errorf("undetected header removed from output: %q", got)
	}
}
