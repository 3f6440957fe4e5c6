// Package pdfstruct reconstructs document structure from geometric text.
//
// Given the positioned spans of each PDF page, the package classifies
// content into header, footer, and body bands, detects the boilerplate
// header/footer pattern that repeats across pages, groups body text into
// paragraphs, classifies titles, and decides whether a document is native,
// scanned, or a mix of both.
//
// Key Types:
//
// - Analyzer: runs page and cross-page structural analysis
// - PageAnalysis / DocumentAnalysis: per-page and per-document results
// - Paragraph: a reconstructed semantic text unit with style metadata
// - Heuristics: the tunable constants driving every decision
//
// Main Functions:
//
// - AnalyzePage: band classification and line assembly for one page
// - (*Analyzer).AnalyzeDocument: full-document analysis with boilerplate
//   and page-number detection
// - ReconstructParagraphs: paragraph grouping and title classification
// - ClassifyDocument: the native/scanned/mixed decision
package pdfstruct

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sthevan027/Converso/pkg/pdfgeom"
)

// PageSource supplies per-page geometry; *pdfgeom.Document satisfies it.
type PageSource interface {
	NumPages() int
	PageSize(i int) (float64, float64, error)
	Spans(i int) ([]pdfgeom.Span, error)
}

// Analyzer runs structural analysis over a document's pages.
type Analyzer struct {
	H Heuristics
}

// NewAnalyzer creates an Analyzer with the given heuristics.
func NewAnalyzer(h Heuristics) *Analyzer {
	return &Analyzer{H: h}
}

// AnalyzeDocument analyzes pages [startPage, endPage) of src (0-based,
// exclusive end; endPage < 0 means through the last page) and detects
// cross-page boilerplate and sequential page numbering.
func (a *Analyzer) AnalyzeDocument(src PageSource, startPage, endPage int) (*DocumentAnalysis, error) {
	total := src.NumPages()
	if endPage < 0 || endPage > total {
		endPage = total
	}
	if startPage < 0 {
		startPage = 0
	}

	analysis := &DocumentAnalysis{}
	for i := startPage; i < endPage; i++ {
		width, height, err := src.PageSize(i)
		if err != nil {
			return nil, err
		}
		spans, err := src.Spans(i)
		if err != nil {
			return nil, fmt.Errorf("failed to extract spans: %w", err)
		}
		analysis.Pages = append(analysis.Pages, AnalyzePage(spans, i, width, height, a.H))
	}

	a.detectCommonHeadersFooters(analysis)
	return analysis, nil
}

// detectCommonHeadersFooters fills in the boilerplate pattern and the
// sequential page-number flag. A single analyzed page carries no repetition
// signal, so nothing is detected below two pages.
func (a *Analyzer) detectCommonHeadersFooters(analysis *DocumentAnalysis) {
	if len(analysis.Pages) < 2 {
		return
	}

	var headers, footers []string
	for _, page := range analysis.Pages {
		if page.HeaderText != "" {
			headers = append(headers, page.HeaderText)
		}
		if page.FooterText != "" {
			footers = append(footers, page.FooterText)
		}
	}

	if len(headers) > 0 {
		analysis.CommonHeader = a.findCommonPattern(headers)
	}
	if len(footers) > 0 {
		analysis.CommonFooter = a.findCommonPattern(footers)
		analysis.HasSequentialPageNumbers = a.hasSequentialNumbers(footers)
	}
}

var (
	digitRunRe   = regexp.MustCompile(`\b\d+\b`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NumPlaceholder is the token substituted for digit runs when comparing
// header/footer text across pages, so "Page 3 of 10" and "Page 4 of 10"
// count as the same pattern.
const NumPlaceholder = "{NUM}"

// NormalizePattern rewrites digit runs to the placeholder token and
// collapses whitespace, producing the comparison form used by the
// boilerplate detector.
func NormalizePattern(text string) string {
	normalized := digitRunRe.ReplaceAllString(text, NumPlaceholder)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(normalized, " "))
}

// DetectBoilerplate runs cross-page boilerplate and page-number
// detection over an already-assembled analysis. AnalyzeDocument calls
// this itself; it is exposed for callers that build the page analyses
// through a different path (for example, mixed native/OCR pipelines).
func (a *Analyzer) DetectBoilerplate(analysis *DocumentAnalysis) {
	a.detectCommonHeadersFooters(analysis)
}

// findCommonPattern returns the most frequent digit-normalized text,
// provided it recurs in at least BoilerplateMinShare of the inputs.
func (a *Analyzer) findCommonPattern(texts []string) string {
	if len(texts) == 0 {
		return ""
	}

	counts := make(map[string]int)
	best := ""
	for _, text := range texts {
		normalized := NormalizePattern(text)
		counts[normalized]++
		if best == "" || counts[normalized] > counts[best] {
			best = normalized
		}
	}

	if float64(counts[best]) >= float64(len(texts))*a.H.BoilerplateMinShare {
		return best
	}
	return ""
}

// hasSequentialNumbers reports whether the last digit run of each footer
// forms an incrementing sequence. The count of exact +1 steps is compared
// against SequentialMinShare of the number of footers carrying digits.
// Using the last run means a trailing total, as in "3 of 15", dominates
// the signal: the constant total masks the incrementing page number, so
// "N of TOTAL" footers are not flagged as sequential.
func (a *Analyzer) hasSequentialNumbers(footers []string) bool {
	var numbers []int
	for _, footer := range footers {
		matches := digitRunRe.FindAllString(footer, -1)
		if len(matches) == 0 {
			continue
		}
		n, err := strconv.Atoi(matches[len(matches)-1])
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}

	if len(numbers) < 2 {
		return false
	}

	sequential := 0
	for i := 1; i < len(numbers); i++ {
		if numbers[i] == numbers[i-1]+1 {
			sequential++
		}
	}
	return float64(sequential) >= float64(len(numbers))*a.H.SequentialMinShare
}

// CleanTextOptions control boilerplate removal in ExtractCleanText.
type CleanTextOptions struct {
	RemoveHeaders bool
	RemoveFooters bool
}

// ExtractCleanText renders the analyzed document as plain text, dropping
// detected header/footer boilerplate when requested and separating pages
// with a rule. When no boilerplate was detected, per-page header and
// footer text is kept with the body regardless of the removal flags.
func ExtractCleanText(analysis *DocumentAnalysis, opts CleanTextOptions) string {
	texts := make([]string, 0, len(analysis.Pages))
	for _, page := range analysis.Pages {
		pageText := page.BodyText
		if (!opts.RemoveHeaders || analysis.CommonHeader == "") && page.HeaderText != "" {
			pageText = page.HeaderText + "\n" + pageText
		}
		if (!opts.RemoveFooters || analysis.CommonFooter == "") && page.FooterText != "" {
			pageText += "\n" + page.FooterText
		}
		texts = append(texts, strings.TrimSpace(pageText))
	}
	return strings.Join(texts, "\n\n---\n\n")
}
