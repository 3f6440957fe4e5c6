package convert

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sthevan027/Converso/pkg/ocr"
	"github.com/sthevan027/Converso/pkg/pdfgeom"
	"github.com/sthevan027/Converso/pkg/pdfstruct"
)

// docImage is a prepared (resized, re-encoded) embedded image.
type docImage struct {
	Data   []byte
	Width  int
	Height int
}

// pageContent is everything reconstructed from one source page.
type pageContent struct {
	Analysis   pdfstruct.PageAnalysis
	Paragraphs []pdfstruct.Paragraph
	Scanned    bool
	Images     []docImage
}

// pdfDocument is the reconstructed document handed to the builders.
type pdfDocument struct {
	Analysis *pdfstruct.DocumentAnalysis
	Pages    []pageContent
	Type     pdfstruct.DocType
}

// analyzePDF runs the full reconstruction pipeline over the selected
// page range: geometric extraction, band classification, the
// native/scanned/mixed decision, OCR for scanned pages, paragraph
// reconstruction, boilerplate detection, and image extraction.
func analyzePDF(ctx context.Context, inputPath string, opts Options, res *Result) (*pdfDocument, error) {
	doc, err := pdfgeom.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	h := opts.heuristics()
	start, end := opts.pageRange(doc.NumPages())

	probe, probeErr := OpenImageProbe(inputPath)
	if probeErr != nil {
		// Image detection degrades gracefully: pages are then treated
		// as native and no images are extracted.
		res.AddWarning(fmt.Sprintf("image detection unavailable: %v", probeErr))
	}

	analysis := &pdfstruct.DocumentAnalysis{}
	var needsOCR []bool

	for i := start; i < end; i++ {
		width, height, err := doc.PageSize(i)
		if err != nil {
			return nil, err
		}
		spans, err := doc.Spans(i)
		if err != nil {
			return nil, err
		}
		analysis.Pages = append(analysis.Pages, pdfstruct.AnalyzePage(spans, i, width, height, h))

		nativeText, err := doc.NativeText(i)
		if err != nil {
			return nil, err
		}
		hasImage := probe != nil && probe.HasImages(i)
		needsOCR = append(needsOCR, pdfstruct.PageNeedsOCR(nativeText, hasImage, h.MinNativeTextLen))
	}

	analyzer := pdfstruct.NewAnalyzer(h)
	analyzer.DetectBoilerplate(analysis)

	result := &pdfDocument{
		Analysis: analysis,
		Type:     pdfstruct.ClassifyDocument(needsOCR),
	}

	slog.Debug("document analyzed",
		"pages", len(analysis.Pages),
		"type", result.Type,
		"common_header", analysis.CommonHeader,
		"common_footer", analysis.CommonFooter)

	recOpts := pdfstruct.ReconstructOptions{
		RemoveHyphenation: opts.RemoveHyphenation,
		MergeParagraphs:   opts.MergeParagraphs,
	}

	for idx := range analysis.Pages {
		page := analysis.Pages[idx]
		content := pageContent{Analysis: page, Scanned: needsOCR[idx]}

		if content.Scanned {
			content.Paragraphs, err = ocrParagraphs(ctx, doc, page.PageNum, opts, h, res)
			if err != nil {
				return nil, err
			}
		} else {
			content.Paragraphs = pdfstruct.ReconstructParagraphs(page.BodyBlocks, h, recOpts)
		}

		if opts.ExtractImages && probe != nil && probe.HasImages(page.PageNum) {
			content.Images = extractImages(probe, page.PageNum, opts, res)
		}

		result.Pages = append(result.Pages, content)
		res.PagesConverted++
	}

	countBoilerplate(analysis, res)
	return result, nil
}

// ocrParagraphs recognizes a scanned page and groups the OCR lines into
// coarse paragraphs. With no engine configured, or when the engine finds
// nothing, the page stays blank and a warning is recorded.
func ocrParagraphs(ctx context.Context, src ocr.PageRasterizer, pageNum int, opts Options, h pdfstruct.Heuristics, res *Result) ([]pdfstruct.Paragraph, error) {
	if opts.OCREngine == nil {
		res.AddWarning(fmt.Sprintf("page %d looks scanned but no OCR engine is configured", pageNum+1))
		return nil, nil
	}

	adapter := ocr.NewAdapter(opts.OCREngine, ocr.DefaultHeuristics())
	ocrRes, err := adapter.RecognizePage(ctx, src, pageNum)
	if err != nil {
		return nil, err
	}
	if len(ocrRes.Lines) == 0 {
		res.AddWarning(fmt.Sprintf("no text detected on page %d", pageNum+1))
		return nil, nil
	}

	groups := ocr.GroupLines(ocrRes.Lines, adapter.H.GroupGapFactor)
	paragraphs := make([]pdfstruct.Paragraph, 0, len(groups))
	for _, group := range groups {
		paragraphs = append(paragraphs, paragraphFromOCRGroup(group, h))
	}
	return paragraphs, nil
}

// paragraphFromOCRGroup converts one OCR line group into a paragraph.
// Title detection here is coarser than the native path: no font metadata
// exists, so only line height and text length are considered.
func paragraphFromOCRGroup(group []ocr.Line, h pdfstruct.Heuristics) pdfstruct.Paragraph {
	texts := make([]string, 0, len(group))
	var heightSum float64
	for _, line := range group {
		texts = append(texts, ocr.NormalizeText(line.Text))
		heightSum += line.BBox.Height()
	}
	avgHeight := heightSum / float64(len(group))
	text := strings.Join(texts, "\n")

	para := pdfstruct.Paragraph{
		Text:     text,
		FontSize: avgHeight,
	}
	joined := strings.ReplaceAll(text, "\n", " ")
	if len(group) == 1 && avgHeight > h.TitleMinFontSize && len([]rune(joined)) < h.TitleMaxLength {
		if avgHeight >= h.H1MinFontSize {
			para.Level = 1
		} else {
			para.Level = 2
		}
	}
	para.Centered = group[0].BBox.X1 > h.CenterIndent
	return para
}

// extractImages pulls and prepares a page's embedded images. A single
// failing image is a warning, not a conversion failure.
func extractImages(probe *ImageProbe, pageNum int, opts Options, res *Result) []docImage {
	raw, err := probe.ExtractPageImages(pageNum)
	if err != nil {
		res.AddWarning(fmt.Sprintf("page %d: %v", pageNum+1, err))
		return nil
	}

	var images []docImage
	for idx, data := range raw {
		prepared, width, height, err := prepareImage(data, opts.MaxImageWidth, opts.ImageQuality)
		if err != nil {
			res.AddWarning(fmt.Sprintf("page %d image %d: %v", pageNum+1, idx+1, err))
			continue
		}
		images = append(images, docImage{Data: prepared, Width: width, Height: height})
		res.ImagesExtracted++
	}
	return images
}

// countBoilerplate fills the header/footer detection counters: the
// number of pages whose header/footer text matches the detected pattern.
func countBoilerplate(analysis *pdfstruct.DocumentAnalysis, res *Result) {
	for _, page := range analysis.Pages {
		if analysis.CommonHeader != "" &&
			pdfstruct.NormalizePattern(page.HeaderText) == analysis.CommonHeader {
			res.HeadersDetected++
		}
		if analysis.CommonFooter != "" &&
			pdfstruct.NormalizePattern(page.FooterText) == analysis.CommonFooter {
			res.FootersDetected++
		}
	}
}

// headerInFlow reports whether a page's header text belongs in the
// output flow under the given mode. The remove and convert modes drop
// the header only when boilerplate was actually detected; page-unique
// header text stays with the body.
func headerInFlow(analysis *pdfstruct.DocumentAnalysis, page *pdfstruct.PageAnalysis, mode HeaderFooterMode) bool {
	if page.HeaderText == "" {
		return false
	}
	if mode == HeaderFooterKeep {
		return true
	}
	return analysis.CommonHeader == ""
}

func footerInFlow(analysis *pdfstruct.DocumentAnalysis, page *pdfstruct.PageAnalysis, mode HeaderFooterMode) bool {
	if page.FooterText == "" {
		return false
	}
	if mode == HeaderFooterKeep {
		return true
	}
	return analysis.CommonFooter == ""
}
