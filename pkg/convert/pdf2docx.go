package convert

import (
	"context"
	"fmt"
)

// PDFToDocxConverter rebuilds a PDF as an editable Word document. Native
// pages keep their reconstructed paragraph structure and heading levels;
// scanned pages go through OCR first. Detected boilerplate can be
// promoted into real Word headers and footers with live page-number
// fields.
type PDFToDocxConverter struct{}

func (c *PDFToDocxConverter) Convert(ctx context.Context, inputPath, outputPath string, opts Options, res *Result) error {
	doc, err := analyzePDF(ctx, inputPath, opts, res)
	if err != nil {
		return err
	}

	w := newDocxWriter()
	if opts.HeaderMode == HeaderFooterConvert && doc.Analysis.CommonHeader != "" {
		w.SetHeader(doc.Analysis.CommonHeader)
	}
	if opts.FooterMode == HeaderFooterConvert && doc.Analysis.CommonFooter != "" {
		w.SetFooter(doc.Analysis.CommonFooter)
	}

	for i := range doc.Pages {
		page := &doc.Pages[i]
		if i == 0 {
			w.SetOrientation(page.Analysis.Landscape())
		} else if page.Analysis.Landscape() != doc.Pages[i-1].Analysis.Landscape() {
			// The section break implies a page break.
			w.SetOrientation(page.Analysis.Landscape())
		} else {
			w.AddPageBreak()
		}

		if headerInFlow(doc.Analysis, &page.Analysis, opts.HeaderMode) && page.Analysis.HeaderText != "" {
			w.AddParagraph(page.Analysis.HeaderText, "", false, false, false)
		}

		for _, para := range page.Paragraphs {
			if !opts.PreserveFormatting {
				w.AddParagraph(para.Text, "", false, false, false)
				continue
			}
			if !opts.PreserveLayout {
				para.Centered = false
			}
			w.AddStructured(para)
		}

		for _, img := range page.Images {
			w.AddImage(img)
		}

		if footerInFlow(doc.Analysis, &page.Analysis, opts.FooterMode) && page.Analysis.FooterText != "" {
			w.AddParagraph(page.Analysis.FooterText, "", false, false, false)
		}
	}

	if err := w.WriteFile(outputPath); err != nil {
		return fmt.Errorf("failed to write docx: %w", err)
	}
	return nil
}
