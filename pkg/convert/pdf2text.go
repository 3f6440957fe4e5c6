package convert

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sthevan027/Converso/pkg/pdfstruct"
)

// pageSeparator divides pages in the flat text outputs.
const pageSeparator = "\n\n---\n\n"

// PDFToTextConverter writes the reconstructed document as plain UTF-8
// text, one horizontal rule between pages. Header/footer handling
// follows the configured modes; "convert" behaves like "remove" here
// since plain text has no running header to promote into.
type PDFToTextConverter struct{}

func (c *PDFToTextConverter) Convert(ctx context.Context, inputPath, outputPath string, opts Options, res *Result) error {
	doc, err := analyzePDF(ctx, inputPath, opts, res)
	if err != nil {
		return err
	}

	pages := make([]string, 0, len(doc.Pages))
	for i := range doc.Pages {
		page := &doc.Pages[i]
		var parts []string
		if headerInFlow(doc.Analysis, &page.Analysis, opts.HeaderMode) && page.Analysis.HeaderText != "" {
			parts = append(parts, page.Analysis.HeaderText)
		}
		for _, para := range page.Paragraphs {
			if para.Text != "" {
				parts = append(parts, para.Text)
			}
		}
		if footerInFlow(doc.Analysis, &page.Analysis, opts.FooterMode) && page.Analysis.FooterText != "" {
			parts = append(parts, page.Analysis.FooterText)
		}
		pages = append(pages, strings.Join(parts, "\n\n"))
	}

	text := strings.Join(pages, pageSeparator)
	if text != "" {
		text += "\n"
	}
	if err := os.WriteFile(outputPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write text output: %w", err)
	}
	return nil
}

// PDFToMarkdownConverter writes the reconstructed document as Markdown:
// detected titles become #/##/### headings and bold/italic runs keep
// their emphasis when formatting preservation is on.
type PDFToMarkdownConverter struct{}

func (c *PDFToMarkdownConverter) Convert(ctx context.Context, inputPath, outputPath string, opts Options, res *Result) error {
	doc, err := analyzePDF(ctx, inputPath, opts, res)
	if err != nil {
		return err
	}

	pages := make([]string, 0, len(doc.Pages))
	for i := range doc.Pages {
		page := &doc.Pages[i]
		var parts []string
		if headerInFlow(doc.Analysis, &page.Analysis, opts.HeaderMode) && page.Analysis.HeaderText != "" {
			parts = append(parts, page.Analysis.HeaderText)
		}
		for _, para := range page.Paragraphs {
			if md := markdownParagraph(para, opts.PreserveFormatting); md != "" {
				parts = append(parts, md)
			}
		}
		if footerInFlow(doc.Analysis, &page.Analysis, opts.FooterMode) && page.Analysis.FooterText != "" {
			parts = append(parts, page.Analysis.FooterText)
		}
		pages = append(pages, strings.Join(parts, "\n\n"))
	}

	text := strings.Join(pages, pageSeparator)
	if text != "" {
		text += "\n"
	}
	if err := os.WriteFile(outputPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown output: %w", err)
	}
	return nil
}

// markdownParagraph renders one paragraph. Heading levels map straight to
// ATX markers; headings collapse to a single line since Markdown headings
// cannot wrap.
func markdownParagraph(para pdfstruct.Paragraph, preserveFormatting bool) string {
	text := para.Text
	if text == "" {
		return ""
	}
	if !preserveFormatting {
		return text
	}
	if para.Level > 0 {
		text = strings.Join(strings.Fields(text), " ")
		return strings.Repeat("#", para.Level) + " " + text
	}
	if para.Bold {
		text = "**" + text + "**"
	} else if para.Italic {
		text = "*" + text + "*"
	}
	return text
}
