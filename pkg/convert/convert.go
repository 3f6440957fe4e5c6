// Package convert turns documents between PDF, DOCX, TXT, and Markdown.
//
// The PDF-reading direction reconstructs an editable document from page
// geometry: spans are classified into header/footer/body bands, repeating
// boilerplate is detected across pages, body text is regrouped into
// paragraphs with heading classification, scanned pages fall back to OCR,
// and the result is emitted as DOCX, plain text, or Markdown. The reverse
// direction lays flowed, styled paragraphs back onto fixed-size PDF pages.
//
// Key Types:
//
// - Converter: one target-format pipeline
// - Options / Result: per-invocation configuration and outcome
//
// Main Functions:
//
// - Convert: dispatches a conversion by target format
// - DetectTarget: picks the target format for an input file
// - BuildOutputPath: resolves the output file location
package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a conversion target.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
	FormatTXT  Format = "txt"
	FormatMD   Format = "md"
)

var (
	// ErrUnsupportedFormat marks an input/target combination the
	// registry cannot serve.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrInvalidPageRange marks an incoherent page range option.
	ErrInvalidPageRange = errors.New("invalid page range")
)

// Converter converts an input document to one target format.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputPath string, opts Options, res *Result) error
}

// converters is the static dispatch table keyed by target format.
var converters = map[Format]Converter{
	FormatDOCX: &PDFToDocxConverter{},
	FormatTXT:  &PDFToTextConverter{},
	FormatMD:   &PDFToMarkdownConverter{},
	FormatPDF:  &ToPDFConverter{},
}

// supportedTargets maps an input extension to its valid target formats;
// the first entry is the default when no target is requested.
var supportedTargets = map[string][]Format{
	".pdf":  {FormatDOCX, FormatTXT, FormatMD},
	".docx": {FormatPDF},
	".txt":  {FormatPDF},
	".md":   {FormatPDF},
}

// DetectTarget picks the target format for inputPath. With requested
// empty, the input extension's default target applies.
func DetectTarget(inputPath string, requested Format) (Format, error) {
	ext := strings.ToLower(filepath.Ext(inputPath))
	targets, ok := supportedTargets[ext]
	if !ok {
		return "", fmt.Errorf("%w: input %q", ErrUnsupportedFormat, ext)
	}
	if requested == "" {
		return targets[0], nil
	}
	for _, t := range targets {
		if t == requested {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: cannot convert %s to %s", ErrUnsupportedFormat, ext, requested)
}

// BuildOutputPath resolves where the converted file goes: an explicit
// file path keeps its directory but gets the target extension, a
// directory gets the input's base name inside it, and an empty output
// places the file next to the input.
func BuildOutputPath(inputPath, output string, target Format) (string, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return "", fmt.Errorf("input file not found: %w", err)
	}
	ext := "." + string(target)

	if output == "" {
		return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ext, nil
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		base := filepath.Base(inputPath)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		return filepath.Join(output, base+ext), nil
	}
	if !strings.EqualFold(filepath.Ext(output), ext) {
		output = strings.TrimSuffix(output, filepath.Ext(output)) + ext
	}
	return output, nil
}

// Convert runs the conversion of inputPath to target at outputPath.
// Input validation happens before any document resource is opened. The
// returned Result is populated even on failure, with Success left false
// and the fatal error recorded.
func Convert(ctx context.Context, inputPath, outputPath string, target Format, opts Options) (*Result, error) {
	res := NewResult(outputPath)

	if err := opts.Validate(); err != nil {
		res.AddError(err.Error())
		return res, err
	}
	if _, err := os.Stat(inputPath); err != nil {
		err = fmt.Errorf("input file not found: %w", err)
		res.AddError(err.Error())
		return res, err
	}

	conv, ok := converters[target]
	if !ok {
		err := fmt.Errorf("%w: target %q", ErrUnsupportedFormat, target)
		res.AddError(err.Error())
		return res, err
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			err = fmt.Errorf("failed to create output directory: %w", err)
			res.AddError(err.Error())
			return res, err
		}
	}

	slog.Debug("starting conversion",
		"input", inputPath, "output", outputPath, "target", target)

	if err := conv.Convert(ctx, inputPath, outputPath, opts, res); err != nil {
		res.AddError(err.Error())
		if opts.Verbose {
			logWarnings(res)
		}
		return res, err
	}

	res.Success = true
	if opts.Verbose {
		logWarnings(res)
	}
	return res, nil
}

// logWarnings surfaces accumulated non-fatal issues through the logger.
func logWarnings(res *Result) {
	for _, w := range res.Warnings {
		slog.Warn("conversion warning", "detail", w)
	}
}
