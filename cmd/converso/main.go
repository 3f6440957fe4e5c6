// converso is a command-line document converter.
//
// It converts PDFs into editable formats (DOCX, TXT, Markdown) by
// reconstructing the document structure from page geometry, and builds
// PDFs from DOCX, TXT, or Markdown sources. Scanned PDF pages are run
// through OCR.
//
// Usage:
//
//	converso input.pdf [options]
//
// Conversion options:
//
//	-to string            Target format: docx, txt, md, pdf (default by input type)
//	-output string        Output file or directory (default next to the input)
//	-start-page int       First page to convert, 1-based (default 1)
//	-end-page int         Last page to convert, 0 means through the end
//	-overwrite            Overwrite the output file if it exists
//
// Header/footer options:
//
//	-header-mode string   keep, remove, or convert (default convert)
//	-footer-mode string   keep, remove, or convert (default convert)
//	-header-margin float  Header band as a fraction of page height (default 0.1)
//	-footer-margin float  Footer band as a fraction of page height (default 0.1)
//
// Content options:
//
//	-quality string       OCR transcription quality: fast, balanced, high
//	-no-formatting        Drop heading/bold/italic styling
//	-no-layout            Drop alignment hints
//	-no-merge-paragraphs  Keep original line wrapping
//	-keep-hyphenation     Keep end-of-line hyphen breaks
//	-no-images            Skip embedded image extraction
//	-image-quality int    JPEG quality for extracted images (default 95)
//	-max-image-width int  Resize extracted images down to this width (default 800)
//
// Other:
//
//	-config string        YAML config file with OCR engine settings
//	-verbose              Debug logging plus warning details
//
// Examples:
//
// Convert a PDF to an editable Word document:
//
//	converso report.pdf -to docx -output ./out/
//
// Build a PDF from Markdown:
//
//	converso notes.md -to pdf
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sthevan027/Converso/pkg/convert"
	"github.com/sthevan027/Converso/pkg/ocr"
)

// fileConfig is the optional YAML config carrying OCR engine settings.
type fileConfig struct {
	OCR struct {
		Engine    string          `yaml:"engine"` // "tesseract" (default) or "docai"
		Languages []string        `yaml:"languages"`
		DocAI     ocr.DocAIConfig `yaml:"docai"`
	} `yaml:"ocr"`
}

func main() {
	to := flag.String("to", "", "Target format: docx, txt, md, pdf")
	output := flag.String("output", "", "Output file or directory")
	startPage := flag.Int("start-page", 1, "First page to convert (1-based)")
	endPage := flag.Int("end-page", 0, "Last page to convert, 0 means through the end")
	headerMode := flag.String("header-mode", "convert", "Header handling: keep, remove, convert")
	footerMode := flag.String("footer-mode", "convert", "Footer handling: keep, remove, convert")
	headerMargin := flag.Float64("header-margin", 0.1, "Header band as a fraction of page height")
	footerMargin := flag.Float64("footer-margin", 0.1, "Footer band as a fraction of page height")
	quality := flag.String("quality", "balanced", "OCR transcription quality: fast, balanced, high")
	noFormatting := flag.Bool("no-formatting", false, "Drop heading/bold/italic styling")
	noLayout := flag.Bool("no-layout", false, "Drop alignment hints")
	noMerge := flag.Bool("no-merge-paragraphs", false, "Keep original line wrapping")
	keepHyphenation := flag.Bool("keep-hyphenation", false, "Keep end-of-line hyphen breaks")
	noImages := flag.Bool("no-images", false, "Skip embedded image extraction")
	imageQuality := flag.Int("image-quality", 95, "JPEG quality for extracted images")
	maxImageWidth := flag.Int("max-image-width", 800, "Resize extracted images down to this width")
	configPath := flag.String("config", "", "YAML config file with OCR engine settings")
	verbose := flag.Bool("verbose", false, "Debug logging plus warning details")
	overwrite := flag.Bool("overwrite", false, "Overwrite the output file if it already exists")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Error: Must provide exactly one input file")
		flag.Usage()
		os.Exit(1)
	}
	inputPath := flag.Arg(0)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	engine, err := buildEngine(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	opts := convert.DefaultOptions()
	opts.StartPage = *startPage
	opts.EndPage = *endPage
	opts.HeaderMode = convert.HeaderFooterMode(*headerMode)
	opts.FooterMode = convert.HeaderFooterMode(*footerMode)
	opts.HeaderMarginRatio = *headerMargin
	opts.FooterMarginRatio = *footerMargin
	opts.TranscriptionQuality = convert.Quality(*quality)
	opts.PreserveFormatting = !*noFormatting
	opts.PreserveLayout = !*noLayout
	opts.MergeParagraphs = !*noMerge
	opts.RemoveHyphenation = !*keepHyphenation
	opts.ExtractImages = !*noImages
	opts.ImageQuality = *imageQuality
	opts.MaxImageWidth = *maxImageWidth
	opts.Verbose = *verbose
	opts.OCREngine = engine

	target, err := convert.DetectTarget(inputPath, convert.Format(*to))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	outputPath, err := convert.BuildOutputPath(inputPath, *output, target)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if _, err := os.Stat(outputPath); err == nil {
		if !*overwrite {
			fmt.Printf("Output file %s already exists. Use -overwrite to overwrite.\n", outputPath)
			os.Exit(1)
		}
		os.Remove(outputPath)
	}

	res, err := convert.Convert(context.Background(), inputPath, outputPath, target, opts)
	if err != nil {
		fmt.Printf("Conversion failed: %v\n", err)
		for _, w := range res.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
		os.Exit(1)
	}

	fmt.Printf("Converted %s -> %s\n", inputPath, res.OutputPath)
	if *verbose {
		fmt.Printf("  pages: %d, headers: %d, footers: %d, images: %d\n",
			res.PagesConverted, res.HeadersDetected, res.FootersDetected, res.ImagesExtracted)
		for _, w := range res.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
	}
}

// buildEngine picks the OCR engine from the config file. Without a
// config the local Tesseract engine with its default language applies.
func buildEngine(configPath string) (ocr.Engine, error) {
	if configPath == "" {
		return ocr.NewGosseractEngine(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	switch cfg.OCR.Engine {
	case "", "tesseract":
		return ocr.NewGosseractEngine(cfg.OCR.Languages...), nil
	case "docai":
		return ocr.NewDocAIEngine(cfg.OCR.DocAI), nil
	default:
		return nil, fmt.Errorf("unknown ocr engine %q", cfg.OCR.Engine)
	}
}
