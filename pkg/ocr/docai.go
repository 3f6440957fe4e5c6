package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"github.com/sthevan027/Converso/pkg/pdfgeom"
)

// DocAIConfig identifies the Document AI processor to use.
type DocAIConfig struct {
	ProjectID   string `yaml:"project_id"`
	Location    string `yaml:"location"`
	ProcessorID string `yaml:"processor_id"`
}

// DocAIEngine recognizes text with Google Document AI. Authentication
// uses the GOOGLE_APPLICATION_CREDENTIALS environment variable.
type DocAIEngine struct {
	Config DocAIConfig
}

// NewDocAIEngine creates a Document AI backed engine.
func NewDocAIEngine(cfg DocAIConfig) *DocAIEngine {
	return &DocAIEngine{Config: cfg}
}

// Recognize sends the page image to Document AI and converts the
// response's lines into pixel-space Lines.
func (e *DocAIEngine) Recognize(ctx context.Context, pngData []byte) ([]Line, error) {
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", e.Config.Location)

	client, err := documentai.NewDocumentProcessorClient(
		ctx,
		option.WithEndpoint(endpoint),
		option.WithCredentialsFile(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	defer client.Close()

	name := fmt.Sprintf(
		"projects/%s/locations/%s/processors/%s",
		e.Config.ProjectID, e.Config.Location, e.Config.ProcessorID,
	)

	req := &documentaipb.ProcessRequest{
		Name: name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pngData,
				MimeType: "image/png",
			},
		},
		SkipHumanReview: true,
	}

	resp, err := client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}

	doc := resp.Document
	var lines []Line
	for _, page := range doc.Pages {
		for _, line := range page.Lines {
			text := strings.TrimSpace(textFromLayout(line.Layout, doc.Text))
			if text == "" {
				continue
			}
			bbox, ok := boxFromLayout(line.Layout, page.Dimension)
			if !ok {
				continue
			}
			confidence := 0.0
			if line.Layout != nil {
				confidence = float64(line.Layout.Confidence * 100)
			}
			lines = append(lines, Line{Text: text, BBox: bbox, Confidence: confidence})
		}
	}
	return lines, nil
}

// textFromLayout extracts text from a layout's text anchor segments.
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	runes := []rune(fullText)
	total := len(runes)
	var sb strings.Builder

	for _, seg := range layout.TextAnchor.TextSegments {
		start := int(seg.StartIndex)
		end := int(seg.EndIndex)
		if start < 0 {
			start = 0
		}
		if end > total {
			end = total
		}
		if start > end {
			start = end
		}
		sb.WriteString(string(runes[start:end]))
	}
	return sb.String()
}

// boxFromLayout converts normalized bounding-poly vertices into a
// pixel-space box using the page raster dimensions.
func boxFromLayout(layout *documentaipb.Document_Page_Layout, dim *documentaipb.Document_Page_Dimension) (pdfgeom.BBox, bool) {
	if layout == nil || layout.BoundingPoly == nil || dim == nil ||
		len(layout.BoundingPoly.NormalizedVertices) < 4 {
		return pdfgeom.BBox{}, false
	}
	v := layout.BoundingPoly.NormalizedVertices
	return pdfgeom.NewBBox(
		float64(v[0].X)*float64(dim.Width),
		float64(v[0].Y)*float64(dim.Height),
		float64(v[2].X)*float64(dim.Width),
		float64(v[2].Y)*float64(dim.Height),
	), true
}
