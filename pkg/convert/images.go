package convert

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding for embedded images
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/image/draw"
)

// ImageProbe inspects a PDF's embedded raster images through the
// cross-reference table, without rasterizing any page.
type ImageProbe struct {
	ctx *model.Context
}

// OpenImageProbe reads the PDF at path for image inspection.
func OpenImageProbe(path string) (*ImageProbe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF for image probe: %w", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF structure: %w", err)
	}
	return &ImageProbe{ctx: ctx}, nil
}

// HasImages reports whether page i (0-based) embeds raster image objects.
func (p *ImageProbe) HasImages(i int) bool {
	return len(pdfcpu.ImageObjNrs(p.ctx, i+1)) > 0
}

// ExtractPageImages returns the raw data of every image embedded in
// page i (0-based).
func (p *ImageProbe) ExtractPageImages(i int) ([][]byte, error) {
	images, err := pdfcpu.ExtractPageImages(p.ctx, i+1, false)
	if err != nil {
		return nil, fmt.Errorf("failed to extract images from page %d: %w", i+1, err)
	}

	var out [][]byte
	for _, img := range images {
		data, err := io.ReadAll(img)
		if err != nil {
			return nil, fmt.Errorf("failed to read image data on page %d: %w", i+1, err)
		}
		out = append(out, data)
	}
	return out, nil
}

// prepareImage decodes embedded image data, downscales it to maxWidth
// when wider, and re-encodes it as JPEG at the given quality. The
// returned dimensions are the final pixel size.
func prepareImage(data []byte, maxWidth, quality int) ([]byte, int, int, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if maxWidth > 0 && width > maxWidth {
		scaled := image.NewRGBA(image.Rect(0, 0, maxWidth, height*maxWidth/width))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)
		src = scaled
		width = scaled.Bounds().Dx()
		height = scaled.Bounds().Dy()
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: quality}); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), width, height, nil
}
