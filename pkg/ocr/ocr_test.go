package ocr

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/sthevan027/Converso/pkg/pdfgeom"
)

// fakeEngine returns canned lines regardless of the image.
type fakeEngine struct {
	lines []Line
	err   error
}

func (e *fakeEngine) Recognize(ctx context.Context, pngData []byte) ([]Line, error) {
	return e.lines, e.err
}

// fakeRasterizer serves a fixed raster size and page size.
type fakeRasterizer struct {
	pixW, pixH   int
	pageW, pageH float64
}

func (r *fakeRasterizer) RasterPNG(i int, dpi float64) ([]byte, int, int, error) {
	return []byte("png"), r.pixW, r.pixH, nil
}

func (r *fakeRasterizer) PageSize(i int) (float64, float64, error) {
	return r.pageW, r.pageH, nil
}

func TestRecognizePage_RescalesToPoints(t *testing.T) {
	// WHAT: Pixel boxes from the engine come back in page points.
	// WHY: Downstream structure analysis works in point space only.
	engine := &fakeEngine{lines: []Line{
		{Text: "hello", BBox: pdfgeom.NewBBox(0, 0, 1275, 125), Confidence: 90},
	}}
	// 300 DPI render of a 612×792pt page is 2550×3300 pixels.
	src := &fakeRasterizer{pixW: 2550, pixH: 3300, pageW: 612, pageH: 792}

	res, err := NewAdapter(engine, DefaultHeuristics()).RecognizePage(context.Background(), src, 0)
	if err != nil {
		t.Fatalf("RecognizePage: %v", err)
	}
	if len(res.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(res.Lines))
	}

	box := res.Lines[0].BBox
	if math.Abs(box.X2-306) > 1e-6 || math.Abs(box.Y2-30) > 1e-6 {
		t.Errorf("scaled box = %+v, want X2=306 Y2=30", box)
	}
}

func TestRecognizePage_SortsReadingOrder(t *testing.T) {
	// WHAT: Lines sort top-to-bottom, then left-to-right; FullText joins
	// them with newlines.
	// WHY: Engines return lines in detection order, not reading order.
	engine := &fakeEngine{lines: []Line{
		{Text: "third", BBox: pdfgeom.NewBBox(100, 500, 400, 550)},
		{Text: "first", BBox: pdfgeom.NewBBox(100, 100, 400, 150)},
		{Text: "second", BBox: pdfgeom.NewBBox(100, 300, 400, 350)},
	}}
	src := &fakeRasterizer{pixW: 1000, pixH: 1000, pageW: 1000, pageH: 1000}

	res, err := NewAdapter(engine, DefaultHeuristics()).RecognizePage(context.Background(), src, 0)
	if err != nil {
		t.Fatalf("RecognizePage: %v", err)
	}
	if res.FullText != "first\nsecond\nthird" {
		t.Errorf("full text = %q, want %q", res.FullText, "first\nsecond\nthird")
	}
}

func TestRecognizePage_EmptyPageIsNotError(t *testing.T) {
	// WHAT: Zero recognized lines produce an empty result, no error.
	// WHY: Blank scanned pages are normal; the caller decides on warnings.
	engine := &fakeEngine{}
	src := &fakeRasterizer{pixW: 100, pixH: 100, pageW: 100, pageH: 100}

	res, err := NewAdapter(engine, DefaultHeuristics()).RecognizePage(context.Background(), src, 0)
	if err != nil {
		t.Fatalf("RecognizePage: %v", err)
	}
	if len(res.Lines) != 0 || res.FullText != "" {
		t.Errorf("empty page produced content: %+v", res)
	}
}

func TestRecognizePage_EngineErrorWraps(t *testing.T) {
	// WHAT: An engine failure surfaces with the 1-based page number.
	// WHY: Conversion errors must point at the offending page.
	engine := &fakeEngine{err: errors.New("tesseract exploded")}
	src := &fakeRasterizer{pixW: 100, pixH: 100, pageW: 100, pageH: 100}

	_, err := NewAdapter(engine, DefaultHeuristics()).RecognizePage(context.Background(), src, 2)
	if err == nil {
		t.Fatal("expected error from failing engine")
	}
	if !errors.Is(err, engine.err) {
		t.Errorf("error not wrapped: %v", err)
	}
}

func TestGroupLines_GapThreshold(t *testing.T) {
	// WHAT: A vertical gap above 1.5×average-height starts a new group.
	// WHY: Grouping reconstructs paragraphs from bare OCR lines.
	lines := []Line{
		{Text: "a", BBox: pdfgeom.NewBBox(0, 100, 100, 120)}, // height 20
		{Text: "b", BBox: pdfgeom.NewBBox(0, 130, 100, 150)}, // gap 10, continues
		{Text: "c", BBox: pdfgeom.NewBBox(0, 200, 100, 220)}, // gap 50 > 30, new group
	}
	groups := GroupLines(lines, 1.5)

	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if len(groups[0]) != 2 || len(groups[1]) != 1 {
		t.Errorf("group sizes = %d/%d, want 2/1", len(groups[0]), len(groups[1]))
	}
}

func TestGroupLines_Empty(t *testing.T) {
	// WHAT: No lines yield no groups.
	// WHY: Blank pages flow through grouping unharmed.
	if groups := GroupLines(nil, 1.5); groups != nil {
		t.Errorf("groups = %v, want nil", groups)
	}
}

func TestNormalizeText(t *testing.T) {
	// WHAT: Missing spaces after colons/periods and fused case
	// transitions are repaired; correct text passes through.
	// WHY: These are the dominant OCR spacing artifacts.
	cases := []struct {
		in, want string
	}{
		{"Total:42", "Total: 42"},
		{"End.Next sentence", "End. Next sentence"},
		{"wordBoundary", "word Boundary"},
		{"Already fine: 42. Good", "Already fine: 42. Good"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeText(c.in); got != c.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
