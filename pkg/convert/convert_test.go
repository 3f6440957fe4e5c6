package convert

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectTarget(t *testing.T) {
	// WHAT: Each input extension maps to its valid targets, defaulting to
	// the first; invalid combinations fail.
	// WHY: The registry is the single supported-conversion contract.
	cases := []struct {
		input     string
		requested Format
		want      Format
		wantErr   bool
	}{
		{"doc.pdf", "", FormatDOCX, false},
		{"doc.pdf", FormatTXT, FormatTXT, false},
		{"doc.pdf", FormatMD, FormatMD, false},
		{"doc.pdf", FormatPDF, "", true},
		{"doc.docx", "", FormatPDF, false},
		{"notes.txt", "", FormatPDF, false},
		{"notes.md", FormatPDF, FormatPDF, false},
		{"notes.md", FormatDOCX, "", true},
		{"image.jpg", "", "", true},
		{"DOC.PDF", "", FormatDOCX, false}, // extension match is case-insensitive
	}
	for _, c := range cases {
		got, err := DetectTarget(c.input, c.requested)
		if (err != nil) != c.wantErr {
			t.Errorf("DetectTarget(%q, %q) err = %v, wantErr %v", c.input, c.requested, err, c.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("DetectTarget(%q, %q) error %v not ErrUnsupportedFormat", c.input, c.requested, err)
			}
			continue
		}
		if got != c.want {
			t.Errorf("DetectTarget(%q, %q) = %q, want %q", c.input, c.requested, got, c.want)
		}
	}
}

func TestBuildOutputPath(t *testing.T) {
	// WHAT: Empty output goes next to the input, a directory keeps the
	// input's base name, a file path gets the target extension enforced.
	// WHY: Original path resolution rules users rely on.
	dir := t.TempDir()
	input := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(input, []byte("%PDF-"), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "out")
	if err := os.Mkdir(outDir, 0o755); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name   string
		output string
		want   string
	}{
		{"empty output", "", filepath.Join(dir, "report.docx")},
		{"directory output", outDir, filepath.Join(outDir, "report.docx")},
		{"file output", filepath.Join(dir, "renamed.docx"), filepath.Join(dir, "renamed.docx")},
		{"wrong extension", filepath.Join(dir, "renamed.txt"), filepath.Join(dir, "renamed.docx")},
	}
	for _, c := range cases {
		got, err := BuildOutputPath(input, c.output, FormatDOCX)
		if err != nil {
			t.Errorf("%s: BuildOutputPath: %v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: BuildOutputPath = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestBuildOutputPath_MissingInput(t *testing.T) {
	// WHAT: A nonexistent input fails before any conversion starts.
	// WHY: Fail-fast beats a confusing downstream open error.
	if _, err := BuildOutputPath(filepath.Join(t.TempDir(), "ghost.pdf"), "", FormatDOCX); err == nil {
		t.Error("missing input accepted")
	}
}

func TestResult_WarningsAndErrors(t *testing.T) {
	// WHAT: Warnings accumulate without failing; errors accumulate and
	// Success stays false until set.
	// WHY: Partial-failure reporting is part of the conversion contract.
	res := NewResult("/tmp/out.docx")
	res.AddWarning("image 3 skipped")
	res.AddWarning("page 7 blank after OCR")
	res.AddError("fatal")

	if res.Success {
		t.Error("fresh result marked successful")
	}
	if len(res.Warnings) != 2 || len(res.Errors) != 1 {
		t.Errorf("warnings/errors = %d/%d, want 2/1", len(res.Warnings), len(res.Errors))
	}
}

// recordingHandler captures slog records for log assertions.
type recordingHandler struct {
	messages *[]string
}

func (h recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h recordingHandler) Handle(_ context.Context, r slog.Record) error {
	msg := r.Message
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "detail" {
			msg += ": " + a.Value.String()
		}
		return true
	})
	*h.messages = append(*h.messages, msg)
	return nil
}

func (h recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h recordingHandler) WithGroup(string) slog.Handler      { return h }

// warningConverter succeeds while recording one warning.
type warningConverter struct{}

func (warningConverter) Convert(_ context.Context, _, _ string, _ Options, res *Result) error {
	res.AddWarning("image 2 skipped")
	return nil
}

func TestConvert_VerboseSurfacesWarnings(t *testing.T) {
	// WHAT: With Verbose set, accumulated warnings are emitted through
	// the logger after the conversion; without it they stay silent.
	// WHY: Warnings must reach the operator without parsing Result by
	// hand, but only on request.
	const target = Format("test")
	converters[target] = warningConverter{}
	defer delete(converters, target)

	input := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(input, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(t.TempDir(), "out.test")

	var messages []string
	prev := slog.Default()
	slog.SetDefault(slog.New(recordingHandler{messages: &messages}))
	defer slog.SetDefault(prev)

	opts := DefaultOptions()
	opts.Verbose = true
	res, err := Convert(context.Background(), input, output, target, opts)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("warnings = %v, want one", res.Warnings)
	}

	found := false
	for _, msg := range messages {
		if msg == "conversion warning: image 2 skipped" {
			found = true
		}
	}
	if !found {
		t.Errorf("logged messages = %v, want the warning surfaced", messages)
	}

	messages = nil
	opts.Verbose = false
	if _, err := Convert(context.Background(), input, output, target, opts); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	for _, msg := range messages {
		if msg == "conversion warning: image 2 skipped" {
			t.Errorf("warning surfaced without Verbose: %v", messages)
		}
	}
}
