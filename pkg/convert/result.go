package convert

// Result accumulates the outcome of one conversion. It is threaded
// explicitly through the pipeline stages and must not be read until the
// conversion returns.
type Result struct {
	Success    bool
	OutputPath string

	PagesConverted  int
	HeadersDetected int
	FootersDetected int
	ImagesExtracted int

	Warnings []string // non-fatal issues; the output was still produced
	Errors   []string // fatal issues; the conversion was aborted
}

// NewResult creates a Result targeting the given output path.
func NewResult(outputPath string) *Result {
	return &Result{OutputPath: outputPath}
}

// AddWarning records a non-fatal issue.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// AddError records a fatal issue.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}
