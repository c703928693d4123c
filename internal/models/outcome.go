package models

import "time"

// Status classifies the result of evaluating one test case.
type Status string

const (
	StatusPassed Status = "passed"
	// StatusFailed means the analyzer ran to completion but produced output
	// that does not match the expected fixture.
	StatusFailed Status = "failed"
	// StatusTimeout means the analyzer exceeded the per-case time bound and
	// was killed. Partial output of a timed-out case is never compared.
	StatusTimeout Status = "timeout"
	// StatusErrored means the analyzer could not be run to completion for a
	// reason other than the timeout (launch failure, non-zero exit, missing
	// report file).
	StatusErrored Status = "errored"
)

// TestCase is one (input, expected output) fixture pair, immutable once
// discovered. CaseName is the input file stem; the expected payload comes from
// the identically-stemmed file in the category's expected_output directory.
type TestCase struct {
	Category  string `json:"category"`
	CaseName  string `json:"case_name"`
	InputPath string `json:"input_path"`
	Expected  string `json:"expected"`
}

// ID returns the fully qualified case identifier, e.g. "if/if_body_init".
func (tc *TestCase) ID() string {
	return tc.Category + "/" + tc.CaseName
}

// ExecutionResult holds what the Case Runner captured for a single analyzer
// invocation. It lives only until the comparison step.
type ExecutionResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Report is the content of the output file the analyzer was asked to
	// write. This, not stdout, is what gets compared.
	Report   string
	Duration time.Duration
}

// CaseOutcome is the comparison result for one test case.
type CaseOutcome struct {
	Category   string `json:"category"`
	CaseName   string `json:"case_name"`
	Status     Status `json:"status"`
	Expected   string `json:"expected,omitempty"`
	Actual     string `json:"actual,omitempty"`
	Diff       string `json:"diff,omitempty"`
	Cause      string `json:"cause,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Passed reports whether the case matched its expected output.
func (o *CaseOutcome) Passed() bool {
	return o.Status == StatusPassed
}

// CategoryTally is the pass/total count for one category.
type CategoryTally struct {
	Category string `json:"category"`
	Passed   int    `json:"passed"`
	Total    int    `json:"total"`
}

// SuiteReport is the immutable end state of one suite run: overall counts,
// per-category tallies in discovery order, and every non-passing outcome with
// enough detail to render a diff without re-running.
type SuiteReport struct {
	Timestamp  time.Time       `json:"timestamp"`
	Total      int             `json:"total"`
	Passed     int             `json:"passed"`
	Failed     int             `json:"failed"`
	Timeouts   int             `json:"timeouts"`
	Errors     int             `json:"errors"`
	Tallies    []CategoryTally `json:"tallies"`
	Failures   []CaseOutcome   `json:"failures,omitempty"`
	DurationMs int64           `json:"duration_ms"`
}

// AllPassed reports whether every executed case passed.
func (r *SuiteReport) AllPassed() bool {
	return r.Total > 0 && r.Passed == r.Total
}

// Tally returns the tally for a category, or nil if the category was not run.
func (r *SuiteReport) Tally(category string) *CategoryTally {
	for i := range r.Tallies {
		if r.Tallies[i].Category == category {
			return &r.Tallies[i]
		}
	}
	return nil
}

// BuildArtifact is the validated analyzer executable produced by the Builder.
// It is read-only once built and shared by every Case Runner invocation.
type BuildArtifact struct {
	// Path is the absolute path to the executable.
	Path string
	// Launcher is the argv prefix used to invoke the executable, e.g.
	// ["java", "-jar"] for a jar artifact. Empty means direct invocation.
	Launcher []string
}
