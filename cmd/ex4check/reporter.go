package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"github.com/amitnovick/compilation-ex4-testers/internal/models"
	"github.com/amitnovick/compilation-ex4-testers/internal/suite"
)

// ANSI color codes, used only when stdout is a terminal.
const (
	colorGreen  = "\033[92m"
	colorRed    = "\033[91m"
	colorYellow = "\033[93m"
	colorBold   = "\033[1m"
	colorEnd    = "\033[0m"
)

// caseNameWidth aligns per-case status columns in progress output.
const caseNameWidth = 32

// consoleReporter renders progress events and the final summary.
type consoleReporter struct {
	w       io.Writer
	verbose bool
	color   bool
}

func newConsoleReporter(w io.Writer, verbose bool) *consoleReporter {
	color := false
	if f, ok := w.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &consoleReporter{w: w, verbose: verbose, color: color}
}

func (r *consoleReporter) paint(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + colorEnd
}

// Listen is the progress listener wired into the suite runner.
func (r *consoleReporter) Listen(event suite.ProgressEvent) {
	switch event.EventType {
	case suite.EventSuiteStart:
		fmt.Fprintf(r.w, "Running %d test case(s)...\n", event.TotalCases)
	case suite.EventCategoryStart:
		fmt.Fprintf(r.w, "\n%s\n", r.paint(colorBold, "Category: "+event.Category))
	case suite.EventCaseComplete:
		r.printCase(event)
	case suite.EventCategoryDone:
		if t := event.Tally; t != nil {
			line := fmt.Sprintf("  %s: %d/%d passed", t.Category, t.Passed, t.Total)
			if t.Passed == t.Total {
				line = r.paint(colorGreen, line)
			} else {
				line = r.paint(colorRed, line)
			}
			fmt.Fprintln(r.w, line)
		}
	}
}

func (r *consoleReporter) printCase(event suite.ProgressEvent) {
	name := runewidth.FillRight(event.CaseName, caseNameWidth)

	switch event.Status {
	case models.StatusPassed:
		fmt.Fprintf(r.w, "  %s %s %s (%dms)\n",
			r.paint(colorGreen, "✓"), name, r.paint(colorGreen, "PASS"), event.DurationMs)
	case models.StatusFailed:
		fmt.Fprintf(r.w, "  %s %s %s\n",
			r.paint(colorRed, "✗"), name, r.paint(colorRed, "FAIL"))
	case models.StatusTimeout:
		fmt.Fprintf(r.w, "  %s %s %s\n",
			r.paint(colorYellow, "✗"), name, r.paint(colorYellow, "TIMEOUT"))
	case models.StatusErrored:
		fmt.Fprintf(r.w, "  %s %s %s: %s\n",
			r.paint(colorRed, "✗"), name, r.paint(colorRed, "ERROR"), event.Cause)
	}
}

// PrintSummary renders the per-category tally table, the overall counts, and
// (in verbose mode) expected-vs-actual diffs for every failure.
func (r *consoleReporter) PrintSummary(report *models.SuiteReport) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, strings.Repeat("=", 52))
	fmt.Fprintln(r.w, r.paint(colorBold, " SUITE RESULTS"))
	fmt.Fprintln(r.w, strings.Repeat("=", 52))
	fmt.Fprintln(r.w)

	table := tablewriter.NewWriter(r.w)
	table.SetHeader([]string{"Category", "Passed", "Total", "Status"})
	for _, tally := range report.Tallies {
		status := "OK"
		if tally.Passed != tally.Total {
			status = "FAIL"
		}
		table.Append([]string{
			tally.Category,
			fmt.Sprintf("%d", tally.Passed),
			fmt.Sprintf("%d", tally.Total),
			status,
		})
	}
	table.Render()

	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "Total:    %d\n", report.Total)
	fmt.Fprintln(r.w, r.paint(colorGreen, fmt.Sprintf("Passed:   %d", report.Passed)))
	if report.Failed > 0 {
		fmt.Fprintln(r.w, r.paint(colorRed, fmt.Sprintf("Failed:   %d", report.Failed)))
	}
	if report.Timeouts > 0 {
		fmt.Fprintln(r.w, r.paint(colorYellow, fmt.Sprintf("Timeouts: %d", report.Timeouts)))
	}
	if report.Errors > 0 {
		fmt.Fprintln(r.w, r.paint(colorRed, fmt.Sprintf("Errors:   %d", report.Errors)))
	}

	if report.AllPassed() {
		fmt.Fprintln(r.w, r.paint(colorGreen, "\n✓ ALL TESTS PASSED"))
	} else if r.verbose && len(report.Failures) > 0 {
		r.printFailureDetails(report.Failures)
	} else if len(report.Failures) > 0 {
		fmt.Fprintln(r.w, "\nRe-run with --verbose to see expected-vs-actual diffs.")
	}
}

func (r *consoleReporter) printFailureDetails(failures []models.CaseOutcome) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, strings.Repeat("-", 52))
	fmt.Fprintln(r.w, r.paint(colorBold, " FAILURE DETAILS"))
	fmt.Fprintln(r.w, strings.Repeat("-", 52))

	for _, f := range failures {
		fmt.Fprintf(r.w, "\n%s [%s]\n", r.paint(colorBold, f.Category+"/"+f.CaseName), f.Status)
		switch f.Status {
		case models.StatusFailed:
			fmt.Fprintf(r.w, "  expected: %q\n", f.Expected)
			fmt.Fprintf(r.w, "  actual:   %q\n", f.Actual)
			if f.Diff != "" {
				fmt.Fprintln(r.w, indent(f.Diff, "  "))
			}
		default:
			fmt.Fprintf(r.w, "  cause: %s\n", f.Cause)
		}
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
