// Package reporting exports a SuiteReport to machine-readable formats.
package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/amitnovick/compilation-ex4-testers/internal/models"
)

// JUnit XML schema types.

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one test category.
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Timestamp string          `xml:"timestamp,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one non-passing case. Passed cases are represented by
// the suite-level counts; the harness records per-case detail only for
// failures.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
}

// JUnitFailure represents an output mismatch.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitError represents a timeout or a process-level failure.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// ConvertToJUnit converts a SuiteReport to JUnit XML structure: one testsuite
// per category, in report order.
func ConvertToJUnit(report *models.SuiteReport) *JUnitTestSuites {
	timestamp := report.Timestamp.Format(time.RFC3339)

	failuresByCategory := make(map[string][]models.CaseOutcome)
	for _, f := range report.Failures {
		failuresByCategory[f.Category] = append(failuresByCategory[f.Category], f)
	}

	suites := &JUnitTestSuites{
		Tests:    report.Total,
		Failures: report.Failed,
		Errors:   report.Timeouts + report.Errors,
		Time:     float64(report.DurationMs) / 1000.0,
	}

	for _, tally := range report.Tallies {
		suite := JUnitTestSuite{
			Name:      tally.Category,
			Tests:     tally.Total,
			Timestamp: timestamp,
		}

		for _, outcome := range failuresByCategory[tally.Category] {
			tc := JUnitTestCase{
				Name:      outcome.CaseName,
				Classname: outcome.Category,
				Time:      float64(outcome.DurationMs) / 1000.0,
			}
			switch outcome.Status {
			case models.StatusFailed:
				suite.Failures++
				tc.Failure = &JUnitFailure{
					Message: "output mismatch",
					Type:    string(outcome.Status),
					Body:    outcome.Diff,
				}
			case models.StatusTimeout, models.StatusErrored:
				suite.Errors++
				tc.Error = &JUnitError{
					Message: outcome.Cause,
					Type:    string(outcome.Status),
				}
			}
			suite.TestCases = append(suite.TestCases, tc)
		}

		suites.TestSuites = append(suites.TestSuites, suite)
	}

	return suites
}

// WriteJUnit serializes the report as JUnit XML to the given path.
func WriteJUnit(report *models.SuiteReport, path string) error {
	suites := ConvertToJUnit(report)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit report: %w", err)
	}

	content := append([]byte(xml.Header), data...)
	content = append(content, '\n')

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("writing JUnit report: %w", err)
	}
	return nil
}
