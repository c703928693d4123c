package reporting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/amitnovick/compilation-ex4-testers/internal/models"
)

func sampleReport() *models.SuiteReport {
	return &models.SuiteReport{
		Timestamp: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
		Total:     5,
		Passed:    3,
		Failed:    1,
		Timeouts:  1,
		Tallies: []models.CategoryTally{
			{Category: "global", Passed: 2, Total: 2},
			{Category: "while", Passed: 1, Total: 3},
		},
		Failures: []models.CaseOutcome{
			{
				Category: "while",
				CaseName: "While02",
				Status:   models.StatusFailed,
				Diff:     "line 1:\n  - expected: \"j\"\n  + actual:   \"i\"",
			},
			{
				Category:   "while",
				CaseName:   "While03",
				Status:     models.StatusTimeout,
				Cause:      "analyzer timed out after 10s",
				DurationMs: 10000,
			},
		},
		DurationMs: 12500,
	}
}

func TestConvertToJUnit(t *testing.T) {
	suites := ConvertToJUnit(sampleReport())

	require.Equal(t, 5, suites.Tests)
	require.Equal(t, 1, suites.Failures)
	require.Equal(t, 1, suites.Errors)
	require.InDelta(t, 12.5, suites.Time, 0.001)
	require.Len(t, suites.TestSuites, 2)

	global := suites.TestSuites[0]
	require.Equal(t, "global", global.Name)
	require.Equal(t, 2, global.Tests)
	require.Zero(t, global.Failures)
	require.Empty(t, global.TestCases)

	while := suites.TestSuites[1]
	require.Equal(t, "while", while.Name)
	require.Equal(t, 3, while.Tests)
	require.Equal(t, 1, while.Failures)
	require.Equal(t, 1, while.Errors)
	require.Len(t, while.TestCases, 2)

	mismatch := while.TestCases[0]
	require.Equal(t, "While02", mismatch.Name)
	require.Equal(t, "while", mismatch.Classname)
	require.NotNil(t, mismatch.Failure)
	require.Equal(t, "output mismatch", mismatch.Failure.Message)
	require.Contains(t, mismatch.Failure.Body, "expected")
	require.Nil(t, mismatch.Error)

	timeout := while.TestCases[1]
	require.Equal(t, "While03", timeout.Name)
	require.NotNil(t, timeout.Error)
	require.Equal(t, "analyzer timed out after 10s", timeout.Error.Message)
	require.InDelta(t, 10.0, timeout.Time, 0.001)
}

func TestConvertToJUnit_PreservesCategoryOrder(t *testing.T) {
	suites := ConvertToJUnit(sampleReport())

	var names []string
	for _, s := range suites.TestSuites {
		names = append(names, s.Name)
	}
	require.Equal(t, []string{"global", "while"}, names)
}

func TestWriteJUnit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xml")
	require.NoError(t, WriteJUnit(sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	require.Contains(t, content, `<?xml version="1.0" encoding="UTF-8"?>`)
	require.Contains(t, content, `<testsuites tests="5"`)
	require.Contains(t, content, `<testsuite name="global"`)
	require.Contains(t, content, `<failure message="output mismatch"`)
	require.Contains(t, content, `<error message="analyzer timed out after 10s"`)
}
