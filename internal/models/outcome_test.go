package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTestCase_ID(t *testing.T) {
	tc := &TestCase{Category: "if", CaseName: "if_body_init"}
	require.Equal(t, "if/if_body_init", tc.ID())
}

func TestSuiteReport_AllPassed(t *testing.T) {
	require.True(t, (&SuiteReport{Total: 3, Passed: 3}).AllPassed())
	require.False(t, (&SuiteReport{Total: 3, Passed: 2}).AllPassed())
	// An empty run is not a passing run.
	require.False(t, (&SuiteReport{}).AllPassed())
}

func TestSuiteReport_Tally(t *testing.T) {
	report := &SuiteReport{
		Tallies: []CategoryTally{
			{Category: "global", Passed: 2, Total: 2},
			{Category: "while", Passed: 1, Total: 3},
		},
	}

	tally := report.Tally("while")
	require.NotNil(t, tally)
	require.Equal(t, 1, tally.Passed)
	require.Equal(t, 3, tally.Total)

	require.Nil(t, report.Tally("shadow"))
}

func TestCaseOutcome_Passed(t *testing.T) {
	require.True(t, (&CaseOutcome{Status: StatusPassed}).Passed())
	for _, status := range []Status{StatusFailed, StatusTimeout, StatusErrored} {
		require.False(t, (&CaseOutcome{Status: status}).Passed())
	}
}
