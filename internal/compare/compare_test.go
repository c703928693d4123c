package compare

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amitnovick/compilation-ex4-testers/internal/models"
)

func TestCompare_ExactMatch(t *testing.T) {
	outcome := Compare("g\n", "g\n")
	require.Equal(t, models.StatusPassed, outcome.Status)
	require.Empty(t, outcome.Diff)
}

func TestCompare_TrailingNewlineIgnored(t *testing.T) {
	t.Run("actual missing trailing newline", func(t *testing.T) {
		outcome := Compare("g", "g\n")
		require.Equal(t, models.StatusPassed, outcome.Status)
	})

	t.Run("extra trailing newlines", func(t *testing.T) {
		outcome := Compare("g\n\n\n", "g\n")
		require.Equal(t, models.StatusPassed, outcome.Status)
	})

	t.Run("interior newlines still significant", func(t *testing.T) {
		outcome := Compare("a\n\nb\n", "a\nb\n")
		require.Equal(t, models.StatusFailed, outcome.Status)
	})
}

func TestCompare_CRLFNormalized(t *testing.T) {
	outcome := Compare("a\r\nb\r\n", "a\nb\n")
	require.Equal(t, models.StatusPassed, outcome.Status)
}

func TestCompare_SentinelNoFindings(t *testing.T) {
	// The "no findings" token is just payload bytes: it matches itself and
	// nothing else.
	require.Equal(t, models.StatusPassed, Compare("!OK\n", "!OK\n").Status)
	require.Equal(t, models.StatusFailed, Compare("g\n", "!OK\n").Status)
}

func TestCompare_SingleCharacterFlip(t *testing.T) {
	outcome := Compare("h\n", "g\n")
	require.Equal(t, models.StatusFailed, outcome.Status)
	require.NotEmpty(t, outcome.Diff)
	require.Contains(t, outcome.Diff, `"g"`)
	require.Contains(t, outcome.Diff, `"h"`)
}

func TestCompare_MidContentWhitespaceNotCollapsed(t *testing.T) {
	outcome := Compare("g \n", "g\n")
	require.Equal(t, models.StatusFailed, outcome.Status)
}

func TestCompare_Idempotent(t *testing.T) {
	first := Compare("a\nb\n", "a\nc\n")
	second := Compare("a\nb\n", "a\nc\n")
	require.Equal(t, first, second)
}

func TestCompare_DiffShowsMissingLines(t *testing.T) {
	outcome := Compare("a\n", "a\nb\n")
	require.Equal(t, models.StatusFailed, outcome.Status)
	require.Contains(t, outcome.Diff, "line 2:")
	require.Contains(t, outcome.Diff, "<no line>")
}

func TestCompare_PreservesRawPayloadsOnFailure(t *testing.T) {
	outcome := Compare("actual\n", "expected\n")
	require.Equal(t, "expected\n", outcome.Expected)
	require.Equal(t, "actual\n", outcome.Actual)
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "a\nb", Normalize("a\r\nb\r\n"))
	require.Equal(t, "a\nb", Normalize("a\nb\n\n\n"))
	require.Equal(t, "", Normalize("\n"))
	require.Equal(t, "", Normalize(""))
}
