// Package compare decides pass/fail for one case by normalizing and comparing
// the analyzer's report against the expected fixture payload.
package compare

import (
	"fmt"
	"strings"

	"github.com/amitnovick/compilation-ex4-testers/internal/models"
)

// Compare normalizes both payloads and returns a CaseOutcome: StatusPassed on
// an exact match, StatusFailed with a line-oriented diff otherwise. Only
// line-ending and trailing-newline differences are forgiven; content is
// compared byte-for-byte because the analyzer's report format is fixed. The
// "no findings" sentinel and item listings are both just payload bytes — no
// semantic interpretation happens here. Compare is pure and idempotent.
func Compare(actual, expected string) models.CaseOutcome {
	normActual := Normalize(actual)
	normExpected := Normalize(expected)

	if normActual == normExpected {
		return models.CaseOutcome{Status: models.StatusPassed}
	}

	return models.CaseOutcome{
		Status:   models.StatusFailed,
		Expected: expected,
		Actual:   actual,
		Diff:     diffLines(normExpected, normActual),
	}
}

// Normalize converts CRLF line endings to LF and strips the trailing-newline
// run at end of payload. Interior whitespace is untouched.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimRight(s, "\n")
}

// diffLines renders a line-oriented expected-vs-actual diff. Matching lines
// are elided; differing or missing lines are shown with their line number.
func diffLines(expected, actual string) string {
	expectedLines := splitLines(expected)
	actualLines := splitLines(actual)

	n := len(expectedLines)
	if len(actualLines) > n {
		n = len(actualLines)
	}

	var b strings.Builder
	for i := 0; i < n; i++ {
		var exp, act string
		hasExp := i < len(expectedLines)
		hasAct := i < len(actualLines)
		if hasExp {
			exp = expectedLines[i]
		}
		if hasAct {
			act = actualLines[i]
		}
		if hasExp && hasAct && exp == act {
			continue
		}

		fmt.Fprintf(&b, "line %d:\n", i+1)
		if hasExp {
			fmt.Fprintf(&b, "  - expected: %q\n", exp)
		} else {
			b.WriteString("  - expected: <no line>\n")
		}
		if hasAct {
			fmt.Fprintf(&b, "  + actual:   %q\n", act)
		} else {
			b.WriteString("  + actual:   <no line>\n")
		}
	}
	return b.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
