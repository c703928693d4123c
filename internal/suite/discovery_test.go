package suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amitnovick/compilation-ex4-testers/internal/models"
)

// addCase writes a fixture pair for a case under a category directory.
func addCase(t *testing.T, categoryDir, stem, input, expected string) {
	t.Helper()

	testsDir := filepath.Join(categoryDir, testsDirName)
	expectedOut := filepath.Join(categoryDir, expectedDirName)
	require.NoError(t, os.MkdirAll(testsDir, 0o755))
	require.NoError(t, os.MkdirAll(expectedOut, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(testsDir, stem+inputSuffix), []byte(input), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(expectedOut, stem+expectedSuffix), []byte(expected), 0o644))
}

func TestDiscover_OfficialAndUnofficial(t *testing.T) {
	spec := models.DefaultSuiteSpec()
	suiteDir := t.TempDir()

	addCase(t, filepath.Join(suiteDir, officialDirName), "Official01", "int g;", "g\n")
	addCase(t, filepath.Join(suiteDir, unofficialDirName, "while"), "While01", "...", "!OK\n")
	addCase(t, filepath.Join(suiteDir, unofficialDirName, "global"), "Global01", "...", "g\n")

	categories, err := Discover(suiteDir, spec, true, true)
	require.NoError(t, err)
	require.Len(t, categories, 3)

	// Official first, then pinned spec order for unofficial categories.
	require.Equal(t, OfficialCategory, categories[0].Name)
	require.Equal(t, "global", categories[1].Name)
	require.Equal(t, "while", categories[2].Name)

	tc := categories[0].Cases[0]
	require.Equal(t, "Official01", tc.CaseName)
	require.Equal(t, OfficialCategory, tc.Category)
	require.Equal(t, "g\n", tc.Expected)
}

func TestDiscover_GroupSelection(t *testing.T) {
	spec := models.DefaultSuiteSpec()
	suiteDir := t.TempDir()
	addCase(t, filepath.Join(suiteDir, officialDirName), "Official01", "a", "x\n")
	addCase(t, filepath.Join(suiteDir, unofficialDirName, "if"), "If01", "b", "y\n")

	officialOnly, err := Discover(suiteDir, spec, true, false)
	require.NoError(t, err)
	require.Len(t, officialOnly, 1)
	require.Equal(t, OfficialCategory, officialOnly[0].Name)

	unofficialOnly, err := Discover(suiteDir, spec, false, true)
	require.NoError(t, err)
	require.Len(t, unofficialOnly, 1)
	require.Equal(t, "if", unofficialOnly[0].Name)
}

func TestDiscover_CasesSortedByName(t *testing.T) {
	spec := models.DefaultSuiteSpec()
	suiteDir := t.TempDir()
	catDir := filepath.Join(suiteDir, unofficialDirName, "local")

	// Written out of order on purpose.
	addCase(t, catDir, "Test03", "c", "3\n")
	addCase(t, catDir, "Test01", "a", "1\n")
	addCase(t, catDir, "Test02", "b", "2\n")

	categories, err := Discover(suiteDir, spec, false, true)
	require.NoError(t, err)
	require.Len(t, categories, 1)

	var names []string
	for _, tc := range categories[0].Cases {
		names = append(names, tc.CaseName)
	}
	require.Equal(t, []string{"Test01", "Test02", "Test03"}, names)
}

func TestDiscover_UnpinnedCategoriesSortAfterPinned(t *testing.T) {
	spec := models.DefaultSuiteSpec()
	suiteDir := t.TempDir()
	addCase(t, filepath.Join(suiteDir, unofficialDirName, "zeta"), "Z01", "z", "z\n")
	addCase(t, filepath.Join(suiteDir, unofficialDirName, "alpha"), "A01", "a", "a\n")
	addCase(t, filepath.Join(suiteDir, unofficialDirName, "shadow"), "S01", "s", "s\n")

	categories, err := Discover(suiteDir, spec, false, true)
	require.NoError(t, err)

	var names []string
	for _, cat := range categories {
		names = append(names, cat.Name)
	}
	// shadow is pinned by the default spec; alpha and zeta follow in name order.
	require.Equal(t, []string{"shadow", "alpha", "zeta"}, names)
}

func TestDiscover_MissingExpectedOutputIsAnError(t *testing.T) {
	spec := models.DefaultSuiteSpec()
	suiteDir := t.TempDir()
	testsDir := filepath.Join(suiteDir, unofficialDirName, "edge", testsDirName)
	require.NoError(t, os.MkdirAll(testsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(testsDir, "Orphan.txt"), []byte("x"), 0o644))

	_, err := Discover(suiteDir, spec, false, true)
	require.ErrorContains(t, err, "no expected output file")
	require.ErrorContains(t, err, "Orphan")
}

func TestDiscover_EmptyGroupsAreOmitted(t *testing.T) {
	spec := models.DefaultSuiteSpec()
	suiteDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(suiteDir, unofficialDirName, "empty", testsDirName), 0o755))
	addCase(t, filepath.Join(suiteDir, unofficialDirName, "ok"), "Ok01", "x", "!OK\n")

	categories, err := Discover(suiteDir, spec, true, true)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	require.Equal(t, "ok", categories[0].Name)
}

func TestDiscover_MissingSuiteDir(t *testing.T) {
	spec := models.DefaultSuiteSpec()
	_, err := Discover(filepath.Join(t.TempDir(), "absent"), spec, true, true)
	require.Error(t, err)
}
