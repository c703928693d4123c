// Package suite discovers test fixtures and orchestrates a full evaluation
// run over a built analyzer artifact.
package suite

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/amitnovick/compilation-ex4-testers/internal/models"
)

// Fixture layout constants, fixed by the course test-suite convention.
const (
	officialDirName   = "official"
	unofficialDirName = "unofficial"
	testsDirName      = "tests"
	expectedDirName   = "expected_output"
	inputSuffix       = ".txt"
	expectedSuffix    = "_Expected_Output.txt"
)

// OfficialCategory is the category name assigned to the flat official fixture
// group.
const OfficialCategory = "official"

// Category is a named group of test cases with a stable case order.
type Category struct {
	Name  string
	Cases []models.TestCase
}

// Discover walks the suite root and loads every fixture pair. The official
// group (if present and requested) becomes one category; each directory under
// unofficial/ becomes a category. Category order follows pinned (spec) order
// first, then name order; cases are sorted by case name, so filesystem
// traversal order never leaks into the report. An input file without its
// expected-output counterpart is a discovery error, not a runtime failure.
func Discover(suiteDir string, spec *models.SuiteSpec, includeOfficial, includeUnofficial bool) ([]Category, error) {
	if _, err := os.Stat(suiteDir); err != nil {
		return nil, fmt.Errorf("suite directory: %w", err)
	}

	var categories []Category

	if includeOfficial {
		officialDir := filepath.Join(suiteDir, officialDirName)
		if dirExists(officialDir) {
			cases, err := loadCategory(OfficialCategory, officialDir)
			if err != nil {
				return nil, err
			}
			if len(cases) > 0 {
				categories = append(categories, Category{Name: OfficialCategory, Cases: cases})
			}
		}
	}

	if includeUnofficial {
		unofficial, err := discoverUnofficial(filepath.Join(suiteDir, unofficialDirName), spec.Categories)
		if err != nil {
			return nil, err
		}
		categories = append(categories, unofficial...)
	}

	return categories, nil
}

func discoverUnofficial(root string, pinned []string) ([]Category, error) {
	if !dirExists(root) {
		return nil, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}

	available := map[string]bool{}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			available[e.Name()] = true
		}
	}

	// Pinned categories first, remaining ones in name order.
	var names []string
	for _, p := range pinned {
		if available[p] {
			names = append(names, p)
			delete(available, p)
		}
	}
	var rest []string
	for name := range available {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	names = append(names, rest...)

	var categories []Category
	for _, name := range names {
		cases, err := loadCategory(name, filepath.Join(root, name))
		if err != nil {
			return nil, err
		}
		if len(cases) > 0 {
			categories = append(categories, Category{Name: name, Cases: cases})
		}
	}
	return categories, nil
}

// loadCategory pairs every input under categoryDir/tests with its expected
// output under categoryDir/expected_output.
func loadCategory(name, categoryDir string) ([]models.TestCase, error) {
	testsDir := filepath.Join(categoryDir, testsDirName)
	expectedDir := filepath.Join(categoryDir, expectedDirName)

	if !dirExists(testsDir) {
		return nil, nil
	}

	inputs, err := filepath.Glob(filepath.Join(testsDir, "*"+inputSuffix))
	if err != nil {
		return nil, err
	}
	sort.Strings(inputs)

	var cases []models.TestCase
	for _, inputPath := range inputs {
		stem := strings.TrimSuffix(filepath.Base(inputPath), inputSuffix)
		expectedPath := filepath.Join(expectedDir, stem+expectedSuffix)

		expected, err := os.ReadFile(expectedPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("category %s: case %s has no expected output file (%s)",
					name, stem, filepath.Base(expectedPath))
			}
			return nil, fmt.Errorf("category %s: reading expected output for %s: %w", name, stem, err)
		}

		cases = append(cases, models.TestCase{
			Category:  name,
			CaseName:  stem,
			InputPath: inputPath,
			Expected:  string(expected),
		})
	}

	sort.Slice(cases, func(i, j int) bool { return cases[i].CaseName < cases[j].CaseName })
	return cases, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
