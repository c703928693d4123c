package suite

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/amitnovick/compilation-ex4-testers/internal/models"
)

// Filter restricts discovered categories to one category name and/or a
// case-name pattern. Filtering changes which cases run, never how they are
// compared. An empty filter returns the input unchanged.
func Filter(categories []Category, categoryName, casePattern string) ([]Category, error) {
	if categoryName == "" && casePattern == "" {
		return categories, nil
	}

	var filtered []Category
	for _, cat := range categories {
		if categoryName != "" && cat.Name != categoryName {
			continue
		}

		cases, err := filterCases(cat.Cases, casePattern)
		if err != nil {
			return nil, err
		}
		if len(cases) > 0 {
			filtered = append(filtered, Category{Name: cat.Name, Cases: cases})
		}
	}

	if len(filtered) == 0 {
		return nil, fmt.Errorf("no test cases match category=%q filter=%q", categoryName, casePattern)
	}
	return filtered, nil
}

func filterCases(cases []models.TestCase, pattern string) ([]models.TestCase, error) {
	if pattern == "" {
		return cases, nil
	}

	var matched []models.TestCase
	for _, tc := range cases {
		ok, err := matchesCase(tc.CaseName, pattern)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, tc)
		}
	}
	return matched, nil
}

// matchesCase accepts glob patterns and falls back to substring matching for
// plain strings.
func matchesCase(name, pattern string) (bool, error) {
	if strings.ContainsAny(pattern, "*?[") {
		ok, err := filepath.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid case filter pattern %q: %w", pattern, err)
		}
		return ok, nil
	}
	return strings.Contains(name, pattern), nil
}
